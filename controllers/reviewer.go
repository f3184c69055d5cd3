package controllers

import (
	"journal-workflow-api/config"
	"journal-workflow-api/middleware"
	"journal-workflow-api/models"
	"journal-workflow-api/services"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type AssignmentResponseRequest struct {
	Accept *bool `json:"accept" binding:"required"`
}

type SubmitReviewRequest struct {
	Recommendation string `json:"recommendation" binding:"required"`
}

// GetReviewerAssignments lists the caller's review assignments.
func GetReviewerAssignments(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	assignments, err := services.NewReviewRoundService(config.DB).AssignmentsForReviewer(userID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"assignments": assignments,
		"total":       len(assignments),
	})
}

// RespondToAssignment records the reviewer accepting or declining the
// review invitation.
func RespondToAssignment(c *gin.Context) {
	assignmentID, userID, ok := assignmentWithReviewer(c)
	if !ok {
		return
	}

	var req AssignmentResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Accept == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	assignment, err := services.NewReviewRoundService(config.DB).
		RespondToAssignment(assignmentID, userID, *req.Accept)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"assignment": assignment,
	})
}

// SubmitReview records the reviewer's review with its recommendation.
func SubmitReview(c *gin.Context) {
	assignmentID, userID, ok := assignmentWithReviewer(c)
	if !ok {
		return
	}

	var req SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	recommendation, ok := models.ParseEditorRecommendation(req.Recommendation)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown recommendation code"})
		return
	}

	assignment, err := services.NewReviewRoundService(config.DB).
		SubmitReview(assignmentID, userID, recommendation)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"assignment": assignment,
	})
}

func assignmentWithReviewer(c *gin.Context) (int, int, bool) {
	assignmentID, err := strconv.Atoi(c.Param("assignment_id"))
	if err != nil || assignmentID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignment ID"})
		return 0, 0, false
	}
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return 0, 0, false
	}
	return assignmentID, userID, true
}
