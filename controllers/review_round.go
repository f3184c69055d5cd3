package controllers

import (
	"journal-workflow-api/config"
	"journal-workflow-api/middleware"
	"journal-workflow-api/models"
	"journal-workflow-api/services"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type OpenRoundRequest struct {
	Stage string `json:"stage" binding:"required"`
}

type AssignReviewerRequest struct {
	ReviewerID      int        `json:"reviewer_id" binding:"required"`
	DueDate         *time.Time `json:"due_date"`
	ResponseDueDate *time.Time `json:"response_due_date"`
}

// OpenRound opens the next review round for a submission and stage.
func OpenRound(c *gin.Context) {
	submissionID, ok := submissionIDParam(c)
	if !ok {
		return
	}
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	var req OpenRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	stage := models.SubmissionStage(req.Stage)
	if !stage.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid workflow stage"})
		return
	}

	if _, err := services.NewAccessGuard(config.DB).Authorize(submissionID, userID); err != nil {
		respondWorkflowError(c, err)
		return
	}

	round, err := services.NewReviewRoundService(config.DB).OpenRound(submissionID, stage, userID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"round":   round,
	})
}

// CloseRound closes a review round and cancels outstanding assignments.
func CloseRound(c *gin.Context) {
	roundID, editorID, ok := roundWithEditor(c)
	if !ok {
		return
	}

	if err := services.NewReviewRoundService(config.DB).CloseRound(roundID, editorID); err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Review round closed",
	})
}

// AssignReviewer adds a reviewer to an active round.
func AssignReviewer(c *gin.Context) {
	roundID, editorID, ok := roundWithEditor(c)
	if !ok {
		return
	}

	var req AssignReviewerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	assignment, err := services.NewReviewRoundService(config.DB).
		AssignReviewer(roundID, req.ReviewerID, req.DueDate, req.ResponseDueDate, editorID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"assignment": assignment,
	})
}

// GetReviewRounds lists a submission's rounds with their assignments.
func GetReviewRounds(c *gin.Context) {
	submissionID, ok := submissionIDParam(c)
	if !ok {
		return
	}

	rounds, err := services.NewReviewRoundService(config.DB).RoundsForSubmission(submissionID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"rounds":  rounds,
		"total":   len(rounds),
	})
}

// roundWithEditor resolves the round parameter and authorizes the caller
// as a deciding editor on the round's submission.
func roundWithEditor(c *gin.Context) (int, int, bool) {
	roundID, err := strconv.Atoi(c.Param("round_id"))
	if err != nil || roundID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid round ID"})
		return 0, 0, false
	}
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return 0, 0, false
	}

	var round models.ReviewRound
	if err := config.DB.Where("round_id = ?", roundID).First(&round).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review round not found"})
		return 0, 0, false
	}

	capability, err := services.NewAccessGuard(config.DB).Authorize(round.SubmissionID, userID)
	if err != nil {
		respondWorkflowError(c, err)
		return 0, 0, false
	}
	if !capability.CanDecide {
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		return 0, 0, false
	}

	return roundID, userID, true
}
