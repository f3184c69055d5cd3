package controllers

import (
	"journal-workflow-api/config"
	"journal-workflow-api/middleware"
	"journal-workflow-api/models"
	"journal-workflow-api/services"
	"journal-workflow-api/utils"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CreateSubmissionRequest struct {
	JournalID int    `json:"journal_id" binding:"required"`
	Title     string `json:"title" binding:"required"`
}

// CreateSubmission handles author intake: a new submission starts at the
// submission stage with status queued.
func CreateSubmission(c *gin.Context) {
	var req CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	title := utils.SanitizeInput(req.Title)
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	now := time.Now()
	submission := models.Submission{
		SubmissionNumber: "SUB-" + strings.ToUpper(uuid.NewString()[:8]),
		JournalID:        req.JournalID,
		AuthorID:         userID,
		Title:            title,
		CurrentStage:     models.StageSubmission,
		Status:           models.StatusQueued,
		Version:          1,
		SubmittedAt:      &now,
		CreateAt:         now,
		UpdateAt:         now,
	}

	if err := config.DB.Create(&submission).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create submission"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"submission": submission,
	})
}

// GetSubmissions lists submissions with the dashboard filters: stage,
// status, archived and journal.
func GetSubmissions(c *gin.Context) {
	query := config.DB.Preload("Author").Where("delete_at IS NULL")

	if stage := strings.TrimSpace(c.Query("stage")); stage != "" {
		if !models.SubmissionStage(stage).Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stage filter"})
			return
		}
		query = query.Where("current_stage = ?", stage)
	}
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		query = query.Where("status = ?", status)
	}
	if archived := strings.TrimSpace(c.Query("archived")); archived != "" {
		query = query.Where("is_archived = ?", archived == "true")
	}
	if journalID := strings.TrimSpace(c.Query("journal_id")); journalID != "" {
		id, err := strconv.Atoi(journalID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid journal ID"})
			return
		}
		query = query.Where("journal_id = ?", id)
	}

	var submissions []models.Submission
	if err := query.Order("submitted_at DESC").Find(&submissions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch submissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"submissions": submissions,
		"total":       len(submissions),
	})
}

// GetSubmission returns one submission with its review rounds.
func GetSubmission(c *gin.Context) {
	submissionID, ok := submissionIDParam(c)
	if !ok {
		return
	}

	var submission models.Submission
	err := config.DB.Preload("Author").
		Where("submission_id = ? AND delete_at IS NULL", submissionID).
		First(&submission).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}

	rounds, err := services.NewReviewRoundService(config.DB).RoundsForSubmission(submissionID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"submission":    submission,
		"review_rounds": rounds,
	})
}

// GetActivityLog returns the submission's audit trail in commit order.
func GetActivityLog(c *gin.Context) {
	submissionID, ok := submissionIDParam(c)
	if !ok {
		return
	}

	entries, err := services.NewActivityLogService(config.DB).ListForSubmission(submissionID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"activity": entries,
		"total":    len(entries),
	})
}

func submissionIDParam(c *gin.Context) (int, bool) {
	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil || submissionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return 0, false
	}
	return submissionID, true
}
