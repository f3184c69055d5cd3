package controllers

import (
	"journal-workflow-api/config"
	"journal-workflow-api/middleware"
	"journal-workflow-api/models"
	"journal-workflow-api/services"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type DecisionRequest struct {
	Decision      string `json:"decision" binding:"required"`
	Stage         string `json:"stage"`
	ReviewRoundID *int   `json:"review_round_id"`
	Notes         string `json:"notes"`
}

type RecommendationRequest struct {
	Recommendation string `json:"recommendation" binding:"required"`
	ReviewRoundID  int    `json:"review_round_id" binding:"required"`
	Notes          string `json:"notes"`
}

// GetAvailableDecisions returns the legal decision set for the caller's
// capability on this submission. Clients render exactly this set; legality
// is never re-derived outside the decision table.
func GetAvailableDecisions(c *gin.Context) {
	submissionID, ok := submissionIDParam(c)
	if !ok {
		return
	}
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	capability, err := services.NewAccessGuard(config.DB).Authorize(submissionID, userID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	submission, rows, err := services.NewDecisionEngine(config.DB).AvailableDecisions(submissionID, capability)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	decisions := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		entry := gin.H{
			"decision":           row.Decision.Name(),
			"label":              row.Decision.Label(),
			"requires_new_round": row.RequiresNewRound,
		}
		if row.TargetStage != nil {
			entry["target_stage"] = *row.TargetStage
		}
		if row.TargetStatus != nil {
			entry["target_status"] = *row.TargetStatus
		}
		decisions = append(decisions, entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"current_stage": submission.CurrentStage,
		"status":        submission.Status,
		"capability":    capability,
		"decisions":     decisions,
	})
}

// ApplyDecision records one editor decision as an atomic transition.
func ApplyDecision(c *gin.Context) {
	submissionID, ok := submissionIDParam(c)
	if !ok {
		return
	}
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	decision, ok := models.ParseEditorDecision(req.Decision)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown decision code"})
		return
	}

	var expectedStage *models.SubmissionStage
	if req.Stage != "" {
		stage := models.SubmissionStage(req.Stage)
		if !stage.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown stage"})
			return
		}
		expectedStage = &stage
	}

	capability, err := services.NewAccessGuard(config.DB).Authorize(submissionID, userID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	result, err := services.NewDecisionEngine(config.DB).ApplyDecision(services.DecisionInput{
		SubmissionID:   submissionID,
		Decision:       decision,
		ExpectedStage:  expectedStage,
		ReviewRoundID:  req.ReviewRoundID,
		ActingEditorID: userID,
		Capability:     capability,
		Notes:          strings.TrimSpace(req.Notes),
	})
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	// Notification happens after the transaction committed; it is
	// best-effort and never part of the decision itself.
	var submission models.Submission
	if err := config.DB.Where("submission_id = ?", submissionID).First(&submission).Error; err == nil {
		services.NewNotificationService(config.DB).NotifyDecision(&submission, result)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  result,
	})
}

// RecordRecommendation records a non-binding recommendation from a
// recommend-only participant.
func RecordRecommendation(c *gin.Context) {
	submissionID, ok := submissionIDParam(c)
	if !ok {
		return
	}
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	var req RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	recommendation, ok := models.ParseEditorRecommendation(req.Recommendation)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown recommendation code"})
		return
	}

	capability, err := services.NewAccessGuard(config.DB).Authorize(submissionID, userID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	result, err := services.NewDecisionEngine(config.DB).RecordRecommendation(services.RecommendationInput{
		SubmissionID:   submissionID,
		ReviewRoundID:  req.ReviewRoundID,
		Recommendation: recommendation,
		ActingEditorID: userID,
		Capability:     capability,
		Notes:          strings.TrimSpace(req.Notes),
	})
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  result,
	})
}

// GetDecisionHistory returns the submission's decisions, most recent last.
func GetDecisionHistory(c *gin.Context) {
	submissionID, ok := submissionIDParam(c)
	if !ok {
		return
	}
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	if _, err := services.NewAccessGuard(config.DB).Authorize(submissionID, userID); err != nil {
		respondWorkflowError(c, err)
		return
	}

	decisions, err := services.NewDecisionEngine(config.DB).GetDecisionHistory(submissionID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"decisions": decisions,
		"total":     len(decisions),
	})
}
