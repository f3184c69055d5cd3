package controllers

import (
	"errors"
	"net/http"

	"journal-workflow-api/services"

	"github.com/gin-gonic/gin"
)

// respondWorkflowError maps the service error taxonomy onto HTTP statuses.
// Every error reaching this point means the operation applied nothing.
func respondWorkflowError(c *gin.Context, err error) {
	var notAllowed *services.DecisionNotAllowedError
	var persistenceErr *services.PersistenceError

	switch {
	case errors.Is(err, services.ErrSubmissionNotFound),
		errors.Is(err, services.ErrRoundNotFound),
		errors.Is(err, services.ErrAssignmentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, services.ErrAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})

	case errors.As(err, &notAllowed):
		c.JSON(http.StatusConflict, gin.H{
			"error":           notAllowed.Error(),
			"legal_decisions": notAllowed.LegalNames(),
		})

	case errors.Is(err, services.ErrConcurrentModification):
		c.JSON(http.StatusConflict, gin.H{
			"error":     err.Error(),
			"retryable": true,
		})

	case errors.Is(err, services.ErrRoundConflict),
		errors.Is(err, services.ErrRoundNotActive),
		errors.Is(err, services.ErrInvalidReviewTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.As(err, &persistenceErr):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Storage unavailable, please retry"})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
