package services

import (
	"errors"

	"journal-workflow-api/models"

	"gorm.io/gorm"
)

// AccessGuard resolves what an actor may do on one submission from their
// roles on the submission's journal. It fails closed: no role, no access.
type AccessGuard struct {
	db *gorm.DB
}

func NewAccessGuard(db *gorm.DB) *AccessGuard {
	return &AccessGuard{db: db}
}

// Authorize returns the actor's capability for the submission, or
// ErrAccessDenied if the actor holds no role that can participate in
// editorial decisions on the submission's journal.
func (g *AccessGuard) Authorize(submissionID, actorID int) (RoleCapability, error) {
	var submission models.Submission
	err := g.db.Select("submission_id", "journal_id").
		Where("submission_id = ? AND delete_at IS NULL", submissionID).
		First(&submission).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RoleCapability{}, ErrSubmissionNotFound
		}
		return RoleCapability{}, persistence("load submission for authorization", err)
	}

	var roles []models.JournalRole
	err = g.db.Where("journal_id = ? AND user_id = ? AND delete_at IS NULL",
		submission.JournalID, actorID).
		Find(&roles).Error
	if err != nil {
		return RoleCapability{}, persistence("load journal roles", err)
	}

	var capability RoleCapability
	for _, role := range roles {
		switch role.Role {
		case models.RoleEditor, models.RoleSectionEditor:
			capability.CanDecide = true
			capability.CanRecommend = true
		case models.RoleRecommendOnly:
			capability.CanRecommend = true
		}
	}

	if !capability.CanDecide && !capability.CanRecommend {
		return RoleCapability{}, ErrAccessDenied
	}
	return capability, nil
}
