package services

import (
	"time"

	"journal-workflow-api/models"

	"gorm.io/gorm"
)

// ActivityLogService appends audit trail entries. Writes always go through
// the caller's transaction: if the entry cannot be stored the whole
// enclosing operation fails, the log is never best-effort.
type ActivityLogService struct {
	db *gorm.DB
}

func NewActivityLogService(db *gorm.DB) *ActivityLogService {
	return &ActivityLogService{db: db}
}

func (s *ActivityLogService) recordTx(tx *gorm.DB, submissionID, actorID int, category, message string) error {
	entry := models.ActivityLogEntry{
		SubmissionID: submissionID,
		ActorID:      actorID,
		Category:     category,
		Message:      message,
		CreatedAt:    time.Now(),
	}
	if err := tx.Create(&entry).Error; err != nil {
		return persistence("record activity log entry", err)
	}
	return nil
}

// ListForSubmission returns the audit trail in commit order, oldest first.
func (s *ActivityLogService) ListForSubmission(submissionID int) ([]models.ActivityLogEntry, error) {
	var entries []models.ActivityLogEntry
	err := s.db.Where("submission_id = ?", submissionID).
		Order("entry_id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, persistence("list activity log", err)
	}
	return entries, nil
}
