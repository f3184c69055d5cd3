package models

import "time"

// Activity log categories.
const (
	ActivityCategoryDecision       = "decision"
	ActivityCategoryRecommendation = "recommendation"
	ActivityCategoryRound          = "round"
)

// ActivityLogEntry is one append-only audit trail record. Every
// state-changing workflow operation writes exactly one entry inside the
// same transaction.
type ActivityLogEntry struct {
	EntryID      int       `gorm:"primaryKey;column:entry_id" json:"entry_id"`
	SubmissionID int       `gorm:"column:submission_id" json:"submission_id"`
	ActorID      int       `gorm:"column:actor_id" json:"actor_id"`
	Category     string    `gorm:"column:category" json:"category"`
	Message      string    `gorm:"column:message" json:"message"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName specifies the table name for ActivityLogEntry.
func (ActivityLogEntry) TableName() string {
	return "submission_activity_logs"
}
