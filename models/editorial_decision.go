package models

import "time"

// EditorialDecision is the immutable record of one decision event. Rows
// are append-only and never updated after creation.
type EditorialDecision struct {
	DecisionID   int             `gorm:"primaryKey;column:decision_id" json:"decision_id"`
	SubmissionID int             `gorm:"column:submission_id" json:"submission_id"`
	Stage        SubmissionStage `gorm:"column:stage" json:"stage"`
	Decision     EditorDecision  `gorm:"column:decision" json:"decision"`
	RoundID      *int            `gorm:"column:round_id" json:"round_id,omitempty"`
	EditorID     int             `gorm:"column:editor_id" json:"editor_id"`
	Notes        *string         `gorm:"column:notes" json:"notes,omitempty"`
	DecidedAt    time.Time       `gorm:"column:decided_at" json:"decided_at"`

	// Relations
	Editor *User `gorm:"foreignKey:EditorID" json:"editor,omitempty"`
}

// TableName specifies the table name for EditorialDecision.
func (EditorialDecision) TableName() string {
	return "editorial_decisions"
}
