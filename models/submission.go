package models

import "time"

// Submission is the unit under editorial control. It is never physically
// deleted; declined submissions are archived in place.
type Submission struct {
	SubmissionID     int              `gorm:"primaryKey;column:submission_id" json:"submission_id"`
	SubmissionNumber string           `gorm:"column:submission_number;unique" json:"submission_number"`
	JournalID        int              `gorm:"column:journal_id" json:"journal_id"`
	AuthorID         int              `gorm:"column:author_id" json:"author_id"`
	Title            string           `gorm:"column:title" json:"title"`
	CurrentStage     SubmissionStage  `gorm:"column:current_stage" json:"current_stage"`
	Status           SubmissionStatus `gorm:"column:status" json:"status"`
	IsArchived       bool             `gorm:"column:is_archived" json:"is_archived"`
	Version          int              `gorm:"column:version" json:"-"`
	SubmittedAt      *time.Time       `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	CreateAt         time.Time        `gorm:"column:create_at" json:"create_at"`
	UpdateAt         time.Time        `gorm:"column:update_at" json:"update_at"`
	DeleteAt         *time.Time       `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

// TableName specifies the table name for Submission.
func (Submission) TableName() string {
	return "submissions"
}
