package models

import "time"

// ReviewRoundStatus is the lifecycle state of a review round.
type ReviewRoundStatus string

const (
	RoundActive ReviewRoundStatus = "active"
	RoundClosed ReviewRoundStatus = "closed"
)

// ReviewRound is one numbered reviewing cycle for a submission/stage pair.
// Round numbers start at 1 and increase per (submission, stage); at most
// one round per pair may be active at a time. The composite unique index
// backs the in-transaction checks: two transactions that both observe the
// same latest round compute the same next number, so the one that commits
// second fails on the index instead of creating a duplicate.
type ReviewRound struct {
	RoundID      int               `gorm:"primaryKey;column:round_id" json:"round_id"`
	SubmissionID int               `gorm:"column:submission_id;uniqueIndex:uniq_round_number_per_stage" json:"submission_id"`
	Stage        SubmissionStage   `gorm:"column:stage;uniqueIndex:uniq_round_number_per_stage" json:"stage"`
	RoundNumber  int               `gorm:"column:round_number;uniqueIndex:uniq_round_number_per_stage" json:"round"`
	Status       ReviewRoundStatus `gorm:"column:status" json:"status"`
	StartedAt    time.Time         `gorm:"column:started_at" json:"started_at"`
	ClosedAt     *time.Time        `gorm:"column:closed_at" json:"closed_at,omitempty"`
	Notes        *string           `gorm:"column:notes" json:"notes,omitempty"`

	// Relations
	Assignments []ReviewAssignment `gorm:"foreignKey:RoundID" json:"assignments,omitempty"`
}

// TableName specifies the table name for ReviewRound.
func (ReviewRound) TableName() string {
	return "review_rounds"
}

// ReviewAssignmentStatus is the state of one reviewer's task in a round.
type ReviewAssignmentStatus string

const (
	ReviewAwaitingResponse ReviewAssignmentStatus = "awaiting_response"
	ReviewDeclined         ReviewAssignmentStatus = "declined"
	ReviewAccepted         ReviewAssignmentStatus = "accepted"
	ReviewResponseOverdue  ReviewAssignmentStatus = "response_overdue"
	ReviewOverdue          ReviewAssignmentStatus = "review_overdue"
	ReviewReceived         ReviewAssignmentStatus = "received"
	ReviewComplete         ReviewAssignmentStatus = "complete"
	ReviewCancelled        ReviewAssignmentStatus = "cancelled"
	ReviewThanked          ReviewAssignmentStatus = "thanked"
)

// reviewStatusRank orders the non-terminal progression. Transitions may
// only move forward along this sequence; declined and cancelled are
// absorbing side exits.
var reviewStatusRank = map[ReviewAssignmentStatus]int{
	ReviewAwaitingResponse: 0,
	ReviewAccepted:         1,
	ReviewResponseOverdue:  1,
	ReviewOverdue:          2,
	ReviewReceived:         3,
	ReviewComplete:         4,
	ReviewThanked:          5,
}

// Terminal reports whether no further reviewer action is possible.
func (s ReviewAssignmentStatus) Terminal() bool {
	switch s {
	case ReviewDeclined, ReviewCancelled, ReviewThanked:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from s to next respects the
// monotonic status sequence.
func (s ReviewAssignmentStatus) CanTransitionTo(next ReviewAssignmentStatus) bool {
	if s.Terminal() {
		return false
	}
	if next == ReviewDeclined {
		return s == ReviewAwaitingResponse || s == ReviewResponseOverdue
	}
	if next == ReviewCancelled {
		return true
	}
	from, ok := reviewStatusRank[s]
	if !ok {
		return false
	}
	to, ok := reviewStatusRank[next]
	if !ok {
		return false
	}
	return to > from
}

// ReviewAssignment is a reviewer's task within a review round.
type ReviewAssignment struct {
	AssignmentID    int                    `gorm:"primaryKey;column:assignment_id" json:"assignment_id"`
	RoundID         int                    `gorm:"column:round_id" json:"round_id"`
	ReviewerID      int                    `gorm:"column:reviewer_id" json:"reviewer_id"`
	AssignmentDate  time.Time              `gorm:"column:assignment_date" json:"assignment_date"`
	DueDate         *time.Time             `gorm:"column:due_date" json:"due_date,omitempty"`
	ResponseDueDate *time.Time             `gorm:"column:response_due_date" json:"response_due_date,omitempty"`
	Status          ReviewAssignmentStatus `gorm:"column:status" json:"status"`
	Recommendation  *string                `gorm:"column:recommendation" json:"recommendation,omitempty"`
	SubmittedAt     *time.Time             `gorm:"column:submitted_at" json:"submitted_at,omitempty"`

	// Relations
	Reviewer *User `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}

// TableName specifies the table name for ReviewAssignment.
func (ReviewAssignment) TableName() string {
	return "review_assignments"
}
