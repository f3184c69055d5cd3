package services

import (
	"errors"
	"testing"
	"time"

	"journal-workflow-api/models"

	"gorm.io/gorm"
)

func TestOpenRoundNumberingIsSequential(t *testing.T) {
	db := newTestDB(t)
	rounds := NewReviewRoundService(db)
	submission := seedSubmission(t, db, models.StageReview, models.StatusQueued)

	for want := 1; want <= 3; want++ {
		round, err := rounds.OpenRound(submission.SubmissionID, models.StageReview, 7)
		if err != nil {
			t.Fatalf("open round %d: %v", want, err)
		}
		if round.RoundNumber != want {
			t.Fatalf("expected round number %d, got %d", want, round.RoundNumber)
		}
		if err := rounds.CloseRound(round.RoundID, 7); err != nil {
			t.Fatalf("close round %d: %v", want, err)
		}
	}
}

func TestRoundNumberingIsPerStage(t *testing.T) {
	db := newTestDB(t)
	rounds := NewReviewRoundService(db)
	submission := seedSubmission(t, db, models.StageReview, models.StatusQueued)

	reviewRound, err := rounds.OpenRound(submission.SubmissionID, models.StageReview, 7)
	if err != nil {
		t.Fatalf("open review round: %v", err)
	}
	copyeditRound, err := rounds.OpenRound(submission.SubmissionID, models.StageCopyediting, 7)
	if err != nil {
		t.Fatalf("open copyediting round: %v", err)
	}

	if reviewRound.RoundNumber != 1 || copyeditRound.RoundNumber != 1 {
		t.Fatalf("round sequences must be independent per stage: review=%d copyediting=%d",
			reviewRound.RoundNumber, copyeditRound.RoundNumber)
	}
}

func TestOpenRoundConflictsWithActiveRound(t *testing.T) {
	db := newTestDB(t)
	rounds := NewReviewRoundService(db)
	submission := seedSubmission(t, db, models.StageReview, models.StatusQueued)

	if _, err := rounds.OpenRound(submission.SubmissionID, models.StageReview, 7); err != nil {
		t.Fatalf("open round 1: %v", err)
	}
	_, err := rounds.OpenRound(submission.SubmissionID, models.StageReview, 7)
	if !errors.Is(err, ErrRoundConflict) {
		t.Fatalf("expected ErrRoundConflict, got %v", err)
	}

	var active int64
	err = db.Model(&models.ReviewRound{}).
		Where("submission_id = ? AND status = ?", submission.SubmissionID, models.RoundActive).
		Count(&active).Error
	if err != nil {
		t.Fatalf("count active rounds: %v", err)
	}
	if active != 1 {
		t.Fatalf("at most one active round allowed, found %d", active)
	}
}

func TestRoundCreationSerializedByUniqueIndex(t *testing.T) {
	db := newTestDB(t)
	rounds := NewReviewRoundService(db)
	submission := seedSubmission(t, db, models.StageReview, models.StatusQueued)

	// The winner of a race between two round-creating transactions.
	winner, err := rounds.OpenRound(submission.SubmissionID, models.StageReview, 7)
	if err != nil {
		t.Fatalf("open round: %v", err)
	}

	// The loser read the same latest round before the winner committed, so
	// it computed the same number. Its insert must fail on the composite
	// unique index rather than create a duplicate.
	duplicate := models.ReviewRound{
		SubmissionID: submission.SubmissionID,
		Stage:        models.StageReview,
		RoundNumber:  winner.RoundNumber,
		Status:       models.RoundActive,
		StartedAt:    time.Now(),
	}
	err = db.Create(&duplicate).Error
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected gorm.ErrDuplicatedKey for duplicate round number, got %v", err)
	}

	// The service maps that failure onto the round-conflict error, same as
	// the pre-insert check.
	_, err = rounds.OpenRound(submission.SubmissionID, models.StageReview, 7)
	if !errors.Is(err, ErrRoundConflict) {
		t.Fatalf("expected ErrRoundConflict, got %v", err)
	}

	var count int64
	err = db.Model(&models.ReviewRound{}).
		Where("submission_id = ? AND stage = ? AND round_number = ?",
			submission.SubmissionID, models.StageReview, winner.RoundNumber).
		Count(&count).Error
	if err != nil {
		t.Fatalf("count rounds: %v", err)
	}
	if count != 1 {
		t.Fatalf("round number must be unique per submission and stage, found %d rows", count)
	}
}

func TestOpenRoundUnknownSubmission(t *testing.T) {
	db := newTestDB(t)
	rounds := NewReviewRoundService(db)

	_, err := rounds.OpenRound(999, models.StageReview, 7)
	if !errors.Is(err, ErrSubmissionNotFound) {
		t.Fatalf("expected ErrSubmissionNotFound, got %v", err)
	}
}

func TestCloseRoundCascadesToAssignments(t *testing.T) {
	db := newTestDB(t)
	rounds := NewReviewRoundService(db)
	submission := seedSubmission(t, db, models.StageReview, models.StatusQueued)

	round, err := rounds.OpenRound(submission.SubmissionID, models.StageReview, 7)
	if err != nil {
		t.Fatalf("open round: %v", err)
	}

	pending, err := rounds.AssignReviewer(round.RoundID, 21, nil, nil, 7)
	if err != nil {
		t.Fatalf("assign pending reviewer: %v", err)
	}
	finished, err := rounds.AssignReviewer(round.RoundID, 22, nil, nil, 7)
	if err != nil {
		t.Fatalf("assign finishing reviewer: %v", err)
	}
	declined, err := rounds.AssignReviewer(round.RoundID, 23, nil, nil, 7)
	if err != nil {
		t.Fatalf("assign declining reviewer: %v", err)
	}

	if _, err := rounds.RespondToAssignment(finished.AssignmentID, 22, true); err != nil {
		t.Fatalf("accept assignment: %v", err)
	}
	if _, err := rounds.SubmitReview(finished.AssignmentID, 22, models.RecommendAccept); err != nil {
		t.Fatalf("submit review: %v", err)
	}
	if _, err := rounds.CompleteAssignment(finished.AssignmentID, 7); err != nil {
		t.Fatalf("complete assignment: %v", err)
	}
	if _, err := rounds.RespondToAssignment(declined.AssignmentID, 23, false); err != nil {
		t.Fatalf("decline assignment: %v", err)
	}

	if err := rounds.CloseRound(round.RoundID, 7); err != nil {
		t.Fatalf("close round: %v", err)
	}

	expect := map[int]models.ReviewAssignmentStatus{
		pending.AssignmentID:  models.ReviewCancelled,
		finished.AssignmentID: models.ReviewThanked,
		declined.AssignmentID: models.ReviewDeclined,
	}
	for assignmentID, want := range expect {
		var assignment models.ReviewAssignment
		if err := db.Where("assignment_id = ?", assignmentID).First(&assignment).Error; err != nil {
			t.Fatalf("load assignment %d: %v", assignmentID, err)
		}
		if assignment.Status != want {
			t.Errorf("assignment %d: status %s, want %s", assignmentID, assignment.Status, want)
		}
	}

	var closed models.ReviewRound
	if err := db.Where("round_id = ?", round.RoundID).First(&closed).Error; err != nil {
		t.Fatalf("reload round: %v", err)
	}
	if closed.Status != models.RoundClosed || closed.ClosedAt == nil {
		t.Fatalf("round should be closed with timestamp: %+v", closed)
	}

	// Closing twice is a conflict, not a silent no-op.
	if err := rounds.CloseRound(round.RoundID, 7); !errors.Is(err, ErrRoundNotActive) {
		t.Fatalf("expected ErrRoundNotActive on double close, got %v", err)
	}
}

func TestAssignReviewerOnClosedRound(t *testing.T) {
	db := newTestDB(t)
	rounds := NewReviewRoundService(db)
	submission := seedSubmission(t, db, models.StageReview, models.StatusQueued)

	round, err := rounds.OpenRound(submission.SubmissionID, models.StageReview, 7)
	if err != nil {
		t.Fatalf("open round: %v", err)
	}
	if err := rounds.CloseRound(round.RoundID, 7); err != nil {
		t.Fatalf("close round: %v", err)
	}

	_, err = rounds.AssignReviewer(round.RoundID, 21, nil, nil, 7)
	if !errors.Is(err, ErrRoundNotActive) {
		t.Fatalf("expected ErrRoundNotActive, got %v", err)
	}
}

func TestAssignmentTransitionsAreMonotonic(t *testing.T) {
	db := newTestDB(t)
	rounds := NewReviewRoundService(db)
	submission := seedSubmission(t, db, models.StageReview, models.StatusQueued)

	round, err := rounds.OpenRound(submission.SubmissionID, models.StageReview, 7)
	if err != nil {
		t.Fatalf("open round: %v", err)
	}
	assignment, err := rounds.AssignReviewer(round.RoundID, 21, nil, nil, 7)
	if err != nil {
		t.Fatalf("assign reviewer: %v", err)
	}

	if _, err := rounds.RespondToAssignment(assignment.AssignmentID, 21, true); err != nil {
		t.Fatalf("accept: %v", err)
	}
	updated, err := rounds.SubmitReview(assignment.AssignmentID, 21, models.RecommendPendingRevisions)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if updated.Status != models.ReviewReceived {
		t.Fatalf("expected received after submit, got %s", updated.Status)
	}
	if updated.Recommendation == nil || *updated.Recommendation != models.RecommendPendingRevisions.Name() {
		t.Fatalf("recommendation not stored: %+v", updated)
	}

	// Accepting again after submitting would move backwards.
	if _, err := rounds.RespondToAssignment(assignment.AssignmentID, 21, true); !errors.Is(err, ErrInvalidReviewTransition) {
		t.Fatalf("expected ErrInvalidReviewTransition, got %v", err)
	}

	// A declined assignment is absorbing.
	other, err := rounds.AssignReviewer(round.RoundID, 22, nil, nil, 7)
	if err != nil {
		t.Fatalf("assign second reviewer: %v", err)
	}
	if _, err := rounds.RespondToAssignment(other.AssignmentID, 22, false); err != nil {
		t.Fatalf("decline: %v", err)
	}
	if _, err := rounds.SubmitReview(other.AssignmentID, 22, models.RecommendAccept); !errors.Is(err, ErrInvalidReviewTransition) {
		t.Fatalf("expected ErrInvalidReviewTransition after decline, got %v", err)
	}
}

func TestAssignmentOwnershipEnforced(t *testing.T) {
	db := newTestDB(t)
	rounds := NewReviewRoundService(db)
	submission := seedSubmission(t, db, models.StageReview, models.StatusQueued)

	round, err := rounds.OpenRound(submission.SubmissionID, models.StageReview, 7)
	if err != nil {
		t.Fatalf("open round: %v", err)
	}
	assignment, err := rounds.AssignReviewer(round.RoundID, 21, nil, nil, 7)
	if err != nil {
		t.Fatalf("assign reviewer: %v", err)
	}

	if _, err := rounds.RespondToAssignment(assignment.AssignmentID, 99, true); !errors.Is(err, ErrAssignmentNotFound) {
		t.Fatalf("expected ErrAssignmentNotFound for wrong reviewer, got %v", err)
	}
}

func TestRoundActivityIsRecorded(t *testing.T) {
	db := newTestDB(t)
	rounds := NewReviewRoundService(db)
	submission := seedSubmission(t, db, models.StageReview, models.StatusQueued)

	round, err := rounds.OpenRound(submission.SubmissionID, models.StageReview, 7)
	if err != nil {
		t.Fatalf("open round: %v", err)
	}
	if err := rounds.CloseRound(round.RoundID, 7); err != nil {
		t.Fatalf("close round: %v", err)
	}

	var entries []models.ActivityLogEntry
	err = db.Where("submission_id = ? AND category = ?",
		submission.SubmissionID, models.ActivityCategoryRound).
		Order("entry_id ASC").
		Find(&entries).Error
	if err != nil {
		t.Fatalf("list round activity: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected open and close entries, got %d", len(entries))
	}
}
