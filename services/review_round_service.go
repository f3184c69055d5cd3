package services

import (
	"errors"
	"fmt"
	"time"

	"journal-workflow-api/models"

	"gorm.io/gorm"
)

// ReviewRoundService creates, numbers and closes review rounds and tracks
// reviewer assignments inside them. Round numbers are per
// (submission, stage); at most one round per pair is active at a time.
type ReviewRoundService struct {
	db       *gorm.DB
	activity *ActivityLogService
}

func NewReviewRoundService(db *gorm.DB) *ReviewRoundService {
	return &ReviewRoundService{db: db, activity: NewActivityLogService(db)}
}

// OpenRound opens the next review round for the submission and stage.
// Fails with ErrRoundConflict while another round is still active.
func (s *ReviewRoundService) OpenRound(submissionID int, stage models.SubmissionStage, actorID int) (*models.ReviewRound, error) {
	var round *models.ReviewRound
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var submission models.Submission
		err := tx.Select("submission_id").
			Where("submission_id = ? AND delete_at IS NULL", submissionID).
			First(&submission).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSubmissionNotFound
			}
			return persistence("load submission", err)
		}

		round, err = s.openRoundTx(tx, submissionID, stage, actorID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return round, nil
}

// openRoundTx opens a round inside the caller's transaction, so decision
// transitions and round creation commit or roll back together.
func (s *ReviewRoundService) openRoundTx(tx *gorm.DB, submissionID int, stage models.SubmissionStage, actorID int) (*models.ReviewRound, error) {
	var active int64
	err := tx.Model(&models.ReviewRound{}).
		Where("submission_id = ? AND stage = ? AND status = ?", submissionID, stage, models.RoundActive).
		Count(&active).Error
	if err != nil {
		return nil, persistence("check active review round", err)
	}
	if active > 0 {
		return nil, ErrRoundConflict
	}

	var lastRound int
	err = tx.Model(&models.ReviewRound{}).
		Where("submission_id = ? AND stage = ?", submissionID, stage).
		Select("COALESCE(MAX(round_number), 0)").
		Scan(&lastRound).Error
	if err != nil {
		return nil, persistence("determine next round number", err)
	}

	round := models.ReviewRound{
		SubmissionID: submissionID,
		Stage:        stage,
		RoundNumber:  lastRound + 1,
		Status:       models.RoundActive,
		StartedAt:    time.Now(),
	}
	if err := tx.Create(&round).Error; err != nil {
		// A concurrent transaction that read the same latest round has
		// already committed this number; the unique index is what
		// serializes round creation per (submission, stage).
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrRoundConflict
		}
		return nil, persistence("create review round", err)
	}

	message := fmt.Sprintf("Review round %d opened for stage %s", round.RoundNumber, stage)
	if err := s.activity.recordTx(tx, submissionID, actorID, models.ActivityCategoryRound, message); err != nil {
		return nil, err
	}
	return &round, nil
}

// CloseRound closes the round and cancels whatever reviewer work is still
// open: completed reviews are thanked, everything else non-terminal is
// cancelled.
func (s *ReviewRoundService) CloseRound(roundID, actorID int) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var round models.ReviewRound
		err := tx.Where("round_id = ?", roundID).First(&round).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoundNotFound
			}
			return persistence("load review round", err)
		}
		if round.Status != models.RoundActive {
			return ErrRoundNotActive
		}
		return s.closeRoundTx(tx, &round, actorID)
	})
}

func (s *ReviewRoundService) closeRoundTx(tx *gorm.DB, round *models.ReviewRound, actorID int) error {
	now := time.Now()
	err := tx.Model(&models.ReviewRound{}).
		Where("round_id = ?", round.RoundID).
		Updates(map[string]interface{}{
			"status":    models.RoundClosed,
			"closed_at": now,
		}).Error
	if err != nil {
		return persistence("close review round", err)
	}

	err = tx.Model(&models.ReviewAssignment{}).
		Where("round_id = ? AND status = ?", round.RoundID, models.ReviewComplete).
		Update("status", models.ReviewThanked).Error
	if err != nil {
		return persistence("thank completed reviewers", err)
	}

	err = tx.Model(&models.ReviewAssignment{}).
		Where("round_id = ? AND status NOT IN ?", round.RoundID, []models.ReviewAssignmentStatus{
			models.ReviewDeclined, models.ReviewCancelled, models.ReviewThanked,
		}).
		Update("status", models.ReviewCancelled).Error
	if err != nil {
		return persistence("cancel open review assignments", err)
	}

	message := fmt.Sprintf("Review round %d closed for stage %s", round.RoundNumber, round.Stage)
	return s.activity.recordTx(tx, round.SubmissionID, actorID, models.ActivityCategoryRound, message)
}

// closeActiveRoundTx closes the active round for the pair if one exists.
// Used by the decision engine before terminal and round-replacing
// decisions; a missing active round is not an error.
func (s *ReviewRoundService) closeActiveRoundTx(tx *gorm.DB, submissionID int, stage models.SubmissionStage, actorID int) error {
	var round models.ReviewRound
	err := tx.Where("submission_id = ? AND stage = ? AND status = ?",
		submissionID, stage, models.RoundActive).
		First(&round).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return persistence("load active review round", err)
	}
	return s.closeRoundTx(tx, &round, actorID)
}

// AssignReviewer adds a reviewer to an active round in awaiting_response.
func (s *ReviewRoundService) AssignReviewer(roundID, reviewerID int, dueDate, responseDueDate *time.Time, actorID int) (*models.ReviewAssignment, error) {
	var assignment models.ReviewAssignment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var round models.ReviewRound
		err := tx.Where("round_id = ?", roundID).First(&round).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoundNotFound
			}
			return persistence("load review round", err)
		}
		if round.Status != models.RoundActive {
			return ErrRoundNotActive
		}

		assignment = models.ReviewAssignment{
			RoundID:         roundID,
			ReviewerID:      reviewerID,
			AssignmentDate:  time.Now(),
			DueDate:         dueDate,
			ResponseDueDate: responseDueDate,
			Status:          models.ReviewAwaitingResponse,
		}
		if err := tx.Create(&assignment).Error; err != nil {
			return persistence("create review assignment", err)
		}

		message := fmt.Sprintf("Reviewer %d assigned to round %d", reviewerID, round.RoundNumber)
		return s.activity.recordTx(tx, round.SubmissionID, actorID, models.ActivityCategoryRound, message)
	})
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// RoundsForSubmission returns all rounds with their assignments, oldest
// round first.
func (s *ReviewRoundService) RoundsForSubmission(submissionID int) ([]models.ReviewRound, error) {
	var rounds []models.ReviewRound
	err := s.db.Preload("Assignments").
		Where("submission_id = ?", submissionID).
		Order("stage ASC, round_number ASC").
		Find(&rounds).Error
	if err != nil {
		return nil, persistence("list review rounds", err)
	}
	return rounds, nil
}

// AssignmentsForReviewer returns the reviewer's assignments, newest first.
func (s *ReviewRoundService) AssignmentsForReviewer(reviewerID int) ([]models.ReviewAssignment, error) {
	var assignments []models.ReviewAssignment
	err := s.db.Where("reviewer_id = ?", reviewerID).
		Order("assignment_id DESC").
		Find(&assignments).Error
	if err != nil {
		return nil, persistence("list review assignments", err)
	}
	return assignments, nil
}

// RespondToAssignment records the reviewer accepting or declining the
// review invitation.
func (s *ReviewRoundService) RespondToAssignment(assignmentID, reviewerID int, accept bool) (*models.ReviewAssignment, error) {
	target := models.ReviewAccepted
	if !accept {
		target = models.ReviewDeclined
	}
	return s.transitionAssignment(assignmentID, reviewerID, target, nil, false)
}

// SubmitReview records the reviewer's submitted review and its
// recommendation; the assignment moves to received.
func (s *ReviewRoundService) SubmitReview(assignmentID, reviewerID int, recommendation models.EditorRecommendation) (*models.ReviewAssignment, error) {
	name := recommendation.Name()
	return s.transitionAssignment(assignmentID, reviewerID, models.ReviewReceived, &name, true)
}

// CompleteAssignment marks a received review as considered by the editor.
func (s *ReviewRoundService) CompleteAssignment(assignmentID, actorID int) (*models.ReviewAssignment, error) {
	return s.transitionAssignment(assignmentID, 0, models.ReviewComplete, nil, false)
}

func (s *ReviewRoundService) transitionAssignment(assignmentID, reviewerID int, target models.ReviewAssignmentStatus, recommendation *string, stampSubmitted bool) (*models.ReviewAssignment, error) {
	var assignment models.ReviewAssignment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("assignment_id = ?", assignmentID).First(&assignment).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAssignmentNotFound
			}
			return persistence("load review assignment", err)
		}
		if reviewerID != 0 && assignment.ReviewerID != reviewerID {
			return ErrAssignmentNotFound
		}

		var round models.ReviewRound
		if err := tx.Where("round_id = ?", assignment.RoundID).First(&round).Error; err != nil {
			return persistence("load review round", err)
		}
		if round.Status != models.RoundActive {
			return ErrRoundNotActive
		}

		if !assignment.Status.CanTransitionTo(target) {
			return ErrInvalidReviewTransition
		}

		updates := map[string]interface{}{"status": target}
		if recommendation != nil {
			updates["recommendation"] = *recommendation
		}
		if stampSubmitted {
			updates["submitted_at"] = time.Now()
		}
		err = tx.Model(&models.ReviewAssignment{}).
			Where("assignment_id = ?", assignmentID).
			Updates(updates).Error
		if err != nil {
			return persistence("update review assignment", err)
		}

		assignment.Status = target
		if recommendation != nil {
			assignment.Recommendation = recommendation
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}
