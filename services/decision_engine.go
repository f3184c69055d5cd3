package services

import (
	"errors"
	"fmt"
	"time"

	"journal-workflow-api/models"

	"gorm.io/gorm"
)

// DecisionEngine validates editor decisions against the stage decision
// table and applies them as atomic transitions. Every call is a single
// transaction: submission mutation, round creation and audit records
// commit together or not at all.
type DecisionEngine struct {
	db       *gorm.DB
	rounds   *ReviewRoundService
	activity *ActivityLogService
}

func NewDecisionEngine(db *gorm.DB) *DecisionEngine {
	return &DecisionEngine{
		db:       db,
		rounds:   NewReviewRoundService(db),
		activity: NewActivityLogService(db),
	}
}

// DecisionInput carries one decision request. Capability must come from
// the access guard, never from the client.
type DecisionInput struct {
	SubmissionID int
	Decision     models.EditorDecision
	// ExpectedStage, when set, is the stage the client believes the
	// submission is in. A mismatch means the client acted on stale state.
	ExpectedStage  *models.SubmissionStage
	ReviewRoundID  *int
	ActingEditorID int
	Capability     RoleCapability
	Notes          string
}

// RecommendationInput carries one recommend-only request.
type RecommendationInput struct {
	SubmissionID   int
	ReviewRoundID  int
	Recommendation models.EditorRecommendation
	ActingEditorID int
	Capability     RoleCapability
	Notes          string
}

// DecisionResult reports the submission state after a successful call.
type DecisionResult struct {
	Decision   string                  `json:"decision"`
	NewStage   models.SubmissionStage  `json:"new_stage"`
	NewStatus  models.SubmissionStatus `json:"new_status"`
	IsArchived bool                    `json:"is_archived"`
	RoundID    *int                    `json:"round_id,omitempty"`
}

// ApplyDecision applies one editor decision. Concurrent decisions against
// the same submission are serialized through the version column: the
// update is guarded by the version read at the start of the transaction,
// so a request that lost the race fails with ErrConcurrentModification
// instead of applying a transition against stale state.
func (e *DecisionEngine) ApplyDecision(input DecisionInput) (*DecisionResult, error) {
	var result DecisionResult
	err := e.db.Transaction(func(tx *gorm.DB) error {
		submission, err := loadSubmissionTx(tx, input.SubmissionID)
		if err != nil {
			return err
		}
		if input.ExpectedStage != nil && *input.ExpectedStage != submission.CurrentStage {
			return ErrConcurrentModification
		}

		row, legal, ok := FindDecision(submission.CurrentStage, submission.Status, input.Capability, input.Decision)
		if !ok {
			return &DecisionNotAllowedError{
				Decision: input.Decision,
				Stage:    submission.CurrentStage,
				Status:   submission.Status,
				Legal:    legalDecisions(legal),
			}
		}

		now := time.Now()
		roundID := input.ReviewRoundID

		if closesActiveRound(submission.CurrentStage, row) {
			if err := e.rounds.closeActiveRoundTx(tx, submission.SubmissionID, submission.CurrentStage, input.ActingEditorID); err != nil {
				return err
			}
		}

		if row.RequiresNewRound {
			targetStage := submission.CurrentStage
			if row.TargetStage != nil {
				targetStage = *row.TargetStage
			}
			round, err := e.rounds.openRoundTx(tx, submission.SubmissionID, targetStage, input.ActingEditorID)
			if err != nil {
				return err
			}
			roundID = &round.RoundID
		}

		updates := map[string]interface{}{
			"update_at": now,
		}
		if row.TargetStage != nil {
			updates["current_stage"] = *row.TargetStage
		}
		if row.TargetStatus != nil {
			updates["status"] = *row.TargetStatus
		}
		if row.SetArchived != nil {
			updates["is_archived"] = *row.SetArchived
		}
		if err := applySubmissionUpdateTx(tx, submission, updates); err != nil {
			return err
		}

		decision := models.EditorialDecision{
			SubmissionID: submission.SubmissionID,
			Stage:        submission.CurrentStage,
			Decision:     input.Decision,
			RoundID:      roundID,
			EditorID:     input.ActingEditorID,
			DecidedAt:    now,
		}
		if input.Notes != "" {
			notes := input.Notes
			decision.Notes = &notes
		}
		if err := tx.Create(&decision).Error; err != nil {
			return persistence("record editorial decision", err)
		}

		message := fmt.Sprintf("Editor decision: %s", input.Decision.Label())
		if err := e.activity.recordTx(tx, submission.SubmissionID, input.ActingEditorID, models.ActivityCategoryDecision, message); err != nil {
			return err
		}

		result = DecisionResult{
			Decision:   input.Decision.Name(),
			NewStage:   submission.CurrentStage,
			NewStatus:  submission.Status,
			IsArchived: submission.IsArchived,
			RoundID:    roundID,
		}
		if row.TargetStage != nil {
			result.NewStage = *row.TargetStage
		}
		if row.TargetStatus != nil {
			result.NewStatus = *row.TargetStatus
		}
		if row.SetArchived != nil {
			result.IsArchived = *row.SetArchived
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// RecordRecommendation records a non-binding recommendation against an
// active review round. It never touches the submission row; the only
// write is the audit trail entry.
func (e *DecisionEngine) RecordRecommendation(input RecommendationInput) (*DecisionResult, error) {
	if !input.Capability.CanRecommend {
		return nil, ErrAccessDenied
	}

	var result DecisionResult
	err := e.db.Transaction(func(tx *gorm.DB) error {
		submission, err := loadSubmissionTx(tx, input.SubmissionID)
		if err != nil {
			return err
		}

		var round models.ReviewRound
		err = tx.Where("round_id = ? AND submission_id = ?", input.ReviewRoundID, submission.SubmissionID).
			First(&round).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoundNotFound
			}
			return persistence("load review round", err)
		}
		if round.Status != models.RoundActive {
			return ErrRoundNotActive
		}

		message := fmt.Sprintf("Recommendation: %s", input.Recommendation.Name())
		if input.Notes != "" {
			message = fmt.Sprintf("%s (%s)", message, input.Notes)
		}
		if err := e.activity.recordTx(tx, submission.SubmissionID, input.ActingEditorID, models.ActivityCategoryRecommendation, message); err != nil {
			return err
		}

		result = DecisionResult{
			Decision:   input.Recommendation.Name(),
			NewStage:   submission.CurrentStage,
			NewStatus:  submission.Status,
			IsArchived: submission.IsArchived,
			RoundID:    &round.RoundID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetDecisionHistory returns the submission's decisions in commit order,
// most recent last.
func (e *DecisionEngine) GetDecisionHistory(submissionID int) ([]models.EditorialDecision, error) {
	if _, err := loadSubmissionTx(e.db, submissionID); err != nil {
		return nil, err
	}
	var decisions []models.EditorialDecision
	err := e.db.Where("submission_id = ?", submissionID).
		Order("decision_id ASC").
		Find(&decisions).Error
	if err != nil {
		return nil, persistence("list editorial decisions", err)
	}
	return decisions, nil
}

// AvailableDecisions returns the legal decision set for the submission's
// current state and the actor's capability.
func (e *DecisionEngine) AvailableDecisions(submissionID int, capability RoleCapability) (*models.Submission, []DecisionRow, error) {
	submission, err := loadSubmissionTx(e.db, submissionID)
	if err != nil {
		return nil, nil, err
	}
	return submission, StageDecisions(submission.CurrentStage, submission.Status, capability), nil
}

// closesActiveRound reports whether the decision ends the current stage's
// active round: terminal review decisions close it for good, and
// round-replacing decisions close it before the new round opens.
func closesActiveRound(stage models.SubmissionStage, row DecisionRow) bool {
	if stage != models.StageReview {
		return false
	}
	switch row.Decision {
	case models.DecisionAccept, models.DecisionDecline:
		return true
	}
	return row.RequiresNewRound && (row.TargetStage == nil || *row.TargetStage == stage)
}

// applySubmissionUpdateTx is the compare-and-swap at the heart of the
// serialization guarantee: the update only matches the row if nobody else
// committed since the submission was read. Zero rows affected means the
// caller lost the race and must not apply its transition.
func applySubmissionUpdateTx(tx *gorm.DB, submission *models.Submission, updates map[string]interface{}) error {
	updates["version"] = submission.Version + 1
	res := tx.Model(&models.Submission{}).
		Where("submission_id = ? AND version = ?", submission.SubmissionID, submission.Version).
		Updates(updates)
	if res.Error != nil {
		return persistence("update submission", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrConcurrentModification
	}
	return nil
}

func loadSubmissionTx(tx *gorm.DB, submissionID int) (*models.Submission, error) {
	var submission models.Submission
	err := tx.Where("submission_id = ? AND delete_at IS NULL", submissionID).
		First(&submission).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, persistence("load submission", err)
	}
	return &submission, nil
}
