package services

import "journal-workflow-api/models"

// RoleCapability is what the access guard grants the acting user for one
// submission. Editors and section editors decide; recommend-only
// participants may record recommendations and trigger round-level actions.
type RoleCapability struct {
	CanDecide    bool `json:"can_decide"`
	CanRecommend bool `json:"can_recommend"`
}

// DecisionRow describes one legal decision for a (stage, status, capability)
// triple: the transition it applies and whether it opens a review round.
// Nil target fields mean the corresponding submission field is unchanged.
type DecisionRow struct {
	Decision         models.EditorDecision
	RequiresNewRound bool
	TargetStage      *models.SubmissionStage
	TargetStatus     *models.SubmissionStatus
	SetArchived      *bool
}

// StageDecisions is the single authoritative gate for decision legality.
// It returns the ordered legal decision set for the submission's current
// stage and status given the actor's capability. Decisions absent from the
// returned set must be rejected; no caller may re-derive legality.
//
// The rules follow the OJS 3.3 stage decision derivation
// (PKPEditorDecisionActionsManager) with the decline/revert gating on the
// submission's queued/declined status.
func StageDecisions(stage models.SubmissionStage, status models.SubmissionStatus, capability RoleCapability) []DecisionRow {
	var rows []DecisionRow

	switch stage {
	case models.StageSubmission:
		rows = append(rows, DecisionRow{
			Decision:         models.DecisionExternalReview,
			RequiresNewRound: true,
			TargetStage:      stagePtr(models.StageReview),
			TargetStatus:     statusPtr(models.StatusQueued),
		})
		if capability.CanDecide {
			rows = append(rows, DecisionRow{
				Decision:     models.DecisionAccept,
				TargetStage:  stagePtr(models.StageCopyediting),
				TargetStatus: statusPtr(models.StatusAccepted),
			})
			if status == models.StatusQueued {
				rows = append(rows, DecisionRow{
					Decision:     models.DecisionInitialDecline,
					TargetStatus: statusPtr(models.StatusDeclined),
					SetArchived:  boolPtr(true),
				})
			}
			if status == models.StatusDeclined {
				rows = append(rows, DecisionRow{
					Decision:     models.DecisionRevertDecline,
					TargetStatus: statusPtr(models.StatusQueued),
					SetArchived:  boolPtr(false),
				})
			}
		}

	case models.StageReview:
		if capability.CanDecide {
			rows = append(rows,
				DecisionRow{
					Decision:     models.DecisionAccept,
					TargetStage:  stagePtr(models.StageCopyediting),
					TargetStatus: statusPtr(models.StatusAccepted),
				},
				DecisionRow{
					Decision: models.DecisionPendingRevisions,
				},
				DecisionRow{
					Decision:         models.DecisionResubmit,
					RequiresNewRound: true,
					TargetStatus:     statusPtr(models.StatusQueued),
				},
				DecisionRow{
					Decision:     models.DecisionDecline,
					TargetStatus: statusPtr(models.StatusDeclined),
					SetArchived:  boolPtr(true),
				},
			)
		}
		rows = append(rows, DecisionRow{
			Decision:         models.DecisionNewReviewRound,
			RequiresNewRound: true,
		})

	case models.StageCopyediting:
		rows = append(rows, DecisionRow{
			Decision:     models.DecisionSendToProduction,
			TargetStage:  stagePtr(models.StageProduction),
			TargetStatus: statusPtr(models.StatusInProduction),
		})

	case models.StageProduction:
		// Production has no editor decisions; the publication subsystem
		// advances submissions from here.
	}

	return rows
}

// FindDecision returns the row for the requested decision if it is legal
// for the given state, along with the full legal set for error reporting.
func FindDecision(stage models.SubmissionStage, status models.SubmissionStatus, capability RoleCapability, decision models.EditorDecision) (DecisionRow, []DecisionRow, bool) {
	rows := StageDecisions(stage, status, capability)
	for _, row := range rows {
		if row.Decision == decision {
			return row, rows, true
		}
	}
	return DecisionRow{}, rows, false
}

func legalDecisions(rows []DecisionRow) []models.EditorDecision {
	decisions := make([]models.EditorDecision, 0, len(rows))
	for _, row := range rows {
		decisions = append(decisions, row.Decision)
	}
	return decisions
}

func stagePtr(stage models.SubmissionStage) *models.SubmissionStage {
	return &stage
}

func statusPtr(status models.SubmissionStatus) *models.SubmissionStatus {
	return &status
}

func boolPtr(b bool) *bool {
	return &b
}
