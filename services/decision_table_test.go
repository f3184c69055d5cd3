package services

import (
	"testing"

	"journal-workflow-api/models"
)

func decisionSet(rows []DecisionRow) map[models.EditorDecision]DecisionRow {
	set := make(map[models.EditorDecision]DecisionRow, len(rows))
	for _, row := range rows {
		set[row.Decision] = row
	}
	return set
}

func TestSubmissionStageDecisionsForEditor(t *testing.T) {
	rows := StageDecisions(models.StageSubmission, models.StatusQueued, editorCapability())
	set := decisionSet(rows)

	external, ok := set[models.DecisionExternalReview]
	if !ok {
		t.Fatal("externalReview should be legal at the submission stage")
	}
	if !external.RequiresNewRound {
		t.Error("externalReview should open a review round")
	}
	if external.TargetStage == nil || *external.TargetStage != models.StageReview {
		t.Error("externalReview should advance to the review stage")
	}

	accept, ok := set[models.DecisionAccept]
	if !ok {
		t.Fatal("accept should be legal for a deciding editor")
	}
	if accept.TargetStage == nil || *accept.TargetStage != models.StageCopyediting {
		t.Error("accept should advance to copyediting")
	}
	if accept.TargetStatus == nil || *accept.TargetStatus != models.StatusAccepted {
		t.Error("accept should set status accepted")
	}

	decline, ok := set[models.DecisionInitialDecline]
	if !ok {
		t.Fatal("initialDecline should be legal while queued")
	}
	if decline.SetArchived == nil || !*decline.SetArchived {
		t.Error("initialDecline should archive the submission")
	}
	if decline.TargetStage != nil {
		t.Error("initialDecline should not change the stage")
	}

	if _, ok := set[models.DecisionRevertDecline]; ok {
		t.Error("revertDecline should not be legal while queued")
	}
}

func TestSubmissionStageDeclinedOffersRevert(t *testing.T) {
	rows := StageDecisions(models.StageSubmission, models.StatusDeclined, editorCapability())
	set := decisionSet(rows)

	revert, ok := set[models.DecisionRevertDecline]
	if !ok {
		t.Fatal("revertDecline should be legal while declined")
	}
	if revert.TargetStatus == nil || *revert.TargetStatus != models.StatusQueued {
		t.Error("revertDecline should restore status queued")
	}
	if revert.SetArchived == nil || *revert.SetArchived {
		t.Error("revertDecline should clear the archive flag")
	}

	if _, ok := set[models.DecisionInitialDecline]; ok {
		t.Error("initialDecline should not be legal while already declined")
	}
}

func TestSubmissionStageWithoutDecideCapability(t *testing.T) {
	rows := StageDecisions(models.StageSubmission, models.StatusQueued, recommendOnlyCapability())
	if len(rows) != 1 || rows[0].Decision != models.DecisionExternalReview {
		t.Fatalf("expected only externalReview for recommend-only, got %v", legalDecisions(rows))
	}
}

func TestReviewStageDecisions(t *testing.T) {
	rows := StageDecisions(models.StageReview, models.StatusQueued, editorCapability())
	set := decisionSet(rows)

	for _, decision := range []models.EditorDecision{
		models.DecisionAccept,
		models.DecisionPendingRevisions,
		models.DecisionResubmit,
		models.DecisionDecline,
		models.DecisionNewReviewRound,
	} {
		if _, ok := set[decision]; !ok {
			t.Errorf("%s should be legal at the review stage", decision.Name())
		}
	}

	if set[models.DecisionPendingRevisions].RequiresNewRound {
		t.Error("pendingRevisions should not open a new round")
	}
	if !set[models.DecisionResubmit].RequiresNewRound {
		t.Error("resubmit should open a new round")
	}
	if set[models.DecisionResubmit].TargetStage != nil {
		t.Error("resubmit should stay at the review stage")
	}
	if !set[models.DecisionNewReviewRound].RequiresNewRound {
		t.Error("newReviewRound should open a new round")
	}

	// newReviewRound stays available without decide capability.
	limited := StageDecisions(models.StageReview, models.StatusQueued, recommendOnlyCapability())
	if len(limited) != 1 || limited[0].Decision != models.DecisionNewReviewRound {
		t.Fatalf("expected only newReviewRound for recommend-only, got %v", legalDecisions(limited))
	}
}

func TestCopyeditingAndProductionDecisions(t *testing.T) {
	rows := StageDecisions(models.StageCopyediting, models.StatusAccepted, editorCapability())
	if len(rows) != 1 || rows[0].Decision != models.DecisionSendToProduction {
		t.Fatalf("expected only sendToProduction at copyediting, got %v", legalDecisions(rows))
	}
	row := rows[0]
	if row.TargetStage == nil || *row.TargetStage != models.StageProduction {
		t.Error("sendToProduction should advance to production")
	}
	if row.TargetStatus == nil || *row.TargetStatus != models.StatusInProduction {
		t.Error("sendToProduction should set status in_production")
	}

	if rows := StageDecisions(models.StageProduction, models.StatusInProduction, editorCapability()); len(rows) != 0 {
		t.Fatalf("production stage should offer no decisions, got %v", legalDecisions(rows))
	}
}

func TestFindDecisionRejectsIllegalCodes(t *testing.T) {
	for _, status := range []models.SubmissionStatus{
		models.StatusQueued,
		models.StatusInReview,
		models.StatusAccepted,
		models.StatusDeclined,
	} {
		for _, stage := range models.SubmissionStages {
			legal := StageDecisions(stage, status, editorCapability())
			allowed := decisionSet(legal)
			for decision := range map[models.EditorDecision]bool{
				models.DecisionAccept:           true,
				models.DecisionPendingRevisions: true,
				models.DecisionResubmit:         true,
				models.DecisionDecline:          true,
				models.DecisionSendToProduction: true,
				models.DecisionExternalReview:   true,
				models.DecisionInitialDecline:   true,
				models.DecisionNewReviewRound:   true,
				models.DecisionRevertDecline:    true,
			} {
				_, _, found := FindDecision(stage, status, editorCapability(), decision)
				if _, want := allowed[decision]; found != want {
					t.Errorf("stage %s status %s decision %s: found=%v want=%v",
						stage, status, decision.Name(), found, want)
				}
			}
		}
	}
}
