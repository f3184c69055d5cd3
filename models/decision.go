package models

import (
	"strconv"
	"strings"
)

// SubmissionStage is one of the four fixed workflow macro-phases.
type SubmissionStage string

const (
	StageSubmission  SubmissionStage = "submission"
	StageReview      SubmissionStage = "review"
	StageCopyediting SubmissionStage = "copyediting"
	StageProduction  SubmissionStage = "production"
)

// SubmissionStages lists the stages in workflow order.
var SubmissionStages = []SubmissionStage{
	StageSubmission,
	StageReview,
	StageCopyediting,
	StageProduction,
}

func (s SubmissionStage) Valid() bool {
	for _, stage := range SubmissionStages {
		if s == stage {
			return true
		}
	}
	return false
}

// SubmissionStatus is the fine-grained state orthogonal to the stage.
type SubmissionStatus string

const (
	StatusQueued       SubmissionStatus = "queued"
	StatusInReview     SubmissionStatus = "in_review"
	StatusAccepted     SubmissionStatus = "accepted"
	StatusInProduction SubmissionStatus = "in_production"
	StatusScheduled    SubmissionStatus = "scheduled"
	StatusPublished    SubmissionStatus = "published"
	StatusDeclined     SubmissionStatus = "declined"
	StatusArchived     SubmissionStatus = "archived"
)

// EditorDecision is a binding editor decision code. The numeric values are
// the OJS 3.3 SUBMISSION_EDITOR_DECISION_* constants and are stored as-is
// in editorial_decisions.decision.
type EditorDecision int

const (
	DecisionAccept           EditorDecision = 1
	DecisionPendingRevisions EditorDecision = 2
	DecisionResubmit         EditorDecision = 3
	DecisionDecline          EditorDecision = 4
	DecisionSendToProduction EditorDecision = 7
	DecisionExternalReview   EditorDecision = 8
	DecisionInitialDecline   EditorDecision = 9
	DecisionNewReviewRound   EditorDecision = 16
	DecisionRevertDecline    EditorDecision = 17
)

var decisionNames = map[EditorDecision]string{
	DecisionAccept:           "accept",
	DecisionPendingRevisions: "pendingRevisions",
	DecisionResubmit:         "resubmit",
	DecisionDecline:          "decline",
	DecisionSendToProduction: "sendToProduction",
	DecisionExternalReview:   "externalReview",
	DecisionInitialDecline:   "initialDecline",
	DecisionNewReviewRound:   "newReviewRound",
	DecisionRevertDecline:    "revertDecline",
}

var decisionLabels = map[EditorDecision]string{
	DecisionAccept:           "Accept Submission",
	DecisionPendingRevisions: "Request Revisions",
	DecisionResubmit:         "Resubmit for Review",
	DecisionDecline:          "Decline Submission",
	DecisionSendToProduction: "Send to Production",
	DecisionExternalReview:   "Send to External Review",
	DecisionInitialDecline:   "Decline Submission",
	DecisionNewReviewRound:   "New Review Round",
	DecisionRevertDecline:    "Revert Decline",
}

// Clients historically posted decisions under several spellings; keep the
// same alias tolerance the status lookup has.
var decisionAliases = map[string]EditorDecision{
	"accept":             DecisionAccept,
	"skip_review":        DecisionAccept,
	"pendingrevisions":   DecisionPendingRevisions,
	"pending_revisions":  DecisionPendingRevisions,
	"request_revisions":  DecisionPendingRevisions,
	"resubmit":           DecisionResubmit,
	"decline":            DecisionDecline,
	"sendtoproduction":   DecisionSendToProduction,
	"send_to_production": DecisionSendToProduction,
	"externalreview":     DecisionExternalReview,
	"external_review":    DecisionExternalReview,
	"initialdecline":     DecisionInitialDecline,
	"initial_decline":    DecisionInitialDecline,
	"newreviewround":     DecisionNewReviewRound,
	"new_review_round":   DecisionNewReviewRound,
	"revertdecline":      DecisionRevertDecline,
	"revert_decline":     DecisionRevertDecline,
	"revert":             DecisionRevertDecline,
}

// Name returns the stable machine name for the decision code.
func (d EditorDecision) Name() string {
	if name, ok := decisionNames[d]; ok {
		return name
	}
	return "unknown"
}

// Label returns the human-readable title for the decision code.
func (d EditorDecision) Label() string {
	if label, ok := decisionLabels[d]; ok {
		return label
	}
	return "Unknown Decision"
}

func (d EditorDecision) Valid() bool {
	_, ok := decisionNames[d]
	return ok
}

// ParseEditorDecision resolves a client-provided decision code, accepting
// either the machine name (any common spelling) or the numeric constant.
func ParseEditorDecision(code string) (EditorDecision, bool) {
	normalized := strings.ToLower(strings.TrimSpace(code))
	if decision, ok := decisionAliases[normalized]; ok {
		return decision, true
	}
	if number, err := strconv.Atoi(normalized); err == nil {
		if decision := EditorDecision(number); decision.Valid() {
			return decision, true
		}
	}
	return 0, false
}

// EditorRecommendation is a non-binding recommendation code from a
// recommend-only participant (OJS SUBMISSION_EDITOR_RECOMMEND_*).
type EditorRecommendation int

const (
	RecommendAccept           EditorRecommendation = 11
	RecommendPendingRevisions EditorRecommendation = 12
	RecommendResubmit         EditorRecommendation = 13
	RecommendDecline          EditorRecommendation = 14
)

var recommendationNames = map[EditorRecommendation]string{
	RecommendAccept:           "recommend-accept",
	RecommendPendingRevisions: "recommend-pending-revisions",
	RecommendResubmit:         "recommend-resubmit",
	RecommendDecline:          "recommend-decline",
}

var recommendationAliases = map[string]EditorRecommendation{
	"recommend-accept":            RecommendAccept,
	"recommend_accept":            RecommendAccept,
	"11":                          RecommendAccept,
	"recommend-pending-revisions": RecommendPendingRevisions,
	"recommend_pending_revisions": RecommendPendingRevisions,
	"recommend-revisions":         RecommendPendingRevisions,
	"12":                          RecommendPendingRevisions,
	"recommend-resubmit":          RecommendResubmit,
	"recommend_resubmit":          RecommendResubmit,
	"13":                          RecommendResubmit,
	"recommend-decline":           RecommendDecline,
	"recommend_decline":           RecommendDecline,
	"14":                          RecommendDecline,
}

func (r EditorRecommendation) Name() string {
	if name, ok := recommendationNames[r]; ok {
		return name
	}
	return "unknown"
}

func (r EditorRecommendation) Valid() bool {
	_, ok := recommendationNames[r]
	return ok
}

// ParseEditorRecommendation resolves a client-provided recommendation code.
func ParseEditorRecommendation(code string) (EditorRecommendation, bool) {
	normalized := strings.ToLower(strings.TrimSpace(code))
	rec, ok := recommendationAliases[normalized]
	return rec, ok
}
