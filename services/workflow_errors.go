package services

import (
	"errors"
	"fmt"

	"journal-workflow-api/models"
)

// Sentinel errors returned by the workflow services. Controllers map these
// to HTTP statuses; none of them carry partial state.
var (
	ErrAccessDenied            = errors.New("actor has no editorial role on this submission's journal")
	ErrSubmissionNotFound      = errors.New("submission not found")
	ErrRoundNotFound           = errors.New("review round not found")
	ErrRoundConflict           = errors.New("an active review round already exists for this submission and stage")
	ErrRoundNotActive          = errors.New("review round is not active")
	ErrAssignmentNotFound      = errors.New("review assignment not found")
	ErrInvalidReviewTransition = errors.New("review assignment status cannot move backwards")
	ErrConcurrentModification  = errors.New("submission was modified by a concurrent request")
)

// DecisionNotAllowedError reports a decision that is not legal for the
// submission's current stage and status. Legal carries the full legal set
// so the caller can re-render its options.
type DecisionNotAllowedError struct {
	Decision models.EditorDecision
	Stage    models.SubmissionStage
	Status   models.SubmissionStatus
	Legal    []models.EditorDecision
}

func (e *DecisionNotAllowedError) Error() string {
	return fmt.Sprintf("decision %s is not allowed at stage %s with status %s",
		e.Decision.Name(), e.Stage, e.Status)
}

// LegalNames returns the machine names of the legal decisions.
func (e *DecisionNotAllowedError) LegalNames() []string {
	names := make([]string, 0, len(e.Legal))
	for _, decision := range e.Legal {
		names = append(names, decision.Name())
	}
	return names
}

// PersistenceError wraps a store failure. The enclosing transaction is
// rolled back, so the operation did not partially apply.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}
