package services

import (
	"errors"
	"testing"

	"journal-workflow-api/models"
)

func TestAuthorizeEditorCanDecide(t *testing.T) {
	db := newTestDB(t)
	guard := NewAccessGuard(db)
	submission := seedSubmission(t, db, models.StageSubmission, models.StatusQueued)
	editorID := seedUser(t, db, "editor@example.org", models.RoleEditor, submission.JournalID)

	capability, err := guard.Authorize(submission.SubmissionID, editorID)
	if err != nil {
		t.Fatalf("authorize editor: %v", err)
	}
	if !capability.CanDecide || !capability.CanRecommend {
		t.Fatalf("editor should decide and recommend: %+v", capability)
	}
}

func TestAuthorizeRecommendOnly(t *testing.T) {
	db := newTestDB(t)
	guard := NewAccessGuard(db)
	submission := seedSubmission(t, db, models.StageSubmission, models.StatusQueued)
	userID := seedUser(t, db, "advisor@example.org", models.RoleRecommendOnly, submission.JournalID)

	capability, err := guard.Authorize(submission.SubmissionID, userID)
	if err != nil {
		t.Fatalf("authorize recommend-only: %v", err)
	}
	if capability.CanDecide {
		t.Fatal("recommend-only must not decide")
	}
	if !capability.CanRecommend {
		t.Fatal("recommend-only should recommend")
	}
}

func TestAuthorizeFailsClosed(t *testing.T) {
	db := newTestDB(t)
	guard := NewAccessGuard(db)
	submission := seedSubmission(t, db, models.StageSubmission, models.StatusQueued)

	// No role at all.
	stranger := seedUser(t, db, "stranger@example.org", "", 0)
	if _, err := guard.Authorize(submission.SubmissionID, stranger); !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied for user without roles, got %v", err)
	}

	// Reviewer roles do not grant decision access.
	reviewer := seedUser(t, db, "reviewer@example.org", models.RoleReviewer, submission.JournalID)
	if _, err := guard.Authorize(submission.SubmissionID, reviewer); !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied for reviewer role, got %v", err)
	}

	// An editor on a different journal is still denied.
	otherJournalEditor := seedUser(t, db, "other@example.org", models.RoleEditor, submission.JournalID+1)
	if _, err := guard.Authorize(submission.SubmissionID, otherJournalEditor); !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied for editor of another journal, got %v", err)
	}
}

func TestAuthorizeUnknownSubmission(t *testing.T) {
	db := newTestDB(t)
	guard := NewAccessGuard(db)
	editorID := seedUser(t, db, "editor@example.org", models.RoleEditor, 1)

	if _, err := guard.Authorize(4040, editorID); !errors.Is(err, ErrSubmissionNotFound) {
		t.Fatalf("expected ErrSubmissionNotFound, got %v", err)
	}
}
