package services

import (
	"fmt"
	"testing"
	"time"

	"journal-workflow-api/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory SQLite database so the transactional paths
// run against a real store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test database: %v", err)
	}
	// A single connection keeps every session on the same in-memory DB.
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.JournalRole{},
		&models.Submission{},
		&models.ReviewRound{},
		&models.ReviewAssignment{},
		&models.EditorialDecision{},
		&models.ActivityLogEntry{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("migrate test schema: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email, role string, journalID int) int {
	t.Helper()

	user := models.User{
		UserFname: "Test",
		UserLname: "User",
		Email:     email,
		Password:  "irrelevant",
		CreateAt:  time.Now(),
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if role != "" {
		journalRole := models.JournalRole{
			JournalID: journalID,
			UserID:    user.UserID,
			Role:      role,
			CreateAt:  time.Now(),
		}
		if err := db.Create(&journalRole).Error; err != nil {
			t.Fatalf("seed journal role: %v", err)
		}
	}
	return user.UserID
}

var submissionSeq int

func seedSubmission(t *testing.T, db *gorm.DB, stage models.SubmissionStage, status models.SubmissionStatus) *models.Submission {
	t.Helper()

	submissionSeq++
	now := time.Now()
	submission := models.Submission{
		SubmissionNumber: fmt.Sprintf("SUB-TEST-%04d", submissionSeq),
		JournalID:        1,
		AuthorID:         1,
		Title:            "On the Testing of Editorial Workflows",
		CurrentStage:     stage,
		Status:           status,
		IsArchived:       status == models.StatusDeclined,
		Version:          1,
		SubmittedAt:      &now,
		CreateAt:         now,
		UpdateAt:         now,
	}
	if err := db.Create(&submission).Error; err != nil {
		t.Fatalf("seed submission: %v", err)
	}
	return &submission
}

func reloadSubmission(t *testing.T, db *gorm.DB, submissionID int) *models.Submission {
	t.Helper()

	var submission models.Submission
	if err := db.Where("submission_id = ?", submissionID).First(&submission).Error; err != nil {
		t.Fatalf("reload submission: %v", err)
	}
	return &submission
}

func editorCapability() RoleCapability {
	return RoleCapability{CanDecide: true, CanRecommend: true}
}

func recommendOnlyCapability() RoleCapability {
	return RoleCapability{CanRecommend: true}
}
