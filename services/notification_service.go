package services

import (
	"fmt"
	"log"
	"time"

	"journal-workflow-api/config"
	"journal-workflow-api/models"
	"journal-workflow-api/utils"

	"gorm.io/gorm"
)

// NotificationService tells authors about workflow events. It runs after
// the decision transaction has committed and is best-effort: a failed
// notification never rolls back a decision.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// NotifyDecision stores an in-app notification for the author and sends
// the decision email in the background.
func (s *NotificationService) NotifyDecision(submission *models.Submission, result *DecisionResult) {
	submissionID := submission.SubmissionID
	message := fmt.Sprintf("An editorial decision (%s) was recorded on submission %s.",
		result.Decision, submission.SubmissionNumber)

	notification := models.Notification{
		UserID:              submission.AuthorID,
		Title:               "Editorial decision recorded",
		Message:             message,
		Type:                "info",
		RelatedSubmissionID: &submissionID,
		CreateAt:            time.Now(),
	}
	if err := s.db.Create(&notification).Error; err != nil {
		log.Printf("Warning: failed to store decision notification: %v", err)
	}

	var author models.User
	err := s.db.Select("email").
		Where("user_id = ? AND delete_at IS NULL", submission.AuthorID).
		First(&author).Error
	if err != nil || !utils.ValidateEmail(author.Email) {
		return
	}

	subject := fmt.Sprintf("Decision on submission %s", submission.SubmissionNumber)
	body := fmt.Sprintf("<p>%s</p><p>Current stage: %s, status: %s.</p>",
		message, result.NewStage, result.NewStatus)
	go func() {
		if err := config.SendMail([]string{author.Email}, subject, body); err != nil {
			log.Printf("Warning: failed to send decision email: %v", err)
		}
	}()
}
