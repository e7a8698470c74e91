package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/simlok-project/backend/internal/models"
	"github.com/simlok-project/backend/internal/repositories"
	"github.com/simlok-project/backend/internal/utils"
)

// NotificationService records in-app notifications and, when SendGrid is
// configured, mails the vendor about approval decisions. Email failures are
// logged but never fail the approval itself.
type NotificationService struct {
	notifRepo repositories.NotificationRepository
	userRepo  repositories.UserRepository
	sgClient  *sendgrid.Client
	fromEmail string
}

func NewNotificationService(
	notifRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	sgClient *sendgrid.Client,
	fromEmail string,
) *NotificationService {
	return &NotificationService{
		notifRepo: notifRepo,
		userRepo:  userRepo,
		sgClient:  sgClient,
		fromEmail: fromEmail,
	}
}

func (s *NotificationService) NotifyApprovalDecision(ctx context.Context, sub *models.Submission, approved bool) error {
	var title, message string
	if approved {
		number := ""
		if sub.SimlokNumber != nil {
			number = " " + *sub.SimlokNumber
		}
		title = "Work permit approved"
		message = fmt.Sprintf("Your submission%s for %q has been approved.", number, sub.JobDescription)
	} else {
		title = "Work permit rejected"
		message = fmt.Sprintf("Your submission for %q has been rejected.", sub.JobDescription)
	}

	notif := &models.Notification{
		ID:      uuid.New(),
		UserID:  sub.VendorID,
		Title:   title,
		Message: message,
	}
	if err := s.notifRepo.Create(ctx, notif); err != nil {
		return err
	}

	if s.sgClient == nil {
		utils.Logger.Debug("SendGrid not configured; skipping approval email")
		return nil
	}

	vendor, err := s.userRepo.GetByID(ctx, sub.VendorID)
	if err != nil || vendor == nil {
		utils.Logger.WithError(err).Warn("Could not load vendor for approval email")
		return nil
	}

	from := mail.NewEmail("SIMLOK", s.fromEmail)
	to := mail.NewEmail(vendor.Name, vendor.Email)
	email := mail.NewSingleEmail(from, title, to, message, "<p>"+message+"</p>")
	if _, err := s.sgClient.Send(email); err != nil {
		utils.Logger.WithError(err).Error("Failed to send approval email")
	}
	return nil
}
