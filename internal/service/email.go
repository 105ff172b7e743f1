package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"roomstay-backend/internal/config"
	"roomstay-backend/internal/logger"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(cfg config.SendGridConfig) EmailService {
	return &emailService{
		apiKey:    cfg.APIKey,
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
	}
}

func (s *emailService) send(ctx context.Context, to, subject, plainText string) error {
	if s.apiKey == "" {
		// No key configured (dev/test); log instead of sending.
		logger.Debug("email suppressed", "to", to, "subject", subject)
		return nil
	}

	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail("", to)
	htmlContent := fmt.Sprintf("<p>%s</p>", plainText)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *emailService) SendBookingRequestNotification(ctx context.Context, ownerEmail, tenantName, propertyTitle string) error {
	subject := fmt.Sprintf("New Booking Request: %s", propertyTitle)
	body := fmt.Sprintf("%s requested to book a bed at %s. Review the request in your dashboard.", tenantName, propertyTitle)
	return s.send(ctx, ownerEmail, subject, body)
}

func (s *emailService) SendBookingDecisionNotification(ctx context.Context, tenantEmail, propertyTitle, decision string) error {
	subject := fmt.Sprintf("Booking %s: %s", decision, propertyTitle)
	body := fmt.Sprintf("Your booking request for %s was %s.", propertyTitle, decision)
	return s.send(ctx, tenantEmail, subject, body)
}

func (s *emailService) SendBookingCancellationNotification(ctx context.Context, email, propertyTitle, reason string) error {
	subject := fmt.Sprintf("Booking Cancelled: %s", propertyTitle)
	body := fmt.Sprintf("The booking for %s was cancelled. Reason: %s", propertyTitle, reason)
	return s.send(ctx, email, subject, body)
}

func (s *emailService) SendCheckOutNotification(ctx context.Context, ownerEmail, propertyTitle string, netCents int64) error {
	subject := fmt.Sprintf("Stay Completed: %s", propertyTitle)
	body := fmt.Sprintf("The stay at %s has ended. $%.2f is now available for payout.", propertyTitle, float64(netCents)/100)
	return s.send(ctx, ownerEmail, subject, body)
}

func (s *emailService) SendStayReminderNotification(ctx context.Context, tenantEmail, propertyTitle, reminder string) error {
	subject := fmt.Sprintf("Reminder: %s", propertyTitle)
	return s.send(ctx, tenantEmail, subject, reminder)
}

func (s *emailService) SendPayoutRequestedNotification(ctx context.Context, ownerEmail string, amountCents int64) error {
	subject := "Payout Request Submitted"
	body := fmt.Sprintf("Your payout request for $%.2f was submitted and is awaiting review.", float64(amountCents)/100)
	return s.send(ctx, ownerEmail, subject, body)
}

func (s *emailService) SendPayoutProcessedNotification(ctx context.Context, ownerEmail string, amountCents int64, status, note string) error {
	subject := fmt.Sprintf("Payout %s", status)
	body := fmt.Sprintf("Your payout request for $%.2f was %s.", float64(amountCents)/100, status)
	if note != "" {
		body += fmt.Sprintf(" Note: %s", note)
	}
	return s.send(ctx, ownerEmail, subject, body)
}
