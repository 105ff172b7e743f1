package service

import (
	"context"
	"database/sql"
	"errors"

	"roomstay-backend/internal/domain"
	"roomstay-backend/internal/logger"
	"roomstay-backend/internal/repository"
)

type notificationService struct {
	noteRepo repository.NotificationRepository
}

func NewNotificationService(noteRepo repository.NotificationRepository) NotificationService {
	return &notificationService{noteRepo: noteRepo}
}

func (s *notificationService) GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	page, pageSize = clampPage(page, pageSize)
	return s.noteRepo.List(ctx, userID, page, pageSize)
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID, notificationID int32) error {
	err := s.noteRepo.MarkAsRead(ctx, notificationID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// Dispatcher fans a user-facing event out to the notification store and, when
// an email address is known, to the email service. It runs after the caller's
// transaction has committed and never fails the caller.
type Dispatcher struct {
	noteRepo repository.NotificationRepository
}

func NewDispatcher(noteRepo repository.NotificationRepository) *Dispatcher {
	return &Dispatcher{noteRepo: noteRepo}
}

func (d *Dispatcher) Notify(ctx context.Context, userID int32, ntype domain.NotificationType, title, message, link string) {
	n := &domain.Notification{
		UserID:  userID,
		Type:    ntype,
		Title:   title,
		Message: message,
		Link:    link,
	}
	if err := d.noteRepo.Create(ctx, n); err != nil {
		logger.Error("notification create failed", "user_id", userID, "type", ntype, "error", err)
	}
}
