package service

import (
	"context"

	"glerp/internal/model"
	"glerp/internal/repository"

	"github.com/google/uuid"
)

// NotificationService is the read/ack surface over the notification feed.
// Rows are produced by the NotificationDispatcher.
type NotificationService struct {
	notifRepo repository.NotificationRepository
}

func NewNotificationService(notifRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notifRepo: notifRepo}
}

func (s *NotificationService) ListNotifications(ctx context.Context, recipient string, unreadOnly bool, page, limit int) ([]model.ApprovalNotification, int64, error) {
	notifications, total, err := s.notifRepo.ListForRecipient(ctx, recipient, unreadOnly, page, limit)
	if err != nil {
		return nil, 0, NewStorageError("failed to list notifications", err)
	}
	return notifications, total, nil
}

func (s *NotificationService) MarkNotificationRead(ctx context.Context, id uuid.UUID, recipient string) error {
	if err := s.notifRepo.MarkRead(ctx, id, recipient); err != nil {
		return NewStorageError("failed to mark notification read", err)
	}
	return nil
}
