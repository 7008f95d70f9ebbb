package service

import (
	"context"
	"encoding/json"

	"glerp/internal/model"
	"glerp/internal/repository"
	ws "glerp/internal/websocket"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotificationDispatcher enqueues approver notifications and pushes them over
// the websocket hub. It is strictly best-effort: a dispatch failure is logged
// and never propagated, so it can never roll back an approval transition.
type NotificationDispatcher struct {
	notifRepo repository.NotificationRepository
	hub       *ws.Hub
	logger    *zap.Logger
}

func NewNotificationDispatcher(notifRepo repository.NotificationRepository, hub *ws.Hub, logger *zap.Logger) *NotificationDispatcher {
	return &NotificationDispatcher{notifRepo: notifRepo, hub: hub, logger: logger}
}

// Dispatch writes one notification row per recipient and broadcasts a push
// message. Called after the workflow transaction has committed.
func (d *NotificationDispatcher) Dispatch(ctx context.Context, instanceID uuid.UUID, notificationType, subject, message string, recipients []string) {
	if len(recipients) == 0 {
		return
	}

	notifications := make([]model.ApprovalNotification, 0, len(recipients))
	for _, recipient := range recipients {
		notifications = append(notifications, model.ApprovalNotification{
			Recipient:          recipient,
			NotificationType:   notificationType,
			Subject:            subject,
			Message:            message,
			WorkflowInstanceID: &instanceID,
		})
	}

	if err := d.notifRepo.CreateBatch(ctx, notifications); err != nil {
		d.logger.Warn("failed to enqueue approval notifications",
			zap.String("workflow_instance_id", instanceID.String()),
			zap.String("notification_type", notificationType),
			zap.Int("recipients", len(recipients)),
			zap.Error(err))
		return
	}

	d.push(instanceID, notificationType, subject, recipients)
}

func (d *NotificationDispatcher) push(instanceID uuid.UUID, notificationType, subject string, recipients []string) {
	if d.hub == nil {
		return
	}

	payload, err := json.Marshal(map[string]interface{}{
		"event":                "approval_notification",
		"workflow_instance_id": instanceID.String(),
		"notification_type":    notificationType,
		"subject":              subject,
	})
	if err != nil {
		return
	}

	for _, recipient := range recipients {
		d.hub.Send(recipient, payload)
	}
}
