package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification type constants
const (
	NotificationTypeApprovalRequest = "APPROVAL_REQUEST"
	NotificationTypeApproved        = "APPROVED"
	NotificationTypeRejected        = "REJECTED"
	NotificationTypeWithdrawn       = "WITHDRAWN"
)

// ApprovalNotification is a write-once outbox record for an approver or
// submitter. Delivery (email/SMS) is handled by an external dispatcher;
// this service only enqueues rows and pushes them over the websocket hub.
type ApprovalNotification struct {
	ID                 uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Recipient          string     `gorm:"type:varchar(100);not null;index" json:"recipient"`
	NotificationType   string     `gorm:"type:varchar(30);not null" json:"notification_type"`
	Subject            string     `gorm:"type:varchar(255);not null" json:"subject"`
	Message            string     `gorm:"type:text" json:"message"`
	WorkflowInstanceID *uuid.UUID `gorm:"type:uuid;index" json:"workflow_instance_id"`
	IsRead             bool       `gorm:"default:false" json:"is_read"`
	CreatedAt          time.Time  `json:"created_at"`
}
