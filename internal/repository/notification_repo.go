package repository

import (
	"context"

	"glerp/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	CreateBatch(ctx context.Context, notifications []model.ApprovalNotification) error
	ListForRecipient(ctx context.Context, recipient string, unreadOnly bool, page, limit int) ([]model.ApprovalNotification, int64, error)
	MarkRead(ctx context.Context, id uuid.UUID, recipient string) error
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) CreateBatch(ctx context.Context, notifications []model.ApprovalNotification) error {
	if len(notifications) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).Create(&notifications).Error
}

func (r *notificationRepository) ListForRecipient(ctx context.Context, recipient string, unreadOnly bool, page, limit int) ([]model.ApprovalNotification, int64, error) {
	var notifications []model.ApprovalNotification
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.ApprovalNotification{}).Where("recipient = ?", recipient)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&notifications).Error; err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id uuid.UUID, recipient string) error {
	return GetDB(ctx, r.db).
		Model(&model.ApprovalNotification{}).
		Where("id = ? AND recipient = ?", id, recipient).
		Update("is_read", true).Error
}
