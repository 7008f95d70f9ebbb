package repository

import (
	"context"

	"glerp/internal/model"

	"gorm.io/gorm"
)

// WorkflowAuditRepository is append-only: entries are written once per state
// transition, inside the same transaction as the transition itself, and are
// never updated or deleted.
type WorkflowAuditRepository interface {
	Append(ctx context.Context, entry *model.WorkflowAuditLog) error
	ListByDocument(ctx context.Context, documentNumber, companyCode string) ([]model.WorkflowAuditLog, error)
	List(ctx context.Context, page, limit int) ([]model.WorkflowAuditLog, int64, error)
}

type workflowAuditRepository struct {
	db *gorm.DB
}

func NewWorkflowAuditRepository(db *gorm.DB) WorkflowAuditRepository {
	return &workflowAuditRepository{db: db}
}

func (r *workflowAuditRepository) Append(ctx context.Context, entry *model.WorkflowAuditLog) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *workflowAuditRepository) ListByDocument(ctx context.Context, documentNumber, companyCode string) ([]model.WorkflowAuditLog, error) {
	var entries []model.WorkflowAuditLog
	if err := GetDB(ctx, r.db).
		Where("document_number = ? AND company_code = ?", documentNumber, companyCode).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *workflowAuditRepository) List(ctx context.Context, page, limit int) ([]model.WorkflowAuditLog, int64, error) {
	var entries []model.WorkflowAuditLog
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.WorkflowAuditLog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
