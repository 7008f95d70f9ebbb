package repository

import (
	"context"

	"glerp/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ApprovalLevelRepository interface {
	Create(ctx context.Context, level *model.ApprovalLevel) error
	Update(ctx context.Context, level *model.ApprovalLevel) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ApprovalLevel, error)
	// ListByCompany returns the company's active levels ordered by
	// threshold_low ascending, the order the resolver walks them in.
	ListByCompany(ctx context.Context, companyCode string) ([]model.ApprovalLevel, error)
}

type approvalLevelRepository struct {
	db *gorm.DB
}

func NewApprovalLevelRepository(db *gorm.DB) ApprovalLevelRepository {
	return &approvalLevelRepository{db: db}
}

func (r *approvalLevelRepository) Create(ctx context.Context, level *model.ApprovalLevel) error {
	return GetDB(ctx, r.db).Create(level).Error
}

func (r *approvalLevelRepository) Update(ctx context.Context, level *model.ApprovalLevel) error {
	return GetDB(ctx, r.db).Save(level).Error
}

func (r *approvalLevelRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.ApprovalLevel, error) {
	var level model.ApprovalLevel
	if err := GetDB(ctx, r.db).First(&level, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &level, nil
}

func (r *approvalLevelRepository) ListByCompany(ctx context.Context, companyCode string) ([]model.ApprovalLevel, error) {
	var levels []model.ApprovalLevel
	if err := GetDB(ctx, r.db).
		Where("company_code = ? AND is_active = ?", companyCode, true).
		Order("threshold_low ASC").
		Find(&levels).Error; err != nil {
		return nil, err
	}
	return levels, nil
}
