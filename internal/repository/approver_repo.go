package repository

import (
	"context"
	"time"

	"glerp/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ApproverRepository interface {
	Create(ctx context.Context, approver *model.Approver) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ListForLevel returns the active approver pool for a level and company,
	// users preloaded, in assignment order.
	ListForLevel(ctx context.Context, levelID uuid.UUID, companyCode string) ([]model.Approver, error)
	ListByCompany(ctx context.Context, companyCode string) ([]model.Approver, error)
	CreateDelegation(ctx context.Context, delegation *model.ApprovalDelegation) error
	RevokeDelegation(ctx context.Context, id uuid.UUID) error
	// ActiveDelegationsFrom returns delegations active on the given date where
	// one of the usernames is the delegator.
	ActiveDelegationsFrom(ctx context.Context, delegators []string, onDate time.Time) ([]model.ApprovalDelegation, error)
	// ActiveDelegationsTo returns delegations active on the given date where
	// the username is the delegate.
	ActiveDelegationsTo(ctx context.Context, delegate string, onDate time.Time) ([]model.ApprovalDelegation, error)
}

type approverRepository struct {
	db *gorm.DB
}

func NewApproverRepository(db *gorm.DB) ApproverRepository {
	return &approverRepository{db: db}
}

func (r *approverRepository) Create(ctx context.Context, approver *model.Approver) error {
	return GetDB(ctx, r.db).Create(approver).Error
}

func (r *approverRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Approver{}).Error
}

func (r *approverRepository) ListForLevel(ctx context.Context, levelID uuid.UUID, companyCode string) ([]model.Approver, error) {
	var approvers []model.Approver
	if err := GetDB(ctx, r.db).
		Preload("User").
		Where("approval_level_id = ? AND company_code = ? AND is_active = ?", levelID, companyCode, true).
		Order("created_at ASC").
		Find(&approvers).Error; err != nil {
		return nil, err
	}
	return approvers, nil
}

func (r *approverRepository) ListByCompany(ctx context.Context, companyCode string) ([]model.Approver, error) {
	var approvers []model.Approver
	if err := GetDB(ctx, r.db).
		Preload("User").
		Where("company_code = ?", companyCode).
		Order("created_at ASC").
		Find(&approvers).Error; err != nil {
		return nil, err
	}
	return approvers, nil
}

func (r *approverRepository) CreateDelegation(ctx context.Context, delegation *model.ApprovalDelegation) error {
	return GetDB(ctx, r.db).Create(delegation).Error
}

func (r *approverRepository) RevokeDelegation(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).
		Model(&model.ApprovalDelegation{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

func (r *approverRepository) ActiveDelegationsFrom(ctx context.Context, delegators []string, onDate time.Time) ([]model.ApprovalDelegation, error) {
	var delegations []model.ApprovalDelegation
	if len(delegators) == 0 {
		return delegations, nil
	}
	if err := GetDB(ctx, r.db).
		Preload("Delegator").
		Preload("Delegate").
		Joins("JOIN users ON users.id = approval_delegations.delegator_id").
		Where("users.username IN ?", delegators).
		Where("approval_delegations.is_active = ?", true).
		Where("approval_delegations.start_date <= ? AND approval_delegations.end_date >= ?", onDate, onDate).
		Find(&delegations).Error; err != nil {
		return nil, err
	}
	return delegations, nil
}

func (r *approverRepository) ActiveDelegationsTo(ctx context.Context, delegate string, onDate time.Time) ([]model.ApprovalDelegation, error) {
	var delegations []model.ApprovalDelegation
	if err := GetDB(ctx, r.db).
		Preload("Delegator").
		Joins("JOIN users ON users.id = approval_delegations.delegate_id").
		Where("users.username = ?", delegate).
		Where("approval_delegations.is_active = ?", true).
		Where("approval_delegations.start_date <= ? AND approval_delegations.end_date >= ?", onDate, onDate).
		Find(&delegations).Error; err != nil {
		return nil, err
	}
	return delegations, nil
}
