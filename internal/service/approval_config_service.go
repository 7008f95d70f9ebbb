package service

import (
	"context"
	"errors"
	"time"

	"glerp/internal/model"
	"glerp/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ApprovalConfigService administers the reference data the workflow engine
// resolves against: approval levels, per-level approver pools, and temporary
// delegations.
type ApprovalConfigService struct {
	levelRepo    repository.ApprovalLevelRepository
	approverRepo repository.ApproverRepository
	userRepo     repository.UserRepository
}

func NewApprovalConfigService(
	levelRepo repository.ApprovalLevelRepository,
	approverRepo repository.ApproverRepository,
	userRepo repository.UserRepository,
) *ApprovalConfigService {
	return &ApprovalConfigService{
		levelRepo:    levelRepo,
		approverRepo: approverRepo,
		userRepo:     userRepo,
	}
}

type ApprovalLevelRequest struct {
	LevelName      string           `json:"level_name" binding:"required"`
	CompanyCode    string           `json:"company_code" binding:"required"`
	ThresholdLow   decimal.Decimal  `json:"threshold_low" binding:"required"`
	ThresholdHigh  *decimal.Decimal `json:"threshold_high"`
	TimeLimitHours int              `json:"time_limit_hours"`
}

type AddApproverRequest struct {
	ApprovalLevelID uuid.UUID `json:"approval_level_id" binding:"required"`
	CompanyCode     string    `json:"company_code" binding:"required"`
	Username        string    `json:"username" binding:"required"`
}

type CreateDelegationRequest struct {
	DelegatorUsername string    `json:"delegator_username" binding:"required"`
	DelegateUsername  string    `json:"delegate_username" binding:"required"`
	StartDate         time.Time `json:"start_date" binding:"required"`
	EndDate           time.Time `json:"end_date" binding:"required"`
	Reason            string    `json:"reason"`
}

func (s *ApprovalConfigService) CreateLevel(ctx context.Context, req ApprovalLevelRequest) (*model.ApprovalLevel, error) {
	if err := validateThresholds(req.ThresholdLow, req.ThresholdHigh); err != nil {
		return nil, err
	}

	timeLimit := req.TimeLimitHours
	if timeLimit <= 0 {
		timeLimit = 48
	}

	level := &model.ApprovalLevel{
		LevelName:      req.LevelName,
		CompanyCode:    req.CompanyCode,
		ThresholdLow:   req.ThresholdLow,
		ThresholdHigh:  req.ThresholdHigh,
		TimeLimitHours: timeLimit,
		IsActive:       true,
	}
	if err := s.levelRepo.Create(ctx, level); err != nil {
		return nil, NewStorageError("failed to create approval level", err)
	}
	return level, nil
}

func (s *ApprovalConfigService) UpdateLevel(ctx context.Context, id uuid.UUID, req ApprovalLevelRequest) (*model.ApprovalLevel, error) {
	if err := validateThresholds(req.ThresholdLow, req.ThresholdHigh); err != nil {
		return nil, err
	}

	level, err := s.levelRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("approval level %s not found", id)
		}
		return nil, NewStorageError("failed to load approval level", err)
	}

	level.LevelName = req.LevelName
	level.ThresholdLow = req.ThresholdLow
	level.ThresholdHigh = req.ThresholdHigh
	if req.TimeLimitHours > 0 {
		level.TimeLimitHours = req.TimeLimitHours
	}
	if err := s.levelRepo.Update(ctx, level); err != nil {
		return nil, NewStorageError("failed to update approval level", err)
	}
	return level, nil
}

func (s *ApprovalConfigService) DeactivateLevel(ctx context.Context, id uuid.UUID) error {
	level, err := s.levelRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("approval level %s not found", id)
		}
		return NewStorageError("failed to load approval level", err)
	}
	level.IsActive = false
	if err := s.levelRepo.Update(ctx, level); err != nil {
		return NewStorageError("failed to deactivate approval level", err)
	}
	return nil
}

func (s *ApprovalConfigService) ListLevels(ctx context.Context, companyCode string) ([]model.ApprovalLevel, error) {
	levels, err := s.levelRepo.ListByCompany(ctx, companyCode)
	if err != nil {
		return nil, NewStorageError("failed to list approval levels", err)
	}
	return levels, nil
}

func (s *ApprovalConfigService) AddApprover(ctx context.Context, req AddApproverRequest) (*model.Approver, error) {
	if _, err := s.levelRepo.FindByID(ctx, req.ApprovalLevelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("approval level %s not found", req.ApprovalLevelID)
		}
		return nil, NewStorageError("failed to load approval level", err)
	}

	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewValidationError("user %s not found", req.Username)
		}
		return nil, NewStorageError("failed to look up user", err)
	}

	existing, err := s.approverRepo.ListForLevel(ctx, req.ApprovalLevelID, req.CompanyCode)
	if err != nil {
		return nil, NewStorageError("failed to load approver pool", err)
	}
	for _, a := range existing {
		if a.UserID == user.ID {
			return nil, NewStateConflictError("%s is already an approver for this level", req.Username)
		}
	}

	approver := &model.Approver{
		ApprovalLevelID: req.ApprovalLevelID,
		CompanyCode:     req.CompanyCode,
		UserID:          user.ID,
		IsActive:        true,
	}
	if err := s.approverRepo.Create(ctx, approver); err != nil {
		return nil, NewStorageError("failed to add approver", err)
	}
	approver.User = user
	return approver, nil
}

func (s *ApprovalConfigService) RemoveApprover(ctx context.Context, id uuid.UUID) error {
	if err := s.approverRepo.Delete(ctx, id); err != nil {
		return NewStorageError("failed to remove approver", err)
	}
	return nil
}

func (s *ApprovalConfigService) ListApprovers(ctx context.Context, companyCode string) ([]model.Approver, error) {
	approvers, err := s.approverRepo.ListByCompany(ctx, companyCode)
	if err != nil {
		return nil, NewStorageError("failed to list approvers", err)
	}
	return approvers, nil
}

func (s *ApprovalConfigService) CreateDelegation(ctx context.Context, req CreateDelegationRequest) (*model.ApprovalDelegation, error) {
	if req.DelegatorUsername == req.DelegateUsername {
		return nil, NewValidationError("delegator and delegate must be different users")
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, NewValidationError("delegation end date precedes its start date")
	}

	delegator, err := s.userRepo.GetByUsername(ctx, req.DelegatorUsername)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewValidationError("user %s not found", req.DelegatorUsername)
		}
		return nil, NewStorageError("failed to look up delegator", err)
	}
	delegate, err := s.userRepo.GetByUsername(ctx, req.DelegateUsername)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewValidationError("user %s not found", req.DelegateUsername)
		}
		return nil, NewStorageError("failed to look up delegate", err)
	}

	delegation := &model.ApprovalDelegation{
		DelegatorID: delegator.ID,
		DelegateID:  delegate.ID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Reason:      req.Reason,
		IsActive:    true,
	}
	if err := s.approverRepo.CreateDelegation(ctx, delegation); err != nil {
		return nil, NewStorageError("failed to create delegation", err)
	}
	delegation.Delegator = delegator
	delegation.Delegate = delegate
	return delegation, nil
}

func (s *ApprovalConfigService) RevokeDelegation(ctx context.Context, id uuid.UUID) error {
	if err := s.approverRepo.RevokeDelegation(ctx, id); err != nil {
		return NewStorageError("failed to revoke delegation", err)
	}
	return nil
}

func validateThresholds(low decimal.Decimal, high *decimal.Decimal) error {
	if low.IsNegative() {
		return NewValidationError("threshold_low must not be negative")
	}
	if high != nil && high.LessThanOrEqual(low) {
		return NewValidationError("threshold_high must be greater than threshold_low")
	}
	return nil
}
