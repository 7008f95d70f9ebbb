package service

import (
	"context"
	"errors"

	"glerp/internal/model"
	"glerp/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MasterDataService administers the reference data journal entries validate
// against: the chart of accounts, business units and document types.
type MasterDataService struct {
	glRepo      repository.GLAccountRepository
	buRepo      repository.BusinessUnitRepository
	docTypeRepo repository.DocumentTypeRepository
}

func NewMasterDataService(
	glRepo repository.GLAccountRepository,
	buRepo repository.BusinessUnitRepository,
	docTypeRepo repository.DocumentTypeRepository,
) *MasterDataService {
	return &MasterDataService{
		glRepo:      glRepo,
		buRepo:      buRepo,
		docTypeRepo: docTypeRepo,
	}
}

type GLAccountRequest struct {
	AccountCode      string `json:"account_code" binding:"required"`
	AccountName      string `json:"account_name" binding:"required"`
	AccountType      string `json:"account_type" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	FieldStatusGroup string `json:"field_status_group"`
}

type BusinessUnitRequest struct {
	UnitCode    string `json:"unit_code" binding:"required"`
	UnitName    string `json:"unit_name" binding:"required"`
	CompanyCode string `json:"company_code" binding:"required"`
}

type DocumentTypeRequest struct {
	TypeCode     string `json:"type_code" binding:"required"`
	Description  string `json:"description" binding:"required"`
	NumberPrefix string `json:"number_prefix"`
}

// --- GL accounts ---

func (s *MasterDataService) CreateGLAccount(ctx context.Context, req GLAccountRequest) (*model.GLAccount, error) {
	if _, err := s.glRepo.FindByCode(ctx, req.AccountCode); err == nil {
		return nil, NewStateConflictError("GL account %s already exists", req.AccountCode)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NewStorageError("failed to check for existing account", err)
	}

	account := &model.GLAccount{
		AccountCode:      req.AccountCode,
		AccountName:      req.AccountName,
		AccountType:      req.AccountType,
		FieldStatusGroup: req.FieldStatusGroup,
		IsActive:         true,
	}
	if err := s.glRepo.Create(ctx, account); err != nil {
		return nil, NewStorageError("failed to create GL account", err)
	}
	return account, nil
}

func (s *MasterDataService) UpdateGLAccount(ctx context.Context, id uuid.UUID, req GLAccountRequest) (*model.GLAccount, error) {
	account, err := s.glRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("GL account %s not found", id)
		}
		return nil, NewStorageError("failed to load GL account", err)
	}

	account.AccountName = req.AccountName
	account.AccountType = req.AccountType
	account.FieldStatusGroup = req.FieldStatusGroup
	if err := s.glRepo.Update(ctx, account); err != nil {
		return nil, NewStorageError("failed to update GL account", err)
	}
	return account, nil
}

func (s *MasterDataService) DeleteGLAccount(ctx context.Context, id uuid.UUID) error {
	if err := s.glRepo.Delete(ctx, id); err != nil {
		return NewStorageError("failed to delete GL account", err)
	}
	return nil
}

func (s *MasterDataService) ListGLAccounts(ctx context.Context, accountType string, page, limit int) ([]model.GLAccount, int64, error) {
	accounts, total, err := s.glRepo.List(ctx, accountType, page, limit)
	if err != nil {
		return nil, 0, NewStorageError("failed to list GL accounts", err)
	}
	return accounts, total, nil
}

// --- Business units ---

func (s *MasterDataService) CreateBusinessUnit(ctx context.Context, req BusinessUnitRequest) (*model.BusinessUnit, error) {
	unit := &model.BusinessUnit{
		UnitCode:    req.UnitCode,
		UnitName:    req.UnitName,
		CompanyCode: req.CompanyCode,
		IsActive:    true,
	}
	if err := s.buRepo.Create(ctx, unit); err != nil {
		return nil, NewStorageError("failed to create business unit", err)
	}
	return unit, nil
}

func (s *MasterDataService) UpdateBusinessUnit(ctx context.Context, id uuid.UUID, req BusinessUnitRequest) (*model.BusinessUnit, error) {
	unit, err := s.buRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("business unit %s not found", id)
		}
		return nil, NewStorageError("failed to load business unit", err)
	}

	unit.UnitName = req.UnitName
	unit.CompanyCode = req.CompanyCode
	if err := s.buRepo.Update(ctx, unit); err != nil {
		return nil, NewStorageError("failed to update business unit", err)
	}
	return unit, nil
}

func (s *MasterDataService) DeleteBusinessUnit(ctx context.Context, id uuid.UUID) error {
	if err := s.buRepo.Delete(ctx, id); err != nil {
		return NewStorageError("failed to delete business unit", err)
	}
	return nil
}

func (s *MasterDataService) ListBusinessUnits(ctx context.Context, companyCode string, page, limit int) ([]model.BusinessUnit, int64, error) {
	units, total, err := s.buRepo.List(ctx, companyCode, page, limit)
	if err != nil {
		return nil, 0, NewStorageError("failed to list business units", err)
	}
	return units, total, nil
}

// --- Document types ---

func (s *MasterDataService) CreateDocumentType(ctx context.Context, req DocumentTypeRequest) (*model.DocumentType, error) {
	if _, err := s.docTypeRepo.FindByCode(ctx, req.TypeCode); err == nil {
		return nil, NewStateConflictError("document type %s already exists", req.TypeCode)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NewStorageError("failed to check for existing document type", err)
	}

	prefix := req.NumberPrefix
	if prefix == "" {
		prefix = "JE"
	}
	docType := &model.DocumentType{
		TypeCode:     req.TypeCode,
		Description:  req.Description,
		NumberPrefix: prefix,
		IsActive:     true,
	}
	if err := s.docTypeRepo.Create(ctx, docType); err != nil {
		return nil, NewStorageError("failed to create document type", err)
	}
	return docType, nil
}

func (s *MasterDataService) ListDocumentTypes(ctx context.Context) ([]model.DocumentType, error) {
	types, err := s.docTypeRepo.List(ctx)
	if err != nil {
		return nil, NewStorageError("failed to list document types", err)
	}
	return types, nil
}
