package repository

import (
	"context"

	"glerp/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GLAccountRepository interface {
	Create(ctx context.Context, account *model.GLAccount) error
	Update(ctx context.Context, account *model.GLAccount) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.GLAccount, error)
	FindByCode(ctx context.Context, accountCode string) (*model.GLAccount, error)
	List(ctx context.Context, accountType string, page, limit int) ([]model.GLAccount, int64, error)
}

type glAccountRepository struct {
	db *gorm.DB
}

func NewGLAccountRepository(db *gorm.DB) GLAccountRepository {
	return &glAccountRepository{db: db}
}

func (r *glAccountRepository) Create(ctx context.Context, account *model.GLAccount) error {
	return GetDB(ctx, r.db).Create(account).Error
}

func (r *glAccountRepository) Update(ctx context.Context, account *model.GLAccount) error {
	return GetDB(ctx, r.db).Save(account).Error
}

func (r *glAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.GLAccount{}).Error
}

func (r *glAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.GLAccount, error) {
	var account model.GLAccount
	if err := GetDB(ctx, r.db).First(&account, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *glAccountRepository) FindByCode(ctx context.Context, accountCode string) (*model.GLAccount, error) {
	var account model.GLAccount
	if err := GetDB(ctx, r.db).First(&account, "account_code = ?", accountCode).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *glAccountRepository) List(ctx context.Context, accountType string, page, limit int) ([]model.GLAccount, int64, error) {
	var accounts []model.GLAccount
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.GLAccount{})
	if accountType != "" {
		query = query.Where("account_type = ?", accountType)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("account_code ASC").Offset(offset).Limit(limit).Find(&accounts).Error; err != nil {
		return nil, 0, err
	}

	return accounts, total, nil
}

type BusinessUnitRepository interface {
	Create(ctx context.Context, unit *model.BusinessUnit) error
	Update(ctx context.Context, unit *model.BusinessUnit) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.BusinessUnit, error)
	List(ctx context.Context, companyCode string, page, limit int) ([]model.BusinessUnit, int64, error)
}

type businessUnitRepository struct {
	db *gorm.DB
}

func NewBusinessUnitRepository(db *gorm.DB) BusinessUnitRepository {
	return &businessUnitRepository{db: db}
}

func (r *businessUnitRepository) Create(ctx context.Context, unit *model.BusinessUnit) error {
	return GetDB(ctx, r.db).Create(unit).Error
}

func (r *businessUnitRepository) Update(ctx context.Context, unit *model.BusinessUnit) error {
	return GetDB(ctx, r.db).Save(unit).Error
}

func (r *businessUnitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.BusinessUnit{}).Error
}

func (r *businessUnitRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.BusinessUnit, error) {
	var unit model.BusinessUnit
	if err := GetDB(ctx, r.db).First(&unit, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *businessUnitRepository) List(ctx context.Context, companyCode string, page, limit int) ([]model.BusinessUnit, int64, error) {
	var units []model.BusinessUnit
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.BusinessUnit{})
	if companyCode != "" {
		query = query.Where("company_code = ?", companyCode)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("unit_code ASC").Offset(offset).Limit(limit).Find(&units).Error; err != nil {
		return nil, 0, err
	}

	return units, total, nil
}

type DocumentTypeRepository interface {
	Create(ctx context.Context, docType *model.DocumentType) error
	Update(ctx context.Context, docType *model.DocumentType) error
	FindByCode(ctx context.Context, typeCode string) (*model.DocumentType, error)
	List(ctx context.Context) ([]model.DocumentType, error)
}

type documentTypeRepository struct {
	db *gorm.DB
}

func NewDocumentTypeRepository(db *gorm.DB) DocumentTypeRepository {
	return &documentTypeRepository{db: db}
}

func (r *documentTypeRepository) Create(ctx context.Context, docType *model.DocumentType) error {
	return GetDB(ctx, r.db).Create(docType).Error
}

func (r *documentTypeRepository) Update(ctx context.Context, docType *model.DocumentType) error {
	return GetDB(ctx, r.db).Save(docType).Error
}

func (r *documentTypeRepository) FindByCode(ctx context.Context, typeCode string) (*model.DocumentType, error) {
	var docType model.DocumentType
	if err := GetDB(ctx, r.db).First(&docType, "type_code = ?", typeCode).Error; err != nil {
		return nil, err
	}
	return &docType, nil
}

func (r *documentTypeRepository) List(ctx context.Context) ([]model.DocumentType, error) {
	var types []model.DocumentType
	if err := GetDB(ctx, r.db).Order("type_code ASC").Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}
