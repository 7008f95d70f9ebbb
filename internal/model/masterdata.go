package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AccountType enum constants
const (
	AccountTypeAsset     = "ASSET"
	AccountTypeLiability = "LIABILITY"
	AccountTypeEquity    = "EQUITY"
	AccountTypeRevenue   = "REVENUE"
	AccountTypeExpense   = "EXPENSE"
)

// GLAccount is one entry in the chart of accounts
type GLAccount struct {
	ID               uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AccountCode      string         `gorm:"type:varchar(20);uniqueIndex;not null" json:"account_code"`
	AccountName      string         `gorm:"type:varchar(255);not null" json:"account_name"`
	AccountType      string         `gorm:"type:varchar(20);not null;index" json:"account_type"` // ASSET, LIABILITY, EQUITY, REVENUE, EXPENSE
	FieldStatusGroup string         `gorm:"type:varchar(20)" json:"field_status_group"`
	IsActive         bool           `gorm:"default:true" json:"is_active"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// BusinessUnit is a reporting segment journal lines can be attributed to
type BusinessUnit struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UnitCode    string         `gorm:"type:varchar(20);uniqueIndex;not null" json:"unit_code"`
	UnitName    string         `gorm:"type:varchar(255);not null" json:"unit_name"`
	CompanyCode string         `gorm:"type:varchar(10);not null;index" json:"company_code"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// DocumentType classifies journal entries and carries the number-range prefix
// used when generating document numbers
type DocumentType struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TypeCode     string    `gorm:"type:varchar(10);uniqueIndex;not null" json:"type_code"`
	Description  string    `gorm:"type:varchar(255);not null" json:"description"`
	NumberPrefix string    `gorm:"type:varchar(10);not null;default:'JE'" json:"number_prefix"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
