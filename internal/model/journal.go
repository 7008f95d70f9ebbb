package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Document workflow_status enum constants. The approval engine reads and
// writes this field as a side effect of workflow transitions.
const (
	DocStatusDraft           = "DRAFT"
	DocStatusPendingApproval = "PENDING_APPROVAL"
	DocStatusApproved        = "APPROVED"
	DocStatusRejected        = "REJECTED"
)

// JournalEntryHeader is a draft or approved journal entry awaiting posting.
// Posting itself is handled by the GL subsystem, not this service.
type JournalEntryHeader struct {
	ID             uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	DocumentNumber string             `gorm:"type:varchar(50);not null;uniqueIndex:idx_je_doc_company" json:"document_number"`
	CompanyCode    string             `gorm:"type:varchar(10);not null;uniqueIndex:idx_je_doc_company" json:"company_code"`
	DocumentDate   time.Time          `gorm:"type:date;not null" json:"document_date"`
	PostingDate    time.Time          `gorm:"type:date;not null" json:"posting_date"`
	DocumentType   string             `gorm:"type:varchar(10);not null;default:'SA'" json:"document_type"`
	Reference      string             `gorm:"type:varchar(100)" json:"reference"`
	Memo           string             `gorm:"type:text" json:"memo"`
	CurrencyCode   string             `gorm:"type:varchar(3);not null;default:'USD'" json:"currency_code"`
	WorkflowStatus string             `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"workflow_status"`
	CreatedBy      string             `gorm:"type:varchar(100);not null;index" json:"created_by"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
	Lines          []JournalEntryLine `gorm:"foreignKey:HeaderID;constraint:OnDelete:CASCADE" json:"lines,omitempty"`
}

// JournalEntryLine is a single debit or credit line of a journal entry.
type JournalEntryLine struct {
	ID               uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	HeaderID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"header_id"`
	LineNumber       int             `gorm:"not null" json:"line_number"`
	GLAccountCode    string          `gorm:"type:varchar(20);not null" json:"gl_account_code"`
	BusinessUnitCode string          `gorm:"type:varchar(20)" json:"business_unit_code"`
	DebitAmount      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"debit_amount"`
	CreditAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"credit_amount"`
	Description      string          `gorm:"type:varchar(255)" json:"description"`
	CreatedAt        time.Time       `json:"created_at"`
}
