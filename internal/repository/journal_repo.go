package repository

import (
	"context"
	"fmt"
	"time"

	"glerp/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DocumentTotals carries the summed line amounts of one journal entry.
type DocumentTotals struct {
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	LineCount   int64
}

type JournalRepository interface {
	Create(ctx context.Context, header *model.JournalEntryHeader) error
	Save(ctx context.Context, header *model.JournalEntryHeader) error
	FindByDocument(ctx context.Context, documentNumber, companyCode string) (*model.JournalEntryHeader, error)
	FindByDocumentWithLines(ctx context.Context, documentNumber, companyCode string) (*model.JournalEntryHeader, error)
	FindByDocumentForUpdate(ctx context.Context, documentNumber, companyCode string) (*model.JournalEntryHeader, error)
	List(ctx context.Context, companyCode, workflowStatus, createdBy string, page, limit int) ([]model.JournalEntryHeader, int64, error)
	ReplaceLines(ctx context.Context, header *model.JournalEntryHeader, lines []model.JournalEntryLine) error
	// Totals sums line debits and credits for the document.
	Totals(ctx context.Context, documentNumber, companyCode string) (*DocumentTotals, error)
	UpdateWorkflowStatus(ctx context.Context, documentNumber, companyCode, status string) error
	NextDocumentNumber(ctx context.Context, prefix string) (string, error)
}

type journalRepository struct {
	db *gorm.DB
}

func NewJournalRepository(db *gorm.DB) JournalRepository {
	return &journalRepository{db: db}
}

func (r *journalRepository) Create(ctx context.Context, header *model.JournalEntryHeader) error {
	return GetDB(ctx, r.db).Create(header).Error
}

func (r *journalRepository) Save(ctx context.Context, header *model.JournalEntryHeader) error {
	return GetDB(ctx, r.db).Save(header).Error
}

func (r *journalRepository) FindByDocument(ctx context.Context, documentNumber, companyCode string) (*model.JournalEntryHeader, error) {
	var header model.JournalEntryHeader
	if err := GetDB(ctx, r.db).
		First(&header, "document_number = ? AND company_code = ?", documentNumber, companyCode).Error; err != nil {
		return nil, err
	}
	return &header, nil
}

func (r *journalRepository) FindByDocumentWithLines(ctx context.Context, documentNumber, companyCode string) (*model.JournalEntryHeader, error) {
	var header model.JournalEntryHeader
	if err := GetDB(ctx, r.db).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("line_number ASC") }).
		First(&header, "document_number = ? AND company_code = ?", documentNumber, companyCode).Error; err != nil {
		return nil, err
	}
	return &header, nil
}

func (r *journalRepository) FindByDocumentForUpdate(ctx context.Context, documentNumber, companyCode string) (*model.JournalEntryHeader, error) {
	var header model.JournalEntryHeader
	if err := GetDB(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&header, "document_number = ? AND company_code = ?", documentNumber, companyCode).Error; err != nil {
		return nil, err
	}
	return &header, nil
}

func (r *journalRepository) List(ctx context.Context, companyCode, workflowStatus, createdBy string, page, limit int) ([]model.JournalEntryHeader, int64, error) {
	var headers []model.JournalEntryHeader
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.JournalEntryHeader{})
	if companyCode != "" {
		query = query.Where("company_code = ?", companyCode)
	}
	if workflowStatus != "" {
		query = query.Where("workflow_status = ?", workflowStatus)
	}
	if createdBy != "" {
		query = query.Where("created_by = ?", createdBy)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&headers).Error; err != nil {
		return nil, 0, err
	}

	return headers, total, nil
}

func (r *journalRepository) ReplaceLines(ctx context.Context, header *model.JournalEntryHeader, lines []model.JournalEntryLine) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("header_id = ?", header.ID).Delete(&model.JournalEntryLine{}).Error; err != nil {
		return err
	}
	for i := range lines {
		lines[i].HeaderID = header.ID
	}
	return db.Create(&lines).Error
}

func (r *journalRepository) Totals(ctx context.Context, documentNumber, companyCode string) (*DocumentTotals, error) {
	var row struct {
		TotalDebit  decimal.Decimal
		TotalCredit decimal.Decimal
		LineCount   int64
	}
	err := GetDB(ctx, r.db).Table("journal_entry_lines").
		Select(`COALESCE(SUM(journal_entry_lines.debit_amount), 0) AS total_debit,
			COALESCE(SUM(journal_entry_lines.credit_amount), 0) AS total_credit,
			COUNT(journal_entry_lines.id) AS line_count`).
		Joins("JOIN journal_entry_headers ON journal_entry_headers.id = journal_entry_lines.header_id").
		Where("journal_entry_headers.document_number = ? AND journal_entry_headers.company_code = ?",
			documentNumber, companyCode).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &DocumentTotals{
		TotalDebit:  row.TotalDebit,
		TotalCredit: row.TotalCredit,
		LineCount:   row.LineCount,
	}, nil
}

func (r *journalRepository) UpdateWorkflowStatus(ctx context.Context, documentNumber, companyCode, status string) error {
	return GetDB(ctx, r.db).
		Model(&model.JournalEntryHeader{}).
		Where("document_number = ? AND company_code = ?", documentNumber, companyCode).
		Update("workflow_status", status).Error
}

// NextDocumentNumber generates "<prefix>-YYYYMMDD-NNNNN" under an advisory
// lock so concurrent creations cannot produce duplicates.
func (r *journalRepository) NextDocumentNumber(ctx context.Context, prefix string) (string, error) {
	db := GetDB(ctx, r.db)
	today := time.Now().Format("20060102")
	full := prefix + "-" + today + "-"

	db.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", full)

	var count int64
	if err := db.Model(&model.JournalEntryHeader{}).
		Where("document_number LIKE ?", full+"%").
		Count(&count).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%05d", full, count+1), nil
}
