package service

import (
	"context"
	"errors"
	"time"

	"glerp/internal/model"
	"glerp/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// JournalService manages draft journal entries up to the point they enter the
// approval workflow. Lines must balance before a draft can be saved; editing a
// REJECTED document resets it to DRAFT so it can be resubmitted.
type JournalService struct {
	txm         repository.TransactionManager
	journalRepo repository.JournalRepository
	glRepo      repository.GLAccountRepository
	docTypeRepo repository.DocumentTypeRepository
	logger      *zap.Logger
}

func NewJournalService(
	txm repository.TransactionManager,
	journalRepo repository.JournalRepository,
	glRepo repository.GLAccountRepository,
	docTypeRepo repository.DocumentTypeRepository,
	logger *zap.Logger,
) *JournalService {
	return &JournalService{
		txm:         txm,
		journalRepo: journalRepo,
		glRepo:      glRepo,
		docTypeRepo: docTypeRepo,
		logger:      logger,
	}
}

type JournalLineRequest struct {
	GLAccountCode    string          `json:"gl_account_code" binding:"required"`
	BusinessUnitCode string          `json:"business_unit_code"`
	DebitAmount      decimal.Decimal `json:"debit_amount"`
	CreditAmount     decimal.Decimal `json:"credit_amount"`
	Description      string          `json:"description"`
}

type CreateJournalRequest struct {
	CompanyCode  string               `json:"company_code" binding:"required"`
	DocumentDate time.Time            `json:"document_date" binding:"required"`
	PostingDate  time.Time            `json:"posting_date" binding:"required"`
	DocumentType string               `json:"document_type"`
	Reference    string               `json:"reference"`
	Memo         string               `json:"memo"`
	CurrencyCode string               `json:"currency_code"`
	Lines        []JournalLineRequest `json:"lines" binding:"required,min=2"`
	CreatedBy    string               `json:"-"`
}

type UpdateJournalRequest struct {
	DocumentDate time.Time            `json:"document_date" binding:"required"`
	PostingDate  time.Time            `json:"posting_date" binding:"required"`
	Reference    string               `json:"reference"`
	Memo         string               `json:"memo"`
	Lines        []JournalLineRequest `json:"lines" binding:"required,min=2"`
	UpdatedBy    string               `json:"-"`
}

// CreateJournalEntry validates and persists a new DRAFT journal entry,
// generating its document number from the document type's number prefix.
func (s *JournalService) CreateJournalEntry(ctx context.Context, req CreateJournalRequest) (*model.JournalEntryHeader, error) {
	lines, err := s.buildLines(ctx, req.Lines)
	if err != nil {
		return nil, err
	}

	docType := req.DocumentType
	if docType == "" {
		docType = "SA"
	}
	dt, err := s.docTypeRepo.FindByCode(ctx, docType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewValidationError("unknown document type %s", docType)
		}
		return nil, NewStorageError("failed to load document type", err)
	}
	if !dt.IsActive {
		return nil, NewValidationError("document type %s is inactive", docType)
	}

	currency := req.CurrencyCode
	if currency == "" {
		currency = "USD"
	}

	header := &model.JournalEntryHeader{
		CompanyCode:    req.CompanyCode,
		DocumentDate:   req.DocumentDate,
		PostingDate:    req.PostingDate,
		DocumentType:   dt.TypeCode,
		Reference:      req.Reference,
		Memo:           req.Memo,
		CurrencyCode:   currency,
		WorkflowStatus: model.DocStatusDraft,
		CreatedBy:      req.CreatedBy,
		Lines:          lines,
	}

	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		number, err := s.journalRepo.NextDocumentNumber(txCtx, dt.NumberPrefix)
		if err != nil {
			return NewStorageError("failed to generate document number", err)
		}
		header.DocumentNumber = number
		if err := s.journalRepo.Create(txCtx, header); err != nil {
			return NewStorageError("failed to create journal entry", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("journal entry created",
		zap.String("document_number", header.DocumentNumber),
		zap.String("company_code", header.CompanyCode),
		zap.String("created_by", header.CreatedBy))
	return header, nil
}

// UpdateJournalEntry replaces the header fields and lines of a DRAFT or
// REJECTED document. A REJECTED document is reset to DRAFT so it re-enters
// the workflow as a fresh submission.
func (s *JournalService) UpdateJournalEntry(ctx context.Context, documentNumber, companyCode string, req UpdateJournalRequest) (*model.JournalEntryHeader, error) {
	lines, err := s.buildLines(ctx, req.Lines)
	if err != nil {
		return nil, err
	}

	var header *model.JournalEntryHeader
	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		header, err = s.journalRepo.FindByDocumentForUpdate(txCtx, documentNumber, companyCode)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("document %s not found for company %s", documentNumber, companyCode)
			}
			return NewStorageError("failed to load journal entry", err)
		}

		switch header.WorkflowStatus {
		case model.DocStatusDraft:
			// stays DRAFT
		case model.DocStatusRejected:
			header.WorkflowStatus = model.DocStatusDraft
		default:
			return NewStateConflictError("document %s is %s and cannot be edited",
				documentNumber, header.WorkflowStatus)
		}

		header.DocumentDate = req.DocumentDate
		header.PostingDate = req.PostingDate
		header.Reference = req.Reference
		header.Memo = req.Memo

		if err := s.journalRepo.Save(txCtx, header); err != nil {
			return NewStorageError("failed to update journal entry", err)
		}
		if err := s.journalRepo.ReplaceLines(txCtx, header, lines); err != nil {
			return NewStorageError("failed to replace journal lines", err)
		}
		header.Lines = lines
		return nil
	})
	if err != nil {
		return nil, err
	}
	return header, nil
}

func (s *JournalService) GetJournalEntry(ctx context.Context, documentNumber, companyCode string) (*model.JournalEntryHeader, error) {
	header, err := s.journalRepo.FindByDocumentWithLines(ctx, documentNumber, companyCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("document %s not found for company %s", documentNumber, companyCode)
		}
		return nil, NewStorageError("failed to load journal entry", err)
	}
	return header, nil
}

func (s *JournalService) ListJournalEntries(ctx context.Context, companyCode, workflowStatus, createdBy string, page, limit int) ([]model.JournalEntryHeader, int64, error) {
	headers, total, err := s.journalRepo.List(ctx, companyCode, workflowStatus, createdBy, page, limit)
	if err != nil {
		return nil, 0, NewStorageError("failed to list journal entries", err)
	}
	return headers, total, nil
}

// buildLines validates the requested lines and converts them to models.
// Every line carries exactly one positive side, all accounts must exist and
// be active, and total debits must equal total credits.
func (s *JournalService) buildLines(ctx context.Context, reqLines []JournalLineRequest) ([]model.JournalEntryLine, error) {
	if len(reqLines) < 2 {
		return nil, NewValidationError("a journal entry needs at least two lines")
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	lines := make([]model.JournalEntryLine, 0, len(reqLines))

	for i, line := range reqLines {
		debitSet := line.DebitAmount.IsPositive()
		creditSet := line.CreditAmount.IsPositive()
		if line.DebitAmount.IsNegative() || line.CreditAmount.IsNegative() {
			return nil, NewValidationError("line %d: amounts must not be negative", i+1)
		}
		if debitSet == creditSet {
			return nil, NewValidationError("line %d: exactly one of debit or credit must be positive", i+1)
		}

		account, err := s.glRepo.FindByCode(ctx, line.GLAccountCode)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, NewValidationError("line %d: unknown GL account %s", i+1, line.GLAccountCode)
			}
			return nil, NewStorageError("failed to look up GL account", err)
		}
		if !account.IsActive {
			return nil, NewValidationError("line %d: GL account %s is inactive", i+1, line.GLAccountCode)
		}

		totalDebit = totalDebit.Add(line.DebitAmount)
		totalCredit = totalCredit.Add(line.CreditAmount)
		lines = append(lines, model.JournalEntryLine{
			LineNumber:       i + 1,
			GLAccountCode:    line.GLAccountCode,
			BusinessUnitCode: line.BusinessUnitCode,
			DebitAmount:      line.DebitAmount,
			CreditAmount:     line.CreditAmount,
			Description:      line.Description,
		})
	}

	if !totalDebit.Equal(totalCredit) {
		return nil, NewValidationError("journal entry is unbalanced: debits %s, credits %s",
			totalDebit.StringFixed(2), totalCredit.StringFixed(2))
	}
	return lines, nil
}
