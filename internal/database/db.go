package database

import (
	"fmt"

	"glerp/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.GLAccount{},
		&model.BusinessUnit{},
		&model.DocumentType{},
		&model.JournalEntryHeader{},
		&model.JournalEntryLine{},
		&model.ApprovalLevel{},
		&model.Approver{},
		&model.ApprovalDelegation{},
		&model.WorkflowInstance{},
		&model.ApprovalStep{},
		&model.WorkflowAuditLog{},
		&model.ApprovalNotification{},
	)
	if err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	// At most one PENDING workflow instance per document. AutoMigrate cannot
	// express a partial unique index, so it is created directly; the engine
	// relies on it to close the concurrent-submit race.
	err = db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_wf_single_pending
		ON workflow_instances (document_number, company_code)
		WHERE status = 'PENDING'`).Error
	if err != nil {
		return nil, fmt.Errorf("create partial unique index: %w", err)
	}

	return db, nil
}
