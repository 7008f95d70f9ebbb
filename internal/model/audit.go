package model

import (
	"time"

	"github.com/google/uuid"
)

// Workflow audit action constants
const (
	AuditActionSubmitted    = "SUBMITTED"
	AuditActionStepApproved = "STEP_APPROVED"
	AuditActionApproved     = "APPROVED"
	AuditActionRejected     = "REJECTED"
	AuditActionWithdrawn    = "WITHDRAWN"
	AuditActionAutoApproved = "AUTO_APPROVED"
)

// WorkflowAuditLog is the append-only history of workflow state transitions.
// It is keyed by document identity rather than a workflow-instance foreign
// key so the trail survives across submission cycles. Rows are never updated
// or deleted. OldStatus/NewStatus capture the document's workflow_status
// around the transition.
type WorkflowAuditLog struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	DocumentNumber string    `gorm:"type:varchar(50);not null;index:idx_audit_document" json:"document_number"`
	CompanyCode    string    `gorm:"type:varchar(10);not null;index:idx_audit_document" json:"company_code"`
	Action         string    `gorm:"type:varchar(30);not null;index" json:"action"`
	PerformedBy    string    `gorm:"type:varchar(100);not null" json:"performed_by"`
	OldStatus      string    `gorm:"type:varchar(20)" json:"old_status"`
	NewStatus      string    `gorm:"type:varchar(20)" json:"new_status"`
	Comments       string    `gorm:"type:text" json:"comments"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
}
