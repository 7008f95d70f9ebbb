package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WorkflowStatus is the lifecycle state of a workflow instance.
// PENDING is the only non-terminal state.
type WorkflowStatus string

const (
	WorkflowStatusPending   WorkflowStatus = "PENDING"
	WorkflowStatusApproved  WorkflowStatus = "APPROVED"
	WorkflowStatusRejected  WorkflowStatus = "REJECTED"
	WorkflowStatusWithdrawn WorkflowStatus = "WITHDRAWN"
)

// StepAction is the decision recorded on a single approval step.
type StepAction string

const (
	StepActionPending   StepAction = "PENDING"
	StepActionApproved  StepAction = "APPROVED"
	StepActionRejected  StepAction = "REJECTED"
	StepActionWithdrawn StepAction = "WITHDRAWN"
)

// Priority enum constants
const (
	PriorityNormal = "NORMAL"
	PriorityHigh   = "HIGH"
	PriorityUrgent = "URGENT"
)

func (s WorkflowStatus) String() string { return string(s) }

func (s WorkflowStatus) IsValid() bool {
	switch s {
	case WorkflowStatusPending, WorkflowStatusApproved, WorkflowStatusRejected, WorkflowStatusWithdrawn:
		return true
	}
	return false
}

// IsTerminal reports whether the status permits no further transitions.
func (s WorkflowStatus) IsTerminal() bool {
	return s.IsValid() && s != WorkflowStatusPending
}

// CanTransition reports whether a workflow instance may move from s to target.
// Only PENDING has outgoing edges; terminal states are permanent.
func (s WorkflowStatus) CanTransition(target WorkflowStatus) bool {
	if s != WorkflowStatusPending {
		return false
	}
	return target.IsValid() && target != WorkflowStatusPending
}

// WorkflowInstance records one in-flight or completed approval cycle for a
// journal entry. At most one PENDING instance may exist per
// (document_number, company_code); the database enforces this with a partial
// unique index, see database.NewConnection.
type WorkflowInstance struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	DocumentNumber  string         `gorm:"type:varchar(50);not null;index:idx_wf_document" json:"document_number"`
	CompanyCode     string         `gorm:"type:varchar(10);not null;index:idx_wf_document" json:"company_code"`
	Status          WorkflowStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	Priority        string         `gorm:"type:varchar(10);not null;default:'NORMAL'" json:"priority"`
	ApprovalLevelID uuid.UUID      `gorm:"type:uuid;not null" json:"approval_level_id"`
	ApprovalLevel   *ApprovalLevel `gorm:"foreignKey:ApprovalLevelID" json:"approval_level,omitempty"`
	CreatedBy       string         `gorm:"type:varchar(100);not null;index" json:"created_by"`
	AssignedTo      string         `gorm:"type:varchar(100)" json:"assigned_to"`
	CreatedAt       time.Time      `json:"created_at"`
	SubmittedAt     time.Time      `gorm:"not null" json:"submitted_at"`
	CompletedAt     *time.Time     `json:"completed_at"`
	ApprovedAt      *time.Time     `json:"approved_at"`
	ApprovedBy      *string        `gorm:"type:varchar(100)" json:"approved_by"`
	Steps           []ApprovalStep `gorm:"foreignKey:WorkflowInstanceID;constraint:OnDelete:CASCADE" json:"steps,omitempty"`
}

// ApprovalStep is one approver's decision slot within a workflow instance.
// Immutable once actioned.
type ApprovalStep struct {
	ID                 uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	WorkflowInstanceID uuid.UUID  `gorm:"type:uuid;not null;index" json:"workflow_instance_id"`
	ApprovalLevelID    uuid.UUID  `gorm:"type:uuid;not null" json:"approval_level_id"`
	Action             StepAction `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"action"`
	ActionBy           *string    `gorm:"type:varchar(100)" json:"action_by"`
	ActionAt           *time.Time `json:"action_at"`
	Comments           string     `gorm:"type:text" json:"comments"`
	AssignedTo         string     `gorm:"type:varchar(100);not null;index" json:"assigned_to"`
	CreatedAt          time.Time  `json:"created_at"`
}

// ApprovalLevel is a configured amount band with its own approver pool and SLA.
// Reference data, never mutated by the engine.
type ApprovalLevel struct {
	ID             uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	LevelName      string           `gorm:"type:varchar(50);not null" json:"level_name"`
	CompanyCode    string           `gorm:"type:varchar(10);not null;index" json:"company_code"`
	ThresholdLow   decimal.Decimal  `gorm:"type:decimal(18,2);not null" json:"threshold_low"`
	ThresholdHigh  *decimal.Decimal `gorm:"type:decimal(18,2)" json:"threshold_high"` // NULL = unbounded
	TimeLimitHours int              `gorm:"not null;default:48" json:"time_limit_hours"`
	IsActive       bool             `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// Approver maps a user into an approval level's pool for one company.
type Approver struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ApprovalLevelID uuid.UUID `gorm:"type:uuid;not null;index" json:"approval_level_id"`
	CompanyCode     string    `gorm:"type:varchar(10);not null;index" json:"company_code"`
	UserID          uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	User            *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	IsActive        bool      `gorm:"default:true" json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}

// ApprovalDelegation temporarily reassigns an approver's pending decisions to
// another user for a date range. While active, the delegate replaces the
// delegator in approver resolution.
type ApprovalDelegation struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	DelegatorID uuid.UUID `gorm:"type:uuid;not null;index" json:"delegator_id"`
	Delegator   *User     `gorm:"foreignKey:DelegatorID" json:"delegator,omitempty"`
	DelegateID  uuid.UUID `gorm:"type:uuid;not null" json:"delegate_id"`
	Delegate    *User     `gorm:"foreignKey:DelegateID" json:"delegate,omitempty"`
	StartDate   time.Time `gorm:"type:date;not null" json:"start_date"`
	EndDate     time.Time `gorm:"type:date;not null" json:"end_date"`
	Reason      string    `gorm:"type:text" json:"reason"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}
