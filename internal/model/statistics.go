package model

import (
	"time"

	"github.com/google/uuid"
)

// WorkflowStatistics aggregates workflow counts, SLA figures and ranking data
type WorkflowStatistics struct {
	TotalWorkflows     int64             `json:"total_workflows"`
	PendingCount       int64             `json:"pending_count"`
	ApprovedCount      int64             `json:"approved_count"`
	RejectedCount      int64             `json:"rejected_count"`
	WithdrawnCount     int64             `json:"withdrawn_count"`
	OverdueCount       int64             `json:"overdue_count"`
	AvgCompletionHours float64           `json:"avg_completion_hours"`
	LevelBreakdown     []LevelCount      `json:"level_breakdown"`
	TopApprovers       []ApproverRanking `json:"top_approvers"`
}

// LevelCount is the number of workflow instances routed to one approval level
type LevelCount struct {
	LevelName string `json:"level_name"`
	Count     int64  `json:"count"`
}

// ApproverRanking is one approver's approval count over the trailing window
type ApproverRanking struct {
	Username      string `json:"username"`
	ApprovedCount int64  `json:"approved_count"`
}

// PendingApproval is a pending step joined with its instance and level,
// as presented in an approver's worklist
type PendingApproval struct {
	StepID             uuid.UUID `json:"step_id"`
	WorkflowInstanceID uuid.UUID `json:"workflow_instance_id"`
	DocumentNumber     string    `json:"document_number"`
	CompanyCode        string    `json:"company_code"`
	Priority           string    `json:"priority"`
	LevelName          string    `json:"level_name"`
	TimeLimitHours     int       `json:"time_limit_hours"`
	CreatedBy          string    `json:"created_by"`
	AssignedTo         string    `json:"assigned_to"`
	SubmittedAt        time.Time `json:"submitted_at"`
	IsOverdue          bool      `json:"is_overdue" gorm:"-"`
}

// WorkflowSummary is a workflow instance joined with its level for listings
type WorkflowSummary struct {
	ID             uuid.UUID  `json:"id"`
	DocumentNumber string     `json:"document_number"`
	CompanyCode    string     `json:"company_code"`
	Status         string     `json:"status"`
	Priority       string     `json:"priority"`
	LevelName      string     `json:"level_name"`
	TimeLimitHours int        `json:"time_limit_hours"`
	CreatedBy      string     `json:"created_by"`
	AssignedTo     string     `json:"assigned_to"`
	SubmittedAt    time.Time  `json:"submitted_at"`
	CompletedAt    *time.Time `json:"completed_at"`
	ApprovedBy     *string    `json:"approved_by"`
	IsOverdue      bool       `json:"is_overdue" gorm:"-"`
}
