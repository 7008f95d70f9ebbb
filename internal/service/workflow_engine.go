package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"glerp/internal/model"
	"glerp/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// WorkflowEngine routes draft journal entries through amount-based,
// multi-approver sign-off. Every mutating operation runs inside a single
// transaction with a row lock on the targeted workflow instance, writes
// exactly one audit entry per state transition, and returns a
// (success, message) pair instead of an error so callers can render inline
// feedback. Recoverable failures surface their message; storage failures are
// logged in full and surfaced generically.
type WorkflowEngine struct {
	txm          repository.TransactionManager
	journalRepo  repository.JournalRepository
	workflowRepo repository.WorkflowRepository
	approverRepo repository.ApproverRepository
	auditRepo    repository.WorkflowAuditRepository
	statsRepo    repository.StatisticsRepository
	resolver     *ApprovalLevelResolver
	directory    *ApproverDirectory
	dispatcher   *NotificationDispatcher
	logger       *zap.Logger
}

func NewWorkflowEngine(
	txm repository.TransactionManager,
	journalRepo repository.JournalRepository,
	workflowRepo repository.WorkflowRepository,
	approverRepo repository.ApproverRepository,
	auditRepo repository.WorkflowAuditRepository,
	statsRepo repository.StatisticsRepository,
	resolver *ApprovalLevelResolver,
	directory *ApproverDirectory,
	dispatcher *NotificationDispatcher,
	logger *zap.Logger,
) *WorkflowEngine {
	return &WorkflowEngine{
		txm:          txm,
		journalRepo:  journalRepo,
		workflowRepo: workflowRepo,
		approverRepo: approverRepo,
		auditRepo:    auditRepo,
		statsRepo:    statsRepo,
		resolver:     resolver,
		directory:    directory,
		dispatcher:   dispatcher,
		logger:       logger,
	}
}

// SubmitRequest carries the inputs of SubmitForApproval.
type SubmitRequest struct {
	DocumentNumber string `json:"document_number" binding:"required"`
	CompanyCode    string `json:"company_code" binding:"required"`
	Priority       string `json:"priority" binding:"omitempty,oneof=NORMAL HIGH URGENT"`
	Comments       string `json:"comments"`
	SubmittedBy    string `json:"-"`
}

// --- Mutating operations ---

// SubmitForApproval moves a DRAFT document into a PENDING workflow instance
// with one approval step per resolved approver. Documents below the lowest
// configured threshold are auto-approved without an instance.
func (e *WorkflowEngine) SubmitForApproval(ctx context.Context, req SubmitRequest) (bool, string) {
	msg, err := e.submit(ctx, req)
	return e.toResult("submit for approval", req.DocumentNumber, req.CompanyCode, msg, err)
}

// ApproveDocumentByID records the acting user's approval on their pending
// step. Approving the last outstanding step promotes the whole instance and
// flips the document's workflow_status to APPROVED.
func (e *WorkflowEngine) ApproveDocumentByID(ctx context.Context, instanceID uuid.UUID, actor, comments string) (bool, string) {
	msg, err := e.approve(ctx, instanceID, actor, comments)
	return e.toResult("approve document", instanceID.String(), "", msg, err)
}

// RejectDocument short-circuits the instance: a single eligible approver's
// rejection moves it straight to REJECTED and cancels all sibling pending
// steps, regardless of approvals already recorded.
func (e *WorkflowEngine) RejectDocument(ctx context.Context, instanceID uuid.UUID, actor, comments string) (bool, string) {
	msg, err := e.reject(ctx, instanceID, actor, comments)
	return e.toResult("reject document", instanceID.String(), "", msg, err)
}

// WithdrawSubmission lets the original submitter cancel their own PENDING
// instance, returning the document to DRAFT.
func (e *WorkflowEngine) WithdrawSubmission(ctx context.Context, instanceID uuid.UUID, actor, comments string) (bool, string) {
	msg, err := e.withdraw(ctx, instanceID, actor, comments)
	return e.toResult("withdraw submission", instanceID.String(), "", msg, err)
}

func (e *WorkflowEngine) toResult(op, target, companyCode, msg string, err error) (bool, string) {
	if err == nil {
		return true, msg
	}
	if !IsRecoverable(err) {
		fields := []zap.Field{zap.String("operation", op), zap.String("target", target), zap.Error(err)}
		if companyCode != "" {
			fields = append(fields, zap.String("company_code", companyCode))
		}
		e.logger.Error("workflow operation failed", fields...)
	}
	return false, CallerMessage(err)
}

func (e *WorkflowEngine) submit(ctx context.Context, req SubmitRequest) (string, error) {
	header, err := e.journalRepo.FindByDocument(ctx, req.DocumentNumber, req.CompanyCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", NewNotFoundError("document %s not found for company %s", req.DocumentNumber, req.CompanyCode)
		}
		return "", NewStorageError("failed to load document", err)
	}
	if header.WorkflowStatus != model.DocStatusDraft {
		return "", NewStateConflictError("document %s is %s; only DRAFT documents can be submitted",
			req.DocumentNumber, header.WorkflowStatus)
	}

	required, err := e.resolver.CalculateRequiredApprovalLevel(ctx, req.DocumentNumber, req.CompanyCode)
	if err != nil {
		return "", err
	}

	if required.LevelID == nil {
		err := e.txm.RunInTx(ctx, func(txCtx context.Context) error {
			// Re-read under FOR UPDATE: the DRAFT check above ran outside the
			// transaction, and two concurrent sub-threshold submits must not
			// both auto-approve.
			locked, err := e.journalRepo.FindByDocumentForUpdate(txCtx, req.DocumentNumber, req.CompanyCode)
			if err != nil {
				return NewStorageError("failed to lock document", err)
			}
			if locked.WorkflowStatus != model.DocStatusDraft {
				return NewStateConflictError("document %s is %s; only DRAFT documents can be submitted",
					req.DocumentNumber, locked.WorkflowStatus)
			}
			if err := e.journalRepo.UpdateWorkflowStatus(txCtx, req.DocumentNumber, req.CompanyCode, model.DocStatusApproved); err != nil {
				return NewStorageError("failed to auto-approve document", err)
			}
			return e.appendAudit(txCtx, req.DocumentNumber, req.CompanyCode, model.AuditActionAutoApproved,
				req.SubmittedBy, model.DocStatusDraft, model.DocStatusApproved,
				fmt.Sprintf("amount %s below lowest approval threshold", required.Amount.StringFixed(2)))
		})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Document %s requires no approval (amount %s) and was auto-approved",
			req.DocumentNumber, required.Amount.StringFixed(2)), nil
	}

	approvers, err := e.directory.GetAvailableApprovers(ctx, *required.LevelID, req.CompanyCode, header.CreatedBy)
	if err != nil {
		return "", err
	}
	// An unapprovable instance must never be created: no approvers means no
	// submission, not a silently stuck workflow.
	if len(approvers) == 0 {
		return "", NewValidationError("no eligible approvers configured for %s in company %s; submission blocked",
			required.LevelName, req.CompanyCode)
	}

	priority := req.Priority
	if priority == "" {
		priority = model.PriorityNormal
	}

	now := time.Now()
	instance := &model.WorkflowInstance{
		DocumentNumber:  req.DocumentNumber,
		CompanyCode:     req.CompanyCode,
		Status:          model.WorkflowStatusPending,
		Priority:        priority,
		ApprovalLevelID: *required.LevelID,
		CreatedBy:       req.SubmittedBy,
		AssignedTo:      approvers[0].Username,
		SubmittedAt:     now,
	}

	steps := make([]model.ApprovalStep, 0, len(approvers))
	recipients := make([]string, 0, len(approvers))
	for _, approver := range approvers {
		steps = append(steps, model.ApprovalStep{
			ApprovalLevelID: *required.LevelID,
			Action:          model.StepActionPending,
			AssignedTo:      approver.Username,
		})
		recipients = append(recipients, approver.Username)
	}

	err = e.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := e.workflowRepo.FindPendingByDocument(txCtx, req.DocumentNumber, req.CompanyCode); err == nil {
			return NewStateConflictError("a pending approval workflow already exists for document %s", req.DocumentNumber)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return NewStorageError("failed to check for existing workflow", err)
		}

		if err := e.workflowRepo.CreateWithSteps(txCtx, instance, steps); err != nil {
			// Partial unique index on (document_number, company_code) WHERE
			// status='PENDING' closes the race between the check above and
			// this insert.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return NewStateConflictError("a pending approval workflow already exists for document %s", req.DocumentNumber)
			}
			return NewStorageError("failed to create workflow instance", err)
		}

		if err := e.journalRepo.UpdateWorkflowStatus(txCtx, req.DocumentNumber, req.CompanyCode, model.DocStatusPendingApproval); err != nil {
			return NewStorageError("failed to update document status", err)
		}

		return e.appendAudit(txCtx, req.DocumentNumber, req.CompanyCode, model.AuditActionSubmitted,
			req.SubmittedBy, model.DocStatusDraft, model.DocStatusPendingApproval, req.Comments)
	})
	if err != nil {
		return "", err
	}

	e.dispatcher.Dispatch(ctx, instance.ID, model.NotificationTypeApprovalRequest,
		fmt.Sprintf("Approval required: %s", req.DocumentNumber),
		fmt.Sprintf("Journal entry %s (company %s, amount %s) awaits your approval at %s",
			req.DocumentNumber, req.CompanyCode, required.Amount.StringFixed(2), required.LevelName),
		recipients)

	return fmt.Sprintf("Document %s submitted for approval at %s (%d approver(s) assigned)",
		req.DocumentNumber, required.LevelName, len(approvers)), nil
}

func (e *WorkflowEngine) approve(ctx context.Context, instanceID uuid.UUID, actor, comments string) (string, error) {
	var (
		msg       string
		completed bool
		docNumber string
		submitter string
	)

	err := e.txm.RunInTx(ctx, func(txCtx context.Context) error {
		instance, steps, err := e.lockPendingInstance(txCtx, instanceID)
		if err != nil {
			return err
		}

		now := time.Now()
		identities, err := e.effectiveIdentities(txCtx, actor, now)
		if err != nil {
			return err
		}
		step, err := actionableStep(steps, actor, identities)
		if err != nil {
			return err
		}

		step.Action = model.StepActionApproved
		step.ActionBy = &actor
		step.ActionAt = &now
		step.Comments = comments
		if err := e.workflowRepo.SaveStep(txCtx, step); err != nil {
			return NewStorageError("failed to record approval step", err)
		}

		outstanding := 0
		for i := range steps {
			if steps[i].ID != step.ID && steps[i].Action == model.StepActionPending {
				outstanding++
			}
		}

		docNumber = instance.DocumentNumber
		submitter = instance.CreatedBy

		if outstanding > 0 {
			msg = fmt.Sprintf("Approval recorded for %s; %d approval(s) still outstanding",
				instance.DocumentNumber, outstanding)
			return e.appendAudit(txCtx, instance.DocumentNumber, instance.CompanyCode,
				model.AuditActionStepApproved, actor,
				model.DocStatusPendingApproval, model.DocStatusPendingApproval, comments)
		}

		instance.Status = model.WorkflowStatusApproved
		instance.CompletedAt = &now
		instance.ApprovedAt = &now
		instance.ApprovedBy = &actor
		if err := e.workflowRepo.SaveInstance(txCtx, instance); err != nil {
			return NewStorageError("failed to complete workflow instance", err)
		}

		if err := e.journalRepo.UpdateWorkflowStatus(txCtx, instance.DocumentNumber, instance.CompanyCode, model.DocStatusApproved); err != nil {
			return NewStorageError("failed to update document status", err)
		}

		completed = true
		msg = fmt.Sprintf("Document %s fully approved", instance.DocumentNumber)
		return e.appendAudit(txCtx, instance.DocumentNumber, instance.CompanyCode,
			model.AuditActionApproved, actor,
			model.DocStatusPendingApproval, model.DocStatusApproved, comments)
	})
	if err != nil {
		return "", err
	}

	if completed {
		e.dispatcher.Dispatch(ctx, instanceID, model.NotificationTypeApproved,
			fmt.Sprintf("Approved: %s", docNumber),
			fmt.Sprintf("Journal entry %s was approved by %s", docNumber, actor),
			[]string{submitter})
	}

	return msg, nil
}

func (e *WorkflowEngine) reject(ctx context.Context, instanceID uuid.UUID, actor, comments string) (string, error) {
	var (
		msg       string
		docNumber string
		submitter string
	)

	err := e.txm.RunInTx(ctx, func(txCtx context.Context) error {
		instance, steps, err := e.lockPendingInstance(txCtx, instanceID)
		if err != nil {
			return err
		}

		now := time.Now()
		identities, err := e.effectiveIdentities(txCtx, actor, now)
		if err != nil {
			return err
		}
		step, err := actionableStep(steps, actor, identities)
		if err != nil {
			return err
		}

		step.Action = model.StepActionRejected
		step.ActionBy = &actor
		step.ActionAt = &now
		step.Comments = comments
		if err := e.workflowRepo.SaveStep(txCtx, step); err != nil {
			return NewStorageError("failed to record rejection step", err)
		}

		// One rejection ends the whole instance; sibling pending steps are
		// cancelled regardless of approvals already recorded.
		if err := e.workflowRepo.CancelPendingSteps(txCtx, instance.ID, actor, now, "cancelled: workflow rejected"); err != nil {
			return NewStorageError("failed to cancel sibling steps", err)
		}

		instance.Status = model.WorkflowStatusRejected
		instance.CompletedAt = &now
		if err := e.workflowRepo.SaveInstance(txCtx, instance); err != nil {
			return NewStorageError("failed to reject workflow instance", err)
		}

		if err := e.journalRepo.UpdateWorkflowStatus(txCtx, instance.DocumentNumber, instance.CompanyCode, model.DocStatusRejected); err != nil {
			return NewStorageError("failed to update document status", err)
		}

		docNumber = instance.DocumentNumber
		submitter = instance.CreatedBy
		msg = fmt.Sprintf("Document %s rejected", instance.DocumentNumber)
		return e.appendAudit(txCtx, instance.DocumentNumber, instance.CompanyCode,
			model.AuditActionRejected, actor,
			model.DocStatusPendingApproval, model.DocStatusRejected, comments)
	})
	if err != nil {
		return "", err
	}

	e.dispatcher.Dispatch(ctx, instanceID, model.NotificationTypeRejected,
		fmt.Sprintf("Rejected: %s", docNumber),
		fmt.Sprintf("Journal entry %s was rejected by %s: %s", docNumber, actor, comments),
		[]string{submitter})

	return msg, nil
}

func (e *WorkflowEngine) withdraw(ctx context.Context, instanceID uuid.UUID, actor, comments string) (string, error) {
	var (
		msg        string
		docNumber  string
		recipients []string
	)

	err := e.txm.RunInTx(ctx, func(txCtx context.Context) error {
		instance, steps, err := e.lockPendingInstance(txCtx, instanceID)
		if err != nil {
			return err
		}

		if instance.CreatedBy != actor {
			return NewAuthorizationError("only the original submitter may withdraw this submission")
		}

		for i := range steps {
			if steps[i].Action == model.StepActionPending {
				recipients = append(recipients, steps[i].AssignedTo)
			}
		}

		now := time.Now()
		cancelNote := comments
		if cancelNote == "" {
			cancelNote = "withdrawn by submitter"
		}
		if err := e.workflowRepo.CancelPendingSteps(txCtx, instance.ID, actor, now, cancelNote); err != nil {
			return NewStorageError("failed to cancel open steps", err)
		}

		instance.Status = model.WorkflowStatusWithdrawn
		instance.CompletedAt = &now
		if err := e.workflowRepo.SaveInstance(txCtx, instance); err != nil {
			return NewStorageError("failed to withdraw workflow instance", err)
		}

		if err := e.journalRepo.UpdateWorkflowStatus(txCtx, instance.DocumentNumber, instance.CompanyCode, model.DocStatusDraft); err != nil {
			return NewStorageError("failed to update document status", err)
		}

		docNumber = instance.DocumentNumber
		msg = fmt.Sprintf("Submission for %s withdrawn; document returned to draft", instance.DocumentNumber)
		return e.appendAudit(txCtx, instance.DocumentNumber, instance.CompanyCode,
			model.AuditActionWithdrawn, actor,
			model.DocStatusPendingApproval, model.DocStatusDraft, comments)
	})
	if err != nil {
		return "", err
	}

	e.dispatcher.Dispatch(ctx, instanceID, model.NotificationTypeWithdrawn,
		fmt.Sprintf("Withdrawn: %s", docNumber),
		fmt.Sprintf("Journal entry %s was withdrawn by its submitter", docNumber),
		recipients)

	return msg, nil
}

// lockPendingInstance loads the instance under FOR UPDATE and verifies it is
// still PENDING. The row lock serializes concurrent approve/reject/withdraw
// calls targeting the same instance.
func (e *WorkflowEngine) lockPendingInstance(ctx context.Context, instanceID uuid.UUID) (*model.WorkflowInstance, []model.ApprovalStep, error) {
	instance, err := e.workflowRepo.FindByIDForUpdate(ctx, instanceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, NewNotFoundError("workflow instance %s not found", instanceID)
		}
		return nil, nil, NewStorageError("failed to load workflow instance", err)
	}
	if instance.Status != model.WorkflowStatusPending {
		return nil, nil, NewStateConflictError("workflow for document %s is already %s",
			instance.DocumentNumber, instance.Status)
	}

	steps, err := e.workflowRepo.StepsByInstance(ctx, instance.ID)
	if err != nil {
		return nil, nil, NewStorageError("failed to load approval steps", err)
	}
	return instance, steps, nil
}

// effectiveIdentities returns the usernames the actor may act as: their own,
// plus every delegator with a delegation to them active on the given date.
// Delegation is a temporary reassignment of the delegator's pending
// decisions, so the same set drives both the worklist and approve/reject.
func (e *WorkflowEngine) effectiveIdentities(ctx context.Context, actor string, onDate time.Time) ([]string, error) {
	identities := []string{actor}
	delegations, err := e.approverRepo.ActiveDelegationsTo(ctx, actor, onDate)
	if err != nil {
		return nil, NewStorageError("failed to load delegations", err)
	}
	for _, dg := range delegations {
		if dg.Delegator != nil {
			identities = append(identities, dg.Delegator.Username)
		}
	}
	return identities, nil
}

// actionableStep returns the first pending step assigned to any of the
// actor's identities, distinguishing "already actioned" (StateConflict) from
// "never eligible" (Authorization).
func actionableStep(steps []model.ApprovalStep, actor string, identities []string) (*model.ApprovalStep, error) {
	assigned := make(map[string]bool, len(identities))
	for _, identity := range identities {
		assigned[identity] = true
	}

	actedBefore := false
	for i := range steps {
		if !assigned[steps[i].AssignedTo] {
			continue
		}
		if steps[i].Action == model.StepActionPending {
			return &steps[i], nil
		}
		actedBefore = true
	}
	if actedBefore {
		return nil, NewStateConflictError("approval step for %s has already been actioned", actor)
	}
	return nil, NewAuthorizationError("%s is not a resolved approver for this workflow", actor)
}

func (e *WorkflowEngine) appendAudit(ctx context.Context, documentNumber, companyCode, action, performedBy, oldStatus, newStatus, comments string) error {
	entry := &model.WorkflowAuditLog{
		DocumentNumber: documentNumber,
		CompanyCode:    companyCode,
		Action:         action,
		PerformedBy:    performedBy,
		OldStatus:      oldStatus,
		NewStatus:      newStatus,
		Comments:       comments,
	}
	if err := e.auditRepo.Append(ctx, entry); err != nil {
		return NewStorageError("failed to write audit entry", err)
	}
	return nil
}

// --- Query operations ---

// CalculateRequiredApprovalLevel exposes the resolver on the engine surface.
func (e *WorkflowEngine) CalculateRequiredApprovalLevel(ctx context.Context, documentNumber, companyCode string) (*RequiredLevel, error) {
	return e.resolver.CalculateRequiredApprovalLevel(ctx, documentNumber, companyCode)
}

// GetAvailableApprovers exposes the directory on the engine surface.
func (e *WorkflowEngine) GetAvailableApprovers(ctx context.Context, levelID uuid.UUID, companyCode, excludedUser string) ([]ApproverInfo, error) {
	return e.directory.GetAvailableApprovers(ctx, levelID, companyCode, excludedUser)
}

// GetPendingApprovals returns every pending step assigned to the user,
// directly or through an active delegation, with overdue annotation.
func (e *WorkflowEngine) GetPendingApprovals(ctx context.Context, username string) ([]model.PendingApproval, error) {
	now := time.Now()

	assignees, err := e.effectiveIdentities(ctx, username, now)
	if err != nil {
		return nil, err
	}

	rows, err := e.workflowRepo.PendingStepsForUser(ctx, assignees)
	if err != nil {
		return nil, NewStorageError("failed to load pending approvals", err)
	}
	for i := range rows {
		rows[i].IsOverdue = isOverdue(rows[i].SubmittedAt, rows[i].TimeLimitHours, now)
	}
	return rows, nil
}

// GetAllWorkflows lists instances created within the trailing window,
// optionally filtered by status, with overdue annotation.
func (e *WorkflowEngine) GetAllWorkflows(ctx context.Context, status model.WorkflowStatus, daysBack int) ([]model.WorkflowSummary, error) {
	if daysBack <= 0 {
		daysBack = 30
	}
	now := time.Now()
	since := now.AddDate(0, 0, -daysBack)

	rows, err := e.workflowRepo.ListSince(ctx, status, since)
	if err != nil {
		return nil, NewStorageError("failed to list workflows", err)
	}
	for i := range rows {
		if rows[i].Status == string(model.WorkflowStatusPending) {
			rows[i].IsOverdue = isOverdue(rows[i].SubmittedAt, rows[i].TimeLimitHours, now)
		}
	}
	return rows, nil
}

// GetWorkflowStatistics aggregates workflow counts, SLA stats and approver
// rankings over the trailing 30 days for the dashboard.
func (e *WorkflowEngine) GetWorkflowStatistics(ctx context.Context) (*model.WorkflowStatistics, error) {
	now := time.Now()

	counts, err := e.statsRepo.CountByStatus(ctx)
	if err != nil {
		return nil, NewStorageError("failed to count workflows by status", err)
	}

	overdue, err := e.statsRepo.CountOverduePending(ctx, now)
	if err != nil {
		return nil, NewStorageError("failed to count overdue workflows", err)
	}

	avgHours, err := e.statsRepo.AvgCompletionHours(ctx)
	if err != nil {
		return nil, NewStorageError("failed to compute average completion time", err)
	}

	breakdown, err := e.statsRepo.LevelBreakdown(ctx)
	if err != nil {
		return nil, NewStorageError("failed to compute level breakdown", err)
	}

	topApprovers, err := e.statsRepo.TopApprovers(ctx, now.AddDate(0, 0, -30), 5)
	if err != nil {
		return nil, NewStorageError("failed to compute top approvers", err)
	}

	stats := &model.WorkflowStatistics{
		PendingCount:       counts[model.WorkflowStatusPending],
		ApprovedCount:      counts[model.WorkflowStatusApproved],
		RejectedCount:      counts[model.WorkflowStatusRejected],
		WithdrawnCount:     counts[model.WorkflowStatusWithdrawn],
		OverdueCount:       overdue,
		AvgCompletionHours: avgHours,
		LevelBreakdown:     breakdown,
		TopApprovers:       topApprovers,
	}
	for _, count := range counts {
		stats.TotalWorkflows += count
	}
	return stats, nil
}

// isOverdue reports whether elapsed time since submission exceeds the
// level's time limit.
func isOverdue(submittedAt time.Time, timeLimitHours int, now time.Time) bool {
	return now.Sub(submittedAt) > time.Duration(timeLimitHours)*time.Hour
}
