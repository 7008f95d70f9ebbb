package service

import (
	"context"
	"time"

	"glerp/internal/model"
	"glerp/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Hand-rolled mocks with overridable func fields. Methods left unset return
// zero values; lookups return gorm.ErrRecordNotFound.

type mockTxManager struct{}

func (m *mockTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type mockJournalRepo struct {
	createFn                  func(ctx context.Context, header *model.JournalEntryHeader) error
	saveFn                    func(ctx context.Context, header *model.JournalEntryHeader) error
	findByDocumentFn          func(ctx context.Context, documentNumber, companyCode string) (*model.JournalEntryHeader, error)
	findByDocumentWithLinesFn func(ctx context.Context, documentNumber, companyCode string) (*model.JournalEntryHeader, error)
	findByDocumentForUpdateFn func(ctx context.Context, documentNumber, companyCode string) (*model.JournalEntryHeader, error)
	listFn                    func(ctx context.Context, companyCode, workflowStatus, createdBy string, page, limit int) ([]model.JournalEntryHeader, int64, error)
	replaceLinesFn            func(ctx context.Context, header *model.JournalEntryHeader, lines []model.JournalEntryLine) error
	totalsFn                  func(ctx context.Context, documentNumber, companyCode string) (*repository.DocumentTotals, error)
	updateWorkflowStatusFn    func(ctx context.Context, documentNumber, companyCode, status string) error
	nextDocumentNumberFn      func(ctx context.Context, prefix string) (string, error)
}

func (m *mockJournalRepo) Create(ctx context.Context, header *model.JournalEntryHeader) error {
	if m.createFn != nil {
		return m.createFn(ctx, header)
	}
	return nil
}

func (m *mockJournalRepo) Save(ctx context.Context, header *model.JournalEntryHeader) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, header)
	}
	return nil
}

func (m *mockJournalRepo) FindByDocument(ctx context.Context, documentNumber, companyCode string) (*model.JournalEntryHeader, error) {
	if m.findByDocumentFn != nil {
		return m.findByDocumentFn(ctx, documentNumber, companyCode)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockJournalRepo) FindByDocumentWithLines(ctx context.Context, documentNumber, companyCode string) (*model.JournalEntryHeader, error) {
	if m.findByDocumentWithLinesFn != nil {
		return m.findByDocumentWithLinesFn(ctx, documentNumber, companyCode)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockJournalRepo) FindByDocumentForUpdate(ctx context.Context, documentNumber, companyCode string) (*model.JournalEntryHeader, error) {
	if m.findByDocumentForUpdateFn != nil {
		return m.findByDocumentForUpdateFn(ctx, documentNumber, companyCode)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockJournalRepo) List(ctx context.Context, companyCode, workflowStatus, createdBy string, page, limit int) ([]model.JournalEntryHeader, int64, error) {
	if m.listFn != nil {
		return m.listFn(ctx, companyCode, workflowStatus, createdBy, page, limit)
	}
	return nil, 0, nil
}

func (m *mockJournalRepo) ReplaceLines(ctx context.Context, header *model.JournalEntryHeader, lines []model.JournalEntryLine) error {
	if m.replaceLinesFn != nil {
		return m.replaceLinesFn(ctx, header, lines)
	}
	return nil
}

func (m *mockJournalRepo) Totals(ctx context.Context, documentNumber, companyCode string) (*repository.DocumentTotals, error) {
	if m.totalsFn != nil {
		return m.totalsFn(ctx, documentNumber, companyCode)
	}
	return &repository.DocumentTotals{}, nil
}

func (m *mockJournalRepo) UpdateWorkflowStatus(ctx context.Context, documentNumber, companyCode, status string) error {
	if m.updateWorkflowStatusFn != nil {
		return m.updateWorkflowStatusFn(ctx, documentNumber, companyCode, status)
	}
	return nil
}

func (m *mockJournalRepo) NextDocumentNumber(ctx context.Context, prefix string) (string, error) {
	if m.nextDocumentNumberFn != nil {
		return m.nextDocumentNumberFn(ctx, prefix)
	}
	return prefix + "-20260101-00001", nil
}

type mockWorkflowRepo struct {
	createWithStepsFn       func(ctx context.Context, instance *model.WorkflowInstance, steps []model.ApprovalStep) error
	findByIDFn              func(ctx context.Context, id uuid.UUID) (*model.WorkflowInstance, error)
	findByIDForUpdateFn     func(ctx context.Context, id uuid.UUID) (*model.WorkflowInstance, error)
	findPendingByDocumentFn func(ctx context.Context, documentNumber, companyCode string) (*model.WorkflowInstance, error)
	stepsByInstanceFn       func(ctx context.Context, instanceID uuid.UUID) ([]model.ApprovalStep, error)
	saveInstanceFn          func(ctx context.Context, instance *model.WorkflowInstance) error
	saveStepFn              func(ctx context.Context, step *model.ApprovalStep) error
	cancelPendingStepsFn    func(ctx context.Context, instanceID uuid.UUID, actionBy string, actionAt time.Time, comments string) error
	pendingStepsForUserFn   func(ctx context.Context, assignees []string) ([]model.PendingApproval, error)
	listSinceFn             func(ctx context.Context, status model.WorkflowStatus, since time.Time) ([]model.WorkflowSummary, error)
}

func (m *mockWorkflowRepo) CreateWithSteps(ctx context.Context, instance *model.WorkflowInstance, steps []model.ApprovalStep) error {
	if m.createWithStepsFn != nil {
		return m.createWithStepsFn(ctx, instance, steps)
	}
	return nil
}

func (m *mockWorkflowRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.WorkflowInstance, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWorkflowRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.WorkflowInstance, error) {
	if m.findByIDForUpdateFn != nil {
		return m.findByIDForUpdateFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWorkflowRepo) FindPendingByDocument(ctx context.Context, documentNumber, companyCode string) (*model.WorkflowInstance, error) {
	if m.findPendingByDocumentFn != nil {
		return m.findPendingByDocumentFn(ctx, documentNumber, companyCode)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWorkflowRepo) StepsByInstance(ctx context.Context, instanceID uuid.UUID) ([]model.ApprovalStep, error) {
	if m.stepsByInstanceFn != nil {
		return m.stepsByInstanceFn(ctx, instanceID)
	}
	return nil, nil
}

func (m *mockWorkflowRepo) SaveInstance(ctx context.Context, instance *model.WorkflowInstance) error {
	if m.saveInstanceFn != nil {
		return m.saveInstanceFn(ctx, instance)
	}
	return nil
}

func (m *mockWorkflowRepo) SaveStep(ctx context.Context, step *model.ApprovalStep) error {
	if m.saveStepFn != nil {
		return m.saveStepFn(ctx, step)
	}
	return nil
}

func (m *mockWorkflowRepo) CancelPendingSteps(ctx context.Context, instanceID uuid.UUID, actionBy string, actionAt time.Time, comments string) error {
	if m.cancelPendingStepsFn != nil {
		return m.cancelPendingStepsFn(ctx, instanceID, actionBy, actionAt, comments)
	}
	return nil
}

func (m *mockWorkflowRepo) PendingStepsForUser(ctx context.Context, assignees []string) ([]model.PendingApproval, error) {
	if m.pendingStepsForUserFn != nil {
		return m.pendingStepsForUserFn(ctx, assignees)
	}
	return nil, nil
}

func (m *mockWorkflowRepo) ListSince(ctx context.Context, status model.WorkflowStatus, since time.Time) ([]model.WorkflowSummary, error) {
	if m.listSinceFn != nil {
		return m.listSinceFn(ctx, status, since)
	}
	return nil, nil
}

type mockLevelRepo struct {
	createFn        func(ctx context.Context, level *model.ApprovalLevel) error
	updateFn        func(ctx context.Context, level *model.ApprovalLevel) error
	findByIDFn      func(ctx context.Context, id uuid.UUID) (*model.ApprovalLevel, error)
	listByCompanyFn func(ctx context.Context, companyCode string) ([]model.ApprovalLevel, error)
}

func (m *mockLevelRepo) Create(ctx context.Context, level *model.ApprovalLevel) error {
	if m.createFn != nil {
		return m.createFn(ctx, level)
	}
	return nil
}

func (m *mockLevelRepo) Update(ctx context.Context, level *model.ApprovalLevel) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, level)
	}
	return nil
}

func (m *mockLevelRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ApprovalLevel, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLevelRepo) ListByCompany(ctx context.Context, companyCode string) ([]model.ApprovalLevel, error) {
	if m.listByCompanyFn != nil {
		return m.listByCompanyFn(ctx, companyCode)
	}
	return nil, nil
}

type mockApproverRepo struct {
	createFn                func(ctx context.Context, approver *model.Approver) error
	deleteFn                func(ctx context.Context, id uuid.UUID) error
	listForLevelFn          func(ctx context.Context, levelID uuid.UUID, companyCode string) ([]model.Approver, error)
	listByCompanyFn         func(ctx context.Context, companyCode string) ([]model.Approver, error)
	createDelegationFn      func(ctx context.Context, delegation *model.ApprovalDelegation) error
	revokeDelegationFn      func(ctx context.Context, id uuid.UUID) error
	activeDelegationsFromFn func(ctx context.Context, delegators []string, onDate time.Time) ([]model.ApprovalDelegation, error)
	activeDelegationsToFn   func(ctx context.Context, delegate string, onDate time.Time) ([]model.ApprovalDelegation, error)
}

func (m *mockApproverRepo) Create(ctx context.Context, approver *model.Approver) error {
	if m.createFn != nil {
		return m.createFn(ctx, approver)
	}
	return nil
}

func (m *mockApproverRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockApproverRepo) ListForLevel(ctx context.Context, levelID uuid.UUID, companyCode string) ([]model.Approver, error) {
	if m.listForLevelFn != nil {
		return m.listForLevelFn(ctx, levelID, companyCode)
	}
	return nil, nil
}

func (m *mockApproverRepo) ListByCompany(ctx context.Context, companyCode string) ([]model.Approver, error) {
	if m.listByCompanyFn != nil {
		return m.listByCompanyFn(ctx, companyCode)
	}
	return nil, nil
}

func (m *mockApproverRepo) CreateDelegation(ctx context.Context, delegation *model.ApprovalDelegation) error {
	if m.createDelegationFn != nil {
		return m.createDelegationFn(ctx, delegation)
	}
	return nil
}

func (m *mockApproverRepo) RevokeDelegation(ctx context.Context, id uuid.UUID) error {
	if m.revokeDelegationFn != nil {
		return m.revokeDelegationFn(ctx, id)
	}
	return nil
}

func (m *mockApproverRepo) ActiveDelegationsFrom(ctx context.Context, delegators []string, onDate time.Time) ([]model.ApprovalDelegation, error) {
	if m.activeDelegationsFromFn != nil {
		return m.activeDelegationsFromFn(ctx, delegators, onDate)
	}
	return nil, nil
}

func (m *mockApproverRepo) ActiveDelegationsTo(ctx context.Context, delegate string, onDate time.Time) ([]model.ApprovalDelegation, error) {
	if m.activeDelegationsToFn != nil {
		return m.activeDelegationsToFn(ctx, delegate, onDate)
	}
	return nil, nil
}

type mockAuditRepo struct {
	appendFn         func(ctx context.Context, entry *model.WorkflowAuditLog) error
	listByDocumentFn func(ctx context.Context, documentNumber, companyCode string) ([]model.WorkflowAuditLog, error)
	listFn           func(ctx context.Context, page, limit int) ([]model.WorkflowAuditLog, int64, error)

	entries []model.WorkflowAuditLog
}

func (m *mockAuditRepo) Append(ctx context.Context, entry *model.WorkflowAuditLog) error {
	if m.appendFn != nil {
		return m.appendFn(ctx, entry)
	}
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockAuditRepo) ListByDocument(ctx context.Context, documentNumber, companyCode string) ([]model.WorkflowAuditLog, error) {
	if m.listByDocumentFn != nil {
		return m.listByDocumentFn(ctx, documentNumber, companyCode)
	}
	return m.entries, nil
}

func (m *mockAuditRepo) List(ctx context.Context, page, limit int) ([]model.WorkflowAuditLog, int64, error) {
	if m.listFn != nil {
		return m.listFn(ctx, page, limit)
	}
	return m.entries, int64(len(m.entries)), nil
}

type mockStatsRepo struct {
	countByStatusFn       func(ctx context.Context) (map[model.WorkflowStatus]int64, error)
	countOverduePendingFn func(ctx context.Context, asOf time.Time) (int64, error)
	avgCompletionHoursFn  func(ctx context.Context) (float64, error)
	levelBreakdownFn      func(ctx context.Context) ([]model.LevelCount, error)
	topApproversFn        func(ctx context.Context, since time.Time, limit int) ([]model.ApproverRanking, error)
}

func (m *mockStatsRepo) CountByStatus(ctx context.Context) (map[model.WorkflowStatus]int64, error) {
	if m.countByStatusFn != nil {
		return m.countByStatusFn(ctx)
	}
	return map[model.WorkflowStatus]int64{}, nil
}

func (m *mockStatsRepo) CountOverduePending(ctx context.Context, asOf time.Time) (int64, error) {
	if m.countOverduePendingFn != nil {
		return m.countOverduePendingFn(ctx, asOf)
	}
	return 0, nil
}

func (m *mockStatsRepo) AvgCompletionHours(ctx context.Context) (float64, error) {
	if m.avgCompletionHoursFn != nil {
		return m.avgCompletionHoursFn(ctx)
	}
	return 0, nil
}

func (m *mockStatsRepo) LevelBreakdown(ctx context.Context) ([]model.LevelCount, error) {
	if m.levelBreakdownFn != nil {
		return m.levelBreakdownFn(ctx)
	}
	return nil, nil
}

func (m *mockStatsRepo) TopApprovers(ctx context.Context, since time.Time, limit int) ([]model.ApproverRanking, error) {
	if m.topApproversFn != nil {
		return m.topApproversFn(ctx, since, limit)
	}
	return nil, nil
}

type mockNotificationRepo struct {
	createBatchFn func(ctx context.Context, notifications []model.ApprovalNotification) error

	created []model.ApprovalNotification
}

func (m *mockNotificationRepo) CreateBatch(ctx context.Context, notifications []model.ApprovalNotification) error {
	if m.createBatchFn != nil {
		return m.createBatchFn(ctx, notifications)
	}
	m.created = append(m.created, notifications...)
	return nil
}

func (m *mockNotificationRepo) ListForRecipient(ctx context.Context, recipient string, unreadOnly bool, page, limit int) ([]model.ApprovalNotification, int64, error) {
	return m.created, int64(len(m.created)), nil
}

func (m *mockNotificationRepo) MarkRead(ctx context.Context, id uuid.UUID, recipient string) error {
	return nil
}

type mockGLAccountRepo struct {
	findByCodeFn func(ctx context.Context, accountCode string) (*model.GLAccount, error)
}

func (m *mockGLAccountRepo) Create(ctx context.Context, account *model.GLAccount) error { return nil }
func (m *mockGLAccountRepo) Update(ctx context.Context, account *model.GLAccount) error { return nil }
func (m *mockGLAccountRepo) Delete(ctx context.Context, id uuid.UUID) error             { return nil }

func (m *mockGLAccountRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.GLAccount, error) {
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGLAccountRepo) FindByCode(ctx context.Context, accountCode string) (*model.GLAccount, error) {
	if m.findByCodeFn != nil {
		return m.findByCodeFn(ctx, accountCode)
	}
	return &model.GLAccount{AccountCode: accountCode, IsActive: true}, nil
}

func (m *mockGLAccountRepo) List(ctx context.Context, accountType string, page, limit int) ([]model.GLAccount, int64, error) {
	return nil, 0, nil
}

type mockDocumentTypeRepo struct {
	findByCodeFn func(ctx context.Context, typeCode string) (*model.DocumentType, error)
}

func (m *mockDocumentTypeRepo) Create(ctx context.Context, docType *model.DocumentType) error {
	return nil
}

func (m *mockDocumentTypeRepo) Update(ctx context.Context, docType *model.DocumentType) error {
	return nil
}

func (m *mockDocumentTypeRepo) FindByCode(ctx context.Context, typeCode string) (*model.DocumentType, error) {
	if m.findByCodeFn != nil {
		return m.findByCodeFn(ctx, typeCode)
	}
	return &model.DocumentType{TypeCode: typeCode, NumberPrefix: "JE", IsActive: true}, nil
}

func (m *mockDocumentTypeRepo) List(ctx context.Context) ([]model.DocumentType, error) {
	return nil, nil
}
