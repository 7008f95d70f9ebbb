package service

import (
	"context"
	"testing"
	"time"

	"glerp/internal/model"
	"glerp/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type engineFixture struct {
	engine       *WorkflowEngine
	journalRepo  *mockJournalRepo
	workflowRepo *mockWorkflowRepo
	approverRepo *mockApproverRepo
	auditRepo    *mockAuditRepo
	notifRepo    *mockNotificationRepo
	statsRepo    *mockStatsRepo
}

func newEngineFixture(journalRepo *mockJournalRepo, workflowRepo *mockWorkflowRepo, levelRepo *mockLevelRepo, approverRepo *mockApproverRepo) *engineFixture {
	auditRepo := &mockAuditRepo{}
	notifRepo := &mockNotificationRepo{}
	statsRepo := &mockStatsRepo{}
	logger := zap.NewNop()

	resolver := NewApprovalLevelResolver(journalRepo, levelRepo)
	directory := NewApproverDirectory(approverRepo)
	dispatcher := NewNotificationDispatcher(notifRepo, nil, logger)

	engine := NewWorkflowEngine(&mockTxManager{}, journalRepo, workflowRepo, approverRepo,
		auditRepo, statsRepo, resolver, directory, dispatcher, logger)

	return &engineFixture{
		engine:       engine,
		journalRepo:  journalRepo,
		workflowRepo: workflowRepo,
		approverRepo: approverRepo,
		auditRepo:    auditRepo,
		notifRepo:    notifRepo,
		statsRepo:    statsRepo,
	}
}

func draftJournalRepo(amount string, statuses map[string]string) *mockJournalRepo {
	draft := func(ctx context.Context, documentNumber, companyCode string) (*model.JournalEntryHeader, error) {
		return &model.JournalEntryHeader{
			DocumentNumber: documentNumber,
			CompanyCode:    companyCode,
			WorkflowStatus: model.DocStatusDraft,
			CreatedBy:      "carol",
		}, nil
	}
	return &mockJournalRepo{
		findByDocumentFn:          draft,
		findByDocumentForUpdateFn: draft,
		totalsFn: func(ctx context.Context, documentNumber, companyCode string) (*repository.DocumentTotals, error) {
			return &repository.DocumentTotals{TotalDebit: dec(amount), TotalCredit: dec(amount), LineCount: 2}, nil
		},
		updateWorkflowStatusFn: func(ctx context.Context, documentNumber, companyCode, status string) error {
			statuses[documentNumber] = status
			return nil
		},
	}
}

func poolOf(users ...*model.User) func(ctx context.Context, levelID uuid.UUID, companyCode string) ([]model.Approver, error) {
	return func(ctx context.Context, levelID uuid.UUID, companyCode string) ([]model.Approver, error) {
		approvers := make([]model.Approver, 0, len(users))
		for _, u := range users {
			approvers = append(approvers, model.Approver{User: u})
		}
		return approvers, nil
	}
}

func levelsOf(levels []model.ApprovalLevel) *mockLevelRepo {
	return &mockLevelRepo{
		listByCompanyFn: func(ctx context.Context, companyCode string) ([]model.ApprovalLevel, error) {
			return levels, nil
		},
	}
}

func TestSubmitForApproval(t *testing.T) {
	alice := poolUser("alice")
	bob := poolUser("bob")

	t.Run("opens instance with one step per approver", func(t *testing.T) {
		statuses := map[string]string{}
		var createdInstance *model.WorkflowInstance
		var createdSteps []model.ApprovalStep

		workflowRepo := &mockWorkflowRepo{
			createWithStepsFn: func(ctx context.Context, instance *model.WorkflowInstance, steps []model.ApprovalStep) error {
				createdInstance = instance
				createdSteps = steps
				return nil
			},
		}
		approverRepo := &mockApproverRepo{listForLevelFn: poolOf(alice, bob)}
		fx := newEngineFixture(draftJournalRepo("15000", statuses), workflowRepo, levelsOf(testLevels()), approverRepo)

		ok, msg := fx.engine.SubmitForApproval(context.Background(), SubmitRequest{
			DocumentNumber: "JE-20260101-00001",
			CompanyCode:    "1000",
			SubmittedBy:    "carol",
		})
		require.True(t, ok, msg)

		require.NotNil(t, createdInstance)
		assert.Equal(t, model.WorkflowStatusPending, createdInstance.Status)
		assert.Equal(t, "carol", createdInstance.CreatedBy)
		assert.Equal(t, "alice", createdInstance.AssignedTo)
		require.Len(t, createdSteps, 2)
		assert.Equal(t, "alice", createdSteps[0].AssignedTo)
		assert.Equal(t, "bob", createdSteps[1].AssignedTo)
		assert.Equal(t, model.StepActionPending, createdSteps[0].Action)

		assert.Equal(t, model.DocStatusPendingApproval, statuses["JE-20260101-00001"])

		require.Len(t, fx.auditRepo.entries, 1)
		entry := fx.auditRepo.entries[0]
		assert.Equal(t, model.AuditActionSubmitted, entry.Action)
		assert.Equal(t, model.DocStatusDraft, entry.OldStatus)
		assert.Equal(t, model.DocStatusPendingApproval, entry.NewStatus)
		assert.Equal(t, "carol", entry.PerformedBy)

		assert.Len(t, fx.notifRepo.created, 2)
	})

	t.Run("auto-approves below the lowest threshold", func(t *testing.T) {
		statuses := map[string]string{}
		created := false
		workflowRepo := &mockWorkflowRepo{
			createWithStepsFn: func(ctx context.Context, instance *model.WorkflowInstance, steps []model.ApprovalStep) error {
				created = true
				return nil
			},
		}
		fx := newEngineFixture(draftJournalRepo("500", statuses), workflowRepo, levelsOf(testLevels()), &mockApproverRepo{})

		ok, msg := fx.engine.SubmitForApproval(context.Background(), SubmitRequest{
			DocumentNumber: "JE-20260101-00002",
			CompanyCode:    "1000",
			SubmittedBy:    "carol",
		})
		require.True(t, ok, msg)

		assert.False(t, created, "no workflow instance expected")
		assert.Equal(t, model.DocStatusApproved, statuses["JE-20260101-00002"])
		require.Len(t, fx.auditRepo.entries, 1)
		assert.Equal(t, model.AuditActionAutoApproved, fx.auditRepo.entries[0].Action)
		assert.Empty(t, fx.notifRepo.created)
	})

	t.Run("auto-approve re-checks the locked document status", func(t *testing.T) {
		// A concurrent submit won the race: the unlocked read still saw
		// DRAFT, but the locked re-read shows the document already APPROVED.
		statuses := map[string]string{}
		journalRepo := draftJournalRepo("500", statuses)
		journalRepo.findByDocumentForUpdateFn = func(ctx context.Context, documentNumber, companyCode string) (*model.JournalEntryHeader, error) {
			return &model.JournalEntryHeader{
				DocumentNumber: documentNumber,
				CompanyCode:    companyCode,
				WorkflowStatus: model.DocStatusApproved,
				CreatedBy:      "carol",
			}, nil
		}
		fx := newEngineFixture(journalRepo, &mockWorkflowRepo{}, levelsOf(testLevels()), &mockApproverRepo{})

		ok, msg := fx.engine.SubmitForApproval(context.Background(), SubmitRequest{
			DocumentNumber: "JE-20260101-00006",
			CompanyCode:    "1000",
			SubmittedBy:    "carol",
		})
		assert.False(t, ok)
		assert.Contains(t, msg, "only DRAFT documents can be submitted")
		assert.Empty(t, statuses, "document must not be approved twice")
		assert.Empty(t, fx.auditRepo.entries, "no second audit entry")
	})

	t.Run("blocked when the level has no eligible approvers", func(t *testing.T) {
		statuses := map[string]string{}
		// carol is the creator and the only configured approver
		approverRepo := &mockApproverRepo{listForLevelFn: poolOf(poolUser("carol"))}
		fx := newEngineFixture(draftJournalRepo("15000", statuses), &mockWorkflowRepo{}, levelsOf(testLevels()), approverRepo)

		ok, msg := fx.engine.SubmitForApproval(context.Background(), SubmitRequest{
			DocumentNumber: "JE-20260101-00003",
			CompanyCode:    "1000",
			SubmittedBy:    "carol",
		})
		assert.False(t, ok)
		assert.Contains(t, msg, "no eligible approvers")
		assert.Empty(t, statuses, "document status must not change")
		assert.Empty(t, fx.auditRepo.entries)
	})

	t.Run("rejects a second submission while one is pending", func(t *testing.T) {
		statuses := map[string]string{}
		workflowRepo := &mockWorkflowRepo{
			findPendingByDocumentFn: func(ctx context.Context, documentNumber, companyCode string) (*model.WorkflowInstance, error) {
				return &model.WorkflowInstance{DocumentNumber: documentNumber}, nil
			},
		}
		approverRepo := &mockApproverRepo{listForLevelFn: poolOf(alice)}
		fx := newEngineFixture(draftJournalRepo("15000", statuses), workflowRepo, levelsOf(testLevels()), approverRepo)

		ok, msg := fx.engine.SubmitForApproval(context.Background(), SubmitRequest{
			DocumentNumber: "JE-20260101-00004",
			CompanyCode:    "1000",
			SubmittedBy:    "carol",
		})
		assert.False(t, ok)
		assert.Contains(t, msg, "already exists")
		assert.Empty(t, fx.auditRepo.entries)
	})

	t.Run("only draft documents can be submitted", func(t *testing.T) {
		journalRepo := &mockJournalRepo{
			findByDocumentFn: func(ctx context.Context, documentNumber, companyCode string) (*model.JournalEntryHeader, error) {
				return &model.JournalEntryHeader{
					DocumentNumber: documentNumber,
					WorkflowStatus: model.DocStatusPendingApproval,
				}, nil
			},
		}
		fx := newEngineFixture(journalRepo, &mockWorkflowRepo{}, levelsOf(testLevels()), &mockApproverRepo{})

		ok, msg := fx.engine.SubmitForApproval(context.Background(), SubmitRequest{
			DocumentNumber: "JE-20260101-00005",
			CompanyCode:    "1000",
			SubmittedBy:    "carol",
		})
		assert.False(t, ok)
		assert.Contains(t, msg, "PENDING_APPROVAL")
	})
}

// pendingFixture wires a PENDING instance with the given steps into a fresh
// engine fixture and tracks document status writes.
func pendingFixture(t *testing.T, instance *model.WorkflowInstance, steps []model.ApprovalStep, statuses map[string]string) *engineFixture {
	t.Helper()

	journalRepo := &mockJournalRepo{
		updateWorkflowStatusFn: func(ctx context.Context, documentNumber, companyCode, status string) error {
			statuses[documentNumber] = status
			return nil
		},
	}
	workflowRepo := &mockWorkflowRepo{
		findByIDForUpdateFn: func(ctx context.Context, id uuid.UUID) (*model.WorkflowInstance, error) {
			if id == instance.ID {
				return instance, nil
			}
			return nil, assert.AnError
		},
		stepsByInstanceFn: func(ctx context.Context, instanceID uuid.UUID) ([]model.ApprovalStep, error) {
			return steps, nil
		},
		saveStepFn: func(ctx context.Context, step *model.ApprovalStep) error {
			for i := range steps {
				if steps[i].ID == step.ID {
					steps[i] = *step
				}
			}
			return nil
		},
		cancelPendingStepsFn: func(ctx context.Context, instanceID uuid.UUID, actionBy string, actionAt time.Time, comments string) error {
			for i := range steps {
				if steps[i].Action == model.StepActionPending {
					steps[i].Action = model.StepActionWithdrawn
				}
			}
			return nil
		},
	}
	return newEngineFixture(journalRepo, workflowRepo, levelsOf(testLevels()), &mockApproverRepo{})
}

func pendingInstance() *model.WorkflowInstance {
	return &model.WorkflowInstance{
		ID:             uuid.New(),
		DocumentNumber: "JE-20260101-00010",
		CompanyCode:    "1000",
		Status:         model.WorkflowStatusPending,
		CreatedBy:      "carol",
		SubmittedAt:    time.Now().Add(-2 * time.Hour),
	}
}

func pendingSteps(assignees ...string) []model.ApprovalStep {
	steps := make([]model.ApprovalStep, 0, len(assignees))
	for _, assignee := range assignees {
		steps = append(steps, model.ApprovalStep{
			ID:         uuid.New(),
			Action:     model.StepActionPending,
			AssignedTo: assignee,
		})
	}
	return steps
}

func TestApproveDocumentByID(t *testing.T) {
	t.Run("intermediate approval keeps the instance pending", func(t *testing.T) {
		statuses := map[string]string{}
		instance := pendingInstance()
		steps := pendingSteps("alice", "bob")
		fx := pendingFixture(t, instance, steps, statuses)

		ok, msg := fx.engine.ApproveDocumentByID(context.Background(), instance.ID, "alice", "looks fine")
		require.True(t, ok, msg)
		assert.Contains(t, msg, "still outstanding")

		assert.Equal(t, model.WorkflowStatusPending, instance.Status)
		assert.Equal(t, model.StepActionApproved, steps[0].Action)
		assert.Equal(t, model.StepActionPending, steps[1].Action)
		assert.Empty(t, statuses, "document status unchanged until fully approved")

		require.Len(t, fx.auditRepo.entries, 1)
		entry := fx.auditRepo.entries[0]
		assert.Equal(t, model.AuditActionStepApproved, entry.Action)
		assert.Equal(t, model.DocStatusPendingApproval, entry.OldStatus)
		assert.Equal(t, model.DocStatusPendingApproval, entry.NewStatus)
	})

	t.Run("last approval promotes the instance and the document", func(t *testing.T) {
		statuses := map[string]string{}
		instance := pendingInstance()
		steps := pendingSteps("alice")
		fx := pendingFixture(t, instance, steps, statuses)

		ok, msg := fx.engine.ApproveDocumentByID(context.Background(), instance.ID, "alice", "")
		require.True(t, ok, msg)

		assert.Equal(t, model.WorkflowStatusApproved, instance.Status)
		require.NotNil(t, instance.CompletedAt)
		require.NotNil(t, instance.ApprovedBy)
		assert.Equal(t, "alice", *instance.ApprovedBy)
		assert.Equal(t, model.DocStatusApproved, statuses[instance.DocumentNumber])

		require.Len(t, fx.auditRepo.entries, 1)
		entry := fx.auditRepo.entries[0]
		assert.Equal(t, model.AuditActionApproved, entry.Action)
		assert.Equal(t, model.DocStatusApproved, entry.NewStatus)

		// submitter is notified of the final approval
		require.Len(t, fx.notifRepo.created, 1)
		assert.Equal(t, "carol", fx.notifRepo.created[0].Recipient)
	})

	t.Run("approving twice is a conflict, not a second approval", func(t *testing.T) {
		statuses := map[string]string{}
		instance := pendingInstance()
		steps := pendingSteps("alice", "bob")
		fx := pendingFixture(t, instance, steps, statuses)

		ok, _ := fx.engine.ApproveDocumentByID(context.Background(), instance.ID, "alice", "")
		require.True(t, ok)

		ok, msg := fx.engine.ApproveDocumentByID(context.Background(), instance.ID, "alice", "")
		assert.False(t, ok)
		assert.Contains(t, msg, "already been actioned")
		assert.Len(t, fx.auditRepo.entries, 1, "no extra audit entry")
	})

	t.Run("unassigned user cannot approve", func(t *testing.T) {
		statuses := map[string]string{}
		instance := pendingInstance()
		fx := pendingFixture(t, instance, pendingSteps("alice"), statuses)

		ok, msg := fx.engine.ApproveDocumentByID(context.Background(), instance.ID, "mallory", "")
		assert.False(t, ok)
		assert.Contains(t, msg, "not a resolved approver")
	})

	t.Run("active delegate may approve the delegator's step", func(t *testing.T) {
		statuses := map[string]string{}
		instance := pendingInstance()
		steps := pendingSteps("alice")
		fx := pendingFixture(t, instance, steps, statuses)
		fx.approverRepo.activeDelegationsToFn = func(ctx context.Context, delegate string, onDate time.Time) ([]model.ApprovalDelegation, error) {
			if delegate == "bob" {
				return []model.ApprovalDelegation{{Delegator: poolUser("alice")}}, nil
			}
			return nil, nil
		}

		ok, msg := fx.engine.ApproveDocumentByID(context.Background(), instance.ID, "bob", "covering for alice")
		require.True(t, ok, msg)

		// the delegate is recorded as the one who acted
		assert.Equal(t, model.StepActionApproved, steps[0].Action)
		require.NotNil(t, steps[0].ActionBy)
		assert.Equal(t, "bob", *steps[0].ActionBy)
		assert.Equal(t, model.DocStatusApproved, statuses[instance.DocumentNumber])
	})

	t.Run("expired delegation does not authorize the delegate", func(t *testing.T) {
		statuses := map[string]string{}
		instance := pendingInstance()
		fx := pendingFixture(t, instance, pendingSteps("alice"), statuses)
		// no active delegations for bob

		ok, msg := fx.engine.ApproveDocumentByID(context.Background(), instance.ID, "bob", "")
		assert.False(t, ok)
		assert.Contains(t, msg, "not a resolved approver")
	})

	t.Run("completed instance cannot be actioned", func(t *testing.T) {
		statuses := map[string]string{}
		instance := pendingInstance()
		instance.Status = model.WorkflowStatusApproved
		fx := pendingFixture(t, instance, nil, statuses)

		ok, msg := fx.engine.ApproveDocumentByID(context.Background(), instance.ID, "alice", "")
		assert.False(t, ok)
		assert.Contains(t, msg, "already APPROVED")
	})
}

func TestRejectDocument(t *testing.T) {
	t.Run("one rejection ends the workflow despite prior approvals", func(t *testing.T) {
		statuses := map[string]string{}
		instance := pendingInstance()
		steps := pendingSteps("alice", "bob")
		steps[0].Action = model.StepActionApproved // alice already approved
		fx := pendingFixture(t, instance, steps, statuses)

		ok, msg := fx.engine.RejectDocument(context.Background(), instance.ID, "bob", "duplicate entry")
		require.True(t, ok, msg)

		assert.Equal(t, model.WorkflowStatusRejected, instance.Status)
		assert.Equal(t, model.DocStatusRejected, statuses[instance.DocumentNumber])
		assert.Equal(t, model.StepActionRejected, steps[1].Action)

		require.Len(t, fx.auditRepo.entries, 1)
		entry := fx.auditRepo.entries[0]
		assert.Equal(t, model.AuditActionRejected, entry.Action)
		assert.Equal(t, model.DocStatusPendingApproval, entry.OldStatus)
		assert.Equal(t, model.DocStatusRejected, entry.NewStatus)
		assert.Equal(t, "duplicate entry", entry.Comments)

		require.Len(t, fx.notifRepo.created, 1)
		assert.Equal(t, "carol", fx.notifRepo.created[0].Recipient)
	})

	t.Run("active delegate may reject the delegator's step", func(t *testing.T) {
		statuses := map[string]string{}
		instance := pendingInstance()
		steps := pendingSteps("alice")
		fx := pendingFixture(t, instance, steps, statuses)
		fx.approverRepo.activeDelegationsToFn = func(ctx context.Context, delegate string, onDate time.Time) ([]model.ApprovalDelegation, error) {
			return []model.ApprovalDelegation{{Delegator: poolUser("alice")}}, nil
		}

		ok, msg := fx.engine.RejectDocument(context.Background(), instance.ID, "bob", "wrong account")
		require.True(t, ok, msg)

		assert.Equal(t, model.StepActionRejected, steps[0].Action)
		require.NotNil(t, steps[0].ActionBy)
		assert.Equal(t, "bob", *steps[0].ActionBy)
		assert.Equal(t, model.DocStatusRejected, statuses[instance.DocumentNumber])
	})

	t.Run("rejection cancels sibling pending steps", func(t *testing.T) {
		statuses := map[string]string{}
		instance := pendingInstance()
		steps := pendingSteps("alice", "bob", "dave")
		fx := pendingFixture(t, instance, steps, statuses)

		ok, _ := fx.engine.RejectDocument(context.Background(), instance.ID, "alice", "")
		require.True(t, ok)

		assert.Equal(t, model.StepActionRejected, steps[0].Action)
		assert.Equal(t, model.StepActionWithdrawn, steps[1].Action)
		assert.Equal(t, model.StepActionWithdrawn, steps[2].Action)
	})
}

func TestWithdrawSubmission(t *testing.T) {
	t.Run("submitter withdraws and the document returns to draft", func(t *testing.T) {
		statuses := map[string]string{}
		instance := pendingInstance()
		steps := pendingSteps("alice", "bob")
		fx := pendingFixture(t, instance, steps, statuses)

		ok, msg := fx.engine.WithdrawSubmission(context.Background(), instance.ID, "carol", "wrong amounts")
		require.True(t, ok, msg)

		assert.Equal(t, model.WorkflowStatusWithdrawn, instance.Status)
		assert.Equal(t, model.DocStatusDraft, statuses[instance.DocumentNumber])
		assert.Equal(t, model.StepActionWithdrawn, steps[0].Action)
		assert.Equal(t, model.StepActionWithdrawn, steps[1].Action)

		require.Len(t, fx.auditRepo.entries, 1)
		entry := fx.auditRepo.entries[0]
		assert.Equal(t, model.AuditActionWithdrawn, entry.Action)
		assert.Equal(t, model.DocStatusPendingApproval, entry.OldStatus)
		assert.Equal(t, model.DocStatusDraft, entry.NewStatus)

		// pending approvers are told the worklist item is gone
		require.Len(t, fx.notifRepo.created, 2)
	})

	t.Run("only the submitter may withdraw", func(t *testing.T) {
		statuses := map[string]string{}
		instance := pendingInstance()
		fx := pendingFixture(t, instance, pendingSteps("alice"), statuses)

		ok, msg := fx.engine.WithdrawSubmission(context.Background(), instance.ID, "alice", "")
		assert.False(t, ok)
		assert.Contains(t, msg, "original submitter")
		assert.Equal(t, model.WorkflowStatusPending, instance.Status)
	})
}

func TestGetPendingApprovals(t *testing.T) {
	t.Run("includes delegated steps and flags overdue items", func(t *testing.T) {
		var gotAssignees []string
		workflowRepo := &mockWorkflowRepo{
			pendingStepsForUserFn: func(ctx context.Context, assignees []string) ([]model.PendingApproval, error) {
				gotAssignees = assignees
				return []model.PendingApproval{
					{DocumentNumber: "JE-1", TimeLimitHours: 24, SubmittedAt: time.Now().Add(-30 * time.Hour)},
					{DocumentNumber: "JE-2", TimeLimitHours: 24, SubmittedAt: time.Now().Add(-2 * time.Hour)},
				}, nil
			},
		}
		approverRepo := &mockApproverRepo{
			activeDelegationsToFn: func(ctx context.Context, delegate string, onDate time.Time) ([]model.ApprovalDelegation, error) {
				return []model.ApprovalDelegation{{Delegator: poolUser("alice")}}, nil
			},
		}
		fx := newEngineFixture(&mockJournalRepo{}, workflowRepo, levelsOf(nil), approverRepo)

		rows, err := fx.engine.GetPendingApprovals(context.Background(), "bob")
		require.NoError(t, err)

		assert.Equal(t, []string{"bob", "alice"}, gotAssignees)
		require.Len(t, rows, 2)
		assert.True(t, rows[0].IsOverdue)
		assert.False(t, rows[1].IsOverdue)
	})
}

func TestGetAllWorkflows(t *testing.T) {
	t.Run("passes the status filter and defaulted window to the query", func(t *testing.T) {
		var gotStatus model.WorkflowStatus
		var gotSince time.Time
		workflowRepo := &mockWorkflowRepo{
			listSinceFn: func(ctx context.Context, status model.WorkflowStatus, since time.Time) ([]model.WorkflowSummary, error) {
				gotStatus = status
				gotSince = since
				return nil, nil
			},
		}
		fx := newEngineFixture(&mockJournalRepo{}, workflowRepo, levelsOf(nil), &mockApproverRepo{})

		_, err := fx.engine.GetAllWorkflows(context.Background(), model.WorkflowStatusRejected, 0)
		require.NoError(t, err)

		assert.Equal(t, model.WorkflowStatusRejected, gotStatus)
		// daysBack <= 0 falls back to the 30-day window
		expected := time.Now().AddDate(0, 0, -30)
		assert.WithinDuration(t, expected, gotSince, time.Minute)
	})

	t.Run("flags only pending rows as overdue", func(t *testing.T) {
		late := time.Now().Add(-72 * time.Hour)
		workflowRepo := &mockWorkflowRepo{
			listSinceFn: func(ctx context.Context, status model.WorkflowStatus, since time.Time) ([]model.WorkflowSummary, error) {
				return []model.WorkflowSummary{
					{DocumentNumber: "JE-1", Status: string(model.WorkflowStatusPending), TimeLimitHours: 24, SubmittedAt: late},
					{DocumentNumber: "JE-2", Status: string(model.WorkflowStatusApproved), TimeLimitHours: 24, SubmittedAt: late},
					{DocumentNumber: "JE-3", Status: string(model.WorkflowStatusPending), TimeLimitHours: 24, SubmittedAt: time.Now().Add(-time.Hour)},
				}, nil
			},
		}
		fx := newEngineFixture(&mockJournalRepo{}, workflowRepo, levelsOf(nil), &mockApproverRepo{})

		rows, err := fx.engine.GetAllWorkflows(context.Background(), "", 30)
		require.NoError(t, err)
		require.Len(t, rows, 3)

		assert.True(t, rows[0].IsOverdue)
		assert.False(t, rows[1].IsOverdue, "terminal rows are never overdue")
		assert.False(t, rows[2].IsOverdue, "within the time limit")
	})
}

func TestGetWorkflowStatistics(t *testing.T) {
	statsRepo := &mockStatsRepo{
		countByStatusFn: func(ctx context.Context) (map[model.WorkflowStatus]int64, error) {
			return map[model.WorkflowStatus]int64{
				model.WorkflowStatusPending:  3,
				model.WorkflowStatusApproved: 10,
				model.WorkflowStatusRejected: 2,
			}, nil
		},
		countOverduePendingFn: func(ctx context.Context, asOf time.Time) (int64, error) {
			return 1, nil
		},
		avgCompletionHoursFn: func(ctx context.Context) (float64, error) {
			return 18.5, nil
		},
	}
	fx := newEngineFixture(&mockJournalRepo{}, &mockWorkflowRepo{}, levelsOf(nil), &mockApproverRepo{})
	fx.engine.statsRepo = statsRepo

	stats, err := fx.engine.GetWorkflowStatistics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(15), stats.TotalWorkflows)
	assert.Equal(t, int64(3), stats.PendingCount)
	assert.Equal(t, int64(10), stats.ApprovedCount)
	assert.Equal(t, int64(1), stats.OverdueCount)
	assert.InDelta(t, 18.5, stats.AvgCompletionHours, 0.001)
}
