package repository

import (
	"context"
	"time"

	"glerp/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WorkflowRepository persists workflow instances and their approval steps.
// All mutating methods are expected to run inside a transaction injected via
// TransactionManager; FindByIDForUpdate takes a row lock so two approvers
// cannot both believe they completed the final step.
type WorkflowRepository interface {
	CreateWithSteps(ctx context.Context, instance *model.WorkflowInstance, steps []model.ApprovalStep) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.WorkflowInstance, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.WorkflowInstance, error)
	FindPendingByDocument(ctx context.Context, documentNumber, companyCode string) (*model.WorkflowInstance, error)
	StepsByInstance(ctx context.Context, instanceID uuid.UUID) ([]model.ApprovalStep, error)
	SaveInstance(ctx context.Context, instance *model.WorkflowInstance) error
	SaveStep(ctx context.Context, step *model.ApprovalStep) error
	CancelPendingSteps(ctx context.Context, instanceID uuid.UUID, actionBy string, actionAt time.Time, comments string) error
	PendingStepsForUser(ctx context.Context, assignees []string) ([]model.PendingApproval, error)
	ListSince(ctx context.Context, status model.WorkflowStatus, since time.Time) ([]model.WorkflowSummary, error)
}

type workflowRepository struct {
	db *gorm.DB
}

func NewWorkflowRepository(db *gorm.DB) WorkflowRepository {
	return &workflowRepository{db: db}
}

func (r *workflowRepository) CreateWithSteps(ctx context.Context, instance *model.WorkflowInstance, steps []model.ApprovalStep) error {
	db := GetDB(ctx, r.db)
	if err := db.Create(instance).Error; err != nil {
		return err
	}
	for i := range steps {
		steps[i].WorkflowInstanceID = instance.ID
	}
	return db.Create(&steps).Error
}

func (r *workflowRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.WorkflowInstance, error) {
	var instance model.WorkflowInstance
	if err := GetDB(ctx, r.db).Preload("ApprovalLevel").First(&instance, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &instance, nil
}

func (r *workflowRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.WorkflowInstance, error) {
	var instance model.WorkflowInstance
	if err := GetDB(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&instance, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &instance, nil
}

func (r *workflowRepository) FindPendingByDocument(ctx context.Context, documentNumber, companyCode string) (*model.WorkflowInstance, error) {
	var instance model.WorkflowInstance
	if err := GetDB(ctx, r.db).
		Where("document_number = ? AND company_code = ? AND status = ?",
			documentNumber, companyCode, model.WorkflowStatusPending).
		First(&instance).Error; err != nil {
		return nil, err
	}
	return &instance, nil
}

func (r *workflowRepository) StepsByInstance(ctx context.Context, instanceID uuid.UUID) ([]model.ApprovalStep, error) {
	var steps []model.ApprovalStep
	if err := GetDB(ctx, r.db).
		Where("workflow_instance_id = ?", instanceID).
		Order("created_at ASC, id ASC").
		Find(&steps).Error; err != nil {
		return nil, err
	}
	return steps, nil
}

func (r *workflowRepository) SaveInstance(ctx context.Context, instance *model.WorkflowInstance) error {
	return GetDB(ctx, r.db).Save(instance).Error
}

func (r *workflowRepository) SaveStep(ctx context.Context, step *model.ApprovalStep) error {
	return GetDB(ctx, r.db).Save(step).Error
}

// CancelPendingSteps marks every still-pending step of an instance WITHDRAWN
// in one statement. Used by reject (sibling cancellation) and withdraw.
func (r *workflowRepository) CancelPendingSteps(ctx context.Context, instanceID uuid.UUID, actionBy string, actionAt time.Time, comments string) error {
	return GetDB(ctx, r.db).
		Model(&model.ApprovalStep{}).
		Where("workflow_instance_id = ? AND action = ?", instanceID, model.StepActionPending).
		Updates(map[string]interface{}{
			"action":    model.StepActionWithdrawn,
			"action_by": actionBy,
			"action_at": actionAt,
			"comments":  comments,
		}).Error
}

// PendingStepsForUser returns pending steps assigned to any of the given
// usernames (the user plus any delegators whose delegation is active),
// joined with instance and level data for the worklist.
func (r *workflowRepository) PendingStepsForUser(ctx context.Context, assignees []string) ([]model.PendingApproval, error) {
	var rows []model.PendingApproval
	if len(assignees) == 0 {
		return rows, nil
	}
	err := GetDB(ctx, r.db).Table("approval_steps").
		Select(`approval_steps.id AS step_id,
			approval_steps.workflow_instance_id,
			approval_steps.assigned_to,
			workflow_instances.document_number,
			workflow_instances.company_code,
			workflow_instances.priority,
			workflow_instances.created_by,
			workflow_instances.submitted_at,
			approval_levels.level_name,
			approval_levels.time_limit_hours`).
		Joins("JOIN workflow_instances ON workflow_instances.id = approval_steps.workflow_instance_id").
		Joins("JOIN approval_levels ON approval_levels.id = approval_steps.approval_level_id").
		Where("approval_steps.action = ? AND workflow_instances.status = ?",
			model.StepActionPending, model.WorkflowStatusPending).
		Where("approval_steps.assigned_to IN ?", assignees).
		Order("workflow_instances.submitted_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *workflowRepository) ListSince(ctx context.Context, status model.WorkflowStatus, since time.Time) ([]model.WorkflowSummary, error) {
	var rows []model.WorkflowSummary
	query := GetDB(ctx, r.db).Table("workflow_instances").
		Select(`workflow_instances.id,
			workflow_instances.document_number,
			workflow_instances.company_code,
			workflow_instances.status,
			workflow_instances.priority,
			workflow_instances.created_by,
			workflow_instances.assigned_to,
			workflow_instances.submitted_at,
			workflow_instances.completed_at,
			workflow_instances.approved_by,
			approval_levels.level_name,
			approval_levels.time_limit_hours`).
		Joins("JOIN approval_levels ON approval_levels.id = workflow_instances.approval_level_id").
		Where("workflow_instances.created_at >= ?", since).
		Order("workflow_instances.submitted_at DESC")

	if status != "" {
		query = query.Where("workflow_instances.status = ?", status)
	}

	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
