package repository

import (
	"context"
	"time"

	"glerp/internal/model"

	"gorm.io/gorm"
)

type StatisticsRepository interface {
	CountByStatus(ctx context.Context) (map[model.WorkflowStatus]int64, error)
	CountOverduePending(ctx context.Context, asOf time.Time) (int64, error)
	AvgCompletionHours(ctx context.Context) (float64, error)
	LevelBreakdown(ctx context.Context) ([]model.LevelCount, error)
	TopApprovers(ctx context.Context, since time.Time, limit int) ([]model.ApproverRanking, error)
}

type statisticsRepository struct {
	db *gorm.DB
}

func NewStatisticsRepository(db *gorm.DB) StatisticsRepository {
	return &statisticsRepository{db: db}
}

func (r *statisticsRepository) CountByStatus(ctx context.Context) (map[model.WorkflowStatus]int64, error) {
	var rows []struct {
		Status model.WorkflowStatus
		Count  int64
	}
	if err := GetDB(ctx, r.db).Table("workflow_instances").
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[model.WorkflowStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// CountOverduePending counts PENDING instances whose elapsed time since
// submission exceeds their level's time limit.
func (r *statisticsRepository) CountOverduePending(ctx context.Context, asOf time.Time) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Table("workflow_instances").
		Joins("JOIN approval_levels ON approval_levels.id = workflow_instances.approval_level_id").
		Where("workflow_instances.status = ?", model.WorkflowStatusPending).
		Where("workflow_instances.submitted_at + make_interval(hours => approval_levels.time_limit_hours) < ?", asOf).
		Count(&count).Error
	return count, err
}

func (r *statisticsRepository) AvgCompletionHours(ctx context.Context) (float64, error) {
	var row struct {
		AvgHours float64
	}
	err := GetDB(ctx, r.db).Table("workflow_instances").
		Select("COALESCE(AVG(EXTRACT(EPOCH FROM (completed_at - created_at)) / 3600.0), 0) as avg_hours").
		Where("completed_at IS NOT NULL").
		Scan(&row).Error
	return row.AvgHours, err
}

func (r *statisticsRepository) LevelBreakdown(ctx context.Context) ([]model.LevelCount, error) {
	var rows []model.LevelCount
	if err := GetDB(ctx, r.db).Table("workflow_instances").
		Select("approval_levels.level_name, COUNT(*) as count").
		Joins("JOIN approval_levels ON approval_levels.id = workflow_instances.approval_level_id").
		Group("approval_levels.level_name").
		Order("count DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *statisticsRepository) TopApprovers(ctx context.Context, since time.Time, limit int) ([]model.ApproverRanking, error) {
	var rows []model.ApproverRanking
	if err := GetDB(ctx, r.db).Table("approval_steps").
		Select("action_by as username, COUNT(*) as approved_count").
		Where("action = ? AND action_at >= ?", model.StepActionApproved, since).
		Group("action_by").
		Order("approved_count DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
