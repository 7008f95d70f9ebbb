package service

import (
	"context"
	"testing"
	"time"

	"glerp/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func poolUser(username string) *model.User {
	return &model.User{ID: uuid.New(), Username: username, FullName: username, Email: username + "@example.com"}
}

func TestGetAvailableApprovers(t *testing.T) {
	levelID := uuid.New()
	alice := poolUser("alice")
	bob := poolUser("bob")
	carol := poolUser("carol")

	t.Run("creator is excluded from the pool", func(t *testing.T) {
		repo := &mockApproverRepo{
			listForLevelFn: func(ctx context.Context, id uuid.UUID, companyCode string) ([]model.Approver, error) {
				return []model.Approver{{User: alice}, {User: bob}}, nil
			},
		}

		directory := NewApproverDirectory(repo)
		approvers, err := directory.GetAvailableApprovers(context.Background(), levelID, "1000", "alice")
		require.NoError(t, err)
		require.Len(t, approvers, 1)
		assert.Equal(t, "bob", approvers[0].Username)
	})

	t.Run("active delegation replaces the delegator", func(t *testing.T) {
		repo := &mockApproverRepo{
			listForLevelFn: func(ctx context.Context, id uuid.UUID, companyCode string) ([]model.Approver, error) {
				return []model.Approver{{User: alice}, {User: bob}}, nil
			},
			activeDelegationsFromFn: func(ctx context.Context, delegators []string, onDate time.Time) ([]model.ApprovalDelegation, error) {
				return []model.ApprovalDelegation{{Delegator: alice, Delegate: carol}}, nil
			},
		}

		directory := NewApproverDirectory(repo)
		approvers, err := directory.GetAvailableApprovers(context.Background(), levelID, "1000", "")
		require.NoError(t, err)
		require.Len(t, approvers, 2)
		assert.Equal(t, "carol", approvers[0].Username)
		assert.Equal(t, "alice", approvers[0].DelegatedFrom)
		assert.Equal(t, "bob", approvers[1].Username)
	})

	t.Run("delegation cannot route back to the creator", func(t *testing.T) {
		repo := &mockApproverRepo{
			listForLevelFn: func(ctx context.Context, id uuid.UUID, companyCode string) ([]model.Approver, error) {
				return []model.Approver{{User: alice}, {User: bob}}, nil
			},
			activeDelegationsFromFn: func(ctx context.Context, delegators []string, onDate time.Time) ([]model.ApprovalDelegation, error) {
				// alice delegates to carol, who created the document
				return []model.ApprovalDelegation{{Delegator: alice, Delegate: carol}}, nil
			},
		}

		directory := NewApproverDirectory(repo)
		approvers, err := directory.GetAvailableApprovers(context.Background(), levelID, "1000", "carol")
		require.NoError(t, err)
		require.Len(t, approvers, 1)
		assert.Equal(t, "bob", approvers[0].Username)
	})

	t.Run("delegate already in pool is not duplicated", func(t *testing.T) {
		repo := &mockApproverRepo{
			listForLevelFn: func(ctx context.Context, id uuid.UUID, companyCode string) ([]model.Approver, error) {
				return []model.Approver{{User: alice}, {User: bob}}, nil
			},
			activeDelegationsFromFn: func(ctx context.Context, delegators []string, onDate time.Time) ([]model.ApprovalDelegation, error) {
				return []model.ApprovalDelegation{{Delegator: alice, Delegate: bob}}, nil
			},
		}

		directory := NewApproverDirectory(repo)
		approvers, err := directory.GetAvailableApprovers(context.Background(), levelID, "1000", "")
		require.NoError(t, err)
		require.Len(t, approvers, 1)
		assert.Equal(t, "bob", approvers[0].Username)
	})

	t.Run("empty pool returns empty slice", func(t *testing.T) {
		directory := NewApproverDirectory(&mockApproverRepo{})
		approvers, err := directory.GetAvailableApprovers(context.Background(), levelID, "1000", "")
		require.NoError(t, err)
		assert.Empty(t, approvers)
	})
}
