package service

import (
	"context"
	"time"

	"glerp/internal/model"
	"glerp/internal/repository"

	"github.com/google/uuid"
)

// ApproverInfo is one eligible approver as presented to callers.
type ApproverInfo struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	// DelegatedFrom is set when this user stands in for the configured
	// approver under an active delegation.
	DelegatedFrom string `json:"delegated_from,omitempty"`
}

// ApproverDirectory resolves the eligible approver set for an approval level,
// applying active delegations and segregation of duties.
type ApproverDirectory struct {
	approverRepo repository.ApproverRepository
}

func NewApproverDirectory(approverRepo repository.ApproverRepository) *ApproverDirectory {
	return &ApproverDirectory{approverRepo: approverRepo}
}

// GetAvailableApprovers returns the ordered approver set for a level and
// company. An approver with an active delegation is replaced by their
// delegate, not joined by them. excludedUser (the document's creator) is
// removed unconditionally, even after delegation mapping: a submitter may
// never approve their own entry.
func (d *ApproverDirectory) GetAvailableApprovers(ctx context.Context, levelID uuid.UUID, companyCode, excludedUser string) ([]ApproverInfo, error) {
	approvers, err := d.approverRepo.ListForLevel(ctx, levelID, companyCode)
	if err != nil {
		return nil, NewStorageError("failed to load approver pool", err)
	}
	if len(approvers) == 0 {
		return []ApproverInfo{}, nil
	}

	usernames := make([]string, 0, len(approvers))
	for _, a := range approvers {
		if a.User != nil {
			usernames = append(usernames, a.User.Username)
		}
	}

	delegations, err := d.approverRepo.ActiveDelegationsFrom(ctx, usernames, time.Now())
	if err != nil {
		return nil, NewStorageError("failed to load delegations", err)
	}

	delegateFor := make(map[string]*model.User, len(delegations))
	for _, dg := range delegations {
		if dg.Delegator != nil && dg.Delegate != nil {
			delegateFor[dg.Delegator.Username] = dg.Delegate
		}
	}

	result := make([]ApproverInfo, 0, len(approvers))
	seen := make(map[string]bool, len(approvers))
	for _, a := range approvers {
		if a.User == nil {
			continue
		}

		info := ApproverInfo{
			Username: a.User.Username,
			FullName: a.User.FullName,
			Email:    a.User.Email,
		}
		if delegate, ok := delegateFor[a.User.Username]; ok {
			info = ApproverInfo{
				Username:      delegate.Username,
				FullName:      delegate.FullName,
				Email:         delegate.Email,
				DelegatedFrom: a.User.Username,
			}
		}

		// Segregation of duties: applied after delegation mapping so a
		// delegation chain can never route a document back to its creator.
		if info.Username == excludedUser {
			continue
		}
		if seen[info.Username] {
			continue
		}
		seen[info.Username] = true
		result = append(result, info)
	}

	return result, nil
}
