package service

import (
	"context"

	"glerp/internal/model"
	"glerp/internal/repository"
)

// AuditService is the read surface over the workflow audit trail. Writes
// happen only inside the engine's transactions.
type AuditService struct {
	auditRepo repository.WorkflowAuditRepository
}

func NewAuditService(auditRepo repository.WorkflowAuditRepository) *AuditService {
	return &AuditService{auditRepo: auditRepo}
}

// GetApprovalHistory returns the full transition history of one document in
// chronological order.
func (s *AuditService) GetApprovalHistory(ctx context.Context, documentNumber, companyCode string) ([]model.WorkflowAuditLog, error) {
	entries, err := s.auditRepo.ListByDocument(ctx, documentNumber, companyCode)
	if err != nil {
		return nil, NewStorageError("failed to load approval history", err)
	}
	return entries, nil
}

// ListAuditLog pages through the trail newest-first, for compliance review.
func (s *AuditService) ListAuditLog(ctx context.Context, page, limit int) ([]model.WorkflowAuditLog, int64, error) {
	entries, total, err := s.auditRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, NewStorageError("failed to list audit log", err)
	}
	return entries, total, nil
}
