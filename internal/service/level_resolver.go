package service

import (
	"context"
	"errors"

	"glerp/internal/model"
	"glerp/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ApprovalLevelResolver maps a document's total transaction amount to the
// single configured approval level whose threshold band contains it.
type ApprovalLevelResolver struct {
	journalRepo repository.JournalRepository
	levelRepo   repository.ApprovalLevelRepository
}

func NewApprovalLevelResolver(journalRepo repository.JournalRepository, levelRepo repository.ApprovalLevelRepository) *ApprovalLevelResolver {
	return &ApprovalLevelResolver{journalRepo: journalRepo, levelRepo: levelRepo}
}

// RequiredLevel holds the resolver's answer for one document.
type RequiredLevel struct {
	LevelID   *uuid.UUID      `json:"level_id"`   // nil = no approval required
	LevelName string          `json:"level_name"`
	Amount    decimal.Decimal `json:"amount"`
}

// CalculateRequiredApprovalLevel computes the document's total amount and
// resolves the matching approval level, or none when the amount sits below
// the lowest configured threshold. Routing is single-level: among the
// company's levels ordered ascending, the highest level whose threshold_low
// does not exceed the amount wins, which keeps resolution monotonic even
// when configured bands leave gaps.
func (r *ApprovalLevelResolver) CalculateRequiredApprovalLevel(ctx context.Context, documentNumber, companyCode string) (*RequiredLevel, error) {
	if _, err := r.journalRepo.FindByDocument(ctx, documentNumber, companyCode); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewValidationError("document %s not found for company %s", documentNumber, companyCode)
		}
		return nil, NewStorageError("failed to load document", err)
	}

	totals, err := r.journalRepo.Totals(ctx, documentNumber, companyCode)
	if err != nil {
		return nil, NewStorageError("failed to compute document totals", err)
	}
	if totals.LineCount == 0 {
		return nil, NewValidationError("document %s has no line items", documentNumber)
	}

	// Balanced entries have equal debit and credit totals; take the larger
	// side as the transaction magnitude so unbalanced drafts still route.
	amount := totals.TotalDebit
	if totals.TotalCredit.GreaterThan(amount) {
		amount = totals.TotalCredit
	}
	if amount.IsZero() {
		return nil, NewValidationError("document %s has a zero transaction amount", documentNumber)
	}

	levels, err := r.levelRepo.ListByCompany(ctx, companyCode)
	if err != nil {
		return nil, NewStorageError("failed to load approval levels", err)
	}

	match := matchLevel(levels, amount)
	if match == nil {
		return &RequiredLevel{Amount: amount}, nil
	}

	levelID := match.ID
	return &RequiredLevel{LevelID: &levelID, LevelName: match.LevelName, Amount: amount}, nil
}

// matchLevel returns the level whose [threshold_low, threshold_high) band
// contains the amount. A NULL threshold_high is unbounded. When configured
// bands leave a gap, the highest level whose lower bound the amount has
// reached wins, so resolution stays monotonic in the amount. Returns nil
// when the amount is below every configured threshold.
func matchLevel(levels []model.ApprovalLevel, amount decimal.Decimal) *model.ApprovalLevel {
	var match *model.ApprovalLevel
	for i := range levels {
		level := &levels[i]
		if amount.LessThan(level.ThresholdLow) {
			continue
		}
		if level.ThresholdHigh == nil || amount.LessThan(*level.ThresholdHigh) {
			return level
		}
		match = level
	}
	return match
}
