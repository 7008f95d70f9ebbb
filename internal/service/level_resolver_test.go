package service

import (
	"context"
	"testing"

	"glerp/internal/model"
	"glerp/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func testLevels() []model.ApprovalLevel {
	return []model.ApprovalLevel{
		{ID: uuid.New(), LevelName: "Supervisor", ThresholdLow: dec("1000"), ThresholdHigh: decPtr("10000"), TimeLimitHours: 24},
		{ID: uuid.New(), LevelName: "Manager", ThresholdLow: dec("10000"), ThresholdHigh: decPtr("100000"), TimeLimitHours: 48},
		{ID: uuid.New(), LevelName: "CFO", ThresholdLow: dec("100000"), ThresholdHigh: nil, TimeLimitHours: 72},
	}
}

func resolverWith(debit, credit string, lines int64, levels []model.ApprovalLevel) *ApprovalLevelResolver {
	journalRepo := &mockJournalRepo{
		findByDocumentFn: func(ctx context.Context, documentNumber, companyCode string) (*model.JournalEntryHeader, error) {
			return &model.JournalEntryHeader{DocumentNumber: documentNumber, CompanyCode: companyCode}, nil
		},
		totalsFn: func(ctx context.Context, documentNumber, companyCode string) (*repository.DocumentTotals, error) {
			return &repository.DocumentTotals{TotalDebit: dec(debit), TotalCredit: dec(credit), LineCount: lines}, nil
		},
	}
	levelRepo := &mockLevelRepo{
		listByCompanyFn: func(ctx context.Context, companyCode string) ([]model.ApprovalLevel, error) {
			return levels, nil
		},
	}
	return NewApprovalLevelResolver(journalRepo, levelRepo)
}

func TestCalculateRequiredApprovalLevel(t *testing.T) {
	tests := []struct {
		name      string
		debit     string
		credit    string
		wantLevel string
		wantNone  bool
	}{
		{name: "below lowest threshold requires no approval", debit: "500", credit: "500", wantNone: true},
		{name: "lower bound is inclusive", debit: "1000", credit: "1000", wantLevel: "Supervisor"},
		{name: "upper bound is exclusive", debit: "9999.99", credit: "9999.99", wantLevel: "Supervisor"},
		{name: "boundary amount routes to next level", debit: "10000", credit: "10000", wantLevel: "Manager"},
		{name: "unbounded top level catches large amounts", debit: "5000000", credit: "5000000", wantLevel: "CFO"},
		{name: "larger side drives routing", debit: "200", credit: "15000", wantLevel: "Manager"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := resolverWith(tt.debit, tt.credit, 2, testLevels())
			got, err := resolver.CalculateRequiredApprovalLevel(context.Background(), "JE-20260101-00001", "1000")
			require.NoError(t, err)

			if tt.wantNone {
				assert.Nil(t, got.LevelID)
				return
			}
			require.NotNil(t, got.LevelID)
			assert.Equal(t, tt.wantLevel, got.LevelName)
		})
	}
}

func TestCalculateRequiredApprovalLevelGapFallback(t *testing.T) {
	// Bands with a hole between 5000 and 10000: amounts in the gap still
	// route to the highest level whose lower bound they reached.
	levels := []model.ApprovalLevel{
		{ID: uuid.New(), LevelName: "Supervisor", ThresholdLow: dec("1000"), ThresholdHigh: decPtr("5000")},
		{ID: uuid.New(), LevelName: "Manager", ThresholdLow: dec("10000"), ThresholdHigh: nil},
	}

	resolver := resolverWith("7500", "7500", 2, levels)
	got, err := resolver.CalculateRequiredApprovalLevel(context.Background(), "JE-20260101-00002", "1000")
	require.NoError(t, err)
	require.NotNil(t, got.LevelID)
	assert.Equal(t, "Supervisor", got.LevelName)
}

func TestCalculateRequiredApprovalLevelMonotonic(t *testing.T) {
	// A larger amount must never resolve to a lower level than a smaller one.
	levels := testLevels()
	rank := map[string]int{"": 0, "Supervisor": 1, "Manager": 2, "CFO": 3}

	amounts := []string{"100", "999.99", "1000", "5000", "10000", "50000", "99999.99", "100000", "1000000"}
	prev := 0
	for _, amount := range amounts {
		resolver := resolverWith(amount, amount, 2, levels)
		got, err := resolver.CalculateRequiredApprovalLevel(context.Background(), "JE-20260101-00003", "1000")
		require.NoError(t, err)

		current := rank[got.LevelName]
		assert.GreaterOrEqual(t, current, prev, "amount %s resolved below previous level", amount)
		prev = current
	}
}

func TestCalculateRequiredApprovalLevelValidation(t *testing.T) {
	t.Run("missing document", func(t *testing.T) {
		resolver := NewApprovalLevelResolver(&mockJournalRepo{}, &mockLevelRepo{})
		_, err := resolver.CalculateRequiredApprovalLevel(context.Background(), "JE-MISSING", "1000")
		require.Error(t, err)
		assert.Equal(t, ErrCodeValidation, CodeOf(err))
	})

	t.Run("no line items", func(t *testing.T) {
		resolver := resolverWith("0", "0", 0, testLevels())
		_, err := resolver.CalculateRequiredApprovalLevel(context.Background(), "JE-20260101-00004", "1000")
		require.Error(t, err)
		assert.Equal(t, ErrCodeValidation, CodeOf(err))
	})

	t.Run("zero amount", func(t *testing.T) {
		resolver := resolverWith("0", "0", 2, testLevels())
		_, err := resolver.CalculateRequiredApprovalLevel(context.Background(), "JE-20260101-00005", "1000")
		require.Error(t, err)
		assert.Equal(t, ErrCodeValidation, CodeOf(err))
	})
}
