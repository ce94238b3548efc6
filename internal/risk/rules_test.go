package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trustchain/risk-service/internal/types"
)

func TestFallbackScore(t *testing.T) {
	tests := []struct {
		name     string
		record   types.BidderRecord
		expected float64
	}{
		{
			name:     "clean record scores zero",
			record:   types.BidderRecord{},
			expected: 0,
		},
		{
			name: "strong reputation cannot go below zero",
			record: types.BidderRecord{
				ReputationScore: 9.5,
			},
			expected: 0,
		},
		{
			name: "abandonments dominate",
			record: types.BidderRecord{
				AbandonedProjects: 1,
				ReputationScore:   5,
			},
			expected: 20, // 30 - 10
		},
		{
			name: "delay contribution is capped at 30",
			record: types.BidderRecord{
				AverageDelayDays: 365,
			},
			expected: 30,
		},
		{
			name: "disputes add fifteen each",
			record: types.BidderRecord{
				PaymentDisputes: 2,
			},
			expected: 30,
		},
		{
			name: "extreme record clamps to one hundred",
			record: types.BidderRecord{
				AbandonedProjects: 10,
				AverageDelayDays:  500,
				PaymentDisputes:   20,
			},
			expected: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := FallbackScore(&tt.record)
			assert.Equal(t, tt.expected, score)
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 100.0)
		})
	}
}

func TestLabelScore(t *testing.T) {
	base := types.BidderRecord{
		AbandonedProjects: 1,
		AverageDelayDays:  10,
		BudgetOverrunsPct: 20,
		PaymentDisputes:   1,
		ReputationScore:   6,
		QualityScore:      8,
		CompletionRate:    0.9,
	}
	// 25 + 5 + 6 + 8 - 9 = 35 before any category adjustment.

	tests := []struct {
		name     string
		record   types.BidderRecord
		bidType  BidType
		expected float64
	}{
		{
			name:     "min rate adds quality penalty",
			record:   base,
			bidType:  MinRate,
			expected: 41, // 35 + 3*(10-8)
		},
		{
			name: "min rate adds flat twenty below completion threshold",
			record: func() types.BidderRecord {
				r := base
				r.CompletionRate = 0.79
				return r
			}(),
			bidType:  MinRate,
			expected: 61, // 35 + 6 + 20
		},
		{
			name:     "max rate uses the base formula unmodified",
			record:   base,
			bidType:  MaxRate,
			expected: 35,
		},
		{
			name:     "fix rate uses the base formula unmodified",
			record:   base,
			bidType:  FixRate,
			expected: 35,
		},
		{
			name: "overrun contribution is capped at twenty five",
			record: types.BidderRecord{
				BudgetOverrunsPct: 1000,
			},
			bidType:  FixRate,
			expected: 25,
		},
		{
			name: "label score clamps to one hundred",
			record: types.BidderRecord{
				AbandonedProjects: 5,
				PaymentDisputes:   10,
			},
			bidType:  MaxRate,
			expected: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, LabelScore(&tt.record, tt.bidType), 1e-9)
		})
	}
}

func TestCompletionRateBoundary(t *testing.T) {
	record := types.BidderRecord{QualityScore: 10, CompletionRate: 0.8}

	// Exactly 0.8 is not "below threshold".
	assert.InDelta(t, 0.0, LabelScore(&record, MinRate), 1e-9)
}
