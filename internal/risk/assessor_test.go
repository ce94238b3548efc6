package risk

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trustchain/risk-service/internal/types"
)

// mapReader is a DatasetReader backed by an in-memory map, with an optional
// forced error to exercise the unavailable path.
type mapReader struct {
	records map[string]*types.BidderRecord
	err     error
}

func (r *mapReader) Lookup(address string) (*types.BidderRecord, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.records[address], nil
}

func newTestAssessor(reader DatasetReader) *Assessor {
	return NewAssessor(reader, NewPredictor(NewRegistry(), PredictorConfig{}))
}

func TestAssessValidation(t *testing.T) {
	reader := &mapReader{records: map[string]*types.BidderRecord{}}
	assessor := newTestAssessor(reader)

	tests := []struct {
		name    string
		address string
		bidType string
		wantErr error
	}{
		{name: "empty address", address: "", bidType: "MinRate", wantErr: ErrInvalidInput},
		{name: "unknown bid type", address: "0xA", bidType: "BestRate", wantErr: ErrInvalidInput},
		{name: "empty bid type", address: "0xA", bidType: "", wantErr: ErrInvalidInput},
		{name: "unknown bidder", address: "0xMISSING", bidType: "MinRate", wantErr: ErrBidderNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := assessor.Assess(tt.address, tt.bidType, 0, 0)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, result)
		})
	}
}

func TestAssessLookupFailure(t *testing.T) {
	reader := &mapReader{err: errors.New("database locked")}
	assessor := newTestAssessor(reader)

	_, err := assessor.Assess("0xA", "MinRate", 0, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestAssessKnownBidder(t *testing.T) {
	record := &types.BidderRecord{
		BidderAddress:     "0xGOOD",
		BidType:           "MinRate",
		TotalProjects:     12,
		CompletionRate:    0.95,
		ReputationScore:   8,
		AbandonedProjects: 0,
		AverageDelayDays:  2,
	}
	reader := &mapReader{records: map[string]*types.BidderRecord{"0xGOOD": record}}
	assessor := newTestAssessor(reader)

	result, err := assessor.Assess("0xGOOD", "MinRate", 95000, 100000)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "0xGOOD", result.BidderAddress)
	assert.Equal(t, "MinRate", result.BidType)
	assert.GreaterOrEqual(t, result.RiskScore, 0.0)
	assert.LessOrEqual(t, result.RiskScore, 100.0)
	assert.Equal(t, Categorize(result.RiskScore), result.RiskCategory)
	assert.NotEmpty(t, result.Recommendation)
	assert.Equal(t, 12, result.BidderStats.TotalProjects)
	assert.Equal(t, 0.95, result.BidderStats.CompletionRate)
	assert.Equal(t, 8.0, result.BidderStats.ReputationScore)
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  string
	}{
		{name: "floor", score: 0, want: "Low"},
		{name: "just under low threshold", score: 29.99, want: "Low"},
		{name: "at low threshold", score: 30, want: "Medium"},
		{name: "mid band", score: 55, want: "Medium"},
		{name: "just under high threshold", score: 69.99, want: "Medium"},
		{name: "at high threshold", score: 70, want: "High"},
		{name: "ceiling", score: 100, want: "High"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.score))
		})
	}
}

func TestRecommendation(t *testing.T) {
	tests := []struct {
		name     string
		category string
		bt       BidType
		want     string
	}{
		{name: "low", category: "Low", bt: MinRate, want: "✅ APPROVE - Low risk for MinRate"},
		{name: "medium", category: "Medium", bt: MaxRate, want: "⚠️ APPROVE WITH MONITORING - Medium risk for MaxRate"},
		{name: "high", category: "High", bt: FixRate, want: "❌ REJECT - High risk for FixRate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Recommendation(tt.category, tt.bt))
		})
	}
}
