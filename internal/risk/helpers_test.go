package risk

import (
	"fmt"

	"github.com/trustchain/risk-service/internal/types"
)

// syntheticRows builds a deterministic spread of bidder histories for one
// bid category, varied enough that every feature column has signal.
func syntheticRows(n int, bt BidType) []types.BidderRecord {
	rows := make([]types.BidderRecord, n)
	for i := range rows {
		rows[i] = types.BidderRecord{
			BidderAddress:        fmt.Sprintf("0xBIDDER%02d", i+1),
			BidType:              string(bt),
			TotalProjects:        float64(3 + i%12),
			CompletedProjects:    float64(2 + i%10),
			AbandonedProjects:    float64(i % 3),
			CompletionRate:       0.5 + 0.05*float64(i%10),
			AverageDelayDays:     float64((i * 7) % 40),
			BudgetOverrunsPct:    float64((i * 11) % 60),
			QualityScore:         float64(3 + i%8),
			ReputationScore:      float64(2 + i%9),
			PaymentDisputes:      float64(i % 4),
			DaysSinceLastProject: float64((i * 13) % 200),
			TotalContractValue:   float64(100000 * (1 + i%5)),
		}
	}
	return rows
}

// constantModel is a stub regressor that always predicts the same value,
// used to pin the raw model output in adjustment tests.
type constantModel struct {
	value float64
}

func (m *constantModel) Fit(x [][]float64, y []float64) error { return nil }
func (m *constantModel) Predict(x []float64) float64          { return m.value }
func (m *constantModel) Name() string                         { return "Constant" }

// identityScaler returns a fitted scaler that passes features through
// unchanged.
func identityScaler() *Scaler {
	mean := make([]float64, NumFeatures)
	std := make([]float64, NumFeatures)
	for i := range std {
		std[i] = 1
	}
	return &Scaler{Mean: mean, Std: std}
}
