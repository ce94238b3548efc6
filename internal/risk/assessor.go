package risk

import (
	"fmt"

	"github.com/trustchain/risk-service/internal/types"
)

// Risk category thresholds; a score below Low is "Low", below High is
// "Medium", anything else "High".
const (
	lowThreshold  = 30.0
	highThreshold = 70.0
)

// DatasetReader is the slice of the historical store the assessor needs.
// Lookup returns (nil, nil) when the address has no row.
type DatasetReader interface {
	Lookup(address string) (*types.BidderRecord, error)
}

// Assessor composes bidder lookup, risk prediction, categorization and
// recommendation into one response record.
type Assessor struct {
	data      DatasetReader
	predictor *Predictor
}

// NewAssessor wires the composer to the dataset and predictor.
func NewAssessor(data DatasetReader, predictor *Predictor) *Assessor {
	return &Assessor{data: data, predictor: predictor}
}

// Assess produces a complete RiskAssessment for one bid. bidAmount and
// projectBudget of 0 mean "not provided". Every failure comes back as an
// error, never as a zero score.
func (a *Assessor) Assess(address, bidType string, bidAmount, projectBudget float64) (*types.RiskAssessment, error) {
	if address == "" {
		return nil, fmt.Errorf("%w: bidder_address is required", ErrInvalidInput)
	}
	bt, ok := ParseBidType(bidType)
	if !ok {
		return nil, fmt.Errorf("%w: unknown bid_type %q", ErrInvalidInput, bidType)
	}

	record, err := a.data.Lookup(address)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	if record == nil {
		return nil, fmt.Errorf("%w: %s", ErrBidderNotFound, address)
	}

	score := a.predictor.PredictRisk(record, bt, bidAmount, projectBudget)
	category := Categorize(score)

	return &types.RiskAssessment{
		BidderAddress:  address,
		BidType:        string(bt),
		RiskScore:      score,
		RiskCategory:   category,
		Recommendation: Recommendation(category, bt),
		BidderStats: types.BidderStats{
			TotalProjects:   int(record.TotalProjects),
			CompletionRate:  record.CompletionRate,
			ReputationScore: record.ReputationScore,
		},
	}, nil
}

// Categorize maps a numeric score onto the fixed Low/Medium/High bands.
func Categorize(score float64) string {
	switch {
	case score < lowThreshold:
		return "Low"
	case score < highThreshold:
		return "Medium"
	default:
		return "High"
	}
}

// Recommendation returns the operator guidance line for a risk category and
// bid shape.
func Recommendation(category string, bt BidType) string {
	switch category {
	case "Low":
		return fmt.Sprintf("✅ APPROVE - Low risk for %s", bt)
	case "Medium":
		return fmt.Sprintf("⚠️ APPROVE WITH MONITORING - Medium risk for %s", bt)
	default:
		return fmt.Sprintf("❌ REJECT - High risk for %s", bt)
	}
}
