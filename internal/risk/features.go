package risk

import "github.com/trustchain/risk-service/internal/types"

// featureColumns fixes the order in which bidder attributes are laid out in
// a feature vector. Scalers and models are fitted against this exact order;
// training and prediction both go through Features, so a reordering here is
// the only way the two paths can diverge.
var featureColumns = []struct {
	name string
	get  func(*types.BidderRecord) float64
}{
	{"total_projects", func(r *types.BidderRecord) float64 { return r.TotalProjects }},
	{"completed_projects", func(r *types.BidderRecord) float64 { return r.CompletedProjects }},
	{"abandoned_projects", func(r *types.BidderRecord) float64 { return r.AbandonedProjects }},
	{"completion_rate", func(r *types.BidderRecord) float64 { return r.CompletionRate }},
	{"average_delay_days", func(r *types.BidderRecord) float64 { return r.AverageDelayDays }},
	{"budget_overruns_percent", func(r *types.BidderRecord) float64 { return r.BudgetOverrunsPct }},
	{"quality_score", func(r *types.BidderRecord) float64 { return r.QualityScore }},
	{"reputation_score", func(r *types.BidderRecord) float64 { return r.ReputationScore }},
	{"payment_disputes", func(r *types.BidderRecord) float64 { return r.PaymentDisputes }},
	{"days_since_last_project", func(r *types.BidderRecord) float64 { return r.DaysSinceLastProject }},
}

// NumFeatures is the width of every feature vector.
var NumFeatures = len(featureColumns)

// FeatureNames returns the feature column names in vector order.
func FeatureNames() []string {
	names := make([]string, len(featureColumns))
	for i, col := range featureColumns {
		names[i] = col.name
	}
	return names
}

// Features maps a bidder record to the fixed-order numeric vector. Fields
// absent from the source data are zero-valued on the record and therefore
// encode as 0 here.
func Features(r *types.BidderRecord) []float64 {
	v := make([]float64, len(featureColumns))
	for i, col := range featureColumns {
		v[i] = col.get(r)
	}
	return v
}

// FeatureMatrix builds one feature row per record, in record order.
func FeatureMatrix(records []types.BidderRecord) [][]float64 {
	m := make([][]float64, len(records))
	for i := range records {
		m[i] = Features(&records[i])
	}
	return m
}
