package types

// BidderRecord is one historical performance profile, keyed by bidder
// address. Records are produced by the dataset loader and are read-only for
// the lifetime of a scoring request.
type BidderRecord struct {
	BidderAddress        string  `json:"bidder_address"`
	BidType              string  `json:"bid_type"`
	TotalProjects        float64 `json:"total_projects"`
	CompletedProjects    float64 `json:"completed_projects"`
	AbandonedProjects    float64 `json:"abandoned_projects"`
	CompletionRate       float64 `json:"completion_rate"`
	AverageDelayDays     float64 `json:"average_delay_days"`
	BudgetOverrunsPct    float64 `json:"budget_overruns_percent"`
	QualityScore         float64 `json:"quality_score"`
	ReputationScore      float64 `json:"reputation_score"`
	PaymentDisputes      float64 `json:"payment_disputes"`
	DaysSinceLastProject float64 `json:"days_since_last_project"`
	TotalContractValue   float64 `json:"total_contract_value"`
}

// AssessRequest is the body of POST /assess_risk. BidAmount and
// ProjectBudget are optional; zero means not provided.
type AssessRequest struct {
	BidderAddress string  `json:"bidder_address" binding:"required"`
	BidType       string  `json:"bid_type" binding:"required"`
	BidAmount     float64 `json:"bid_amount,omitempty"`
	ProjectBudget float64 `json:"project_budget,omitempty"`
}

// BidderStats is the display snapshot attached to a risk assessment.
type BidderStats struct {
	TotalProjects   int     `json:"total_projects"`
	CompletionRate  float64 `json:"completion_rate"`
	ReputationScore float64 `json:"reputation_score"`
}

// RiskAssessment is the complete scoring response for one bid.
type RiskAssessment struct {
	BidderAddress  string      `json:"bidder_address"`
	BidType        string      `json:"bid_type"`
	RiskScore      float64     `json:"risk_score"`
	RiskCategory   string      `json:"risk_category"`
	Recommendation string      `json:"recommendation"`
	BidderStats    BidderStats `json:"bidder_stats"`
}

// BidderSummary is one row of the bulk stats listing.
type BidderSummary struct {
	BidderAddress   string  `json:"bidder_address"`
	TotalProjects   int     `json:"total_projects"`
	CompletionRate  float64 `json:"completion_rate"`
	ReputationScore float64 `json:"reputation_score"`
	QualityScore    float64 `json:"quality_score"`
}
