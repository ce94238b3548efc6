package risk

import (
	"math"

	"github.com/trustchain/risk-service/internal/types"
)

// Coefficients for the two rule formulas. The fallback set is deliberately
// blunter and more conservative than the label set: it runs online with no
// model to temper it, while the label set only bootstraps training targets.
var (
	fallbackAbandonedWeight  = 30.0
	fallbackDelayWeight      = 0.5
	fallbackDelayCap         = 30.0
	fallbackDisputeWeight    = 15.0
	fallbackReputationWeight = 2.0

	labelAbandonedWeight  = 25.0
	labelDelayWeight      = 0.5
	labelDelayCap         = 30.0
	labelOverrunWeight    = 0.3
	labelOverrunCap       = 25.0
	labelDisputeWeight    = 8.0
	labelReputationWeight = 1.5
)

// FallbackScore is the rule-based serving path used when a category has no
// trained artifact. Deterministic, side-effect free, clamped to [0,100].
func FallbackScore(r *types.BidderRecord) float64 {
	score := fallbackAbandonedWeight * r.AbandonedProjects
	score += math.Min(fallbackDelayCap, fallbackDelayWeight*r.AverageDelayDays)
	score += fallbackDisputeWeight * r.PaymentDisputes
	score -= fallbackReputationWeight * r.ReputationScore
	return clamp(score, 0, 100)
}

// LabelScore synthesizes the training target for one historical row. The
// base formula is shared; categories may stack an additive term on top of it
// via their strategy.
func LabelScore(r *types.BidderRecord, bt BidType) float64 {
	score := labelAbandonedWeight * r.AbandonedProjects
	score += math.Min(labelDelayCap, labelDelayWeight*r.AverageDelayDays)
	score += math.Min(labelOverrunCap, labelOverrunWeight*r.BudgetOverrunsPct)
	score += labelDisputeWeight * r.PaymentDisputes
	score -= labelReputationWeight * r.ReputationScore
	score += labelAdjustment(bt, r)
	return clamp(score, 0, 100)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
