package risk

import "github.com/trustchain/risk-service/internal/types"

// PredictorConfig controls serving-path behavior.
type PredictorConfig struct {
	// AdjustOnFallback applies bid-type adjustments to fallback scores as
	// well as model scores. Off by default: fallback scores historically
	// shipped without adjustments.
	AdjustOnFallback bool
}

// Predictor produces a clamped risk score for one bidder and bid shape,
// using the category's trained artifact when one is loaded and the rule
// fallback otherwise.
type Predictor struct {
	registry *Registry
	cfg      PredictorConfig
}

// NewPredictor wires a predictor to the process-wide model registry.
func NewPredictor(registry *Registry, cfg PredictorConfig) *Predictor {
	return &Predictor{registry: registry, cfg: cfg}
}

// PredictRisk scores one bidder record. bidAmount and projectBudget of 0
// mean "not provided"; adjustments that need them are skipped, including the
// zero-budget ratio case.
func (p *Predictor) PredictRisk(r *types.BidderRecord, bt BidType, bidAmount, projectBudget float64) float64 {
	artifact, ok := p.registry.Get(bt)
	if !ok || artifact.Model == nil || artifact.Scaler == nil {
		score := FallbackScore(r)
		if p.cfg.AdjustOnFallback {
			score = clamp(score+bidAdjustment(bt, r, bidAmount, projectBudget), 0, 100)
		}
		return score
	}

	score := artifact.Model.Predict(artifact.Scaler.Transform(Features(r)))
	score += bidAdjustment(bt, r, bidAmount, projectBudget)
	return clamp(score, 0, 100)
}
