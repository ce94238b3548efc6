package risk

import "github.com/trustchain/risk-service/internal/types"

// BidType is the commercial shape of a bid being assessed.
type BidType string

const (
	// MinRate is a reverse-auction low bid.
	MinRate BidType = "MinRate"
	// MaxRate is a budget-ceiling high bid.
	MaxRate BidType = "MaxRate"
	// FixRate is a fixed-price bid.
	FixRate BidType = "FixRate"
)

// AllBidTypes enumerates the closed set of bid categories in a stable order.
func AllBidTypes() []BidType {
	return []BidType{MinRate, MaxRate, FixRate}
}

// ParseBidType validates a wire-level bid type string.
func ParseBidType(s string) (BidType, bool) {
	switch BidType(s) {
	case MinRate, MaxRate, FixRate:
		return BidType(s), true
	}
	return "", false
}

// strategy bundles the per-category knobs: the extra label term stacked on
// the base formula, the post-model bid adjustment, and whether the category
// participates in training. A nil func means the category contributes
// nothing for that knob, so the base formula applies unmodified.
type strategy struct {
	labelAdjust func(r *types.BidderRecord) float64
	bidAdjust   func(r *types.BidderRecord, bidAmount, projectBudget float64) float64
	trainable   bool
}

var strategies = map[BidType]strategy{
	MinRate: {
		labelAdjust: func(r *types.BidderRecord) float64 {
			// Delivery capability matters most on low bids.
			adj := 3 * (10 - r.QualityScore)
			if r.CompletionRate < 0.8 {
				adj += 20
			}
			return adj
		},
		bidAdjust: func(r *types.BidderRecord, bidAmount, projectBudget float64) float64 {
			// The zero-budget check doubles as the division guard.
			if bidAmount <= 0 || projectBudget <= 0 {
				return 0
			}
			switch ratio := bidAmount / projectBudget; {
			case ratio < 0.6:
				return 25 // unrealistically low bid
			case ratio < 0.75:
				return 10 // suspiciously low bid
			}
			return 0
		},
		trainable: true,
	},
	MaxRate: {
		bidAdjust: func(r *types.BidderRecord, bidAmount, _ float64) float64 {
			// A high bid with no contract history to back it increases risk.
			if bidAmount > 0 && bidAmount > 2*r.TotalContractValue {
				return 20
			}
			return 0
		},
		trainable: true,
	},
	FixRate: {
		trainable: true,
	},
}

// labelAdjustment returns the category-specific additive label term, or 0
// when the category defines none.
func labelAdjustment(bt BidType, r *types.BidderRecord) float64 {
	if st, ok := strategies[bt]; ok && st.labelAdjust != nil {
		return st.labelAdjust(r)
	}
	return 0
}

// bidAdjustment returns the post-model adjustment for the given bid inputs,
// or 0 when the category defines none or the inputs are absent.
func bidAdjustment(bt BidType, r *types.BidderRecord, bidAmount, projectBudget float64) float64 {
	if st, ok := strategies[bt]; ok && st.bidAdjust != nil {
		return st.bidAdjust(r, bidAmount, projectBudget)
	}
	return 0
}

// Trainable reports whether the category participates in batch training.
func Trainable(bt BidType) bool {
	st, ok := strategies[bt]
	return ok && st.trainable
}
