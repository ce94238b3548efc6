package risk

import (
	"fmt"
	"math/rand"
)

// RandomForest averages bootstrap-sampled regression trees with per-split
// feature subsampling. All randomness derives from Seed, so identical data
// yields an identical forest.
type RandomForest struct {
	NTrees int               `json:"n_trees"`
	Seed   int64             `json:"seed"`
	Trees  []*regressionTree `json:"trees,omitempty"`
}

// NewRandomForest configures an unfitted forest.
func NewRandomForest(nTrees int, seed int64) *RandomForest {
	return &RandomForest{NTrees: nTrees, Seed: seed}
}

func (f *RandomForest) Name() string { return "RandomForest" }

func (f *RandomForest) Fit(x [][]float64, y []float64) error {
	n := len(x)
	if n == 0 || len(y) != n {
		return fmt.Errorf("forest fit: need matching non-empty x (%d rows) and y (%d)", n, len(y))
	}

	rng := rand.New(rand.NewSource(f.Seed))
	f.Trees = make([]*regressionTree, f.NTrees)

	for t := range f.Trees {
		sample := make([]int, n)
		for i := range sample {
			sample[i] = rng.Intn(n)
		}

		tree := &regressionTree{
			MaxDepth:    12,
			MinLeaf:     2,
			MaxFeatures: sqrtFeatures(len(x[0])),
			rng:         rand.New(rand.NewSource(rng.Int63())),
		}
		tree.fit(x, y, sample)
		f.Trees[t] = tree
	}
	return nil
}

func (f *RandomForest) Predict(x []float64) float64 {
	if len(f.Trees) == 0 {
		return 0
	}
	sum := 0.0
	for _, tree := range f.Trees {
		sum += tree.predict(x)
	}
	return sum / float64(len(f.Trees))
}
