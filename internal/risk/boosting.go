package risk

import "fmt"

// GradientBoosting fits a sequence of shallow regression trees, each one to
// the residual of the ensemble so far, and shrinks every stage by the
// learning rate. Stages use all features so the fit is fully deterministic.
type GradientBoosting struct {
	NStages      int               `json:"n_stages"`
	LearningRate float64           `json:"learning_rate"`
	Base         float64           `json:"base"`
	Trees        []*regressionTree `json:"trees,omitempty"`
}

// NewGradientBoosting configures an unfitted boosted ensemble.
func NewGradientBoosting(nStages int, learningRate float64) *GradientBoosting {
	return &GradientBoosting{NStages: nStages, LearningRate: learningRate}
}

func (g *GradientBoosting) Name() string { return "GradientBoosting" }

func (g *GradientBoosting) Fit(x [][]float64, y []float64) error {
	n := len(x)
	if n == 0 || len(y) != n {
		return fmt.Errorf("boosting fit: need matching non-empty x (%d rows) and y (%d)", n, len(y))
	}

	sum := 0.0
	for _, v := range y {
		sum += v
	}
	g.Base = sum / float64(n)

	pred := make([]float64, n)
	for i := range pred {
		pred[i] = g.Base
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	residual := make([]float64, n)
	g.Trees = make([]*regressionTree, g.NStages)
	for s := range g.Trees {
		for i := range residual {
			residual[i] = y[i] - pred[i]
		}

		tree := &regressionTree{MaxDepth: 3, MinLeaf: 2}
		tree.fit(x, residual, idx)
		g.Trees[s] = tree

		for i := range pred {
			pred[i] += g.LearningRate * tree.predict(x[i])
		}
	}
	return nil
}

func (g *GradientBoosting) Predict(x []float64) float64 {
	pred := g.Base
	for _, tree := range g.Trees {
		pred += g.LearningRate * tree.predict(x)
	}
	return pred
}
