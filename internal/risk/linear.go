package risk

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// LinearRegression is an ordinary least-squares regressor with an intercept
// term. The design matrix is solved by QR decomposition; a singular system
// surfaces as a fit error rather than garbage weights.
type LinearRegression struct {
	// Weights holds one coefficient per feature followed by the intercept.
	Weights []float64 `json:"weights"`
}

func (l *LinearRegression) Name() string { return "Linear" }

func (l *LinearRegression) Fit(x [][]float64, y []float64) error {
	n := len(x)
	if n == 0 || len(y) != n {
		return fmt.Errorf("linear fit: need matching non-empty x (%d rows) and y (%d)", n, len(y))
	}
	p := len(x[0])

	a := mat.NewDense(n, p+1, nil)
	for i, row := range x {
		for j, v := range row {
			a.Set(i, j, v)
		}
		a.Set(i, p, 1)
	}
	b := mat.NewVecDense(n, append([]float64(nil), y...))

	var w mat.VecDense
	if err := w.SolveVec(a, b); err != nil {
		return fmt.Errorf("linear fit: %w", err)
	}

	l.Weights = make([]float64, p+1)
	for j := range l.Weights {
		l.Weights[j] = w.AtVec(j)
	}
	return nil
}

func (l *LinearRegression) Predict(x []float64) float64 {
	pred := l.Weights[len(l.Weights)-1]
	for j, v := range x {
		pred += l.Weights[j] * v
	}
	return pred
}
