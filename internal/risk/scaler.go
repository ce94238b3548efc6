package risk

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Scaler centers each feature column to zero mean and unit variance. A
// scaler is fitted once per training run and stored alongside the model it
// was fitted with; the pair is only valid together.
type Scaler struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

// Fit computes per-column mean and standard deviation over the full matrix.
// Constant columns keep a unit deviation so transforming them is a no-op
// shift rather than a divide by zero.
func (s *Scaler) Fit(x [][]float64) error {
	if len(x) == 0 {
		return fmt.Errorf("scaler fit: empty feature matrix")
	}
	cols := len(x[0])
	s.Mean = make([]float64, cols)
	s.Std = make([]float64, cols)

	col := make([]float64, len(x))
	for j := 0; j < cols; j++ {
		for i, row := range x {
			if len(row) != cols {
				return fmt.Errorf("scaler fit: ragged feature matrix (row %d has %d columns, want %d)", i, len(row), cols)
			}
			col[i] = row[j]
		}
		mean, std := stat.MeanStdDev(col, nil)
		if std == 0 || std != std {
			std = 1
		}
		s.Mean[j] = mean
		s.Std[j] = std
	}
	return nil
}

// Transform scales a single feature row using the fitted statistics.
func (s *Scaler) Transform(x []float64) []float64 {
	out := make([]float64, len(x))
	for j, v := range x {
		out[j] = (v - s.Mean[j]) / s.Std[j]
	}
	return out
}

// TransformAll scales every row of a feature matrix.
func (s *Scaler) TransformAll(x [][]float64) [][]float64 {
	out := make([][]float64, len(x))
	for i, row := range x {
		out[i] = s.Transform(row)
	}
	return out
}
