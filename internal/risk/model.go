package risk

// Regressor is a trainable model producing one point estimate per feature
// row. Implementations must be deterministic for a fixed seed so that
// repeated training runs on identical data reproduce byte-for-byte.
type Regressor interface {
	Fit(x [][]float64, y []float64) error
	Predict(x []float64) float64
	Name() string
}
