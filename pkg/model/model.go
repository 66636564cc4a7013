package model

// Model is a single-predictor supervised fit.
type Model interface {
	Fit(x, y []float64) error
	Predict(x []float64) []float64
}
