package model

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/SammyJoBron/Narrative-Abilities-of-Hearing-Impaired-Children/pkg/stats"
)

// ErrTooFewObservations is returned when fewer than three complete pairs remain.
var ErrTooFewObservations = errors.New("fewer than 3 complete observations")

// ErrNoVariance is returned when the predictor is constant.
var ErrNoVariance = errors.New("predictor has no variance")

var _ Model = (*SimpleRegression)(nil)

// SimpleRegression is an ordinary least squares fit y = Intercept + Slope*x,
// estimated on the rows where both x and y are present.
type SimpleRegression struct {
	Intercept float64
	Slope     float64
	R2        float64
	RMSE      float64
	// SlopeSE is the standard error of Slope; T and P test Slope against zero.
	SlopeSE float64
	T       float64
	P       float64
	N       int
}

// NewSimpleRegression returns an unfitted model.
func NewSimpleRegression() *SimpleRegression { return &SimpleRegression{} }

// Fit estimates the model over pairwise-complete observations.
func (m *SimpleRegression) Fit(x, y []float64) error {
	xs, ys := stats.PairwiseComplete(x, y)
	m.N = len(xs)
	if m.N < 3 {
		return ErrTooFewObservations
	}
	meanX := stat.Mean(xs, nil)
	sxx := 0.0
	for _, v := range xs {
		d := v - meanX
		sxx += d * d
	}
	if sxx == 0 {
		return ErrNoVariance
	}

	m.Intercept, m.Slope = stat.LinearRegression(xs, ys, nil, false)
	m.R2 = stat.RSquared(xs, ys, nil, m.Intercept, m.Slope)
	m.RMSE = RMSE(ys, m.Predict(xs))

	ssRes := 0.0
	for i := range xs {
		r := ys[i] - (m.Intercept + m.Slope*xs[i])
		ssRes += r * r
	}
	df := float64(m.N - 2)
	m.SlopeSE = math.Sqrt(ssRes/df) / math.Sqrt(sxx)
	switch {
	case m.SlopeSE > 0:
		m.T = m.Slope / m.SlopeSE
		m.P = stats.TwoSidedP(m.T, df)
	case m.Slope == 0:
		m.T, m.P = 0, 1
	default:
		// Perfect fit.
		m.T, m.P = math.Inf(1), 0
		if m.Slope < 0 {
			m.T = math.Inf(-1)
		}
	}
	return nil
}

// Predict evaluates the fitted line. Missing inputs give missing outputs.
func (m *SimpleRegression) Predict(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = m.Intercept + m.Slope*v
	}
	return out
}
