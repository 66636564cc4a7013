package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SammyJoBron/Narrative-Abilities-of-Hearing-Impaired-Children/pkg/data"
	"github.com/SammyJoBron/Narrative-Abilities-of-Hearing-Impaired-Children/pkg/stats"
)

func TestSimpleRegressionExactLine(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, data.Missing}
	y := []float64{5, 7, 9, 11, 13, 99}

	m := NewSimpleRegression()
	require.NoError(t, m.Fit(x, y))
	assert.Equal(t, 5, m.N)
	assert.InDelta(t, 3, m.Intercept, 1e-9)
	assert.InDelta(t, 2, m.Slope, 1e-9)
	assert.InDelta(t, 1, m.R2, 1e-9)
	assert.InDelta(t, 0, m.RMSE, 1e-9)
	assert.InDelta(t, 0, m.P, 1e-9)
}

func TestSimpleRegressionNoisy(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{2, 1, 4, 3, 5}

	m := NewSimpleRegression()
	require.NoError(t, m.Fit(x, y))
	assert.InDelta(t, 0.8, m.Slope, 1e-12)
	assert.InDelta(t, 0.6, m.Intercept, 1e-12)
	assert.InDelta(t, 0.64, m.R2, 1e-12)
	assert.InDelta(t, m.R2, R2(y, m.Predict(x)), 1e-12)

	// The slope test agrees with the Pearson test on the same pairs.
	c := stats.Pearson(x, y)
	assert.InDelta(t, c.P, m.P, 1e-9)
	assert.InDelta(t, m.Slope/m.SlopeSE, m.T, 1e-12)
}

func TestSimpleRegressionErrors(t *testing.T) {
	m := NewSimpleRegression()
	err := m.Fit([]float64{1, 2, data.Missing}, []float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrTooFewObservations)

	err = m.Fit([]float64{4, 4, 4, 4}, []float64{1, 2, 3, 4})
	assert.ErrorIs(t, err, ErrNoVariance)
}

func TestPredictPropagatesMissing(t *testing.T) {
	m := &SimpleRegression{Intercept: 1, Slope: 2}
	got := m.Predict([]float64{0, data.Missing, 3})
	assert.Equal(t, 1.0, got[0])
	assert.True(t, math.IsNaN(got[1]))
	assert.Equal(t, 7.0, got[2])
}

func TestMetrics(t *testing.T) {
	yTrue := []float64{1, 2, 3}
	yPred := []float64{1, 2, 5}
	assert.InDelta(t, 4.0/3.0, MSE(yTrue, yPred), 1e-12)
	assert.InDelta(t, math.Sqrt(4.0/3.0), RMSE(yTrue, yPred), 1e-12)
	assert.InDelta(t, 1-4.0/2.0, R2(yTrue, yPred), 1e-12)
	assert.Equal(t, 0.0, R2([]float64{2, 2}, []float64{1, 3}))
}
