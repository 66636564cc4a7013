package dataprep

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/SammyJoBron/Narrative-Abilities-of-Hearing-Impaired-Children/pkg/data"
	"github.com/SammyJoBron/Narrative-Abilities-of-Hearing-Impaired-Children/pkg/stats"
)

// Transform is a monotonic rewrite of a strictly positive variable.
type Transform int

const (
	Identity Transform = iota
	Log
	Sqrt
	CubeRoot
)

// Candidates lists the transforms in evaluation order. On a tie the earlier one wins.
var Candidates = [...]Transform{Identity, Log, Sqrt, CubeRoot}

// TieTolerance is the gap below which two skewness scores count as equal.
const TieTolerance = 1e-9

// MinValues is the fewest present values a column needs for skewness.
const MinValues = 3

func (t Transform) String() string {
	switch t {
	case Identity:
		return "identity"
	case Log:
		return "log"
	case Sqrt:
		return "sqrt"
	case CubeRoot:
		return "cube root"
	default:
		return fmt.Sprintf("Transform(%d)", int(t))
	}
}

// Apply maps one value. Missing stays missing.
func (t Transform) Apply(v float64) float64 {
	if data.IsMissing(v) {
		return v
	}
	switch t {
	case Log:
		return math.Log(v)
	case Sqrt:
		return math.Sqrt(v)
	case CubeRoot:
		return math.Pow(v, 1.0/3.0)
	default:
		return v
	}
}

// ApplyAll maps x into a new slice.
func (t Transform) ApplyAll(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = t.Apply(v)
	}
	return out
}

// Decision records what the transformer did to one variable.
type Decision struct {
	Column string
	// Shift is the amount added by the positivity guard (1 - minimum), or 0.
	Shift   float64
	Shifted bool
	Chosen  Transform
	// Scores holds |skewness| per candidate, indexed like Candidates.
	Scores [len(Candidates)]float64
}

// Original is |skewness| of the guarded column before any transform.
func (d Decision) Original() float64 { return d.Scores[Identity] }

// Skew is |skewness| under the chosen transform.
func (d Decision) Skew() float64 { return d.Scores[d.Chosen] }

func (d Decision) String() string {
	return fmt.Sprintf("For %s the skew was %g and with %s %g", d.Column, d.Original(), d.Chosen, d.Skew())
}

// SelectAndApply rewrites column with whichever candidate transform gives the
// smallest absolute skewness. Columns whose minimum is at most 1 are first
// shifted so the minimum becomes exactly 1; the shift is kept.
func SelectAndApply(ds *data.Dataset, column string) (Decision, error) {
	dec := Decision{Column: column}
	values, err := ds.Numeric(data.StageTransform, column)
	if err != nil {
		return dec, err
	}
	n := stats.Count(values)
	if n < MinValues {
		return dec, data.DataError(data.StageTransform, column, "%d present values, need at least %d", n, MinValues)
	}

	minimum, _, _ := stats.MinMax(values)
	if minimum <= 1 {
		dec.Shifted = true
		dec.Shift = 1 - minimum
		for i, v := range values {
			if !data.IsMissing(v) {
				values[i] = v - minimum + 1
			}
		}
	}
	for _, v := range values {
		if math.IsInf(v, 0) || (!data.IsMissing(v) && v < 1) {
			return dec, data.DataError(data.StageTransform, column, "value %g outside [1, +Inf) after positivity guard", v)
		}
	}

	best := -1
	for i, t := range Candidates {
		transformed := t.ApplyAll(values)
		for _, v := range transformed {
			if math.IsInf(v, 0) {
				return dec, data.DataError(data.StageTransform, column, "%s produced a non-finite value", t)
			}
		}
		score := math.Abs(stats.Skewness(transformed))
		if math.IsNaN(score) {
			return dec, data.DataError(data.StageTransform, column, "skewness undefined under %s (no spread)", t)
		}
		dec.Scores[i] = score
		if best < 0 || score < dec.Scores[best]-TieTolerance {
			best = i
		}
	}
	dec.Chosen = Candidates[best]

	for i, v := range values {
		values[i] = dec.Chosen.Apply(v)
	}
	return dec, nil
}

// TransformAll runs SelectAndApply on each column in order and stops at the
// first error.
func TransformAll(ds *data.Dataset, columns []string, logger *zap.Logger) ([]Decision, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	decisions := make([]Decision, 0, len(columns))
	for _, col := range columns {
		dec, err := SelectAndApply(ds, col)
		if err != nil {
			return nil, err
		}
		logger.Info(dec.String(),
			zap.String("variable", dec.Column),
			zap.Stringer("transform", dec.Chosen),
			zap.Float64("skew_before", dec.Original()),
			zap.Float64("skew_after", dec.Skew()),
			zap.Float64("shift", dec.Shift),
		)
		decisions = append(decisions, dec)
	}
	return decisions, nil
}
