package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/SammyJoBron/Narrative-Abilities-of-Hearing-Impaired-Children/pkg/data"
)

// Mean computes the average of the present values of x. It returns NaN when
// nothing is present.
func Mean(x []float64) float64 {
	present := data.NonMissing(x)
	if len(present) == 0 {
		return math.NaN()
	}
	return stat.Mean(present, nil)
}

// Skewness computes the adjusted Fisher-Pearson sample skewness of the present
// values of x. It is NaN for fewer than three values or zero spread.
func Skewness(x []float64) float64 {
	present := data.NonMissing(x)
	if len(present) < 3 {
		return math.NaN()
	}
	return stat.Skew(present, nil)
}

// StdDev computes the sample standard deviation of the present values of x.
func StdDev(x []float64) float64 {
	present := data.NonMissing(x)
	if len(present) < 2 {
		return math.NaN()
	}
	return stat.StdDev(present, nil)
}

// MinMax returns the minimum and maximum present values and whether any were found.
func MinMax(x []float64) (min, max float64, ok bool) {
	for _, v := range x {
		if data.IsMissing(v) {
			continue
		}
		if !ok {
			min, max, ok = v, v, true
			continue
		}
		if v < min {
			min = v
		} else if v > max {
			max = v
		}
	}
	return min, max, ok
}

// Count returns the number of present values.
func Count(x []float64) int {
	n := 0
	for _, v := range x {
		if !data.IsMissing(v) {
			n++
		}
	}
	return n
}

// Median returns the median of the present values (allocates a sorted copy).
func Median(x []float64) float64 {
	present := data.NonMissing(x)
	if len(present) == 0 {
		return math.NaN()
	}
	sort.Float64s(present)
	n := len(present)
	mid := n >> 1
	if n&1 == 0 {
		return (present[mid-1] + present[mid]) * 0.5
	}
	return present[mid]
}

// Summary is the descriptive profile of one variable.
type Summary struct {
	N       int
	Missing int
	Mean    float64
	StdDev  float64
	Median  float64
	Min     float64
	Max     float64
	Skew    float64
}

// Describe summarises the present values of x.
func Describe(x []float64) Summary {
	present := data.NonMissing(x)
	s := Summary{
		N:       len(present),
		Missing: len(x) - len(present),
		Mean:    math.NaN(),
		StdDev:  math.NaN(),
		Median:  math.NaN(),
		Min:     math.NaN(),
		Max:     math.NaN(),
		Skew:    math.NaN(),
	}
	if s.N == 0 {
		return s
	}
	sort.Float64s(present)
	s.Mean = stat.Mean(present, nil)
	s.Median = Median(present)
	s.Min, s.Max = present[0], present[s.N-1]
	if s.N >= 2 {
		s.StdDev = stat.StdDev(present, nil)
	}
	if s.N >= 3 {
		s.Skew = stat.Skew(present, nil)
	}
	return s
}
