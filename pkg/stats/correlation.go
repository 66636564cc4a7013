package stats

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/SammyJoBron/Narrative-Abilities-of-Hearing-Impaired-Children/pkg/data"
)

// Correlation is a Pearson coefficient with its two-sided significance.
type Correlation struct {
	R float64
	P float64
	N int
}

// PairwiseComplete returns the elements of x and y at rows where both are present.
func PairwiseComplete(x, y []float64) (xs, ys []float64) {
	n := min(len(x), len(y))
	xs = make([]float64, 0, n)
	ys = make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if data.IsMissing(x[i]) || data.IsMissing(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	return xs, ys
}

// Pearson correlates x and y over pairwise-complete rows. R and P are NaN when
// fewer than three pairs remain or either side has no spread.
func Pearson(x, y []float64) Correlation {
	xs, ys := PairwiseComplete(x, y)
	c := Correlation{R: math.NaN(), P: math.NaN(), N: len(xs)}
	if c.N < 3 {
		return c
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return c
	}
	c.R = r
	c.P = correlationPValue(r, c.N)
	return c
}

// correlationPValue tests r against zero with a Student t on n-2 degrees of freedom.
func correlationPValue(r float64, n int) float64 {
	if math.Abs(r) >= 1 {
		return 0
	}
	df := float64(n - 2)
	t := r * math.Sqrt(df/(1-r*r))
	return TwoSidedP(t, df)
}

// TwoSidedP returns P(|T| >= |t|) for a Student t with df degrees of freedom.
func TwoSidedP(t, df float64) float64 {
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return 2 * dist.Survival(math.Abs(t))
}

// Matrix holds the pairwise correlations among a set of variables.
type Matrix struct {
	Names []string
	R     *mat.SymDense
	P     *mat.SymDense
	N     [][]int
}

// At returns the correlation between the i-th and j-th variable.
func (m *Matrix) At(i, j int) Correlation {
	return Correlation{R: m.R.At(i, j), P: m.P.At(i, j), N: m.N[i][j]}
}

// Lookup returns the correlation between two named variables.
func (m *Matrix) Lookup(a, b string) (Correlation, bool) {
	i, j := -1, -1
	for k, name := range m.Names {
		if name == a {
			i = k
		}
		if name == b {
			j = k
		}
	}
	if i < 0 || j < 0 {
		return Correlation{}, false
	}
	return m.At(i, j), true
}

// CorrelationMatrix correlates every pair of columns of ds, in column order.
func CorrelationMatrix(ds *data.Dataset) (*Matrix, error) {
	names := ds.Names()
	cols := make([][]float64, len(names))
	for i, name := range names {
		col, err := ds.Column(name)
		if err != nil {
			return nil, err
		}
		cols[i] = col
	}
	k := len(names)
	if k == 0 {
		return nil, data.SchemaError(data.StageAnalysis, "", "no columns to correlate")
	}
	m := &Matrix{
		Names: names,
		R:     mat.NewSymDense(k, nil),
		P:     mat.NewSymDense(k, nil),
		N:     make([][]int, k),
	}
	for i := 0; i < k; i++ {
		m.N[i] = make([]int, k)
	}
	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			c := Pearson(cols[i], cols[j])
			if i == j && c.N >= 1 {
				c.R, c.P = 1, 0
			}
			m.R.SetSym(i, j, c.R)
			m.P.SetSym(i, j, c.P)
			m.N[i][j], m.N[j][i] = c.N, c.N
		}
	}
	return m, nil
}
