package data

import (
	"math"
	"slices"
)

// Missing marks an absent numeric observation. It is never equal to zero.
var Missing = math.NaN()

// IsMissing reports whether v is the missing marker.
func IsMissing(v float64) bool { return math.IsNaN(v) }

// Kind tells numeric and categorical columns apart.
type Kind int

const (
	Numeric Kind = iota
	Categorical
)

func (k Kind) String() string {
	if k == Categorical {
		return "categorical"
	}
	return "numeric"
}

type column struct {
	kind    Kind
	numbers []float64
	labels  []string
}

// Dataset is a table of subjects (rows) by named variables (columns).
// The row count is fixed at construction; stages rewrite or add columns only.
type Dataset struct {
	rows  int
	names []string
	cols  map[string]*column
}

// New allocates an empty dataset with the given number of rows.
func New(rows int) *Dataset {
	return &Dataset{rows: rows, cols: make(map[string]*column)}
}

// FromColumns builds a dataset from numeric columns of equal length.
func FromColumns(names []string, values [][]float64) (*Dataset, error) {
	if len(names) != len(values) {
		return nil, SchemaError(StageLoad, "", "%d names for %d columns", len(names), len(values))
	}
	rows := 0
	if len(values) > 0 {
		rows = len(values[0])
	}
	ds := New(rows)
	for i, name := range names {
		if ds.Has(name) {
			return nil, SchemaError(StageLoad, name, "duplicate column")
		}
		if err := ds.SetColumn(name, values[i]); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// Rows returns the number of subjects.
func (d *Dataset) Rows() int { return d.rows }

// Names returns the column names in insertion order.
func (d *Dataset) Names() []string { return slices.Clone(d.names) }

// Has reports whether a column exists.
func (d *Dataset) Has(name string) bool {
	_, ok := d.cols[name]
	return ok
}

// KindOf returns the kind of a column.
func (d *Dataset) KindOf(name string) (Kind, bool) {
	c, ok := d.cols[name]
	if !ok {
		return 0, false
	}
	return c.kind, true
}

// Column returns the live backing slice of a numeric column. Writes through
// the slice mutate the dataset.
func (d *Dataset) Column(name string) ([]float64, error) {
	return d.Numeric(StageAnalysis, name)
}

// Numeric is Column with the failing stage attributed to stage.
func (d *Dataset) Numeric(stage Stage, name string) ([]float64, error) {
	c, ok := d.cols[name]
	if !ok {
		return nil, SchemaError(stage, name, "column not found")
	}
	if c.kind != Numeric {
		return nil, SchemaError(stage, name, "column is %s, want numeric", c.kind)
	}
	return c.numbers, nil
}

// Labels returns the live backing slice of a categorical column.
func (d *Dataset) Labels(name string) ([]string, error) {
	c, ok := d.cols[name]
	if !ok {
		return nil, SchemaError(StageAnalysis, name, "column not found")
	}
	if c.kind != Categorical {
		return nil, SchemaError(StageAnalysis, name, "column is %s, want categorical", c.kind)
	}
	return c.labels, nil
}

// SetColumn adds a numeric column or overwrites an existing one in place of the old.
// The values are copied.
func (d *Dataset) SetColumn(name string, values []float64) error {
	if len(values) != d.rows {
		return SchemaError(StageLoad, name, "got %d values for %d rows", len(values), d.rows)
	}
	d.put(name, &column{kind: Numeric, numbers: slices.Clone(values)})
	return nil
}

// SetLabels adds or overwrites a categorical column. The values are copied.
func (d *Dataset) SetLabels(name string, values []string) error {
	if len(values) != d.rows {
		return SchemaError(StageLoad, name, "got %d values for %d rows", len(values), d.rows)
	}
	d.put(name, &column{kind: Categorical, labels: slices.Clone(values)})
	return nil
}

func (d *Dataset) put(name string, c *column) {
	if _, ok := d.cols[name]; !ok {
		d.names = append(d.names, name)
	}
	d.cols[name] = c
}

// Select copies the named numeric columns, in the given order, into a new dataset.
func (d *Dataset) Select(names ...string) (*Dataset, error) {
	return d.selectRows(nil, names)
}

// selectRows copies the named columns restricted to rows; nil means all rows.
func (d *Dataset) selectRows(rows []int, names []string) (*Dataset, error) {
	n := d.rows
	if rows != nil {
		n = len(rows)
	}
	out := New(n)
	for _, name := range names {
		src, err := d.Column(name)
		if err != nil {
			return nil, err
		}
		if out.Has(name) {
			return nil, SchemaError(StageAnalysis, name, "selected twice")
		}
		values := make([]float64, n)
		if rows == nil {
			copy(values, src)
		} else {
			for i, r := range rows {
				values[i] = src[r]
			}
		}
		out.put(name, &column{kind: Numeric, numbers: values})
	}
	return out, nil
}

// Clone deep-copies the dataset.
func (d *Dataset) Clone() *Dataset {
	out := New(d.rows)
	for _, name := range d.names {
		c := d.cols[name]
		out.put(name, &column{kind: c.kind, numbers: slices.Clone(c.numbers), labels: slices.Clone(c.labels)})
	}
	return out
}

// NonMissing returns the present values of x, in order.
func NonMissing(x []float64) []float64 {
	out := make([]float64, 0, len(x))
	for _, v := range x {
		if !IsMissing(v) {
			out = append(out, v)
		}
	}
	return out
}
