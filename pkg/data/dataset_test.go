package data

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromColumns(t *testing.T) {
	ds, err := FromColumns([]string{"a", "b"}, [][]float64{{1, 2, 3}, {4, Missing, 6}})
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Rows())
	assert.Equal(t, []string{"a", "b"}, ds.Names())

	b, err := ds.Column("b")
	require.NoError(t, err)
	assert.Equal(t, 4.0, b[0])
	assert.True(t, IsMissing(b[1]))
}

func TestFromColumnsRejectsBadShapes(t *testing.T) {
	_, err := FromColumns([]string{"a"}, [][]float64{{1}, {2}})
	assert.ErrorIs(t, err, ErrSchema)

	_, err = FromColumns([]string{"a", "b"}, [][]float64{{1, 2}, {3}})
	assert.ErrorIs(t, err, ErrSchema)

	_, err = FromColumns([]string{"a", "a"}, [][]float64{{1}, {2}})
	assert.ErrorIs(t, err, ErrSchema)
}

func TestColumnIsLive(t *testing.T) {
	ds, err := FromColumns([]string{"x"}, [][]float64{{1, 2}})
	require.NoError(t, err)

	col, err := ds.Column("x")
	require.NoError(t, err)
	col[0] = 10

	again, err := ds.Column("x")
	require.NoError(t, err)
	assert.Equal(t, 10.0, again[0])
}

func TestSetColumnCopiesAndKeepsOrder(t *testing.T) {
	ds := New(2)
	src := []float64{1, 2}
	require.NoError(t, ds.SetColumn("x", src))
	require.NoError(t, ds.SetColumn("y", []float64{3, 4}))
	require.NoError(t, ds.SetColumn("x", []float64{5, 6}))
	src[0] = 99

	x, err := ds.Column("x")
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 6}, x)
	assert.Equal(t, []string{"x", "y"}, ds.Names())

	assert.ErrorIs(t, ds.SetColumn("z", []float64{1}), ErrSchema)
}

func TestColumnErrors(t *testing.T) {
	ds := New(1)
	require.NoError(t, ds.SetLabels("group", []string{"HI"}))

	_, err := ds.Column("nope")
	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, ErrSchema, e.Kind)
	assert.Equal(t, "nope", e.Column)

	_, err = ds.Numeric(StageTransform, "group")
	require.True(t, errors.As(err, &e))
	assert.Equal(t, StageTransform, e.Stage)
	assert.Contains(t, err.Error(), "categorical")

	labels, err := ds.Labels("group")
	require.NoError(t, err)
	assert.Equal(t, []string{"HI"}, labels)
}

func TestSelect(t *testing.T) {
	ds, err := FromColumns([]string{"a", "b", "c"}, [][]float64{{1, 2}, {3, 4}, {5, 6}})
	require.NoError(t, err)

	sub, err := ds.Select("c", "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, sub.Names())
	assert.Equal(t, 2, sub.Rows())

	// Copies, not aliases.
	c, _ := sub.Column("c")
	c[0] = 100
	orig, _ := ds.Column("c")
	assert.Equal(t, 5.0, orig[0])

	_, err = ds.Select("a", "missing")
	assert.ErrorIs(t, err, ErrSchema)
	_, err = ds.Select("a", "a")
	assert.ErrorIs(t, err, ErrSchema)
}

func TestClone(t *testing.T) {
	ds, err := FromColumns([]string{"a"}, [][]float64{{1, 2}})
	require.NoError(t, err)
	require.NoError(t, ds.SetLabels("g", []string{"x", "y"}))

	cp := ds.Clone()
	a, _ := cp.Column("a")
	a[0] = 42
	orig, _ := ds.Column("a")
	assert.Equal(t, 1.0, orig[0])
	assert.Equal(t, ds.Names(), cp.Names())
}

func TestNonMissing(t *testing.T) {
	assert.Equal(t, []float64{1, 3}, NonMissing([]float64{1, Missing, 3}))
	assert.Empty(t, NonMissing([]float64{Missing}))
}

func TestErrorMessage(t *testing.T) {
	err := DataError(StageTransform, "FS_MLU", "%d present values", 2)
	assert.Equal(t, `transform: column "FS_MLU": data error: 2 present values`, err.Error())
	assert.ErrorIs(t, err, ErrData)
	assert.NotErrorIs(t, err, ErrSchema)

	err = PartitionError("HI", "gone")
	assert.Equal(t, StagePartition, err.Stage)
	assert.ErrorIs(t, err, ErrPartition)

	assert.Equal(t, "load: schema error: empty", SchemaError(StageLoad, "", "empty").Error())
}
