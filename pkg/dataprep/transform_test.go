package dataprep

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/SammyJoBron/Narrative-Abilities-of-Hearing-Impaired-Children/pkg/data"
	"github.com/SammyJoBron/Narrative-Abilities-of-Hearing-Impaired-Children/pkg/stats"
)

func single(t *testing.T, name string, values ...float64) *data.Dataset {
	t.Helper()
	ds, err := data.FromColumns([]string{name}, [][]float64{values})
	require.NoError(t, err)
	return ds
}

func TestTransformApply(t *testing.T) {
	assert.Equal(t, 8.0, Identity.Apply(8))
	assert.InDelta(t, math.Log(8), Log.Apply(8), 1e-12)
	assert.InDelta(t, math.Sqrt(8), Sqrt.Apply(8), 1e-12)
	assert.InDelta(t, 2.0, CubeRoot.Apply(8), 1e-12)
	assert.True(t, data.IsMissing(Log.Apply(nan)))

	assert.Equal(t, "cube root", CubeRoot.String())
	assert.Equal(t, []Transform{Identity, Log, Sqrt, CubeRoot}, Candidates[:])
}

func TestSelectAndApplyPicksLogForGeometricData(t *testing.T) {
	ds := single(t, "FS_NDW", 1, 10, 100, 1000, 10000)

	dec, err := SelectAndApply(ds, "FS_NDW")
	require.NoError(t, err)
	assert.Equal(t, Log, dec.Chosen)
	assert.Less(t, dec.Skew(), 1e-6)
	assert.Greater(t, dec.Original(), dec.Skew())
	for _, s := range dec.Scores {
		assert.GreaterOrEqual(t, s, dec.Skew()-TieTolerance)
	}

	got, _ := ds.Column("FS_NDW")
	assert.InDelta(t, math.Log(10000), got[4], 1e-12)
}

func TestSelectAndApplyTieKeepsEarlierCandidate(t *testing.T) {
	// A two-valued variable has the same |skew| under every monotone transform.
	ds := single(t, "x", 1, 1, 1, 1, 2)

	dec, err := SelectAndApply(ds, "x")
	require.NoError(t, err)
	assert.Equal(t, Identity, dec.Chosen)
	for _, s := range dec.Scores {
		assert.InDelta(t, dec.Scores[0], s, 1e-9)
	}
	got, _ := ds.Column("x")
	assert.Equal(t, []float64{1, 1, 1, 1, 2}, got)
}

func TestSelectAndApplyPositivityGuard(t *testing.T) {
	ds := single(t, "AgeAtImplant", -2, 0, nan, 3, 7, 40)

	dec, err := SelectAndApply(ds, "AgeAtImplant")
	require.NoError(t, err)
	assert.True(t, dec.Shifted)
	assert.Equal(t, 3.0, dec.Shift)

	got, _ := ds.Column("AgeAtImplant")
	assert.True(t, data.IsMissing(got[2]), "missing stays missing")
	lo, _, ok := stats.MinMax(got)
	require.True(t, ok)
	// The guarded minimum is exactly 1 before the chosen transform.
	assert.InDelta(t, dec.Chosen.Apply(1), lo, 1e-12)
}

func TestSelectAndApplyNoShiftAboveOne(t *testing.T) {
	ds := single(t, "PPVT", 2, 3, 4, 10)

	dec, err := SelectAndApply(ds, "PPVT")
	require.NoError(t, err)
	assert.False(t, dec.Shifted)
	assert.Zero(t, dec.Shift)
}

func TestSelectAndApplyMinimumOfOneIsGuardedWithoutMoving(t *testing.T) {
	ds := single(t, "x", 1, 2, 3, 9)

	dec, err := SelectAndApply(ds, "x")
	require.NoError(t, err)
	assert.True(t, dec.Shifted)
	assert.Zero(t, dec.Shift)
}

func TestSelectAndApplyDeterministic(t *testing.T) {
	values := []float64{0.5, 1.2, 3.3, 2.1, 8.9, 15, 0.7, nan, 4.4}
	a := single(t, "x", values...)
	b := single(t, "x", values...)

	da, err := SelectAndApply(a, "x")
	require.NoError(t, err)
	db, err := SelectAndApply(b, "x")
	require.NoError(t, err)
	assert.Equal(t, da, db)

	ca, _ := a.Column("x")
	cb, _ := b.Column("x")
	for i := range ca {
		if data.IsMissing(ca[i]) {
			assert.True(t, data.IsMissing(cb[i]))
			continue
		}
		assert.Equal(t, ca[i], cb[i])
	}
}

func TestSelectAndApplyErrors(t *testing.T) {
	cases := []struct {
		name   string
		values []float64
	}{
		{"too few present values", []float64{3, nan, 4, nan}},
		{"no spread", []float64{5, 5, 5, 5}},
		{"infinite value", []float64{2, 3, math.Inf(1), 4}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ds := single(t, "x", tc.values...)
			_, err := SelectAndApply(ds, "x")
			require.ErrorIs(t, err, data.ErrData)

			var e *data.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, data.StageTransform, e.Stage)
			assert.Equal(t, "x", e.Column)
		})
	}

	_, err := SelectAndApply(single(t, "x", 1, 2, 3), "absent")
	assert.ErrorIs(t, err, data.ErrSchema)
}

func TestDecisionString(t *testing.T) {
	dec := Decision{Column: "PTA", Chosen: Sqrt}
	dec.Scores[Identity] = 1.5
	dec.Scores[Sqrt] = 0.25
	assert.Equal(t, "For PTA the skew was 1.5 and with sqrt 0.25", dec.String())
}

func TestTransformAllLogsDecisions(t *testing.T) {
	ds, err := data.FromColumns(
		[]string{"a", "b"},
		[][]float64{
			{1, 10, 100, 1000, 10000},
			{1, 1, 1, 1, 2},
		},
	)
	require.NoError(t, err)

	core, logs := observer.New(zapcore.InfoLevel)
	decisions, err := TransformAll(ds, []string{"a", "b"}, zap.New(core))
	require.NoError(t, err)
	require.Len(t, decisions, 2)
	assert.Equal(t, "a", decisions[0].Column)
	assert.Equal(t, "b", decisions[1].Column)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, decisions[0].String(), entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, "a", fields["variable"])
	assert.Equal(t, "log", fields["transform"])
	assert.Equal(t, "identity", entries[1].ContextMap()["transform"])
}

func TestTransformAllStopsAtFirstError(t *testing.T) {
	ds, err := data.FromColumns(
		[]string{"bad", "good"},
		[][]float64{{1, nan, nan}, {1, 2, 9}},
	)
	require.NoError(t, err)

	_, err = TransformAll(ds, []string{"bad", "good"}, nil)
	require.ErrorIs(t, err, data.ErrData)

	good, _ := ds.Column("good")
	assert.Equal(t, []float64{1, 2, 9}, good)
}
