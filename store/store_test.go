package store

import (
	"math"
	"path/filepath"
	"testing"

	"emfield/sample"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTest(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// TestRoundTrip 测试保存后读取结果一致
func TestRoundTrip(t *testing.T) {
	db := openTest(t)
	g := sample.Grid2D([2]float64{-1, 1}, [2]float64{0, 1}, 3, 2)
	s := sample.Samples{Grid: g, Values: [][]float64{
		{1, 2, 3, 4, 5, 6},
		{-1, math.NaN(), math.Inf(1), 0, 0.5, 1e-9},
	}}

	id, err := db.SaveRun(Run{Kind: "efield", Scene: "Q1 1 0 0"}, s)
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	require.NoError(t, err)

	run, err := db.Run(id)
	require.NoError(t, err)
	assert.Equal(t, "efield", run.Kind)
	assert.Equal(t, 2, run.Components)
	assert.Equal(t, 3, run.Cols)
	assert.Positive(t, run.CreatedAt)

	got, err := db.Samples(id)
	require.NoError(t, err)
	assert.Equal(t, g.Xs, got.Xs)
	assert.Equal(t, g.Ys, got.Ys)
	assert.Equal(t, g.Points, got.Points)
	assert.Equal(t, s.Values[0], got.Values[0])
	assert.True(t, math.IsNaN(got.Values[1][1]))
	assert.True(t, math.IsInf(got.Values[1][2], 1))
	assert.Equal(t, 1e-9, got.Values[1][5])
}

// TestLatticeRoundTrip 测试三维格点的 z 坐标随采样保存
func TestLatticeRoundTrip(t *testing.T) {
	db := openTest(t)
	g := sample.Grid3D([2]float64{-1, 1}, [2]float64{-1, 1}, [2]float64{0, 3}, 2, 3, 4)
	values := make([]float64, g.Len())
	for k := range values {
		values[k] = g.Points[2][k] * 2
	}
	id, err := db.SaveRun(Run{Kind: "lattice"}, sample.Samples{Grid: g, Values: [][]float64{values}})
	require.NoError(t, err)

	got, err := db.Samples(id)
	require.NoError(t, err)
	assert.Equal(t, g.Points, got.Points)
	assert.Equal(t, g.Xs, got.Xs)
	assert.Equal(t, g.Ys, got.Ys)
	assert.Equal(t, g.Zs, got.Zs)
	assert.Equal(t, values, got.Values[0])
}

func TestRuns(t *testing.T) {
	db := openTest(t)
	g := sample.Line([2]float64{0, 0}, [2]float64{1, 0}, 4)
	s := sample.Samples{Grid: g, Values: [][]float64{{1, 2, 3, 4}}}

	a, err := db.SaveRun(Run{Kind: "potential", CreatedAt: 1}, s)
	require.NoError(t, err)
	b, err := db.SaveRun(Run{Kind: "profile", CreatedAt: 2}, s)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	runs, err := db.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, a, runs[0].ID)
	assert.Equal(t, "profile", runs[1].Kind)

	_, err = db.Samples("missing")
	assert.ErrorIs(t, err, ErrNoRun)
}
