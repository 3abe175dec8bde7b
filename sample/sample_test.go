package sample

import (
	"context"
	"errors"
	"math"
	"testing"

	"emfield/electrostatics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrid2D(t *testing.T) {
	g := Grid2D([2]float64{-1, 1}, [2]float64{0, 2}, 3, 2)
	assert.Equal(t, 6, g.Len())
	assert.Equal(t, []float64{-1, 0, 1, -1, 0, 1}, g.Points[0])
	assert.Equal(t, []float64{0, 0, 0, 2, 2, 2}, g.Points[1])

	g3 := g.WithZ(0.5)
	require.Len(t, g3.Points, 3)
	assert.Equal(t, []float64{0.5, 0.5, 0.5, 0.5, 0.5, 0.5}, g3.Points[2])
	assert.Len(t, g.Points, 2)
}

func TestLine(t *testing.T) {
	g := Line([2]float64{0, 0}, [2]float64{3, 4}, 3)
	assert.Equal(t, 3, g.Len())
	assert.InDeltaSlice(t, []float64{0, 2.5, 5}, g.Distance(), 1e-12)
}

// TestGrid3D 测试三维格点的展开顺序
func TestGrid3D(t *testing.T) {
	g := Grid3D([2]float64{0, 1}, [2]float64{0, 2}, [2]float64{-1, 1}, 2, 3, 2)
	assert.Equal(t, 6, g.Rows)
	assert.Equal(t, 2, g.Cols)
	assert.Equal(t, 12, g.Len())
	require.Len(t, g.Points, 3)
	assert.Equal(t, []float64{-1, 1}, g.Zs)
	// (i,j,k) = (1,2,0)
	idx := (1*3+2)*2 + 0
	assert.Equal(t, []float64{1, 2, -1}, []float64{g.Points[0][idx], g.Points[1][idx], g.Points[2][idx]})
	assert.Equal(t, 0.0, g.Points[0][5])
	assert.Equal(t, 1.0, g.Points[0][6])

	d := g.Distance()
	assert.InDelta(t, math.Sqrt(1+4+0), d[idx], 1e-12)
}

// TestRestore 测试由展开坐标还原各轴
func TestRestore(t *testing.T) {
	g := Grid2D([2]float64{-1, 1}, [2]float64{0, 3}, 3, 4)
	back := Restore(g.Rows, g.Cols, g.Points, false)
	assert.Equal(t, g.Xs, back.Xs)
	assert.Equal(t, g.Ys, back.Ys)
	assert.Nil(t, back.Zs)

	l := Grid3D([2]float64{-1, 1}, [2]float64{0, 3}, [2]float64{5, 6}, 3, 4, 2)
	back = Restore(l.Rows, l.Cols, l.Points, true)
	assert.Equal(t, l.Xs, back.Xs)
	assert.Equal(t, l.Ys, back.Ys)
	assert.Equal(t, l.Zs, back.Zs)

	assert.Nil(t, Restore(0, 0, nil, true).Xs)
}

// TestSampleLattice 测试三维格点上的并发采样与串行一致
func TestSampleLattice(t *testing.T) {
	sys := electrostatics.NewSystem3D()
	_, err := sys.AddCharge(electrostatics.NewCharge3D(1, 0.1, 0.2, 0.3))
	require.NoError(t, err)
	_, err = sys.AddCharge(electrostatics.NewCharge3D(-1, -0.4, 0, 0.5))
	require.NoError(t, err)
	g := Grid3D([2]float64{-2, 2}, [2]float64{-2, 2}, [2]float64{-2, 2}, 10, 10, 10)
	require.Equal(t, 1000, g.Len())

	serial, err := sys.EField(g.Points)
	require.NoError(t, err)
	s, err := Sample(context.Background(), g, sys.EField, 7)
	require.NoError(t, err)
	assert.Equal(t, serial, s.Values)
	assert.Equal(t, []float64{serial[0][3*10+4], serial[1][3*10+4], serial[2][3*10+4]}, s.At(3, 4))
}

// TestSampleMatchesSerial 测试并发采样结果与串行计算逐位一致
func TestSampleMatchesSerial(t *testing.T) {
	sys := electrostatics.NewSystem2D()
	for i, q := range []float64{1, -2, 0.5} {
		_, err := sys.AddCharge(electrostatics.NewCharge2D(q, float64(i)-1, 0.3*float64(i)))
		require.NoError(t, err)
	}
	g := Grid2D([2]float64{-2, 2}, [2]float64{-2, 2}, 17, 13)

	serial, err := sys.EField(g.Points)
	require.NoError(t, err)
	for _, workers := range []int{0, 1, 3, 4, 64} {
		s, err := Sample(context.Background(), g, sys.EField, workers)
		require.NoError(t, err)
		assert.Equal(t, serial, s.Values, "workers=%d", workers)
	}

	v, err := Sample(context.Background(), g, Scalar(sys.Potential), 5)
	require.NoError(t, err)
	require.Len(t, v.Values, 1)
	pot, err := sys.Potential(g.Points)
	require.NoError(t, err)
	assert.Equal(t, pot, v.Values[0])
	assert.Equal(t, []float64{pot[2*17+5]}, v.At(2, 5))
}

func TestSampleErrors(t *testing.T) {
	g := Grid2D([2]float64{0, 1}, [2]float64{0, 1}, 4, 4)
	boom := errors.New("boom")
	_, err := Sample(context.Background(), g, func([][]float64) ([][]float64, error) { return nil, boom }, 2)
	assert.ErrorIs(t, err, boom)

	_, err = Sample(context.Background(), g, func(p [][]float64) ([][]float64, error) {
		return [][]float64{{1}}, nil
	}, 2)
	assert.ErrorIs(t, err, ErrShape)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Sample(ctx, g, func(p [][]float64) ([][]float64, error) { return p, nil }, 2)
	assert.ErrorIs(t, err, context.Canceled)
}
