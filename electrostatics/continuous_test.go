package electrostatics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func totalCharge(s *System) float64 {
	var q float64
	for _, c := range s.Charges() {
		q += c.Q()
	}
	return q
}

// TestLineCharge 测试线电荷采样数量、电荷量与顺序
func TestLineCharge(t *testing.T) {
	s := NewSystem2D()
	curve := func(t float64) []float64 { return []float64{t, 2 * t} }
	ids, err := s.LineCharge(curve, 3, 4, 6)
	require.NoError(t, err)
	require.Len(t, ids, 12)
	assert.Equal(t, s.IDs(), ids)

	cs := s.Charges()
	for k, c := range cs {
		assert.Equal(t, 1.5, c.Q())
		assert.InDeltaSlice(t, []float64{float64(k) / 4, float64(k) / 2}, c.Pos(), 1e-15)
	}
	// 总电荷为线密度乘长度：q/density × length·density
	assert.InDelta(t, 18.0, totalCharge(s), 1e-12)

	_, err = s.LineCharge(curve, 1, 0, 1)
	assert.ErrorIs(t, err, ErrDensity)
}

// TestPlate 测试面电荷网格与总电荷
func TestPlate(t *testing.T) {
	s := NewSystem2D()
	ids, err := s.Plate([2]float64{2, 1}, [2]float64{-1, 3}, 2, 8)
	require.NoError(t, err)
	require.Len(t, ids, 8)

	cs := s.Charges()
	for _, c := range cs {
		assert.Equal(t, 1.0, c.Q())
	}
	// i 外层、j 内层
	assert.Equal(t, []float64{-1, 3}, cs[0].Pos())
	assert.Equal(t, []float64{-1, 3.5}, cs[1].Pos())
	assert.Equal(t, []float64{-0.5, 3}, cs[2].Pos())
	assert.InDelta(t, 8.0, totalCharge(s), 1e-12)

	_, err = s.Plate([2]float64{0, 1}, [2]float64{}, 1, 1)
	assert.ErrorIs(t, err, ErrExtent)
}

// TestStraightWire 每个采样点带完整线电荷密度 λ
func TestStraightWire(t *testing.T) {
	s := NewSystem2D()
	ids, err := s.StraightWire([2]float64{0, 0}, [2]float64{3, 4}, 2, 10)
	require.NoError(t, err)
	require.Len(t, ids, 6)

	lambda := 10 / 5.0
	for i, c := range s.Charges() {
		assert.Equal(t, lambda, c.Q())
		x := float64(i) / 2
		assert.InDeltaSlice(t, []float64{x, 4.0 / 3 * x}, c.Pos(), 1e-12)
	}
	// 总电荷随采样分辨率变化
	assert.InDelta(t, 6*lambda, totalCharge(s), 1e-12)

	_, err = s.StraightWire([2]float64{1, 0}, [2]float64{1, 5}, 2, 1)
	assert.ErrorIs(t, err, ErrVerticalWire)

	// 终点在起点左侧时不生成点
	ids, err = s.StraightWire([2]float64{3, 0}, [2]float64{0, 0}, 2, 1)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

// TestStraightWireOffsetStart 起点不在原点时保留截距语义
func TestStraightWireOffsetStart(t *testing.T) {
	s := NewSystem2D()
	_, err := s.StraightWire([2]float64{1, 1}, [2]float64{2, 2}, 1, 1)
	require.NoError(t, err)
	cs := s.Charges()
	require.Len(t, cs, 1)
	// y = gradient·(i/res) + intercept = 0
	assert.Equal(t, []float64{1, 0}, cs[0].Pos())
}

// TestCircularWire 测试圆环采样点位于圆周上
func TestCircularWire(t *testing.T) {
	s := NewSystem2D()
	ids, err := s.CircularWire([2]float64{1, -1}, 2, 10, 5)
	require.NoError(t, err)
	n := 2 * math.Pi * 10
	require.Len(t, ids, int(n))

	cs := s.Charges()
	assert.InDeltaSlice(t, []float64{-1, -1}, cs[0].Pos(), 1e-15)
	for _, c := range cs {
		p := c.Pos()
		assert.InDelta(t, 2, math.Hypot(p[0]-1, p[1]+1), 1e-12)
		assert.Equal(t, 0.5, c.Q())
	}

	// 圆心处电场近似抵消，残差小于单个采样点的贡献 q/density/R²
	e, err := s.EField([][]float64{{1}, {-1}})
	require.NoError(t, err)
	assert.Less(t, math.Hypot(e[0][0], e[1][0]), 0.5/4)
}

// TestBuilders3D 三维集合中平面分布位于 z=0
func TestBuilders3D(t *testing.T) {
	s := NewSystem3D()
	_, err := s.Plate([2]float64{1, 1}, [2]float64{0, 0}, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0}, s.Charges()[0].Pos())

	helix := func(t float64) []float64 { return []float64{math.Cos(t), math.Sin(t), t} }
	ids, err := s.LineCharge(helix, 1, 2, 1)
	require.NoError(t, err)
	assert.Len(t, ids, 2)

	bad := func(t float64) []float64 { return []float64{t, t} }
	_, err = s.LineCharge(bad, 1, 1, 1)
	assert.ErrorIs(t, err, ErrDimension)
}
