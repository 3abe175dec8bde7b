package electrostatics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestChargeCoulomb 测试库仑电场与电势的解析值
func TestChargeCoulomb(t *testing.T) {
	c := NewCharge2D(2, 0, 0)
	e, err := c.FieldAt(3, 4)
	require.NoError(t, err)
	assert.InDelta(t, 2*3/125.0, e[0], 1e-15)
	assert.InDelta(t, 2*4/125.0, e[1], 1e-15)

	v, err := c.PotentialAt(3, 4)
	require.NoError(t, err)
	assert.InDelta(t, 0.4, v, 1e-15)

	c3 := NewCharge3D(-1, 1, 1, 1)
	e, err = c3.FieldAt(1, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 0.0, e[0])
	assert.Equal(t, 0.0, e[1])
	assert.InDelta(t, -2/8.0, e[2], 1e-15)
}

// TestChargeClamp 测试距离下限截断
func TestChargeClamp(t *testing.T) {
	c := NewCharge2D(1, 0.5, 0.5)
	v, err := c.PotentialAt(0.5, 0.5)
	require.NoError(t, err)
	assert.InDelta(t, 1/SeparationTolerance, v, 1e-9)

	e, err := c.FieldAt(0.5, 0.5)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, e)

	// 截断半径内的场有界
	e, err = c.FieldAt(0.501, 0.5)
	require.NoError(t, err)
	assert.InDelta(t, 0.001/(SeparationTolerance*SeparationTolerance*SeparationTolerance), e[0], 1e-6)
}

// TestChargePure 测试重复计算结果一致且不修改输入
func TestChargePure(t *testing.T) {
	c := NewCharge3D(1.5, 0.1, -0.2, 0.3)
	points := [][]float64{{0, 1, 2}, {0, -1, 5}, {1, 1, 1}}
	orig := [][]float64{{0, 1, 2}, {0, -1, 5}, {1, 1, 1}}

	e1, err := c.Field(points)
	require.NoError(t, err)
	e2, err := c.Field(points)
	require.NoError(t, err)
	assert.Equal(t, e1, e2)

	v1, _ := c.Potential(points)
	v2, _ := c.Potential(points)
	assert.Equal(t, v1, v2)
	assert.Equal(t, orig, points)
	assert.Len(t, e1, 3)
	assert.Len(t, e1[0], 3)
}

func TestChargeDimension(t *testing.T) {
	_, err := NewCharge(1, 1)
	assert.ErrorIs(t, err, ErrDimension)

	c := NewCharge2D(1, 0, 0)
	_, err = c.Field([][]float64{{1}, {1}, {1}})
	assert.ErrorIs(t, err, ErrDimension)
	_, err = c.Potential([][]float64{{1, 2}, {1}})
	assert.ErrorIs(t, err, ErrDimension)
	_, err = c.Field(nil)
	assert.ErrorIs(t, err, ErrDimension)

	// 零值电荷没有维度，查询返回错误而不是越界
	_, err = Charge{}.Potential(nil)
	assert.ErrorIs(t, err, ErrDimension)
	_, err = Charge{}.Field([][]float64{})
	assert.ErrorIs(t, err, ErrDimension)
}

// TestChargeImmutable 测试位置访问器返回副本
func TestChargeImmutable(t *testing.T) {
	pos := []float64{1, 2, 3}
	c, err := NewCharge(1, pos...)
	require.NoError(t, err)
	pos[0] = 100
	got := c.Pos()
	got[1] = 100
	assert.Equal(t, []float64{1, 2, 3}, c.Pos())
	assert.Equal(t, 3, c.Dim())
	assert.Equal(t, 1.0, c.Q())
}
