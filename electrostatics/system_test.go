package electrostatics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustAdd(t *testing.T, s *System, c Charge) SourceID {
	t.Helper()
	id, err := s.AddCharge(c)
	require.NoError(t, err)
	return id
}

// TestSystemSymmetry 两个等量同号电荷中点处 x 分量为零
func TestSystemSymmetry(t *testing.T) {
	s := NewSystem2D()
	mustAdd(t, s, NewCharge2D(1, -0.3, 0))
	mustAdd(t, s, NewCharge2D(1, 0.3, 0))

	e, err := s.EField([][]float64{{0}, {0}})
	require.NoError(t, err)
	assert.InDelta(t, 0, e[0][0], 1e-12)
	assert.InDelta(t, 0, e[1][0], 1e-12)
}

// TestSystemDipolePotential 偶极子在原点处电势为零
func TestSystemDipolePotential(t *testing.T) {
	s := NewSystem3D()
	mustAdd(t, s, NewCharge3D(1, 2, 0, 0))
	mustAdd(t, s, NewCharge3D(-1, -2, 0, 0))

	v, err := s.Potential([][]float64{{0, 0}, {0, 3}, {0, -1}})
	require.NoError(t, err)
	assert.InDelta(t, 0, v[0], 1e-15)
	// 中垂面上电势同样为零
	assert.InDelta(t, 0, v[1], 1e-15)
}

// TestSystemSuperposition 集合的场等于各子集场之和
func TestSystemSuperposition(t *testing.T) {
	a := []Charge{NewCharge2D(1, 0, 0), NewCharge2D(-2, 1, 1)}
	b := []Charge{NewCharge2D(0.5, -1, 2), NewCharge2D(3, 2, -1), NewCharge2D(-1, 0.25, 0.75)}
	points := [][]float64{{0.1, 0.5, -3, 4, 2}, {0.2, -0.5, 1, 4, -1}}

	all, sa, sb := NewSystem2D(), NewSystem2D(), NewSystem2D()
	for _, c := range a {
		mustAdd(t, all, c)
		mustAdd(t, sa, c)
	}
	for _, c := range b {
		mustAdd(t, all, c)
		mustAdd(t, sb, c)
	}

	eAll, err := all.EField(points)
	require.NoError(t, err)
	eA, _ := sa.EField(points)
	eB, _ := sb.EField(points)
	vAll, _ := all.Potential(points)
	vA, _ := sa.Potential(points)
	vB, _ := sb.Potential(points)
	for k := range points[0] {
		for axis := 0; axis < 2; axis++ {
			assert.InDelta(t, eA[axis][k]+eB[axis][k], eAll[axis][k], 1e-9)
		}
		assert.InDelta(t, vA[k]+vB[k], vAll[k], 1e-9)
	}
}

func TestSystemEmpty(t *testing.T) {
	s := NewSystem3D()
	e, err := s.EField([][]float64{{1, 2}, {3, 4}, {5, 6}})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0, 0}, {0, 0}, {0, 0}}, e)
	_, err = s.Potential([][]float64{{1}, {2}})
	assert.ErrorIs(t, err, ErrDimension)
	_, err = s.AddCharge(NewCharge2D(1, 0, 0))
	assert.ErrorIs(t, err, ErrDimension)
	_, err = s.EField(nil)
	assert.ErrorIs(t, err, ErrDimension)
	_, err = s.Potential([][]float64{})
	assert.ErrorIs(t, err, ErrDimension)
}

// TestArenaDimension 测试存储区只接受二维或三维
func TestArenaDimension(t *testing.T) {
	for _, dim := range []int{-1, 0, 1, 4} {
		assert.Panics(t, func() { NewArena(dim) }, "dim %d", dim)
	}
	assert.Equal(t, 2, NewArena(2).Dim())
	assert.Equal(t, 3, NewArena(3).Dim())
}

// TestCollectFlatten 测试展开保持顺序以及重复源的处理
func TestCollectFlatten(t *testing.T) {
	arena := NewArena(3)
	inner := NewSystem(arena)
	a := mustAdd(t, inner, NewCharge3D(1, 0, 0, 0))
	b := mustAdd(t, inner, NewCharge3D(1, 1, 0, 0))
	c, err := arena.Add(NewCharge3D(-1, 0, 1, 0))
	require.NoError(t, err)

	s, skipped, err := Collect(arena, true, inner, SourceList{c, a}, b, Group{c, Group{SourceID(c)}})
	require.NoError(t, err)
	assert.Equal(t, []SourceID{a, b, c}, s.IDs())
	assert.Equal(t, []SourceID{a, b, c, c}, skipped)

	s, skipped, err = Collect(arena, false, inner, SourceList{c, a}, b)
	require.NoError(t, err)
	assert.Equal(t, []SourceID{a, b, c, a, b}, s.IDs())
	assert.Empty(t, skipped)
	assert.Len(t, s.Charges(), 5)
}

// TestCollectEqualValues 数值相同的不同源不算重复
func TestCollectEqualValues(t *testing.T) {
	arena := NewArena(3)
	a, _ := arena.Add(NewCharge3D(1, 0, 0, 0))
	b, _ := arena.Add(NewCharge3D(1, 0, 0, 0))

	s, skipped, err := Collect(arena, true, a, b)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
	assert.Empty(t, skipped)
}

func TestCollectErrors(t *testing.T) {
	arena := NewArena(2)
	other := NewSystem2D()
	mustAdd(t, other, NewCharge2D(1, 0, 0))

	_, _, err := Collect(arena, true, other)
	assert.ErrorIs(t, err, ErrArenaMismatch)

	_, _, err = Collect(arena, true, SourceID(7))
	assert.ErrorIs(t, err, ErrUnknownSource)
}

// TestInsertResult 测试插入结果类型
func TestInsertResult(t *testing.T) {
	s := NewSystem2D()
	id := mustAdd(t, s, NewCharge2D(1, 0, 0))

	res, err := s.Insert(id, true)
	require.NoError(t, err)
	assert.Equal(t, SkippedDuplicate, res)
	assert.Equal(t, 1, s.Len())

	res, err = s.Insert(id, false)
	require.NoError(t, err)
	assert.Equal(t, Inserted, res)
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains(id))
	assert.Equal(t, "skipped-duplicate", SkippedDuplicate.String())

	// 重复插入的源按次数叠加
	v, _ := s.Potential([][]float64{{1}, {0}})
	assert.InDelta(t, 2.0, v[0], 1e-15)
}

// TestChargesReadOnly 修改返回的切片不影响集合
func TestChargesReadOnly(t *testing.T) {
	s := NewSystem2D()
	mustAdd(t, s, NewCharge2D(1, 0, 0))
	cs := s.Charges()
	cs[0] = NewCharge2D(5, 5, 5)
	ids := s.IDs()
	ids[0] = 42
	assert.Equal(t, 1.0, s.Charges()[0].Q())
	assert.Equal(t, []SourceID{0}, s.IDs())
}
