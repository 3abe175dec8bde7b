package electrostatics

import (
	"errors"
	"fmt"
	"math"
)

// SeparationTolerance 分离距离下限，小于该值的距离按该值计算
const SeparationTolerance = 0.005

var (
	// ErrDimension 坐标维度不匹配
	ErrDimension = errors.New("electrostatics: dimension mismatch")
	// ErrUnknownSource 源索引不存在
	ErrUnknownSource = errors.New("electrostatics: unknown source")
	// ErrArenaMismatch 源来自其它 Arena
	ErrArenaMismatch = errors.New("electrostatics: source belongs to another arena")
)

// Charge 点电荷，构造后不可修改
type Charge struct {
	q   float64
	pos []float64
}

// NewCharge 创建点电荷，pos 为二维或三维坐标
func NewCharge(q float64, pos ...float64) (Charge, error) {
	if len(pos) != 2 && len(pos) != 3 {
		return Charge{}, fmt.Errorf("%w: charge position needs 2 or 3 coordinates, got %d", ErrDimension, len(pos))
	}
	return Charge{q: q, pos: append([]float64(nil), pos...)}, nil
}

// NewCharge2D 创建二维点电荷
func NewCharge2D(q, x, y float64) Charge {
	return Charge{q: q, pos: []float64{x, y}}
}

// NewCharge3D 创建三维点电荷
func NewCharge3D(q, x, y, z float64) Charge {
	return Charge{q: q, pos: []float64{x, y, z}}
}

// Q 电荷量
func (c Charge) Q() float64 { return c.q }

// Dim 坐标维度
func (c Charge) Dim() int { return len(c.pos) }

// Pos 源位置（副本）
func (c Charge) Pos() []float64 { return append([]float64(nil), c.pos...) }

// String 返回点电荷的字符串表示
func (c Charge) String() string { return fmt.Sprintf("Charge(q=%g, pos=%v)", c.q, c.pos) }

// checkPoints 检查查询点数组：每个坐标轴一个数组且长度一致
func checkPoints(points [][]float64, dim int) (int, error) {
	if len(points) == 0 {
		return 0, fmt.Errorf("%w: no coordinate arrays", ErrDimension)
	}
	if len(points) != dim {
		return 0, fmt.Errorf("%w: expected %d coordinate arrays, got %d", ErrDimension, dim, len(points))
	}
	n := len(points[0])
	for axis, p := range points {
		if len(p) != n {
			return 0, fmt.Errorf("%w: axis %d has %d values, axis 0 has %d", ErrDimension, axis, len(p), n)
		}
	}
	return n, nil
}

// separation 第 k 个查询点到源的距离，已做下限截断
func (c Charge) separation(points [][]float64, k int) float64 {
	var r2 float64
	for axis, p := range c.pos {
		d := points[axis][k] - p
		r2 += d * d
	}
	r := math.Sqrt(r2)
	if r < SeparationTolerance {
		r = SeparationTolerance
	}
	return r
}

// addField 将电场分量累加到 dst（每个坐标轴一个数组）
func (c Charge) addField(dst, points [][]float64) {
	for k := range points[0] {
		r := c.separation(points, k)
		cube := math.Pow(r, 3)
		for axis, p := range c.pos {
			dst[axis][k] += c.q * (points[axis][k] - p) / cube
		}
	}
}

// addPotential 将电势累加到 dst
func (c Charge) addPotential(dst []float64, points [][]float64) {
	for k := range points[0] {
		dst[k] += c.q / c.separation(points, k)
	}
}

// Field 计算查询点处的电场 E = q·Δ/r³
// points[axis][k] 为第 k 个查询点的坐标，返回值形状与 points 相同
func (c Charge) Field(points [][]float64) ([][]float64, error) {
	n, err := checkPoints(points, c.Dim())
	if err != nil {
		return nil, err
	}
	field := newComponents(c.Dim(), n)
	c.addField(field, points)
	return field, nil
}

// Potential 计算查询点处的电势 V = q/r
func (c Charge) Potential(points [][]float64) ([]float64, error) {
	n, err := checkPoints(points, c.Dim())
	if err != nil {
		return nil, err
	}
	v := make([]float64, n)
	c.addPotential(v, points)
	return v, nil
}

// FieldAt 单点电场
func (c Charge) FieldAt(pos ...float64) ([]float64, error) {
	field, err := c.Field(column(pos))
	if err != nil {
		return nil, err
	}
	return row(field), nil
}

// PotentialAt 单点电势
func (c Charge) PotentialAt(pos ...float64) (float64, error) {
	v, err := c.Potential(column(pos))
	if err != nil {
		return 0, err
	}
	return v[0], nil
}

func newComponents(dim, n int) [][]float64 {
	out := make([][]float64, dim)
	for i := range out {
		out[i] = make([]float64, n)
	}
	return out
}

// column 单点坐标转为查询数组
func column(pos []float64) [][]float64 {
	points := make([][]float64, len(pos))
	for i, p := range pos {
		points[i] = []float64{p}
	}
	return points
}

func row(field [][]float64) []float64 {
	out := make([]float64, len(field))
	for i, f := range field {
		out[i] = f[0]
	}
	return out
}
