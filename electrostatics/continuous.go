package electrostatics

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrDensity 采样密度必须为正
	ErrDensity = errors.New("electrostatics: sampling density must be positive")
	// ErrExtent 分布尺寸必须为正
	ErrExtent = errors.New("electrostatics: distribution extent must be positive")
	// ErrVerticalWire 直导线起止点 x 坐标相同，斜率不存在
	ErrVerticalWire = errors.New("electrostatics: straight wire with equal x endpoints")
)

// Curve 参数曲线，返回参数 t 处的坐标
type Curve func(t float64) []float64

// point 平面坐标补齐到集合维度（三维时 z=0）
func (s *System) point(x, y float64) []float64 {
	pos := make([]float64, s.Dim())
	pos[0], pos[1] = x, y
	return pos
}

func (s *System) addAll(q float64, pos []float64, ids []SourceID) ([]SourceID, error) {
	c, err := NewCharge(q, pos...)
	if err != nil {
		return ids, err
	}
	id, err := s.AddCharge(c)
	if err != nil {
		return ids, err
	}
	return append(ids, id), nil
}

// LineCharge 连续线电荷分布
// 在 t∈[0,length) 上每单位长度采样 density 个点，每个点电荷量 q/density
func (s *System) LineCharge(curve Curve, length, density, q float64) (ids []SourceID, err error) {
	if density <= 0 {
		return nil, ErrDensity
	}
	n := int(length * density)
	for k := 0; k < n; k++ {
		if ids, err = s.addAll(q/density, curve(float64(k)/density), ids); err != nil {
			return ids, err
		}
	}
	return ids, nil
}

// Plate 矩形面电荷分布
// dim 为宽高，vertex 为起始顶点，每个格点电荷量 σ = q/(w·h·density²)
func (s *System) Plate(dim, vertex [2]float64, density, q float64) (ids []SourceID, err error) {
	if density <= 0 {
		return nil, ErrDensity
	}
	if dim[0] <= 0 || dim[1] <= 0 {
		return nil, fmt.Errorf("%w: plate %gx%g", ErrExtent, dim[0], dim[1])
	}
	sigma := q / (dim[0] * dim[1] * density * density)
	nw, nh := int(dim[0]*density), int(dim[1]*density)
	for i := 0; i < nw; i++ {
		for j := 0; j < nh; j++ {
			pos := s.point(float64(i)/density+vertex[0], float64(j)/density+vertex[1])
			if ids, err = s.addAll(sigma, pos, ids); err != nil {
				return ids, err
			}
		}
	}
	return ids, nil
}

// StraightWire 直导线电荷分布
// 沿 x 方向每单位长度采样 res 个点，每个点电荷量为线电荷密度 λ = q/length
func (s *System) StraightWire(start, end [2]float64, res, q float64) (ids []SourceID, err error) {
	if res <= 0 {
		return nil, ErrDensity
	}
	if end[0] == start[0] {
		return nil, ErrVerticalWire
	}
	length := math.Sqrt((end[1]-start[1])*(end[1]-start[1]) + (end[0]-start[0])*(end[0]-start[0]))
	gradient := (end[1] - start[1]) / (end[0] - start[0])
	intercept := start[1] - gradient*start[0]
	lambda := q / length
	n := int((end[0] - start[0]) * res)
	for i := 0; i < n; i++ {
		x := float64(i) / res
		pos := s.point(x+start[0], gradient*x+intercept)
		if ids, err = s.addAll(lambda, pos, ids); err != nil {
			return ids, err
		}
	}
	return ids, nil
}

// CircularWire 圆环电荷分布，x(t)=cx-R·cos t，y(t)=cy-R·sin t，t∈[0,2π)
func (s *System) CircularWire(center [2]float64, r, density, q float64) ([]SourceID, error) {
	curve := func(t float64) []float64 {
		return s.point(center[0]-r*math.Cos(t), center[1]-r*math.Sin(t))
	}
	return s.LineCharge(curve, 2*math.Pi, density, q)
}
