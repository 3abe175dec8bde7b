package magnetostatics

import (
	"errors"
	"fmt"

	"emfield/maths"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrRadius 线圈半径必须为正
var ErrRadius = errors.New("magnetostatics: loop radius must be positive")

// Loop 圆形电流线圈
type Loop struct {
	pos     r3.Vec  // 圆心
	normal  r3.Vec  // 单位法向
	radius  float64 // 半径
	current float64 // 电流
}

// NewLoop 创建线圈，法向量会被归一化
func NewLoop(position, normal r3.Vec, radius, current float64) (Loop, error) {
	n, err := maths.Normalize(normal)
	if err != nil {
		return Loop{}, fmt.Errorf("loop normal %v: %w", normal, err)
	}
	if radius <= 0 {
		return Loop{}, fmt.Errorf("%w: %g", ErrRadius, radius)
	}
	return Loop{pos: position, normal: n, radius: radius, current: current}, nil
}

// Pos 圆心位置
func (l Loop) Pos() r3.Vec { return l.pos }

// Normal 单位法向
func (l Loop) Normal() r3.Vec { return l.normal }

// Radius 半径
func (l Loop) Radius() float64 { return l.radius }

// Current 电流
func (l Loop) Current() float64 { return l.current }

// Markers 线圈与 xy 绘图平面的两个交点：电流流出点与流入点
func (l Loop) Markers() (out, in r3.Vec) {
	dp := r3.Scale(l.radius, r3.Vec{X: l.normal.Y, Y: -l.normal.X})
	return r3.Sub(l.pos, dp), r3.Add(l.pos, dp)
}

// String 返回线圈的字符串表示
func (l Loop) String() string {
	return fmt.Sprintf("Loop(pos=%v, n=%v, r=%g, i=%g)", l.pos, l.normal, l.radius, l.current)
}
