package magnetostatics

import (
	"math"

	"emfield/maths"

	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// Mu 磁常数（近似值）
	Mu = 1.26e-6
	// WireCurrent 导线电流（安培）
	WireCurrent = 1.0
	// outlineSamples 截面轮廓采样点数
	outlineSamples = 100
)

// Wire 沿 z 轴方向的无限长直导线，电流固定为 WireCurrent
type Wire struct {
	R   float64 // 截面半径，仅用于绘制
	Pos r2.Vec  // 导线在 xy 平面上的位置
}

// NewWire 创建直导线
func NewWire(r float64, pos r2.Vec) Wire {
	return Wire{R: r, Pos: pos}
}

// CalculateB 以导线为原点的局部坐标计算磁场
// |B| = μ/(2π)·I/√(x²+y²)，方向为极角旋转 90°；导线轴上结果非有限值
func (w Wire) CalculateB(x, y []float64) (bx, by []float64) {
	bx = make([]float64, len(x))
	by = make([]float64, len(x))
	for i := range x {
		mag := (Mu / (2 * math.Pi)) * (WireCurrent / math.Sqrt(x[i]*x[i]+y[i]*y[i]))
		phi := math.Atan2(y[i], x[i])
		by[i] = mag * math.Cos(phi)
		bx[i] = mag * -math.Sin(phi)
	}
	return bx, by
}

// Field 以全局坐标计算磁场
func (w Wire) Field(x, y []float64) (bx, by []float64) {
	lx := make([]float64, len(x))
	ly := make([]float64, len(y))
	for i := range x {
		lx[i] = x[i] - w.Pos.X
		ly[i] = y[i] - w.Pos.Y
	}
	return w.CalculateB(lx, ly)
}

// Outline 导线截面轮廓，φ 在 [-2π, 2π] 上均匀采样
func (w Wire) Outline() (x, y []float64) {
	phi := maths.Linspace(-2*math.Pi, 2*math.Pi, outlineSamples)
	x = make([]float64, len(phi))
	y = make([]float64, len(phi))
	for i, p := range phi {
		x[i] = w.R*math.Cos(p) + w.Pos.X
		y[i] = w.R*math.Sin(p) + w.Pos.Y
	}
	return x, y
}
