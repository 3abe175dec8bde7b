package maths

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Normalize 三维向量归一化
// 模长小于 NormalizeEpsilon 时返回 ErrZeroVector
func Normalize(v r3.Vec) (r3.Vec, error) {
	l := r3.Norm(v)
	if l < NormalizeEpsilon {
		return r3.Vec{}, ErrZeroVector
	}
	return r3.Scale(1/l, v), nil
}

// Axes 将点列表拆分为按坐标轴存储的数组 [x, y, z]
func Axes(points []r3.Vec) [][]float64 {
	x := make([]float64, len(points))
	y := make([]float64, len(points))
	z := make([]float64, len(points))
	for i, p := range points {
		x[i], y[i], z[i] = p.X, p.Y, p.Z
	}
	return [][]float64{x, y, z}
}

// Points 将按坐标轴存储的数组合并为点列表，缺失的轴补零
func Points(axes [][]float64) []r3.Vec {
	if len(axes) == 0 {
		return nil
	}
	points := make([]r3.Vec, len(axes[0]))
	for i := range points {
		for a := range axes {
			switch a {
			case 0:
				points[i].X = axes[a][i]
			case 1:
				points[i].Y = axes[a][i]
			case 2:
				points[i].Z = axes[a][i]
			}
		}
	}
	return points
}
