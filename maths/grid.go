package maths

import "gonum.org/v1/gonum/floats"

// Linspace 生成 [lo, hi] 上等间距的 n 个点（含端点）
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

// Meshgrid 生成二维网格坐标，按行展开（行对应 ys，列对应 xs）
// 返回值长度均为 len(xs)*len(ys)，第 r 行第 c 列位于 r*len(xs)+c
func Meshgrid(xs, ys []float64) (x, y []float64) {
	cols, rows := len(xs), len(ys)
	x = make([]float64, rows*cols)
	y = make([]float64, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			x[r*cols+c] = xs[c]
			y[r*cols+c] = ys[r]
		}
	}
	return x, y
}

// Mgrid3 生成三维格点坐标（ij 索引），第 (i,j,k) 点位于 (i*len(ys)+j)*len(zs)+k
func Mgrid3(xs, ys, zs []float64) (x, y, z []float64) {
	nx, ny, nz := len(xs), len(ys), len(zs)
	n := nx * ny * nz
	x, y, z = make([]float64, n), make([]float64, n), make([]float64, n)
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			for k := 0; k < nz; k++ {
				idx := (i*ny+j)*nz + k
				x[idx], y[idx], z[idx] = xs[i], ys[j], zs[k]
			}
		}
	}
	return x, y, z
}
