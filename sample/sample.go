package sample

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"emfield/maths"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// ErrShape 计算函数返回的数组长度与查询点数量不一致
var ErrShape = errors.New("sample: result shape mismatch")

// Func 向量场计算函数，points[axis][k] -> values[component][k]
type Func func(points [][]float64) ([][]float64, error)

// ScalarFunc 标量场计算函数
type ScalarFunc func(points [][]float64) ([]float64, error)

// Scalar 将标量函数包装为单分量 Func
func Scalar(fn ScalarFunc) Func {
	return func(points [][]float64) ([][]float64, error) {
		v, err := fn(points)
		if err != nil {
			return nil, err
		}
		return [][]float64{v}, nil
	}
}

// Grid 行优先展开的采样网格
type Grid struct {
	Xs, Ys, Zs []float64   // 各轴采样坐标，二维网格没有 Zs
	Rows       int         // 行数，对应 Ys
	Cols       int         // 列数，对应 Xs
	Points     [][]float64 // 展开后的查询点，Points[axis][row*Cols+col]
}

// Grid2D 二维均匀网格
func Grid2D(xs, ys [2]float64, nx, ny int) Grid {
	g := Grid{
		Xs:   maths.Linspace(xs[0], xs[1], nx),
		Ys:   maths.Linspace(ys[0], ys[1], ny),
		Rows: max(ny, 0),
		Cols: max(nx, 0),
	}
	x, y := maths.Meshgrid(g.Xs, g.Ys)
	g.Points = [][]float64{x, y}
	return g
}

// Grid3D 三维格点，按 (x, y) 分行、每行沿 z 展开
// 第 (i,j,k) 点位于 (i*ny+j)*nz+k，与 maths.Mgrid3 一致
func Grid3D(xs, ys, zs [2]float64, nx, ny, nz int) Grid {
	g := Grid{
		Xs: maths.Linspace(xs[0], xs[1], nx),
		Ys: maths.Linspace(ys[0], ys[1], ny),
		Zs: maths.Linspace(zs[0], zs[1], nz),
	}
	g.Rows, g.Cols = len(g.Xs)*len(g.Ys), len(g.Zs)
	x, y, z := maths.Mgrid3(g.Xs, g.Ys, g.Zs)
	g.Points = [][]float64{x, y, z}
	return g
}

// Line 两点之间的一行采样
func Line(from, to [2]float64, n int) Grid {
	g := Grid{
		Xs:   maths.Linspace(from[0], to[0], n),
		Ys:   maths.Linspace(from[1], to[1], n),
		Rows: 1,
		Cols: max(n, 0),
	}
	if n <= 0 {
		g.Rows = 0
	}
	g.Points = [][]float64{g.Xs, g.Ys}
	return g
}

// Restore 由展开的查询点还原网格各轴坐标
// lattice 为 true 时按 Grid3D 的展开顺序解释 points
func Restore(rows, cols int, points [][]float64, lattice bool) Grid {
	g := Grid{Rows: rows, Cols: cols, Points: points}
	if rows*cols == 0 || len(points) < 2 || len(points[0]) < rows*cols {
		return g
	}
	if !lattice || len(points) < 3 {
		g.Xs = stride(points[0], cols, 1)
		g.Ys = stride(points[1], rows, cols)
		return g
	}
	ny := 0
	for ny < rows && points[0][ny*cols] == points[0][0] {
		ny++
	}
	g.Xs = stride(points[0], rows/ny, ny*cols)
	g.Ys = stride(points[1], ny, cols)
	g.Zs = stride(points[2], cols, 1)
	return g
}

func stride(flat []float64, n, step int) []float64 {
	out := make([]float64, 0, n)
	for i := 0; i < n && i*step < len(flat); i++ {
		out = append(out, flat[i*step])
	}
	return out
}

// Len 查询点数量
func (g Grid) Len() int { return g.Rows * g.Cols }

// WithZ 返回附加常量 z 轴的三维网格
func (g Grid) WithZ(z float64) Grid {
	zs := make([]float64, g.Len())
	for i := range zs {
		zs[i] = z
	}
	g.Points = [][]float64{g.Points[0], g.Points[1], zs}
	return g
}

// Distance 沿采样顺序到第一个点的距离，用于剖面图横轴
func (g Grid) Distance() []float64 {
	d := make([]float64, g.Len())
	p0 := make([]float64, len(g.Points))
	p := make([]float64, len(g.Points))
	for k := range d {
		for axis := range g.Points {
			p0[axis], p[axis] = g.Points[axis][0], g.Points[axis][k]
		}
		d[k] = floats.Distance(p, p0, 2)
	}
	return d
}

// Samples 网格及其上的场值
type Samples struct {
	Grid
	Values [][]float64 // Values[component][row*Cols+col]
}

// Sample 按行分块并发计算网格上的场值
// 每个点的结果与串行调用 fn 完全一致
func Sample(ctx context.Context, grid Grid, fn Func, workers int) (Samples, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, max(grid.Rows, 1))
	chunkRows := (grid.Rows + workers - 1) / max(workers, 1)
	results := make([][][]float64, workers)

	eg, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		start := min(w*chunkRows, grid.Rows) * grid.Cols
		end := min((w+1)*chunkRows, grid.Rows) * grid.Cols
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			points := make([][]float64, len(grid.Points))
			for axis := range points {
				points[axis] = grid.Points[axis][start:end]
			}
			values, err := fn(points)
			if err != nil {
				return err
			}
			for _, v := range values {
				if len(v) != end-start {
					return fmt.Errorf("%w: %d values for %d points", ErrShape, len(v), end-start)
				}
			}
			results[w] = values
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return Samples{}, err
	}

	s := Samples{Grid: grid}
	for _, chunk := range results {
		if s.Values == nil {
			s.Values = make([][]float64, len(chunk))
			for c := range s.Values {
				s.Values[c] = make([]float64, 0, grid.Len())
			}
		}
		if len(chunk) != len(s.Values) {
			return Samples{}, fmt.Errorf("%w: %d components, expected %d", ErrShape, len(chunk), len(s.Values))
		}
		for c := range chunk {
			s.Values[c] = append(s.Values[c], chunk[c]...)
		}
	}
	return s, nil
}

// At 第 row 行第 col 列的各分量
func (s Samples) At(row, col int) []float64 {
	out := make([]float64, len(s.Values))
	for c := range s.Values {
		out[c] = s.Values[c][row*s.Cols+col]
	}
	return out
}
