package render

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"emfield/sample"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// DefaultClip 电势显示截断值
const DefaultClip = 10000

// ErrComponents 采样分量数量不足
var ErrComponents = errors.New("render: not enough components")

// Options 图片选项
type Options struct {
	Title    string
	Width    vg.Length // 为 0 时使用 15cm
	Clip     float64   // 电势截断，0 表示 DefaultClip
	Compress bool      // 电势按 1/9 次幂压缩，保留符号
}

func (o Options) size() vg.Length {
	if o.Width <= 0 {
		return 15 * vg.Centimeter
	}
	return o.Width
}

// vectorField 以对数模长着色的向量场，实现 plotter.FieldXY
type vectorField struct {
	s      sample.Samples
	lo, hi float64 // 对数模长范围
}

func newVectorField(s sample.Samples) *vectorField {
	f := &vectorField{s: s, lo: math.Inf(1), hi: math.Inf(-1)}
	for k := range s.Values[0] {
		if l, ok := f.logMag(k); ok {
			f.lo, f.hi = math.Min(f.lo, l), math.Max(f.hi, l)
		}
	}
	return f
}

func (f *vectorField) logMag(k int) (float64, bool) {
	m := math.Hypot(f.s.Values[0][k], f.s.Values[1][k])
	if m == 0 || math.IsNaN(m) || math.IsInf(m, 0) {
		return 0, false
	}
	return math.Log10(m), true
}

func (f *vectorField) Dims() (c, r int) { return f.s.Cols, f.s.Rows }
func (f *vectorField) X(c int) float64 { return f.s.Xs[c] }
func (f *vectorField) Y(r int) float64 { return f.s.Ys[r] }
func (f *vectorField) Vector(c, r int) plotter.XY {
	k := r*f.s.Cols + c
	l, ok := f.logMag(k)
	if !ok {
		return plotter.XY{}
	}
	// 方向取单位向量，长度映射到 [0.2, 1]
	t := 1.0
	if f.hi > f.lo {
		t = 0.2 + 0.8*(l-f.lo)/(f.hi-f.lo)
	}
	m := math.Hypot(f.s.Values[0][k], f.s.Values[1][k])
	return plotter.XY{X: t * f.s.Values[0][k] / m, Y: t * f.s.Values[1][k] / m}
}

// VectorPNG 绘制二维向量场，分量取 Values[0], Values[1]
func VectorPNG(path string, s sample.Samples, markers []Marker, o Options) error {
	if len(s.Values) < 2 {
		return fmt.Errorf("%w: vector plot needs 2, got %d", ErrComponents, len(s.Values))
	}
	p := plot.New()
	p.Title.Text = o.Title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	colors := moreland.ExtendedBlackBody().Palette(64).Colors()
	field := plotter.NewField(newVectorField(s))
	field.DrawGlyph = func(c vg.Canvas, sty draw.LineStyle, v plotter.XY) {
		t := math.Hypot(v.X, v.Y)
		if t == 0 {
			return
		}
		c.SetColor(colors[min(int(t*float64(len(colors)-1)), len(colors)-1)])
		c.SetLineWidth(sty.Width)
		var pa vg.Path
		pa.Move(vg.Point{X: -0.5})
		pa.Line(vg.Point{X: 0.5})
		pa.Move(vg.Point{X: 0.5})
		pa.Line(vg.Point{X: 0.3, Y: 0.15})
		pa.Move(vg.Point{X: 0.5})
		pa.Line(vg.Point{X: 0.3, Y: -0.15})
		c.Stroke(pa)
	}
	p.Add(field)
	if err := addMarkers(p, markers); err != nil {
		return err
	}
	return p.Save(o.size(), o.size(), path)
}

// potentialGrid 截断后的电势，实现 plotter.GridXYZ
type potentialGrid struct {
	s        sample.Samples
	clip     float64
	compress bool
}

func (g potentialGrid) Dims() (c, r int) { return g.s.Cols, g.s.Rows }
func (g potentialGrid) X(c int) float64 { return g.s.Xs[c] }
func (g potentialGrid) Y(r int) float64 { return g.s.Ys[r] }
func (g potentialGrid) Z(c, r int) float64 {
	return Clip(g.s.Values[0][r*g.s.Cols+c], g.clip, g.compress)
}

// Clip 将电势截断到 [-clip, clip]，compress 时再取保留符号的 1/9 次幂
func Clip(v, clip float64, compress bool) float64 {
	if math.IsNaN(v) {
		return v
	}
	v = math.Max(-clip, math.Min(clip, v))
	if compress {
		return math.Copysign(math.Pow(math.Abs(v), 1.0/9), v)
	}
	return v
}

// PotentialPNG 绘制电势热图
func PotentialPNG(path string, s sample.Samples, markers []Marker, o Options) error {
	if len(s.Values) < 1 {
		return fmt.Errorf("%w: heat map needs 1, got 0", ErrComponents)
	}
	clip := o.Clip
	if clip <= 0 {
		clip = DefaultClip
	}
	p := plot.New()
	p.Title.Text = o.Title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	grid := potentialGrid{s: s, clip: clip, compress: o.Compress}
	var pal palette.Palette = moreland.SmoothBlueRed().Palette(255)
	heat := plotter.NewHeatMap(grid, pal)
	// 对称色标，零电势位于中间色
	bound := math.Max(math.Abs(heat.Min), math.Abs(heat.Max))
	if bound > 0 && !math.IsInf(bound, 0) {
		heat.Min, heat.Max = -bound, bound
	}
	heat.NaN = color.Transparent
	p.Add(heat)
	if err := addMarkers(p, markers); err != nil {
		return err
	}
	return p.Save(o.size(), o.size(), path)
}

var markerStyles = map[string]draw.GlyphStyle{
	"+":    {Color: color.RGBA{R: 200, A: 255}, Radius: vg.Points(4), Shape: draw.PlusGlyph{}},
	"-":    {Color: color.RGBA{B: 200, A: 255}, Radius: vg.Points(4), Shape: draw.CircleGlyph{}},
	"out":  {Color: color.Black, Radius: vg.Points(4), Shape: draw.RingGlyph{}},
	"in":   {Color: color.Black, Radius: vg.Points(4), Shape: draw.CrossGlyph{}},
	"wire": {Color: color.Black, Radius: vg.Points(2), Shape: draw.CircleGlyph{}},
}

// addMarkers 添加源标记与导线轮廓
func addMarkers(p *plot.Plot, markers []Marker) error {
	if len(markers) == 0 {
		return nil
	}
	xys := make(plotter.XYs, len(markers))
	for i, m := range markers {
		xys[i] = plotter.XY{X: m.X, Y: m.Y}
		if len(m.Outline) == 0 {
			continue
		}
		outline := make(plotter.XYs, len(m.Outline))
		for j, o := range m.Outline {
			outline[j] = plotter.XY{X: o[0], Y: o[1]}
		}
		line, err := plotter.NewLine(outline)
		if err != nil {
			return err
		}
		p.Add(line)
	}
	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return err
	}
	scatter.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		if sty, ok := markerStyles[markers[i].Kind]; ok {
			return sty
		}
		return plotter.DefaultGlyphStyle
	}
	p.Add(scatter)
	return nil
}
