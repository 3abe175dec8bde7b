package source

import (
	"fmt"

	"emfield/electrostatics"
	"emfield/magnetostatics"
	"emfield/utils"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// PointType 点电荷：q x y [z]
	PointType = AddSource(&point{Config{
		Name:      "Q",
		ValueName: []string{"q", "x", "y", "z"},
		ValueInit: []float64{0, 0, 0, 0},
		Required:  3,
	}})
	// LineType 直线电荷分布：q x0 y0 x1 y1 res
	LineType = AddSource(&line{Config{
		Name:      "LN",
		ValueName: []string{"q", "x0", "y0", "x1", "y1", "res"},
		ValueInit: []float64{0, 0, 0, 0, 0, 10},
		Required:  5,
	}})
	// PlateType 矩形面电荷分布：q w h vx vy density
	PlateType = AddSource(&plate{Config{
		Name:      "PL",
		ValueName: []string{"q", "w", "h", "vx", "vy", "density"},
		ValueInit: []float64{0, 1, 1, 0, 0, 10},
		Required:  3,
	}})
	// CircleType 圆环电荷分布：q cx cy r density
	CircleType = AddSource(&circle{Config{
		Name:      "CW",
		ValueName: []string{"q", "cx", "cy", "r", "density"},
		ValueInit: []float64{0, 0, 0, 1, 10},
		Required:  4,
	}})
	// LoopType 圆形电流线圈：x y z nx ny nz r i
	LoopType = AddSource(&loop{Config{
		Name:      "LP",
		ValueName: []string{"x", "y", "z", "nx", "ny", "nz", "r", "i"},
		ValueInit: []float64{0, 0, 0, 0, 0, 1, 1, 1},
		Required:  7,
	}})
	// WireType 无限长直导线：x y r
	WireType = AddSource(&wire{Config{
		Name:      "WR",
		ValueName: []string{"x", "y", "r"},
		ValueInit: []float64{0, 0, 0.1},
		Required:  2,
	}})
)

type point struct{ Config }

func (p *point) Build(b Builder, valueStrs utils.NetList) error {
	sys := b.Charges()
	if len(valueStrs) != 1+sys.Dim() {
		return fmt.Errorf("源 '%s' 需要 %d 维坐标，得到 %d 个参数", p.GetName(), sys.Dim(), len(valueStrs))
	}
	v, err := p.Values(valueStrs)
	if err != nil {
		return err
	}
	c, err := electrostatics.NewCharge(v[0], v[1:1+sys.Dim()]...)
	if err != nil {
		return err
	}
	_, err = sys.AddCharge(c)
	return err
}

type line struct{ Config }

func (l *line) Build(b Builder, valueStrs utils.NetList) error {
	v, err := l.Values(valueStrs)
	if err != nil {
		return err
	}
	_, err = b.Charges().StraightWire([2]float64{v[1], v[2]}, [2]float64{v[3], v[4]}, v[5], v[0])
	return err
}

type plate struct{ Config }

func (p *plate) Build(b Builder, valueStrs utils.NetList) error {
	v, err := p.Values(valueStrs)
	if err != nil {
		return err
	}
	_, err = b.Charges().Plate([2]float64{v[1], v[2]}, [2]float64{v[3], v[4]}, v[5], v[0])
	return err
}

type circle struct{ Config }

func (c *circle) Build(b Builder, valueStrs utils.NetList) error {
	v, err := c.Values(valueStrs)
	if err != nil {
		return err
	}
	_, err = b.Charges().CircularWire([2]float64{v[1], v[2]}, v[3], v[4], v[0])
	return err
}

type loop struct{ Config }

func (l *loop) Build(b Builder, valueStrs utils.NetList) error {
	v, err := l.Values(valueStrs)
	if err != nil {
		return err
	}
	lp, err := magnetostatics.NewLoop(r3.Vec{X: v[0], Y: v[1], Z: v[2]}, r3.Vec{X: v[3], Y: v[4], Z: v[5]}, v[6], v[7])
	if err != nil {
		return err
	}
	b.Loops().AddLoop(lp)
	return nil
}

type wire struct{ Config }

func (w *wire) Build(b Builder, valueStrs utils.NetList) error {
	v, err := w.Values(valueStrs)
	if err != nil {
		return err
	}
	b.AddWire(magnetostatics.NewWire(v[2], r2.Vec{X: v[0], Y: v[1]}))
	return nil
}
