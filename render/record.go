package render

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"emfield"
	"emfield/sample"
)

// Marker 图上标记的源位置
type Marker struct {
	Kind    string       `json:"kind"` // "+"/"-" 电荷，"out"/"in" 线圈，"wire" 导线
	X       float64      `json:"x"`
	Y       float64      `json:"y"`
	Outline [][2]float64 `json:"outline,omitempty"` // 导线截面轮廓
}

// Markers 提取场景中各源在 xy 平面上的标记
func Markers(scene *emfield.Scene) []Marker {
	var markers []Marker
	for _, c := range scene.System.Charges() {
		kind := "+"
		if c.Q() < 0 {
			kind = "-"
		}
		pos := c.Pos()
		markers = append(markers, Marker{Kind: kind, X: pos[0], Y: pos[1]})
	}
	for _, l := range scene.LoopSet.Loops() {
		out, in := l.Markers()
		markers = append(markers,
			Marker{Kind: "out", X: out.X, Y: out.Y},
			Marker{Kind: "in", X: in.X, Y: in.Y})
	}
	for _, w := range scene.WireList {
		m := Marker{Kind: "wire", X: w.Pos.X, Y: w.Pos.Y}
		xs, ys := w.Outline()
		for i := range xs {
			m.Outline = append(m.Outline, [2]float64{xs[i], ys[i]})
		}
		markers = append(markers, m)
	}
	return markers
}

// Record 一次采样的完整记录
type Record struct {
	Kind    string      `json:"kind"` // efield/potential/bfield/profile/lattice
	Rows    int         `json:"rows"`
	Cols    int         `json:"cols"`
	X       []float64   `json:"x"`           // 展开后的查询点 x
	Y       []float64   `json:"y"`           // 展开后的查询点 y
	Z       []float64   `json:"z,omitempty"` // 三维格点的 z
	Values  [][]float64 `json:"values"`      // 各分量
	Markers []Marker    `json:"markers,omitempty"`
}

// NewRecord 由采样结果创建记录
func NewRecord(kind string, s sample.Samples, markers []Marker) *Record {
	list := &Record{
		Kind:    kind,
		Rows:    s.Rows,
		Cols:    s.Cols,
		X:       s.Points[0],
		Y:       s.Points[1],
		Values:  s.Values,
		Markers: markers,
	}
	if s.Zs != nil && len(s.Points) == 3 {
		list.Z = s.Points[2]
	}
	return list
}

// Render 以 JSON 输出
// 非有限值在 JSON 中无法表示，输出为 null
func (list *Record) Render(w io.Writer) error {
	out := *list
	out.Values = nil
	values := make([][]*float64, len(list.Values))
	for c, comp := range list.Values {
		values[c] = make([]*float64, len(comp))
		for k := range comp {
			if v := comp[k]; !math.IsNaN(v) && !math.IsInf(v, 0) {
				values[c][k] = &v
			}
		}
	}
	return json.NewEncoder(w).Encode(struct {
		*Record
		Values [][]*float64 `json:"values"`
	}{&out, values})
}

// ReadRecord 读取 JSON 记录，null 还原为 NaN
func ReadRecord(r io.Reader) (*Record, error) {
	var raw struct {
		Record
		Values [][]*float64 `json:"values"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("读取记录: %w", err)
	}
	list := raw.Record
	list.Values = make([][]float64, len(raw.Values))
	for c, comp := range raw.Values {
		list.Values[c] = make([]float64, len(comp))
		for k, v := range comp {
			if v == nil {
				list.Values[c][k] = math.NaN()
			} else {
				list.Values[c][k] = *v
			}
		}
	}
	return &list, nil
}

// Samples 将记录还原为采样结果
func (list *Record) Samples() sample.Samples {
	points := [][]float64{list.X, list.Y}
	if list.Z != nil {
		points = append(points, list.Z)
	}
	return sample.Samples{
		Grid:   sample.Restore(list.Rows, list.Cols, points, list.Z != nil),
		Values: list.Values,
	}
}
