package render

import (
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"emfield"
	"emfield/sample"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// Charts 剖面曲线绘制
type Charts struct {
	Record
	Title      string   // 标题
	Components []string // 分量名称，如 Ex/Ey
}

// NewCharts 由剖面采样创建图表
func NewCharts(title string, s sample.Samples, names []string, markers []Marker) *Charts {
	return &Charts{
		Record:     *NewRecord("profile", s, markers),
		Title:      title,
		Components: names,
	}
}

// distance 剖面横轴：到起点的距离
func (c *Charts) distance() []string {
	d := c.Samples().Distance()
	out := make([]string, len(d))
	for k := range d {
		out[k] = strconv.FormatFloat(d[k], 'g', 4, 64)
	}
	return out
}

func lineData(values []float64) []opts.LineData {
	items := make([]opts.LineData, len(values))
	for k, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			items[k].Value = "-"
			continue
		}
		items[k].Value = v
	}
	return items
}

// Render 输出 HTML 页面
func (c *Charts) Render(w io.Writer) error {
	// 剖面曲线
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    c.Title,
			Subtitle: "沿剖面线的场分量与模长",
		}),
		charts.WithLegendOpts(opts.Legend{
			Type:   "scroll",
			Orient: "vertical",
			Right:  "10",
			Top:    "20",
			Bottom: "20",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:        "距离",
			SplitNumber: 20,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Scale: opts.Bool(true),
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			XAxisIndex: []int{0},
		}),
	)
	line.SetXAxis(c.distance())
	for i, v := range c.Values {
		name := "v" + strconv.Itoa(i)
		if i < len(c.Components) {
			name = c.Components[i]
		}
		line.AddSeries(name, lineData(v))
	}
	if len(c.Values) > 1 {
		line.AddSeries("|v|", lineData(emfield.Magnitude(c.Values)))
	}

	// 源位置
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "源分布",
			Subtitle: "xy 平面上的电荷、线圈与导线",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:  "value",
			Scale: opts.Bool(true),
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Scale: opts.Bool(true),
		}),
	)
	groups := make(map[string][]opts.ScatterData)
	var order []string
	for _, m := range c.Markers {
		if _, ok := groups[m.Kind]; !ok {
			order = append(order, m.Kind)
		}
		groups[m.Kind] = append(groups[m.Kind], opts.ScatterData{Value: []float64{m.X, m.Y}})
	}
	path := make([]opts.ScatterData, len(c.X))
	for k := range c.X {
		path[k] = opts.ScatterData{Value: []float64{c.X[k], c.Y[k]}, SymbolSize: 2}
	}
	scatter.AddSeries("剖面线", path)
	for _, kind := range order {
		scatter.AddSeries(kind, groups[kind])
	}

	page := components.NewPage()
	page.AddCharts(
		line,
		scatter,
	)
	return page.Render(w)
}

// Handler 发布到网页面
func (c *Charts) Handler(w http.ResponseWriter, _ *http.Request) {
	if err := c.Render(w); err != nil {
		slog.Error("渲染剖面失败", "err", err)
	}
}
