package emfield

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"emfield/electrostatics"
	"emfield/magnetostatics"
	"emfield/source"
	"emfield/utils"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrDirective 无法识别或参数错误的指令
	ErrDirective = errors.New("emfield: bad directive")
	// ErrUnknownRef .ref 引用了不存在的源
	ErrUnknownRef = errors.New("emfield: unknown source reference")
)

// Scene 场景：由网表构建的电荷、线圈与导线
type Scene struct {
	Dim      int                        // 电荷维度，2 或 3
	DupCheck bool                       // .ref 重复插入时是否跳过
	Arena    *electrostatics.Arena      // 电荷存储
	System   *electrostatics.System     // 电荷集合
	LoopSet  *magnetostatics.LoopSystem // 线圈集合
	WireList []magnetostatics.Wire      // 无限长直导线
	Elements []source.Element           // 按加载顺序保存的网表行
	Skipped  []electrostatics.SourceID  // 被跳过的重复源

	refs map[string][]electrostatics.SourceID
}

// NewScene 创建空场景
func NewScene(dim int) *Scene {
	scene := &Scene{DupCheck: true, LoopSet: magnetostatics.NewLoopSystem()}
	scene.reset(dim)
	return scene
}

func (scene *Scene) reset(dim int) {
	scene.Dim = dim
	scene.Arena = electrostatics.NewArena(dim)
	scene.System = electrostatics.NewSystem(scene.Arena)
	scene.refs = make(map[string][]electrostatics.SourceID)
}

// Charges 实现 source.Builder
func (scene *Scene) Charges() *electrostatics.System { return scene.System }

// Loops 实现 source.Builder
func (scene *Scene) Loops() *magnetostatics.LoopSystem { return scene.LoopSet }

// AddWire 实现 source.Builder
func (scene *Scene) AddWire(w magnetostatics.Wire) { scene.WireList = append(scene.WireList, w) }

// Empty 场景中是否还没有任何源
func (scene *Scene) Empty() bool {
	return scene.Arena.Len() == 0 && scene.LoopSet.Len() == 0 && len(scene.WireList) == 0
}

// Load 加载网表文件
func (scene *Scene) Load(filePath string) error {
	elements, err := source.LoadNetlist(filePath)
	if err != nil {
		return err
	}
	return scene.apply(elements)
}

// LoadString 加载网表字符串
func (scene *Scene) LoadString(netlist string) error {
	elements, err := source.LoadNetlistFromString(netlist)
	if err != nil {
		return err
	}
	return scene.apply(elements)
}

// Add 以程序方式追加一个源，如 Add("Q", 1, 1, 0, 0)
func (scene *Scene) Add(kind string, id int, values ...float64) error {
	netlist := append(utils.NetList{fmt.Sprintf("%s%d", kind, id)}, utils.FromFloats(values...)...)
	element, err := source.NewElement(netlist)
	if err != nil {
		return err
	}
	return scene.apply([]source.Element{element})
}

// Directive 以程序方式追加一条指令，如 Directive("dup", "off")
func (scene *Scene) Directive(name string, args ...string) error {
	netlist := append(utils.NetList{"." + name}, args...)
	element, err := source.NewElement(netlist)
	if err != nil {
		return err
	}
	return scene.apply([]source.Element{element})
}

func (scene *Scene) apply(elements []source.Element) error {
	for _, e := range elements {
		if err := scene.applyOne(e); err != nil {
			if e.Line > 0 {
				return fmt.Errorf("第 %d 行 %s: %w", e.Line, e.Name(), err)
			}
			return fmt.Errorf("%s: %w", e.Name(), err)
		}
		scene.Elements = append(scene.Elements, e)
	}
	return nil
}

func (scene *Scene) applyOne(e source.Element) error {
	if e.IsDirective() {
		return scene.directive(e)
	}
	if _, ok := scene.refs[e.Name()]; ok {
		return fmt.Errorf("源名称重复")
	}
	before := scene.System.Len()
	if err := e.Face().Build(scene, e.Values); err != nil {
		return err
	}
	scene.refs[e.Name()] = scene.System.IDs()[before:]
	return nil
}

func (scene *Scene) directive(e source.Element) error {
	switch e.Name() {
	case ".dim":
		dim := e.Values.ParseInt(0, 0)
		if len(e.Values) != 1 || (dim != 2 && dim != 3) {
			return fmt.Errorf("%w: .dim 需要 2 或 3", ErrDirective)
		}
		if !scene.Empty() {
			return fmt.Errorf("%w: .dim 必须位于所有源之前", ErrDirective)
		}
		scene.reset(dim)
	case ".units":
		length, err := e.Values.Float64(0, 1)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrDirective, err)
		}
		field, err := e.Values.Float64(1, 1)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrDirective, err)
		}
		if length <= 0 || field == 0 {
			return fmt.Errorf("%w: .units %g %g", ErrDirective, length, field)
		}
		scene.LoopSet.LengthUnits, scene.LoopSet.FieldUnits = length, field
	case ".dup":
		if len(e.Values) != 1 {
			return fmt.Errorf("%w: .dup 需要 on 或 off", ErrDirective)
		}
		scene.DupCheck = e.Values.ParseBool(0, scene.DupCheck)
	case ".ref":
		// 先解析全部名称，任一名称无效时不插入任何源
		resolved := make([][]electrostatics.SourceID, len(e.Values))
		for i := range e.Values {
			kind, id := e.Values.SeparationPrick(i)
			ids, ok := scene.refs[kind+strconv.Itoa(id)]
			if !ok {
				return fmt.Errorf("%w: %s", ErrUnknownRef, e.Values[i])
			}
			resolved[i] = ids
		}
		for i, ids := range resolved {
			for _, id := range ids {
				res, err := scene.System.Insert(id, scene.DupCheck)
				if err != nil {
					return err
				}
				if res == electrostatics.SkippedDuplicate {
					scene.Skipped = append(scene.Skipped, id)
					slog.Warn("重复的源已跳过", "ref", e.Values[i], "source", int(id))
				}
			}
		}
	default:
		return fmt.Errorf("%w: 未知指令 %s", ErrDirective, e.Name())
	}
	return nil
}

// Export 导出网表文件
func (scene *Scene) Export(filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()
	if _, err := scene.WriteTo(file); err != nil {
		return err
	}
	return file.Close()
}

// WriteTo 以网表格式写出场景，维度指令总在首行
func (scene *Scene) WriteTo(w io.Writer) (int64, error) {
	writer := bufio.NewWriter(w)
	var n int64
	m, err := fmt.Fprintf(writer, ".dim %d\n", scene.Dim)
	n += int64(m)
	if err != nil {
		return n, err
	}
	for _, e := range scene.Elements {
		if e.Name() == ".dim" {
			continue
		}
		m, err = writer.WriteString(e.String() + "\n")
		n += int64(m)
		if err != nil {
			return n, err
		}
	}
	return n, writer.Flush()
}

// EField 计算电荷在查询点处的电场，points[axis][k]
func (scene *Scene) EField(points [][]float64) ([][]float64, error) {
	return scene.System.EField(points)
}

// Potential 计算电荷在查询点处的电势
func (scene *Scene) Potential(points [][]float64) ([]float64, error) {
	return scene.System.Potential(points)
}

// BField 计算线圈与导线在查询点处的磁场，返回 [bx, by, bz]
// 二维查询点视为 z=0；导线只贡献 xy 分量
func (scene *Scene) BField(points [][]float64) ([][]float64, error) {
	if len(points) < 2 || len(points) > 3 {
		return nil, fmt.Errorf("%w: 需要 2 或 3 个坐标轴，得到 %d", electrostatics.ErrDimension, len(points))
	}
	for _, axis := range points[1:] {
		if len(axis) != len(points[0]) {
			return nil, fmt.Errorf("%w: 坐标轴长度不一致", electrostatics.ErrDimension)
		}
	}
	b := scene.LoopSet.EvaluateAxes(points)
	for _, w := range scene.WireList {
		bx, by := w.Field(points[0], points[1])
		for k := range bx {
			b[0][k] += bx[k]
			b[1][k] += by[k]
		}
	}
	return b, nil
}

// Magnitude 逐点计算分量的模长
func Magnitude(components [][]float64) []float64 {
	if len(components) == 0 {
		return nil
	}
	out := make([]float64, len(components[0]))
	v := make([]float64, len(components))
	for k := range out {
		for a, c := range components {
			v[a] = c[k]
		}
		out[k] = floats.Norm(v, 2)
	}
	return out
}
