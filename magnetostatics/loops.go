package magnetostatics

import (
	"fmt"
	"math"

	"emfield/maths"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Mu0OverPi 真空磁导率除以 π：μ₀/π = 4e-7
const Mu0OverPi = 4e-7

// LoopSystem 圆形电流线圈集合
// 使用完全椭圆积分的闭式解计算磁场，并按插入顺序叠加
type LoopSystem struct {
	loops       []Loop
	LengthUnits float64 // 长度单位缩放，作用于查询点与线圈半径
	FieldUnits  float64 // 输出磁场除以该值
}

// NewLoopSystem 创建空线圈集合，单位缩放默认为 1
func NewLoopSystem() *LoopSystem {
	return &LoopSystem{LengthUnits: 1, FieldUnits: 1}
}

// AddLoop 追加线圈
func (s *LoopSystem) AddLoop(l Loop) { s.loops = append(s.loops, l) }

// Loops 线圈列表（副本）
func (s *LoopSystem) Loops() []Loop { return append([]Loop(nil), s.loops...) }

// Len 线圈数量
func (s *LoopSystem) Len() int { return len(s.loops) }

// Evaluate 计算查询点处的总磁场
func (s *LoopSystem) Evaluate(points []r3.Vec) []r3.Vec {
	b := make([]r3.Vec, len(points))
	for _, l := range s.loops {
		for k, p := range points {
			b[k] = r3.Add(b[k], s.evalLoop(p, l))
		}
	}
	for k := range b {
		b[k] = r3.Scale(1/s.FieldUnits, b[k])
	}
	return b
}

// EvaluateAt 单点磁场
func (s *LoopSystem) EvaluateAt(p r3.Vec) r3.Vec {
	return s.Evaluate([]r3.Vec{p})[0]
}

// EvaluateDense 以 N×3 矩阵形式计算，每行一个查询点
func (s *LoopSystem) EvaluateDense(points mat.Matrix) (*mat.Dense, error) {
	n, c := points.Dims()
	if c != 3 {
		return nil, fmt.Errorf("magnetostatics: expected N×3 points, got %d×%d", n, c)
	}
	ps := make([]r3.Vec, n)
	for i := range ps {
		ps[i] = r3.Vec{X: points.At(i, 0), Y: points.At(i, 1), Z: points.At(i, 2)}
	}
	out := mat.NewDense(n, 3, nil)
	for i, b := range s.Evaluate(ps) {
		out.SetRow(i, []float64{b.X, b.Y, b.Z})
	}
	return out, nil
}

// EvaluateAxes 以按坐标轴存储的数组计算，二维坐标视为 z=0
func (s *LoopSystem) EvaluateAxes(points [][]float64) [][]float64 {
	return maths.Axes(s.Evaluate(maths.Points(points)))
}

// evalLoop 单个线圈在一点处的磁场
func (s *LoopSystem) evalLoop(p r3.Vec, l Loop) r3.Vec {
	const eps = maths.MachineEpsilon
	rv := r3.Scale(s.LengthUnits, r3.Sub(p, l.pos))
	z := r3.Dot(rv, l.normal)
	rhoVec := r3.Sub(rv, r3.Scale(z, l.normal))
	rho := r3.Norm(rhoVec)
	if rho > eps {
		rhoVec = r3.Scale(1/rho, rhoVec)
	} else {
		rhoVec = r3.Vec{}
	}

	a := l.radius * s.LengthUnits
	alpha2 := a*a + rho*rho + z*z - 2*a*rho
	beta2 := a*a + rho*rho + z*z + 2*a*rho
	beta := math.Sqrt(beta2)
	c := Mu0OverPi * l.current
	a2b2 := alpha2 / beta2
	ek2 := maths.EllipE(1 - a2b2)
	kk2 := maths.EllipKM1(a2b2)

	// 分母过小的位置径向分量取 0
	var bRho float64
	if denom := 2 * alpha2 * beta * rho; math.Abs(denom) > eps {
		bRho = c * z * ((a*a+rho*rho+z*z)*ek2 - alpha2*kk2) / denom
	}
	// 分母过小（位于载流导线上）时轴向分量取 +Inf
	bz := math.Inf(1)
	if denom := 2 * alpha2 * beta; math.Abs(denom) > eps {
		bz = c * ((a*a-rho*rho-z*z)*ek2 + alpha2*kk2) / denom
	}
	return r3.Add(r3.Scale(bRho, rhoVec), r3.Scale(bz, l.normal))
}

// OnAxis 线圈轴线上的解析磁场 μ₀·I·a²/(2(a²+z²)^1.5)
func OnAxis(current, radius, z float64) float64 {
	return math.Pi * Mu0OverPi * current * radius * radius / (2 * math.Pow(radius*radius+z*z, 1.5))
}
