package electrostatics

import "fmt"

// SourceID 源在 Arena 中的稳定索引
type SourceID int

// Arena 点电荷存储区，插入后索引不再变化
// 去重基于索引而不是电荷数值
type Arena struct {
	dim     int
	charges []Charge
}

// NewArena 创建指定维度的存储区，dim 不是 2 或 3 时 panic
func NewArena(dim int) *Arena {
	if dim != 2 && dim != 3 {
		panic(fmt.Sprintf("electrostatics: arena dimension %d not in {2, 3}", dim))
	}
	return &Arena{dim: dim}
}

// Dim 存储区维度
func (a *Arena) Dim() int { return a.dim }

// Len 已存储的电荷数量
func (a *Arena) Len() int { return len(a.charges) }

// Add 存入点电荷并返回其索引
func (a *Arena) Add(c Charge) (SourceID, error) {
	if c.Dim() != a.dim {
		return -1, fmt.Errorf("%w: %d-D charge added to %d-D arena", ErrDimension, c.Dim(), a.dim)
	}
	a.charges = append(a.charges, c)
	return SourceID(len(a.charges) - 1), nil
}

func (a *Arena) has(id SourceID) bool {
	return id >= 0 && int(id) < len(a.charges)
}
