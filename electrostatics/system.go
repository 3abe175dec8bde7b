package electrostatics

import "fmt"

// InsertResult 插入操作的结果
type InsertResult uint8

const (
	Inserted         InsertResult = iota // 已插入
	SkippedDuplicate                     // 索引已存在，已跳过
)

// String 返回插入结果的字符串表示
func (r InsertResult) String() string {
	switch r {
	case Inserted:
		return "inserted"
	case SkippedDuplicate:
		return "skipped-duplicate"
	}
	return fmt.Sprintf("InsertResult(%d)", uint8(r))
}

// Item 可加入 System 的元素：单个源、源列表、嵌套分组或另一个 System
type Item interface {
	sourceIDs(arena *Arena) ([]SourceID, error)
}

// SourceList 源索引列表
type SourceList []SourceID

// Group 嵌套分组，按顺序递归展开
type Group []Item

func (id SourceID) sourceIDs(*Arena) ([]SourceID, error) { return []SourceID{id}, nil }

func (l SourceList) sourceIDs(*Arena) ([]SourceID, error) { return l, nil }

func (g Group) sourceIDs(arena *Arena) ([]SourceID, error) {
	var ids []SourceID
	for _, item := range g {
		sub, err := item.sourceIDs(arena)
		if err != nil {
			return nil, err
		}
		ids = append(ids, sub...)
	}
	return ids, nil
}

func (s *System) sourceIDs(arena *Arena) ([]SourceID, error) {
	if s.arena != arena {
		return nil, ErrArenaMismatch
	}
	return s.ids, nil
}

// System 点电荷集合，按插入顺序叠加计算总电场与总电势
// 二维与三维共用同一实现，维度由 Arena 决定
type System struct {
	arena *Arena
	ids   []SourceID
	seen  map[SourceID]int
}

// NewSystem 基于存储区创建空集合
func NewSystem(arena *Arena) *System {
	return &System{arena: arena, seen: make(map[SourceID]int)}
}

// NewSystem2D 创建独占存储区的二维集合
func NewSystem2D() *System { return NewSystem(NewArena(2)) }

// NewSystem3D 创建独占存储区的三维集合
func NewSystem3D() *System { return NewSystem(NewArena(3)) }

// Collect 将异构元素展开为一个集合，保持相对顺序
// dupCheck 为真时，已存在的索引被跳过并在 skipped 中返回；否则允许重复
func Collect(arena *Arena, dupCheck bool, items ...Item) (s *System, skipped []SourceID, err error) {
	s = NewSystem(arena)
	ids, err := Group(items).sourceIDs(arena)
	if err != nil {
		return nil, nil, err
	}
	for _, id := range ids {
		res, err := s.Insert(id, dupCheck)
		if err != nil {
			return nil, nil, err
		}
		if res == SkippedDuplicate {
			skipped = append(skipped, id)
		}
	}
	return s, skipped, nil
}

// Arena 底层存储区
func (s *System) Arena() *Arena { return s.arena }

// Dim 坐标维度
func (s *System) Dim() int { return s.arena.dim }

// Len 集合中源的数量
func (s *System) Len() int { return len(s.ids) }

// AddCharge 存入新电荷并追加到集合末尾
func (s *System) AddCharge(c Charge) (SourceID, error) {
	id, err := s.arena.Add(c)
	if err != nil {
		return -1, err
	}
	s.append(id)
	return id, nil
}

// Insert 追加已存在于存储区的源
// unique 为真且索引已在集合中时返回 SkippedDuplicate，不做修改
func (s *System) Insert(id SourceID, unique bool) (InsertResult, error) {
	if !s.arena.has(id) {
		return SkippedDuplicate, fmt.Errorf("%w: %d", ErrUnknownSource, id)
	}
	if unique && s.seen[id] > 0 {
		return SkippedDuplicate, nil
	}
	s.append(id)
	return Inserted, nil
}

// Contains 判断索引是否已在集合中
func (s *System) Contains(id SourceID) bool { return s.seen[id] > 0 }

func (s *System) append(id SourceID) {
	s.ids = append(s.ids, id)
	s.seen[id]++
}

// IDs 按插入顺序返回源索引（副本）
func (s *System) IDs() []SourceID { return append([]SourceID(nil), s.ids...) }

// Charges 按插入顺序返回源（副本），供绘图层枚举源标记
func (s *System) Charges() []Charge {
	out := make([]Charge, len(s.ids))
	for i, id := range s.ids {
		out[i] = s.arena.charges[id]
	}
	return out
}

// EField 计算所有源在查询点处的总电场
func (s *System) EField(points [][]float64) ([][]float64, error) {
	n, err := checkPoints(points, s.Dim())
	if err != nil {
		return nil, err
	}
	total := newComponents(s.Dim(), n)
	for _, id := range s.ids {
		s.arena.charges[id].addField(total, points)
	}
	return total, nil
}

// Potential 计算所有源在查询点处的总电势
func (s *System) Potential(points [][]float64) ([]float64, error) {
	n, err := checkPoints(points, s.Dim())
	if err != nil {
		return nil, err
	}
	total := make([]float64, n)
	for _, id := range s.ids {
		s.arena.charges[id].addPotential(total, points)
	}
	return total, nil
}
