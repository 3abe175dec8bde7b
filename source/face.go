package source

import (
	"log"
	"sort"

	"emfield/electrostatics"
	"emfield/magnetostatics"
	"emfield/utils"
)

// Builder 源的构建目标，由场景实现
type Builder interface {
	Charges() *electrostatics.System   // 点电荷集合
	Loops() *magnetostatics.LoopSystem // 电流线圈集合
	AddWire(wire magnetostatics.Wire)  // 追加无限长直导线
}

// SourceFace 源类型接口
type SourceFace interface {
	GetConfig() *Config                          // 获取源类型配置
	Build(b Builder, values utils.NetList) error // 按网表参数构建源
}

// SourceList 源类型注册表，键为大写类型前缀
var SourceList = map[string]SourceFace{}

// AddSource 注册源类型
// 注意：如果源类型已注册，会触发致命错误并终止程序
func AddSource(face SourceFace) string {
	name := face.GetConfig().GetName()
	if _, ok := SourceList[name]; ok {
		log.Fatalf("源类型重复注册: %s", name)
	}
	SourceList[name] = face
	return name
}

// Lookup 按类型前缀查找源类型
func Lookup(name string) (SourceFace, bool) {
	face, ok := SourceList[name]
	return face, ok
}

// Names 已注册的源类型前缀（排序后）
func Names() []string {
	names := make([]string, 0, len(SourceList))
	for name := range SourceList {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
