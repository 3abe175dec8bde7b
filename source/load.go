package source

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"emfield/utils"
)

// Element 网表中的一行：源定义或以 "." 开头的指令
type Element struct {
	Kind   string        // 大写类型前缀，指令为 ".NAME"
	ID     int           // 编号
	Values utils.NetList // 参数
	Line   int           // 所在行号，程序构建时为 0
}

// IsDirective 是否为指令
func (e Element) IsDirective() bool { return strings.HasPrefix(e.Kind, ".") }

// Name 源名称，如 "Q1"
func (e Element) Name() string {
	if e.IsDirective() {
		return strings.ToLower(e.Kind)
	}
	return e.Kind + strconv.Itoa(e.ID)
}

// String 返回网表格式
func (e Element) String() string {
	if len(e.Values) == 0 {
		return e.Name()
	}
	return e.Name() + " " + e.Values.String()
}

// Face 源类型接口，指令返回 nil
func (e Element) Face() SourceFace {
	face, _ := Lookup(e.Kind)
	return face
}

// NewElement 根据网表创建源定义，检查类型是否已注册
func NewElement(netlist utils.NetList) (Element, error) {
	if strings.HasPrefix(netlist[0], ".") {
		return Element{Kind: strings.ToUpper(netlist[0]), Values: netlist[1:]}, nil
	}
	nameStr, id := netlist.SeparationPrick(0)
	face, ok := Lookup(nameStr)
	if !ok {
		return Element{}, fmt.Errorf("未知的源类型 '%s'", nameStr)
	}
	if n := len(netlist) - 1; n < face.GetConfig().Required {
		return Element{}, fmt.Errorf("源 '%s' 参数数量不足。需要 %d，得到 %d", netlist[0], face.GetConfig().Required, n)
	}
	return Element{Kind: nameStr, ID: id, Values: netlist[1:]}, nil
}

// LoadNetlist 从文件加载网表
func LoadNetlist(filePath string) ([]Element, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("无法打开文件 %s: %w", filePath, err)
	}
	defer file.Close()
	return ParseNetlist(file)
}

// LoadNetlistFromString 从字符串加载网表
func LoadNetlistFromString(netlist string) ([]Element, error) {
	return ParseNetlist(strings.NewReader(netlist))
}

// ParseNetlist 逐行解析网表，忽略注释（# 或 *）与空行
func ParseNetlist(r io.Reader) ([]Element, error) {
	var elements []Element
	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := scanner.Text()
		if commentIndex := strings.IndexAny(line, "#*"); commentIndex != -1 {
			line = line[:commentIndex]
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		element, err := NewElement(utils.NetList(parts))
		if err != nil {
			return nil, fmt.Errorf("第 %d 行: %w", lineNumber, err)
		}
		element.Line = lineNumber
		elements = append(elements, element)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("读取网表时出错: %w", err)
	}
	return elements, nil
}

// WriteNetlist 导出网表
func WriteNetlist(w io.Writer, elements []Element) error {
	writer := bufio.NewWriter(w)
	for _, e := range elements {
		if _, err := writer.WriteString(e.String() + "\n"); err != nil {
			return err
		}
	}
	return writer.Flush()
}
