package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// NetList 网表定义
type NetList []string

// FromFloats 将数值列表转换为 NetList
func FromFloats(values ...float64) NetList {
	result := make(NetList, len(values))
	for i, v := range values {
		result[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return result
}

// String 以空格连接网表字段
func (value NetList) String() string { return strings.Join(value, " ") }

// SeparationPrick 分离字符串前缀与编号，如 "LP12" -> ("LP", 12)
func (value NetList) SeparationPrick(i int) (typeName string, id int) {
	nameStr := strings.ToUpper(value[i])
	for i, char := range nameStr {
		if char >= '0' && char <= '9' {
			typeName = nameStr[:i]
			id, _ = strconv.Atoi(nameStr[i:])
			break
		}
	}
	if typeName == "" {
		typeName = nameStr
	}
	return typeName, id
}

// ParseBool 解析布尔值，同时接受 on/off
func (value NetList) ParseBool(i int, defaultValue bool) bool {
	if i < len(value) {
		switch strings.ToLower(value[i]) {
		case "on", "yes":
			return true
		case "off", "no":
			return false
		}
		if val, err := strconv.ParseBool(value[i]); err == nil {
			return val
		}
	}
	return defaultValue
}

// ParseInt 解析整数
func (value NetList) ParseInt(i int, defaultValue int) int {
	if i < len(value) {
		if val, err := strconv.Atoi(value[i]); err == nil {
			return val
		}
	}
	return defaultValue
}

// Float64 严格解析浮点数，字段缺失时返回默认值，格式错误时返回错误
func (value NetList) Float64(i int, defaultValue float64) (float64, error) {
	if i >= len(value) {
		return defaultValue, nil
	}
	val, err := strconv.ParseFloat(value[i], 64)
	if err != nil {
		return 0, fmt.Errorf("字段 %d 不是有效数值 %q", i, value[i])
	}
	return val, nil
}
