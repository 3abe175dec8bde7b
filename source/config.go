package source

import (
	"fmt"
	"strings"

	"emfield/utils"
)

// Config 源类型配置结构体，存储源类型的静态配置信息
type Config struct {
	Name      string    // 类型前缀（如 "Q" 表示点电荷）
	ValueName []string  // 参数名称
	ValueInit []float64 // 参数默认值
	Required  int       // 必须给出的参数数量
}

// GetName 源类型名称
func (config *Config) GetName() string {
	return strings.ToUpper(config.Name)
}

// ValueNum 参数数量
func (config *Config) ValueNum() int { return len(config.ValueInit) }

// GetConfig 获取配置结构体指针
func (config *Config) GetConfig() *Config { return config }

// Values 按配置解析参数，缺失的可选参数使用默认值
func (config *Config) Values(valueStrs utils.NetList) ([]float64, error) {
	if len(valueStrs) < config.Required {
		return nil, fmt.Errorf("源 '%s' 参数数量不足。需要 %d，得到 %d", config.GetName(), config.Required, len(valueStrs))
	}
	if len(valueStrs) > config.ValueNum() {
		return nil, fmt.Errorf("源 '%s' 参数过多。最多 %d，得到 %d", config.GetName(), config.ValueNum(), len(valueStrs))
	}
	values := make([]float64, config.ValueNum())
	for i, def := range config.ValueInit {
		v, err := valueStrs.Float64(i, def)
		if err != nil {
			return nil, fmt.Errorf("源 '%s' 参数 %s: %w", config.GetName(), config.ValueName[i], err)
		}
		values[i] = v
	}
	return values, nil
}
