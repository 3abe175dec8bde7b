package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalid 配置值非法
var ErrInvalid = errors.New("config: invalid value")

// Config 运行配置
type Config struct {
	Grid     Grid    `toml:"grid"`
	Units    Units   `toml:"units"`
	Profile  Profile `toml:"profile"`
	Lattice  Lattice `toml:"lattice"`
	Output   Output  `toml:"output"`
	Workers  int     `toml:"workers"`   // 采样并发数，0 表示 runtime.NumCPU
	LogLevel string  `toml:"log_level"` // debug/info/warn/error
}

// Grid 采样网格
type Grid struct {
	XMin float64 `toml:"x_min"`
	XMax float64 `toml:"x_max"`
	YMin float64 `toml:"y_min"`
	YMax float64 `toml:"y_max"`
	NX   int     `toml:"nx"`
	NY   int     `toml:"ny"`
	Z    float64 `toml:"z"` // 三维场景的采样平面
}

// Units 线圈的长度与磁场单位缩放
type Units struct {
	Length float64 `toml:"length"`
	Field  float64 `toml:"field"`
}

// Profile 剖面线
type Profile struct {
	From    [2]float64 `toml:"from"`
	To      [2]float64 `toml:"to"`
	Samples int        `toml:"samples"`
}

// Lattice 三维场景的立方格点，每轴 N 个点
type Lattice struct {
	Min [3]float64 `toml:"min"`
	Max [3]float64 `toml:"max"`
	N   int        `toml:"n"`
}

// Output 输出设置
type Output struct {
	Dir      string  `toml:"dir"`
	Clip     float64 `toml:"clip"`     // 电势显示截断值
	Compress bool    `toml:"compress"` // 电势按 1/9 次幂压缩
	Database string  `toml:"database"` // 为空时不保存采样
	Width    float64 `toml:"width"`    // 图片尺寸，厘米
}

// Default 默认配置
func Default() Config {
	return Config{
		Grid:     Grid{XMin: -2, XMax: 2, YMin: -2, YMax: 2, NX: 40, NY: 40},
		Units:    Units{Length: 1, Field: 1},
		Profile:  Profile{From: [2]float64{-2, 0}, To: [2]float64{2, 0}, Samples: 200},
		Lattice:  Lattice{Min: [3]float64{-2, -2, -2}, Max: [3]float64{2, 2, 2}, N: 10},
		Output:   Output{Dir: ".", Clip: 10000, Width: 15},
		LogLevel: "info",
	}
}

// Load 读取 TOML 文件，未出现的字段保留默认值
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("读取配置 %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("解析配置 %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Save 写出 TOML 文件
func (c Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate 检查配置
func (c Config) Validate() error {
	switch {
	case c.Grid.NX < 1 || c.Grid.NY < 1:
		return fmt.Errorf("%w: grid %dx%d", ErrInvalid, c.Grid.NX, c.Grid.NY)
	case c.Grid.XMax <= c.Grid.XMin || c.Grid.YMax <= c.Grid.YMin:
		return fmt.Errorf("%w: grid bounds", ErrInvalid)
	case c.Units.Length <= 0 || c.Units.Field == 0:
		return fmt.Errorf("%w: units %g %g", ErrInvalid, c.Units.Length, c.Units.Field)
	case c.Profile.Samples < 2:
		return fmt.Errorf("%w: profile samples %d", ErrInvalid, c.Profile.Samples)
	case c.Lattice.N < 2:
		return fmt.Errorf("%w: lattice n %d", ErrInvalid, c.Lattice.N)
	case c.Lattice.Max[0] <= c.Lattice.Min[0] || c.Lattice.Max[1] <= c.Lattice.Min[1] || c.Lattice.Max[2] <= c.Lattice.Min[2]:
		return fmt.Errorf("%w: lattice bounds", ErrInvalid)
	case c.Output.Clip <= 0:
		return fmt.Errorf("%w: clip %g", ErrInvalid, c.Output.Clip)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers %d", ErrInvalid, c.Workers)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level 日志级别
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel)
	}
	return level, nil
}
