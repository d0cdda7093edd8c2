package config

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/decker502/lemmings/pkg/trigger"
	"github.com/decker502/lemmings/pkg/types"
)

// 默认值
const (
	DefaultReleaseRate = 50
	DefaultRowScale    = 1
	MaxLevelWidth      = 4096
	MaxLevelHeight     = 1024
)

// LevelConfig 关卡配置数据结构
type LevelConfig struct {
	ID          string `yaml:"id"`          // 关卡ID，如 "fun-1"
	Name        string `yaml:"name"`        // 关卡名称
	Description string `yaml:"description"` // 关卡描述（可选）

	Width  int `yaml:"width"`  // 地形宽度（像素），使用 image 时可省略
	Height int `yaml:"height"` // 地形高度（像素），使用 image 时可省略

	ReleaseRate int            `yaml:"releaseRate"` // 初始释放速率 0-99，默认 50
	Count       int            `yaml:"count"`       // 释放总数
	Need        int            `yaml:"need"`        // 需要救出的数量
	TimeLimit   int            `yaml:"timeLimit"`   // 时间限制（秒），0 表示不限时
	Skills      map[string]int `yaml:"skills"`      // 技能名 → 次数

	Palette []string       `yaml:"palette"` // 地形调色板（#rrggbb），为空使用默认
	Terrain TerrainConfig  `yaml:"terrain"`
	Objects []ObjectConfig `yaml:"objects"`
}

// TerrainConfig 地形来源，image / rows / generate 三选一
type TerrainConfig struct {
	Image    string          `yaml:"image"`    // PNG 路径（相对关卡文件所在目录或嵌入的 data/）
	Rows     []string        `yaml:"rows"`     // ASCII 行
	Legend   map[string]int  `yaml:"legend"`   // 字符 → 调色板索引，默认 '#'→0 'S'→1 'B'→2
	Scale    int             `yaml:"scale"`    // 每个字符代表的像素边长，默认 1
	Generate *GenerateConfig `yaml:"generate"` // 噪声生成
}

// GenerateConfig 程序化地形参数
type GenerateConfig struct {
	Seed        int64   `yaml:"seed"`        // 0 表示随机
	Frequency   float64 `yaml:"frequency"`   // 基础频率，默认 0.02
	Octaves     int     `yaml:"octaves"`     // 叠加层数，默认 4
	Persistence float64 `yaml:"persistence"` // 振幅衰减，默认 0.5
	Threshold   float64 `yaml:"threshold"`   // 噪声 + 高度梯度超过此值为地面，默认 0.5
	Ground      float64 `yaml:"ground"`      // 地面基准高度（0-1，占地图高度比例），默认 0.6
}

// ObjectConfig 关卡物体
type ObjectConfig struct {
	Kind    string         `yaml:"kind"` // entrance / exit / water / trap / hazard / decor
	X       int            `yaml:"x"`
	Y       int            `yaml:"y"`
	Width   int            `yaml:"width"`
	Height  int            `yaml:"height"`
	Trigger *TriggerConfig `yaml:"trigger"` // 可选
}

// TriggerConfig 物体的触发区域（坐标相对物体左上角，包含边界）
type TriggerConfig struct {
	X1       int    `yaml:"x1"`
	Y1       int    `yaml:"y1"`
	X2       int    `yaml:"x2"`
	Y2       int    `yaml:"y2"`
	Effect   string `yaml:"effect"`   // 效果名或数字
	Cooldown int    `yaml:"cooldown"` // 冷却 tick 数
	Sound    int    `yaml:"sound"`    // 音效ID（只透传）
}

// LoadLevelConfig 从YAML文件加载关卡配置
// 参数：
//
//	filepath - 关卡配置文件的路径（相对或绝对路径）
//
// 返回：
//
//	*LevelConfig - 解析后的关卡配置对象
//	error - 如果文件读取或解析失败，返回错误信息
func LoadLevelConfig(filepath string) (*LevelConfig, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read level config file %s: %w", filepath, err)
	}
	return ParseLevelConfig(data, filepath)
}

// ParseLevelConfig 解析关卡配置内容（name 只用于错误信息）
func ParseLevelConfig(data []byte, name string) (*LevelConfig, error) {
	// releaseRate 允许显式写 0（最慢），用 -1 区分"未配置"
	levelConfig := LevelConfig{ReleaseRate: -1}
	if err := yaml.Unmarshal(data, &levelConfig); err != nil {
		return nil, fmt.Errorf("failed to parse level config YAML from %s: %w", name, err)
	}

	applyDefaults(&levelConfig)

	if err := validateLevelConfig(&levelConfig); err != nil {
		return nil, fmt.Errorf("invalid level config in %s: %w", name, err)
	}
	return &levelConfig, nil
}

// applyDefaults 为 LevelConfig 中缺失的可选字段设置默认值
func applyDefaults(config *LevelConfig) {
	if config.ReleaseRate == -1 {
		config.ReleaseRate = DefaultReleaseRate
	}
	if config.Terrain.Scale <= 0 {
		config.Terrain.Scale = DefaultRowScale
	}
	if len(config.Terrain.Legend) == 0 {
		config.Terrain.Legend = map[string]int{"#": 0, "S": 1, "B": 2}
	}

	if len(config.Terrain.Rows) > 0 {
		if config.Width == 0 {
			config.Width = len(config.Terrain.Rows[0]) * config.Terrain.Scale
		}
		if config.Height == 0 {
			config.Height = len(config.Terrain.Rows) * config.Terrain.Scale
		}
	}

	if gen := config.Terrain.Generate; gen != nil {
		if gen.Frequency == 0 {
			gen.Frequency = 0.02
		}
		if gen.Octaves == 0 {
			gen.Octaves = 4
		}
		if gen.Persistence == 0 {
			gen.Persistence = 0.5
		}
		if gen.Threshold == 0 {
			gen.Threshold = 0.5
		}
		if gen.Ground == 0 {
			gen.Ground = 0.6
		}
	}

	// Skills、Objects、Palette 默认为空，无需处理
}

// validateLevelConfig 验证关卡配置的完整性和合法性
func validateLevelConfig(config *LevelConfig) error {
	if config.ID == "" {
		return fmt.Errorf("level ID is required")
	}
	if config.Name == "" {
		return fmt.Errorf("level name is required")
	}

	sources := 0
	if config.Terrain.Image != "" {
		sources++
	}
	if len(config.Terrain.Rows) > 0 {
		sources++
	}
	if config.Terrain.Generate != nil {
		sources++
	}
	if sources != 1 {
		return fmt.Errorf("terrain needs exactly one of image, rows or generate, got %d", sources)
	}

	// 使用图片时尺寸由图片决定
	if config.Terrain.Image == "" {
		if config.Width <= 0 || config.Height <= 0 {
			return fmt.Errorf("level size must be positive, got %dx%d", config.Width, config.Height)
		}
		if config.Width > MaxLevelWidth || config.Height > MaxLevelHeight {
			return fmt.Errorf("level size %dx%d exceeds %dx%d", config.Width, config.Height, MaxLevelWidth, MaxLevelHeight)
		}
	}

	for i, row := range config.Terrain.Rows {
		if len(row) != len(config.Terrain.Rows[0]) {
			return fmt.Errorf("terrain row %d: expected width %d, got %d", i, len(config.Terrain.Rows[0]), len(row))
		}
	}
	for key, index := range config.Terrain.Legend {
		if len([]rune(key)) != 1 {
			return fmt.Errorf("terrain legend key %q must be a single character", key)
		}
		if index < 0 || index > 255 {
			return fmt.Errorf("terrain legend %q: palette index must be 0-255, got %d", key, index)
		}
	}

	if _, err := ParsePalette(config.Palette); err != nil {
		return err
	}

	if config.ReleaseRate < 0 || config.ReleaseRate > 99 {
		return fmt.Errorf("releaseRate must be between 0 and 99, got %d", config.ReleaseRate)
	}
	if config.Count < 0 {
		return fmt.Errorf("count cannot be negative, got %d", config.Count)
	}
	if config.Need < 0 || config.Need > config.Count {
		return fmt.Errorf("need must be between 0 and count (%d), got %d", config.Count, config.Need)
	}
	if config.TimeLimit < 0 {
		return fmt.Errorf("timeLimit cannot be negative, got %d", config.TimeLimit)
	}

	for name, n := range config.Skills {
		if _, err := types.ParseSkill(name); err != nil {
			return fmt.Errorf("skills: %w", err)
		}
		if n < 0 {
			return fmt.Errorf("skills: %s count cannot be negative, got %d", name, n)
		}
	}

	entrances := 0
	for i, obj := range config.Objects {
		if !validObjectKinds[obj.Kind] {
			return fmt.Errorf("objects[%d]: unknown kind %q", i, obj.Kind)
		}
		if obj.Kind == "entrance" {
			entrances++
		}
		if obj.Width < 0 || obj.Height < 0 {
			return fmt.Errorf("objects[%d]: size cannot be negative", i)
		}
		if obj.Trigger == nil {
			continue
		}
		if _, err := trigger.ParseEffect(obj.Trigger.Effect); err != nil {
			return fmt.Errorf("objects[%d]: %w", i, err)
		}
		if obj.Trigger.Cooldown < 0 {
			return fmt.Errorf("objects[%d]: cooldown cannot be negative, got %d", i, obj.Trigger.Cooldown)
		}
	}
	if config.Count > 0 && entrances == 0 {
		return fmt.Errorf("at least one entrance is required")
	}

	return nil
}

var validObjectKinds = map[string]bool{
	"entrance": true,
	"exit":     true,
	"water":    true,
	"trap":     true,
	"hazard":   true,
	"decor":    true,
}

// ParsePalette 解析 #rrggbb 颜色列表，空列表返回 nil
func ParsePalette(entries []string) (color.Palette, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	palette := make(color.Palette, 0, len(entries))
	for i, entry := range entries {
		hex := strings.TrimPrefix(strings.TrimSpace(entry), "#")
		if len(hex) != 6 {
			return nil, fmt.Errorf("palette[%d]: expected #rrggbb, got %q", i, entry)
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return nil, fmt.Errorf("palette[%d]: %w", i, err)
		}
		palette = append(palette, color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff})
	}
	return palette, nil
}

// SkillCounts 把技能名映射转换为技能类型映射（配置已验证）
func (c *LevelConfig) SkillCounts() map[types.SkillType]int {
	counts := make(map[types.SkillType]int, len(c.Skills))
	for name, n := range c.Skills {
		if skill, err := types.ParseSkill(name); err == nil {
			counts[skill] = n
		}
	}
	return counts
}

// TimeLimitTicks 返回时间限制的 tick 数
func (c *LevelConfig) TimeLimitTicks(ticksPerSecond int) uint64 {
	return uint64(c.TimeLimit) * uint64(ticksPerSecond)
}
