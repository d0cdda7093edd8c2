package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/decker502/lemmings/pkg/terrain"
)

// 各模板组需要的帧数
const (
	BashMaskFrames    = 4
	MineMaskFrames    = 2
	ExplodeMaskFrames = 1
)

// MaskSetConfig 地形模板配置（data/masks.yaml）
//
// 所有模板按朝右定义，朝左的版本在加载后镜像得到。
type MaskSetConfig struct {
	Bash    MaskConfig `yaml:"bash"`
	Mine    MaskConfig `yaml:"mine"`
	Explode MaskConfig `yaml:"explode"`
}

// MaskConfig 一组同锚点的模板帧
type MaskConfig struct {
	// Anchor 模板左上角相对旅鼠位置的偏移 [x, y]
	Anchor [2]int `yaml:"anchor"`
	// Frames 每帧一组 ASCII 行，'#' 为激活单元
	Frames [][]string `yaml:"frames"`
}

// LoadMaskSetConfig 从YAML文件加载模板配置
func LoadMaskSetConfig(filepath string) (*MaskSetConfig, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read mask config file %s: %w", filepath, err)
	}
	return ParseMaskSetConfig(data, filepath)
}

// ParseMaskSetConfig 解析模板配置内容
func ParseMaskSetConfig(data []byte, name string) (*MaskSetConfig, error) {
	var maskConfig MaskSetConfig
	if err := yaml.Unmarshal(data, &maskConfig); err != nil {
		return nil, fmt.Errorf("failed to parse mask config YAML from %s: %w", name, err)
	}

	if err := validateMaskSetConfig(&maskConfig); err != nil {
		return nil, fmt.Errorf("invalid mask config in %s: %w", name, err)
	}
	return &maskConfig, nil
}

func validateMaskSetConfig(config *MaskSetConfig) error {
	groups := []struct {
		name   string
		mask   *MaskConfig
		frames int
	}{
		{"bash", &config.Bash, BashMaskFrames},
		{"mine", &config.Mine, MineMaskFrames},
		{"explode", &config.Explode, ExplodeMaskFrames},
	}
	for _, g := range groups {
		if len(g.mask.Frames) != g.frames {
			return fmt.Errorf("%s: expected %d frames, got %d", g.name, g.frames, len(g.mask.Frames))
		}
		// 解析一次以提前发现行宽问题
		if _, err := g.mask.Stencils(); err != nil {
			return fmt.Errorf("%s: %w", g.name, err)
		}
	}
	return nil
}

// Stencils 把每帧解析为模板
func (m *MaskConfig) Stencils() ([]*terrain.Stencil, error) {
	stencils := make([]*terrain.Stencil, 0, len(m.Frames))
	for i, rows := range m.Frames {
		s, err := terrain.ParseStencil(rows, m.Anchor[0], m.Anchor[1])
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		stencils = append(stencils, s)
	}
	return stencils, nil
}
