package level

import (
	"fmt"
	"io/fs"
	"path"

	"github.com/decker502/lemmings/pkg/config"
	"github.com/decker502/lemmings/pkg/systems/action"
)

// 嵌入数据中的默认位置
const (
	DefaultMasksPath = "data/masks.yaml"
	DefaultLevelsDir = "data/levels"
)

// LevelPath 返回关卡ID在数据目录中的路径
func LevelPath(dir, id string) string {
	return path.Join(dir, id+".yaml")
}

// LoadMasksFS 从文件系统读取模板配置并构建 MaskSet
func LoadMasksFS(fsys fs.FS, name string) (*action.MaskSet, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read masks %s: %w", name, err)
	}
	cfg, err := config.ParseMaskSetConfig(data, name)
	if err != nil {
		return nil, err
	}
	return NewMaskSet(cfg)
}

// NewMaskSet 把模板配置转换为动作处理器使用的 MaskSet
func NewMaskSet(cfg *config.MaskSetConfig) (*action.MaskSet, error) {
	bash, err := cfg.Bash.Stencils()
	if err != nil {
		return nil, fmt.Errorf("failed to build bash masks: %w", err)
	}
	mine, err := cfg.Mine.Stencils()
	if err != nil {
		return nil, fmt.Errorf("failed to build mine masks: %w", err)
	}
	explode, err := cfg.Explode.Stencils()
	if err != nil {
		return nil, fmt.Errorf("failed to build explode mask: %w", err)
	}
	if len(explode) == 0 {
		return nil, fmt.Errorf("failed to build explode mask: no frames")
	}

	set, err := action.NewMaskSet(bash, mine, explode[0])
	if err != nil {
		return nil, fmt.Errorf("failed to build mask set: %w", err)
	}
	return set, nil
}
