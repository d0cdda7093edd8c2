// Package plan 读取并执行脚本化的技能方案
//
// 方案文件是 YAML，按 tick 列出要执行的操作（对某只旅鼠使用技能、调整释放速率），
// 供无界面运行器复现同一局游戏。
package plan

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/decker502/lemmings/pkg/types"
)

// Action 方案中的一个操作
//
// 技能操作用 Lemming（按出生顺序，从 1 开始）或 At（世界坐标）指定目标；
// 速率操作只设置 Rate。
type Action struct {
	Tick    uint64          `yaml:"tick"`
	Skill   types.SkillType `yaml:"skill,omitempty"`
	Lemming int             `yaml:"lemming,omitempty"`
	At      []int           `yaml:"at,omitempty"`
	Rate    *int            `yaml:"rate,omitempty"`
}

// IsRate 判断是否为释放速率操作
func (a Action) IsRate() bool { return a.Rate != nil }

// String 日志使用的简短描述
func (a Action) String() string {
	switch {
	case a.IsRate():
		return fmt.Sprintf("tick %d: rate %d", a.Tick, *a.Rate)
	case a.Lemming > 0:
		return fmt.Sprintf("tick %d: %s on lemming #%d", a.Tick, a.Skill, a.Lemming)
	default:
		return fmt.Sprintf("tick %d: %s at %v", a.Tick, a.Skill, a.At)
	}
}

// Plan 一个技能方案
type Plan struct {
	Level   string   `yaml:"level"` // 关卡ID，可被命令行覆盖
	Seed    int64    `yaml:"seed"`  // 非 0 时覆盖生成地形的种子
	Actions []Action `yaml:"actions"`
}

// Load 从文件加载方案
func Load(filename string) (*Plan, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file %s: %w", filename, err)
	}
	return Parse(data, filename)
}

// Parse 解析方案内容（name 只用于错误信息）
// 操作按 tick 稳定排序，同一 tick 的操作保持文件中的顺序
func Parse(data []byte, name string) (*Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse plan YAML from %s: %w", name, err)
	}
	if err := validatePlan(&p); err != nil {
		return nil, fmt.Errorf("invalid plan in %s: %w", name, err)
	}
	sort.SliceStable(p.Actions, func(i, j int) bool {
		return p.Actions[i].Tick < p.Actions[j].Tick
	})
	return &p, nil
}

func validatePlan(p *Plan) error {
	for i, a := range p.Actions {
		if a.IsRate() {
			if a.Skill != types.SkillUnknown || a.Lemming != 0 || len(a.At) != 0 {
				return fmt.Errorf("action %d: rate actions cannot name a skill or target", i)
			}
			if *a.Rate < 0 || *a.Rate > 99 {
				return fmt.Errorf("action %d: rate %d out of range 0-99", i, *a.Rate)
			}
			continue
		}
		if !a.Skill.Valid() {
			return fmt.Errorf("action %d: skill or rate is required", i)
		}
		hasLemming := a.Lemming != 0
		hasAt := len(a.At) != 0
		if hasLemming == hasAt {
			return fmt.Errorf("action %d: exactly one of lemming or at is required", i)
		}
		if hasLemming && a.Lemming < 0 {
			return fmt.Errorf("action %d: lemming must be positive, got %d", i, a.Lemming)
		}
		if hasAt && len(a.At) != 2 {
			return fmt.Errorf("action %d: at needs [x, y], got %v", i, a.At)
		}
	}
	return nil
}
