// Package types 定义共享的基础类型
// 这个包不依赖任何其他业务包，用于解决循环引用问题
package types

import (
	"fmt"
	"strings"
)

// SkillType 定义玩家可分配的技能
type SkillType int

const (
	// SkillUnknown 未知技能
	SkillUnknown SkillType = iota
	// SkillClimber 攀爬者（永久能力）
	SkillClimber
	// SkillFloater 漂浮者（永久能力，打开雨伞）
	SkillFloater
	// SkillBomber 爆破者（5 秒倒计时）
	SkillBomber
	// SkillBlocker 阻挡者
	SkillBlocker
	// SkillBuilder 建造者
	SkillBuilder
	// SkillBasher 横挖者
	SkillBasher
	// SkillMiner 斜挖者
	SkillMiner
	// SkillDigger 下挖者
	SkillDigger
)

// AllSkills 按技能面板顺序列出所有技能
var AllSkills = []SkillType{
	SkillClimber,
	SkillFloater,
	SkillBomber,
	SkillBlocker,
	SkillBuilder,
	SkillBasher,
	SkillMiner,
	SkillDigger,
}

// String 返回技能的字符串表示
func (s SkillType) String() string {
	switch s {
	case SkillClimber:
		return "climber"
	case SkillFloater:
		return "floater"
	case SkillBomber:
		return "bomber"
	case SkillBlocker:
		return "blocker"
	case SkillBuilder:
		return "builder"
	case SkillBasher:
		return "basher"
	case SkillMiner:
		return "miner"
	case SkillDigger:
		return "digger"
	default:
		return "unknown"
	}
}

// Valid 判断是否为合法技能
func (s SkillType) Valid() bool {
	return s >= SkillClimber && s <= SkillDigger
}

// ParseSkill 解析技能名称（大小写不敏感）
func ParseSkill(name string) (SkillType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, s := range AllSkills {
		if s.String() == name {
			return s, nil
		}
	}
	return SkillUnknown, fmt.Errorf("unknown skill %q", name)
}

// MarshalText 以名称形式编码（YAML/JSON 中使用）
func (s SkillType) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText 从名称解析
func (s *SkillType) UnmarshalText(text []byte) error {
	parsed, err := ParseSkill(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
