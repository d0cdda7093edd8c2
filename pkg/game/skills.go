package game

import (
	"github.com/decker502/lemmings/pkg/types"
)

// SkillChangeListener 技能数量或选择变化时的回调（仅供 UI 使用，模拟本身不依赖）
type SkillChangeListener func(skill types.SkillType, count int)

// SkillInventory 技能库存
//
// 模拟核心只使用 CanUseSkill / DecrementSkill / Selected，
// 其余方法服务于技能面板。
type SkillInventory struct {
	counts    map[types.SkillType]int
	selected  types.SkillType
	listeners []SkillChangeListener
}

// NewSkillInventory 根据关卡配置创建技能库存
func NewSkillInventory(counts map[types.SkillType]int) *SkillInventory {
	inv := &SkillInventory{
		counts:   make(map[types.SkillType]int, len(types.AllSkills)),
		selected: types.SkillUnknown,
	}
	for skill, n := range counts {
		if !skill.Valid() || n < 0 {
			continue
		}
		inv.counts[skill] = n
	}
	return inv
}

// Count 返回技能剩余次数
func (inv *SkillInventory) Count(skill types.SkillType) int {
	return inv.counts[skill]
}

// CanUseSkill 判断技能是否还能使用；非法技能返回 false
func (inv *SkillInventory) CanUseSkill(skill types.SkillType) bool {
	return skill.Valid() && inv.counts[skill] > 0
}

// DecrementSkill 技能次数减一；次数不足或技能非法时返回 false 且不修改
func (inv *SkillInventory) DecrementSkill(skill types.SkillType) bool {
	if !inv.CanUseSkill(skill) {
		return false
	}
	inv.counts[skill]--
	inv.notify(skill)
	return true
}

// Select 选择技能；非法技能被忽略
func (inv *SkillInventory) Select(skill types.SkillType) {
	if !skill.Valid() {
		return
	}
	inv.selected = skill
	inv.notify(skill)
}

// Selected 返回当前选择的技能
func (inv *SkillInventory) Selected() types.SkillType {
	return inv.selected
}

// OnChange 注册变化回调
func (inv *SkillInventory) OnChange(listener SkillChangeListener) {
	if listener == nil {
		return
	}
	inv.listeners = append(inv.listeners, listener)
}

func (inv *SkillInventory) notify(skill types.SkillType) {
	for _, l := range inv.listeners {
		l(skill, inv.counts[skill])
	}
}
