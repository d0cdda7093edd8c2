package action

import (
	"github.com/decker502/lemmings/pkg/components"
	"github.com/decker502/lemmings/pkg/types"
)

// Table 状态 → 处理器、技能 → 处理器 的映射表
type Table struct {
	states      map[components.ActionState]Handler
	skills      map[types.SkillType]Handler
	skillStates map[types.SkillType]components.ActionState
}

// NewTable 创建完整的处理器表
// 需要模板的处理器（猛击、采矿、爆炸）共享同一个 MaskSet
func NewTable(masks *MaskSet) *Table {
	digging := Digging{}
	building := Building{}
	blocking := Blocking{}
	bashing := NewBashing(masks)
	mining := NewMining(masks)

	t := &Table{
		states: map[components.ActionState]Handler{
			components.StateWalking:   Walking{},
			components.StateFalling:   Falling{},
			components.StateJumping:   Jumping{},
			components.StateDigging:   digging,
			components.StateClimbing:  Climbing{},
			components.StateHoisting:  Hoisting{},
			components.StateBuilding:  building,
			components.StateBlocking:  blocking,
			components.StateBashing:   bashing,
			components.StateFloating:  Floating{},
			components.StateMining:    mining,
			components.StateDrowning:  Drowning{},
			components.StateExiting:   Exiting{},
			components.StateExploding: NewExploding(masks),
			components.StateOhNo:      OhNo{},
			components.StateCountdown: Countdown{},
			components.StateSplatting: Splatting{},
			components.StateShrugging: Shrugging{},
		},
		skills: map[types.SkillType]Handler{
			types.SkillClimber: ClimberSkill{},
			types.SkillFloater: FloaterSkill{},
			types.SkillBomber:  BomberSkill{},
			types.SkillBlocker: blocking,
			types.SkillBuilder: building,
			types.SkillBasher:  bashing,
			types.SkillMiner:   mining,
			types.SkillDigger:  digging,
		},
		skillStates: map[types.SkillType]components.ActionState{
			types.SkillBlocker: components.StateBlocking,
			types.SkillBuilder: components.StateBuilding,
			types.SkillBasher:  components.StateBashing,
			types.SkillMiner:   components.StateMining,
			types.SkillDigger:  components.StateDigging,
		},
	}
	return t
}

// State 返回状态对应的处理器
func (t *Table) State(state components.ActionState) (Handler, bool) {
	h, ok := t.states[state]
	return h, ok
}

// Skill 返回技能对应的处理器，以及成功触发后要切换到的状态
// （攀爬/浮空/爆破不改变主状态，返回 StateNone）
func (t *Table) Skill(skill types.SkillType) (Handler, components.ActionState, bool) {
	h, ok := t.skills[skill]
	if !ok {
		return nil, components.StateNone, false
	}
	return h, t.skillStates[skill], true
}
