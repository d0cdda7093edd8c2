package systems

import (
	"log"

	"github.com/decker502/lemmings/pkg/components"
	"github.com/decker502/lemmings/pkg/ecs"
	"github.com/decker502/lemmings/pkg/game"
	"github.com/decker502/lemmings/pkg/level"
	"github.com/decker502/lemmings/pkg/systems/action"
	"github.com/decker502/lemmings/pkg/trigger"
	"github.com/decker502/lemmings/pkg/types"
)

// 新旅鼠相对入口物体的出生偏移
const (
	SpawnOffsetX = 24
	SpawnOffsetY = 14
)

// LemmingManager 旅鼠管理器
// 职责：
//   - 按释放速率从第一个入口生成旅鼠
//   - 以创建顺序逐个派发：次要处理器 → 主处理器 → 触发区域
//   - 应用状态转换、移除旅鼠并维护胜负统计
//   - 处理玩家技能请求（立即生效，不排队到 tick 中）
//
// 单线程使用：Update 与 TriggerLemming 必须在同一个 goroutine 中调用。
type LemmingManager struct {
	entityManager *ecs.EntityManager
	level         *level.Level
	table         *action.Table

	releaseTimer int
	tick         uint64
	finished     bool

	listeners []EventListener
}

// NewLemmingManager 创建旅鼠管理器
// 参数:
//   - em: EntityManager 实例，旅鼠作为实体保存
//   - lvl: 已加载的关卡
//   - table: 处理器表
func NewLemmingManager(em *ecs.EntityManager, lvl *level.Level, table *action.Table) *LemmingManager {
	if _, ok := lvl.Entrance(); !ok {
		log.Printf("[LemmingManager] Warning: level %q has no entrance, no lemmings will be released", lvl.ID)
	}
	return &LemmingManager{
		entityManager: em,
		level:         lvl,
		table:         table,
	}
}

// NewForLevel 用新的实体管理器和处理器表为关卡创建管理器
func NewForLevel(lvl *level.Level, masks *action.MaskSet) *LemmingManager {
	return NewLemmingManager(ecs.NewEntityManager(), lvl, action.NewTable(masks))
}

// Subscribe 注册事件回调
func (m *LemmingManager) Subscribe(listener EventListener) {
	if listener != nil {
		m.listeners = append(m.listeners, listener)
	}
}

func (m *LemmingManager) emit(e Event) {
	if len(m.listeners) == 0 {
		return
	}
	e.Tick = m.tick
	for _, l := range m.listeners {
		l(e)
	}
}

// ---- action.Env ----

// Terrain 实现 action.Env
func (m *LemmingManager) Terrain() action.Terrain { return m.level.Terrain }

// Triggers 实现 action.Env
func (m *LemmingManager) Triggers() action.Triggers { return m.level.Triggers }

// Tick 返回最近一次 Update 的 tick
func (m *LemmingManager) Tick() uint64 { return m.tick }

// Retire 实现 action.Env：把旅鼠计入死亡，只生效一次
func (m *LemmingManager) Retire(lem *components.LemmingComponent) {
	if lem.Accounted {
		return
	}
	lem.Accounted = true
	m.level.Counter.RemoveOne()
	m.emit(Event{Kind: EventDied, Lemming: lem.ID, State: lem.Action, X: lem.X, Y: lem.Y})
}

// Step 推进时钟一个 tick、运行模拟并返回关卡结果
// 关卡结束后不再推进
func (m *LemmingManager) Step() game.Outcome {
	if m.finished {
		return m.level.Outcome()
	}
	return m.RunTick(m.level.Clock.Advance())
}

// RunTick 运行时钟已经推进到的 tick 并返回关卡结果
// 由 SimulationClock.Run 的回调使用；Step 是先推进时钟再调用它
func (m *LemmingManager) RunTick(tick uint64) game.Outcome {
	if m.finished {
		return m.level.Outcome()
	}
	m.Update(tick)
	outcome := m.level.Outcome()
	if outcome.Finished() {
		m.finished = true
		log.Printf("[LemmingManager] Level %q finished at tick %d: %s (saved %d/%d)",
			m.level.ID, m.tick, outcome, m.level.Counter.GetSurvivorsCount(), m.level.Counter.GetNeedCount())
		m.emit(Event{Kind: EventFinished, Detail: outcome.String()})
	}
	return outcome
}

// Update 执行一个 tick：先生成，再按创建顺序派发，最后清理已移除的实体
func (m *LemmingManager) Update(tick uint64) {
	m.tick = tick

	m.spawn()

	for _, id := range ecs.GetEntitiesWith1[*components.LemmingComponent](m.entityManager) {
		lem, ok := ecs.GetComponent[*components.LemmingComponent](m.entityManager, id)
		if !ok || lem.Removed {
			continue
		}
		m.dispatch(lem)
	}

	m.entityManager.RemoveMarkedEntities()
}

// spawn 释放计时器达到 100-释放速率 时生成一只下落状态的旅鼠
func (m *LemmingManager) spawn() {
	counter := m.level.Counter
	if counter.Remaining() <= 0 {
		return
	}
	m.releaseTimer++
	if m.releaseTimer < counter.SpawnInterval() {
		return
	}
	m.releaseTimer = 0

	entrance, ok := m.level.Entrance()
	if !ok || !counter.ReleaseOne() {
		return
	}

	id := m.entityManager.CreateEntity()
	lem := components.NewLemming(id, entrance.X+SpawnOffsetX, entrance.Y+SpawnOffsetY, components.StateFalling)
	ecs.AddComponent(m.entityManager, id, lem)
	m.emit(Event{Kind: EventSpawned, Lemming: id, State: lem.Action, X: lem.X, Y: lem.Y})
}

// dispatch 派发单只旅鼠
func (m *LemmingManager) dispatch(lem *components.LemmingComponent) {
	skipPrimary := false
	if lem.Secondary != components.StateNone {
		h, ok := m.table.State(lem.Secondary)
		if !ok {
			log.Printf("[LemmingManager] Warning: lemming %d has unknown secondary state %s, dropping it", lem.ID, lem.Secondary)
			lem.Secondary = components.StateNone
		} else if next := h.Process(m, lem); next != components.StateNone {
			m.applyTransition(lem, next)
			skipPrimary = true
		}
	}

	if !skipPrimary && !lem.Removed {
		h, ok := m.table.State(lem.Action)
		if !ok {
			log.Printf("[LemmingManager] Error: no handler for state %s, removing lemming %d", lem.Action, lem.ID)
			m.remove(lem, false)
			return
		}
		if next := h.Process(m, lem); next != components.StateNone {
			m.applyTransition(lem, next)
		}
	}

	if !lem.Matchable() {
		return
	}
	effect := m.level.Triggers.Resolve(lem.X, lem.Y, m.tick)
	if effect == trigger.EffectNone {
		return
	}
	m.emit(Event{Kind: EventTrigger, Lemming: lem.ID, Effect: effect, X: lem.X, Y: lem.Y})
	m.applyEffect(lem, effect)
}

// applyEffect 把触发效果转换为状态转换或朝向改变
func (m *LemmingManager) applyEffect(lem *components.LemmingComponent, effect trigger.Effect) {
	switch effect {
	case trigger.EffectDrown:
		m.applyTransition(lem, components.StateDrowning)
	case trigger.EffectExit:
		m.applyTransition(lem, components.StateExiting)
	case trigger.EffectKill:
		m.applyTransition(lem, components.StateExploding)
	case trigger.EffectTrap:
		m.applyTransition(lem, components.StateHoisting)
	case trigger.EffectBlockerLeft:
		if lem.Facing == components.FacingRight {
			lem.Facing = components.FacingLeft
		}
	case trigger.EffectBlockerRight:
		if lem.Facing == components.FacingLeft {
			lem.Facing = components.FacingRight
		}
	}
}

// applyTransition 应用状态转换
//
// OUT_OF_LEVEL 与 EXITED 不派发给处理器，直接移除；
// 其余状态重置动画帧并替换主处理器，处理器有进入动作时立即执行。
// 阻挡者无论因何离开阻挡状态，都会失去自己的阻挡区域。
func (m *LemmingManager) applyTransition(lem *components.LemmingComponent, state components.ActionState) {
	switch state {
	case components.StateNone:
		return
	case components.StateOutOfLevel:
		m.remove(lem, false)
		return
	case components.StateExited:
		m.remove(lem, true)
		return
	}
	if lem.Removed {
		return
	}

	h, ok := m.table.State(state)
	if !ok {
		log.Printf("[LemmingManager] Error: requested unknown state %s for lemming %d, removing it", state, lem.ID)
		m.remove(lem, false)
		return
	}

	from := lem.Action
	if from == components.StateBlocking && state != components.StateBlocking {
		// 离开阻挡状态时撤销它的阻挡区域
		m.level.Triggers.RemoveByOwner(lem.ID)
	}
	lem.SetAction(state)
	if e, ok := h.(action.Enterer); ok {
		e.Enter(m, lem)
	}
	m.emit(Event{Kind: EventTransition, Lemming: lem.ID, State: state, X: lem.X, Y: lem.Y, Detail: from.String()})
}

// remove 移除旅鼠（幂等）
// 第一次移除时撤销它拥有的触发区域并更新统计，之后的调用没有任何效果。
// 实体在本 tick 结束时才真正删除。
func (m *LemmingManager) remove(lem *components.LemmingComponent, survived bool) {
	if lem.Removed {
		return
	}
	lem.Removed = true
	lem.Secondary = components.StateNone
	m.level.Triggers.RemoveByOwner(lem.ID)

	if !lem.Accounted {
		lem.Accounted = true
		if survived {
			m.level.Counter.AddSurvivor()
			m.emit(Event{Kind: EventSaved, Lemming: lem.ID, X: lem.X, Y: lem.Y})
		} else {
			m.level.Counter.RemoveOne()
			m.emit(Event{Kind: EventDied, Lemming: lem.ID, State: lem.Action, X: lem.X, Y: lem.Y})
		}
	}
	m.entityManager.DestroyEntity(lem.ID)
}

// TriggerLemming 对旅鼠使用技能
// 技能次数 > 0 且处理器接受时才扣减次数；非法技能或旅鼠不可选中时返回 false
func (m *LemmingManager) TriggerLemming(skill types.SkillType, id ecs.EntityID) bool {
	skills := m.level.Skills
	if !skills.CanUseSkill(skill) {
		return false
	}
	lem, ok := ecs.GetComponent[*components.LemmingComponent](m.entityManager, id)
	if !ok || !lem.Selectable() {
		return false
	}
	h, state, ok := m.table.Skill(skill)
	if !ok {
		return false
	}
	if !h.Trigger(m, lem) {
		return false
	}
	if state != components.StateNone {
		m.applyTransition(lem, state)
	}
	skills.DecrementSkill(skill)
	m.emit(Event{Kind: EventSkill, Lemming: id, Skill: skill, X: lem.X, Y: lem.Y})
	return true
}

// TriggerSelected 对旅鼠使用当前选择的技能
func (m *LemmingManager) TriggerSelected(id ecs.EntityID) bool {
	return m.TriggerLemming(m.level.Skills.Selected(), id)
}

// LemmingAt 返回身体包围盒包含 (x,y) 的可选中旅鼠，多只重叠时取最近的
func (m *LemmingManager) LemmingAt(x, y int) (ecs.EntityID, bool) {
	var best ecs.EntityID
	bestDist := -1
	for _, id := range ecs.GetEntitiesWith1[*components.LemmingComponent](m.entityManager) {
		lem, ok := ecs.GetComponent[*components.LemmingComponent](m.entityManager, id)
		if !ok || !lem.Selectable() {
			continue
		}
		dx, dy := x-lem.X, y-(lem.Y-action.BodyHeight/2)
		if x < lem.X-action.PickHalfWidth || x > lem.X+action.PickHalfWidth ||
			y < lem.Y-action.BodyHeight || y > lem.Y {
			continue
		}
		if dist := dx*dx + dy*dy; bestDist < 0 || dist < bestDist {
			best, bestDist = id, dist
		}
	}
	return best, bestDist >= 0
}

// SetSpawnRate 调整释放速率（不能低于关卡给定值）
func (m *LemmingManager) SetSpawnRate(rate int) int {
	return m.level.Counter.SetSpawnRate(rate)
}

// Lemming 返回旅鼠组件
func (m *LemmingManager) Lemming(id ecs.EntityID) (*components.LemmingComponent, bool) {
	return ecs.GetComponent[*components.LemmingComponent](m.entityManager, id)
}

// Visuals 返回所有未移除旅鼠的渲染元组（按创建顺序）
func (m *LemmingManager) Visuals() []components.VisualState {
	ids := ecs.GetEntitiesWith1[*components.LemmingComponent](m.entityManager)
	out := make([]components.VisualState, 0, len(ids))
	for _, id := range ids {
		lem, ok := ecs.GetComponent[*components.LemmingComponent](m.entityManager, id)
		if !ok || lem.Removed {
			continue
		}
		out = append(out, lem.Visual())
	}
	return out
}

// Zones 返回触发区域快照（调试叠加层使用）
func (m *LemmingManager) Zones() []trigger.Zone {
	return m.level.Triggers.Zones()
}

// Level 返回关卡
func (m *LemmingManager) Level() *level.Level {
	return m.level
}
