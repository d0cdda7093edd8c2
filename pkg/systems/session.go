package systems

import (
	"log"

	"github.com/decker502/lemmings/pkg/ecs"
	"github.com/decker502/lemmings/pkg/game"
	"github.com/decker502/lemmings/pkg/level"
	"github.com/decker502/lemmings/pkg/systems/action"
	"github.com/decker502/lemmings/pkg/types"
)

// MaxStepsPerUpdate 单次 Advance 最多推进的 tick 数
// 卡顿后不会一次性追赶过多 tick，多余的时间被丢弃
const MaxStepsPerUpdate = 32

// FinishListener 关卡结束回调
type FinishListener func(outcome game.Outcome, saved int, ticks uint64)

// Session 交互式宿主（桌面、终端）共用的关卡会话
//
// 职责：
//   - 把真实时间换算为 tick（累加器 × 速度倍率），暂停时不推进
//   - 技能选择、释放速率调整、点击旅鼠
//   - 关卡结束时只通知一次
type Session struct {
	manager *LemmingManager
	level   *level.Level

	accumulator float64
	paused      bool
	outcome     game.Outcome
	notified    bool

	onFinish []FinishListener
}

// NewSession 为已加载的关卡创建会话
func NewSession(lvl *level.Level, masks *action.MaskSet) *Session {
	return &Session{
		manager: NewForLevel(lvl, masks),
		level:   lvl,
	}
}

// Manager 返回旅鼠管理器
func (s *Session) Manager() *LemmingManager { return s.manager }

// Level 返回关卡
func (s *Session) Level() *level.Level { return s.level }

// OnFinish 注册关卡结束回调
func (s *Session) OnFinish(listener FinishListener) {
	if listener != nil {
		s.onFinish = append(s.onFinish, listener)
	}
}

// Advance 累加 dt×speed 秒的模拟时间，按 1/TicksPerSecond 的步长推进
// 返回本次推进的 tick 数
func (s *Session) Advance(dt, speed float64) int {
	if s.paused || s.outcome.Finished() || dt <= 0 || speed <= 0 {
		return 0
	}

	const step = 1.0 / game.TicksPerSecond
	s.accumulator += dt * speed
	steps := 0
	for s.accumulator >= step && steps < MaxStepsPerUpdate {
		s.accumulator -= step
		s.StepOnce()
		steps++
		if s.outcome.Finished() {
			break
		}
	}
	if steps == MaxStepsPerUpdate && s.accumulator >= step {
		s.accumulator = 0
	}
	return steps
}

// StepOnce 推进一个 tick（单步调试、终端宿主的 ticker 使用）
func (s *Session) StepOnce() game.Outcome {
	if s.outcome.Finished() {
		return s.outcome
	}
	s.outcome = s.manager.Step()
	if s.outcome.Finished() && !s.notified {
		s.notified = true
		saved := s.level.Counter.GetSurvivorsCount()
		ticks := s.manager.Tick()
		for _, l := range s.onFinish {
			l(s.outcome, saved, ticks)
		}
	}
	return s.outcome
}

// Outcome 返回最近一次 tick 后的关卡结果
func (s *Session) Outcome() game.Outcome { return s.outcome }

// Finished 判断关卡是否结束
func (s *Session) Finished() bool { return s.outcome.Finished() }

// SetPaused 暂停/恢复
func (s *Session) SetPaused(paused bool) {
	s.paused = paused
	s.level.Clock.SetPaused(paused)
}

// TogglePause 切换暂停状态并返回新状态
func (s *Session) TogglePause() bool {
	s.SetPaused(!s.paused)
	return s.paused
}

// Paused 返回是否暂停
func (s *Session) Paused() bool { return s.paused }

// SelectSkillIndex 按技能面板顺序选择技能（0 起）
func (s *Session) SelectSkillIndex(index int) bool {
	if index < 0 || index >= len(types.AllSkills) {
		return false
	}
	s.level.Skills.Select(types.AllSkills[index])
	return true
}

// SelectedIndex 返回当前技能在面板中的位置，未选择返回 -1
func (s *Session) SelectedIndex() int {
	selected := s.level.Skills.Selected()
	for i, skill := range types.AllSkills {
		if skill == selected {
			return i
		}
	}
	return -1
}

// AdjustRate 释放速率加减 delta，返回新速率
func (s *Session) AdjustRate(delta int) int {
	return s.manager.SetSpawnRate(s.level.Counter.SpawnRate() + delta)
}

// ApplyAt 对世界坐标处的旅鼠使用当前技能
// 返回被点中的旅鼠和技能是否生效
func (s *Session) ApplyAt(x, y int) (ecs.EntityID, bool) {
	if s.outcome.Finished() {
		return 0, false
	}
	id, ok := s.manager.LemmingAt(x, y)
	if !ok {
		return 0, false
	}
	applied := s.manager.TriggerSelected(id)
	if !applied {
		log.Printf("[Session] Skill %s rejected for lemming %d", s.level.Skills.Selected(), id)
	}
	return id, applied
}
