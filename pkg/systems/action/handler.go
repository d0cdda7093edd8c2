// Package action 实现旅鼠的动作处理器
//
// 每个状态对应一个处理器实例，由所有处于该状态的旅鼠共享。
// 处理器本身不保存任何与具体旅鼠相关的数据，所有可变状态都在 LemmingComponent 上。
package action

import (
	"github.com/decker502/lemmings/pkg/components"
	"github.com/decker502/lemmings/pkg/ecs"
	"github.com/decker502/lemmings/pkg/terrain"
	"github.com/decker502/lemmings/pkg/trigger"
)

// Terrain 处理器可见的地形接口
// 处理器只能通过这些方法读写地形，不能持有底层存储的引用
type Terrain interface {
	Width() int
	Height() int
	HasGroundAt(x, y int) bool
	SetGroundAt(x, y int, colorIndex uint8)
	ClearGroundAt(x, y int)
	ApplyMask(m terrain.Mask, x, y int, erase bool)
}

// Triggers 处理器可见的触发区域接口
type Triggers interface {
	Add(zone trigger.Zone) int
	RemoveByOwner(owner ecs.EntityID) int
}

// Env 处理器运行环境，由 LemmingManager 提供
type Env interface {
	Terrain() Terrain
	Triggers() Triggers
	Tick() uint64
	// Retire 提前把旅鼠计入死亡（爆炸在动画开始时即结算）
	// 同一只旅鼠多次调用只生效一次
	Retire(lem *components.LemmingComponent)
}

// Handler 动作处理器
type Handler interface {
	// Name 返回诊断用名称
	Name() string
	// Process 执行一个 tick，返回下一个状态；StateNone 表示不变
	Process(env Env, lem *components.LemmingComponent) components.ActionState
	// Trigger 玩家对旅鼠使用技能时调用，返回是否生效
	Trigger(env Env, lem *components.LemmingComponent) bool
}

// Enterer 需要在进入状态时执行一次性动作的处理器
// （禁用旅鼠、注册阻挡区域、爆炸挖坑等）
type Enterer interface {
	Enter(env Env, lem *components.LemmingComponent)
}

// passive 不接受玩家技能的处理器（只能由自动转换进入）
type passive struct{}

func (passive) Trigger(Env, *components.LemmingComponent) bool { return false }

// skillSources 可以被分配工作类技能的状态
var skillSources = map[components.ActionState]bool{
	components.StateWalking:   true,
	components.StateBuilding:  true,
	components.StateDigging:   true,
	components.StateMining:    true,
	components.StateBashing:   true,
	components.StateShrugging: true,
}

// canAssign 判断旅鼠能否切换到 target 工作状态
func canAssign(lem *components.LemmingComponent, target components.ActionState) bool {
	if lem.Removed || lem.Disabled {
		return false
	}
	return skillSources[lem.Action] && lem.Action != target
}

// groundAbove 统计 (x,y) 上方连续的地面像素（不含 y 本身），最多统计 limit 个
func groundAbove(t Terrain, x, y, limit int) int {
	n := 0
	for n < limit && t.HasGroundAt(x, y-1-n) {
		n++
	}
	return n
}

// outOfLevel 判断旅鼠是否已离开关卡底部
func outOfLevel(t Terrain, lem *components.LemmingComponent) bool {
	return lem.Y >= t.Height()
}

// stepOrFall 前进后检查脚下：有地面保持，1-3 像素落差下台阶，否则下落
func stepOrFall(t Terrain, lem *components.LemmingComponent) components.ActionState {
	if t.HasGroundAt(lem.X, lem.Y) {
		return components.StateNone
	}
	for d := 1; d <= maxStepDown; d++ {
		if t.HasGroundAt(lem.X, lem.Y+d) {
			lem.Y += d
			return components.StateNone
		}
	}
	return components.StateFalling
}
