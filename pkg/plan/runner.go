package plan

import (
	"log"

	"github.com/decker502/lemmings/pkg/ecs"
	"github.com/decker502/lemmings/pkg/systems"
)

// Result 一个操作的执行结果
type Result struct {
	Action  Action
	Tick    uint64       // 实际执行时的 tick
	Lemming ecs.EntityID // 技能目标，0 表示没有找到
	Applied bool
	Reason  string // 未生效的原因
}

// Runner 在模拟过程中按 tick 执行方案
//
// 调用方在每次 Step 之后调用 Apply；tick 为 T 的操作在第 T 个 tick 结束后执行，
// 与玩家在两个 tick 之间点击旅鼠的时机相同。
type Runner struct {
	plan    *Plan
	manager *systems.LemmingManager

	next    int
	spawned []ecs.EntityID
	results []Result
}

// NewRunner 创建执行器并订阅管理器的出生事件（用于把出生顺序映射为实体ID）
func NewRunner(p *Plan, manager *systems.LemmingManager) *Runner {
	r := &Runner{plan: p, manager: manager}
	manager.Subscribe(func(ev systems.Event) {
		if ev.Kind == systems.EventSpawned {
			r.spawned = append(r.spawned, ev.Lemming)
		}
	})
	return r
}

// Apply 执行所有 tick 不晚于当前 tick 的操作，返回本次执行的结果
func (r *Runner) Apply() []Result {
	tick := r.manager.Tick()
	var out []Result
	for r.next < len(r.plan.Actions) && r.plan.Actions[r.next].Tick <= tick {
		res := r.apply(r.plan.Actions[r.next], tick)
		r.next++
		if !res.Applied {
			log.Printf("[PlanRunner] Action %s not applied: %s", res.Action, res.Reason)
		}
		r.results = append(r.results, res)
		out = append(out, res)
	}
	return out
}

func (r *Runner) apply(a Action, tick uint64) Result {
	res := Result{Action: a, Tick: tick}

	if a.IsRate() {
		got := r.manager.SetSpawnRate(*a.Rate)
		res.Applied = got == *a.Rate
		if !res.Applied {
			res.Reason = "rate clamped to level minimum"
		}
		return res
	}

	switch {
	case a.Lemming > 0:
		if a.Lemming > len(r.spawned) {
			res.Reason = "lemming not released yet"
			return res
		}
		res.Lemming = r.spawned[a.Lemming-1]
	default:
		id, ok := r.manager.LemmingAt(a.At[0], a.At[1])
		if !ok {
			res.Reason = "no lemming at position"
			return res
		}
		res.Lemming = id
	}

	r.manager.Level().Skills.Select(a.Skill)
	res.Applied = r.manager.TriggerSelected(res.Lemming)
	if !res.Applied {
		res.Reason = "skill rejected"
	}
	return res
}

// Results 返回目前为止所有操作的结果
func (r *Runner) Results() []Result { return r.results }

// Pending 返回尚未执行的操作数
func (r *Runner) Pending() int { return len(r.plan.Actions) - r.next }

// Spawned 返回已出生的旅鼠数量
func (r *Runner) Spawned() int { return len(r.spawned) }
