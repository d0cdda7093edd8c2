package action

import (
	"github.com/decker502/lemmings/pkg/components"
	"github.com/decker502/lemmings/pkg/terrain"
	"github.com/decker502/lemmings/pkg/trigger"
)

// Digging 向下挖掘
type Digging struct{}

func (Digging) Name() string { return "digger" }

// Trigger 只有站在地面上的旅鼠才能开始挖
func (Digging) Trigger(env Env, lem *components.LemmingComponent) bool {
	return canAssign(lem, components.StateDigging) && env.Terrain().HasGroundAt(lem.X, lem.Y)
}

// Process 每 8 帧挖掉脚下 9 像素宽的一行并下降 1 像素
// 这一行已经没有地面时开始下落
func (Digging) Process(env Env, lem *components.LemmingComponent) components.ActionState {
	t := env.Terrain()
	frame := lem.Frame
	lem.NextFrame(digInterval*2, 0)
	if frame%digInterval != 0 {
		return components.StateNone
	}

	removed := 0
	for x := lem.X - digHalfWidth; x <= lem.X+digHalfWidth; x++ {
		if t.HasGroundAt(x, lem.Y) {
			t.ClearGroundAt(x, lem.Y)
			removed++
		}
	}
	if removed == 0 {
		return components.StateFalling
	}
	lem.Y++
	if outOfLevel(t, lem) {
		return components.StateOutOfLevel
	}
	return components.StateNone
}

// Building 建造楼梯
type Building struct{}

func (Building) Name() string { return "builder" }

func (Building) Trigger(env Env, lem *components.LemmingComponent) bool {
	return canAssign(lem, components.StateBuilding) && env.Terrain().HasGroundAt(lem.X, lem.Y)
}

// Process 16 帧一个周期
//   - 第 9 帧：在脚部上方一行铺 6 像素的砖
//   - 第 15 帧：向上 1、向前 2 像素；前方有障碍则掉头改为行走，头顶有天花板则停止
//
// 铺满 12 块砖后耸肩
func (Building) Process(env Env, lem *components.LemmingComponent) components.ActionState {
	t := env.Terrain()
	frame := lem.Frame
	lem.NextFrame(buildFrames, 0)
	dir := lem.Dir()

	switch frame {
	case 0:
		if !t.HasGroundAt(lem.X, lem.Y) {
			return components.StateFalling
		}
	case buildLayFrame:
		for i := 0; i < brickLength; i++ {
			t.SetGroundAt(lem.X+i*dir, lem.Y-1, terrain.ColorBrick)
		}
	case buildStepFrame:
		lem.SubState++
		if t.HasGroundAt(lem.X+dir, lem.Y-2) || t.HasGroundAt(lem.X+2*dir, lem.Y-2) {
			lem.Turn()
			return components.StateWalking
		}
		if t.HasGroundAt(lem.X+2*dir, lem.Y-1-bodyHeight) {
			return components.StateWalking
		}
		lem.Y--
		lem.X += 2 * dir
		if lem.SubState >= maxBricks {
			return components.StateShrugging
		}
	}
	return components.StateNone
}

// Blocking 阻挡者
type Blocking struct{}

func (Blocking) Name() string { return "blocker" }

func (Blocking) Trigger(env Env, lem *components.LemmingComponent) bool {
	return canAssign(lem, components.StateBlocking) && env.Terrain().HasGroundAt(lem.X, lem.Y)
}

// Enter 在两侧注册属于自己的转向区域
// 左侧区域让朝右走来的旅鼠掉头向左，右侧相反
func (Blocking) Enter(env Env, lem *components.LemmingComponent) {
	top, bottom := lem.Y-blockerAbove, lem.Y+blockerBelow
	reg := env.Triggers()
	reg.Add(trigger.Zone{
		X1: lem.X - blockerReach, Y1: top,
		X2: lem.X - 1, Y2: bottom,
		Effect: trigger.EffectBlockerLeft,
		Owner:  lem.ID,
	})
	reg.Add(trigger.Zone{
		X1: lem.X + 1, Y1: top,
		X2: lem.X + blockerReach, Y2: bottom,
		Effect: trigger.EffectBlockerRight,
		Owner:  lem.ID,
	})
}

// Process 脚下地面消失时撤销区域并下落
func (Blocking) Process(env Env, lem *components.LemmingComponent) components.ActionState {
	lem.NextFrame(blockerFrames, 0)
	if !env.Terrain().HasGroundAt(lem.X, lem.Y) {
		env.Triggers().RemoveByOwner(lem.ID)
		return components.StateFalling
	}
	return components.StateNone
}

// Bashing 水平猛击
type Bashing struct {
	masks *MaskSet
}

// NewBashing 创建猛击处理器
func NewBashing(masks *MaskSet) *Bashing {
	return &Bashing{masks: masks}
}

func (*Bashing) Name() string { return "basher" }

func (*Bashing) Trigger(env Env, lem *components.LemmingComponent) bool {
	return canAssign(lem, components.StateBashing) && env.Terrain().HasGroundAt(lem.X, lem.Y)
}

// Process 16 帧一个周期
//   - 第 2-5 帧：应用对应朝向的模板
//   - 第 5 帧：模板之外 4 像素内没有地面则恢复行走
//   - 第 11-15 帧：每帧前进 1 像素
func (b *Bashing) Process(env Env, lem *components.LemmingComponent) components.ActionState {
	t := env.Terrain()
	frame := lem.Frame
	lem.NextFrame(bashFrames, 0)

	if frame >= bashMaskFirst && frame <= bashMaskLast {
		t.ApplyMask(b.masks.Bash(lem.Facing, frame-bashMaskFirst), lem.X, lem.Y, true)
		if frame == bashMaskLast && !b.materialAhead(t, lem) {
			return components.StateWalking
		}
	}
	if frame >= bashAdvanceFirst {
		lem.X += lem.Dir()
		return stepOrFall(t, lem)
	}
	return components.StateNone
}

// materialAhead 检查模板范围之外、身体高度内是否还有地面
func (b *Bashing) materialAhead(t Terrain, lem *components.LemmingComponent) bool {
	dir := lem.Dir()
	for k := 0; k < bashClearance; k++ {
		x := lem.X + (b.masks.bashReach+k)*dir
		for y := lem.Y - bodyHeight + 1; y < lem.Y; y++ {
			if t.HasGroundAt(x, y) {
				return true
			}
		}
	}
	return false
}

// Mining 斜向下挖掘
type Mining struct {
	masks *MaskSet
}

// NewMining 创建采矿处理器
func NewMining(masks *MaskSet) *Mining {
	return &Mining{masks: masks}
}

func (*Mining) Name() string { return "miner" }

func (*Mining) Trigger(env Env, lem *components.LemmingComponent) bool {
	return canAssign(lem, components.StateMining) && env.Terrain().HasGroundAt(lem.X, lem.Y)
}

// Process 24 帧一个周期
//   - 第 1-2 帧：应用模板
//   - 第 3 帧：向前 1、向下 1 像素
//   - 第 15 帧：向前 1 像素
//
// 移动后脚下没有地面则下落
func (m *Mining) Process(env Env, lem *components.LemmingComponent) components.ActionState {
	t := env.Terrain()
	frame := lem.Frame
	lem.NextFrame(mineFrames, 0)

	switch {
	case frame >= mineMaskFirst && frame <= mineMaskLast:
		t.ApplyMask(m.masks.Mine(lem.Facing, frame-mineMaskFirst), lem.X, lem.Y, true)
	case frame == mineStepFrame:
		lem.X += lem.Dir()
		lem.Y++
		if outOfLevel(t, lem) {
			return components.StateOutOfLevel
		}
		if !t.HasGroundAt(lem.X, lem.Y) {
			return components.StateFalling
		}
	case frame == mineForwardFrame:
		lem.X += lem.Dir()
		if !t.HasGroundAt(lem.X, lem.Y) {
			return components.StateFalling
		}
	}
	return components.StateNone
}

// ClimberSkill 赋予攀爬能力（永久，不改变状态）
type ClimberSkill struct{ passiveProcess }

func (ClimberSkill) Name() string { return "climber-skill" }

func (ClimberSkill) Trigger(_ Env, lem *components.LemmingComponent) bool {
	if lem.CanClimb || lem.Action.Terminal() {
		return false
	}
	lem.CanClimb = true
	return true
}

// FloaterSkill 赋予降落伞（永久，不改变状态）
type FloaterSkill struct{ passiveProcess }

func (FloaterSkill) Name() string { return "floater-skill" }

func (FloaterSkill) Trigger(_ Env, lem *components.LemmingComponent) bool {
	if lem.HasParachute || lem.Action.Terminal() {
		return false
	}
	lem.HasParachute = true
	return true
}

// BomberSkill 挂上爆破倒计时
type BomberSkill struct{ passiveProcess }

func (BomberSkill) Name() string { return "bomber-skill" }

func (BomberSkill) Trigger(_ Env, lem *components.LemmingComponent) bool {
	if lem.Secondary != components.StateNone || lem.Action.Terminal() {
		return false
	}
	lem.Secondary = components.StateCountdown
	lem.CountdownTicks = countdownTicks
	return true
}

// passiveProcess 只提供技能入口、不作为状态运行的处理器
type passiveProcess struct{}

func (passiveProcess) Process(Env, *components.LemmingComponent) components.ActionState {
	return components.StateNone
}
