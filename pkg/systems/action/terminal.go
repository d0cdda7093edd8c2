package action

import "github.com/decker502/lemmings/pkg/components"

// Drowning 溺水
type Drowning struct{ passive }

func (Drowning) Name() string { return "drowner" }

func (Drowning) Enter(_ Env, lem *components.LemmingComponent) {
	lem.Disabled = true
}

// Process 每 tick 向开阔水面挪 1 像素，16 帧后离场
func (Drowning) Process(env Env, lem *components.LemmingComponent) components.ActionState {
	t := env.Terrain()
	if !t.HasGroundAt(lem.X+lem.Dir(), lem.Y-1) {
		lem.X += lem.Dir()
	}
	lem.Frame++
	if lem.Frame >= drownFrames {
		return components.StateOutOfLevel
	}
	return components.StateNone
}

// Exiting 进入出口
type Exiting struct{ passive }

func (Exiting) Name() string { return "exiter" }

func (Exiting) Enter(_ Env, lem *components.LemmingComponent) {
	lem.Disabled = true
}

// Process 播放 8 帧后计为幸存
func (Exiting) Process(_ Env, lem *components.LemmingComponent) components.ActionState {
	lem.Frame++
	if lem.Frame >= exitFrames {
		return components.StateExited
	}
	return components.StateNone
}

// Splatting 摔死
type Splatting struct{ passive }

func (Splatting) Name() string { return "splatter" }

func (Splatting) Enter(_ Env, lem *components.LemmingComponent) {
	lem.Disabled = true
}

func (Splatting) Process(_ Env, lem *components.LemmingComponent) components.ActionState {
	lem.Frame++
	if lem.Frame >= splatFrames {
		return components.StateOutOfLevel
	}
	return components.StateNone
}

// Shrugging 建造完成后耸肩
type Shrugging struct{ passive }

func (Shrugging) Name() string { return "shrugger" }

func (Shrugging) Process(_ Env, lem *components.LemmingComponent) components.ActionState {
	lem.Frame++
	if lem.Frame >= shrugFrames {
		return components.StateWalking
	}
	return components.StateNone
}

// OhNo 爆炸前的"哦不"
type OhNo struct{ passive }

func (OhNo) Name() string { return "ohno" }

// Process 脚下没有地面时每 tick 下落 1 像素，第 16 帧爆炸
func (OhNo) Process(env Env, lem *components.LemmingComponent) components.ActionState {
	t := env.Terrain()
	if !t.HasGroundAt(lem.X, lem.Y) {
		lem.Y++
		if outOfLevel(t, lem) {
			return components.StateOutOfLevel
		}
	}
	lem.Frame++
	if lem.Frame >= ohNoFrames {
		return components.StateExploding
	}
	return components.StateNone
}

// Exploding 爆炸
type Exploding struct {
	passive
	masks *MaskSet
}

// NewExploding 创建爆炸处理器
func NewExploding(masks *MaskSet) *Exploding {
	return &Exploding{masks: masks}
}

func (*Exploding) Name() string { return "exploder" }

// Enter 先撤销自己拥有的触发区域，再炸出坑洞
// 旅鼠立即计入死亡并被禁用，但爆炸动画继续播放
func (e *Exploding) Enter(env Env, lem *components.LemmingComponent) {
	env.Triggers().RemoveByOwner(lem.ID)
	env.Terrain().ApplyMask(e.masks.Explode(), lem.X, lem.Y, true)
	lem.Secondary = components.StateNone
	lem.CountdownTicks = 0
	lem.Disabled = true
	env.Retire(lem)
}

// Process 第 52 帧结束
func (*Exploding) Process(_ Env, lem *components.LemmingComponent) components.ActionState {
	lem.Frame++
	if lem.Frame >= explodeFrames {
		return components.StateOutOfLevel
	}
	return components.StateNone
}

// Countdown 爆破倒计时（次要处理器）
type Countdown struct{ passive }

func (Countdown) Name() string { return "countdown" }

// Process 每 tick 递减；归零时移除自身并把主状态切换为 OhNo
// 旅鼠已被禁用或即将离场时只移除自身
func (Countdown) Process(_ Env, lem *components.LemmingComponent) components.ActionState {
	if lem.Disabled || lem.Removed || lem.Action.Terminal() {
		lem.Secondary = components.StateNone
		lem.CountdownTicks = 0
		return components.StateNone
	}
	lem.CountdownTicks--
	if lem.CountdownTicks > 0 {
		return components.StateNone
	}
	lem.Secondary = components.StateNone
	lem.CountdownTicks = 0
	return components.StateOhNo
}
