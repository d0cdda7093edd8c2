package action

import "github.com/decker502/lemmings/pkg/components"

// Walking 行走
type Walking struct{ passive }

func (Walking) Name() string { return "walker" }

// Process 每 tick 前进 1 像素
//
// 前方一列从脚部所在行起向上连续的地面高度 h（含脚部这一行）：
//   - h >= 8：墙，有攀爬能力则攀爬，否则掉头（位置不变）
//   - h <= 4：走上去 h-1 像素
//   - 其余：跳
//
// 前方没有地面：1-3 像素内找到地面就走下去，否则下落
func (Walking) Process(env Env, lem *components.LemmingComponent) components.ActionState {
	t := env.Terrain()
	lem.NextFrame(walkFrames, 0)

	nx := lem.X + lem.Dir()
	if !t.HasGroundAt(nx, lem.Y) {
		lem.X = nx
		return stepOrFall(t, lem)
	}

	rise := groundAbove(t, nx, lem.Y, wallHeight-1)
	switch {
	case rise+1 >= wallHeight:
		if lem.CanClimb {
			return components.StateClimbing
		}
		lem.Turn()
		return components.StateNone
	case rise > maxStepUp:
		lem.X = nx
		return components.StateJumping
	default:
		lem.X = nx
		lem.Y -= rise
		return components.StateNone
	}
}

// Falling 下落
type Falling struct{ passive }

func (Falling) Name() string { return "faller" }

// Process 每 tick 最多下落 3 像素，FallDistance 记录连续下落距离
func (Falling) Process(env Env, lem *components.LemmingComponent) components.ActionState {
	t := env.Terrain()
	lem.NextFrame(4, 0)

	for i := 0; i < fallSpeed; i++ {
		if t.HasGroundAt(lem.X, lem.Y) {
			return land(lem)
		}
		lem.Y++
		lem.FallDistance++
		if outOfLevel(t, lem) {
			return components.StateOutOfLevel
		}
	}
	if t.HasGroundAt(lem.X, lem.Y) {
		return land(lem)
	}
	if lem.HasParachute && lem.FallDistance > floatThreshold {
		return components.StateFloating
	}
	return components.StateNone
}

func land(lem *components.LemmingComponent) components.ActionState {
	if lem.FallDistance > splatThreshold {
		return components.StateSplatting
	}
	return components.StateWalking
}

// Jumping 跳上 4-6 像素的台阶
type Jumping struct{ passive }

func (Jumping) Name() string { return "jumper" }

// Process 头顶仍是地面时每 tick 上升最多 2 像素，到顶后恢复行走
func (Jumping) Process(env Env, lem *components.LemmingComponent) components.ActionState {
	t := env.Terrain()
	for i := 0; i < jumpSpeed; i++ {
		if !t.HasGroundAt(lem.X, lem.Y-1) {
			return components.StateWalking
		}
		lem.Y--
	}
	if !t.HasGroundAt(lem.X, lem.Y-1) {
		return components.StateWalking
	}
	return components.StateNone
}

// Floating 打伞下落
type Floating struct{ passive }

func (Floating) Name() string { return "floater" }

// Process 按速度表移动，第一轮之后从第 8 帧开始循环（伞保持张开）
func (Floating) Process(env Env, lem *components.LemmingComponent) components.ActionState {
	t := env.Terrain()
	speed := floatSpeeds[lem.Frame]
	lem.NextFrame(floatFrames, floatLoopFrom)

	if speed < 0 {
		lem.Y += speed
		return components.StateNone
	}
	for i := 0; i < speed; i++ {
		if t.HasGroundAt(lem.X, lem.Y) {
			return components.StateWalking
		}
		lem.Y++
		if outOfLevel(t, lem) {
			return components.StateOutOfLevel
		}
	}
	if t.HasGroundAt(lem.X, lem.Y) {
		return components.StateWalking
	}
	return components.StateNone
}

// Climbing 攀爬
type Climbing struct{ passive }

func (Climbing) Name() string { return "climber" }

// Process 沿前方的墙每 tick 上升 1 像素
// 头顶碰到天花板则掉头离开墙面并下落；墙到顶时翻越
func (Climbing) Process(env Env, lem *components.LemmingComponent) components.ActionState {
	t := env.Terrain()
	lem.NextFrame(climbFrames, 0)

	if t.HasGroundAt(lem.X, lem.Y-climbHeadroom) {
		lem.Turn()
		lem.X += lem.Dir()
		return components.StateFalling
	}
	if !t.HasGroundAt(lem.X+lem.Dir(), lem.Y-climbTopOffset) {
		return components.StateHoisting
	}
	lem.Y--
	return components.StateNone
}

// Hoisting 攀爬到顶后翻越
type Hoisting struct{ passive }

func (Hoisting) Name() string { return "hoister" }

// Process 前 4 帧每帧上升 2 像素，后 4 帧保持，共 8 帧
func (Hoisting) Process(_ Env, lem *components.LemmingComponent) components.ActionState {
	if lem.Frame < hoistRiseFrames {
		lem.Y -= hoistSpeed
	}
	lem.Frame++
	if lem.Frame >= hoistFrames {
		return components.StateWalking
	}
	return components.StateNone
}
