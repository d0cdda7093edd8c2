package components

import (
	"fmt"

	"github.com/decker502/lemmings/pkg/ecs"
)

// Facing 旅鼠朝向
type Facing int

const (
	// FacingRight 朝右
	FacingRight Facing = iota
	// FacingLeft 朝左
	FacingLeft
)

// String 返回朝向名称
func (f Facing) String() string {
	if f == FacingLeft {
		return "left"
	}
	return "right"
}

// ActionState 旅鼠动作状态
// 每个状态对应 action 包中的一个处理器；StateNone 表示"无变化"
type ActionState int

const (
	// StateNone 无状态变化（处理器返回值）/ 无次要处理器
	StateNone ActionState = iota
	StateWalking
	StateFalling
	StateJumping
	StateDigging
	StateClimbing
	StateHoisting
	StateBuilding
	StateBlocking
	StateBashing
	StateFloating
	StateMining
	StateDrowning
	StateExiting
	StateExploding
	StateOhNo
	// StateCountdown 爆破倒计时，只作为次要处理器使用
	StateCountdown
	StateSplatting
	StateShrugging
	// StateOutOfLevel 离开关卡（死亡）：不派发给任何处理器，直接移除
	StateOutOfLevel
	// StateExited 出口动画结束：移除并记为幸存者
	StateExited
)

var stateNames = map[ActionState]string{
	StateNone:       "none",
	StateWalking:    "walking",
	StateFalling:    "falling",
	StateJumping:    "jumping",
	StateDigging:    "digging",
	StateClimbing:   "climbing",
	StateHoisting:   "hoisting",
	StateBuilding:   "building",
	StateBlocking:   "blocking",
	StateBashing:    "bashing",
	StateFloating:   "floating",
	StateMining:     "mining",
	StateDrowning:   "drowning",
	StateExiting:    "exiting",
	StateExploding:  "exploding",
	StateOhNo:       "ohno",
	StateCountdown:  "countdown",
	StateSplatting:  "splatting",
	StateShrugging:  "shrugging",
	StateOutOfLevel: "out-of-level",
	StateExited:     "exited",
}

// String 返回状态名称
func (s ActionState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Terminal 判断是否为移除类状态
func (s ActionState) Terminal() bool {
	return s == StateOutOfLevel || s == StateExited
}

// LemmingComponent 旅鼠（代理）的全部可变状态
//
// 处理器是无状态的，所有与具体旅鼠相关的数据都保存在这里。
type LemmingComponent struct {
	ID ecs.EntityID

	X, Y   int // 脚部坐标：站立时 (X,Y) 为脚下最上方的地面像素
	Facing Facing

	Action    ActionState // 主处理器
	Secondary ActionState // 次要处理器（仅爆破倒计时），StateNone 表示无

	Frame    int // 动画帧
	SubState int // 处理器私有的计数器，含义由处理器决定
	// FallDistance 连续下落的像素数，与 SubState 分开保存
	FallDistance int

	CanClimb       bool
	HasParachute   bool
	Disabled       bool // 溺水/退出/摔死中：不参与触发、不可选中，但仍运行处理器
	Removed        bool // 已移除：不再派发、不参与触发、不可选中
	Accounted      bool // 已计入胜负统计（removeOne/addSurvivor 只执行一次）
	CountdownTicks int
}

// NewLemming 创建处于指定状态的旅鼠
func NewLemming(id ecs.EntityID, x, y int, state ActionState) *LemmingComponent {
	return &LemmingComponent{
		ID:     id,
		X:      x,
		Y:      y,
		Facing: FacingRight,
		Action: state,
	}
}

// SetAction 切换主处理器，动画帧与 SubState 归零
func (l *LemmingComponent) SetAction(state ActionState) {
	l.Action = state
	l.Frame = 0
	l.SubState = 0
	l.FallDistance = 0
}

// Dir 返回朝向对应的 x 方向：右 +1，左 -1
func (l *LemmingComponent) Dir() int {
	if l.Facing == FacingLeft {
		return -1
	}
	return 1
}

// Turn 掉头
func (l *LemmingComponent) Turn() {
	if l.Facing == FacingLeft {
		l.Facing = FacingRight
	} else {
		l.Facing = FacingLeft
	}
}

// NextFrame 推进动画帧
// 到达 count 后回到 loopFrom（浮空者从第 8 帧开始循环）
func (l *LemmingComponent) NextFrame(count, loopFrom int) {
	l.Frame++
	if l.Frame >= count {
		l.Frame = loopFrom
	}
}

// Selectable 判断玩家能否选中
func (l *LemmingComponent) Selectable() bool {
	return !l.Removed && !l.Disabled
}

// Matchable 判断是否参与触发区域匹配
func (l *LemmingComponent) Matchable() bool {
	return !l.Removed && !l.Disabled
}

// CountdownDigit 返回头顶显示的倒计时数字（5..1），没有倒计时返回 0
func (l *LemmingComponent) CountdownDigit() int {
	if l.Secondary != StateCountdown || l.CountdownTicks <= 0 {
		return 0
	}
	return (l.CountdownTicks-1)/16 + 1
}

// VisualState 渲染端需要的每个旅鼠的状态元组
type VisualState struct {
	ID        ecs.EntityID
	Handler   string
	Facing    Facing
	Frame     int
	Countdown int // 0 表示无倒计时
	X, Y      int
	Disabled  bool
}

// Visual 生成渲染元组
func (l *LemmingComponent) Visual() VisualState {
	return VisualState{
		ID:        l.ID,
		Handler:   l.Action.String(),
		Facing:    l.Facing,
		Frame:     l.Frame,
		Countdown: l.CountdownDigit(),
		X:         l.X,
		Y:         l.Y,
		Disabled:  l.Disabled,
	}
}

// MarshalText 以名称形式编码，供事件日志使用
func (s ActionState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText 按名称解码，用于读取事件日志
func (s *ActionState) UnmarshalText(text []byte) error {
	for state, name := range stateNames {
		if name == string(text) {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown action state %q", string(text))
}
