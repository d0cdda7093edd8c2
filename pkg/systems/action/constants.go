package action

// 动作数值常量
// 帧数、像素步长和速度表必须与原版手感完全一致，不是可调参数
const (
	// 行走
	walkFrames    = 8
	wallHeight    = 8 // 前方从脚部起连续地面 >= 8 像素视为墙
	maxStepUp     = 3 // 1-3 像素直接走上去，4-6 像素跳上去
	maxStepDown   = 3 // 1-3 像素直接走下去，更深则下落
	bodyHeight    = 10
	pickHalfWidth = 4

	// 下落
	fallSpeed      = 3
	floatThreshold = 16 // 下落距离 > 16 且有降落伞时开伞
	splatThreshold = 60 // 下落距离 > 60 落地摔死

	// 跳跃
	jumpSpeed = 2

	// 浮空
	floatFrames   = 16
	floatLoopFrom = 8

	// 挖掘
	digInterval  = 8
	digHalfWidth = 4 // 9 像素宽

	// 攀爬
	climbFrames    = 8
	climbHeadroom  = 10
	climbTopOffset = 9

	// 翻越
	hoistRiseFrames = 4
	hoistFrames     = 8
	hoistSpeed      = 2

	// 建造
	buildFrames    = 16
	buildLayFrame  = 9
	buildStepFrame = 15
	brickLength    = 6
	maxBricks      = 12

	// 阻挡
	blockerReach  = 6
	blockerAbove  = 10
	blockerBelow  = 2
	blockerFrames = 16

	// 猛击
	bashFrames        = 16
	bashMaskFirst     = 2
	bashMaskLast      = 5
	bashAdvanceFirst  = 11
	bashClearance     = 4
	bashMaskFrameSize = bashMaskLast - bashMaskFirst + 1

	// 采矿
	mineFrames        = 24
	mineMaskFirst     = 1
	mineMaskLast      = 2
	mineStepFrame     = 3
	mineForwardFrame  = 15
	mineMaskFrameSize = mineMaskLast - mineMaskFirst + 1

	// 终止类状态
	drownFrames    = 16
	exitFrames     = 8
	explodeFrames  = 52
	ohNoFrames     = 16
	splatFrames    = 16
	shrugFrames    = 8
	countdownTicks = 80
)

// floatSpeeds 浮空每帧的垂直速度（负数表示向上）
var floatSpeeds = [floatFrames]int{3, 3, 3, 3, -1, 1, 1, 1, 2, 2, 2, 2, 2, 2, 2, 2}

// CountdownTicks 爆破倒计时长度（tick）
const CountdownTicks = countdownTicks

// PickHalfWidth / BodyHeight 供点选使用的身体包围盒
const (
	PickHalfWidth = pickHalfWidth
	BodyHeight    = bodyHeight
)
