package components

// CameraComponent 管理游戏区域镜头的位置和平移动画。
// 关卡比屏幕宽时，镜头只在水平方向移动。
type CameraComponent struct {
	// X 当前镜头左边缘（世界坐标）
	X float64

	// MaxX 镜头允许的最大 X（关卡宽度 - 视口宽度，不小于 0）
	MaxX float64

	// TargetX 动画目标X坐标
	TargetX float64

	// AnimationDuration 动画总时长（秒）
	AnimationDuration float64

	// Elapsed 动画已进行的时间（秒）
	Elapsed float64

	// IsAnimating 是否正在动画中
	IsAnimating bool

	// StartX 动画起始X坐标（用于计算进度）
	StartX float64
}
