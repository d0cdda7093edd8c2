package systems

import (
	"math"

	"github.com/decker502/lemmings/pkg/components"
	"github.com/decker502/lemmings/pkg/ecs"
	"github.com/decker502/lemmings/pkg/utils"
)

// CameraSystem 管理镜头移动和平滑动画。
// 镜头保存在独立的实体上，与旅鼠实体分开（场景持有自己的 EntityManager）。
type CameraSystem struct {
	entityManager *ecs.EntityManager
	cameraEntity  ecs.EntityID
}

// NewCameraSystem 创建镜头控制系统。
// 参数:
//   - em: 场景的 EntityManager
//   - worldWidth: 关卡宽度
//   - viewWidth: 视口宽度
func NewCameraSystem(em *ecs.EntityManager, worldWidth, viewWidth int) *CameraSystem {
	cs := &CameraSystem{entityManager: em}

	maxX := float64(worldWidth - viewWidth)
	if maxX < 0 {
		maxX = 0
	}
	cs.cameraEntity = em.CreateEntity()
	ecs.AddComponent(em, cs.cameraEntity, &components.CameraComponent{MaxX: maxX})
	return cs
}

func (cs *CameraSystem) camera() *components.CameraComponent {
	cam, ok := ecs.GetComponent[*components.CameraComponent](cs.entityManager, cs.cameraEntity)
	if !ok {
		return &components.CameraComponent{}
	}
	return cam
}

// X 返回镜头左边缘（取整后的世界坐标）
func (cs *CameraSystem) X() int {
	return int(math.Round(cs.camera().X))
}

// MaxX 返回镜头可移动的最大 X
func (cs *CameraSystem) MaxX() float64 {
	return cs.camera().MaxX
}

// Update 推进镜头动画
func (cs *CameraSystem) Update(dt float64) {
	cam := cs.camera()
	if !cam.IsAnimating {
		return
	}

	cam.Elapsed += dt
	progress := 1.0
	if cam.AnimationDuration > 0 {
		progress = math.Min(cam.Elapsed/cam.AnimationDuration, 1.0)
	}
	cam.X = utils.Lerp(cam.StartX, cam.TargetX, utils.EaseOutQuad(progress))
	if progress >= 1.0 {
		cam.X = cam.TargetX
		cam.IsAnimating = false
	}
}

// ScrollBy 立即移动镜头（方向键、边缘滚动），会打断动画
func (cs *CameraSystem) ScrollBy(dx float64) {
	cam := cs.camera()
	cam.IsAnimating = false
	cam.X = clampFloat(cam.X+dx, 0, cam.MaxX)
}

// MoveTo 在 duration 秒内把镜头平移到 targetX（会被限制在合法范围内）
// duration <= 0 时立即到达
func (cs *CameraSystem) MoveTo(targetX, duration float64) {
	cam := cs.camera()
	targetX = clampFloat(targetX, 0, cam.MaxX)
	if duration <= 0 {
		cam.X = targetX
		cam.IsAnimating = false
		return
	}
	cam.StartX = cam.X
	cam.TargetX = targetX
	cam.AnimationDuration = duration
	cam.Elapsed = 0
	cam.IsAnimating = true
}

// CenterOn 让镜头以 worldX 为中心
func (cs *CameraSystem) CenterOn(worldX, viewWidth int, duration float64) {
	cs.MoveTo(float64(worldX-viewWidth/2), duration)
}

// IsAnimating 返回镜头是否正在动画中。
func (cs *CameraSystem) IsAnimating() bool {
	return cs.camera().IsAnimating
}

// ScreenToWorld 把游戏区域内的屏幕坐标转换为世界坐标
func (cs *CameraSystem) ScreenToWorld(sx, sy int) (int, int) {
	return sx + cs.X(), sy
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
