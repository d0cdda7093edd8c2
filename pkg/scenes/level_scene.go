package scenes

import (
	"fmt"
	"log"

	"github.com/decker502/lemmings/pkg/config"
	"github.com/decker502/lemmings/pkg/ecs"
	"github.com/decker502/lemmings/pkg/embedded"
	"github.com/decker502/lemmings/pkg/game"
	"github.com/decker502/lemmings/pkg/level"
	"github.com/decker502/lemmings/pkg/systems"
	"github.com/decker502/lemmings/pkg/systems/action"
	"github.com/decker502/lemmings/pkg/types"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// speedSteps F 键循环的速度倍率
var speedSteps = []float64{1, 2, 4, 8}

// skillKeys 数字键 1-8 对应技能面板顺序
var skillKeys = []ebiten.Key{
	ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4,
	ebiten.KeyDigit5, ebiten.KeyDigit6, ebiten.KeyDigit7, ebiten.KeyDigit8,
}

// LevelScene 关卡画面
//
// 持有一个 systems.Session：模拟按 TicksPerSecond × 速度倍率推进，
// 画面每帧绘制地形、物体、旅鼠、技能面板；关卡结束后显示结果并记录进度。
type LevelScene struct {
	sceneManager *SceneManager
	gameState    *game.GameState
	masks        *action.MaskSet

	levelIDs []string
	levelID  string

	session       *systems.Session
	entityManager *ecs.EntityManager // 场景自身的实体（镜头）
	camera        *systems.CameraSystem

	// 地形纹理缓存：地形版本变化时重新上传
	terrainImage   *ebiten.Image
	terrainVersion uint64
	terrainDirty   bool

	hovered   ecs.EntityID
	hasHover  bool
	elapsed   float64
	message   string
	messageTT float64
}

// NewLevelScene 从嵌入数据加载关卡并创建场景
//
// 参数:
//   - sm: 场景管理器（重新开始、下一关、返回菜单）
//   - gs: 全局状态（速度、叠加层开关、进度）
//   - masks: 地形模板
//   - levelIDs: 所有关卡ID（按菜单顺序），用于"下一关"
//   - levelID: 要加载的关卡
func NewLevelScene(sm *SceneManager, gs *game.GameState, masks *action.MaskSet, levelIDs []string, levelID string) (*LevelScene, error) {
	lvl, err := level.LoadFS(embedded.FS(), level.LevelPath(level.DefaultLevelsDir, levelID), level.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to load level %s: %w", levelID, err)
	}

	s := &LevelScene{
		sceneManager:  sm,
		gameState:     gs,
		masks:         masks,
		levelIDs:      levelIDs,
		levelID:       levelID,
		session:       systems.NewSession(lvl, masks),
		entityManager: ecs.NewEntityManager(),
		terrainDirty:  true,
	}
	s.camera = systems.NewCameraSystem(s.entityManager, lvl.Terrain.Width(), config.GameWindowWidth)
	if entrance, ok := lvl.Entrance(); ok {
		s.camera.CenterOn(entrance.X+systems.SpawnOffsetX, config.GameWindowWidth, 0)
	}

	s.session.OnFinish(s.onFinish)
	gs.CurrentLevel = levelID

	log.Printf("[LevelScene] Level %s (%s) loaded: %dx%d, %d lemmings, need %d",
		lvl.ID, lvl.Name, lvl.Terrain.Width(), lvl.Terrain.Height(), lvl.Counter.Total(), lvl.Counter.GetNeedCount())
	return s, nil
}

// Session 返回关卡会话
func (s *LevelScene) Session() *systems.Session { return s.session }

// onFinish 关卡结束时记录进度
func (s *LevelScene) onFinish(outcome game.Outcome, saved int, ticks uint64) {
	s.gameState.FinishLevel(s.levelID, outcome, saved, ticks)
	log.Printf("[LevelScene] Level %s %s: saved %d, %d ticks", s.levelID, outcome, saved, ticks)
}

// Update 处理输入并推进模拟
func (s *LevelScene) Update(deltaTime float64) {
	s.elapsed += deltaTime
	if s.messageTT > 0 {
		s.messageTT -= deltaTime
	}

	if s.handleSceneKeys() {
		return
	}
	s.handleSimulationKeys()
	s.handlePointer(deltaTime)

	s.camera.Update(deltaTime)
	s.session.Advance(deltaTime, s.gameState.Settings.GetSettings().Speed)
}

// handleSceneKeys 处理切换场景的按键，返回是否已切换
func (s *LevelScene) handleSceneKeys() bool {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return s.sceneManager.ShowMenu()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		return s.sceneManager.LoadLevel(s.levelID)
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter) && s.session.Finished():
		if next, ok := nextLevelID(s.levelIDs, s.levelID); ok && s.session.Outcome() == game.OutcomeSucceeded {
			return s.sceneManager.LoadLevel(next)
		}
		return s.sceneManager.LoadLevel(s.levelID)
	}
	return false
}

// handleSimulationKeys 技能、速率、暂停、速度、叠加层
func (s *LevelScene) handleSimulationKeys() {
	for i, key := range skillKeys {
		if inpututil.IsKeyJustPressed(key) {
			s.selectSkill(i)
		}
	}

	if isKeyRepeated(ebiten.KeyEqual) || isKeyRepeated(ebiten.KeyNumpadAdd) {
		s.session.AdjustRate(1)
	}
	if isKeyRepeated(ebiten.KeyMinus) || isKeyRepeated(ebiten.KeyNumpadSubtract) {
		s.session.AdjustRate(-1)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyP) || inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		paused := s.session.TogglePause()
		log.Printf("[LevelScene] Paused: %v", paused)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPeriod) && s.session.Paused() {
		s.session.StepOnce()
	}

	settings := s.gameState.Settings
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		speed := nextSpeed(settings.GetSettings().Speed)
		settings.SetSpeed(speed)
		s.flash(fmt.Sprintf("Speed x%g", speed))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyZ) {
		settings.SetShowZones(!settings.GetSettings().ShowZones)
	}

	scroll := 0.0
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA) {
		scroll--
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD) {
		scroll++
	}
	if scroll != 0 {
		s.camera.ScrollBy(scroll * config.CameraScrollSpeed / ebiten.DefaultTPS)
	}
}

// handlePointer 悬停、点击技能按钮或旅鼠、边缘滚动
func (s *LevelScene) handlePointer(deltaTime float64) {
	px, py := getPointerPosition()
	inPlayfield := py >= 0 && py < config.ViewportHeight && px >= 0 && px < config.GameWindowWidth

	s.hasHover = false
	if inPlayfield {
		wx, wy := s.camera.ScreenToWorld(px, py)
		s.hovered, s.hasHover = s.session.Manager().LemmingAt(wx, wy)

		if px < config.CameraEdgeMargin {
			s.camera.ScrollBy(-config.CameraScrollSpeed * deltaTime)
		} else if px >= config.GameWindowWidth-config.CameraEdgeMargin {
			s.camera.ScrollBy(config.CameraScrollSpeed * deltaTime)
		}
	}

	clicked, cx, cy := isJustTouchedOrClicked()
	if !clicked {
		return
	}
	if idx := config.SkillButtonAt(cx, cy, len(types.AllSkills)); idx >= 0 {
		s.selectSkill(idx)
		return
	}
	if cy < config.ViewportHeight {
		wx, wy := s.camera.ScreenToWorld(cx, cy)
		if _, applied := s.session.ApplyAt(wx, wy); applied {
			log.Printf("[LevelScene] Applied %s at (%d,%d)", s.session.Level().Skills.Selected(), wx, wy)
		}
	}
}

func (s *LevelScene) selectSkill(index int) {
	if s.session.SelectSkillIndex(index) {
		s.flash(s.session.Level().Skills.Selected().String())
	}
}

// flash 在 HUD 上短暂显示提示
func (s *LevelScene) flash(msg string) {
	s.message = msg
	s.messageTT = 1.5
}

// SaveOnExit 保存设置（速度、叠加层）
func (s *LevelScene) SaveOnExit() bool {
	if err := s.gameState.Settings.Save(); err != nil {
		log.Printf("[LevelScene] Warning: %v", err)
		return false
	}
	return true
}

// nextLevelID 返回 ids 中 current 之后的关卡
func nextLevelID(ids []string, current string) (string, bool) {
	for i, id := range ids {
		if id == current && i+1 < len(ids) {
			return ids[i+1], true
		}
	}
	return "", false
}

// nextSpeed 返回 speedSteps 中下一个速度，超过最大值回到 1
func nextSpeed(current float64) float64 {
	for _, s := range speedSteps {
		if s > current {
			return s
		}
	}
	return speedSteps[0]
}

// formatTicks 把 tick 数格式化为 m:ss
func formatTicks(ticks uint64) string {
	secs := ticks / game.TicksPerSecond
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
