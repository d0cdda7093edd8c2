package scenes

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// SceneFactory 场景工厂函数类型
// 用于创建指定ID的关卡场景，由桌面宿主注入依赖
type SceneFactory func(levelID string) Scene

// MenuFactory 创建关卡选择菜单
type MenuFactory func() Scene

// SceneManager 控制当前活动的场景
// 保证同一时刻只有一个场景的 Update 和 Draw 被调用。
type SceneManager struct {
	currentScene Scene
	sceneFactory SceneFactory
	menuFactory  MenuFactory
}

// NewSceneManager 创建场景管理器，初始没有活动场景
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SetSceneFactory 设置关卡场景工厂函数
func (sm *SceneManager) SetSceneFactory(factory SceneFactory) {
	sm.sceneFactory = factory
}

// SetMenuFactory 设置菜单工厂函数
func (sm *SceneManager) SetMenuFactory(factory MenuFactory) {
	sm.menuFactory = factory
}

// SwitchTo 切换到指定场景
// 旧场景实现 Saveable 时先保存
func (sm *SceneManager) SwitchTo(scene Scene) {
	if old, ok := sm.currentScene.(Saveable); ok && sm.currentScene != scene {
		old.SaveOnExit()
	}
	sm.currentScene = scene
}

// GetCurrentScene 返回当前活动的场景，没有则返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// LoadLevel 加载指定ID的关卡场景
// levelID: 关卡ID，如 "fun-1"
// 返回是否切换成功
func (sm *SceneManager) LoadLevel(levelID string) bool {
	log.Printf("[SceneManager] Loading level: %s", levelID)

	if sm.sceneFactory == nil {
		log.Printf("[SceneManager] Error: SceneFactory not set")
		return false
	}

	newScene := sm.sceneFactory(levelID)
	if newScene == nil {
		log.Printf("[SceneManager] Error: failed to create scene for level %s", levelID)
		return false
	}
	sm.SwitchTo(newScene)
	log.Printf("[SceneManager] Switched to level: %s", levelID)
	return true
}

// ShowMenu 切换到关卡选择菜单
func (sm *SceneManager) ShowMenu() bool {
	if sm.menuFactory == nil {
		log.Printf("[SceneManager] Error: MenuFactory not set")
		return false
	}
	menu := sm.menuFactory()
	if menu == nil {
		return false
	}
	sm.SwitchTo(menu)
	return true
}

// Update 更新当前场景
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw 绘制当前场景
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}
