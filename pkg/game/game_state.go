package game

import (
	"log"

	"github.com/quasilyte/gdata/v2"
)

// AppName gdata 存储使用的应用名
const AppName = "lemmings_sim"

// GameState 存储全局状态
// 这是一个单例，用于管理跨场景共享的设置和进度
type GameState struct {
	gdataManager *gdata.Manager // 可为 nil（无法访问用户目录时的降级模式）

	Settings *SettingsManager
	Progress *ProgressManager

	CurrentLevel string // 当前关卡ID
}

// 全局单例实例（这是架构规范允许的唯一全局变量）
var globalGameState *GameState

// GetGameState 返回全局 GameState 单例
// 使用延迟初始化模式，确保整个程序生命周期只有一个实例
func GetGameState() *GameState {
	if globalGameState == nil {
		manager, err := gdata.Open(gdata.Config{AppName: AppName})
		if err != nil {
			log.Printf("[GameState] Warning: Failed to open gdata storage: %v (settings and progress will not persist)", err)
			manager = nil
		}
		globalGameState = NewGameState(manager)
	}
	return globalGameState
}

// NewGameState 用给定的存储创建状态（nil 表示降级模式，测试和工具使用）
func NewGameState(manager *gdata.Manager) *GameState {
	settings, _ := NewSettingsManager(manager)
	progress, _ := NewProgressManager(manager)
	return &GameState{
		gdataManager: manager,
		Settings:     settings,
		Progress:     progress,
	}
}

// GetGdataManager 返回 gdata 存储管理器，可能为 nil
func (gs *GameState) GetGdataManager() *gdata.Manager {
	return gs.gdataManager
}

// FinishLevel 记录关卡结果并持久化进度和设置
func (gs *GameState) FinishLevel(levelID string, outcome Outcome, saved int, ticks uint64) {
	if !outcome.Finished() {
		return
	}
	gs.Progress.Record(levelID, outcome, saved, ticks)
	gs.Settings.SetLastLevel(levelID)
	if err := gs.Progress.Save(); err != nil {
		log.Printf("[GameState] Warning: %v", err)
	}
	if err := gs.Settings.Save(); err != nil {
		log.Printf("[GameState] Warning: %v", err)
	}
}
