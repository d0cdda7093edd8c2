package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// 速度和缩放的取值范围
const (
	MinSpeed = 0.25
	MaxSpeed = 8.0
	MinZoom  = 1
	MaxZoom  = 4
)

// GameSettings 全局设置
// 这些设置只影响宿主（窗口、节奏、调试显示），不影响模拟结果
type GameSettings struct {
	// 模拟节奏
	Speed float64 `yaml:"speed"` // 速度倍率，1.0 为每秒 16 tick

	// 显示设置
	Zoom       int  `yaml:"zoom"`       // 窗口缩放 1-4
	Fullscreen bool `yaml:"fullscreen"` // 启动时是否全屏
	ShowZones  bool `yaml:"showZones"`  // 绘制触发区域（调试）

	// 其他
	Verbose   bool   `yaml:"verbose"`   // 输出运行日志
	LastLevel string `yaml:"lastLevel"` // 上次游玩的关卡ID
}

// DefaultSettings 返回默认设置
func DefaultSettings() *GameSettings {
	return &GameSettings{
		Speed:      1.0,
		Zoom:       2,
		Fullscreen: false,
		ShowZones:  false,
		Verbose:    false,
	}
}

// SettingsManager 设置管理器
// 负责设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *GameSettings  // 当前设置
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "global"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 返回：
//   - *SettingsManager: 设置管理器实例
//   - error: 如果加载设置失败返回错误（不影响创建）
func NewSettingsManager(gdataManager *gdata.Manager) (*SettingsManager, error) {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	// 尝试加载已保存的设置
	if err := sm.Load(); err != nil {
		// 加载失败不是致命错误，使用默认设置
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm, nil
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或文件不存在，使用默认设置
func (sm *SettingsManager) Load() error {
	// 降级模式：无法持久化，使用默认设置
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// 从默认值开始解码，旧版本缺少的字段保持默认
	loadedSettings := DefaultSettings()
	if err := yaml.Unmarshal(data, loadedSettings); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	loadedSettings.Speed = clampSpeed(loadedSettings.Speed)
	loadedSettings.Zoom = clampZoom(loadedSettings.Zoom)

	sm.settings = loadedSettings
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *GameSettings {
	return sm.settings
}

// SetSpeed 设置速度倍率，限制在 MinSpeed ~ MaxSpeed
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetSpeed(speed float64) {
	sm.settings.Speed = clampSpeed(speed)
}

// SetZoom 设置窗口缩放，限制在 MinZoom ~ MaxZoom
func (sm *SettingsManager) SetZoom(zoom int) {
	sm.settings.Zoom = clampZoom(zoom)
}

// SetFullscreen 设置全屏模式
func (sm *SettingsManager) SetFullscreen(enabled bool) {
	sm.settings.Fullscreen = enabled
}

// SetShowZones 设置是否绘制触发区域
func (sm *SettingsManager) SetShowZones(enabled bool) {
	sm.settings.ShowZones = enabled
}

// SetVerbose 设置是否输出运行日志
func (sm *SettingsManager) SetVerbose(enabled bool) {
	sm.settings.Verbose = enabled
}

// SetLastLevel 记录上次游玩的关卡
func (sm *SettingsManager) SetLastLevel(levelID string) {
	sm.settings.LastLevel = levelID
}

func clampSpeed(speed float64) float64 {
	if speed < MinSpeed {
		return MinSpeed
	}
	if speed > MaxSpeed {
		return MaxSpeed
	}
	return speed
}

func clampZoom(zoom int) int {
	if zoom < MinZoom {
		return MinZoom
	}
	if zoom > MaxZoom {
		return MaxZoom
	}
	return zoom
}
