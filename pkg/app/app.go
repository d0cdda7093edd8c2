// Package app 提供桌面宿主的核心包装器
//
// 该包把初始化逻辑从 main 包提取出来：加载模板、列出关卡、创建场景管理器。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/decker502/lemmings/pkg/config"
	"github.com/decker502/lemmings/pkg/embedded"
	"github.com/decker502/lemmings/pkg/game"
	"github.com/decker502/lemmings/pkg/level"
	"github.com/decker502/lemmings/pkg/scenes"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Level 指定要直接进入的关卡（如 "fun-2"），为空则显示关卡选择菜单
	Level string
}

// App 是游戏应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager             *scenes.SceneManager
	gameState                *game.GameState
	verbose                  bool
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化游戏应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入数据。
func NewApp(cfg Config) (*App, error) {
	gameState := game.GetGameState()
	settings := gameState.Settings.GetSettings()

	// 配置日志输出：命令行或已保存的设置任一开启即输出
	verbose := cfg.Verbose || settings.Verbose
	if !verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	if !embedded.IsInitialized() {
		return nil, fmt.Errorf("failed to start: embedded data not initialized")
	}

	masks, err := level.LoadMasksFS(embedded.FS(), level.DefaultMasksPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load masks: %w", err)
	}
	levelIDs, err := level.List(embedded.FS(), level.DefaultLevelsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list levels: %w", err)
	}
	log.Printf("[App] Found %d levels: %v", len(levelIDs), levelIDs)

	sceneManager := scenes.NewSceneManager()
	sceneManager.SetSceneFactory(func(levelID string) scenes.Scene {
		scene, err := scenes.NewLevelScene(sceneManager, gameState, masks, levelIDs, levelID)
		if err != nil {
			log.Printf("[App] Error: %v", err)
			return nil
		}
		return scene
	})
	sceneManager.SetMenuFactory(func() scenes.Scene {
		return scenes.NewMenuScene(sceneManager, gameState, levelIDs)
	})

	if cfg.Level != "" {
		log.Printf("[App] Starting level: %s", cfg.Level)
		if !sceneManager.LoadLevel(cfg.Level) {
			return nil, fmt.Errorf("failed to start level %q", cfg.Level)
		}
	} else {
		sceneManager.ShowMenu()
	}

	ebiten.SetFullscreen(settings.Fullscreen)

	return &App{
		sceneManager: sceneManager,
		gameState:    gameState,
		verbose:      verbose,
	}, nil
}

// WindowSize 返回按缩放设置计算的窗口大小
func WindowSize(zoom int) (int, int) {
	if zoom < game.MinZoom {
		zoom = game.MinZoom
	}
	return config.GameWindowWidth * zoom, config.GameWindowHeight * zoom
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	settings := a.gameState.Settings

	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			w, h := WindowSize(settings.GetSettings().Zoom)
			ebiten.SetWindowSize(w, h)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", w, h)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
			log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
		} else {
			ebiten.SetFullscreen(true)
		}
		settings.SetFullscreen(ebiten.IsFullscreen())
	}

	// F9/F10 调整窗口缩放
	if !ebiten.IsFullscreen() {
		zoom := settings.GetSettings().Zoom
		if inpututil.IsKeyJustPressed(ebiten.KeyF9) {
			settings.SetZoom(zoom - 1)
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyF10) {
			settings.SetZoom(zoom + 1)
		}
		if newZoom := settings.GetSettings().Zoom; newZoom != zoom {
			ebiten.SetWindowSize(WindowSize(newZoom))
		}
	}

	deltaTime := 1.0 / float64(ebiten.TPS())
	a.sceneManager.Update(deltaTime)
	return nil
}

// Draw 绘制游戏画面
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	// 像素风格：最近邻缩放
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(offscreen, op)
}

// Layout 返回游戏的逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.GameWindowWidth, config.GameWindowHeight
}

// GetSceneManager 返回场景管理器
// 用于在游戏关闭时保存设置
func (a *App) GetSceneManager() *scenes.SceneManager {
	return a.sceneManager
}

// Shutdown 保存当前场景和设置，窗口关闭后调用
func (a *App) Shutdown() {
	if s, ok := a.sceneManager.GetCurrentScene().(scenes.Saveable); ok {
		s.SaveOnExit()
	}
	if err := a.gameState.Settings.Save(); err != nil {
		log.Printf("[App] Warning: %v", err)
	}
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
