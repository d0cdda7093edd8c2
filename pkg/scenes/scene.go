// Package scenes 桌面宿主的场景：关卡选择菜单和关卡画面
package scenes

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene 桌面宿主的一个场景（关卡选择菜单、关卡画面）
// 同一时刻只有一个场景的 Update 和 Draw 被调用。
type Scene interface {
	// Update 更新场景逻辑
	// deltaTime 为距离上一帧的真实时间（秒）
	Update(deltaTime float64)

	// Draw 把场景绘制到 screen
	Draw(screen *ebiten.Image)
}

// Saveable 是一个可选接口，用于支持场景在退出时保存状态
//
// 实现此接口的场景会在窗口关闭时被调用 SaveOnExit()。
type Saveable interface {
	// SaveOnExit 在场景退出时保存状态
	// 返回 false 表示保存失败（但程序仍会正常退出）
	SaveOnExit() bool
}

var (
	_ Scene    = (*LevelScene)(nil)
	_ Scene    = (*MenuScene)(nil)
	_ Saveable = (*LevelScene)(nil)
)
