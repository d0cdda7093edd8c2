package scenes

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// 按住按键时的自动重复参数（帧数，按 60 FPS 计）
const (
	keyRepeatDelay    = 18
	keyRepeatInterval = 4
)

// isJustTouchedOrClicked 检查是否刚刚发生点击或触摸
// 返回是否点击以及点击位置
func isJustTouchedOrClicked() (bool, int, int) {
	// 检查触摸
	touchIDs := inpututil.AppendJustPressedTouchIDs(nil)
	if len(touchIDs) > 0 {
		x, y := ebiten.TouchPosition(touchIDs[0])
		return true, x, y
	}

	// 检查鼠标
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		return true, x, y
	}

	return false, 0, 0
}

// getPointerPosition 获取当前指针位置（触摸或鼠标）
// 优先返回触摸位置，如果没有触摸则返回鼠标位置
func getPointerPosition() (int, int) {
	touchIDs := ebiten.AppendTouchIDs(nil)
	if len(touchIDs) > 0 {
		return ebiten.TouchPosition(touchIDs[0])
	}
	return ebiten.CursorPosition()
}

// isKeyRepeated 按键刚按下或按住超过延迟后按固定间隔返回 true
// 用于释放速率等需要连续调整的数值
func isKeyRepeated(key ebiten.Key) bool {
	return isRepeatFrame(inpututil.KeyPressDuration(key), keyRepeatDelay, keyRepeatInterval)
}

// isRepeatFrame 判断按住 duration 帧时本帧是否应触发
// duration 为 1 表示刚按下
func isRepeatFrame(duration, delay, interval int) bool {
	if duration <= 0 {
		return false
	}
	if duration == 1 {
		return true
	}
	if duration < delay || interval <= 0 {
		return false
	}
	return (duration-delay)%interval == 0
}
