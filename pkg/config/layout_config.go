package config

import "image"

// 布局配置常量
// 桌面宿主使用固定的逻辑屏幕，Ebitengine 负责缩放到窗口大小。
// 关卡坐标称为"世界坐标"，屏幕坐标 = 世界坐标 - 镜头位置（仅在游戏区域内）。
const (
	// GameWindowWidth 逻辑屏幕宽度
	GameWindowWidth = 640

	// GameWindowHeight 逻辑屏幕高度（游戏区域 + 技能面板）
	GameWindowHeight = ViewportHeight + PanelHeight

	// ViewportHeight 游戏区域高度，关卡高度通常不超过这个值
	ViewportHeight = 200

	// PanelHeight 底部技能面板高度
	PanelHeight = 40

	// SkillButtonWidth / SkillButtonHeight 技能按钮尺寸
	SkillButtonWidth  = 32
	SkillButtonHeight = 30

	// SkillButtonSpacing 技能按钮之间的间距
	SkillButtonSpacing = 2

	// SkillPanelMarginX 第一个按钮距离屏幕左侧的距离
	SkillPanelMarginX = 4

	// CameraScrollSpeed 方向键滚动速度（像素/秒）
	CameraScrollSpeed = 240.0

	// CameraEdgeMargin 鼠标靠近游戏区域左右边缘时自动滚动的范围（像素）
	CameraEdgeMargin = 6
)

// PlayfieldRect 返回游戏区域的屏幕矩形
func PlayfieldRect() image.Rectangle {
	return image.Rect(0, 0, GameWindowWidth, ViewportHeight)
}

// SkillButtonRect 返回第 index 个技能按钮的屏幕矩形
func SkillButtonRect(index int) image.Rectangle {
	x := SkillPanelMarginX + index*(SkillButtonWidth+SkillButtonSpacing)
	y := ViewportHeight + (PanelHeight-SkillButtonHeight)/2
	return image.Rect(x, y, x+SkillButtonWidth, y+SkillButtonHeight)
}

// SkillButtonAt 返回屏幕坐标处的技能按钮索引，不在任何按钮上返回 -1
// count 为按钮数量
func SkillButtonAt(x, y, count int) int {
	p := image.Pt(x, y)
	for i := 0; i < count; i++ {
		if p.In(SkillButtonRect(i)) {
			return i
		}
	}
	return -1
}

// HUDOrigin 返回技能面板右侧状态文字的起点
func HUDOrigin(buttonCount int) image.Point {
	r := SkillButtonRect(buttonCount)
	return image.Pt(r.Min.X+8, ViewportHeight+4)
}

// MenuEntryHeight 关卡选择菜单每一行的高度
const MenuEntryHeight = 18

// MenuListTop 关卡列表第一行的 Y 坐标
const MenuListTop = 48

// MenuEntryRect 返回关卡菜单第 index 行的屏幕矩形
func MenuEntryRect(index int) image.Rectangle {
	y := MenuListTop + index*MenuEntryHeight
	return image.Rect(40, y, GameWindowWidth-40, y+MenuEntryHeight-2)
}
