//go:build mobile

package utils

// IsMobile 移动端构建总是返回 true：
// 菜单显示触屏提示，关卡场景用点击选择技能按钮
func IsMobile() bool {
	return true
}
