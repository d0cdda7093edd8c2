// Package utils 提供宿主共用的缓动和平台检测工具函数
package utils

import "math"

// Easing Functions (缓动函数)
//
// 所有函数接受一个进度值 t ∈ [0, 1]，返回缓动后的值 ∈ [0, 1]。
// 输入超出范围时先截断。

func clamp01(t float64) float64 {
	return math.Max(0, math.Min(1, t))
}

// EaseLinear 线性缓动（无缓动）
func EaseLinear(t float64) float64 {
	return clamp01(t)
}

// EaseOutQuad 二次方缓出
// 特点：开始较快，结束慢（镜头平移使用）
// 公式：f(t) = 1 - (1-t)²
func EaseOutQuad(t float64) float64 {
	t = clamp01(t)
	return 1 - (1-t)*(1-t)
}

// EaseInOutCubic 三次方缓入缓出
//
//	t < 0.5: f(t) = 4t³
//	t >= 0.5: f(t) = 1 - (-2t + 2)³ / 2
func EaseInOutCubic(t float64) float64 {
	t = clamp01(t)
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// Lerp 线性插值
// t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Pulse 返回在 [0,1] 之间往复的值，period 为一个来回的时长（秒）
// 用于选中高亮等闪烁效果
func Pulse(elapsed, period float64) float64 {
	if period <= 0 {
		return 1
	}
	phase := math.Mod(elapsed, period) / period
	return EaseInOutCubic(1 - math.Abs(2*phase-1))
}
