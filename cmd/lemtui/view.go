package main

import (
	"image"

	"github.com/gdamore/tcell/v2"

	"github.com/decker502/lemmings/pkg/components"
	"github.com/decker502/lemmings/pkg/level"
	"github.com/decker502/lemmings/pkg/terrain"
)

// hudRows 屏幕底部状态栏占用的行数
const hudRows = 3

// cellSize 每个终端字符代表的像素块
type cellSize struct {
	w, h int
}

// cellOf 世界坐标所在的字符格
func (c cellSize) cellOf(x, y int) image.Point {
	return image.Point{X: floorDiv(x, c.w), Y: floorDiv(y, c.h)}
}

// center 字符格中心的世界坐标
func (c cellSize) center(col, row int) image.Point {
	return image.Point{X: col*c.w + c.w/2, Y: row*c.h + c.h/2}
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// terrainCell 统计像素块中的地面像素，返回字符和第一个地面像素的坐标
func terrainCell(layer *terrain.Layer, cs cellSize, col, row int) (rune, image.Point, bool) {
	total, ground := cs.w*cs.h, 0
	var first image.Point
	for dy := 0; dy < cs.h; dy++ {
		for dx := 0; dx < cs.w; dx++ {
			x, y := col*cs.w+dx, row*cs.h+dy
			if layer.HasGroundAt(x, y) {
				if ground == 0 {
					first = image.Point{X: x, Y: y}
				}
				ground++
			}
		}
	}
	return densityRune(ground, total), first, ground > 0
}

// densityRune 按地面像素占比选择方块字符
func densityRune(ground, total int) rune {
	switch {
	case ground <= 0 || total <= 0:
		return ' '
	case ground >= total:
		return '█'
	case ground*4 >= total*3:
		return '▓'
	case ground*2 >= total:
		return '▒'
	default:
		return '░'
	}
}

// lemmingRune 旅鼠在终端中的字符
func lemmingRune(v components.VisualState) rune {
	switch v.Handler {
	case "walking", "shrugging":
		if v.Facing == components.FacingRight {
			return '>'
		}
		return '<'
	case "falling", "jumping":
		return 'v'
	case "floating":
		return 'T'
	case "climbing", "hoisting":
		return '^'
	case "blocking":
		return 'X'
	case "building":
		return 'B'
	case "bashing":
		return 'H'
	case "mining":
		return 'M'
	case "digging":
		return 'D'
	case "exploding", "ohno":
		return '*'
	case "exiting":
		return 'E'
	case "drowning", "splatting":
		return 'x'
	}
	return 'o'
}

// 物体背景色
var objectStyles = map[level.ObjectKind]tcell.Color{
	level.ObjectEntrance: tcell.NewRGBColor(0x50, 0x30, 0x10),
	level.ObjectExit:     tcell.NewRGBColor(0x10, 0x60, 0x20),
	level.ObjectWater:    tcell.NewRGBColor(0x10, 0x30, 0x80),
	level.ObjectTrap:     tcell.NewRGBColor(0x70, 0x10, 0x10),
	level.ObjectHazard:   tcell.NewRGBColor(0x80, 0x40, 0x00),
}

// lemmingColor 旅鼠前景色
func lemmingColor(v components.VisualState) tcell.Color {
	switch {
	case v.Disabled:
		return tcell.ColorGray
	case v.Countdown > 0:
		return tcell.ColorRed
	case v.Handler == "walking" || v.Handler == "falling":
		return tcell.ColorLime
	}
	return tcell.ColorYellow
}

// clampCamera 让光标保持在可见范围内，返回新的摄像机列
func clampCamera(camCol, cursorCol, viewCols, worldCols int) int {
	if cursorCol < camCol {
		camCol = cursorCol
	}
	if cursorCol >= camCol+viewCols {
		camCol = cursorCol - viewCols + 1
	}
	if maxCol := worldCols - viewCols; camCol > maxCol {
		camCol = maxCol
	}
	if camCol < 0 {
		camCol = 0
	}
	return camCol
}
