package terrain

import (
	"fmt"
	"image"
	"image/color"
)

// FromImage 从图像创建地形层
// 不透明像素（A >= 0x80）视为地面，颜色直接写入栅格
func FromImage(img image.Image) *Layer {
	b := img.Bounds()
	l := NewLayer(b.Dx(), b.Dy(), nil)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.RGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.RGBA)
			if c.A < 0x80 {
				continue
			}
			c.A = 0xff
			mask, index := l.maskIndex(x, y)
			l.bits[index] |= mask
			l.raster.SetRGBA(x, y, c)
		}
	}
	l.version++
	return l
}

// FromRows 从 ASCII 行创建地形层
//
// 参数：
//   - rows: 每行一个字符串，'.' 或空格为空气
//   - legend: 字符到调色板索引的映射；不在映射中的非空字符使用索引 0
//   - palette: 调色板
//
// 行宽不足的部分视为空气。
func FromRows(rows []string, legend map[rune]uint8, palette color.Palette) (*Layer, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("terrain rows are empty")
	}
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	l := NewLayer(width, len(rows), palette)
	for y, row := range rows {
		for x, ch := range []rune(row) {
			if ch == '.' || ch == ' ' {
				continue
			}
			index, ok := legend[ch]
			if !ok {
				index = 0
			}
			l.SetGroundAt(x, y, index)
		}
	}
	return l, nil
}

// FillRect 以指定颜色填充矩形（含边界），用于关卡构建和测试
func (l *Layer) FillRect(x1, y1, x2, y2 int, colorIndex uint8) {
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			l.SetGroundAt(x, y, colorIndex)
		}
	}
}

// ClearRect 清除矩形（含边界）内的地面
func (l *Layer) ClearRect(x1, y1, x2, y2 int) {
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			l.ClearGroundAt(x, y)
		}
	}
}
