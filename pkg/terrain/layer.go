// Package terrain 提供可破坏地形层
//
// Layer 同时维护两份数据：
//   - 地面位图（1 bit/像素，是否为实体地面）
//   - 与之并行的 RGBA 颜色栅格（供渲染使用）
//
// 所有修改都经过 SetGroundAt / ClearGroundAt / ApplyMask，
// 保证 ground[p] == true ⇔ raster[p] 为不透明颜色。越界读写一律静默忽略。
package terrain

import (
	"image"
	"image/color"
)

// Layer 关卡地形层
type Layer struct {
	width  int
	height int
	stride int    // 每行字节数（位图按 8 像素打包）
	bits   []byte // 地面位图
	raster *image.RGBA

	palette   color.Palette
	fillIndex uint8  // ApplyMask(erase=false) 使用的调色板索引
	version   uint64 // 每次实际修改后递增，渲染端据此判断是否需要重新上传纹理
}

// NewLayer 创建一个空地形层（全部为空气）
//
// 参数：
//   - width, height: 地形尺寸（像素）
//   - palette: 地形调色板，SetGroundAt 的 colorIndex 指向此调色板；为空时使用默认土色
func NewLayer(width, height int, palette color.Palette) *Layer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if len(palette) == 0 {
		palette = DefaultPalette()
	}
	stride := (width + 7) / 8
	return &Layer{
		width:   width,
		height:  height,
		stride:  stride,
		bits:    make([]byte, stride*height),
		raster:  image.NewRGBA(image.Rect(0, 0, width, height)),
		palette: palette,
	}
}

// 默认调色板索引
const (
	ColorEarth uint8 = iota
	ColorStone
	ColorBrick
)

// DefaultPalette 返回默认地形调色板：土、石、砖
func DefaultPalette() color.Palette {
	return color.Palette{
		color.RGBA{R: 0x9c, G: 0x6a, B: 0x3c, A: 0xff},
		color.RGBA{R: 0x7c, G: 0x7c, B: 0x8c, A: 0xff},
		color.RGBA{R: 0xd8, G: 0xb0, B: 0x70, A: 0xff},
	}
}

// Width 返回地形宽度
func (l *Layer) Width() int { return l.width }

// Height 返回地形高度
func (l *Layer) Height() int { return l.height }

// Bounds 返回地形矩形
func (l *Layer) Bounds() image.Rectangle { return image.Rect(0, 0, l.width, l.height) }

// Version 返回修改计数
func (l *Layer) Version() uint64 { return l.version }

// Raster 返回颜色栅格的只读视图
// 调用方不得修改返回的图像，否则会破坏位图与栅格的一致性
func (l *Layer) Raster() image.Image { return l.raster }

// Palette 返回地形调色板
func (l *Layer) Palette() color.Palette { return l.palette }

// SetFillIndex 设置 ApplyMask(erase=false) 时使用的颜色索引
func (l *Layer) SetFillIndex(index uint8) { l.fillIndex = index }

// in 判断坐标是否在地形范围内
func (l *Layer) in(x, y int) bool {
	return x >= 0 && y >= 0 && x < l.width && y < l.height
}

// maskIndex 返回 (x,y) 处位的掩码和字节索引
func (l *Layer) maskIndex(x, y int) (byte, int) {
	return 1 << uint(x&7), y*l.stride + x>>3
}

// HasGroundAt 判断 (x,y) 处是否为地面，越界返回 false
func (l *Layer) HasGroundAt(x, y int) bool {
	if !l.in(x, y) {
		return false
	}
	mask, index := l.maskIndex(x, y)
	return l.bits[index]&mask != 0
}

// SetGroundAt 将 (x,y) 设为地面，并写入调色板颜色
// 越界坐标静默忽略；超出调色板范围的索引会回绕
func (l *Layer) SetGroundAt(x, y int, colorIndex uint8) {
	if !l.in(x, y) {
		return
	}
	mask, index := l.maskIndex(x, y)
	l.bits[index] |= mask
	l.raster.SetRGBA(x, y, l.opaque(colorIndex))
	l.version++
}

// ClearGroundAt 将 (x,y) 设为空气，颜色栅格同步设为透明
func (l *Layer) ClearGroundAt(x, y int) {
	if !l.in(x, y) {
		return
	}
	mask, index := l.maskIndex(x, y)
	if l.bits[index]&mask == 0 {
		return
	}
	l.bits[index] &^= mask
	l.raster.SetRGBA(x, y, color.RGBA{})
	l.version++
}

// ApplyMask 在 (x,y) 处应用模板
//
// 遍历模板包围盒，每个激活单元映射到地形坐标 (x+anchorX+dx, y+anchorY+dy)：
//   - erase=true: 清除地面
//   - erase=false: 以填充色恢复地面
//
// 越界部分被裁剪。整个调用在一次函数内完成，不存在部分应用的中间状态。
func (l *Layer) ApplyMask(m Mask, x, y int, erase bool) {
	if m == nil {
		return
	}
	ax, ay := m.Anchor()
	ox, oy := x+ax, y+ay
	for dy := 0; dy < m.Height(); dy++ {
		for dx := 0; dx < m.Width(); dx++ {
			if !m.IsActive(dx, dy) {
				continue
			}
			if erase {
				l.ClearGroundAt(ox+dx, oy+dy)
			} else {
				l.SetGroundAt(ox+dx, oy+dy, l.fillIndex)
			}
		}
	}
}

// CountGround 统计矩形范围内（含边界）的地面像素数量
func (l *Layer) CountGround(x1, y1, x2, y2 int) int {
	count := 0
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			if l.HasGroundAt(x, y) {
				count++
			}
		}
	}
	return count
}

// opaque 根据调色板索引返回不透明颜色
func (l *Layer) opaque(colorIndex uint8) color.RGBA {
	c := color.RGBAModel.Convert(l.palette[int(colorIndex)%len(l.palette)]).(color.RGBA)
	c.A = 0xff
	return c
}
