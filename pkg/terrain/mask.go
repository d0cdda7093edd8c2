package terrain

import (
	"fmt"
	"strings"
)

// Mask 模板接口（由资源提供方加载，处理器只读借用）
type Mask interface {
	Width() int
	Height() int
	// Anchor 返回锚点偏移：模板左上角相对应用坐标的偏移
	Anchor() (int, int)
	// IsActive 判断 (dx,dy) 单元是否参与修改
	IsActive(dx, dy int) bool
}

// Stencil 矩形位网格模板，加载后不可修改
type Stencil struct {
	width   int
	height  int
	anchorX int
	anchorY int
	cells   []bool
}

// NewStencil 从行优先的布尔数组创建模板
func NewStencil(width, height, anchorX, anchorY int, cells []bool) (*Stencil, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("stencil size must be positive, got %dx%d", width, height)
	}
	if len(cells) != width*height {
		return nil, fmt.Errorf("stencil expects %d cells, got %d", width*height, len(cells))
	}
	copied := make([]bool, len(cells))
	copy(copied, cells)
	return &Stencil{
		width:   width,
		height:  height,
		anchorX: anchorX,
		anchorY: anchorY,
		cells:   copied,
	}, nil
}

// ParseStencil 从 ASCII 行解析模板
//
// '#' 或 'X' 表示激活单元，其余字符表示不激活。所有行必须等宽。
func ParseStencil(rows []string, anchorX, anchorY int) (*Stencil, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("stencil has no rows")
	}
	width := len(rows[0])
	cells := make([]bool, 0, width*len(rows))
	for i, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("stencil row %d: expected width %d, got %d", i, width, len(row))
		}
		for _, ch := range row {
			cells = append(cells, ch == '#' || ch == 'X')
		}
	}
	return NewStencil(width, len(rows), anchorX, anchorY, cells)
}

// Width 返回模板宽度
func (s *Stencil) Width() int { return s.width }

// Height 返回模板高度
func (s *Stencil) Height() int { return s.height }

// Anchor 返回锚点偏移
func (s *Stencil) Anchor() (int, int) { return s.anchorX, s.anchorY }

// IsActive 判断单元是否激活，越界返回 false
func (s *Stencil) IsActive(dx, dy int) bool {
	if dx < 0 || dy < 0 || dx >= s.width || dy >= s.height {
		return false
	}
	return s.cells[dy*s.width+dx]
}

// Mirror 返回水平镜像的模板，锚点随之镜像
// 用于从朝右的模板生成朝左版本
func (s *Stencil) Mirror() *Stencil {
	cells := make([]bool, len(s.cells))
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			cells[y*s.width+(s.width-1-x)] = s.cells[y*s.width+x]
		}
	}
	return &Stencil{
		width:   s.width,
		height:  s.height,
		anchorX: -s.anchorX - s.width + 1,
		anchorY: s.anchorY,
		cells:   cells,
	}
}

// String 以 ASCII 形式输出模板，便于调试
func (s *Stencil) String() string {
	var b strings.Builder
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			if s.cells[y*s.width+x] {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		if y < s.height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
