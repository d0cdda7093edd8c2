package scenes

import (
	"image/color"

	"github.com/decker502/lemmings/pkg/level"
	"github.com/decker502/lemmings/pkg/trigger"
)

// 界面颜色
var (
	colorSky          = color.RGBA{R: 0x08, G: 0x08, B: 0x20, A: 0xff}
	colorPanel        = color.RGBA{R: 0x20, G: 0x20, B: 0x30, A: 0xff}
	colorButton       = color.RGBA{R: 0x40, G: 0x40, B: 0x58, A: 0xff}
	colorButtonEmpty  = color.RGBA{R: 0x28, G: 0x28, B: 0x30, A: 0xff}
	colorSelected     = color.RGBA{R: 0xf0, G: 0xd0, B: 0x40, A: 0xff}
	colorHover        = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	colorOverlay      = color.RGBA{A: 0xb0}
	colorLemmingHair  = color.RGBA{R: 0x30, G: 0xd0, B: 0x30, A: 0xff}
	colorLemmingRobe  = color.RGBA{R: 0x40, G: 0x60, B: 0xf0, A: 0xff}
	colorUmbrella     = color.RGBA{R: 0xe0, G: 0x40, B: 0x40, A: 0xff}
	colorDisabledBody = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
)

// handlerColors 每个动作状态的身体颜色，未列出的使用默认长袍色
var handlerColors = map[string]color.RGBA{
	"walking":   colorLemmingRobe,
	"falling":   {R: 0x60, G: 0x80, B: 0xff, A: 0xff},
	"jumping":   {R: 0x60, G: 0x80, B: 0xff, A: 0xff},
	"floating":  {R: 0x60, G: 0x80, B: 0xff, A: 0xff},
	"climbing":  {R: 0x40, G: 0xc0, B: 0xc0, A: 0xff},
	"hoisting":  {R: 0x40, G: 0xc0, B: 0xc0, A: 0xff},
	"blocking":  {R: 0xe0, G: 0x60, B: 0x20, A: 0xff},
	"building":  {R: 0xd0, G: 0xb0, B: 0x60, A: 0xff},
	"bashing":   {R: 0xc0, G: 0x80, B: 0x40, A: 0xff},
	"mining":    {R: 0xc0, G: 0x80, B: 0x40, A: 0xff},
	"digging":   {R: 0xc0, G: 0x80, B: 0x40, A: 0xff},
	"shrugging": {R: 0xa0, G: 0xa0, B: 0xe0, A: 0xff},
	"ohno":      {R: 0xff, G: 0x40, B: 0x40, A: 0xff},
	"exploding": {R: 0xff, G: 0xa0, B: 0x20, A: 0xff},
	"splatting": {R: 0xa0, G: 0x20, B: 0x20, A: 0xff},
	"drowning":  {R: 0x20, G: 0x40, B: 0xa0, A: 0xff},
	"exiting":   {R: 0xf0, G: 0xf0, B: 0x80, A: 0xff},
}

// bodyColor 返回旅鼠身体颜色
func bodyColor(handler string, disabled bool) color.RGBA {
	if c, ok := handlerColors[handler]; ok {
		return c
	}
	if disabled {
		return colorDisabledBody
	}
	return colorLemmingRobe
}

// objectColors 关卡物体的半透明填充色
var objectColors = map[level.ObjectKind]color.RGBA{
	level.ObjectEntrance: {R: 0x80, G: 0x50, B: 0x20, A: 0xa0},
	level.ObjectExit:     {R: 0x30, G: 0xc0, B: 0x50, A: 0xa0},
	level.ObjectWater:    {R: 0x20, G: 0x50, B: 0xd0, A: 0xa0},
	level.ObjectTrap:     {R: 0xc0, G: 0x20, B: 0x20, A: 0xa0},
	level.ObjectHazard:   {R: 0xe0, G: 0x80, B: 0x10, A: 0xa0},
	level.ObjectDecor:    {R: 0x70, G: 0x70, B: 0x70, A: 0x60},
}

// zoneColors 触发区域调试叠加层的边框颜色
var zoneColors = map[trigger.Effect]color.RGBA{
	trigger.EffectExit:         {R: 0x40, G: 0xff, B: 0x40, A: 0xff},
	trigger.EffectDrown:        {R: 0x40, G: 0x80, B: 0xff, A: 0xff},
	trigger.EffectKill:         {R: 0xff, G: 0x40, B: 0x40, A: 0xff},
	trigger.EffectTrap:         {R: 0xff, G: 0x40, B: 0xc0, A: 0xff},
	trigger.EffectBlockerLeft:  {R: 0xff, G: 0xff, B: 0x40, A: 0xff},
	trigger.EffectBlockerRight: {R: 0xff, G: 0xc0, B: 0x40, A: 0xff},
}

func zoneColor(effect trigger.Effect) color.RGBA {
	if c, ok := zoneColors[effect]; ok {
		return c
	}
	return colorHover
}
