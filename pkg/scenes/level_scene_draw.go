package scenes

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/decker502/lemmings/pkg/components"
	"github.com/decker502/lemmings/pkg/config"
	"github.com/decker502/lemmings/pkg/game"
	"github.com/decker502/lemmings/pkg/types"
	"github.com/decker502/lemmings/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// 旅鼠的绘制尺寸（脚部坐标为底边中点）
const (
	lemmingDrawWidth  = 4
	lemmingDrawHeight = 10
)

// Draw 绘制关卡画面
func (s *LevelScene) Draw(screen *ebiten.Image) {
	screen.Fill(colorSky)

	camX := s.camera.X()
	s.drawTerrain(screen, camX)
	s.drawObjects(screen, camX)
	if s.gameState.Settings.GetSettings().ShowZones {
		s.drawZones(screen, camX)
	}
	s.drawLemmings(screen, camX)
	s.drawPanel(screen)

	if s.session.Finished() {
		s.drawResultOverlay(screen)
	}
}

// drawTerrain 地形纹理只在地形版本变化时重新上传
func (s *LevelScene) drawTerrain(screen *ebiten.Image, camX int) {
	layer := s.session.Level().Terrain
	if layer.Width() == 0 || layer.Height() == 0 {
		return
	}
	if s.terrainImage == nil {
		s.terrainImage = ebiten.NewImage(layer.Width(), layer.Height())
		s.terrainDirty = true
	}
	if s.terrainDirty || layer.Version() != s.terrainVersion {
		if rgba, ok := layer.Raster().(*image.RGBA); ok {
			s.terrainImage.WritePixels(rgba.Pix)
		}
		s.terrainVersion = layer.Version()
		s.terrainDirty = false
	}

	viewport := screen.SubImage(config.PlayfieldRect()).(*ebiten.Image)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(-camX), 0)
	viewport.DrawImage(s.terrainImage, op)
}

func (s *LevelScene) drawObjects(screen *ebiten.Image, camX int) {
	viewport := screen.SubImage(config.PlayfieldRect()).(*ebiten.Image)
	for _, obj := range s.session.Level().Objects {
		c, ok := objectColors[obj.Kind]
		if !ok {
			continue
		}
		b := obj.Bounds
		vector.DrawFilledRect(viewport,
			float32(b.Min.X-camX), float32(b.Min.Y),
			float32(b.Dx()), float32(b.Dy()),
			c, false)
	}
}

// drawZones 调试叠加层：触发区域边框（坐标含右下角）
func (s *LevelScene) drawZones(screen *ebiten.Image, camX int) {
	viewport := screen.SubImage(config.PlayfieldRect()).(*ebiten.Image)
	for _, z := range s.session.Manager().Zones() {
		vector.StrokeRect(viewport,
			float32(z.X1-camX), float32(z.Y1),
			float32(z.X2-z.X1+1), float32(z.Y2-z.Y1+1),
			1, zoneColor(z.Effect), false)
	}
}

func (s *LevelScene) drawLemmings(screen *ebiten.Image, camX int) {
	viewport := screen.SubImage(config.PlayfieldRect()).(*ebiten.Image)
	for _, v := range s.session.Manager().Visuals() {
		x := float32(v.X - camX - lemmingDrawWidth/2)
		y := float32(v.Y - lemmingDrawHeight)

		if v.Handler == "floating" {
			vector.DrawFilledRect(viewport, x-2, y-3, lemmingDrawWidth+4, 2, colorUmbrella, false)
		}
		vector.DrawFilledRect(viewport, x, y+3, lemmingDrawWidth, lemmingDrawHeight-3, bodyColor(v.Handler, v.Disabled), false)
		// 头发朝向前方
		hairX := x - 1
		if v.Facing == components.FacingRight {
			hairX = x + 1
		}
		vector.DrawFilledRect(viewport, hairX, y, lemmingDrawWidth, 3, colorLemmingHair, false)

		if s.hasHover && v.ID == s.hovered {
			vector.StrokeRect(viewport, x-2, y-2, lemmingDrawWidth+4, lemmingDrawHeight+3, 1, colorHover, false)
		}
		if v.Countdown > 0 {
			ebitenutil.DebugPrintAt(viewport, fmt.Sprintf("%d", v.Countdown), int(x)-1, int(y)-18)
		}
	}
}

// drawPanel 技能按钮和状态文字
func (s *LevelScene) drawPanel(screen *ebiten.Image) {
	vector.DrawFilledRect(screen, 0, config.ViewportHeight, config.GameWindowWidth, config.PanelHeight, colorPanel, false)

	lvl := s.session.Level()
	selected := s.session.SelectedIndex()
	for i, skill := range types.AllSkills {
		r := config.SkillButtonRect(i)
		count := lvl.Skills.Count(skill)
		bg := colorButton
		if count == 0 {
			bg = colorButtonEmpty
		}
		vector.DrawFilledRect(screen, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), bg, false)
		if i == selected {
			pulse := utils.Pulse(s.elapsed, 1.0)
			border := color.RGBA{
				R: colorSelected.R,
				G: uint8(float64(colorSelected.G) * (0.6 + 0.4*pulse)),
				B: colorSelected.B,
				A: 0xff,
			}
			vector.StrokeRect(screen, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), 2, border, false)
		}
		ebitenutil.DebugPrintAt(screen, skillLabel(skill), r.Min.X+3, r.Min.Y)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%2d", count), r.Min.X+10, r.Min.Y+14)
	}

	origin := config.HUDOrigin(len(types.AllSkills))
	ebitenutil.DebugPrintAt(screen, s.hudLine(), origin.X, origin.Y)
	ebitenutil.DebugPrintAt(screen, s.statusLine(), origin.X, origin.Y+16)
}

// hudLine 悬停旅鼠、场上/救出数量、剩余时间
func (s *LevelScene) hudLine() string {
	lvl := s.session.Level()
	counter := lvl.Counter

	hover := ""
	if s.hasHover {
		if lem, ok := s.session.Manager().Lemming(s.hovered); ok {
			hover = strings.ToUpper(lem.Action.String()) + " "
		}
	}

	timeText := "--:--"
	if lvl.Clock.TimeLimit() > 0 {
		timeText = formatTicks(lvl.Clock.RemainingTicks())
	}
	return fmt.Sprintf("%sOUT %d IN %d/%d TIME %s", hover, counter.Out(), counter.GetSurvivorsCount(), counter.GetNeedCount(), timeText)
}

// statusLine 释放速率、速度倍率、暂停和提示
func (s *LevelScene) statusLine() string {
	counter := s.session.Level().Counter
	line := fmt.Sprintf("RATE %d (min %d) x%g", counter.SpawnRate(), counter.MinSpawnRate(), s.gameState.Settings.GetSettings().Speed)
	if s.session.Paused() {
		line += " PAUSED"
	}
	if s.messageTT > 0 && s.message != "" {
		line += " " + s.message
	}
	return line
}

// drawResultOverlay 关卡结束后的结果面板
func (s *LevelScene) drawResultOverlay(screen *ebiten.Image) {
	const w, h = 360, 80
	x := float32(config.GameWindowWidth-w) / 2
	y := float32(config.ViewportHeight-h) / 2
	vector.DrawFilledRect(screen, x, y, w, h, colorOverlay, false)
	vector.StrokeRect(screen, x, y, w, h, 1, colorHover, false)

	lines := resultLines(s.session.Outcome(), s.session.Level().Counter, s.session.Manager().Tick())
	if next, ok := nextLevelID(s.levelIDs, s.levelID); ok && s.session.Outcome() == game.OutcomeSucceeded {
		lines = append(lines, fmt.Sprintf("Enter: next level (%s)  R: retry  Esc: menu", next))
	} else {
		lines = append(lines, "Enter/R: retry  Esc: menu")
	}
	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, int(x)+10, int(y)+8+i*16)
	}
}

// resultLines 结果面板的文字
func resultLines(outcome game.Outcome, counter *game.VictoryCounter, ticks uint64) []string {
	var title string
	switch outcome {
	case game.OutcomeSucceeded:
		title = "Level complete!"
	case game.OutcomeFailedTime:
		title = "Out of time."
	case game.OutcomeFailedPopulation:
		title = "Not enough lemmings saved."
	default:
		title = "Running"
	}
	return []string{
		title,
		fmt.Sprintf("Saved %d of %d (needed %d) in %s",
			counter.GetSurvivorsCount(), counter.Total(), counter.GetNeedCount(), formatTicks(ticks)),
	}
}

// skillLabel 按钮上的缩写
func skillLabel(skill types.SkillType) string {
	name := strings.ToUpper(skill.String())
	if len(name) > 4 {
		name = name[:4]
	}
	return name
}
