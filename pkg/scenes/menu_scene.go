package scenes

import (
	"fmt"
	"log"

	"github.com/decker502/lemmings/pkg/config"
	"github.com/decker502/lemmings/pkg/embedded"
	"github.com/decker502/lemmings/pkg/game"
	"github.com/decker502/lemmings/pkg/level"
	"github.com/decker502/lemmings/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// MenuEntry 关卡菜单中的一行
type MenuEntry struct {
	ID        string
	Name      string
	Lemmings  int
	Need      int
	Completed bool
	Progress  game.LevelProgress
}

// MenuScene 关卡选择菜单
// 方向键/鼠标选择，回车或点击进入关卡。
type MenuScene struct {
	sceneManager *SceneManager
	gameState    *game.GameState

	entries  []MenuEntry
	selected int
	elapsed  float64
}

// NewMenuScene 创建关卡选择菜单
// levelIDs 为空时菜单只显示提示文字
func NewMenuScene(sm *SceneManager, gs *game.GameState, levelIDs []string) *MenuScene {
	scene := &MenuScene{
		sceneManager: sm,
		gameState:    gs,
		entries:      buildMenuEntries(gs, levelIDs),
	}

	// 默认选中上次玩的关卡
	last := gs.Settings.GetSettings().LastLevel
	for i, e := range scene.entries {
		if e.ID == last {
			scene.selected = i
		}
	}
	return scene
}

// buildMenuEntries 读取每个关卡的名称和目标，合并进度
func buildMenuEntries(gs *game.GameState, levelIDs []string) []MenuEntry {
	entries := make([]MenuEntry, 0, len(levelIDs))
	for _, id := range levelIDs {
		entry := MenuEntry{ID: id, Name: id}
		name := level.LevelPath(level.DefaultLevelsDir, id)
		if data, err := embedded.ReadFile(name); err == nil {
			if cfg, err := config.ParseLevelConfig(data, name); err == nil {
				entry.Name = cfg.Name
				entry.Lemmings = cfg.Count
				entry.Need = cfg.Need
			} else {
				log.Printf("[MenuScene] Warning: %v", err)
			}
		}
		entry.Progress, _ = gs.Progress.Progress(id)
		entry.Completed = entry.Progress.Completed
		entries = append(entries, entry)
	}
	return entries
}

// Entries 返回菜单条目
func (m *MenuScene) Entries() []MenuEntry { return m.entries }

// Selected 返回当前选中的条目索引
func (m *MenuScene) Selected() int { return m.selected }

// Move 上下移动选择（循环）
func (m *MenuScene) Move(delta int) {
	n := len(m.entries)
	if n == 0 {
		return
	}
	m.selected = ((m.selected+delta)%n + n) % n
}

// Update 处理菜单输入
func (m *MenuScene) Update(deltaTime float64) {
	m.elapsed += deltaTime

	if isKeyRepeated(ebiten.KeyArrowUp) || isKeyRepeated(ebiten.KeyW) {
		m.Move(-1)
	}
	if isKeyRepeated(ebiten.KeyArrowDown) || isKeyRepeated(ebiten.KeyS) {
		m.Move(1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		m.open(m.selected)
		return
	}

	px, py := getPointerPosition()
	for i := range m.entries {
		r := config.MenuEntryRect(i)
		if px >= r.Min.X && px < r.Max.X && py >= r.Min.Y && py < r.Max.Y {
			m.selected = i
		}
	}
	if clicked, cx, cy := isJustTouchedOrClicked(); clicked {
		for i := range m.entries {
			r := config.MenuEntryRect(i)
			if cx >= r.Min.X && cx < r.Max.X && cy >= r.Min.Y && cy < r.Max.Y {
				m.open(i)
				return
			}
		}
	}
}

func (m *MenuScene) open(index int) {
	if index < 0 || index >= len(m.entries) {
		return
	}
	id := m.entries[index].ID
	log.Printf("[MenuScene] Opening level %s", id)
	if !m.sceneManager.LoadLevel(id) {
		log.Printf("[MenuScene] Error: failed to open level %s", id)
	}
}

// Draw 绘制菜单
func (m *MenuScene) Draw(screen *ebiten.Image) {
	screen.Fill(colorSky)
	ebitenutil.DebugPrintAt(screen, "LEMMINGS - select a level", 40, 12)
	ebitenutil.DebugPrintAt(screen, menuHelp(utils.IsMobile()), 40, 26)

	if len(m.entries) == 0 {
		ebitenutil.DebugPrintAt(screen, "No levels found in "+level.DefaultLevelsDir, 40, config.MenuListTop)
		return
	}

	for i, e := range m.entries {
		r := config.MenuEntryRect(i)
		if i == m.selected {
			pulse := utils.Pulse(m.elapsed, 1.2)
			bg := colorButton
			bg.B = uint8(float64(bg.B) + 40*pulse)
			vector.DrawFilledRect(screen, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), bg, false)
		}
		ebitenutil.DebugPrintAt(screen, menuLine(e), r.Min.X+4, r.Min.Y)
	}
}

// menuLine 菜单一行的文字
func menuLine(e MenuEntry) string {
	mark := " "
	if e.Completed {
		mark = "*"
	}
	line := fmt.Sprintf("%s %-10s %-24s save %d of %d", mark, e.ID, e.Name, e.Need, e.Lemmings)
	if e.Progress.Attempts > 0 {
		line += fmt.Sprintf("  best %d", e.Progress.BestSaved)
		if e.Progress.BestTicks > 0 {
			line += " in " + formatTicks(e.Progress.BestTicks)
		}
	}
	return line
}

// menuHelp 菜单顶部的操作说明
func menuHelp(mobile bool) string {
	if mobile {
		return "Tap a level to play. In game: tap a skill, then tap a lemming."
	}
	return "Up/Down + Enter, or click. In game: 1-8 skills, +/- rate, P pause, F speed, Z zones, Esc menu"
}
