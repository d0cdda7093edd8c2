// lemtui 在终端中运行关卡
//
// 地形按字符格缩小显示，旅鼠用字符表示朝向和动作。
// 按键：1-8 选择技能，方向键移动光标，空格/回车对光标处的旅鼠使用技能，
// +/- 调整释放速率，p 暂停，f 切换速度，r 重新开始，q/Esc 退出。也可以用鼠标点击。
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/decker502/lemmings/pkg/game"
	"github.com/decker502/lemmings/pkg/level"
	"github.com/decker502/lemmings/pkg/systems"
	"github.com/decker502/lemmings/pkg/systems/action"
	"github.com/decker502/lemmings/pkg/types"
)

var (
	rootFlag  = flag.String("root", ".", "包含 data/ 的目录")
	levelFlag = flag.String("level", "fun-1", "关卡ID")
	seedFlag  = flag.Int64("seed", 0, "生成地形的种子，0 使用关卡中的值")
	cellW     = flag.Int("cell-w", 4, "每个字符代表的像素宽度")
	cellH     = flag.Int("cell-h", 8, "每个字符代表的像素高度")
	logFile   = flag.String("log", "", "日志文件（终端被界面占用，默认不输出日志）")
)

// frameInterval 界面刷新间隔
const frameInterval = time.Second / 30

var speedSteps = []float64{1, 2, 4, 8}

// Viewer 终端宿主
type Viewer struct {
	screen        tcell.Screen
	width, height int

	masks   *action.MaskSet
	session *systems.Session
	cells   cellSize

	camCol               int
	cursorCol, cursorRow int
	speedIndex           int
	message              string
	lastFrame            time.Time
}

// NewViewer 初始化终端并加载关卡
func NewViewer(masks *action.MaskSet, cells cellSize) (*Viewer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse()
	screen.HideCursor()

	v := &Viewer{
		screen: screen,
		masks:  masks,
		cells:  cells,
	}
	v.width, v.height = screen.Size()
	if err := v.restart(); err != nil {
		screen.Fini()
		return nil, err
	}
	return v, nil
}

// restart 重新加载关卡，光标放在入口处
func (v *Viewer) restart() error {
	lvl, err := level.LoadFS(os.DirFS(*rootFlag), level.LevelPath(level.DefaultLevelsDir, *levelFlag), level.Options{Seed: *seedFlag})
	if err != nil {
		return err
	}
	v.session = systems.NewSession(lvl, v.masks)
	v.session.OnFinish(func(outcome game.Outcome, saved int, ticks uint64) {
		v.message = fmt.Sprintf("%s: saved %d in %s - r to retry, q to quit", outcome, saved, formatTicks(ticks))
	})
	v.session.SelectSkillIndex(0)

	if entrance, ok := lvl.Entrance(); ok {
		c := v.cells.cellOf(entrance.X+systems.SpawnOffsetX, entrance.Y+systems.SpawnOffsetY)
		v.cursorCol, v.cursorRow = c.X, c.Y
	}
	v.message = lvl.Name
	v.lastFrame = time.Now()
	v.follow()
	return nil
}

func (v *Viewer) worldCols() int {
	return (v.session.Level().Terrain.Width() + v.cells.w - 1) / v.cells.w
}

func (v *Viewer) worldRows() int {
	return (v.session.Level().Terrain.Height() + v.cells.h - 1) / v.cells.h
}

func (v *Viewer) viewRows() int {
	rows := v.height - hudRows
	if wr := v.worldRows(); rows > wr {
		rows = wr
	}
	return rows
}

// follow 调整摄像机使光标可见
func (v *Viewer) follow() {
	v.camCol = clampCamera(v.camCol, v.cursorCol, v.width, v.worldCols())
}

func (v *Viewer) moveCursor(dx, dy int) {
	v.cursorCol = clampInt(v.cursorCol+dx, 0, v.worldCols()-1)
	v.cursorRow = clampInt(v.cursorRow+dy, 0, v.worldRows()-1)
	v.follow()
}

// applyAtCursor 对光标所在字格中的旅鼠使用技能
func (v *Viewer) applyAtCursor() {
	p := v.cells.center(v.cursorCol, v.cursorRow)
	id, applied := v.session.ApplyAt(p.X, p.Y)
	switch {
	case id == 0:
		v.message = "no lemming under the cursor"
	case applied:
		v.message = fmt.Sprintf("%s assigned to lemming %d", v.session.Level().Skills.Selected(), id)
	default:
		v.message = fmt.Sprintf("%s cannot be used on lemming %d", v.session.Level().Skills.Selected(), id)
	}
}

func (v *Viewer) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft:
			v.moveCursor(-1, 0)
		case tcell.KeyRight:
			v.moveCursor(1, 0)
		case tcell.KeyUp:
			v.moveCursor(0, -1)
		case tcell.KeyDown:
			v.moveCursor(0, 1)
		case tcell.KeyEnter:
			v.applyAtCursor()
		case tcell.KeyRune:
			return v.handleRune(ev.Rune())
		}

	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 != 0 {
			x, y := ev.Position()
			if y < v.viewRows() {
				v.cursorCol, v.cursorRow = v.camCol+x, y
				v.applyAtCursor()
			}
		}

	case *tcell.EventResize:
		v.width, v.height = v.screen.Size()
		v.follow()
		v.screen.Sync()
	}
	return true
}

func (v *Viewer) handleRune(r rune) bool {
	switch {
	case r == 'q':
		return false
	case r >= '1' && r <= '8':
		v.session.SelectSkillIndex(int(r - '1'))
	case r == ' ':
		v.applyAtCursor()
	case r == '+' || r == '=':
		v.message = fmt.Sprintf("release rate %d", v.session.AdjustRate(1))
	case r == '-':
		v.message = fmt.Sprintf("release rate %d", v.session.AdjustRate(-1))
	case r == 'p':
		if v.session.TogglePause() {
			v.message = "paused"
		} else {
			v.message = ""
		}
	case r == 'f':
		v.speedIndex = (v.speedIndex + 1) % len(speedSteps)
		v.message = fmt.Sprintf("speed x%g", speedSteps[v.speedIndex])
	case r == 'r':
		if err := v.restart(); err != nil {
			v.message = err.Error()
		}
	case r == 'h':
		v.moveCursor(-v.width/2, 0)
	case r == 'l':
		v.moveCursor(v.width/2, 0)
	}
	return true
}

// update 按真实时间推进会话
func (v *Viewer) update() {
	now := time.Now()
	dt := now.Sub(v.lastFrame).Seconds()
	v.lastFrame = now
	v.session.Advance(dt, speedSteps[v.speedIndex])
}

func (v *Viewer) draw() {
	v.screen.Clear()
	lvl := v.session.Level()
	rows := v.viewRows()

	// 物体作为背景色
	bg := make(map[[2]int]tcell.Color)
	for _, obj := range lvl.Objects {
		c, ok := objectStyles[obj.Kind]
		if !ok {
			continue
		}
		lo := v.cells.cellOf(obj.Bounds.Min.X, obj.Bounds.Min.Y)
		hi := v.cells.cellOf(obj.Bounds.Max.X-1, obj.Bounds.Max.Y-1)
		for row := lo.Y; row <= hi.Y; row++ {
			for col := lo.X; col <= hi.X; col++ {
				bg[[2]int{col, row}] = c
			}
		}
	}

	raster := lvl.Terrain.Raster()
	for sy := 0; sy < rows; sy++ {
		for sx := 0; sx < v.width; sx++ {
			col := v.camCol + sx
			style := tcell.StyleDefault
			if c, ok := bg[[2]int{col, sy}]; ok {
				style = style.Background(c)
			}
			ch, first, ok := terrainCell(lvl.Terrain, v.cells, col, sy)
			if ok {
				r, g, b, _ := raster.At(first.X, first.Y).RGBA()
				style = style.Foreground(tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(b>>8)))
			}
			v.screen.SetContent(sx, sy, ch, nil, style)
		}
	}

	for _, vis := range v.session.Manager().Visuals() {
		c := v.cells.cellOf(vis.X, vis.Y-1)
		sx := c.X - v.camCol
		if sx < 0 || sx >= v.width || c.Y < 0 || c.Y >= rows {
			continue
		}
		v.screen.SetContent(sx, c.Y, lemmingRune(vis), nil, tcell.StyleDefault.Foreground(lemmingColor(vis)).Bold(true))
	}

	// 光标
	if sx := v.cursorCol - v.camCol; sx >= 0 && sx < v.width && v.cursorRow < rows {
		mainc, combc, style, _ := v.screen.GetContent(sx, v.cursorRow)
		v.screen.SetContent(sx, v.cursorRow, mainc, combc, style.Reverse(true))
	}

	v.drawHUD(rows)
	v.screen.Show()
}

func (v *Viewer) drawHUD(top int) {
	lvl := v.session.Level()
	selected := v.session.SelectedIndex()

	var skills strings.Builder
	for i, skill := range types.AllSkills {
		mark := ' '
		if i == selected {
			mark = '*'
		}
		fmt.Fprintf(&skills, "%c%d:%s %d ", mark, i+1, skill, lvl.Skills.Count(skill))
	}

	counter := lvl.Counter
	timeText := "--:--"
	if lvl.Clock.TimeLimit() > 0 {
		timeText = formatTicks(lvl.Clock.RemainingTicks())
	}
	status := fmt.Sprintf("OUT %d  IN %d/%d  TIME %s  RATE %d  x%g",
		counter.Out(), counter.GetSurvivorsCount(), counter.GetNeedCount(), timeText,
		counter.SpawnRate(), speedSteps[v.speedIndex])
	if v.session.Paused() {
		status += "  PAUSED"
	}

	v.printLine(top, skills.String(), tcell.StyleDefault.Foreground(tcell.ColorWhite))
	v.printLine(top+1, status, tcell.StyleDefault.Foreground(tcell.ColorAqua))
	v.printLine(top+2, v.message, tcell.StyleDefault.Foreground(tcell.ColorYellow))
}

func (v *Viewer) printLine(row int, text string, style tcell.Style) {
	if row >= v.height {
		return
	}
	col := 0
	for _, r := range text {
		if col >= v.width {
			break
		}
		v.screen.SetContent(col, row, r, nil, style)
		col++
	}
}

func (v *Viewer) run() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			eventChan <- v.screen.PollEvent()
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if ev == nil || !v.handleInput(ev) {
				return
			}
		case <-ticker.C:
			v.update()
			v.draw()
		}
	}
}

func (v *Viewer) cleanup() {
	v.screen.Fini()
}

func formatTicks(ticks uint64) string {
	secs := ticks / game.TicksPerSecond
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func main() {
	flag.Parse()

	log.SetOutput(io.Discard)
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	if *cellW <= 0 || *cellH <= 0 {
		fmt.Fprintf(os.Stderr, "cell size must be positive, got %dx%d\n", *cellW, *cellH)
		os.Exit(1)
	}
	masks, err := level.LoadMasksFS(os.DirFS(*rootFlag), level.DefaultMasksPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load masks: %v\n", err)
		os.Exit(1)
	}

	viewer, err := NewViewer(masks, cellSize{w: *cellW, h: *cellH})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer viewer.cleanup()

	viewer.run()
}
