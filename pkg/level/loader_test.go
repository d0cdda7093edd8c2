package level

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"
	"testing/fstest"

	"github.com/decker502/lemmings/pkg/config"
	"github.com/decker502/lemmings/pkg/game"
	"github.com/decker502/lemmings/pkg/terrain"
	"github.com/decker502/lemmings/pkg/trigger"
	"github.com/decker502/lemmings/pkg/types"
)

const rowsLevelYAML = `id: "t-rows"
name: "Rows"
count: 4
need: 2
timeLimit: 10
releaseRate: 20
skills:
  digger: 3
terrain:
  scale: 2
  rows:
    - "....."
    - ".S..."
    - "##B##"
objects:
  - kind: entrance
    x: 0
    y: 0
    width: 4
    height: 2
  - kind: exit
    x: 6
    y: 0
    width: 4
    height: 4
    trigger:
      x1: 1
      y1: 1
      x2: 2
      y2: 3
      effect: exit
      cooldown: 5
      sound: 3
  - kind: water
    x: 0
    y: 4
    width: 2
    height: 2
  - kind: decor
    x: 8
    y: 2
    width: 2
    height: 2
`

func mustParse(t *testing.T, text string) *config.LevelConfig {
	t.Helper()
	cfg, err := config.ParseLevelConfig([]byte(text), "test.yaml")
	if err != nil {
		t.Fatalf("ParseLevelConfig() failed: %v", err)
	}
	return cfg
}

func TestBuildRowsTerrain(t *testing.T) {
	lvl, err := Build(mustParse(t, rowsLevelYAML), Options{})
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	if lvl.Terrain.Width() != 10 || lvl.Terrain.Height() != 6 {
		t.Fatalf("Expected 10x6 terrain, got %dx%d", lvl.Terrain.Width(), lvl.Terrain.Height())
	}

	tests := []struct {
		x, y int
		want bool
	}{
		{0, 0, false},
		{2, 2, true}, // 'S' 占据 (2..3, 2..3)
		{3, 3, true},
		{4, 2, false},
		{0, 4, true},
		{9, 5, true},
		{9, 3, false},
	}
	for _, tt := range tests {
		if got := lvl.Terrain.HasGroundAt(tt.x, tt.y); got != tt.want {
			t.Errorf("HasGroundAt(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}

	// 图例颜色写入栅格
	palette := terrain.DefaultPalette()
	want := color.RGBAModel.Convert(palette[terrain.ColorBrick])
	got := color.RGBAModel.Convert(lvl.Terrain.Raster().At(4, 4))
	if got != want {
		t.Errorf("Expected brick color %v at (4,4), got %v", want, got)
	}
}

func TestBuildObjectsAndZones(t *testing.T) {
	lvl, err := Build(mustParse(t, rowsLevelYAML), Options{})
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	if p, ok := lvl.Entrance(); !ok || p != image.Pt(0, 0) {
		t.Errorf("Expected entrance at (0,0), got %v (ok=%v)", p, ok)
	}
	if len(lvl.Objects) != 4 {
		t.Fatalf("Expected 4 objects, got %d", len(lvl.Objects))
	}
	if lvl.Triggers.Len() != 2 {
		t.Fatalf("Expected 2 trigger zones (exit + water), got %d", lvl.Triggers.Len())
	}

	zones := lvl.Triggers.Zones()
	exit := zones[0]
	if exit.X1 != 7 || exit.Y1 != 1 || exit.X2 != 8 || exit.Y2 != 3 {
		t.Errorf("Unexpected exit zone rect (%d,%d)-(%d,%d)", exit.X1, exit.Y1, exit.X2, exit.Y2)
	}
	if exit.Effect != trigger.EffectExit || exit.CooldownTicks != 5 || exit.SoundID != 3 {
		t.Errorf("Unexpected exit zone %+v", exit)
	}
	if lvl.Objects[1].ZoneID != exit.ID {
		t.Errorf("Exit object ZoneID = %d, want %d", lvl.Objects[1].ZoneID, exit.ID)
	}

	// 没有 trigger 的水使用整个矩形
	water := zones[1]
	if water.Effect != trigger.EffectDrown || water.X1 != 0 || water.Y1 != 4 || water.X2 != 1 || water.Y2 != 5 {
		t.Errorf("Unexpected water zone %+v", water)
	}
	if lvl.Objects[3].ZoneID != 0 {
		t.Errorf("Decor should not own a zone, got %d", lvl.Objects[3].ZoneID)
	}
}

func TestBuildCountersAndClock(t *testing.T) {
	lvl, err := Build(mustParse(t, rowsLevelYAML), Options{})
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	if lvl.Skills.Count(types.SkillDigger) != 3 || lvl.Skills.Count(types.SkillBuilder) != 0 {
		t.Errorf("Unexpected skill inventory")
	}
	if lvl.Counter.Total() != 4 || lvl.Counter.GetNeedCount() != 2 || lvl.Counter.SpawnRate() != 20 {
		t.Errorf("Unexpected counter: total=%d need=%d rate=%d", lvl.Counter.Total(), lvl.Counter.GetNeedCount(), lvl.Counter.SpawnRate())
	}
	if lvl.Clock.TimeLimit() != 10*game.TicksPerSecond {
		t.Errorf("Expected time limit %d ticks, got %d", 10*game.TicksPerSecond, lvl.Clock.TimeLimit())
	}
	if lvl.Outcome() != game.OutcomeRunning {
		t.Errorf("Expected running outcome, got %s", lvl.Outcome())
	}
}

const generatedLevelYAML = `id: "t-gen"
name: "Generated"
width: 120
height: 60
count: 1
need: 1
terrain:
  generate:
    seed: 99
    ground: 0.3
objects:
  - kind: entrance
    x: 10
    y: 10
    width: 20
    height: 12
`

func TestBuildGeneratedTerrain(t *testing.T) {
	cfg := mustParse(t, generatedLevelYAML)

	a, err := Build(cfg, Options{})
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	b, err := Build(cfg, Options{})
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if a.Seed != 99 {
		t.Errorf("Expected seed 99, got %d", a.Seed)
	}

	same := true
	for y := 0; y < 60 && same; y++ {
		for x := 0; x < 120; x++ {
			if a.Terrain.HasGroundAt(x, y) != b.Terrain.HasGroundAt(x, y) {
				same = false
				break
			}
		}
	}
	if !same {
		t.Error("Same seed produced different terrain")
	}

	// 入口区域被清空
	if n := a.Terrain.CountGround(10, 10, 29, 21); n != 0 {
		t.Errorf("Expected cleared entrance, found %d ground pixels", n)
	}
	// 基准线较高，底部应大部分为地面
	if n := a.Terrain.CountGround(0, 55, 119, 59); n < 300 {
		t.Errorf("Expected mostly solid bottom rows, got %d ground pixels", n)
	}

	c, err := Build(cfg, Options{Seed: 12345})
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if c.Seed != 12345 {
		t.Errorf("Expected seed override 12345, got %d", c.Seed)
	}
}

func encodePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 4))
	for x := 0; x < 8; x++ {
		img.Set(x, 3, color.NRGBA{R: 0x80, G: 0x50, B: 0x20, A: 0xff})
	}
	img.Set(2, 2, color.NRGBA{A: 0x40}) // 半透明像素不是地面
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() failed: %v", err)
	}
	return buf.Bytes()
}

func TestLoadFSImageTerrain(t *testing.T) {
	fsys := fstest.MapFS{
		"data/levels/img.yaml": {Data: []byte(`id: "img"
name: "Image"
terrain:
  image: "img.png"
`)},
		"data/levels/img.png": {Data: encodePNG(t)},
	}

	lvl, err := LoadFS(fsys, "data/levels/img.yaml", Options{})
	if err != nil {
		t.Fatalf("LoadFS() failed: %v", err)
	}
	if lvl.Terrain.Width() != 8 || lvl.Terrain.Height() != 4 {
		t.Fatalf("Expected 8x4 terrain, got %dx%d", lvl.Terrain.Width(), lvl.Terrain.Height())
	}
	if !lvl.Terrain.HasGroundAt(5, 3) || lvl.Terrain.HasGroundAt(2, 2) {
		t.Error("Unexpected ground from image")
	}

	delete(fsys, "data/levels/img.png")
	if _, err := LoadFS(fsys, "data/levels/img.yaml", Options{}); err == nil {
		t.Error("Expected error for missing image")
	}
}

func TestLoadFromDisk(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(dir+"/t-rows.yaml", []byte(rowsLevelYAML), 0644); err != nil {
		t.Fatalf("Failed to write level: %v", err)
	}
	lvl, err := Load(dir+"/t-rows.yaml", Options{})
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if lvl.ID != "t-rows" {
		t.Errorf("Expected ID t-rows, got %s", lvl.ID)
	}

	if _, err := Load(dir+"/missing.yaml", Options{}); err == nil {
		t.Error("Expected error for missing file")
	}
}

// TestShippedData 所有随程序发布的关卡和模板都能构建
func TestShippedData(t *testing.T) {
	root := os.DirFS("../..")

	ids, err := List(root, "data/levels")
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(ids) == 0 {
		t.Fatal("Expected shipped levels under data/levels")
	}

	for _, id := range ids {
		t.Run(id, func(t *testing.T) {
			lvl, err := LoadFS(root, "data/levels/"+id+".yaml", Options{})
			if err != nil {
				t.Fatalf("LoadFS() failed: %v", err)
			}
			if _, ok := lvl.Entrance(); !ok {
				t.Error("Level has no entrance")
			}
			if lvl.Triggers.Len() == 0 {
				t.Error("Level has no trigger zones")
			}
		})
	}

	masks, err := LoadMasksFS(root, DefaultMasksPath)
	if err != nil {
		t.Fatalf("LoadMasksFS() failed: %v", err)
	}
	if masks.Explode() == nil {
		t.Error("Expected explode mask")
	}
}
