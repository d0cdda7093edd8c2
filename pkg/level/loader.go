package level

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"log"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/decker502/lemmings/pkg/config"
	"github.com/decker502/lemmings/pkg/game"
	"github.com/decker502/lemmings/pkg/terrain"
	"github.com/decker502/lemmings/pkg/trigger"
)

// Options 关卡构建选项
type Options struct {
	// FS 解析地形图片的文件系统；nil 时使用当前目录
	FS fs.FS
	// Dir 关卡文件在 FS 中所在的目录，图片路径相对此目录
	Dir string
	// Seed 非 0 时覆盖 terrain.generate.seed
	Seed int64
}

// defaultEffects 未显式配置 trigger 的物体使用整个矩形作为触发区域
var defaultEffects = map[ObjectKind]trigger.Effect{
	ObjectExit:   trigger.EffectExit,
	ObjectWater:  trigger.EffectDrown,
	ObjectTrap:   trigger.EffectTrap,
	ObjectHazard: trigger.EffectKill,
}

// Load 从磁盘加载关卡文件
func Load(filename string, opts Options) (*Level, error) {
	cfg, err := config.LoadLevelConfig(filename)
	if err != nil {
		return nil, err
	}
	if opts.FS == nil {
		opts.FS = os.DirFS(filepath.Dir(filename))
		opts.Dir = "."
	}
	return Build(cfg, opts)
}

// LoadFS 从文件系统（通常是嵌入的 data/）加载关卡
// name 是 FS 内的路径，如 "data/levels/fun-1.yaml"
func LoadFS(fsys fs.FS, name string, opts Options) (*Level, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read level %s: %w", name, err)
	}
	cfg, err := config.ParseLevelConfig(data, name)
	if err != nil {
		return nil, err
	}
	opts.FS = fsys
	opts.Dir = path.Dir(name)
	return Build(cfg, opts)
}

// List 返回目录下所有关卡ID（文件名去掉 .yaml），按名称排序
func List(fsys fs.FS, dir string) ([]string, error) {
	matches, err := fs.Glob(fsys, path.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list levels in %s: %w", dir, err)
	}
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, strings.TrimSuffix(path.Base(m), ".yaml"))
	}
	sort.Strings(ids)
	return ids, nil
}

// Build 把已验证的关卡配置组装为可运行的关卡
func Build(cfg *config.LevelConfig, opts Options) (*Level, error) {
	palette, err := config.ParsePalette(cfg.Palette)
	if err != nil {
		return nil, fmt.Errorf("failed to build level %s: %w", cfg.ID, err)
	}

	lvl := &Level{
		ID:       cfg.ID,
		Name:     cfg.Name,
		Triggers: trigger.NewRegistry(),
	}

	switch {
	case cfg.Terrain.Image != "":
		lvl.Terrain, err = loadImageTerrain(cfg.Terrain.Image, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to build level %s: %w", cfg.ID, err)
		}
	case len(cfg.Terrain.Rows) > 0:
		lvl.Terrain = rowsTerrain(cfg, palette)
	case cfg.Terrain.Generate != nil:
		gen := *cfg.Terrain.Generate
		if opts.Seed != 0 {
			gen.Seed = opts.Seed
		}
		lvl.Terrain, lvl.Seed = generateTerrain(cfg.Width, cfg.Height, &gen, palette)
	default:
		return nil, fmt.Errorf("failed to build level %s: no terrain source", cfg.ID)
	}

	for _, oc := range cfg.Objects {
		obj := Object{
			Kind:   ObjectKind(oc.Kind),
			Bounds: image.Rect(oc.X, oc.Y, oc.X+oc.Width, oc.Y+oc.Height),
		}
		if obj.Kind == ObjectEntrance {
			lvl.Entrances = append(lvl.Entrances, image.Pt(oc.X, oc.Y))
			// 生成的地形可能把入口埋住
			if cfg.Terrain.Generate != nil {
				lvl.Terrain.ClearRect(oc.X, oc.Y, oc.X+oc.Width-1, oc.Y+oc.Height-1)
			}
		}
		if zone, ok := objectZone(obj, oc.Trigger); ok {
			obj.ZoneID = lvl.Triggers.Add(zone)
		}
		lvl.Objects = append(lvl.Objects, obj)
	}

	lvl.Skills = game.NewSkillInventory(cfg.SkillCounts())
	lvl.Counter = game.NewVictoryCounter(cfg.Count, cfg.Need, cfg.ReleaseRate)
	lvl.Clock = game.NewSimulationClock(cfg.TimeLimitTicks(game.TicksPerSecond))

	log.Printf("[LevelLoader] Built level %s (%q): %dx%d terrain, %d objects, %d trigger zones, %d lemmings, need %d",
		lvl.ID, lvl.Name, lvl.Terrain.Width(), lvl.Terrain.Height(), len(lvl.Objects), lvl.Triggers.Len(), cfg.Count, cfg.Need)
	return lvl, nil
}

// objectZone 计算物体的触发区域（绝对坐标，含边界）
func objectZone(obj Object, tc *config.TriggerConfig) (trigger.Zone, bool) {
	if tc != nil {
		effect, err := trigger.ParseEffect(tc.Effect)
		if err != nil {
			// 配置已验证过，这里只可能是手工构造的配置
			log.Printf("[LevelLoader] Warning: object %s at %v: %v", obj.Kind, obj.Bounds.Min, err)
			return trigger.Zone{}, false
		}
		return trigger.Zone{
			X1:            obj.Bounds.Min.X + tc.X1,
			Y1:            obj.Bounds.Min.Y + tc.Y1,
			X2:            obj.Bounds.Min.X + tc.X2,
			Y2:            obj.Bounds.Min.Y + tc.Y2,
			Effect:        effect,
			CooldownTicks: uint64(tc.Cooldown),
			SoundID:       tc.Sound,
		}, true
	}

	effect, ok := defaultEffects[obj.Kind]
	if !ok || obj.Bounds.Empty() {
		return trigger.Zone{}, false
	}
	return trigger.Zone{
		X1:     obj.Bounds.Min.X,
		Y1:     obj.Bounds.Min.Y,
		X2:     obj.Bounds.Max.X - 1,
		Y2:     obj.Bounds.Max.Y - 1,
		Effect: effect,
	}, true
}

// rowsTerrain 按缩放把 ASCII 行绘制到地形层
func rowsTerrain(cfg *config.LevelConfig, palette color.Palette) *terrain.Layer {
	scale := cfg.Terrain.Scale
	legend := make(map[rune]uint8, len(cfg.Terrain.Legend))
	for key, index := range cfg.Terrain.Legend {
		legend[[]rune(key)[0]] = uint8(index)
	}

	layer := terrain.NewLayer(cfg.Width, cfg.Height, palette)
	for row, line := range cfg.Terrain.Rows {
		for col, ch := range []rune(line) {
			if ch == '.' || ch == ' ' {
				continue
			}
			index, ok := legend[ch]
			if !ok {
				index = terrain.ColorEarth
			}
			layer.FillRect(col*scale, row*scale, (col+1)*scale-1, (row+1)*scale-1, index)
		}
	}
	return layer
}

// loadImageTerrain 读取 PNG 地形
func loadImageTerrain(name string, opts Options) (*terrain.Layer, error) {
	fsys := opts.FS
	dir := opts.Dir
	if fsys == nil {
		fsys = os.DirFS(".")
	}
	if dir == "" {
		dir = "."
	}

	data, err := fs.ReadFile(fsys, path.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to read terrain image %s: %w", name, err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode terrain image %s: %w", name, err)
	}
	if b := img.Bounds(); b.Dx() > config.MaxLevelWidth || b.Dy() > config.MaxLevelHeight {
		return nil, fmt.Errorf("terrain image %s is %dx%d, exceeds %dx%d", name, b.Dx(), b.Dy(), config.MaxLevelWidth, config.MaxLevelHeight)
	}
	return terrain.FromImage(img), nil
}
