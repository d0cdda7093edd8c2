// check_levels 校验 data/ 下的所有关卡和模板，打印每个关卡的摘要
//
// 用法: check_levels [-root .]
package main

import (
	"crypto/md5"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/decker502/lemmings/pkg/level"
	"github.com/decker502/lemmings/pkg/terrain"
)

var rootFlag = flag.String("root", ".", "包含 data/ 的目录")

func main() {
	flag.Parse()
	log.SetOutput(io.Discard)

	fsys := os.DirFS(*rootFlag)
	if _, err := level.LoadMasksFS(fsys, level.DefaultMasksPath); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Masks: %s OK\n", level.DefaultMasksPath)

	ids, err := level.List(fsys, level.DefaultLevelsDir)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	failed := 0
	for _, id := range ids {
		name := level.LevelPath(level.DefaultLevelsDir, id)
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			fmt.Printf("FAIL %-10s %v\n", id, err)
			failed++
			continue
		}
		lvl, err := level.LoadFS(fsys, name, level.Options{})
		if err != nil {
			fmt.Printf("FAIL %-10s %v\n", id, err)
			failed++
			continue
		}
		entrance := "none"
		if p, ok := lvl.Entrance(); ok {
			entrance = p.String()
		}
		fmt.Printf("OK   %-10s %-26q %4dx%-4d ground %2d%%, save %d of %d, %d zones, entrance %s, %s, md5 %x\n",
			id, lvl.Name, lvl.Terrain.Width(), lvl.Terrain.Height(), groundPercent(lvl.Terrain),
			lvl.Counter.GetNeedCount(), lvl.Counter.Total(), lvl.Triggers.Len(), entrance,
			humanize.Bytes(uint64(len(data))), md5.Sum(data))
	}

	fmt.Printf("%d levels, %d failed\n", len(ids), failed)
	if failed > 0 {
		os.Exit(1)
	}
}

// groundPercent 地面像素占整张地图的百分比
func groundPercent(layer *terrain.Layer) int {
	total := layer.Width() * layer.Height()
	if total == 0 {
		return 0
	}
	return layer.CountGround(0, 0, layer.Width()-1, layer.Height()-1) * 100 / total
}
