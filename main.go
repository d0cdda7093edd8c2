package main

import (
	"flag"
	"log"

	"github.com/decker502/lemmings/pkg/app"
	"github.com/decker502/lemmings/pkg/embedded"
	"github.com/decker502/lemmings/pkg/game"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	verbose   = flag.Bool("verbose", false, "显示详细日志")
	levelFlag = flag.String("level", "", "直接进入指定关卡（如 fun-2），为空显示关卡选择菜单")
)

func main() {
	flag.Parse()

	// 必须在任何数据加载之前初始化
	embedded.Init(dataFS)

	application, err := app.NewApp(app.Config{
		Verbose: *verbose,
		Level:   *levelFlag,
	})
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}

	ebiten.SetWindowSize(app.WindowSize(game.GetGameState().Settings.GetSettings().Zoom))
	ebiten.SetWindowTitle("Lemmings")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	// 窗口关闭后 RunGame 返回
	runErr := ebiten.RunGame(application)
	application.Shutdown()
	if runErr != nil {
		log.Fatal(runErr)
	}
}
