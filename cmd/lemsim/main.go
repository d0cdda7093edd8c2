// lemsim 无界面运行关卡：按技能方案操作，写入事件日志和运行记录
//
// 用法:
//
//	lemsim -level fun-1 -plan data/plans/fun-1.yaml -journal runs -stats runs/stats.db
//	lemsim -level fun-2 -realtime -speed 4
//	lemsim -stats runs/stats.db -report
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/decker502/lemmings/pkg/game"
	"github.com/decker502/lemmings/pkg/journal"
	"github.com/decker502/lemmings/pkg/level"
	"github.com/decker502/lemmings/pkg/plan"
	"github.com/decker502/lemmings/pkg/stats"
	"github.com/decker502/lemmings/pkg/systems"
	"github.com/decker502/lemmings/pkg/types"
)

var (
	rootFlag     = flag.String("root", ".", "包含 data/ 的目录")
	levelFlag    = flag.String("level", "", "关卡ID（如 fun-1），为空时使用方案中的关卡")
	fileFlag     = flag.String("file", "", "直接加载关卡文件，优先于 -level")
	seedFlag     = flag.Int64("seed", 0, "生成地形的种子，0 使用关卡或方案中的值")
	planFlag     = flag.String("plan", "", "技能方案 YAML 文件")
	journalFlag  = flag.String("journal", "", "事件日志输出目录，为空不写日志")
	statsFlag    = flag.String("stats", "", "运行记录数据库路径，为空不记录")
	maxTicksFlag = flag.Uint64("max-ticks", 0, "最多运行的 tick 数，0 表示直到关卡结束")
	reportFlag   = flag.Bool("report", false, "只打印 -stats 数据库中的关卡汇总")
	realtimeFlag = flag.Bool("realtime", false, "按真实时间运行（每秒 16 tick × -speed），Ctrl+C 中止")
	speedFlag    = flag.Float64("speed", 1, "-realtime 时的速度倍率")
	verbose      = flag.Bool("verbose", false, "显示详细日志")
)

// noLimitTicks 关卡不限时且未指定 -max-ticks 时的上限（一小时游戏时间）
const noLimitTicks = 3600 * game.TicksPerSecond

func main() {
	flag.Parse()
	if !*verbose {
		log.SetOutput(io.Discard)
	}

	var err error
	if *reportFlag {
		err = report(*statsFlag)
	} else {
		err = simulate()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func simulate() error {
	var p *plan.Plan
	if *planFlag != "" {
		loaded, err := plan.Load(*planFlag)
		if err != nil {
			return err
		}
		p = loaded
	} else {
		p = &plan.Plan{}
	}

	seed := *seedFlag
	if seed == 0 {
		seed = p.Seed
	}
	lvl, err := loadLevel(p, seed)
	if err != nil {
		return err
	}
	masks, err := level.LoadMasksFS(os.DirFS(*rootFlag), level.DefaultMasksPath)
	if err != nil {
		return fmt.Errorf("failed to load masks: %w", err)
	}

	manager := systems.NewForLevel(lvl, masks)
	runner := plan.NewRunner(p, manager)

	skillsUsed := make(map[types.SkillType]int)
	manager.Subscribe(func(ev systems.Event) {
		if ev.Kind == systems.EventSkill {
			skillsUsed[ev.Skill]++
		}
	})

	runID := stats.NewRunID()
	started := time.Now()

	var j *journal.Journal
	if *journalFlag != "" {
		if err := os.MkdirAll(*journalFlag, 0o755); err != nil {
			return fmt.Errorf("failed to create journal dir: %w", err)
		}
		j, err = journal.Create(*journalFlag, journal.Header{
			RunID:   runID,
			LevelID: lvl.ID,
			Seed:    lvl.Seed,
			Started: started.Format(time.RFC3339),
		})
		if err != nil {
			return err
		}
		manager.Subscribe(j.Record)
	}

	maxTicks := *maxTicksFlag
	if maxTicks == 0 {
		maxTicks = lvl.Clock.TimeLimit()
		if maxTicks == 0 {
			maxTicks = noLimitTicks
		}
	}

	outcome := lvl.Outcome()
	runner.Apply()
	if *realtimeFlag {
		outcome, err = runRealtime(lvl, manager, runner, maxTicks)
		if err != nil {
			return err
		}
	} else {
		for !outcome.Finished() && manager.Tick() < maxTicks {
			outcome = manager.Step()
			runner.Apply()
		}
	}
	elapsed := time.Since(started)

	if j != nil {
		if err := j.Close(); err != nil {
			return err
		}
	}

	counter := lvl.Counter
	run := &stats.Run{
		ID:         runID,
		LevelID:    lvl.ID,
		Seed:       lvl.Seed,
		Outcome:    outcome.String(),
		Ticks:      int64(manager.Tick()),
		Released:   counter.Total() - counter.Remaining(),
		Saved:      counter.GetSurvivorsCount(),
		Needed:     counter.GetNeedCount(),
		StartedAt:  started.Unix(),
		DurationMS: elapsed.Milliseconds(),
		Skills:     skillsUsed,
	}
	for _, n := range skillsUsed {
		run.SkillsUsed += n
	}

	printSummary(lvl, run, runner.Results())
	if j != nil {
		size := "?"
		if fi, err := os.Stat(j.Path()); err == nil {
			size = humanize.Bytes(uint64(fi.Size()))
		}
		fmt.Printf("Journal:  %s (%s events, %s)\n", j.Path(), humanize.Comma(int64(j.Events())), size)
	}

	if *statsFlag != "" {
		store, err := stats.Open(*statsFlag)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.RecordRun(run); err != nil {
			return err
		}
		fmt.Printf("Recorded: run %s in %s\n", run.ID, *statsFlag)
	}
	return nil
}

// runRealtime 用关卡时钟驱动模拟，中断信号只停止时钟，已写入的日志和记录照常保存
func runRealtime(lvl *level.Level, manager *systems.LemmingManager, runner *plan.Runner, maxTicks uint64) (game.Outcome, error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	lvl.Clock.SetSpeed(*speedFlag)
	outcome := lvl.Outcome()
	err := lvl.Clock.Run(ctx, func(tick uint64) bool {
		outcome = manager.RunTick(tick)
		runner.Apply()
		if tick%game.TicksPerSecond == 0 {
			c := lvl.Counter
			fmt.Printf("\r%s  out %d  saved %d/%d ", gameTime(int64(tick)), c.Out(), c.GetSurvivorsCount(), c.GetNeedCount())
		}
		return !outcome.Finished() && tick < maxTicks
	})
	fmt.Println()
	if err != nil {
		return outcome, fmt.Errorf("failed to run level clock: %w", err)
	}
	return outcome, nil
}

// loadLevel 按 -file、-level、方案中的关卡的顺序选择关卡
func loadLevel(p *plan.Plan, seed int64) (*level.Level, error) {
	opts := level.Options{Seed: seed}
	if *fileFlag != "" {
		return level.Load(*fileFlag, opts)
	}
	id := *levelFlag
	if id == "" {
		id = p.Level
	}
	if id == "" {
		return nil, fmt.Errorf("no level given: use -level, -file or a plan with a level")
	}
	return level.LoadFS(os.DirFS(*rootFlag), level.LevelPath(level.DefaultLevelsDir, id), opts)
}

func printSummary(lvl *level.Level, run *stats.Run, results []plan.Result) {
	fmt.Printf("Level:    %s (%s)\n", lvl.ID, lvl.Name)
	if lvl.Seed != 0 {
		fmt.Printf("Seed:     %d\n", lvl.Seed)
	}
	fmt.Printf("Outcome:  %s\n", run.Outcome)
	fmt.Printf("Saved:    %d of %d released (needed %d)\n", run.Saved, run.Released, run.Needed)
	fmt.Printf("Ticks:    %s (%s game time, simulated in %s)\n",
		humanize.Comma(run.Ticks),
		gameTime(run.Ticks),
		time.Duration(run.DurationMS)*time.Millisecond)

	if run.SkillsUsed > 0 {
		parts := make([]string, 0, len(run.Skills))
		for _, skill := range types.AllSkills {
			if n := run.Skills[skill]; n > 0 {
				parts = append(parts, fmt.Sprintf("%s x%d", skill, n))
			}
		}
		fmt.Printf("Skills:   %s\n", strings.Join(parts, ", "))
	}

	for i, res := range results {
		if !res.Applied {
			fmt.Printf("Plan:     %s action (%s) skipped: %s\n", humanize.Ordinal(i+1), res.Action, res.Reason)
		}
	}
}

// gameTime 把 tick 数格式化为 m:ss
func gameTime(ticks int64) string {
	secs := ticks / game.TicksPerSecond
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func report(path string) error {
	if path == "" {
		return fmt.Errorf("-report needs -stats")
	}
	store, err := stats.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	summaries, err := store.Summaries()
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Printf("%-12s %6s %6s %10s %10s  %s\n", "LEVEL", "RUNS", "WINS", "BEST SAVED", "BEST TIME", "LAST RUN")
	for _, s := range summaries {
		best := "-"
		if s.BestTicks > 0 {
			best = gameTime(s.BestTicks)
		}
		last := "-"
		if runs, err := store.RecentRuns(s.LevelID, 1); err == nil && len(runs) > 0 {
			last = humanize.Time(time.Unix(runs[0].StartedAt, 0))
		}
		fmt.Printf("%-12s %6s %6s %10d %10s  %s\n",
			s.LevelID, humanize.Comma(int64(s.Runs)), humanize.Comma(int64(s.Wins)), s.BestSaved, best, last)
	}
	return nil
}
