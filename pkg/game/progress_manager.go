package game

import (
	"fmt"
	"log"
	"sort"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// LevelProgress 单个关卡的最好成绩
type LevelProgress struct {
	Completed bool   `yaml:"completed"`
	Attempts  int    `yaml:"attempts"`
	BestSaved int    `yaml:"bestSaved"` // 救出最多的一次
	BestTicks uint64 `yaml:"bestTicks"` // 成功时最少的 tick 数，0 表示没有成功记录
}

// ProgressData 保存数据结构
type ProgressData struct {
	Levels map[string]*LevelProgress `yaml:"levels"`
}

// ProgressManager 关卡进度管理器
//
// 职责：
//   - 加载和保存每个关卡的最好成绩
//   - 判断关卡是否已完成
//
// 数据以 YAML 形式保存在 gdata 中；gdataManager 为 nil 时只在内存中记录。
type ProgressManager struct {
	gdataManager *gdata.Manager
	data         *ProgressData
}

// 存储路径常量
const (
	progressObject   = "progress"
	progressProperty = "levels"
)

// NewProgressManager 创建进度管理器并尝试加载已有进度
func NewProgressManager(gdataManager *gdata.Manager) (*ProgressManager, error) {
	pm := &ProgressManager{
		gdataManager: gdataManager,
		data:         newProgressData(),
	}
	if err := pm.Load(); err != nil {
		log.Printf("[ProgressManager] Warning: Failed to load progress: %v (starting fresh)", err)
	}
	return pm, nil
}

func newProgressData() *ProgressData {
	return &ProgressData{Levels: make(map[string]*LevelProgress)}
}

// Load 从 gdata 加载进度
func (pm *ProgressManager) Load() error {
	if pm.gdataManager == nil || !pm.gdataManager.ObjectPropExists(progressObject, progressProperty) {
		pm.data = newProgressData()
		return nil
	}

	raw, err := pm.gdataManager.LoadObjectProp(progressObject, progressProperty)
	if err != nil {
		pm.data = newProgressData()
		return fmt.Errorf("failed to load progress: %w", err)
	}

	var data ProgressData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		pm.data = newProgressData()
		return fmt.Errorf("failed to parse progress data: %w", err)
	}
	if data.Levels == nil {
		data.Levels = make(map[string]*LevelProgress)
	}
	pm.data = &data
	return nil
}

// Save 保存进度到 gdata（降级模式下不报错）
func (pm *ProgressManager) Save() error {
	if pm.gdataManager == nil {
		return nil
	}

	raw, err := yaml.Marshal(pm.data)
	if err != nil {
		return fmt.Errorf("failed to marshal progress data: %w", err)
	}
	if err := pm.gdataManager.SaveObjectProp(progressObject, progressProperty, raw); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}

// Record 记录一次结束的运行，返回是否刷新了最好成绩
// 进行中的结果不记录
func (pm *ProgressManager) Record(levelID string, outcome Outcome, saved int, ticks uint64) bool {
	if !outcome.Finished() || levelID == "" {
		return false
	}

	p, ok := pm.data.Levels[levelID]
	if !ok {
		p = &LevelProgress{}
		pm.data.Levels[levelID] = p
	}
	p.Attempts++

	improved := false
	if saved > p.BestSaved {
		p.BestSaved = saved
		improved = true
	}
	if outcome == OutcomeSucceeded {
		if !p.Completed {
			p.Completed = true
			improved = true
		}
		if p.BestTicks == 0 || ticks < p.BestTicks {
			p.BestTicks = ticks
			improved = true
		}
	}

	if improved {
		log.Printf("[ProgressManager] New best on %s: saved %d, completed=%v, best ticks %d", levelID, p.BestSaved, p.Completed, p.BestTicks)
	}
	return improved
}

// Progress 返回关卡进度的副本
func (pm *ProgressManager) Progress(levelID string) (LevelProgress, bool) {
	p, ok := pm.data.Levels[levelID]
	if !ok {
		return LevelProgress{}, false
	}
	return *p, true
}

// IsCompleted 判断关卡是否已完成
func (pm *ProgressManager) IsCompleted(levelID string) bool {
	p, ok := pm.data.Levels[levelID]
	return ok && p.Completed
}

// CompletedLevels 返回已完成的关卡ID（排序后）
func (pm *ProgressManager) CompletedLevels() []string {
	ids := make([]string, 0, len(pm.data.Levels))
	for id, p := range pm.data.Levels {
		if p.Completed {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
