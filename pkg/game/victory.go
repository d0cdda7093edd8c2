package game

// Outcome 关卡结果（每个 tick 由宿主循环计算，不保存）
type Outcome int

const (
	// OutcomeRunning 关卡进行中
	OutcomeRunning Outcome = iota
	// OutcomeSucceeded 达到救援目标
	OutcomeSucceeded
	// OutcomeFailedTime 时间耗尽且未达标
	OutcomeFailedTime
	// OutcomeFailedPopulation 旅鼠全部释放并离场且未达标
	OutcomeFailedPopulation
)

// String 返回结果名称
func (o Outcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeFailedTime:
		return "failed-time"
	case OutcomeFailedPopulation:
		return "failed-population"
	default:
		return "running"
	}
}

// Finished 判断关卡是否结束
func (o Outcome) Finished() bool {
	return o != OutcomeRunning
}

// VictoryCounter 旅鼠数量统计
//
// 计数只通过 ReleaseOne / RemoveOne / AddSurvivor 修改，
// 胜负由 Evaluate 即时推导，不单独保存，避免两份状态不一致。
type VictoryCounter struct {
	quotaNeeded        int
	totalToRelease     int
	remainingToRelease int
	currentlyOut       int
	survivors          int
	spawnRatePercent   int // 0-99，越小越快
	minSpawnRate       int // 关卡给定的最低释放速率，玩家只能调高
}

// NewVictoryCounter 创建统计器
//
// 参数：
//   - total: 本关释放的旅鼠总数
//   - need: 需要救出的数量
//   - spawnRate: 初始释放速率（0-99）
func NewVictoryCounter(total, need, spawnRate int) *VictoryCounter {
	if total < 0 {
		total = 0
	}
	if need < 0 {
		need = 0
	}
	spawnRate = clampRate(spawnRate)
	return &VictoryCounter{
		quotaNeeded:        need,
		totalToRelease:     total,
		remainingToRelease: total,
		spawnRatePercent:   spawnRate,
		minSpawnRate:       spawnRate,
	}
}

func clampRate(rate int) int {
	if rate < 0 {
		return 0
	}
	if rate > 99 {
		return 99
	}
	return rate
}

// ReleaseOne 释放一只旅鼠；没有剩余时返回 false
func (vc *VictoryCounter) ReleaseOne() bool {
	if vc.remainingToRelease <= 0 {
		return false
	}
	vc.remainingToRelease--
	vc.currentlyOut++
	return true
}

// RemoveOne 一只旅鼠在途中死亡
func (vc *VictoryCounter) RemoveOne() {
	if vc.currentlyOut > 0 {
		vc.currentlyOut--
	}
}

// AddSurvivor 一只旅鼠到达出口
func (vc *VictoryCounter) AddSurvivor() {
	vc.survivors++
	if vc.currentlyOut > 0 {
		vc.currentlyOut--
	}
}

// GetSurvivorsCount 返回已救出数量
func (vc *VictoryCounter) GetSurvivorsCount() int { return vc.survivors }

// GetNeedCount 返回需要救出的数量
func (vc *VictoryCounter) GetNeedCount() int { return vc.quotaNeeded }

// Total 返回释放总数
func (vc *VictoryCounter) Total() int { return vc.totalToRelease }

// Remaining 返回尚未释放的数量
func (vc *VictoryCounter) Remaining() int { return vc.remainingToRelease }

// Out 返回场上的数量
func (vc *VictoryCounter) Out() int { return vc.currentlyOut }

// SpawnRate 返回当前释放速率
func (vc *VictoryCounter) SpawnRate() int { return vc.spawnRatePercent }

// MinSpawnRate 返回关卡给定的最低释放速率
func (vc *VictoryCounter) MinSpawnRate() int { return vc.minSpawnRate }

// SetSpawnRate 调整释放速率，范围 [MinSpawnRate, 99]
func (vc *VictoryCounter) SetSpawnRate(rate int) int {
	rate = clampRate(rate)
	if rate < vc.minSpawnRate {
		rate = vc.minSpawnRate
	}
	vc.spawnRatePercent = rate
	return rate
}

// SpawnInterval 返回两次释放之间的 tick 数
func (vc *VictoryCounter) SpawnInterval() int {
	return 100 - vc.spawnRatePercent
}

// QuotaMet 判断是否已达到救援目标
func (vc *VictoryCounter) QuotaMet() bool {
	return vc.GetSurvivorsCount() >= vc.GetNeedCount()
}

// Empty 判断是否已全部释放且场上无旅鼠
func (vc *VictoryCounter) Empty() bool {
	return vc.remainingToRelease <= 0 && vc.currentlyOut <= 0
}

// Evaluate 计算关卡结果
//
// 胜利：达标 且（全部离场 或 时间耗尽）
// 失败：未达标 且 全部离场 → FailedPopulation；未达标 且 时间耗尽 → FailedTime
// 两者同时成立时报告 FailedPopulation。
func (vc *VictoryCounter) Evaluate(expired bool) Outcome {
	empty := vc.Empty()
	if vc.QuotaMet() {
		if empty || expired {
			return OutcomeSucceeded
		}
		return OutcomeRunning
	}
	if empty {
		return OutcomeFailedPopulation
	}
	if expired {
		return OutcomeFailedTime
	}
	return OutcomeRunning
}
