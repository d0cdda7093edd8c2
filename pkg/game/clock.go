package game

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

// TicksPerSecond 模拟时间换算：每秒 16 tick（爆破倒计时 80 tick = 5 秒）
const TicksPerSecond = 16

// SimulationClock 模拟时钟
//
// tickIndex 单调递增、永不重置；速度倍率只影响两次 tick 之间的真实时间间隔，
// 不影响模拟产生的任何数值。
type SimulationClock struct {
	mu sync.Mutex

	tickIndex      uint64
	timeLimitTicks uint64 // 0 表示不限时

	speed        float64
	baseInterval time.Duration
	paused       bool

	ticker *time.Ticker
	cancel context.CancelFunc
}

// NewSimulationClock 创建时钟
// timeLimitTicks 为 0 表示不限时
func NewSimulationClock(timeLimitTicks uint64) *SimulationClock {
	return &SimulationClock{
		timeLimitTicks: timeLimitTicks,
		speed:          1.0,
		baseInterval:   time.Second / TicksPerSecond,
	}
}

// Tick 返回当前 tick
func (c *SimulationClock) Tick() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tickIndex
}

// Advance 推进一个 tick 并返回新的 tick 值
func (c *SimulationClock) Advance() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tickIndex++
	return c.tickIndex
}

// TimeLimit 返回时间限制（tick）
func (c *SimulationClock) TimeLimit() uint64 {
	return c.timeLimitTicks
}

// Expired 判断时间是否耗尽
func (c *SimulationClock) Expired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timeLimitTicks > 0 && c.tickIndex >= c.timeLimitTicks
}

// RemainingTicks 返回剩余 tick 数（不限时返回 0）
func (c *SimulationClock) RemainingTicks() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timeLimitTicks == 0 || c.tickIndex >= c.timeLimitTicks {
		return 0
	}
	return c.timeLimitTicks - c.tickIndex
}

// Speed 返回速度倍率
func (c *SimulationClock) Speed() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.speed
}

// SetSpeed 设置速度倍率（<=0 时忽略），运行中的 ticker 会立即按新间隔重置
func (c *SimulationClock) SetSpeed(speed float64) {
	if speed <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.speed = speed
	if c.ticker != nil {
		c.ticker.Reset(c.intervalLocked())
	}
}

// Interval 返回当前真实时间间隔
func (c *SimulationClock) Interval() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.intervalLocked()
}

func (c *SimulationClock) intervalLocked() time.Duration {
	interval := time.Duration(float64(c.baseInterval) / c.speed)
	if interval <= 0 {
		interval = time.Millisecond
	}
	return interval
}

// SetPaused 暂停/恢复：暂停时时钟不再产生 tick
func (c *SimulationClock) SetPaused(paused bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = paused
}

// Paused 返回是否暂停
func (c *SimulationClock) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

// Run 以真实时间驱动模拟，阻塞直到 ctx 取消、Stop 被调用或 step 返回 false
//
// step 在调用 Run 的 goroutine 中同步执行，tick 之间没有并发。
// 退出时释放 ticker，但不会回退 tickIndex。
func (c *SimulationClock) Run(ctx context.Context, step func(tick uint64) bool) error {
	ctx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	c.cancel = cancel
	c.ticker = time.NewTicker(c.intervalLocked())
	ticker := c.ticker
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		ticker.Stop()
		c.ticker = nil
		c.cancel = nil
		c.mu.Unlock()
		cancel()
		log.Printf("[SimulationClock] Stopped at tick %d", c.Tick())
	}()

	log.Printf("[SimulationClock] Started at tick %d, interval %v", c.Tick(), c.Interval())
	for {
		select {
		case <-ctx.Done():
			if err := ctx.Err(); !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		case <-ticker.C:
			if c.Paused() {
				continue
			}
			if !step(c.Advance()) {
				return nil
			}
		}
	}
}

// Stop 停止 Run 循环（可从其他 goroutine 调用）
func (c *SimulationClock) Stop() {
	c.mu.Lock()
	cancel := c.cancel
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}
