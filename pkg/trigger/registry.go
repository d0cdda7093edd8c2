package trigger

import (
	"log"

	"github.com/decker502/lemmings/pkg/ecs"
)

// NoOwner 表示区域不属于任何旅鼠（关卡物体创建的区域）
const NoOwner ecs.EntityID = 0

// Zone 触发区域
type Zone struct {
	ID     int // 由 Registry.Add 分配
	X1, Y1 int // 左上角（含）
	X2, Y2 int // 右下角（含）

	Effect        Effect
	CooldownTicks uint64
	// DisabledUntilTick 在此 tick 之前区域不会触发
	DisabledUntilTick uint64
	Owner             ecs.EntityID
	SoundID           int

	warned bool // 未知效果诊断只输出一次
}

// Contains 判断点是否在区域内
func (z *Zone) Contains(x, y int) bool {
	return x >= z.X1 && x <= z.X2 && y >= z.Y1 && y <= z.Y2
}

// Registry 触发区域注册表
//
// 匹配规则是"注册顺序中的第一个"，不是最近或优先级最高，
// 不同实现之间必须保持一致。
type Registry struct {
	zones  []*Zone
	nextID int
}

// NewRegistry 创建空注册表
func NewRegistry() *Registry {
	return &Registry{
		zones:  make([]*Zone, 0),
		nextID: 1,
	}
}

// Add 注册区域并返回分配的ID
// 坐标会被规范化为 X1<=X2, Y1<=Y2
func (r *Registry) Add(zone Zone) int {
	if zone.X1 > zone.X2 {
		zone.X1, zone.X2 = zone.X2, zone.X1
	}
	if zone.Y1 > zone.Y2 {
		zone.Y1, zone.Y2 = zone.Y2, zone.Y1
	}
	zone.ID = r.nextID
	r.nextID++
	if !zone.Effect.Known() {
		log.Printf("[TriggerRegistry] Warning: zone %d has unknown effect id %d, it will never fire", zone.ID, int(zone.Effect))
		zone.warned = true
	}
	z := zone
	r.zones = append(r.zones, &z)
	return zone.ID
}

// RemoveByOwner 移除某个旅鼠拥有的所有区域，返回移除数量
func (r *Registry) RemoveByOwner(owner ecs.EntityID) int {
	if owner == NoOwner {
		return 0
	}
	kept := r.zones[:0]
	removed := 0
	for _, z := range r.zones {
		if z.Owner == owner {
			removed++
			continue
		}
		kept = append(kept, z)
	}
	// 清掉尾部残留指针
	for i := len(kept); i < len(r.zones); i++ {
		r.zones[i] = nil
	}
	r.zones = kept
	return removed
}

// Resolve 解析 (x,y) 在 currentTick 的触发效果
//
// 按注册顺序扫描，第一个包含该点且 DisabledUntilTick <= currentTick 的区域命中；
// 命中后设置 DisabledUntilTick = currentTick + CooldownTicks 并返回其效果。
// 保留标签和未知效果的区域不会命中。没有命中返回 EffectNone。
func (r *Registry) Resolve(x, y int, currentTick uint64) Effect {
	for _, z := range r.zones {
		if !z.Contains(x, y) || z.DisabledUntilTick > currentTick {
			continue
		}
		if !z.Effect.Fires() {
			if !z.Effect.Known() && !z.warned {
				log.Printf("[TriggerRegistry] Warning: zone %d with unknown effect %s resolved as none", z.ID, z.Effect)
				z.warned = true
			}
			continue
		}
		z.DisabledUntilTick = currentTick + z.CooldownTicks
		return z.Effect
	}
	return EffectNone
}

// Zones 返回所有区域的快照（用于调试叠加层渲染）
func (r *Registry) Zones() []Zone {
	out := make([]Zone, 0, len(r.zones))
	for _, z := range r.zones {
		out = append(out, *z)
	}
	return out
}

// Len 返回区域数量
func (r *Registry) Len() int {
	return len(r.zones)
}
