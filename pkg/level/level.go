// Package level 把关卡配置组装为可运行的关卡：地形、物体、触发区域、技能库存、计数器和时钟
package level

import (
	"image"

	"github.com/decker502/lemmings/pkg/game"
	"github.com/decker502/lemmings/pkg/terrain"
	"github.com/decker502/lemmings/pkg/trigger"
)

// ObjectKind 关卡物体类型
type ObjectKind string

const (
	ObjectEntrance ObjectKind = "entrance"
	ObjectExit     ObjectKind = "exit"
	ObjectWater    ObjectKind = "water"
	ObjectTrap     ObjectKind = "trap"
	ObjectHazard   ObjectKind = "hazard"
	ObjectDecor    ObjectKind = "decor"
)

// Object 关卡中放置的物体（只用于渲染，触发逻辑已转换为 Zone）
type Object struct {
	Kind   ObjectKind
	Bounds image.Rectangle
	ZoneID int // 对应的触发区域ID，0 表示没有
}

// Level 一个可运行的关卡
//
// 地形与触发注册表在模拟期间被旅鼠修改；其余字段由宿主读取。
type Level struct {
	ID   string
	Name string
	Seed int64 // 生成地形实际使用的种子，其他地形来源为 0

	Terrain   *terrain.Layer
	Triggers  *trigger.Registry
	Objects   []Object
	Entrances []image.Point // 按关卡顺序，只使用第一个

	Skills  *game.SkillInventory
	Counter *game.VictoryCounter
	Clock   *game.SimulationClock
}

// Entrance 返回第一个入口
func (l *Level) Entrance() (image.Point, bool) {
	if len(l.Entrances) == 0 {
		return image.Point{}, false
	}
	return l.Entrances[0], true
}

// Outcome 计算当前关卡结果
func (l *Level) Outcome() game.Outcome {
	return l.Counter.Evaluate(l.Clock.Expired())
}
