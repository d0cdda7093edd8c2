package systems

import (
	"github.com/decker502/lemmings/pkg/components"
	"github.com/decker502/lemmings/pkg/ecs"
	"github.com/decker502/lemmings/pkg/trigger"
	"github.com/decker502/lemmings/pkg/types"
)

// EventKind 模拟事件类型
type EventKind string

const (
	EventSpawned    EventKind = "spawned"
	EventTransition EventKind = "transition"
	EventTrigger    EventKind = "trigger"
	EventSkill      EventKind = "skill"
	EventDied       EventKind = "died"
	EventSaved      EventKind = "saved"
	EventFinished   EventKind = "finished"
)

// Event 模拟事件，供日志和宿主订阅（模拟本身不依赖事件）
type Event struct {
	Tick    uint64                 `json:"tick"`
	Kind    EventKind              `json:"kind"`
	Lemming ecs.EntityID           `json:"lemming,omitempty"`
	State   components.ActionState `json:"state,omitempty"`
	Effect  trigger.Effect         `json:"effect,omitempty"`
	Skill   types.SkillType        `json:"skill,omitempty"`
	X       int                    `json:"x"`
	Y       int                    `json:"y"`
	Detail  string                 `json:"detail,omitempty"`
}

// EventListener 事件回调
type EventListener func(Event)
