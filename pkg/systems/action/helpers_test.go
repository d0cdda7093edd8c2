package action

import (
	"strings"
	"testing"

	"github.com/decker502/lemmings/pkg/components"
	"github.com/decker502/lemmings/pkg/ecs"
	"github.com/decker502/lemmings/pkg/terrain"
	"github.com/decker502/lemmings/pkg/trigger"
)

// testEnv 记录地形与触发区域调用顺序的测试环境
type testEnv struct {
	layer   *terrain.Layer
	reg     *trigger.Registry
	tick    uint64
	retired int
	calls   []string
}

func newTestEnv(width, height int) *testEnv {
	return &testEnv{
		layer: terrain.NewLayer(width, height, nil),
		reg:   trigger.NewRegistry(),
	}
}

func (e *testEnv) Terrain() Terrain   { return recordingTerrain{Layer: e.layer, env: e} }
func (e *testEnv) Triggers() Triggers { return recordingTriggers{Registry: e.reg, env: e} }
func (e *testEnv) Tick() uint64       { return e.tick }

func (e *testEnv) Retire(lem *components.LemmingComponent) {
	if lem.Accounted {
		return
	}
	lem.Accounted = true
	e.retired++
}

type recordingTerrain struct {
	*terrain.Layer
	env *testEnv
}

func (r recordingTerrain) ApplyMask(m terrain.Mask, x, y int, erase bool) {
	r.env.calls = append(r.env.calls, "mask")
	r.Layer.ApplyMask(m, x, y, erase)
}

type recordingTriggers struct {
	*trigger.Registry
	env *testEnv
}

func (r recordingTriggers) RemoveByOwner(owner ecs.EntityID) int {
	r.env.calls = append(r.env.calls, "remove-owner")
	return r.Registry.RemoveByOwner(owner)
}

// leftColumns 生成左侧 active 列激活的模板行
func leftColumns(width, height, active int) []string {
	rows := make([]string, height)
	for i := range rows {
		rows[i] = strings.Repeat("#", active) + strings.Repeat(".", width-active)
	}
	return rows
}

func mustStencil(t *testing.T, rows []string, ax, ay int) *terrain.Stencil {
	t.Helper()
	s, err := terrain.ParseStencil(rows, ax, ay)
	if err != nil {
		t.Fatalf("ParseStencil() error: %v", err)
	}
	return s
}

// testMasks 简化的矩形模板，尺寸和锚点与 data/masks.yaml 相同
func testMasks(t *testing.T) *MaskSet {
	t.Helper()
	bash := make([]*terrain.Stencil, 0, 4)
	for k := 0; k < 4; k++ {
		bash = append(bash, mustStencil(t, leftColumns(8, 9, 2*k+2), 1, -9))
	}
	mine := []*terrain.Stencil{
		mustStencil(t, leftColumns(4, 10, 2), 1, -9),
		mustStencil(t, leftColumns(4, 10, 4), 1, -9),
	}
	explode := mustStencil(t, leftColumns(12, 14, 12), -6, -12)

	set, err := NewMaskSet(bash, mine, explode)
	if err != nil {
		t.Fatalf("NewMaskSet() error: %v", err)
	}
	return set
}

// drive 以与 LemmingManager 相同的方式推进单只旅鼠，直到进入 until 或超过 maxTicks
// 返回经过的 tick 数
func drive(t *testing.T, env *testEnv, table *Table, lem *components.LemmingComponent, until components.ActionState, maxTicks int) int {
	t.Helper()
	for i := 1; i <= maxTicks; i++ {
		env.tick++
		h, ok := table.State(lem.Action)
		if !ok {
			t.Fatalf("no handler for state %s", lem.Action)
		}
		next := h.Process(env, lem)
		if next == components.StateNone {
			continue
		}
		if next.Terminal() {
			lem.Action = next
		} else {
			lem.SetAction(next)
			if e, ok := mustHandler(t, table, next).(Enterer); ok {
				e.Enter(env, lem)
			}
		}
		if next == until {
			return i
		}
		if next.Terminal() {
			t.Fatalf("lemming left the level in state %s while waiting for %s", next, until)
		}
	}
	t.Fatalf("state %s not reached within %d ticks (now %s at %d,%d)", until, maxTicks, lem.Action, lem.X, lem.Y)
	return 0
}

func mustHandler(t *testing.T, table *Table, state components.ActionState) Handler {
	t.Helper()
	h, ok := table.State(state)
	if !ok {
		t.Fatalf("no handler for state %s", state)
	}
	return h
}
