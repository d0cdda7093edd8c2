package action

import (
	"fmt"
	"testing"

	"github.com/decker502/lemmings/pkg/components"
	"github.com/decker502/lemmings/pkg/terrain"
)

func TestWalkingIntoWallTurnsAround(t *testing.T) {
	env := newTestEnv(40, 30)
	env.layer.FillRect(0, 20, 39, 29, terrain.ColorEarth)
	env.layer.FillRect(11, 0, 11, 20, terrain.ColorStone)

	lem := components.NewLemming(1, 10, 20, components.StateWalking)
	next := Walking{}.Process(env, lem)

	if next != components.StateNone {
		t.Errorf("expected no state change, got %s", next)
	}
	if lem.Facing != components.FacingLeft {
		t.Error("walker should turn left at the wall")
	}
	if lem.X != 10 || lem.Y != 20 {
		t.Errorf("walker should not move, got (%d,%d)", lem.X, lem.Y)
	}
}

func TestWalkingWallThreshold(t *testing.T) {
	tests := []struct {
		height     int // 前方一列的高度，含脚部所在行
		wantState  components.ActionState
		wantFacing components.Facing
		wantX      int
	}{
		{7, components.StateJumping, components.FacingRight, 11},
		{8, components.StateNone, components.FacingLeft, 10},
		{9, components.StateNone, components.FacingLeft, 10},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%dpx", tt.height), func(t *testing.T) {
			env := newTestEnv(40, 30)
			env.layer.FillRect(0, 21, 39, 29, terrain.ColorEarth)
			env.layer.FillRect(0, 20, 10, 20, terrain.ColorEarth)
			env.layer.FillRect(11, 20-tt.height+1, 11, 20, terrain.ColorStone)

			lem := components.NewLemming(1, 10, 20, components.StateWalking)
			next := Walking{}.Process(env, lem)
			if next != tt.wantState {
				t.Errorf("expected %s, got %s", tt.wantState, next)
			}
			if lem.Facing != tt.wantFacing {
				t.Errorf("expected facing %v, got %v", tt.wantFacing, lem.Facing)
			}
			if lem.X != tt.wantX || lem.Y != 20 {
				t.Errorf("expected (%d,20), got (%d,%d)", tt.wantX, lem.X, lem.Y)
			}
		})
	}
}

func TestWalkingIntoWallWithClimber(t *testing.T) {
	env := newTestEnv(40, 30)
	env.layer.FillRect(0, 20, 39, 29, terrain.ColorEarth)
	env.layer.FillRect(11, 0, 11, 20, terrain.ColorStone)

	lem := components.NewLemming(1, 10, 20, components.StateWalking)
	lem.CanClimb = true
	if next := (Walking{}).Process(env, lem); next != components.StateClimbing {
		t.Errorf("expected climbing, got %s", next)
	}
	if lem.Facing != components.FacingRight || lem.X != 10 {
		t.Error("climber keeps facing and position")
	}
}

func TestWalkingSteps(t *testing.T) {
	tests := []struct {
		name      string
		stepTop   int // 台阶顶端行，-1 表示没有台阶
		floorRow  int // 前方地面所在行
		wantState components.ActionState
		wantY     int
	}{
		{"flat", -1, 20, components.StateNone, 20},
		{"step up 2", 18, 20, components.StateNone, 18},
		{"step up 3", 17, 20, components.StateNone, 17},
		{"jump 4", 16, 20, components.StateJumping, 20},
		{"jump 6", 14, 20, components.StateJumping, 20},
		{"step down 3", -1, 23, components.StateNone, 23},
		{"fall at gap 4", -1, 24, components.StateFalling, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(40, 40)
			env.layer.FillRect(0, 20, 10, 39, terrain.ColorEarth)
			env.layer.FillRect(11, tt.floorRow, 39, 39, terrain.ColorEarth)
			if tt.stepTop >= 0 {
				env.layer.FillRect(11, tt.stepTop, 39, 39, terrain.ColorEarth)
			}

			lem := components.NewLemming(1, 10, 20, components.StateWalking)
			next := Walking{}.Process(env, lem)
			if next != tt.wantState {
				t.Errorf("expected %s, got %s", tt.wantState, next)
			}
			if lem.X != 11 {
				t.Errorf("expected x=11, got %d", lem.X)
			}
			if lem.Y != tt.wantY {
				t.Errorf("expected y=%d, got %d", tt.wantY, lem.Y)
			}
		})
	}
}

func TestFallAtGapFourLandsOnSecondTick(t *testing.T) {
	env := newTestEnv(40, 40)
	env.layer.FillRect(0, 20, 10, 39, terrain.ColorEarth)
	env.layer.FillRect(11, 24, 39, 39, terrain.ColorEarth)
	table := NewTable(testMasks(t))

	lem := components.NewLemming(1, 10, 20, components.StateWalking)
	drive(t, env, table, lem, components.StateFalling, 1)
	if lem.X != 11 || lem.Y != 20 {
		t.Fatalf("faller should start at the ledge, got (%d,%d)", lem.X, lem.Y)
	}
	if ticks := drive(t, env, table, lem, components.StateWalking, 5); ticks != 2 {
		t.Errorf("expected landing after 2 falling ticks, took %d", ticks)
	}
	if lem.Y != 24 {
		t.Errorf("expected to land at y=24, got %d", lem.Y)
	}
}

func TestJumpingReachesTop(t *testing.T) {
	env := newTestEnv(40, 40)
	env.layer.FillRect(0, 20, 39, 39, terrain.ColorEarth)
	env.layer.FillRect(11, 15, 39, 20, terrain.ColorEarth)
	table := NewTable(testMasks(t))

	lem := components.NewLemming(1, 10, 20, components.StateWalking)
	drive(t, env, table, lem, components.StateJumping, 1)
	ticks := drive(t, env, table, lem, components.StateWalking, 10)

	if ticks != 3 {
		t.Errorf("expected jump to take 3 ticks, took %d", ticks)
	}
	if lem.X != 11 || lem.Y != 15 {
		t.Errorf("expected jumper on top at (11,15), got (%d,%d)", lem.X, lem.Y)
	}
}

func TestFallingLandsOrSplats(t *testing.T) {
	tests := []struct {
		name      string
		floor     int
		parachute bool
		want      components.ActionState
	}{
		{"short fall", 20, false, components.StateWalking},
		{"exactly sixty", 60, false, components.StateWalking},
		{"long fall", 80, false, components.StateSplatting},
		{"parachute opens", 80, true, components.StateFloating},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(10, 100)
			env.layer.FillRect(0, tt.floor, 9, 99, terrain.ColorEarth)
			lem := components.NewLemming(1, 5, 0, components.StateFalling)
			lem.HasParachute = tt.parachute

			var next components.ActionState
			for i := 0; i < 100 && next == components.StateNone; i++ {
				next = Falling{}.Process(env, lem)
			}
			if next != tt.want {
				t.Errorf("expected %s, got %s", tt.want, next)
			}
		})
	}
}

func TestFallingParachuteThreshold(t *testing.T) {
	env := newTestEnv(10, 100)
	lem := components.NewLemming(1, 5, 0, components.StateFalling)
	lem.HasParachute = true

	for i := 0; i < 5; i++ {
		if next := (Falling{}).Process(env, lem); next != components.StateNone {
			t.Fatalf("tick %d: parachute opened too early at distance %d", i+1, lem.FallDistance)
		}
	}
	if lem.FallDistance != 15 {
		t.Fatalf("expected fall distance 15, got %d", lem.FallDistance)
	}
	if next := (Falling{}).Process(env, lem); next != components.StateFloating {
		t.Errorf("expected floating once distance exceeds 16, got %s", next)
	}
}

func TestFallingOutOfLevel(t *testing.T) {
	env := newTestEnv(10, 10)
	lem := components.NewLemming(1, 5, 0, components.StateFalling)

	var next components.ActionState
	for i := 0; i < 10 && next == components.StateNone; i++ {
		next = Falling{}.Process(env, lem)
	}
	if next != components.StateOutOfLevel {
		t.Errorf("expected out-of-level, got %s", next)
	}
}

func TestFloatingSpeedTable(t *testing.T) {
	env := newTestEnv(20, 400)
	lem := components.NewLemming(1, 5, 50, components.StateFloating)

	want := append([]int{}, floatSpeeds[:]...)
	for len(want) < 40 {
		want = append(want, floatSpeeds[floatLoopFrom:]...)
	}
	want = want[:40]

	for i, delta := range want {
		before := lem.Y
		if next := (Floating{}).Process(env, lem); next != components.StateNone {
			t.Fatalf("tick %d: unexpected transition %s", i, next)
		}
		if got := lem.Y - before; got != delta {
			t.Fatalf("tick %d: expected delta %d, got %d", i, delta, got)
		}
	}
}

func TestFloatingLands(t *testing.T) {
	env := newTestEnv(20, 100)
	env.layer.FillRect(0, 40, 19, 99, terrain.ColorEarth)
	lem := components.NewLemming(1, 5, 30, components.StateFloating)

	var next components.ActionState
	for i := 0; i < 20 && next == components.StateNone; i++ {
		next = Floating{}.Process(env, lem)
	}
	if next != components.StateWalking || lem.Y != 40 {
		t.Errorf("expected floater to land at y=40, got %s at y=%d", next, lem.Y)
	}
}

func TestClimbAndHoist(t *testing.T) {
	env := newTestEnv(40, 40)
	env.layer.FillRect(0, 30, 39, 39, terrain.ColorEarth)
	env.layer.FillRect(21, 15, 39, 30, terrain.ColorStone)
	table := NewTable(testMasks(t))

	lem := components.NewLemming(1, 20, 30, components.StateWalking)
	lem.CanClimb = true

	drive(t, env, table, lem, components.StateClimbing, 1)
	drive(t, env, table, lem, components.StateHoisting, 20)
	if lem.Y != 23 {
		t.Errorf("expected hoist to start at y=23, got %d", lem.Y)
	}
	if ticks := drive(t, env, table, lem, components.StateWalking, 20); ticks != 8 {
		t.Errorf("expected hoist to take 8 ticks, took %d", ticks)
	}
	if lem.Y != 15 {
		t.Errorf("expected hoister at wall top y=15, got %d", lem.Y)
	}

	Walking{}.Process(env, lem)
	if lem.X != 21 || lem.Y != 15 {
		t.Errorf("expected walker on top of the wall at (21,15), got (%d,%d)", lem.X, lem.Y)
	}
}

func TestClimbingHitsCeiling(t *testing.T) {
	env := newTestEnv(40, 40)
	env.layer.FillRect(0, 30, 39, 39, terrain.ColorEarth)
	env.layer.FillRect(21, 0, 39, 30, terrain.ColorStone)
	env.layer.FillRect(15, 18, 20, 18, terrain.ColorStone)

	lem := components.NewLemming(1, 20, 30, components.StateClimbing)
	var next components.ActionState
	for i := 0; i < 10 && next == components.StateNone; i++ {
		next = Climbing{}.Process(env, lem)
	}
	if next != components.StateFalling {
		t.Fatalf("expected falling under the ceiling, got %s", next)
	}
	if lem.Facing != components.FacingLeft || lem.X != 19 || lem.Y != 28 {
		t.Errorf("expected climber to drop off left at (19,28), got %s (%d,%d)", lem.Facing, lem.X, lem.Y)
	}
}
