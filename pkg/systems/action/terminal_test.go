package action

import (
	"testing"

	"github.com/decker502/lemmings/pkg/components"
	"github.com/decker502/lemmings/pkg/terrain"
	"github.com/decker502/lemmings/pkg/types"
)

func TestExploderRemovesBlockerZonesBeforeBlast(t *testing.T) {
	env := newTestEnv(60, 60)
	env.layer.FillRect(0, 40, 59, 59, terrain.ColorEarth)
	table := NewTable(testMasks(t))

	lem := components.NewLemming(3, 30, 40, components.StateBlocking)
	Blocking{}.Enter(env, lem)
	if env.reg.Len() != 2 {
		t.Fatalf("expected blocker zones, got %d", env.reg.Len())
	}

	env.calls = nil
	lem.SetAction(components.StateExploding)
	mustHandler(t, table, components.StateExploding).(Enterer).Enter(env, lem)

	if len(env.calls) != 2 || env.calls[0] != "remove-owner" || env.calls[1] != "mask" {
		t.Fatalf("expected zones removed before the blast, got calls %v", env.calls)
	}
	if env.reg.Len() != 0 {
		t.Errorf("expected no zones after explosion, got %d", env.reg.Len())
	}
	if env.layer.HasGroundAt(30, 40) || env.layer.HasGroundAt(24, 41) {
		t.Error("expected blast crater around the exploder")
	}
	if !env.layer.HasGroundAt(30, 42) {
		t.Error("blast should not reach below its mask")
	}
	if !lem.Disabled || !lem.Accounted || env.retired != 1 {
		t.Errorf("exploder should be disabled and retired once (disabled=%v retired=%d)", lem.Disabled, env.retired)
	}

	ticks := drive(t, env, table, lem, components.StateOutOfLevel, 100)
	if ticks != explodeFrames {
		t.Errorf("expected explosion to last %d frames, got %d", explodeFrames, ticks)
	}
	if env.retired != 1 {
		t.Errorf("exploder must only be retired once, got %d", env.retired)
	}
}

func TestCountdownOverridesPrimary(t *testing.T) {
	env := newTestEnv(20, 20)
	env.layer.FillRect(0, 10, 19, 19, terrain.ColorEarth)
	table := NewTable(testMasks(t))

	lem := components.NewLemming(1, 5, 10, components.StateBuilding)
	h, state, ok := table.Skill(types.SkillBomber)
	if !ok || state != components.StateNone {
		t.Fatalf("bomber skill should exist without a primary state")
	}
	if !h.Trigger(env, lem) {
		t.Fatal("bomber trigger should succeed")
	}
	if h.Trigger(env, lem) {
		t.Error("second bomber trigger should fail while counting down")
	}
	if lem.CountdownDigit() != 5 {
		t.Errorf("expected countdown digit 5, got %d", lem.CountdownDigit())
	}

	countdown := mustHandler(t, table, components.StateCountdown)
	for i := 1; i < CountdownTicks; i++ {
		if next := countdown.Process(env, lem); next != components.StateNone {
			t.Fatalf("tick %d: countdown fired early", i)
		}
	}
	if lem.CountdownDigit() != 1 {
		t.Errorf("expected countdown digit 1 on the last tick, got %d", lem.CountdownDigit())
	}
	if next := countdown.Process(env, lem); next != components.StateOhNo {
		t.Fatalf("expected ohno when countdown ends, got %s", next)
	}
	if lem.Secondary != components.StateNone {
		t.Error("countdown should clear itself")
	}
	if lem.Action != components.StateBuilding {
		t.Error("countdown must not touch the primary state itself")
	}
}

func TestCountdownClearsOnDisabledLemming(t *testing.T) {
	env := newTestEnv(20, 20)
	lem := components.NewLemming(1, 5, 10, components.StateDrowning)
	lem.Disabled = true
	lem.Secondary = components.StateCountdown
	lem.CountdownTicks = 3

	if next := (Countdown{}).Process(env, lem); next != components.StateNone {
		t.Errorf("expected no transition for a disabled lemming, got %s", next)
	}
	if lem.Secondary != components.StateNone || lem.CountdownTicks != 0 {
		t.Error("countdown should be dropped")
	}
}

func TestOhNoFallsThenExplodes(t *testing.T) {
	env := newTestEnv(20, 40)
	env.layer.FillRect(0, 30, 19, 39, terrain.ColorEarth)
	table := NewTable(testMasks(t))

	lem := components.NewLemming(1, 5, 20, components.StateOhNo)
	ticks := drive(t, env, table, lem, components.StateExploding, 40)
	if ticks != ohNoFrames {
		t.Errorf("expected explosion after %d frames, got %d", ohNoFrames, ticks)
	}
	if lem.Y != 30 {
		t.Errorf("expected ohno lemming to fall 1px per tick onto the ground at y=30, got %d", lem.Y)
	}
}

func TestTerminalDurations(t *testing.T) {
	table := NewTable(testMasks(t))
	tests := []struct {
		state    components.ActionState
		until    components.ActionState
		frames   int
		disables bool
	}{
		{components.StateDrowning, components.StateOutOfLevel, drownFrames, true},
		{components.StateExiting, components.StateExited, exitFrames, true},
		{components.StateSplatting, components.StateOutOfLevel, splatFrames, true},
		{components.StateShrugging, components.StateWalking, shrugFrames, false},
		{components.StateHoisting, components.StateWalking, hoistFrames, false},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			env := newTestEnv(40, 40)
			env.layer.FillRect(0, 30, 39, 39, terrain.ColorEarth)
			lem := components.NewLemming(1, 20, 30, tt.state)
			if e, ok := mustHandler(t, table, tt.state).(Enterer); ok {
				e.Enter(env, lem)
			}
			if lem.Disabled != tt.disables {
				t.Errorf("expected disabled=%v on entry", tt.disables)
			}
			if ticks := drive(t, env, table, lem, tt.until, 100); ticks != tt.frames {
				t.Errorf("expected %d frames, got %d", tt.frames, ticks)
			}
		})
	}
}

func TestNewMaskSetValidates(t *testing.T) {
	one := mustStencil(t, []string{"#"}, 0, 0)
	if _, err := NewMaskSet([]*terrain.Stencil{one}, []*terrain.Stencil{one, one}, one); err == nil {
		t.Error("expected error for short bash mask")
	}
	if _, err := NewMaskSet([]*terrain.Stencil{one, one, one, one}, []*terrain.Stencil{one}, one); err == nil {
		t.Error("expected error for short mine mask")
	}
	if _, err := NewMaskSet([]*terrain.Stencil{one, one, one, one}, []*terrain.Stencil{one, one}, nil); err == nil {
		t.Error("expected error for missing explode mask")
	}
}
