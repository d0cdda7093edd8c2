package components

import "testing"

func TestSetActionResetsCounters(t *testing.T) {
	lem := NewLemming(1, 10, 20, StateWalking)
	lem.Frame = 5
	lem.SubState = 3
	lem.FallDistance = 40

	lem.SetAction(StateBuilding)

	if lem.Action != StateBuilding {
		t.Errorf("expected building, got %v", lem.Action)
	}
	if lem.Frame != 0 || lem.SubState != 0 || lem.FallDistance != 0 {
		t.Errorf("expected counters reset, got frame=%d sub=%d fall=%d", lem.Frame, lem.SubState, lem.FallDistance)
	}
	if lem.X != 10 || lem.Y != 20 {
		t.Error("SetAction must not move the lemming")
	}
}

func TestTurnAndDir(t *testing.T) {
	lem := NewLemming(1, 0, 0, StateWalking)
	if lem.Dir() != 1 {
		t.Fatalf("new lemmings face right")
	}
	lem.Turn()
	if lem.Facing != FacingLeft || lem.Dir() != -1 {
		t.Errorf("expected left after turn, got %v", lem.Facing)
	}
	lem.Turn()
	if lem.Facing != FacingRight {
		t.Errorf("expected right after second turn, got %v", lem.Facing)
	}
}

func TestNextFrameLoops(t *testing.T) {
	lem := NewLemming(1, 0, 0, StateFloating)
	seen := make([]int, 0, 20)
	for i := 0; i < 20; i++ {
		seen = append(seen, lem.Frame)
		lem.NextFrame(16, 8)
	}
	want := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 8, 9, 10, 11}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("frame sequence %v, want %v", seen, want)
		}
	}
}

func TestCountdownDigit(t *testing.T) {
	lem := NewLemming(1, 0, 0, StateWalking)
	if lem.CountdownDigit() != 0 {
		t.Error("no countdown should show 0")
	}

	lem.Secondary = StateCountdown
	tests := []struct {
		ticks int
		digit int
	}{
		{80, 5}, {65, 5}, {64, 4}, {17, 2}, {16, 1}, {1, 1}, {0, 0},
	}
	for _, tt := range tests {
		lem.CountdownTicks = tt.ticks
		if got := lem.CountdownDigit(); got != tt.digit {
			t.Errorf("ticks=%d: digit %d, want %d", tt.ticks, got, tt.digit)
		}
	}
}

func TestSelectable(t *testing.T) {
	lem := NewLemming(1, 0, 0, StateWalking)
	if !lem.Selectable() || !lem.Matchable() {
		t.Fatal("walking lemming should be selectable and matchable")
	}
	lem.Disabled = true
	if lem.Selectable() || lem.Matchable() {
		t.Error("disabled lemming should not be selectable or matchable")
	}
	lem.Disabled = false
	lem.Removed = true
	if lem.Selectable() || lem.Matchable() {
		t.Error("removed lemming should not be selectable or matchable")
	}
}

func TestStateNames(t *testing.T) {
	if StateOhNo.String() != "ohno" || StateOutOfLevel.String() != "out-of-level" {
		t.Errorf("unexpected names %q %q", StateOhNo, StateOutOfLevel)
	}
	if ActionState(999).String() != "unknown" {
		t.Error("unknown state should be named unknown")
	}
	if !StateExited.Terminal() || StateWalking.Terminal() {
		t.Error("Terminal() mismatch")
	}
}

func TestActionStateText(t *testing.T) {
	for state, name := range stateNames {
		text, err := state.MarshalText()
		if err != nil || string(text) != name {
			t.Errorf("MarshalText(%d) = %q, %v", int(state), text, err)
		}
		var back ActionState
		if err := back.UnmarshalText(text); err != nil || back != state {
			t.Errorf("UnmarshalText(%q) = %v, %v", text, back, err)
		}
	}

	var s ActionState
	if err := s.UnmarshalText([]byte("flying")); err == nil {
		t.Error("expected error for unknown state name")
	}
}
