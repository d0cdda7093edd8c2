package main

import (
	"image"
	"testing"

	"github.com/decker502/lemmings/pkg/components"
	"github.com/decker502/lemmings/pkg/terrain"
)

func TestCellOf(t *testing.T) {
	cs := cellSize{w: 4, h: 8}
	tests := []struct {
		x, y int
		want image.Point
	}{
		{0, 0, image.Pt(0, 0)},
		{3, 7, image.Pt(0, 0)},
		{4, 8, image.Pt(1, 1)},
		{-1, -1, image.Pt(-1, -1)},
	}
	for _, tt := range tests {
		if got := cs.cellOf(tt.x, tt.y); got != tt.want {
			t.Errorf("cellOf(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
	if got := cs.center(2, 1); got != image.Pt(10, 12) {
		t.Errorf("center(2, 1) = %v", got)
	}
}

func TestDensityRune(t *testing.T) {
	tests := []struct {
		ground, total int
		want          rune
	}{
		{0, 32, ' '},
		{32, 32, '█'},
		{24, 32, '▓'},
		{16, 32, '▒'},
		{1, 32, '░'},
	}
	for _, tt := range tests {
		if got := densityRune(tt.ground, tt.total); got != tt.want {
			t.Errorf("densityRune(%d, %d) = %q, want %q", tt.ground, tt.total, got, tt.want)
		}
	}
}

func TestTerrainCell(t *testing.T) {
	layer := terrain.NewLayer(8, 8, nil)
	layer.FillRect(0, 4, 3, 7, terrain.ColorEarth)
	cs := cellSize{w: 4, h: 8}

	ch, first, ok := terrainCell(layer, cs, 0, 0)
	if !ok || ch != '▒' || first != image.Pt(0, 4) {
		t.Errorf("terrainCell(0,0) = %q, %v, %v", ch, first, ok)
	}
	if ch, _, ok := terrainCell(layer, cs, 1, 0); ok || ch != ' ' {
		t.Errorf("empty cell = %q, %v", ch, ok)
	}
}

func TestLemmingRune(t *testing.T) {
	tests := []struct {
		vis  components.VisualState
		want rune
	}{
		{components.VisualState{Handler: "walking", Facing: components.FacingRight}, '>'},
		{components.VisualState{Handler: "walking", Facing: components.FacingLeft}, '<'},
		{components.VisualState{Handler: "digging"}, 'D'},
		{components.VisualState{Handler: "floating"}, 'T'},
		{components.VisualState{Handler: "unknown"}, 'o'},
	}
	for _, tt := range tests {
		if got := lemmingRune(tt.vis); got != tt.want {
			t.Errorf("lemmingRune(%s) = %q, want %q", tt.vis.Handler, got, tt.want)
		}
	}
}

func TestClampCamera(t *testing.T) {
	tests := []struct {
		name       string
		cam        int
		cursor     int
		view       int
		world      int
		wantCamera int
	}{
		{"visible", 0, 10, 40, 100, 0},
		{"right of view", 0, 45, 40, 100, 6},
		{"left of view", 30, 10, 40, 100, 10},
		{"world smaller than view", 5, 3, 40, 20, 0},
		{"clamped to world end", 70, 99, 40, 100, 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clampCamera(tt.cam, tt.cursor, tt.view, tt.world); got != tt.wantCamera {
				t.Errorf("clampCamera() = %d, want %d", got, tt.wantCamera)
			}
		})
	}
}
