package main

import (
	"testing"

	"github.com/decker502/lemmings/pkg/terrain"
)

func TestGroundPercent(t *testing.T) {
	layer := terrain.NewLayer(10, 10, nil)
	if got := groundPercent(layer); got != 0 {
		t.Errorf("empty layer = %d%%, want 0", got)
	}
	layer.FillRect(0, 7, 9, 9, terrain.ColorEarth)
	if got := groundPercent(layer); got != 30 {
		t.Errorf("three full rows = %d%%, want 30", got)
	}
	if got := groundPercent(terrain.NewLayer(0, 0, nil)); got != 0 {
		t.Errorf("zero-sized layer = %d%%, want 0", got)
	}
}
