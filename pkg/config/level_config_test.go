package config

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/decker502/lemmings/pkg/types"
)

const validLevelYAML = `id: "fun-1"
name: "Just dig!"
description: "A test level"
releaseRate: 0
count: 10
need: 5
timeLimit: 300
skills:
  digger: 10
  builder: 2
terrain:
  scale: 4
  rows:
    - "........"
    - "....SS.."
    - "########"
objects:
  - kind: entrance
    x: 0
    y: 0
    width: 48
    height: 24
  - kind: exit
    x: 24
    y: 0
    width: 8
    height: 8
    trigger:
      x1: 1
      y1: 2
      x2: 6
      y2: 7
      effect: exit
`

// TestLoadLevelConfig 测试关卡配置文件加载
func TestLoadLevelConfig(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		// 创建临时测试文件
		tempDir := t.TempDir()
		testFile := filepath.Join(tempDir, "fun-1.yaml")
		if err := os.WriteFile(testFile, []byte(validLevelYAML), 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}

		config, err := LoadLevelConfig(testFile)
		if err != nil {
			t.Fatalf("LoadLevelConfig() failed: %v", err)
		}

		if config.ID != "fun-1" {
			t.Errorf("Expected ID 'fun-1', got '%s'", config.ID)
		}
		if config.Name != "Just dig!" {
			t.Errorf("Expected Name 'Just dig!', got '%s'", config.Name)
		}
		// 显式写 0 的释放速率不会被默认值覆盖
		if config.ReleaseRate != 0 {
			t.Errorf("Expected ReleaseRate 0, got %d", config.ReleaseRate)
		}
		// 尺寸由行数和缩放推导
		if config.Width != 32 || config.Height != 12 {
			t.Errorf("Expected size 32x12, got %dx%d", config.Width, config.Height)
		}
		if len(config.Objects) != 2 {
			t.Fatalf("Expected 2 objects, got %d", len(config.Objects))
		}
		if config.Objects[1].Trigger == nil || config.Objects[1].Trigger.Effect != "exit" {
			t.Errorf("Expected exit trigger on objects[1], got %+v", config.Objects[1].Trigger)
		}
	})

	t.Run("file not found", func(t *testing.T) {
		_, err := LoadLevelConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		if err == nil {
			t.Fatal("Expected error for missing file, got nil")
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := ParseLevelConfig([]byte("id: [unclosed"), "broken.yaml")
		if err == nil {
			t.Fatal("Expected error for invalid YAML, got nil")
		}
	})
}

func TestApplyDefaults(t *testing.T) {
	yamlText := `id: "gen-1"
name: "Generated"
width: 320
height: 160
terrain:
  generate:
    seed: 7
`
	config, err := ParseLevelConfig([]byte(yamlText), "gen-1.yaml")
	if err != nil {
		t.Fatalf("ParseLevelConfig() failed: %v", err)
	}

	if config.ReleaseRate != DefaultReleaseRate {
		t.Errorf("Expected default ReleaseRate %d, got %d", DefaultReleaseRate, config.ReleaseRate)
	}
	if config.Terrain.Scale != DefaultRowScale {
		t.Errorf("Expected default scale %d, got %d", DefaultRowScale, config.Terrain.Scale)
	}
	if config.Terrain.Legend["#"] != 0 || config.Terrain.Legend["S"] != 1 || config.Terrain.Legend["B"] != 2 {
		t.Errorf("Unexpected default legend %v", config.Terrain.Legend)
	}

	gen := config.Terrain.Generate
	if gen.Frequency != 0.02 || gen.Octaves != 4 || gen.Persistence != 0.5 || gen.Threshold != 0.5 || gen.Ground != 0.6 {
		t.Errorf("Unexpected generate defaults %+v", *gen)
	}
	if gen.Seed != 7 {
		t.Errorf("Expected seed 7, got %d", gen.Seed)
	}
}

func TestValidateLevelConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(string) string
		wantErr string
	}{
		{
			name:    "missing id",
			mutate:  func(s string) string { return strings.Replace(s, `id: "fun-1"`, "", 1) },
			wantErr: "level ID is required",
		},
		{
			name:    "two terrain sources",
			mutate:  func(s string) string { return strings.Replace(s, "  scale: 4", "  image: a.png\n  scale: 4", 1) },
			wantErr: "exactly one of image, rows or generate",
		},
		{
			name:    "need above count",
			mutate:  func(s string) string { return strings.Replace(s, "need: 5", "need: 11", 1) },
			wantErr: "need must be between 0 and count",
		},
		{
			name:    "release rate too high",
			mutate:  func(s string) string { return strings.Replace(s, "releaseRate: 0", "releaseRate: 100", 1) },
			wantErr: "releaseRate must be between 0 and 99",
		},
		{
			name:    "unknown skill",
			mutate:  func(s string) string { return strings.Replace(s, "digger: 10", "flyer: 10", 1) },
			wantErr: "skills:",
		},
		{
			name:    "unknown object kind",
			mutate:  func(s string) string { return strings.Replace(s, "kind: exit", "kind: portal", 1) },
			wantErr: `unknown kind "portal"`,
		},
		{
			name:    "negative effect",
			mutate:  func(s string) string { return strings.Replace(s, "effect: exit", "effect: -3", 1) },
			wantErr: "objects[1]",
		},
		{
			name: "ragged rows",
			mutate: func(s string) string {
				return strings.Replace(s, `"....SS.."`, `"....SS."`, 1)
			},
			wantErr: "terrain row 1",
		},
		{
			name:    "no entrance",
			mutate:  func(s string) string { return strings.Replace(s, "kind: entrance", "kind: decor", 1) },
			wantErr: "at least one entrance is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLevelConfig([]byte(tt.mutate(validLevelYAML)), tt.name)
			if err == nil {
				t.Fatalf("Expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParsePalette(t *testing.T) {
	palette, err := ParsePalette([]string{"#8b5a2b", " 7f7f7f "})
	if err != nil {
		t.Fatalf("ParsePalette() failed: %v", err)
	}
	want := color.RGBA{R: 0x8b, G: 0x5a, B: 0x2b, A: 0xff}
	if palette[0] != want {
		t.Errorf("Expected %v, got %v", want, palette[0])
	}
	if palette[1] != (color.RGBA{R: 0x7f, G: 0x7f, B: 0x7f, A: 0xff}) {
		t.Errorf("Unexpected second entry %v", palette[1])
	}

	if p, err := ParsePalette(nil); p != nil || err != nil {
		t.Errorf("Expected nil palette for empty input, got %v, %v", p, err)
	}
	if _, err := ParsePalette([]string{"#12345"}); err == nil {
		t.Error("Expected error for short entry")
	}
	if _, err := ParsePalette([]string{"#zzzzzz"}); err == nil {
		t.Error("Expected error for non-hex entry")
	}
}

func TestSkillCountsAndTimeLimit(t *testing.T) {
	config, err := ParseLevelConfig([]byte(validLevelYAML), "fun-1.yaml")
	if err != nil {
		t.Fatalf("ParseLevelConfig() failed: %v", err)
	}

	counts := config.SkillCounts()
	if counts[types.SkillDigger] != 10 || counts[types.SkillBuilder] != 2 {
		t.Errorf("Unexpected skill counts %v", counts)
	}
	if len(counts) != 2 {
		t.Errorf("Expected 2 skills, got %d", len(counts))
	}

	if got := config.TimeLimitTicks(17); got != 300*17 {
		t.Errorf("Expected %d ticks, got %d", 300*17, got)
	}
}
