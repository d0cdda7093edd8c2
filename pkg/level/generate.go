package level

import (
	"image/color"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/decker502/lemmings/pkg/config"
	"github.com/decker502/lemmings/pkg/terrain"
)

// stoneThreshold 第二层噪声超过此值的地面使用石头颜色
const stoneThreshold = 0.68

// generateTerrain 用分形噪声生成地形
//
// 密度 = 噪声 + 高度梯度：地面基准线以下越深越实，以上越高越空，
// 因此大体是起伏的山丘，同时保留悬崖和洞穴。返回实际使用的种子。
func generateTerrain(width, height int, gen *config.GenerateConfig, palette color.Palette) (*terrain.Layer, int64) {
	seed := gen.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	// 两层独立噪声：一层决定形状，一层决定材质
	shapeNoise := opensimplex.NewNormalized(seed)
	stoneNoise := opensimplex.NewNormalized(seed + 1)

	layer := terrain.NewLayer(width, height, palette)
	for y := 0; y < height; y++ {
		gradient := (float64(y)/float64(height) - gen.Ground) * 2
		for x := 0; x < width; x++ {
			density := octaveNoise(shapeNoise, float64(x), float64(y), gen.Octaves, gen.Frequency, gen.Persistence) + gradient
			if density <= gen.Threshold {
				continue
			}
			colorIndex := terrain.ColorEarth
			if octaveNoise(stoneNoise, float64(x), float64(y), 2, gen.Frequency*2, gen.Persistence) > stoneThreshold {
				colorIndex = terrain.ColorStone
			}
			layer.SetGroundAt(x, y, colorIndex)
		}
	}
	return layer, seed
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
