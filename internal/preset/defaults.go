package preset

import (
	"math/rand"

	"github.com/chewxy/math32"

	"github.com/Faultbox/skyline/internal/landscape"
	"github.com/Faultbox/skyline/pkg/color"
	"github.com/Faultbox/skyline/pkg/math"
)

// hoverBoost is how much brighter a hovered layer is drawn.
const hoverBoost = 30

// Defaults returns the built-in four-layer scene: a rough far ridge, two
// hill bands and an almost flat foreground. Most seed heights are drawn from
// rng, so every call gives a different but similar skyline.
func Defaults(rng *rand.Rand) *File {
	between := func(lo, hi float32) float32 {
		return math32.Round(lo + rng.Float32()*(hi-lo))
	}

	return &File{
		Version: Version,
		Name:    "default",
		Layers: []landscape.Options{
			layer("ridge", 1, "#466e9c",
				math.Vec2{X: 0, Y: between(100, 600)},
				math.Vec2{X: 1200, Y: between(100, 500)},
			),
			layer("hills", 0.7, "#321414",
				math.Vec2{X: 0, Y: 200},
				math.Vec2{X: 300, Y: between(300, 500)},
				math.Vec2{X: 450, Y: between(150, 250)},
				math.Vec2{X: 600, Y: between(50, 150)},
				math.Vec2{X: 900, Y: between(500, 600)},
				math.Vec2{X: 1200, Y: between(100, 500)},
			),
			layer("slopes", 0.26, "#594630",
				math.Vec2{X: 0, Y: 200},
				math.Vec2{X: 300, Y: between(100, 200)},
				math.Vec2{X: 550, Y: between(120, 200)},
				math.Vec2{X: 600, Y: between(80, 160)},
				math.Vec2{X: 900, Y: between(200, 300)},
				math.Vec2{X: 1200, Y: between(100, 300)},
			),
			layer("meadow", 0.04, "#00693e",
				math.Vec2{X: 0, Y: 100},
				math.Vec2{X: 600, Y: 50},
				math.Vec2{X: 1200, Y: 100},
			),
		},
	}
}

func layer(name string, roughness float32, hex string, points ...math.Vec2) landscape.Options {
	opts := landscape.DefaultLayerOptions()
	opts.Name = name
	opts.Roughness = roughness
	opts.Gap = 300
	opts.Points = points
	opts.Color = color.MustParse(hex)
	opts.HoverColor = opts.Color.Add(hoverBoost)
	return opts
}
