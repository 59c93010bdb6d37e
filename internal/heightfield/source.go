package heightfield

import (
	"math/rand"
	"time"

	"github.com/aquilax/go-perlin"
)

// Source supplies displacement factors in [-1, 1).
type Source interface {
	Displacement() float32
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func() float32

// Displacement implements Source.
func (fn SourceFunc) Displacement() float32 {
	return fn()
}

// Zero is a Source that never displaces. Generation becomes linear
// interpolation between anchors.
var Zero Source = SourceFunc(func() float32 { return 0 })

// UniformSource draws uniformly from [-1, 1).
type UniformSource struct {
	rng *rand.Rand
}

// NewUniformSource wraps rng. A nil rng is seeded from the clock.
func NewUniformSource(rng *rand.Rand) *UniformSource {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &UniformSource{rng: rng}
}

// NewSeededSource returns a uniform source with a fixed seed.
func NewSeededSource(seed int64) *UniformSource {
	return NewUniformSource(rand.New(rand.NewSource(seed)))
}

// Displacement implements Source.
func (s *UniformSource) Displacement() float32 {
	return s.rng.Float32()*2 - 1
}

// Perlin noise parameters, same shape as the ones used for 2D terrain.
const (
	perlinAlpha   = 2.0
	perlinBeta    = 2.0
	perlinOctaves = 3

	// DefaultPerlinStep is how far the noise coordinate advances per draw.
	DefaultPerlinStep = 0.37
)

// PerlinSource samples 1-D Perlin noise at an advancing coordinate. Successive
// draws are correlated, which gives softer, rolling profiles than uniform
// draws at the same roughness.
type PerlinSource struct {
	noise *perlin.Perlin
	t     float64
	step  float64
}

// NewPerlinSource creates a noise-backed source. step <= 0 uses
// DefaultPerlinStep.
func NewPerlinSource(seed int64, step float64) *PerlinSource {
	if step <= 0 {
		step = DefaultPerlinStep
	}
	return &PerlinSource{
		noise: perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, seed),
		step:  step,
	}
}

// Displacement implements Source.
func (s *PerlinSource) Displacement() float32 {
	s.t += s.step
	// Raw noise is roughly in [-1, 1]; stretch a little since octave sums
	// rarely reach the bounds, then clamp.
	v := float32(s.noise.Noise1D(s.t) * 1.5)
	if v < -1 {
		return -1
	}
	if v >= 1 {
		return 0.9999999
	}
	return v
}

// NewSource builds a source by name ("uniform" or "perlin"). Seed 0 means
// clock-seeded; step only applies to perlin.
func NewSource(kind string, seed int64, step float64) Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if kind == "perlin" {
		return NewPerlinSource(seed, step)
	}
	return NewSeededSource(seed)
}
