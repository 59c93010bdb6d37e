// Package heightfield stores a sparse 1-D height profile keyed by integer
// world x and fills it with recursive midpoint displacement.
package heightfield

import "fmt"

// HeightField maps integer world x to height. Only generated integers are
// present; the domain grows one anchor interval at a time.
type HeightField struct {
	heights   map[int]float32
	roughness float32
	source    Source
}

// New creates an empty height field.
// A nil source falls back to a time-seeded uniform source.
func New(roughness float32, src Source) *HeightField {
	if src == nil {
		src = NewUniformSource(nil)
	}
	return &HeightField{
		heights:   make(map[int]float32),
		roughness: roughness,
		source:    src,
	}
}

// Roughness returns the displacement coefficient.
func (f *HeightField) Roughness() float32 {
	return f.roughness
}

// SetRoughness changes the coefficient for subsequent generation.
// Already generated heights are untouched.
func (f *HeightField) SetRoughness(r float32) {
	f.roughness = r
}

// Set stores the height of an anchor.
func (f *HeightField) Set(x int, h float32) {
	f.heights[x] = h
}

// Has reports whether x has been generated.
func (f *HeightField) Has(x int) bool {
	_, ok := f.heights[x]
	return ok
}

// At returns the height at x. Asking for an ungenerated x is a caller bug and
// panics.
func (f *HeightField) At(x int) float32 {
	h, ok := f.heights[x]
	if !ok {
		panic(fmt.Sprintf("heightfield: x=%d has not been generated", x))
	}
	return h
}

// Len returns the number of generated integers.
func (f *HeightField) Len() int {
	return len(f.heights)
}

// Generate fills every integer strictly between start and end, both of which
// must already be present. Spans of length one or less are a no-op.
func (f *HeightField) Generate(start, end int) {
	if end <= start+1 {
		return
	}
	// +1 keeps mid strictly inside for odd spans.
	mid := floorDiv2(start + end + 1)
	length := float32(end - start)
	f.heights[mid] = (f.At(start)+f.At(end))/2 + f.roughness*length*f.source.Displacement()
	f.Generate(start, mid)
	f.Generate(mid, end)
}

// Extend adds a new anchor at to with height h and fills the interval between
// the current edge from and to. It never rewrites heights on the far side of
// from. It returns to.
func (f *HeightField) Extend(from, to int, h float32) int {
	if !f.Has(from) {
		panic(fmt.Sprintf("heightfield: extending from ungenerated edge x=%d", from))
	}
	f.heights[to] = h
	if to > from {
		f.Generate(from, to)
	} else {
		f.Generate(to, from)
	}
	return to
}

// floorDiv2 divides by two rounding toward negative infinity, which integer
// division does not do for negative odd values.
func floorDiv2(v int) int {
	return v >> 1
}
