package batch

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/skyline/pkg/color"
	"github.com/Faultbox/skyline/pkg/math"
)

// area sums the signed areas of every triangle in the batch.
func area(b *Batch) float32 {
	v := b.Vertices()
	var total float32
	for i := 0; i+3*FloatsPerVertex <= len(v); i += 3 * FloatsPerVertex {
		x0, y0 := v[i], v[i+1]
		x1, y1 := v[i+FloatsPerVertex], v[i+FloatsPerVertex+1]
		x2, y2 := v[i+2*FloatsPerVertex], v[i+2*FloatsPerVertex+1]
		total += ((x1-x0)*(y2-y0) - (x2-x0)*(y1-y0)) / 2
	}
	return total
}

func TestFillUnder(t *testing.T) {
	b := New(64)

	// A skyline over [0, 10] closed back along the baseline.
	path := []math.Vec2{{X: 0, Y: 2}, {X: 4, Y: 6}, {X: 10, Y: 2}, {X: 10, Y: 0}, {X: 0, Y: 0}}
	b.FillUnder(path, color.White)

	// Trapezoids: (2+6)/2*4 + (6+2)/2*6 = 16 + 24.
	if got := math32.Abs(area(b)); math32.Abs(got-40) > 1e-4 {
		t.Errorf("filled area = %v, want 40", got)
	}
	// Two skyline segments plus the degenerate baseline segment.
	if b.Len() != 18 {
		t.Errorf("vertex count = %d, want 18", b.Len())
	}

	v := b.Vertices()
	if v[3] != 1 || v[6] != 1 {
		t.Errorf("color not written: %v", v[:FloatsPerVertex])
	}
}

func TestPolyline(t *testing.T) {
	b := New(16)
	b.Polyline([]math.Vec2{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 0}}, 2, color.Black)

	if b.Len() != 6 {
		t.Fatalf("vertex count = %d, want 6 (repeated points skipped)", b.Len())
	}
	if got := math32.Abs(area(b)); math32.Abs(got-20) > 1e-4 {
		t.Errorf("stroke area = %v, want 20", got)
	}
}

func TestCircle(t *testing.T) {
	b := New(256)
	b.Circle(math.Vec2{X: 5, Y: 5}, 8, 64, color.White)

	if b.Len() != 64*3 {
		t.Fatalf("vertex count = %d", b.Len())
	}
	want := math32.Pi * 64
	if got := math32.Abs(area(b)); math32.Abs(got-want)/want > 0.01 {
		t.Errorf("circle area = %v, want about %v", got, want)
	}

	b.Reset()
	b.Circle(math.Vec2{}, 0, 32, color.White)
	b.Circle(math.Vec2{}, 4, 2, color.White)
	if b.Len() != 0 {
		t.Error("degenerate circles should add nothing")
	}
}

func TestCircleSegments(t *testing.T) {
	tests := []struct {
		radius float32
		want   int
	}{
		{1, 12},
		{8, 16},
		{20, 40},
		{500, 64},
	}
	for _, tt := range tests {
		if got := CircleSegments(tt.radius); got != tt.want {
			t.Errorf("CircleSegments(%v) = %d, want %d", tt.radius, got, tt.want)
		}
	}
}
