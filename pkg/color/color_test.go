package color

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"long hex", "#466e9c", "#466e9c"},
		{"upper hex", "#466E9C", "#466e9c"},
		{"short hex", "#fa0", "#ffaa00"},
		{"rgb", "rgb(103, 76, 71)", "#674c47"},
		{"rgb clamps", "rgb(300, -4, 12)", "#ff000c"},
		{"spaces", "  rgb( 1 ,2, 3 ) ", "#010203"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.in, err)
			}
			if got := c.Hex(); got != tt.want {
				t.Errorf("Parse(%q).Hex() = %s, want %s", tt.in, got, tt.want)
			}
			if c.A != 1 {
				t.Errorf("expected opaque color, got alpha %v", c.A)
			}
		})
	}
}

func TestParseRGBA(t *testing.T) {
	c, err := Parse("rgba(10, 20, 30, 0.5)")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if c.A != 0.5 {
		t.Errorf("expected alpha 0.5, got %v", c.A)
	}
	if got := c.CSS(); got != "rgba(10, 20, 30, 0.5)" {
		t.Errorf("CSS() = %s", got)
	}
}

func TestParseInvalid(t *testing.T) {
	for _, in := range []string{"", "#12", "#zzzzzz", "rgb(1,2)", "hsl(1,2,3)", "rgb 1,2,3"} {
		if _, err := Parse(in); !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("Parse(%q) error = %v, want ErrInvalidFormat", in, err)
		}
	}
}

func TestAdd(t *testing.T) {
	c := RGB(250, 100, 0).Add(30)
	r, g, b, a := c.Bytes()
	if r != 255 || g != 130 || b != 30 || a != 255 {
		t.Errorf("Add(30) = %d,%d,%d,%d", r, g, b, a)
	}

	c = RGB(10, 100, 200).Add(-20)
	r, g, b, _ = c.Bytes()
	if r != 0 || g != 80 || b != 180 {
		t.Errorf("Add(-20) = %d,%d,%d", r, g, b)
	}
}

func TestTextRoundTrip(t *testing.T) {
	for _, c := range []Color{RGB(103, 76, 71), RGBA(1, 2, 3, 128)} {
		text, err := c.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText error: %v", err)
		}
		var got Color
		if err := got.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%s) error: %v", text, err)
		}
		gr, gg, gb, _ := got.Bytes()
		wr, wg, wb, _ := c.Bytes()
		if gr != wr || gg != wg || gb != wb {
			t.Errorf("round trip %s: got %s", text, got.Hex())
		}
	}
}
