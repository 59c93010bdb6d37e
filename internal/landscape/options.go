// Package landscape implements editable terrain layers and the scrolling,
// stacked landscape that owns them.
package landscape

import (
	"errors"
	"fmt"

	"github.com/jinzhu/copier"

	"github.com/Faultbox/skyline/pkg/color"
	"github.com/Faultbox/skyline/pkg/math"
)

// ErrInvalidOptions is wrapped by every option validation failure.
var ErrInvalidOptions = errors.New("invalid layer options")

// Options describes one layer: its seed points, generation parameters and
// the style handed to the renderer.
type Options struct {
	Name      string      `json:"name,omitempty" yaml:"name,omitempty"`
	Roughness float32     `json:"roughness" yaml:"roughness"`
	Gap       int         `json:"gap" yaml:"gap"` // x distance between the last seed point and the next period
	Points    []math.Vec2 `json:"points" yaml:"points"`

	Color             color.Color `json:"color" yaml:"color"`
	HoverColor        color.Color `json:"hover_color" yaml:"hover_color"`
	StrokeColor       color.Color `json:"stroke_color" yaml:"stroke_color"`
	StrokeWidth       float32     `json:"stroke_width" yaml:"stroke_width"`
	PointRadius       float32     `json:"point_radius" yaml:"point_radius"`
	PointColor        color.Color `json:"point_color" yaml:"point_color"`
	ActivePointColor  color.Color `json:"active_point_color" yaml:"active_point_color"`
	HoveredPointColor color.Color `json:"hovered_point_color" yaml:"hovered_point_color"`
}

// DefaultLayerOptions returns the default style and generation parameters.
// Points are left empty.
func DefaultLayerOptions() Options {
	return Options{
		Roughness:         0.25,
		Gap:               300,
		Color:             color.RGB(103, 76, 71),
		HoverColor:        color.RGB(133, 98, 91),
		StrokeColor:       color.RGB(255, 255, 255),
		StrokeWidth:       2,
		PointRadius:       8,
		PointColor:        color.RGB(123, 104, 238),
		ActivePointColor:  color.RGB(97, 97, 255),
		HoveredPointColor: color.RGB(153, 50, 204),
	}
}

// Clone returns a deep copy; the copy's Points can be edited freely.
func (o Options) Clone() Options {
	var out Options
	if err := copier.CopyWithOption(&out, &o, copier.Option{DeepCopy: true}); err != nil {
		// Options only holds plain values and a slice of them.
		panic(fmt.Sprintf("landscape: cloning options: %v", err))
	}
	return out
}

// validateStyle checks everything except the seed points.
func (o Options) validateStyle() error {
	switch {
	case o.Roughness < 0:
		return fmt.Errorf("%w: negative roughness %v", ErrInvalidOptions, o.Roughness)
	case o.Gap < 1:
		return fmt.Errorf("%w: gap must be at least 1, got %d", ErrInvalidOptions, o.Gap)
	case o.StrokeWidth < 0:
		return fmt.Errorf("%w: negative stroke width %v", ErrInvalidOptions, o.StrokeWidth)
	case o.PointRadius < 0:
		return fmt.Errorf("%w: negative point radius %v", ErrInvalidOptions, o.PointRadius)
	}
	return nil
}

// seedPoints validates the options and returns the seed with x snapped to
// integers.
// Validate checks the options without generating any terrain. NewLayer
// accepts exactly the options Validate accepts.
func (o Options) Validate() error {
	_, err := o.seedPoints()
	return err
}

func (o Options) seedPoints() ([]math.Vec2, error) {
	if err := o.validateStyle(); err != nil {
		return nil, err
	}
	if len(o.Points) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 points, got %d", ErrInvalidOptions, len(o.Points))
	}

	seed := make([]math.Vec2, len(o.Points))
	for i, p := range o.Points {
		seed[i] = p.RoundX()
		if i > 0 && seed[i].X <= seed[i-1].X {
			return nil, fmt.Errorf("%w: point %d x=%v does not follow x=%v",
				ErrInvalidOptions, i, seed[i].X, seed[i-1].X)
		}
	}
	return seed, nil
}
