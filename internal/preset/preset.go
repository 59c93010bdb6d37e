// Package preset reads and writes layer presets: JSON files holding layer
// options (seed points, generation parameters and style), never generated
// heights.
package preset

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"

	"github.com/Faultbox/skyline/internal/landscape"
)

// Version is the preset format written by Encode.
const Version = 1

var (
	// ErrUnsupportedVersion is returned for presets from a newer format.
	ErrUnsupportedVersion = errors.New("unsupported preset version")
	// ErrNoLayers is returned for presets without layers.
	ErrNoLayers = errors.New("preset has no layers")
)

var json = jsoniter.Config{
	IndentionStep:                 2,
	EscapeHTML:                    false,
	SortMapKeys:                   true,
	DisallowUnknownFields:         true,
	TagKey:                        "json",
	ObjectFieldMustBeSimpleString: true,
	CaseSensitive:                 true,
}.Froze()

// File is a stored preset. Layers are listed bottom to top.
type File struct {
	Version int                 `json:"version"`
	Name    string              `json:"name,omitempty"`
	Layers  []landscape.Options `json:"layers"`
}

// Validate checks the format version and every layer's options.
func (f *File) Validate() error {
	if f.Version < 1 || f.Version > Version {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, f.Version)
	}
	if len(f.Layers) == 0 {
		return ErrNoLayers
	}
	for i, opts := range f.Layers {
		if err := opts.Validate(); err != nil {
			return fmt.Errorf("layer %d: %w", i, err)
		}
	}
	return nil
}

// Decode reads and validates a preset.
func Decode(r io.Reader) (*File, error) {
	var f File
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding preset: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Encode writes f as indented JSON, stamping the current version.
func Encode(w io.Writer, f *File) error {
	out := *f
	out.Version = Version
	return json.NewEncoder(w).Encode(&out)
}

// Load reads the preset at path.
func Load(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	f, err := Decode(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Save writes f to path, creating parent directories as needed.
func Save(path string, f *File) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(fh, f); err != nil {
		fh.Close()
		return fmt.Errorf("encoding preset: %w", err)
	}
	return fh.Close()
}

// FromLandscape captures the current layers of ls, with each layer's base
// points as its new seed.
func FromLandscape(name string, ls *landscape.Landscape) *File {
	f := &File{Version: Version, Name: name}
	for _, layer := range ls.Layers() {
		f.Layers = append(f.Layers, layer.Options())
	}
	return f
}
