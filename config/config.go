// Package config loads color space definitions and builds them into
// operation sequences for a processor.
//
// A config is a YAML document:
//
//	reference: linear
//	colorspaces:
//	  - name: linear
//	    allocation: lg2
//	    allocationvars: [-10, 6]
//	  - name: log
//	    to_reference:
//	      - type: log
//	        base: 2
//	        direction: inverse
//
// Each color space converts to the reference space through to_reference or,
// inverted, through from_reference.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/colorproc/op"
)

// Errors returned by config loading and lookup.
var (
	ErrColorSpaceNotFound = errors.New("config: color space not found")
	ErrNilColorSpace      = errors.New("config: nil color space")
	ErrInvalidTransform   = errors.New("config: invalid transform")
)

// Config is a set of color spaces sharing a reference space.
type Config struct {
	Reference   string
	ColorSpaces []*ColorSpace
}

// ColorSpace describes how one color space converts to the reference.
type ColorSpace struct {
	Name        string
	Family      string
	Description string

	// IsData marks non-color data that conversions must pass through.
	IsData bool

	// Allocation and AllocationVars declare the numeric range the space
	// occupies; see op.AllocationData.
	Allocation     op.Allocation
	AllocationVars []float32

	ToReference   Transform
	FromReference Transform
}

func (cs *ColorSpace) allocationData() op.AllocationData {
	return op.AllocationData{Allocation: cs.Allocation, Vars: cs.AllocationVars}
}

// ColorSpace returns the color space with the given name. Names compare
// case-insensitively.
func (c *Config) ColorSpace(name string) (*ColorSpace, error) {
	if c != nil {
		for _, cs := range c.ColorSpaces {
			if strings.EqualFold(cs.Name, name) {
				return cs, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrColorSpaceNotFound, name)
}

// LoadFile reads a YAML config from path.
func LoadFile(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

// Load reads a YAML config from r.
func Load(r io.Reader) (*Config, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, err
	}
	return Parse(buf.Bytes())
}

// Parse decodes a YAML config.
func Parse(b []byte) (*Config, error) {
	var doc configYAML
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return doc.build()
}

type configYAML struct {
	Reference   string           `yaml:"reference"`
	ColorSpaces []colorSpaceYAML `yaml:"colorspaces"`
}

type colorSpaceYAML struct {
	Name           string          `yaml:"name"`
	Family         string          `yaml:"family,omitempty"`
	Description    string          `yaml:"description,omitempty"`
	IsData         bool            `yaml:"isdata,omitempty"`
	Allocation     string          `yaml:"allocation,omitempty"`
	AllocationVars []float32       `yaml:"allocationvars,omitempty"`
	ToReference    []transformYAML `yaml:"to_reference,omitempty"`
	FromReference  []transformYAML `yaml:"from_reference,omitempty"`
}

type transformYAML struct {
	Type      string `yaml:"type"`
	Direction string `yaml:"direction,omitempty"`

	// matrix
	Matrix []float32 `yaml:"matrix,omitempty"`
	Offset []float32 `yaml:"offset,omitempty"`

	// fit
	OldMin []float32 `yaml:"old_min,omitempty"`
	OldMax []float32 `yaml:"old_max,omitempty"`
	NewMin []float32 `yaml:"new_min,omitempty"`
	NewMax []float32 `yaml:"new_max,omitempty"`

	// log
	Base float32 `yaml:"base,omitempty"`

	// lut3d
	Edge int       `yaml:"edge,omitempty"`
	Data []float32 `yaml:"data,omitempty"`

	// allocation
	Allocation string    `yaml:"allocation,omitempty"`
	Vars       []float32 `yaml:"vars,omitempty"`

	// colorspace
	Src string `yaml:"src,omitempty"`
	Dst string `yaml:"dst,omitempty"`

	// group
	Children []transformYAML `yaml:"children,omitempty"`
}

func (d *configYAML) build() (*Config, error) {
	cfg := &Config{Reference: d.Reference}
	seen := make(map[string]bool, len(d.ColorSpaces))
	for i := range d.ColorSpaces {
		raw := &d.ColorSpaces[i]
		if raw.Name == "" {
			return nil, fmt.Errorf("config: color space %d has no name", i)
		}
		key := strings.ToLower(raw.Name)
		if seen[key] {
			return nil, fmt.Errorf("config: duplicate color space %q", raw.Name)
		}
		seen[key] = true

		alloc, err := op.ParseAllocation(raw.Allocation)
		if err != nil {
			return nil, fmt.Errorf("config: color space %q: %w", raw.Name, err)
		}
		cs := &ColorSpace{
			Name:           raw.Name,
			Family:         raw.Family,
			Description:    raw.Description,
			IsData:         raw.IsData,
			Allocation:     alloc,
			AllocationVars: raw.AllocationVars,
		}
		if cs.ToReference, err = buildList(raw.ToReference); err != nil {
			return nil, fmt.Errorf("config: color space %q to_reference: %w", raw.Name, err)
		}
		if cs.FromReference, err = buildList(raw.FromReference); err != nil {
			return nil, fmt.Errorf("config: color space %q from_reference: %w", raw.Name, err)
		}
		cfg.ColorSpaces = append(cfg.ColorSpaces, cs)
	}
	return cfg, nil
}

// buildList returns nil for an empty list, the transform itself for one
// entry, and a group otherwise.
func buildList(list []transformYAML) (Transform, error) {
	switch len(list) {
	case 0:
		return nil, nil
	case 1:
		return list[0].build()
	}
	group := &GroupTransform{Direction: op.DirectionForward}
	for i := range list {
		t, err := list[i].build()
		if err != nil {
			return nil, err
		}
		group.Transforms = append(group.Transforms, t)
	}
	return group, nil
}

func (t *transformYAML) build() (Transform, error) {
	dir, err := op.ParseDirection(t.Direction)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(t.Type) {
	case "matrix":
		mt := &MatrixTransform{Direction: dir}
		if err := fill(mt.Matrix[:], t.Matrix, "matrix"); err != nil {
			return nil, err
		}
		if t.Offset != nil {
			if err := fill(mt.Offset[:], t.Offset, "offset"); err != nil {
				return nil, err
			}
		}
		return mt, nil

	case "fit":
		ft := &FitTransform{Direction: dir}
		for _, f := range []struct {
			dst  *[4]float32
			src  []float32
			name string
		}{
			{&ft.OldMin, t.OldMin, "old_min"},
			{&ft.OldMax, t.OldMax, "old_max"},
			{&ft.NewMin, t.NewMin, "new_min"},
			{&ft.NewMax, t.NewMax, "new_max"},
		} {
			if err := fill(f.dst[:], f.src, f.name); err != nil {
				return nil, err
			}
		}
		return ft, nil

	case "log":
		base := t.Base
		if base == 0 {
			base = 2
		}
		return &LogTransform{Base: base, Direction: dir}, nil

	case "lut3d":
		if t.Edge < 2 || len(t.Data) != 3*t.Edge*t.Edge*t.Edge {
			return nil, fmt.Errorf("%w: lut3d edge %d with %d values", ErrInvalidTransform, t.Edge, len(t.Data))
		}
		return &Lut3DTransform{EdgeLen: t.Edge, Data: t.Data, Direction: dir}, nil

	case "allocation":
		alloc, err := op.ParseAllocation(t.Allocation)
		if err != nil {
			return nil, err
		}
		return &AllocationTransform{Allocation: alloc, Vars: t.Vars, Direction: dir}, nil

	case "colorspace":
		if t.Src == "" || t.Dst == "" {
			return nil, fmt.Errorf("%w: colorspace needs src and dst", ErrInvalidTransform)
		}
		return &ColorSpaceTransform{Src: t.Src, Dst: t.Dst, Direction: dir}, nil

	case "group":
		group := &GroupTransform{Direction: dir}
		for i := range t.Children {
			child, err := t.Children[i].build()
			if err != nil {
				return nil, err
			}
			group.Transforms = append(group.Transforms, child)
		}
		return group, nil
	}
	return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidTransform, t.Type)
}

// fill copies src into dst, requiring an exact length match.
func fill(dst, src []float32, name string) error {
	if len(src) != len(dst) {
		return fmt.Errorf("%w: %s needs %d values, got %d", ErrInvalidTransform, name, len(dst), len(src))
	}
	copy(dst, src)
	return nil
}
