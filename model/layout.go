package model

// This module defines the device layout as it is described on disk, the
// blocks of addressable LEDs a device exposes and the physical position of
// the keys within them

import (
	"encoding/json"
	"fmt"
	"io/ioutil"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"

	"gopkg.in/yaml.v2"
)

// Rect is the bounding rectangle of a key in layout units, Y growing downward
type Rect struct {
	X0 int `json:"x0"`
	Y0 int `json:"y0"`
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
}

// Mid returns the midpoint of the rectangle, rounded toward zero
func (r Rect) Mid() (x, y int) {
	return (r.X0 + r.X1) / 2, (r.Y0 + r.Y1) / 2
}

// IsUnset reports whether the rectangle is centred on the origin, which
// layouts use for keys that have no physical position
func (r Rect) IsUnset() bool {
	x, y := r.Mid()
	return x == 0 && y == 0
}

// Union returns the smallest rectangle containing both r and other
func (r Rect) Union(other Rect) Rect {
	if other.X0 < r.X0 {
		r.X0 = other.X0
	}
	if other.Y0 < r.Y0 {
		r.Y0 = other.Y0
	}
	if other.X1 > r.X1 {
		r.X1 = other.X1
	}
	if other.Y1 > r.Y1 {
		r.Y1 = other.Y1
	}
	return r
}

// UnmarshalYAML accepts a position written as a [x0, y0, x1, y1] sequence
func (r *Rect) UnmarshalYAML(unmarshal func(interface{}) error) error {
	coords := []int{}
	if err := unmarshal(&coords); err != nil {
		return err
	}
	if len(coords) != 4 {
		return fmt.Errorf("position needs 4 coordinates, got %d", len(coords))
	}
	r.X0, r.Y0, r.X1, r.Y1 = coords[0], coords[1], coords[2], coords[3]
	return nil
}

// BlockSpec describes one block of LEDs on a device, in the order the device
// reports its key codes
type BlockSpec struct {
	Name  string `yaml:"name" json:"name"`
	Codes []int  `yaml:"codes" json:"codes"`
	// Number of render target slots reserved for the block, zero means the
	// number of codes rounded up to blockAlignment
	Size int `yaml:"size" json:"size"`
}

// KeySpec is an entry of the key database
type KeySpec struct {
	Block    string `yaml:"block" json:"block"`
	Code     int    `yaml:"code" json:"code"`
	Name     string `yaml:"name" json:"name"`
	Position Rect   `yaml:"position" json:"position"`
}

// Layout is the on disk description of a device
type Layout struct {
	Device string              `yaml:"device" json:"device"`
	Blocks []BlockSpec         `yaml:"blocks" json:"blocks"`
	Keys   []KeySpec           `yaml:"keys" json:"keys"`
	Groups map[string][]string `yaml:"groups" json:"groups"`
}

// Render target blocks are padded to this many slots
const blockAlignment = 4

// slots returns the number of render target slots used by the block
func (spec *BlockSpec) slots() int {
	if spec.Size != 0 {
		return spec.Size
	}
	return (len(spec.Codes) + blockAlignment - 1) / blockAlignment * blockAlignment
}

// ParseLayout decodes a YAML layout document
func ParseLayout(data []byte) (layout *Layout, err errors.Error) {
	layout = &Layout{}
	if errGo := yaml.UnmarshalStrict(data, layout); errGo != nil {
		return nil, errors.Wrap(errGo).With("stack", stack.Trace().TrimRuntime())
	}
	return layout, nil
}

// LoadLayout reads and decodes a YAML layout file
func LoadLayout(fn string) (layout *Layout, err errors.Error) {
	data, errGo := ioutil.ReadFile(fn)
	if errGo != nil {
		return nil, errors.Wrap(errGo).With("file", fn).With("stack", stack.Trace().TrimRuntime())
	}
	if layout, err = ParseLayout(data); err != nil {
		return nil, err.With("file", fn)
	}
	return layout, nil
}

// DeepCopy deepcopies a layout using json marshaling
func (layout *Layout) DeepCopy() (cpy *Layout) {
	cpy = &Layout{}

	byt, _ := json.Marshal(layout)
	json.Unmarshal(byt, cpy)
	return cpy
}
