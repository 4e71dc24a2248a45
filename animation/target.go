package animation

// Code to support the render target, a flat buffer of colors split into the
// blocks of LEDs a device exposes

import (
	"fmt"
	"image/color"
)

// RenderTarget captures the colors of every LED of a device for one frame
type RenderTarget struct {
	// Buffer of data mapping to physical LEDs, blocks laid end to end.  A
	// block may own more slots than it has keys, the extra slots are padding
	colors []color.RGBA

	// Index of the first slot of each block within colors
	offsets []int
}

// NewRenderTarget creates a new RenderTarget, using the provided block sizes.
// Size of the array governs the number of blocks, values govern the number of
// slots in each block
func NewRenderTarget(sizes []int) *RenderTarget {
	t := &RenderTarget{
		offsets: make([]int, len(sizes)),
	}
	total := 0
	for idx, size := range sizes {
		t.offsets[idx] = total
		total += size
	}
	t.colors = make([]color.RGBA, total)
	return t
}

// Len is the number of slots in the target, padding included
func (t *RenderTarget) Len() int {
	return len(t.colors)
}

// Blocks is the number of blocks in the target
func (t *RenderTarget) Blocks() int {
	return len(t.offsets)
}

// Colors returns the whole buffer.  The slice references the target and so
// is changed by further rendering, callers that retain it should copy it
func (t *RenderTarget) Colors() []color.RGBA {
	return t.colors
}

// Block returns the slots of a single block, referencing the target buffer.
// Returns an empty slice and an error if an invalid block is specified
func (t *RenderTarget) Block(block int) ([]color.RGBA, error) {
	if block < 0 || block >= len(t.offsets) {
		return nil, fmt.Errorf("%d is an invalid block index", block)
	}
	end := len(t.colors)
	if block+1 < len(t.offsets) {
		end = t.offsets[block+1]
	}
	return t.colors[t.offsets[block]:end], nil
}

// Fill sets every slot of the target to c
func (t *RenderTarget) Fill(c color.RGBA) {
	for idx := range t.colors {
		t.colors[idx] = c
	}
}

// Clone returns an independent copy of the target
func (t *RenderTarget) Clone() *RenderTarget {
	return &RenderTarget{
		colors:  append([]color.RGBA{}, t.colors...),
		offsets: append([]int{}, t.offsets...),
	}
}

// Blend composes src over dst using the alpha channel of src
func Blend(dst, src *RenderTarget) {
	n := len(dst.colors)
	if len(src.colors) < n {
		n = len(src.colors)
	}
	for idx := 0; idx < n; idx++ {
		s := src.colors[idx]
		switch s.A {
		case 0:
			continue
		case 0xff:
			dst.colors[idx] = s
			continue
		}
		d := &dst.colors[idx]
		a := uint16(s.A)
		d.R = uint8((uint16(d.R)*(0xff-a) + uint16(s.R)*a) / 0xff)
		d.G = uint8((uint16(d.G)*(0xff-a) + uint16(s.G)*a) / 0xff)
		d.B = uint8((uint16(d.B)*(0xff-a) + uint16(s.B)*a) / 0xff)
		d.A = uint8(a + uint16(d.A)*(0xff-a)/0xff)
	}
}
