package animation

/*
Contains definitions of the simpler animation effects that can be applied.
These effects implement interface Effect
*/

import (
	"image/color"
	"time"

	"github.com/karlmutch/errors"

	"github.com/TeamNorCal/keywave/config"
	"github.com/TeamNorCal/keywave/model"
)

// Fill paints a solid color over its keys.  With a fade duration the color
// is interpolated from fully transparent on the first frames
type Fill struct {
	buffer   *RenderTarget
	keys     KeySelection
	count    int
	endColor color.RGBA
	duration time.Duration
	elapsed  time.Duration
}

// NewFill creates a Fill effect from the color, fade (ms) and group
// parameters
func NewFill(params config.Params, db *model.KeyDatabase, groups []model.KeyGroup) (fill *Fill, err errors.Error) {
	fill = &Fill{
		buffer: NewRenderTarget(db.BlockSizes()),
		keys:   AllKeys{},
	}
	fill.count = fill.buffer.Len()

	if text := params.Get("color"); text != "" {
		if fill.endColor, err = ParseColor(text); err != nil {
			return nil, err.With("effect", "fill")
		}
	}

	fade, err := positiveParam(params, "fade", 0)
	if err != nil {
		return nil, err.With("effect", "fill")
	}
	fill.duration = time.Duration(fade) * time.Millisecond

	if name := params.Get("group"); name != "" {
		if group, isPresent := findGroup(groups, name); isPresent {
			subset := NewKeySubset(group)
			fill.keys = subset
			fill.count = len(subset.Keys)
		} else {
			logger.Debug("unknown group, filling every key", "group", name)
		}
	}
	return fill, nil
}

// Render paints the current color and blends it onto target
func (fill *Fill) Render(elapsed time.Duration, target *RenderTarget) {
	c := fill.endColor
	if fill.elapsed < fill.duration {
		if elapsed > 0 {
			fill.elapsed += elapsed
		}
		if fill.elapsed < fill.duration {
			ratio := float32(fill.elapsed) / float32(fill.duration)
			c = lerp(color.RGBA{R: c.R, G: c.G, B: c.B}, c, ratio)
		}
	}

	buf := fill.buffer.colors
	for idx := 0; idx < fill.count; idx++ {
		buf[fill.keys.Slot(idx)] = c
	}
	Blend(target, fill.buffer)
}
