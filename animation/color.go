package animation

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"

	"github.com/lucasb-eyer/go-colorful"
)

// ParseColor decodes colors written as rrggbb or rrggbbaa hex digits, with an
// optional leading '#'.  Colors without an alpha channel are opaque
func ParseColor(text string) (c color.RGBA, err errors.Error) {
	hex := strings.TrimPrefix(strings.TrimSpace(text), "#")

	alpha := uint64(0xff)
	switch len(hex) {
	case 6:
	case 8:
		a, errGo := strconv.ParseUint(hex[6:], 16, 8)
		if errGo != nil {
			return c, errors.Wrap(errGo).With("color", text).With("stack", stack.Trace().TrimRuntime())
		}
		alpha = a
		hex = hex[:6]
	default:
		return c, errors.New("color must have 6 or 8 hex digits").With("color", text).With("stack", stack.Trace().TrimRuntime())
	}

	rgb, errGo := colorful.Hex("#" + hex)
	if errGo != nil {
		return c, errors.Wrap(errGo).With("color", text).With("stack", stack.Trace().TrimRuntime())
	}
	c.R, c.G, c.B = rgb.RGB255()
	c.A = uint8(alpha)
	return c, nil
}
