package animation

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"

	"github.com/TeamNorCal/keywave/config"
	"github.com/TeamNorCal/keywave/model"
)

// positiveParam reads an integer parameter.  Missing, zero and negative
// values leave def in place, text that is not a number is an error
func positiveParam(params config.Params, key string, def int) (value int, err errors.Error) {
	text := strings.TrimSpace(params.Get(key))
	if text == "" {
		return def, nil
	}
	parsed, errGo := strconv.ParseInt(text, 10, 32)
	if errGo != nil {
		return def, errors.Wrap(errGo).With("parameter", key).With("value", text).With("stack", stack.Trace().TrimRuntime())
	}
	if parsed <= 0 {
		return def, nil
	}
	return int(parsed), nil
}

// colorParams parses every parameter whose name starts with prefix as a
// color, in configuration order
func colorParams(params config.Params, prefix string) (colors []color.RGBA, err errors.Error) {
	values := params.WithPrefix(prefix)
	colors = make([]color.RGBA, 0, len(values))
	for _, value := range values {
		c, err := ParseColor(value)
		if err != nil {
			return nil, err.With("parameter", prefix)
		}
		colors = append(colors, c)
	}
	return colors, nil
}

// findGroup returns the group with the given name
func findGroup(groups []model.KeyGroup, name string) (group model.KeyGroup, isPresent bool) {
	for _, group := range groups {
		if group.Name == name {
			return group, true
		}
	}
	return model.KeyGroup{}, false
}
