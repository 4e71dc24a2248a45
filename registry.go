package keywave

import (
	"github.com/karlmutch/errors"

	"github.com/TeamNorCal/keywave/animation"
	"github.com/TeamNorCal/keywave/config"
	"github.com/TeamNorCal/keywave/model"
)

// Effects is the set of effects that configurations can name
var Effects = animation.Registry{
	"fill": animation.FillFactory,
	"wave": animation.WaveFactory,
}

// BuildEffects creates the configured effects for a device, bottom of the
// stack first
func BuildEffects(reg animation.Registry, specs []config.Effect, db *model.KeyDatabase) (effects []animation.Effect, err errors.Error) {
	groups := db.Groups()
	effects = make([]animation.Effect, 0, len(specs))
	for i, spec := range specs {
		effect, err := reg.New(spec.Name, spec.Params, db, groups)
		if err != nil {
			return nil, err.With("position", i)
		}
		effects = append(effects, effect)
	}
	return effects, nil
}
