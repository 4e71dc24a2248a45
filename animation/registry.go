package animation

import (
	"sort"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"

	"github.com/TeamNorCal/keywave/config"
	"github.com/TeamNorCal/keywave/model"
)

// Factory builds an effect for a device from its parameters
type Factory func(params config.Params, db *model.KeyDatabase, groups []model.KeyGroup) (Effect, errors.Error)

// Registry maps effect names to the factories that build them.  The hosting
// application owns its registry
type Registry map[string]Factory

// WaveFactory builds Wave effects
func WaveFactory(params config.Params, db *model.KeyDatabase, groups []model.KeyGroup) (Effect, errors.Error) {
	wave, err := NewWave(params, db, groups)
	if err != nil {
		return nil, err
	}
	return wave, nil
}

// FillFactory builds Fill effects
func FillFactory(params config.Params, db *model.KeyDatabase, groups []model.KeyGroup) (Effect, errors.Error) {
	fill, err := NewFill(params, db, groups)
	if err != nil {
		return nil, err
	}
	return fill, nil
}

// New builds the named effect
func (reg Registry) New(name string, params config.Params, db *model.KeyDatabase, groups []model.KeyGroup) (effect Effect, err errors.Error) {
	factory, isPresent := reg[name]
	if !isPresent {
		return nil, errors.New("unknown effect").With("effect", name).With("stack", stack.Trace().TrimRuntime())
	}
	return factory(params, db, groups)
}

// Names lists the registered effects in alphabetical order
func (reg Registry) Names() (names []string) {
	names = make([]string, 0, len(reg))
	for name := range reg {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
