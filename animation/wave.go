package animation

// The wave effect, colors from a cyclic gradient traveling across the keys

import (
	"time"

	"github.com/karlmutch/errors"

	"github.com/TeamNorCal/keywave/config"
	"github.com/TeamNorCal/keywave/model"
)

// Defaults for the wave parameters
const (
	DefaultWavePeriod    = 10000 // ms
	DefaultWaveLength    = 1000  // thousandths of the layout extent
	DefaultWaveDirection = 0     // degrees, clockwise from up
)

// Wave is an effect where a gradient travels across the keys
type Wave struct {
	buffer *RenderTarget
	keys   KeySelection
	phases []int // One per selected key, in [0, Accuracy)
	colors *ColorTable

	elapsed time.Duration
	period  time.Duration

	length    int
	direction int
}

// NewWave creates a wave effect.  It reads the period, length, direction and
// group parameters, and takes every parameter starting with "color" as a stop
// of the gradient
func NewWave(params config.Params, db *model.KeyDatabase, groups []model.KeyGroup) (wave *Wave, err errors.Error) {
	wave = &Wave{
		buffer: NewRenderTarget(db.BlockSizes()),
		keys:   AllKeys{},
	}

	period, err := positiveParam(params, "period", DefaultWavePeriod)
	if err != nil {
		return nil, err.With("effect", "wave")
	}
	wave.period = time.Duration(period) * time.Millisecond

	if wave.length, err = positiveParam(params, "length", DefaultWaveLength); err != nil {
		return nil, err.With("effect", "wave")
	}
	if wave.direction, err = positiveParam(params, "direction", DefaultWaveDirection); err != nil {
		return nil, err.With("effect", "wave")
	}

	stops, err := colorParams(params, "color")
	if err != nil {
		return nil, err.With("effect", "wave")
	}
	wave.colors = NewColorTable(stops)

	if name := params.Get("group"); name != "" {
		if group, isPresent := findGroup(groups, name); isPresent {
			wave.keys = NewKeySubset(group)
		} else {
			logger.Debug("unknown group, animating every key", "group", name)
		}
	}

	wave.phases = computePhases(newWaveFront(wave.direction, wave.length, db.Bounds()), db, wave.keys)
	return wave, nil
}

// Phases returns the phase of every selected key
func (wave *Wave) Phases() []int {
	return wave.phases
}

// Keys returns the selection of keys the wave animates
func (wave *Wave) Keys() KeySelection {
	return wave.keys
}

// Elapsed is the position of the wave within its current period
func (wave *Wave) Elapsed() time.Duration {
	return wave.elapsed
}

// Render advances the wave and blends it onto target
func (wave *Wave) Render(elapsed time.Duration, target *RenderTarget) {
	if elapsed > 0 {
		wave.elapsed += elapsed
	}
	if wave.elapsed >= wave.period {
		wave.elapsed %= wave.period
	}

	// Microsecond resolution, nanoseconds times Accuracy overflow for periods of a few hours
	t := int(Accuracy * (wave.elapsed / time.Microsecond) / (wave.period / time.Microsecond))

	buf := wave.buffer.colors
	for idx, phase := range wave.phases {
		tphi := t - phase
		if tphi < 0 {
			tphi += Accuracy
		}
		buf[wave.keys.Slot(idx)] = wave.colors[tphi]
	}
	Blend(target, wave.buffer)
}
