package animation

// Mapping from the physical position of keys to their phase within a wave

import (
	"math"

	"github.com/TeamNorCal/keywave/model"
)

// KeySelection is the set of render target slots an effect animates.  It is
// either AllKeys or a KeySubset
type KeySelection interface {
	// Slot maps the i-th selected key to its render target slot
	Slot(i int) int
}

// AllKeys selects every slot of the render target, padding included
type AllKeys struct{}

// Slot is the identity, keys are visited in render target order
func (AllKeys) Slot(i int) int {
	return i
}

// KeySubset selects the keys of a named group, in group order
type KeySubset struct {
	Name  string
	Keys  []model.Key
	slots []int
}

// NewKeySubset captures the keys of a group
func NewKeySubset(group model.KeyGroup) *KeySubset {
	subset := &KeySubset{
		Name:  group.Name,
		Keys:  group.Keys,
		slots: make([]int, len(group.Keys)),
	}
	for idx, key := range group.Keys {
		subset.slots[idx] = key.Index
	}
	return subset
}

// Slot returns the render target slot of the i-th key of the group
func (s *KeySubset) Slot(i int) int {
	return s.slots[i]
}

// waveFront projects key positions onto the direction of travel of a wave
type waveFront struct {
	freqX, freqY int
	bounds       model.Rect
}

// newWaveFront builds the projection for a wave traveling toward direction,
// in degrees clockwise from up.  One cycle spans length thousandths of the
// extent of the bounds
func newWaveFront(direction, length int, bounds model.Rect) waveFront {
	frequency := float64(Accuracy) * 1000 / float64(length)
	angle := 2 * math.Pi / 360 * float64(direction)
	return waveFront{
		freqX:  int(frequency * math.Sin(angle)),
		freqY:  int(frequency * math.Cos(angle)),
		bounds: bounds,
	}
}

// phase returns the phase of a key in [0, Accuracy).  Keys sitting at the
// origin have no known position and get no phase shift
func (w waveFront) phase(position model.Rect) int {
	if position.IsUnset() {
		return 0
	}
	x, y := position.Mid()

	// Coordinates are centred on the bounds, Y is reversed as the layout
	// uses top<down
	nx := normalize(x, w.bounds.X0, w.bounds.X1) - Accuracy/2
	ny := Accuracy/2 - normalize(y, w.bounds.Y0, w.bounds.Y1)

	val := (w.freqX*nx + w.freqY*ny) / Accuracy % Accuracy
	if val < 0 {
		val += Accuracy
	}
	return val
}

// normalize scales v from [lo, hi] to [0, Accuracy].  A flat axis maps
// everything to its middle
func normalize(v, lo, hi int) int {
	if hi == lo {
		return Accuracy / 2
	}
	return Accuracy * (v - lo) / (hi - lo)
}

// computePhases returns one phase per selected key
func computePhases(front waveFront, db *model.KeyDatabase, keys KeySelection) (phases []int) {
	if subset, isSubset := keys.(*KeySubset); isSubset {
		phases = make([]int, 0, len(subset.Keys))
		for _, key := range subset.Keys {
			phases = append(phases, front.phase(key.Position))
		}
		return phases
	}

	sizes := db.BlockSizes()
	total := 0
	for _, size := range sizes {
		total += size
	}

	phases = make([]int, 0, total)
	for bidx, size := range sizes {
		codes := db.BlockCodes(bidx)
		for kidx, code := range codes {
			key, isPresent := db.Find(model.KeyDescriptor{Block: bidx, Offset: kidx})
			if !isPresent {
				logger.Warn("key missing in database", "block", bidx, "key", kidx, "code", code)
				phases = append(phases, 0)
				continue
			}
			phases = append(phases, front.phase(key.Position))
		}
		// Slots between the last key of a block and the next block
		for pad := len(codes); pad < size; pad++ {
			phases = append(phases, 0)
		}
	}
	return phases
}
