package model

// This module resolves a device layout into the keys that effects address,
// mapping each key to its slot within a flat render target

import (
	"fmt"
	"sort"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"

	logxi "github.com/mgutz/logxi/v1"
)

var logger logxi.Logger = logxi.New("model")

// KeyDescriptor identifies a key by its block and its offset within the
// block's list of key codes
type KeyDescriptor struct {
	Block, Offset int
}

// Key is a key of the device that has an entry in the key database
type Key struct {
	KeyDescriptor
	Index    int // Slot within the render target
	Code     int
	Name     string
	Position Rect
}

// KeyGroup is a named, ordered set of keys
type KeyGroup struct {
	Name string
	Keys []Key
}

// KeyDatabase holds the keys of a device along with the shape of the
// render target that addresses them
type KeyDatabase struct {
	layout  *Layout
	sizes   []int
	offsets []int
	keys    []Key
	byDesc  map[KeyDescriptor]int
	byName  map[string]int
	bounds  Rect
}

// NewKeyDatabase validates the layout and builds the database from it
func NewKeyDatabase(layout *Layout) (db *KeyDatabase, err errors.Error) {
	db = &KeyDatabase{
		layout:  layout.DeepCopy(),
		sizes:   make([]int, 0, len(layout.Blocks)),
		offsets: make([]int, 0, len(layout.Blocks)),
		keys:    []Key{},
		byDesc:  map[KeyDescriptor]int{},
		byName:  map[string]int{},
	}

	blocks := map[string]int{}
	offset := 0
	for bidx, block := range layout.Blocks {
		if _, isPresent := blocks[block.Name]; isPresent {
			return nil, errors.New("duplicate block").With("block", block.Name).With("stack", stack.Trace().TrimRuntime())
		}
		if block.slots() < len(block.Codes) {
			return nil, errors.New("block size smaller than its key count").With("block", block.Name).
				With("size", block.Size).With("keys", len(block.Codes)).With("stack", stack.Trace().TrimRuntime())
		}
		blocks[block.Name] = bidx
		db.sizes = append(db.sizes, block.slots())
		db.offsets = append(db.offsets, offset)
		offset += block.slots()
	}

	// Index the key entries by block and code so that the device's own
	// ordering of codes decides the render target slot
	type blockCode struct {
		block, code int
	}
	codes := map[blockCode]bool{}
	for bidx, block := range layout.Blocks {
		for _, code := range block.Codes {
			codes[blockCode{bidx, code}] = true
		}
	}
	specs := map[blockCode]KeySpec{}
	for _, spec := range layout.Keys {
		bidx, isPresent := blocks[spec.Block]
		if !isPresent {
			return nil, errors.New("key references an unknown block").With("key", spec.Name).
				With("block", spec.Block).With("stack", stack.Trace().TrimRuntime())
		}
		if spec.Position.X1 < spec.Position.X0 || spec.Position.Y1 < spec.Position.Y0 {
			return nil, errors.New("inverted key position").With("key", spec.Name).
				With("position", fmt.Sprintf("%+v", spec.Position)).With("stack", stack.Trace().TrimRuntime())
		}
		bc := blockCode{bidx, spec.Code}
		if !codes[bc] {
			logger.Warn("key code not in its block, key ignored", "key", spec.Name, "block", spec.Block, "code", spec.Code)
			continue
		}
		// The first entry for a key wins
		if first, isDup := specs[bc]; isDup {
			logger.Warn("duplicate key entry ignored", "key", spec.Name, "block", spec.Block, "code", spec.Code, "kept", first.Name)
			continue
		}
		specs[bc] = spec
	}

	first := true
	for bidx, block := range layout.Blocks {
		for kidx, code := range block.Codes {
			spec, isPresent := specs[blockCode{bidx, code}]
			if !isPresent {
				continue
			}
			key := Key{
				KeyDescriptor: KeyDescriptor{Block: bidx, Offset: kidx},
				Index:         db.offsets[bidx] + kidx,
				Code:          code,
				Name:          spec.Name,
				Position:      spec.Position,
			}
			db.byDesc[key.KeyDescriptor] = len(db.keys)
			if key.Name != "" {
				db.byName[key.Name] = len(db.keys)
			}
			db.keys = append(db.keys, key)

			// Keys without a real position do not stretch the bounds
			if key.Position.IsUnset() {
				continue
			}
			if first {
				db.bounds = key.Position
				first = false
				continue
			}
			db.bounds = db.bounds.Union(key.Position)
		}
	}
	return db, nil
}

// Device is the name of the device the database describes
func (db *KeyDatabase) Device() string {
	return db.layout.Device
}

// BlockSizes returns the number of render target slots of every block
func (db *KeyDatabase) BlockSizes() []int {
	return append([]int{}, db.sizes...)
}

// BlockCodes returns the key codes the device reports for a block
func (db *KeyDatabase) BlockCodes(block int) []int {
	if block < 0 || block >= len(db.layout.Blocks) {
		return nil
	}
	return db.layout.Blocks[block].Codes
}

// Keys returns every key of the database, ordered by render target slot
func (db *KeyDatabase) Keys() []Key {
	return db.keys
}

// Find looks a key up by its block and offset within the block
func (db *KeyDatabase) Find(desc KeyDescriptor) (key Key, isPresent bool) {
	idx, isPresent := db.byDesc[desc]
	if !isPresent {
		return Key{}, false
	}
	return db.keys[idx], true
}

// FindName looks a key up by name
func (db *KeyDatabase) FindName(name string) (key Key, isPresent bool) {
	idx, isPresent := db.byName[name]
	if !isPresent {
		return Key{}, false
	}
	return db.keys[idx], true
}

// Bounds is the union of the positions of all keys that have one
func (db *KeyDatabase) Bounds() Rect {
	return db.bounds
}

// Groups resolves the named groups of the layout, sorted by name.  Key names
// that are not in the database are logged and left out of their group
func (db *KeyDatabase) Groups() (groups []KeyGroup) {
	names := make([]string, 0, len(db.layout.Groups))
	for name := range db.layout.Groups {
		names = append(names, name)
	}
	sort.Strings(names)

	groups = make([]KeyGroup, 0, len(names))
	for _, name := range names {
		group := KeyGroup{Name: name, Keys: []Key{}}
		for _, keyName := range db.layout.Groups[name] {
			key, isPresent := db.FindName(keyName)
			if !isPresent {
				logger.Warn("unknown key in group", "group", name, "key", keyName)
				continue
			}
			group.Keys = append(group.Keys, key)
		}
		groups = append(groups, group)
	}
	return groups
}
