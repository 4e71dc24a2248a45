package animation

import (
	"image/color"
	"reflect"
	"testing"
	"time"

	"github.com/TeamNorCal/keywave/config"
	"github.com/TeamNorCal/keywave/model"
)

// A 200x100 device.  Code 4 has no database entry and UNSET has no position,
// the first block pads to 8 slots and the second to 4
const testLayout = `
device: test
blocks:
  - name: keys
    codes: [1, 2, 3, 4, 5]
  - name: logo
    codes: [9]
keys:
  - {block: keys, code: 1, name: ESC, position: [0, 0, 20, 20]}
  - {block: keys, code: 2, name: A, position: [90, 40, 110, 60]}
  - {block: keys, code: 3, name: Z, position: [180, 80, 200, 100]}
  - {block: keys, code: 5, name: UNSET, position: [0, 0, 0, 0]}
  - {block: logo, code: 9, name: LOGO, position: [80, 0, 120, 20]}
groups:
  center: [A]
  diagonal: [ESC, Z, NOPE]
`

func testDatabase(t *testing.T) *model.KeyDatabase {
	t.Helper()
	layout, err := model.ParseLayout([]byte(testLayout))
	if err != nil {
		t.Fatalf("ParseLayout() error = %v", err)
	}
	db, err := model.NewKeyDatabase(layout)
	if err != nil {
		t.Fatalf("NewKeyDatabase() error = %v", err)
	}
	return db
}

func testWave(t *testing.T, db *model.KeyDatabase, params config.Params) *Wave {
	t.Helper()
	wave, err := NewWave(params, db, db.Groups())
	if err != nil {
		t.Fatalf("NewWave() error = %v", err)
	}
	return wave
}

func opaqueParams(extra ...config.Item) config.Params {
	params := config.Params{
		{Key: "color0", Value: "ff0000"},
		{Key: "color1", Value: "0000ff"},
	}
	return append(params, extra...)
}

func TestWavePhasesAllKeys(t *testing.T) {
	db := testDatabase(t)

	cases := []struct {
		direction string
		want      []int
	}{
		// ESC, A, Z, missing, UNSET, 3 padding, LOGO, 3 padding
		{"0", []int{410, 0, 615, 0, 0, 0, 0, 0, 410, 0, 0, 0}},
		{"180", []int{614, 0, 409, 0, 0, 0, 0, 0, 614, 0, 0, 0}},
		{"90", []int{563, 0, 460, 0, 0, 0, 0, 0, 0, 0, 0, 0}},
	}
	for _, tc := range cases {
		wave := testWave(t, db, opaqueParams(config.Item{Key: "direction", Value: tc.direction}))
		if _, isAll := wave.Keys().(AllKeys); !isAll {
			t.Fatalf("direction %s: keys = %T, want AllKeys", tc.direction, wave.Keys())
		}
		if got := wave.Phases(); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("direction %s: phases = %v, want %v", tc.direction, got, tc.want)
		}
	}
}

func TestWavePhaseTableMatchesTarget(t *testing.T) {
	db := testDatabase(t)
	target := NewRenderTarget(db.BlockSizes())

	for _, length := range []string{"1", "37", "1000", "250000"} {
		for _, direction := range []string{"0", "45", "135", "200", "359", "721"} {
			wave := testWave(t, db, opaqueParams(
				config.Item{Key: "length", Value: length},
				config.Item{Key: "direction", Value: direction}))
			phases := wave.Phases()
			if len(phases) != target.Len() {
				t.Fatalf("length %s direction %s: %d phases for %d slots", length, direction, len(phases), target.Len())
			}
			for idx, phase := range phases {
				if phase < 0 || phase >= Accuracy {
					t.Errorf("length %s direction %s: phase[%d] = %d out of range", length, direction, idx, phase)
				}
			}
		}
	}
}

func TestWaveDirectionSymmetry(t *testing.T) {
	db := testDatabase(t)
	up := testWave(t, db, opaqueParams(config.Item{Key: "length", Value: "700"}))
	down := testWave(t, db, opaqueParams(
		config.Item{Key: "length", Value: "700"},
		config.Item{Key: "direction", Value: "180"}))

	for idx, phase := range up.Phases() {
		if want := (Accuracy - phase) % Accuracy; down.Phases()[idx] != want {
			t.Errorf("slot %d: phase at 180 = %d, want %d (0 gives %d)", idx, down.Phases()[idx], want, phase)
		}
	}
}

func TestWaveCenterKeyIgnoresDirection(t *testing.T) {
	db := testDatabase(t)
	for _, direction := range []string{"0", "30", "90", "180", "270", "333"} {
		wave := testWave(t, db, opaqueParams(
			config.Item{Key: "direction", Value: direction},
			config.Item{Key: "group", Value: "center"}))
		if got := wave.Phases(); !reflect.DeepEqual(got, []int{0}) {
			t.Errorf("direction %s: center phases = %v, want [0]", direction, got)
		}
	}
}

func TestWaveGroupSelection(t *testing.T) {
	db := testDatabase(t)
	wave := testWave(t, db, opaqueParams(config.Item{Key: "group", Value: "diagonal"}))

	subset, isSubset := wave.Keys().(*KeySubset)
	if !isSubset {
		t.Fatalf("keys = %T, want *KeySubset", wave.Keys())
	}
	if subset.Name != "diagonal" || len(subset.Keys) != 2 {
		t.Fatalf("subset = %s with %d keys, want diagonal with 2", subset.Name, len(subset.Keys))
	}
	if got := wave.Phases(); !reflect.DeepEqual(got, []int{410, 615}) {
		t.Errorf("phases = %v, want [410 615]", got)
	}

	target := NewRenderTarget(db.BlockSizes())
	wave.Render(0, target)
	for idx, c := range target.Colors() {
		touched := idx == 0 || idx == 2
		if touched != (c != color.RGBA{}) {
			t.Errorf("slot %d = %v, touched should be %v", idx, c, touched)
		}
	}
}

func TestWaveUnknownGroupFallsBack(t *testing.T) {
	db := testDatabase(t)
	wave := testWave(t, db, opaqueParams(config.Item{Key: "group", Value: "missing"}))
	if _, isAll := wave.Keys().(AllKeys); !isAll {
		t.Fatalf("keys = %T, want AllKeys", wave.Keys())
	}
	if len(wave.Phases()) != 12 {
		t.Errorf("%d phases, want 12", len(wave.Phases()))
	}
}

func TestWaveParameters(t *testing.T) {
	db := testDatabase(t)

	wave := testWave(t, db, opaqueParams(
		config.Item{Key: "period", Value: "0"},
		config.Item{Key: "length", Value: "-5"},
		config.Item{Key: "direction", Value: "-90"}))
	if wave.period != DefaultWavePeriod*time.Millisecond {
		t.Errorf("period = %v, want default", wave.period)
	}
	if wave.length != DefaultWaveLength || wave.direction != DefaultWaveDirection {
		t.Errorf("length, direction = %d, %d, want defaults", wave.length, wave.direction)
	}

	bad := []config.Params{
		opaqueParams(config.Item{Key: "period", Value: "fast"}),
		opaqueParams(config.Item{Key: "length", Value: "1.5"}),
		opaqueParams(config.Item{Key: "direction", Value: "north"}),
		{{Key: "color", Value: "red"}},
	}
	for _, params := range bad {
		if _, err := NewWave(params, db, nil); err == nil {
			t.Errorf("NewWave(%v) succeeded, want an error", params)
		}
	}
}

func TestWaveWithoutColorsIsTransparent(t *testing.T) {
	db := testDatabase(t)
	wave := testWave(t, db, config.Params{{Key: "period", Value: "100"}})

	target := NewRenderTarget(db.BlockSizes())
	target.Fill(color.RGBA{R: 10, G: 20, B: 30, A: 0xff})
	want := target.Clone()
	for _, step := range []time.Duration{0, 30, 70} {
		wave.Render(step*time.Millisecond, target)
		if !reflect.DeepEqual(target.Colors(), want.Colors()) {
			t.Fatalf("after %dms the wave changed the target", step)
		}
	}
}

func TestWaveTimeWraps(t *testing.T) {
	db := testDatabase(t)
	wave := testWave(t, db, opaqueParams(config.Item{Key: "period", Value: "1000"}))
	target := NewRenderTarget(db.BlockSizes())

	want := []time.Duration{300, 600, 900, 200}
	for step, ms := range want {
		wave.Render(300*time.Millisecond, target)
		if got := wave.Elapsed(); got != ms*time.Millisecond {
			t.Errorf("step %d: elapsed = %v, want %v", step, got, ms*time.Millisecond)
		}
	}
}

func TestWaveRenderSamplesTable(t *testing.T) {
	db := testDatabase(t)
	wave := testWave(t, db, opaqueParams(config.Item{Key: "period", Value: "1000"}))
	target := NewRenderTarget(db.BlockSizes())

	wave.Render(250*time.Millisecond, target)
	// t = 256, ESC has phase 410 so it samples 256-410+1024
	if got, want := target.Colors()[0], wave.colors[870]; got != want {
		t.Errorf("ESC = %v, want %v", got, want)
	}
	if got, want := target.Colors()[1], wave.colors[256]; got != want {
		t.Errorf("A = %v, want %v", got, want)
	}
}

func TestWaveIdleAndPeriodic(t *testing.T) {
	db := testDatabase(t)
	wave := testWave(t, db, opaqueParams(
		config.Item{Key: "period", Value: "1000"},
		config.Item{Key: "direction", Value: "45"}))

	first := NewRenderTarget(db.BlockSizes())
	wave.Render(0, first)
	for i := 0; i < 3; i++ {
		again := NewRenderTarget(db.BlockSizes())
		wave.Render(0, again)
		if !reflect.DeepEqual(again.Colors(), first.Colors()) {
			t.Fatalf("render %d with no elapsed time changed the frame", i)
		}
	}

	moved := NewRenderTarget(db.BlockSizes())
	wave.Render(400*time.Millisecond, moved)
	if reflect.DeepEqual(moved.Colors(), first.Colors()) {
		t.Fatal("frame did not change after 400ms")
	}

	for _, step := range []time.Duration{400, 200} {
		wave.Render(step*time.Millisecond, moved)
	}
	if !reflect.DeepEqual(moved.Colors(), first.Colors()) {
		t.Error("frame after a full period differs from the first frame")
	}
}

func TestWaveRenderDoesNotAllocate(t *testing.T) {
	db := testDatabase(t)
	target := NewRenderTarget(db.BlockSizes())

	for _, group := range []string{"", "diagonal"} {
		wave := testWave(t, db, opaqueParams(config.Item{Key: "group", Value: group}))
		allocs := testing.AllocsPerRun(100, func() {
			wave.Render(16*time.Millisecond, target)
		})
		if allocs != 0 {
			t.Errorf("group %q: %v allocations per frame", group, allocs)
		}
	}
}
