package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const sample = `
layout: layouts/g410.yaml
opc: localhost:7890
effects:
  - effect: fill
    params:
      color: "000000"
  - effect: wave
    params:
      period: 3000
      color1: ff0000
      color0: "#00ff00"
      direction: 90
      group: ""
`

func TestParseKeepsParameterOrder(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.FPS != DefaultFPS {
		t.Errorf("FPS = %d, want default %d", cfg.FPS, DefaultFPS)
	}
	if cfg.Server != "localhost:7890" {
		t.Errorf("Server = %q", cfg.Server)
	}
	if len(cfg.Effects) != 2 {
		t.Fatalf("got %d effects, want 2", len(cfg.Effects))
	}

	if got := cfg.Effects[0].Params.Get("color"); got != "000000" {
		t.Errorf("fill color = %q, want %q", got, "000000")
	}

	wave := cfg.Effects[1]
	want := Params{
		{Key: "period", Value: "3000"},
		{Key: "color1", Value: "ff0000"},
		{Key: "color0", Value: "#00ff00"},
		{Key: "direction", Value: "90"},
		{Key: "group", Value: ""},
	}
	if !reflect.DeepEqual(wave.Params, want) {
		t.Fatalf("params = %#v, want %#v", wave.Params, want)
	}

	colors := wave.Params.WithPrefix("color")
	if !reflect.DeepEqual(colors, []string{"ff0000", "#00ff00"}) {
		t.Errorf("WithPrefix(color) = %v", colors)
	}
}

func TestParamsLookup(t *testing.T) {
	params := Params{{Key: "length", Value: "500"}}
	if value, isPresent := params.Lookup("length"); !isPresent || value != "500" {
		t.Errorf("Lookup(length) = %q, %v", value, isPresent)
	}
	if _, isPresent := params.Lookup("period"); isPresent {
		t.Error("Lookup(period) reported a missing key as present")
	}
	if got := params.Get("period"); got != "" {
		t.Errorf("Get(period) = %q, want empty", got)
	}
}

func TestParseRejectsBadDocuments(t *testing.T) {
	cases := map[string]string{
		"unknown field":    "layout: a.yaml\nspeed: 3\n",
		"unnamed effect":   "effects:\n  - params:\n      color: ff0000\n",
		"nested parameter": "effects:\n  - effect: wave\n    params:\n      color: [1, 2]\n",
	}
	for name, doc := range cases {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Errorf("%s: Parse() succeeded, want an error", name)
		}
	}
}

func TestLoadResolvesLayoutPath(t *testing.T) {
	dir := t.TempDir()
	fn := filepath.Join(dir, "keywave.yaml")
	if err := os.WriteFile(fn, []byte(sample), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(fn)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if want := filepath.Join(dir, "layouts", "g410.yaml"); cfg.Layout != want {
		t.Errorf("Layout = %q, want %q", cfg.Layout, want)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Load() of a missing file succeeded")
	}
}
