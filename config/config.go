package config

// This module loads the YAML configuration that names the device layout, the
// OPC server to drive and the stack of effects to render

import (
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"

	"gopkg.in/yaml.v2"
)

// Item is one configured parameter
type Item struct {
	Key   string
	Value string
}

// Params is the ordered list of parameters handed to an effect.  Order is
// preserved from the file as some effects, gradients for example, depend on it
type Params []Item

// Get returns the value for key, or the empty string when it is not set
func (params Params) Get(key string) string {
	value, _ := params.Lookup(key)
	return value
}

// Lookup returns the value for key and whether it was set
func (params Params) Lookup(key string) (value string, isPresent bool) {
	for _, item := range params {
		if item.Key == key {
			return item.Value, true
		}
	}
	return "", false
}

// WithPrefix returns the values of every parameter whose key starts with
// prefix, in configuration order
func (params Params) WithPrefix(prefix string) (values []string) {
	values = []string{}
	for _, item := range params {
		if strings.HasPrefix(item.Key, prefix) {
			values = append(values, item.Value)
		}
	}
	return values
}

// UnmarshalYAML reads a mapping while keeping the order of its keys.  Values
// are kept in their textual form, a color such as 000000 must not turn into 0
func (params *Params) UnmarshalYAML(unmarshal func(interface{}) error) error {
	slice := yaml.MapSlice{}
	if err := unmarshal(&slice); err != nil {
		return err
	}
	raw := map[string]string{}
	if err := unmarshal(&raw); err != nil {
		return fmt.Errorf("parameters must be scalars: %v", err)
	}
	*params = make(Params, 0, len(slice))
	for _, item := range slice {
		key := fmt.Sprint(item.Key)
		*params = append(*params, Item{Key: key, Value: raw[key]})
	}
	return nil
}

// Effect names an effect from the registry and its parameters
type Effect struct {
	Name   string `yaml:"effect"`
	Params Params `yaml:"params"`
}

// Config is the top level configuration document
type Config struct {
	Layout  string   `yaml:"layout"`
	Server  string   `yaml:"opc"`
	FPS     int      `yaml:"fps"`
	Effects []Effect `yaml:"effects"`
}

// DefaultFPS is used when the configuration leaves the frame rate unset
const DefaultFPS = 30

// Parse decodes a configuration document
func Parse(data []byte) (cfg *Config, err errors.Error) {
	cfg = &Config{}
	if errGo := yaml.UnmarshalStrict(data, cfg); errGo != nil {
		return nil, errors.Wrap(errGo).With("stack", stack.Trace().TrimRuntime())
	}
	if cfg.FPS <= 0 {
		cfg.FPS = DefaultFPS
	}
	for i, effect := range cfg.Effects {
		if effect.Name == "" {
			return nil, errors.New("effect without a name").With("position", i).With("stack", stack.Trace().TrimRuntime())
		}
	}
	return cfg, nil
}

// Load reads a configuration file, resolving a relative layout path against
// the directory of the file
func Load(fn string) (cfg *Config, err errors.Error) {
	data, errGo := ioutil.ReadFile(fn)
	if errGo != nil {
		return nil, errors.Wrap(errGo).With("file", fn).With("stack", stack.Trace().TrimRuntime())
	}
	if cfg, err = Parse(data); err != nil {
		return nil, err.With("file", fn)
	}
	if cfg.Layout != "" && !filepath.IsAbs(cfg.Layout) {
		cfg.Layout = filepath.Join(filepath.Dir(fn), cfg.Layout)
	}
	return cfg, nil
}
