// Package config loads the optional runtime-limits file a host passes to
// create_vm(): maximum call depth and whether the random-number built-ins
// (random, randint, choice, shuffle) start from a fixed seed so their
// output is reproducible. time and sleep always use the real clock.
package config

import (
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
)

// Limits are the runtime knobs a host may override before calling
// create_vm().
type Limits struct {
	MaxCallDepth  int   `koanf:"max_call_depth"`
	Deterministic bool  `koanf:"deterministic"`
	RandomSeed    int64 `koanf:"random_seed"`
}

// Defaults returns the hard-coded limits used when no config file is
// given: unbounded-in-practice recursion depth and real randomness/time.
func Defaults() Limits {
	return Limits{
		MaxCallDepth:  4096,
		Deterministic: false,
		RandomSeed:    1,
	}
}

// Load reads an optional YAML limits file, falling back to Defaults()
// for any field the file doesn't set. An empty path is not an error: it
// simply returns Defaults().
func Load(path string) (Limits, error) {
	limits := Defaults()
	if path == "" {
		return limits, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return limits, oops.Code("ConfigError").With("path", path).Wrapf(err, "loading runtime config")
	}
	if err := k.Unmarshal("", &limits); err != nil {
		return limits, oops.Code("ConfigError").With("path", path).Wrapf(err, "parsing runtime config")
	}
	return limits, nil
}
