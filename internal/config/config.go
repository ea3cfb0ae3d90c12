// Package config loads the runtime tuning knobs that do not belong on the
// command line: they govern collector behaviour rather than what to run,
// and are more at home as environment variables an operator sets once for
// a whole test run or CI job.
package config

import "github.com/caarlos0/env/v6"

// GC holds the collector tuning knobs, overridable via environment
// variables so a CI job can run the whole suite under GC stress without
// touching any invocation's command line.
type GC struct {
	// StressMode forces a collection on every allocation.
	StressMode bool `env:"EMBER_GC_STRESS" envDefault:"false"`

	// HeapGrowFactor multiplies bytes-live-after-collection to compute the
	// next collection threshold.
	HeapGrowFactor int `env:"EMBER_GC_HEAP_GROW_FACTOR" envDefault:"2"`
}

// Load reads GC tuning from the environment, falling back to defaults for
// anything unset.
func Load() (GC, error) {
	var cfg GC
	if err := env.Parse(&cfg); err != nil {
		return GC{}, err
	}
	return cfg, nil
}
