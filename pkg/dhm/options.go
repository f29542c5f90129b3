// Package dhm generates delivery health metric series over indicator trees.
package dhm

import (
	"math/rand/v2"

	"github.com/ukaji3/dhm-go/pkg/dhm/series"
	"github.com/ukaji3/dhm-go/pkg/dhm/units"
	"go.uber.org/zap"
)

// Options configures a generation pass.
type Options struct {
	// Seed makes the pass reproducible. If nil, a random seed is used.
	Seed *uint64
	// Params shapes the generated series.
	Params series.Params
	// Inferencer maps metric names to value domains.
	// If nil, units.Default() is used.
	Inferencer *units.Inferencer
	// Logger receives progress. If nil, logging is disabled.
	Logger *zap.Logger
}

// DefaultOptions returns options with default series parameters and an
// unseeded generator.
func DefaultOptions() Options {
	return Options{
		Params: series.DefaultParams(),
	}
}

// WithSeed returns a copy of o seeded with seed.
func (o Options) WithSeed(seed uint64) Options {
	o.Seed = &seed
	return o
}

// seed returns the configured seed or a fresh random one.
func (o Options) seed() uint64 {
	if o.Seed != nil {
		return *o.Seed
	}
	return rand.Uint64()
}

func (o Options) inferencer() *units.Inferencer {
	if o.Inferencer != nil {
		return o.Inferencer
	}
	return units.Default()
}

func (o Options) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}

// generator builds the series generator for a pass.
func (o Options) generator() (*series.Generator, error) {
	params := o.Params
	if params == (series.Params{}) {
		params = series.DefaultParams()
	}
	seed := o.seed()
	return series.New(rand.New(rand.NewPCG(seed, seed)), params)
}
