// Package series generates bounded synthetic time series.
package series

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
)

// ErrInvalidRange indicates a range whose maximum is below its minimum
// or whose bounds are not numbers.
var ErrInvalidRange = errors.New("invalid range")

// ErrInvalidPrecision indicates a rounding precision outside [0, MaxDecimals].
var ErrInvalidPrecision = errors.New("invalid precision")

// MaxDecimals is the finest rounding precision Generate accepts. float64
// carries roughly 15 significant decimal digits.
const MaxDecimals = 15

// ErrInvalidParams indicates generator parameters that cannot produce a series.
var ErrInvalidParams = errors.New("invalid generator parameters")

// Source supplies uniformly distributed values in [0, 1).
// *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// Params controls the shape of generated series.
// Scales are fractions of the range width.
type Params struct {
	// Points is the series length.
	Points int
	// DriftScale bounds the per-step delta of the smooth walk.
	DriftScale float64
	// ShiftProbability is the chance that a step is a regime shift.
	ShiftProbability float64
	// ShiftScale bounds the delta of a regime shift.
	ShiftScale float64
	// QuietSteps is the number of leading steps that never shift.
	QuietSteps int
	// NoiseProbability is the chance that an interior point is perturbed.
	NoiseProbability float64
	// NoiseScale bounds the perturbation.
	NoiseScale float64
	// NoiseMargin is the number of points at each end left unperturbed.
	NoiseMargin int
}

// DefaultParams returns the parameters used for dashboard metrics:
// 12 sprints, ±10% drift, 20% chance of a ±40% shift after the third step,
// and a 12% chance of ±30% noise away from the first and last two points.
func DefaultParams() Params {
	return Params{
		Points:           12,
		DriftScale:       0.1,
		ShiftProbability: 0.2,
		ShiftScale:       0.4,
		QuietSteps:       3,
		NoiseProbability: 0.12,
		NoiseScale:       0.3,
		NoiseMargin:      2,
	}
}

// Validate reports whether p can drive a Generator.
func (p Params) Validate() error {
	if p.Points < 1 {
		return fmt.Errorf("%w: points must be positive, got %d", ErrInvalidParams, p.Points)
	}
	for _, c := range []struct {
		name string
		v    int
	}{
		{"quiet steps", p.QuietSteps},
		{"noise margin", p.NoiseMargin},
	} {
		if c.v < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %d", ErrInvalidParams, c.name, c.v)
		}
	}
	for _, c := range []struct {
		name string
		v    float64
	}{
		{"shift probability", p.ShiftProbability},
		{"noise probability", p.NoiseProbability},
	} {
		if !(c.v >= 0 && c.v <= 1) {
			return fmt.Errorf("%w: %s must be within [0, 1], got %v", ErrInvalidParams, c.name, c.v)
		}
	}
	for _, c := range []struct {
		name string
		v    float64
	}{
		{"drift scale", p.DriftScale},
		{"shift scale", p.ShiftScale},
		{"noise scale", p.NoiseScale},
	} {
		if c.v < 0 || math.IsNaN(c.v) || math.IsInf(c.v, 0) {
			return fmt.Errorf("%w: %s must be finite and non-negative, got %v", ErrInvalidParams, c.name, c.v)
		}
	}
	return nil
}

// Generator produces series from a Source.
type Generator struct {
	src    Source
	params Params
}

// New creates a Generator drawing from src.
func New(src Source, params Params) (*Generator, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Generator{src: src, params: params}, nil
}

// NewSeeded creates a Generator with DefaultParams over a PCG source seeded
// with seed. Equal seeds yield equal series.
func NewSeeded(seed uint64) *Generator {
	return &Generator{
		src:    rand.New(rand.NewPCG(seed, seed)),
		params: DefaultParams(),
	}
}

// Params returns the generator's parameters.
func (g *Generator) Params() Params {
	return g.params
}

// Generate returns a series of g.Params().Points values within [min, max],
// each rounded to decimals places.
func (g *Generator) Generate(min, max float64, decimals int) ([]float64, error) {
	if math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0) {
		return nil, fmt.Errorf("%w: bounds must be finite, got [%v, %v]", ErrInvalidRange, min, max)
	}
	if max < min {
		return nil, fmt.Errorf("%w: max %v is below min %v", ErrInvalidRange, max, min)
	}
	if decimals < 0 || decimals > MaxDecimals {
		return nil, fmt.Errorf("%w: decimals must be within [0, %d], got %d", ErrInvalidPrecision, MaxDecimals, decimals)
	}

	p := g.params
	width := max - min
	points := make([]float64, p.Points)
	points[0] = g.uniform(min, max)

	for i := 0; i < p.Points-1; i++ {
		// The draw happens on every step so quiet steps consume the same entropy.
		shift := g.src.Float64() < p.ShiftProbability && i >= p.QuietSteps
		scale := p.DriftScale
		if shift {
			scale = p.ShiftScale
		}
		delta := g.uniform(-scale, scale) * width
		points[i+1] = clamp(points[i]+delta, min, max)
	}

	for i := p.NoiseMargin; i < len(points)-p.NoiseMargin; i++ {
		if g.src.Float64() < p.NoiseProbability {
			noise := g.uniform(-p.NoiseScale, p.NoiseScale) * width
			points[i] = clamp(points[i]+noise, min, max)
		}
	}

	for i, v := range points {
		points[i] = roundWithin(v, min, max, decimals)
	}
	return points, nil
}

func (g *Generator) uniform(a, b float64) float64 {
	return a + (b-a)*g.src.Float64()
}

// Round rounds v to decimals places, halves away from zero.
func Round(v float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}

// roundWithin rounds v and pulls the result back inside [min, max] at the
// same precision when rounding crossed a bound.
func roundWithin(v, min, max float64, decimals int) float64 {
	r := Round(v, decimals)
	pow := math.Pow(10, float64(decimals))
	if r > max {
		r = math.Floor(max*pow) / pow
	}
	if r < min {
		r = math.Ceil(min*pow) / pow
	}
	return r
}

func clamp(v, min, max float64) float64 {
	return math.Max(math.Min(v, max), min)
}
