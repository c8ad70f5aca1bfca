// Synthetic workload generation: samples work amounts from a distribution
// and renders them back into the command-string syntax Parse accepts.

package workload

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"gonum.org/v1/gonum/stat/distuv"
)

// Sampler draws work amounts in milliseconds.
type Sampler interface {
	// Sample returns a positive work amount in ms (>= 1).
	Sample() int
}

// GenConfig describes a synthetic workload.
type GenConfig struct {
	Count   int     // number of processes to generate
	Dist    string  // constant, uniform, normal, pareto
	MeanMs  float64 // constant value, normal mean, or pareto scale (xm)
	StdevMs float64 // normal standard deviation
	MinMs   int     // clamp floor for sampled work
	MaxMs   int     // clamp ceiling for sampled work
	Alpha   float64 // pareto shape
	Seed    uint64  // PCG seed; the same seed yields the same workload
}

// constantSampler always returns the same fixed value.
type constantSampler struct {
	value int
}

func (s constantSampler) Sample() int {
	if s.value < 1 {
		return 1
	}
	return s.value
}

// distSampler clamps draws from a continuous distribution to [min, max].
type distSampler struct {
	r        distuv.Rander
	min, max int
}

func (s distSampler) Sample() int {
	if s.min == s.max {
		return s.min
	}
	val := s.r.Rand()
	clamped := math.Min(float64(s.max), math.Max(float64(s.min), val))
	result := int(math.Round(clamped))
	if result < 1 {
		return 1
	}
	return result
}

// NewSampler creates a Sampler from a GenConfig.
func NewSampler(cfg GenConfig) (Sampler, error) {
	if cfg.MinMs > cfg.MaxMs {
		return nil, fmt.Errorf("min-ms %d exceeds max-ms %d", cfg.MinMs, cfg.MaxMs)
	}
	src := rand.NewPCG(cfg.Seed, cfg.Seed)

	switch cfg.Dist {
	case "constant":
		if cfg.MeanMs < 1 {
			return nil, fmt.Errorf("constant distribution requires mean-ms >= 1")
		}
		return constantSampler{value: int(math.Round(cfg.MeanMs))}, nil

	case "uniform":
		return distSampler{
			r:   distuv.Uniform{Min: float64(cfg.MinMs), Max: float64(cfg.MaxMs), Src: src},
			min: cfg.MinMs,
			max: cfg.MaxMs,
		}, nil

	case "normal":
		if cfg.StdevMs <= 0 {
			return nil, fmt.Errorf("normal distribution requires stdev-ms > 0")
		}
		return distSampler{
			r:   distuv.Normal{Mu: cfg.MeanMs, Sigma: cfg.StdevMs, Src: src},
			min: cfg.MinMs,
			max: cfg.MaxMs,
		}, nil

	case "pareto":
		if cfg.Alpha <= 0 {
			return nil, fmt.Errorf("pareto distribution requires alpha > 0")
		}
		if cfg.MeanMs < 1 {
			return nil, fmt.Errorf("pareto distribution requires mean-ms >= 1 as its scale")
		}
		return distSampler{
			r:   distuv.Pareto{Xm: cfg.MeanMs, Alpha: cfg.Alpha, Src: src},
			min: cfg.MinMs,
			max: cfg.MaxMs,
		}, nil

	default:
		return nil, fmt.Errorf("unknown distribution type %q", cfg.Dist)
	}
}

// Generate samples cfg.Count specs from the configured distribution.
func Generate(cfg GenConfig) ([]Spec, error) {
	if cfg.Count < 1 {
		return nil, fmt.Errorf("count must be >= 1, got %d", cfg.Count)
	}
	sampler, err := NewSampler(cfg)
	if err != nil {
		return nil, err
	}
	specs := make([]Spec, 0, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		specs = append(specs, Spec{Name: CommandName, WorkMs: sampler.Sample()})
	}
	return specs, nil
}

// Command renders specs into the command-string syntax Parse accepts, so
// generated workloads compose with the simulation command line.
func Command(specs []Spec) string {
	var sb strings.Builder
	for i, s := range specs {
		if i > 0 {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "%s %d &;", s.Name, s.WorkMs)
	}
	return sb.String()
}
