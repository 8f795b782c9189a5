package mc

import (
	"fmt"
	"math"
)

// Market holds the Black-Scholes inputs of a European call.
type Market struct {
	Spot     float64 `json:"spot" yaml:"spot"`         // S0
	Strike   float64 `json:"strike" yaml:"strike"`     // K
	Rate     float64 `json:"rate" yaml:"rate"`         // r, continuously compounded
	Vol      float64 `json:"vol" yaml:"vol"`           // sigma, annualised
	Maturity float64 `json:"maturity" yaml:"maturity"` // T in years
}

// Validate checks that spot, strike, vol and maturity are strictly positive and all fields finite.
func (m Market) Validate() error {
	for _, f := range []struct {
		name     string
		v        float64
		positive bool
	}{
		{"spot", m.Spot, true},
		{"strike", m.Strike, true},
		{"rate", m.Rate, false},
		{"vol", m.Vol, true},
		{"maturity", m.Maturity, true},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return invalid(f.name, f.v, "must be finite")
		}
		if f.positive && f.v <= 0 {
			return invalid(f.name, f.v, "must be > 0")
		}
	}
	return nil
}

// Discount returns exp(-rT).
func (m Market) Discount() float64 {
	return math.Exp(-m.Rate * m.Maturity)
}

// Forward returns S0*exp(rT), the risk-neutral mean of the terminal price.
func (m Market) Forward() float64 {
	return m.Spot * math.Exp(m.Rate*m.Maturity)
}

// WithSpot returns a copy of m with the spot replaced.
func (m Market) WithSpot(s0 float64) Market {
	m.Spot = s0
	return m
}

// StdErrConvention selects the units the standard error is reported in.
type StdErrConvention int

const (
	// Undiscounted reports sd(payoff)/sqrt(M) in payoff units at maturity.
	Undiscounted StdErrConvention = iota
	// Discounted scales the undiscounted error by exp(-rT) so it matches the price.
	Discounted
)

func (c StdErrConvention) String() string {
	if c == Discounted {
		return "discounted"
	}
	return "undiscounted"
}

// ParseStdErrConvention accepts "undiscounted", "discounted" or "" for the default.
func ParseStdErrConvention(s string) (StdErrConvention, error) {
	switch s {
	case "", "undiscounted":
		return Undiscounted, nil
	case "discounted":
		return Discounted, nil
	}
	return 0, fmt.Errorf("%w: stderr convention %q", ErrInvalidParameter, s)
}

// GammaMode selects how the three bumped prices of the finite-difference gamma are sampled.
type GammaMode int

const (
	// IndependentDraws prices each bumped spot with fresh draws.
	IndependentDraws GammaMode = iota
	// CommonRandomNumbers reuses one set of draws for all three spots.
	CommonRandomNumbers
)

func (g GammaMode) String() string {
	if g == CommonRandomNumbers {
		return "crn"
	}
	return "independent"
}

// ParseGammaMode accepts "independent", "crn" or "" for the default.
func ParseGammaMode(s string) (GammaMode, error) {
	switch s {
	case "", "independent":
		return IndependentDraws, nil
	case "crn", "common":
		return CommonRandomNumbers, nil
	}
	return 0, fmt.Errorf("%w: gamma mode %q", ErrInvalidParameter, s)
}

// Config holds the sampling resolution, independent of the market.
type Config struct {
	Paths   int              // M
	Steps   int              // N
	Bump    float64          // h for finite differences, 0 selects 1% of spot
	Workers int              // goroutines used to sample shocks, 0 or 1 runs inline
	StdErr  StdErrConvention
	Gamma   GammaMode
}

// Validate checks M, N >= 1 and non-negative bump and worker count.
func (c Config) Validate() error {
	switch {
	case c.Paths < 1:
		return invalid("paths", float64(c.Paths), "must be >= 1")
	case c.Steps < 1:
		return invalid("steps", float64(c.Steps), "must be >= 1")
	case c.Bump < 0 || math.IsNaN(c.Bump) || math.IsInf(c.Bump, 0):
		return invalid("bump", c.Bump, "must be finite and >= 0")
	case c.Workers < 0:
		return invalid("workers", float64(c.Workers), "must be >= 0")
	}
	return nil
}

// BumpFor returns the finite-difference step used for market m.
func (c Config) BumpFor(m Market) float64 {
	if c.Bump > 0 {
		return c.Bump
	}
	return 0.01 * m.Spot
}

// WithPaths returns a copy of c with M replaced.
func (c Config) WithPaths(paths int) Config {
	c.Paths = paths
	return c
}

func validate(m Market, cfg Config) error {
	if err := m.Validate(); err != nil {
		return err
	}
	return cfg.Validate()
}
