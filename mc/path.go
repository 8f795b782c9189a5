package mc

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// GBM simulates geometric Brownian motion under the risk-neutral measure.
// Each step applies the exact lognormal transition
//
//	log S(t+dt) - log S(t) = (r - sigma^2/2) dt + sigma sqrt(dt) Z
//
// so the step count only sets path granularity; the terminal law is the same for every N.
type GBM struct {
	spot      float64
	forward   float64
	steps     int
	dt        float64
	drift     float64 // (r - sigma^2/2) dt
	diffusion float64 // sigma sqrt(dt)
}

// NewGBM partitions [0, T] into steps equal intervals.
func NewGBM(m Market, steps int) (*GBM, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if steps < 1 {
		return nil, invalid("steps", float64(steps), "must be >= 1")
	}
	dt := m.Maturity / float64(steps)
	return &GBM{
		spot:      m.Spot,
		forward:   m.Forward(),
		steps:     steps,
		dt:        dt,
		drift:     (m.Rate - 0.5*m.Vol*m.Vol) * dt,
		diffusion: m.Vol * math.Sqrt(dt),
	}, nil
}

func (g *GBM) Steps() int { return g.steps }

func (g *GBM) Dt() float64 { return g.dt }

// Forward is E[S_T] = S0 exp(rT).
func (g *GBM) Forward() float64 { return g.forward }

// Path converts one row of N draws into the asset levels at t_1..t_N.
func (g *GBM) Path(z []float64) []float64 {
	x := make([]float64, len(z))
	for i, v := range z {
		x[i] = g.drift + g.diffusion*v
	}
	floats.CumSum(x, x)
	for i, v := range x {
		x[i] = g.spot * math.Exp(v)
	}
	return x
}

// Paths converts a paths x N table of draws into a table of asset levels.
// The last column holds the terminal prices.
func (g *GBM) Paths(z mat.Matrix) *mat.Dense {
	r, c := z.Dims()
	if c != g.steps {
		panic(mat.ErrShape)
	}
	out := mat.NewDense(r, c, nil)
	out.Apply(func(_, _ int, v float64) float64 {
		return g.drift + g.diffusion*v
	}, z)
	for i := 0; i < r; i++ {
		row := out.RawRowView(i)
		floats.CumSum(row, row)
		for j, v := range row {
			row[j] = g.spot * math.Exp(v)
		}
	}
	return out
}

// Simulate draws a fresh path table from src.
func (g *GBM) Simulate(src Source, paths int) (*mat.Dense, error) {
	z, err := src.Draw(paths, g.steps)
	if err != nil {
		return nil, err
	}
	return g.Paths(z), nil
}

// Terminal maps the sum of a path's draws to its terminal price.
func (g *GBM) Terminal(shock float64) float64 {
	return g.spot * math.Exp(float64(g.steps)*g.drift+g.diffusion*shock)
}

// TerminalPrices samples n terminal prices.
func (g *GBM) TerminalPrices(src Source, n, workers int) ([]float64, error) {
	st, err := g.Shocks(src, n, workers)
	if err != nil {
		return nil, err
	}
	for i, w := range st {
		st[i] = g.Terminal(w)
	}
	return st, nil
}
