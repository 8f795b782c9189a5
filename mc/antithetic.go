package mc

import (
	"fmt"

	"github.com/banachtech/bsmc/payoff"
	"github.com/golang/glog"
)

// Antithetic pairs every shock with its negation and averages the two payoffs.
// It draws floor(M/2) shocks; for odd M the last path is dropped and Result.Paths is M-1.
type Antithetic struct{}

func (Antithetic) Name() string { return "antithetic" }

func (Antithetic) Estimate(m Market, cfg Config, src Source) (Result, error) {
	if err := validate(m, cfg); err != nil {
		return Result{}, err
	}
	half := cfg.Paths / 2
	if half < 1 {
		return Result{}, invalid("paths", float64(cfg.Paths), "antithetic needs at least one pair")
	}
	if cfg.Paths%2 == 1 {
		glog.V(1).Infof("antithetic: odd path count %d, using %d pairs", cfg.Paths, half)
	}
	g, err := NewGBM(m, cfg.Steps)
	if err != nil {
		return Result{}, err
	}
	w, err := g.Shocks(src, half, cfg.Workers)
	if err != nil {
		return Result{}, fmt.Errorf("antithetic: %w", err)
	}
	st := make([]float64, half)
	anti := make([]float64, half)
	for i, v := range w {
		st[i] = g.Terminal(v)
		anti[i] = g.Terminal(-v)
	}
	res, err := summarize(payoff.Pair(payoff.Call{Strike: m.Strike}, st, anti), m, cfg.StdErr)
	if err != nil {
		return Result{}, fmt.Errorf("antithetic: %w", err)
	}
	res.Paths = 2 * half
	glog.V(2).Infof("antithetic: pairs=%d price=%.6f stderr=%.6f", half, res.Price, res.StdErr)
	return res, nil
}
