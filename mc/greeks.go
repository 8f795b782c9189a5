package mc

import (
	"fmt"

	"github.com/banachtech/bsmc/payoff"
	"github.com/golang/glog"
	"gonum.org/v1/gonum/stat"
)

// Delta is the pathwise estimator of dPrice/dS0:
// exp(-rT) * mean(1{S_T > K} * S_T / S0).
type Delta struct{}

func (Delta) Name() string { return "delta" }

func (Delta) Estimate(m Market, cfg Config, src Source) (float64, error) {
	if err := validate(m, cfg); err != nil {
		return 0, err
	}
	g, err := NewGBM(m, cfg.Steps)
	if err != nil {
		return 0, err
	}
	st, err := g.TerminalPrices(src, cfg.Paths, cfg.Workers)
	if err != nil {
		return 0, fmt.Errorf("delta: %w", err)
	}
	var p payoff.Pathwise = payoff.Call{Strike: m.Strike}
	grad := make([]float64, len(st))
	for i, s := range st {
		grad[i] = p.Slope(s) * s / m.Spot
	}
	delta := m.Discount() * stat.Mean(grad, nil)
	glog.V(2).Infof("delta: paths=%d value=%.6f", len(st), delta)
	return delta, nil
}

// Gamma is the central second difference of the plain price in S0:
// (P(S0+h) - 2 P(S0) + P(S0-h)) / h^2.
//
// Config.Gamma selects whether the three prices use independent draws or one common
// set of draws. Config.Bump sets h, defaulting to 1% of spot.
type Gamma struct{}

func (Gamma) Name() string { return "gamma" }

func (Gamma) Estimate(m Market, cfg Config, src Source) (float64, error) {
	if err := validate(m, cfg); err != nil {
		return 0, err
	}
	h := cfg.BumpFor(m)
	if h >= m.Spot {
		return 0, invalid("bump", h, "must be below spot")
	}
	var (
		up, mid, down float64
		err           error
	)
	switch cfg.Gamma {
	case CommonRandomNumbers:
		up, mid, down, err = bumpedCommon(m, cfg, h, src)
	default:
		up, mid, down, err = bumpedIndependent(m, cfg, h, src)
	}
	if err != nil {
		return 0, fmt.Errorf("gamma: %w", err)
	}
	gamma := (up - 2*mid + down) / (h * h)
	glog.V(2).Infof("gamma: mode=%v h=%g up=%.6f mid=%.6f down=%.6f value=%.6f", cfg.Gamma, h, up, mid, down, gamma)
	return gamma, nil
}

// bumpedIndependent prices S0+h, S0-h and S0 in that order, each from fresh draws.
func bumpedIndependent(m Market, cfg Config, h float64, src Source) (up, mid, down float64, err error) {
	price := func(s0 float64) (float64, error) {
		g, err := NewGBM(m.WithSpot(s0), cfg.Steps)
		if err != nil {
			return 0, err
		}
		w, err := g.Shocks(src, cfg.Paths, cfg.Workers)
		if err != nil {
			return 0, err
		}
		return discountedMean(g, payoff.Call{Strike: m.Strike}, w, m.Discount()), nil
	}
	if up, err = price(m.Spot + h); err != nil {
		return
	}
	if down, err = price(m.Spot - h); err != nil {
		return
	}
	mid, err = price(m.Spot)
	return
}

// bumpedCommon prices the three spots from one set of shocks.
func bumpedCommon(m Market, cfg Config, h float64, src Source) (up, mid, down float64, err error) {
	g, err := NewGBM(m, cfg.Steps)
	if err != nil {
		return
	}
	w, err := g.Shocks(src, cfg.Paths, cfg.Workers)
	if err != nil {
		return
	}
	call := payoff.Call{Strike: m.Strike}
	df := m.Discount()
	out := make([]float64, 3)
	for i, s0 := range []float64{m.Spot + h, m.Spot, m.Spot - h} {
		gs, e := NewGBM(m.WithSpot(s0), cfg.Steps)
		if e != nil {
			return 0, 0, 0, e
		}
		out[i] = discountedMean(gs, call, w, df)
	}
	return out[0], out[1], out[2], nil
}
