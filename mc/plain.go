package mc

import (
	"fmt"

	"github.com/banachtech/bsmc/payoff"
	"github.com/golang/glog"
	"gonum.org/v1/gonum/stat"
)

// Plain is the crude Monte Carlo estimator: the discounted mean of M independent payoffs.
type Plain struct{}

func (Plain) Name() string { return "plain" }

func (Plain) Estimate(m Market, cfg Config, src Source) (Result, error) {
	if err := validate(m, cfg); err != nil {
		return Result{}, err
	}
	g, err := NewGBM(m, cfg.Steps)
	if err != nil {
		return Result{}, err
	}
	st, err := g.TerminalPrices(src, cfg.Paths, cfg.Workers)
	if err != nil {
		return Result{}, fmt.Errorf("plain: %w", err)
	}
	res, err := summarize(payoff.Evaluate(payoff.Call{Strike: m.Strike}, st), m, cfg.StdErr)
	if err != nil {
		return Result{}, fmt.Errorf("plain: %w", err)
	}
	glog.V(2).Infof("plain: paths=%d steps=%d price=%.6f stderr=%.6f", res.Paths, cfg.Steps, res.Price, res.StdErr)
	return res, nil
}

// discountedMean prices from already sampled shocks without an error estimate.
func discountedMean(g *GBM, p payoff.Payoff, shocks []float64, df float64) float64 {
	pay := make([]float64, len(shocks))
	for i, w := range shocks {
		pay[i] = p.Payout(g.Terminal(w))
	}
	return df * stat.Mean(pay, nil)
}
