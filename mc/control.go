package mc

import (
	"fmt"
	"math"

	"github.com/banachtech/bsmc/payoff"
	"github.com/golang/glog"
	"gonum.org/v1/gonum/stat"
)

// degenerateVar is the relative size below which the control's sample variance counts as zero.
const degenerateVar = 1e-12

// ControlVariate uses the terminal price, whose mean S0 exp(rT) is known, as a control.
// The coefficient c* = -Cov(payoff, S_T)/Var(S_T) is estimated from the same sample.
type ControlVariate struct{}

func (ControlVariate) Name() string { return "control" }

func (ControlVariate) Estimate(m Market, cfg Config, src Source) (Result, error) {
	if err := validate(m, cfg); err != nil {
		return Result{}, err
	}
	g, err := NewGBM(m, cfg.Steps)
	if err != nil {
		return Result{}, err
	}
	st, err := g.TerminalPrices(src, cfg.Paths, cfg.Workers)
	if err != nil {
		return Result{}, fmt.Errorf("control: %w", err)
	}
	pay := payoff.Evaluate(payoff.Call{Strike: m.Strike}, st)

	mean := g.Forward()
	c, err := optimalCoefficient(pay, st, mean)
	if err != nil {
		return Result{}, fmt.Errorf("control: %w", err)
	}
	adj := make([]float64, len(pay))
	for i := range pay {
		adj[i] = pay[i] + c*(st[i]-mean)
	}
	res, err := summarize(adj, m, cfg.StdErr)
	if err != nil {
		return Result{}, fmt.Errorf("control: %w", err)
	}
	glog.V(2).Infof("control: paths=%d c=%.6f price=%.6f stderr=%.6f", res.Paths, c, res.Price, res.StdErr)
	return res, nil
}

func optimalCoefficient(pay, control []float64, mean float64) (float64, error) {
	if len(control) < 2 {
		return 0, fmt.Errorf("%w: control variance needs at least 2 paths, got %d", ErrDegenerateInput, len(control))
	}
	v := stat.Variance(control, nil)
	if math.IsNaN(v) || v <= degenerateVar*mean*mean {
		return 0, fmt.Errorf("%w: control variance %g is numerically zero", ErrDegenerateInput, v)
	}
	return -stat.Covariance(pay, control, nil) / v, nil
}
