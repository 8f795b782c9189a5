// Package analytic holds the closed-form Black-Scholes values used as the reference
// for the simulated estimates.
package analytic

import (
	"fmt"
	"math"

	"github.com/banachtech/bsmc/mc"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat/distuv"
)

// Quote is the closed-form price of a call together with its first Greeks.
type Quote struct {
	Price float64 `json:"price"`
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Vega  float64 `json:"vega"`
}

func d1d2(m mc.Market) (float64, float64) {
	x := m.Vol * math.Sqrt(m.Maturity)
	d1 := (math.Log(m.Spot/m.Strike) + (m.Rate+0.5*m.Vol*m.Vol)*m.Maturity) / x
	return d1, d1 - x
}

// Price returns S0 N(d1) - K exp(-rT) N(d2).
func Price(m mc.Market) (float64, error) {
	if err := m.Validate(); err != nil {
		return 0, err
	}
	d1, d2 := d1d2(m)
	N := distuv.UnitNormal
	return m.Spot*N.CDF(d1) - m.Strike*m.Discount()*N.CDF(d2), nil
}

// Delta returns N(d1).
func Delta(m mc.Market) (float64, error) {
	if err := m.Validate(); err != nil {
		return 0, err
	}
	d1, _ := d1d2(m)
	return distuv.UnitNormal.CDF(d1), nil
}

// Gamma returns n(d1) / (S0 sigma sqrt(T)).
func Gamma(m mc.Market) (float64, error) {
	if err := m.Validate(); err != nil {
		return 0, err
	}
	d1, _ := d1d2(m)
	return distuv.UnitNormal.Prob(d1) / (m.Spot * m.Vol * math.Sqrt(m.Maturity)), nil
}

// Vega returns S0 n(d1) sqrt(T), per unit of volatility.
func Vega(m mc.Market) (float64, error) {
	if err := m.Validate(); err != nil {
		return 0, err
	}
	d1, _ := d1d2(m)
	return m.Spot * distuv.UnitNormal.Prob(d1) * math.Sqrt(m.Maturity), nil
}

// Greeks evaluates price, delta, gamma and vega in one pass.
func Greeks(m mc.Market) (Quote, error) {
	if err := m.Validate(); err != nil {
		return Quote{}, err
	}
	d1, d2 := d1d2(m)
	N := distuv.UnitNormal
	sqt := math.Sqrt(m.Maturity)
	return Quote{
		Price: m.Spot*N.CDF(d1) - m.Strike*m.Discount()*N.CDF(d2),
		Delta: N.CDF(d1),
		Gamma: N.Prob(d1) / (m.Spot * m.Vol * sqt),
		Vega:  m.Spot * N.Prob(d1) * sqt,
	}, nil
}

// ImpliedVol finds the volatility at which the call is worth price. m.Vol is ignored
// except as a starting point when positive. The search runs over log sigma so the
// optimizer is unconstrained.
func ImpliedVol(m mc.Market, price float64) (float64, error) {
	if m.Vol <= 0 {
		m.Vol = 0.5
	}
	if err := m.Validate(); err != nil {
		return 0, err
	}
	lo := math.Max(m.Spot-m.Strike*m.Discount(), 0)
	if math.IsNaN(price) || price <= lo || price >= m.Spot {
		return 0, fmt.Errorf("%w: price=%v outside no-arbitrage bounds (%v, %v)", mc.ErrInvalidParameter, price, lo, m.Spot)
	}
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			trial := m
			trial.Vol = math.Exp(x[0])
			d1, d2 := d1d2(trial)
			p := trial.Spot*distuv.UnitNormal.CDF(d1) - trial.Strike*trial.Discount()*distuv.UnitNormal.CDF(d2)
			return math.Pow(price-p, 2)
		},
	}
	res, err := optimize.Minimize(problem, []float64{math.Log(m.Vol)}, nil, &optimize.NelderMead{})
	if err != nil {
		return 0, fmt.Errorf("implied vol: %w", err)
	}
	return math.Exp(res.X[0]), nil
}
