package payoff

import (
	"fmt"
	"math"
)

// Payoff maps a terminal asset price to the option's cash value at maturity.
type Payoff interface {
	Payout(st float64) float64
}

// Pathwise is a payoff that is differentiable almost everywhere in the terminal price.
// Slope returns d(payout)/d(st).
type Pathwise interface {
	Payoff
	Slope(st float64) float64
}

// Call is a European call struck at Strike.
type Call struct {
	Strike float64
}

func NewCall(k float64) (Call, error) {
	if !(k > 0) || math.IsInf(k, 0) {
		return Call{}, fmt.Errorf("strike must be finite and > 0, got %v", k)
	}
	return Call{Strike: k}, nil
}

// Payout returns max(st - K, 0).
func (c Call) Payout(st float64) float64 {
	return math.Max(st-c.Strike, 0)
}

// Slope returns 1 in the money and 0 otherwise. The kink at st == K has measure zero.
func (c Call) Slope(st float64) float64 {
	if st > c.Strike {
		return 1
	}
	return 0
}

// Evaluate applies p to every terminal price.
func Evaluate(p Payoff, st []float64) []float64 {
	out := make([]float64, len(st))
	for i, s := range st {
		out[i] = p.Payout(s)
	}
	return out
}

// Pair averages the payouts of antithetic terminal prices element by element.
func Pair(p Payoff, st, anti []float64) []float64 {
	if len(st) != len(anti) {
		panic("payoff: antithetic slices differ in length")
	}
	out := make([]float64, len(st))
	for i := range st {
		out[i] = 0.5 * (p.Payout(st[i]) + p.Payout(anti[i]))
	}
	return out
}
