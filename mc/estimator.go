// Package mc prices a European call under Black-Scholes by Monte Carlo simulation and
// estimates its delta and gamma.
package mc

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Result is a price estimate with its sampling error.
type Result struct {
	Price  float64 `json:"price"`
	StdErr float64 `json:"stderr"` // NaN when a single path was used
	Paths  int     `json:"paths"`  // simulated paths that entered the estimate
}

// Estimator prices the call by simulation. Implementations draw only from src.
type Estimator interface {
	Name() string
	Estimate(m Market, cfg Config, src Source) (Result, error)
}

// Sensitivity estimates one Greek of the call by simulation.
type Sensitivity interface {
	Name() string
	Estimate(m Market, cfg Config, src Source) (float64, error)
}

var (
	estimators = map[string]Estimator{
		"plain":      Plain{},
		"antithetic": Antithetic{},
		"control":    ControlVariate{},
	}
	sensitivities = map[string]Sensitivity{
		"delta": Delta{},
		"gamma": Gamma{},
	}
)

// LookupEstimator returns the registered pricing estimator called name.
func LookupEstimator(name string) (Estimator, error) {
	e, ok := estimators[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrUnknownEstimator, name, EstimatorNames())
	}
	return e, nil
}

// LookupSensitivity returns the registered Greek estimator called name.
func LookupSensitivity(name string) (Sensitivity, error) {
	s, ok := sensitivities[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrUnknownEstimator, name, SensitivityNames())
	}
	return s, nil
}

func EstimatorNames() []string {
	return sortedKeys(estimators)
}

func SensitivityNames() []string {
	return sortedKeys(sensitivities)
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// summarize discounts the mean of x and reports sd(x)/sqrt(n) in the requested units.
// A single sample has no spread estimate and yields a NaN error; more than one sample
// with zero spread is rejected.
func summarize(x []float64, m Market, conv StdErrConvention) (Result, error) {
	n := len(x)
	if n == 0 {
		return Result{}, fmt.Errorf("%w: empty payoff sample", ErrDegenerateInput)
	}
	df := m.Discount()
	if n == 1 {
		return Result{Price: df * x[0], StdErr: math.NaN(), Paths: 1}, nil
	}
	mean, sd := stat.MeanStdDev(x, nil)
	if !(sd > 0) {
		return Result{}, fmt.Errorf("%w: zero sample variance over %d payoffs", ErrDegenerateInput, n)
	}
	se := sd / math.Sqrt(float64(n))
	if conv == Discounted {
		se *= df
	}
	return Result{Price: df * mean, StdErr: se, Paths: n}, nil
}
