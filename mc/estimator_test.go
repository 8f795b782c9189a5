package mc_test

import (
	"math"
	"testing"

	"github.com/banachtech/bsmc/analytic"
	"github.com/banachtech/bsmc/mc"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

const bsPrice = 10.450583572185565

func TestRegistry(t *testing.T) {
	require.Equal(t, []string{"antithetic", "control", "plain"}, mc.EstimatorNames())
	require.Equal(t, []string{"delta", "gamma"}, mc.SensitivityNames())

	for _, name := range mc.EstimatorNames() {
		e, err := mc.LookupEstimator(name)
		require.NoError(t, err)
		require.Equal(t, name, e.Name())
	}
	for _, name := range mc.SensitivityNames() {
		s, err := mc.LookupSensitivity(name)
		require.NoError(t, err)
		require.Equal(t, name, s.Name())
	}

	_, err := mc.LookupEstimator("quasi")
	require.ErrorIs(t, err, mc.ErrUnknownEstimator)
	_, err = mc.LookupSensitivity("vega")
	require.ErrorIs(t, err, mc.ErrUnknownEstimator)
}

func TestEstimatorsConverge(t *testing.T) {
	cfg := mc.Config{Paths: 50000, Steps: 1}
	plain, err := mc.Plain{}.Estimate(atm, cfg, mc.NewNormalSource(42))
	require.NoError(t, err)
	require.Equal(t, 50000, plain.Paths)
	require.Greater(t, plain.StdErr, 0.05)
	require.Less(t, plain.StdErr, 0.075)
	require.InDelta(t, bsPrice, plain.Price, 4*plain.StdErr)

	anti, err := mc.Antithetic{}.Estimate(atm, cfg, mc.NewNormalSource(43))
	require.NoError(t, err)
	require.Equal(t, 50000, anti.Paths)
	require.InDelta(t, bsPrice, anti.Price, 4*anti.StdErr)
	require.Less(t, anti.StdErr, plain.StdErr)

	cv, err := mc.ControlVariate{}.Estimate(atm, cfg, mc.NewNormalSource(44))
	require.NoError(t, err)
	require.Equal(t, 50000, cv.Paths)
	require.InDelta(t, bsPrice, cv.Price, 4*cv.StdErr)
	require.Less(t, cv.StdErr, plain.StdErr)
}

func TestPlainLargeSample(t *testing.T) {
	res, err := mc.Plain{}.Estimate(atm, mc.Config{Paths: 200000, Steps: 1, Workers: 4}, mc.NewNormalSource(7))
	require.NoError(t, err)
	require.InDelta(t, bsPrice, res.Price, 0.15)
}

func TestStepCountKeepsTerminalLaw(t *testing.T) {
	res, err := mc.Plain{}.Estimate(atm, mc.Config{Paths: 20000, Steps: 100, Workers: 4}, mc.NewNormalSource(9))
	require.NoError(t, err)
	require.InDelta(t, bsPrice, res.Price, 4*res.StdErr)
}

func TestPricesAgainstAnalytic(t *testing.T) {
	testCases := []struct {
		name   string
		market mc.Market
	}{
		{name: "ITM", market: mc.Market{Spot: 120, Strike: 100, Rate: 0.03, Vol: 0.25, Maturity: 0.5}},
		{name: "OTM", market: mc.Market{Spot: 90, Strike: 110, Rate: 0.01, Vol: 0.3, Maturity: 2}},
		{name: "NEGATIVE_RATE", market: mc.Market{Spot: 100, Strike: 95, Rate: -0.01, Vol: 0.15, Maturity: 1}},
	}
	for i, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			want, err := analytic.Price(tc.market)
			require.NoError(t, err)
			cfg := mc.Config{Paths: 40000, Steps: 1, StdErr: mc.Discounted}
			for j, e := range []mc.Estimator{mc.Plain{}, mc.Antithetic{}, mc.ControlVariate{}} {
				res, err := e.Estimate(tc.market, cfg, mc.NewNormalSource(uint64(100*i+j)))
				require.NoError(t, err)
				require.InDelta(t, want, res.Price, 4.5*res.StdErr, e.Name())
			}
		})
	}
}

func trialVariance(t *testing.T, e mc.Estimator, cfg mc.Config, trials int, seed uint64) float64 {
	prices := make([]float64, trials)
	for i := range prices {
		res, err := e.Estimate(atm, cfg, mc.NewNormalSource(seed+uint64(i)))
		require.NoError(t, err)
		prices[i] = res.Price
	}
	return stat.Variance(prices, nil)
}

func TestAntitheticReducesTrialVariance(t *testing.T) {
	cfg := mc.Config{Paths: 1000, Steps: 1}
	plain := trialVariance(t, mc.Plain{}, cfg, 200, 1000)
	anti := trialVariance(t, mc.Antithetic{}, cfg, 200, 5000)
	require.Less(t, anti, plain)
}

func TestInvalidInputs(t *testing.T) {
	cfg := mc.Config{Paths: 100, Steps: 1}
	testCases := []struct {
		name   string
		market mc.Market
		cfg    mc.Config
	}{
		{name: "ZERO_VOL", market: mc.Market{Spot: 100, Strike: 100, Rate: 0.05, Vol: 0, Maturity: 1}, cfg: cfg},
		{name: "ZERO_STRIKE", market: mc.Market{Spot: 100, Strike: 0, Rate: 0.05, Vol: 0.2, Maturity: 1}, cfg: cfg},
		{name: "ZERO_PATHS", market: atm, cfg: mc.Config{Paths: 0, Steps: 1}},
		{name: "ZERO_STEPS", market: atm, cfg: mc.Config{Paths: 10, Steps: 0}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for _, e := range []mc.Estimator{mc.Plain{}, mc.Antithetic{}, mc.ControlVariate{}} {
				_, err := e.Estimate(tc.market, tc.cfg, mc.NewNormalSource(1))
				require.ErrorIs(t, err, mc.ErrInvalidParameter, e.Name())
			}
			for _, s := range []mc.Sensitivity{mc.Delta{}, mc.Gamma{}} {
				_, err := s.Estimate(tc.market, tc.cfg, mc.NewNormalSource(1))
				require.ErrorIs(t, err, mc.ErrInvalidParameter, s.Name())
			}
		})
	}
}

func TestPlainSinglePath(t *testing.T) {
	res, err := mc.Plain{}.Estimate(atm, mc.Config{Paths: 1, Steps: 1}, mc.NewFixedSource(0.5))
	require.NoError(t, err)
	require.Equal(t, 1, res.Paths)
	require.True(t, math.IsNaN(res.StdErr))
	st := 100 * math.Exp(0.03+0.2*0.5)
	require.InDelta(t, math.Exp(-0.05)*(st-100), res.Price, 1e-10)
}

func TestStdErrConvention(t *testing.T) {
	cfg := mc.Config{Paths: 500, Steps: 1}
	u, err := mc.Plain{}.Estimate(atm, cfg, mc.NewNormalSource(3))
	require.NoError(t, err)
	cfg.StdErr = mc.Discounted
	d, err := mc.Plain{}.Estimate(atm, cfg, mc.NewNormalSource(3))
	require.NoError(t, err)
	require.Equal(t, u.Price, d.Price)
	require.InDelta(t, u.StdErr*atm.Discount(), d.StdErr, 1e-12)
}

func TestAntitheticOddPaths(t *testing.T) {
	src := mc.NewFixedSource(0.5, -1)
	res, err := mc.Antithetic{}.Estimate(atm, mc.Config{Paths: 5, Steps: 1}, src)
	require.NoError(t, err)
	require.Equal(t, 4, res.Paths)
	require.Equal(t, 0, src.Remaining())

	call := func(z float64) float64 {
		return math.Max(100*math.Exp(0.03+0.2*z)-100, 0)
	}
	pairs := []float64{
		0.5 * (call(0.5) + call(-0.5)),
		0.5 * (call(-1) + call(1)),
	}
	require.InDelta(t, math.Exp(-0.05)*stat.Mean(pairs, nil), res.Price, 1e-10)

	_, err = mc.Antithetic{}.Estimate(atm, mc.Config{Paths: 1, Steps: 1}, mc.NewNormalSource(1))
	require.ErrorIs(t, err, mc.ErrInvalidParameter)
}

func TestDegenerateSamples(t *testing.T) {
	cfg := mc.Config{Paths: 10, Steps: 1}

	_, err := mc.ControlVariate{}.Estimate(atm, cfg, mc.Zeros(10))
	require.ErrorIs(t, err, mc.ErrDegenerateInput)

	_, err = mc.ControlVariate{}.Estimate(atm, mc.Config{Paths: 1, Steps: 1}, mc.NewFixedSource(0.3))
	require.ErrorIs(t, err, mc.ErrDegenerateInput)

	_, err = mc.Plain{}.Estimate(atm, cfg, mc.Zeros(10))
	require.ErrorIs(t, err, mc.ErrDegenerateInput)
}

func TestSourceFailurePropagates(t *testing.T) {
	cfg := mc.Config{Paths: 5, Steps: 1}
	for _, e := range []mc.Estimator{mc.Plain{}, mc.Antithetic{}, mc.ControlVariate{}} {
		_, err := e.Estimate(atm, cfg, mc.NewFixedSource(1))
		require.ErrorIs(t, err, mc.ErrRandomSource, e.Name())
	}
	_, err := mc.Plain{}.Estimate(atm, cfg, mc.NewFixedSource(1, 2, math.NaN(), 4, 5))
	require.ErrorIs(t, err, mc.ErrRandomSource)
}

func TestSeededRunsRepeat(t *testing.T) {
	cfg := mc.Config{Paths: 3000, Steps: 10, Workers: 3}
	for _, e := range []mc.Estimator{mc.Plain{}, mc.Antithetic{}, mc.ControlVariate{}} {
		a, err := e.Estimate(atm, cfg, mc.NewNormalSource(77))
		require.NoError(t, err)
		b, err := e.Estimate(atm, cfg, mc.NewNormalSource(77))
		require.NoError(t, err)
		require.Equal(t, a, b, e.Name())
	}
}
