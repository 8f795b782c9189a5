package mc_test

import (
	"testing"

	"github.com/banachtech/bsmc/analytic"
	"github.com/banachtech/bsmc/mc"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

func TestDelta(t *testing.T) {
	want, err := analytic.Delta(atm)
	require.NoError(t, err)
	got, err := mc.Delta{}.Estimate(atm, mc.Config{Paths: 50000, Steps: 1}, mc.NewNormalSource(21))
	require.NoError(t, err)
	require.InDelta(t, want, got, 0.01)
}

func TestDeltaExact(t *testing.T) {
	// one path finishing in the money, one out
	got, err := mc.Delta{}.Estimate(atm, mc.Config{Paths: 2, Steps: 1}, mc.NewFixedSource(1, -1))
	require.NoError(t, err)
	g, err := mc.NewGBM(atm, 1)
	require.NoError(t, err)
	require.InDelta(t, atm.Discount()*0.5*g.Terminal(1)/100, got, 1e-12)
}

func TestGammaCommonRandomNumbers(t *testing.T) {
	want, err := analytic.Gamma(atm)
	require.NoError(t, err)
	cfg := mc.Config{Paths: 200000, Steps: 1, Bump: 1, Gamma: mc.CommonRandomNumbers, Workers: 4}
	got, err := mc.Gamma{}.Estimate(atm, cfg, mc.NewNormalSource(31))
	require.NoError(t, err)
	require.InDelta(t, want, got, 0.0015)
}

func gammaTrials(t *testing.T, cfg mc.Config, trials int, seed uint64) float64 {
	vals := make([]float64, trials)
	for i := range vals {
		g, err := mc.Gamma{}.Estimate(atm, cfg, mc.NewNormalSource(seed+uint64(i)))
		require.NoError(t, err)
		vals[i] = g
	}
	return stat.Variance(vals, nil)
}

func TestGammaModes(t *testing.T) {
	cfg := mc.Config{Paths: 2000, Steps: 1, Bump: 1}
	indep := gammaTrials(t, cfg, 20, 100)
	cfg.Gamma = mc.CommonRandomNumbers
	crn := gammaTrials(t, cfg, 20, 200)
	require.Less(t, crn, indep)
}

func TestGammaNoiseGrowsAsBumpShrinks(t *testing.T) {
	cfg := mc.Config{Paths: 2000, Steps: 1}
	cfg.Bump = 10
	wide := gammaTrials(t, cfg, 20, 300)
	cfg.Bump = 2
	narrow := gammaTrials(t, cfg, 20, 400)
	require.Greater(t, narrow, wide)
}

func TestGammaDrawOrder(t *testing.T) {
	// independent mode consumes three blocks of M draws, common mode one
	src := mc.NewFixedSource(0.1, -0.2, 0.3, -0.4, 0.5, -0.6)
	_, err := mc.Gamma{}.Estimate(atm, mc.Config{Paths: 2, Steps: 1}, src)
	require.NoError(t, err)
	require.Equal(t, 0, src.Remaining())

	src = mc.NewFixedSource(0.1, -0.2, 0.3)
	_, err = mc.Gamma{}.Estimate(atm, mc.Config{Paths: 2, Steps: 1, Gamma: mc.CommonRandomNumbers}, src)
	require.NoError(t, err)
	require.Equal(t, 1, src.Remaining())
}

func TestGammaBumpTooLarge(t *testing.T) {
	_, err := mc.Gamma{}.Estimate(atm, mc.Config{Paths: 10, Steps: 1, Bump: 100}, mc.NewNormalSource(1))
	require.ErrorIs(t, err, mc.ErrInvalidParameter)
}
