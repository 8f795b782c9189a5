package mc_test

import (
	"math"
	"testing"

	"github.com/banachtech/bsmc/mc"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

func TestNewGBM(t *testing.T) {
	g, err := mc.NewGBM(atm, 4)
	require.NoError(t, err)
	require.Equal(t, 4, g.Steps())
	require.InDelta(t, 0.25, g.Dt(), 1e-15)
	require.InDelta(t, atm.Forward(), g.Forward(), 1e-12)

	_, err = mc.NewGBM(atm, 0)
	require.ErrorIs(t, err, mc.ErrInvalidParameter)
	_, err = mc.NewGBM(mc.Market{Spot: 100, Strike: 100, Vol: 0, Maturity: 1}, 1)
	require.ErrorIs(t, err, mc.ErrInvalidParameter)
}

func TestZeroDrawPath(t *testing.T) {
	steps := 5
	g, err := mc.NewGBM(atm, steps)
	require.NoError(t, err)
	drift := (atm.Rate - 0.5*atm.Vol*atm.Vol) * atm.Maturity / float64(steps)

	path := g.Path(make([]float64, steps))
	require.Len(t, path, steps)
	for k, s := range path {
		require.InDelta(t, atm.Spot*math.Exp(float64(k+1)*drift), s, 1e-10)
	}
	require.InDelta(t, 100*math.Exp(0.03), g.Terminal(0), 1e-10)
}

func TestPathsAgreeWithTerminal(t *testing.T) {
	steps := 3
	g, err := mc.NewGBM(atm, steps)
	require.NoError(t, err)
	draws := []float64{0.1, -0.4, 1.2, -2, 0.3, 0.05}
	table, err := g.Simulate(mc.NewFixedSource(draws...), 2)
	require.NoError(t, err)
	r, c := table.Dims()
	require.Equal(t, 2, r)
	require.Equal(t, steps, c)

	for i := 0; i < r; i++ {
		z := draws[i*steps : (i+1)*steps]
		require.True(t, floats.EqualApprox(g.Path(z), table.RawRowView(i), 1e-10))
		require.InDelta(t, g.Terminal(floats.Sum(z)), table.At(i, steps-1), 1e-10)
	}

	require.Panics(t, func() { g.Paths(mat.NewDense(1, steps+1, nil)) })
}

func TestShocks(t *testing.T) {
	g, err := mc.NewGBM(atm, 2)
	require.NoError(t, err)

	w, err := g.Shocks(mc.NewFixedSource(1, 2, 3, 4, 5, 6), 3, 1)
	require.NoError(t, err)
	require.Equal(t, []float64{3, 7, 11}, w)

	_, err = g.Shocks(mc.NewFixedSource(1, 2, 3), 2, 1)
	require.ErrorIs(t, err, mc.ErrRandomSource)

	_, err = g.Shocks(mc.NewNormalSource(1), 0, 1)
	require.ErrorIs(t, err, mc.ErrInvalidParameter)
}

func TestShocksParallel(t *testing.T) {
	g, err := mc.NewGBM(atm, 4)
	require.NoError(t, err)

	a, err := g.Shocks(mc.NewNormalSource(5), 10001, 4)
	require.NoError(t, err)
	b, err := g.Shocks(mc.NewNormalSource(5), 10001, 4)
	require.NoError(t, err)
	require.Len(t, a, 10001)
	require.Equal(t, a, b)

	// each sum of 4 unit normals has variance 4
	mean, sd := stat.MeanStdDev(a, nil)
	require.InDelta(t, 0, mean, 0.1)
	require.InDelta(t, 2, sd, 0.1)

	// more workers than paths
	c, err := g.Shocks(mc.NewNormalSource(5), 3, 8)
	require.NoError(t, err)
	require.Len(t, c, 3)
	for _, v := range c {
		require.NotZero(t, v)
	}
}

func TestTerminalMeanIndependentOfSteps(t *testing.T) {
	n := 100000
	for _, steps := range []int{1, 50} {
		g, err := mc.NewGBM(atm, steps)
		require.NoError(t, err)
		st, err := g.TerminalPrices(mc.NewNormalSource(uint64(steps)), n, 2)
		require.NoError(t, err)
		require.InDelta(t, atm.Forward(), stat.Mean(st, nil), 0.3)
		for _, s := range st {
			require.Greater(t, s, 0.0)
		}
	}
}
