package mc

import (
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// chunkRows bounds the number of paths whose draws are held in memory at once.
const chunkRows = 4096

// Shocks returns n per-path sums of N standard normal draws. The terminal price of a
// path depends on its draws only through this sum.
//
// With workers > 1 and a Splitter source, the n paths are cut into contiguous ranges and
// each range is filled by its own goroutine from its own child stream.
func (g *GBM) Shocks(src Source, n, workers int) ([]float64, error) {
	if n < 1 {
		return nil, invalid("paths", float64(n), "must be >= 1")
	}
	w := make([]float64, n)
	sp, ok := src.(Splitter)
	if workers <= 1 || !ok {
		return w, fillShocks(src, w, g.steps)
	}
	if workers > n {
		workers = n
	}
	children, err := sp.Split(workers)
	if err != nil {
		return nil, err
	}
	size := (n + workers - 1) / workers
	var eg errgroup.Group
	for i, child := range children {
		lo := i * size
		if lo >= n {
			break
		}
		hi := minInt(lo+size, n)
		child, part := child, w[lo:hi]
		eg.Go(func() error {
			return fillShocks(child, part, g.steps)
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return w, nil
}

// fillShocks writes row sums of successive draw tables into dst.
func fillShocks(src Source, dst []float64, steps int) error {
	ones := mat.NewVecDense(steps, nil)
	for i := 0; i < steps; i++ {
		ones.SetVec(i, 1)
	}
	for lo := 0; lo < len(dst); lo += chunkRows {
		hi := minInt(lo+chunkRows, len(dst))
		z, err := src.Draw(hi-lo, steps)
		if err != nil {
			return err
		}
		sums := mat.NewVecDense(hi-lo, dst[lo:hi])
		sums.MulVec(z, ones)
	}
	return nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
