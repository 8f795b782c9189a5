package mc

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// Source supplies tables of independent standard normal variates.
// A Source is owned by one goroutine at a time.
type Source interface {
	// Draw returns a rows x cols table of fresh N(0,1) values.
	Draw(rows, cols int) (*mat.Dense, error)
}

// Splitter is implemented by sources that can derive independent child streams,
// one per worker.
type Splitter interface {
	Split(n int) ([]Source, error)
}

// NormalSource draws standard normals from a PCG stream.
type NormalSource struct {
	rng *rand.Rand
}

// NewNormalSource creates a source seeded with seed.
func NewNormalSource(seed uint64) *NormalSource {
	return &NormalSource{rng: rand.New(rand.NewSource(seed))}
}

// NewTimeSeededSource creates a source seeded from the wall clock.
func NewTimeSeededSource() *NormalSource {
	return NewNormalSource(uint64(time.Now().UnixNano()))
}

func (s *NormalSource) Draw(rows, cols int) (*mat.Dense, error) {
	if err := checkShape(rows, cols); err != nil {
		return nil, err
	}
	if s == nil || s.rng == nil {
		return nil, fmt.Errorf("%w: normal source has no generator", ErrRandomSource)
	}
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = s.rng.NormFloat64()
	}
	return mat.NewDense(rows, cols, data), nil
}

// Split seeds n child sources from the parent stream. The parent advances by n values.
func (s *NormalSource) Split(n int) ([]Source, error) {
	if n < 1 {
		return nil, invalid("workers", float64(n), "must be >= 1")
	}
	if s == nil || s.rng == nil {
		return nil, fmt.Errorf("%w: normal source has no generator", ErrRandomSource)
	}
	out := make([]Source, n)
	for i := range out {
		out[i] = NewNormalSource(s.rng.Uint64())
	}
	return out, nil
}

// FixedSource replays a fixed sequence of draws in row-major order.
// It fails with ErrRandomSource once the sequence is used up.
type FixedSource struct {
	values []float64
	next   int
}

// NewFixedSource returns a source that yields values in order.
func NewFixedSource(values ...float64) *FixedSource {
	v := make([]float64, len(values))
	copy(v, values)
	return &FixedSource{values: v}
}

// Zeros returns a source of n zero draws.
func Zeros(n int) *FixedSource {
	return &FixedSource{values: make([]float64, n)}
}

func (s *FixedSource) Draw(rows, cols int) (*mat.Dense, error) {
	if err := checkShape(rows, cols); err != nil {
		return nil, err
	}
	n := rows * cols
	if s.next+n > len(s.values) {
		return nil, fmt.Errorf("%w: fixed source exhausted after %d of %d draws", ErrRandomSource, s.next, len(s.values))
	}
	data := make([]float64, n)
	copy(data, s.values[s.next:s.next+n])
	s.next += n
	for _, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: non-finite draw %v", ErrRandomSource, v)
		}
	}
	return mat.NewDense(rows, cols, data), nil
}

// Remaining returns the number of unused draws.
func (s *FixedSource) Remaining() int {
	return len(s.values) - s.next
}

func checkShape(rows, cols int) error {
	if rows < 1 {
		return invalid("rows", float64(rows), "must be >= 1")
	}
	if cols < 1 {
		return invalid("cols", float64(cols), "must be >= 1")
	}
	return nil
}
