// Package convergence sweeps an estimator over growing path counts and compares it with
// the closed-form price.
package convergence

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/banachtech/bsmc/analytic"
	"github.com/banachtech/bsmc/mc"
	"github.com/golang/glog"
	"github.com/schollz/progressbar/v3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Point is one row of a convergence sweep.
type Point struct {
	Paths     int     `json:"paths"`
	Price     float64 `json:"price"`
	StdErr    float64 `json:"stderr"`
	Analytic  float64 `json:"analytic"`
	AbsError  float64 `json:"abs_error"`
	Within3SE bool    `json:"within_3se"`
}

type options struct {
	progress io.Writer
}

// Option configures Run.
type Option func(*options)

// WithProgress renders a progress bar on w while the sweep runs.
func WithProgress(w io.Writer) Option {
	return func(o *options) { o.progress = w }
}

// Sizes returns up to n log-spaced path counts from min to max, rounded and deduplicated.
func Sizes(min, max, n int) ([]int, error) {
	switch {
	case min < 1:
		return nil, fmt.Errorf("%w: sweep min=%d must be >= 1", mc.ErrInvalidParameter, min)
	case max < min:
		return nil, fmt.Errorf("%w: sweep max=%d below min=%d", mc.ErrInvalidParameter, max, min)
	case n < 1:
		return nil, fmt.Errorf("%w: sweep points=%d must be >= 1", mc.ErrInvalidParameter, n)
	}
	if n == 1 || min == max {
		return []int{max}, nil
	}
	grid := floats.LogSpan(make([]float64, n), float64(min), float64(max))
	out := make([]int, 0, n)
	for _, v := range grid {
		k := int(math.Round(v))
		if len(out) > 0 && k <= out[len(out)-1] {
			continue
		}
		out = append(out, k)
	}
	return out, nil
}

// Run prices m with est once per size, drawing successively from src.
func Run(est mc.Estimator, m mc.Market, cfg mc.Config, src mc.Source, sizes []int, opts ...Option) ([]Point, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	want, err := analytic.Price(m)
	if err != nil {
		return nil, err
	}
	var bar *progressbar.ProgressBar
	if o.progress != nil {
		bar = progressBar(len(sizes), o.progress)
	}
	pts := make([]Point, 0, len(sizes))
	for _, n := range sizes {
		res, err := est.Estimate(m, cfg.WithPaths(n), src)
		if err != nil {
			return nil, fmt.Errorf("%s at %d paths: %w", est.Name(), n, err)
		}
		diff := math.Abs(res.Price - want)
		pts = append(pts, Point{
			Paths:     res.Paths,
			Price:     res.Price,
			StdErr:    res.StdErr,
			Analytic:  want,
			AbsError:  diff,
			Within3SE: diff <= 3*res.StdErr,
		})
		if bar != nil {
			bar.Describe(fmt.Sprintf("%s M=%d", est.Name(), n))
			bar.Add(1)
		}
	}
	if bar != nil {
		bar.Finish()
	}
	glog.V(1).Infof("convergence: %s over %d sizes", est.Name(), len(sizes))
	return pts, nil
}

// Trials repeats est n times, each on its own child stream of src, and returns the mean
// and sample standard deviation of the prices.
func Trials(est mc.Estimator, m mc.Market, cfg mc.Config, src mc.Splitter, n int) (mean, sd float64, err error) {
	return trials(n, src, func(s mc.Source) (float64, error) {
		res, err := est.Estimate(m, cfg, s)
		return res.Price, err
	})
}

// TrialsSensitivity is Trials for a Greek estimator.
func TrialsSensitivity(sens mc.Sensitivity, m mc.Market, cfg mc.Config, src mc.Splitter, n int) (mean, sd float64, err error) {
	return trials(n, src, func(s mc.Source) (float64, error) {
		return sens.Estimate(m, cfg, s)
	})
}

func trials(n int, src mc.Splitter, run func(mc.Source) (float64, error)) (float64, float64, error) {
	if n < 2 {
		return 0, 0, fmt.Errorf("%w: trials=%d must be >= 2", mc.ErrInvalidParameter, n)
	}
	streams, err := src.Split(n)
	if err != nil {
		return 0, 0, err
	}
	vals := make([]float64, n)
	for i, s := range streams {
		if vals[i], err = run(s); err != nil {
			return 0, 0, fmt.Errorf("trial %d: %w", i, err)
		}
	}
	mean, sd := stat.MeanStdDev(vals, nil)
	return mean, sd, nil
}

// WriteCSV writes pts with a header row.
func WriteCSV(w io.Writer, pts []Point) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"paths", "price", "stderr", "analytic", "abs_error", "within_3se"}); err != nil {
		return err
	}
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for _, p := range pts {
		rec := []string{strconv.Itoa(p.Paths), f(p.Price), f(p.StdErr), f(p.Analytic), f(p.AbsError), strconv.FormatBool(p.Within3SE)}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// progress bar initialization
func progressBar(length int, w io.Writer) *progressbar.ProgressBar {
	bar := progressbar.NewOptions(
		length,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(20),
		progressbar.OptionShowDescriptionAtLineEnd(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
	return bar
}
