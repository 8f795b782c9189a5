// Package pricer puts the estimators behind a service that owns the random stream and
// enforces resource limits.
package pricer

import (
	"context"
	"fmt"
	"sync"

	"github.com/banachtech/bsmc/analytic"
	"github.com/banachtech/bsmc/mc"
	"github.com/golang/glog"
)

//go:generate mockgen -package mockpricer -destination mock/pricer.go github.com/banachtech/bsmc/pricer Pricer

// Pricer prices the call by simulation and in closed form.
type Pricer interface {
	Price(ctx context.Context, req PriceRequest) (mc.Result, error)
	Sensitivity(ctx context.Context, req GreekRequest) (float64, error)
	Analytic(m mc.Market) (analytic.Quote, error)
	ImpliedVol(m mc.Market, price float64) (float64, error)
}

// PriceRequest selects a pricing estimator by registry name.
type PriceRequest struct {
	Estimator string
	Market    mc.Market
	Config    mc.Config
}

// GreekRequest selects a Greek estimator by registry name.
type GreekRequest struct {
	Greek  string
	Market mc.Market
	Config mc.Config
}

// Limits caps the work of a single request. Zero fields are unlimited.
type Limits struct {
	MaxPaths   int
	MaxSteps   int
	MaxWorkers int
}

// Service is the Pricer used by the command line and the HTTP server.
type Service struct {
	mu     sync.Mutex
	root   *mc.NormalSource
	limits Limits
}

// NewService seeds the root stream with seed, or from the clock when seed is 0.
func NewService(seed uint64, limits Limits) *Service {
	root := mc.NewTimeSeededSource()
	if seed != 0 {
		root = mc.NewNormalSource(seed)
	}
	return &Service{root: root, limits: limits}
}

// stream derives an independent child stream for one request.
func (s *Service) stream() (mc.Source, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	children, err := s.root.Split(1)
	if err != nil {
		return nil, err
	}
	return children[0], nil
}

func (s *Service) bound(cfg mc.Config) mc.Config {
	if s.limits.MaxPaths > 0 && cfg.Paths > s.limits.MaxPaths {
		glog.Warningf("pricer: capping paths %d to %d", cfg.Paths, s.limits.MaxPaths)
		cfg.Paths = s.limits.MaxPaths
	}
	if s.limits.MaxSteps > 0 && cfg.Steps > s.limits.MaxSteps {
		glog.Warningf("pricer: capping steps %d to %d", cfg.Steps, s.limits.MaxSteps)
		cfg.Steps = s.limits.MaxSteps
	}
	if s.limits.MaxWorkers > 0 && cfg.Workers > s.limits.MaxWorkers {
		cfg.Workers = s.limits.MaxWorkers
	}
	return cfg
}

func (s *Service) Price(ctx context.Context, req PriceRequest) (mc.Result, error) {
	if err := ctx.Err(); err != nil {
		return mc.Result{}, err
	}
	est, err := mc.LookupEstimator(req.Estimator)
	if err != nil {
		return mc.Result{}, err
	}
	src, err := s.stream()
	if err != nil {
		return mc.Result{}, err
	}
	res, err := est.Estimate(req.Market, s.bound(req.Config), src)
	if err != nil {
		glog.Errorf("pricer: %s: %v", est.Name(), err)
		return mc.Result{}, fmt.Errorf("price: %w", err)
	}
	return res, nil
}

func (s *Service) Sensitivity(ctx context.Context, req GreekRequest) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	sens, err := mc.LookupSensitivity(req.Greek)
	if err != nil {
		return 0, err
	}
	src, err := s.stream()
	if err != nil {
		return 0, err
	}
	v, err := sens.Estimate(req.Market, s.bound(req.Config), src)
	if err != nil {
		glog.Errorf("pricer: %s: %v", sens.Name(), err)
		return 0, fmt.Errorf("%s: %w", sens.Name(), err)
	}
	return v, nil
}

func (s *Service) Analytic(m mc.Market) (analytic.Quote, error) {
	return analytic.Greeks(m)
}

func (s *Service) ImpliedVol(m mc.Market, price float64) (float64, error) {
	return analytic.ImpliedVol(m, price)
}
