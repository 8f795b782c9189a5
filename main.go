package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/banachtech/bsmc/api"
	"github.com/banachtech/bsmc/config"
	"github.com/banachtech/bsmc/convergence"
	"github.com/banachtech/bsmc/mc"
	"github.com/banachtech/bsmc/pricer"
	"github.com/banachtech/bsmc/util"
	"github.com/golang/glog"
	"golang.org/x/crypto/bcrypt"
)

var (
	configPath = flag.String("config", "", "path to a YAML config file")
	estimator  = flag.String("estimator", "", "price with one estimator (plain, antithetic, control); all when empty")
	paths      = flag.Int("paths", 0, "number of simulated paths M")
	steps      = flag.Int("steps", 0, "time steps per path N")
	seed       = flag.Uint64("seed", 0, "seed of the random stream, 0 seeds from the clock")
	workers    = flag.Int("workers", 0, "goroutines used for sampling")
	converge   = flag.Bool("converge", false, "print a convergence sweep")
	serve      = flag.Bool("serve", false, "serve the HTTP API")
	genkey     = flag.Bool("genkey", false, "print a new API key and its bcrypt hash")
)

func main() {
	flag.Parse()
	defer glog.Flush()

	if *genkey {
		if err := generateKey(); err != nil {
			fmt.Println(err)
			os.Exit(-1)
		}
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
	applyFlags(cfg)

	if *serve {
		err = startServer(cfg)
	} else {
		err = report(cfg)
	}
	if err != nil {
		glog.Flush()
		fmt.Println(err)
		os.Exit(-1)
	}
}

// applyFlags lets explicitly set flags win over the config file and environment.
func applyFlags(cfg *config.Config) {
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if !set["v"] {
		flag.Set("v", strconv.Itoa(cfg.Logging.Verbosity))
	}
	if set["paths"] {
		cfg.Simulation.Paths = *paths
	}
	if set["steps"] {
		cfg.Simulation.Steps = *steps
	}
	if set["seed"] {
		cfg.Simulation.Seed = *seed
	}
	if set["workers"] {
		cfg.Simulation.Workers = *workers
	}
	if set["estimator"] {
		cfg.Simulation.Estimator = *estimator
	}
}

func generateKey() error {
	key, err := util.GenerateKey()
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	fmt.Printf("api key:  %s\nkey hash: %s\n", key, hash)
	return nil
}

func startServer(cfg *config.Config) error {
	sim, err := cfg.SimulationParams()
	if err != nil {
		return err
	}
	service := pricer.NewService(cfg.Simulation.Seed, cfg.Limits())
	server := api.NewServer(service, api.Options{
		KeyHash:  cfg.Server.APIKeyHash,
		Rate:     cfg.Server.Rate,
		Burst:    cfg.Server.Burst,
		Defaults: sim,
	})
	if cfg.Server.APIKeyHash == "" {
		glog.Warning("serving without authentication")
	}
	glog.Infof("listening on %s", cfg.Server.Addr)
	return server.Start(cfg.Server.Addr)
}

// report prints the Monte Carlo estimates next to the closed-form values.
func report(cfg *config.Config) error {
	m, err := cfg.MarketParams()
	if err != nil {
		return err
	}
	sim, err := cfg.SimulationParams()
	if err != nil {
		return err
	}
	ctx := context.Background()
	service := pricer.NewService(cfg.Simulation.Seed, cfg.Limits())

	quote, err := service.Analytic(m)
	if err != nil {
		return err
	}
	fmt.Printf("S0=%g K=%g r=%g sigma=%g T=%g  M=%d N=%d\n", m.Spot, m.Strike, m.Rate, m.Vol, m.Maturity, sim.Paths, sim.Steps)
	fmt.Printf("%-12s %10.4f\n", "black-scholes", quote.Price)

	names := mc.EstimatorNames()
	if cfg.Simulation.Estimator != "" && cfg.Simulation.Estimator != "all" {
		names = []string{cfg.Simulation.Estimator}
	}
	for _, name := range names {
		res, err := service.Price(ctx, pricer.PriceRequest{Estimator: name, Market: m, Config: sim})
		if err != nil {
			return err
		}
		fmt.Printf("%-12s %10.4f  (se %.4f, %d paths)\n", name, res.Price, res.StdErr, res.Paths)
	}

	delta, err := service.Sensitivity(ctx, pricer.GreekRequest{Greek: "delta", Market: m, Config: sim})
	if err != nil {
		return err
	}
	fmt.Printf("%-12s %10.4f  (analytic %.4f)\n", "delta", delta, quote.Delta)

	gsim := sim
	if cfg.Simulation.GammaPaths > 0 {
		gsim = sim.WithPaths(cfg.Simulation.GammaPaths)
	}
	gamma, err := service.Sensitivity(ctx, pricer.GreekRequest{Greek: "gamma", Market: m, Config: gsim})
	if err != nil {
		return err
	}
	fmt.Printf("%-12s %10.4f  (analytic %.4f, %s draws)\n", "gamma", gamma, quote.Gamma, gsim.Gamma)

	if *converge {
		return sweep(cfg, m, sim)
	}
	return nil
}

func sweep(cfg *config.Config, m mc.Market, sim mc.Config) error {
	est, err := mc.LookupEstimator(cfg.Convergence.Estimator)
	if err != nil {
		return err
	}
	sizes, err := convergence.Sizes(cfg.Convergence.Min, cfg.Convergence.Max, cfg.Convergence.Points)
	if err != nil {
		return err
	}
	src := mc.NewTimeSeededSource()
	if cfg.Simulation.Seed != 0 {
		src = mc.NewNormalSource(cfg.Simulation.Seed + 1)
	}
	pts, err := convergence.Run(est, m, sim, src, sizes, convergence.WithProgress(os.Stderr))
	if err != nil {
		return err
	}
	fmt.Printf("\nconvergence (%s)\n%8s %10s %10s %10s %5s\n", est.Name(), "paths", "price", "stderr", "abs err", "3se")
	for _, p := range pts {
		fmt.Printf("%8d %10.4f %10.4f %10.4f %5t\n", p.Paths, p.Price, p.StdErr, p.AbsError, p.Within3SE)
	}
	if cfg.Convergence.CSV == "" {
		return nil
	}
	f, err := os.Create(cfg.Convergence.CSV)
	if err != nil {
		return err
	}
	defer f.Close()
	return convergence.WriteCSV(f, pts)
}
