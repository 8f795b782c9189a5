package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/banachtech/bsmc/mc"
	"github.com/banachtech/bsmc/pricer"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Verbosity int `yaml:"verbosity"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Addr       string  `yaml:"addr"`
	APIKeyHash string  `yaml:"api_key_hash"` // bcrypt hash, empty disables auth
	Rate       float64 `yaml:"rate"`         // requests per second per key, 0 disables limiting
	Burst      int     `yaml:"burst"`
	MaxPaths   int     `yaml:"max_paths"`
	MaxSteps   int     `yaml:"max_steps"`
	MaxWorkers int     `yaml:"max_workers"`
}

// SimulationConfig represents the default Monte Carlo settings
type SimulationConfig struct {
	Estimator string  `yaml:"estimator"`
	Paths     int     `yaml:"paths"`
	Steps     int     `yaml:"steps"`
	Workers   int     `yaml:"workers"`
	Bump      float64 `yaml:"bump"`
	Seed      uint64  `yaml:"seed"` // 0 seeds from the clock
	StdErr    string  `yaml:"stderr"`
	Gamma     string  `yaml:"gamma"`
	// GammaPaths overrides Paths for the gamma estimate when > 0.
	GammaPaths int `yaml:"gamma_paths"`
}

// ConvergenceConfig represents the path-count sweep
type ConvergenceConfig struct {
	Estimator string `yaml:"estimator"`
	Min       int    `yaml:"min"`
	Max       int    `yaml:"max"`
	Points    int    `yaml:"points"`
	CSV       string `yaml:"csv"`
}

type Config struct {
	Logging     LoggingConfig     `yaml:"logging"`
	Server      ServerConfig      `yaml:"server"`
	Market      mc.Market         `yaml:"market"`
	Simulation  SimulationConfig  `yaml:"simulation"`
	Convergence ConvergenceConfig `yaml:"convergence"`
}

// Default returns the demonstration setup: an at-the-money one-year call.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:     ":8080",
			Rate:     2,
			Burst:    4,
			MaxPaths: 2000000,
			MaxSteps: 1000,
		},
		Market: mc.Market{Spot: 100, Strike: 100, Rate: 0.05, Vol: 0.2, Maturity: 1},
		Simulation: SimulationConfig{
			Estimator:  "all",
			Paths:      50000,
			Steps:      1000,
			Workers:    1,
			StdErr:     "undiscounted",
			Gamma:      "independent",
			GammaPaths: 30000,
		},
		Convergence: ConvergenceConfig{
			Estimator: "antithetic",
			Min:       100,
			Max:       50000,
			Points:    15,
		},
	}
}

// Load builds the configuration from defaults, then the YAML file at path (skipped when
// path is empty), then a .env file if present, then BSMC_* environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	var err error
	c.Logging.Verbosity = getEnvInt("BSMC_VERBOSITY", c.Logging.Verbosity, &err)
	c.Server.Addr = getEnv("BSMC_ADDR", c.Server.Addr)
	c.Server.APIKeyHash = getEnv("BSMC_API_KEY_HASH", c.Server.APIKeyHash)
	c.Server.Rate = getEnvFloat("BSMC_RATE_LIMIT", c.Server.Rate, &err)
	c.Server.Burst = getEnvInt("BSMC_BURST", c.Server.Burst, &err)
	c.Server.MaxPaths = getEnvInt("BSMC_MAX_PATHS", c.Server.MaxPaths, &err)
	c.Server.MaxSteps = getEnvInt("BSMC_MAX_STEPS", c.Server.MaxSteps, &err)

	c.Market.Spot = getEnvFloat("BSMC_SPOT", c.Market.Spot, &err)
	c.Market.Strike = getEnvFloat("BSMC_STRIKE", c.Market.Strike, &err)
	c.Market.Rate = getEnvFloat("BSMC_RATE", c.Market.Rate, &err)
	c.Market.Vol = getEnvFloat("BSMC_VOL", c.Market.Vol, &err)
	c.Market.Maturity = getEnvFloat("BSMC_MATURITY", c.Market.Maturity, &err)

	c.Simulation.Estimator = getEnv("BSMC_ESTIMATOR", c.Simulation.Estimator)
	c.Simulation.Paths = getEnvInt("BSMC_PATHS", c.Simulation.Paths, &err)
	c.Simulation.Steps = getEnvInt("BSMC_STEPS", c.Simulation.Steps, &err)
	c.Simulation.Workers = getEnvInt("BSMC_WORKERS", c.Simulation.Workers, &err)
	c.Simulation.Bump = getEnvFloat("BSMC_BUMP", c.Simulation.Bump, &err)
	c.Simulation.StdErr = getEnv("BSMC_STDERR", c.Simulation.StdErr)
	c.Simulation.Gamma = getEnv("BSMC_GAMMA", c.Simulation.Gamma)
	if v := os.Getenv("BSMC_SEED"); v != "" {
		seed, perr := strconv.ParseUint(v, 10, 64)
		if perr != nil && err == nil {
			err = fmt.Errorf("BSMC_SEED: %w", perr)
		}
		c.Simulation.Seed = seed
	}
	return err
}

// SimulationParams converts the simulation section into estimator settings.
func (c *Config) SimulationParams() (mc.Config, error) {
	conv, err := mc.ParseStdErrConvention(c.Simulation.StdErr)
	if err != nil {
		return mc.Config{}, err
	}
	mode, err := mc.ParseGammaMode(c.Simulation.Gamma)
	if err != nil {
		return mc.Config{}, err
	}
	out := mc.Config{
		Paths:   c.Simulation.Paths,
		Steps:   c.Simulation.Steps,
		Bump:    c.Simulation.Bump,
		Workers: c.Simulation.Workers,
		StdErr:  conv,
		Gamma:   mode,
	}
	return out, out.Validate()
}

// MarketParams returns the configured market after validation.
func (c *Config) MarketParams() (mc.Market, error) {
	return c.Market, c.Market.Validate()
}

func (c *Config) Limits() pricer.Limits {
	return pricer.Limits{
		MaxPaths:   c.Server.MaxPaths,
		MaxSteps:   c.Server.MaxSteps,
		MaxWorkers: c.Server.MaxWorkers,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt records the first parse failure in errp and keeps the fallback.
func getEnvInt(key string, fallback int, errp *error) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		if *errp == nil {
			*errp = fmt.Errorf("%s: %w", key, err)
		}
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64, errp *error) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		if *errp == nil {
			*errp = fmt.Errorf("%s: %w", key, err)
		}
		return fallback
	}
	return f
}
