package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the scenario parameters for both exercises. Zero values are
// replaced with the defaults from the course material, so an empty or missing
// file reproduces the handout numbers.
type Config struct {
	Pricer struct {
		Beta    float64 `yaml:"beta"`
		Mu      float64 `yaml:"mu"`
		S0      float64 `yaml:"s0"`
		H0      float64 `yaml:"h0"`
		Strike  float64 `yaml:"strike"`
		Horizon int     `yaml:"horizon"`
		Rho     float64 `yaml:"rho"`
		Nu      float64 `yaml:"nu"`
		Samples int     `yaml:"samples"`
	} `yaml:"pricer"`
	Savings struct {
		Beta      float64 `yaml:"beta"`
		Gamma     float64 `yaml:"gamma"`
		Rho       float64 `yaml:"rho"`
		D         float64 `yaml:"d"`
		Sigma     float64 `yaml:"sigma"`
		R         float64 `yaml:"r"`
		W         float64 `yaml:"w"`
		ZGridSize int     `yaml:"z_grid_size"`
		XGridSize int     `yaml:"x_grid_size"`
		XGridMax  float64 `yaml:"x_grid_max"`
		Tol       float64 `yaml:"tol"`
		MaxIter   int     `yaml:"max_iter"`
	} `yaml:"savings"`
}

// Load reads a scenario from a YAML file, then fills in defaults. A missing
// file is not an error; it yields the default scenario.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read scenario: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse scenario: %w", err)
			}
		}
	}

	// Defaults
	p := &cfg.Pricer
	if p.Beta == 0 {
		p.Beta = 0.96
	}
	if p.Mu == 0 {
		p.Mu = 0.005
	}
	if p.S0 == 0 {
		p.S0 = 10.0
	}
	if p.Strike == 0 {
		p.Strike = 100.0
	}
	if p.Horizon == 0 {
		p.Horizon = 10
	}
	if p.Rho == 0 {
		p.Rho = 0.5
	}
	if p.Nu == 0 {
		p.Nu = 0.01
	}
	if p.Samples == 0 {
		p.Samples = 5_000_000
	}

	s := &cfg.Savings
	if s.Beta == 0 {
		s.Beta = 0.96
	}
	if s.Gamma == 0 {
		s.Gamma = 2.5
	}
	if s.Rho == 0 {
		s.Rho = 0.9
	}
	if s.Sigma == 0 {
		s.Sigma = 0.1
	}
	if s.R == 0 {
		s.R = 0.05
	}
	if s.W == 0 {
		s.W = 1.0
	}
	if s.ZGridSize == 0 {
		s.ZGridSize = 25
	}
	if s.XGridSize == 0 {
		s.XGridSize = 200
	}
	if s.XGridMax == 0 {
		s.XGridMax = 10.0
	}
	if s.Tol == 0 {
		s.Tol = 1e-4
	}
	if s.MaxIter == 0 {
		s.MaxIter = 1000
	}

	return cfg, nil
}
