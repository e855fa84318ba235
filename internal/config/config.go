// Package config loads the application configuration: budget-provisioning
// defaults and outbound email settings. Values come from an optional YAML
// file with environment overrides for the operational knobs.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Budget BudgetDefaults `yaml:"budget"`
	Email  EmailConfig    `yaml:"email"`
}

// BudgetDefaults drives auto-provisioning of a budget when an application is
// approved for a call that has none yet. The previous system hard-coded these
// numbers in the provisioning function.
type BudgetDefaults struct {
	TotalAmount float64           `yaml:"total_amount"`
	Currency    string            `yaml:"currency"`
	Categories  []CategoryDefault `yaml:"categories"`
}

type CategoryDefault struct {
	Name    string  `yaml:"name"`
	Percent float64 `yaml:"percent"`
}

type EmailConfig struct {
	Enabled bool   `yaml:"enabled"`
	Region  string `yaml:"region"`
	Sender  string `yaml:"sender"`
}

// Default mirrors the historical fixed allocation: 10000 split
// Operations/Marketing/Development/Misc at 40/30/20/10.
func Default() Config {
	return Config{
		Budget: BudgetDefaults{
			TotalAmount: 10000,
			Currency:    "USD",
			Categories: []CategoryDefault{
				{Name: "Operations", Percent: 40},
				{Name: "Marketing", Percent: 30},
				{Name: "Development", Percent: 20},
				{Name: "Misc", Percent: 10},
			},
		},
		Email: EmailConfig{
			Enabled: false,
			Region:  "us-east-1",
		},
	}
}

// Load reads the YAML file at path, falling back to Default when path is
// empty or the file does not exist.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Budget.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (b BudgetDefaults) Validate() error {
	if b.TotalAmount <= 0 {
		return fmt.Errorf("budget total_amount must be positive, got %v", b.TotalAmount)
	}
	var sum float64
	for _, c := range b.Categories {
		if c.Percent < 0 {
			return fmt.Errorf("category %q has negative percent", c.Name)
		}
		sum += c.Percent
	}
	if len(b.Categories) > 0 && (sum < 99.999 || sum > 100.001) {
		return fmt.Errorf("category percents must sum to 100, got %v", sum)
	}
	return nil
}
