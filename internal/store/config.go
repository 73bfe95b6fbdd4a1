package store

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// FeePlan is a broker tariff: a flat fee per trade or a percentage of trade
// value, whichever is lower.
type FeePlan struct {
	Flat float64 `yaml:"flat"`
	Pct  float64 `yaml:"pct"`
}

type Config struct {
	Log struct {
		Level          string `yaml:"level"`
		Format         string `yaml:"format"`
		Detailed       bool   `yaml:"detailed"`
		File           string `yaml:"file"`
		FileMaxSizeMB  int    `yaml:"file_max_size_mb"`
		FileMaxAgeDays int    `yaml:"file_max_age_days"`
	} `yaml:"log"`
	Tracing struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"tracing"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Remote struct {
		URL            string `yaml:"url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		MaxAttempts    int    `yaml:"max_attempts"`
	} `yaml:"remote"`
	Output struct {
		Format   string `yaml:"format"`
		Currency string `yaml:"currency"`
		Color    *bool  `yaml:"color"`
	} `yaml:"output"`
	DefaultPlan string             `yaml:"default_plan"`
	Plans       map[string]FeePlan `yaml:"plans"`
}

func (c *Config) Validate() error {
	if c.Output.Format != "text" && c.Output.Format != "json" {
		return fmt.Errorf("invalid output.format '%s': must be 'text' or 'json'", c.Output.Format)
	}
	if c.Remote.TimeoutSeconds <= 0 {
		return fmt.Errorf("remote.timeout_seconds must be positive, got %d", c.Remote.TimeoutSeconds)
	}
	if c.Remote.MaxAttempts <= 0 {
		return fmt.Errorf("remote.max_attempts must be positive, got %d", c.Remote.MaxAttempts)
	}
	if c.Server.Addr == "" {
		return errors.New("server.addr cannot be empty")
	}
	for name, p := range c.Plans {
		if p.Flat < 0 {
			return fmt.Errorf("plans.%s.flat cannot be negative, got %.2f", name, p.Flat)
		}
		if p.Pct < 0 || p.Pct >= 100 {
			return fmt.Errorf("plans.%s.pct must be in [0, 100), got %.4f", name, p.Pct)
		}
	}
	if c.DefaultPlan != "" {
		if _, ok := c.Plans[c.DefaultPlan]; !ok {
			return fmt.Errorf("default_plan '%s' is not defined in plans", c.DefaultPlan)
		}
	}
	return nil
}

// Plan looks up a fee plan by name.
func (c *Config) Plan(name string) (FeePlan, error) {
	p, ok := c.Plans[name]
	if !ok {
		return FeePlan{}, fmt.Errorf("unknown fee plan '%s'", name)
	}
	return p, nil
}

// PlanNames returns the configured plan names in sorted order.
func (c *Config) PlanNames() []string {
	names := make([]string, 0, len(c.Plans))
	for name := range c.Plans {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UseColor reports whether text output should be coloured; unset means yes.
func (c *Config) UseColor() bool {
	return c.Output.Color == nil || *c.Output.Color
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parse(b)
}

// LoadConfigOrDefault behaves like LoadConfig but falls back to the defaults
// when the file does not exist.
func LoadConfigOrDefault(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return parse(nil)
	}
	if err != nil {
		return nil, err
	}
	return parse(b)
}

func parse(b []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	applyDefaults(&c)
	applyEnv(&c)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}

func applyDefaults(c *Config) {
	if c.Log.Level == "" {
		c.Log.Level = "INFO"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Log.FileMaxSizeMB == 0 {
		c.Log.FileMaxSizeMB = 10
	}
	if c.Log.FileMaxAgeDays == 0 {
		c.Log.FileMaxAgeDays = 7
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Remote.TimeoutSeconds == 0 {
		c.Remote.TimeoutSeconds = 10
	}
	if c.Remote.MaxAttempts == 0 {
		c.Remote.MaxAttempts = 3
	}
	if c.Output.Format == "" {
		c.Output.Format = "text"
	}
	if c.Output.Currency == "" {
		c.Output.Currency = "$"
	}
}

func applyEnv(c *Config) {
	if v := os.Getenv("CALC_SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("CALC_REMOTE_URL"); v != "" {
		c.Remote.URL = v
	}
}
