// Package config loads the costing service configuration from YAML with
// environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"costing"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Currency CurrencyConfig `yaml:"currency"`
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// CurrencyConfig lists how many base units one unit of each currency buys.
type CurrencyConfig struct {
	Base  string             `yaml:"base"`
	Rates map[string]float64 `yaml:"rates"`
}

type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
	ReadBuffer int    `yaml:"read_buffer"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "costing.db"},
		Currency: CurrencyConfig{Base: "GBP", Rates: map[string]float64{}},
		Server:   ServerConfig{ListenAddr: "127.0.0.1:2001", ReadBuffer: 64 * 1024},
		Logging:  LoggingConfig{Level: "info"},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
// Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("COSTING_DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("COSTING_LISTEN_ADDR"); v != "" {
		c.Server.ListenAddr = v
	}
	if v := os.Getenv("COSTING_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("COSTING_BASE_CURRENCY"); v != "" {
		c.Currency.Base = v
	}
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Currency.Base) == "" {
		return fmt.Errorf("currency.base is required")
	}
	for cur, rate := range c.Currency.Rates {
		if rate <= 0 {
			return fmt.Errorf("currency.rates.%s must be positive", cur)
		}
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	return nil
}

// CurrencyConverter builds a converter from the configured rates.
func (c *Config) CurrencyConverter() *costing.CurrencyConverter {
	cc := costing.NewCurrencyConverter(c.Currency.Base)
	for cur, rate := range c.Currency.Rates {
		cc.AddRate(cur, rate)
	}
	return cc
}
