package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/tradeguard/governance"
	"github.com/rustyeddy/tradeguard/guard"
)

// Config is the complete admission-control configuration for one
// trading session.
type Config struct {
	Market     Market            `json:"market" yaml:"market"`
	Guards     []guard.Config    `json:"guards" yaml:"guards"`
	Breaker    Breaker           `json:"breaker" yaml:"breaker"`
	Governance governance.Config `json:"governance" yaml:"governance"`
	Wallet     Wallet            `json:"wallet" yaml:"wallet"`
	Logging    Logging           `json:"logging" yaml:"logging"`
}

// Market names the trading session and whether it runs on paper.
type Market struct {
	Name         string `json:"name" yaml:"name"`
	PaperTrading bool   `json:"paper_trading" yaml:"paper_trading"`
}

// Breaker holds circuit-breaker thresholds.
type Breaker struct {
	MaxDailyLossPct float64 `json:"max_daily_loss_pct" yaml:"max_daily_loss_pct"`
	Cooldown        string  `json:"cooldown,omitempty" yaml:"cooldown,omitempty"` // e.g. "24h"
}

// ParseCooldown converts the cooldown string to a duration; empty
// means the breaker default.
func (b Breaker) ParseCooldown() (time.Duration, error) {
	if b.Cooldown == "" {
		return 0, nil
	}
	return time.ParseDuration(b.Cooldown)
}

// Wallet holds audit-ledger persistence parameters.
type Wallet struct {
	DBPath      string `json:"db_path" yaml:"db_path"`
	EventDBPath string `json:"event_db_path,omitempty" yaml:"event_db_path,omitempty"`
}

// Logging holds log settings.
type Logging struct {
	Level string `json:"level" yaml:"level"`
}

// LoadFromFile loads configuration from a file (JSON or YAML based on
// content; YAML is tried first since valid JSON is valid YAML).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes the configuration, format chosen by extension.
func (c *Config) SaveToFile(path string) error {
	var (
		data []byte
		err  error
	)
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration before the session starts. Guard
// option validation happens later, in each guard's constructor.
func (c *Config) Validate() error {
	if c.Market.Name == "" {
		return fmt.Errorf("market.name is required")
	}
	if c.Breaker.MaxDailyLossPct < 0 || c.Breaker.MaxDailyLossPct > 1 {
		return fmt.Errorf("breaker.max_daily_loss_pct must be between 0 and 1")
	}
	if _, err := c.Breaker.ParseCooldown(); err != nil {
		return fmt.Errorf("breaker.cooldown: %w", err)
	}
	for i, g := range c.Guards {
		if g.Type == "" {
			return fmt.Errorf("guards[%d].type is required", i)
		}
	}
	if c.Governance.StatusPath == "" {
		return fmt.Errorf("governance.statusPath is required")
	}
	if c.Wallet.DBPath == "" {
		return fmt.Errorf("wallet.db_path is required")
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Market: Market{
			Name:         "crypto",
			PaperTrading: true,
		},
		Guards: []guard.Config{
			{Type: "max-position-size", Options: guard.Options{"maxPercentOfEquity": 25}},
			{Type: "max-leverage", Options: guard.Options{"maxLeverage": 10}},
			{Type: "cooldown", Options: guard.Options{"minIntervalMs": 60000}},
		},
		Breaker: Breaker{
			MaxDailyLossPct: 0.05,
			Cooldown:        "24h",
		},
		Governance: governance.Config{
			StatusPath:     "./release-gate.json",
			MaxAgeHours:    24,
			BlockOnExpired: false,
		},
		Wallet: Wallet{
			DBPath:      "./wallet.sqlite",
			EventDBPath: "./events.sqlite",
		},
		Logging: Logging{Level: "info"},
	}
}
