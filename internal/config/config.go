// internal/config/config.go
//
// Server configuration.
//
// Sources, later ones win:
//   1. Embedded assets/config.yaml defaults.
//   2. The YAML file named by CONFIG_FILE (any subset of fields).
//   3. Environment variables (loaded from .env by main via godotenv):
//        PORT, CLIENT_ORIGIN, PREFS_BACKEND, PREFS_DSN, PREFS_APP_NAME,
//        PREFS_SECRET, CATALOG_FILE, OPERATOR_USER, OPERATOR_PASSWORD_HASH,
//        JWT_SECRET, JWT_EXPIRES_DAYS.
//
// Secrets are never read from YAML.

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/robalobadob/gameprogress/assets"
)

type Server struct {
	Port         string `yaml:"port"`
	ClientOrigin string `yaml:"clientOrigin"`
}

type Prefs struct {
	Backend   string `yaml:"backend"` // memory | sqlite | gdata
	DSN       string `yaml:"dsn"`
	AppName   string `yaml:"appName"`
	UseSecure bool   `yaml:"useSecure"`
	Secret    string `yaml:"-"`
}

type GameOver struct {
	TimesPlayedBeforeRatingPrompt int      `yaml:"timesPlayedBeforeRatingPrompt"`
	ShowStars                     bool     `yaml:"showStars"`
	ShowTime                      bool     `yaml:"showTime"`
	ShowCoins                     bool     `yaml:"showCoins"`
	ShowScore                     bool     `yaml:"showScore"`
	PeriodicUpdateDelay           float64  `yaml:"periodicUpdateDelay"` // seconds
	Regions                       []string `yaml:"regions"`
}

// Delay converts PeriodicUpdateDelay to a Duration.
func (g GameOver) Delay() time.Duration {
	return time.Duration(g.PeriodicUpdateDelay * float64(time.Second))
}

type Stars struct {
	Rule   string `yaml:"rule"` // none | thresholds | script
	Script string `yaml:"script"`
}

type Reward struct {
	Enabled      bool `yaml:"enabled"`
	DelayMinutes int  `yaml:"delayMinutes"`
}

func (r Reward) Delay() time.Duration { return time.Duration(r.DelayMinutes) * time.Minute }

type Operator struct {
	Username       string `yaml:"username"`
	PasswordHash   string `yaml:"-"`
	JWTSecret      string `yaml:"-"`
	JWTExpiresDays int    `yaml:"jwtExpiresDays"`
}

type Config struct {
	Server      Server   `yaml:"server"`
	Prefs       Prefs    `yaml:"prefs"`
	CatalogFile string   `yaml:"catalogFile"`
	GameOver    GameOver `yaml:"gameOver"`
	Stars       Stars    `yaml:"stars"`
	Reward      Reward   `yaml:"reward"`
	Operator    Operator `yaml:"operator"`

	// Path is the file Load read, empty when only defaults were used.
	Path string `yaml:"-"`
}

// Load builds a Config from defaults, the optional file at path, and the environment.
func Load(path string) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(assets.DefaultConfig(), &c); err != nil {
		return nil, fmt.Errorf("parse default config: %w", err)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		c.Path = path
	}
	c.applyEnv()
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Server.ClientOrigin = getEnv("CLIENT_ORIGIN", c.Server.ClientOrigin)
	c.Prefs.Backend = getEnv("PREFS_BACKEND", c.Prefs.Backend)
	c.Prefs.DSN = getEnv("PREFS_DSN", c.Prefs.DSN)
	c.Prefs.AppName = getEnv("PREFS_APP_NAME", c.Prefs.AppName)
	c.Prefs.Secret = os.Getenv("PREFS_SECRET")
	c.CatalogFile = getEnv("CATALOG_FILE", c.CatalogFile)
	c.Operator.Username = getEnv("OPERATOR_USER", c.Operator.Username)
	c.Operator.PasswordHash = os.Getenv("OPERATOR_PASSWORD_HASH")
	c.Operator.JWTSecret = getEnv("JWT_SECRET", "dev_secret_change_me")
	if v := os.Getenv("JWT_EXPIRES_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Operator.JWTExpiresDays = n
		}
	}
}

func (c *Config) validate() error {
	switch c.Prefs.Backend {
	case "memory", "sqlite", "gdata":
	default:
		return fmt.Errorf("config: unknown prefs backend %q", c.Prefs.Backend)
	}
	switch c.Stars.Rule {
	case "none", "thresholds", "script":
	default:
		return fmt.Errorf("config: unknown star rule %q", c.Stars.Rule)
	}
	if c.GameOver.PeriodicUpdateDelay < 0 {
		return fmt.Errorf("config: periodicUpdateDelay must not be negative")
	}
	if c.Reward.Enabled && c.Reward.DelayMinutes <= 0 {
		return fmt.Errorf("config: reward.delayMinutes must be positive")
	}
	return nil
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
