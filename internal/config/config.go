package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"portfolio-metrics/internal/model"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML). Environment variables override
// file values.
type Config struct {
	Provider    ProviderConfig    `yaml:"provider"`
	Calculation CalculationConfig `yaml:"calculation"`
	Server      ServerConfig      `yaml:"server"`
	Log         LogConfig         `yaml:"log"`
}

// ProviderConfig configures the market data / submission API client.
type ProviderConfig struct {
	BaseURL    string        `yaml:"base_url"`
	APIKey     string        `yaml:"api_key"`
	SubmitPath string        `yaml:"submit_path"`
	Timeout    time.Duration `yaml:"timeout"`
	RateLimit  float64       `yaml:"rate_limit"` // requests per second
	Burst      int           `yaml:"burst"`
	// Response caching is for local development only.
	Cache    bool          `yaml:"cache"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// CalculationConfig holds the default calculation request.
type CalculationConfig struct {
	StartDate      string `yaml:"start_date"`
	EndDate        string `yaml:"end_date"`
	TargetCurrency string `yaml:"target_currency"`
	PositionsFile  string `yaml:"positions_file"`
}

type ServerConfig struct {
	Port           string   `yaml:"port"`
	Env            string   `yaml:"env"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Provider: ProviderConfig{
			BaseURL:    "https://api.challenges.performativ.com",
			SubmitPath: "/submit",
			Timeout:    30 * time.Second,
			RateLimit:  5,
			Burst:      5,
			CacheTTL:   time.Hour,
		},
		Calculation: CalculationConfig{
			StartDate:      "2023-01-01",
			EndDate:        "2024-11-10",
			TargetCurrency: "USD",
			PositionsFile:  "tech-challenge-2024-positions.json",
		},
		Server: ServerConfig{
			Port:           "8080",
			Env:            "development",
			AllowedOrigins: []string{"*"},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads defaults, the optional YAML file, .env and environment
// overrides, but does not validate the result.
func LoadUnchecked(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	c := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	c.applyEnv()
	c.Calculation.TargetCurrency = strings.ToUpper(c.Calculation.TargetCurrency)
	return &c, nil
}

func (c *Config) applyEnv() {
	c.Provider.BaseURL = getEnv("PERFORMATIV_BASE_URL", c.Provider.BaseURL)
	c.Provider.APIKey = getEnv("PERFORMATIV_API_KEY", c.Provider.APIKey)
	c.Provider.Cache = getEnvAsBool("ENABLE_PROVIDER_CACHE", c.Provider.Cache)
	c.Provider.CacheTTL = getEnvAsDuration("PROVIDER_CACHE_TTL", c.Provider.CacheTTL)

	c.Calculation.StartDate = getEnv("START_DATE", c.Calculation.StartDate)
	c.Calculation.EndDate = getEnv("END_DATE", c.Calculation.EndDate)
	c.Calculation.TargetCurrency = getEnv("TARGET_CURRENCY", c.Calculation.TargetCurrency)
	c.Calculation.PositionsFile = getEnv("POSITIONS_FILE", c.Calculation.PositionsFile)

	c.Server.Port = getEnv("API_PORT", c.Server.Port)
	c.Server.Env = getEnv("API_ENV", c.Server.Env)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Provider.BaseURL == "" {
		return errors.New("provider.base_url is required")
	}
	if c.Provider.RateLimit <= 0 || c.Provider.Burst <= 0 {
		return errors.New("provider.rate_limit and provider.burst must be > 0")
	}
	if _, _, err := c.Calculation.Range(); err != nil {
		return fmt.Errorf("calculation config invalid: %w", err)
	}
	if !model.ValidCurrency(c.Calculation.TargetCurrency) {
		return fmt.Errorf("calculation.target_currency %q is not a known currency", c.Calculation.TargetCurrency)
	}
	return nil
}

// Range parses the configured start and end dates.
func (c CalculationConfig) Range() (time.Time, time.Time, error) {
	start, err := model.ParseDate(c.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start_date: %w", err)
	}
	end, err := model.ParseDate(c.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("end_date: %w", err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end_date %s is before start_date %s", c.EndDate, c.StartDate)
	}
	return start, end, nil
}

// Production reports whether the server runs with API_ENV=production.
func (c *Config) Production() bool {
	return c.Server.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
