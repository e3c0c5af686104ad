package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port                  string   `mapstructure:"PORT"`
	Env                   string   `mapstructure:"ENV"`
	OpenFDABaseURL        string   `mapstructure:"OPENFDA_BASE_URL"`
	OpenFDATimeoutSeconds int      `mapstructure:"OPENFDA_TIMEOUT_SECONDS"`
	FetchStaggerMS        int      `mapstructure:"FETCH_STAGGER_MS"`
	SearchTopN            int      `mapstructure:"SEARCH_TOP_N"`
	CORSOrigins           []string `mapstructure:"CORS_ORIGINS"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("OPENFDA_BASE_URL", "https://api.fda.gov/drug/event.json")
	v.SetDefault("OPENFDA_TIMEOUT_SECONDS", 15)
	v.SetDefault("FETCH_STAGGER_MS", 300)
	v.SetDefault("SEARCH_TOP_N", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("OPENFDA_BASE_URL")
	v.BindEnv("OPENFDA_TIMEOUT_SECONDS")
	v.BindEnv("FETCH_STAGGER_MS")
	v.BindEnv("SEARCH_TOP_N")
	v.BindEnv("CORS_ORIGINS")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// OpenFDATimeout returns the per-request timeout for the adverse-event
// gateway.
func (c *Config) OpenFDATimeout() time.Duration {
	return time.Duration(c.OpenFDATimeoutSeconds) * time.Second
}

// FetchStagger returns the minimum gap between successive outbound
// fetches within one report batch.
func (c *Config) FetchStagger() time.Duration {
	return time.Duration(c.FetchStaggerMS) * time.Millisecond
}

// Validate checks that the configuration is safe to run with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.OpenFDABaseURL)
	if err != nil {
		return fmt.Errorf("OPENFDA_BASE_URL is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("OPENFDA_BASE_URL must use http or https, got %q", c.OpenFDABaseURL)
	}
	if c.OpenFDATimeoutSeconds <= 0 {
		return fmt.Errorf("OPENFDA_TIMEOUT_SECONDS must be positive, got %d", c.OpenFDATimeoutSeconds)
	}
	if c.FetchStaggerMS < 0 {
		return fmt.Errorf("FETCH_STAGGER_MS must not be negative, got %d", c.FetchStaggerMS)
	}
	if c.SearchTopN <= 0 {
		return fmt.Errorf("SEARCH_TOP_N must be positive, got %d", c.SearchTopN)
	}
	return nil
}
