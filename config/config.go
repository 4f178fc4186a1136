package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	wcaclient "github.com/Black-And-White-Club/wcif-bot/app/modules/wca/infrastructure/client"
)

var ErrMissingCredentials = errors.New("missing WCA client credentials")

// Config struct to hold the configuration settings
type Config struct {
	WCA           WCAConfig           `yaml:"wca"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// WCAConfig holds the OAuth application and API settings.
type WCAConfig struct {
	ClientID     string        `yaml:"client_id"`
	ClientSecret string        `yaml:"client_secret"`
	RedirectURI  string        `yaml:"redirect_uri"`
	AccessToken  string        `yaml:"access_token"`
	RefreshToken string        `yaml:"refresh_token"`
	BaseURL      string        `yaml:"base_url"`
	TokenURL     string        `yaml:"token_url"`
	AuthorizeURL string        `yaml:"authorize_url"`
	Scopes       string        `yaml:"scopes"`
	RateLimit    float64       `yaml:"rate_limit"` // requests per second, 0 disables
	RateBurst    int           `yaml:"rate_burst"`
	Timeout      time.Duration `yaml:"timeout"`
}

// ObservabilityConfig holds logging and metrics settings
type ObservabilityConfig struct {
	LogLevel       string `yaml:"log_level"`
	MetricsAddress string `yaml:"metrics_address"` // empty disables the metrics endpoint
	Environment    string `yaml:"environment"`
}

// LoadConfig loads the configuration from a YAML file.
func LoadConfig(filename string) (*Config, error) {
	// Try reading configuration from the file first
	data, err := os.ReadFile(filename)
	if err != nil {
		// If the file is not found, try loading from environment variables
		return loadConfigFromEnv()
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// --- OVERRIDE WITH ENV VARS IF PRESENT ---
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// loadConfigFromEnv loads the configuration from environment variables.
func loadConfigFromEnv() (*Config, error) {
	var cfg Config
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	strs := map[string]*string{
		"WCA_CLIENT_ID":     &cfg.WCA.ClientID,
		"WCA_CLIENT_SECRET": &cfg.WCA.ClientSecret,
		"WCA_REDIRECT_URI":  &cfg.WCA.RedirectURI,
		"WCA_ACCESS_TOKEN":  &cfg.WCA.AccessToken,
		"WCA_REFRESH_TOKEN": &cfg.WCA.RefreshToken,
		"WCA_BASE_URL":      &cfg.WCA.BaseURL,
		"WCA_TOKEN_URL":     &cfg.WCA.TokenURL,
		"WCA_AUTHORIZE_URL": &cfg.WCA.AuthorizeURL,
		"WCA_SCOPES":        &cfg.WCA.Scopes,
		"LOG_LEVEL":         &cfg.Observability.LogLevel,
		"METRICS_ADDRESS":   &cfg.Observability.MetricsAddress,
		"ENV":               &cfg.Observability.Environment,
	}
	for name, dst := range strs {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	if v := os.Getenv("WCA_RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid WCA_RATE_LIMIT value: %v", err)
		}
		cfg.WCA.RateLimit = f
	}
	if v := os.Getenv("WCA_RATE_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid WCA_RATE_BURST value: %v", err)
		}
		cfg.WCA.RateBurst = n
	}
	if v := os.Getenv("WCA_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid WCA_TIMEOUT value: %v", err)
		}
		cfg.WCA.Timeout = d
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.WCA.BaseURL == "" {
		c.WCA.BaseURL = wcaclient.DefaultBaseURL
	}
	if c.WCA.TokenURL == "" {
		c.WCA.TokenURL = wcaclient.DefaultTokenURL
	}
	if c.WCA.AuthorizeURL == "" {
		c.WCA.AuthorizeURL = wcaclient.DefaultAuthorizeURL
	}
	if c.WCA.RedirectURI == "" {
		c.WCA.RedirectURI = "urn:ietf:wg:oauth:2.0:oob"
	}
	if c.WCA.Timeout == 0 {
		c.WCA.Timeout = 30 * time.Second
	}
	if c.WCA.RateLimit > 0 && c.WCA.RateBurst <= 0 {
		c.WCA.RateBurst = 1
	}
	if c.Observability.LogLevel == "" {
		c.Observability.LogLevel = "info"
	}
}

// Credentials returns the OAuth application credentials. Only the token
// endpoint flows need the secret.
func (c WCAConfig) Credentials() (wcaclient.Credentials, error) {
	if c.ClientID == "" {
		return wcaclient.Credentials{}, fmt.Errorf("%w: WCA_CLIENT_ID not set", ErrMissingCredentials)
	}
	return wcaclient.Credentials{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURI:  c.RedirectURI,
	}, nil
}

// ClientOptions translates the endpoint and rate settings into builder
// options.
func (c WCAConfig) ClientOptions() []wcaclient.Option {
	opts := []wcaclient.Option{
		wcaclient.WithBaseURL(c.BaseURL),
		wcaclient.WithTokenURL(c.TokenURL),
		wcaclient.WithAuthorizeURL(c.AuthorizeURL),
	}
	if c.RateLimit > 0 {
		opts = append(opts, wcaclient.WithRateLimit(c.RateLimit, c.RateBurst))
	}
	return opts
}

// ParsedScopes returns the configured extra scopes.
func (c WCAConfig) ParsedScopes() []wcaclient.Scope {
	return wcaclient.ParseScopes(c.Scopes)
}

// SlogLevel maps LOG_LEVEL onto a slog level; unknown values mean info.
func (c ObservabilityConfig) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
