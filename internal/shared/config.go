package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// DefaultThreshold is the acceptance threshold used when neither flags nor config set one.
const DefaultThreshold = 0.6

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Matcher  MatcherConfig  `toml:"matcher"`
	Listing  ListingConfig  `toml:"listing"`
	Verify   VerifyConfig   `toml:"verify"`
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`
}

// MatcherConfig contains matching engine settings.
type MatcherConfig struct {
	Threshold float64 `toml:"threshold"`
}

// ListingConfig describes where logos are listed and how to fetch the listing.
type ListingConfig struct {
	URL            string `toml:"url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	UserAgent      string `toml:"user_agent"`
}

// VerifyConfig controls reachability checks of matched logos.
type VerifyConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
	History      bool   `toml:"history"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// Timeout returns the listing fetch timeout as a [time.Duration].
func (l ListingConfig) Timeout() time.Duration {
	if l.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(l.TimeoutSeconds) * time.Second
}

// ValidateThreshold reports whether t lies in [0, 1].
func ValidateThreshold(t float64) error {
	if t < 0 || t > 1 {
		return fmt.Errorf("%w: threshold must be between 0 and 1, got %v", ErrInvalidConfig, t)
	}
	return nil
}

// Validate checks value ranges that would otherwise surface mid-run.
func (c *Config) Validate() error {
	if err := ValidateThreshold(c.Matcher.Threshold); err != nil {
		return err
	}
	if c.Verify.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: verify.requests_per_second must not be negative", ErrInvalidConfig)
	}
	if c.Verify.Burst < 0 {
		return fmt.Errorf("%w: verify.burst must not be negative", ErrInvalidConfig)
	}
	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their defaults from the embedded example config.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
