package config

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the huecli configuration. Every value has a default;
// the file and all of its keys are optional.
type Config struct {
	Bridge     string          `yaml:"bridge"`      // Bridge address, host or host:port
	User       string          `yaml:"user"`        // Bridge-issued username
	DeviceType string          `yaml:"device_type"` // Label sent when registering
	Log        LogConfig       `yaml:"log"`
	HTTP       HTTPConfig      `yaml:"http"`
	Register   RegisterConfig  `yaml:"register"`
	Discovery  DiscoveryConfig `yaml:"discovery"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Colors bool   `yaml:"colors"`
}

// HTTPConfig contains settings for requests against the bridge
type HTTPConfig struct {
	Timeout      Duration `yaml:"timeout"`        // Per-request timeout
	RateLimitRPS float64  `yaml:"rate_limit_rps"` // Request pacing, 0 disables
}

// RegisterConfig contains push-link handshake settings
type RegisterConfig struct {
	MaxAttempts   int      `yaml:"max_attempts"`
	RetryInterval Duration `yaml:"retry_interval"`
}

// DiscoveryConfig contains bridge discovery settings
type DiscoveryConfig struct {
	Endpoint      string   `yaml:"endpoint"`
	Timeout       Duration `yaml:"timeout"`
	SearchTimeout Duration `yaml:"search_timeout"`
	LocalFallback *bool    `yaml:"local_fallback"` // Pointer so an absent key can default to true
}

// GetLocalFallback returns the local fallback setting with its default
func (c *DiscoveryConfig) GetLocalFallback() bool {
	if c.LocalFallback == nil {
		return true
	}
	return *c.LocalFallback
}

// Duration is a wrapper around time.Duration for YAML unmarshalling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// DefaultPath returns the stock config location under the user's config
// directory, or "" when the platform reports none.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "hue-cli", "config.yaml")
}

// Load reads and parses the configuration file. A missing file is not an
// error: everything runs on defaults until a bridge and user are supplied
// by flags or put in the file by hand.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		// Expand environment variables
		expanded := expandEnvVars(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, err
		}
	case errors.Is(err, os.ErrNotExist):
		// Run on defaults
	default:
		return nil, err
	}

	// Set defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	// HTTP defaults
	if cfg.HTTP.Timeout == 0 {
		cfg.HTTP.Timeout = Duration(10 * time.Second)
	}
	if cfg.HTTP.RateLimitRPS == 0 {
		cfg.HTTP.RateLimitRPS = 10.0 // 10 requests per second
	}

	// Push-link defaults, sized to outlast the bridge's ~30s button window
	if cfg.Register.MaxAttempts == 0 {
		cfg.Register.MaxAttempts = 12
	}
	if cfg.Register.RetryInterval == 0 {
		cfg.Register.RetryInterval = Duration(5 * time.Second)
	}

	// Discovery defaults
	if cfg.Discovery.Endpoint == "" {
		cfg.Discovery.Endpoint = "https://discovery.meethue.com"
	}
	if cfg.Discovery.Timeout == 0 {
		cfg.Discovery.Timeout = Duration(10 * time.Second)
	}
	if cfg.Discovery.SearchTimeout == 0 {
		cfg.Discovery.SearchTimeout = Duration(3 * time.Second)
	}

	return &cfg, nil
}

// expandEnvVars expands environment variables in the format ${VAR} or ${VAR:default}
func expandEnvVars(input string) string {
	// Match ${VAR} or ${VAR:default}
	re := regexp.MustCompile(`\$\{([^}:]+)(?::([^}]*))?\}`)

	return re.ReplaceAllStringFunc(input, func(match string) string {
		parts := re.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := parts[1]
		defaultVal := ""
		if len(parts) >= 3 {
			defaultVal = parts[2]
		}

		if val := os.Getenv(varName); val != "" {
			return val
		}
		return defaultVal
	})
}
