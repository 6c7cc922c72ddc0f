package internal

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/glistman/aws-credentials/pkg/credentials"
	"github.com/go-logr/logr"
	"gopkg.in/yaml.v3"
)

// Config holds CLI settings. Values come from the config file and are
// overridden by flags.
type Config struct {
	// RelativeURI is appended to Host. Falls back to
	// AWS_CONTAINER_CREDENTIALS_RELATIVE_URI when empty.
	RelativeURI string `yaml:"relative_uri"`
	// Host of the credentials endpoint.
	Host string `yaml:"host"`
	// URL is the full endpoint URL and takes precedence over RelativeURI.
	URL string `yaml:"url"`
	// AuthToken is sent in the Authorization header. Falls back to
	// AWS_CONTAINER_AUTHORIZATION_TOKEN when empty.
	AuthToken string `yaml:"auth_token"`
	// Region used for STS calls.
	Region string `yaml:"region"`
	// Listen is the address of the serve command.
	Listen string `yaml:"listen"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// Timeout bounds a single fetch.
	Timeout time.Duration `yaml:"timeout"`
	// RetryInterval is the delay between attempts while the endpoint fails.
	RetryInterval time.Duration `yaml:"retry_interval"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Host:          credentials.ContainerHost,
		Listen:        "127.0.0.1:9911",
		LogLevel:      "info",
		Timeout:       credentials.DefaultFetchTimeout,
		RetryInterval: credentials.DefaultRetryInterval,
	}
}

// DefaultConfigPath is ~/.awscreds/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".awscreds", "config.yaml")
}

// LoadConfig reads path over the defaults. A missing file is only an error
// when required is true.
func LoadConfig(path string, required bool) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.RetryInterval <= 0 {
		return fmt.Errorf("retry_interval must be positive, got %s", c.RetryInterval)
	}
	if c.Host == "" && c.RelativeURI != "" && c.URL == "" {
		return errors.New("relative_uri requires host")
	}
	return nil
}

// EndpointURL returns the configured endpoint, or "" to let the provider
// discover it from the environment.
func (c *Config) EndpointURL() string {
	if c.URL != "" {
		return c.URL
	}
	if c.RelativeURI != "" {
		return c.Host + c.RelativeURI
	}
	return ""
}

// ProviderOptions turns the config into ContainerProvider options.
func (c *Config) ProviderOptions(logger logr.Logger, extra ...credentials.Option) []credentials.Option {
	src := credentials.NewHTTPSource(os.LookupEnv)
	src.Client = &http.Client{Timeout: c.Timeout}
	if c.AuthToken != "" {
		src.AuthToken = c.AuthToken
	}

	opts := []credentials.Option{
		credentials.WithSource(src),
		credentials.WithLogger(logger),
		credentials.WithRetryInterval(c.RetryInterval),
	}
	if url := c.EndpointURL(); url != "" {
		opts = append(opts, credentials.WithURL(url))
	}
	return append(opts, extra...)
}
