// Package config holds the configuration surface for the traceview CLI
// and fetch layer.
package config

import (
	"fmt"
	"time"
)

// Region represents a hosted observation-store region.
type Region string

const (
	// RegionEU is the European cloud region.
	RegionEU Region = "eu"
	// RegionUS is the US cloud region.
	RegionUS Region = "us"
)

// RegionBaseURLs maps regions to their API base URLs.
var RegionBaseURLs = map[Region]string{
	RegionEU: "https://cloud.langfuse.com/api/public",
	RegionUS: "https://us.cloud.langfuse.com/api/public",
}

// BaseURL returns the API base URL for this region.
func (r Region) BaseURL() string {
	if u, ok := RegionBaseURLs[r]; ok {
		return u
	}
	return RegionBaseURLs[RegionEU]
}

// String returns the string representation of the region.
func (r Region) String() string {
	return string(r)
}

// Default configuration values.
const (
	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries is the default maximum number of retry attempts.
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the default initial delay between retries.
	DefaultRetryDelay = 1 * time.Second

	// MaxMaxRetries is the maximum allowed retry count.
	MaxMaxRetries = 100

	// MaxTimeout is the maximum allowed request timeout.
	MaxTimeout = 10 * time.Minute
)

// Config is the resolved configuration: file values merged under
// environment values.
type Config struct {
	PublicKey  string        `yaml:"publicKey"`
	SecretKey  string        `yaml:"secretKey"`
	BaseURL    string        `yaml:"baseUrl"`
	Region     Region        `yaml:"region"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"maxRetries"`
	Debug      bool          `yaml:"debug"`
}

// Validate normalizes the config and rejects out-of-range values.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		c.BaseURL = c.Region.BaseURL()
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Timeout < 0 || c.Timeout > MaxTimeout {
		return fmt.Errorf("timeout %s out of range (0, %s]", c.Timeout, MaxTimeout)
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.MaxRetries < 0 || c.MaxRetries > MaxMaxRetries {
		return fmt.Errorf("maxRetries %d out of range [0, %d]", c.MaxRetries, MaxMaxRetries)
	}
	return nil
}
