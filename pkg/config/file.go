package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the config file name looked up in the working
// directory when no explicit path is given.
const DefaultConfigFile = "traceview.yaml"

// Load resolves the effective configuration: file values (when the file
// exists) overridden by environment variables, then validated. A missing
// file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFile
	}
	cfg := &Config{Region: RegionEU}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// env-only configuration
	case err != nil:
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	env := FromEnv()
	if env.PublicKey != "" {
		cfg.PublicKey = env.PublicKey
	}
	if env.SecretKey != "" {
		cfg.SecretKey = env.SecretKey
	}
	if env.BaseURL != "" {
		cfg.BaseURL = env.BaseURL
	}
	if v := os.Getenv(EnvRegion); v != "" {
		cfg.Region = Region(v)
	}
	if env.Debug {
		cfg.Debug = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
