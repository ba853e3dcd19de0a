package config

import (
	"context"
	"errors"
	"io/fs"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix  = "PORTAL_"
	envConfig  = "PORTAL_CONFIG"
	envDotFile = "PORTAL_ENV_FILE"
	dotEnvFile = ".env"
)

// Load builds a Config by layering sources.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. .env (or PORTAL_ENV_FILE) folded into the process env; never overrides real env vars
//  3. YAML file if PORTAL_CONFIG is set
//  4. env (prefix PORTAL_)
func Load(_ context.Context) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	k := koanf.New(".")

	if path := os.Getenv(envConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, loadFailed(path, err)
		}
	}

	// PORTAL_BASE_URL -> base_url. Keys stay flat to match the koanf tags.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, loadFailed("env", err)
	}

	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, loadFailed("unmarshal", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadDotEnv reads an optional dotenv file. A missing default file is not an error,
// but an explicitly named one must exist. PORTAL_ENV_FILE="" disables the step.
func loadDotEnv() error {
	path, explicit := os.LookupEnv(envDotFile)
	if explicit && path == "" {
		return nil
	}
	if !explicit {
		path = dotEnvFile
	}
	err := godotenv.Load(path)
	if err == nil {
		return nil
	}
	if !explicit && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return loadFailed(path, err)
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return invalid("base_url must not be empty")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return invalid("base_url must be an absolute URL, got %q", c.BaseURL)
	}
	if c.RequestTimeout <= 0 {
		return invalid("request_timeout must be positive")
	}
	switch c.LedgerBackend {
	case LedgerFile:
		if c.LedgerPath == "" {
			return invalid("ledger_path must not be empty for the file ledger")
		}
	case LedgerRedis:
		if c.RedisAddr == "" || c.RedisKey == "" {
			return invalid("redis_addr and redis_key are required for the redis ledger")
		}
	default:
		return invalid("unknown ledger_backend %q", c.LedgerBackend)
	}
	return nil
}
