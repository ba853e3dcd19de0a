// Package config defines the portal client configuration and its loading hooks.
//
// Conventions:
// - Defaults come from New(); Load layers .env, an optional YAML file and PORTAL_ env vars on top.
// - Validation failures wrap ErrInvalidConfig; source failures wrap ErrLoadConfig.
package config

import (
	"time"
)

// Ledger backends.
const (
	LedgerFile  = "file"
	LedgerRedis = "redis"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// BaseURL is the portal backend root, e.g. "http://localhost:8000".
	BaseURL string `koanf:"base_url"`

	// RequestTimeout bounds every backend call. A hung verify request
	// surfaces as a transport error after this long.
	RequestTimeout time.Duration `koanf:"request_timeout"`

	// CSRFToken is sent as X-CSRF-Token on mutating requests. When empty the
	// client falls back to the "csrf" cookie.
	CSRFToken string `koanf:"csrf_token"`

	// SessionFile persists the cookie jar between CLI invocations. Empty disables persistence.
	SessionFile string `koanf:"session_file"`

	// LedgerBackend selects where the local application ledger lives: file or redis.
	LedgerBackend string `koanf:"ledger_backend"`

	// LedgerPath is the JSON file used by the file ledger.
	LedgerPath string `koanf:"ledger_path"`

	// RedisAddr and RedisKey configure the redis ledger.
	RedisAddr string `koanf:"redis_addr"`
	RedisKey  string `koanf:"redis_key"`

	// MetricsAddr exposes /metrics when set, e.g. ":9091".
	MetricsAddr string `koanf:"metrics_addr"`

	// StubAddr and StubOTPCode configure the development backend.
	StubAddr    string `koanf:"stub_addr"`
	StubOTPCode string `koanf:"stub_otp_code"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		LogFormat:      "text",
		BaseURL:        "http://localhost:8000",
		RequestTimeout: 15 * time.Second,
		SessionFile:    ".portal/session.json",
		LedgerBackend:  LedgerFile,
		LedgerPath:     ".portal/applications.json",
		RedisAddr:      "localhost:6379",
		RedisKey:       "portal:applications",
		StubAddr:       ":8000",
		StubOTPCode:    "123456",
	}
}
