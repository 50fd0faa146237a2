// Package config loads the console's settings from the environment and an
// optional .env file. Every key is read with the SCHOOLERP_ prefix, for
// example SCHOOLERP_API_URL.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"schoolerp/internal/logging"
)

// EnvPrefix is prepended to every key.
const EnvPrefix = "SCHOOLERP"

// Defaults
const (
	DefaultAddr        = "127.0.0.1:5174"
	DefaultAPIURL      = "http://localhost:3000/api"
	DefaultDBPath      = "schoolerp.db"
	DefaultSlowRequest = 500 * time.Millisecond
	DefaultRateLimit   = 20
)

// Config holds resolved settings.
type Config struct {
	Env         string
	Addr        string
	APIURL      string
	DBPath      string
	LogLevel    string
	LogFormat   string
	CSRFKey     []byte // 32 bytes; nil when unset outside production
	SlowRequest time.Duration
	RateLimit   int // requests per second per client IP
}

// Production reports whether the console runs with production settings.
func (c Config) Production() bool {
	return strings.EqualFold(c.Env, "production")
}

// Load reads dotEnvPath (when it exists) into the process environment and
// resolves the settings. An empty dotEnvPath means ".env".
func Load(dotEnvPath string) (Config, error) {
	if dotEnvPath == "" {
		dotEnvPath = ".env"
	}
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return Config{}, fmt.Errorf("config: load %s: %w", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("config: stat %s: %w", dotEnvPath, err)
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetDefault("env", "development")
	v.SetDefault("addr", DefaultAddr)
	v.SetDefault("api_url", DefaultAPIURL)
	v.SetDefault("db_path", DefaultDBPath)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("csrf_key", "")
	v.SetDefault("slow_request_ms", int(DefaultSlowRequest/time.Millisecond))
	v.SetDefault("rate_limit", DefaultRateLimit)

	cfg := Config{
		Env:         v.GetString("env"),
		Addr:        v.GetString("addr"),
		APIURL:      strings.TrimRight(v.GetString("api_url"), "/"),
		DBPath:      v.GetString("db_path"),
		LogLevel:    v.GetString("log_level"),
		LogFormat:   v.GetString("log_format"),
		SlowRequest: time.Duration(v.GetInt("slow_request_ms")) * time.Millisecond,
		RateLimit:   v.GetInt("rate_limit"),
	}

	if raw := strings.TrimSpace(v.GetString("csrf_key")); raw != "" {
		key, err := hex.DecodeString(raw)
		if err != nil || len(key) != 32 {
			return Config{}, errors.New("config: CSRF_KEY must be 64 hex characters")
		}
		cfg.CSRFKey = key
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: API_URL %q is not an absolute http(s) URL", c.APIURL)
	}
	if c.DBPath == "" {
		return errors.New("config: DB_PATH is empty")
	}
	if err := logging.Validate(c.LogLevel, c.LogFormat); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Production() && c.CSRFKey == nil {
		return errors.New("config: CSRF_KEY is required in production")
	}
	if c.SlowRequest <= 0 {
		return errors.New("config: SLOW_REQUEST_MS must be positive")
	}
	if c.RateLimit <= 0 {
		return errors.New("config: RATE_LIMIT must be positive")
	}
	return nil
}
