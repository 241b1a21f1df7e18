// Package config loads settings from an optional YAML file, an optional
// .env file and CONEXA_* environment variables, in that order of
// precedence from lowest to highest.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CONEXA_"

type Config struct {
	Web struct {
		Address string `yaml:"address"`
		// BackendURL is where the frontend reaches the backend REST API.
		BackendURL     string        `yaml:"backend_url"`
		BackendTimeout time.Duration `yaml:"backend_timeout"`
		SecureCookies  bool          `yaml:"secure_cookies"`
	} `yaml:"web"`
	Backend struct {
		Address        string        `yaml:"address"`
		DBPath         string        `yaml:"db_path"`
		TokenTTL       time.Duration `yaml:"token_ttl"`
		AllowedOrigins []string      `yaml:"allowed_origins"`
	} `yaml:"backend"`
	Session struct {
		Lifetime    time.Duration `yaml:"lifetime"`
		IdleTimeout time.Duration `yaml:"idle_timeout"`
	} `yaml:"session"`
	RateLimit struct {
		RPS   float64 `yaml:"rps"`
		Burst int     `yaml:"burst"`
	} `yaml:"rate_limit"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // json|console
	} `yaml:"logging"`
}

// Default returns the settings used when nothing overrides them.
func Default() *Config {
	c := &Config{}
	c.Web.Address = ":8080"
	c.Web.BackendURL = "http://localhost:8081"
	c.Web.BackendTimeout = 10 * time.Second
	c.Backend.Address = ":8081"
	c.Backend.DBPath = "data/badger"
	c.Backend.TokenTTL = 24 * time.Hour
	c.Session.Lifetime = 24 * time.Hour
	c.Session.IdleTimeout = 2 * time.Hour
	c.RateLimit.RPS = 5
	c.RateLimit.Burst = 10
	c.Logging.Level = "info"
	c.Logging.Format = "json"
	return c
}

// Load reads path (when it exists), then .env, then the environment. An
// empty path skips the file.
func Load(path string) (*Config, error) {
	c := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, c); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	// .env is optional; variables already set win.
	_ = godotenv.Load(".env")

	if err := c.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	dur := func(name string, dst *time.Duration) error {
		v, ok := lookup(EnvPrefix + name)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
		}
		*dst = d
		return nil
	}

	str("WEB_ADDRESS", &c.Web.Address)
	str("BACKEND_URL", &c.Web.BackendURL)
	str("BACKEND_ADDRESS", &c.Backend.Address)
	str("DB_PATH", &c.Backend.DBPath)
	str("LOG_LEVEL", &c.Logging.Level)
	str("LOG_FORMAT", &c.Logging.Format)

	if v, ok := lookup(EnvPrefix + "ALLOWED_ORIGINS"); ok && v != "" {
		c.Backend.AllowedOrigins = splitList(v)
	}
	if v, ok := lookup(EnvPrefix + "SECURE_COOKIES"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sSECURE_COOKIES: %w", EnvPrefix, err)
		}
		c.Web.SecureCookies = b
	}
	if v, ok := lookup(EnvPrefix + "RATE_RPS"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%sRATE_RPS: %w", EnvPrefix, err)
		}
		c.RateLimit.RPS = f
	}
	if v, ok := lookup(EnvPrefix + "RATE_BURST"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sRATE_BURST: %w", EnvPrefix, err)
		}
		c.RateLimit.Burst = n
	}

	for name, dst := range map[string]*time.Duration{
		"BACKEND_TIMEOUT":      &c.Web.BackendTimeout,
		"TOKEN_TTL":            &c.Backend.TokenTTL,
		"SESSION_LIFETIME":     &c.Session.Lifetime,
		"SESSION_IDLE_TIMEOUT": &c.Session.IdleTimeout,
	} {
		if err := dur(name, dst); err != nil {
			return err
		}
	}
	return nil
}

// Validate rejects settings the servers cannot start with.
func (c *Config) Validate() error {
	if c.Web.Address == "" {
		return errors.New("web.address is required")
	}
	if c.Web.BackendURL == "" {
		return errors.New("web.backend_url is required")
	}
	if c.Session.Lifetime <= 0 {
		return errors.New("session.lifetime must be positive")
	}
	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
		return errors.New("rate_limit.rps and rate_limit.burst must be positive")
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
