package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// MinSecretLength is the shortest accepted HS256 signing secret, in bytes.
const MinSecretLength = 32

// ErrMissingSecret is returned by Load when no JWT signing secret is configured.
// The server must refuse to start without one.
var ErrMissingSecret = errors.New("LINKHUB_JWT_SECRET is required")

type Config struct {
	HTTP struct {
		Addr string
		// TrustProxy enables X-Forwarded-For / X-Real-IP handling. Leave off
		// unless a reverse proxy overwrites those headers, otherwise clients
		// can pick their own rate-limit key.
		TrustProxy bool
	}
	DB struct {
		Driver string
		DSN    string
	}
	// Session tokens always live auth.DefaultTokenLifetime; only the
	// signing secret is configurable.
	JWT struct {
		Secret string
	}
	Google struct {
		ClientID     string
		ClientSecret string
		RedirectURL  string
	}
	RateLimit struct {
		Max    int
		Window time.Duration
	}
	Log struct {
		Level  slog.Level
		Format string
	}
}

// FederatedLogin reports whether Google sign-in is configured.
func (c *Config) FederatedLogin() bool {
	return c.Google.ClientID != ""
}

// CodeExchange reports whether the authorization-code variant of Google
// sign-in can be used.
func (c *Config) CodeExchange() bool {
	return c.FederatedLogin() && c.Google.ClientSecret != "" && c.Google.RedirectURL != ""
}

// Load reads config from environment (LINKHUB_ prefix) and optional linkhub.yaml.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("LINKHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("linkhub")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional config file

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.trust_proxy", false)
	v.SetDefault("db.driver", "sqlite3")
	v.SetDefault("db.dsn", "linkhub.db")
	v.SetDefault("ratelimit.max", 5)
	v.SetDefault("ratelimit.window", "15m")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.HTTP.TrustProxy = v.GetBool("http.trust_proxy")
	cfg.DB.Driver = v.GetString("db.driver")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.JWT.Secret = v.GetString("jwt.secret")
	cfg.Google.ClientID = v.GetString("google.client_id")
	cfg.Google.ClientSecret = v.GetString("google.client_secret")
	cfg.Google.RedirectURL = v.GetString("google.redirect_url")
	cfg.RateLimit.Max = v.GetInt("ratelimit.max")
	cfg.Log.Format = strings.ToLower(v.GetString("log.format"))

	window, err := time.ParseDuration(v.GetString("ratelimit.window"))
	if err != nil {
		return nil, fmt.Errorf("invalid LINKHUB_RATELIMIT_WINDOW: %w", err)
	}
	cfg.RateLimit.Window = window

	if err := cfg.Log.Level.UnmarshalText([]byte(v.GetString("log.level"))); err != nil {
		return nil, fmt.Errorf("invalid LINKHUB_LOG_LEVEL: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		return ErrMissingSecret
	}
	if len(c.JWT.Secret) < MinSecretLength {
		return fmt.Errorf("LINKHUB_JWT_SECRET must be at least %d bytes", MinSecretLength)
	}
	if c.DB.DSN == "" {
		return fmt.Errorf("LINKHUB_DB_DSN is required")
	}
	switch c.DB.Driver {
	case "sqlite3", "mysql", "postgres":
	default:
		return fmt.Errorf("LINKHUB_DB_DRIVER must be sqlite3, mysql, or postgres (got %q)", c.DB.Driver)
	}
	if c.RateLimit.Max <= 0 {
		return fmt.Errorf("LINKHUB_RATELIMIT_MAX must be positive")
	}
	if c.RateLimit.Window <= 0 {
		return fmt.Errorf("LINKHUB_RATELIMIT_WINDOW must be positive")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("LINKHUB_LOG_FORMAT must be text or json (got %q)", c.Log.Format)
	}
	return nil
}
