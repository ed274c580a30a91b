package config_test

import (
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlluizdevtech/linkhub/internal/config"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("LINKHUB_JWT_SECRET", testSecret)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.False(t, cfg.HTTP.TrustProxy)
	assert.Equal(t, "sqlite3", cfg.DB.Driver)
	assert.Equal(t, 5, cfg.RateLimit.Max)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, slog.LevelInfo, cfg.Log.Level)
	assert.False(t, cfg.FederatedLogin())
	assert.False(t, cfg.CodeExchange())
}

func TestLoad_MissingSecretIsFatal(t *testing.T) {
	t.Setenv("LINKHUB_JWT_SECRET", "")

	_, err := config.Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrMissingSecret))
}

func TestLoad_ShortSecret(t *testing.T) {
	t.Setenv("LINKHUB_JWT_SECRET", "too-short")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("LINKHUB_JWT_SECRET", testSecret)
	t.Setenv("LINKHUB_HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("LINKHUB_HTTP_TRUST_PROXY", "true")
	t.Setenv("LINKHUB_DB_DRIVER", "postgres")
	t.Setenv("LINKHUB_DB_DSN", "postgres://localhost/linkhub")
	t.Setenv("LINKHUB_GOOGLE_CLIENT_ID", "client.apps.googleusercontent.com")
	t.Setenv("LINKHUB_GOOGLE_CLIENT_SECRET", "shh")
	t.Setenv("LINKHUB_GOOGLE_REDIRECT_URL", "postmessage")
	t.Setenv("LINKHUB_RATELIMIT_MAX", "10")
	t.Setenv("LINKHUB_RATELIMIT_WINDOW", "1m")
	t.Setenv("LINKHUB_LOG_LEVEL", "debug")
	t.Setenv("LINKHUB_LOG_FORMAT", "JSON")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.HTTP.Addr)
	assert.True(t, cfg.HTTP.TrustProxy)
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, "client.apps.googleusercontent.com", cfg.Google.ClientID)
	assert.True(t, cfg.FederatedLogin())
	assert.True(t, cfg.CodeExchange())
	assert.Equal(t, 10, cfg.RateLimit.Max)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, slog.LevelDebug, cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_TokenLifetimeIsNotConfigurable(t *testing.T) {
	t.Setenv("LINKHUB_JWT_SECRET", testSecret)
	t.Setenv("LINKHUB_JWT_LIFETIME", "a week")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, testSecret, cfg.JWT.Secret)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
		want string
	}{
		{"driver", "LINKHUB_DB_DRIVER", "oracle", "LINKHUB_DB_DRIVER"},
		{"window", "LINKHUB_RATELIMIT_WINDOW", "soon", "LINKHUB_RATELIMIT_WINDOW"},
		{"max", "LINKHUB_RATELIMIT_MAX", "0", "LINKHUB_RATELIMIT_MAX"},
		{"log level", "LINKHUB_LOG_LEVEL", "loud", "LINKHUB_LOG_LEVEL"},
		{"log format", "LINKHUB_LOG_FORMAT", "xml", "LINKHUB_LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LINKHUB_JWT_SECRET", testSecret)
			t.Setenv(tt.key, tt.val)

			_, err := config.Load()
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.want), "error %q should mention %s", err, tt.want)
		})
	}
}
