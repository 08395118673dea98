package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_parseEnv(t *testing.T) {
	t.Run("overlays set variables", func(t *testing.T) {
		cfg := &Config{}
		cfg.LoadDefaults()

		parseEnv(cfg, []string{
			"DATABASE_DSN=postgres://env",
			"JWT_SECRET=env-secret",
			"JWT_EXP=7d",
			"HTTP_ADDR=:8080",
			"APP_ENV=production",
			"LOG_LEVEL=debug",
			"UNRELATED=1",
		})

		assert.Equal(t, "postgres://env", cfg.DatabaseDSN)
		assert.Equal(t, "env-secret", cfg.SecretKey)
		assert.Equal(t, 7*24*time.Hour, cfg.TokenValidityDuration)
		assert.Equal(t, ":8080", cfg.EndpointAddrHTTP)
		assert.Equal(t, EnvProduction, cfg.Environment)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("unset variables keep defaults", func(t *testing.T) {
		cfg := &Config{}
		cfg.LoadDefaults()
		want := *cfg

		parseEnv(cfg, nil)
		assert.Equal(t, want, *cfg)
	})

	t.Run("malformed duration panics", func(t *testing.T) {
		require.Panics(t, func() { parseEnv(&Config{}, []string{"JWT_EXP=soon"}) })
	})
}
