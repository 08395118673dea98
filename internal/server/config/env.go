package config

import (
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/dmitrijs2005/healthkeeper/internal/timex"
)

// envConfig mirrors the environment variables understood by the server.
// Unset variables leave the pointer nil and the earlier layer untouched.
type envConfig struct {
	EndpointAddrHTTP      *string         `env:"HTTP_ADDR"`
	DatabaseDSN           *string         `env:"DATABASE_DSN"`
	SecretKey             *string         `env:"JWT_SECRET"`
	TokenValidityDuration *timex.Duration `env:"JWT_EXP"`
	Environment           *string         `env:"APP_ENV"`
	LogLevel              *string         `env:"LOG_LEVEL"`
}

// parseEnv overlays config with values from environ ("KEY=value" pairs, as
// returned by os.Environ). A malformed value panics.
func parseEnv(config *Config, environ []string) {
	raw := envConfig{}
	if err := env.ParseWithOptions(&raw, env.Options{Environment: toMap(environ)}); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, raw.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, raw.DatabaseDSN)
	setString(&config.SecretKey, raw.SecretKey)
	setString(&config.Environment, raw.Environment)
	setString(&config.LogLevel, raw.LogLevel)
	if raw.TokenValidityDuration != nil {
		config.TokenValidityDuration = raw.TokenValidityDuration.Duration
	}
}

func toMap(environ []string) map[string]string {
	m := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		m[k] = v
	}
	return m
}
