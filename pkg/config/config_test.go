package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := fromViper(viper.New())

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, StoragePostgres, cfg.App.Storage)
	assert.Equal(t, DefaultTokenMinutes, cfg.JWT.Expiration)
	assert.Equal(t, 10080, cfg.JWT.Expiration)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, 5, cfg.Limit.LoginBurst)
	assert.Equal(t, "X-Forwarded-For", cfg.HTTP.ProxyHeader)
	assert.Empty(t, cfg.HTTP.TrustedProxies)
	assert.Error(t, cfg.Validate(), "an empty secret must be rejected")
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_EXPIRATION_MINUTES", "15")
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("LOGIN_RATE_PER_SECOND", "2.5")
	t.Setenv("HTTP_TRUSTED_PROXIES", "10.0.0.1, 10.1.0.0/16,")

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, 15, cfg.JWT.Expiration)
	assert.Equal(t, StorageMemory, cfg.App.Storage)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.InDelta(t, 2.5, cfg.Limit.LoginPerSecond, 0.0001)
	assert.Equal(t, []string{"10.0.0.1", "10.1.0.0/16"}, cfg.HTTP.TrustedProxies)
}

func TestValidate_UnknownStorage(t *testing.T) {
	cfg := fromViper(viper.New())
	cfg.JWT.Secret = "x"
	cfg.App.Storage = "sqlite"
	assert.Error(t, cfg.Validate())
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "registry", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/registry?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://override"
	assert.Equal(t, "postgres://override", c.ConnectionString())
}
