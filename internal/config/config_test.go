package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, cfg.OTPTTL)
	assert.Equal(t, "accounts", cfg.DynamoTables.Accounts)
	assert.Equal(t, "log", cfg.Notifier)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.True(t, cfg.TrustProxyHeaders)
}

func TestLoad_DefaultIsNotDevelopment(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.AppEnv)
	assert.False(t, cfg.Development())
}

func TestLoad_ExplicitDevelopment(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("TRUST_PROXY_HEADERS", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Development())
	assert.False(t, cfg.TrustProxyHeaders)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("OTP_TTL", "5m")
	t.Setenv("DYNAMO_TABLE_ACCOUNTS", "accounts-prod")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.Development())
	assert.Equal(t, 5*time.Minute, cfg.OTPTTL)
	assert.Equal(t, "accounts-prod", cfg.DynamoTables.Accounts)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("OTP_TTL", "ten minutes")
	_, err := Load()
	assert.Error(t, err)
}
