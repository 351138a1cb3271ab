package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	t.Setenv("VINTI4_POS_ID", "9999")
	t.Setenv("VINTI4_POS_AUT_CODE", "ABC123")

	cfg, err := LoadFromEnv()

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 9090, cfg.Server.MetricsPort)
	assert.Equal(t, "https://mc.vinti4net.cv/BizMPIOnUs/CardPayment", cfg.Gateway.PostURL)
	assert.Equal(t, "132", cfg.Gateway.Currency)
	assert.Equal(t, "pt", cfg.Gateway.Language)
	assert.Equal(t, "env", cfg.Secrets.Backend)
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestLoadFromEnv_MissingPosID(t *testing.T) {
	t.Setenv("VINTI4_POS_ID", "")
	t.Setenv("VINTI4_POS_AUT_CODE", "ABC123")

	cfg, err := LoadFromEnv()

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "VINTI4_POS_ID")
}

func TestLoadFromEnv_MissingAutCodeWithEnvBackend(t *testing.T) {
	t.Setenv("VINTI4_POS_ID", "9999")
	t.Setenv("VINTI4_POS_AUT_CODE", "")

	cfg, err := LoadFromEnv()

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "VINTI4_POS_AUT_CODE")
}

func TestLoadFromEnv_SecretBackendRequiresPath(t *testing.T) {
	t.Setenv("VINTI4_POS_ID", "9999")
	t.Setenv("SECRET_BACKEND", "vault")
	t.Setenv("SECRET_PATH", "")

	cfg, err := LoadFromEnv()

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "SECRET_PATH")
}

func TestLoadFromEnv_VaultBackend(t *testing.T) {
	t.Setenv("VINTI4_POS_ID", "9999")
	t.Setenv("SECRET_BACKEND", "vault")
	t.Setenv("SECRET_PATH", "vinti4/9999")
	t.Setenv("VAULT_ADDR", "https://vault.example.cv:8200")
	t.Setenv("VAULT_TOKEN", "dev-token")

	cfg, err := LoadFromEnv()

	require.NoError(t, err)
	assert.Equal(t, "vault", cfg.Secrets.Backend)
	assert.Equal(t, "vinti4/9999", cfg.Secrets.SecretPath)
	assert.Equal(t, "https://vault.example.cv:8200", cfg.Secrets.VaultAddress)
	assert.Equal(t, "secret", cfg.Secrets.VaultMountPath)
}

func TestLoadFromEnv_UnsupportedBackend(t *testing.T) {
	t.Setenv("VINTI4_POS_ID", "9999")
	t.Setenv("SECRET_BACKEND", "gcp")
	t.Setenv("SECRET_PATH", "vinti4/9999")

	cfg, err := LoadFromEnv()

	require.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("VINTI4_POS_ID", "9999")
	t.Setenv("VINTI4_POS_AUT_CODE", "ABC123")
	t.Setenv("SERVER_PORT", "8443")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("VINTI4_CURRENCY", "978")
	t.Setenv("LOG_DEVELOPMENT", "true")

	cfg, err := LoadFromEnv()

	require.NoError(t, err)
	assert.Equal(t, 8443, cfg.Server.Port)
	assert.Equal(t, 2.5, cfg.Server.RateLimitRPS)
	assert.Equal(t, "978", cfg.Gateway.Currency)
	assert.True(t, cfg.Logger.Development)
}
