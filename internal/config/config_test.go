package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "v3", cfg.EmailPolicyVersion)
	assert.Equal(t, "master@master.com", cfg.BootstrapAdminEmail)
	assert.Equal(t, "dominio.com", cfg.EmailAllowedDomain)
	assert.Equal(t, time.Duration(0), cfg.RoleCheckCacheTTL)
	assert.Equal(t, 30*time.Second, cfg.ServerTimeout)
	assert.Equal(t, "@daily", cfg.StatsSnapshotSchedule)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("BOOTSTRAP_ADMIN_EMAIL", "admin@fittrack.app")
	t.Setenv("ROLE_CHECK_CACHE_TTL_SECONDS", "15")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "admin@fittrack.app", cfg.BootstrapAdminEmail)
	assert.Equal(t, 15*time.Second, cfg.RoleCheckCacheTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsMissingFirebaseKeyFile(t *testing.T) {
	t.Setenv("FIREBASE_SERVICE_ACCOUNT_KEY_PATH", "/nonexistent/key.json")

	_, err := Load()
	assert.Error(t, err)
}
