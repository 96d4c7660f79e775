package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("HTTP_PORT", "")
	t.Setenv("STORAGE_AUTH_KEY", "")
	t.Setenv("STORAGE_JOBS_KEY", "")
	t.Setenv("JWT_ACCESS_EXPIRES_IN", "")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "8080", cfg.App.HTTPPort)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, "auth-storage", cfg.Storage.AuthKey)
	assert.Equal(t, "job-storage", cfg.Storage.JobsKey)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessExpiresIn)
	assert.NotEmpty(t, cfg.JWT.AccessSecret)
}

func TestFromEnv_ProductionRequiresSecrets(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_ACCESS_SECRET", "")
	t.Setenv("JWT_REFRESH_SECRET", "")

	_, err := FromEnv()
	require.ErrorIs(t, err, errMissingRequiredEnv)
	assert.Contains(t, err.Error(), "JWT_ACCESS_SECRET")
	assert.Contains(t, err.Error(), "JWT_REFRESH_SECRET")
}

func TestFromEnv_InvalidValues(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("STORAGE_DRIVER", "etcd")
	t.Setenv("MOCK_API_LATENCY", "soon")
	t.Setenv("CLIENT_STRICT_ADD", "maybe")

	_, err := FromEnv()
	require.ErrorIs(t, err, errInvalidEnv)
	assert.Contains(t, err.Error(), "STORAGE_DRIVER")
	assert.Contains(t, err.Error(), "MOCK_API_LATENCY")
	assert.Contains(t, err.Error(), "CLIENT_STRICT_ADD")
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("STORAGE_DRIVER", "SQLite")
	t.Setenv("MOCK_API_LATENCY", "250ms")
	t.Setenv("CLIENT_REAPPLY_ON_LOAD", "true")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, 250*time.Millisecond, cfg.MockAPI.Latency)
	assert.True(t, cfg.Client.ReapplyOnLoad)
}
