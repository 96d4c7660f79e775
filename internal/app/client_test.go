package app

import (
	"context"
	"io"
	"log"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/internal/config"
	"jobboard/internal/domain/user"
	"jobboard/internal/state/session"
)

func inProcessConfig(t *testing.T) config.Config {
	cfg := testConfig()
	cfg.Storage = config.StorageConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "client.db"),
		AuthKey:    "auth-storage",
		JobsKey:    "job-storage",
	}
	cfg.Client = config.ClientConfig{InProcess: true, ReloadSpec: "@every 1h", RefreshSpec: "@every 1h"}
	return cfg
}

func TestClient_InProcessRoundTrip(t *testing.T) {
	ctx := context.Background()
	cfg := inProcessConfig(t)
	quiet := log.New(io.Discard, "", 0)

	c, err := NewClient(ctx, cfg, quiet)
	require.NoError(t, err)

	st, err := c.Jobs.Reload(ctx)
	require.NoError(t, err)
	require.Len(t, st.Jobs, 1)
	c.Jobs.SaveJob(st.Jobs[0].ID)
	c.Jobs.ApplyToJob(st.Jobs[0].ID)

	require.NoError(t, c.Auth.Register(ctx, session.RegisterInput{
		Name: "Cand", Email: "cand@b.com", Password: "password123", Role: user.RoleCandidate,
	}))
	require.NoError(t, c.StartScheduler(ctx))
	require.NoError(t, c.Close())

	reopened, err := NewClient(ctx, cfg, quiet)
	require.NoError(t, err)
	defer reopened.Close()

	js := reopened.Jobs.Snapshot()
	assert.Len(t, js.SavedJobs, 1)
	assert.Len(t, js.AppliedJobs, 1)
	assert.Empty(t, js.Jobs)

	as := reopened.Auth.Snapshot()
	assert.True(t, as.IsAuthenticated)
	require.NotNil(t, as.User)
	assert.Equal(t, "cand@b.com", as.User.Email)
	assert.Equal(t, user.RoleCandidate, as.User.Role)

	assert.NoError(t, reopened.Watch(ctx))
}
