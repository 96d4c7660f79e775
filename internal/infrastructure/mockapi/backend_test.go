package mockapi

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/internal/domain/job"
	"jobboard/internal/domain/user"
	"jobboard/internal/infrastructure/memory"
	"jobboard/internal/pkg/jwt"
	"jobboard/internal/state/jobs"
	"jobboard/internal/state/session"
	"jobboard/internal/usecase"
	"jobboard/internal/usecase/auth"
)

func newBackend(latency time.Duration) *Backend {
	catalog := memory.NewCatalog(memory.SeedJobs(time.Now()))
	tokens := jwt.NewHMACService("a", "r", time.Minute, time.Hour)
	return NewBackend(
		usecase.NewJobListUsecase(catalog, nil, nil),
		usecase.NewJobUsecase(catalog, nil, nil, nil, nil),
		auth.NewService(memory.NewUsers(), tokens, nil, nil),
		latency,
		nil,
	)
}

func TestBackend_DrivesJobStore(t *testing.T) {
	ctx := context.Background()
	s := jobs.New(jobs.WithAPI(newBackend(0)))

	st, err := s.Reload(ctx)
	require.NoError(t, err)
	require.Len(t, st.Jobs, 1)
	assert.Equal(t, "Frontend Developer", st.Jobs[0].Title)

	_, err = s.Fetch(ctx, "missing")
	assert.ErrorIs(t, err, job.ErrNotFound)

	created, st, err := s.PostJob(ctx, job.NewJob{
		Title: "Backend Engineer", Company: "Acme", Location: "Berlin",
		Type: job.TypeContract, Description: "Go services", Requirements: []string{"Go"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Len(t, st.Jobs, 2)

	st, err = s.Reload(ctx)
	require.NoError(t, err)
	assert.Len(t, st.Jobs, 2)
}

func TestBackend_DrivesAuthStore(t *testing.T) {
	ctx := context.Background()
	s := session.New(session.WithClient(newBackend(0)))

	err := s.Login(ctx, "a@b.com", "secret")
	require.ErrorIs(t, err, session.ErrInvalidCredentials)
	assert.Equal(t, 401, s.Snapshot().Error.Code)

	require.NoError(t, s.Register(ctx, session.RegisterInput{
		Name: "Hiring", Email: "hr@acme.io", Password: "password123", Role: user.RoleEmployer,
	}))
	st := s.Snapshot()
	assert.True(t, st.IsAuthenticated)
	assert.Equal(t, user.RoleEmployer, st.User.Role)

	err = s.Register(ctx, session.RegisterInput{
		Name: "Again", Email: "hr@acme.io", Password: "password123", Role: user.RoleEmployer,
	})
	require.ErrorIs(t, err, session.ErrRegistrationFailed)
	assert.Equal(t, 409, s.Snapshot().Error.Code)

	require.NoError(t, s.RefreshAuthToken(ctx))
	assert.True(t, s.Snapshot().IsAuthenticated)

	s.Logout()
	require.NoError(t, s.Login(ctx, "hr@acme.io", "password123"))
	assert.Nil(t, s.Snapshot().Error)

	require.NoError(t, s.RequestPasswordReset(ctx, "hr@acme.io"))
	err = s.ResetPassword(ctx, "bogus", "password456")
	require.ErrorIs(t, err, session.ErrPasswordResetFailed)
	assert.Equal(t, 403, s.Snapshot().Error.Code)
}

func TestBackend_LatencyHonoursContext(t *testing.T) {
	b := newBackend(time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := b.ListJobs(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
