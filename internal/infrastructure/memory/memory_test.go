package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/internal/domain/job"
	"jobboard/internal/domain/user"
)

func TestSeedJobs(t *testing.T) {
	start := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	jobs := SeedJobs(start)

	require.Len(t, jobs, 1)
	j := jobs[0]
	assert.Equal(t, "1", j.ID)
	assert.Equal(t, "Frontend Developer", j.Title)
	assert.Equal(t, "Tech Corp", j.Company)
	assert.Equal(t, float64(90000), j.Salary)
	assert.Equal(t, job.TypeFullTime, j.Type)
	assert.True(t, j.Remote)
	assert.Equal(t, job.ExperienceMid, j.ExperienceLevel)
	assert.Equal(t, 15, j.ApplicantsCount)
	assert.Equal(t, 150, j.ViewsCount)
	require.NotNil(t, j.ExpiresAt)
	assert.Equal(t, start.Add(7*24*time.Hour), *j.ExpiresAt)
}

func TestCatalog(t *testing.T) {
	ctx := context.Background()
	c := NewCatalog(SeedJobs(time.Now()))

	got, err := c.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Tech Corp", got.Company)

	_, err = c.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, job.ErrNotFound)

	require.NoError(t, c.Create(ctx, job.Job{ID: "2", Title: "Backend Engineer"}))
	assert.Error(t, c.Create(ctx, job.Job{ID: "2"}))

	list, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "1", list[0].ID)
	assert.Equal(t, "2", list[1].ID)

	list[0].Skills[0] = "mutated"
	again, _ := c.GetByID(ctx, "1")
	assert.Equal(t, "React", again.Skills[0])
}

func TestCatalog_EmptyListIsNotNil(t *testing.T) {
	list, err := NewCatalog(nil).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	u := NewUsers()

	a := user.Account{User: user.User{ID: "u1", Email: "A@B.com", Role: user.RoleCandidate}, PasswordHash: "h1"}
	require.NoError(t, u.Create(ctx, a))
	assert.ErrorIs(t, u.Create(ctx, user.Account{User: user.User{ID: "u2", Email: "a@b.com"}}), user.ErrEmailInUse)

	got, err := u.GetByEmail(ctx, " a@b.COM ")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)
	assert.Equal(t, "a@b.com", got.Email)

	require.NoError(t, u.UpdatePasswordHash(ctx, "u1", "h2"))
	got, err = u.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "h2", got.PasswordHash)

	assert.ErrorIs(t, u.UpdatePasswordHash(ctx, "nope", "x"), user.ErrNotFound)
	_, err = u.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, user.ErrNotFound)
}
