package scheduler

import (
	"context"
	"errors"
	"io"
	"log"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReloader struct {
	calls atomic.Int32
	err   error
}

func (f *fakeReloader) Reload(context.Context) error {
	f.calls.Add(1)
	return f.err
}

type fakeRefresher struct {
	authed atomic.Bool
	calls  atomic.Int32
}

func (f *fakeRefresher) Authenticated() bool { return f.authed.Load() }

func (f *fakeRefresher) RefreshAuthToken(context.Context) error {
	f.calls.Add(1)
	return nil
}

var quiet = log.New(io.Discard, "", 0)

func TestScheduler_RunsEntries(t *testing.T) {
	jobs := &fakeReloader{}
	auth := &fakeRefresher{}
	auth.authed.Store(true)

	s := New(jobs, auth, "@every 1s", "@every 1s", quiet)
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Eventually(t, func() bool { return jobs.calls.Load() >= 2 }, 3*time.Second, 20*time.Millisecond)
	assert.Eventually(t, func() bool { return auth.calls.Load() >= 1 }, 3*time.Second, 20*time.Millisecond)
}

func TestScheduler_RefreshSkipsAnonymous(t *testing.T) {
	auth := &fakeRefresher{}
	s := New(nil, auth, "", "@every 1s", quiet)

	s.RunRefresh(context.Background())
	assert.Zero(t, auth.calls.Load())

	auth.authed.Store(true)
	s.RunRefresh(context.Background())
	assert.EqualValues(t, 1, auth.calls.Load())
}

func TestScheduler_ReloadErrorIsLogged(t *testing.T) {
	jobs := &fakeReloader{err: errors.New("offline")}
	s := New(jobs, nil, "@every 1h", "", quiet)
	s.RunReload(context.Background())
	assert.EqualValues(t, 1, jobs.calls.Load())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.RunReload(ctx)
	assert.EqualValues(t, 1, jobs.calls.Load())
}

func TestScheduler_InvalidSpec(t *testing.T) {
	s := New(&fakeReloader{}, nil, "every tuesday", "", quiet)
	assert.Error(t, s.Start(context.Background()))
}
