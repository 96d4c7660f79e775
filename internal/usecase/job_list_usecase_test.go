package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/internal/domain/job"
	"jobboard/internal/infrastructure/memory"
)

type fakeCache struct {
	mu    sync.Mutex
	data  map[string][]byte
	locks map[string]bool
	sets  int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}, locks: map[string]bool{}}
}

func (c *fakeCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *fakeCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = b
	c.sets++
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	delete(c.locks, key)
	return nil
}

func (c *fakeCache) DeleteByPattern(_ context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

func (c *fakeCache) SetIfNotExists(_ context.Context, key, _ string, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.locks[key] {
		return false, nil
	}
	c.locks[key] = true
	return true, nil
}

type countingCatalog struct {
	job.Catalog
	lists int
	err   error
}

func (c *countingCatalog) List(ctx context.Context) ([]job.Job, error) {
	c.lists++
	if c.err != nil {
		return nil, c.err
	}
	return c.Catalog.List(ctx)
}

func seededCatalog() *countingCatalog {
	cat := memory.NewCatalog(memory.SeedJobs(time.Now()))
	_ = cat.Create(context.Background(), job.Job{
		ID: "2", Title: "Backend Engineer", Company: "Acme", Location: "Berlin",
		Salary: 120000, Type: job.TypeContract, ExperienceLevel: job.ExperienceSenior,
	})
	return &countingCatalog{Catalog: cat}
}

func TestJobList_Unfiltered(t *testing.T) {
	cat := seededCatalog()
	cache := newFakeCache()
	uc := NewJobListUsecase(cat, cache, nil)

	items, err := uc.ListJobs(context.Background(), job.DefaultFilter())
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Zero(t, cache.sets)
}

func TestJobList_FilteredIsCached(t *testing.T) {
	cat := seededCatalog()
	cache := newFakeCache()
	uc := NewJobListUsecase(cat, cache, nil)

	f := job.DefaultFilter()
	f.Search = "frontend"

	items, err := uc.ListJobs(context.Background(), f)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "1", items[0].ID)

	items, err = uc.ListJobs(context.Background(), f)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, cat.lists)
	assert.Equal(t, 1, cache.sets)
}

func TestJobList_NoCache(t *testing.T) {
	cat := seededCatalog()
	uc := NewJobListUsecase(cat, nil, nil)

	f := job.DefaultFilter()
	f.JobType = []job.Type{job.TypeContract}
	items, err := uc.ListJobs(context.Background(), f)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "2", items[0].ID)
}

func TestJobList_EmptyResultIsNotNil(t *testing.T) {
	uc := NewJobListUsecase(seededCatalog(), nil, nil)
	f := job.DefaultFilter()
	f.SalaryRange = job.SalaryRange{190000, 200000}

	items, err := uc.ListJobs(context.Background(), f)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestJobList_CatalogError(t *testing.T) {
	cat := seededCatalog()
	cat.err = errors.New("down")
	uc := NewJobListUsecase(cat, nil, nil)

	_, err := uc.ListJobs(context.Background(), job.DefaultFilter())
	assert.ErrorIs(t, err, ErrInternal)
}

func TestJobsSearchCacheKey(t *testing.T) {
	a := job.DefaultFilter()
	a.Search = "  Frontend   Developer "
	a.JobType = []job.Type{job.TypeRemote, job.TypeFullTime}

	b := job.DefaultFilter()
	b.Search = "frontend developer"
	b.JobType = []job.Type{job.TypeFullTime, job.TypeRemote}

	assert.Equal(t, JobsSearchCacheKey(a), JobsSearchCacheKey(b))
	assert.True(t, strings.HasPrefix(JobsSearchCacheKey(a), "jobs:search:"))

	b.Search = "backend"
	assert.NotEqual(t, JobsSearchCacheKey(a), JobsSearchCacheKey(b))

	key := JobsSearchCacheKey(a)
	assert.Equal(t, "jobs:lock:"+strings.TrimPrefix(key, "jobs:search:"), JobsSearchLockKey(key))
}
