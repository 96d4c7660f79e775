package usecase

import (
	"context"
	"log"
	"time"

	"jobboard/internal/domain/job"
)

type JobListUsecase interface {
	ListJobs(ctx context.Context, f job.Filter) ([]job.Job, error)
}

type JobList struct {
	jobs   job.Catalog
	cache  SearchCache
	logger *log.Logger
}

func NewJobListUsecase(jobs job.Catalog, cache SearchCache, logger *log.Logger) *JobList {
	return &JobList{jobs: jobs, cache: cache, logger: logger}
}

// ListJobs returns the catalog narrowed by f. Filtered results go through
// the search cache; concurrent misses on one key wait briefly for the lock
// holder instead of all hitting the catalog.
func (u *JobList) ListJobs(ctx context.Context, f job.Filter) ([]job.Job, error) {
	cacheable := !f.IsDefault() && u.cache != nil
	cacheKey := ""
	lockKey := ""

	if cacheable {
		cacheKey = JobsSearchCacheKey(f)
		lockKey = JobsSearchLockKey(cacheKey)

		var cached []job.Job
		hit, err := u.cache.GetJSON(ctx, cacheKey, &cached)
		if err == nil && hit {
			u.logf("[Jobs] Cache HIT: %s", cacheKey)
			return cached, nil
		}
		u.logf("[Jobs] Cache MISS: %s", cacheKey)
	}

	lockAcquired := false
	if cacheable {
		ok, err := u.cache.SetIfNotExists(ctx, lockKey, "1", 30*time.Second)
		if err == nil && ok {
			lockAcquired = true
			u.logf("[Jobs] Lock acquired: %s", lockKey)
		} else if err == nil && !ok {
			jitter := time.Duration(time.Now().UnixNano()%201) * time.Millisecond
			select {
			case <-time.After(300*time.Millisecond + jitter):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			var cached []job.Job
			hit, err2 := u.cache.GetJSON(ctx, cacheKey, &cached)
			if err2 == nil && hit {
				u.logf("[Jobs] Cache HIT: %s", cacheKey)
				return cached, nil
			}
			u.logf("[Jobs] Lock wait fallback: %s", lockKey)
		}
	}

	all, err := u.jobs.List(ctx)
	if err != nil {
		u.logf("[Jobs] List error err=%v", err)
		return nil, ErrInternal
	}
	out := f.Apply(all)

	if cacheable {
		_ = u.cache.SetJSON(ctx, cacheKey, out, 0)
		u.logf("[Jobs] Cache SET: %s", cacheKey)
		if lockAcquired {
			_ = u.cache.Delete(ctx, lockKey)
		}
	}
	return out, nil
}

func (u *JobList) logf(format string, args ...any) {
	if u.logger != nil {
		u.logger.Printf(format, args...)
	}
}
