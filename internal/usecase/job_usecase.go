package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobboard/internal/domain/job"
	"jobboard/internal/pkg/validate"
)

// JobsNotifier is told about every catalog change.
type JobsNotifier interface {
	NotifyJobsUpdated(reason string, j job.Job)
}

type JobUsecase interface {
	GetJob(ctx context.Context, id string) (job.Job, error)
	CreateJob(ctx context.Context, in job.NewJob) (job.Job, error)
}

type Jobs struct {
	jobs      job.Catalog
	cache     SearchCache
	notifier  JobsNotifier
	validator *validate.Validator
	logger    *log.Logger
	now       func() time.Time
	newID     func() string
}

func NewJobUsecase(jobs job.Catalog, cache SearchCache, notifier JobsNotifier, v *validate.Validator, logger *log.Logger) *Jobs {
	if v == nil {
		v = validate.New()
	}
	return &Jobs{
		jobs:      jobs,
		cache:     cache,
		notifier:  notifier,
		validator: v,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func (u *Jobs) GetJob(ctx context.Context, id string) (job.Job, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return job.Job{}, ErrJobNotFound
	}
	j, err := u.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return job.Job{}, ErrJobNotFound
		}
		return job.Job{}, ErrInternal
	}
	return j, nil
}

// CreateJob validates the payload, assigns identity and posting time, and
// drops every cached search so the new posting becomes visible.
func (u *Jobs) CreateJob(ctx context.Context, in job.NewJob) (job.Job, error) {
	if err := u.validator.Validate(in); err != nil {
		return job.Job{}, errors.Join(ErrInvalidInput, err)
	}

	j := in.Materialize(u.newID(), u.now())
	if err := u.jobs.Create(ctx, j); err != nil {
		u.logf("[Jobs] Create error err=%v", err)
		return job.Job{}, ErrInternal
	}
	u.logf("[Jobs] Created id=%s title=%q", j.ID, j.Title)

	if u.cache != nil {
		if err := u.cache.DeleteByPattern(ctx, searchKeyPrefix+"*"); err != nil {
			u.logf("[Jobs] Cache invalidate error err=%v", err)
		}
	}
	if u.notifier != nil {
		u.notifier.NotifyJobsUpdated("job_created", j)
	}
	return j, nil
}

func (u *Jobs) logf(format string, args ...any) {
	if u.logger != nil {
		u.logger.Printf(format, args...)
	}
}
