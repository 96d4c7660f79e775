// Package memory holds process-local implementations of the server-side
// repositories. Data lives as long as the process.
package memory

import (
	"context"
	"fmt"
	"sync"

	"jobboard/internal/domain/job"
)

// Catalog keeps postings in insertion order.
type Catalog struct {
	mu   sync.RWMutex
	jobs []job.Job
}

func NewCatalog(seed []job.Job) *Catalog {
	return &Catalog{jobs: job.CloneAll(seed)}
}

func (c *Catalog) List(_ context.Context) ([]job.Job, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := job.CloneAll(c.jobs)
	if out == nil {
		out = []job.Job{}
	}
	return out, nil
}

func (c *Catalog) GetByID(_ context.Context, id string) (job.Job, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, j := range c.jobs {
		if j.ID == id {
			return j.Clone(), nil
		}
	}
	return job.Job{}, job.ErrNotFound
}

func (c *Catalog) Create(_ context.Context, j job.Job) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, existing := range c.jobs {
		if existing.ID == j.ID {
			return fmt.Errorf("job %s already exists", j.ID)
		}
	}
	c.jobs = append(c.jobs, j.Clone())
	return nil
}

var _ job.Catalog = (*Catalog)(nil)
