package job

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("job not found")

// Catalog is the server-side source of postings.
type Catalog interface {
	List(ctx context.Context) ([]Job, error)
	GetByID(ctx context.Context, id string) (Job, error)
	Create(ctx context.Context, j Job) error
}
