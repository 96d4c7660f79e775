// Package mockapi serves the store collaborators in-process, straight from
// the server usecases, with an artificial network delay.
package mockapi

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"jobboard/internal/domain/job"
	"jobboard/internal/state/jobs"
	"jobboard/internal/state/session"
	"jobboard/internal/usecase"
	"jobboard/internal/usecase/auth"
)

// Error carries the status the HTTP API would have answered with.
type Error struct {
	Status int
	Err    error
}

func (e *Error) Error() string   { return fmt.Sprintf("mockapi: %d: %v", e.Status, e.Err) }
func (e *Error) Unwrap() error   { return e.Err }
func (e *Error) StatusCode() int { return e.Status }

type Backend struct {
	list    usecase.JobListUsecase
	jobs    usecase.JobUsecase
	auth    auth.AuthUsecase
	latency time.Duration
	logger  *log.Logger
}

func NewBackend(list usecase.JobListUsecase, jobs usecase.JobUsecase, authUC auth.AuthUsecase, latency time.Duration, logger *log.Logger) *Backend {
	return &Backend{list: list, jobs: jobs, auth: authUC, latency: latency, logger: logger}
}

func (b *Backend) ListJobs(ctx context.Context) ([]job.Job, error) {
	if err := b.delay(ctx); err != nil {
		return nil, err
	}
	out, err := b.list.ListJobs(ctx, job.DefaultFilter())
	if err != nil {
		return nil, wrap(err)
	}
	return out, nil
}

func (b *Backend) GetJob(ctx context.Context, id string) (job.Job, error) {
	if err := b.delay(ctx); err != nil {
		return job.Job{}, err
	}
	j, err := b.jobs.GetJob(ctx, id)
	if err != nil {
		if errors.Is(err, usecase.ErrJobNotFound) {
			return job.Job{}, job.ErrNotFound
		}
		return job.Job{}, wrap(err)
	}
	return j, nil
}

func (b *Backend) CreateJob(ctx context.Context, in job.NewJob) (job.Job, error) {
	if err := b.delay(ctx); err != nil {
		return job.Job{}, err
	}
	j, err := b.jobs.CreateJob(ctx, in)
	if err != nil {
		return job.Job{}, wrap(err)
	}
	return j, nil
}

func (b *Backend) Login(ctx context.Context, email, password string) (session.Credentials, error) {
	if err := b.delay(ctx); err != nil {
		return session.Credentials{}, err
	}
	s, err := b.auth.Login(ctx, auth.LoginInput{Email: email, Password: password})
	if err != nil {
		return session.Credentials{}, wrap(err)
	}
	return credentials(s), nil
}

func (b *Backend) Register(ctx context.Context, in session.RegisterInput) (session.Credentials, error) {
	if err := b.delay(ctx); err != nil {
		return session.Credentials{}, err
	}
	s, err := b.auth.Register(ctx, auth.RegisterInput{
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
		Role:     in.Role,
	})
	if err != nil {
		return session.Credentials{}, wrap(err)
	}
	return credentials(s), nil
}

func (b *Backend) Refresh(ctx context.Context, refreshToken string) (session.Tokens, error) {
	if err := b.delay(ctx); err != nil {
		return session.Tokens{}, err
	}
	t, err := b.auth.Refresh(ctx, refreshToken)
	if err != nil {
		return session.Tokens{}, wrap(err)
	}
	return session.Tokens{Token: t.Token, RefreshToken: t.RefreshToken}, nil
}

// RequestPasswordReset logs the issued token in place of sending mail.
func (b *Backend) RequestPasswordReset(ctx context.Context, email string) error {
	if err := b.delay(ctx); err != nil {
		return err
	}
	tok, err := b.auth.RequestPasswordReset(ctx, email)
	if err != nil {
		return wrap(err)
	}
	if tok != "" && b.logger != nil {
		b.logger.Printf("[MockAPI] Password reset token issued email=%s token=%s", email, tok)
	}
	return nil
}

func (b *Backend) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := b.delay(ctx); err != nil {
		return err
	}
	if err := b.auth.ResetPassword(ctx, token, newPassword); err != nil {
		return wrap(err)
	}
	return nil
}

func (b *Backend) delay(ctx context.Context) error {
	if b.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(b.latency)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func credentials(s auth.Session) session.Credentials {
	return session.Credentials{User: s.User, Token: s.Token, RefreshToken: s.RefreshToken}
}

// wrap attaches the status the HTTP layer maps the usecase error to.
func wrap(err error) error {
	return &Error{Status: StatusFor(err), Err: err}
}

// StatusFor maps a usecase error onto an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrInvalidToken):
		return http.StatusForbidden
	case errors.Is(err, auth.ErrEmailAlreadyRegistered):
		return http.StatusConflict
	case errors.Is(err, auth.ErrInvalidInput), errors.Is(err, usecase.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrJobNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

var (
	_ jobs.API       = (*Backend)(nil)
	_ session.Client = (*Backend)(nil)
)
