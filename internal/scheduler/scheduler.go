// Package scheduler keeps a client's stores fresh on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

const runTimeout = 30 * time.Second

// Reloader refreshes the job listing.
type Reloader interface {
	Reload(ctx context.Context) error
}

// TokenRefresher renews the session's access token when there is a session
// to renew.
type TokenRefresher interface {
	Authenticated() bool
	RefreshAuthToken(ctx context.Context) error
}

type Scheduler struct {
	cron        *cron.Cron
	jobs        Reloader
	auth        TokenRefresher
	reloadSpec  string
	refreshSpec string
	logger      *log.Logger
}

// New builds a scheduler. An empty spec disables that entry; a nil
// collaborator does too.
func New(jobs Reloader, auth TokenRefresher, reloadSpec, refreshSpec string, logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = log.Default()
	}
	cl := cron.PrintfLogger(logger)
	return &Scheduler{
		cron:        cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		jobs:        jobs,
		auth:        auth,
		reloadSpec:  reloadSpec,
		refreshSpec: refreshSpec,
		logger:      logger,
	}
}

// Start registers the entries and starts the cron loop. The listing is
// reloaded once straight away.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.jobs != nil && s.reloadSpec != "" {
		if _, err := s.cron.AddFunc(s.reloadSpec, func() { s.RunReload(ctx) }); err != nil {
			return fmt.Errorf("cron.AddFunc reload: %w", err)
		}
	}
	if s.auth != nil && s.refreshSpec != "" {
		if _, err := s.cron.AddFunc(s.refreshSpec, func() { s.RunRefresh(ctx) }); err != nil {
			return fmt.Errorf("cron.AddFunc refresh: %w", err)
		}
	}

	s.cron.Start()
	s.logger.Printf("[Scheduler] Cron started reload=%q refresh=%q", s.reloadSpec, s.refreshSpec)

	if s.jobs != nil {
		go s.RunReload(ctx)
	}
	return nil
}

// Stop halts the loop and waits for running entries to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Printf("[Scheduler] Cron stopped")
}

func (s *Scheduler) RunReload(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	rctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()
	if err := s.jobs.Reload(rctx); err != nil {
		s.logger.Printf("[Scheduler] Reload error err=%v", err)
	}
}

func (s *Scheduler) RunRefresh(ctx context.Context) {
	if ctx.Err() != nil || !s.auth.Authenticated() {
		return
	}
	rctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()
	if err := s.auth.RefreshAuthToken(rctx); err != nil {
		s.logger.Printf("[Scheduler] Token refresh error err=%v", err)
	}
}
