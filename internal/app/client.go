package app

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"jobboard/internal/config"
	"jobboard/internal/infrastructure/apiclient"
	"jobboard/internal/infrastructure/mockapi"
	"jobboard/internal/infrastructure/persistence"
	"jobboard/internal/scheduler"
	"jobboard/internal/state/jobs"
	"jobboard/internal/state/session"
	"jobboard/internal/ws"
)

// Client is the client-side bundle: both stores over one storage area and
// one collaborator, plus the optional refresh schedule.
type Client struct {
	Jobs *jobs.Store
	Auth *session.Store

	api       *apiclient.Client
	kv        persistence.KV
	scheduler *scheduler.Scheduler
	cfg       config.Config
	logger    *log.Logger
}

// NewClient opens storage, picks the collaborator (HTTP, or the in-process
// mock API when cfg.Client.InProcess is set), builds both stores and
// restores their persisted subsets concurrently.
func NewClient(ctx context.Context, cfg config.Config, logger *log.Logger) (*Client, error) {
	if logger == nil {
		logger = log.Default()
	}
	kv, err := persistence.Open(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	c := &Client{kv: kv, cfg: cfg, logger: logger}

	var (
		jobsAPI    jobs.API
		authClient session.Client
	)
	if cfg.Client.InProcess {
		server := NewContainer(cfg, nil, logger)
		backend := mockapi.NewBackend(server.JobList, server.Jobs, server.Auth, cfg.MockAPI.Latency, logger)
		jobsAPI, authClient = backend, backend
	} else {
		c.api = apiclient.New(cfg.Client.APIBaseURL,
			apiclient.WithLogger(logger),
			apiclient.WithTokenSource(func() string { return c.Auth.Snapshot().Token }),
		)
		jobsAPI, authClient = c.api, c.api
	}

	jobOpts := []jobs.Option{
		jobs.WithAPI(jobsAPI),
		jobs.WithStorage(persistence.NewJSONStorage[jobs.Persisted](kv, cfg.Storage.JobsKey)),
		jobs.WithLogger(logger),
	}
	if cfg.Client.StrictAdd {
		jobOpts = append(jobOpts, jobs.WithStrictAdd())
	}
	if cfg.Client.ReapplyOnLoad {
		jobOpts = append(jobOpts, jobs.WithReapplyOnLoad())
	}
	authOpts := []session.Option{
		session.WithClient(authClient),
		session.WithStorage(persistence.NewJSONStorage[session.Persisted](kv, cfg.Storage.AuthKey)),
		session.WithLogger(logger),
	}
	if cfg.Client.SingleFlight {
		authOpts = append(authOpts, session.WithSingleFlight())
	}

	c.Jobs = jobs.New(jobOpts...)
	c.Auth = session.New(authOpts...)

	if err := c.restore(ctx); err != nil {
		_ = kv.Close()
		return nil, err
	}
	return c, nil
}

func (c *Client) restore(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := c.Jobs.Restore(gctx)
		return err
	})
	g.Go(func() error {
		_, err := c.Auth.Restore(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	return nil
}

// StartScheduler begins periodic reload and token refresh.
func (c *Client) StartScheduler(ctx context.Context) error {
	if c.scheduler != nil {
		return nil
	}
	s := scheduler.New(
		jobsReloader{c.Jobs},
		sessionRefresher{c.Auth},
		c.cfg.Client.ReloadSpec,
		c.cfg.Client.RefreshSpec,
		c.logger,
	)
	if err := s.Start(ctx); err != nil {
		return err
	}
	c.scheduler = s
	return nil
}

// Watch reloads the listing on every jobs_updated push until ctx is done.
// In-process clients have nothing to watch and return immediately.
func (c *Client) Watch(ctx context.Context) error {
	if c.api == nil {
		return nil
	}
	return c.api.Watch(ctx, func(evt ws.JobsUpdatedEvent) {
		c.logger.Printf("[Client] Jobs updated reason=%s job_id=%s", evt.Reason, evt.JobID)
		if _, err := c.Jobs.Reload(ctx); err != nil {
			c.logger.Printf("[Client] Reload after push failed err=%v", err)
		}
	})
}

func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	if c.scheduler != nil {
		c.scheduler.Stop()
	}
	return c.kv.Close()
}

type jobsReloader struct{ s *jobs.Store }

func (r jobsReloader) Reload(ctx context.Context) error {
	_, err := r.s.Reload(ctx)
	return err
}

type sessionRefresher struct{ s *session.Store }

func (r sessionRefresher) Authenticated() bool {
	st := r.s.Snapshot()
	return st.IsAuthenticated && st.RefreshToken != ""
}

func (r sessionRefresher) RefreshAuthToken(ctx context.Context) error {
	return r.s.RefreshAuthToken(ctx)
}
