// Package apiclient talks to the job board HTTP API and implements the store
// collaborator ports.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"jobboard/internal/domain/job"
	"jobboard/internal/state/jobs"
	"jobboard/internal/state/session"
)

// StatusError is a non-2xx answer. Message comes from the response envelope
// when present.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api error: status=%d message=%s", e.Status, e.Message)
}

func (e *StatusError) StatusCode() int { return e.Status }

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type Client struct {
	baseURL string
	http    *http.Client
	logger  *log.Logger
	token   func() string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }

func WithLogger(l *log.Logger) Option { return func(c *Client) { c.logger = l } }

// WithTokenSource supplies the bearer token attached to authenticated calls.
func WithTokenSource(fn func() string) Option { return func(c *Client) { c.token = fn } }

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) ListJobs(ctx context.Context) ([]job.Job, error) {
	var out []job.Job
	if err := c.do(ctx, http.MethodGet, "/api/jobs", nil, false, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []job.Job{}
	}
	return out, nil
}

func (c *Client) GetJob(ctx context.Context, id string) (job.Job, error) {
	var out job.Job
	err := c.do(ctx, http.MethodGet, "/api/jobs/"+url.PathEscape(id), nil, false, &out)
	var se *StatusError
	if errors.As(err, &se) && se.Status == http.StatusNotFound {
		return job.Job{}, job.ErrNotFound
	}
	if err != nil {
		return job.Job{}, err
	}
	return out, nil
}

func (c *Client) CreateJob(ctx context.Context, in job.NewJob) (job.Job, error) {
	var out job.Job
	if err := c.do(ctx, http.MethodPost, "/api/jobs", in, true, &out); err != nil {
		return job.Job{}, err
	}
	return out, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (session.Credentials, error) {
	body := map[string]string{"email": email, "password": password}
	var out session.Credentials
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, false, &out); err != nil {
		return session.Credentials{}, err
	}
	return out, nil
}

func (c *Client) Register(ctx context.Context, in session.RegisterInput) (session.Credentials, error) {
	var out session.Credentials
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", in, false, &out); err != nil {
		return session.Credentials{}, err
	}
	return out, nil
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (session.Tokens, error) {
	body := map[string]string{"refreshToken": refreshToken}
	var out session.Tokens
	if err := c.do(ctx, http.MethodPost, "/api/auth/refresh", body, false, &out); err != nil {
		return session.Tokens{}, err
	}
	return out, nil
}

func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/password/forgot", map[string]string{"email": email}, false, nil)
}

func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	body := map[string]string{"token": token, "password": newPassword}
	return c.do(ctx, http.MethodPost, "/api/auth/password/reset", body, false, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in any, authed bool, out any) error {
	if c == nil || c.http == nil {
		return errors.New("nil api client")
	}
	endpoint := c.baseURL + path

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed && c.token != nil {
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	rb, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return err
	}

	var env envelope
	decodeErr := json.Unmarshal(rb, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := env.Message
		if decodeErr != nil || msg == "" {
			msg = strings.TrimSpace(string(rb))
		}
		if c.logger != nil {
			c.logger.Printf("[API] Request error method=%s endpoint=%s status=%d message=%q", method, endpoint, resp.StatusCode, msg)
		}
		return &StatusError{Status: resp.StatusCode, Message: msg}
	}
	if out == nil {
		return nil
	}
	if decodeErr != nil {
		return fmt.Errorf("decode %s: %w", path, decodeErr)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s data: %w", path, err)
	}
	return nil
}

var (
	_ jobs.API       = (*Client)(nil)
	_ session.Client = (*Client)(nil)
)
