package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/internal/domain/job"
	"jobboard/internal/domain/user"
	"jobboard/internal/state/session"
	"jobboard/internal/ws"
)

func writeEnvelope(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"status": status, "message": message, "data": data})
}

func newTestServer(t *testing.T) (*httptest.Server, *string) {
	t.Helper()
	var lastAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/jobs", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 200, "ok", []job.Job{{ID: "1", Title: "Frontend Developer"}})
	})
	mux.HandleFunc("GET /api/jobs/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "1" {
			writeEnvelope(w, 404, "Not found", nil)
			return
		}
		writeEnvelope(w, 200, "ok", job.Job{ID: "1", Title: "Frontend Developer"})
	})
	mux.HandleFunc("POST /api/jobs", func(w http.ResponseWriter, r *http.Request) {
		lastAuth = r.Header.Get("Authorization")
		var in job.NewJob
		_ = json.NewDecoder(r.Body).Decode(&in)
		writeEnvelope(w, 201, "created", in.Materialize("srv-1", time.Now()))
	})
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in["password"] != "secret" {
			writeEnvelope(w, 401, "Invalid email or password", nil)
			return
		}
		writeEnvelope(w, 200, "ok", map[string]any{
			"user":         user.User{ID: "u1", Email: in["email"], Role: user.RoleCandidate},
			"token":        "access",
			"refreshToken": "refresh",
		})
	})
	mux.HandleFunc("POST /api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 403, "Session expired. Please login again.", nil)
	})
	mux.HandleFunc("POST /api/auth/password/forgot", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 202, "accepted", nil)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &lastAuth
}

func TestClient_Jobs(t *testing.T) {
	srv, lastAuth := newTestServer(t)
	c := New(srv.URL+"/", WithTokenSource(func() string { return "employer-token" }))
	ctx := context.Background()

	list, err := c.ListJobs(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	j, err := c.GetJob(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Frontend Developer", j.Title)

	_, err = c.GetJob(ctx, "nope")
	assert.ErrorIs(t, err, job.ErrNotFound)

	created, err := c.CreateJob(ctx, job.NewJob{Title: "Backend Engineer", Type: job.TypeContract})
	require.NoError(t, err)
	assert.Equal(t, "srv-1", created.ID)
	assert.Equal(t, "Bearer employer-token", *lastAuth)
}

func TestClient_GetJobEscapesID(t *testing.T) {
	var path, query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path, query = r.URL.EscapedPath(), r.URL.RawQuery
		writeEnvelope(w, 404, "Not found", nil)
	}))
	t.Cleanup(srv.Close)

	_, err := New(srv.URL).GetJob(context.Background(), "a/b?x#y")
	assert.ErrorIs(t, err, job.ErrNotFound)
	assert.Equal(t, "/api/jobs/a%2Fb%3Fx%23y", path)
	assert.Empty(t, query)
}

func TestClient_Auth(t *testing.T) {
	srv, _ := newTestServer(t)
	c := New(srv.URL)
	ctx := context.Background()

	creds, err := c.Login(ctx, "a@b.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "access", creds.Token)
	assert.Equal(t, "a@b.com", creds.User.Email)

	_, err = c.Login(ctx, "a@b.com", "wrong")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 401, se.StatusCode())
	assert.Equal(t, "Invalid email or password", se.Message)

	require.NoError(t, c.RequestPasswordReset(ctx, "a@b.com"))
}

func TestClient_FeedsSessionStore(t *testing.T) {
	srv, _ := newTestServer(t)
	s := session.New(session.WithClient(New(srv.URL)))
	ctx := context.Background()

	require.NoError(t, s.Login(ctx, "a@b.com", "secret"))
	assert.True(t, s.Snapshot().IsAuthenticated)

	err := s.RefreshAuthToken(ctx)
	require.ErrorIs(t, err, session.ErrSessionExpired)
	assert.Equal(t, 403, s.Snapshot().Error.Code)
}

func TestClient_Watch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := ws.NewHub(nil)
	go hub.Run(ctx)
	mux := http.NewServeMux()
	mux.Handle("/ws", ws.NewHandler(hub, nil))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	events := make(chan ws.JobsUpdatedEvent, 1)
	errc := make(chan error, 1)
	go func() {
		errc <- New(srv.URL).Watch(ctx, func(evt ws.JobsUpdatedEvent) { events <- evt })
	}()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 5*time.Millisecond)
	hub.NotifyJobsUpdated("job_created", job.Job{ID: "7"})

	select {
	case evt := <-events:
		assert.Equal(t, "7", evt.JobID)
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}

	cancel()
	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestClient_WatchDialError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	err := New(srv.URL).Watch(context.Background(), func(ws.JobsUpdatedEvent) {})
	require.Error(t, err)
	assert.ErrorIs(t, err, websocket.ErrBadHandshake)
}
