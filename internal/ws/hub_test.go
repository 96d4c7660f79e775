package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/internal/domain/job"
)

func TestHub_BroadcastsJobsUpdated(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil)
	go hub.Run(ctx)

	srv := httptest.NewServer(NewHandler(hub, nil))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.NotifyJobsUpdated("job_created", job.Job{ID: "42"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var evt JobsUpdatedEvent
	require.NoError(t, json.Unmarshal(msg, &evt))
	assert.Equal(t, EventJobsUpdated, evt.Type)
	assert.Equal(t, "job_created", evt.Reason)
	assert.Equal(t, "42", evt.JobID)
	assert.NotEmpty(t, evt.Timestamp)
}

func TestHub_UnregisterOnClose(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil)
	go hub.Run(ctx)

	srv := httptest.NewServer(NewHandler(hub, nil))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 5*time.Millisecond)
}

func TestHub_NilIsSafe(t *testing.T) {
	var hub *Hub
	hub.NotifyJobsUpdated("job_created", job.Job{ID: "1"})
	hub.Broadcast([]byte("x"))
	assert.Zero(t, hub.ClientCount())
}
