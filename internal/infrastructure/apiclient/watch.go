package apiclient

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/gorilla/websocket"

	"jobboard/internal/ws"
)

// Watch subscribes to the server's jobs_updated stream and calls fn for each
// event until ctx is done or the connection drops.
func (c *Client) Watch(ctx context.Context, fn func(ws.JobsUpdatedEvent)) error {
	url := c.baseURL + "/ws"
	switch {
	case strings.HasPrefix(url, "https://"):
		url = "wss://" + strings.TrimPrefix(url, "https://")
	case strings.HasPrefix(url, "http://"):
		url = "ws://" + strings.TrimPrefix(url, "http://")
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		var evt ws.JobsUpdatedEvent
		if err := json.Unmarshal(msg, &evt); err != nil {
			if c.logger != nil {
				c.logger.Printf("[API] Watch decode error err=%v", err)
			}
			continue
		}
		if evt.Type == ws.EventJobsUpdated {
			fn(evt)
		}
	}
}
