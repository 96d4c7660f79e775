package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"jobboard/internal/domain/job"
)

type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	logger     *log.Logger
}

func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 1024),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		logger:     logger,
	}
}

// Run owns the client set until ctx is done, then closes every send queue.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			h.mutex.Unlock()
			return

		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			h.logf("WS connected | total_clients=%d", total)

		case client := <-h.unregister:
			h.remove(client)

		case message := <-h.broadcast:
			h.mutex.RLock()
			snapshot := make([]*Client, 0, len(h.clients))
			for c := range h.clients {
				snapshot = append(snapshot, c)
			}
			h.mutex.RUnlock()

			for _, client := range snapshot {
				select {
				case client.send <- message:
				default:
					h.remove(client)
				}
			}
			h.logf("WS broadcast | clients=%d", len(snapshot))
		}
	}
}

func (h *Hub) remove(client *Client) {
	if client == nil {
		return
	}
	h.mutex.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.mutex.Unlock()
	h.logf("WS disconnected | total_clients=%d", total)
}

func (h *Hub) Register(client *Client) {
	if h == nil {
		return
	}
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	h.unregister <- client
}

func (h *Hub) Broadcast(message []byte) {
	if h == nil {
		return
	}
	select {
	case h.broadcast <- message:
	default:
		h.logf("WS broadcast dropped | reason=buffer_full")
	}
}

// NotifyJobsUpdated broadcasts a jobs_updated event for j.
func (h *Hub) NotifyJobsUpdated(reason string, j job.Job) {
	if h == nil {
		return
	}
	b, err := json.Marshal(NewJobsUpdatedEvent(reason, j, time.Now()))
	if err != nil {
		return
	}
	h.Broadcast(b)
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

func (h *Hub) logf(format string, args ...any) {
	if h.logger != nil {
		h.logger.Printf(format, args...)
	}
}
