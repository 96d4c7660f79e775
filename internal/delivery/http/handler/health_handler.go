package handler

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"jobboard/internal/pkg/response"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type clientCounter interface {
	ClientCount() int
}

type HealthHandler struct {
	cache pinger
	hub   clientCounter
}

func NewHealthHandler(cache pinger, hub clientCounter) *HealthHandler {
	return &HealthHandler{cache: cache, hub: hub}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/health", h.Health)
}

// Health reports liveness. A missing cache degrades the report but never
// fails it.
func (h *HealthHandler) Health(c fiber.Ctx) error {
	cache := "disabled"
	if h.cache != nil {
		cache = "up"
		if err := h.cache.Ping(c.Context()); err != nil {
			cache = "down"
		}
	}
	clients := 0
	if h.hub != nil {
		clients = h.hub.ClientCount()
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, fiber.Map{
		"status":    "ok",
		"cache":     cache,
		"wsClients": clients,
	})
}
