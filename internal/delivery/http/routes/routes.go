package routes

import (
	"github.com/gofiber/fiber/v3"

	"jobboard/internal/delivery/http/handler"
	"jobboard/internal/delivery/http/middleware"
)

type Registry struct {
	Health *handler.HealthHandler
	Jobs   *handler.JobsHandler
	Auth   *handler.AuthHandler
	AuthMw *middleware.AuthMiddleware
	WS     fiber.Handler
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	if r.Health != nil {
		r.Health.RegisterRoutes(app)
	}
	if r.WS != nil {
		app.Get("/ws", r.WS)
	}
	r.registerAPI(app)
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")

	if r.Auth != nil {
		r.Auth.RegisterRoutes(api.Group("/auth"))
	}
	if r.Jobs != nil && r.AuthMw != nil {
		r.Jobs.RegisterRoutes(api.Group("/jobs"), r.AuthMw.Middleware(), middleware.RequireJobPoster())
	}
}
