package app

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/gofiber/fiber/v3"

	"jobboard/internal/config"
	"jobboard/internal/delivery/http/handler"
	"jobboard/internal/delivery/http/middleware"
	"jobboard/internal/delivery/http/routes"
	"jobboard/internal/infrastructure/cache"
	"jobboard/internal/ws"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New builds the HTTP server over an existing container. The hub is not
// started; Bootstrap does that.
func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c.Logger)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

// Bootstrap connects the search cache, builds the container and starts the
// websocket hub. The returned cleanup stops the hub and closes the cache.
func Bootstrap(ctx context.Context, cfg config.Config, logger *log.Logger) (*App, func() error, error) {
	if logger == nil {
		logger = log.Default()
	}
	rc := cache.NewRedis(ctx, cfg.Redis, logger)
	c := NewContainer(cfg, rc, logger)

	hubCtx, stopHub := context.WithCancel(context.Background())
	go c.Hub.Run(hubCtx)

	cleanup := func() error {
		stopHub()
		return c.Close()
	}
	return New(c), cleanup, nil
}

func registerGlobalMiddleware(app *fiber.App, logger *log.Logger) {
	app.Use(middleware.NewAccessLogMiddleware(logger).Middleware())
	app.Use(middleware.NewErrorMiddleware(logger).Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	var pinger interface {
		Ping(ctx context.Context) error
	}
	if c.Cache != nil {
		pinger = c.Cache
	}

	r := &routes.Registry{
		Health: handler.NewHealthHandler(pinger, c.Hub),
		Jobs:   handler.NewJobsHandler(c.JobList, c.Jobs),
		Auth:   handler.NewAuthHandler(c.Auth, c.Logger),
		AuthMw: middleware.NewAuthMiddleware(c.JWT),
		WS:     ws.NewHandler(c.Hub, c.Logger).HandleJobsWS,
	}
	r.Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
