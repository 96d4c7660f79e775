package app

import (
	"log"
	"time"

	"jobboard/internal/config"
	"jobboard/internal/infrastructure/cache"
	"jobboard/internal/infrastructure/memory"
	"jobboard/internal/pkg/jwt"
	"jobboard/internal/pkg/validate"
	"jobboard/internal/usecase"
	"jobboard/internal/usecase/auth"
	"jobboard/internal/ws"
)

// Container wires the server-side graph: seeded catalog, accounts, tokens,
// search cache and the usecases on top of them.
type Container struct {
	Config config.Config
	Logger *log.Logger

	Catalog *memory.Catalog
	Users   *memory.Users
	Cache   *cache.Redis
	Hub     *ws.Hub
	JWT     *jwt.HMACService

	JobList *usecase.JobList
	Jobs    *usecase.Jobs
	Auth    *auth.Service
}

// NewContainer builds the graph. searchCache may be nil, in which case
// listings are always computed from the catalog.
func NewContainer(cfg config.Config, searchCache *cache.Redis, logger *log.Logger) *Container {
	if logger == nil {
		logger = log.Default()
	}
	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Catalog: memory.NewCatalog(memory.SeedJobs(time.Now())),
		Users:   memory.NewUsers(),
		Cache:   searchCache,
		Hub:     ws.NewHub(logger),
		JWT: jwt.NewHMACService(
			cfg.JWT.AccessSecret,
			cfg.JWT.RefreshSecret,
			cfg.JWT.AccessExpiresIn,
			cfg.JWT.RefreshExpiresIn,
		),
	}

	v := validate.New()
	var sc usecase.SearchCache
	if searchCache != nil {
		sc = searchCache
	}
	c.JobList = usecase.NewJobListUsecase(c.Catalog, sc, logger)
	c.Jobs = usecase.NewJobUsecase(c.Catalog, sc, c.Hub, v, logger)
	c.Auth = auth.NewService(c.Users, c.JWT, v, logger)
	return c
}

func (c *Container) Close() error {
	if c == nil || c.Cache == nil {
		return nil
	}
	return c.Cache.Close()
}
