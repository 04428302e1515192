package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lironatar/TasksList/internal/app"
	"github.com/lironatar/TasksList/internal/handlers"
	"github.com/lironatar/TasksList/internal/middleware"
	"github.com/lironatar/TasksList/internal/services"
)

// Dependencies bundles the services the HTTP layer is built from.
type Dependencies struct {
	DB           *gorm.DB
	Auth         *services.AuthService
	Verification *services.VerificationService
	TaskLists    *services.TaskListService
	Tasks        *services.TaskService
	// RateStore backs the rate limiter. Nil falls back to an in-memory store.
	RateStore middleware.RateStore
}

// NewRouter builds the Gin engine, wires middleware and registers all routes.
func NewRouter(cfg *app.Config, deps Dependencies) (*gin.Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}
	if deps.DB == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if deps.Auth == nil {
		return nil, fmt.Errorf("auth service must be provided")
	}

	authHandler, err := handlers.NewAuthHandler(deps.Auth, deps.Verification)
	if err != nil {
		return nil, err
	}
	profileHandler, err := handlers.NewProfileHandler(deps.Auth)
	if err != nil {
		return nil, err
	}
	listHandler, err := handlers.NewTaskListHandler(deps.TaskLists)
	if err != nil {
		return nil, err
	}
	taskHandler, err := handlers.NewTaskHandler(deps.Tasks)
	if err != nil {
		return nil, err
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	var unobserved []string
	if endpoint := metricsEndpoint(cfg); endpoint != "" {
		unobserved = append(unobserved, endpoint)
	}
	r.Use(middleware.Metrics(unobserved...))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowedOrigins...))
	if cfg.RateLimit.Enabled {
		r.Use(middleware.RateLimit(deps.RateStore, cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	r.NoRoute(middleware.NotFoundHandler)

	registerHealthRoutes(r, cfg, deps.DB)
	registerMonitoringRoutes(r, cfg)

	v1 := r.Group("/api/v1")
	protected := v1.Group("")
	protected.Use(middleware.Auth(deps.Auth))

	registerAuthRoutes(v1, authHandler)
	registerProfileRoutes(v1, protected, profileHandler)
	registerTaskListRoutes(protected, listHandler, taskHandler)

	return r, nil
}
