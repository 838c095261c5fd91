package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/platosha5/parkrun-service/internal/infra/config"
	"github.com/platosha5/parkrun-service/internal/infra/telemetry"
	"github.com/platosha5/parkrun-service/internal/transport/http/handlers"
	"github.com/platosha5/parkrun-service/internal/transport/http/middleware"
	"github.com/platosha5/parkrun-service/internal/usecase"
)

// Services groups the use-case layer the HTTP surface exposes.
type Services struct {
	Assignments *usecase.AssignmentService
	Roster      *usecase.RosterService
	Events      *usecase.EventService
	Users       *usecase.UserService
	Locations   *usecase.LocationService
}

// Dependencies carries everything route registration needs.
type Dependencies struct {
	Config    *config.AppConfig
	Logger    *zap.Logger
	Services  Services
	Telemetry *telemetry.Provider

	// Readiness probes, nil entries are skipped.
	DatabaseCheck func(ctx context.Context) error
	CacheCheck    func(ctx context.Context) error
}

// Register builds the Gin engine with middleware, probes, and the API surface.
func Register(deps Dependencies) (*gin.Engine, error) {
	if deps.Config != nil && deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(deps.Logger))

	httpMetrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		return nil, err
	}
	router.Use(httpMetrics.Handler())

	health := handlers.NewHealthHandler()
	if deps.DatabaseCheck != nil {
		health.WithReadinessCheck("postgres", handlers.ReadinessCheck(deps.DatabaseCheck))
	}
	if deps.CacheCheck != nil {
		health.WithReadinessCheck("redis", handlers.ReadinessCheck(deps.CacheCheck))
	}

	router.GET("/healthz", health.Status)
	router.GET("/readyz", health.Ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	assignments := handlers.NewAssignmentHandler(deps.Services.Assignments, deps.Telemetry)
	roster := handlers.NewRosterHandler(deps.Services.Roster, deps.Services.Events)
	events := handlers.NewEventHandler(deps.Services.Events)
	users := handlers.NewUserHandler(deps.Services.Users)
	locations := handlers.NewLocationHandler(deps.Services.Locations)

	api := router.Group("/api/v1")
	{
		api.GET("/locations", locations.List)
		api.POST("/users", users.GetOrCreate)
		api.POST("/events", events.GetOrCreate)
		api.GET("/events/:id", events.Get)
		api.GET("/events/:id/roster", roster.Roster)
		api.POST("/events/:id/assignments", assignments.Assign)
		api.DELETE("/events/:id/assignments/:user_id", assignments.Unassign)
	}

	return router, nil
}
