package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/platosha5/parkrun-service/internal/core/port"
	"github.com/platosha5/parkrun-service/internal/infra/config"
	"github.com/platosha5/parkrun-service/internal/infra/database"
	"github.com/platosha5/parkrun-service/internal/infra/kafka"
	"github.com/platosha5/parkrun-service/internal/infra/logger"
	infraRedis "github.com/platosha5/parkrun-service/internal/infra/redis"
	"github.com/platosha5/parkrun-service/internal/infra/telemetry"
	redisRepo "github.com/platosha5/parkrun-service/internal/repository/redis"

	"github.com/platosha5/parkrun-service/internal/repository/postgres"
	"github.com/platosha5/parkrun-service/internal/transport/http/routes"
	"github.com/platosha5/parkrun-service/internal/usecase"
)

// Application owns the process lifecycle: configuration, connections,
// services, and the HTTP server.
type Application struct {
	cfg    *config.AppConfig
	log    *zap.Logger
	pool   *pgxpool.Pool
	redis  *infraRedis.Client
	kafka  *kafka.Producer
	server *http.Server
}

// New wires the full service graph from configuration.
func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	app := &Application{cfg: cfg, log: log, pool: pool}

	redisClient, err := infraRedis.NewClient(cfg.Redis, log)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init redis: %w", err)
	}
	app.redis = redisClient

	publisher, err := app.buildPublisher()
	if err != nil {
		app.closeInfra()
		return nil, err
	}

	provider, err := telemetry.Attach(cfg)
	if err != nil {
		app.closeInfra()
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	repos := postgres.NewRepositories(pool)
	rosterCache := redisRepo.NewRosterCache(redisClient.Client(), cfg.Redis.RosterPrefix, cfg.Redis.RosterTTL)

	cycleDay, err := usecase.ParseCycleWeekday(cfg.Schedule.CycleWeekday)
	if err != nil {
		app.closeInfra()
		return nil, fmt.Errorf("parse cycle weekday: %w", err)
	}

	assignments := usecase.NewAssignmentService(repos.Catalogue, repos.Assignments, log).
		WithPolicy(usecase.ReassignPolicy(cfg.Engine.ReassignPolicy)).
		WithStoreTimeout(cfg.Engine.StoreTimeout).
		WithRosterCache(rosterCache).
		WithEventPublisher(publisher)

	services := routes.Services{
		Assignments: assignments,
		Roster:      usecase.NewRosterService(repos.Roster, log).WithCache(rosterCache),
		Events:      usecase.NewEventService(repos.Events, cycleDay),
		Users:       usecase.NewUserService(repos.Users),
		Locations:   usecase.NewLocationService(repos.Locations),
	}

	router, err := routes.Register(routes.Dependencies{
		Config:        cfg,
		Logger:        log,
		Services:      services,
		Telemetry:     provider,
		DatabaseCheck: pool.Ping,
		CacheCheck:    redisClient.HealthCheck,
	})
	if err != nil {
		app.closeInfra()
		return nil, fmt.Errorf("register routes: %w", err)
	}

	app.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.App.Host, cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return app, nil
}

// buildPublisher returns the Kafka publisher when brokers are configured, the
// logging stub otherwise.
func (a *Application) buildPublisher() (port.EventPublisher, error) {
	if len(a.cfg.Kafka.Brokers) == 0 {
		a.log.Warn("no kafka brokers configured, using stub publisher")
		return kafka.NewStubPublisher(a.log), nil
	}

	producer, err := kafka.NewProducer(a.cfg.Kafka, a.log)
	if err != nil {
		return nil, fmt.Errorf("init kafka producer: %w", err)
	}
	a.kafka = producer

	return kafka.NewEventPublisher(producer, a.cfg.App, a.log), nil
}

// Run serves HTTP until the context is cancelled, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.log.Info("http server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		a.closeInfra()
		return err
	case <-ctx.Done():
	}

	a.log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.log.Error("http server shutdown", zap.Error(err))
	}

	a.closeInfra()
	return nil
}

func (a *Application) closeInfra() {
	if a.kafka != nil {
		if err := a.kafka.Close(); err != nil {
			a.log.Error("close kafka producer", zap.Error(err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Error("close redis client", zap.Error(err))
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
