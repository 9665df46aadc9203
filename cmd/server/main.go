// Command server runs the deskshell backend: the JWT-protected state API,
// the per-user durable store, and the hardware action queue workers.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/suitewaste/deskshell/internal/api"
	"github.com/suitewaste/deskshell/internal/core/ports"
	"github.com/suitewaste/deskshell/internal/core/service"
	"github.com/suitewaste/deskshell/internal/infrastructure/db/mongo"
	"github.com/suitewaste/deskshell/internal/infrastructure/db/redis"
	"github.com/suitewaste/deskshell/internal/infrastructure/queue"
	"github.com/suitewaste/deskshell/internal/pkg/config"
	"github.com/suitewaste/deskshell/pkg/logger"
)

const shutdownGrace = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{})
		fallback := logger.Get()
		fallback.Fatal().Err(err).Msg("configuration invalid")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo unavailable")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	redisClient, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis unavailable")
	}
	defer redisClient.Close()

	stateRepo := mongo.NewStateRepository(db)
	if err := stateRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}
	sessionRepo := mongo.NewSessionRepository(db)

	authService, err := service.NewAuthService(cfg.OperatorPIN, cfg.ManagerPIN, cfg.JWTSecret, 24*time.Hour)
	if err != nil {
		log.Fatal().Err(err).Msg("auth service init failed")
	}
	stateService := service.NewStateService(stateRepo, sessionRepo, logger.Component("state"))
	classifier := service.NewStubClassifier()

	dedup := redis.NewActionDedup(redisClient)
	dispatcher := queue.NewDispatcher(redisClient, dedup, logSender{logger.Component("hardware")}, cfg.QueueWorkers, logger.Component("queue"))
	dispatcher.Start(ctx)

	e := api.NewRouter(api.Deps{
		AuthService:  authService,
		StateService: stateService,
		Classifier:   classifier,
		Mongo:        db,
		Redis:        redisClient,
		JWTSecret:    cfg.JWTSecret,
		Log:          logger.Component("api"),
	})

	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("server listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// logSender is the default action transport when no physical device bus is
// attached: it records the delivery so queue behaviour is observable end to
// end in development.
type logSender struct {
	log zerolog.Logger
}

func (s logSender) Send(_ context.Context, action ports.HardwareAction) error {
	s.log.Info().
		Str("action_id", action.ID).
		Str("device_id", action.DeviceID).
		Str("kind", action.Kind).
		Msg("hardware action delivered")
	return nil
}
