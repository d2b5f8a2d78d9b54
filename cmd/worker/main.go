package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/storefront-admin/internal/config"
	"github.com/noah-isme/storefront-admin/internal/lock"
	"github.com/noah-isme/storefront-admin/internal/obs"
	"github.com/noah-isme/storefront-admin/internal/special"
	"github.com/noah-isme/storefront-admin/internal/tasks"
)

func main() {
	cfg := config.MustLoad()

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("component", "worker").Logger()

	metricsNamespace := envOrDefault("OBS_METRICS_NAMESPACE", "storefront")
	obs.MustRegisterDomainMetrics(metricsNamespace, nil)
	metricsSrv := &http.Server{
		Addr:    envOrDefault("WORKER_METRICS_ADDR", ":9091"),
		Handler: promhttp.Handler(),
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics listener exited")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool := mustInitDatabase(ctx, cfg, logger)
	defer pool.Close()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()

	recompute := &tasks.RecomputeHandler{
		Specials: special.NewService(&special.Repo{Pool: pool}),
		Locker:   lock.Locker{R: redisClient, RetryBackoff: cfg.LockRetryBackoff},
		LockTTL:  cfg.LockTTL,
		Logger:   logger,
	}

	asynqOpt := asynq.RedisClientOpt{Addr: redisOpts.Addr, Password: redisOpts.Password, DB: redisOpts.DB}

	mux := asynq.NewServeMux()
	mux.Handle(tasks.TypeSpecialRecompute, recompute)

	srv := asynq.NewServer(asynqOpt, asynq.Config{
		Concurrency: 2,
		Logger:      asynqLogger{logger},
	})

	scheduler := asynq.NewScheduler(asynqOpt, &asynq.SchedulerOpts{
		Logger: asynqLogger{logger},
	})
	interval := cfg.SpecialsRecomputeInterval
	if interval < time.Minute {
		interval = time.Minute
	}
	if _, err := scheduler.Register("@every "+interval.String(), tasks.NewSpecialRecomputeTask()); err != nil {
		logger.Fatal().Err(err).Msg("register recompute schedule")
	}

	go func() {
		if err := scheduler.Run(); err != nil {
			logger.Fatal().Err(err).Msg("scheduler exited")
		}
	}()

	logger.Info().Dur("interval", interval).Msg("worker starting")
	if err := srv.Start(mux); err != nil {
		logger.Fatal().Err(err).Msg("start worker")
	}

	<-ctx.Done()
	logger.Info().Msg("worker stopping")
	scheduler.Shutdown()
	srv.Shutdown()
	closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer closeCancel()
	if err := metricsSrv.Shutdown(closeCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown metrics listener")
	}
}

func mustInitDatabase(ctx context.Context, cfg *config.Config, logger zerolog.Logger) *pgxpool.Pool {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse database config")
	}
	poolConfig.ConnConfig.Tracer = obs.PGXTracer{}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	if err := pool.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ping database")
	}
	return pool
}

// asynqLogger adapts zerolog to asynq's logger interface.
type asynqLogger struct {
	l zerolog.Logger
}

func (a asynqLogger) Debug(args ...interface{}) { a.l.Debug().Msgf("%v", args) }
func (a asynqLogger) Info(args ...interface{})  { a.l.Info().Msgf("%v", args) }
func (a asynqLogger) Warn(args ...interface{})  { a.l.Warn().Msgf("%v", args) }
func (a asynqLogger) Error(args ...interface{}) { a.l.Error().Msgf("%v", args) }
func (a asynqLogger) Fatal(args ...interface{}) { a.l.Fatal().Msgf("%v", args) }

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}
