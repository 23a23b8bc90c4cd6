package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/meridian-erp/meridian-auth/internal/app"
	"github.com/meridian-erp/meridian-auth/internal/audit"
	"github.com/meridian-erp/meridian-auth/internal/auth"
	"github.com/meridian-erp/meridian-auth/internal/observability"
	"github.com/meridian-erp/meridian-auth/internal/platform/cache"
	"github.com/meridian-erp/meridian-auth/internal/platform/db"
	"github.com/meridian-erp/meridian-auth/internal/rbac"
	"github.com/meridian-erp/meridian-auth/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		// The resolver cache degrades to pass-through without redis; only the
		// audit queue truly needs it, and asynq reconnects on its own.
		logger.Warn("connect redis", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()
	metrics.Registerer().MustRegister(collectors.NewGoCollector())

	rbacRepo := rbac.NewRepository(pool)
	rbacCache := rbac.NewCache(redisClient, cfg.PermCacheTTL)
	rbacService := rbac.NewService(rbacRepo, rbacCache, logger)
	rbacMiddleware := rbac.Middleware{Logger: logger}

	codec := auth.NewTokenCodec(cfg.JWTSecret, cfg.JWTTTL, cfg.JWTIssuer)
	// Token lifetime bounds how long revoked roles keep working.
	logger.Info("token codec ready", slog.Duration("ttl", codec.TTL()), slog.String("issuer", cfg.JWTIssuer))
	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo, rbacService, logger)

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := asynqClient.Close(); err != nil {
			logger.Warn("asynq close", slog.Any("error", err))
		}
	}()
	recorder := audit.NewAsynqRecorder(asynqClient)

	authHandler := auth.NewHandler(logger, authService, codec, recorder, metrics)
	authFilter := auth.Middleware{
		Codec:       codec,
		Logger:      logger,
		Metrics:     metrics,
		PublicPaths: cfg.PublicPaths,
	}
	permissionsHandler := rbac.NewPermissionsHandler(logger, rbacService, rbacMiddleware)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		AuthHandler:        authHandler,
		AuthFilter:         authFilter,
		RBACMiddleware:     rbacMiddleware,
		PermissionsHandler: permissionsHandler,
		JobHandler:         jobHandler,
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
