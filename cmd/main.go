// File: knitting-catalog-service/cmd/main.go
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"knitting-catalog-service/internal/api"
	"knitting-catalog-service/internal/auth"
	"knitting-catalog-service/internal/cache"
	"knitting-catalog-service/internal/config"
	applog "knitting-catalog-service/internal/logger"
	"knitting-catalog-service/internal/metrics"
	"knitting-catalog-service/internal/service"
	"knitting-catalog-service/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const (
	defaultAppName  = "KnittingCatalogService"
	shutdownTimeout = 30 * time.Second
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found or failed to load, relying on system environment")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("error loading configuration", "error", err)
		os.Exit(1)
	}

	logger := applog.New(os.Stdout, cfg.LogLevel, defaultAppName)
	slog.SetDefault(logger)
	logger.Info("configuration loaded", "app_env", cfg.AppEnv, "log_level", cfg.LogLevel)

	if err := run(cfg, logger); err != nil {
		logger.Error("service stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("service shutdown sequence finished")
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Database Connection ---
	db, err := sql.Open("postgres", cfg.Postgres.DSN())
	if err != nil {
		return fmt.Errorf("initialize database connection: %w", err)
	}
	dbStore := store.NewPostgresStore(db)
	defer func() {
		if err := dbStore.Close(); err != nil {
			logger.Warn("error closing database", "error", err)
		}
	}()
	if err := dbStore.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	logger.Info("database connection established")

	if cfg.Postgres.AutoMigrate {
		if err := store.Migrate(db, logger); err != nil {
			return err
		}
		logger.Info("database migrations applied")
	}

	// --- Design catalog wiring ---
	var designStore store.DesignStorer = dbStore
	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		redisClient, err = cache.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		designStore = cache.NewCachedStore(dbStore, redisClient, cfg.Redis.DesignsTTL, logger)
		logger.Info("design cache enabled", "ttl", cfg.Redis.DesignsTTL)
	}

	designService := service.NewDesignService(designStore)
	m := metrics.New(prometheus.DefaultRegisterer)

	var decoder api.TokenDecoder
	if cfg.Auth.JWTSecret != "" {
		decoder = auth.NewTokenDecoder(cfg.Auth.JWTSecret)
		logger.Info("bearer token authentication enabled")
	} else {
		logger.Warn("AUTH_JWT_SECRET not set, design routes are unauthenticated")
	}

	// --- HTTP Server ---
	httpRouter := chi.NewRouter()
	setupBaseMiddleware(httpRouter, logger)
	registerHealthCheck(httpRouter, logger, healthChecks(dbStore, redisClient))
	httpRouter.Handle("/metrics", promhttp.Handler())
	httpRouter.Group(func(r chi.Router) {
		if decoder != nil {
			r.Use(api.RequireAuth(decoder, logger))
		}
		api.NewHTTPHandler(designService, logger, m).RegisterRoutes(r)
	})

	httpServer := &http.Server{
		Addr:         ":" + cfg.HttpServer.Port,
		Handler:      httpRouter,
		ReadTimeout:  cfg.HttpServer.TimeoutRead,
		WriteTimeout: cfg.HttpServer.TimeoutWrite,
		IdleTimeout:  cfg.HttpServer.TimeoutIdle,
	}

	// --- gRPC Server ---
	grpcServer := setupGRPCServer(logger, api.NewGRPCHandler(designService, logger, m), decoder)
	grpcListener, err := net.Listen("tcp", ":"+cfg.GrpcServer.Port)
	if err != nil {
		return fmt.Errorf("listen for gRPC on port %s: %w", cfg.GrpcServer.Port, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP server listening", "port", cfg.HttpServer.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server: %w", err)
		}
		logger.Info("HTTP server has stopped")
		return nil
	})
	g.Go(func() error {
		logger.Info("gRPC server listening", "port", cfg.GrpcServer.Port)
		if err := grpcServer.Serve(grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("gRPC server: %w", err)
		}
		logger.Info("gRPC server has stopped")
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("starting graceful shutdown")
		return shutdown(logger, httpServer, grpcServer)
	})

	return g.Wait()
}

func setupBaseMiddleware(router *chi.Mux, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))
	logger.Info("base HTTP middleware registered")
}

type healthCheck func(ctx context.Context) error

func healthChecks(db *store.PostgresStore, redisClient *redis.Client) map[string]healthCheck {
	checks := map[string]healthCheck{
		"database": db.Ping,
	}
	if redisClient != nil {
		checks["cache"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}
	return checks
}

func registerHealthCheck(router *chi.Mux, logger *slog.Logger, checks map[string]healthCheck) {
	healthPath := "/api/v1/healthz"
	router.Get(healthPath, func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		payload := map[string]interface{}{
			"status":      "healthy",
			"serviceName": defaultAppName,
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
		}
		for name, check := range checks {
			state := "healthy"
			if err := check(ctx); err != nil {
				state = "unhealthy"
				logger.Warn("health check failed", "dependency", name, "error", err)
			}
			payload[name] = state
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK) // Always 200, payload carries per-dependency status
		_ = json.NewEncoder(w).Encode(payload)
	})
	logger.Info("HTTP health check registered", "path", healthPath)
}

func setupGRPCServer(logger *slog.Logger, handler *api.GRPCHandler, decoder api.TokenDecoder) *grpc.Server {
	var opts []grpc.ServerOption
	if decoder != nil {
		opts = append(opts, grpc.ChainUnaryInterceptor(api.UnaryAuthInterceptor(decoder, logger)))
	}
	s := grpc.NewServer(opts...)

	api.RegisterDesignCatalogServer(s, handler)
	logger.Info("DesignCatalog gRPC service registered")

	grpc_health_v1.RegisterHealthServer(s, health.NewServer())
	logger.Info("gRPC health check service registered")

	reflection.Register(s)
	logger.Info("gRPC reflection service registered")

	return s
}

func shutdown(logger *slog.Logger, httpServer *http.Server, grpcServer *grpc.Server) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	stoppedGrpc := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stoppedGrpc)
	}()

	var httpErr error
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server graceful shutdown failed", "error", err)
		httpErr = fmt.Errorf("HTTP shutdown: %w", err)
	} else {
		logger.Info("HTTP server gracefully shut down")
	}

	select {
	case <-stoppedGrpc:
		logger.Info("gRPC server gracefully shut down")
	case <-shutdownCtx.Done():
		logger.Warn("gRPC server graceful shutdown timed out, forcing stop", "error", shutdownCtx.Err())
		grpcServer.Stop()
	}

	return httpErr
}
