// Package main is the entry point for the Easytrip web server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/pkordes/easytrip/backend/internal/config"
	"github.com/pkordes/easytrip/backend/internal/enrich"
	"github.com/pkordes/easytrip/backend/internal/handler"
	"github.com/pkordes/easytrip/backend/internal/metrics"
	"github.com/pkordes/easytrip/backend/internal/middleware"
	"github.com/pkordes/easytrip/backend/internal/repo"
	"github.com/pkordes/easytrip/backend/internal/service"
	"github.com/pkordes/easytrip/backend/internal/session"
	"github.com/pkordes/easytrip/backend/internal/view"
	"github.com/pkordes/easytrip/backend/migrations"
)

// sweepInterval is how often expired in-memory sessions are dropped.
const sweepInterval = 10 * time.Minute

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Cancelled on shutdown; stops background goroutines.
	appCtx, stopApp := context.WithCancel(context.Background())
	defer stopApp()

	// --- Database ---------------------------------------------------------
	// pgxpool manages a pool of Postgres connections.
	// New() does not open connections immediately; the first query does.
	pool, err := pgxpool.New(appCtx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(appCtx); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	// goose needs a *sql.DB; borrow one backed by the same pool.
	sqlDB := stdlib.OpenDBFromPool(pool)
	applied, err := migrations.Up(appCtx, sqlDB)
	_ = sqlDB.Close()
	if err != nil {
		slog.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("migrations applied", "count", applied)

	// --- Sessions ---------------------------------------------------------
	var sessions session.Store
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			slog.Error("invalid REDIS_URL", "error", err)
			os.Exit(1)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		if err := rdb.Ping(appCtx).Err(); err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		sessions = session.NewRedisStore(rdb)
		slog.Info("using redis session store")
	} else {
		mem := session.NewMemoryStore()
		go mem.RunSweeper(appCtx, sweepInterval)
		sessions = mem
		slog.Info("using in-memory session store")
	}

	// --- Services ---------------------------------------------------------
	m := metrics.New(prometheus.DefaultRegisterer)

	// Each lookup carries its own deadline; the client timeout is a backstop.
	outbound := &http.Client{Timeout: 2 * cfg.Enrich.Timeout}

	var (
		summaries enrich.SummaryFetcher = enrich.NewWikipediaClient(cfg.Enrich.WikipediaBaseURL, cfg.Enrich.UserAgent, outbound)
		geocoder  enrich.Geocoder       = enrich.NewNominatimClient(cfg.Enrich.NominatimBaseURL, cfg.Enrich.UserAgent, outbound)
	)
	if cfg.Enrich.CacheTTL > 0 {
		summaries = enrich.NewCachedSummaries(summaries, enrich.NewCache(cfg.Enrich.CacheTTL))
		geocoder = enrich.NewCachedGeocoder(geocoder, enrich.NewCache(cfg.Enrich.CacheTTL))
	}
	pipeline := enrich.NewPipeline(summaries, geocoder, enrich.Options{
		ImageBaseURL: cfg.Enrich.ImageBaseURL,
		Timeout:      cfg.Enrich.Timeout,
		Logger:       logger,
		Metrics:      m,
	})

	trips := service.NewTripService(repo.NewTripRepo(pool), repo.NewDayRepo(pool), pipeline, logger, m)
	auth := service.NewAuthService(repo.NewUserRepo(pool), sessions, service.AuthOptions{
		SessionTTL: cfg.SessionTTL,
		Logger:     logger,
		Metrics:    m,
	})

	views, err := view.New()
	if err != nil {
		slog.Error("failed to parse templates", "error", err)
		os.Exit(1)
	}

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer
	// → CORS → body limit → session.
	// RequestID generates a unique trace ID per request.
	// RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP (safe behind a proxy).
	// SlogLogger writes one structured JSON log line per request.
	// Recoverer catches panics and returns HTTP 500 instead of crashing.
	// The session middleware puts the signed-in user in the request context.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	r.Use(middleware.NewSessionHandler(auth, logger))

	r.Handle("/metrics", promhttp.Handler())
	handler.NewServer(trips, auth, views, logger, cfg.SecureCookies).Mount(r)

	// --- HTTP Server ------------------------------------------------------
	// Planning a trip waits on two outbound lookups, so the write timeout
	// must cover both enrichment deadlines.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10*time.Second + 2*cfg.Enrich.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")
	stopApp()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
