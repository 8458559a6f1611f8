// Command server runs the recipe backend HTTP API.
//
// Startup order:
//  1. Load .env (optional) and environment configuration.
//  2. Configure global logging (zerolog level + optional pretty console).
//  3. Open SQLite, migrate the schema, purge stale idempotency records.
//  4. Initialize OpenTelemetry tracing when enabled (HTTP + GORM spans).
//  5. Build the Gin engine, register routes, serve with graceful shutdown.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/recipehub/go-recipe-backend/internal/config"
	httpapi "github.com/recipehub/go-recipe-backend/internal/http"
	"github.com/recipehub/go-recipe-backend/internal/observability"
	"github.com/recipehub/go-recipe-backend/internal/repo"
	"github.com/recipehub/go-recipe-backend/internal/sysutil"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// .env is a dev convenience; absence is not an error.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	gin.SetMode(cfg.GinMode)

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}
	if err := repo.PurgeExpiredIdempotency(context.Background(), db, time.Now().UTC()); err != nil {
		log.Warn().Err(err).Msg("purge expired idempotency records")
	}

	ctx := context.Background()
	if cfg.OTEL.Enabled {
		shutdown, err := observability.SetupOTel(ctx, cfg.OTEL, version)
		if err != nil {
			log.Fatal().Err(err).Msg("init opentelemetry")
		}
		defer func() {
			c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(c); err != nil {
				log.Warn().Err(err).Msg("otel shutdown")
			}
		}()
		if err := repo.EnableTracing(db); err != nil {
			log.Warn().Err(err).Msg("enable gorm tracing")
		}
	}

	engine := gin.New()
	if err := httpapi.RegisterRoutes(engine, db, cfg); err != nil {
		log.Fatal().Err(err).Msg("register routes")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
