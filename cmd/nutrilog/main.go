// Command nutrilog runs the nutrition tracking service: an HTTP webhook that
// consumes chat messages, background jobs that deliver queued messages and
// daily digests, and a SQLite database underneath.
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
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/nutrilog/nutrilog/internal/bot"
	"github.com/nutrilog/nutrilog/internal/config"
	httpapi "github.com/nutrilog/nutrilog/internal/http"
	"github.com/nutrilog/nutrilog/internal/jobs"
	"github.com/nutrilog/nutrilog/internal/observability"
	"github.com/nutrilog/nutrilog/internal/repo"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	_ = godotenv.Load()
	cfg := config.MustLoad()
	setupLogging(cfg)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.Setup(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("tracing setup failed")
	}
	defer func() {
		c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(c); err != nil {
			log.Warn().Err(err).Msg("tracing shutdown")
		}
	}()

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database failed")
	}
	if cfg.OTEL.Enabled {
		if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
			log.Fatal().Err(err).Msg("database tracing plugin failed")
		}
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	if err := repo.SeedUnits(db); err != nil {
		log.Fatal().Err(err).Msg("unit seed failed")
	}

	b := bot.New(db, cfg.Bot.OwnerID, cfg.Bot.AllowNewUsers, cfg.Bot.DefaultLocale)

	var sender jobs.Sender = jobs.LogSender{}
	if cfg.Bot.DeliveryURL != "" {
		sender = jobs.NewHTTPSender(cfg.Bot.DeliveryURL)
	}
	outbox := jobs.NewOutboxJob(db, sender, cfg.Jobs.OutboxLease, cfg.Jobs.OutboxBatch)
	digest := jobs.NewDigestJob(db, b.Reports, cfg.Jobs.OutboxBatch)
	go outbox.Run(ctx, cfg.Jobs.OutboxInterval)
	go digest.Run(ctx, cfg.Jobs.DigestInterval)

	r := gin.New()
	httpapi.RegisterRoutes(r, db, b, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("version", version).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func setupLogging(cfg config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
