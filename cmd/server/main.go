// Command server runs the Telegram grievance intake service: it wires the
// SQLite store, the Telegram bot client, OpenTelemetry, and the Gin HTTP
// stack, registers the webhook with Telegram when a public URL is configured,
// and serves until interrupted.
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

	"github.com/Amruta907/smart-grievance-system/internal/config"
	httpapi "github.com/Amruta907/smart-grievance-system/internal/http"
	"github.com/Amruta907/smart-grievance-system/internal/observability"
	"github.com/Amruta907/smart-grievance-system/internal/repo"
	"github.com/Amruta907/smart-grievance-system/internal/sysutil"
	"github.com/Amruta907/smart-grievance-system/internal/telegram"
)

// version is stamped at build time via -ldflags.
var version = "dev"

// @title        Smart Grievance System — Telegram Intake API
// @version      1.0
// @description  Webhook intake service that turns Telegram conversations into grievance tickets.
// @BasePath     /
func main() {
	// Local development convenience; the file is optional.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	gin.SetMode(cfg.GinMode)

	db, err := repo.OpenSQLite(cfg.DBPath, cfg.OTEL.Enabled)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate schema")
	}
	if err := repo.SeedCategories(db); err != nil {
		log.Fatal().Err(err).Msg("seed categories")
	}

	ctx := context.Background()
	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("setup opentelemetry")
	}

	bot := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.APIBase)
	if !bot.Enabled() {
		log.Warn().Msg("TELEGRAM_BOT_TOKEN not set; webhook will answer 503")
	}

	r := gin.New()
	httpapi.RegisterRoutes(r, db, bot, cfg)

	// Register the webhook with Telegram so deliveries start flowing. Failure
	// is fatal: a service nobody can reach is misconfigured, not degraded.
	if base := cfg.Telegram.PublicBaseURL; base != "" {
		hookCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		err := bot.SetWebhook(hookCtx, base+"/telegram/webhook", cfg.Telegram.WebhookSecret)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("register telegram webhook")
		}
		log.Info().Str("url", base+"/telegram/webhook").Msg("telegram webhook registered")
	}

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
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if err := shutdownOTel(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("otel shutdown")
	}
	log.Info().Msg("bye")
}
