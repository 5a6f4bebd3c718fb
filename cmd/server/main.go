package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/AlexTLDR/boda/internal/config"
	"github.com/AlexTLDR/boda/internal/database"
	"github.com/AlexTLDR/boda/internal/i18n"
	"github.com/AlexTLDR/boda/internal/notify"
	"github.com/AlexTLDR/boda/internal/rsvp"
	"github.com/AlexTLDR/boda/internal/server"
)

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "boda").Logger()
	if cfg.LogPretty {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	log.Logger = logger
}

func main() {
	// Load .env file (ignore error if a file doesn't exist)
	// Use Overload to force to overwrite any existing environment variables
	envErr := godotenv.Overload()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogger(cfg)

	if envErr != nil {
		log.Debug().Err(envErr).Msg(".env file not loaded")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg)
	stop()
	if err != nil {
		log.Error().Err(err).Msg("server exited")
		os.Exit(1)
	}
}

// run serves until ctx is cancelled or the listener fails, then drains
// in-flight requests and notifications.
func run(ctx context.Context, cfg *config.Config) error {
	// Initialize database
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func(db *database.DB) {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}(db)

	// Run migrations
	if err := db.Migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	bundle, err := i18n.NewBundle(cfg.DefaultLocale)
	if err != nil {
		return fmt.Errorf("failed to load dictionaries: %w", err)
	}

	var mailer notify.Mailer = notify.NopMailer{}
	if cfg.EmailEnabled() {
		mailer = notify.NewResendMailer(cfg.ResendAPIKey)
	} else {
		log.Warn().Msg("RESEND_API_KEY not set, email notifications are disabled")
	}

	dispatcher := notify.NewDispatcher(mailer, db, bundle, notify.Options{
		Enabled:    cfg.EmailEnabled(),
		From:       cfg.FromEmail,
		Recipients: cfg.NotificationEmails,
		Timeout:    cfg.EmailTimeout,
	})

	// Create and start the server
	srv := server.New(cfg, db, bundle, rsvp.NewService(db, dispatcher, cfg.DefaultLocale))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	var serveErr error
	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr = fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to shut down http server")
	}
	if err := dispatcher.Wait(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("notifications still in flight at shutdown")
	}
	return serveErr
}
