// Command send_summary re-sends the organizer summary for the newest RSVP.
// Failed notifications are never retried by the server, so this is the
// manual way to bring the distribution list up to date.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/AlexTLDR/boda/internal/config"
	"github.com/AlexTLDR/boda/internal/database"
	"github.com/AlexTLDR/boda/internal/i18n"
	"github.com/AlexTLDR/boda/internal/notify"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "log the summary instead of sending it")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := godotenv.Overload(); err != nil {
		log.Debug().Err(err).Msg(".env file not loaded")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.EmailTimeout)
	defer cancel()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	records, err := db.ListRSVPs(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to list rsvps")
	}
	if len(records) == 0 {
		log.Info().Msg("no rsvps yet, nothing to send")
		return
	}
	log.Info().Int("rsvps", len(records)).Msg("found rsvps")

	bundle, err := i18n.NewBundle(cfg.DefaultLocale)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load dictionaries")
	}

	var mailer notify.Mailer = notify.NopMailer{}
	if cfg.EmailEnabled() && !*dryRun {
		mailer = notify.NewResendMailer(cfg.ResendAPIKey)
	}

	d := notify.NewDispatcher(mailer, db, bundle, notify.Options{
		Enabled:    true,
		From:       cfg.FromEmail,
		Recipients: cfg.NotificationEmails,
		Timeout:    cfg.EmailTimeout,
	})

	newest := records[len(records)-1]
	if err := d.SendOrganizerSummary(ctx, newest); err != nil {
		log.Fatal().Err(err).Msg("failed to send summary")
	}
	log.Info().Str("newest", newest.Name).Msg("done")
}
