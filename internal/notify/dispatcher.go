package notify

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/AlexTLDR/boda/internal/database"
	"github.com/AlexTLDR/boda/internal/i18n"
)

const (
	kindOrganizer = "organizer"
	kindGuest     = "guest"

	defaultTimeout = 30 * time.Second
)

// Lister reads back every stored RSVP, oldest first.
type Lister interface {
	ListRSVPs(ctx context.Context) ([]database.RSVP, error)
}

type Options struct {
	// Enabled is false when no email provider is configured; every task is
	// then a logged no-op.
	Enabled    bool
	From       string
	Recipients []string
	Timeout    time.Duration
}

// Dispatcher sends the two notifications for each stored RSVP in the
// background. Tasks are independent: neither waits for nor affects the
// other, and failures are logged, never retried.
type Dispatcher struct {
	mailer Mailer
	store  Lister
	bundle *i18n.Bundle
	opts   Options
	logger zerolog.Logger
	wg     sync.WaitGroup
}

func NewDispatcher(mailer Mailer, store Lister, bundle *i18n.Bundle, opts Options) *Dispatcher {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	return &Dispatcher{
		mailer: mailer,
		store:  store,
		bundle: bundle,
		opts:   opts,
		logger: log.With().Str("component", "notify").Logger(),
	}
}

// Dispatch schedules the organizer summary and the guest confirmation for r
// and returns immediately.
func (d *Dispatcher) Dispatch(r database.RSVP) {
	if !d.opts.Enabled {
		d.logger.Warn().Int64("rsvp_id", r.ID).Msg("RESEND_API_KEY not set, skipping email notifications")
		notifications.WithLabelValues(kindOrganizer, outcomeSkipped).Inc()
		notifications.WithLabelValues(kindGuest, outcomeSkipped).Inc()
		return
	}

	d.spawn(kindOrganizer, r, d.SendOrganizerSummary)
	d.spawn(kindGuest, r, d.SendGuestConfirmation)
}

func (d *Dispatcher) spawn(kind string, r database.RSVP, task func(context.Context, database.RSVP) error) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		lg := d.logger.With().Str("task", kind).Int64("rsvp_id", r.ID).Logger()
		defer func() {
			if rec := recover(); rec != nil {
				notifications.WithLabelValues(kind, outcomeFailed).Inc()
				lg.Error().Interface("panic", rec).Bytes("stack", debug.Stack()).Msg("notification panicked")
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), d.opts.Timeout)
		defer cancel()

		if err := task(ctx, r); err != nil {
			notifications.WithLabelValues(kind, outcomeFailed).Inc()
			lg.Error().Err(err).Msg("notification failed")
		}
	}()
}

// SendOrganizerSummary re-reads every record and mails the updated summary
// to the distribution list. An empty list is a logged no-op.
func (d *Dispatcher) SendOrganizerSummary(ctx context.Context, newest database.RSVP) error {
	if len(d.opts.Recipients) == 0 {
		d.logger.Warn().Msg("NOTIFICATION_EMAILS not set, skipping organizer summary")
		notifications.WithLabelValues(kindOrganizer, outcomeSkipped).Inc()
		return nil
	}

	all, err := d.store.ListRSVPs(ctx)
	if err != nil {
		return fmt.Errorf("failed to load rsvps for summary: %w", err)
	}

	msg, err := ComposeOrganizerSummary(newest, all, d.opts.From, d.opts.Recipients)
	if err != nil {
		return err
	}
	if err := d.mailer.Send(ctx, msg); err != nil {
		return err
	}

	notifications.WithLabelValues(kindOrganizer, outcomeSent).Inc()
	d.logger.Info().Int64("rsvp_id", newest.ID).Int("total", len(all)).Msg("organizer summary sent")
	return nil
}

// SendGuestConfirmation mails the guest a confirmation in the locale stored
// with their response.
func (d *Dispatcher) SendGuestConfirmation(ctx context.Context, r database.RSVP) error {
	msg, err := ComposeGuestConfirmation(r, d.bundle.Dictionary(r.Locale), d.opts.From)
	if err != nil {
		return err
	}
	if err := d.mailer.Send(ctx, msg); err != nil {
		return err
	}

	notifications.WithLabelValues(kindGuest, outcomeSent).Inc()
	d.logger.Info().Int64("rsvp_id", r.ID).Str("locale", r.Locale).Msg("guest confirmation sent")
	return nil
}

// Wait blocks until every in-flight notification finishes or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
