package rsvp

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/AlexTLDR/boda/internal/database"
	"github.com/AlexTLDR/boda/internal/i18n"
)

type Store interface {
	CreateRSVP(ctx context.Context, r *database.RSVP) error
}

// Notifier receives every stored record. Dispatch must not block on delivery.
type Notifier interface {
	Dispatch(r database.RSVP)
}

type Service struct {
	store         Store
	notifier      Notifier
	defaultLocale i18n.Locale
}

func NewService(store Store, notifier Notifier, defaultLocale i18n.Locale) *Service {
	return &Service{
		store:         store,
		notifier:      notifier,
		defaultLocale: defaultLocale,
	}
}

// Submit validates and stores one RSVP, then hands it to the notifier.
// A filled honeypot is accepted silently without storing anything.
// Errors are either *ValidationError or wrap ErrStorage.
func (s *Service) Submit(ctx context.Context, payload []byte) error {
	sub, honeypot, err := decode(payload)
	if err != nil {
		submissions.WithLabelValues(outcomeInvalid).Inc()
		return err
	}
	if honeypot {
		submissions.WithLabelValues(outcomeHoneypot).Inc()
		log.Info().Msg("rsvp honeypot filled, discarding submission")
		return nil
	}

	sub.normalize()
	if err := sub.Validate(); err != nil {
		submissions.WithLabelValues(outcomeInvalid).Inc()
		return &ValidationError{Details: validationDetails(err)}
	}

	record := sub.Record(s.defaultLocale)
	if err := s.store.CreateRSVP(ctx, &record); err != nil {
		submissions.WithLabelValues(outcomeError).Inc()
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}

	submissions.WithLabelValues(outcomeAccepted).Inc()
	log.Info().
		Int64("rsvp_id", record.ID).
		Bool("attending", record.Attending).
		Int("people", record.People()).
		Str("locale", record.Locale).
		Msg("rsvp stored")

	if s.notifier != nil {
		s.notifier.Dispatch(record)
	}
	return nil
}
