package notify

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog/log"
)

type Message struct {
	From    string
	To      []string
	Subject string
	HTML    string
}

// Mailer delivers one message. Implementations must honour ctx cancellation.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// ResendMailer sends through the Resend HTTP API.
type ResendMailer struct {
	client *resend.Client
}

func NewResendMailer(apiKey string) *ResendMailer {
	return &ResendMailer{client: resend.NewClient(apiKey)}
}

func (m *ResendMailer) Send(ctx context.Context, msg Message) error {
	resp, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("failed to send email via resend: %w", err)
	}

	log.Debug().Str("email_id", resp.Id).Int("recipients", len(msg.To)).Msg("email accepted by resend")
	return nil
}

// NopMailer only logs. It stands in when no provider key is configured.
type NopMailer struct{}

func (NopMailer) Send(_ context.Context, msg Message) error {
	log.Info().Str("subject", msg.Subject).Int("recipients", len(msg.To)).Msg("email disabled, not sending")
	return nil
}
