package notify

import (
	"bytes"
	"context"
	"fmt"

	"github.com/a-h/templ"

	"github.com/AlexTLDR/boda/internal/database"
	"github.com/AlexTLDR/boda/internal/guestlist"
	"github.com/AlexTLDR/boda/internal/i18n"
	"github.com/AlexTLDR/boda/templates"
)

// organizerCouple names the couple in organizer-facing copy, which is Spanish only.
const organizerCouple = "Oriol & Paula"

// Headline describes the new response for the organizers, e.g.
// "✅ Anna ha confirmado su asistencia (2 adultos + 1 niño)".
func Headline(r database.RSVP) string {
	if !r.Attending {
		return fmt.Sprintf("❌ %s ha indicado que no puede asistir", r.Name)
	}

	party := fmt.Sprintf("%d %s", r.AdultsCount, i18n.Plural(r.AdultsCount, "adulto", "adultos"))
	if r.KidsCount > 0 {
		party += fmt.Sprintf(" + %d %s", r.KidsCount, i18n.Plural(r.KidsCount, "niño", "niños"))
	}
	return fmt.Sprintf("✅ %s ha confirmado su asistencia (%s)", r.Name, party)
}

func organizerSubject(r database.RSVP) string {
	mark := "❌"
	if r.Attending {
		mark = "✅"
	}
	return fmt.Sprintf("%s %s · RSVP %s", mark, r.Name, organizerCouple)
}

// ComposeOrganizerSummary builds the organizer email for newest against the
// full list of stored responses.
func ComposeOrganizerSummary(newest database.RSVP, all []database.RSVP, from string, to []string) (Message, error) {
	confirmed, declined := guestlist.Partition(all)

	html, err := render(templates.OrganizerEmail(templates.OrganizerSummary{
		Couple:    organizerCouple,
		Headline:  Headline(newest),
		Attending: newest.Attending,
		Stats:     guestlist.Summarize(all),
		Confirmed: confirmed,
		Declined:  declined,
	}))
	if err != nil {
		return Message{}, fmt.Errorf("failed to render organizer summary: %w", err)
	}

	return Message{
		From:    from,
		To:      to,
		Subject: organizerSubject(newest),
		HTML:    html,
	}, nil
}

// ComposeGuestConfirmation builds the email sent to the guest in their locale.
func ComposeGuestConfirmation(r database.RSVP, dict *i18n.Dictionary, from string) (Message, error) {
	c := dict.Email

	dietary := r.Dietary()
	if dietary == "" {
		dietary = c.None
	}

	var staying string
	if r.StayingUntilNight != nil {
		staying = c.StayingNo
		if *r.StayingUntilNight {
			staying = c.StayingYes
		}
	}

	html, err := render(templates.GuestEmail(templates.GuestConfirmation{
		Couple:  dict.Site.Couple,
		Copy:    c,
		Event:   dict.Event,
		Record:  r,
		Dietary: dietary,
		Staying: staying,
	}))
	if err != nil {
		return Message{}, fmt.Errorf("failed to render guest confirmation: %w", err)
	}

	subject := c.SubjectNo
	if r.Attending {
		subject = c.SubjectYes
	}

	return Message{
		From:    from,
		To:      []string{r.Email},
		Subject: subject,
		HTML:    html,
	}, nil
}

func render(c templ.Component) (string, error) {
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
