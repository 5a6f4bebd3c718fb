package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexTLDR/boda/internal/database"
	"github.com/AlexTLDR/boda/internal/i18n"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []Message
	fail map[string]error // by first recipient
}

func (m *fakeMailer) Send(ctx context.Context, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.fail[msg.To[0]]; err != nil {
		return err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) messages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.sent...)
}

type fakeLister struct {
	records []database.RSVP
	err     error
}

func (l *fakeLister) ListRSVPs(context.Context) ([]database.RSVP, error) {
	return l.records, l.err
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func testBundle(t *testing.T) *i18n.Bundle {
	t.Helper()
	b, err := i18n.NewBundle(i18n.Catalan)
	require.NoError(t, err)
	return b
}

func byRecipient(msgs []Message, recipient string) *Message {
	for i := range msgs {
		if msgs[i].To[0] == recipient {
			return &msgs[i]
		}
	}
	return nil
}

func TestHeadline(t *testing.T) {
	tests := []struct {
		name string
		r    database.RSVP
		want string
	}{
		{
			name: "single adult",
			r:    database.RSVP{Name: "Anna", Attending: true, AdultsCount: 1},
			want: "✅ Anna ha confirmado su asistencia (1 adulto)",
		},
		{
			name: "adults and one kid",
			r:    database.RSVP{Name: "Biel", Attending: true, AdultsCount: 2, KidsCount: 1},
			want: "✅ Biel ha confirmado su asistencia (2 adultos + 1 niño)",
		},
		{
			name: "kids plural",
			r:    database.RSVP{Name: "Carla", Attending: true, AdultsCount: 2, KidsCount: 3},
			want: "✅ Carla ha confirmado su asistencia (2 adultos + 3 niños)",
		},
		{
			name: "declined",
			r:    database.RSVP{Name: "Dani", Attending: false, AdultsCount: 1},
			want: "❌ Dani ha indicado que no puede asistir",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Headline(tt.r))
		})
	}
}

func TestComposeOrganizerSummary(t *testing.T) {
	all := []database.RSVP{
		{ID: 1, Name: "Anna", Email: "anna@example.com", Attending: true, AdultsCount: 2, KidsCount: 1, DietaryRestrictions: strPtr("vegana"), StayingUntilNight: boolPtr(true)},
		{ID: 2, Name: "Biel", Email: "biel@example.com", Attending: true, AdultsCount: 1},
		{ID: 3, Name: "Carla", Email: "carla@example.com", Attending: false, Comments: strPtr("Ens sap greu")},
	}

	msg, err := ComposeOrganizerSummary(all[2], all, "boda@example.com", []string{"paula@example.com"})
	require.NoError(t, err)

	assert.Equal(t, "❌ Carla · RSVP Oriol & Paula", msg.Subject)
	assert.Equal(t, "boda@example.com", msg.From)
	assert.Equal(t, []string{"paula@example.com"}, msg.To)
	assert.Contains(t, msg.HTML, "❌ Carla ha indicado que no puede asistir")
	assert.Contains(t, msg.HTML, "2 personas")
	assert.Contains(t, msg.HTML, "Lista de confirmados (2)")
	assert.Contains(t, msg.HTML, "No asistirán (1)")
	assert.Contains(t, msg.HTML, "vegana")
	assert.Contains(t, msg.HTML, "Ens sap greu")
	assert.Contains(t, msg.HTML, ">Sí<")
	assert.Contains(t, msg.HTML, ">—<")
}

func TestComposeGuestConfirmation(t *testing.T) {
	bundle := testBundle(t)

	t.Run("attending without kids or staying answer", func(t *testing.T) {
		r := database.RSVP{Name: "Laia", Email: "laia@example.com", Attending: true, AdultsCount: 2, Locale: "es"}
		msg, err := ComposeGuestConfirmation(r, bundle.Dictionary(r.Locale), "boda@example.com")
		require.NoError(t, err)

		es := bundle.Dictionary("es").Email
		assert.Equal(t, es.SubjectYes, msg.Subject)
		assert.Equal(t, []string{"laia@example.com"}, msg.To)
		assert.Contains(t, msg.HTML, "Hola Laia,")
		assert.Contains(t, msg.HTML, es.GreetingYes)
		assert.Contains(t, msg.HTML, ">Ninguna<")
		assert.NotContains(t, msg.HTML, ">"+es.Kids+"<")
		assert.NotContains(t, msg.HTML, es.Staying)
		assert.Contains(t, msg.HTML, "maps.app.goo.gl")
	})

	t.Run("attending with kids and staying", func(t *testing.T) {
		r := database.RSVP{Name: "Joan", Email: "joan@example.com", Attending: true, AdultsCount: 1, KidsCount: 2, StayingUntilNight: boolPtr(true), DietaryRestrictions: strPtr("sense gluten"), Locale: "ca"}
		msg, err := ComposeGuestConfirmation(r, bundle.Dictionary(r.Locale), "boda@example.com")
		require.NoError(t, err)

		ca := bundle.Dictionary("ca").Email
		assert.Contains(t, msg.HTML, ">"+ca.Kids+"<")
		assert.Contains(t, msg.HTML, "sense gluten")
		assert.Contains(t, msg.HTML, ca.Staying)
		assert.Contains(t, msg.HTML, ">"+ca.StayingYes+"<")
	})

	t.Run("declined", func(t *testing.T) {
		r := database.RSVP{Name: "Sam", Email: "sam@example.com", Attending: false, Locale: "en"}
		msg, err := ComposeGuestConfirmation(r, bundle.Dictionary(r.Locale), "boda@example.com")
		require.NoError(t, err)

		en := bundle.Dictionary("en").Email
		assert.Equal(t, en.SubjectNo, msg.Subject)
		assert.Contains(t, msg.HTML, en.GreetingNo)
		assert.NotContains(t, msg.HTML, en.SummaryTitle)
	})
}

func TestDispatch_SendsBothEmails(t *testing.T) {
	record := database.RSVP{ID: 7, Name: "Anna", Email: "anna@example.com", Attending: true, AdultsCount: 2, Locale: "ca"}
	mailer := &fakeMailer{}
	d := NewDispatcher(mailer, &fakeLister{records: []database.RSVP{record}}, testBundle(t), Options{
		Enabled:    true,
		From:       "boda@example.com",
		Recipients: []string{"paula@example.com", "oriol@example.com"},
		Timeout:    time.Second,
	})

	d.Dispatch(record)
	require.NoError(t, d.Wait(context.Background()))

	msgs := mailer.messages()
	require.Len(t, msgs, 2)

	organizer := byRecipient(msgs, "paula@example.com")
	require.NotNil(t, organizer)
	assert.Equal(t, []string{"paula@example.com", "oriol@example.com"}, organizer.To)
	assert.Equal(t, "✅ Anna · RSVP Oriol & Paula", organizer.Subject)

	guest := byRecipient(msgs, "anna@example.com")
	require.NotNil(t, guest)
	assert.Equal(t, testBundle(t).Dictionary("ca").Email.SubjectYes, guest.Subject)
}

func TestDispatch_TasksAreIndependent(t *testing.T) {
	record := database.RSVP{ID: 1, Name: "Anna", Email: "anna@example.com", Attending: true, AdultsCount: 1, Locale: "es"}

	t.Run("organizer store failure", func(t *testing.T) {
		mailer := &fakeMailer{}
		d := NewDispatcher(mailer, &fakeLister{err: errors.New("db down")}, testBundle(t), Options{
			Enabled: true, Recipients: []string{"paula@example.com"},
		})

		d.Dispatch(record)
		require.NoError(t, d.Wait(context.Background()))

		msgs := mailer.messages()
		require.Len(t, msgs, 1)
		assert.Equal(t, []string{"anna@example.com"}, msgs[0].To)
	})

	t.Run("guest send failure", func(t *testing.T) {
		mailer := &fakeMailer{fail: map[string]error{"anna@example.com": errors.New("bounced")}}
		d := NewDispatcher(mailer, &fakeLister{records: []database.RSVP{record}}, testBundle(t), Options{
			Enabled: true, Recipients: []string{"paula@example.com"},
		})

		d.Dispatch(record)
		require.NoError(t, d.Wait(context.Background()))

		msgs := mailer.messages()
		require.Len(t, msgs, 1)
		assert.Equal(t, []string{"paula@example.com"}, msgs[0].To)
	})
}

func TestDispatch_NoRecipientsSkipsOrganizer(t *testing.T) {
	record := database.RSVP{ID: 1, Name: "Anna", Email: "anna@example.com", Attending: false, Locale: "en"}
	mailer := &fakeMailer{}
	d := NewDispatcher(mailer, &fakeLister{records: []database.RSVP{record}}, testBundle(t), Options{Enabled: true})

	d.Dispatch(record)
	require.NoError(t, d.Wait(context.Background()))

	msgs := mailer.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, []string{"anna@example.com"}, msgs[0].To)
}

func TestDispatch_DisabledIsNoop(t *testing.T) {
	mailer := &fakeMailer{}
	d := NewDispatcher(mailer, &fakeLister{}, testBundle(t), Options{Enabled: false, Recipients: []string{"paula@example.com"}})

	d.Dispatch(database.RSVP{ID: 1, Name: "Anna", Email: "anna@example.com", Attending: true})
	require.NoError(t, d.Wait(context.Background()))
	assert.Empty(t, mailer.messages())
}

type blockingMailer struct {
	release chan struct{}
}

func (m *blockingMailer) Send(ctx context.Context, _ Message) error {
	select {
	case <-m.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestWait_RespectsContext(t *testing.T) {
	mailer := &blockingMailer{release: make(chan struct{})}
	record := database.RSVP{ID: 1, Name: "Anna", Email: "anna@example.com", Attending: true, Locale: "ca"}
	d := NewDispatcher(mailer, &fakeLister{records: []database.RSVP{record}}, testBundle(t), Options{
		Enabled: true, Recipients: []string{"paula@example.com"}, Timeout: time.Minute,
	})

	d.Dispatch(record)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.Wait(ctx), context.DeadlineExceeded)

	close(mailer.release)
	assert.NoError(t, d.Wait(context.Background()))
}
