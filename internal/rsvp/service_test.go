package rsvp

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexTLDR/boda/internal/database"
	"github.com/AlexTLDR/boda/internal/i18n"
)

type memStore struct {
	mu      sync.Mutex
	records []database.RSVP
	err     error
	clock   time.Time
}

func (m *memStore) CreateRSVP(_ context.Context, r *database.RSVP) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}
	m.clock = m.clock.Add(time.Microsecond)
	r.ID = int64(len(m.records) + 1)
	r.CreatedAt = m.clock
	m.records = append(m.records, *r)
	return nil
}

type recordingNotifier struct {
	dispatched []database.RSVP
}

func (n *recordingNotifier) Dispatch(r database.RSVP) {
	n.dispatched = append(n.dispatched, r)
}

func newService() (*Service, *memStore, *recordingNotifier) {
	store := &memStore{clock: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)}
	notifier := &recordingNotifier{}
	return NewService(store, notifier, i18n.Catalan), store, notifier
}

func TestSubmit_Valid(t *testing.T) {
	svc, store, notifier := newService()

	err := svc.Submit(context.Background(), []byte(`{
		"name": "  Laia Puig ",
		"email": "laia@example.com",
		"attending": true,
		"adults_count": 2,
		"kids_count": 1,
		"dietary_restrictions": "celíaca",
		"staying_until_night": false,
		"song_request": "   ",
		"locale": "es"
	}`))
	require.NoError(t, err)

	require.Len(t, store.records, 1)
	r := store.records[0]
	assert.Equal(t, "Laia Puig", r.Name)
	assert.True(t, r.Attending)
	assert.Equal(t, 2, r.AdultsCount)
	assert.Equal(t, 1, r.KidsCount)
	assert.Equal(t, "celíaca", r.Dietary())
	require.NotNil(t, r.StayingUntilNight)
	assert.False(t, *r.StayingUntilNight)
	assert.Nil(t, r.SongRequest, "blank optional text is stored as null")
	assert.Equal(t, "es", r.Locale)

	require.Len(t, notifier.dispatched, 1)
	assert.Equal(t, r.ID, notifier.dispatched[0].ID)
}

func TestSubmit_Defaults(t *testing.T) {
	svc, store, _ := newService()

	err := svc.Submit(context.Background(), []byte(`{"name":"Pau","email":"pau@example.com","attending":false,"adults_count":null}`))
	require.NoError(t, err)

	require.Len(t, store.records, 1)
	r := store.records[0]
	assert.Equal(t, DefaultAdults, r.AdultsCount)
	assert.Equal(t, DefaultKids, r.KidsCount)
	assert.Nil(t, r.StayingUntilNight)
	assert.Equal(t, "ca", r.Locale, "configured default locale")
}

func TestSubmit_WholeValuedFloatCounts(t *testing.T) {
	svc, store, _ := newService()

	err := svc.Submit(context.Background(), []byte(`{"name":"Pau","email":"pau@example.com","attending":true,"adults_count":2.0,"kids_count":0e0}`))
	require.NoError(t, err)

	require.Len(t, store.records, 1)
	assert.Equal(t, 2, store.records[0].AdultsCount)
	assert.Equal(t, 0, store.records[0].KidsCount)
}

func TestSubmit_Honeypot(t *testing.T) {
	payloads := []string{
		`{"website":"http://spam.example","name":"Bot","email":"bot@example.com","attending":true}`,
		`{"website":"x"}`,
		`{"website":true,"name":""}`,
	}

	for _, p := range payloads {
		svc, store, notifier := newService()

		err := svc.Submit(context.Background(), []byte(p))
		assert.NoError(t, err, p)
		assert.Empty(t, store.records, p)
		assert.Empty(t, notifier.dispatched, p)
	}
}

func TestSubmit_EmptyHoneypotIsIgnored(t *testing.T) {
	svc, store, _ := newService()

	err := svc.Submit(context.Background(), []byte(`{"website":"","name":"Anna","email":"anna@example.com","attending":true}`))
	require.NoError(t, err)
	assert.Len(t, store.records, 1)
}

func TestSubmit_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		fields  []string
	}{
		{name: "missing name", payload: `{"email":"a@example.com","attending":true}`, fields: []string{"name"}},
		{name: "blank name", payload: `{"name":"   ","email":"a@example.com","attending":true}`, fields: []string{"name"}},
		{name: "invalid email", payload: `{"name":"A","email":"not-an-email","attending":true}`, fields: []string{"email"}},
		{name: "missing attending", payload: `{"name":"A","email":"a@example.com"}`, fields: []string{"attending"}},
		{name: "too many adults", payload: `{"name":"A","email":"a@example.com","attending":true,"adults_count":51}`, fields: []string{"adults_count"}},
		{name: "negative kids", payload: `{"name":"A","email":"a@example.com","attending":true,"kids_count":-1}`, fields: []string{"kids_count"}},
		{name: "unsupported locale", payload: `{"name":"A","email":"a@example.com","attending":true,"locale":"fr"}`, fields: []string{"locale"}},
		{name: "long comment", payload: `{"name":"A","email":"a@example.com","attending":false,"comments":"` + strings.Repeat("x", 1001) + `"}`, fields: []string{"comments"}},
		{name: "long name", payload: `{"name":"` + strings.Repeat("é", 201) + `","email":"a@example.com","attending":true}`, fields: []string{"name"}},
		{name: "type mismatch", payload: `{"name":"A","email":"a@example.com","attending":"yes","adults_count":"2"}`, fields: []string{"attending", "adults_count"}},
		{name: "email without domain", payload: `{"name":"A","email":"laia@","attending":true}`, fields: []string{"email"}},
		{name: "email without dotted domain", payload: `{"name":"A","email":"a@b","attending":true}`, fields: []string{"email"}},
		{name: "email with spaces", payload: `{"name":"A","email":"laia puig@example.com","attending":true}`, fields: []string{"email"}},
		{name: "quoted count", payload: `{"name":"A","email":"a@example.com","attending":true,"kids_count":"1"}`, fields: []string{"kids_count"}},
		{name: "huge count", payload: `{"name":"A","email":"a@example.com","attending":true,"adults_count":1e12}`, fields: []string{"adults_count"}},
		{name: "fractional count", payload: `{"name":"A","email":"a@example.com","attending":true,"kids_count":1.5}`, fields: []string{"kids_count"}},
		{name: "not an object", payload: `[1,2]`, fields: []string{"body"}},
		{name: "malformed", payload: `{"name":`, fields: []string{"body"}},
		{name: "empty body", payload: ``, fields: []string{"body"}},
		{name: "missing everything", payload: `{}`, fields: []string{"name", "email", "attending"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, notifier := newService()

			err := svc.Submit(context.Background(), []byte(tt.payload))

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			for _, f := range tt.fields {
				assert.Contains(t, verr.Details, f)
				assert.NotEmpty(t, verr.Details[f])
			}
			assert.Len(t, verr.Details, len(tt.fields))
			assert.Empty(t, store.records)
			assert.Empty(t, notifier.dispatched)
		})
	}
}

func TestSubmit_StorageFailure(t *testing.T) {
	svc, store, notifier := newService()
	store.err = errors.New("connection refused")

	err := svc.Submit(context.Background(), []byte(`{"name":"A","email":"a@example.com","attending":true}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorage)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Empty(t, notifier.dispatched)
}

func TestSubmit_CreatedAtIncreases(t *testing.T) {
	svc, store, _ := newService()

	for _, name := range []string{"A", "B", "C"} {
		err := svc.Submit(context.Background(), []byte(`{"name":"`+name+`","email":"x@example.com","attending":true}`))
		require.NoError(t, err)
	}

	require.Len(t, store.records, 3)
	for i := 1; i < len(store.records); i++ {
		assert.True(t, store.records[i].CreatedAt.After(store.records[i-1].CreatedAt))
	}
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Details: map[string]string{"name": "x", "email": "y"}}
	assert.Equal(t, "invalid rsvp: email, name", err.Error())
}
