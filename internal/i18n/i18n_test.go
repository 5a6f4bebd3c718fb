package i18n

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Locale
		ok    bool
	}{
		{name: "catalan", input: "ca", want: Catalan, ok: true},
		{name: "spanish upper case", input: "ES", want: Spanish, ok: true},
		{name: "english with spaces", input: " en ", want: English, ok: true},
		{name: "unsupported", input: "fr", ok: false},
		{name: "empty", input: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNegotiate(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   Locale
	}{
		{name: "empty header uses fallback", header: "", want: Catalan},
		{name: "spanish region", header: "es-MX,es;q=0.9", want: Spanish},
		{name: "english preferred", header: "en-GB,en;q=0.8,ca;q=0.5", want: English},
		{name: "unsupported language", header: "ja-JP", want: Catalan},
		{name: "garbage", header: ";;;", want: Catalan},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Negotiate(tt.header, Catalan))
		})
	}
}

func TestFromRequest(t *testing.T) {
	t.Run("path value wins", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/en/rsvp?lang=es", nil)
		r.SetPathValue("locale", "en")
		r.Header.Set("Accept-Language", "ca")
		assert.Equal(t, English, FromRequest(r, Spanish))
	})

	t.Run("query parameter", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/?lang=es", nil)
		assert.Equal(t, Spanish, FromRequest(r, Catalan))
	})

	t.Run("accept language", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("Accept-Language", "en-US")
		assert.Equal(t, English, FromRequest(r, Catalan))
	})

	t.Run("fallback", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		assert.Equal(t, Spanish, FromRequest(r, Spanish))
	})
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "adulto", Plural(1, "adulto", "adultos"))
	assert.Equal(t, "adultos", Plural(0, "adulto", "adultos"))
	assert.Equal(t, "adultos", Plural(2, "adulto", "adultos"))
}

func TestCollator_OrdersAccentsWithBaseLetters(t *testing.T) {
	c := Collator(Spanish)
	assert.Negative(t, c.CompareString("Álvaro", "Bea"))
	assert.Negative(t, c.CompareString("ana", "Bea"))
}

func TestBundle(t *testing.T) {
	b, err := NewBundle(Catalan)
	require.NoError(t, err)
	assert.Equal(t, Catalan, b.Fallback())

	for _, l := range Locales {
		d := b.Dictionary(string(l))
		require.NotNil(t, d)
		assert.Equal(t, l, d.Locale)
		assert.NotEmpty(t, d.Site.Couple, "site.couple for %s", l)
		assert.NotEmpty(t, d.RSVP.Submit, "rsvp.submit for %s", l)
		assert.NotEmpty(t, d.Email.SubjectYes, "email.subject_yes for %s", l)
		assert.NotEmpty(t, d.Email.None, "email.none for %s", l)
		assert.NotEmpty(t, d.Event.MapsURL, "event.maps_url for %s", l)
		assert.NotEmpty(t, d.Timeline.Items, "timeline.items for %s", l)
		assert.NotEmpty(t, d.FAQ.Items, "faq.items for %s", l)
		assert.NotEmpty(t, d.Contact.People, "contact.people for %s", l)
	}

	ca, en := b.Dictionary("ca"), b.Dictionary("en")
	assert.Len(t, en.Timeline.Items, len(ca.Timeline.Items))
	assert.Len(t, en.FAQ.Items, len(ca.FAQ.Items))
	assert.Equal(t, ca.Contact.People, en.Contact.People)

	assert.Equal(t, Catalan, b.Dictionary("de").Locale)
	assert.Equal(t, Catalan, b.Dictionary("").Locale)
	assert.Equal(t, "Ninguna", b.Dictionary("es").Email.None)
}

func TestNewBundle_RejectsUnsupportedFallback(t *testing.T) {
	_, err := NewBundle(Locale("fr"))
	assert.Error(t, err)
}
