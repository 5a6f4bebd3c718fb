package rsvp

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/AlexTLDR/boda/internal/database"
	"github.com/AlexTLDR/boda/internal/i18n"
)

const (
	DefaultAdults = 1
	DefaultKids   = 0
	MaxPartySize  = 50

	// HoneypotField is rendered hidden; people never fill it in.
	HoneypotField = "website"
)

// Submission is the decoded RSVP payload. Pointer fields distinguish an
// absent value from its zero value.
type Submission struct {
	Name                string  `json:"name"`
	Email               string  `json:"email"`
	Attending           *bool   `json:"attending"`
	AdultsCount         *int    `json:"adults_count"`
	KidsCount           *int    `json:"kids_count"`
	DietaryRestrictions *string `json:"dietary_restrictions"`
	StayingUntilNight   *bool   `json:"staying_until_night"`
	SongRequest         *string `json:"song_request"`
	Comments            *string `json:"comments"`
	Locale              string  `json:"locale"`
}

type fieldTarget struct {
	name string
	dst  any
	kind string
}

// targets maps each accepted JSON field to its destination.
func (s *Submission) targets() []fieldTarget {
	return []fieldTarget{
		{"name", &s.Name, "a string"},
		{"email", &s.Email, "a string"},
		{"attending", &s.Attending, "a boolean"},
		{"adults_count", &wholeNumber{&s.AdultsCount}, "an integer"},
		{"kids_count", &wholeNumber{&s.KidsCount}, "an integer"},
		{"dietary_restrictions", &s.DietaryRestrictions, "a string"},
		{"staying_until_night", &s.StayingUntilNight, "a boolean"},
		{"song_request", &s.SongRequest, "a string"},
		{"comments", &s.Comments, "a string"},
		{"locale", &s.Locale, "a string"},
	}
}

var errNotWhole = errors.New("not a whole number")

// wholeNumber decodes a JSON number with no fractional part, so 2 and 2.0
// both land as 2. Quoted numbers are rejected.
type wholeNumber struct {
	dst **int
}

func (w *wholeNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] == '"' {
		return errNotWhole
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	if i, err := n.Int64(); err == nil && i >= math.MinInt32 && i <= math.MaxInt32 {
		v := int(i)
		*w.dst = &v
		return nil
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return errNotWhole
	}
	v := int(f)
	*w.dst = &v
	return nil
}

// decode parses payload field by field so a type mismatch is reported against
// the field it belongs to. It also reports whether the honeypot was filled.
func decode(payload []byte) (*Submission, bool, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil || raw == nil {
		return nil, false, &ValidationError{Details: map[string]string{"body": "must be a JSON object"}}
	}

	if honeypotFilled(raw[HoneypotField]) {
		return nil, true, nil
	}

	s := &Submission{}
	details := map[string]string{}
	for _, t := range s.targets() {
		v, ok := raw[t.name]
		if !ok || isNull(v) {
			continue
		}
		if err := json.Unmarshal(v, t.dst); err != nil {
			details[t.name] = "must be " + t.kind
		}
	}
	if len(details) > 0 {
		return nil, false, &ValidationError{Details: details}
	}
	return s, false, nil
}

// honeypotFilled treats any truthy JSON value as filled.
func honeypotFilled(v json.RawMessage) bool {
	switch t := string(bytes.TrimSpace(v)); t {
	case "", "null", "false", "0", `""`:
		return false
	default:
		return true
	}
}

func isNull(v json.RawMessage) bool {
	return string(bytes.TrimSpace(v)) == "null"
}

// normalize trims text fields and turns blank optional text into nil.
func (s *Submission) normalize() {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.TrimSpace(s.Email)
	s.Locale = strings.ToLower(strings.TrimSpace(s.Locale))
	s.DietaryRestrictions = blankToNil(s.DietaryRestrictions)
	s.SongRequest = blankToNil(s.SongRequest)
	s.Comments = blankToNil(s.Comments)
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

func (s *Submission) Validate() error {
	locales := make([]interface{}, 0, len(i18n.Locales))
	for _, l := range i18n.Locales {
		locales = append(locales, string(l))
	}

	return validation.ValidateStruct(s,
		validation.Field(&s.Name, validation.Required, validation.RuneLength(1, 200)),
		validation.Field(&s.Email, validation.Required, is.Email),
		validation.Field(&s.Attending, validation.NotNil),
		validation.Field(&s.AdultsCount, validation.Min(0), validation.Max(MaxPartySize)),
		validation.Field(&s.KidsCount, validation.Min(0), validation.Max(MaxPartySize)),
		validation.Field(&s.DietaryRestrictions, validation.RuneLength(0, 500)),
		validation.Field(&s.SongRequest, validation.RuneLength(0, 300)),
		validation.Field(&s.Comments, validation.RuneLength(0, 1000)),
		validation.Field(&s.Locale, validation.In(locales...)),
	)
}

// Record converts a validated submission into a storable record, applying
// defaults for absent values.
func (s *Submission) Record(fallback i18n.Locale) database.RSVP {
	r := database.RSVP{
		Name:                s.Name,
		Email:               s.Email,
		Attending:           s.Attending != nil && *s.Attending,
		AdultsCount:         DefaultAdults,
		KidsCount:           DefaultKids,
		DietaryRestrictions: s.DietaryRestrictions,
		StayingUntilNight:   s.StayingUntilNight,
		SongRequest:         s.SongRequest,
		Comments:            s.Comments,
		Locale:              string(i18n.OrDefault(s.Locale, fallback)),
	}
	if s.AdultsCount != nil {
		r.AdultsCount = *s.AdultsCount
	}
	if s.KidsCount != nil {
		r.KidsCount = *s.KidsCount
	}
	return r
}

// validationDetails flattens ozzo errors into field → message.
func validationDetails(err error) map[string]string {
	details := map[string]string{}
	errs, ok := err.(validation.Errors)
	if !ok {
		details["body"] = err.Error()
		return details
	}
	for field, e := range errs {
		details[field] = e.Error()
	}
	return details
}
