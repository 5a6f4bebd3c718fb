package database

import "time"

// RSVP is one stored guest response. Records are never updated after insert.
type RSVP struct {
	ID                  int64     `db:"id" json:"id"`
	Name                string    `db:"name" json:"name"`
	Email               string    `db:"email" json:"email"`
	Attending           bool      `db:"attending" json:"attending"`
	AdultsCount         int       `db:"adults_count" json:"adults_count"`
	KidsCount           int       `db:"kids_count" json:"kids_count"`
	DietaryRestrictions *string   `db:"dietary_restrictions" json:"dietary_restrictions"`
	StayingUntilNight   *bool     `db:"staying_until_night" json:"staying_until_night"`
	SongRequest         *string   `db:"song_request" json:"song_request"`
	Comments            *string   `db:"comments" json:"comments"`
	Locale              string    `db:"locale" json:"locale"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
}

// People is the party size: adults plus kids.
func (r RSVP) People() int {
	return r.AdultsCount + r.KidsCount
}

// Dietary returns the dietary restrictions or "".
func (r RSVP) Dietary() string {
	return deref(r.DietaryRestrictions)
}

func (r RSVP) Song() string {
	return deref(r.SongRequest)
}

func (r RSVP) Comment() string {
	return deref(r.Comments)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
