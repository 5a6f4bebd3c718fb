// Package guestlist derives the dashboard view from the stored RSVPs: the
// attending and declined partitions, headcount totals, search and sorting.
// Every function is pure and leaves its input slice untouched.
package guestlist

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"

	"github.com/AlexTLDR/boda/internal/database"
)

type Stats struct {
	Confirmed int
	Adults    int
	Kids      int
	Declined  int
}

// People is the confirmed headcount.
func (s Stats) People() int {
	return s.Adults + s.Kids
}

// Partition splits records into attending and declined, keeping load order.
func Partition(records []database.RSVP) (attending, declined []database.RSVP) {
	attending = []database.RSVP{}
	declined = []database.RSVP{}
	for _, r := range records {
		if r.Attending {
			attending = append(attending, r)
		} else {
			declined = append(declined, r)
		}
	}
	return attending, declined
}

// Summarize counts responses and sums the party sizes of attendees only.
func Summarize(records []database.RSVP) Stats {
	var s Stats
	for _, r := range records {
		if !r.Attending {
			s.Declined++
			continue
		}
		s.Confirmed++
		s.Adults += r.AdultsCount
		s.Kids += r.KidsCount
	}
	return s
}

// Search keeps rows whose name or email contains query, ignoring case and
// surrounding whitespace. An empty query returns rows unchanged.
func Search(rows []database.RSVP, query string) []database.RSVP {
	q := NormalizeQuery(query)
	if q == "" {
		return rows
	}

	out := []database.RSVP{}
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.Name), q) || strings.Contains(strings.ToLower(r.Email), q) {
			out = append(out, r)
		}
	}
	return out
}

// NormalizeQuery trims and lower-cases a search query.
func NormalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Sort returns a sorted copy of rows. c orders names; when nil, names compare
// by byte value.
func Sort(rows []database.RSVP, o Order, c *collate.Collator) []database.RSVP {
	out := slices.Clone(rows)
	if out == nil {
		out = []database.RSVP{}
	}

	slices.SortStableFunc(out, func(a, b database.RSVP) int {
		v := compare(a, b, o.Field, c)
		if o.Dir == Desc {
			return -v
		}
		return v
	})
	return out
}

func compare(a, b database.RSVP, field Field, c *collate.Collator) int {
	switch field {
	case FieldName:
		if c != nil {
			return c.CompareString(a.Name, b.Name)
		}
		return strings.Compare(a.Name, b.Name)
	case FieldPeople:
		return a.People() - b.People()
	case FieldStaying:
		return stayingRank(a.StayingUntilNight) - stayingRank(b.StayingUntilNight)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

// stayingRank orders yes before no before unanswered.
func stayingRank(v *bool) int {
	switch {
	case v == nil:
		return 2
	case *v:
		return 0
	default:
		return 1
	}
}
