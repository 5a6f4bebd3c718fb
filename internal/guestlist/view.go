package guestlist

import (
	"strings"

	"golang.org/x/text/collate"

	"github.com/AlexTLDR/boda/internal/database"
)

// View is everything the dashboard renders for one request.
type View struct {
	Stats    Stats
	Query    string
	Order    Order
	Filtered bool

	Attending      []database.RSVP
	Declined       []database.RSVP
	TotalAttending int
	TotalDeclined  int
}

// Build partitions records once, then applies search to both partitions and
// the sort order to the attending one. Declined rows keep load order.
func Build(records []database.RSVP, query string, o Order, c *collate.Collator) View {
	attending, declined := Partition(records)
	query = strings.TrimSpace(query)

	return View{
		Stats:          Summarize(records),
		Query:          query,
		Order:          o,
		Filtered:       query != "",
		Attending:      Sort(Search(attending, query), o, c),
		Declined:       Search(declined, query),
		TotalAttending: len(attending),
		TotalDeclined:  len(declined),
	}
}
