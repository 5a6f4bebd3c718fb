package templates

import (
	"strconv"

	"github.com/AlexTLDR/boda/internal/database"
	"github.com/AlexTLDR/boda/internal/guestlist"
	"github.com/AlexTLDR/boda/internal/i18n"
)

const dashboardDate = "02/01/2006 15:04"

// Page carries what the shared layout needs.
type Page struct {
	Dict   *i18n.Dictionary
	Locale i18n.Locale
	// Path is the route below the locale prefix, e.g. "" or "/rsvp".
	Path string
}

type LocaleLink struct {
	Code   string
	URL    string
	Active bool
}

// LocaleLinks points the language switcher at the same page in every locale.
func (p Page) LocaleLinks() []LocaleLink {
	links := make([]LocaleLink, 0, len(i18n.Locales))
	for _, l := range i18n.Locales {
		links = append(links, LocaleLink{
			Code:   string(l),
			URL:    "/" + string(l) + p.Path,
			Active: l == p.Locale,
		})
	}
	return links
}

func (p Page) Home() string {
	return "/" + string(p.Locale)
}

func (p Page) RSVPURL() string {
	return "/" + string(p.Locale) + "/rsvp"
}

type HomePage struct {
	Page
	DaysLeft    int
	PhotosURL   string
	PlaylistURL string
}

type RSVPPage struct {
	Page
	Honeypot string
	MaxParty int
}

type LoginPage struct {
	Error string
}

type DashboardPage struct {
	View guestlist.View
	// Records is every loaded response in load order. The page embeds them
	// so search and sorting run in the browser without another request.
	Records []database.RSVP
}

// DashboardRow is one embedded record with its display strings ready.
type DashboardRow struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Attending bool   `json:"attending"`
	People    int    `json:"people"`
	Party     string `json:"party"`
	Dietary   string `json:"dietary"`
	Staying   *bool  `json:"staying"`
	Song      string `json:"song"`
	Comment   string `json:"comment"`
	Created   int64  `json:"created"`
	Date      string `json:"date"`
}

// PartyLabel reads like "2 adultos + 1 niño".
func PartyLabel(adults, kids int) string {
	label := strconv.Itoa(adults) + " " + i18n.Plural(adults, "adulto", "adultos")
	if kids > 0 {
		label += " + " + strconv.Itoa(kids) + " " + i18n.Plural(kids, "niño", "niños")
	}
	return label
}

func (p DashboardPage) Rows() []DashboardRow {
	rows := make([]DashboardRow, 0, len(p.Records))
	for _, r := range p.Records {
		rows = append(rows, DashboardRow{
			Name:      r.Name,
			Email:     r.Email,
			Attending: r.Attending,
			People:    r.People(),
			Party:     PartyLabel(r.AdultsCount, r.KidsCount),
			Dietary:   r.Dietary(),
			Staying:   r.StayingUntilNight,
			Song:      r.Song(),
			Comment:   r.Comment(),
			Created:   r.CreatedAt.UnixMicro(),
			Date:      r.CreatedAt.Format(dashboardDate),
		})
	}
	return rows
}

// SortLink is the dashboard URL that toggles sorting by field.
func (p DashboardPage) SortLink(field string) string {
	return "/lista?" + p.View.Order.Toggle(guestlist.Field(field)).Query(p.View.Query)
}

func (p DashboardPage) SortIcon(field string) string {
	return p.View.Order.Indicator(guestlist.Field(field))
}

// OrganizerSummary is the organizer notification: the new response plus the
// full attendee and decliner lists.
type OrganizerSummary struct {
	Couple    string
	Headline  string
	Attending bool
	Stats     guestlist.Stats
	Confirmed []database.RSVP
	Declined  []database.RSVP
}

// GuestConfirmation is the email sent to the guest. Dietary and Staying are
// already localized; Staying is empty when the guest did not answer.
type GuestConfirmation struct {
	Couple  string
	Copy    i18n.GuestEmailCopy
	Event   i18n.EventCopy
	Record  database.RSVP
	Dietary string
	Staying string
}
