package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
)

//go:embed dictionaries/*.json
var dictionaryFS embed.FS

// Dictionary is the translation bundle for one locale.
type Dictionary struct {
	Locale   Locale         `json:"-"`
	Site     SiteCopy       `json:"site"`
	Nav      NavCopy        `json:"nav"`
	Event    EventCopy      `json:"event"`
	Timeline TimelineCopy   `json:"timeline"`
	FAQ      FAQCopy        `json:"faq"`
	Contact  ContactCopy    `json:"contact"`
	RSVP     RSVPCopy       `json:"rsvp"`
	Photos   LinkCopy       `json:"photos"`
	Playlist LinkCopy       `json:"playlist"`
	Email    GuestEmailCopy `json:"email"`
}

type SiteCopy struct {
	Couple      string `json:"couple"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DateShort   string `json:"date_short"`
	Countdown   string `json:"countdown"`
	DaysOne     string `json:"days_one"`
	DaysOther   string `json:"days_other"`
	Footer      string `json:"footer"`
}

type NavCopy struct {
	Home     string `json:"home"`
	RSVP     string `json:"rsvp"`
	Photos   string `json:"photos"`
	Playlist string `json:"playlist"`
	Language string `json:"language"`
}

type EventCopy struct {
	Title     string `json:"title"`
	Date      string `json:"date"`
	Location  string `json:"location"`
	MapsLabel string `json:"maps_label"`
	MapsURL   string `json:"maps_url"`
	Parking   string `json:"parking"`
}

type TimelineCopy struct {
	Title string         `json:"title"`
	Items []TimelineItem `json:"items"`
}

type TimelineItem struct {
	Time  string `json:"time"`
	Title string `json:"title"`
	Desc  string `json:"desc"`
}

type FAQCopy struct {
	Title string    `json:"title"`
	Items []FAQItem `json:"items"`
}

type FAQItem struct {
	Q string `json:"q"`
	A string `json:"a"`
}

type ContactCopy struct {
	Title    string          `json:"title"`
	Subtitle string          `json:"subtitle"`
	People   []ContactPerson `json:"people"`
}

type ContactPerson struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type RSVPCopy struct {
	Title               string `json:"title"`
	Subtitle            string `json:"subtitle"`
	Name                string `json:"name"`
	Email               string `json:"email"`
	Attending           string `json:"attending"`
	AttendingYes        string `json:"attending_yes"`
	AttendingNo         string `json:"attending_no"`
	Adults              string `json:"adults"`
	Kids                string `json:"kids"`
	Dietary             string `json:"dietary"`
	DietaryPlaceholder  string `json:"dietary_placeholder"`
	Staying             string `json:"staying"`
	StayingYes          string `json:"staying_yes"`
	StayingNo           string `json:"staying_no"`
	Song                string `json:"song"`
	Comments            string `json:"comments"`
	Submit              string `json:"submit"`
	Submitting          string `json:"submitting"`
	SuccessTitle        string `json:"success_title"`
	SuccessBody         string `json:"success_body"`
	ValidationName      string `json:"validation_name"`
	ValidationEmail     string `json:"validation_email"`
	ValidationAttending string `json:"validation_attending"`
	ErrorGeneric        string `json:"error_generic"`
	Back                string `json:"back"`
}

type LinkCopy struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	CTA   string `json:"cta"`
}

// GuestEmailCopy is the copy block for the guest confirmation email.
type GuestEmailCopy struct {
	SubjectYes   string `json:"subject_yes"`
	SubjectNo    string `json:"subject_no"`
	Hello        string `json:"hello"`
	GreetingYes  string `json:"greeting_yes"`
	GreetingNo   string `json:"greeting_no"`
	BodyNo       string `json:"body_no"`
	SummaryTitle string `json:"summary_title"`
	Adults       string `json:"adults"`
	Kids         string `json:"kids"`
	Dietary      string `json:"dietary"`
	Staying      string `json:"staying"`
	StayingYes   string `json:"staying_yes"`
	StayingNo    string `json:"staying_no"`
	None         string `json:"none"`
	InfoTitle    string `json:"info_title"`
	Footer       string `json:"footer"`
}

// Bundle holds every dictionary and resolves unknown locales to a fallback.
type Bundle struct {
	dicts    map[Locale]*Dictionary
	fallback Locale
}

// NewBundle decodes the embedded dictionaries. fallback must be a supported locale.
func NewBundle(fallback Locale) (*Bundle, error) {
	if !IsValid(string(fallback)) {
		return nil, fmt.Errorf("unsupported fallback locale %q", fallback)
	}

	b := &Bundle{
		dicts:    make(map[Locale]*Dictionary, len(Locales)),
		fallback: fallback,
	}
	for _, l := range Locales {
		data, err := dictionaryFS.ReadFile("dictionaries/" + string(l) + ".json")
		if err != nil {
			return nil, fmt.Errorf("failed to read dictionary %s: %w", l, err)
		}
		d := &Dictionary{}
		if err := json.Unmarshal(data, d); err != nil {
			return nil, fmt.Errorf("failed to decode dictionary %s: %w", l, err)
		}
		d.Locale = l
		b.dicts[l] = d
	}
	return b, nil
}

// Fallback returns the locale used for unknown input.
func (b *Bundle) Fallback() Locale {
	return b.fallback
}

// Dictionary returns the bundle for code, or the fallback bundle when code is
// not a supported locale.
func (b *Bundle) Dictionary(code string) *Dictionary {
	return b.dicts[OrDefault(code, b.fallback)]
}
