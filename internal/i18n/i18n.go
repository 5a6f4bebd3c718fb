package i18n

import (
	"net/http"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type Locale string

const (
	Catalan Locale = "ca"
	Spanish Locale = "es"
	English Locale = "en"
)

// Locales lists the supported locales in matcher order.
var Locales = []Locale{Catalan, Spanish, English}

var matcher = language.NewMatcher([]language.Tag{
	language.Catalan,
	language.Spanish,
	language.English,
})

func (l Locale) String() string {
	return string(l)
}

// Tag returns the BCP 47 tag for the locale.
func (l Locale) Tag() language.Tag {
	return language.Make(string(l))
}

// Parse reports whether s names a supported locale.
func Parse(s string) (Locale, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, l := range Locales {
		if string(l) == s {
			return l, true
		}
	}
	return "", false
}

func IsValid(s string) bool {
	_, ok := Parse(s)
	return ok
}

// OrDefault returns the locale named by s, or fallback when s is not supported.
func OrDefault(s string, fallback Locale) Locale {
	if l, ok := Parse(s); ok {
		return l
	}
	return fallback
}

// Negotiate picks the best supported locale for an Accept-Language header.
func Negotiate(acceptLanguage string, fallback Locale) Locale {
	if strings.TrimSpace(acceptLanguage) == "" {
		return fallback
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return fallback
	}
	return Locales[idx]
}

// FromRequest extracts the locale from the request: the {locale} path value,
// then the lang query parameter, then Accept-Language.
func FromRequest(r *http.Request, fallback Locale) Locale {
	if l, ok := Parse(r.PathValue("locale")); ok {
		return l
	}
	if l, ok := Parse(r.URL.Query().Get("lang")); ok {
		return l
	}
	return Negotiate(r.Header.Get("Accept-Language"), fallback)
}

// Collator returns a case-insensitive collator for the locale. Collators are
// not safe for concurrent use; callers create one per operation.
func Collator(l Locale) *collate.Collator {
	return collate.New(l.Tag(), collate.IgnoreCase)
}

// Plural returns one when n is exactly 1 and other for every other count.
func Plural(n int, one, other string) string {
	if n == 1 {
		return one
	}
	return other
}
