package handlers

import (
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/rs/zerolog/log"

	"github.com/AlexTLDR/boda/internal/config"
	"github.com/AlexTLDR/boda/internal/database"
	"github.com/AlexTLDR/boda/internal/i18n"
	"github.com/AlexTLDR/boda/internal/rsvp"
	"github.com/AlexTLDR/boda/templates"
)

// Server interface defines the methods needed by handlers
type Server interface {
	GetDB() *database.DB
	GetConfig() *config.Config
	GetBundle() *i18n.Bundle
	GetRSVPService() *rsvp.Service
	// PreferredLocale is the remembered choice, then Accept-Language, then the default.
	PreferredLocale(r *http.Request) i18n.Locale
	RememberLocale(w http.ResponseWriter, r *http.Request, l i18n.Locale)
}

// daysUntil counts whole days left before the event, rounding up so the last
// day still shows 1. It never goes negative.
func daysUntil(event, t time.Time) int {
	left := event.Sub(t)
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(left.Hours() / 24))
}

func newPage(s Server, l i18n.Locale, path string) templates.Page {
	return templates.Page{
		Dict:   s.GetBundle().Dictionary(string(l)),
		Locale: l,
		Path:   path,
	}
}

func render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to render page")
	}
}

// HandleRoot sends visitors to the home page in their preferred locale
func HandleRoot(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/"+string(s.PreferredLocale(r)), http.StatusSeeOther)
	}
}

// HandleHome renders the home page
func HandleHome(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l, ok := i18n.Parse(r.PathValue("locale"))
		if !ok {
			redirectToLocale(s, w, r)
			return
		}
		s.RememberLocale(w, r, l)

		cfg := s.GetConfig()
		render(w, r, http.StatusOK, templates.Home(templates.HomePage{
			Page:        newPage(s, l, ""),
			DaysLeft:    daysUntil(cfg.EventDate, time.Now()),
			PhotosURL:   cfg.PhotosURL,
			PlaylistURL: cfg.PlaylistURL,
		}))
	}
}

// HandleRSVPPage renders the RSVP form
func HandleRSVPPage(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l, ok := i18n.Parse(r.PathValue("locale"))
		if !ok {
			redirectToLocale(s, w, r)
			return
		}
		s.RememberLocale(w, r, l)

		render(w, r, http.StatusOK, templates.RSVP(templates.RSVPPage{
			Page:     newPage(s, l, "/rsvp"),
			Honeypot: rsvp.HoneypotField,
			MaxParty: rsvp.MaxPartySize,
		}))
	}
}

// HandleFallback catches every GET no other route matched. Paths without a
// supported locale prefix are redirected under the preferred locale: an
// unknown two-letter prefix is replaced, anything else is prefixed, so /fr
// and /rsvp land on /ca and /ca/rsvp.
func HandleFallback(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		redirectToLocale(s, w, r)
	}
}

func redirectToLocale(s Server, w http.ResponseWriter, r *http.Request) {
	target, ok := localizedPath(r.URL.Path, s.PreferredLocale(r))
	if !ok {
		http.NotFound(w, r)
		return
	}
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// localizedPath rewrites path under locale l. It reports false for paths
// that already carry a supported locale, API paths and file-like paths,
// which are plain 404s.
func localizedPath(path string, l i18n.Locale) (string, bool) {
	if strings.HasPrefix(path, "/api/") || strings.Contains(path, ".") {
		return "", false
	}

	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return "/" + string(l), true
	}

	first, rest, _ := strings.Cut(trimmed, "/")
	if i18n.IsValid(first) {
		return "", false
	}
	if len(first) == 2 {
		trimmed = rest
	}
	if trimmed == "" {
		return "/" + string(l), true
	}
	return "/" + string(l) + "/" + trimmed, true
}
