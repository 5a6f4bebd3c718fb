package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/AlexTLDR/boda/internal/guestlist"
	"github.com/AlexTLDR/boda/internal/i18n"
	"github.com/AlexTLDR/boda/templates"
)

// The dashboard is for the couple and is Spanish only.
const dashboardLocale = i18n.Spanish

// HandleLoginPage renders the dashboard password form
func HandleLoginPage(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		render(w, r, http.StatusOK, templates.Login(templates.LoginPage{}))
	}
}

// HandleDashboard loads every RSVP once and embeds them in the page; the
// browser searches and sorts from there. q, sort and dir only shape the
// first render.
func HandleDashboard(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := s.GetDB().ListRSVPs(r.Context())
		if err != nil {
			log.Error().Err(err).Msg("failed to load rsvps for dashboard")
			http.Error(w, "Failed to load RSVPs", http.StatusInternalServerError)
			return
		}

		q := r.URL.Query()
		view := guestlist.Build(
			records,
			q.Get("q"),
			guestlist.ParseOrder(q.Get("sort"), q.Get("dir")),
			i18n.Collator(dashboardLocale),
		)

		w.Header().Set("Cache-Control", "no-store")
		render(w, r, http.StatusOK, templates.Dashboard(templates.DashboardPage{View: view, Records: records}))
	}
}

// HandleHealth reports whether the rsvps table can be read
func HandleHealth(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := s.GetDB().CountRSVPs(r.Context()); err != nil {
			log.Error().Err(err).Msg("health check failed")
			WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
