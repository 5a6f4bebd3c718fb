package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	"github.com/AlexTLDR/boda/internal/config"
	"github.com/AlexTLDR/boda/internal/database"
	"github.com/AlexTLDR/boda/internal/i18n"
	"github.com/AlexTLDR/boda/internal/rsvp"
	"github.com/AlexTLDR/boda/internal/server/handlers"
	"github.com/AlexTLDR/boda/templates"
)

const (
	sessionName = "boda-session"
	localeKey   = "locale"
)

type Server struct {
	config       *config.Config
	db           *database.DB
	bundle       *i18n.Bundle
	rsvps        *rsvp.Service
	sessionStore *sessions.CookieStore
	router       *http.ServeMux
	cors         *cors.Cors
	httpServer   *http.Server
}

// GetDB implements handlers.Server interface
func (s *Server) GetDB() *database.DB {
	return s.db
}

// GetConfig implements handlers.Server interface
func (s *Server) GetConfig() *config.Config {
	return s.config
}

func (s *Server) GetBundle() *i18n.Bundle {
	return s.bundle
}

func (s *Server) GetRSVPService() *rsvp.Service {
	return s.rsvps
}

// rememberedLocale returns the locale stored in the session cookie, if any.
func (s *Server) rememberedLocale(r *http.Request) (i18n.Locale, bool) {
	session, _ := s.sessionStore.Get(r, sessionName)
	v, _ := session.Values[localeKey].(string)
	return i18n.Parse(v)
}

// PreferredLocale implements handlers.Server interface
func (s *Server) PreferredLocale(r *http.Request) i18n.Locale {
	if l, ok := s.rememberedLocale(r); ok {
		return l
	}
	return i18n.Negotiate(r.Header.Get("Accept-Language"), s.config.DefaultLocale)
}

// RememberLocale implements handlers.Server interface. The cookie is only
// rewritten when the locale changes.
func (s *Server) RememberLocale(w http.ResponseWriter, r *http.Request, l i18n.Locale) {
	if current, ok := s.rememberedLocale(r); ok && current == l {
		return
	}

	session, _ := s.sessionStore.Get(r, sessionName)
	session.Values[localeKey] = string(l)
	if err := session.Save(r, w); err != nil {
		log.Warn().Err(err).Msg("failed to save locale preference")
	}
}

func New(cfg *config.Config, db *database.DB, bundle *i18n.Bundle, rsvps *rsvp.Service) *Server {
	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	}

	s := &Server{
		config:       cfg,
		db:           db,
		bundle:       bundle,
		rsvps:        rsvps,
		sessionStore: store,
		router:       http.NewServeMux(),
		cors: cors.New(cors.Options{
			AllowedOrigins: cfg.CORSOrigins(),
			AllowedMethods: []string{http.MethodPost},
			AllowedHeaders: []string{"Content-Type", requestIDHeader},
			ExposedHeaders: []string{requestIDHeader},
			MaxAge:         600,
		}),
	}

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s.Handler(),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
	return s
}

func (s *Server) setupRoutes() {
	// Static files
	s.router.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(templates.Static())))

	// Public routes
	s.router.HandleFunc("GET /{$}", handlers.HandleRoot(s))
	s.router.HandleFunc("GET /{locale}", handlers.HandleHome(s))
	// A /{locale}/rsvp wildcard would overlap /static/, so each locale gets its own route.
	for _, l := range i18n.Locales {
		s.router.HandleFunc("GET /"+string(l)+"/rsvp", withLocale(l, handlers.HandleRSVPPage(s)))
	}
	s.router.HandleFunc("GET /", handlers.HandleFallback(s))
	s.router.HandleFunc("POST /api/rsvp", handlers.HandleRSVPSubmit(s))

	// Dashboard gate
	s.router.HandleFunc("GET /lista/login", handlers.HandleLoginPage(s))
	s.router.HandleFunc("POST /api/lista/login", s.handleLogin)
	s.router.HandleFunc("POST /api/lista/logout", s.handleLogout)

	// Dashboard routes (protected)
	s.router.HandleFunc("GET /lista", s.requireAuth(handlers.HandleDashboard(s)))
	s.router.HandleFunc("GET /lista/export.csv", s.requireAuth(handlers.HandleExportCSV(s)))

	// Operations
	s.router.HandleFunc("GET /health", handlers.HandleHealth(s))
	s.router.Handle("GET /metrics", promhttp.Handler())
}

func withLocale(l i18n.Locale, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.SetPathValue("locale", string(l))
		next(w, r)
	}
}

// Handler returns the router wrapped in the middleware chain, outermost first:
// request id, access log, metrics, panic recovery, security headers, CORS.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.router
	h = s.apiCORS(h)
	h = securityHeaders(h)
	h = recovery(h)
	h = instrument(h)
	h = accessLog(h)
	h = requestID(h)
	return h
}

// Start listens on the configured port and blocks until the server stops.
// It returns http.ErrServerClosed after Shutdown.
func (s *Server) Start() error {
	log.Info().Str("addr", s.httpServer.Addr).Msg("starting server")
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
