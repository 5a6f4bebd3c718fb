package server

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"mime"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/AlexTLDR/boda/internal/server/handlers"
	"github.com/AlexTLDR/boda/templates"
)

const (
	authCookieName   = "dashboard_auth"
	authCookieMaxAge = 7 * 24 * 60 * 60
	maxLoginBody     = 4 << 10
)

// gateToken is the cookie value that opens the dashboard: the lowercase hex
// SHA-256 of the shared secret. It is the same for every login.
func gateToken(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

func (s *Server) authCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     authCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: http.SameSiteStrictMode,
	}
}

// isAuthenticated fails closed when no secret is configured.
func (s *Server) isAuthenticated(r *http.Request) bool {
	secret := s.config.DashboardPassword
	if secret == "" {
		return false
	}
	c, err := r.Cookie(authCookieName)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(c.Value), []byte(gateToken(secret))) == 1
}

// requireAuth is a middleware that checks if the visitor passed the dashboard gate
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.isAuthenticated(r) {
			http.Redirect(w, r, "/lista/login", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

// isFormPost reports whether the body is an HTML form. Anything else is
// decoded as JSON, whatever its Content-Type says.
func isFormPost(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mt == "application/x-www-form-urlencoded" || mt == "multipart/form-data"
}

// handleLogin accepts {"password": "..."} as JSON or a password form field
// from the login page. JSON callers get status codes; form posts are
// redirected to the dashboard or shown the form again.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxLoginBody)
	form := isFormPost(r)

	var password string
	if form {
		if err := r.ParseForm(); err != nil {
			s.loginFailed(w, r, form, http.StatusBadRequest, "Invalid request")
			return
		}
		password = r.PostFormValue("password")
	} else {
		var body struct {
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			s.loginFailed(w, r, form, http.StatusBadRequest, "Invalid request")
			return
		}
		password = body.Password
	}

	secret := s.config.DashboardPassword
	if secret == "" {
		log.Error().Msg("dashboard login attempted but DASHBOARD_PASSWORD is not set")
		s.loginFailed(w, r, form, http.StatusInternalServerError, "Not configured")
		return
	}

	token := gateToken(secret)
	if subtle.ConstantTimeCompare([]byte(gateToken(password)), []byte(token)) != 1 {
		log.Warn().Str("remote_addr", r.RemoteAddr).Msg("dashboard login failed")
		s.loginFailed(w, r, form, http.StatusUnauthorized, "Invalid password")
		return
	}

	http.SetCookie(w, s.authCookie(token, authCookieMaxAge))
	log.Info().Msg("dashboard login")

	if form {
		http.Redirect(w, r, "/lista", http.StatusSeeOther)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// loginFailed answers a rejected login without setting any cookie.
func (s *Server) loginFailed(w http.ResponseWriter, r *http.Request, form bool, status int, msg string) {
	if !form {
		handlers.WriteError(w, status, msg)
		return
	}

	page := templates.LoginPage{Error: "Contraseña incorrecta"}
	if status == http.StatusInternalServerError {
		page.Error = "El acceso no está configurado"
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.Login(page).Render(r.Context(), w); err != nil {
		log.Error().Err(err).Msg("failed to render login page")
	}
}

// handleLogout clears the gate cookie and returns to the home page in the
// remembered locale.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, s.authCookie("", -1))

	l, ok := s.rememberedLocale(r)
	if !ok {
		l = s.config.DefaultLocale
	}
	http.Redirect(w, r, "/"+string(l), http.StatusSeeOther)
}
