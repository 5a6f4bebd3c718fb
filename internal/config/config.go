package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/securecookie"

	"github.com/AlexTLDR/boda/internal/i18n"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	defaultFromEmail = "onboarding@resend.dev"
)

type Config struct {
	// App
	Environment   string
	Port          string
	PublicSiteURL string
	DefaultLocale i18n.Locale

	// Server
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Logging
	LogLevel  string
	LogPretty bool

	// Database
	DatabaseURL string

	// Email
	ResendAPIKey       string
	FromEmail          string
	NotificationEmails []string
	EmailTimeout       time.Duration

	// Dashboard
	DashboardPassword string

	// Session
	SessionSecret string

	// Links
	PhotosURL   string
	PlaylistURL string

	// Event
	EventDate time.Time

	// CORS
	AllowedOrigins []string
}

func Load() (*Config, error) {
	cfg := &Config{
		Environment:        strings.ToLower(getEnv("ENVIRONMENT", EnvDevelopment)),
		Port:               getEnv("PORT", "8080"),
		PublicSiteURL:      strings.TrimRight(getEnv("PUBLIC_SITE_URL", "http://localhost:8080"), "/"),
		ReadTimeout:        getDuration("READ_TIMEOUT", 15*time.Second),
		WriteTimeout:       getDuration("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:        getDuration("IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout:    getDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
		LogLevel:           strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogPretty:          getBool("LOG_PRETTY", false),
		DatabaseURL:        getEnv("DATABASE_URL", "boda.db"),
		ResendAPIKey:       getEnv("RESEND_API_KEY", ""),
		FromEmail:          getEnv("RESEND_FROM_EMAIL", defaultFromEmail),
		NotificationEmails: splitCSV(getEnv("NOTIFICATION_EMAILS", "")),
		EmailTimeout:       getDuration("EMAIL_TIMEOUT", 30*time.Second),
		DashboardPassword:  getEnv("DASHBOARD_PASSWORD", ""),
		SessionSecret:      getEnv("SESSION_SECRET", ""),
		PhotosURL:          getEnv("GOOGLE_PHOTOS_URL", ""),
		PlaylistURL:        getEnv("SPOTIFY_PLAYLIST_URL", ""),
		AllowedOrigins:     splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "")),
	}

	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}

	locale, ok := i18n.Parse(getEnv("DEFAULT_LOCALE", string(i18n.Catalan)))
	if !ok {
		return nil, errors.New("DEFAULT_LOCALE must be one of: ca, es, en")
	}
	cfg.DefaultLocale = locale

	eventDate, err := time.Parse(time.RFC3339, getEnv("EVENT_DATE", "2026-09-19T12:00:00+02:00"))
	if err != nil {
		return nil, fmt.Errorf("invalid EVENT_DATE format: %w", err)
	}
	cfg.EventDate = eventDate

	// A random key keeps development sessions working; they do not survive restarts.
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = hex.EncodeToString(securecookie.GenerateRandomKey(32))
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Environment {
	case EnvDevelopment, EnvProduction:
	default:
		return errors.New("ENVIRONMENT must be one of: development, production")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return errors.New("LOG_LEVEL must be one of: debug, info, warn, error")
	}
	if strings.TrimSpace(c.Port) == "" {
		return errors.New("PORT must not be empty")
	}
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return errors.New("DATABASE_URL must not be empty")
	}
	if c.ReadTimeout <= 0 || c.WriteTimeout <= 0 || c.IdleTimeout <= 0 || c.ShutdownTimeout <= 0 || c.EmailTimeout <= 0 {
		return errors.New("timeouts must be positive durations")
	}
	return nil
}

// IsProduction reports whether cookies must be marked Secure.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// EmailEnabled reports whether an email provider key is configured.
func (c *Config) EmailEnabled() bool {
	return c.ResendAPIKey != ""
}

// CORSOrigins returns the public site URL plus any extra allowed origins.
func (c *Config) CORSOrigins() []string {
	origins := make([]string, 0, len(c.AllowedOrigins)+1)
	if c.PublicSiteURL != "" {
		origins = append(origins, c.PublicSiteURL)
	}
	return append(origins, c.AllowedOrigins...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// splitCSV splits a comma-separated list, trimming blanks and dropping empties.
func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
