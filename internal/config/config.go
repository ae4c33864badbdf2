package config

import (
	"log"
	"os"
	"strconv"
)

// Config holds everything the web frontend needs. Values come from the
// environment; cmd/web loads .env first so local development works without
// exporting anything.
type Config struct {
	Port       string
	APIBaseURL string

	// SessionSecret signs the session cookie JWT; FlashSecret authenticates
	// the separate flash-message cookie.
	SessionSecret   string
	FlashSecret     string
	SessionTTLHours int
	CookieSecure    bool

	OpenAIKey string
}

func LoadConfig() *Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	apiBaseURL := os.Getenv("API_BASE_URL")
	if apiBaseURL == "" {
		apiBaseURL = "http://localhost:8080"
	}

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		log.Printf("SESSION_SECRET not set, using development default")
		sessionSecret = "dev-session-secret-change-me"
	}

	flashSecret := os.Getenv("FLASH_SECRET")
	if flashSecret == "" {
		flashSecret = sessionSecret
	}

	sessionTTLStr := os.Getenv("SESSION_TTL_HOURS")
	sessionTTL := 168 // matches the 7-day API token lifetime
	if sessionTTLStr != "" {
		if val, err := strconv.Atoi(sessionTTLStr); err == nil {
			sessionTTL = val
		}
	}

	return &Config{
		Port:            port,
		APIBaseURL:      apiBaseURL,
		SessionSecret:   sessionSecret,
		FlashSecret:     flashSecret,
		SessionTTLHours: sessionTTL,
		CookieSecure:    os.Getenv("COOKIE_SECURE") == "true",
		OpenAIKey:       os.Getenv("OPENAI_KEY"),
	}
}

// DevAPIConfig holds settings for the bundled API emulator (cmd/devapi).
type DevAPIConfig struct {
	Addr      string
	DSN       string
	JWTSecret string

	// SMTP settings for OTP delivery. When unset the emulator logs the code
	// instead of sending mail.
	SMTPHost  string
	SMTPPort  string
	SMTPUser  string
	SMTPPass  string
	FromEmail string

	// AllowOrigin is the browser origin allowed by CORS, normally the web
	// frontend's own address.
	AllowOrigin string
}

func LoadDevAPI() *DevAPIConfig {
	addr := os.Getenv("DEVAPI_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	dsn := os.Getenv("DEVAPI_DSN")
	if dsn == "" {
		dsn = "sqlite:devapi.db"
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Printf("JWT_SECRET not set, using development default")
		jwtSecret = "dev-jwt-secret-change-me"
	}

	allowOrigin := os.Getenv("ALLOW_ORIGIN")
	if allowOrigin == "" {
		allowOrigin = "http://localhost:3000"
	}

	return &DevAPIConfig{
		Addr:        addr,
		DSN:         dsn,
		JWTSecret:   jwtSecret,
		SMTPHost:    os.Getenv("SMTP_HOST"),
		SMTPPort:    os.Getenv("SMTP_PORT"),
		SMTPUser:    os.Getenv("SMTP_USER"),
		SMTPPass:    os.Getenv("SMTP_PASS"),
		FromEmail:   os.Getenv("FROM_EMAIL"),
		AllowOrigin: allowOrigin,
	}
}
