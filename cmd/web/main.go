package main

import (
	"log"
	"net/http"
	"os"
	"time"

	ghandlers "github.com/gorilla/handlers"
	"github.com/joho/godotenv"

	"github.com/TheKyban/highway-delite-notes-frontend/internal/apiclient"
	"github.com/TheKyban/highway-delite-notes-frontend/internal/auth"
	"github.com/TheKyban/highway-delite-notes-frontend/internal/config"
	"github.com/TheKyban/highway-delite-notes-frontend/internal/handlers"
	"github.com/TheKyban/highway-delite-notes-frontend/internal/session"
	"github.com/TheKyban/highway-delite-notes-frontend/internal/templates"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.LoadConfig()

	pages, err := templates.Parse()
	if err != nil {
		log.Fatalf("Failed to parse templates: %v", err)
	}

	api := apiclient.New(cfg.APIBaseURL)
	sessions := session.NewManager(cfg.SessionSecret, time.Duration(cfg.SessionTTLHours)*time.Hour, cfg.CookieSecure)
	flashes := session.NewFlashes(cfg.FlashSecret)
	guard := auth.NewGuard(sessions, api)

	h := handlers.New(cfg, api, sessions, flashes, guard, pages)

	srv := ghandlers.LoggingHandler(os.Stdout, auth.CSRFProtect(h.Router()))

	log.Printf("Web server listening on :%s (notes API at %s)", cfg.Port, cfg.APIBaseURL)
	if err := http.ListenAndServe(":"+cfg.Port, srv); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
