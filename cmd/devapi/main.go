package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	ghandlers "github.com/gorilla/handlers"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/TheKyban/highway-delite-notes-frontend/internal/config"
	"github.com/TheKyban/highway-delite-notes-frontend/internal/devapi"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found")
	}

	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devapi",
		Short: "Local stand-in for the notes API",
		Long: `devapi implements the notes API contract against a local database so the
web frontend can run and be tested without the real service.`,
	}
	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newSeedCommand())
	return cmd
}

func newServeCommand() *cobra.Command {
	var addr, dsn string

	cmd := &cobra.Command{
		Use:          "serve",
		Short:        "Start the API server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadDevAPI()
			if addr != "" {
				cfg.Addr = addr
			}
			if dsn != "" {
				cfg.DSN = dsn
			}

			store, err := devapi.Open(cfg.DSN)
			if err != nil {
				return err
			}
			defer store.Close()

			srv := devapi.NewServer(store, devapi.NewTokenService(cfg.JWTSecret), devapi.NewMailer(cfg))
			router := ghandlers.LoggingHandler(os.Stdout, srv.Router(cfg.AllowOrigin))

			log.Printf("devapi listening on %s (db %s)...", cfg.Addr, cfg.DSN)
			return http.ListenAndServe(cfg.Addr, router)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from DEVAPI_ADDR or :8080)")
	cmd.Flags().StringVar(&dsn, "dsn", "", "database DSN, sqlite:path or mysql:user:pass@tcp(host)/db")
	return cmd
}

func newSeedCommand() *cobra.Command {
	var dsn string

	cmd := &cobra.Command{
		Use:          "seed <fixture.yaml>",
		Short:        "Load users and notes from a YAML fixture",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadDevAPI()
			if dsn != "" {
				cfg.DSN = dsn
			}

			store, err := devapi.Open(cfg.DSN)
			if err != nil {
				return err
			}
			defer store.Close()

			users, notes, err := store.Seed(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d users and %d notes\n", users, notes)
			return nil
		},
	}

	cmd.Flags().StringVar(&dsn, "dsn", "", "database DSN, sqlite:path or mysql:user:pass@tcp(host)/db")
	return cmd
}
