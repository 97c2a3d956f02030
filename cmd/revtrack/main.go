package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/skavili/revtrack/internal/config"
	"github.com/skavili/revtrack/internal/store"
	"github.com/skavili/revtrack/internal/tracker"
	"github.com/skavili/revtrack/internal/web"
)

func main() {
	// 1. Define and parse command-line flags
	flags := pflag.NewFlagSet("revtrack", pflag.ExitOnError)
	configPath := flags.String("config", "", "Path to the YAML config file")
	flags.String("database-path", "", "Path to the sqlite file backing the document store")
	flags.String("server-addr", "", "Address to listen on")
	if err := flags.Parse(os.Args[1:]); err != nil {
		log.Fatalf("Failed to parse flags: %v", err)
	}

	// 2. Load and validate the configuration
	cfg, err := config.Load(*configPath, flags)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		// Without a working store every load and save fails, so stop here
		// instead of limping along.
		log.Fatalf("Invalid config: %v", err)
	}

	// 3. Open the document store
	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open document store: %v", err)
	}
	defer db.Close()
	slog.Info("document store opened", "path", cfg.Database.Path)

	// 4. Load the tracker state (applies the to-do retention filter)
	t, err := tracker.Load(db, tracker.Options{
		Retention: time.Duration(cfg.Todo.RetentionHours) * time.Hour,
	})
	if err != nil {
		log.Fatalf("Failed to load tracker state: %v", err)
	}

	// 5. Serve the API
	server := web.NewServer(t)
	slog.Info("listening", "addr", cfg.Server.Addr)
	if err := http.ListenAndServe(cfg.Server.Addr, server); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
