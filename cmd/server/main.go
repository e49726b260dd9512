/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the timesheet engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Read environment config, then command-line flags
  2. Open the SQLite blob slot
  3. Load the repository from the persisted snapshot
  4. Wire the sync gateway and API handler
  5. Start server with graceful shutdown

CONFIGURATION:
  PORT / -port    HTTP server port (default: 8080)
  DB_PATH / -db   SQLite database path (default: timesheet.db)
                  Use ":memory:" for an in-memory database
  Flags win over environment variables.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Flush the snapshot and close the database
  4. Exit

SEE ALSO:
  - api/server.go: Router configuration
  - timesheet/repository.go: Record store
  - store/sqlite/sqlite.go: Blob slot implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/warp/timesheet-engine/api"
	"github.com/warp/timesheet-engine/remote"
	"github.com/warp/timesheet-engine/store/sqlite"
	"github.com/warp/timesheet-engine/timesheet"
)

type config struct {
	Port   int    `env:"PORT"`
	DBPath string `env:"DB_PATH"`
}

func main() {
	// Environment first, flags override
	cfg := config{Port: 8080, DBPath: "timesheet.db"}
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("Failed to parse environment: %v", err)
	}
	port := flag.Int("port", cfg.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	flag.Parse()

	// Initialize the blob slot
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Load the repository from the persisted snapshot
	ctx := context.Background()
	repo, err := timesheet.Open(ctx, store)
	if err != nil {
		log.Fatalf("Failed to load snapshot: %v", err)
	}

	// Wire sync and API
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	syncer := &remote.Syncer{
		Log:     logger,
		Gateway: remote.NewGateway(logger),
		Repo:    repo,
	}
	handler := api.NewHandler(repo, syncer)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%d", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	if err := repo.Flush(shutdownCtx); err != nil {
		log.Printf("Warning: final flush failed: %v", err)
	}

	log.Println("Server stopped")
}
