/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the finance tracker server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (optional) and parse command-line flags
  2. Build the configured store backend
  3. Create the tracker session and load state
  4. Configure HTTP router
  5. Start server with graceful shutdown

CONFIGURATION:
  Flags win over environment variables; .env feeds the environment.
  -port / PORT          HTTP server port (default: 8080)
  -store / STORE        Backend: "sqlite" or "memory" (default: sqlite)
  -db / DB_PATH         SQLite database path (default: finance.db)
                        Use ":memory:" for an in-memory database

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close the store
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/finance.db"

  # Run without persistence
  ./server -store=memory

SEE ALSO:
  - api/server.go: Router configuration
  - factory/store.go: Backend selection
  - tracker/tracker.go: Session state
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/warp/finance-tracker/api"
	"github.com/warp/finance-tracker/factory"
	"github.com/warp/finance-tracker/tracker"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

// run owns the whole lifecycle so the store closes on every exit path,
// including startup failures.
func run() error {
	// A missing .env is fine; flags and real env still apply.
	_ = godotenv.Load()

	port := flag.Int("port", envInt("PORT", 8080), "HTTP server port")
	backend := flag.String("store", envStr("STORE", factory.BackendSQLite), "store backend: sqlite or memory")
	dbPath := flag.String("db", envStr("DB_PATH", "finance.db"), "SQLite database path")
	flag.Parse()

	store, closeStore, err := factory.NewStore(*backend, *dbPath)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer closeStore()

	session := tracker.New(store)
	if err := session.Load(context.Background()); err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}

	router := api.NewRouter(api.NewHandler(session))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Server starting on http://localhost:%d (store=%s)", *port, *backend)
		serverErr <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
