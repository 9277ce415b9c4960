/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the inventory/invoicing server: configuration,
  storage backend selection, dependency wiring, graceful shutdown.

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: 8080)
  -db      SQLite database path (default: vyapar.db, ":memory:" supported)
  -redis   Redis address; when set, slots live in Redis instead of SQLite

ENVIRONMENT:
  GEMINI_API_KEY  credential for the AI assist client; absent key disables
                  assist while every manual flow keeps working.
  A .env file in the working directory is loaded if present.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM: stop accepting connections, drain active requests (30s
  timeout), close the store, exit.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/vyapar/inventory-engine/api"
	"github.com/vyapar/inventory-engine/assist"
	"github.com/vyapar/inventory-engine/obs"
	redisstore "github.com/vyapar/inventory-engine/store/redis"
	"github.com/vyapar/inventory-engine/store/sqlite"
	"github.com/vyapar/inventory-engine/vyapar"
)

func main() {
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "vyapar.db", "SQLite database path")
	redisAddr := flag.String("redis", "", "Redis address (overrides -db)")
	flag.Parse()

	logger := obs.NewLogger()

	// .env is optional; flags and real environment win.
	if err := godotenv.Load(); err == nil {
		logger.Info("loaded .env")
	}

	ctx := context.Background()

	var repo vyapar.Repository
	var closeRepo func() error
	if *redisAddr != "" {
		r, err := redisstore.Open(ctx, *redisAddr)
		if err != nil {
			logger.Error("failed to connect to redis", "addr", *redisAddr, "error", err)
			os.Exit(1)
		}
		repo, closeRepo = r, r.Close
		logger.Info("using redis store", "addr", *redisAddr)
	} else {
		r, err := sqlite.New(*dbPath)
		if err != nil {
			logger.Error("failed to open database", "path", *dbPath, "error", err)
			os.Exit(1)
		}
		repo, closeRepo = r, r.Close
		logger.Info("using sqlite store", "path", *dbPath)
	}
	defer closeRepo()

	svc, err := vyapar.NewService(ctx, repo)
	if err != nil {
		logger.Error("failed to load state", "error", err)
		os.Exit(1)
	}

	client := assist.NewClient(os.Getenv("GEMINI_API_KEY"), assist.WithLogger(logger))
	if !client.Available() {
		logger.Warn("GEMINI_API_KEY not set, AI assist disabled")
	}

	handler := api.NewHandler(svc, client, client, assist.NoDictation{}, logger)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
