/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the period engine HTTP server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags and load the INI config
  2. Configure logrus
  3. Load the period definition table
  4. Initialize SQLite store
  5. Create API handler, router and snapshot warmer
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  INI config path (default: config.ini, missing file = defaults)
  -port    HTTP server port, overrides [server] port
  -db      SQLite database path, overrides [database] path
           Use ":memory:" for in-memory database

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the snapshot warmer
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close database connection

EXAMPLES:
  ./server -config=./config.ini
  ./server -db=":memory:" -port=3000

SEE ALSO:
  - config/config.go: configuration keys
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/warp/period-engine/api"
	"github.com/warp/period-engine/config"
	"github.com/warp/period-engine/periods"
	"github.com/warp/period-engine/store/sqlite"
)

func main() {
	configPath := flag.String("config", "config.ini", "INI config path")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	cfg.SetupLogging()

	table, err := cfg.LoadTable()
	if err != nil {
		logrus.Fatalf("Failed to load period definitions: %v", err)
	}

	if cfg.Database.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
			logrus.Fatalf("Failed to create database directory: %v", err)
		}
	}
	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	handler := api.NewHandler(store, periods.NewResolver(table))
	handler.DatePattern = cfg.Periods.DatePattern
	handler.DefaultFiscalYearEnd = cfg.DefaultFiscalYearEnd()
	if cfg.Periods.ScheduleWorkers > 0 {
		handler.ScheduleWorkers = cfg.Periods.ScheduleWorkers
	}

	router := api.NewRouter(handler, api.RouterOptions{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateQPS:        cfg.Server.RateQPS,
		RateBurst:      cfg.Server.RateBurst,
	})

	warmer := api.NewSnapshotWarmer(handler)
	warmer.Interval = cfg.Periods.WarmInterval
	warmer.Start()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logrus.WithFields(logrus.Fields{
			"port":        cfg.Server.Port,
			"db":          cfg.Database.Path,
			"definitions": table.Len(),
		}).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")
	warmer.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.Fatalf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server stopped")
}
