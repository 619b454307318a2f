// Command isoflow-server serves the isoflow REST API.
//
// Usage:
//
//	isoflow-server [flags]
//
// Flags:
//
//	--env-file  Path to .env file
//	--host      Host to bind to (default: 0.0.0.0)
//	--port      Port to listen on (default: 8080)
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aria-lang/isoflow-go/api/handlers"
	"github.com/aria-lang/isoflow-go/internal/config"
	"github.com/aria-lang/isoflow-go/internal/log"
	"github.com/aria-lang/isoflow-go/pkg/isoflow"
)

// Version information set via ldflags during build.
var version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		envFile string
		host    string
		port    int
	)

	cmd := &cobra.Command{
		Use:   "isoflow-server",
		Short: "Start the isoflow HTTP API server",
		Long: `Start the isoflow HTTP API server.

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. .env file (if --env-file specified or .env exists in current directory)
  3. Environment variables
  4. Command line flags

Environment variables:
  HOST                      Server host to bind to (default: 0.0.0.0)
  PORT                      Server port to listen on (default: 8080)
  DATA_DIR                  Directory for cached documents (default: data)
  DB_URL                    Cache documents in a database instead (sqlite:///path, postgres://...)
  CACHE_MAX_AGE             Seconds a cached document stays fresh, 0 = forever (default: 0)
  MEMORY_CACHE_SIZE         Parsed entries kept in memory (default: 256)
  RANK_PARALLELISM          Concurrent candidate loads when ranking (default: 4)
  LOG_LEVEL                 Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
  LOG_FORMAT                Log format: pretty, json (default: pretty)
  CORS_ORIGINS              Comma-separated list of allowed origins

  UNIPROT_*                 UniProt download configuration
    BASE_URL                Service root (default: https://rest.uniprot.org/uniprotkb)
    TIMEOUT                 Request timeout in seconds (default: 10)
    MAX_RETRIES             Retry attempts (default: 3)
    INITIAL_DELAY           First retry delay in seconds (default: 0.5)
    BACKOFF_FACTOR          Delay multiplier per retry (default: 2.0)`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(envFile, host, port)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&host, "host", "", "Server host to bind to (default: 0.0.0.0)")
	cmd.Flags().IntVar(&port, "port", 0, "Server port to listen on (default: 8080)")

	return cmd
}

func runServe(envFile, host string, port int) error {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = applyOverrides(cfg, host, port)

	if err := cfg.EnsureDataDir(); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	logger := log.Configure(cfg)
	logger.Info("starting isoflow",
		"version", version,
		"addr", cfg.Addr(),
		"data_dir", cfg.DataDir(),
		"database", cfg.UsesDatabase(),
		"uniprot", cfg.UniProt().BaseURL(),
	)

	svc, err := isoflow.New(context.Background(), cfg, logger)
	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Error("failed to close service", "error", err)
		}
	}()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handlers.NewRouter(handlers.New(svc, logger), cfg.CORSOrigins()),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan error, 1)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("server is shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		server.SetKeepAlivesEnabled(false)
		done <- server.Shutdown(ctx)
	}()

	logger.Info("isoflow API server listening", "url", "http://"+cfg.Addr())
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen on %s: %w", cfg.Addr(), err)
	}

	if err := <-done; err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

// applyOverrides applies command line flags over loaded configuration.
func applyOverrides(cfg config.AppConfig, host string, port int) config.AppConfig {
	if host != "" {
		cfg = cfg.WithHost(host)
	}
	if port != 0 {
		cfg = cfg.WithPort(port)
	}
	return cfg
}
