package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	httpAdapter "github.com/aretw0/espalier/internal/adapters/http"
	"github.com/aretw0/espalier/internal/cli"
	"github.com/aretw0/espalier/internal/logging"
	"github.com/aretw0/espalier/pkg/adapters/loam"
	"github.com/aretw0/espalier/pkg/adapters/sqlite"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/observability"
	"github.com/aretw0/espalier/pkg/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Starts the simulator as a JSON API over HTTP: run, validate and diagram
endpoints, interactive session endpoints, prometheus metrics and a health
check.`,
	Run: func(cmd *cobra.Command, args []string) {
		addr, _ := cmd.Flags().GetString("addr")
		redisURL, _ := cmd.Flags().GetString("redis")

		cfg := loadConfig()
		if !cmd.Flags().Changed("addr") {
			addr = cfg.Server.Addr
		}
		if redisURL != "" {
			cfg.Sessions.Backend = "redis"
			cfg.Sessions.RedisURL = redisURL
		}

		mode, err := domain.ParseAcceptanceMode(cfg.Engine.Mode)
		if err != nil {
			fmt.Printf("Error in config: %v\n", err)
			os.Exit(1)
		}

		level, err := logging.ParseLevel(cfg.Logging.Level)
		if err != nil {
			level = slog.LevelInfo
		}
		logger := logging.New(level)

		backend, err := cli.BuildSessionBackend(cfg, logger)
		if err != nil {
			fmt.Printf("Error configuring session store: %v\n", err)
			os.Exit(1)
		}
		defer backend.Close()

		managerOpts := []session.Option{session.WithLogger(logger)}
		if backend.Locker != nil {
			managerOpts = append(managerOpts,
				session.WithLocker(backend.Locker),
				session.WithLockTTL(cfg.Sessions.LockTTL),
			)
		}

		server := &httpAdapter.Server{
			Sessions: session.NewManager(backend.Store, managerOpts...),
			Metrics:  observability.NewMetrics(),
			Logger:   logger,
			MaxSteps: cfg.Engine.MaxSteps,
			Mode:     mode,
		}

		if lib, err := loam.Open(cfg.Library.Dir); err != nil {
			logger.Warn("library disabled", "dir", cfg.Library.Dir, "error", err)
		} else {
			server.Library = lib
		}

		if cfg.History.Path != "" {
			runs, err := sqlite.Open(cfg.History.Path)
			if err != nil {
				logger.Warn("history disabled", "path", cfg.History.Path, "error", err)
			} else {
				server.Runs = runs
				defer runs.Close()
			}
		}

		srv := &http.Server{
			Addr:    addr,
			Handler: httpAdapter.NewHandler(server),
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			logger.Info("Starting Espalier Server", "addr", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			// Error when starting HTTP server.
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()

			// Asking listener to shut down and shed load.
			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", cfg.Server.ShutdownTimeout, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Espalier Server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", ":8080", "Address to listen on (default from config)")
	serveCmd.Flags().String("redis", "", "Redis URL for session storage (overrides config)")
}
