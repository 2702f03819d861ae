package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oneconfig/oneconfig"
	"github.com/oneconfig/oneconfig/internal/cli"
	"github.com/oneconfig/oneconfig/internal/httpapi"
	"github.com/oneconfig/oneconfig/internal/logging"
	"github.com/oneconfig/oneconfig/internal/presentation/tui"
	"github.com/oneconfig/oneconfig/pkg/registry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the validation HTTP service",
	Long: `Starts the HTTP service exposing schema management and document
validation over a JSON API.`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")
		storeName, _ := cmd.Flags().GetString("store")
		dir, _ := cmd.Flags().GetString("dir")
		redisAddr, _ := cmd.Flags().GetString("redis-addr")
		redisPassword, _ := cmd.Flags().GetString("redis-password")
		redisDB, _ := cmd.Flags().GetInt("redis-db")
		levelName, _ := cmd.Flags().GetString("log-level")

		level, err := cli.ParseLevel(levelName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		logger := logging.New(level)

		store, cleanup, err := cli.BuildStore(cli.StoreOptions{
			Store:         storeName,
			Dir:           dir,
			RedisAddr:     redisAddr,
			RedisPassword: redisPassword,
			RedisDB:       redisDB,
		}, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error initializing store: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			if err := cleanup(); err != nil {
				logger.Error("Store shutdown failed", "err", err)
			}
		}()

		reg := registry.New(store, registry.WithLogger(logger))
		server := httpapi.NewServer(reg, logger)

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: server.Handler(),
		}

		tui.PrintBanner(oneconfig.Version)

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			logger.Info("Server listening", "addr", srv.Addr, "store", storeName)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			logger.Info("Shutdown started", "signal", sig.String())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("Graceful shutdown did not complete", "timeout", 5*time.Second, "err", err)
				if err := srv.Close(); err != nil {
					logger.Error("Forced close failed", "err", err)
				}
			}
			logger.Info("Server stopped")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("store", "memory", "Schema store backend: memory, file or redis")
	serveCmd.Flags().String("dir", "", `Directory for the file store (default ".oneconfig/schemas")`)
	serveCmd.Flags().String("redis-addr", "", "Redis address (host:port) for the redis store")
	serveCmd.Flags().String("redis-password", "", "Redis password")
	serveCmd.Flags().Int("redis-db", 0, "Redis database number")
	serveCmd.Flags().String("log-level", "info", "Log level: debug, info, warn or error")
}
