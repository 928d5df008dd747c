package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Taciones/parquet-comparison-job/api"
	"github.com/Taciones/parquet-comparison-job/config"
)

// newServeCommand creates the HTTP service command.
func newServeCommand() *cobra.Command {
	var port string
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve single-pair comparison over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := api.ServerOptions{Port: port}

			if configPath != "" {
				cfg, err := config.LoadConfig(configPath)
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}
				if cfg.Server.Port != "" && port == "" {
					opts.Port = cfg.Server.Port
				}
				opts.Prefork = cfg.Server.Prefork
			}

			return startServer(opts)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (default 3000)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML configuration file")

	return cmd
}

// startServer runs the server with graceful shutdown handling.
func startServer(opts api.ServerOptions) error {
	server := api.NewServer(opts)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-quit
	log.Println("Received shutdown signal, stopping server...")

	if err := server.Shutdown(); err != nil {
		log.Fatalf("Error shutting down: %v", err)
	}

	log.Println("Server shutdown successfully")
	return nil
}
