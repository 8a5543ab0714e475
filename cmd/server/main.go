// Package main implements the entry point for the Smart Todo API server,
// a REST service that stores tasks and assigns each new task a category.
package main

import (
	"fmt"
	"os"

	"github.com/phrazzld/smart-todo-api/internal/api"
	"github.com/phrazzld/smart-todo-api/internal/config"
	"github.com/phrazzld/smart-todo-api/internal/platform/logger"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Running the binary without a
// subcommand starts the server.
func newRootCmd() *cobra.Command {
	var configPath string

	serve := serveCmd(&configPath)

	root := &cobra.Command{
		Use:           "todo-api",
		Short:         "Smart Todo API - task management with automatic categorization",
		Version:       api.ServiceVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"path to a config file (default: ./config.yaml if present)")

	root.AddCommand(serve)
	root.AddCommand(migrateCmd(&configPath))
	root.AddCommand(categorizeCmd())

	return root
}

// loadConfig loads configuration and sets up structured logging from it.
func loadConfig(configPath string) (*config.Config, error) {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if _, err := logger.Setup(cfg.Server); err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	return cfg, nil
}
