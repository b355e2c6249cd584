package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yigit/collegeportal/internal/bootstrap"
	"github.com/yigit/collegeportal/internal/pkg/logger"
	"github.com/yigit/collegeportal/internal/server"
)

// @title College Portal API
// @version 1.0
// @description API for the college portal: notices, forum, friends, messages, stories and the AI assistant
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT session token

var configPath = filepath.Join("configs", "config.yaml")

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "collegeportal",
	Short: "Runs the college portal API server",
	Args:  cobra.NoArgs,
	// serving is the default
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, err := server.NewServer(commandContext(cmd), configPath)
		if err != nil {
			return err
		}
		// Run blocks until a shutdown signal
		if err := srv.Run(); err != nil {
			return err
		}
		logger.Info().Msg("Application finished gracefully.")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Open the configured storage, seed it if it is new, and exit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
		if err != nil {
			return err
		}
		storage, err := bootstrap.OpenStorage(commandContext(cmd), cfg, lgr)
		if err != nil {
			return err
		}
		return storage.Close()
	},
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// init is the initialization function for Cobra which defines flags.
func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", configPath,
		"Path to the YAML configuration file.")
	rootCmd.AddCommand(serveCmd, seedCmd)
}
