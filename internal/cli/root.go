// Package cli implements the wandermind command line.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	appLogger "github.com/yuqiannemo/WanderMind/app/logger"
	"github.com/yuqiannemo/WanderMind/config"
)

var (
	driverFlag string
	portFlag   string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:           "wandermind",
	Short:         "WanderMind travel itinerary API",
	Long:          "Plans day-by-day city itineraries with a generative model and stores them per user.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	RootCmd.PersistentFlags().StringVar(&driverFlag, "driver", "", "Repository driver: memory, postgres or sqlite (overrides repositories.driver)")
	RootCmd.PersistentFlags().StringVarP(&portFlag, "port", "p", "", "HTTP port (overrides server.HTTPPort)")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads .env, the config file and the command line overrides, and
// installs the default logger.
func loadConfig() (config.Config, *slog.Logger, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("initializing config: %w", err)
	}
	if driverFlag != "" {
		cfg.Repositories.Driver = driverFlag
	}
	if portFlag != "" {
		cfg.Server.HTTPPort = portFlag
	}

	logger := appLogger.New(os.Stdout, cfg.IsDevelopment())
	slog.SetDefault(logger)
	return cfg, logger, nil
}
