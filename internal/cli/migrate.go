package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	database "github.com/yuqiannemo/WanderMind/app/db"
	"github.com/yuqiannemo/WanderMind/config"
)

func init() {
	RootCmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema for the configured driver",
		RunE:  runMigrate,
	})
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	switch cfg.Repositories.Driver {
	case config.DriverPostgres:
		dbConfig, err := database.NewDatabaseConfig(&cfg, logger)
		if err != nil {
			return err
		}
		return database.RunMigrations(dbConfig.ConnectionURL, logger)

	case config.DriverSQLite:
		db, err := database.OpenSQLite(cmd.Context(), cfg.Repositories.SQLite.Path)
		if err != nil {
			return err
		}
		logger.Info("SQLite schema applied", "path", cfg.Repositories.SQLite.Path)
		return db.Close()

	case config.DriverMemory, "":
		logger.Info("Memory driver selected, nothing to migrate")
		return nil

	default:
		return fmt.Errorf("unknown repository driver %q", cfg.Repositories.Driver)
	}
}
