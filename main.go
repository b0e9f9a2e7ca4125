package main

import (
	"agritrain_backend/internal/app"
	"agritrain_backend/internal/config"
	"agritrain_backend/pkg/database"
	"agritrain_backend/pkg/logger"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func loadConfig(configDir string) (*config.Config, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger.InitLogger(cfg)
	return cfg, nil
}

func serveCmd(configDir *string, migrate, seed *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configDir)
			if err != nil {
				return err
			}
			defer logger.Log.Sync()

			cfg.ForceMigrate = *migrate
			cfg.ForceSeed = *seed

			application, err := app.NewApp(cfg, *configDir)
			if err != nil {
				logger.Log.Error("failed to start", zap.Error(err))
				return err
			}
			return application.Run()
		},
	}
}

func migrateCmd(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configDir)
			if err != nil {
				return err
			}
			defer logger.Log.Sync()

			db, err := database.InitDB(&cfg.Database)
			if err != nil {
				return err
			}
			return database.Migrate(db)
		},
	}
}

func seedCmd(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo user, scenarios and quizzes and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configDir)
			if err != nil {
				return err
			}
			defer logger.Log.Sync()

			db, err := database.InitDB(&cfg.Database)
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return err
			}
			return database.Seed(db)
		},
	}
}

func main() {
	var (
		configDir string
		migrate   bool
		seed      bool
	)

	serve := serveCmd(&configDir, &migrate, &seed)
	serve.Flags().BoolVar(&migrate, "migrate", false, "run migrations on startup even when database.migrate is off")
	serve.Flags().BoolVar(&seed, "seed", false, "seed demo data on startup even when database.seed is off")

	rootCmd := &cobra.Command{
		Use:   "agritrain",
		Short: "AgriTrain learning platform backend",
		// serve is the default action
		RunE:          serve.RunE,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "configs", "directory containing config.yaml")
	rootCmd.Flags().AddFlagSet(serve.Flags())

	rootCmd.AddCommand(serve, migrateCmd(&configDir), seedCmd(&configDir))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
