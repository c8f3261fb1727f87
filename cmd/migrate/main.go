package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"docflow/internal/config"
	"docflow/internal/logger"
)

var source string

var rootCmd = &cobra.Command{
	Use:           "migrate",
	Short:         "Apply or revert docflow database migrations",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: withMigrate(func(m *migrate.Migrate, _ []string) error {
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migration up failed: %w", err)
		}
		l := logger.WithComponent("migrate")
		l.Info().Msg("migrations applied")
		return nil
	}),
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert all migrations",
	RunE: withMigrate(func(m *migrate.Migrate, _ []string) error {
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migration down failed: %w", err)
		}
		l := logger.WithComponent("migrate")
		l.Info().Msg("migrations reverted")
		return nil
	}),
}

var stepsCmd = &cobra.Command{
	Use:   "steps N",
	Short: "Apply (N>0) or revert (N<0) N migrations",
	Args:  cobra.ExactArgs(1),
	RunE: withMigrate(func(m *migrate.Migrate, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid steps argument: %w", err)
		}
		if err := m.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migration steps failed: %w", err)
		}
		l := logger.WithComponent("migrate")
		l.Info().Int("steps", n).Msg("migration steps applied")
		return nil
	}),
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	RunE: withMigrate(func(m *migrate.Migrate, _ []string) error {
		version, dirty, err := m.Version()
		if err != nil {
			return fmt.Errorf("failed to get version: %w", err)
		}
		fmt.Printf("version: %d, dirty: %v\n", version, dirty)
		return nil
	}),
}

func withMigrate(fn func(m *migrate.Migrate, args []string) error) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger.Setup(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

		m, err := migrate.New(source, cfg.DB.DSN())
		if err != nil {
			return fmt.Errorf("failed to create migrate instance: %w", err)
		}
		defer m.Close()
		return fn(m, args)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&source, "source", "file://db/migrations", "migration source URL")
	rootCmd.AddCommand(upCmd, downCmd, stepsCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
}
