package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"docflow/internal/app"
	"docflow/internal/config"
	"docflow/internal/logger"
	"docflow/internal/service"
)

var rootCmd = &cobra.Command{
	Use:           "recurring",
	Short:         "Generate documents from recurring configurations",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process every due configuration once and print the result",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
			result, err := a.Recurring.ProcessRecurringDocuments(ctx)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return err
			}
			if len(result.Errors) > 0 {
				return fmt.Errorf("%d recurring configs failed", len(result.Errors))
			}
			return nil
		})
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Process due configurations on the configured poll interval until interrupted",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
			worker := service.NewRecurringWorker(a.Recurring, a.Config.Recurring.PollInterval)
			worker.Start(ctx)
			return nil
		})
	},
}

func withApp(ctx context.Context, fn func(context.Context, *app.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Setup(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

func init() {
	rootCmd.AddCommand(runCmd, watchCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		l := logger.WithComponent("recurring")
		l.Error().Err(err).Msg("command failed")
		stop()
		os.Exit(1)
	}
}
