package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"docflow/internal/config"
	"docflow/internal/domain"
	"docflow/internal/service"
)

var (
	tenantID string
	userID   string
	email    string
	role     string
)

var rootCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an access token for the docflow API",
	Long: `Mint a signed access token with the configured JWT secret.

Users live in an external identity provider; this command is meant for
operators, service accounts and local development.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		tid, err := uuid.Parse(tenantID)
		if err != nil {
			return fmt.Errorf("invalid --tenant: %w", err)
		}
		uid := uuid.New()
		if userID != "" {
			if uid, err = uuid.Parse(userID); err != nil {
				return fmt.Errorf("invalid --user: %w", err)
			}
		}

		token, err := service.NewAuthService(cfg.JWT).IssueToken(service.IssueTokenInput{
			TenantID: tid,
			UserID:   uid,
			Email:    email,
			Role:     domain.UserRole(role),
		})
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(token)
	},
}

func init() {
	rootCmd.Flags().StringVar(&tenantID, "tenant", "", "tenant ID (required)")
	rootCmd.Flags().StringVar(&userID, "user", "", "user ID (random when empty)")
	rootCmd.Flags().StringVar(&email, "email", "", "email claim")
	rootCmd.Flags().StringVar(&role, "role", string(domain.RoleMember), "role claim (admin or member)")
	_ = rootCmd.MarkFlagRequired("tenant")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
