package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/crypto"
	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/db"
	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/model"
	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/repository"
)

// createAdminCmd bootstraps the first admin, since accounts created through the API
// always start out pending.
func createAdminCmd() *cobra.Command {
	var email, password, name string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an active admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			defer func() { _ = log.Sync() }()
			if err != nil {
				return err
			}
			email = repository.NormalizeEmail(email)
			if email == "" {
				return errors.New("--email is required")
			}
			if err := crypto.ValidatePassword(password); err != nil {
				return fmt.Errorf("--password: %w", err)
			}
			hash, err := crypto.HashPassword(password)
			if err != nil {
				return err
			}

			pool, err := db.NewPool(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("db connection failed: %w", err)
			}
			defer pool.Close()

			var displayName *string
			if trimmed := strings.TrimSpace(name); trimmed != "" {
				displayName = &trimmed
			}
			user, err := repository.NewStore(pool).CreateUser(cmd.Context(), model.User{
				Email:            email,
				Name:             displayName,
				PasswordHash:     hash,
				Role:             model.RoleAdmin,
				IsApproved:       true,
				OnboardingStatus: model.OnboardingActive,
			})
			if errors.Is(err, repository.ErrConflict) {
				return fmt.Errorf("an account with email %s already exists", email)
			}
			if err != nil {
				return err
			}
			log.Info("admin created", zap.String("user_id", user.ID), zap.String("email", user.Email))
			fmt.Fprintln(cmd.OutOrStdout(), user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Admin email address")
	cmd.Flags().StringVar(&password, "password", "", "Admin password")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
