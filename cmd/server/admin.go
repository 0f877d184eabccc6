package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roksva123/go-bizadmin-backend/internal/service"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the tables and indexes of the configured store",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := openStore(ctx, a.cfg)
			if err != nil {
				return err
			}
			defer store.Close(context.Background())

			if err := store.RunMigrations(ctx); err != nil {
				return err
			}

			a.logger.Info("migrations applied", zap.String("driver", a.cfg.StoreDriver))
			return nil
		},
	}
}

func newSeedAdminCmd(a *app) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create the admin login or reset its password",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				username = a.cfg.AdminUsername
			}
			if password == "" {
				password = a.cfg.AdminPassword
			}
			if password == "" {
				return errors.New("a password is required: pass --password or set ADMIN_PASSWORD")
			}

			ctx := cmd.Context()

			store, err := openStore(ctx, a.cfg)
			if err != nil {
				return err
			}
			defer store.Close(context.Background())

			if err := store.RunMigrations(ctx); err != nil {
				return err
			}

			auth := service.NewAuthService(store, nil, service.AuthOptions{JWTSecret: a.cfg.JWTSecret, TokenTTL: a.cfg.TokenTTL}, a.logger)
			if err := auth.SeedAdmin(ctx, username, password); err != nil {
				return err
			}

			a.logger.Info("admin seeded", zap.String("username", username))
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "admin username (default ADMIN_USERNAME)")
	cmd.Flags().StringVar(&password, "password", "", "admin password (default ADMIN_PASSWORD)")

	return cmd
}
