package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roksva123/go-bizadmin-backend/internal/config"
	"github.com/roksva123/go-bizadmin-backend/internal/logging"
	"github.com/roksva123/go-bizadmin-backend/internal/repository"
)

// app is the state shared by every subcommand once PersistentPreRunE has run.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "bizadmin",
		Short:         "Employee, attendance and payment admin backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// LOAD ENV
			_ = godotenv.Load()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			logger, err := logging.New(cfg.AppEnv, cfg.LogLevel)
			if err != nil {
				return err
			}

			a.cfg, a.logger = cfg, logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.AddCommand(newServeCmd(a), newMigrateCmd(a), newSeedAdminCmd(a))

	return root
}

// openStore connects to the configured backend.
func openStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		return repository.NewMongoRepo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	default:
		return repository.NewPostgresRepo(ctx, cfg.PostgresDSN())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
