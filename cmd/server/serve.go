package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/api/idtoken"

	"github.com/roksva123/go-bizadmin-backend/internal/api"
	"github.com/roksva123/go-bizadmin-backend/internal/events"
	"github.com/roksva123/go-bizadmin-backend/internal/service"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	cfg, logger := a.cfg, a.logger

	// INIT DB
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	// MIGRATIONS
	if err := store.RunMigrations(ctx); err != nil {
		return err
	}

	var google service.TokenValidator
	if cfg.GoogleClientID != "" {
		v, err := idtoken.NewValidator(ctx)
		if err != nil {
			return err
		}
		google = v
	}

	auth := service.NewAuthService(store, google, service.AuthOptions{
		JWTSecret:      cfg.JWTSecret,
		TokenTTL:       cfg.TokenTTL,
		GoogleClientID: cfg.GoogleClientID,
		AllowedDomains: cfg.AllowedDomains,
		AdminEmails:    cfg.AdminEmails,
	}, logger)

	// ADMIN SEED
	if cfg.AdminPassword != "" {
		if err := auth.SeedAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			logger.Warn("failed seeding admin", zap.Error(err))
		} else {
			logger.Info("admin seeded", zap.String("username", cfg.AdminUsername))
		}
	}

	// EVENTS
	hub := events.NewHub(0)
	var pub events.Publisher = hub
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer client.Close()

		bridge := events.NewRedisBridge(hub, client, cfg.RedisChannel, logger)
		go func() {
			if err := bridge.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("event bridge stopped", zap.Error(err))
			}
		}()
		pub = bridge
	}

	// SERVICES
	employees := service.NewEmployeeService(store, pub, logger)
	attendance := service.NewAttendanceService(store, pub, logger)
	payments := service.NewPaymentService(store, pub, logger)
	dashboard := service.NewDashboardService(store)

	// ROUTER
	router := api.NewRouter(api.Deps{
		Logger:      logger,
		CORSOrigins: cfg.CORSOrigins,
		Store:       store,
		Sessions:    auth,
		Auth:        auth,
		Employees:   employees,
		Attendance:  attendance,
		Payments:    payments,
		Dashboard:   dashboard,
		Hub:         hub,
		Registry:    prometheus.DefaultRegisterer,
		Gatherer:    prometheus.DefaultGatherer,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server running", zap.String("port", cfg.Port), zap.String("store", cfg.StoreDriver))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
