package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sukryu/pSite/internal/config"
	"github.com/sukryu/pSite/internal/logging"
	"github.com/sukryu/pSite/internal/store/manager"
	"github.com/sukryu/pSite/pkg/apis/router"
	"github.com/sukryu/pSite/pkg/files"
	"github.com/sukryu/pSite/pkg/mail"
	"github.com/sukryu/pSite/pkg/middleware"
	"github.com/sukryu/pSite/pkg/store/resources"
	"github.com/sukryu/pSite/pkg/utils/jwt"
)

func newServeCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *configPath)
		},
	}
}

// setup loads configuration and opens the database; every command starts here.
func setup(configPath string) (*config.Config, *slog.Logger, manager.Manager, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, nil, err
	}

	db, err := manager.NewManager(manager.Config{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		AutoMigrate:     cfg.Database.AutoMigrate,
	}, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, db, nil
}

func runServe(ctx context.Context, configPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, logger, db, err := setup(configPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Initialize(ctx); err != nil {
		return err
	}

	mailer, err := mail.New(mail.Config{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		From:     cfg.Mail.From,
		To:       cfg.Mail.To,
	}, logger)
	if err != nil {
		return err
	}

	storage, err := files.NewStorage(cfg.Uploads.Dir, cfg.Uploads.MaxSize)
	if err != nil {
		return err
	}

	metrics := middleware.NewMetrics()
	if err := metrics.RegisterDB(db.SQLDB(), cfg.Database.Driver); err != nil {
		return fmt.Errorf("failed to register pool metrics: %w", err)
	}

	gin.SetMode(cfg.Server.Mode)
	r := router.NewRouter(router.Config{
		Production:     cfg.Server.Mode == gin.ReleaseMode,
		RequestTimeout: cfg.Server.RequestTimeout,
		RateRequests:   cfg.RateLimit.Requests,
		RateWindow:     cfg.RateLimit.Window,
	}, router.Dependencies{
		Stores:  resources.NewStores(db.GetDB()),
		Tokens:  jwt.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, jwt.WithIssuer(cfg.Auth.Issuer)),
		Mailer:  mailer,
		Images:  storage,
		DB:      db.SQLDB(),
		Metrics: metrics,
		Logger:  logger,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting", "addr", srv.Addr, "driver", cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		logger.Info("server shutting down", "db", db.GetStats())
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
