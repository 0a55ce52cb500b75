package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"sms-portal/internal/config"
	"sms-portal/internal/db"
	"sms-portal/internal/handlers"
	"sms-portal/internal/jobs"
	"sms-portal/internal/memstore"
	"sms-portal/internal/middleware"
	"sms-portal/internal/routes"
	"sms-portal/internal/service"
	"sms-portal/pkg/cache"
	"sms-portal/pkg/email"
	"sms-portal/pkg/notify"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

type serveOptions struct {
	inMemory bool
}

func newServe() *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:          "serve",
		Short:        "Run the portal API server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), config.Global(), opts)
		},
	}
	cmd.Flags().BoolVar(&opts.inMemory, "in-memory", false, "keep all data in process memory instead of Postgres")
	return cmd
}

// openRepository returns the store selected by the flags and migrates the
// schema when Postgres backs it.
func openRepository(conf *config.GlobalConfig, inMemory bool) (service.Repository, error) {
	if inMemory {
		logger.Warn("Running with the in-memory store, data is lost on exit")
		return memstore.New(), nil
	}
	if err := db.InitDB(conf.Database); err != nil {
		return nil, err
	}
	if err := db.Migrate(db.DB); err != nil {
		return nil, err
	}
	return db.NewStore(db.DB), nil
}

func openCache(ctx context.Context, conf config.Redis) (cache.Cache, func()) {
	if conf.Host == "" {
		return cache.Noop{}, func() {}
	}
	rc, err := cache.NewRedis(ctx, cache.Options{
		Addr:     conf.Addr(),
		Password: conf.Password,
		DB:       conf.DB,
	}, logger)
	if err != nil {
		logger.Warn("Redis unavailable, statistics are not cached", zap.String("addr", conf.Addr()), zap.Error(err))
		return cache.Noop{}, func() {}
	}
	return rc, func() { _ = rc.Close() }
}

func newService(conf *config.GlobalConfig, repo service.Repository, notifier notify.Notifier, c cache.Cache) *service.Service {
	return service.New(repo, notifier, c, service.Options{
		PublicBaseURL:   conf.Server.PublicBaseURL,
		DownloadLinkTTL: conf.Server.DownloadLinkTTL,
		StatsTTL:        conf.Redis.StatsTTL,
		UniversityName:  conf.University.Name,
	})
}

func newSender(conf config.SMTP) email.Sender {
	return email.NewSender(email.SMTPConfig{
		Host: conf.Host,
		Port: conf.Port,
		User: conf.User,
		Pass: conf.Pass,
		From: conf.From,
	}, logger)
}

func runServe(ctx context.Context, conf *config.GlobalConfig, opts *serveOptions) error {
	repo, err := openRepository(conf, opts.inMemory)
	if err != nil {
		return err
	}

	statsCache, closeCache := openCache(ctx, conf.Redis)
	defer closeCache()

	pool := notify.NewPool(newSender(conf.SMTP), conf.Notify.Workers, conf.Notify.QueueSize, logger)
	defer pool.Close()

	svc := newService(conf, repo, pool, statsCache)
	handlers.InitService(svc)

	if conf.Cron.Enabled {
		scheduler, err := jobs.New(conf.Cron, svc, logger)
		if err != nil {
			return err
		}
		scheduler.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := scheduler.Stop(stopCtx); err != nil {
				logger.Warn("Cron jobs did not finish in time", zap.Error(err))
			}
		}()
	}

	r := gin.New()
	r.Use(ginzap.RecoveryWithZap(logger, true))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.AccessLogger(logger))

	if err := middleware.SetupMiddleware(r, conf.Server); err != nil {
		return err
	}
	routes.SetupRoutes(r)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", conf.Server.ListenPort),
		Handler:           r,
		ReadHeaderTimeout: 30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("Server stopped", zap.Error(err))
			return err
		}
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
		return err
	}
	return nil
}
