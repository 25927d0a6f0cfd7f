package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"github.com/diewo77/go-curtains/auth"
	"github.com/diewo77/go-curtains/internal/config"
	"github.com/diewo77/go-curtains/internal/db"
	"github.com/diewo77/go-curtains/internal/logging"
	"github.com/diewo77/go-curtains/internal/metrics"
)

var (
	migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	seedOnlyFlag    = flag.Bool("seed-only", false, "Seed the first administrator and exit")
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.FromContext(context.Background()).WithError(err).Fatal("invalid configuration")
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stdout)
	logging.SetFallback(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.WithFields(logrus.Fields{
		"driver": cfg.Database.Driver,
		"host":   cfg.Database.Host,
		"dbname": cfg.Database.DBName,
	}).Info("connecting to database")
	conn, err := db.Open(ctx, cfg.Database, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to database")
	}

	if *migrateOnlyFlag || cfg.App.Migrations {
		if err := db.Migrate(conn); err != nil {
			logger.WithError(err).Fatal("migration failed")
		}
		logger.Info("migrations completed")
		if *migrateOnlyFlag {
			return
		}
	}

	created, err := db.SeedAdmin(conn, cfg.App.AdminEmail, cfg.App.AdminPassword)
	if err != nil {
		logger.WithError(err).Fatal("seeding admin failed")
	}
	if created {
		logger.WithField("email", cfg.App.AdminEmail).Info("administrator account ready")
	}
	if *seedOnlyFlag {
		return
	}

	auth.SetSecret(cfg.App.SessionSecret)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	app := NewApp(conn, cfg, logger, metrics.New(reg), reg)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      app,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.WithFields(logrus.Fields{"port": cfg.Server.Port, "dev": cfg.App.Dev}).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server error")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("error during shutdown")
	}
	logger.Info("server stopped gracefully")
}
