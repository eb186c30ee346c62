package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"fintrack/internal/backend"
	"fintrack/internal/config"
	"fintrack/internal/events"
	apphttp "fintrack/internal/http"
	applog "fintrack/internal/log"

	"fintrack/internal/auth"
	"fintrack/internal/services"
)

func main() {
	// Load .env for local development; ignore errors in production.
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("invalid backend configuration", "error", err)
		os.Exit(1)
	}

	result, err := backend.NewFactory(logger.WithComponent(applog.ComponentBackend).Logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("backend cleanup failed", "error", err)
			}
		}()
	}

	// Events client is optional: no AMQP URL means no publishing.
	var publisher *events.Client
	if cfg.AMQPURL != "" {
		publisher, err = events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("failed to initialize events client, continuing without publishing", "error", err)
		} else {
			defer publisher.Close()
			logger.WithComponent(applog.ComponentEvents).Info("events client initialized",
				"exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	// A nil *events.Client must stay a nil interface.
	var recordPublisher services.EventPublisher
	var reminderPublisher services.ReminderPublisher
	if publisher != nil {
		recordPublisher = publisher
		reminderPublisher = publisher
	}

	records := services.NewRecordService(result.Store, recordPublisher)
	dashboards := services.NewDashboardService(result.Store)
	reminders := services.NewReminderService(result.Store, reminderPublisher, logger.WithComponent(applog.ComponentReminder).Logger)

	srv := apphttp.NewServer(apphttp.Options{
		Config:     cfg,
		Records:    records,
		Dashboards: dashboards,
		Users:      result.Store,
		Tokens:     auth.NewManager(cfg.JWTSecret, cfg.TokenTTL),
		Publisher:  recordPublisher,
		Logger:     logger,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	// Periodic reminder scan, only useful when a publisher is up.
	if reminderPublisher != nil {
		g.Go(func() error {
			ticker := time.NewTicker(cfg.ReminderInterval)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					if _, err := reminders.Scan(gctx, time.Now()); err != nil {
						logger.Error("reminder scan failed", "error", err)
					}
				}
			}
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}
