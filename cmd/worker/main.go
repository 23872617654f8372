// Package main is the entry point for the campuscore background worker.
// It runs scheduled maintenance: notification expiry and audit retention.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"campuscore/internal/domain/audit"
	"campuscore/internal/domain/notification"
	"campuscore/internal/infrastructure/storage/postgres"
	"campuscore/internal/infrastructure/storage/postgres/record_repo"
	"campuscore/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Info("starting campuscore worker")

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(mustEnv("DATABASE_URL")))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)

	notificationRepo := record_repo.NewNotificationRepo(txManager)
	notificationService := notification.NewService(notificationRepo, txManager)

	auditRepo, err := postgres.NewAuditRepo(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit repository", "error", err)
	}
	auditService := audit.NewService(auditRepo)

	auditRetention := getEnvDuration("AUDIT_RETENTION", 90*24*time.Hour)

	scheduler := cron.New()

	// Expired notifications go hourly.
	_, err = scheduler.AddFunc(getEnv("NOTIFICATION_PURGE_SCHEDULE", "@hourly"), func() {
		count, err := notificationService.PurgeExpired(ctx)
		if err != nil {
			log.Errorw("notification purge failed", "error", err)
			return
		}
		if count > 0 {
			log.Infow("purged expired notifications", "count", count)
		}
	})
	if err != nil {
		log.Fatalw("failed to schedule notification purge", "error", err)
	}

	// Audit retention runs nightly.
	_, err = scheduler.AddFunc(getEnv("AUDIT_PURGE_SCHEDULE", "0 3 * * *"), func() {
		count, err := auditService.PurgeOlderThan(ctx, auditRetention)
		if err != nil {
			log.Errorw("audit purge failed", "error", err)
			return
		}
		if count > 0 {
			log.Infow("purged old audit entries", "count", count, "retention", auditRetention)
		}
	})
	if err != nil {
		log.Fatalw("failed to schedule audit purge", "error", err)
	}

	scheduler.Start()
	log.Infow("scheduler started", "audit_retention", auditRetention)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancel()

	// Let an in-flight job finish.
	stopCtx := scheduler.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(30 * time.Second):
		log.Warn("scheduler stop timed out")
	}

	log.Info("worker stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
