// Package main is the entry point for the campuscore API server.
package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campuscore/internal/core/id"
	"campuscore/internal/domain/academics/holiday"
	"campuscore/internal/domain/academics/session"
	"campuscore/internal/domain/attachment"
	"campuscore/internal/domain/audit"
	"campuscore/internal/domain/notification"
	"campuscore/internal/domain/sequence"
	"campuscore/internal/domain/sysconfig"
	"campuscore/internal/infrastructure/blob"
	v1 "campuscore/internal/infrastructure/http/v1"
	"campuscore/internal/infrastructure/http/v1/middleware"
	"campuscore/internal/infrastructure/storage/postgres"
	"campuscore/internal/infrastructure/storage/postgres/record_repo"
	"campuscore/pkg/logger"
)

var version = "dev"

func main() {
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting campuscore server")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	if maxConns := getEnvInt("DB_MAX_CONNS", 0); maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Repositories ---
	sequenceRepo := postgres.NewSequenceRepo(txManager)
	auditRepo, err := postgres.NewAuditRepo(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit repository", "error", err)
	}
	sessionRepo := record_repo.NewSessionRepo(txManager)
	holidayRepo := record_repo.NewHolidayRepo(txManager)
	notificationRepo := record_repo.NewNotificationRepo(txManager)
	attachmentRepo := record_repo.NewAttachmentRepo(txManager)
	configRepo := record_repo.NewConfigRepo(txManager)

	// --- Blob store ---
	blobStore, err := newBlobStore(getEnv("BLOB_ROOT", "./data/blobs"))
	if err != nil {
		log.Fatalw("failed to initialize blob store", "error", err)
	}

	// --- Config encryption ---
	var sealer *sysconfig.Sealer
	if encoded := os.Getenv("CONFIG_ENCRYPTION_KEY"); encoded != "" {
		key, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			log.Fatalw("CONFIG_ENCRYPTION_KEY is not valid base64", "error", err)
		}
		sealer, err = sysconfig.NewSealer(key)
		if err != nil {
			log.Fatalw("failed to initialize config sealer", "error", err)
		}
		log.Info("config encryption enabled")
	} else {
		log.Warn("CONFIG_ENCRYPTION_KEY not set; encrypted config entries are rejected")
	}

	ruleEngine, err := sysconfig.NewRuleEngine()
	if err != nil {
		log.Fatalw("failed to initialize rule engine", "error", err)
	}

	// --- Services ---
	allocator := sequence.NewAllocator(sequenceRepo, txManager)
	sessionService := session.NewService(sessionRepo, txManager)
	holidayService := holiday.NewService(holidayRepo, txManager)
	notificationService := notification.NewService(notificationRepo, txManager)
	attachmentService := attachment.NewService(attachmentRepo, blobStore, txManager)
	configService := sysconfig.NewService(configRepo, txManager, sealer, ruleEngine)
	auditService := audit.NewService(auditRepo)

	// Every committed change lands in the audit trail.
	audit.AttachRecordHooks(sessionService.Hooks(), auditService, "academic_session",
		func(s *session.Session) id.ID { return s.ID })
	audit.AttachRecordHooks(holidayService.Hooks(), auditService, "holiday",
		func(h *holiday.Holiday) id.ID { return h.ID })
	audit.AttachRecordHooks(notificationService.Hooks(), auditService, "notification",
		func(n *notification.Notification) id.ID { return n.ID })
	audit.AttachRecordHooks(attachmentService.Hooks(), auditService, "attachment",
		func(a *attachment.Attachment) id.ID { return a.ID })
	audit.AttachRecordHooks(configService.Hooks(), auditService, "system_config",
		func(c *sysconfig.Config) id.ID { return c.ID })

	// --- Token verification ---
	verifier := middleware.NewTokenVerifier([]byte(mustEnv("JWT_SECRET")))

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:          pool,
		Logger:        log,
		Version:       version,
		Verifier:      verifier,
		Allocator:     allocator,
		Sessions:      sessionService,
		Holidays:      holidayService,
		Notifications: notificationService,
		Attachments:   attachmentService,
		Configs:       configService,
		Audits:        auditService,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func newBlobStore(root string) (attachment.BlobStore, error) {
	return blob.NewFilesystemStore(root)
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

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
