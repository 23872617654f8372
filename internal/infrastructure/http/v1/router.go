// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"campuscore/internal/domain/academics/holiday"
	"campuscore/internal/domain/academics/session"
	"campuscore/internal/domain/attachment"
	"campuscore/internal/domain/audit"
	"campuscore/internal/domain/notification"
	"campuscore/internal/domain/sequence"
	"campuscore/internal/domain/sysconfig"
	"campuscore/internal/infrastructure/http/v1/handlers"
	"campuscore/internal/infrastructure/http/v1/middleware"
	"campuscore/internal/infrastructure/storage/postgres"
	"campuscore/pkg/logger"
)

// RouterConfig holds everything the router wires together.
type RouterConfig struct {
	Pool    *postgres.Pool
	Logger  *logger.Logger
	Version string

	// Verifier validates access tokens; issuance happens elsewhere.
	Verifier *middleware.TokenVerifier

	Allocator     *sequence.Allocator
	Sessions      *session.Service
	Holidays      *holiday.Service
	Notifications *notification.Service
	Attachments   *attachment.Service
	Configs       *sysconfig.Service
	Audits        *audit.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	base := handlers.NewBaseHandler()

	// Health endpoints (no auth)
	healthHandler := handlers.NewHealthHandler(cfg.Pool, cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	sequenceHandler := handlers.NewSequenceHandler(base, cfg.Allocator)
	sessionHandler := handlers.NewSessionHandler(base, cfg.Sessions)
	holidayHandler := handlers.NewHolidayHandler(base, cfg.Holidays)
	notificationHandler := handlers.NewNotificationHandler(base, cfg.Notifications)
	attachmentHandler := handlers.NewAttachmentHandler(base, cfg.Attachments)
	configHandler := handlers.NewConfigHandler(base, cfg.Configs)
	auditHandler := handlers.NewAuditHandler(base, cfg.Audits)

	apiV1 := router.Group("/api/v1")
	{
		// Public configuration needs no token.
		apiV1.GET("/config/public", configHandler.ListPublic)

		protected := apiV1.Group("")
		protected.Use(middleware.Auth(cfg.Verifier))

		// Sequence counters
		sequences := protected.Group("/sequences")
		{
			sequences.GET("", sequenceHandler.List)
			sequences.GET("/:kind", sequenceHandler.Get)
			sequences.POST("/:kind/allocate", sequenceHandler.Allocate)
			sequences.PUT("/:kind/next", middleware.RequireAdmin(), sequenceHandler.SetLast)
		}

		// Academic sessions and holidays
		sessions := protected.Group("/academic-sessions")
		{
			sessions.GET("", sessionHandler.List)
			sessions.GET("/current", sessionHandler.Current)
			sessions.GET("/for-date", sessionHandler.ForDate)
			sessions.GET("/:id", sessionHandler.Get)
			sessions.POST("", middleware.RequireRole("registrar"), sessionHandler.Create)
			sessions.PUT("/:id", middleware.RequireRole("registrar"), sessionHandler.Update)
			sessions.DELETE("/:id", middleware.RequireRole("registrar"), sessionHandler.Delete)
			sessions.POST("/:id/restore", middleware.RequireRole("registrar"), sessionHandler.Restore)
			sessions.POST("/:id/current", middleware.RequireRole("registrar"), sessionHandler.SetCurrent)
			sessions.GET("/:id/holidays", holidayHandler.ListForSession)
			sessions.GET("/:id/holidays/check", holidayHandler.Check)
		}

		holidays := protected.Group("/holidays")
		{
			holidays.GET("", holidayHandler.List)
			holidays.GET("/:id", holidayHandler.Get)
			holidays.POST("", middleware.RequireRole("registrar"), holidayHandler.Create)
			holidays.PUT("/:id", middleware.RequireRole("registrar"), holidayHandler.Update)
			holidays.DELETE("/:id", middleware.RequireRole("registrar"), holidayHandler.Delete)
		}

		// Notifications
		notifications := protected.Group("/notifications")
		{
			notifications.GET("", notificationHandler.List)
			notifications.GET("/unread-count", notificationHandler.UnreadCount)
			notifications.POST("", notificationHandler.Create)
			notifications.POST("/read-all", notificationHandler.MarkAllRead)
			notifications.POST("/:id/read", notificationHandler.MarkRead)
		}

		// File attachments
		attachments := protected.Group("/attachments")
		{
			attachments.GET("", attachmentHandler.ListForRelated)
			attachments.POST("", attachmentHandler.Upload)
			attachments.GET("/:id", attachmentHandler.Get)
			attachments.GET("/:id/download", attachmentHandler.Download)
			attachments.DELETE("/:id", attachmentHandler.Delete)
		}

		// System configuration (admin only; values arrive unsealed)
		config := protected.Group("/config", middleware.RequireAdmin())
		{
			config.GET("", configHandler.ListByCategory)
			config.POST("", configHandler.Define)
			config.GET("/:key", configHandler.Get)
			config.PUT("/:key", configHandler.SetValue)
		}

		// Audit log (admin only)
		auditRoutes := protected.Group("/audit", middleware.RequireAdmin())
		{
			auditRoutes.GET("", auditHandler.List)
			auditRoutes.GET("/:entityType/:id", auditHandler.EntityHistory)
		}
	}

	return router
}
