// Package server wires the HTTP layer: routing, middleware, handlers and
// graceful lifecycle around the Fiber app.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"lineup/internal/cache"
	"lineup/internal/config"
	"lineup/internal/database"
	"lineup/internal/featureflags"
	"lineup/internal/middleware"
	"lineup/internal/models"
	"lineup/internal/notifications"
	"lineup/internal/observability"
	"lineup/internal/repository"
	"lineup/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds the application state and dependencies.
type Server struct {
	config *config.Config
	db     *gorm.DB
	rdb    *redis.Client
	app    *fiber.App

	promMiddleware *fiberprometheus.FiberPrometheus
	flags          *featureflags.Manager

	profileRepo      repository.ProfileRepository
	postRepo         repository.PostRepository
	bookmarkRepo     repository.BookmarkRepository
	chatRepo         repository.ChatRepository
	notificationRepo repository.NotificationRepository
	metadataRepo     repository.MetadataRepository
	mediaRepo        repository.MediaRepository

	profileService      *service.ProfileService
	postService         *service.PostService
	bookmarkService     *service.BookmarkService
	chatService         *service.ChatService
	notificationService *service.NotificationService
	metadataService     *service.MetadataService
	mediaService        *service.MediaService

	notifier *notifications.Notifier
	hub      *notifications.Hub

	shutdownCtx     context.Context
	shutdownFn      context.CancelFunc
	tracingShutdown func(context.Context) error
}

// NewServer creates a fully wired server: database, Redis, repositories,
// services and realtime hub.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}

	cache.InitRedis(cfg.RedisURL)

	tracingShutdown, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:  "lineup-api",
		Enabled:      cfg.TracingEnabled,
		Exporter:     cfg.TracingExporter,
		OTLPEndpoint: cfg.OTLPEndpoint,
		SamplerRatio: cfg.TracingSamplerRatio,
		Environment:  cfg.Env,
	})
	if err != nil {
		return nil, err
	}

	s := newServerWithDeps(cfg, db, cache.GetClient())
	s.tracingShutdown = tracingShutdown
	return s, nil
}

// NewServerWithDeps builds a server on top of pre-constructed dependencies.
// Used by tests to run the full HTTP stack against sqlite and miniredis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *Server {
	return newServerWithDeps(cfg, db, rdb)
}

func newServerWithDeps(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *Server {
	middleware.InitMiddleware(cfg)

	shutdownCtx, shutdownFn := context.WithCancel(context.Background())

	s := &Server{
		config:         cfg,
		db:             db,
		rdb:            rdb,
		promMiddleware: middleware.InitMetrics("lineup-api"),
		flags:          featureflags.NewManager(cfg.FeatureFlags),
		hub:            notifications.NewHub(),
		notifier:       notifications.NewNotifier(rdb),
		shutdownCtx:    shutdownCtx,
		shutdownFn:     shutdownFn,
	}

	s.profileRepo = repository.NewProfileRepository(db)
	s.postRepo = repository.NewPostRepository(db)
	s.bookmarkRepo = repository.NewBookmarkRepository(db)
	s.chatRepo = repository.NewChatRepository(db)
	s.notificationRepo = repository.NewNotificationRepository(db)
	s.metadataRepo = repository.NewMetadataRepository(db)
	s.mediaRepo = repository.NewMediaRepository(db)

	s.profileService = service.NewProfileService(s.profileRepo)
	s.postService = service.NewPostService(s.postRepo, s.mediaRepo)
	s.bookmarkService = service.NewBookmarkService(s.bookmarkRepo, s.postRepo)
	s.notificationService = service.NewNotificationService(s.notificationRepo)
	s.chatService = service.NewChatService(s.chatRepo, s.profileRepo, s.mediaRepo, s.notificationService, s.notifier)
	s.metadataService = service.NewMetadataService(s.metadataRepo)
	s.mediaService = service.NewMediaService(s.mediaRepo, cfg.MediaUploadDir, cfg.MediaMaxUploadSizeMB)

	s.app = fiber.New(fiber.Config{
		AppName:      "lineup-api",
		ErrorHandler: errorHandler,
		BodyLimit:    int(cfg.MediaMaxUploadSizeMB+1) * 1024 * 1024,
	})

	s.SetupMiddleware()
	s.SetupRoutes()

	return s
}

// errorHandler maps errors escaping handlers to the standard error envelope.
func errorHandler(c *fiber.Ctx, err error) error {
	if err == errResponseWritten {
		return nil
	}
	if fe, ok := err.(*fiber.Error); ok {
		return models.RespondWithError(c, fe.Code, fe)
	}
	slog.ErrorContext(c.UserContext(), "Unhandled error", "error", err, "path", c.Path())
	return models.RespondWithError(c, fiber.StatusInternalServerError, err)
}

// SetupMiddleware registers the global middleware stack. Order matters:
// recovery first, then request identity and context, metrics, security
// headers, logging, CORS and finally the global limiter.
func (s *Server) SetupMiddleware() {
	s.app.Use(recover.New())
	s.app.Use(requestid.New())
	s.app.Use(middleware.ContextMiddleware())
	if s.config.TracingEnabled {
		s.app.Use(middleware.TracingMiddleware())
	}
	s.app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	s.app.Use(helmet.New())
	s.app.Use(middleware.StructuredLogger())

	s.app.Use(cors.New(cors.Config{
		AllowOrigins:     s.allowedOrigins(),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PATCH, PUT, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	s.app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		LimitReached: func(c *fiber.Ctx) error {
			return models.RespondWithError(c, fiber.StatusTooManyRequests,
				models.NewValidationError("Too many requests"))
		},
	}))
}

// allowedOrigins returns the explicit CORS allow-list. A wildcard is never
// combined with credentials, so an empty config falls back to localhost dev
// origins.
func (s *Server) allowedOrigins() string {
	origins := strings.TrimSpace(s.config.AllowedOrigins)
	if origins == "" || origins == "*" {
		return "http://localhost:5173,http://localhost:3000"
	}
	return origins
}

// SetupRoutes registers all HTTP routes.
func (s *Server) SetupRoutes() {
	s.promMiddleware.RegisterAt(s.app, "/metrics")

	s.app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "lineUp API",
			"version": "1.0.0",
		})
	})
	s.app.Get("/health", s.HealthCheck)
	s.app.Get("/health/live", s.LivenessCheck)
	s.app.Get("/health/ready", s.ReadinessCheck)
	s.app.Get("/monitor", monitor.New())

	api := s.app.Group("/api")

	// Placeholder pages kept from the original route surface.
	api.Get("/profile", s.PlaceholderPage("Profile"))
	api.Get("/login", s.PlaceholderPage("Login"))
	api.Get("/signup", s.PlaceholderPage("Signup"))

	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(s.rdb, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(s.rdb, 10, 5*time.Minute, "login"), s.Login)

	profiles := api.Group("/profiles")
	profiles.Get("/username-available", s.UsernameAvailable)
	profiles.Get("/me", middleware.AuthRequired, s.GetMyProfile)
	profiles.Patch("/me", middleware.AuthRequired, s.UpdateMyProfile)

	posts := api.Group("/posts")
	posts.Get("/", s.ListPosts)
	posts.Get("/:id", s.GetPost)
	posts.Post("/", middleware.AuthRequired, s.CreatePost)
	posts.Delete("/:id", middleware.AuthRequired, s.DeletePost)

	bookmarks := api.Group("/bookmarks", middleware.AuthRequired)
	bookmarks.Get("/", s.ListBookmarks)
	bookmarks.Post("/", s.CreateBookmark)
	bookmarks.Delete("/:postId", s.DeleteBookmark)

	conversations := api.Group("/conversations", middleware.AuthRequired)
	conversations.Get("/:id/messages", s.GetMessages)
	conversations.Post("/:id/messages", s.SendMessage)
	conversations.Post("/:id/read", s.MarkConversationRead)
	conversations.Get("/:id", s.GetConversation)
	conversations.Patch("/:id", s.UpdateConversation)
	conversations.Get("/", s.ListConversations)
	conversations.Post("/", s.CreateConversation)

	api.Patch("/messages/:id", middleware.AuthRequired, s.EditMessage)

	notificationsGroup := api.Group("/notifications", middleware.AuthRequired)
	notificationsGroup.Get("/unread-count", s.UnreadNotificationCount)
	notificationsGroup.Get("/", s.ListNotifications)
	notificationsGroup.Patch("/:id", s.UpdateNotification)

	api.Get("/metadata", s.ListMetadata)

	media := api.Group("/media")
	media.Post("/", middleware.AuthRequired, s.UploadMedia)
	media.Get("/:id", s.GetMedia)

	api.Get("/feature-flags", middleware.AuthRequired, s.FeatureFlags)

	s.RegisterWebSocketRoutes()
}

// PlaceholderPage returns a handler for route stubs that only confirm the
// page exists.
func (s *Server) PlaceholderPage(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": name + " page"})
	}
}

// FeatureFlags returns the flag snapshot for the authenticated profile.
func (s *Server) FeatureFlags(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"flags": s.flags.Snapshot(userID)})
}

// HealthCheck is an alias for ReadinessCheck kept for older monitors.
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return s.ReadinessCheck(c)
}

// LivenessCheck reports that the process is running.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "alive"})
}

// ReadinessCheck verifies the database and Redis are reachable. Returns 503
// when a dependency is down so load balancers stop routing traffic here.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	checks := fiber.Map{}
	healthy := true

	sqlDB, err := s.db.DB()
	if err != nil || sqlDB.PingContext(ctx) != nil {
		checks["database"] = "unreachable"
		healthy = false
	} else {
		checks["database"] = "ok"
	}

	if s.rdb != nil {
		if err := s.rdb.Ping(ctx).Err(); err != nil {
			checks["redis"] = "unreachable"
		} else {
			checks["redis"] = "ok"
		}
	} else {
		checks["redis"] = "disabled"
	}

	status := "ready"
	code := fiber.StatusOK
	if !healthy {
		status = "not ready"
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(fiber.Map{"status": status, "checks": checks})
}

// startRealtime subscribes to conversation events and fans each one out to
// the WebSocket connections of every participant.
func (s *Server) startRealtime() {
	err := s.notifier.StartChatSubscriber(s.shutdownCtx, func(channel, payload string) {
		var event struct {
			ConversationID string `json:"conversationId"`
			SenderID       string `json:"senderId"`
		}
		if err := json.Unmarshal([]byte(payload), &event); err != nil || event.ConversationID == "" {
			slog.Warn("Dropping malformed chat event", "channel", channel, "error", err)
			return
		}

		conv, err := s.chatRepo.GetConversation(s.shutdownCtx, event.ConversationID)
		if err != nil || conv == nil {
			slog.Warn("Chat event for unknown conversation", "conversation_id", event.ConversationID, "error", err)
			return
		}
		for _, p := range conv.Participants {
			s.hub.Broadcast(p.ID, []byte(payload))
		}
	})
	if err != nil {
		slog.Error("Failed to start chat subscriber", "error", err)
	}
}

// App exposes the underlying fiber app, primarily for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start begins serving HTTP traffic and the realtime fan-out loop.
func (s *Server) Start() error {
	s.startRealtime()
	slog.Info("Starting server", "port", s.config.Port, "env", s.config.Env)
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully stops the server and closes external connections.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownFn()

	if err := s.app.ShutdownWithContext(ctx); err != nil {
		slog.Error("HTTP shutdown failed", "error", err)
	}

	if s.tracingShutdown != nil {
		if err := s.tracingShutdown(ctx); err != nil {
			slog.Error("Tracing shutdown failed", "error", err)
		}
	}

	if s.rdb != nil {
		if err := s.rdb.Close(); err != nil {
			slog.Error("Redis close failed", "error", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		return sqlDB.Close()
	}
	return nil
}
