// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	_ "cinetheque/docs" // swagger docs
	"cinetheque/internal/bootstrap"
	"cinetheque/internal/config"
	"cinetheque/internal/database"
	"cinetheque/internal/featureflags"
	"cinetheque/internal/middleware"
	"cinetheque/internal/models"
	"cinetheque/internal/notifications"
	"cinetheque/internal/repository"
	"cinetheque/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	tokenIssuer   = "cinetheque-api"
	tokenAudience = "cinetheque-client"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config          *config.Config
	db              *gorm.DB
	redis           *redis.Client
	app             *fiber.App
	promMiddleware  *fiberprometheus.FiberPrometheus
	shutdownCtx     context.Context
	shutdownFn      context.CancelFunc
	userRepo        repository.UserRepository
	notifier        *notifications.Notifier
	forumHub        *notifications.ForumHub
	featureFlags    *featureflags.Manager
	forumService    *service.ForumService
	voteService     *service.VoteService
	statsService    *service.StatsService
	playlistService *service.PlaylistService
	catalogService  *service.CatalogService
	bookmarkService *service.BookmarkService
	userService     *service.UserService
	imageService    *service.ImageService
}

// NewServer creates a new server instance with all dependencies
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	db, redisClient, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{SeedReference: true})
	if err != nil {
		return nil, err
	}

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	topicRepo := repository.NewTopicRepository(db)
	postRepo := repository.NewPostRepository(db)
	voteRepo := repository.NewVoteRepository(db)

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("cinetheque-api"),
		userRepo:       userRepo,
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
		forumHub:       notifications.NewForumHub(),
	}
	server.notifier = notifications.NewNotifier(redisClient, server.forumHub)

	server.userService = service.NewUserService(userRepo)
	server.forumService = service.NewForumService(
		repository.NewForumReferenceRepository(db),
		topicRepo,
		postRepo,
		voteRepo,
		server.userService.IsAdmin,
		server.notifier,
	)
	server.voteService = service.NewVoteService(voteRepo, topicRepo, postRepo, server.featureFlags, server.notifier)
	server.statsService = service.NewStatsService(repository.NewStatsRepository(db), userRepo)
	server.playlistService = service.NewPlaylistService(repository.NewPlaylistRepository(db))
	server.catalogService = service.NewCatalogService(repository.NewCatalogRepository(db))
	server.bookmarkService = service.NewBookmarkService(repository.NewBookmarkRepository(db))
	server.imageService = service.NewImageService(repository.NewImageRepository(db), cfg)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())

	// Tracing runs before ContextMiddleware so the trace ID reaches the logger.
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.StructuredLogger())

	// CORS must run before the limiter so throttled responses still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Cinetheque Metrics Dashboard",
	}))

	api.Get("/swagger/*", swagger.HandlerDefault)

	// Uploaded media
	app.Get("/media/i/:hash/master.:format", s.ServeImage)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)

	// Public forum routes
	forum := api.Group("/forum")
	forum.Get("/categories", s.GetCategories)
	forum.Get("/categories/:slug", s.GetCategory)
	forum.Get("/categories/:slug/topics", s.GetCategoryTopics)
	forum.Get("/tags", s.GetTags)
	forum.Get("/topics", s.GetTopics)
	forum.Get("/topics/slug/:slug", s.GetTopicBySlug)
	forum.Get("/topics/:id/posts", s.GetTopicPosts)
	forum.Get("/topics/:id", s.GetTopic)
	forum.Get("/posts/:id/replies", s.GetPostReplies)
	forum.Get("/votes/:targetType/:id", s.GetVoteState)
	forum.Get("/leaderboard", s.GetLeaderboard)

	// Public catalog routes
	catalog := api.Group("/catalog")
	catalog.Get("/content-types", s.GetContentTypes)
	catalog.Get("/genres", s.GetGenres)
	catalog.Get("/movies", s.GetMovies)
	catalog.Get("/movies/:id", s.GetMovie)
	catalog.Get("/series", s.GetSeries)
	catalog.Get("/series/:id", s.GetSerie)
	catalog.Get("/seasons/:id/episodes", s.GetSeasonEpisodes)
	catalog.Get("/seasons/:id", s.GetSeason)
	catalog.Get("/episodes/:id", s.GetEpisode)
	catalog.Get("/actors/:id", s.GetActor)
	catalog.Get("/crew/:id", s.GetCrew)

	// Playlists are public unless private; the viewer is resolved optionally.
	api.Get("/playlists/:id/items", s.GetPlaylistItems)
	api.Get("/playlists/:id", s.GetPlaylist)
	api.Get("/users/:id/playlists", s.GetUserPlaylists)
	api.Get("/users/:id/stats", s.GetUserStats)
	api.Get("/users/:id<int>", s.GetUserProfile)

	// Live forum updates; anonymous viewers may follow topics too.
	api.Get("/ws/forum", s.OptionalAuth(), s.WebSocketForumHandler())

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	users := protected.Group("/users")
	users.Get("/me", s.GetMyProfile)
	users.Put("/me", s.UpdateMyProfile)
	users.Get("/me/bookmarks", s.GetMyBookmarks)
	users.Get("/me/feature-flags", s.GetMyFeatureFlags)

	protectedForum := protected.Group("/forum")
	protectedForum.Post("/topics", middleware.RateLimit(s.redis, 5, 10*time.Minute, "create_topic"), s.CreateTopic)
	protectedForum.Put("/topics/:id", s.UpdateTopic)
	protectedForum.Delete("/topics/:id", s.DeleteTopic)
	protectedForum.Post("/topics/:id/posts", middleware.RateLimit(s.redis, 10, time.Minute, "create_post"), s.CreatePost)
	protectedForum.Put("/posts/:id", s.UpdatePost)
	protectedForum.Delete("/posts/:id", s.DeletePost)
	protectedForum.Post("/posts/:id/replies", middleware.RateLimit(s.redis, 20, time.Minute, "create_reply"), s.CreateReply)
	protectedForum.Delete("/replies/:id", s.DeleteReply)
	protectedForum.Post("/votes", middleware.RateLimit(s.redis, 60, time.Minute, "vote"), s.RecordVote)

	playlists := protected.Group("/playlists")
	playlists.Post("/", s.CreatePlaylist)
	playlists.Post("/:id/items", s.AddPlaylistItem)
	playlists.Delete("/:id/items/:contentType/:itemId", s.RemovePlaylistItem)
	playlists.Put("/:id", s.UpdatePlaylist)
	playlists.Delete("/:id", s.DeletePlaylist)

	episodes := protected.Group("/episodes")
	episodes.Get("/:id/bookmark", s.GetEpisodeBookmark)
	episodes.Post("/:id/bookmark", s.BookmarkEpisode)
	episodes.Delete("/:id/bookmark", s.RemoveEpisodeBookmark)

	images := protected.Group("/images")
	images.Post("/upload", middleware.RateLimit(s.redis, 10, 10*time.Minute, "image_upload"), s.UploadImage)
	images.Get("/", s.GetMyImages)
	images.Delete("/:hash", s.DeleteImage)

	// Admin routes
	admin := protected.Group("/admin", s.AdminRequired())
	admin.Get("/feature-flags", s.GetFeatureFlags)
	admin.Get("/forum/categories", s.GetAllCategories)
	admin.Post("/forum/categories", s.CreateCategory)
	admin.Put("/forum/categories/:id", s.UpdateCategory)
	admin.Post("/forum/tags", s.CreateTag)
	admin.Post("/stats/recompute", s.RecomputeAllStats)
	admin.Post("/stats/recompute/:id", s.RecomputeUserStats)
	admin.Post("/users/:id/promote-admin", s.PromoteToAdmin)
	admin.Post("/users/:id/demote-admin", s.DemoteFromAdmin)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. Redis is optional: the
// API degrades to uncached reads and local-only realtime delivery without it.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus != "healthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"service": "cinetheque",
		"status":  overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AdminRequired returns middleware that rejects non-admin users with 403.
// Must be placed after AuthRequired so that userID is available in locals.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("userID").(uint)

		admin, err := s.userService.IsAdmin(c.UserContext(), userID)
		if err != nil {
			return models.RespondWithAppError(c, err)
		}
		if !admin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin access required"))
		}

		return c.Next()
	}
}

// AuthRequired returns the authentication middleware
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := bearerToken(c)
		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		userID, err := s.parseToken(c.UserContext(), tokenString)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized, err)
		}

		s.setUser(c, userID)
		return c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is present and lets
// anonymous requests through otherwise. Browsers cannot set headers on a
// websocket handshake, so the token may also come from the query string.
func (s *Server) OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := bearerToken(c)
		if tokenString == "" {
			tokenString = c.Query("token")
		}
		if tokenString != "" {
			if userID, err := s.parseToken(c.UserContext(), tokenString); err == nil {
				s.setUser(c, userID)
			}
		}
		return c.Next()
	}
}

func (s *Server) setUser(c *fiber.Ctx, userID uint) {
	c.Locals("userID", userID)
	// Sync to UserContext for logging and downstream services
	ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, userID)
	c.SetUserContext(ctx)
}

func bearerToken(c *fiber.Ctx) string {
	parts := strings.Split(c.Get("Authorization"), " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// parseToken validates signature, issuer, audience and revocation and
// returns the subject as a user ID.
func (s *Server) parseToken(ctx context.Context, tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(s.config.JWTSecret), nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
	)
	if err != nil || !token.Valid {
		return 0, models.NewUnauthorizedError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, models.NewUnauthorizedError("Invalid token claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, models.NewUnauthorizedError("Invalid subject claim")
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || userID == 0 {
		return 0, models.NewUnauthorizedError("Invalid user ID in token")
	}

	if jti, exists := claims["jti"].(string); exists && jti != "" && s.redis != nil {
		revoked, err := s.redis.Exists(ctx, "blacklist:"+jti).Result()
		if err == nil && revoked > 0 {
			return 0, models.NewUnauthorizedError("Token has been revoked")
		}
	}

	return uint(userID), nil
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := fiber.New(fiber.Config{
		AppName:   "Cinetheque API",
		BodyLimit: 10 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	if err := s.notifier.StartForumSubscriber(s.shutdownCtx, s.forumHub.HandleRedisMessage); err != nil {
		middleware.Logger.Warn("forum subscriber not started, realtime updates stay local",
			slog.String("error", err.Error()))
	}

	middleware.Logger.Info("server starting", slog.String("port", s.config.Port))
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if err := s.forumHub.Shutdown(ctx); err != nil {
		middleware.Logger.Error("error shutting down forum hub", slog.String("error", err.Error()))
	}

	if err := database.Close(s.db); err != nil {
		middleware.Logger.Error("error closing database", slog.String("error", err.Error()))
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", err.Error()))
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
