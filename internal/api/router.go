package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/zonemark/annotation-system/docs"
	"github.com/zonemark/annotation-system/internal/api/handler"
	"github.com/zonemark/annotation-system/internal/api/middleware"
	"github.com/zonemark/annotation-system/internal/core/domain"
	"github.com/zonemark/annotation-system/internal/core/ports"
	"github.com/zonemark/annotation-system/internal/core/service"
	"github.com/zonemark/annotation-system/internal/infrastructure/config"
	mongodb "github.com/zonemark/annotation-system/internal/infrastructure/db/mongo"
	redisdb "github.com/zonemark/annotation-system/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes
// registered. db may be nil when no connection string is configured; every
// storage-backed route then answers 503 instead of the process refusing to
// start. rdb and sink are optional and degrade to uncached / unaudited
// operation when nil.
func NewRouter(
	db *mongo.Database,
	rdb *redis.Client,
	blobs ports.BlobStore,
	sink ports.AuditSink,
	cfg *config.Config,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("annotation"))

	// --- Operational endpoints (no auth required) ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	if db == nil {
		log.Warn().Msg("no document store configured, storage-backed routes disabled")
		unavailable := func(echo.Context) error { return domain.ErrStoreUnavailable }
		e.Any("/auth/*", unavailable)
		e.Any("/v1/*", unavailable)
		return e
	}

	// --- Repositories ---
	userRepo := mongodb.NewUserRepository(db)
	videoRepo := mongodb.NewVideoRepository(db)
	annotationRepo := mongodb.NewAnnotationRepository(db)
	noteRepo := mongodb.NewNoteRepository(db)

	var cache ports.CountsCache
	if rdb != nil {
		cache = redisdb.NewCountsCache(rdb)
	}

	// --- Services ---
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL, log)
	annotationService := service.NewAnnotationService(annotationRepo, videoRepo, cache, sink, log)
	videoService := service.NewVideoService(videoRepo, annotationService, noteRepo, blobs, log)
	noteService := service.NewNoteService(noteRepo, videoRepo, log)
	exportService := service.NewExportService(annotationRepo, log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	videoHandler := handler.NewVideoHandler(videoService, cfg.Uploads.MaxUploadMB*1024*1024)
	annotationHandler := handler.NewAnnotationHandler(annotationService, videoService)
	noteHandler := handler.NewNoteHandler(noteService)
	exportHandler := handler.NewExportHandler(exportService)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Uploaded video files ---
	e.Static(cfg.Uploads.PathPrefix, cfg.Uploads.Dir)

	// --- Authenticated API ---
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	v1 := e.Group("/v1", middleware.Auth(cfg.JWTSecret))

	v1.GET("/videos", videoHandler.List)
	v1.POST("/videos", videoHandler.Upload, adminOnly)
	v1.DELETE("/videos/:id", videoHandler.Delete, adminOnly)

	v1.GET("/annotations", annotationHandler.List)
	v1.GET("/annotations/counts", annotationHandler.Counts)
	v1.POST("/annotations", annotationHandler.Create)
	v1.PUT("/annotations/:id", annotationHandler.Edit, adminOnly)
	// Deletion is admin-or-owner; the ownership check lives in the service.
	v1.DELETE("/annotations/:id", annotationHandler.Delete)

	v1.GET("/export", exportHandler.Export)

	v1.GET("/notes", noteHandler.List)
	v1.POST("/notes", noteHandler.Save)
	v1.DELETE("/notes/:id", noteHandler.Delete)

	return e
}
