package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/zonemark/annotation-system/internal/api"
	"github.com/zonemark/annotation-system/internal/core/ports"
	"github.com/zonemark/annotation-system/internal/core/service"
	"github.com/zonemark/annotation-system/internal/infrastructure/config"
	mongodb "github.com/zonemark/annotation-system/internal/infrastructure/db/mongo"
	redisdb "github.com/zonemark/annotation-system/internal/infrastructure/db/redis"
	"github.com/zonemark/annotation-system/internal/infrastructure/queue"
	"github.com/zonemark/annotation-system/internal/infrastructure/storage"
	"github.com/zonemark/annotation-system/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title           Video Annotation API
// @version         1.0
// @description     Multi-user timestamped video annotation service.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- MongoDB (optional: absence degrades routes to 503) ---
	db := connectMongo(ctx, cfg, log)

	// --- Redis counts cache (optional) ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, annotation counts will not be cached")
		rdb = nil
	}

	// --- Video blob storage ---
	blobs, err := storage.NewLocalStore(cfg.Uploads.Dir, cfg.Uploads.PathPrefix)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.Uploads.Dir).Msg("failed to initialise upload storage")
	}

	// --- Audit pipeline ---
	var sink ports.AuditSink
	if db != nil {
		recorder := service.NewAuditService(mongodb.NewAuditRepository(db), log)
		dispatcher := queue.NewDispatcher(0, recorder, log)
		dispatcher.Start(ctx)
		sink = dispatcher
	}

	// --- Bootstrap admin ---
	if db != nil && cfg.BootstrapAdmin() {
		auth := service.NewAuthService(mongodb.NewUserRepository(db), cfg.JWTSecret, cfg.TokenTTL, log)
		if _, err := auth.EnsureAdmin(ctx, cfg.Setup.AdminEmail, cfg.Setup.AdminUsername, cfg.Setup.AdminPassword); err != nil {
			log.Error().Err(err).Msg("failed to ensure bootstrap admin")
		}
	}

	e := api.NewRouter(db, rdb, blobs, sink, cfg, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil {
			log.Info().Err(err).Msg("http server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// connectMongo returns nil when no URI is configured or the store is
// unreachable; the API then serves 503 on storage-backed routes instead
// of the process crashing at boot.
func connectMongo(ctx context.Context, cfg *config.Config, log zerolog.Logger) *mongo.Database {
	if cfg.Mongo.URI == "" {
		log.Warn().Msg("MONGO_URI not set, storage-backed routes will return 503")
		return nil
	}

	_, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Error().Err(err).Msg("mongo connection failed, storage-backed routes will return 503")
		return nil
	}

	ensureIndexes(ctx, db, log)
	return db
}

func ensureIndexes(ctx context.Context, db *mongo.Database, log zerolog.Logger) {
	if err := mongodb.NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to ensure user indexes")
	}
	if err := mongodb.NewAnnotationRepository(db).EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to ensure annotation indexes")
	}
	if err := mongodb.NewNoteRepository(db).EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to ensure note indexes")
	}
}
