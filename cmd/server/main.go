package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nulzo/image-playground/internal/config"
	"github.com/nulzo/image-playground/internal/platform/logger"
	"github.com/nulzo/image-playground/internal/platform/otel"
	"github.com/nulzo/image-playground/internal/server"
	v1 "github.com/nulzo/image-playground/internal/server/v1"
	"github.com/nulzo/image-playground/internal/store"
	"github.com/nulzo/image-playground/internal/store/cache"
	"github.com/nulzo/image-playground/internal/store/r2"
	"github.com/nulzo/image-playground/internal/store/sqlite"
	"github.com/nulzo/image-playground/internal/workersai"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.Log.Level
	logCfg.Format = cfg.Log.Format
	logger.Initialize(logCfg)
	defer logger.Sync()
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Tracing.Enabled {
		shutdown, err := otel.InitTracer(cfg.Tracing.ServiceName, log, os.Stdout)
		if err != nil {
			log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		defer func() { _ = shutdown(context.Background()) }()
	}

	images, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to open image store", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer images.Close()

	schemaCache, closeCache := openCache(ctx, cfg, log)
	defer closeCache()

	ai, err := workersai.NewAdapter(cfg.Cloudflare)
	if err != nil {
		log.Fatal("Failed to create Workers AI adapter", zap.Error(err))
	}

	handler := v1.NewHandler(cfg.Catalog, ai, images, log,
		v1.WithSchemaCache(schemaCache, cfg.Cache.SchemaTTL),
	)

	log.Info("Catalog loaded", zap.Int("models", len(cfg.Catalog)))
	if err := server.New(cfg, log, handler).Run(ctx); err != nil {
		log.Fatal("Server failed", zap.Error(err))
	}
	log.Info("Server exiting")
}

func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (store.ImageStore, error) {
	switch cfg.Storage.Driver {
	case "r2":
		log.Info("Using R2 image store", zap.String("bucket", cfg.Storage.R2.Bucket))
		return r2.New(ctx, r2.Config{
			Endpoint:        cfg.Storage.R2.Endpoint,
			Bucket:          cfg.Storage.R2.Bucket,
			AccessKeyID:     cfg.Storage.R2.AccessKeyID,
			SecretAccessKey: cfg.Storage.R2.SecretAccessKey,
		})
	case "sqlite", "":
		return sqlite.NewSQLiteStorage(cfg.Storage.SQLite.Path, log)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// openCache falls back to the in-process cache when redis is disabled or
// unreachable.
func openCache(ctx context.Context, cfg *config.Config, log *zap.Logger) (cache.CacheService, func()) {
	if !cfg.Redis.Enabled {
		return cache.NewMemoryCache(), func() {}
	}

	client, err := cache.Dial(ctx, &redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable, using in-memory schema cache", zap.Error(err))
		return cache.NewMemoryCache(), func() {}
	}

	log.Info("Using redis schema cache", zap.String("addr", cfg.Redis.Addr))
	return cache.NewRedisCache(client, "playground:"), func() { _ = client.Close() }
}
