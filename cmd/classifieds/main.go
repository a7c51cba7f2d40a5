package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"antiquites/internal/config"
	"antiquites/internal/events"
	"antiquites/internal/http/handlers"
	applog "antiquites/internal/log"
	"antiquites/internal/metrics"
	"antiquites/internal/repos"
	"antiquites/internal/storage"
)

func main() {
	cfg := config.Load()

	logger, err := applog.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	applog.SetLogger(logger)

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		logger.Fatal("open database", zap.String("dsn", cfg.DBDSN), zap.Error(err))
	}
	defer db.Close()

	ctx := context.Background()
	if cfg.AdminPassword == "" {
		logger.Warn("ADMIN_PASSWORD not set, administrator account not seeded")
	} else if err := repos.SeedAdmin(ctx, db, cfg.AdminEmail, cfg.AdminPassword, logger); err != nil {
		logger.Fatal("seed administrator", zap.Error(err))
	}

	var store storage.Store
	switch cfg.StorageBackend {
	case "minio":
		store, err = storage.NewMinioStore(ctx, storage.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		}, logger.Named("minio"))
	default:
		store, err = storage.NewDiskStore(cfg.UploadDir)
	}
	if err != nil {
		logger.Fatal("init photo storage", zap.String("backend", cfg.StorageBackend), zap.Error(err))
	}

	var pub events.Publisher = events.Nop{}
	if cfg.NATSURL != "" {
		np, err := events.NewNATSPublisher(cfg.NATSURL, 5*time.Second, logger.Named("nats"))
		if err != nil {
			// moderation keeps working without the broker
			logger.Warn("NATS unavailable, events disabled", zap.Error(err))
		} else {
			defer np.Close()
			pub = np
		}
	}

	deps := handlers.NewDeps(db, cfg, store, pub, metrics.New("classifieds"), logger)
	app := handlers.NewApp(cfg, deps)

	logger.Info("listening", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
