package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/arzan03/CondoLedger/internal/config"
	"github.com/arzan03/CondoLedger/internal/db"
	"github.com/arzan03/CondoLedger/internal/handlers"
	"github.com/arzan03/CondoLedger/internal/logging"
	"github.com/arzan03/CondoLedger/internal/services"
	"github.com/arzan03/CondoLedger/internal/session"
	"github.com/arzan03/CondoLedger/internal/storage"
)

func openBackend(ctx context.Context, cfg *config.Config, log *logrus.Logger) (db.Backend, error) {
	if cfg.StoreDriver == config.DriverMongo {
		backend, err := db.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		log.WithField("database", cfg.MongoDB).Info("connected to MongoDB")
		return backend, nil
	}
	backend, err := db.NewFileBackend(cfg.DataPath)
	if err != nil {
		return nil, err
	}
	log.WithField("path", backend.Path()).Info("using file store")
	return backend, nil
}

func backupSinks(ctx context.Context, cfg *config.Config, log *logrus.Logger) []services.BackupSink {
	sinks := []services.BackupSink{storage.NewLocalSink(cfg.BackupDir)}
	if !cfg.MinioEnabled() {
		return sinks
	}
	sink, err := storage.NewMinioSink(ctx, storage.MinioConfig{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
	})
	if err != nil {
		log.WithError(err).Warn("MinIO backups disabled")
		return sinks
	}
	log.WithField("bucket", cfg.MinioBucket).Info("connected to MinIO")
	return append(sinks, sink)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	log := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := openBackend(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("open ledger store")
	}
	store := db.New(backend)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			log.WithError(err).Warn("close ledger store")
		}
	}()

	ledger := services.NewLedger(store,
		services.WithLogger(log),
		services.WithBackupSinks(backupSinks(ctx, cfg, log)...),
	)

	if cfg.AdminPhone != "" {
		created, err := ledger.EnsureAdmin(ctx, cfg.AdminName, cfg.AdminPhone, cfg.AdminPassword)
		if err != nil {
			log.WithError(err).Fatal("bootstrap admin")
		}
		if created {
			log.WithField("phone", cfg.AdminPhone).Info("bootstrap admin created")
		}
	}

	if cfg.BackupSchedule != "" {
		scheduler, err := ledger.ScheduleBackups(cfg.BackupSchedule)
		if err != nil {
			log.WithError(err).Fatal("schedule backups")
		}
		defer scheduler.Stop()
	}

	sessions := session.NewMemoryRegistry(session.WithTTL(cfg.SessionTTL))
	app := handlers.NewApp(handlers.NewHandler(ledger, sessions, log), handlers.AppConfig{
		BodyLimit:    cfg.BodyLimit,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		AccessLog:    true,
	})

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.WithError(err).Warn("shutdown")
		}
	}()

	log.WithField("port", cfg.Port).Info("server running")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.WithError(err).Error("server stopped")
	}
}
