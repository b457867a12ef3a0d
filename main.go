package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/uptrace/bun"

	artist_db "fyyur/internal/artist/db"
	artist "fyyur/internal/artist/service"
	"fyyur/internal/config"
	"fyyur/internal/database"
	"fyyur/internal/database/migrations"
	"fyyur/internal/flash"
	"fyyur/internal/kafka"
	"fyyur/internal/logger"
	"fyyur/internal/metrics"
	"fyyur/internal/router"
	show_db "fyyur/internal/show/db"
	qr "fyyur/internal/show/qr_generator"
	show "fyyur/internal/show/service"
	venue_db "fyyur/internal/venue/db"
	venue "fyyur/internal/venue/service"
)

func migrate(ctx context.Context, cfg config.DatabaseConfig, bunDB *bun.DB, log *logger.Logger) error {
	if cfg.Driver == "sqlite" {
		log.Info("MIGRATE", "Creating SQLite schema from models")
		return database.CreateSchema(ctx, bunDB)
	}
	// The runner is not closed here: closing it would close bunDB as well.
	return migrations.NewRunner(bunDB, log).RunMigrations()
}

func flashStore(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (flash.Store, func()) {
	if cfg.Addr == "" {
		log.Info("FLASH", "REDIS_ADDR not set, keeping notifications in memory")
		return flash.NewMemoryStore(), func() {}
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.Addr, DB: cfg.DB})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("REDIS", fmt.Sprintf("Redis at %s unreachable (%v), keeping notifications in memory", cfg.Addr, err))
		client.Close()
		return flash.NewMemoryStore(), func() {}
	}
	log.Info("REDIS", fmt.Sprintf("✅ Redis connection successful to %s (DB: %d)", cfg.Addr, cfg.DB))
	return flash.NewRedisStore(client, cfg.FlashTTL), func() { client.Close() }
}

func publisher(ctx context.Context, cfg config.KafkaConfig, log *logger.Logger) kafka.Publisher {
	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		log.Info("KAFKA", "Change events disabled")
		return kafka.NoopPublisher{}
	}
	if err := kafka.EnsureTopicsExist(ctx, cfg.Brokers, kafka.AllTopics, log); err != nil {
		log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
	}
	log.Info("KAFKA", fmt.Sprintf("Publishing change events to %v", cfg.Brokers))
	return kafka.NewProducer(cfg.Brokers, log)
}

func main() {
	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Dir, logger.ParseLevel(cfg.Log.Level))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		log = logger.New(os.Stdout, logger.ParseLevel(cfg.Log.Level))
	}
	defer log.Close()

	log.Info("APP", fmt.Sprintf("Starting Fyyur (%s)", cfg.App.Env))
	ctx := context.Background()

	bunDB, err := database.Open(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("DATABASE", err.Error())
	}
	defer bunDB.Close()

	if cfg.Database.AutoMigrate {
		if err := migrate(ctx, cfg.Database, bunDB, log); err != nil {
			log.Fatal("MIGRATE", err.Error())
		}
	}

	store, closeStore := flashStore(ctx, cfg.Redis, log)
	defer closeStore()

	events := publisher(ctx, cfg.Kafka, log)
	defer events.Close()

	venues := &venue_db.DB{Bun: bunDB}
	artists := &artist_db.DB{Bun: bunDB}
	shows := &show_db.DB{Bun: bunDB}
	timeout := cfg.Database.StoreTimeout

	handler := router.New(router.Deps{
		DB:           bunDB,
		StoreTimeout: timeout,
		FlashTTL:     cfg.Redis.FlashTTL,
		Venues:       venue.NewVenueService(bunDB, venues, shows, events, log, timeout),
		Artists:      artist.NewArtistService(bunDB, artists, shows, events, log, timeout),
		Shows:        show.NewShowService(bunDB, shows, venues, artists, events, log, qr.NewQRGenerator(cfg.App.BaseURL), timeout),
		Notifier:     flash.NewNotifier(store, log),
		Metrics:      metrics.New(),
		Logger:       log,
	})

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("🚀 Fyyur running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		log.Info("HTTP", "✅ Fyyur shutdown complete")
	}
}
