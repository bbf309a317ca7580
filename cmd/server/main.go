package main

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/lumen-signage/lumen/internal/channel"
	"github.com/lumen-signage/lumen/internal/config"
	"github.com/lumen-signage/lumen/internal/db"
	"github.com/lumen-signage/lumen/internal/dispatch"
	"github.com/lumen-signage/lumen/internal/http/api"
	"github.com/lumen-signage/lumen/internal/http/api/admin/endpoints"
	"github.com/lumen-signage/lumen/internal/redis"
	"github.com/lumen-signage/lumen/internal/registry"
	"github.com/lumen-signage/lumen/internal/scheduler"
	"github.com/lumen-signage/lumen/internal/storage"
)

func main() {
	// load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// initialize PostgreSQL
	if err := db.Init(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("db init failed")
	}

	// run pending migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("db migrate failed")
	}

	if cfg.RedisAddress != "" {
		redis.InitRedis(cfg.RedisAddress, cfg.RedisUsername, cfg.RedisPassword)
	}

	store := db.NewStore(nil)
	reg := registry.New()
	adminHub := channel.NewAdminHub()
	gateway := channel.NewGateway(reg, store, adminHub)
	dispatcher := dispatch.New(reg, store, cfg.BroadcastExclude)

	// optional MQTT bridge for screens that cannot hold a websocket
	if cfg.MQTTBrokerURL != "" {
		bridge := channel.NewMQTTBridge(gateway)
		if err := bridge.Start(cfg.MQTTBrokerURL); err != nil {
			log.Fatal().Err(err).Msg("mqtt bridge failed to start")
		}
		defer bridge.Stop()
	}

	// schedule evaluator tick
	evaluator := scheduler.New(store, dispatcher, time.Duration(cfg.ScheduleTickSeconds)*time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go evaluator.Run(ctx)

	mediaStore, err := newMediaStorage(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("media storage init failed")
	}

	// set up gin router
	r := gin.Default()
	r.Use(cors.Default())

	// screen + admin push channels
	r.GET("/api/screen/ws", gateway.Handler())
	r.GET("/api/admin/ws", adminHub.Handler())

	// uploaded media served for local storage
	if cfg.StorageDriver == "local" {
		r.Static("/uploads", cfg.UploadDir)
	}

	api.MountGroup(r, api.GroupConfig{Prefix: "/api/admin"},
		endpoints.ScreenModule(store, reg, adminHub),
		endpoints.GroupModule(store),
		endpoints.PlaylistModule(store, dispatcher),
		endpoints.ScheduleModule(store),
		endpoints.PushModule(dispatcher),
		endpoints.PairingModule(),
		endpoints.MediaModule(mediaStore),
	)

	// start
	log.Info().Str("address", cfg.ServerAddress).Msg("listening")
	if err := r.Run(cfg.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

func newMediaStorage(cfg *config.Config) (storage.Storage, error) {
	if cfg.StorageDriver == "spaces" {
		return storage.NewSpacesStorage(
			cfg.SpacesEndpoint, cfg.SpacesRegion, cfg.SpacesBucket,
			cfg.SpacesCDNURL, cfg.SpacesAccessKey, cfg.SpacesSecretKey,
		)
	}
	return storage.NewLocalStorage(cfg.UploadDir), nil
}
