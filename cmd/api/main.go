package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"songly/internal/core/auth"
	"songly/internal/core/cache"
	"songly/internal/core/config"
	"songly/internal/core/database"
	"songly/internal/core/logger"
	"songly/internal/core/server"
	"songly/internal/feature"
	"songly/internal/repo"
	"songly/internal/soundcloud"
	"songly/internal/transport/http/handler"
	"songly/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, cleanup := logger.NewWithRotate(cfg.Log.Level, cfg.Log.JSON, logger.FileRotate(cfg.Log.File))
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()

	if cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = logger.ToWriter(log, zapcore.DebugLevel)
	gin.DefaultErrorWriter = logger.ToWriter(log, zapcore.ErrorLevel)

	db := mustOpenDB(cfg, log)
	defer func() { _ = database.Close(db) }()
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := feature.Migrate(db); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	c := &cache.Cache{Log: log}
	if cfg.Redis.Enable {
		c = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		c.Log = log
		defer func() { _ = c.Close() }()
	}

	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    cfg.JWT.TTL(),
	}

	playlists := repo.NewPlaylistRepo(db)
	songs := repo.NewSongRepo(db)
	users := repo.NewUserRepo(db)

	var streams handler.Streamer
	if cfg.SoundCloud.Enabled() {
		sc, err := soundcloud.New(soundcloud.Config{
			ClientID:     cfg.SoundCloud.ClientID,
			ClientSecret: cfg.SoundCloud.ClientSecret,
			BaseURL:      cfg.SoundCloud.BaseURL,
		}, c)
		if err != nil {
			log.Fatal("soundcloud client", zap.Error(err))
		}
		streams = sc
		log.Info("soundcloud streams enabled")
	}

	r := router.NewAPIEngine(log, router.Options{
		JWT:          jwter,
		AllowOrigins: cfg.App.HTTP.AllowOrigins,
		Limits: router.Limits{
			RPS:           cfg.Limits.RPS,
			Burst:         cfg.Limits.Burst,
			MaxConcurrent: cfg.Limits.MaxConcurrent,
			MaxBodyBytes:  cfg.Limits.MaxBodyBytes,
			Timeout:       time.Duration(cfg.Limits.TimeoutSec) * time.Second,
		},
		Ready: func(ctx *gin.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			if err := sqlDB.PingContext(ctx.Request.Context()); err != nil {
				return err
			}
			return c.Ping(ctx.Request.Context())
		},
	},
		handler.NewAuthHandler(users, jwter),
		handler.NewPlaylistHandler(playlists),
		handler.NewSongHandler(songs, streams),
		handler.NewUserHandler(users, jwter),
	)

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("songly api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("metrics", baseURL+"/metrics"),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := server.Run(ctx, srv, log, 10*time.Second); err != nil {
		log.Error("songly api stopped with error", zap.Error(err))
		return
	}
	log.Info("songly api stopped gracefully")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
