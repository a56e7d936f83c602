package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"campuscrafter.id/academy/internal/auth"
	"campuscrafter.id/academy/internal/bootstrap"
	"campuscrafter.id/academy/internal/config"
	searchService "campuscrafter.id/academy/internal/modules/search/service"
	userService "campuscrafter.id/academy/internal/modules/user/service"
	"campuscrafter.id/academy/internal/server"
	"campuscrafter.id/academy/pkg/database"
	"campuscrafter.id/academy/pkg/logger"
	"campuscrafter.id/academy/pkg/storage"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogPretty)
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server exited with error")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	db, err := database.Connect(database.Options{
		URL:             cfg.DatabaseURL,
		Host:            cfg.DBHost,
		User:            cfg.DBUser,
		Password:        cfg.DBPass,
		Name:            cfg.DBName,
		Port:            cfg.DBPort,
		SSLMode:         cfg.DBSSLMode,
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
		Debug:           cfg.LogLevel == "debug",
	})
	if err != nil {
		return err
	}

	if err := bootstrap.Migrate(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	repos := server.NewRepositories(db)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)

	accounts := userService.NewAuthService(repos.Users, tokens, cfg.BcryptCost, log)
	if err := bootstrap.SeedAdminUser(ctx, repos.Users, accounts, cfg.SeedAdminEmail, cfg.SeedAdminPassword, log); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	redisClient := connectRedis(ctx, cfg.RedisURL, log)
	if redisClient != nil {
		defer redisClient.Close()
	}

	var search searchService.CourseIndex
	if cfg.MeiliSearchHost != "" {
		host := cfg.MeiliSearchHost
		if !strings.HasPrefix(host, "http") {
			host = "http://" + host + ":7700"
		}
		search = searchService.NewMeiliSearchService(meilisearch.New(host, meilisearch.WithAPIKey(cfg.MeiliMasterKey)), log)
	} else {
		log.Info().Msg("MEILISEARCH_HOST not set, course search uses the database")
	}

	var images storage.ImageStorage
	if cfg.CloudinaryURL != "" {
		images, err = storage.NewCloudinaryStorage(cfg.CloudinaryURL, cfg.CloudinaryUploadFolder)
		if err != nil {
			return err
		}
	} else {
		log.Info().Msg("cloudinary not configured, profile picture uploads are disabled")
	}

	srv := server.NewServer(server.Options{
		Config: cfg,
		Logger: log,
		Repos:  repos,
		Tokens: tokens,
		Redis:  redisClient,
		Search: search,
		Images: images,
		Health: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	})

	return srv.Run(ctx, ":"+cfg.Port)
}

// connectRedis returns nil when REDIS_URL is unset or unreachable; the grade stream is then disabled.
func connectRedis(ctx context.Context, url string, log zerolog.Logger) *redis.Client {
	if url == "" {
		log.Info().Msg("REDIS_URL not set, grade notifications are disabled")
		return nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		log.Warn().Err(err).Msg("invalid REDIS_URL, grade notifications are disabled")
		return nil
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis unreachable, grade notifications are disabled")
		_ = client.Close()
		return nil
	}
	return client
}
