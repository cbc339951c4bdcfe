package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/pressroom/blog-system/internal/api"
	"github.com/pressroom/blog-system/internal/core/service"
	"github.com/pressroom/blog-system/internal/core/token"
	"github.com/pressroom/blog-system/internal/infrastructure/config"
	"github.com/pressroom/blog-system/internal/infrastructure/db/mongo"
	"github.com/pressroom/blog-system/internal/infrastructure/db/redis"
	"github.com/pressroom/blog-system/internal/infrastructure/queue"
	"github.com/pressroom/blog-system/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title           Blog System API
// @version         1.0
// @description     Authentication, user management and blog post API.
// @host            localhost:8080
// @BasePath        /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.Init(logger.Options{})
		l.Fatal().Err(err).Msg("loading configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "blog-api",
	})

	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to mongo")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("disconnecting mongo")
		}
	}()

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to redis")
	}
	defer rdb.Close()

	userRepo := mongo.NewUserRepository(db)
	postRepo := mongo.NewPostRepository(db)

	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("ensuring user indexes")
	}
	if err := postRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("ensuring post indexes")
	}

	codec, err := token.NewCodec(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("building token codec")
	}

	authService := service.NewAuthService(userRepo, codec, log)
	userService := service.NewUserService(userRepo, log)
	postService := service.NewPostService(postRepo, redis.NewViewGuard(rdb), log)

	dispatcher := queue.NewViewDispatcher(cfg.ViewWorkers, postService, log)
	dispatcher.Start(ctx)

	e := api.NewRouter(api.Deps{
		Auth:   authService,
		Users:  userService,
		Posts:  postService,
		Views:  dispatcher,
		Tokens: codec,
		DB:     db,
		Redis:  rdb,
		Logger: log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("starting server")
		}
	}()

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
}
