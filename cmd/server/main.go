package main

import (
	"context"
	"errors"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"neighborconnect/docs" // swagger docs

	"neighborconnect/internal/auth"
	"neighborconnect/internal/cache"
	"neighborconnect/internal/config"
	"neighborconnect/internal/db"
	"neighborconnect/internal/handler"
	"neighborconnect/internal/logger"
	"neighborconnect/internal/media"
	"neighborconnect/internal/repository"
	"neighborconnect/internal/router"
	"neighborconnect/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title NeighborConnect API
// @version 1.0
// @description Community help board: members post help requests, organise local events and comment.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name token
// @description Session cookie set by /login. Authenticated requests must also send X-CSRF-Token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("load config: %v", err)
	}

	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		stdlog.Fatalf("init logger: %v", err)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, database, err := db.NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Disconnect(mongoClient); err != nil {
			log.Warn("disconnect mongo", zap.Error(err))
		}
	}()

	if err := repository.EnsureIndexes(ctx, database); err != nil {
		return err
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	if err := cacheClient.Ping(ctx); err != nil {
		log.Warn("redis unreachable, feed cache and login throttle disabled until it recovers", zap.Error(err))
	}

	s3Client, err := media.NewS3Client(ctx, cfg.S3)
	if err != nil {
		return err
	}
	mediaStore := media.NewStore(s3Client, cfg.S3, log.Named("media"))

	// Initialize repositories
	userRepo := repository.NewUserRepository(database)
	postRepo := repository.NewPostRepository(database)
	eventRepo := repository.NewEventRepository(database)
	commentRepo := repository.NewCommentRepository(database)
	likeRepo := repository.NewLikeRepository(database)
	rsvpRepo := repository.NewRSVPRepository(database)

	// Initialize auth components
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.SessionTTL)
	cookies := auth.NewCookieTransport(cfg.IsProduction(), cfg.SessionTTL)
	throttle := auth.NewLoginThrottle(cacheClient, cfg.LoginMaxAttempts, cfg.LoginWindow, log.Named("throttle"))

	// Initialize services
	authService := service.NewAuthService(userRepo, hasher, tokens, throttle, log.Named("auth"))
	userService := service.NewUserService(userRepo, hasher, mediaStore)
	postService := service.NewPostService(postRepo, userRepo, commentRepo, likeRepo, cacheClient, cfg.FeedCacheTTL)
	eventService := service.NewEventService(eventRepo, userRepo, likeRepo, rsvpRepo, mediaStore, cacheClient, cfg.FeedCacheTTL)
	commentService := service.NewCommentService(commentRepo, postRepo)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	router.Register(e, cfg, log, auth.NewMiddleware(tokens, userRepo, log.Named("auth")), router.Handlers{
		Auth:    handler.NewAuthHandler(authService, cookies),
		User:    handler.NewUserHandler(userService, cookies),
		Post:    handler.NewPostHandler(postService),
		Event:   handler.NewEventHandler(eventService),
		Comment: handler.NewCommentHandler(commentService),
		Admin:   handler.NewAdminHandler(userService, postService, eventService, commentService, cookies),
	})

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	}
	log.Info("swagger documentation available",
		zap.String("url", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html"))

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.ServerPort
		log.Info("server listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
