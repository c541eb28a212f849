package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"studentblog/docs" // swagger docs
	"studentblog/internal/auth"
	"studentblog/internal/cache"
	"studentblog/internal/config"
	"studentblog/internal/db"
	"studentblog/internal/handler"
	"studentblog/internal/logger"
	"studentblog/internal/repository"
	"studentblog/internal/router"
	"studentblog/internal/service"
)

// @title Student Blog API
// @version 1.0
// @description Student records and a blogging platform with JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	logger.Configure(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	if cfg.IsProduction() && cfg.JWTSecret == "change-me" {
		logger.Fatal().Msg("JWT_SECRET must be set in production")
	}

	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("database init")
	}

	if cfg.ResetDB {
		logger.Warn().Msg("RESET_DB=true detected, dropping all tables")
		if err := db.DropAll(gormDB); err != nil {
			logger.Warn().Err(err).Msg("drop tables")
		}
	}

	if err := db.Migrate(gormDB); err != nil {
		logger.Fatal().Err(err).Msg("auto-migrate")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 2*time.Second)
	if err := cacheClient.Ping(pingCtx); err != nil {
		logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable, running without cache and token revocation")
	}
	cancelPing()

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	studentRepo := repository.NewStudentRepository(gormDB)
	blogRepo := repository.NewBlogRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTExpiry)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	userService := service.NewUserService(userRepo, cacheClient)
	authService := service.NewAuthService(userRepo, userService, jwtService, tokenStore)
	studentService := service.NewStudentService(studentRepo)
	blogService := service.NewBlogService(blogRepo)

	if cfg.SwaggerHost != "" {
		host := strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
		docs.SwaggerInfo.Host = host
	}

	e := echo.New()
	router.Register(e, cfg, authService, router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Students: handler.NewStudentHandler(studentService),
		Blogs:    handler.NewBlogHandler(blogService),
	})

	addr := ":" + cfg.ServerPort
	go func() {
		logger.Info().
			Str("addr", addr).
			Str("swagger", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html").
			Msg("server starting")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server shutdown")
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
