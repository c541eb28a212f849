// Package apitest wires the whole HTTP application for tests.
package apitest

import (
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"studentblog/internal/auth"
	"studentblog/internal/config"
	"studentblog/internal/handler"
	"studentblog/internal/logger"
	"studentblog/internal/repository"
	"studentblog/internal/router"
	"studentblog/internal/service"
	"studentblog/internal/testutil"
)

// JWTSecret signs the tokens of NewAPI.
const JWTSecret = "test-secret"

// API is the fully wired application on an in-memory database and an
// in-process Redis.
type API struct {
	Echo  *echo.Echo
	DB    *gorm.DB
	Redis *miniredis.Miniredis
	JWT   *auth.JWTService
}

// NewAPI builds the HTTP application the way cmd/server does, without rate
// limiting.
func NewAPI(t testing.TB) *API {
	t.Helper()
	logger.Configure(logger.Config{Level: "error", Output: io.Discard})

	gormDB := testutil.NewDB(t)
	redisCache, mr := testutil.NewRedis(t)
	jwtService := auth.NewJWTService(JWTSecret, time.Hour)

	userRepo := repository.NewUserRepository(gormDB)
	userService := service.NewUserService(userRepo, redisCache)
	authService := service.NewAuthService(userRepo, userService, jwtService, auth.NewTokenStore(redisCache))

	e := echo.New()
	router.Register(e, &config.Config{JWTSecret: JWTSecret}, authService, router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Students: handler.NewStudentHandler(service.NewStudentService(repository.NewStudentRepository(gormDB))),
		Blogs:    handler.NewBlogHandler(service.NewBlogService(repository.NewBlogRepository(gormDB))),
	})

	return &API{Echo: e, DB: gormDB, Redis: mr, JWT: jwtService}
}
