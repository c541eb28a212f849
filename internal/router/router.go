package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"studentblog/internal/config"
	"studentblog/internal/handler"
	appmw "studentblog/internal/middleware"
)

// Handlers groups the HTTP handlers served by the API.
type Handlers struct {
	Auth     *handler.AuthHandler
	Students *handler.StudentHandler
	Blogs    *handler.BlogHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, authenticator appmw.Authenticator, h Handlers) {
	e.HideBanner = true
	e.HTTPErrorHandler = appmw.ErrorHandler
	e.Validator = NewValidator()

	e.Use(middleware.RequestID())
	e.Use(appmw.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("1M"))
	e.Use(middleware.CORSWithConfig(corsConfig(cfg)))

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")
	requireAuth := appmw.Auth(authenticator)

	// Public routes
	authGroup := api.Group("/auth")
	throttled := authGroup.Group("", rateLimiter(cfg))
	throttled.POST("/register", h.Auth.Register)
	throttled.POST("/login", h.Auth.Login)
	authGroup.POST("/logout", h.Auth.Logout)

	api.GET("/blogs/public", h.Blogs.ListPublicBlogs)
	api.GET("/blogs/public/:id", h.Blogs.GetPublicBlog)

	// Secured routes
	authGroup.GET("/profile", h.Auth.Profile, requireAuth)
	authGroup.PUT("/profile", h.Auth.UpdateProfile, requireAuth)
	authGroup.POST("/change-password", h.Auth.ChangePassword, requireAuth)

	students := api.Group("/students", requireAuth)
	students.GET("", h.Students.ListStudents)
	students.POST("", h.Students.CreateStudent)
	students.GET("/:id", h.Students.GetStudent)
	students.PUT("/:id", h.Students.UpdateStudent)
	students.DELETE("/:id", h.Students.DeleteStudent)

	blogs := api.Group("/blogs", requireAuth)
	blogs.GET("", h.Blogs.ListOwnBlogs)
	blogs.POST("", h.Blogs.CreateBlog)
	blogs.PUT("/:id", h.Blogs.UpdateBlog)
	blogs.DELETE("/:id", h.Blogs.DeleteBlog)
	blogs.POST("/:id/like", h.Blogs.ToggleLike)
	blogs.POST("/:id/comments", h.Blogs.AddComment)
	blogs.DELETE("/:id/comments/:commentId", h.Blogs.DeleteComment)
}

func corsConfig(cfg *config.Config) middleware.CORSConfig {
	corsCfg := middleware.DefaultCORSConfig
	if len(cfg.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	corsCfg.AllowHeaders = []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization}
	return corsCfg
}

// rateLimiter throttles per client IP. A non-positive rate disables it.
func rateLimiter(cfg *config.Config) echo.MiddlewareFunc {
	if cfg.RateLimitRPS <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(cfg.RateLimitRPS)))
}
