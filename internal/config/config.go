package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application level configuration loaded from the environment.
type Config struct {
	AppEnv      string
	ServerPort  string
	DBDriver    string
	DBDSN       string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	JWTSecret   string
	JWTExpiry   time.Duration
	LogLevel    string
	LogPretty   bool
	SwaggerHost string
	// RateLimitRPS throttles the unauthenticated auth endpoints per client IP.
	RateLimitRPS   float64
	AllowedOrigins []string
	ResetDB        bool
}

// Load builds Config from environment variables, an optional .env file and defaults.
func Load() *Config {
	// .env is optional; real deployments inject the environment directly.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("MYSQL_DSN", "user:password@tcp(localhost:3306)/app?charset=utf8mb4&parseTime=True&loc=Local")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("JWT_SECRET", "change-me")
	v.SetDefault("JWT_EXPIRY", "168h")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)
	v.SetDefault("RATE_LIMIT_RPS", 10.0)

	dsn := v.GetString("DB_DSN")
	if dsn == "" {
		dsn = v.GetString("MYSQL_DSN")
	}

	return &Config{
		AppEnv:         v.GetString("APP_ENV"),
		ServerPort:     v.GetString("SERVER_PORT"),
		DBDriver:       strings.ToLower(v.GetString("DB_DRIVER")),
		DBDSN:          dsn,
		RedisAddr:      v.GetString("REDIS_ADDR"),
		RedisDB:        v.GetInt("REDIS_DB"),
		RedisPass:      v.GetString("REDIS_PASSWORD"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		JWTExpiry:      v.GetDuration("JWT_EXPIRY"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		LogPretty:      v.GetBool("LOG_PRETTY"),
		SwaggerHost:    v.GetString("SWAGGER_HOST"),
		RateLimitRPS:   v.GetFloat64("RATE_LIMIT_RPS"),
		AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		ResetDB:        v.GetBool("RESET_DB"),
	}
}

// IsProduction reports whether the service runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
