package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr             string
	DatabaseURL          string
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	JWTSecret string

	// Cache store. When UseMemoryCache is set the redis address is ignored
	// and an in-process cache is used instead.
	RedisAddr      string
	UseMemoryCache bool

	LogMode string

	WeeklyGoalTarget int
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:             getenv("HTTP_ADDR", ":8080"),
		DatabaseURL:          mustGetenv("DATABASE_URL"),
		CORSAllowCredentials: getenv("CORS_ALLOW_CREDENTIALS", "false") == "true",
		UseMemoryCache:       getenv("USE_MEMORY_CACHE", "false") == "true",
		LogMode:              getenv("LOG_MODE", "dev"),
	}

	origins := strings.Split(getenv("CORS_ALLOWED_ORIGINS", ""), ",")
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	if !cfg.UseMemoryCache {
		cfg.RedisAddr = mustGetenv("REDIS_ADDR")
	}

	cfg.WeeklyGoalTarget = 4
	if v := getenv("WEEKLY_GOAL_TARGET", ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			panic("invalid WEEKLY_GOAL_TARGET: " + v)
		}
		cfg.WeeklyGoalTarget = n
	}

	cfg.JWTSecret = mustGetenv("JWT_SECRET")
	return cfg, nil
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func mustGetenv(key string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		panic("missing env: " + key)
	}
	return v
}
