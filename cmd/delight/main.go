package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Orlando-Villanueva/my-delight-sub000/internal/auth"
	"github.com/Orlando-Villanueva/my-delight-sub000/internal/bible"
	"github.com/Orlando-Villanueva/my-delight-sub000/internal/cache"
	"github.com/Orlando-Villanueva/my-delight-sub000/internal/config"
	"github.com/Orlando-Villanueva/my-delight-sub000/internal/db"
	httpx "github.com/Orlando-Villanueva/my-delight-sub000/internal/http"
	"github.com/Orlando-Villanueva/my-delight-sub000/internal/logger"
	"github.com/Orlando-Villanueva/my-delight-sub000/internal/reading"
	"github.com/Orlando-Villanueva/my-delight-sub000/internal/stats"
)

func main() {
	cfg, _ := config.Load()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		stdlog.Fatal(err)
	}
	defer log.Sync()

	gdb, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("db connect failed", "error", err)
	}
	if err := db.AutoMigrateAndIndexes(gdb); err != nil {
		log.Fatal("db migrate failed", "error", err)
	}

	var store cache.Store
	var redisStore *cache.Redis
	if cfg.UseMemoryCache {
		log.Info("using in-memory cache")
		store = cache.NewMemory()
	} else {
		redisStore, err = cache.NewRedis(cfg.RedisAddr)
		if err != nil {
			log.Fatal("redis connect failed", "error", err)
		}
		store = redisStore
	}

	repo := &reading.Repo{DB: gdb}
	policy := &stats.CachePolicy{Cache: store, Log: log.With("component", "cache_policy")}
	statsSvc := &stats.Service{
		Events:   repo,
		Progress: repo,
		Cache:    store,
		Log:      log.With("component", "stats"),
		Target:   cfg.WeeklyGoalTarget,
	}
	readingSvc := &reading.Service{
		DB:     gdb,
		Ref:    bible.Canon{},
		Policy: policy,
		Log:    log.With("component", "reading"),
	}

	jwtSvc := auth.NewJWT(cfg.JWTSecret)
	r := httpx.NewRouter(cfg, gdb, jwtSvc, readingSvc, statsSvc)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", "error", err)
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)

	if redisStore != nil {
		_ = redisStore.Close()
	}
}
