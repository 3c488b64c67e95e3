package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/mr1hm/tamis/internal/api"
	"github.com/mr1hm/tamis/internal/broadcast"
	"github.com/mr1hm/tamis/internal/cache"
	"github.com/mr1hm/tamis/internal/config"
	"github.com/mr1hm/tamis/internal/logging"
	"github.com/mr1hm/tamis/internal/repository"
	"github.com/mr1hm/tamis/internal/seed"
	"github.com/mr1hm/tamis/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level)

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port, "driver", cfg.DB.Driver)

	db, err := repository.Open(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		logging.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dashboardCache := newCache(ctx, cfg.Cache)
	broadcaster := broadcast.NewBroadcaster()
	svc := service.New(db, dashboardCache, cfg.Cache.TTL, broadcaster)

	seeder := seed.NewSeeder(newSource(cfg.Seed), db, cfg.Worker.Count)
	seeder.OnSeeded(svc.OnSeeded)

	if cfg.Seed.OnStartup {
		if _, err := seeder.Run(ctx); err != nil {
			slog.Error("startup seed failed", "error", err)
		}
	}
	if cfg.Seed.Schedule != "" {
		if err := seeder.Schedule(ctx, cfg.Seed.Schedule); err != nil {
			logging.Fatalf("Failed to schedule seeding: %v", err)
		}
	}

	// Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(api.RequestID())
	router.Use(api.RequestLogger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Server.AllowedOrigin},
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", api.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", api.RequestIDHeader},
		AllowCredentials: false,
	}))
	router.Use(api.RateLimitMiddleware(cfg.Server.RateLimitRPS))

	handler := api.NewHandler(svc, broadcaster)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	cancel()
	seeder.Stop()
	broadcaster.Close() // ends open alert streams

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
	if c, ok := dashboardCache.(*cache.RedisCache); ok {
		c.Close()
	}

	slog.Info("shutdown complete")
}

// newCache falls back to no caching when Redis is not configured or unreachable.
func newCache(ctx context.Context, cfg config.CacheConfig) cache.Cache {
	if cfg.RedisAddr == "" {
		return cache.Nop{}
	}

	c := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := c.Ping(pingCtx); err != nil {
		slog.Warn("redis unavailable, dashboard caching disabled", "addr", cfg.RedisAddr, "error", err)
		c.Close()
		return cache.Nop{}
	}

	slog.Info("dashboard cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.TTL)
	return c
}

func newSource(cfg config.SeedConfig) seed.Source {
	if cfg.URL != "" {
		return seed.NewHTTPSource(cfg.URL)
	}
	return seed.NewDirSource(cfg.Dir)
}
