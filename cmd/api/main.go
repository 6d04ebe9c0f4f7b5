package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hiremesh/jobhub/internal/auth"
	"github.com/hiremesh/jobhub/internal/cache"
	"github.com/hiremesh/jobhub/internal/config"
	"github.com/hiremesh/jobhub/internal/db"
	httpx "github.com/hiremesh/jobhub/internal/http"
	"github.com/hiremesh/jobhub/internal/http/middlewares"
	"github.com/hiremesh/jobhub/internal/observability"
	"github.com/hiremesh/jobhub/internal/queue/redisclient"
)

func main() {
	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	if cfg.TracingEnabled {
		shutdown, err := observability.InitTracer(context.Background(), "jobhub-api", cfg.OTLPEndpoint)
		if err != nil {
			log.Error("tracer init failed", "err", err)
		} else {
			defer func() {
				ctx, cancel := config.WithTimeout(5 * time.Second)
				defer cancel()
				_ = shutdown(ctx)
			}()
		}
	}

	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}

	defer pool.Close()

	// redis is optional; a nil cache store degrades to direct DB reads
	var listingCache *cache.Store

	if cfg.RedisAddr != "" {
		rdb := redisclient.New(redisclient.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		pingCtx, cancel := config.WithTimeout(2 * time.Second)
		pingErr := rdb.Ping(pingCtx)
		cancel()

		if pingErr != nil {
			log.Warn("redis unavailable, listing cache disabled", "err", pingErr)
		} else {
			defer rdb.Close()
			listingCache = cache.New(rdb.Raw(), time.Duration(cfg.JobCacheTTLSec)*time.Second)
		}
	}

	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.SessionTTL())
	authMw := middlewares.NewAuthMiddleware(jwtManager, cfg.SessionCookieName)

	router := httpx.NewRouter(httpx.Deps{
		Cfg:   cfg,
		Pool:  pool,
		Cache: listingCache,
		Auth:  authMw,
		JWT:   jwtManager,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
			return
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")
	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
