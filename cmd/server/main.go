package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oggyb/vidhub/internal/app"
	"github.com/oggyb/vidhub/internal/cache"
	"github.com/oggyb/vidhub/internal/config"
	"github.com/oggyb/vidhub/internal/db"
	"github.com/oggyb/vidhub/internal/lock"
	"github.com/oggyb/vidhub/internal/logger"
	"github.com/oggyb/vidhub/internal/media"
	"github.com/oggyb/vidhub/internal/metrics"
	"github.com/oggyb/vidhub/internal/seed"
	"github.com/oggyb/vidhub/internal/server"
	"github.com/oggyb/vidhub/internal/service/content"
	"github.com/oggyb/vidhub/internal/service/engagement"
	"github.com/oggyb/vidhub/internal/service/playlist"
	"github.com/oggyb/vidhub/internal/service/views"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		os.Exit(1)
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		os.Exit(1)
	}
	defer redisCache.Close()

	remover, err := media.New(cfg)
	if err != nil {
		log.Error("failed to init media store", "err", err)
		os.Exit(1)
	}

	locker := lock.NewRedisLocker(redisCache.Client, cfg.Lock.TTL, cfg.Lock.Tries)
	appCtx := app.New(database, redisCache, locker, remover, log)

	if cfg.App.ENV == "development" {
		if _, err := seed.Run(context.Background(), appCtx, seed.DefaultOptions); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	grpcServer := server.NewGRPCServer(log,
		engagement.NewRegistrar(appCtx),
		content.NewRegistrar(appCtx),
		views.NewRegistrar(appCtx),
		playlist.NewRegistrar(appCtx),
	)

	metricsServer := &http.Server{
		Addr:              cfg.Metrics.Addr,
		Handler:           metricsMux(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("starting metrics server", "addr", cfg.Metrics.Addr)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server stopped", "err", err)
		}
	}()

	go func() {
		addr := cfg.GRPC.Host + ":" + cfg.GRPC.Port
		log.Info("starting gRPC server", "addr", addr)
		if err := server.StartGRPCServer(cfg, grpcServer); err != nil {
			log.Error("failed to start gRPC server", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	grpcServer.GracefulStop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = metricsServer.Shutdown(ctx)
}

func metricsMux() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}
