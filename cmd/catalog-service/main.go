package main

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/rfontanella/playbet-platform/internal/catalog/cache"
	chttp "github.com/rfontanella/playbet-platform/internal/catalog/http"
	"github.com/rfontanella/playbet-platform/internal/catalog/repo"
	"github.com/rfontanella/playbet-platform/internal/catalog/ws"
	sharedcache "github.com/rfontanella/playbet-platform/internal/shared/cache"
	"github.com/rfontanella/playbet-platform/internal/shared/clock"
	"github.com/rfontanella/playbet-platform/internal/shared/config"
	"github.com/rfontanella/playbet-platform/internal/shared/db"
	"github.com/rfontanella/playbet-platform/internal/shared/logger"
)

func main() {
	cfg := config.Load()

	log, err := logger.New("catalog-service", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("starting service", zap.String("service", "catalog-service"), zap.String("env", cfg.Env))

	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	redisClient, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer redisClient.Close()

	api := &chttp.API{
		Repo:  repo.NewPostgres(pg),
		Cache: cache.New(redisClient),
		Clock: clock.System{},
	}

	// Hub WebSocket alimentado pelo canal pub/sub que o import worker publica
	hub := ws.NewHub(func(r *http.Request) bool { return true })
	ws.StartRedisSubscriber(context.Background(), log, redisClient, hub)

	mux := http.NewServeMux()
	mux.Handle("/", api.Router())
	mux.HandleFunc("/ws", hub.HandleWS)

	apiSrv := &http.Server{
		Addr:    ":" + cfg.HTTPPort, // ex: 8080
		Handler: mux,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsMux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := pg.PingContext(ctx); err != nil {
			http.Error(w, "pg", http.StatusServiceUnavailable)
			return
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			http.Error(w, "redis", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	metricsSrv := &http.Server{Addr: ":" + cfg.MetricsPort, Handler: metricsMux}

	go func() {
		log.Info("metrics/health listening", zap.String("addr", metricsSrv.Addr))
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("metrics srv", zap.Error(err))
		}
	}()

	log.Info("api listening", zap.String("addr", apiSrv.Addr))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api srv", zap.Error(err))
	}
}
