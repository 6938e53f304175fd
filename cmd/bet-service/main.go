package main

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/rfontanella/playbet-platform/internal/betting"
	bhttp "github.com/rfontanella/playbet-platform/internal/betting/http"
	"github.com/rfontanella/playbet-platform/internal/betting/producer"
	betrepo "github.com/rfontanella/playbet-platform/internal/betting/repo"
	catrepo "github.com/rfontanella/playbet-platform/internal/catalog/repo"
	"github.com/rfontanella/playbet-platform/internal/shared/clock"
	"github.com/rfontanella/playbet-platform/internal/shared/config"
	"github.com/rfontanella/playbet-platform/internal/shared/db"
	"github.com/rfontanella/playbet-platform/internal/shared/kafka"
	"github.com/rfontanella/playbet-platform/internal/shared/logger"
	walrepo "github.com/rfontanella/playbet-platform/internal/wallet/repo"
)

func main() {
	cfg := config.Load()

	log, err := logger.New("bet-service", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("starting service", zap.String("service", "bet-service"), zap.String("env", cfg.Env))

	// Conexão com Postgres: apostas, carteiras e catálogo vivem no mesmo banco,
	// permitindo que débito e criação da aposta commitem na mesma transação
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	// Kafka producer: publica eventos bet_placed
	writer := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetPlaced)
	defer writer.Close()
	publ := producer.NewKafkaPublisher(writer, cfg.TopicBetPlaced)

	svc := betting.NewService(
		log,
		pg,
		catrepo.NewPostgres(pg),
		walrepo.NewPostgres(pg),
		betrepo.NewPostgres(pg),
		clock.System{},
		publ,
	)
	api := bhttp.NewServer(log, svc)

	apiSrv := &http.Server{
		Addr:    ":" + cfg.HTTPPort, // ex: 8083
		Handler: api.Router(),
	}

	// Servidor de métricas e health check
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsMux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := pg.PingContext(ctx); err != nil {
			http.Error(w, "pg", http.StatusServiceUnavailable)
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
