package main

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	betrepo "github.com/rfontanella/playbet-platform/internal/betting/repo"
	"github.com/rfontanella/playbet-platform/internal/settlement"
	shttp "github.com/rfontanella/playbet-platform/internal/settlement/http"
	"github.com/rfontanella/playbet-platform/internal/settlement/producer"
	"github.com/rfontanella/playbet-platform/internal/shared/clock"
	"github.com/rfontanella/playbet-platform/internal/shared/config"
	"github.com/rfontanella/playbet-platform/internal/shared/db"
	"github.com/rfontanella/playbet-platform/internal/shared/kafka"
	"github.com/rfontanella/playbet-platform/internal/shared/logger"
	walrepo "github.com/rfontanella/playbet-platform/internal/wallet/repo"
)

func main() {
	cfg := config.Load()

	log, err := logger.New("settlement-service", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("starting service", zap.String("service", "settlement-service"), zap.String("env", cfg.Env))

	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	// Kafka producers para bet_settled e event_settled
	betWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetSettled)
	defer betWriter.Close()
	eventWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicEventSettled)
	defer eventWriter.Close()
	publ := producer.NewKafkaPublisher(betWriter, eventWriter)

	// Métricas Prometheus do fechamento
	betsSettled := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_bets_settled_total",
		Help: "apostas resolvidas por status",
	}, []string{"status"})
	prometheus.MustRegister(betsSettled)

	engine := settlement.NewEngine(
		log,
		pg,
		walrepo.NewPostgres(pg),
		betrepo.NewPostgres(pg),
		clock.System{},
		publ,
	)
	engine.OnBetSettled = func(status string) { betsSettled.WithLabelValues(status).Inc() }

	api := shttp.NewServer(log, engine)

	apiSrv := &http.Server{
		Addr:    ":" + cfg.HTTPPort, // ex: 8084
		Handler: api.Router(),
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
