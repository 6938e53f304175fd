package main

import (
	"context"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/rfontanella/playbet-platform/internal/catalog/cache"
	catrepo "github.com/rfontanella/playbet-platform/internal/catalog/repo"
	"github.com/rfontanella/playbet-platform/internal/importer"
	"github.com/rfontanella/playbet-platform/internal/importer/pubsub"
	sharedcache "github.com/rfontanella/playbet-platform/internal/shared/cache"
	"github.com/rfontanella/playbet-platform/internal/shared/config"
	"github.com/rfontanella/playbet-platform/internal/shared/db"
	sharedkafka "github.com/rfontanella/playbet-platform/internal/shared/kafka"
	"github.com/rfontanella/playbet-platform/internal/shared/logger"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Inicializa dependências: Postgres e Redis
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

	// Configura o consumer Kafka (consumer group odds-import)
	brokers := strings.Split(cfg.KafkaBrokers, ",")
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  "odds-import",
		Topic:    cfg.TopicCatalogUpserts,
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	defer reader.Close()

	// DLQ para mensagens envenenadas
	var dlqWriter *kafka.Writer
	if cfg.TopicCatalogUpsertsDLQ != "" {
		dlqWriter = sharedkafka.NewWriter(cfg.KafkaBrokers, cfg.TopicCatalogUpsertsDLQ)
		defer dlqWriter.Close()
	}

	// Métricas Prometheus para monitoramento do processamento
	consumed := prometheus.NewCounter(prometheus.CounterOpts{Name: "catalog_import_messages_consumed_total", Help: "mensagens consumidas"})
	applied := prometheus.NewCounter(prometheus.CounterOpts{Name: "catalog_import_upserts_applied_total", Help: "upserts aplicados no catálogo"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "catalog_import_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(consumed, applied, errorsBy)

	// Servidor de métricas e health check
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
			defer cancel()
			if err := pg.PingContext(ctx); err != nil {
				http.Error(w, "pg", http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
		addr := ":" + cfg.MetricsPort
		log.Info("metrics/health", zap.String("addr", addr))
		_ = http.ListenAndServe(addr, mux)
	}()

	proc := &importer.Processor{
		Log:       log,
		Reader:    reader,
		Repo:      catrepo.NewPostgres(pg),
		Cache:     cache.New(redisClient),
		DLQ:       dlqWriter,
		Broadcast: pubsub.NewRedisBroadcaster(redisClient),
		Channel:   cfg.RedisPubSubChannel,

		OnConsumed: func() { consumed.Inc() },
		OnApplied:  func() { applied.Inc() },
		OnError:    func(stage string) { errorsBy.WithLabelValues(stage).Inc() },
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("odds-import-worker started", zap.String("consume", cfg.TopicCatalogUpserts))
	if err := proc.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal("processor stopped", zap.Error(err))
	}
	log.Info("shutdown complete")
}
