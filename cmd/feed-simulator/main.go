package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/rfontanella/playbet-platform/internal/shared/config"
	sharedkafka "github.com/rfontanella/playbet-platform/internal/shared/kafka"
	"github.com/rfontanella/playbet-platform/internal/shared/logger"
	"github.com/rfontanella/playbet-platform/internal/shared/metrics"
	"github.com/rfontanella/playbet-platform/pkg/contracts/events"
)

var (
	// Catálogo fixo de partidas simuladas para geração de odds
	matchCatalog = []events.CatalogUpsert{
		newMatch("Flamengo", "Palmeiras"),
		newMatch("Grêmio", "Internacional"),
		newMatch("Corinthians", "Santos"),
		newMatch("São Paulo", "Vasco"),
	}

	// Métricas Prometheus para monitoramento do volume publicado
	feedPublished = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "feed_messages_published_total",
		Help: "Total de mensagens de catálogo publicadas no Kafka",
	})
	feedErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "feed_publish_errors_total",
		Help: "Total de falhas ao publicar no Kafka",
	})
)

func newMatch(home, away string) events.CatalogUpsert {
	return events.CatalogUpsert{
		Sport: events.SportUpsert{
			ExternalKey:   "soccer_brazil_serie_a",
			ExternalGroup: "Soccer",
			Name:          "Brasileirão Série A",
			Slug:          "brasileirao-serie-a",
		},
		Event: events.EventUpsert{
			HomeTeam: home,
			AwayTeam: away,
		},
		Market: events.MarketUpsert{
			Name: "Match Winner",
			Type: "h2h",
		},
	}
}

// gera número aleatório entre min e max
func rnd(min, max float64) float64 {
	return (rand.Float64() * (max - min)) + min
}

func main() {
	cfg := config.Load()
	log, err := logger.New("feed-simulator", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	prometheus.MustRegister(feedPublished, feedErrors)

	writer := sharedkafka.NewWriter(cfg.KafkaBrokers, cfg.TopicCatalogUpserts)
	defer writer.Close()

	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return nil
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("feed simulator running",
		zap.String("topic", cfg.TopicCatalogUpserts),
		zap.String("metrics_port", cfg.MetricsPort),
	)

	// partidas simuladas começam daqui a algumas horas, ainda apostáveis
	startsAt := time.Now().UTC().Truncate(time.Hour).Add(6 * time.Hour)

	// Gera e publica odds simuladas a cada 3 segundos
	ticker := time.NewTicker(3 * time.Second)
	defer ticker.Stop()
	version := 1

	for {
		select {
		case <-ctx.Done():
			log.Info("shutdown complete")
			return
		case <-ticker.C:
			for i := range matchCatalog {
				up := matchCatalog[i]
				up.Event.StartsAt = startsAt
				up.Lines = []events.OddsUpsert{
					{Name: up.Event.HomeTeam, Value: fmt.Sprintf("%.2f", rnd(1.40, 3.50)), Selector: "home"},
					{Name: "Draw", Value: fmt.Sprintf("%.2f", rnd(2.50, 4.50)), Selector: "draw"},
					{Name: up.Event.AwayTeam, Value: fmt.Sprintf("%.2f", rnd(2.00, 5.00)), Selector: "away"},
				}
				up.UpdatedAt = time.Now().UTC()
				up.Source = "feed-simulator"
				up.Version = version

				b, _ := json.Marshal(up)
				key := up.Event.HomeTeam + "|" + up.Event.AwayTeam
				if err := sharedkafka.WriteJSON(ctx, writer, key, b); err != nil {
					feedErrors.Inc()
					log.Warn("publish failed", zap.Error(err))
					continue
				}
				feedPublished.Inc()
			}
			version++
		}
	}
}
