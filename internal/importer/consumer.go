package importer

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rfontanella/playbet-platform/internal/catalog/cache"
	"github.com/rfontanella/playbet-platform/internal/catalog/repo"
	sharedkafka "github.com/rfontanella/playbet-platform/internal/shared/kafka"
	"github.com/rfontanella/playbet-platform/pkg/contracts/events"
)

// Broadcaster publica payloads no canal pub/sub consumido pelo hub WebSocket
type Broadcaster interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// Processor consome upserts do feed de odds, aplica no catálogo e mantém o
// cache Redis coerente. Callbacks de métricas podem ser usadas por etapa
type Processor struct {
	Log       *zap.Logger
	Reader    *kafka.Reader
	Repo      *repo.Postgres
	Cache     *cache.Cache
	DLQ       *kafka.Writer // opcional; mensagens envenenadas
	Broadcast Broadcaster   // opcional
	Channel   string        // canal pub/sub do broadcast

	OnConsumed func()       // métricas (counter++)
	OnApplied  func()       // métricas
	OnError    func(string) // métricas por fase
}

// Run inicia o loop principal de consumo e aplicação das mensagens do feed
func (p *Processor) Run(ctx context.Context) error {
	for {
		m, err := p.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err() // encerra se o contexto for cancelado
			}
			p.Log.Warn("kafka read failed", zap.Error(err))
			p.countError("read")
			time.Sleep(500 * time.Millisecond)
			continue
		}

		if p.OnConsumed != nil {
			p.OnConsumed()
		}

		var up events.CatalogUpsert
		if err := json.Unmarshal(m.Value, &up); err != nil {
			p.Log.Warn("invalid message", zap.Error(err))
			p.countError("decode")
			p.toDLQ(ctx, m)
			continue
		}

		eventID, err := p.apply(ctx, up)
		if err != nil {
			p.Log.Warn("apply upsert failed", zap.Error(err))
			p.countError("apply")
			p.toDLQ(ctx, m)
			continue
		}

		// invalida o snapshot servido pela API de catálogo
		if err := p.Cache.Invalidate(ctx, eventID); err != nil {
			p.Log.Warn("cache invalidate failed", zap.Error(err))
			p.countError("cache")
			// não bloqueia o fluxo se falhar o cache
		}

		p.broadcast(ctx, eventID, up)

		if p.OnApplied != nil {
			p.OnApplied()
		}
	}
}

// apply persiste o upsert na ordem esporte -> evento -> mercado -> linhas
func (p *Processor) apply(ctx context.Context, up events.CatalogUpsert) (string, error) {
	sportID, err := p.Repo.UpsertSport(ctx, repo.Sport{
		Name:          up.Sport.Name,
		Slug:          up.Sport.Slug,
		ExternalKey:   up.Sport.ExternalKey,
		ExternalGroup: up.Sport.ExternalGroup,
	})
	if err != nil {
		return "", err
	}

	eventID, err := p.Repo.UpsertEvent(ctx, repo.Event{
		SportID:  sportID,
		HomeTeam: up.Event.HomeTeam,
		AwayTeam: up.Event.AwayTeam,
		StartsAt: up.Event.StartsAt,
	})
	if err != nil {
		return "", err
	}

	marketID, err := p.Repo.UpsertMarket(ctx, repo.Market{
		EventID: eventID,
		Name:    up.Market.Name,
		Type:    up.Market.Type,
	})
	if err != nil {
		return "", err
	}

	for _, line := range up.Lines {
		value, err := decimal.NewFromString(line.Value)
		if err != nil {
			return "", err
		}
		_, err = p.Repo.UpsertOdds(ctx, repo.Odds{
			MarketID: marketID,
			Name:     line.Name,
			Value:    value,
			Selector: inferSelector(line, up.Event.HomeTeam, up.Event.AwayTeam),
		})
		if err != nil {
			return "", err
		}
	}
	return eventID, nil
}

// inferSelector marca a linha com o desfecho que ela representa. Preferimos a
// marcação do fornecedor; sem ela, o nome da linha é comparado com os times
// uma única vez, aqui, para que o settlement nunca dependa de nomes
func inferSelector(line events.OddsUpsert, homeTeam, awayTeam string) string {
	switch line.Selector {
	case "home", "away", "draw":
		return line.Selector
	}

	name := strings.ToLower(strings.TrimSpace(line.Name))
	switch name {
	case strings.ToLower(strings.TrimSpace(homeTeam)):
		return "home"
	case strings.ToLower(strings.TrimSpace(awayTeam)):
		return "away"
	case "draw":
		return "draw"
	}
	return "" // linha que não é 1x2 (totais, handicaps)
}

func (p *Processor) broadcast(ctx context.Context, eventID string, up events.CatalogUpsert) {
	if p.Broadcast == nil {
		return
	}
	payload, _ := json.Marshal(map[string]any{
		"eventId": eventID,
		"payload": up,
	})
	if err := p.Broadcast.Publish(ctx, p.Channel, payload); err != nil {
		p.Log.Warn("broadcast publish failed", zap.Error(err))
		p.countError("broadcast")
	}
}

func (p *Processor) toDLQ(ctx context.Context, m kafka.Message) {
	if p.DLQ == nil {
		return
	}
	if err := sharedkafka.WriteJSON(ctx, p.DLQ, string(m.Key), m.Value); err != nil {
		p.Log.Error("dlq write failed", zap.Error(err))
		p.countError("dlq")
	}
}

func (p *Processor) countError(stage string) {
	if p.OnError != nil {
		p.OnError(stage)
	}
}
