package repo

import (
	"time"

	"github.com/shopspring/decimal"
)

// Modelos de referência do catálogo. Mutados apenas pelo odds-import-worker;
// o resto da plataforma só lê.

type Sport struct {
	ID            string
	Name          string
	Slug          string
	ExternalKey   string
	ExternalGroup string
	Active        bool
}

type Event struct {
	ID       string
	SportID  string
	HomeTeam string
	AwayTeam string
	StartsAt time.Time
	Status   string // "upcoming" | "live" | "completed" | "cancelled"
	Result   string // "home" | "away" | "draw" | "" enquanto não encerrado
}

const (
	EventUpcoming  = "upcoming"
	EventLive      = "live"
	EventCompleted = "completed"
	EventCancelled = "cancelled"
)

// HasStarted informa se o evento já começou segundo o relógio injetado
func (e *Event) HasStarted(now time.Time) bool {
	return !e.StartsAt.After(now)
}

// CanBet informa se o evento ainda aceita apostas
func (e *Event) CanBet(now time.Time) bool {
	return e.Status == EventUpcoming && !e.HasStarted(now)
}

type Market struct {
	ID      string
	EventID string
	Name    string
	Type    string // ex: "h2h"
	Active  bool
}

// Odds é uma linha de preço de um mercado. Selector é atribuído uma única vez
// na importação ("home"/"away"/"draw", ou vazio para linhas que não são 1x2) e
// é a referência de identidade usada no settlement.
type Odds struct {
	ID       string
	MarketID string
	Name     string
	Value    decimal.Decimal
	Selector string
	Active   bool
}
