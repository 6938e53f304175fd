package events

import "time"

// Mensagem publicada no tópico "catalog_upserts" pelo coletor do feed de odds.
// Cada mensagem carrega um snapshot completo esporte -> evento -> mercado -> linhas,
// aplicado de forma idempotente pelo odds-import-worker.
type CatalogUpsert struct {
	Sport     SportUpsert  `json:"sport"`
	Event     EventUpsert  `json:"event"`
	Market    MarketUpsert `json:"market"`
	Lines     []OddsUpsert `json:"lines"`
	UpdatedAt time.Time    `json:"updated_at"`
	Source    string       `json:"source"`  // ex: "feed-simulator"
	Version   int          `json:"version"` // incrementado a cada atualização do fornecedor
}

type SportUpsert struct {
	ExternalKey   string `json:"external_key"` // chave do fornecedor, ex: "soccer_epl"
	ExternalGroup string `json:"external_group,omitempty"`
	Name          string `json:"name"`
	Slug          string `json:"slug"`
}

type EventUpsert struct {
	HomeTeam string    `json:"home_team"`
	AwayTeam string    `json:"away_team"`
	StartsAt time.Time `json:"starts_at"`
}

type MarketUpsert struct {
	Name string `json:"name"` // ex: "Match Winner"
	Type string `json:"type"` // ex: "h2h"
}

type OddsUpsert struct {
	Name     string `json:"name"`               // nome da linha no fornecedor, ex: nome do time ou "Draw"
	Value    string `json:"value"`              // decimal como string, ex: "1.85"
	Selector string `json:"selector,omitempty"` // "home" | "away" | "draw" | "" quando o fornecedor não marca
}
