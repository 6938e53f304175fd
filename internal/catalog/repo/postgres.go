package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("not found")

// Postgres implementa leitura e upsert do catálogo esporte/evento/mercado/odds
type Postgres struct{ DB *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{DB: db} }

// UpsertSport insere ou atualiza um esporte chaveado por external_key
func (p *Postgres) UpsertSport(ctx context.Context, s Sport) (string, error) {
	var id string
	err := p.DB.QueryRowContext(ctx, `
		INSERT INTO sports (id, name, slug, external_key, external_group, active)
		VALUES ($1,$2,$3,$4,$5,TRUE)
		ON CONFLICT (external_key) DO UPDATE SET
		  name           = EXCLUDED.name,
		  slug           = EXCLUDED.slug,
		  external_group = EXCLUDED.external_group,
		  active         = TRUE
		RETURNING id`,
		uuid.NewString(), s.Name, s.Slug, s.ExternalKey, s.ExternalGroup).Scan(&id)
	return id, err
}

// UpsertEvent insere ou retorna um evento chaveado por (sport, casa, fora, início).
// starts_at e status nunca são alterados por upsert do feed
func (p *Postgres) UpsertEvent(ctx context.Context, e Event) (string, error) {
	var id string
	err := p.DB.QueryRowContext(ctx, `
		INSERT INTO events (id, sport_id, home_team, away_team, starts_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (sport_id, home_team, away_team, starts_at) DO UPDATE SET
		  updated_at = NOW()
		RETURNING id`,
		uuid.NewString(), e.SportID, e.HomeTeam, e.AwayTeam, e.StartsAt).Scan(&id)
	return id, err
}

// UpsertMarket insere ou atualiza um mercado chaveado por (event_id, type)
func (p *Postgres) UpsertMarket(ctx context.Context, m Market) (string, error) {
	var id string
	err := p.DB.QueryRowContext(ctx, `
		INSERT INTO markets (id, event_id, name, type, active)
		VALUES ($1,$2,$3,$4,TRUE)
		ON CONFLICT (event_id, type) DO UPDATE SET
		  name   = EXCLUDED.name,
		  active = TRUE
		RETURNING id`,
		uuid.NewString(), m.EventID, m.Name, m.Type).Scan(&id)
	return id, err
}

// UpsertOdds insere ou atualiza uma linha de preço chaveada por (market_id, name).
// O selector é gravado na criação e preservado em atualizações seguintes, para
// que o settlement resolva por identidade e não por comparação de nomes
func (p *Postgres) UpsertOdds(ctx context.Context, o Odds) (string, error) {
	var id string
	err := p.DB.QueryRowContext(ctx, `
		INSERT INTO odds (id, market_id, name, value, selector, active)
		VALUES ($1,$2,$3,$4,$5,TRUE)
		ON CONFLICT (market_id, name) DO UPDATE SET
		  value    = EXCLUDED.value,
		  active   = TRUE,
		  selector = CASE WHEN odds.selector = '' THEN EXCLUDED.selector ELSE odds.selector END
		RETURNING id`,
		uuid.NewString(), o.MarketID, o.Name, o.Value, o.Selector).Scan(&id)
	return id, err
}

// EventByID carrega um evento
func (p *Postgres) EventByID(ctx context.Context, id string) (*Event, error) {
	e := &Event{}
	var result sql.NullString
	err := p.DB.QueryRowContext(ctx, `
		SELECT id, sport_id, home_team, away_team, starts_at, status, result
		FROM events WHERE id=$1`, id).
		Scan(&e.ID, &e.SportID, &e.HomeTeam, &e.AwayTeam, &e.StartsAt, &e.Status, &result)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	e.Result = result.String
	return e, nil
}

// OddsLine carrega uma linha de preço junto com o evento dono do mercado.
// Usado na validação de aposta (a linha precisa pertencer ao evento apostado)
func (p *Postgres) OddsLine(ctx context.Context, oddsID string) (*Odds, string, error) {
	o := &Odds{}
	var eventID string
	err := p.DB.QueryRowContext(ctx, `
		SELECT o.id, o.market_id, o.name, o.value, o.selector, o.active, m.event_id
		FROM odds o
		JOIN markets m ON m.id = o.market_id
		WHERE o.id=$1`, oddsID).
		Scan(&o.ID, &o.MarketID, &o.Name, &o.Value, &o.Selector, &o.Active, &eventID)
	if err == sql.ErrNoRows {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", err
	}
	return o, eventID, nil
}

// ListSports retorna os esportes ativos ordenados por nome
func (p *Postgres) ListSports(ctx context.Context) ([]Sport, error) {
	rows, err := p.DB.QueryContext(ctx, `
		SELECT id, name, slug, COALESCE(external_key,''), COALESCE(external_group,''), active
		FROM sports WHERE active ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Sport
	for rows.Next() {
		var s Sport
		if err := rows.Scan(&s.ID, &s.Name, &s.Slug, &s.ExternalKey, &s.ExternalGroup, &s.Active); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListUpcomingEvents retorna eventos que ainda aceitam apostas, ordenados por início
func (p *Postgres) ListUpcomingEvents(ctx context.Context, now time.Time) ([]Event, error) {
	rows, err := p.DB.QueryContext(ctx, `
		SELECT id, sport_id, home_team, away_team, starts_at, status, COALESCE(result,'')
		FROM events
		WHERE status='upcoming' AND starts_at > $1
		ORDER BY starts_at`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.SportID, &e.HomeTeam, &e.AwayTeam, &e.StartsAt, &e.Status, &e.Result); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListMarkets retorna os mercados ativos de um evento
func (p *Postgres) ListMarkets(ctx context.Context, eventID string) ([]Market, error) {
	rows, err := p.DB.QueryContext(ctx, `
		SELECT id, event_id, name, type, active
		FROM markets WHERE event_id=$1 AND active ORDER BY type`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Market
	for rows.Next() {
		var m Market
		if err := rows.Scan(&m.ID, &m.EventID, &m.Name, &m.Type, &m.Active); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// OddsByEvent retorna todas as linhas ativas de um evento, agrupáveis por mercado
func (p *Postgres) OddsByEvent(ctx context.Context, eventID string) ([]Odds, error) {
	rows, err := p.DB.QueryContext(ctx, `
		SELECT o.id, o.market_id, o.name, o.value, o.selector, o.active
		FROM odds o
		JOIN markets m ON m.id = o.market_id
		WHERE m.event_id=$1 AND o.active
		ORDER BY o.market_id, o.name`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Odds
	for rows.Next() {
		var o Odds
		if err := rows.Scan(&o.ID, &o.MarketID, &o.Name, &o.Value, &o.Selector, &o.Active); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
