package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("bet not found")

// Postgres implementa operações de persistência de apostas
type Postgres struct{ db *sql.DB }

// NewPostgres retorna uma instância do repositório de apostas
func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// InsertTx insere uma aposta pendente dentro da transação do chamador, para
// que o débito da carteira e a criação da aposta commitem juntos
func InsertTx(ctx context.Context, tx *sql.Tx, b *Bet) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	b.Status = StatusPending
	return tx.QueryRowContext(ctx, `
		INSERT INTO bets (id, user_id, event_id, odds_id, selection, stake, odds_value, status, payout)
		VALUES ($1,$2,$3,NULLIF($4,''),NULLIF($5,''),$6,$7,'pending',$8)
		RETURNING created_at, updated_at`,
		b.ID, b.UserID, b.EventID, b.OddsID, b.Selection, b.Stake, b.OddsValue, b.Payout).
		Scan(&b.CreatedAt, &b.UpdatedAt)
}

// LockTx carrega uma aposta com lock pessimista na linha
func LockTx(ctx context.Context, tx *sql.Tx, betID string) (*Bet, error) {
	b := &Bet{}
	var oddsID, selection sql.NullString
	err := tx.QueryRowContext(ctx, `
		SELECT id, user_id, event_id, odds_id, selection, stake, odds_value, status, payout, created_at, updated_at
		FROM bets WHERE id=$1 FOR UPDATE`, betID).
		Scan(&b.ID, &b.UserID, &b.EventID, &oddsID, &selection, &b.Stake, &b.OddsValue, &b.Status, &b.Payout, &b.CreatedAt, &b.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	b.OddsID = oddsID.String
	b.Selection = selection.String
	return b, nil
}

// FinalizeTx grava o estado terminal de uma aposta dentro da transação do chamador
func FinalizeTx(ctx context.Context, tx *sql.Tx, betID, status string) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE bets SET status=$1, updated_at=NOW() WHERE id=$2`, status, betID)
	return err
}

// ByID carrega uma aposta sem lock
func (p *Postgres) ByID(ctx context.Context, betID string) (*Bet, error) {
	b := &Bet{}
	var oddsID, selection sql.NullString
	err := p.db.QueryRowContext(ctx, `
		SELECT id, user_id, event_id, odds_id, selection, stake, odds_value, status, payout, created_at, updated_at
		FROM bets WHERE id=$1`, betID).
		Scan(&b.ID, &b.UserID, &b.EventID, &oddsID, &selection, &b.Stake, &b.OddsValue, &b.Status, &b.Payout, &b.CreatedAt, &b.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	b.OddsID = oddsID.String
	b.Selection = selection.String
	return b, nil
}

// ListByUser retorna todas as apostas do usuário, mais recente primeiro
func (p *Postgres) ListByUser(ctx context.Context, userID string) ([]Bet, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, user_id, event_id, odds_id, selection, stake, odds_value, status, payout, created_at, updated_at
		FROM bets WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBets(rows)
}

// PendingIDsByEvent retorna os ids das apostas ainda pendentes de um evento.
// O settlement resolve cada uma em transação própria a partir desta lista
func (p *Postgres) PendingIDsByEvent(ctx context.Context, eventID string) ([]string, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id FROM bets WHERE event_id=$1 AND status='pending' ORDER BY created_at`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func scanBets(rows *sql.Rows) ([]Bet, error) {
	var out []Bet
	for rows.Next() {
		var b Bet
		var oddsID, selection sql.NullString
		if err := rows.Scan(&b.ID, &b.UserID, &b.EventID, &oddsID, &selection, &b.Stake, &b.OddsValue, &b.Status, &b.Payout, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		b.OddsID = oddsID.String
		b.Selection = selection.String
		out = append(out, b)
	}
	return out, rows.Err()
}
