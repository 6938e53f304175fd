package settlement

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	betrepo "github.com/rfontanella/playbet-platform/internal/betting/repo"
	catrepo "github.com/rfontanella/playbet-platform/internal/catalog/repo"
	"github.com/rfontanella/playbet-platform/internal/shared/clock"
	walrepo "github.com/rfontanella/playbet-platform/internal/wallet/repo"
	"github.com/rfontanella/playbet-platform/pkg/contracts/events"
)

var (
	ErrInvalidWinner  = errors.New("invalid winner")
	ErrAlreadySettled = errors.New("event already settled")
	ErrEventOpen      = errors.New("event not settled yet")
)

// Stats agrega o resultado de um fechamento
type Stats struct {
	TotalBets   int
	WinningBets int
	LosingBets  int
	TotalPayout decimal.Decimal
}

// VoidStats agrega o resultado de um cancelamento de evento
type VoidStats struct {
	TotalBets     int
	TotalRefunded decimal.Decimal
}

// UnsettledEvent é um evento já iniciado aguardando fechamento
type UnsettledEvent struct {
	EventID      string
	HomeTeam     string
	AwayTeam     string
	StartsAt     time.Time
	Status       string
	PendingBets  int
	PendingStake decimal.Decimal
}

// Publisher publica os eventos de fechamento no Kafka; nil desliga a publicação
type Publisher interface {
	PublishBetSettled(ctx context.Context, ev events.BetSettled) error
	PublishEventSettled(ctx context.Context, ev events.EventSettled) error
}

// Engine resolve todas as apostas pendentes de um evento encerrado e dirige
// os créditos pelo ledger. A transição de status do evento acontece uma única
// vez em transação própria; cada aposta é resolvida na sua, de modo que uma
// falha no meio deixa o restante pendente e recuperável via Resume
type Engine struct {
	log     *zap.Logger
	db      *sql.DB
	wallets *walrepo.Postgres
	bets    *betrepo.Postgres
	clk     clock.Clock
	publ    Publisher

	OnBetSettled func(status string) // métricas (counter++)
}

func NewEngine(log *zap.Logger, db *sql.DB, wallets *walrepo.Postgres, bets *betrepo.Postgres, clk clock.Clock, publ Publisher) *Engine {
	return &Engine{log: log, db: db, wallets: wallets, bets: bets, clk: clk, publ: publ}
}

type eventRow struct {
	ID       string
	HomeTeam string
	AwayTeam string
	Status   string
	Result   string
}

// Settle encerra um evento com o vencedor informado e resolve as apostas.
// Reinvocar em evento já encerrado falha com ErrAlreadySettled: a transição
// de status é a única decisão que não pode se repetir
func (e *Engine) Settle(ctx context.Context, eventID, winner string) (*Stats, error) {
	if !validWinner(winner) {
		return nil, ErrInvalidWinner
	}

	ev, err := e.transition(ctx, eventID, catrepo.EventCompleted, winner)
	if err != nil {
		return nil, err
	}

	stats, err := e.settlePending(ctx, ev, winner)
	if err != nil {
		return stats, err
	}

	e.publishEventSettled(ctx, ev.ID, winner, stats)
	return stats, nil
}

// Resume termina um fechamento interrompido: processa apenas apostas ainda
// pendentes de um evento já encerrado, sem repetir a transição de status
func (e *Engine) Resume(ctx context.Context, eventID string) (*Stats, error) {
	ev, err := e.loadEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	switch ev.Status {
	case catrepo.EventCompleted:
		stats, err := e.settlePending(ctx, ev, ev.Result)
		if err != nil {
			return stats, err
		}
		e.publishEventSettled(ctx, ev.ID, ev.Result, stats)
		return stats, nil
	case catrepo.EventCancelled:
		vs, err := e.refundPending(ctx, ev)
		if err != nil {
			return nil, err
		}
		return &Stats{TotalBets: vs.TotalBets}, nil
	default:
		return nil, ErrEventOpen
	}
}

// Void cancela um evento e devolve o stake de toda aposta pendente
func (e *Engine) Void(ctx context.Context, eventID string) (*VoidStats, error) {
	ev, err := e.transition(ctx, eventID, catrepo.EventCancelled, "")
	if err != nil {
		return nil, err
	}

	stats, err := e.refundPending(ctx, ev)
	if err != nil {
		return stats, err
	}

	if e.publ != nil {
		perr := e.publ.PublishEventSettled(ctx, events.EventSettled{
			EventID:     ev.ID,
			Result:      "cancelled",
			TotalBets:   stats.TotalBets,
			TotalPayout: stats.TotalRefunded.StringFixed(2),
			Ts:          time.Now(),
		})
		if perr != nil {
			e.log.Warn("publish event_settled", zap.String("eventId", ev.ID), zap.Error(perr))
		}
	}
	return stats, nil
}

// transition muda o status do evento exatamente uma vez, sob lock da linha
func (e *Engine) transition(ctx context.Context, eventID, toStatus, result string) (*eventRow, error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	ev := &eventRow{}
	var res sql.NullString
	err = tx.QueryRowContext(ctx, `
		SELECT id, home_team, away_team, status, result
		FROM events WHERE id=$1 FOR UPDATE`, eventID).
		Scan(&ev.ID, &ev.HomeTeam, &ev.AwayTeam, &ev.Status, &res)
	if err == sql.ErrNoRows {
		return nil, catrepo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if ev.Status == catrepo.EventCompleted || ev.Status == catrepo.EventCancelled {
		return nil, ErrAlreadySettled
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE events SET status=$1, result=NULLIF($2,''), updated_at=NOW() WHERE id=$3`,
		toStatus, result, eventID); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	ev.Status = toStatus
	ev.Result = result
	return ev, nil
}

// settlePending resolve cada aposta pendente em transação própria
func (e *Engine) settlePending(ctx context.Context, ev *eventRow, winner string) (*Stats, error) {
	ids, err := e.bets.PendingIDsByEvent(ctx, ev.ID)
	if err != nil {
		return nil, err
	}

	stats := &Stats{TotalPayout: decimal.Zero}
	for _, id := range ids {
		bet, won, err := e.settleOne(ctx, ev, winner, id)
		if err != nil {
			// apostas restantes seguem pendentes; Resume completa o fechamento
			return stats, fmt.Errorf("settle bet %s: %w", id, err)
		}
		if bet == nil {
			continue // resolvida por outra execução
		}

		stats.TotalBets++
		status := betrepo.StatusLost
		if won {
			stats.WinningBets++
			stats.TotalPayout = stats.TotalPayout.Add(bet.Payout)
			status = betrepo.StatusWon
		} else {
			stats.LosingBets++
		}

		if e.OnBetSettled != nil {
			e.OnBetSettled(status)
		}
		e.publishBetSettled(ctx, bet, ev.ID, status, won)
	}
	return stats, nil
}

// settleOne resolve uma aposta: lê sob lock, decide o desfecho, credita o
// prêmio e grava o estado final, tudo na mesma transação de banco.
// Apostas que já saíram de pending são puladas, tornando a reexecução segura
func (e *Engine) settleOne(ctx context.Context, ev *eventRow, winner, betID string) (*betrepo.Bet, bool, error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback()

	bet, err := betrepo.LockTx(ctx, tx, betID)
	if err != nil {
		return nil, false, err
	}
	if !bet.IsPending() {
		return nil, false, nil
	}

	var lineName, selector string
	if bet.OddsID != "" {
		if err := tx.QueryRowContext(ctx,
			`SELECT name, selector FROM odds WHERE id=$1`, bet.OddsID).
			Scan(&lineName, &selector); err != nil {
			return nil, false, err
		}
	}

	won := resolve(winner, bet.Selection, selector, lineName, ev.HomeTeam, ev.AwayTeam)
	if won {
		walletID, err := e.walletID(ctx, tx, bet.UserID)
		if err != nil {
			return nil, false, err
		}
		desc := fmt.Sprintf("Bet won - %s vs %s", ev.HomeTeam, ev.AwayTeam)
		if _, err := walrepo.CreditTx(ctx, tx, walletID, bet.Payout, desc); err != nil {
			return nil, false, err
		}
		if err := betrepo.FinalizeTx(ctx, tx, bet.ID, betrepo.StatusWon); err != nil {
			return nil, false, err
		}
	} else {
		if err := betrepo.FinalizeTx(ctx, tx, bet.ID, betrepo.StatusLost); err != nil {
			return nil, false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, false, err
	}
	return bet, won, nil
}

// refundPending devolve o stake de cada aposta pendente, uma transação por aposta
func (e *Engine) refundPending(ctx context.Context, ev *eventRow) (*VoidStats, error) {
	ids, err := e.bets.PendingIDsByEvent(ctx, ev.ID)
	if err != nil {
		return nil, err
	}

	stats := &VoidStats{TotalRefunded: decimal.Zero}
	for _, id := range ids {
		bet, err := e.voidOne(ctx, ev, id)
		if err != nil {
			return stats, fmt.Errorf("void bet %s: %w", id, err)
		}
		if bet == nil {
			continue
		}
		stats.TotalBets++
		stats.TotalRefunded = stats.TotalRefunded.Add(bet.Stake)

		if e.OnBetSettled != nil {
			e.OnBetSettled(betrepo.StatusVoid)
		}
		e.publishBetSettled(ctx, bet, ev.ID, betrepo.StatusVoid, false)
	}
	return stats, nil
}

func (e *Engine) voidOne(ctx context.Context, ev *eventRow, betID string) (*betrepo.Bet, error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	bet, err := betrepo.LockTx(ctx, tx, betID)
	if err != nil {
		return nil, err
	}
	if !bet.IsPending() {
		return nil, nil
	}

	walletID, err := e.walletID(ctx, tx, bet.UserID)
	if err != nil {
		return nil, err
	}
	desc := fmt.Sprintf("Bet refunded - %s vs %s cancelled", ev.HomeTeam, ev.AwayTeam)
	if _, err := walrepo.CreditTx(ctx, tx, walletID, bet.Stake, desc); err != nil {
		return nil, err
	}
	if err := betrepo.FinalizeTx(ctx, tx, bet.ID, betrepo.StatusVoid); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return bet, nil
}

// Unsettled lista eventos já iniciados que ainda aguardam fechamento
func (e *Engine) Unsettled(ctx context.Context) ([]UnsettledEvent, error) {
	rows, err := e.db.QueryContext(ctx, `
		SELECT ev.id, ev.home_team, ev.away_team, ev.starts_at, ev.status,
		       COUNT(b.id) FILTER (WHERE b.status = 'pending'),
		       COALESCE(SUM(b.stake) FILTER (WHERE b.status = 'pending'), 0)
		FROM events ev
		LEFT JOIN bets b ON b.event_id = ev.id
		WHERE ev.status NOT IN ('completed','cancelled') AND ev.starts_at < $1
		GROUP BY ev.id
		ORDER BY ev.starts_at DESC`, e.clk.Now())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []UnsettledEvent
	for rows.Next() {
		var u UnsettledEvent
		if err := rows.Scan(&u.EventID, &u.HomeTeam, &u.AwayTeam, &u.StartsAt, &u.Status, &u.PendingBets, &u.PendingStake); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (e *Engine) loadEvent(ctx context.Context, eventID string) (*eventRow, error) {
	ev := &eventRow{}
	var res sql.NullString
	err := e.db.QueryRowContext(ctx, `
		SELECT id, home_team, away_team, status, result FROM events WHERE id=$1`, eventID).
		Scan(&ev.ID, &ev.HomeTeam, &ev.AwayTeam, &ev.Status, &res)
	if err == sql.ErrNoRows {
		return nil, catrepo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	ev.Result = res.String
	return ev, nil
}

func (e *Engine) walletID(ctx context.Context, tx *sql.Tx, userID string) (string, error) {
	var id string
	err := tx.QueryRowContext(ctx, `SELECT id FROM wallets WHERE user_id=$1`, userID).Scan(&id)
	if err == sql.ErrNoRows {
		return "", walrepo.ErrWalletNotFound
	}
	return id, err
}

func (e *Engine) publishBetSettled(ctx context.Context, bet *betrepo.Bet, eventID, status string, won bool) {
	if e.publ == nil {
		return
	}
	ev := events.BetSettled{
		BetID:   bet.ID,
		UserID:  bet.UserID,
		EventID: eventID,
		Status:  status,
		Ts:      time.Now(),
	}
	if won {
		ev.Payout = bet.Payout.StringFixed(2)
	}
	if err := e.publ.PublishBetSettled(ctx, ev); err != nil {
		e.log.Warn("publish bet_settled", zap.String("betId", bet.ID), zap.Error(err))
	}
}

func (e *Engine) publishEventSettled(ctx context.Context, eventID, winner string, stats *Stats) {
	if e.publ == nil {
		return
	}
	err := e.publ.PublishEventSettled(ctx, events.EventSettled{
		EventID:     eventID,
		Result:      winner,
		TotalBets:   stats.TotalBets,
		WinningBets: stats.WinningBets,
		LosingBets:  stats.LosingBets,
		TotalPayout: stats.TotalPayout.StringFixed(2),
		Ts:          time.Now(),
	})
	if err != nil {
		e.log.Warn("publish event_settled", zap.String("eventId", eventID), zap.Error(err))
	}
}
