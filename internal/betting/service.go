package betting

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
	ErrEventNotBettable    = errors.New("event not bettable")
	ErrOddsMismatch        = errors.New("odds line does not belong to event")
	ErrNotOwner            = errors.New("bet does not belong to user")
	ErrNotPending          = errors.New("bet is not pending")
	ErrEventAlreadyStarted = errors.New("event already started")
)

// Reexporta os erros de ledger que vazam pelo fluxo de aposta
var (
	ErrInvalidAmount     = walrepo.ErrInvalidAmount
	ErrInsufficientFunds = walrepo.ErrInsufficientFunds
)

// Publisher publica eventos de aposta no Kafka; nil desliga a publicação
type Publisher interface {
	PublishBetPlaced(ctx context.Context, ev events.BetPlaced) error
}

// Service orquestra colocação, cancelamento e listagem de apostas.
// Toda movimentação de dinheiro passa pelo ledger dentro da mesma transação
// de banco que muda o estado da aposta
type Service struct {
	log     *zap.Logger
	db      *sql.DB
	catalog *catrepo.Postgres
	wallets *walrepo.Postgres
	bets    *betrepo.Postgres
	clk     clock.Clock
	publ    Publisher
}

func NewService(log *zap.Logger, db *sql.DB, catalog *catrepo.Postgres, wallets *walrepo.Postgres, bets *betrepo.Postgres, clk clock.Clock, publ Publisher) *Service {
	return &Service{log: log, db: db, catalog: catalog, wallets: wallets, bets: bets, clk: clk, publ: publ}
}

// Place valida e cria uma aposta pendente. Pré-condições na ordem do contrato:
// evento apostável, linha pertence ao evento, saldo suficiente. O débito do
// stake, a linha do ledger e a criação da aposta commitam juntos
func (s *Service) Place(ctx context.Context, userID, eventID, oddsID string, stake decimal.Decimal) (*betrepo.Bet, error) {
	event, err := s.catalog.EventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.CanBet(s.clk.Now()) {
		return nil, ErrEventNotBettable
	}

	line, lineEventID, err := s.catalog.OddsLine(ctx, oddsID)
	if err != nil {
		return nil, err
	}
	if lineEventID != event.ID {
		return nil, ErrOddsMismatch
	}

	wallet, err := s.wallets.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	desc := fmt.Sprintf("Bet placed on %s vs %s", event.HomeTeam, event.AwayTeam)
	if _, err := walrepo.DebitTx(ctx, tx, wallet.ID, stake, desc); err != nil {
		return nil, err
	}

	bet := &betrepo.Bet{
		UserID:    userID,
		EventID:   event.ID,
		OddsID:    line.ID,
		Stake:     stake,
		OddsValue: line.Value,
		Payout:    Payout(stake, line.Value),
	}
	if err := betrepo.InsertTx(ctx, tx, bet); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	if s.publ != nil {
		perr := s.publ.PublishBetPlaced(ctx, events.BetPlaced{
			BetID:     bet.ID,
			UserID:    userID,
			EventID:   event.ID,
			OddsID:    line.ID,
			Stake:     stake.StringFixed(2),
			OddsValue: line.Value.StringFixed(2),
			Payout:    bet.Payout.StringFixed(2),
			TsUnixMs:  time.Now().UnixMilli(),
		})
		if perr != nil {
			s.log.Warn("publish bet_placed", zap.String("betId", bet.ID), zap.Error(perr))
		}
	}

	return bet, nil
}

// Cancel anula uma aposta pendente do próprio usuário antes do início do
// evento, devolvendo o stake. Reembolso e mudança de status commitam juntos
func (s *Service) Cancel(ctx context.Context, userID, betID string) error {
	event, bet, err := s.betWithEvent(ctx, betID)
	if err != nil {
		return err
	}
	if bet.UserID != userID {
		return ErrNotOwner
	}
	if !bet.IsPending() {
		return ErrNotPending
	}
	if event.HasStarted(s.clk.Now()) {
		return ErrEventAlreadyStarted
	}

	wallet, err := s.wallets.ByUser(ctx, userID)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// revalida sob lock; outra requisição pode ter cancelado ou liquidado
	locked, err := betrepo.LockTx(ctx, tx, betID)
	if err != nil {
		return err
	}
	if !locked.IsPending() {
		return ErrNotPending
	}

	desc := fmt.Sprintf("Bet cancelled - refund for %s vs %s", event.HomeTeam, event.AwayTeam)
	if _, err := walrepo.CreditTx(ctx, tx, wallet.ID, locked.Stake, desc); err != nil {
		return err
	}
	if err := betrepo.FinalizeTx(ctx, tx, betID, betrepo.StatusVoid); err != nil {
		return err
	}

	return tx.Commit()
}

// UserBets devolve as apostas do usuário particionadas e os agregados
type UserBets struct {
	Pending []betrepo.Bet
	Settled []betrepo.Bet // won, lost e void
	Stats   Stats
}

func (s *Service) ListForUser(ctx context.Context, userID string) (*UserBets, error) {
	bets, err := s.bets.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := &UserBets{Stats: ComputeStats(bets)}
	for _, b := range bets {
		if b.IsPending() {
			out.Pending = append(out.Pending, b)
		} else {
			out.Settled = append(out.Settled, b)
		}
	}
	return out, nil
}

// Bet carrega uma aposta pelo id
func (s *Service) Bet(ctx context.Context, betID string) (*betrepo.Bet, error) {
	return s.bets.ByID(ctx, betID)
}

// Payout calcula o retorno potencial: stake x odd, arredondado a 2 casas
func Payout(stake, oddsValue decimal.Decimal) decimal.Decimal {
	return stake.Mul(oddsValue).Round(2)
}

func (s *Service) betWithEvent(ctx context.Context, betID string) (*catrepo.Event, *betrepo.Bet, error) {
	bet, err := s.bets.ByID(ctx, betID)
	if err != nil {
		return nil, nil, err
	}
	event, err := s.catalog.EventByID(ctx, bet.EventID)
	if err != nil {
		return nil, nil, err
	}
	return event, bet, nil
}
