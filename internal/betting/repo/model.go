package repo

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bet é uma posição apostada. Depois de sair de "pending" a linha nunca mais
// muda: won, lost e void são estados terminais.
type Bet struct {
	ID        string
	UserID    string
	EventID   string
	OddsID    string // vazio em apostas legadas sem linha de preço
	Selection string // vazio quando a aposta referencia uma linha de preço
	Stake     decimal.Decimal
	OddsValue decimal.Decimal // congelado no momento da aposta
	Status    string
	Payout    decimal.Decimal // retorno potencial, calculado na criação
	CreatedAt time.Time
	UpdatedAt time.Time
}

const (
	StatusPending = "pending"
	StatusWon     = "won"
	StatusLost    = "lost"
	StatusVoid    = "void"
)

func (b *Bet) IsPending() bool { return b.Status == StatusPending }
