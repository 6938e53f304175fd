package repo

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet é a carteira de play money de um usuário. O saldo nunca fica
// negativo em nenhum estado commitado.
type Wallet struct {
	ID        string
	UserID    string
	Balance   decimal.Decimal
	Currency  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Transaction é uma linha imutável do ledger. BalanceAfter é calculado na
// mesma transação de banco que muta o saldo, nunca recalculado depois.
type Transaction struct {
	ID           string
	WalletID     string
	Type         string // "credit" | "debit"
	Amount       decimal.Decimal
	BalanceAfter decimal.Decimal
	Description  string
	CreatedAt    time.Time
}

const (
	TypeCredit = "credit"
	TypeDebit  = "debit"
)
