package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrWalletNotFound    = errors.New("wallet not found")
)

// StartingBalance é o saldo inicial de play money de toda carteira nova.
var StartingBalance = decimal.RequireFromString("10000.00")

// Postgres implementa o ledger de carteiras em banco
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// GetOrCreate retorna a carteira de um usuário, criando-a na primeira vez com
// o saldo inicial e o crédito de boas-vindas registrado no ledger.
// Usa transação para garantir atomicidade
func (p *Postgres) GetOrCreate(ctx context.Context, userID string) (*Wallet, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	w := &Wallet{UserID: userID}
	err = tx.QueryRowContext(ctx,
		`SELECT id, balance, currency, created_at, updated_at FROM wallets WHERE user_id=$1`,
		userID).Scan(&w.ID, &w.Balance, &w.Currency, &w.CreatedAt, &w.UpdatedAt)
	if err == sql.ErrNoRows {
		w.ID = uuid.NewString()
		w.Currency = "USD"
		w.Balance = StartingBalance
		if err = tx.QueryRowContext(ctx,
			`INSERT INTO wallets(id, user_id, balance, currency) VALUES($1,$2,$3,$4)
			 RETURNING created_at, updated_at`,
			w.ID, userID, StartingBalance, w.Currency).Scan(&w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, err
		}
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO wallet_transactions(id, wallet_id, type, amount, balance_after, description)
			 VALUES($1,$2,'credit',$3,$4,$5)`,
			uuid.NewString(), w.ID, StartingBalance, StartingBalance, "Starting play money"); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return w, nil
}

// ByUser retorna a carteira de um usuário sem criá-la
func (p *Postgres) ByUser(ctx context.Context, userID string) (*Wallet, error) {
	w := &Wallet{UserID: userID}
	err := p.db.QueryRowContext(ctx,
		`SELECT id, balance, currency, created_at, updated_at FROM wallets WHERE user_id=$1`,
		userID).Scan(&w.ID, &w.Balance, &w.Currency, &w.CreatedAt, &w.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrWalletNotFound
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

// Deposit credita a carteira e registra a operação no ledger em uma única
// transação de banco.
func (p *Postgres) Deposit(ctx context.Context, walletID string, amount decimal.Decimal, description string) (*Transaction, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	t, err := CreditTx(ctx, tx, walletID, amount, description)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return t, nil
}

// Withdraw debita a carteira e registra a operação no ledger em uma única
// transação de banco. Falha com ErrInsufficientFunds se o saldo não cobre.
func (p *Postgres) Withdraw(ctx context.Context, walletID string, amount decimal.Decimal, description string) (*Transaction, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	t, err := DebitTx(ctx, tx, walletID, amount, description)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return t, nil
}

// CreditTx aplica um crédito dentro de uma transação do chamador, permitindo
// que movimentação de dinheiro e mudança de estado da aposta commitem juntas.
// Garante lock pessimista na linha da carteira
func CreditTx(ctx context.Context, tx *sql.Tx, walletID string, amount decimal.Decimal, description string) (*Transaction, error) {
	return apply(ctx, tx, walletID, amount, TypeCredit, description)
}

// DebitTx aplica um débito dentro de uma transação do chamador.
func DebitTx(ctx context.Context, tx *sql.Tx, walletID string, amount decimal.Decimal, description string) (*Transaction, error) {
	return apply(ctx, tx, walletID, amount, TypeDebit, description)
}

func apply(ctx context.Context, tx *sql.Tx, walletID string, amount decimal.Decimal, opType, description string) (*Transaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	var balance decimal.Decimal
	err := tx.QueryRowContext(ctx, `SELECT balance FROM wallets WHERE id=$1 FOR UPDATE`, walletID).Scan(&balance)
	if err == sql.ErrNoRows {
		return nil, ErrWalletNotFound
	}
	if err != nil {
		return nil, err
	}

	var newBalance decimal.Decimal
	switch opType {
	case TypeCredit:
		newBalance = balance.Add(amount)
	case TypeDebit:
		if balance.LessThan(amount) {
			return nil, ErrInsufficientFunds
		}
		newBalance = balance.Sub(amount)
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE wallets SET balance=$1, updated_at=NOW() WHERE id=$2`,
		newBalance, walletID); err != nil {
		return nil, err
	}

	t := &Transaction{
		ID:           uuid.NewString(),
		WalletID:     walletID,
		Type:         opType,
		Amount:       amount,
		BalanceAfter: newBalance,
		Description:  description,
	}
	if err = tx.QueryRowContext(ctx,
		`INSERT INTO wallet_transactions(id, wallet_id, type, amount, balance_after, description)
		 VALUES($1,$2,$3,$4,$5,$6) RETURNING created_at`,
		t.ID, t.WalletID, t.Type, t.Amount, t.BalanceAfter, t.Description).Scan(&t.CreatedAt); err != nil {
		return nil, err
	}
	return t, nil
}

// Transactions retorna o extrato paginado da carteira, mais recente primeiro
func (p *Postgres) Transactions(ctx context.Context, walletID string, limit, offset int) ([]Transaction, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, wallet_id, type, amount, balance_after, description, created_at
		FROM wallet_transactions
		WHERE wallet_id=$1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, walletID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.WalletID, &t.Type, &t.Amount, &t.BalanceAfter, &t.Description, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
