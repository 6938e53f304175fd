package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
)

func TestDeposit(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT balance FROM wallets WHERE id=\\$1 FOR UPDATE").
		WithArgs("w1").
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow("10000.00"))
	mock.ExpectExec("UPDATE wallets SET balance=").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO wallet_transactions").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectCommit()

	p := NewPostgres(db)
	tr, err := p.Deposit(context.Background(), "w1", decimal.RequireFromString("250.00"), "Deposit")
	if err != nil {
		t.Fatalf("Deposit: %v", err)
	}
	if tr.Type != TypeCredit {
		t.Errorf("Type = %q, want %q", tr.Type, TypeCredit)
	}
	if want := decimal.RequireFromString("10250.00"); !tr.BalanceAfter.Equal(want) {
		t.Errorf("BalanceAfter = %s, want %s", tr.BalanceAfter, want)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestWithdrawInsufficientFunds(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT balance FROM wallets WHERE id=\\$1 FOR UPDATE").
		WithArgs("w1").
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow("50.00"))
	mock.ExpectRollback()

	p := NewPostgres(db)
	_, err = p.Withdraw(context.Background(), "w1", decimal.RequireFromString("100.00"), "Bet placed")
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestWithdrawInvalidAmount(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	p := NewPostgres(db)
	_, err = p.Withdraw(context.Background(), "w1", decimal.Zero, "x")
	if !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("err = %v, want ErrInvalidAmount", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestDepositWalletNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT balance FROM wallets WHERE id=\\$1 FOR UPDATE").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"balance"}))
	mock.ExpectRollback()

	p := NewPostgres(db)
	_, err = p.Deposit(context.Background(), "missing", decimal.RequireFromString("10.00"), "x")
	if !errors.Is(err, ErrWalletNotFound) {
		t.Fatalf("err = %v, want ErrWalletNotFound", err)
	}
}

func TestGetOrCreateNewWallet(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, balance, currency, created_at, updated_at FROM wallets").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "balance", "currency", "created_at", "updated_at"}))
	mock.ExpectQuery("INSERT INTO wallets").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectExec("INSERT INTO wallet_transactions").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	p := NewPostgres(db)
	w, err := p.GetOrCreate(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if !w.Balance.Equal(StartingBalance) {
		t.Errorf("Balance = %s, want %s", w.Balance, StartingBalance)
	}
	if w.Currency != "USD" {
		t.Errorf("Currency = %q, want USD", w.Currency)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetOrCreateExistingWallet(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, balance, currency, created_at, updated_at FROM wallets").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "balance", "currency", "created_at", "updated_at"}).
			AddRow("w1", "9900.00", "USD", now, now))
	mock.ExpectCommit()

	p := NewPostgres(db)
	w, err := p.GetOrCreate(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if want := decimal.RequireFromString("9900.00"); !w.Balance.Equal(want) {
		t.Errorf("Balance = %s, want %s", w.Balance, want)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestByUserNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT id, balance, currency, created_at, updated_at FROM wallets").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id", "balance", "currency", "created_at", "updated_at"}))

	p := NewPostgres(db)
	_, err = p.ByUser(context.Background(), "ghost")
	if !errors.Is(err, ErrWalletNotFound) {
		t.Fatalf("err = %v, want ErrWalletNotFound", err)
	}
}
