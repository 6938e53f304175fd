package betting

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	betrepo "github.com/rfontanella/playbet-platform/internal/betting/repo"
	catrepo "github.com/rfontanella/playbet-platform/internal/catalog/repo"
	"github.com/rfontanella/playbet-platform/internal/shared/clock"
	walrepo "github.com/rfontanella/playbet-platform/internal/wallet/repo"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newService(db *sql.DB) *Service {
	return NewService(zap.NewNop(), db,
		catrepo.NewPostgres(db), walrepo.NewPostgres(db), betrepo.NewPostgres(db),
		clock.Fixed{T: testNow}, nil)
}

func eventRows(status string, startsAt time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "sport_id", "home_team", "away_team", "starts_at", "status", "result"}).
		AddRow("ev1", "sp1", "Flamengo", "Palmeiras", startsAt, status, nil)
}

func TestPayout(t *testing.T) {
	cases := []struct {
		stake string
		odds  string
		want  string
	}{
		{"100.00", "1.85", "185.00"},
		{"33.33", "2.15", "71.66"}, // 71.6595 arredonda pra cima
		{"5.00", "1.125", "5.63"},  // 5.625, metade arredonda pra longe de zero
		{"1.00", "1.01", "1.01"},
	}
	for _, tc := range cases {
		got := Payout(decimal.RequireFromString(tc.stake), decimal.RequireFromString(tc.odds))
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Errorf("Payout(%s, %s) = %s, want %s", tc.stake, tc.odds, got, tc.want)
		}
	}
}

func TestPlace(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	startsAt := testNow.Add(3 * time.Hour)
	mock.ExpectQuery("FROM events WHERE id=").
		WithArgs("ev1").
		WillReturnRows(eventRows(catrepo.EventUpcoming, startsAt))
	mock.ExpectQuery("FROM odds o").
		WithArgs("o1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "market_id", "name", "value", "selector", "active", "event_id"}).
			AddRow("o1", "m1", "Flamengo", "1.85", "home", true, "ev1"))

	// GetOrCreate acha a carteira existente
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, balance, currency, created_at, updated_at FROM wallets").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "balance", "currency", "created_at", "updated_at"}).
			AddRow("w1", "10000.00", "USD", testNow, testNow))
	mock.ExpectCommit()

	// débito do stake e criação da aposta na mesma transação
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT balance FROM wallets WHERE id=\\$1 FOR UPDATE").
		WithArgs("w1").
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow("10000.00"))
	mock.ExpectExec("UPDATE wallets SET balance=").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO wallet_transactions").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(testNow))
	mock.ExpectQuery("INSERT INTO bets").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(testNow, testNow))
	mock.ExpectCommit()

	bet, err := newService(db).Place(context.Background(), "u1", "ev1", "o1", decimal.RequireFromString("100.00"))
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if bet.Status != betrepo.StatusPending {
		t.Errorf("Status = %q, want pending", bet.Status)
	}
	if want := decimal.RequireFromString("185.00"); !bet.Payout.Equal(want) {
		t.Errorf("Payout = %s, want %s", bet.Payout, want)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPlaceEventNotBettable(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	cases := []struct {
		name     string
		status   string
		startsAt time.Time
	}{
		{"already started", catrepo.EventUpcoming, testNow.Add(-time.Hour)},
		{"live", catrepo.EventLive, testNow.Add(time.Hour)},
		{"completed", catrepo.EventCompleted, testNow.Add(-time.Hour)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mock.ExpectQuery("FROM events WHERE id=").
				WithArgs("ev1").
				WillReturnRows(eventRows(tc.status, tc.startsAt))

			_, err := newService(db).Place(context.Background(), "u1", "ev1", "o1", decimal.RequireFromString("10.00"))
			if !errors.Is(err, ErrEventNotBettable) {
				t.Fatalf("err = %v, want ErrEventNotBettable", err)
			}
		})
	}
}

func TestPlaceOddsMismatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM events WHERE id=").
		WithArgs("ev1").
		WillReturnRows(eventRows(catrepo.EventUpcoming, testNow.Add(3*time.Hour)))
	// linha pertence a outro evento
	mock.ExpectQuery("FROM odds o").
		WithArgs("o9").
		WillReturnRows(sqlmock.NewRows([]string{"id", "market_id", "name", "value", "selector", "active", "event_id"}).
			AddRow("o9", "m9", "Santos", "2.10", "home", true, "ev9"))

	_, err = newService(db).Place(context.Background(), "u1", "ev1", "o9", decimal.RequireFromString("10.00"))
	if !errors.Is(err, ErrOddsMismatch) {
		t.Fatalf("err = %v, want ErrOddsMismatch", err)
	}
}

func TestPlaceInsufficientFunds(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM events WHERE id=").
		WithArgs("ev1").
		WillReturnRows(eventRows(catrepo.EventUpcoming, testNow.Add(3*time.Hour)))
	mock.ExpectQuery("FROM odds o").
		WithArgs("o1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "market_id", "name", "value", "selector", "active", "event_id"}).
			AddRow("o1", "m1", "Flamengo", "1.85", "home", true, "ev1"))

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, balance, currency, created_at, updated_at FROM wallets").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "balance", "currency", "created_at", "updated_at"}).
			AddRow("w1", "5.00", "USD", testNow, testNow))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT balance FROM wallets WHERE id=\\$1 FOR UPDATE").
		WithArgs("w1").
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow("5.00"))
	mock.ExpectRollback()

	_, err = newService(db).Place(context.Background(), "u1", "ev1", "o1", decimal.RequireFromString("100.00"))
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func pendingBetRows(userID string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "event_id", "odds_id", "selection", "stake", "odds_value", "status", "payout", "created_at", "updated_at",
	}).AddRow("b1", userID, "ev1", "o1", nil, "100.00", "1.85", betrepo.StatusPending, "185.00", testNow, testNow)
}

func TestCancel(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM bets WHERE id=").
		WithArgs("b1").
		WillReturnRows(pendingBetRows("u1"))
	mock.ExpectQuery("FROM events WHERE id=").
		WithArgs("ev1").
		WillReturnRows(eventRows(catrepo.EventUpcoming, testNow.Add(3*time.Hour)))
	mock.ExpectQuery("SELECT id, balance, currency, created_at, updated_at FROM wallets").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "balance", "currency", "created_at", "updated_at"}).
			AddRow("w1", "9900.00", "USD", testNow, testNow))

	mock.ExpectBegin()
	mock.ExpectQuery("FROM bets WHERE id=\\$1 FOR UPDATE").
		WithArgs("b1").
		WillReturnRows(pendingBetRows("u1"))
	mock.ExpectQuery("SELECT balance FROM wallets WHERE id=\\$1 FOR UPDATE").
		WithArgs("w1").
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow("9900.00"))
	mock.ExpectExec("UPDATE wallets SET balance=").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO wallet_transactions").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(testNow))
	mock.ExpectExec("UPDATE bets SET status=").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := newService(db).Cancel(context.Background(), "u1", "b1"); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCancelNotOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM bets WHERE id=").
		WithArgs("b1").
		WillReturnRows(pendingBetRows("someone-else"))
	mock.ExpectQuery("FROM events WHERE id=").
		WithArgs("ev1").
		WillReturnRows(eventRows(catrepo.EventUpcoming, testNow.Add(3*time.Hour)))

	err = newService(db).Cancel(context.Background(), "u1", "b1")
	if !errors.Is(err, ErrNotOwner) {
		t.Fatalf("err = %v, want ErrNotOwner", err)
	}
}

func TestCancelNotPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "event_id", "odds_id", "selection", "stake", "odds_value", "status", "payout", "created_at", "updated_at",
	}).AddRow("b1", "u1", "ev1", "o1", nil, "100.00", "1.85", betrepo.StatusVoid, "185.00", testNow, testNow)

	mock.ExpectQuery("FROM bets WHERE id=").
		WithArgs("b1").
		WillReturnRows(rows)
	mock.ExpectQuery("FROM events WHERE id=").
		WithArgs("ev1").
		WillReturnRows(eventRows(catrepo.EventUpcoming, testNow.Add(3*time.Hour)))

	err = newService(db).Cancel(context.Background(), "u1", "b1")
	if !errors.Is(err, ErrNotPending) {
		t.Fatalf("err = %v, want ErrNotPending", err)
	}
}

func TestCancelEventAlreadyStarted(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM bets WHERE id=").
		WithArgs("b1").
		WillReturnRows(pendingBetRows("u1"))
	mock.ExpectQuery("FROM events WHERE id=").
		WithArgs("ev1").
		WillReturnRows(eventRows(catrepo.EventLive, testNow.Add(-time.Hour)))

	err = newService(db).Cancel(context.Background(), "u1", "b1")
	if !errors.Is(err, ErrEventAlreadyStarted) {
		t.Fatalf("err = %v, want ErrEventAlreadyStarted", err)
	}
}
