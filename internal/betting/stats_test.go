package betting

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/rfontanella/playbet-platform/internal/betting/repo"
)

func bet(status, stake, odds, payout string) repo.Bet {
	return repo.Bet{
		Status:    status,
		Stake:     decimal.RequireFromString(stake),
		OddsValue: decimal.RequireFromString(odds),
		Payout:    decimal.RequireFromString(payout),
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	s := ComputeStats(nil)
	if s.TotalBets != 0 {
		t.Errorf("TotalBets = %d, want 0", s.TotalBets)
	}
	if !s.WinRate.IsZero() || !s.ProfitLoss.IsZero() {
		t.Errorf("expected zero aggregates, got win_rate=%s profit_loss=%s", s.WinRate, s.ProfitLoss)
	}
}

func TestComputeStats(t *testing.T) {
	bets := []repo.Bet{
		bet(repo.StatusWon, "100.00", "1.85", "185.00"),
		bet(repo.StatusLost, "50.00", "2.00", "100.00"),
		bet(repo.StatusPending, "30.00", "3.00", "90.00"),
		bet(repo.StatusVoid, "20.00", "1.50", "30.00"),
	}

	s := ComputeStats(bets)

	if s.TotalBets != 4 || s.PendingCount != 1 || s.WonCount != 1 || s.LostCount != 1 || s.VoidCount != 1 {
		t.Errorf("counts = %d/%d/%d/%d/%d", s.TotalBets, s.PendingCount, s.WonCount, s.LostCount, s.VoidCount)
	}
	if want := "200"; !s.TotalStaked.Equal(decimal.RequireFromString(want)) {
		t.Errorf("TotalStaked = %s, want %s", s.TotalStaked, want)
	}
	if want := "185"; !s.TotalReturns.Equal(decimal.RequireFromString(want)) {
		t.Errorf("TotalReturns = %s, want %s", s.TotalReturns, want)
	}
	// stake anulado (20) fica fora do prejuízo: 185 - (200 - 20) = 5
	if want := "5"; !s.ProfitLoss.Equal(decimal.RequireFromString(want)) {
		t.Errorf("ProfitLoss = %s, want %s", s.ProfitLoss, want)
	}
	// 1 vitória sobre 2 decididas
	if want := "50"; !s.WinRate.Equal(decimal.RequireFromString(want)) {
		t.Errorf("WinRate = %s, want %s", s.WinRate, want)
	}
	if want := "50"; !s.AverageStake.Equal(decimal.RequireFromString(want)) {
		t.Errorf("AverageStake = %s, want %s", s.AverageStake, want)
	}
	if want := "2.09"; !s.AverageOdds.Equal(decimal.RequireFromString(want)) {
		t.Errorf("AverageOdds = %s, want %s", s.AverageOdds, want)
	}
}

func TestComputeStatsPendingExcludedFromWinRate(t *testing.T) {
	bets := []repo.Bet{
		bet(repo.StatusPending, "10.00", "2.00", "20.00"),
		bet(repo.StatusPending, "10.00", "2.00", "20.00"),
	}
	s := ComputeStats(bets)
	if !s.WinRate.IsZero() {
		t.Errorf("WinRate = %s, want 0 with no decided bets", s.WinRate)
	}
}
