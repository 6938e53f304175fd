package betting

import (
	"github.com/shopspring/decimal"

	"github.com/rfontanella/playbet-platform/internal/betting/repo"
)

// Stats agrega o desempenho das apostas de um usuário
type Stats struct {
	TotalBets    int             `json:"total_bets"`
	PendingCount int             `json:"pending_count"`
	WonCount     int             `json:"won_count"`
	LostCount    int             `json:"lost_count"`
	VoidCount    int             `json:"void_count"`
	TotalStaked  decimal.Decimal `json:"total_staked"`
	TotalReturns decimal.Decimal `json:"total_returns"`
	ProfitLoss   decimal.Decimal `json:"profit_loss"`
	WinRate      decimal.Decimal `json:"win_rate"` // percentual sobre apostas decididas (won+lost)
	AverageStake decimal.Decimal `json:"average_stake"`
	AverageOdds  decimal.Decimal `json:"average_odds"`
}

// ComputeStats calcula os agregados a partir da lista completa de apostas.
// Apostas anuladas devolvem o stake, então ficam fora do prejuízo
func ComputeStats(bets []repo.Bet) Stats {
	s := Stats{
		TotalStaked:  decimal.Zero,
		TotalReturns: decimal.Zero,
		ProfitLoss:   decimal.Zero,
		WinRate:      decimal.Zero,
		AverageStake: decimal.Zero,
		AverageOdds:  decimal.Zero,
	}

	voidStaked := decimal.Zero
	oddsSum := decimal.Zero
	for _, b := range bets {
		s.TotalBets++
		s.TotalStaked = s.TotalStaked.Add(b.Stake)
		oddsSum = oddsSum.Add(b.OddsValue)

		switch b.Status {
		case repo.StatusPending:
			s.PendingCount++
		case repo.StatusWon:
			s.WonCount++
			s.TotalReturns = s.TotalReturns.Add(b.Payout)
		case repo.StatusLost:
			s.LostCount++
		case repo.StatusVoid:
			s.VoidCount++
			voidStaked = voidStaked.Add(b.Stake)
		}
	}

	s.ProfitLoss = s.TotalReturns.Sub(s.TotalStaked.Sub(voidStaked))

	settled := s.WonCount + s.LostCount
	if settled > 0 {
		s.WinRate = decimal.NewFromInt(int64(s.WonCount)).
			Div(decimal.NewFromInt(int64(settled))).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}
	if s.TotalBets > 0 {
		n := decimal.NewFromInt(int64(s.TotalBets))
		s.AverageStake = s.TotalStaked.Div(n).Round(2)
		s.AverageOdds = oddsSum.Div(n).Round(2)
	}
	return s
}
