package dto

type BetResponse struct {
	BetID     string `json:"betId"`
	EventID   string `json:"eventId"`
	OddsID    string `json:"oddsId,omitempty"`
	Selection string `json:"selection,omitempty"`
	Stake     string `json:"stake"`
	OddsValue string `json:"odds_value"`
	Payout    string `json:"payout"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

type UserBetsResponse struct {
	Pending []BetResponse `json:"pending"`
	Settled []BetResponse `json:"settled"`
	Stats   StatsResponse `json:"stats"`
}

type StatsResponse struct {
	TotalBets    int    `json:"total_bets"`
	PendingCount int    `json:"pending_count"`
	WonCount     int    `json:"won_count"`
	LostCount    int    `json:"lost_count"`
	VoidCount    int    `json:"void_count"`
	TotalStaked  string `json:"total_staked"`
	TotalReturns string `json:"total_returns"`
	ProfitLoss   string `json:"profit_loss"`
	WinRate      string `json:"win_rate"`
	AverageStake string `json:"average_stake"`
	AverageOdds  string `json:"average_odds"`
}
