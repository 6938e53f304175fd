package dto

type SettleRequest struct {
	Winner string `json:"winner"` // "home" | "away" | "draw"
}

type SettleResponse struct {
	EventID     string `json:"eventId"`
	Result      string `json:"result"`
	TotalBets   int    `json:"total_bets"`
	WinningBets int    `json:"winning_bets"`
	LosingBets  int    `json:"losing_bets"`
	TotalPayout string `json:"total_payout"`
}

type VoidResponse struct {
	EventID       string `json:"eventId"`
	TotalBets     int    `json:"total_bets"`
	TotalRefunded string `json:"total_refunded"`
}

type UnsettledEventResponse struct {
	EventID      string `json:"eventId"`
	HomeTeam     string `json:"home_team"`
	AwayTeam     string `json:"away_team"`
	StartsAt     string `json:"starts_at"`
	Status       string `json:"status"`
	PendingBets  int    `json:"pending_bets"`
	PendingStake string `json:"pending_stake"`
}
