package events

type BetPlaced struct {
	BetID     string `json:"bet_id"`
	UserID    string `json:"user_id"`
	EventID   string `json:"event_id"`
	OddsID    string `json:"odds_id"`
	Stake     string `json:"stake"`      // decimal como string, ex: "100.00"
	OddsValue string `json:"odds_value"` // valor congelado no momento da aposta
	Payout    string `json:"payout"`     // retorno potencial
	TsUnixMs  int64  `json:"ts_unix_ms"`
}
