package events

import "time"

// Evento emitido pelo settlement-service para cada aposta resolvida.
type BetSettled struct {
	BetID   string    `json:"bet_id"`
	UserID  string    `json:"user_id"`
	EventID string    `json:"event_id"`
	Status  string    `json:"status"` // "won" | "lost" | "void"
	Payout  string    `json:"payout,omitempty"`
	Ts      time.Time `json:"ts"`
}

// Resumo publicado após o fechamento completo de um evento.
type EventSettled struct {
	EventID     string    `json:"event_id"`
	Result      string    `json:"result"` // "home" | "away" | "draw" | "cancelled"
	TotalBets   int       `json:"total_bets"`
	WinningBets int       `json:"winning_bets"`
	LosingBets  int       `json:"losing_bets"`
	TotalPayout string    `json:"total_payout"`
	Ts          time.Time `json:"ts"`
}
