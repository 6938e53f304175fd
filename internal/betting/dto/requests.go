package dto

type PlaceBetRequest struct {
	UserID  string `json:"userId"`
	EventID string `json:"eventId"`
	OddsID  string `json:"oddsId"`
	Stake   string `json:"stake"` // decimal como string, ex: "100.00"
}

type CancelBetRequest struct {
	UserID string `json:"userId"`
}
