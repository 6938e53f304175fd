package dto

type DepositRequest struct {
	UserID      string `json:"userId"`
	Amount      string `json:"amount"` // decimal como string, ex: "100.00"
	Description string `json:"description,omitempty"`
}
