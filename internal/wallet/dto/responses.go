package dto

type WalletResponse struct {
	UserID   string `json:"userId"`
	WalletID string `json:"walletId"`
	Balance  string `json:"balance"`
	Currency string `json:"currency"`
}

type TransactionResponse struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	Amount       string `json:"amount"`
	BalanceAfter string `json:"balance_after"`
	Description  string `json:"description"`
	CreatedAt    string `json:"created_at"`
}

type StatementResponse struct {
	WalletID     string                `json:"walletId"`
	Transactions []TransactionResponse `json:"transactions"`
}
