package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rfontanella/playbet-platform/internal/wallet/dto"
	"github.com/rfontanella/playbet-platform/internal/wallet/repo"
)

// Repo define a interface de operações de ledger usadas pelo handler HTTP
type Repo interface {
	GetOrCreate(ctx context.Context, userID string) (*repo.Wallet, error)
	Deposit(ctx context.Context, walletID string, amount decimal.Decimal, description string) (*repo.Transaction, error)
	Transactions(ctx context.Context, walletID string, limit, offset int) ([]repo.Transaction, error)
}

// Server expõe endpoints HTTP para operações de carteira (wallet)
type Server struct {
	log  *zap.Logger
	repo Repo
}

// NewServer instancia o servidor HTTP de wallet
func NewServer(log *zap.Logger, repo Repo) *Server { return &Server{log: log, repo: repo} }

// Router retorna o mux HTTP com as rotas da API de wallet
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/wallet", s.getWallet)                   // GET ?userId=...
	mux.HandleFunc("/wallet/deposit", s.deposit)             // POST
	mux.HandleFunc("/wallet/transactions", s.getStatement)   // GET ?userId=...&limit=&offset=
	return mux
}

// getWallet retorna (ou cria) a carteira e saldo do usuário
func (s *Server) getWallet(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "userId required", http.StatusBadRequest)
		return
	}
	wal, err := s.repo.GetOrCreate(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, dto.WalletResponse{
		UserID:   userID,
		WalletID: wal.ID,
		Balance:  wal.Balance.StringFixed(2),
		Currency: wal.Currency,
	})
}

// deposit adiciona play money à carteira do usuário
func (s *Server) deposit(w http.ResponseWriter, r *http.Request) {
	var req dto.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.UserID == "" || req.Amount == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		http.Error(w, "invalid amount", http.StatusBadRequest)
		return
	}

	wal, err := s.repo.GetOrCreate(r.Context(), req.UserID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	desc := req.Description
	if desc == "" {
		desc = "Play money added"
	}
	if _, err := s.repo.Deposit(r.Context(), wal.ID, amount, desc); err != nil {
		if errors.Is(err, repo.ErrInvalidAmount) {
			http.Error(w, "invalid amount", http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// relê só o saldo atualizado via GetOrCreate (carteira já existe)
	wal, err = s.repo.GetOrCreate(r.Context(), req.UserID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, dto.WalletResponse{
		UserID:   req.UserID,
		WalletID: wal.ID,
		Balance:  wal.Balance.StringFixed(2),
		Currency: wal.Currency,
	})
}

// getStatement retorna o extrato paginado, mais recente primeiro
func (s *Server) getStatement(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "userId required", http.StatusBadRequest)
		return
	}
	wal, err := s.repo.GetOrCreate(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)

	txs, err := s.repo.Transactions(r.Context(), wal.ID, limit, offset)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	out := dto.StatementResponse{WalletID: wal.ID, Transactions: []dto.TransactionResponse{}}
	for _, t := range txs {
		out.Transactions = append(out.Transactions, dto.TransactionResponse{
			ID:           t.ID,
			Type:         t.Type,
			Amount:       t.Amount.StringFixed(2),
			BalanceAfter: t.BalanceAfter.StringFixed(2),
			Description:  t.Description,
			CreatedAt:    t.CreatedAt.Format(time.RFC3339),
		})
	}
	writeJSON(w, out)
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}

// writeJSON serializa e envia resposta JSON
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
