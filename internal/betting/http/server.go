package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rfontanella/playbet-platform/internal/betting"
	"github.com/rfontanella/playbet-platform/internal/betting/dto"
	betrepo "github.com/rfontanella/playbet-platform/internal/betting/repo"
	catrepo "github.com/rfontanella/playbet-platform/internal/catalog/repo"
	walrepo "github.com/rfontanella/playbet-platform/internal/wallet/repo"
)

type Server struct {
	log *zap.Logger
	svc *betting.Service
}

func NewServer(log *zap.Logger, svc *betting.Service) *Server {
	return &Server{log: log, svc: svc}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/bets", s.bets)      // POST (place) | GET ?userId=...
	mux.HandleFunc("/bets/", s.betByID)  // GET /bets/{id} | POST /bets/{id}/cancel
	return mux
}

func (s *Server) bets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.placeBet(w, r)
	case http.MethodGet:
		s.listBets(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) placeBet(w http.ResponseWriter, r *http.Request) {
	var req dto.PlaceBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.UserID == "" || req.EventID == "" || req.OddsID == "" || req.Stake == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	stake, err := decimal.NewFromString(req.Stake)
	if err != nil {
		http.Error(w, "invalid stake", http.StatusBadRequest)
		return
	}

	bet, err := s.svc.Place(r.Context(), req.UserID, req.EventID, req.OddsID, stake)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, toBetResponse(bet))
}

func (s *Server) listBets(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "userId required", http.StatusBadRequest)
		return
	}
	ub, err := s.svc.ListForUser(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	out := dto.UserBetsResponse{
		Pending: []dto.BetResponse{},
		Settled: []dto.BetResponse{},
		Stats: dto.StatsResponse{
			TotalBets:    ub.Stats.TotalBets,
			PendingCount: ub.Stats.PendingCount,
			WonCount:     ub.Stats.WonCount,
			LostCount:    ub.Stats.LostCount,
			VoidCount:    ub.Stats.VoidCount,
			TotalStaked:  ub.Stats.TotalStaked.StringFixed(2),
			TotalReturns: ub.Stats.TotalReturns.StringFixed(2),
			ProfitLoss:   ub.Stats.ProfitLoss.StringFixed(2),
			WinRate:      ub.Stats.WinRate.StringFixed(2),
			AverageStake: ub.Stats.AverageStake.StringFixed(2),
			AverageOdds:  ub.Stats.AverageOdds.StringFixed(2),
		},
	}
	for i := range ub.Pending {
		out.Pending = append(out.Pending, toBetResponse(&ub.Pending[i]))
	}
	for i := range ub.Settled {
		out.Settled = append(out.Settled, toBetResponse(&ub.Settled[i]))
	}
	writeJSON(w, out)
}

// betByID atende GET /bets/{id} e POST /bets/{id}/cancel
func (s *Server) betByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/bets/")
	if rest == "" {
		http.Error(w, "betId required", http.StatusBadRequest)
		return
	}

	if r.Method == http.MethodPost && strings.HasSuffix(rest, "/cancel") {
		s.cancelBet(w, r, strings.TrimSuffix(rest, "/cancel"))
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	bet, err := s.svc.Bet(r.Context(), rest)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, toBetResponse(bet))
}

func (s *Server) cancelBet(w http.ResponseWriter, r *http.Request, betID string) {
	var req dto.CancelBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if err := s.svc.Cancel(r.Context(), req.UserID, betID); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"void"}`))
}

// writeError converte os erros de negócio em status HTTP
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, betrepo.ErrNotFound), errors.Is(err, catrepo.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, betting.ErrNotOwner):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, walrepo.ErrInvalidAmount):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, betting.ErrEventNotBettable),
		errors.Is(err, betting.ErrOddsMismatch),
		errors.Is(err, betting.ErrNotPending),
		errors.Is(err, betting.ErrEventAlreadyStarted),
		errors.Is(err, walrepo.ErrInsufficientFunds):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		s.log.Error("bet request failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toBetResponse(b *betrepo.Bet) dto.BetResponse {
	return dto.BetResponse{
		BetID:     b.ID,
		EventID:   b.EventID,
		OddsID:    b.OddsID,
		Selection: b.Selection,
		Stake:     b.Stake.StringFixed(2),
		OddsValue: b.OddsValue.StringFixed(2),
		Payout:    b.Payout.StringFixed(2),
		Status:    b.Status,
		CreatedAt: b.CreatedAt.Format(time.RFC3339),
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
