package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	catrepo "github.com/rfontanella/playbet-platform/internal/catalog/repo"
	"github.com/rfontanella/playbet-platform/internal/settlement"
	"github.com/rfontanella/playbet-platform/internal/settlement/dto"
)

// Server expõe a API administrativa de fechamento de eventos
type Server struct {
	log    *zap.Logger
	engine *settlement.Engine
}

func NewServer(log *zap.Logger, engine *settlement.Engine) *Server {
	return &Server{log: log, engine: engine}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/settlement/unsettled", s.unsettled) // GET
	mux.HandleFunc("/settlement/events/", s.eventAction) // POST /settlement/events/{id}/{settle|void|resume}
	return mux
}

// unsettled lista eventos já iniciados aguardando fechamento
func (s *Server) unsettled(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	evs, err := s.engine.Unsettled(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	out := make([]dto.UnsettledEventResponse, 0, len(evs))
	for _, e := range evs {
		out = append(out, dto.UnsettledEventResponse{
			EventID:      e.EventID,
			HomeTeam:     e.HomeTeam,
			AwayTeam:     e.AwayTeam,
			StartsAt:     e.StartsAt.Format(time.RFC3339),
			Status:       e.Status,
			PendingBets:  e.PendingBets,
			PendingStake: e.PendingStake.StringFixed(2),
		})
	}
	writeJSON(w, out)
}

// eventAction roteia POST /settlement/events/{id}/{settle|void|resume}
func (s *Server) eventAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/settlement/events/"), "/")
	if len(parts) != 2 || parts[0] == "" {
		http.Error(w, "eventId and action required", http.StatusBadRequest)
		return
	}
	eventID, action := parts[0], parts[1]

	switch action {
	case "settle":
		s.settle(w, r, eventID)
	case "void":
		s.void(w, r, eventID)
	case "resume":
		s.resume(w, r, eventID)
	default:
		http.Error(w, "unknown action", http.StatusNotFound)
	}
}

func (s *Server) settle(w http.ResponseWriter, r *http.Request, eventID string) {
	var req dto.SettleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	stats, err := s.engine.Settle(r.Context(), eventID, req.Winner)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, dto.SettleResponse{
		EventID:     eventID,
		Result:      req.Winner,
		TotalBets:   stats.TotalBets,
		WinningBets: stats.WinningBets,
		LosingBets:  stats.LosingBets,
		TotalPayout: stats.TotalPayout.StringFixed(2),
	})
}

func (s *Server) void(w http.ResponseWriter, r *http.Request, eventID string) {
	stats, err := s.engine.Void(r.Context(), eventID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, dto.VoidResponse{
		EventID:       eventID,
		TotalBets:     stats.TotalBets,
		TotalRefunded: stats.TotalRefunded.StringFixed(2),
	})
}

func (s *Server) resume(w http.ResponseWriter, r *http.Request, eventID string) {
	stats, err := s.engine.Resume(r.Context(), eventID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, dto.SettleResponse{
		EventID:     eventID,
		TotalBets:   stats.TotalBets,
		WinningBets: stats.WinningBets,
		LosingBets:  stats.LosingBets,
		TotalPayout: stats.TotalPayout.StringFixed(2),
	})
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catrepo.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, settlement.ErrInvalidWinner):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, settlement.ErrAlreadySettled), errors.Is(err, settlement.ErrEventOpen):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		s.log.Error("settlement request failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
