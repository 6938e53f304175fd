package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rfontanella/playbet-platform/internal/catalog/cache"
	"github.com/rfontanella/playbet-platform/internal/catalog/dto"
	"github.com/rfontanella/playbet-platform/internal/catalog/repo"
	"github.com/rfontanella/playbet-platform/internal/shared/clock"
)

type API struct {
	Repo  *repo.Postgres
	Cache *cache.Cache
	Clock clock.Clock
}

func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/v1/sports", a.listSports)
	r.Get("/v1/events", a.listEvents)
	r.Get("/v1/events/{id}/markets", a.listMarkets)
	r.Get("/v1/events/{id}/odds", a.getOdds)
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *API) listSports(w http.ResponseWriter, r *http.Request) {
	sports, err := a.Repo.ListSports(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	out := make([]dto.Sport, 0, len(sports))
	for _, s := range sports {
		out = append(out, dto.Sport{ID: s.ID, Name: s.Name, Slug: s.Slug})
	}
	writeJSON(w, http.StatusOK, out)
}

// listEvents retorna apenas eventos que ainda aceitam apostas
func (a *API) listEvents(w http.ResponseWriter, r *http.Request) {
	evs, err := a.Repo.ListUpcomingEvents(r.Context(), a.Clock.Now())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	out := make([]dto.Event, 0, len(evs))
	for _, e := range evs {
		out = append(out, dto.Event{
			ID:       e.ID,
			SportID:  e.SportID,
			HomeTeam: e.HomeTeam,
			AwayTeam: e.AwayTeam,
			StartsAt: e.StartsAt.Format(time.RFC3339),
			Status:   e.Status,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) listMarkets(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	mks, err := a.Repo.ListMarkets(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	out := make([]dto.Market, 0, len(mks))
	for _, m := range mks {
		out = append(out, dto.Market{ID: m.ID, Name: m.Name, Type: m.Type})
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) getOdds(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var fromCache []dto.Odds
	if ok, _ := a.Cache.GetOdds(r.Context(), id, &fromCache); ok {
		writeJSON(w, http.StatusOK, fromCache)
		return
	}

	od, err := a.Repo.OddsByEvent(r.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	out := make([]dto.Odds, 0, len(od))
	for _, o := range od {
		out = append(out, dto.Odds{
			ID:       o.ID,
			MarketID: o.MarketID,
			Name:     o.Name,
			Value:    o.Value.StringFixed(2),
			Selector: o.Selector,
		})
	}

	_ = a.Cache.SetOdds(r.Context(), id, out, 30*time.Second)
	writeJSON(w, http.StatusOK, out)
}
