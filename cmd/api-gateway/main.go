package main

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"

	"go.uber.org/zap"

	"github.com/rfontanella/playbet-platform/internal/shared/config"
	"github.com/rfontanella/playbet-platform/internal/shared/logger"
)

func rp(to string) *httputil.ReverseProxy {
	u, _ := url.Parse(to)
	return httputil.NewSingleHostReverseProxy(u)
}

func target(env, def string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	return def
}

func main() {
	cfg := config.Load()
	log, _ := logger.New("api-gateway", cfg.Env)
	defer log.Sync()

	catalog := rp(target("CATALOG_URL", "http://localhost:8080"))
	wallet := rp(target("WALLET_URL", "http://localhost:8082"))
	bet := rp(target("BET_URL", "http://localhost:8083"))
	settlement := rp(target("SETTLEMENT_URL", "http://localhost:8084"))

	mux := http.NewServeMux()

	// catálogo (ex.: /api/catalog/v1/events -> catalog-service)
	mux.Handle("/api/catalog/", http.StripPrefix("/api/catalog", catalog))

	// carteira (ex.: /api/wallet/* -> wallet-service)
	mux.Handle("/api/wallet/", http.StripPrefix("/api/wallet", wallet))

	// apostas (ex.: /api/bets/* -> bet-service)
	mux.Handle("/api/bets/", http.StripPrefix("/api/bets", bet))

	// liquidação (ex.: /api/settlement/* -> settlement-service)
	mux.Handle("/api/settlement/", http.StripPrefix("/api/settlement", settlement))

	addr := ":" + cfg.HTTPPort
	log.Info("api-gateway listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, withCORS(mux)); err != nil && err != http.ErrServerClosed {
		log.Fatal("gateway failed", zap.Error(err))
	}
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.ServeHTTP(w, r)
	})
}
