package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"cartera/internal/billing"
	"cartera/internal/cache"
	"cartera/internal/core"
	"cartera/internal/middleware/trace"
	"cartera/internal/services"
)

// MoneyStore is the slice of the repository backing debts, savings goals and
// challenges.
type MoneyStore interface {
	CreateDebt(ctx context.Context, debt core.Debt) (core.Debt, error)
	ListDebts(ctx context.Context) ([]core.Debt, error)
	SettleDebt(ctx context.Context, id int64) error
	DeleteDebt(ctx context.Context, id int64) error
	CreateGoal(ctx context.Context, goal core.SavingsGoal) (core.SavingsGoal, error)
	ListGoals(ctx context.Context) ([]core.SavingsGoal, error)
	AddToGoal(ctx context.Context, id int64, amount decimal.Decimal) (core.SavingsGoal, error)
	DeleteGoal(ctx context.Context, id int64) error
	CreateChallenge(ctx context.Context, ch core.Challenge) (core.Challenge, error)
	ListChallenges(ctx context.Context) ([]core.Challenge, error)
	AddToChallenge(ctx context.Context, id int64, amount decimal.Decimal) (core.Challenge, error)
	DeleteChallenge(ctx context.Context, id int64) error
}

type Server struct {
	http.Server

	cards *services.CardService
	money MoneyStore

	rateLimiter *rateLimiter

	// Statement and balance responses are cached per card and invalidated
	// whenever a transaction is recorded on that card.
	statementCache *cache.LRUCache[billing.Reconciliation]
	balancesCache  *cache.LRUCache[[]billing.BalancePoint]
	cacheManager   *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and caches, returning a ready-to-run server.
func NewServer(addr string, cards *services.CardService, money MoneyStore) *Server {
	mux := http.NewServeMux()

	s := &Server{
		cards:          cards,
		money:          money,
		rateLimiter:    newRateLimiter(),
		statementCache: cache.NewLRUCache[billing.Reconciliation](100, 5*time.Minute),
		balancesCache:  cache.NewLRUCache[[]billing.BalancePoint](100, 5*time.Minute),
		cacheManager:   cache.NewManager(),
	}
	s.cacheManager.Register(s.statementCache)
	s.cacheManager.Register(s.balancesCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("GET /api/cards", s.handleListCards)
	mux.HandleFunc("POST /api/cards", s.handleCreateCard)
	mux.HandleFunc("GET /api/cards/{id}", s.handleGetCard)
	mux.HandleFunc("PUT /api/cards/{id}", s.handleUpdateCard)
	mux.HandleFunc("DELETE /api/cards/{id}", s.handleDeleteCard)
	mux.HandleFunc("GET /api/cards/{id}/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/cards/{id}/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/cards/{id}/statement", s.handleStatement)
	mux.HandleFunc("GET /api/cards/{id}/balances", s.handleBalances)

	mux.HandleFunc("GET /api/debts", s.handleListDebts)
	mux.HandleFunc("POST /api/debts", s.handleCreateDebt)
	mux.HandleFunc("POST /api/debts/{id}/settle", s.handleSettleDebt)
	mux.HandleFunc("DELETE /api/debts/{id}", s.handleDeleteDebt)

	mux.HandleFunc("GET /api/goals", s.handleListGoals)
	mux.HandleFunc("POST /api/goals", s.handleCreateGoal)
	mux.HandleFunc("POST /api/goals/{id}/deposit", s.handleGoalDeposit)
	mux.HandleFunc("DELETE /api/goals/{id}", s.handleDeleteGoal)

	mux.HandleFunc("GET /api/challenges", s.handleListChallenges)
	mux.HandleFunc("POST /api/challenges", s.handleCreateChallenge)
	mux.HandleFunc("POST /api/challenges/{id}/deposit", s.handleChallengeDeposit)
	mux.HandleFunc("DELETE /api/challenges/{id}", s.handleDeleteChallenge)

	handler := trace.Middleware(s.withSecurityHeaders(s.withRateLimit(mux)))

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// Handler exposes the full middleware chain for tests.
func (s *Server) Handler() http.Handler {
	return s.Server.Handler
}

func (s *Server) withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.rateLimiter.allow(clientIP(r)) {
			respondError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) invalidateCard(cardID int64) {
	prefix := cardCachePrefix(cardID)
	s.statementCache.DeletePrefix(prefix)
	s.balancesCache.DeletePrefix(prefix)
}

// Shutdown stops the HTTP server and the cache and rate limiter cleanup
// goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
