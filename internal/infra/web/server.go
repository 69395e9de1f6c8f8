package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"edu-entitlement-platform/internal/usecase"
)

// RedeemGuard short-circuits a double-submitted redemption of the same code
// before it reaches storage. Optional; nil disables the early rejection.
type RedeemGuard interface {
	TryLock(ctx context.Context, code string, ttl time.Duration) (string, error)
	Unlock(ctx context.Context, code, token string) error
}

type Server struct {
	ledger  *usecase.LedgerUseCase
	notif   *usecase.NotificationUseCase
	pricing *usecase.PricingUseCase
	users   *usecase.UserUseCase
	stats   *usecase.StatsUseCase
	quiz    *usecase.QuizUseCase
	guard   RedeemGuard
	apiKey  string
	auth    *AuthManager
	log     *zerolog.Logger
}

func NewServer(
	ledger *usecase.LedgerUseCase,
	notif *usecase.NotificationUseCase,
	pricing *usecase.PricingUseCase,
	users *usecase.UserUseCase,
	stats *usecase.StatsUseCase,
	quiz *usecase.QuizUseCase,
	guard RedeemGuard,
	apiKey string,
	auth *AuthManager,
	logger *zerolog.Logger,
) *Server {
	compLog := logger.With().Str("component", "WebServer").Logger()
	return &Server{
		ledger:  ledger,
		notif:   notif,
		pricing: pricing,
		users:   users,
		stats:   stats,
		quiz:    quiz,
		guard:   guard,
		apiKey:  apiKey,
		auth:    auth,
		log:     &compLog,
	}
}

// Router builds the full route tree. Admin routes sit behind the JWT session
// middleware; student-facing routes are open.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/admin/auth/login", s.loginHandler)
		r.Post("/admin/auth/logout", s.logoutHandler)

		// Student surface
		r.Post("/requests", s.submitRequestHandler)
		r.Get("/entitlements/{userID}", s.entitlementHandler)
		r.Get("/lessons/{id}", s.lessonHandler)
		r.Post("/codes/redeem", s.redeemHandler)
		r.Post("/session/{userID}", s.sessionLoadHandler)
		r.Get("/notifications/{userID}", s.inboxHandler)
		r.Post("/notifications/{id}/read", s.markReadHandler)
		r.Delete("/notifications/{id}", s.deleteNotificationHandler)
		r.Get("/pricing", s.pricingHandler)
		r.Post("/ai/quiz", s.quizHandler)
		r.Post("/ai/chat", s.chatHandler)

		// Admin surface
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Get("/requests", s.listRequestsHandler)
			r.Post("/requests/{id}/approve", s.approveHandler)
			r.Post("/requests/{id}/reject", s.rejectHandler)
			r.Post("/codes", s.generateCodesHandler)
			r.Get("/codes", s.listCodesHandler)
			r.Delete("/codes/{code}", s.deleteCodeHandler)
			r.Get("/users", s.usersListHandler)
			r.Get("/users/{id}", s.userGetHandler)
			r.Put("/users/{id}", s.userUpdateHandler)
			r.Delete("/users/{id}", s.userDeleteHandler)
			r.Get("/stats", s.statsHandler)
		})
	})

	return r
}

// authMiddleware validates the admin JWT session minted at login. It accepts
// either a bearer token or the session cookie.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.auth == nil {
			s.log.Error().Msg("Admin auth manager is not configured")
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if _, err := s.auth.ParseFromRequest(r); err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if s.auth == nil || s.apiKey == "" || req.Key != s.apiKey {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if _, err := s.auth.Mint(w); err != nil {
		s.log.Error().Err(err).Msg("minting admin session failed")
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) logoutHandler(w http.ResponseWriter, _ *http.Request) {
	if s.auth != nil {
		s.auth.Clear(w)
	}
	w.WriteHeader(http.StatusNoContent)
}
