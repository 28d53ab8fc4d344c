package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/questboard/internal/analytics"
	"github.com/dukerupert/questboard/internal/config"
	"github.com/dukerupert/questboard/internal/handler"
	"github.com/dukerupert/questboard/internal/middleware"
	"github.com/dukerupert/questboard/internal/parentmode"
	"github.com/dukerupert/questboard/internal/store"
	ws "github.com/dukerupert/questboard/internal/websocket"
)

// parentRequestLimit caps parent-app API calls per client per minute.
const parentRequestLimit = 120

type Server struct {
	db          *sql.DB
	cfg         config.Config
	hub         *ws.Hub
	heroH       *handler.HeroHandler
	questH      *handler.QuestHandler
	rewardH     *handler.RewardHandler
	redemptionH *handler.RedemptionHandler
	parentH     *handler.ParentHandler
	analyticsH  *handler.AnalyticsHandler
	settingsH   *handler.SettingsHandler
	gate        *parentmode.Gate
	heroStore   *store.HeroStore
	rewardStore *store.RewardStore
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

func New(db *sql.DB, cfg config.Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))
	storeLogger := logger.With("component", "store")

	heroStore := store.NewHeroStore(db, storeLogger)
	questStore := store.NewQuestStore(db, storeLogger)
	rewardStore := store.NewRewardStore(db, storeLogger)
	redemptionStore := store.NewRedemptionStore(db, storeLogger)
	settingsStore := store.NewSettingsStore(db)

	tracker := analytics.NewStoreTracker(store.NewAnalyticsStore(db), logger.With("component", "analytics"))
	gate := parentmode.NewGate(settingsStore, logger.With("component", "parentmode"))

	return &Server{
		db:          db,
		cfg:         cfg,
		hub:         hub,
		heroH:       handler.NewHeroHandler(heroStore, redemptionStore, hub, logger.With("component", "hero")),
		questH:      handler.NewQuestHandler(questStore, hub, tracker, logger.With("component", "quest")),
		rewardH:     handler.NewRewardHandler(rewardStore, redemptionStore, hub, tracker, logger.With("component", "reward")),
		redemptionH: handler.NewRedemptionHandler(redemptionStore, hub, logger.With("component", "redemption")),
		parentH:     handler.NewParentHandler(gate, tracker, logger.With("component", "parent")),
		analyticsH:  handler.NewAnalyticsHandler(tracker),
		settingsH:   handler.NewSettingsHandler(settingsStore, hub, logger.With("component", "settings")),
		gate:        gate,
		heroStore:   heroStore,
		rewardStore: rewardStore,
		rateLimiter: middleware.NewRateLimiter(),
		logger:      logger,
	}
}

// HeroStore returns the hero store for startup tasks.
func (s *Server) HeroStore() *store.HeroStore {
	return s.heroStore
}

// RewardStore returns the reward store for startup tasks.
func (s *Server) RewardStore() *store.RewardStore {
	return s.rewardStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub))

	// Child app
	mux.HandleFunc("GET /api/heroes", s.heroH.List)
	mux.HandleFunc("GET /api/heroes/{id}", s.heroH.Get)
	mux.HandleFunc("GET /api/heroes/{id}/redemptions", s.heroH.Redemptions)
	mux.HandleFunc("GET /api/quests", s.questH.List)
	mux.HandleFunc("POST /api/quests/{id}/complete", s.questH.Complete)
	mux.HandleFunc("GET /api/rewards", s.rewardH.List)
	mux.HandleFunc("POST /api/rewards/{id}/redeem", s.rewardH.Redeem)
	mux.HandleFunc("GET /api/settings/theme", s.settingsH.GetTheme)

	// PIN entry, limited per client to slow guessing
	mux.HandleFunc("GET /api/parent", s.parentH.Status)
	mux.Handle("POST /api/parent/pin", s.pinLimited(s.parentH.SetPIN))
	mux.Handle("POST /api/parent/verify", s.pinLimited(s.parentH.Verify))

	// Parent app
	mux.Handle("GET /api/parent/quests", s.parent(s.questH.List))
	mux.Handle("GET /api/parent/rewards", s.parent(s.rewardH.List))
	mux.Handle("GET /api/parent/redemptions", s.parent(s.redemptionH.List))
	mux.Handle("DELETE /api/parent/pin", s.parent(s.parentH.ClearPIN))
	mux.Handle("POST /api/heroes", s.parent(s.heroH.Create))
	mux.Handle("PUT /api/heroes/{id}", s.parent(s.heroH.Update))
	mux.Handle("DELETE /api/heroes/{id}", s.parent(s.heroH.Delete))
	mux.Handle("POST /api/quests", s.parent(s.questH.Create))
	mux.Handle("PUT /api/quests/{id}", s.parent(s.questH.Update))
	mux.Handle("POST /api/quests/{id}/toggle", s.parent(s.questH.Toggle))
	mux.Handle("DELETE /api/quests/{id}", s.parent(s.questH.Delete))
	mux.Handle("POST /api/rewards", s.parent(s.rewardH.Create))
	mux.Handle("PUT /api/rewards/{id}", s.parent(s.rewardH.Update))
	mux.Handle("DELETE /api/rewards/{id}", s.parent(s.rewardH.Delete))
	mux.Handle("DELETE /api/redemptions/{id}", s.parent(s.redemptionH.Delete))
	mux.Handle("GET /api/analytics", s.parent(s.analyticsH.Summary))
	mux.Handle("PUT /api/settings/theme", s.parent(s.settingsH.UpdateTheme))

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status, code := "ok", http.StatusOK
	if err := s.db.PingContext(r.Context()); err != nil {
		s.logger.Error("health check", "error", err)
		status, code = "unavailable", http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"status": status})
}

func (s *Server) pinLimited(h http.HandlerFunc) http.Handler {
	return middleware.RateLimit(s.rateLimiter, pinKey, s.cfg.PINRateLimit, time.Minute)(h)
}

// parent rate-limits by client before checking the PIN header, so failed
// PIN guesses count against the limit too.
func (s *Server) parent(h http.HandlerFunc) http.Handler {
	guarded := middleware.RequireParent(s.gate)(h)
	return middleware.RateLimit(s.rateLimiter, parentKey, parentRequestLimit, time.Minute)(guarded)
}

func pinKey(r *http.Request) string {
	return "pin:" + middleware.RealIP(r)
}

func parentKey(r *http.Request) string {
	return "parent:" + middleware.RealIP(r)
}
