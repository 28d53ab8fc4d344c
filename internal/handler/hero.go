package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/questboard/internal/model"
	"github.com/dukerupert/questboard/internal/store"
	"github.com/dukerupert/questboard/internal/websocket"
)

type HeroHandler struct {
	broadcaster
	heroes      *store.HeroStore
	redemptions *store.RedemptionStore
	logger      *slog.Logger
}

func NewHeroHandler(hs *store.HeroStore, rs *store.RedemptionStore, hub *websocket.Hub, logger *slog.Logger) *HeroHandler {
	return &HeroHandler{broadcaster: broadcaster{hub}, heroes: hs, redemptions: rs, logger: logger}
}

type heroRequest struct {
	Name              string  `json:"name" validate:"required,max=64"`
	AvatarURL         *string `json:"avatar_url" validate:"omitempty,max=512"`
	ProgressionPoints *int    `json:"progression_points" validate:"omitempty,min=0"`
	RewardPoints      *int    `json:"reward_points" validate:"omitempty,min=0"`
	StreakDays        *int    `json:"streak_days" validate:"omitempty,min=0"`
}

func (req heroRequest) hero() *model.Hero {
	h := &model.Hero{Name: req.Name}
	if req.AvatarURL != nil {
		h.AvatarURL = *req.AvatarURL
	}
	if req.ProgressionPoints != nil {
		h.ProgressionPoints = *req.ProgressionPoints
	}
	if req.RewardPoints != nil {
		h.RewardPoints = *req.RewardPoints
	}
	if req.StreakDays != nil {
		h.StreakDays = *req.StreakDays
	}
	return h
}

// heroUpdateRequest is a partial edit. Omitted fields are left alone.
type heroUpdateRequest struct {
	Name              *string `json:"name" validate:"omitempty,min=1,max=64"`
	AvatarURL         *string `json:"avatar_url" validate:"omitempty,max=512"`
	ProgressionPoints *int    `json:"progression_points" validate:"omitempty,min=0"`
	RewardPoints      *int    `json:"reward_points" validate:"omitempty,min=0"`
	StreakDays        *int    `json:"streak_days" validate:"omitempty,min=0"`
}

func (req heroUpdateRequest) update() store.HeroUpdate {
	return store.HeroUpdate{
		Name:              req.Name,
		AvatarURL:         req.AvatarURL,
		ProgressionPoints: req.ProgressionPoints,
		RewardPoints:      req.RewardPoints,
		StreakDays:        req.StreakDays,
	}
}

func (h *HeroHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.heroes.List())
}

func (h *HeroHandler) Get(w http.ResponseWriter, r *http.Request) {
	hero := h.heroes.GetByID(r.PathValue("id"))
	if hero == nil {
		writeError(w, http.StatusNotFound, "hero not found")
		return
	}
	writeJSON(w, http.StatusOK, hero)
}

func (h *HeroHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req heroRequest
	if !decode(w, r, &req) {
		return
	}

	hero := req.hero()
	if _, err := h.heroes.Create(hero); err != nil {
		writeStoreError(w, h.logger, "create hero", err)
		return
	}

	h.broadcast(websocket.EntityHero, websocket.ActionCreated, hero.ID, nil)
	writeJSON(w, http.StatusCreated, hero)
}

// Update edits a hero. Omitted fields keep their stored values.
func (h *HeroHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req heroUpdateRequest
	if !decode(w, r, &req) {
		return
	}

	hero, err := h.heroes.Update(r.PathValue("id"), req.update())
	if err != nil {
		writeStoreError(w, h.logger, "update hero", err)
		return
	}

	h.broadcast(websocket.EntityHero, websocket.ActionUpdated, hero.ID, nil)
	writeJSON(w, http.StatusOK, hero)
}

func (h *HeroHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if h.heroes.GetByID(id) == nil {
		writeError(w, http.StatusNotFound, "hero not found")
		return
	}
	if err := h.heroes.Delete(id); err != nil {
		writeStoreError(w, h.logger, "delete hero", err)
		return
	}

	h.broadcast(websocket.EntityHero, websocket.ActionDeleted, id, nil)
	w.WriteHeader(http.StatusNoContent)
}

// Redemptions lists a hero's redemption history, newest first.
func (h *HeroHandler) Redemptions(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if h.heroes.GetByID(id) == nil {
		writeError(w, http.StatusNotFound, "hero not found")
		return
	}
	writeJSON(w, http.StatusOK, h.redemptions.GetByHeroID(id))
}
