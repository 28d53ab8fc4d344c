package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/questboard/internal/analytics"
	"github.com/dukerupert/questboard/internal/auth"
	"github.com/dukerupert/questboard/internal/model"
	"github.com/dukerupert/questboard/internal/store"
	"github.com/dukerupert/questboard/internal/websocket"
)

type RewardHandler struct {
	broadcaster
	rewards     *store.RewardStore
	redemptions *store.RedemptionStore
	tracker     analytics.Tracker
	logger      *slog.Logger
}

func NewRewardHandler(rs *store.RewardStore, ds *store.RedemptionStore, hub *websocket.Hub, tracker analytics.Tracker, logger *slog.Logger) *RewardHandler {
	return &RewardHandler{broadcaster: broadcaster{hub}, rewards: rs, redemptions: ds, tracker: tracker, logger: logger}
}

type rewardRequest struct {
	Title       string `json:"title" validate:"required,max=120"`
	Description string `json:"description" validate:"max=500"`
	Cost        int    `json:"cost" validate:"gt=0"`
	Active      *bool  `json:"active"`
}

func (req rewardRequest) apply(rw *model.Reward) {
	rw.Title = req.Title
	rw.Description = req.Description
	rw.Cost = req.Cost
	if req.Active != nil {
		rw.Active = *req.Active
	}
}

// List returns active rewards, or every reward for parent access.
func (h *RewardHandler) List(w http.ResponseWriter, r *http.Request) {
	if auth.IsParent(r.Context()) {
		writeJSON(w, http.StatusOK, h.rewards.List())
		return
	}
	writeJSON(w, http.StatusOK, h.rewards.ListActive())
}

func (h *RewardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req rewardRequest
	if !decode(w, r, &req) {
		return
	}

	reward := &model.Reward{Active: true}
	req.apply(reward)
	if _, err := h.rewards.Create(reward); err != nil {
		writeStoreError(w, h.logger, "create reward", err)
		return
	}

	h.broadcast(websocket.EntityReward, websocket.ActionCreated, reward.ID, nil)
	writeJSON(w, http.StatusCreated, reward)
}

func (h *RewardHandler) Update(w http.ResponseWriter, r *http.Request) {
	reward := h.rewards.GetByID(r.PathValue("id"))
	if reward == nil {
		writeError(w, http.StatusNotFound, "reward not found")
		return
	}

	var req rewardRequest
	if !decode(w, r, &req) {
		return
	}
	req.apply(reward)

	if err := h.rewards.Update(reward); err != nil {
		writeStoreError(w, h.logger, "update reward", err)
		return
	}

	h.broadcast(websocket.EntityReward, websocket.ActionUpdated, reward.ID, nil)
	writeJSON(w, http.StatusOK, reward)
}

// Delete removes a reward and, through the schema, its redemptions. Spent
// points are not refunded.
func (h *RewardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if h.rewards.GetByID(id) == nil {
		writeError(w, http.StatusNotFound, "reward not found")
		return
	}
	if err := h.rewards.Delete(id); err != nil {
		writeStoreError(w, h.logger, "delete reward", err)
		return
	}

	h.broadcast(websocket.EntityReward, websocket.ActionDeleted, id, nil)
	w.WriteHeader(http.StatusNoContent)
}

type redeemRequest struct {
	HeroID string `json:"hero_id" validate:"required"`
	Notes  string `json:"notes" validate:"max=280"`
}

// Redeem charges the hero the reward's cost and records the redemption.
func (h *RewardHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	var req redeemRequest
	if !decode(w, r, &req) {
		return
	}

	redemption := &model.Redemption{
		HeroID:   req.HeroID,
		RewardID: r.PathValue("id"),
		Notes:    req.Notes,
	}
	if _, err := h.redemptions.Create(redemption); err != nil {
		writeStoreError(w, h.logger, "redeem reward", err)
		return
	}

	h.tracker.Track(analytics.EventRewardRedeemed, map[string]any{
		"reward_id": redemption.RewardID,
		"hero_id":   redemption.HeroID,
		"points":    redemption.PointsSpent,
	})
	h.broadcast(websocket.EntityReward, websocket.ActionRedeemed, redemption.RewardID, map[string]any{
		"redemption_id": redemption.ID,
		"hero_id":       redemption.HeroID,
	})
	h.broadcast(websocket.EntityHero, websocket.ActionUpdated, redemption.HeroID, nil)
	writeJSON(w, http.StatusCreated, redemption)
}
