package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/questboard/internal/analytics"
	"github.com/dukerupert/questboard/internal/auth"
	"github.com/dukerupert/questboard/internal/model"
	"github.com/dukerupert/questboard/internal/quest"
	"github.com/dukerupert/questboard/internal/store"
	"github.com/dukerupert/questboard/internal/websocket"
)

type QuestHandler struct {
	broadcaster
	quests  *store.QuestStore
	tracker analytics.Tracker
	logger  *slog.Logger
	now     func() time.Time
}

func NewQuestHandler(qs *store.QuestStore, hub *websocket.Hub, tracker analytics.Tracker, logger *slog.Logger) *QuestHandler {
	return &QuestHandler{broadcaster: broadcaster{hub}, quests: qs, tracker: tracker, logger: logger, now: time.Now}
}

type questRequest struct {
	Title      string            `json:"title" validate:"required,max=120"`
	Category   string            `json:"category" validate:"max=64"`
	Points     int               `json:"points" validate:"gt=0"`
	Recurrence *model.Recurrence `json:"recurrence"`
	Active     *bool             `json:"active"`
}

func (req questRequest) apply(q *model.Quest) {
	q.Title = req.Title
	q.Category = req.Category
	q.Points = req.Points
	q.Recurrence = req.Recurrence
	if req.Active != nil {
		q.Active = *req.Active
	}
}

// questView is a quest as the apps render it.
type questView struct {
	model.Quest
	Type            quest.Type   `json:"type"`
	Status          quest.Status `json:"status"`
	DueDate         *time.Time   `json:"due_date,omitempty"`
	DueToday        bool         `json:"due_today"`
	LastCompletedAt *time.Time   `json:"last_completed_at,omitempty"`
}

func (h *QuestHandler) view(q model.Quest, today time.Time) questView {
	v := questView{Quest: q, Type: quest.TypeOf(q), DueToday: quest.IsDueOn(q, today)}
	if c := h.quests.LastCompletion(q.ID); c != nil {
		at := c.CompletedAt
		v.LastCompletedAt = &at
	}
	v.Status, v.DueDate = quest.ComputeStatus(q, v.LastCompletedAt, today)
	return v
}

// List returns quests with their type and status. The child app sees active
// quests only; parent access sees all of them. ?category= filters.
func (h *QuestHandler) List(w http.ResponseWriter, r *http.Request) {
	parent := auth.IsParent(r.Context())

	var quests []model.Quest
	switch category := r.URL.Query().Get("category"); {
	case category != "":
		quests = h.quests.ListByCategory(category)
	case parent:
		quests = h.quests.List()
	default:
		quests = h.quests.ListActive()
	}

	today := h.now()
	views := make([]questView, 0, len(quests))
	for _, q := range quests {
		if !parent && !q.Active {
			continue
		}
		views = append(views, h.view(q, today))
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *QuestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req questRequest
	if !decode(w, r, &req) {
		return
	}

	q := &model.Quest{Active: true}
	req.apply(q)
	if _, err := h.quests.Create(q); err != nil {
		writeStoreError(w, h.logger, "create quest", err)
		return
	}

	h.broadcast(websocket.EntityQuest, websocket.ActionCreated, q.ID, nil)
	writeJSON(w, http.StatusCreated, h.view(*q, h.now()))
}

func (h *QuestHandler) Update(w http.ResponseWriter, r *http.Request) {
	q := h.quests.GetByID(r.PathValue("id"))
	if q == nil {
		writeError(w, http.StatusNotFound, "quest not found")
		return
	}

	var req questRequest
	if !decode(w, r, &req) {
		return
	}
	req.apply(q)

	if err := h.quests.Update(q); err != nil {
		writeStoreError(w, h.logger, "update quest", err)
		return
	}

	h.broadcast(websocket.EntityQuest, websocket.ActionUpdated, q.ID, nil)
	writeJSON(w, http.StatusOK, h.view(*q, h.now()))
}

// Toggle flips a quest between active and inactive.
func (h *QuestHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	q := h.quests.GetByID(r.PathValue("id"))
	if q == nil {
		writeError(w, http.StatusNotFound, "quest not found")
		return
	}

	if err := h.quests.SetActive(q.ID, !q.Active); err != nil {
		writeStoreError(w, h.logger, "toggle quest", err)
		return
	}
	q.Active = !q.Active

	h.broadcast(websocket.EntityQuest, websocket.ActionUpdated, q.ID, map[string]any{"active": q.Active})
	writeJSON(w, http.StatusOK, h.view(*q, h.now()))
}

func (h *QuestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if h.quests.GetByID(id) == nil {
		writeError(w, http.StatusNotFound, "quest not found")
		return
	}
	if err := h.quests.Delete(id); err != nil {
		writeStoreError(w, h.logger, "delete quest", err)
		return
	}

	h.broadcast(websocket.EntityQuest, websocket.ActionDeleted, id, nil)
	w.WriteHeader(http.StatusNoContent)
}

type completeRequest struct {
	HeroID string `json:"hero_id" validate:"required"`
}

func (h *QuestHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req completeRequest
	if !decode(w, r, &req) {
		return
	}

	questID := r.PathValue("id")
	c, err := h.quests.Complete(questID, req.HeroID)
	if err != nil {
		writeStoreError(w, h.logger, "complete quest", err)
		return
	}

	h.tracker.Track(analytics.EventQuestCompleted, map[string]any{
		"quest_id": questID,
		"hero_id":  req.HeroID,
		"points":   c.PointsEarned,
	})
	h.broadcast(websocket.EntityQuest, websocket.ActionCompleted, questID, map[string]any{"hero_id": req.HeroID})
	h.broadcast(websocket.EntityHero, websocket.ActionUpdated, req.HeroID, nil)
	writeJSON(w, http.StatusCreated, c)
}
