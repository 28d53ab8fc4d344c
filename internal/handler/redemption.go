package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/questboard/internal/store"
	"github.com/dukerupert/questboard/internal/websocket"
)

type RedemptionHandler struct {
	broadcaster
	redemptions *store.RedemptionStore
	logger      *slog.Logger
}

func NewRedemptionHandler(rs *store.RedemptionStore, hub *websocket.Hub, logger *slog.Logger) *RedemptionHandler {
	return &RedemptionHandler{broadcaster: broadcaster{hub}, redemptions: rs, logger: logger}
}

func (h *RedemptionHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.redemptions.List())
}

// Delete removes a redemption record. The hero is not refunded.
func (h *RedemptionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.redemptions.Delete(id); err != nil {
		writeStoreError(w, h.logger, "delete redemption", err)
		return
	}

	h.broadcast(websocket.EntityRedemption, websocket.ActionDeleted, id, nil)
	w.WriteHeader(http.StatusNoContent)
}
