package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/questboard/internal/analytics"
	"github.com/dukerupert/questboard/internal/parentmode"
)

type ParentHandler struct {
	gate    *parentmode.Gate
	tracker analytics.Tracker
	logger  *slog.Logger
}

func NewParentHandler(gate *parentmode.Gate, tracker analytics.Tracker, logger *slog.Logger) *ParentHandler {
	return &ParentHandler{gate: gate, tracker: tracker, logger: logger}
}

type setPINRequest struct {
	PIN        string `json:"pin" validate:"required,numeric,min=4,max=8"`
	CurrentPIN string `json:"current_pin"`
}

// SetPIN sets the parent PIN. Once a PIN exists, changing it requires the
// current one.
func (h *ParentHandler) SetPIN(w http.ResponseWriter, r *http.Request) {
	var req setPINRequest
	if !decode(w, r, &req) {
		return
	}
	if h.gate.HasPIN() && !h.gate.Verify(req.CurrentPIN) {
		writeError(w, http.StatusUnauthorized, "current PIN is incorrect")
		return
	}

	if err := h.gate.SetPIN(req.PIN); err != nil {
		writeStoreError(w, h.logger, "set PIN", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "pin set"})
}

// ClearPIN removes the parent PIN. Reached only through parent access.
func (h *ParentHandler) ClearPIN(w http.ResponseWriter, r *http.Request) {
	if err := h.gate.ClearPIN(); err != nil {
		writeStoreError(w, h.logger, "clear PIN", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "pin cleared"})
}

type verifyPINRequest struct {
	PIN string `json:"pin" validate:"required"`
}

func (h *ParentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyPINRequest
	if !decode(w, r, &req) {
		return
	}
	if !h.gate.HasPIN() {
		writeError(w, http.StatusConflict, "no parent PIN set")
		return
	}
	if !h.gate.Verify(req.PIN) {
		writeError(w, http.StatusUnauthorized, "incorrect PIN")
		return
	}

	h.tracker.Track(analytics.EventParentUnlocked, nil)
	writeJSON(w, http.StatusOK, map[string]string{"status": "verified"})
}

// Status reports whether a PIN has been configured.
func (h *ParentHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"pin_set": h.gate.HasPIN()})
}
