package handler

import (
	"net/http"
	"strconv"

	"github.com/dukerupert/questboard/internal/analytics"
)

const (
	defaultEventLimit = 50
	maxEventLimit     = 500
)

type AnalyticsHandler struct {
	tracker *analytics.StoreTracker
}

func NewAnalyticsHandler(tracker *analytics.StoreTracker) *AnalyticsHandler {
	return &AnalyticsHandler{tracker: tracker}
}

// Summary returns event totals and the most recent events. ?limit= caps the
// event list.
func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	limit := defaultEventLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxEventLimit)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"counts": h.tracker.Counts(),
		"recent": h.tracker.Recent(limit),
	})
}
