package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/questboard/internal/analytics"
	"github.com/dukerupert/questboard/internal/model"
)

type analyticsSummary struct {
	Counts map[string]int         `json:"counts"`
	Recent []model.AnalyticsEvent `json:"recent"`
}

func TestAnalyticsHandlerSummary(t *testing.T) {
	f := newFixture(t)
	h := NewAnalyticsHandler(f.tracker)
	for i := 0; i < 3; i++ {
		f.tracker.Track(analytics.EventQuestCompleted, map[string]any{"n": i})
	}

	rec := do(t, h.Summary, "GET", "/api/analytics?limit=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody[analyticsSummary](t, rec)
	assert.Equal(t, 3, body.Counts[analytics.EventQuestCompleted])
	assert.Len(t, body.Recent, 2)

	rec = do(t, h.Summary, "GET", "/api/analytics?limit=zero", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
