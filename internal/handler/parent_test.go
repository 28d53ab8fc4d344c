package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/questboard/internal/analytics"
	"github.com/dukerupert/questboard/internal/parentmode"
)

func TestParentHandlerPINFlow(t *testing.T) {
	f := newFixture(t)
	h := NewParentHandler(parentmode.NewGate(f.settings, f.logger), f.tracker, f.logger)

	rec := do(t, h.Status, "GET", "/api/parent", nil)
	assert.Equal(t, map[string]bool{"pin_set": false}, decodeBody[map[string]bool](t, rec))

	rec = do(t, h.Verify, "POST", "/api/parent/verify", map[string]string{"pin": "1234"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h.SetPIN, "POST", "/api/parent/pin", map[string]string{"pin": "12"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, h.SetPIN, "POST", "/api/parent/pin", map[string]string{"pin": "12ab"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h.SetPIN, "POST", "/api/parent/pin", map[string]string{"pin": "1234"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, h.SetPIN, "POST", "/api/parent/pin", map[string]string{"pin": "5678"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "changing the PIN needs the current one")
	rec = do(t, h.SetPIN, "POST", "/api/parent/pin", map[string]string{"pin": "5678", "current_pin": "1234"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h.Verify, "POST", "/api/parent/verify", map[string]string{"pin": "1234"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = do(t, h.Verify, "POST", "/api/parent/verify", map[string]string{"pin": "5678"})
	assert.Equal(t, http.StatusOK, rec.Code)

	counts, err := f.events.CountByName()
	require.NoError(t, err)
	assert.Equal(t, 1, counts[analytics.EventParentUnlocked])

	rec = do(t, h.ClearPIN, "DELETE", "/api/parent/pin", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, h.Status, "GET", "/api/parent", nil)
	assert.Equal(t, map[string]bool{"pin_set": false}, decodeBody[map[string]bool](t, rec))
}
