package parentmode

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dukerupert/questboard/internal/database"
	"github.com/dukerupert/questboard/internal/store"
)

func newTestGate(t *testing.T) *Gate {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	g := NewGate(store.NewSettingsStore(db), slog.New(slog.NewTextHandler(io.Discard, nil)))
	g.cost = bcrypt.MinCost
	return g
}

func TestGateLifecycle(t *testing.T) {
	g := newTestGate(t)

	assert.False(t, g.HasPIN())
	assert.False(t, g.Verify("1234"), "nothing verifies without a PIN")

	require.NoError(t, g.SetPIN("1234"))
	assert.True(t, g.HasPIN())
	assert.True(t, g.Verify("1234"))
	assert.False(t, g.Verify("4321"))
	assert.False(t, g.Verify(""))

	require.NoError(t, g.SetPIN("87654321"))
	assert.False(t, g.Verify("1234"), "old PIN is replaced")
	assert.True(t, g.Verify("87654321"))

	require.NoError(t, g.ClearPIN())
	assert.False(t, g.HasPIN())
	assert.False(t, g.Verify("87654321"))
}

func TestGateRejectsMalformedPIN(t *testing.T) {
	g := newTestGate(t)

	for _, pin := range []string{"", "123", "123456789", "12a4", " 1234"} {
		assert.ErrorIs(t, g.SetPIN(pin), ErrInvalidPIN, "pin %q", pin)
	}
	assert.False(t, g.HasPIN())
}

type failingSettings struct{}

func (failingSettings) Get(string) (string, error) { return "", errors.New("disk on fire") }
func (failingSettings) Set(string, string) error   { return errors.New("disk on fire") }
func (failingSettings) Delete(string) error        { return errors.New("disk on fire") }

func TestGateStoreFailures(t *testing.T) {
	g := NewGate(failingSettings{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	g.cost = bcrypt.MinCost

	assert.False(t, g.Verify("1234"))
	assert.False(t, g.HasPIN())
	assert.Error(t, g.SetPIN("1234"))
	assert.Error(t, g.ClearPIN())
	assert.NotErrorIs(t, g.SetPIN("1234"), ErrInvalidPIN)
}
