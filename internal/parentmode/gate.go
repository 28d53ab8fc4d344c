// Package parentmode guards the parent-only surface of the app behind a
// household PIN. It is a convenience lock for a shared family device, not an
// authentication system.
package parentmode

import (
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/dukerupert/questboard/internal/store"
)

const pinHashKey = "parent_pin_hash"

var ErrInvalidPIN = errors.New("PIN must be 4 to 8 digits")

// Settings is the subset of the settings store the gate needs.
type Settings interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

type Gate struct {
	settings Settings
	logger   *slog.Logger
	cost     int
}

func NewGate(settings Settings, logger *slog.Logger) *Gate {
	return &Gate{settings: settings, logger: logger, cost: bcrypt.DefaultCost}
}

// SetPIN replaces the parent PIN.
func (g *Gate) SetPIN(pin string) error {
	if !validPIN(pin) {
		return ErrInvalidPIN
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), g.cost)
	if err != nil {
		return fmt.Errorf("hash pin: %w", err)
	}
	if err := g.settings.Set(pinHashKey, string(hash)); err != nil {
		return fmt.Errorf("store pin: %w", err)
	}
	return nil
}

func (g *Gate) HasPIN() bool {
	hash, err := g.hash()
	return err == nil && hash != ""
}

// Verify reports whether pin matches the stored PIN. Without a stored PIN
// nothing verifies.
func (g *Gate) Verify(pin string) bool {
	hash, err := g.hash()
	if err != nil {
		if !errors.Is(err, store.ErrSettingNotFound) {
			g.logger.Error("read parent pin", "error", err)
		}
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}

func (g *Gate) ClearPIN() error {
	if err := g.settings.Delete(pinHashKey); err != nil {
		return fmt.Errorf("clear pin: %w", err)
	}
	return nil
}

func (g *Gate) hash() (string, error) {
	return g.settings.Get(pinHashKey)
}

func validPIN(pin string) bool {
	if len(pin) < 4 || len(pin) > 8 {
		return false
	}
	for _, c := range pin {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
