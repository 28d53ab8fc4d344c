// Package analytics records local usage events. Tracking never fails the
// caller: errors are logged and dropped.
package analytics

import (
	"log/slog"

	"github.com/dukerupert/questboard/internal/model"
	"github.com/dukerupert/questboard/internal/store"
)

const (
	EventQuestCompleted = "quest_completed"
	EventRewardRedeemed = "reward_redeemed"
	EventParentUnlocked = "parent_unlocked"
)

type Tracker interface {
	Track(name string, props map[string]any)
}

type StoreTracker struct {
	store  *store.AnalyticsStore
	logger *slog.Logger
}

func NewStoreTracker(s *store.AnalyticsStore, logger *slog.Logger) *StoreTracker {
	return &StoreTracker{store: s, logger: logger}
}

func (t *StoreTracker) Track(name string, props map[string]any) {
	if _, err := t.store.Insert(name, props); err != nil {
		t.logger.Warn("track event", "event", name, "error", err)
	}
}

// Recent returns the newest events, or an empty slice when they cannot be
// read.
func (t *StoreTracker) Recent(limit int) []model.AnalyticsEvent {
	events, err := t.store.Recent(limit)
	if err != nil {
		t.logger.Error("recent events", "error", err)
		return []model.AnalyticsEvent{}
	}
	if events == nil {
		return []model.AnalyticsEvent{}
	}
	return events
}

// Counts returns event totals by name.
func (t *StoreTracker) Counts() map[string]int {
	counts, err := t.store.CountByName()
	if err != nil {
		t.logger.Error("count events", "error", err)
		return map[string]int{}
	}
	return counts
}

// NopTracker discards every event.
type NopTracker struct{}

func (NopTracker) Track(string, map[string]any) {}
