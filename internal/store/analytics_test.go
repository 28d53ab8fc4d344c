package store

import (
	"testing"

	"github.com/google/uuid"
)

func TestAnalyticsInsertAndRecent(t *testing.T) {
	as := NewAnalyticsStore(setupTestDB(t))

	e, err := as.Insert("quest_completed", map[string]any{"quest_id": "quest-1", "points": 3})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := uuid.Parse(e.ID); err != nil {
		t.Errorf("id %q is not a uuid: %v", e.ID, err)
	}
	if _, err := as.Insert("reward_redeemed", nil); err != nil {
		t.Fatalf("insert without props: %v", err)
	}
	if _, err := as.Insert("quest_completed", map[string]any{"quest_id": "quest-2"}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	events, err := as.Recent(2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	if events[0].Properties["quest_id"] != "quest-2" {
		t.Errorf("newest event props = %v", events[0].Properties)
	}
	if events[1].Properties == nil {
		t.Error("properties should decode to an empty map, got nil")
	}

	counts, err := as.CountByName()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if counts["quest_completed"] != 2 || counts["reward_redeemed"] != 1 {
		t.Errorf("counts = %v", counts)
	}
}
