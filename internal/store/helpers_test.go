package store

import (
	"bytes"
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/dukerupert/questboard/internal/database"
	"github.com/dukerupert/questboard/internal/model"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func bufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, nil))
}

func createTestHero(t *testing.T, hs *HeroStore, name string, rewardPoints int) *model.Hero {
	t.Helper()
	h := &model.Hero{Name: name, ProgressionPoints: rewardPoints, RewardPoints: rewardPoints}
	if _, err := hs.Create(h); err != nil {
		t.Fatalf("create hero %q: %v", name, err)
	}
	return h
}
