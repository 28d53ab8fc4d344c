package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dukerupert/questboard/internal/model"
	"github.com/google/uuid"
)

type AnalyticsStore struct {
	db *sql.DB
}

func NewAnalyticsStore(db *sql.DB) *AnalyticsStore {
	return &AnalyticsStore{db: db}
}

func (s *AnalyticsStore) Insert(name string, props map[string]any) (*model.AnalyticsEvent, error) {
	if props == nil {
		props = map[string]any{}
	}
	b, err := json.Marshal(props)
	if err != nil {
		return nil, fmt.Errorf("encode event properties: %w", err)
	}

	e := &model.AnalyticsEvent{
		ID:         uuid.NewString(),
		Name:       name,
		Properties: props,
		CreatedAt:  time.Now().UTC(),
	}
	_, err = s.db.Exec(
		`INSERT INTO analytics_events (id, name, properties, created_at) VALUES (?, ?, ?, ?)`,
		e.ID, e.Name, string(b), e.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert analytics event: %w", err)
	}
	return e, nil
}

// Recent returns up to limit events, newest first.
func (s *AnalyticsStore) Recent(limit int) ([]model.AnalyticsEvent, error) {
	rows, err := s.db.Query(
		`SELECT id, name, properties, created_at FROM analytics_events ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list analytics events: %w", err)
	}
	defer rows.Close()

	var events []model.AnalyticsEvent
	for rows.Next() {
		var e model.AnalyticsEvent
		var raw string
		if err := rows.Scan(&e.ID, &e.Name, &raw, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan analytics event: %w", err)
		}
		if err := json.Unmarshal([]byte(raw), &e.Properties); err != nil {
			return nil, fmt.Errorf("decode event properties: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// CountByName returns how many events of each name were recorded.
func (s *AnalyticsStore) CountByName() (map[string]int, error) {
	rows, err := s.db.Query(`SELECT name, COUNT(*) FROM analytics_events GROUP BY name`)
	if err != nil {
		return nil, fmt.Errorf("count analytics events: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, fmt.Errorf("scan event count: %w", err)
		}
		counts[name] = n
	}
	return counts, rows.Err()
}
