package store

import (
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/multierr"
)

// MigrationFailure records a hero whose points could not be backfilled.
type MigrationFailure struct {
	HeroID string
	Err    error
}

// MigrationReport summarizes one MigrateToDualPointSystem run.
type MigrationReport struct {
	Migrated int
	Failed   []MigrationFailure
}

type legacyHero struct {
	id     string
	points sql.NullInt64
}

// MigrateToDualPointSystem backfills progression_points and reward_points from
// the legacy single points column for every hero still missing either field.
// A field that was already written, for example by a spend before the
// migration ran, is kept.
//
// Heroes that already carry both fields are not selected, so a second run is
// a no-op. A failing hero does not stop the batch: every failure is recorded
// in the report and the combined error is returned after the loop.
func (s *HeroStore) MigrateToDualPointSystem() (MigrationReport, error) {
	var report MigrationReport

	rows, err := s.db.Query(
		`SELECT id, points FROM heroes WHERE progression_points IS NULL OR reward_points IS NULL ORDER BY id`,
	)
	if err != nil {
		return report, fmt.Errorf("select unmigrated heroes: %w", err)
	}

	var pending []legacyHero
	for rows.Next() {
		var h legacyHero
		if err := rows.Scan(&h.id, &h.points); err != nil {
			rows.Close()
			return report, fmt.Errorf("scan unmigrated hero: %w", err)
		}
		pending = append(pending, h)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return report, fmt.Errorf("iterate unmigrated heroes: %w", err)
	}
	// Single connection pool: the cursor must be released before the updates.
	rows.Close()

	var errs error
	for _, h := range pending {
		points := int(h.points.Int64)
		if points < 0 {
			points = 0
		}
		if err := s.migrateHero(h.id, points); err != nil {
			s.logger.Warn("migrate hero points", "hero_id", h.id, "error", err)
			report.Failed = append(report.Failed, MigrationFailure{HeroID: h.id, Err: err})
			errs = multierr.Append(errs, fmt.Errorf("hero %s: %w", h.id, err))
			continue
		}
		report.Migrated++
	}

	if report.Migrated > 0 || len(report.Failed) > 0 {
		s.logger.Info("dual point migration finished", "migrated", report.Migrated, "failed", len(report.Failed))
	}
	return report, errs
}

func (s *HeroStore) migrateHero(id string, points int) error {
	_, err := s.db.Exec(
		`UPDATE heroes SET
			progression_points = COALESCE(progression_points, ?),
			reward_points = COALESCE(reward_points, ?),
			updated_at = ?
		 WHERE id = ? AND (progression_points IS NULL OR reward_points IS NULL)`,
		points, points, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update hero points: %w", err)
	}
	return nil
}
