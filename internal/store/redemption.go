package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dukerupert/questboard/internal/model"
)

type RedemptionStore struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewRedemptionStore(db *sql.DB, logger *slog.Logger) *RedemptionStore {
	return &RedemptionStore{db: db, logger: logger}
}

func scanRedemption(scanner interface{ Scan(...any) error }) (*model.Redemption, error) {
	var r model.Redemption
	err := scanner.Scan(&r.ID, &r.HeroID, &r.RewardID, &r.PointsSpent, &r.Notes, &r.RedeemedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

const redemptionCols = `id, hero_id, reward_id, points_spent, notes, redeemed_at`

// Create redeems a reward for a hero and returns the redemption id.
//
// The reward lookup, the hero balance decrement and the redemption insert run
// in one transaction: either the hero is charged and the record exists, or
// neither happens. PointsSpent defaults to the reward's cost when zero.
func (s *RedemptionStore) Create(r *model.Redemption) (string, error) {
	if r.PointsSpent < 0 {
		return "", ErrInvalidAmount
	}
	r.Notes = strings.TrimSpace(r.Notes)

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	reward, err := getReward(tx, r.RewardID)
	if err != nil {
		return "", err
	}
	if reward == nil {
		return "", ErrRewardNotFound
	}
	if !reward.Active {
		return "", ErrRewardInactive
	}
	if r.PointsSpent == 0 {
		r.PointsSpent = reward.Cost
	}

	now := time.Now().UTC()
	if err := spendRewardPoints(tx, r.HeroID, r.PointsSpent, now); err != nil {
		return "", err
	}

	id := newID("redemption")
	_, err = tx.Exec(
		`INSERT INTO redemptions (id, hero_id, reward_id, points_spent, notes, redeemed_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, r.HeroID, r.RewardID, r.PointsSpent, r.Notes, now,
	)
	if err != nil {
		return "", fmt.Errorf("insert redemption: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	r.ID, r.RedeemedAt = id, now
	return id, nil
}

// GetByID returns the redemption, or nil when it does not exist or cannot be
// read.
func (s *RedemptionStore) GetByID(id string) *model.Redemption {
	row := s.db.QueryRow(`SELECT `+redemptionCols+` FROM redemptions WHERE id = ?`, id)
	r, err := scanRedemption(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		s.logger.Error("get redemption", "redemption_id", id, "error", err)
		return nil
	}
	return r
}

func (s *RedemptionStore) list(op, where string, args ...any) []model.Redemption {
	rows, err := s.db.Query(`SELECT `+redemptionCols+` FROM redemptions `+where+` ORDER BY redeemed_at DESC, id DESC`, args...)
	if err != nil {
		s.logger.Error(op, "error", err)
		return []model.Redemption{}
	}
	defer rows.Close()

	redemptions := []model.Redemption{}
	for rows.Next() {
		r, err := scanRedemption(rows)
		if err != nil {
			s.logger.Error(op, "error", err)
			return []model.Redemption{}
		}
		redemptions = append(redemptions, *r)
	}
	if err := rows.Err(); err != nil {
		s.logger.Error(op, "error", err)
		return []model.Redemption{}
	}
	return redemptions
}

// GetByHeroID returns a hero's redemptions, newest first. Failures degrade to
// an empty list.
func (s *RedemptionStore) GetByHeroID(heroID string) []model.Redemption {
	return s.list("list redemptions by hero", "WHERE hero_id = ?", heroID)
}

func (s *RedemptionStore) List() []model.Redemption {
	return s.list("list redemptions", "")
}

// Delete removes the redemption record only. The points it spent are not
// returned to the hero.
func (s *RedemptionStore) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM redemptions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete redemption: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrRedemptionNotFound
	}
	return nil
}
