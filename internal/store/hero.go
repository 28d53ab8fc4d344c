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

type HeroStore struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewHeroStore(db *sql.DB, logger *slog.Logger) *HeroStore {
	return &HeroStore{db: db, logger: logger}
}

func scanHero(scanner interface{ Scan(...any) error }) (*model.Hero, error) {
	var h model.Hero
	err := scanner.Scan(
		&h.ID, &h.Name, &h.ProgressionPoints, &h.RewardPoints, &h.StreakDays,
		&h.AvatarURL, &h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// Heroes not yet moved to the dual point system read their legacy balance
// for both fields.
const heroCols = `id, name, COALESCE(progression_points, points, 0), COALESCE(reward_points, points, 0), streak_days, avatar_url, created_at, updated_at`

func getHero(q querier, id string) (*model.Hero, error) {
	row := q.QueryRow(`SELECT `+heroCols+` FROM heroes WHERE id = ?`, id)
	h, err := scanHero(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get hero: %w", err)
	}
	return h, nil
}

func validateHero(h *model.Hero) error {
	h.Name = strings.TrimSpace(h.Name)
	if h.Name == "" {
		return ErrNameRequired
	}
	if h.ProgressionPoints < 0 || h.RewardPoints < 0 || h.StreakDays < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Create persists a hero and returns its id. A "hero-" id is generated when
// h.ID is empty.
func (s *HeroStore) Create(h *model.Hero) (string, error) {
	if err := validateHero(h); err != nil {
		return "", err
	}
	if h.ID == "" {
		h.ID = newID("hero")
	}
	now := time.Now().UTC()

	_, err := s.db.Exec(
		`INSERT INTO heroes (id, name, progression_points, reward_points, streak_days, avatar_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		h.ID, h.Name, h.ProgressionPoints, h.RewardPoints, h.StreakDays, h.AvatarURL, now, now,
	)
	if err != nil {
		return "", fmt.Errorf("insert hero: %w", err)
	}
	h.CreatedAt, h.UpdatedAt = now, now
	return h.ID, nil
}

// GetByID returns the hero, or nil when it does not exist or cannot be read.
func (s *HeroStore) GetByID(id string) *model.Hero {
	h, err := getHero(s.db, id)
	if err != nil {
		s.logger.Error("get hero", "hero_id", id, "error", err)
		return nil
	}
	return h
}

// List returns all heroes in creation order.
func (s *HeroStore) List() []model.Hero {
	rows, err := s.db.Query(`SELECT ` + heroCols + ` FROM heroes ORDER BY created_at ASC, name ASC`)
	if err != nil {
		s.logger.Error("list heroes", "error", err)
		return []model.Hero{}
	}
	defer rows.Close()

	heroes := []model.Hero{}
	for rows.Next() {
		h, err := scanHero(rows)
		if err != nil {
			s.logger.Error("scan hero", "error", err)
			return []model.Hero{}
		}
		heroes = append(heroes, *h)
	}
	if err := rows.Err(); err != nil {
		s.logger.Error("iterate heroes", "error", err)
		return []model.Hero{}
	}
	return heroes
}

// HeroUpdate is an edit to a hero. Nil fields keep their stored values, so
// an edit never writes back a balance it did not mean to change.
type HeroUpdate struct {
	Name              *string
	AvatarURL         *string
	ProgressionPoints *int
	RewardPoints      *int
	StreakDays        *int
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func validateHeroUpdate(u *HeroUpdate) error {
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if name == "" {
			return ErrNameRequired
		}
		u.Name = &name
	}
	for _, p := range []*int{u.ProgressionPoints, u.RewardPoints, u.StreakDays} {
		if p != nil && *p < 0 {
			return ErrInvalidAmount
		}
	}
	return nil
}

// Update applies the non-nil fields of u in a single statement and returns
// the stored hero. Point fields set here are the admin path for correcting
// balances; concurrent redemptions and completions on untouched fields are
// preserved.
func (s *HeroStore) Update(id string, u HeroUpdate) (*model.Hero, error) {
	if err := validateHeroUpdate(&u); err != nil {
		return nil, err
	}
	now := time.Now().UTC()

	res, err := s.db.Exec(
		`UPDATE heroes SET
			name = COALESCE(?, name),
			avatar_url = COALESCE(?, avatar_url),
			progression_points = COALESCE(?, progression_points),
			reward_points = COALESCE(?, reward_points),
			streak_days = COALESCE(?, streak_days),
			updated_at = ?
		 WHERE id = ?`,
		nullString(u.Name), nullString(u.AvatarURL),
		nullInt(u.ProgressionPoints), nullInt(u.RewardPoints), nullInt(u.StreakDays),
		now, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update hero: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return nil, ErrHeroNotFound
	}

	h, err := getHero(s.db, id)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, ErrHeroNotFound
	}
	return h, nil
}

func (s *HeroStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM heroes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete hero: %w", err)
	}
	return nil
}

// AwardPoints adds points to both the lifetime and the spendable balance.
func (s *HeroStore) AwardPoints(heroID string, points int) error {
	return awardPoints(s.db, heroID, points, -1, time.Now().UTC())
}

// awardPoints credits both point fields, starting from the legacy balance for
// a hero the dual point migration has not reached. A negative streak leaves
// streak_days untouched.
func awardPoints(q querier, heroID string, points, streak int, now time.Time) error {
	if points <= 0 {
		return ErrInvalidAmount
	}

	res, err := q.Exec(
		`UPDATE heroes SET
			progression_points = COALESCE(progression_points, points, 0) + ?,
			reward_points = COALESCE(reward_points, points, 0) + ?,
			streak_days = CASE WHEN ? >= 0 THEN ? ELSE streak_days END,
			updated_at = ?
		 WHERE id = ?`,
		points, points, streak, streak, now, heroID,
	)
	if err != nil {
		return fmt.Errorf("award points: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrHeroNotFound
	}
	return nil
}

// SpendRewardPoints decrements the spendable balance. It never lets the
// balance go negative and never touches progression points.
func (s *HeroStore) SpendRewardPoints(heroID string, amount int) error {
	return spendRewardPoints(s.db, heroID, amount, time.Now().UTC())
}

// spendRewardPoints is a compare-and-swap: the decrement only applies when the
// row still holds enough points at the moment of the write.
func spendRewardPoints(q querier, heroID string, amount int, now time.Time) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	res, err := q.Exec(
		`UPDATE heroes SET reward_points = COALESCE(reward_points, points, 0) - ?, updated_at = ?
		 WHERE id = ? AND COALESCE(reward_points, points, 0) >= ?`,
		amount, now, heroID, amount,
	)
	if err != nil {
		return fmt.Errorf("spend reward points: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 1 {
		return nil
	}

	var balance int
	err = q.QueryRow(`SELECT COALESCE(reward_points, points, 0) FROM heroes WHERE id = ?`, heroID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrHeroNotFound
	}
	if err != nil {
		return fmt.Errorf("read balance: %w", err)
	}
	return fmt.Errorf("%w: have %d, need %d", ErrInsufficientBalance, balance, amount)
}

// EnsureDefaultHero creates a hero with the given name when the collection is
// empty, and returns the first hero either way.
func (s *HeroStore) EnsureDefaultHero(name string) (*model.Hero, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM heroes`).Scan(&count); err != nil {
		return nil, fmt.Errorf("count heroes: %w", err)
	}

	if count == 0 {
		now := time.Now().UTC()
		_, err := tx.Exec(
			`INSERT INTO heroes (id, name, progression_points, reward_points, created_at, updated_at)
			 VALUES (?, ?, 0, 0, ?, ?)`,
			newID("hero"), name, now, now,
		)
		if err != nil {
			return nil, fmt.Errorf("insert default hero: %w", err)
		}
		s.logger.Info("created default hero", "name", name)
	}

	row := tx.QueryRow(`SELECT ` + heroCols + ` FROM heroes ORDER BY created_at ASC, name ASC LIMIT 1`)
	h, err := scanHero(row)
	if err != nil {
		return nil, fmt.Errorf("get first hero: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return h, nil
}
