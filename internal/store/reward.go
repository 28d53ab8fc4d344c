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

// defaultRewards seeds an empty reward collection on first run.
var defaultRewards = []model.Reward{
	{Title: "Extra screen time", Description: "30 more minutes of tablet or TV", Cost: 20},
	{Title: "Pick dinner", Description: "Choose what the family eats tonight", Cost: 30},
	{Title: "Stay up late", Description: "Bedtime pushed back by 30 minutes", Cost: 40},
	{Title: "Ice cream trip", Description: "A trip out for ice cream", Cost: 50},
	{Title: "Movie night pick", Description: "Choose the movie for family night", Cost: 60},
}

type RewardStore struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewRewardStore(db *sql.DB, logger *slog.Logger) *RewardStore {
	return &RewardStore{db: db, logger: logger}
}

func scanReward(scanner interface{ Scan(...any) error }) (*model.Reward, error) {
	var r model.Reward
	var active int

	err := scanner.Scan(&r.ID, &r.Title, &r.Description, &r.Cost, &active, &r.CreatedAt)
	if err != nil {
		return nil, err
	}

	r.Active = active != 0
	return &r, nil
}

const rewardCols = `id, title, description, cost, active, created_at`

func validateReward(r *model.Reward) error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return ErrTitleRequired
	}
	if r.Cost <= 0 {
		return ErrInvalidCost
	}
	return nil
}

func getReward(q querier, id string) (*model.Reward, error) {
	row := q.QueryRow(`SELECT `+rewardCols+` FROM rewards WHERE id = ?`, id)
	r, err := scanReward(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get reward: %w", err)
	}
	return r, nil
}

func insertReward(q querier, r *model.Reward, now time.Time) error {
	if r.ID == "" {
		r.ID = newID("reward")
	}
	_, err := q.Exec(
		`INSERT INTO rewards (id, title, description, cost, active, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.Title, r.Description, r.Cost, boolToInt(r.Active), now,
	)
	if err != nil {
		return fmt.Errorf("insert reward: %w", err)
	}
	r.CreatedAt = now
	return nil
}

// Create persists a reward and returns its id. A "reward-" id is generated
// when r.ID is empty.
func (s *RewardStore) Create(r *model.Reward) (string, error) {
	if err := validateReward(r); err != nil {
		return "", err
	}
	if err := insertReward(s.db, r, time.Now().UTC()); err != nil {
		return "", err
	}
	return r.ID, nil
}

// GetByID returns the reward, or nil when it does not exist or cannot be read.
func (s *RewardStore) GetByID(id string) *model.Reward {
	r, err := getReward(s.db, id)
	if err != nil {
		s.logger.Error("get reward", "reward_id", id, "error", err)
		return nil
	}
	return r
}

func (s *RewardStore) list(op, query string) []model.Reward {
	rows, err := s.db.Query(query)
	if err != nil {
		s.logger.Error(op, "error", err)
		return []model.Reward{}
	}
	defer rows.Close()

	rewards := []model.Reward{}
	for rows.Next() {
		r, err := scanReward(rows)
		if err != nil {
			s.logger.Error(op, "error", err)
			return []model.Reward{}
		}
		rewards = append(rewards, *r)
	}
	if err := rows.Err(); err != nil {
		s.logger.Error(op, "error", err)
		return []model.Reward{}
	}
	return rewards
}

// List returns all rewards, active first, then by cost and title.
func (s *RewardStore) List() []model.Reward {
	return s.list("list rewards", `SELECT `+rewardCols+` FROM rewards ORDER BY active DESC, cost ASC, title ASC`)
}

// ListActive returns only active rewards, cheapest first.
func (s *RewardStore) ListActive() []model.Reward {
	return s.list("list active rewards", `SELECT `+rewardCols+` FROM rewards WHERE active = 1 ORDER BY cost ASC, title ASC`)
}

func (s *RewardStore) Update(r *model.Reward) error {
	if err := validateReward(r); err != nil {
		return err
	}

	res, err := s.db.Exec(
		`UPDATE rewards SET title = ?, description = ?, cost = ?, active = ? WHERE id = ?`,
		r.Title, r.Description, r.Cost, boolToInt(r.Active), r.ID,
	)
	if err != nil {
		return fmt.Errorf("update reward: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrRewardNotFound
	}
	return nil
}

// Delete removes a reward together with its redemption history. Balances are
// not refunded.
func (s *RewardStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM rewards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete reward: %w", err)
	}
	return nil
}

// InitializeDefaultRewards seeds the built-in rewards when no reward exists
// and returns how many were inserted. It is a no-op otherwise, so it is safe
// to call on every start.
func (s *RewardStore) InitializeDefaultRewards() (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM rewards`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count rewards: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	for _, d := range defaultRewards {
		r := d
		r.Active = true
		if err := insertReward(tx, &r, now); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	s.logger.Info("seeded default rewards", "count", len(defaultRewards))
	return len(defaultRewards), nil
}
