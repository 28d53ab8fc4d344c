package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dukerupert/questboard/internal/model"
	"github.com/dukerupert/questboard/internal/quest"
)

type QuestStore struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

func NewQuestStore(db *sql.DB, logger *slog.Logger) *QuestStore {
	return &QuestStore{db: db, logger: logger, now: time.Now}
}

// --- Quest methods ---

func scanQuest(scanner interface{ Scan(...any) error }) (*model.Quest, error) {
	var q model.Quest
	var recurrence sql.NullString
	var active int

	err := scanner.Scan(
		&q.ID, &q.Title, &q.Category, &q.Points, &recurrence,
		&active, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	q.Active = active != 0
	if recurrence.Valid && recurrence.String != "" {
		var r model.Recurrence
		if err := json.Unmarshal([]byte(recurrence.String), &r); err != nil {
			return nil, fmt.Errorf("decode recurrence for quest %s: %w", q.ID, err)
		}
		q.Recurrence = &r
	}
	return &q, nil
}

const questCols = `id, title, category, points, recurrence, active, created_at, updated_at`

func encodeRecurrence(r *model.Recurrence) (sql.NullString, error) {
	if r == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(r)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encode recurrence: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func validateQuest(q *model.Quest) error {
	q.Title = strings.TrimSpace(q.Title)
	q.Category = strings.TrimSpace(q.Category)
	if q.Title == "" {
		return ErrTitleRequired
	}
	if q.Points <= 0 {
		return ErrInvalidPoints
	}
	return quest.ValidateRecurrence(q.Recurrence)
}

func getQuest(q querier, id string) (*model.Quest, error) {
	row := q.QueryRow(`SELECT `+questCols+` FROM quests WHERE id = ?`, id)
	qu, err := scanQuest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get quest: %w", err)
	}
	return qu, nil
}

// Create persists a quest and returns its id. A "quest-" id is generated when
// q.ID is empty.
func (s *QuestStore) Create(q *model.Quest) (string, error) {
	if err := validateQuest(q); err != nil {
		return "", err
	}
	rec, err := encodeRecurrence(q.Recurrence)
	if err != nil {
		return "", err
	}
	if q.ID == "" {
		q.ID = newID("quest")
	}
	now := s.now().UTC()

	_, err = s.db.Exec(
		`INSERT INTO quests (id, title, category, points, recurrence, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		q.ID, q.Title, q.Category, q.Points, rec, boolToInt(q.Active), now, now,
	)
	if err != nil {
		return "", fmt.Errorf("insert quest: %w", err)
	}
	q.CreatedAt, q.UpdatedAt = now, now
	return q.ID, nil
}

// GetByID returns the quest, or nil when it does not exist or cannot be read.
func (s *QuestStore) GetByID(id string) *model.Quest {
	q, err := getQuest(s.db, id)
	if err != nil {
		s.logger.Error("get quest", "quest_id", id, "error", err)
		return nil
	}
	return q
}

func (s *QuestStore) list(op, where string, args ...any) []model.Quest {
	rows, err := s.db.Query(`SELECT `+questCols+` FROM quests `+where+` ORDER BY created_at ASC, title ASC`, args...)
	if err != nil {
		s.logger.Error(op, "error", err)
		return []model.Quest{}
	}
	defer rows.Close()

	quests := []model.Quest{}
	for rows.Next() {
		q, err := scanQuest(rows)
		if err != nil {
			s.logger.Error(op, "error", err)
			return []model.Quest{}
		}
		quests = append(quests, *q)
	}
	if err := rows.Err(); err != nil {
		s.logger.Error(op, "error", err)
		return []model.Quest{}
	}
	return quests
}

func (s *QuestStore) List() []model.Quest {
	return s.list("list quests", "")
}

func (s *QuestStore) ListActive() []model.Quest {
	return s.list("list active quests", "WHERE active = 1")
}

func (s *QuestStore) ListByCategory(category string) []model.Quest {
	return s.list("list quests by category", "WHERE category = ?", category)
}

func (s *QuestStore) Update(q *model.Quest) error {
	if err := validateQuest(q); err != nil {
		return err
	}
	rec, err := encodeRecurrence(q.Recurrence)
	if err != nil {
		return err
	}
	now := s.now().UTC()

	res, err := s.db.Exec(
		`UPDATE quests SET title = ?, category = ?, points = ?, recurrence = ?, active = ?, updated_at = ? WHERE id = ?`,
		q.Title, q.Category, q.Points, rec, boolToInt(q.Active), now, q.ID,
	)
	if err != nil {
		return fmt.Errorf("update quest: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrQuestNotFound
	}
	q.UpdatedAt = now
	return nil
}

// SetActive toggles a quest on or off. Deactivating is the soft delete: the
// quest and its completion history stay.
func (s *QuestStore) SetActive(id string, active bool) error {
	res, err := s.db.Exec(
		`UPDATE quests SET active = ?, updated_at = ? WHERE id = ?`,
		boolToInt(active), s.now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("set quest active: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrQuestNotFound
	}
	return nil
}

// Delete removes the quest and, by cascade, its completions. Points already
// awarded stay with the heroes.
func (s *QuestStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM quests WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete quest: %w", err)
	}
	return nil
}

// --- Completion methods ---

func scanCompletion(scanner interface{ Scan(...any) error }) (*model.QuestCompletion, error) {
	var c model.QuestCompletion
	err := scanner.Scan(&c.ID, &c.QuestID, &c.HeroID, &c.PointsEarned, &c.CompletedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

const completionCols = `id, quest_id, hero_id, points_earned, completed_at`

// Complete records heroID finishing questID. The completion row, the points
// credited to both hero balances and the streak update commit together.
func (s *QuestStore) Complete(questID, heroID string) (*model.QuestCompletion, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	q, err := getQuest(tx, questID)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, ErrQuestNotFound
	}
	if !q.Active {
		return nil, ErrQuestInactive
	}

	if quest.TypeOf(*q) == quest.TypeQuest {
		var done int
		if err := tx.QueryRow(`SELECT COUNT(*) FROM quest_completions WHERE quest_id = ?`, questID).Scan(&done); err != nil {
			return nil, fmt.Errorf("count completions: %w", err)
		}
		if done > 0 {
			return nil, ErrQuestAlreadyCompleted
		}
	}

	hero, err := getHero(tx, heroID)
	if err != nil {
		return nil, err
	}
	if hero == nil {
		return nil, ErrHeroNotFound
	}

	var lastAt *time.Time
	var prev time.Time
	err = tx.QueryRow(
		`SELECT completed_at FROM quest_completions WHERE hero_id = ? ORDER BY completed_at DESC LIMIT 1`,
		heroID,
	).Scan(&prev)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, fmt.Errorf("last hero completion: %w", err)
	default:
		lastAt = &prev
	}

	now := s.now()
	streak := quest.NextStreak(hero.StreakDays, lastAt, now)
	c := &model.QuestCompletion{
		ID:           newID("completion"),
		QuestID:      questID,
		HeroID:       heroID,
		PointsEarned: q.Points,
		CompletedAt:  now.UTC(),
	}

	_, err = tx.Exec(
		`INSERT INTO quest_completions (id, quest_id, hero_id, points_earned, completed_at) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.QuestID, c.HeroID, c.PointsEarned, c.CompletedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert completion: %w", err)
	}

	if err := awardPoints(tx, heroID, q.Points, streak, c.CompletedAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return c, nil
}

// LastCompletion returns the most recent completion of a quest, or nil.
func (s *QuestStore) LastCompletion(questID string) *model.QuestCompletion {
	row := s.db.QueryRow(
		`SELECT `+completionCols+` FROM quest_completions WHERE quest_id = ? ORDER BY completed_at DESC LIMIT 1`,
		questID,
	)
	c, err := scanCompletion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		s.logger.Error("last completion", "quest_id", questID, "error", err)
		return nil
	}
	return c
}

// ListCompletionsByHero returns a hero's completions, newest first.
func (s *QuestStore) ListCompletionsByHero(heroID string) []model.QuestCompletion {
	rows, err := s.db.Query(
		`SELECT `+completionCols+` FROM quest_completions WHERE hero_id = ? ORDER BY completed_at DESC`,
		heroID,
	)
	if err != nil {
		s.logger.Error("list completions by hero", "hero_id", heroID, "error", err)
		return []model.QuestCompletion{}
	}
	defer rows.Close()

	completions := []model.QuestCompletion{}
	for rows.Next() {
		c, err := scanCompletion(rows)
		if err != nil {
			s.logger.Error("scan completion", "error", err)
			return []model.QuestCompletion{}
		}
		completions = append(completions, *c)
	}
	if err := rows.Err(); err != nil {
		s.logger.Error("iterate completions", "error", err)
		return []model.QuestCompletion{}
	}
	return completions
}
