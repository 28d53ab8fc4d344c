package model

import "time"

// Recurrence types understood by the quest package.
const (
	RecurDaily   = "daily"
	RecurWeekly  = "weekly"
	RecurMonthly = "monthly"
)

// Recurrence describes how often a chore comes due. Days holds two-letter
// weekday codes (MO, TU, ...) for weekly recurrences; empty means the weekday
// the chore was created on.
type Recurrence struct {
	Type     string   `json:"type"`
	Interval int      `json:"interval,omitempty"`
	Days     []string `json:"days,omitempty"`
}

type Quest struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Category   string      `json:"category"`
	Points     int         `json:"points"`
	Recurrence *Recurrence `json:"recurrence"`
	Active     bool        `json:"active"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

type QuestCompletion struct {
	ID           string    `json:"id"`
	QuestID      string    `json:"quest_id"`
	HeroID       string    `json:"hero_id"`
	PointsEarned int       `json:"points_earned"`
	CompletedAt  time.Time `json:"completed_at"`
}
