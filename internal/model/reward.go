package model

import "time"

type Reward struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Cost        int       `json:"cost"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

type Redemption struct {
	ID          string    `json:"id"`
	HeroID      string    `json:"hero_id"`
	RewardID    string    `json:"reward_id"`
	PointsSpent int       `json:"points_spent"`
	Notes       string    `json:"notes,omitempty"`
	RedeemedAt  time.Time `json:"redeemed_at"`
}
