package model

import "time"

type Hero struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	ProgressionPoints int       `json:"progression_points"`
	RewardPoints      int       `json:"reward_points"`
	StreakDays        int       `json:"streak_days"`
	AvatarURL         string    `json:"avatar_url,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
