package store

import "errors"

var (
	ErrHeroNotFound          = errors.New("hero not found")
	ErrQuestNotFound         = errors.New("quest not found")
	ErrRewardNotFound        = errors.New("reward not found")
	ErrRedemptionNotFound    = errors.New("redemption not found")
	ErrInsufficientBalance   = errors.New("insufficient reward points")
	ErrRewardInactive        = errors.New("reward is not active")
	ErrQuestInactive         = errors.New("quest is not active")
	ErrQuestAlreadyCompleted = errors.New("quest already completed")
	ErrInvalidAmount         = errors.New("point amount must be positive")
	ErrInvalidPoints         = errors.New("quest points must be greater than zero")
	ErrInvalidCost           = errors.New("reward cost must be greater than zero")
	ErrNameRequired          = errors.New("name is required")
	ErrTitleRequired         = errors.New("title is required")
)
