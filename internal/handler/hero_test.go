package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/questboard/internal/model"
)

func TestHeroHandlerCreateAndGet(t *testing.T) {
	f := newFixture(t)
	h := NewHeroHandler(f.heroes, f.redemptions, nil, f.logger)

	rec := do(t, h.Create, "POST", "/api/heroes", map[string]any{"name": "Mia", "reward_points": 12})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[model.Hero](t, rec)
	assert.Regexp(t, `^hero-\d+$`, created.ID)
	assert.Equal(t, 12, created.RewardPoints)
	assert.Equal(t, 0, created.ProgressionPoints)

	rec = do(t, h.Get, "GET", "/api/heroes/"+created.ID, nil, "id", created.ID)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Mia", decodeBody[model.Hero](t, rec).Name)

	rec = do(t, h.Get, "GET", "/api/heroes/hero-0", nil, "id", "hero-0")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h.List, "GET", "/api/heroes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]model.Hero](t, rec), 1)
}

func TestHeroHandlerValidation(t *testing.T) {
	f := newFixture(t)
	h := NewHeroHandler(f.heroes, f.redemptions, nil, f.logger)

	tests := []struct {
		name string
		body any
		want string
	}{
		{"bad json", "{", "invalid JSON"},
		{"missing name", map[string]any{}, "name is required"},
		{"negative points", map[string]any{"name": "Mia", "reward_points": -1}, "reward_points must be at least 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h.Create, "POST", "/api/heroes", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.want, decodeBody[map[string]string](t, rec)["error"])
		})
	}
	assert.Empty(t, f.heroes.List())
}

func TestHeroHandlerUpdateKeepsOmittedFields(t *testing.T) {
	f := newFixture(t)
	h := NewHeroHandler(f.heroes, f.redemptions, nil, f.logger)

	rec := do(t, h.Create, "POST", "/api/heroes", map[string]any{
		"name": "Mia", "avatar_url": "/avatars/mia.png", "progression_points": 30, "reward_points": 30,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	hero := decodeBody[model.Hero](t, rec)

	rec = do(t, h.Update, "PUT", "/api/heroes/"+hero.ID, map[string]any{"name": "Mia B"}, "id", hero.ID)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decodeBody[model.Hero](t, rec)
	assert.Equal(t, "Mia B", got.Name)
	assert.Equal(t, "/avatars/mia.png", got.AvatarURL)
	assert.Equal(t, 30, got.RewardPoints)
	assert.Equal(t, 30, got.ProgressionPoints)

	rec = do(t, h.Update, "PUT", "/api/heroes/"+hero.ID, map[string]any{"reward_points": 12, "avatar_url": ""}, "id", hero.ID)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got = decodeBody[model.Hero](t, rec)
	assert.Equal(t, "Mia B", got.Name)
	assert.Empty(t, got.AvatarURL)
	assert.Equal(t, 12, got.RewardPoints)
	assert.Equal(t, 30, got.ProgressionPoints)

	rec = do(t, h.Update, "PUT", "/api/heroes/"+hero.ID, map[string]any{"name": "  "}, "id", hero.ID)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h.Update, "PUT", "/api/heroes/hero-0", map[string]any{"name": "Ghost"}, "id", "hero-0")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHeroHandlerDelete(t *testing.T) {
	f := newFixture(t)
	h := NewHeroHandler(f.heroes, f.redemptions, nil, f.logger)
	hero := f.hero(t, "Mia", 0)

	rec := do(t, h.Delete, "DELETE", "/api/heroes/"+hero.ID, nil, "id", hero.ID)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Nil(t, f.heroes.GetByID(hero.ID))

	rec = do(t, h.Delete, "DELETE", "/api/heroes/"+hero.ID, nil, "id", hero.ID)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHeroHandlerRedemptions(t *testing.T) {
	f := newFixture(t)
	h := NewHeroHandler(f.heroes, f.redemptions, nil, f.logger)
	hero := f.hero(t, "Mia", 10)
	reward := f.reward(t, "Sticker", 2, true)

	_, err := f.redemptions.Create(&model.Redemption{HeroID: hero.ID, RewardID: reward.ID})
	require.NoError(t, err)

	rec := do(t, h.Redemptions, "GET", "/api/heroes/"+hero.ID+"/redemptions", nil, "id", hero.ID)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[[]model.Redemption](t, rec)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].PointsSpent)

	rec = do(t, h.Redemptions, "GET", "/api/heroes/hero-0/redemptions", nil, "id", "hero-0")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
