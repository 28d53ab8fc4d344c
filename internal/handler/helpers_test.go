package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dukerupert/questboard/internal/analytics"
	"github.com/dukerupert/questboard/internal/auth"
	"github.com/dukerupert/questboard/internal/database"
	"github.com/dukerupert/questboard/internal/model"
	"github.com/dukerupert/questboard/internal/store"
)

type fixture struct {
	heroes      *store.HeroStore
	quests      *store.QuestStore
	rewards     *store.RewardStore
	redemptions *store.RedemptionStore
	settings    *store.SettingsStore
	events      *store.AnalyticsStore
	tracker     *analytics.StoreTracker
	logger      *slog.Logger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	events := store.NewAnalyticsStore(db)
	return &fixture{
		heroes:      store.NewHeroStore(db, logger),
		quests:      store.NewQuestStore(db, logger),
		rewards:     store.NewRewardStore(db, logger),
		redemptions: store.NewRedemptionStore(db, logger),
		settings:    store.NewSettingsStore(db),
		events:      events,
		tracker:     analytics.NewStoreTracker(events, logger),
		logger:      logger,
	}
}

func (f *fixture) hero(t *testing.T, name string, points int) *model.Hero {
	t.Helper()
	h := &model.Hero{Name: name, ProgressionPoints: points, RewardPoints: points}
	_, err := f.heroes.Create(h)
	require.NoError(t, err)
	return h
}

func (f *fixture) reward(t *testing.T, title string, cost int, active bool) *model.Reward {
	t.Helper()
	r := &model.Reward{Title: title, Cost: cost, Active: active}
	_, err := f.rewards.Create(r)
	require.NoError(t, err)
	return r
}

func (f *fixture) quest(t *testing.T, title string, points int, rec *model.Recurrence) *model.Quest {
	t.Helper()
	q := &model.Quest{Title: title, Points: points, Recurrence: rec, Active: true}
	_, err := f.quests.Create(q)
	require.NoError(t, err)
	return q
}

// do runs h against a request built from method, pattern and body. Path
// values are set from pathValues as alternating name, value pairs.
func do(t *testing.T, h http.HandlerFunc, method, target string, body any, pathValues ...string) *httptest.ResponseRecorder {
	t.Helper()
	return doCtx(t, context.Background(), h, method, target, body, pathValues...)
}

func doParent(t *testing.T, h http.HandlerFunc, method, target string, body any, pathValues ...string) *httptest.ResponseRecorder {
	t.Helper()
	ctx := auth.WithAccess(context.Background(), auth.Access{Parent: true})
	return doCtx(t, ctx, h, method, target, body, pathValues...)
}

func doCtx(t *testing.T, ctx context.Context, h http.HandlerFunc, method, target string, body any, pathValues ...string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, r).WithContext(ctx)
	for i := 0; i+1 < len(pathValues); i += 2 {
		req.SetPathValue(pathValues[i], pathValues[i+1])
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}
