package store

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/dukerupert/questboard/internal/model"
)

var heroIDPattern = regexp.MustCompile(`^hero-\d+$`)

func TestHeroCRUD(t *testing.T) {
	hs := NewHeroStore(setupTestDB(t), discardLogger())

	// Create
	hero := &model.Hero{Name: "  Mia ", ProgressionPoints: 12, RewardPoints: 7, StreakDays: 2, AvatarURL: "/avatars/mia.png"}
	id, err := hs.Create(hero)
	if err != nil {
		t.Fatalf("create hero: %v", err)
	}
	if !heroIDPattern.MatchString(id) {
		t.Errorf("id = %q, want match %s", id, heroIDPattern)
	}
	if hero.ID != id {
		t.Errorf("hero.ID = %q, want %q", hero.ID, id)
	}

	// Get by ID
	got := hs.GetByID(id)
	if got == nil {
		t.Fatal("expected hero, got nil")
	}
	if got.Name != "Mia" {
		t.Errorf("name = %q, want %q", got.Name, "Mia")
	}
	if got.ProgressionPoints != 12 || got.RewardPoints != 7 || got.StreakDays != 2 {
		t.Errorf("points = (%d, %d, %d), want (12, 7, 2)", got.ProgressionPoints, got.RewardPoints, got.StreakDays)
	}
	if got.AvatarURL != "/avatars/mia.png" {
		t.Errorf("avatar_url = %q, want %q", got.AvatarURL, "/avatars/mia.png")
	}
	if !got.CreatedAt.Equal(hero.CreatedAt) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, hero.CreatedAt)
	}

	// Update
	name, reward := "Mia B", 3
	updated, err := hs.Update(id, HeroUpdate{Name: &name, RewardPoints: &reward})
	if err != nil {
		t.Fatalf("update hero: %v", err)
	}
	if updated.Name != "Mia B" || updated.RewardPoints != 3 {
		t.Errorf("updated = (%q, %d), want (%q, 3)", updated.Name, updated.RewardPoints, "Mia B")
	}
	if updated.ProgressionPoints != 12 || updated.StreakDays != 2 || updated.AvatarURL != "/avatars/mia.png" {
		t.Errorf("untouched fields changed: %+v", updated)
	}

	// Delete
	if err := hs.Delete(id); err != nil {
		t.Fatalf("delete hero: %v", err)
	}
	if got := hs.GetByID(id); got != nil {
		t.Error("expected nil after delete")
	}
}

func TestHeroCreateKeepsSuppliedID(t *testing.T) {
	hs := NewHeroStore(setupTestDB(t), discardLogger())

	id, err := hs.Create(&model.Hero{ID: "hero-42", Name: "Leo"})
	if err != nil {
		t.Fatalf("create hero: %v", err)
	}
	if id != "hero-42" {
		t.Errorf("id = %q, want %q", id, "hero-42")
	}
}

func TestHeroCreateValidation(t *testing.T) {
	hs := NewHeroStore(setupTestDB(t), discardLogger())

	if _, err := hs.Create(&model.Hero{Name: "   "}); !errors.Is(err, ErrNameRequired) {
		t.Errorf("blank name err = %v, want ErrNameRequired", err)
	}
	if _, err := hs.Create(&model.Hero{Name: "Leo", RewardPoints: -1}); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("negative points err = %v, want ErrInvalidAmount", err)
	}
}

func TestHeroNotFound(t *testing.T) {
	hs := NewHeroStore(setupTestDB(t), discardLogger())

	if got := hs.GetByID("hero-999"); got != nil {
		t.Error("expected nil for non-existent hero")
	}
	ghost := "Ghost"
	if _, err := hs.Update("hero-999", HeroUpdate{Name: &ghost}); !errors.Is(err, ErrHeroNotFound) {
		t.Errorf("update missing err = %v, want ErrHeroNotFound", err)
	}
}

func TestHeroUpdateValidation(t *testing.T) {
	hs := NewHeroStore(setupTestDB(t), discardLogger())
	hero := createTestHero(t, hs, "Mia", 5)

	blank := "  "
	if _, err := hs.Update(hero.ID, HeroUpdate{Name: &blank}); !errors.Is(err, ErrNameRequired) {
		t.Errorf("blank name err = %v, want ErrNameRequired", err)
	}
	negative := -1
	if _, err := hs.Update(hero.ID, HeroUpdate{RewardPoints: &negative}); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("negative points err = %v, want ErrInvalidAmount", err)
	}
	if got := hs.GetByID(hero.ID); got.Name != "Mia" || got.RewardPoints != 5 {
		t.Errorf("rejected update changed hero: %+v", got)
	}
}

// A name edit built from an earlier read must not undo a redemption that
// committed in between.
func TestHeroUpdateAfterRedemptionKeepsBalance(t *testing.T) {
	db := setupTestDB(t)
	hs := NewHeroStore(db, discardLogger())
	rs := NewRedemptionStore(db, discardLogger())
	hero := createTestHero(t, hs, "Mia", 10)
	reward := createTestReward(t, NewRewardStore(db, discardLogger()), "Sticker", 5)

	stale := hs.GetByID(hero.ID)

	if _, err := rs.Create(&model.Redemption{HeroID: hero.ID, RewardID: reward.ID}); err != nil {
		t.Fatalf("redeem: %v", err)
	}

	name := stale.Name + " the Brave"
	got, err := hs.Update(stale.ID, HeroUpdate{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.RewardPoints != 5 {
		t.Errorf("reward_points = %d, want 5", got.RewardPoints)
	}
	if got.ProgressionPoints != 10 {
		t.Errorf("progression_points = %d, want 10", got.ProgressionPoints)
	}
	if n := len(rs.GetByHeroID(hero.ID)); n != 1 {
		t.Errorf("redemptions = %d, want 1", n)
	}
}

func TestHeroReadsDegradeOnStoreFailure(t *testing.T) {
	db := setupTestDB(t)
	hs := NewHeroStore(db, discardLogger())
	hero := createTestHero(t, hs, "Mia", 5)

	db.Close()

	if got := hs.GetByID(hero.ID); got != nil {
		t.Error("expected nil from closed store")
	}
	if got := hs.List(); len(got) != 0 {
		t.Errorf("expected empty list from closed store, got %d", len(got))
	}
	if err := hs.SpendRewardPoints(hero.ID, 1); err == nil {
		t.Error("expected write to fail on closed store")
	}
}

func TestHeroList(t *testing.T) {
	hs := NewHeroStore(setupTestDB(t), discardLogger())

	if got := hs.List(); len(got) != 0 {
		t.Fatalf("expected empty list, got %d", len(got))
	}

	createTestHero(t, hs, "Mia", 0)
	createTestHero(t, hs, "Leo", 0)

	heroes := hs.List()
	if len(heroes) != 2 {
		t.Fatalf("expected 2 heroes, got %d", len(heroes))
	}
	if heroes[0].Name != "Mia" {
		t.Errorf("heroes[0].Name = %q, want %q", heroes[0].Name, "Mia")
	}
}

func TestAwardPoints(t *testing.T) {
	hs := NewHeroStore(setupTestDB(t), discardLogger())
	hero := createTestHero(t, hs, "Mia", 0)

	if err := hs.AwardPoints(hero.ID, 5); err != nil {
		t.Fatalf("award points: %v", err)
	}
	got := hs.GetByID(hero.ID)
	if got.ProgressionPoints != 5 || got.RewardPoints != 5 {
		t.Errorf("points = (%d, %d), want (5, 5)", got.ProgressionPoints, got.RewardPoints)
	}

	if err := hs.AwardPoints(hero.ID, 0); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("zero award err = %v, want ErrInvalidAmount", err)
	}
	if err := hs.AwardPoints("hero-missing", 3); !errors.Is(err, ErrHeroNotFound) {
		t.Errorf("missing hero err = %v, want ErrHeroNotFound", err)
	}
}

func TestSpendRewardPoints(t *testing.T) {
	hs := NewHeroStore(setupTestDB(t), discardLogger())
	hero := createTestHero(t, hs, "Mia", 10)

	if err := hs.SpendRewardPoints(hero.ID, 4); err != nil {
		t.Fatalf("spend: %v", err)
	}
	got := hs.GetByID(hero.ID)
	if got.RewardPoints != 6 {
		t.Errorf("reward_points = %d, want 6", got.RewardPoints)
	}
	if got.ProgressionPoints != 10 {
		t.Errorf("progression_points = %d, want 10", got.ProgressionPoints)
	}

	err := hs.SpendRewardPoints(hero.ID, 7)
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("overspend err = %v, want ErrInsufficientBalance", err)
	}
	if got := hs.GetByID(hero.ID); got.RewardPoints != 6 {
		t.Errorf("reward_points after rejected spend = %d, want 6", got.RewardPoints)
	}

	// Spending the exact balance is allowed.
	if err := hs.SpendRewardPoints(hero.ID, 6); err != nil {
		t.Fatalf("spend exact balance: %v", err)
	}
	if got := hs.GetByID(hero.ID); got.RewardPoints != 0 {
		t.Errorf("reward_points = %d, want 0", got.RewardPoints)
	}
}

func TestSpendRewardPointsErrors(t *testing.T) {
	hs := NewHeroStore(setupTestDB(t), discardLogger())
	hero := createTestHero(t, hs, "Mia", 10)

	if err := hs.SpendRewardPoints("hero-missing", 1); !errors.Is(err, ErrHeroNotFound) {
		t.Errorf("missing hero err = %v, want ErrHeroNotFound", err)
	}
	if err := hs.SpendRewardPoints(hero.ID, 0); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("zero amount err = %v, want ErrInvalidAmount", err)
	}
	if err := hs.SpendRewardPoints(hero.ID, -3); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("negative amount err = %v, want ErrInvalidAmount", err)
	}
}

func TestEnsureDefaultHero(t *testing.T) {
	hs := NewHeroStore(setupTestDB(t), discardLogger())

	first, err := hs.EnsureDefaultHero("Hero")
	if err != nil {
		t.Fatalf("ensure default hero: %v", err)
	}
	if first.Name != "Hero" {
		t.Errorf("name = %q, want %q", first.Name, "Hero")
	}

	again, err := hs.EnsureDefaultHero("Someone Else")
	if err != nil {
		t.Fatalf("ensure default hero again: %v", err)
	}
	if again.ID != first.ID {
		t.Errorf("second call id = %q, want %q", again.ID, first.ID)
	}
	if n := len(hs.List()); n != 1 {
		t.Errorf("hero count = %d, want 1", n)
	}
}

func TestIDGeneratorMonotonic(t *testing.T) {
	fixed := time.UnixMilli(1700000000000)
	g := &idGenerator{now: func() time.Time { return fixed }}

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := g.next("quest")
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
	if got := g.next("quest"); got != "quest-1700000000100" {
		t.Errorf("101st id = %q, want %q", got, "quest-1700000000100")
	}
}
