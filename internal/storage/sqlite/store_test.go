package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/screenkeep/screenkeep/internal/models"
)

// setupTestStore creates a fully migrated store in a temp directory.
func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestInitAndLoad(t *testing.T) {
	t.Run("init creates all tables", func(t *testing.T) {
		store := setupTestStore(t)
		for _, table := range []string{"daily_usage_history", "goal_history", "tracking_history"} {
			exists, err := store.tableExists(table)
			if err != nil {
				t.Fatalf("tableExists(%s) error: %v", table, err)
			}
			if !exists {
				t.Errorf("table %s missing after Init()", table)
			}
		}
	})

	t.Run("init is idempotent", func(t *testing.T) {
		store := setupTestStore(t)
		if err := store.Init(); err != nil {
			t.Errorf("second Init() error: %v", err)
		}
	})

	t.Run("load fails without init", func(t *testing.T) {
		store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
		if err := store.Load(); err == nil {
			t.Error("Load() on missing database = nil error, want failure")
		}
	})

	t.Run("load succeeds after init", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.db")
		store := NewStore(path)
		if err := store.Init(); err != nil {
			t.Fatalf("Init() error: %v", err)
		}
		store.Close()

		reopened := NewStore(path)
		if err := reopened.Load(); err != nil {
			t.Errorf("Load() error: %v", err)
		}
		reopened.Close()
	})
}

func TestDailyUsage(t *testing.T) {
	t.Run("get absent returns nil without error", func(t *testing.T) {
		store := setupTestStore(t)
		got, err := store.GetDailyUsage("u1", "2026-01-15")
		if err != nil {
			t.Fatalf("GetDailyUsage() error: %v", err)
		}
		if got != nil {
			t.Errorf("GetDailyUsage() = %v, want nil", got)
		}
	})

	t.Run("upsert replaces wholesale", func(t *testing.T) {
		store := setupTestStore(t)
		first := models.DailyUsage{UID: "u1", Date: "2026-01-15", AppUsages: map[string]int{"app.a": 10, "app.b": 5}}
		if err := store.UpsertDailyUsage(first); err != nil {
			t.Fatalf("UpsertDailyUsage() error: %v", err)
		}
		second := models.DailyUsage{UID: "u1", Date: "2026-01-15", AppUsages: map[string]int{"app.a": 25}}
		if err := store.UpsertDailyUsage(second); err != nil {
			t.Fatalf("UpsertDailyUsage() error: %v", err)
		}

		got, err := store.GetDailyUsage("u1", "2026-01-15")
		if err != nil {
			t.Fatalf("GetDailyUsage() error: %v", err)
		}
		if got == nil {
			t.Fatal("GetDailyUsage() = nil, want record")
		}
		if got.AppUsages["app.a"] != 25 {
			t.Errorf("app.a = %d, want 25", got.AppUsages["app.a"])
		}
		if _, ok := got.AppUsages["app.b"]; ok {
			t.Error("app.b survived replacement, want wholesale overwrite")
		}
	})

	t.Run("records are per uid", func(t *testing.T) {
		store := setupTestStore(t)
		store.UpsertDailyUsage(models.DailyUsage{UID: "u1", Date: "2026-01-15", AppUsages: map[string]int{"app.a": 10}})
		store.UpsertDailyUsage(models.DailyUsage{UID: "u2", Date: "2026-01-15", AppUsages: map[string]int{"app.a": 99}})

		got, err := store.GetDailyUsage("u1", "2026-01-15")
		if err != nil {
			t.Fatalf("GetDailyUsage() error: %v", err)
		}
		if got.AppUsages["app.a"] != 10 {
			t.Errorf("u1 app.a = %d, want 10", got.AppUsages["app.a"])
		}
	})

	t.Run("range is inclusive and ascending", func(t *testing.T) {
		store := setupTestStore(t)
		for _, date := range []string{"2026-01-14", "2026-01-16", "2026-01-15", "2026-01-10"} {
			store.UpsertDailyUsage(models.DailyUsage{UID: "u1", Date: date, AppUsages: map[string]int{"app.a": 1}})
		}

		got, err := store.GetDailyUsages("u1", "2026-01-14", "2026-01-16")
		if err != nil {
			t.Fatalf("GetDailyUsages() error: %v", err)
		}
		want := []string{"2026-01-14", "2026-01-15", "2026-01-16"}
		if len(got) != len(want) {
			t.Fatalf("got %d records, want %d", len(got), len(want))
		}
		for i, date := range want {
			if got[i].Date != date {
				t.Errorf("record %d date = %s, want %s", i, got[i].Date, date)
			}
		}
	})

	t.Run("recent returns newest first with limit", func(t *testing.T) {
		store := setupTestStore(t)
		for _, date := range []string{"2026-01-10", "2026-01-11", "2026-01-12"} {
			store.UpsertDailyUsage(models.DailyUsage{UID: "u1", Date: date, AppUsages: map[string]int{"app.a": 1}})
		}
		got, err := store.GetRecentDailyUsages("u1", 2)
		if err != nil {
			t.Fatalf("GetRecentDailyUsages() error: %v", err)
		}
		if len(got) != 2 || got[0].Date != "2026-01-12" || got[1].Date != "2026-01-11" {
			t.Errorf("got %v, want the two newest dates descending", got)
		}
	})
}

func TestGoalLedgerStore(t *testing.T) {
	t.Run("effective resolution picks newest qualifying date", func(t *testing.T) {
		store := setupTestStore(t)
		store.InsertGoal(models.GoalRecord{UID: "u1", EffectiveDate: "2026-01-01", Package: "app.a", GoalMinutes: 30})
		store.InsertGoal(models.GoalRecord{UID: "u1", EffectiveDate: "2026-01-10", Package: "app.a", GoalMinutes: 45})

		got, err := store.EffectiveAppGoal("u1", "app.a", "2026-01-05")
		if err != nil {
			t.Fatalf("EffectiveAppGoal() error: %v", err)
		}
		if got == nil || got.GoalMinutes != 30 {
			t.Errorf("goal on 2026-01-05 = %v, want 30", got)
		}

		got, err = store.EffectiveAppGoal("u1", "app.a", "2026-01-10")
		if err != nil {
			t.Fatalf("EffectiveAppGoal() error: %v", err)
		}
		if got == nil || got.GoalMinutes != 45 {
			t.Errorf("goal on 2026-01-10 = %v, want 45", got)
		}
	})

	t.Run("same-day records resolve to latest insertion", func(t *testing.T) {
		store := setupTestStore(t)
		store.InsertGoal(models.GoalRecord{UID: "u1", EffectiveDate: "2026-01-10", Package: "app.a", GoalMinutes: 45})
		store.InsertGoal(models.GoalRecord{UID: "u1", EffectiveDate: "2026-01-10", Package: "app.a", GoalMinutes: 20})

		got, err := store.EffectiveAppGoal("u1", "app.a", "2026-01-10")
		if err != nil {
			t.Fatalf("EffectiveAppGoal() error: %v", err)
		}
		if got == nil || got.GoalMinutes != 20 {
			t.Errorf("goal = %v, want the later insertion (20)", got)
		}
	})

	t.Run("no qualifying record resolves to nil", func(t *testing.T) {
		store := setupTestStore(t)
		store.InsertGoal(models.GoalRecord{UID: "u1", EffectiveDate: "2026-01-10", Package: "app.a", GoalMinutes: 45})

		got, err := store.EffectiveAppGoal("u1", "app.a", "2026-01-05")
		if err != nil {
			t.Fatalf("EffectiveAppGoal() error: %v", err)
		}
		if got != nil {
			t.Errorf("goal before first effective date = %v, want nil", got)
		}
	})

	t.Run("overall and per-app goals are independent", func(t *testing.T) {
		store := setupTestStore(t)
		store.InsertGoal(models.GoalRecord{UID: "u1", EffectiveDate: "2026-01-01", GoalMinutes: 120})
		store.InsertGoal(models.GoalRecord{UID: "u1", EffectiveDate: "2026-01-01", Package: "app.a", GoalMinutes: 30})

		overall, err := store.EffectiveOverallGoal("u1", "2026-01-15")
		if err != nil {
			t.Fatalf("EffectiveOverallGoal() error: %v", err)
		}
		if overall == nil || overall.GoalMinutes != 120 || !overall.Overall() {
			t.Errorf("overall goal = %v, want 120 with empty package", overall)
		}

		app, err := store.EffectiveAppGoal("u1", "app.a", "2026-01-15")
		if err != nil {
			t.Fatalf("EffectiveAppGoal() error: %v", err)
		}
		if app == nil || app.GoalMinutes != 30 {
			t.Errorf("app goal = %v, want 30", app)
		}
	})

	t.Run("goal packages lists distinct per-app packages", func(t *testing.T) {
		store := setupTestStore(t)
		store.InsertGoal(models.GoalRecord{UID: "u1", EffectiveDate: "2026-01-01", Package: "app.b", GoalMinutes: 10})
		store.InsertGoal(models.GoalRecord{UID: "u1", EffectiveDate: "2026-01-02", Package: "app.a", GoalMinutes: 20})
		store.InsertGoal(models.GoalRecord{UID: "u1", EffectiveDate: "2026-01-03", Package: "app.a", GoalMinutes: 30})
		store.InsertGoal(models.GoalRecord{UID: "u1", EffectiveDate: "2026-01-04", GoalMinutes: 120})

		got, err := store.GoalPackages("u1")
		if err != nil {
			t.Fatalf("GoalPackages() error: %v", err)
		}
		if len(got) != 2 || got[0] != "app.a" || got[1] != "app.b" {
			t.Errorf("GoalPackages() = %v, want [app.a app.b]", got)
		}
	})
}

func TestTrackingLedgerStore(t *testing.T) {
	t.Run("effective resolution follows the dated ledger", func(t *testing.T) {
		store := setupTestStore(t)
		store.InsertTracking(models.TrackingRecord{UID: "u1", EffectiveDate: "2026-01-01", TrackedPackages: []string{"app.a"}})
		store.InsertTracking(models.TrackingRecord{UID: "u1", EffectiveDate: "2026-01-10", TrackedPackages: []string{"app.a", "app.b"}})

		got, err := store.EffectiveTracking("u1", "2026-01-05")
		if err != nil {
			t.Fatalf("EffectiveTracking() error: %v", err)
		}
		if got == nil || len(got.TrackedPackages) != 1 {
			t.Errorf("tracking on 2026-01-05 = %v, want [app.a]", got)
		}
	})

	t.Run("latest ignores target dates", func(t *testing.T) {
		store := setupTestStore(t)
		store.InsertTracking(models.TrackingRecord{UID: "u1", EffectiveDate: "2026-01-01", TrackedPackages: []string{"app.a"}})
		store.InsertTracking(models.TrackingRecord{UID: "u1", EffectiveDate: "2026-01-10", TrackedPackages: []string{"app.b"}})

		got, err := store.LatestTracking("u1")
		if err != nil {
			t.Fatalf("LatestTracking() error: %v", err)
		}
		if got == nil || got.EffectiveDate != "2026-01-10" {
			t.Errorf("LatestTracking() = %v, want the 2026-01-10 snapshot", got)
		}
	})

	t.Run("empty set round-trips as empty not nil error", func(t *testing.T) {
		store := setupTestStore(t)
		store.InsertTracking(models.TrackingRecord{UID: "u1", EffectiveDate: "2026-01-01"})

		got, err := store.LatestTracking("u1")
		if err != nil {
			t.Fatalf("LatestTracking() error: %v", err)
		}
		if got == nil || len(got.TrackedPackages) != 0 {
			t.Errorf("LatestTracking() = %v, want empty set", got)
		}
	})

	t.Run("no snapshot resolves to nil", func(t *testing.T) {
		store := setupTestStore(t)
		got, err := store.LatestTracking("u1")
		if err != nil {
			t.Fatalf("LatestTracking() error: %v", err)
		}
		if got != nil {
			t.Errorf("LatestTracking() = %v, want nil", got)
		}
	})
}
