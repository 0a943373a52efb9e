package backup

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenkeep/screenkeep/internal/constants"
	"github.com/screenkeep/screenkeep/internal/ledger"
	"github.com/screenkeep/screenkeep/internal/remote"
)

func TestRestore(t *testing.T) {
	ctx := context.Background()

	t.Run("imports all three collections", func(t *testing.T) {
		engine, store, mem := setupEngine(t)
		mem.Set(ctx, "u1", constants.CollectionDailyRecords, "2026-01-14",
			map[string]interface{}{"date": "2026-01-14", "appUsages": map[string]interface{}{"app.a": 25.0}}, false)
		mem.Set(ctx, "u1", constants.CollectionGoalHistory, "2026-01-01_app.a",
			map[string]interface{}{"effectiveDate": "2026-01-01", "packageName": "app.a", "goalMinutes": 30.0}, false)
		mem.Set(ctx, "u1", constants.CollectionTrackingHistory, "2026-01-01",
			map[string]interface{}{"effectiveDate": "2026-01-01", "trackedPackages": []interface{}{"app.a"}}, false)

		result := engine.Restore(ctx, "u1")
		require.True(t, result.Ok())
		assert.True(t, result.Daily.Restored)
		assert.Equal(t, 1, result.Daily.Count)
		assert.True(t, result.Goals.Restored)
		assert.True(t, result.Tracking.Restored)

		day, err := store.GetDailyUsage("u1", "2026-01-14")
		require.NoError(t, err)
		require.NotNil(t, day)
		assert.Equal(t, 25, day.AppUsages["app.a"])

		goals := ledger.NewGoalLedger(store)
		minutes, err := goals.ResolveMinutes("u1", "app.a", "2026-01-15")
		require.NoError(t, err)
		assert.Equal(t, 30, minutes)

		tracking := ledger.NewTrackingLedger(store)
		rec, err := tracking.Latest("u1")
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, []string{"app.a"}, rec.TrackedPackages)
	})

	t.Run("overall placeholder maps back to the empty package", func(t *testing.T) {
		engine, store, mem := setupEngine(t)
		mem.Set(ctx, "u1", constants.CollectionGoalHistory, "2026-01-01_overall",
			map[string]interface{}{"effectiveDate": "2026-01-01", "packageName": "overall", "goalMinutes": 120.0}, false)

		result := engine.Restore(ctx, "u1")
		require.True(t, result.Ok())

		goals := ledger.NewGoalLedger(store)
		minutes, err := goals.ResolveMinutes("u1", "", "2026-01-15")
		require.NoError(t, err)
		assert.Equal(t, 120, minutes)
	})

	t.Run("missing date fields fall back to doc ids", func(t *testing.T) {
		engine, store, mem := setupEngine(t)
		mem.Set(ctx, "u1", constants.CollectionDailyRecords, "2026-01-14",
			map[string]interface{}{"appUsages": map[string]interface{}{"app.a": 5.0}}, false)
		mem.Set(ctx, "u1", constants.CollectionTrackingHistory, "2026-01-02",
			map[string]interface{}{"trackedPackages": []interface{}{"app.a"}}, false)

		result := engine.Restore(ctx, "u1")
		require.True(t, result.Ok())

		day, err := store.GetDailyUsage("u1", "2026-01-14")
		require.NoError(t, err)
		require.NotNil(t, day)

		tracking := ledger.NewTrackingLedger(store)
		rec, err := tracking.Latest("u1")
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, "2026-01-02", rec.EffectiveDate)
	})

	t.Run("collections restore independently on partial failure", func(t *testing.T) {
		engine, store, mem := setupEngine(t)
		mem.Set(ctx, "u1", constants.CollectionDailyRecords, "2026-01-14",
			map[string]interface{}{"date": "2026-01-14", "appUsages": map[string]interface{}{"app.a": 5.0}}, false)
		mem.Set(ctx, "u1", constants.CollectionTrackingHistory, "2026-01-01",
			map[string]interface{}{"effectiveDate": "2026-01-01", "trackedPackages": []interface{}{"app.a"}}, false)
		mem.FailCollections[constants.CollectionGoalHistory] = errors.New("remote down")

		result := engine.Restore(ctx, "u1")
		assert.False(t, result.Ok())
		assert.True(t, result.Daily.Restored)
		assert.Error(t, result.Goals.Err)
		assert.True(t, result.Tracking.Restored)

		day, err := store.GetDailyUsage("u1", "2026-01-14")
		require.NoError(t, err)
		assert.NotNil(t, day)
	})

	t.Run("empty remote restores nothing without error", func(t *testing.T) {
		engine, _, _ := setupEngine(t)
		result := engine.Restore(ctx, "u1")
		assert.True(t, result.Ok())
		assert.False(t, result.Daily.Restored)
		assert.False(t, result.Goals.Restored)
		assert.False(t, result.Tracking.Restored)
	})

	t.Run("unconfigured remote fails every collection", func(t *testing.T) {
		_, store, _ := setupEngine(t)
		engine := NewEngine(store, remote.Unconfigured{})

		result := engine.Restore(ctx, "u1")
		assert.False(t, result.Ok())
		assert.ErrorIs(t, result.Daily.Err, remote.ErrNotConfigured)
		assert.ErrorIs(t, result.Goals.Err, remote.ErrNotConfigured)
		assert.ErrorIs(t, result.Tracking.Err, remote.ErrNotConfigured)
	})

	t.Run("anonymous uid restores nothing", func(t *testing.T) {
		engine, _, mem := setupEngine(t)
		mem.Set(ctx, constants.AnonymousUID, constants.CollectionDailyRecords, "2026-01-14",
			map[string]interface{}{"date": "2026-01-14"}, false)

		result := engine.Restore(ctx, constants.AnonymousUID)
		assert.True(t, result.Ok())
		assert.False(t, result.Daily.Restored)
	})

	t.Run("repeated restore leaves resolution unchanged", func(t *testing.T) {
		engine, store, mem := setupEngine(t)
		mem.Set(ctx, "u1", constants.CollectionGoalHistory, "2026-01-01_app.a",
			map[string]interface{}{"effectiveDate": "2026-01-01", "packageName": "app.a", "goalMinutes": 30.0}, false)

		require.True(t, engine.Restore(ctx, "u1").Ok())
		require.True(t, engine.Restore(ctx, "u1").Ok())

		// Restored rows append to the ledger, but the observable
		// resolution is stable across repeats.
		goals := ledger.NewGoalLedger(store)
		minutes, err := goals.ResolveMinutes("u1", "app.a", "2026-01-15")
		require.NoError(t, err)
		assert.Equal(t, 30, minutes)
	})
}
