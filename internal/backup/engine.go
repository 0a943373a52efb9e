// Package backup reconciles the local durable store with the remote
// backup store, one direction at a time: merge-on-write backup after
// local writes, restore-on-demand import after sign-in.
package backup

import (
	"context"
	"fmt"

	"github.com/screenkeep/screenkeep/internal/constants"
	"github.com/screenkeep/screenkeep/internal/models"
	"github.com/screenkeep/screenkeep/internal/remote"
	"github.com/screenkeep/screenkeep/internal/storage"
)

// Engine mediates between the local store and the remote document store.
// It reads and writes records only through the storage provider and never
// holds a second copy, and it never recomputes derived state.
type Engine struct {
	store  storage.Provider
	remote remote.Store
}

func NewEngine(store storage.Provider, remoteStore remote.Store) *Engine {
	return &Engine{store: store, remote: remoteStore}
}

// BackupDailyUsage writes one day of usage to the remote store under
// merge semantics: only the date and appUsages fields are set, leaving
// any remote fields the engine does not know about intact. Anonymous
// users are skipped outright.
func (e *Engine) BackupDailyUsage(ctx context.Context, rec models.DailyUsage) error {
	if rec.UID == constants.AnonymousUID {
		return nil
	}

	fields := map[string]interface{}{
		"date":      rec.Date,
		"appUsages": rec.AppUsages,
	}
	if err := e.remote.Set(ctx, rec.UID, constants.CollectionDailyRecords, rec.Date, fields, true); err != nil {
		return fmt.Errorf("daily usage backup failed: %w", err)
	}
	return nil
}

// BackupGoal writes one goal ledger record to the remote store. Anonymous
// users are skipped, and so is any record with a non-positive goal: a
// transient local zero must not erase a meaningful remote goal.
func (e *Engine) BackupGoal(ctx context.Context, rec models.GoalRecord) error {
	if rec.UID == constants.AnonymousUID {
		return nil
	}
	if rec.GoalMinutes <= 0 {
		return nil
	}

	pkg := rec.Package
	if pkg == "" {
		pkg = constants.OverallPackage
	}
	docID := rec.EffectiveDate + "_" + pkg

	fields := map[string]interface{}{
		"effectiveDate": rec.EffectiveDate,
		"packageName":   pkg,
		"goalMinutes":   rec.GoalMinutes,
	}
	if err := e.remote.Set(ctx, rec.UID, constants.CollectionGoalHistory, docID, fields, true); err != nil {
		return fmt.Errorf("goal backup failed: %w", err)
	}
	return nil
}

// BackupTracking writes one tracked-set snapshot to the remote store.
// Anonymous users are skipped, and so is an empty set: an empty local
// snapshot must not erase a populated remote one.
func (e *Engine) BackupTracking(ctx context.Context, rec models.TrackingRecord) error {
	if rec.UID == constants.AnonymousUID {
		return nil
	}
	if len(rec.TrackedPackages) == 0 {
		return nil
	}

	fields := map[string]interface{}{
		"effectiveDate":   rec.EffectiveDate,
		"trackedPackages": rec.TrackedPackages,
	}
	if err := e.remote.Set(ctx, rec.UID, constants.CollectionTrackingHistory, rec.EffectiveDate, fields, true); err != nil {
		return fmt.Errorf("tracking backup failed: %w", err)
	}
	return nil
}
