// Package ledger exposes effective-dated resolution over the append-only
// goal and tracking histories. A record is valid from its effective date
// onward until superseded by a later record for the same key; resolving
// "as of" a date takes the record with the greatest effective date not
// after it, ties broken by insertion order. The ledgers hold no state of
// their own.
package ledger

import (
	"github.com/screenkeep/screenkeep/internal/models"
	"github.com/screenkeep/screenkeep/internal/storage"
)

// GoalLedger resolves goal records. The empty package key addresses the
// overall (cross-app) goal.
type GoalLedger struct {
	store storage.Provider
}

func NewGoalLedger(store storage.Provider) *GoalLedger {
	return &GoalLedger{store: store}
}

// Resolve returns the goal in force on targetDate for (uid, pkg), or nil
// when no record qualifies.
func (l *GoalLedger) Resolve(uid, pkg, targetDate string) (*models.GoalRecord, error) {
	if pkg == "" {
		return l.store.EffectiveOverallGoal(uid, targetDate)
	}
	return l.store.EffectiveAppGoal(uid, pkg, targetDate)
}

// ResolveMinutes is Resolve collapsed to a plain minute count; a missing
// record resolves to zero (no goal).
func (l *GoalLedger) ResolveMinutes(uid, pkg, targetDate string) (int, error) {
	record, err := l.Resolve(uid, pkg, targetDate)
	if err != nil || record == nil {
		return 0, err
	}
	return record.GoalMinutes, nil
}

// Range returns every goal record with effective date in
// [startDate, endDate], ascending. Used by trend views, not by streak
// computation.
func (l *GoalLedger) Range(uid, startDate, endDate string) ([]models.GoalRecord, error) {
	return l.store.GoalsInRange(uid, startDate, endDate)
}

// TrackingLedger resolves tracked-package snapshots, keyed by uid only.
type TrackingLedger struct {
	store storage.Provider
}

func NewTrackingLedger(store storage.Provider) *TrackingLedger {
	return &TrackingLedger{store: store}
}

// Resolve returns the tracked set in force on targetDate, or nil.
func (l *TrackingLedger) Resolve(uid, targetDate string) (*models.TrackingRecord, error) {
	return l.store.EffectiveTracking(uid, targetDate)
}

// Latest returns the newest snapshot regardless of date, or nil.
func (l *TrackingLedger) Latest(uid string) (*models.TrackingRecord, error) {
	return l.store.LatestTracking(uid)
}

// Range returns every snapshot with effective date in [startDate, endDate],
// ascending.
func (l *TrackingLedger) Range(uid, startDate, endDate string) ([]models.TrackingRecord, error) {
	return l.store.TrackingInRange(uid, startDate, endDate)
}
