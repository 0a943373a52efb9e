package backup

import (
	"context"

	"github.com/screenkeep/screenkeep/internal/constants"
	"github.com/screenkeep/screenkeep/internal/models"
)

// CollectionResult reports the outcome of restoring one remote
// collection. An empty remote collection is a normal outcome: Restored
// stays false and Err stays nil.
type CollectionResult struct {
	Restored bool
	Count    int
	Err      error
}

// RestoreResult reports restore outcomes per collection. The three
// collections are independent; a failure in one does not roll back the
// others.
type RestoreResult struct {
	Daily    CollectionResult
	Goals    CollectionResult
	Tracking CollectionResult
}

// Ok reports whether no collection failed. Collections that were simply
// empty still count as ok.
func (r RestoreResult) Ok() bool {
	return r.Daily.Err == nil && r.Goals.Err == nil && r.Tracking.Err == nil
}

// Restore imports every remote collection into the local store under the
// given uid. Remote documents are upserted; missing optional fields fall
// back to the document id. Anonymous users have no remote data and
// restore nothing. The caller re-runs the aggregation pipeline afterwards;
// the engine itself never touches derived state.
func (e *Engine) Restore(ctx context.Context, uid string) RestoreResult {
	var result RestoreResult
	if uid == constants.AnonymousUID {
		return result
	}

	result.Daily = e.restoreDaily(ctx, uid)
	result.Goals = e.restoreGoals(ctx, uid)
	result.Tracking = e.restoreTracking(ctx, uid)
	return result
}

func (e *Engine) restoreDaily(ctx context.Context, uid string) CollectionResult {
	docs, err := e.remote.Get(ctx, uid, constants.CollectionDailyRecords)
	if err != nil {
		return CollectionResult{Err: err}
	}
	if len(docs) == 0 {
		return CollectionResult{}
	}

	count := 0
	for _, doc := range docs {
		rec := models.DailyUsage{
			UID:       uid,
			Date:      doc.String("date", doc.ID),
			AppUsages: doc.StringMap("appUsages"),
		}
		if err := e.store.UpsertDailyUsage(rec); err != nil {
			return CollectionResult{Restored: count > 0, Count: count, Err: err}
		}
		count++
	}
	return CollectionResult{Restored: true, Count: count}
}

func (e *Engine) restoreGoals(ctx context.Context, uid string) CollectionResult {
	docs, err := e.remote.Get(ctx, uid, constants.CollectionGoalHistory)
	if err != nil {
		return CollectionResult{Err: err}
	}
	if len(docs) == 0 {
		return CollectionResult{}
	}

	count := 0
	for _, doc := range docs {
		pkg := doc.String("packageName", "")
		if pkg == constants.OverallPackage {
			pkg = ""
		}
		rec := models.GoalRecord{
			UID:           uid,
			EffectiveDate: doc.String("effectiveDate", doc.ID),
			Package:       pkg,
			GoalMinutes:   doc.Int("goalMinutes"),
		}
		if err := e.store.InsertGoal(rec); err != nil {
			return CollectionResult{Restored: count > 0, Count: count, Err: err}
		}
		count++
	}
	return CollectionResult{Restored: true, Count: count}
}

func (e *Engine) restoreTracking(ctx context.Context, uid string) CollectionResult {
	docs, err := e.remote.Get(ctx, uid, constants.CollectionTrackingHistory)
	if err != nil {
		return CollectionResult{Err: err}
	}
	if len(docs) == 0 {
		return CollectionResult{}
	}

	count := 0
	for _, doc := range docs {
		rec := models.TrackingRecord{
			UID:             uid,
			EffectiveDate:   doc.String("effectiveDate", doc.ID),
			TrackedPackages: doc.StringSlice("trackedPackages"),
		}
		if err := e.store.InsertTracking(rec); err != nil {
			return CollectionResult{Restored: count > 0, Count: count, Err: err}
		}
		count++
	}
	return CollectionResult{Restored: true, Count: count}
}
