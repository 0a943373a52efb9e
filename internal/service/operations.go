package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/screenkeep/screenkeep/internal/backup"
	"github.com/screenkeep/screenkeep/internal/logger"
	"github.com/screenkeep/screenkeep/internal/models"
)

// SetGoal appends a goal ledger record effective today. An empty pkg sets
// the overall (cross-app) goal. The pipeline re-runs so derived views
// pick up the new goal; the remote backup is fire-and-forget.
func (s *Service) SetGoal(ctx context.Context, pkg string, minutes int) error {
	if minutes < 0 {
		return fmt.Errorf("goal minutes must not be negative: %d", minutes)
	}

	uid := s.ident.CurrentUID()
	_, today := s.today()

	rec := models.GoalRecord{
		UID:           uid,
		EffectiveDate: today,
		Package:       pkg,
		GoalMinutes:   minutes,
	}
	if err := s.store.InsertGoal(rec); err != nil {
		return fmt.Errorf("failed to store goal: %w", err)
	}
	s.backupAsync(ctx, "goal", func(ctx context.Context) error {
		return s.engine.BackupGoal(ctx, rec)
	})

	_, err := s.Refresh(ctx)
	return err
}

// SetTrackedPackages appends a tracked-set snapshot effective today. An
// empty set is stored locally but neither backed up nor used to trigger
// a pipeline pass.
func (s *Service) SetTrackedPackages(ctx context.Context, packages []string) error {
	uid := s.ident.CurrentUID()
	_, today := s.today()

	deduped := dedupe(packages)
	rec := models.TrackingRecord{
		UID:             uid,
		EffectiveDate:   today,
		TrackedPackages: deduped,
	}
	if err := s.store.InsertTracking(rec); err != nil {
		return fmt.Errorf("failed to store tracked packages: %w", err)
	}
	s.backupAsync(ctx, "tracking", func(ctx context.Context) error {
		return s.engine.BackupTracking(ctx, rec)
	})

	if len(deduped) == 0 {
		return nil
	}
	_, err := s.Refresh(ctx)
	return err
}

// BackupToday pushes today's stored daily usage to the remote store,
// filtered to the tracked set when one exists. It reports backedUp =
// false without an error when the remote write did not go through
// (transient failures stay at this boundary) or when there is nothing to
// back up; only local store failures propagate.
func (s *Service) BackupToday(ctx context.Context) (bool, error) {
	uid := s.ident.CurrentUID()
	_, today := s.today()

	rec, err := s.store.GetDailyUsage(uid, today)
	if err != nil {
		return false, fmt.Errorf("failed to load today's usage: %w", err)
	}
	if rec == nil {
		return false, nil
	}

	trackedRec, err := s.tracking.Latest(uid)
	if err != nil {
		return false, fmt.Errorf("failed to load tracked packages: %w", err)
	}
	payload := *rec
	if trackedRec != nil && len(trackedRec.TrackedPackages) > 0 {
		tracked := trackedRec.PackageSet()
		filtered := map[string]int{}
		for pkg, minutes := range rec.AppUsages {
			if _, ok := tracked[pkg]; ok {
				filtered[pkg] = minutes
			}
		}
		payload.AppUsages = filtered
	}

	if err := s.engine.BackupDailyUsage(ctx, payload); err != nil {
		logger.Warn("manual backup not delivered", "date", today, "error", err)
		return false, nil
	}
	return !s.ident.IsAnonymous(), nil
}

// RestoreAfterSignIn imports the remote collections for the current user
// and then queues a fresh aggregation pass so derived views reflect the
// restored data. Partial restores are reported per collection; a failed
// collection leaves local data untouched and the pipeline proceeds with
// whatever is local.
func (s *Service) RestoreAfterSignIn(ctx context.Context) (backup.RestoreResult, error) {
	uid := s.ident.CurrentUID()

	result := s.engine.Restore(ctx, uid)
	logRestore(result)

	_, err := s.Refresh(ctx)
	return result, err
}

// BindIdentity subscribes the service to identity changes: signing in
// restores remote data and re-runs the pipeline, signing out just
// re-runs it under the anonymous uid. In-flight passes are not canceled;
// the new pass queues behind them.
func (s *Service) BindIdentity(ctx context.Context) (cancel func()) {
	return s.ident.Subscribe(func(uid string, anonymous bool) {
		go func() {
			if anonymous {
				if _, err := s.Refresh(ctx); err != nil {
					logger.Error("refresh after sign-out failed", "error", err)
				}
				return
			}
			if _, err := s.RestoreAfterSignIn(ctx); err != nil {
				logger.Error("refresh after sign-in failed", "uid", uid, "error", err)
			}
		}()
	})
}

func logRestore(result backup.RestoreResult) {
	for _, c := range []struct {
		name string
		res  backup.CollectionResult
	}{
		{"dailyRecords", result.Daily},
		{"goalHistory", result.Goals},
		{"trackingHistory", result.Tracking},
	} {
		switch {
		case c.res.Err != nil:
			logger.Warn("collection not restored", "collection", c.name, "error", c.res.Err)
		case !c.res.Restored:
			logger.Debug("nothing to restore", "collection", c.name)
		default:
			logger.Info("collection restored", "collection", c.name, "documents", c.res.Count)
		}
	}
}

func dedupe(packages []string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, pkg := range packages {
		if pkg == "" {
			continue
		}
		if _, ok := seen[pkg]; ok {
			continue
		}
		seen[pkg] = struct{}{}
		out = append(out, pkg)
	}
	sort.Strings(out)
	if out == nil {
		out = []string{}
	}
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
