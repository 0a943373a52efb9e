// Package service composes the aggregation pipeline: usage window →
// local store → ledgers and streaks → per-app snapshots. It is the
// explicit composition root for the engine; every collaborator is
// injected and nothing here is a package singleton.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/screenkeep/screenkeep/internal/backup"
	"github.com/screenkeep/screenkeep/internal/constants"
	"github.com/screenkeep/screenkeep/internal/identity"
	"github.com/screenkeep/screenkeep/internal/ledger"
	"github.com/screenkeep/screenkeep/internal/logger"
	"github.com/screenkeep/screenkeep/internal/models"
	"github.com/screenkeep/screenkeep/internal/storage"
	"github.com/screenkeep/screenkeep/internal/streak"
	"github.com/screenkeep/screenkeep/internal/usage"
)

// Snapshot is the full derived view for one user and day: the per-app
// list plus the overall totals pair. Built fresh on every pass, never
// persisted.
type Snapshot struct {
	UID         string               `json:"uid"`
	Date        string               `json:"date"`
	PerApp      []models.AppSnapshot `json:"per_app"`
	TotalUsage  int                  `json:"total_usage"`
	TotalGoal   int                  `json:"total_goal"`
	GeneratedAt time.Time            `json:"generated_at"`
}

// Service owns the pipeline and the operations exposed to the UI
// collaborator.
type Service struct {
	store      storage.Provider
	aggregator *usage.Aggregator
	ident      identity.Provider
	engine     *backup.Engine
	goals      *ledger.GoalLedger
	tracking   *ledger.TrackingLedger

	now func() time.Time

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex // at most one refresh pass per uid

	snapMu sync.RWMutex
	last   *Snapshot

	subMu sync.Mutex
	subs  map[string]chan Snapshot
}

func New(store storage.Provider, aggregator *usage.Aggregator, ident identity.Provider, engine *backup.Engine) *Service {
	return &Service{
		store:      store,
		aggregator: aggregator,
		ident:      ident,
		engine:     engine,
		goals:      ledger.NewGoalLedger(store),
		tracking:   ledger.NewTrackingLedger(store),
		now:        time.Now,
		locks:      map[string]*sync.Mutex{},
		subs:       map[string]chan Snapshot{},
	}
}

func (s *Service) uidLock(uid string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	lock, ok := s.locks[uid]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[uid] = lock
	}
	return lock
}

func (s *Service) today() (time.Time, string) {
	now := s.now()
	return now, now.Format(constants.DateFormat)
}

// Refresh runs one full aggregation pass for the current user: aggregate
// today's window, upsert the daily record, back it up fire-and-forget,
// and rebuild the snapshot. Concurrent passes for the same uid are
// serialized.
func (s *Service) Refresh(ctx context.Context) (Snapshot, error) {
	uid := s.ident.CurrentUID()
	lock := s.uidLock(uid)
	lock.Lock()
	defer lock.Unlock()

	now, today := s.today()
	windowStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	usageMap, err := s.aggregator.Window(ctx, windowStart, now)
	if err != nil {
		return Snapshot{}, fmt.Errorf("usage aggregation failed: %w", err)
	}

	rec := models.DailyUsage{UID: uid, Date: today, AppUsages: usageMap}
	if err := s.store.UpsertDailyUsage(rec); err != nil {
		return Snapshot{}, fmt.Errorf("failed to store daily usage: %w", err)
	}
	s.backupAsync(ctx, "daily usage", func(ctx context.Context) error {
		return s.engine.BackupDailyUsage(ctx, rec)
	})

	snap, err := s.buildSnapshot(now, today, uid, usageMap)
	if err != nil {
		return Snapshot{}, err
	}

	s.publish(snap)
	return snap, nil
}

// buildSnapshot assembles the derived view from stored history, the
// ledgers, and today's usage map.
func (s *Service) buildSnapshot(now time.Time, today, uid string, usageMap map[string]int) (Snapshot, error) {
	historyStart := now.AddDate(0, 0, -constants.HistoryDays).Format(constants.DateFormat)
	history, err := s.store.GetDailyUsages(uid, historyStart, today)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load usage history: %w", err)
	}
	var pastDays []models.DailyUsage
	for _, day := range history {
		if day.Date != today {
			pastDays = append(pastDays, day)
		}
	}

	trackedRec, err := s.tracking.Latest(uid)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load tracked packages: %w", err)
	}
	tracked := map[string]struct{}{}
	if trackedRec != nil {
		tracked = trackedRec.PackageSet()
	}

	goalPackages, err := s.store.GoalPackages(uid)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load goal packages: %w", err)
	}

	packages := map[string]struct{}{}
	for pkg := range tracked {
		packages[pkg] = struct{}{}
	}
	for pkg := range usageMap {
		packages[pkg] = struct{}{}
	}
	for _, pkg := range goalPackages {
		packages[pkg] = struct{}{}
	}

	goals := make(map[string]int, len(packages))
	for pkg := range packages {
		minutes, err := s.goals.ResolveMinutes(uid, pkg, today)
		if err != nil {
			return Snapshot{}, fmt.Errorf("failed to resolve goal for %s: %w", pkg, err)
		}
		goals[pkg] = minutes
	}

	pastStreaks := streak.Past(pastDays, goals)

	perApp := make([]models.AppSnapshot, 0, len(packages))
	for _, pkg := range sortedKeys(packages) {
		todayMinutes := usageMap[pkg]
		goal := goals[pkg]

		finalStreak := 0
		if goal > 0 {
			finalStreak = streak.ExtendToday(pastStreaks[pkg], todayMinutes <= goal)
		}

		perApp = append(perApp, models.AppSnapshot{
			Package:      pkg,
			TodayMinutes: todayMinutes,
			GoalMinutes:  goal,
			Streak:       finalStreak,
		})
	}

	// Totals cover tracked packages only; with nothing tracked they stay
	// zero. An explicitly-set overall goal wins over the per-app sum.
	totalUsage := 0
	autoGoal := 0
	for pkg := range tracked {
		totalUsage += usageMap[pkg]
		autoGoal += goals[pkg]
	}
	totalGoal := autoGoal
	overall, err := s.goals.Resolve(uid, "", today)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to resolve overall goal: %w", err)
	}
	if overall != nil {
		totalGoal = overall.GoalMinutes
	}

	return Snapshot{
		UID:         uid,
		Date:        today,
		PerApp:      perApp,
		TotalUsage:  totalUsage,
		TotalGoal:   totalGoal,
		GeneratedAt: now,
	}, nil
}

// backupAsync runs a backup call detached from the triggering operation.
// The local write is already durable; a failed backup is logged and
// swallowed, never surfaced to the caller.
func (s *Service) backupAsync(ctx context.Context, what string, fn func(context.Context) error) {
	detached := context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(detached, constants.RemoteTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			logger.Warn("backup not delivered", "record", what, "error", err)
		}
	}()
}
