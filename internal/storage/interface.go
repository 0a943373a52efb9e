package storage

import "github.com/screenkeep/screenkeep/internal/models"

// Provider is the local durable store. It exclusively owns record
// lifetime: daily usage rows are upserted, the two ledgers are
// append-only, and nothing is ever deleted by the engine.
//
// "Effective" queries resolve a ledger as of a target date: the record
// with the greatest effective date not after the target, ties broken by
// insertion order. They return nil (not an error) when no record
// qualifies.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Daily usage
	UpsertDailyUsage(models.DailyUsage) error
	GetDailyUsage(uid, date string) (*models.DailyUsage, error)
	GetDailyUsages(uid, startDate, endDate string) ([]models.DailyUsage, error)
	GetRecentDailyUsages(uid string, limit int) ([]models.DailyUsage, error)

	// Goal ledger
	InsertGoal(models.GoalRecord) error
	EffectiveAppGoal(uid, pkg, targetDate string) (*models.GoalRecord, error)
	EffectiveOverallGoal(uid, targetDate string) (*models.GoalRecord, error)
	GoalsInRange(uid, startDate, endDate string) ([]models.GoalRecord, error)
	GoalPackages(uid string) ([]string, error)

	// Tracking ledger
	InsertTracking(models.TrackingRecord) error
	EffectiveTracking(uid, targetDate string) (*models.TrackingRecord, error)
	LatestTracking(uid string) (*models.TrackingRecord, error)
	TrackingInRange(uid, startDate, endDate string) ([]models.TrackingRecord, error)
}
