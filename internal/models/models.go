package models

// DailyUsage is one day of per-app usage minutes for a user. There is at
// most one record per (uid, date); writes are upserts and a later write
// replaces the prior value wholesale.
type DailyUsage struct {
	UID       string         `json:"uid"`
	Date      string         `json:"date"` // YYYY-MM-DD
	AppUsages map[string]int `json:"app_usages"`
}

// Minutes returns the recorded usage for a package. An absent key means
// zero usage.
func (d DailyUsage) Minutes(pkg string) int {
	return d.AppUsages[pkg]
}

// TotalMinutes sums usage across the given packages. A nil or empty
// package set sums nothing.
func (d DailyUsage) TotalMinutes(packages map[string]struct{}) int {
	total := 0
	for pkg, minutes := range d.AppUsages {
		if _, ok := packages[pkg]; ok {
			total += minutes
		}
	}
	return total
}

// GoalRecord is one effective-dated entry in the goal ledger. An empty
// Package denotes the overall (cross-app) goal. Records are never mutated
// in place; changing a goal appends a new record with a later (or equal)
// effective date.
type GoalRecord struct {
	UID           string `json:"uid"`
	EffectiveDate string `json:"effective_date"` // YYYY-MM-DD
	Package       string `json:"package,omitempty"`
	GoalMinutes   int    `json:"goal_minutes"`
}

// Overall reports whether this record is the cross-app goal.
func (g GoalRecord) Overall() bool {
	return g.Package == ""
}

// TrackingRecord is one effective-dated snapshot of the user's tracked
// package set. Keyed by uid only; the ledger resolution rule is the same
// as for goals.
type TrackingRecord struct {
	UID             string   `json:"uid"`
	EffectiveDate   string   `json:"effective_date"` // YYYY-MM-DD
	TrackedPackages []string `json:"tracked_packages"`
}

// PackageSet returns the tracked packages as a set.
func (t TrackingRecord) PackageSet() map[string]struct{} {
	set := make(map[string]struct{}, len(t.TrackedPackages))
	for _, pkg := range t.TrackedPackages {
		set[pkg] = struct{}{}
	}
	return set
}

// AppSnapshot is the derived per-app view handed to the UI collaborator.
// It is rebuilt on every aggregation pass and never persisted.
type AppSnapshot struct {
	Package      string `json:"package"`
	TodayMinutes int    `json:"today_minutes"`
	GoalMinutes  int    `json:"goal_minutes"`
	// Streak is signed: positive counts consecutive success days,
	// negative consecutive failure days, including today.
	Streak int `json:"streak"`
}
