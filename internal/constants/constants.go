package constants

import "time"

const (
	AppName            = "screenkeep"
	DefaultKeyringUser = "remote-connection"
	DefaultConfigPath  = "~/.config/screenkeep/screenkeep.db"
	Version            = "v0.3.1"

	// DateFormat is the standard calendar-day format used throughout the
	// application (YYYY-MM-DD). All records are keyed on day strings in
	// this format so lexical ordering matches chronological ordering.
	DateFormat = "2006-01-02"

	// AnonymousUID is the sentinel uid for unauthenticated use. Records
	// written under it stay local and are never backed up.
	AnonymousUID = "anonymous"

	// OverallPackage is the document-id placeholder used when a goal
	// record has no package (a cross-app goal).
	OverallPackage = "overall"

	// Remote collection names. These match the layout of the remote
	// document store: users/{uid}/{collection}/{docID}.
	CollectionDailyRecords    = "dailyRecords"
	CollectionGoalHistory     = "goalHistory"
	CollectionTrackingHistory = "trackingHistory"

	// HistoryDays is how far back the refresh pipeline loads daily usage
	// for streak computation and trend views.
	HistoryDays = 30

	// DefaultRefreshInterval is the period of the background aggregation
	// pass run by the watch command.
	DefaultRefreshInterval = 15 * time.Minute

	// RemoteTimeout bounds every call against the remote backup store.
	RemoteTimeout = 10 * time.Second
)
