package usage

import (
	"context"
	"time"
)

// EventType classifies a platform usage event.
type EventType string

const (
	// EventForegroundStart marks an app moving to the foreground.
	EventForegroundStart EventType = "foreground_start"
	// EventForegroundStop marks an app leaving the foreground.
	EventForegroundStop EventType = "foreground_stop"
	// EventScreenOff marks a device-wide background transition: every
	// foreground app stops at this instant.
	EventScreenOff EventType = "screen_off"
)

// Event is one timestamped transition from the platform event feed.
// Package is empty for screen-off events.
type Event struct {
	Type    EventType `json:"type"`
	Package string    `json:"package,omitempty"`
	Time    time.Time `json:"time"`
}

// Source is the injected platform usage feed. Events returns the ordered
// event sequence covering [start, end); DailyTotals is the coarser
// per-package minute statistic over the same window, used as the degraded
// fallback when the event feed is empty.
type Source interface {
	Events(ctx context.Context, start, end time.Time) ([]Event, error)
	DailyTotals(ctx context.Context, start, end time.Time) (map[string]int, error)
}

// StaticSource serves a fixed event sequence and totals map. It backs
// tests and offline replays.
type StaticSource struct {
	EventList []Event
	Totals    map[string]int
}

func (s *StaticSource) Events(ctx context.Context, start, end time.Time) ([]Event, error) {
	var out []Event
	for _, ev := range s.EventList {
		if ev.Time.Before(start) || !ev.Time.Before(end) {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

func (s *StaticSource) DailyTotals(ctx context.Context, start, end time.Time) (map[string]int, error) {
	totals := make(map[string]int, len(s.Totals))
	for pkg, minutes := range s.Totals {
		totals[pkg] = minutes
	}
	return totals, nil
}
