package usage

import (
	"context"
	"time"

	"github.com/screenkeep/screenkeep/internal/logger"
)

// AggregateEvents folds an ordered event sequence into per-package
// elapsed minutes. A foreground-start while the package is already open
// restarts its open interval without crediting the orphaned span. A stop
// without an open start is a no-op, so closing an already-closed package
// is idempotent. Screen-off closes every open package at the event time.
// Anything still open at windowEnd is closed against windowEnd. Negative
// durations (clock skew) are discarded, never subtracted.
func AggregateEvents(events []Event, windowEnd time.Time) map[string]int {
	elapsed := map[string]time.Duration{}
	open := map[string]time.Time{}

	for _, ev := range events {
		switch ev.Type {
		case EventForegroundStart:
			open[ev.Package] = ev.Time

		case EventForegroundStop:
			start, ok := open[ev.Package]
			if !ok {
				continue
			}
			if d := ev.Time.Sub(start); d > 0 {
				elapsed[ev.Package] += d
			}
			delete(open, ev.Package)

		case EventScreenOff:
			for pkg, start := range open {
				if d := ev.Time.Sub(start); d > 0 {
					elapsed[pkg] += d
				}
			}
			clear(open)
		}
	}

	for pkg, start := range open {
		if d := windowEnd.Sub(start); d > 0 {
			elapsed[pkg] += d
		}
	}

	minutes := make(map[string]int, len(elapsed))
	for pkg, d := range elapsed {
		if m := int(d.Milliseconds() / (1000 * 60)); m > 0 {
			minutes[pkg] = m
		}
	}
	return minutes
}

// Aggregator computes per-package usage minutes for a window from an
// injected platform source.
type Aggregator struct {
	source Source
	// ExcludePackages are dropped from every result (the host app and
	// the launcher, typically).
	ExcludePackages []string
}

func NewAggregator(source Source) *Aggregator {
	return &Aggregator{source: source}
}

// Window returns per-package minutes for [start, end). When the event
// stream yields nothing it falls back to the source's coarser daily
// totals over the same window; fallback output is indistinguishable from
// the primary path.
func (a *Aggregator) Window(ctx context.Context, start, end time.Time) (map[string]int, error) {
	events, err := a.source.Events(ctx, start, end)
	if err != nil {
		return nil, err
	}

	minutes := AggregateEvents(events, end)
	if len(minutes) == 0 {
		totals, err := a.source.DailyTotals(ctx, start, end)
		if err != nil {
			return nil, err
		}
		logger.Debug("event stream empty, merged daily totals", "packages", len(totals))
		minutes = map[string]int{}
		for pkg, m := range totals {
			if m > 0 {
				minutes[pkg] = m
			}
		}
	}

	for _, pkg := range a.ExcludePackages {
		delete(minutes, pkg)
	}
	return minutes, nil
}
