package usage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// FileSource reads a captured platform feed from a JSON file, so the CLI
// can run the pipeline against exported usage data. The file holds the
// ordered event list and, optionally, the coarse daily totals used by the
// fallback path:
//
//	{
//	  "events": [{"type": "foreground_start", "package": "app.a", "time": "..."}],
//	  "daily_totals": {"app.a": 42}
//	}
type FileSource struct {
	path string
}

type feedFile struct {
	Events      []Event        `json:"events"`
	DailyTotals map[string]int `json:"daily_totals"`
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (f *FileSource) load() (*feedFile, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read usage feed: %w", err)
	}
	var feed feedFile
	if err := json.Unmarshal(data, &feed); err != nil {
		return nil, fmt.Errorf("failed to parse usage feed %s: %w", f.path, err)
	}
	return &feed, nil
}

func (f *FileSource) Events(ctx context.Context, start, end time.Time) ([]Event, error) {
	feed, err := f.load()
	if err != nil {
		return nil, err
	}
	var out []Event
	for _, ev := range feed.Events {
		if ev.Time.Before(start) || !ev.Time.Before(end) {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

func (f *FileSource) DailyTotals(ctx context.Context, start, end time.Time) (map[string]int, error) {
	feed, err := f.load()
	if err != nil {
		return nil, err
	}
	if feed.DailyTotals == nil {
		return map[string]int{}, nil
	}
	return feed.DailyTotals, nil
}
