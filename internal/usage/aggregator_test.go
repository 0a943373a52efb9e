package usage

import (
	"context"
	"errors"
	"testing"
	"time"
)

var base = time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)

func at(minutes int) time.Time { return base.Add(time.Duration(minutes) * time.Minute) }

func TestAggregateEvents(t *testing.T) {
	t.Run("start stop pair", func(t *testing.T) {
		events := []Event{
			{Type: EventForegroundStart, Package: "app.a", Time: at(0)},
			{Type: EventForegroundStop, Package: "app.a", Time: at(12)},
		}
		got := AggregateEvents(events, at(60))
		if got["app.a"] != 12 {
			t.Errorf("app.a = %d min, want 12", got["app.a"])
		}
	})

	t.Run("open interval closes at window end", func(t *testing.T) {
		events := []Event{
			{Type: EventForegroundStart, Package: "app.a", Time: at(50)},
		}
		got := AggregateEvents(events, at(60))
		if got["app.a"] != 10 {
			t.Errorf("app.a = %d min, want 10", got["app.a"])
		}
	})

	t.Run("screen off closes every open package", func(t *testing.T) {
		events := []Event{
			{Type: EventForegroundStart, Package: "app.a", Time: at(0)},
			{Type: EventForegroundStart, Package: "app.b", Time: at(5)},
			{Type: EventScreenOff, Time: at(20)},
		}
		got := AggregateEvents(events, at(600))
		if got["app.a"] != 20 {
			t.Errorf("app.a = %d min, want 20", got["app.a"])
		}
		if got["app.b"] != 15 {
			t.Errorf("app.b = %d min, want 15", got["app.b"])
		}
	})

	t.Run("stop without start is a no-op", func(t *testing.T) {
		events := []Event{
			{Type: EventForegroundStop, Package: "app.a", Time: at(10)},
		}
		got := AggregateEvents(events, at(60))
		if len(got) != 0 {
			t.Errorf("got %v, want empty", got)
		}
	})

	t.Run("duplicate stop credits once", func(t *testing.T) {
		events := []Event{
			{Type: EventForegroundStart, Package: "app.a", Time: at(0)},
			{Type: EventForegroundStop, Package: "app.a", Time: at(10)},
			{Type: EventForegroundStop, Package: "app.a", Time: at(30)},
		}
		got := AggregateEvents(events, at(60))
		if got["app.a"] != 10 {
			t.Errorf("app.a = %d min, want 10", got["app.a"])
		}
	})

	t.Run("restart overwrites open interval without crediting", func(t *testing.T) {
		events := []Event{
			{Type: EventForegroundStart, Package: "app.a", Time: at(0)},
			{Type: EventForegroundStart, Package: "app.a", Time: at(30)},
			{Type: EventForegroundStop, Package: "app.a", Time: at(40)},
		}
		got := AggregateEvents(events, at(60))
		if got["app.a"] != 10 {
			t.Errorf("app.a = %d min, want 10", got["app.a"])
		}
	})

	t.Run("negative duration discarded", func(t *testing.T) {
		events := []Event{
			{Type: EventForegroundStart, Package: "app.a", Time: at(30)},
			{Type: EventForegroundStop, Package: "app.a", Time: at(10)},
		}
		got := AggregateEvents(events, at(60))
		if len(got) != 0 {
			t.Errorf("got %v, want empty", got)
		}
	})

	t.Run("sub-minute usage floors to nothing", func(t *testing.T) {
		events := []Event{
			{Type: EventForegroundStart, Package: "app.a", Time: at(0)},
			{Type: EventForegroundStop, Package: "app.a", Time: at(0).Add(59 * time.Second)},
		}
		got := AggregateEvents(events, at(60))
		if len(got) != 0 {
			t.Errorf("got %v, want empty", got)
		}
	})
}

func TestAggregatorWindow(t *testing.T) {
	ctx := context.Background()

	t.Run("events outside window ignored", func(t *testing.T) {
		source := &StaticSource{EventList: []Event{
			{Type: EventForegroundStart, Package: "app.a", Time: at(-30)},
			{Type: EventForegroundStart, Package: "app.b", Time: at(5)},
			{Type: EventForegroundStop, Package: "app.b", Time: at(15)},
		}}
		agg := NewAggregator(source)
		got, err := agg.Window(ctx, at(0), at(60))
		if err != nil {
			t.Fatalf("Window() error: %v", err)
		}
		if _, ok := got["app.a"]; ok {
			t.Error("app.a started before the window, must not be counted")
		}
		if got["app.b"] != 10 {
			t.Errorf("app.b = %d min, want 10", got["app.b"])
		}
	})

	t.Run("falls back to daily totals when events empty", func(t *testing.T) {
		source := &StaticSource{Totals: map[string]int{"app.a": 42, "app.b": 0}}
		agg := NewAggregator(source)
		got, err := agg.Window(ctx, at(0), at(60))
		if err != nil {
			t.Fatalf("Window() error: %v", err)
		}
		if got["app.a"] != 42 {
			t.Errorf("app.a = %d min, want 42 from fallback", got["app.a"])
		}
		if _, ok := got["app.b"]; ok {
			t.Error("zero-minute totals must be dropped")
		}
	})

	t.Run("excluded packages dropped", func(t *testing.T) {
		source := &StaticSource{EventList: []Event{
			{Type: EventForegroundStart, Package: "app.launcher", Time: at(0)},
			{Type: EventForegroundStop, Package: "app.launcher", Time: at(10)},
			{Type: EventForegroundStart, Package: "app.a", Time: at(10)},
			{Type: EventForegroundStop, Package: "app.a", Time: at(20)},
		}}
		agg := NewAggregator(source)
		agg.ExcludePackages = []string{"app.launcher"}
		got, err := agg.Window(ctx, at(0), at(60))
		if err != nil {
			t.Fatalf("Window() error: %v", err)
		}
		if _, ok := got["app.launcher"]; ok {
			t.Error("excluded package survived aggregation")
		}
		if got["app.a"] != 10 {
			t.Errorf("app.a = %d min, want 10", got["app.a"])
		}
	})

	t.Run("source error propagates", func(t *testing.T) {
		agg := NewAggregator(failingSource{})
		if _, err := agg.Window(ctx, at(0), at(60)); err == nil {
			t.Error("Window() = nil error, want source failure")
		}
	})
}

type failingSource struct{}

func (failingSource) Events(ctx context.Context, start, end time.Time) ([]Event, error) {
	return nil, errors.New("feed unavailable")
}

func (failingSource) DailyTotals(ctx context.Context, start, end time.Time) (map[string]int, error) {
	return nil, errors.New("feed unavailable")
}
