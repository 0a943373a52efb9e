package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/screenkeep/screenkeep/internal/service"
)

// RefreshCmd runs one aggregation pass and prints the resulting
// snapshot.
type RefreshCmd struct {
	JSON bool `help:"Emit the snapshot as JSON."`
}

func (c *RefreshCmd) Run(appCtx *Context) error {
	snap, err := appCtx.Service.Refresh(appCtx.Background())
	if err != nil {
		return err
	}
	return printSnapshot(snap, c.JSON)
}

// SnapshotCmd prints the most recent snapshot without forcing a new
// pass, falling back to a fresh pass when none exists yet.
type SnapshotCmd struct {
	JSON bool `help:"Emit the snapshot as JSON."`
}

func (c *SnapshotCmd) Run(appCtx *Context) error {
	snap, ok := appCtx.Service.CurrentSnapshot()
	if !ok {
		var err error
		snap, err = appCtx.Service.Refresh(appCtx.Background())
		if err != nil {
			return err
		}
	}
	return printSnapshot(snap, c.JSON)
}

func printSnapshot(snap service.Snapshot, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}

	fmt.Printf("%s (%s)\n", snap.Date, snap.UID)
	if len(snap.PerApp) == 0 {
		fmt.Println("  no tracked usage")
	}
	for _, app := range snap.PerApp {
		fmt.Printf("  %-40s %4d min", app.Package, app.TodayMinutes)
		if app.GoalMinutes > 0 {
			fmt.Printf(" / goal %d min, streak %+d", app.GoalMinutes, app.Streak)
		}
		fmt.Println()
	}
	fmt.Printf("  total: %d min / goal %d min\n", snap.TotalUsage, snap.TotalGoal)
	return nil
}
