package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/screenkeep/screenkeep/internal/ledger"
)

// HistoryCmd prints recent daily usage, newest first, with each day's
// tracked total judged against the goals in force on that day.
type HistoryCmd struct {
	Days int  `help:"How many days back to show." default:"7"`
	JSON bool `help:"Emit the history as JSON."`
}

type historyDay struct {
	Date         string         `json:"date"`
	AppUsages    map[string]int `json:"app_usages"`
	TrackedTotal int            `json:"tracked_total"`
	TotalGoal    int            `json:"total_goal"`
}

func (c *HistoryCmd) Run(appCtx *Context) error {
	uid := appCtx.Identity.CurrentUID()

	records, err := appCtx.Store.GetRecentDailyUsages(uid, c.Days)
	if err != nil {
		return err
	}

	goals := ledger.NewGoalLedger(appCtx.Store)
	tracking := ledger.NewTrackingLedger(appCtx.Store)

	days := make([]historyDay, 0, len(records))
	for _, rec := range records {
		trackedRec, err := tracking.Resolve(uid, rec.Date)
		if err != nil {
			return err
		}
		tracked := map[string]struct{}{}
		if trackedRec != nil {
			tracked = trackedRec.PackageSet()
		}

		totalGoal := 0
		overall, err := goals.Resolve(uid, "", rec.Date)
		if err != nil {
			return err
		}
		if overall != nil {
			totalGoal = overall.GoalMinutes
		} else {
			for pkg := range tracked {
				minutes, err := goals.ResolveMinutes(uid, pkg, rec.Date)
				if err != nil {
					return err
				}
				totalGoal += minutes
			}
		}

		days = append(days, historyDay{
			Date:         rec.Date,
			AppUsages:    rec.AppUsages,
			TrackedTotal: rec.TotalMinutes(tracked),
			TotalGoal:    totalGoal,
		})
	}

	if c.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(days)
	}

	if len(days) == 0 {
		fmt.Println("No usage recorded yet")
		return nil
	}
	for _, day := range days {
		fmt.Printf("%s  %4d min", day.Date, day.TrackedTotal)
		if day.TotalGoal > 0 {
			fmt.Printf(" / goal %d min", day.TotalGoal)
		}
		fmt.Println()
	}

	printGoalChanges(goals, uid, days)
	return nil
}

// printGoalChanges annotates the window with any goal edits that took
// effect inside it.
func printGoalChanges(goals *ledger.GoalLedger, uid string, days []historyDay) {
	if len(days) == 0 {
		return
	}
	// days arrive newest first.
	start, end := days[len(days)-1].Date, days[0].Date
	changes, err := goals.Range(uid, start, end)
	if err != nil || len(changes) == 0 {
		return
	}

	fmt.Println()
	for _, change := range changes {
		label := change.Package
		if change.Overall() {
			label = "overall"
		}
		fmt.Printf("  %s: %s goal set to %d min/day\n", change.EffectiveDate, label, change.GoalMinutes)
	}
}
