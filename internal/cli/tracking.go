package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/screenkeep/screenkeep/internal/constants"
	"github.com/screenkeep/screenkeep/internal/ledger"
)

// TrackSetCmd appends a tracking entry effective today, replacing the
// effective tracked set from today onward.
type TrackSetCmd struct {
	Packages []string `arg:"" optional:"" help:"Package ids to track. Pass none to clear the tracked set."`
}

func (c *TrackSetCmd) Run(appCtx *Context) error {
	if err := appCtx.Service.SetTrackedPackages(appCtx.Background(), c.Packages); err != nil {
		return err
	}
	if len(c.Packages) == 0 {
		fmt.Println("Tracked set cleared")
		return nil
	}
	fmt.Printf("Tracking %d package(s)\n", len(c.Packages))
	return nil
}

// TrackShowCmd prints the tracked set effective on a given date, or the
// full ledger of set changes over the recent window.
type TrackShowCmd struct {
	Date    string `help:"Date (YYYY-MM-DD) to resolve against; defaults to today." short:"d"`
	History bool   `help:"List every tracked-set change in the last 30 days instead."`
}

func (c *TrackShowCmd) Run(appCtx *Context) error {
	uid := appCtx.Identity.CurrentUID()
	tracking := ledger.NewTrackingLedger(appCtx.Store)

	if c.History {
		end := todayString()
		start := time.Now().AddDate(0, 0, -constants.HistoryDays).Format(constants.DateFormat)
		changes, err := tracking.Range(uid, start, end)
		if err != nil {
			return err
		}
		if len(changes) == 0 {
			fmt.Println("No tracked-set changes in the last 30 days")
			return nil
		}
		for _, rec := range changes {
			fmt.Printf("%s: %s\n", rec.EffectiveDate, strings.Join(rec.TrackedPackages, ", "))
		}
		return nil
	}

	date := c.Date
	if date == "" {
		date = todayString()
	}
	rec, err := tracking.Resolve(uid, date)
	if err != nil {
		return err
	}
	if rec == nil || len(rec.TrackedPackages) == 0 {
		fmt.Printf("No packages tracked on %s\n", date)
		return nil
	}
	fmt.Printf("Tracked on %s (effective %s):\n", date, rec.EffectiveDate)
	fmt.Printf("  %s\n", strings.Join(rec.TrackedPackages, "\n  "))
	return nil
}
