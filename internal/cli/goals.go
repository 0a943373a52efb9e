package cli

import (
	"fmt"
	"time"

	"github.com/screenkeep/screenkeep/internal/constants"
	"github.com/screenkeep/screenkeep/internal/ledger"
)

// GoalSetCmd appends a goal effective today. Without --package it sets
// the overall (cross-app) goal.
type GoalSetCmd struct {
	Minutes int    `arg:"" help:"Daily goal in minutes. 0 clears the goal for lookups."`
	Package string `help:"Package id for a per-app goal; omit for the overall goal." short:"p"`
}

func (c *GoalSetCmd) Run(appCtx *Context) error {
	if err := appCtx.Service.SetGoal(appCtx.Background(), c.Package, c.Minutes); err != nil {
		return err
	}
	if c.Package == "" {
		fmt.Printf("Overall goal set to %d min/day\n", c.Minutes)
	} else {
		fmt.Printf("Goal for %s set to %d min/day\n", c.Package, c.Minutes)
	}
	return nil
}

// GoalListCmd prints the goals in force today for every package that has
// ever had one, plus the overall goal.
type GoalListCmd struct {
	Date string `help:"Resolve goals as of this date (YYYY-MM-DD) instead of today."`
}

func (c *GoalListCmd) Run(appCtx *Context) error {
	uid := appCtx.Identity.CurrentUID()
	target := c.Date
	if target == "" {
		target = todayString()
	}

	goals := ledger.NewGoalLedger(appCtx.Store)

	overall, err := goals.Resolve(uid, "", target)
	if err != nil {
		return err
	}
	if overall != nil {
		fmt.Printf("overall: %d min/day (since %s)\n", overall.GoalMinutes, overall.EffectiveDate)
	} else {
		fmt.Println("overall: not set")
	}

	packages, err := appCtx.Store.GoalPackages(uid)
	if err != nil {
		return err
	}
	for _, pkg := range packages {
		rec, err := goals.Resolve(uid, pkg, target)
		if err != nil {
			return err
		}
		if rec == nil {
			continue
		}
		fmt.Printf("%s: %d min/day (since %s)\n", pkg, rec.GoalMinutes, rec.EffectiveDate)
	}
	return nil
}

func todayString() string {
	return time.Now().Format(constants.DateFormat)
}
