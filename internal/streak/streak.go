// Package streak derives consecutive success/failure run lengths from
// daily usage records. A streak is signed: positive counts consecutive
// days the user stayed at or under the goal, negative counts consecutive
// days over it.
package streak

import (
	"sort"

	"github.com/screenkeep/screenkeep/internal/models"
)

// Past computes the signed streak per package from past days only (the
// caller excludes today). days may arrive in any order. A goal of zero or
// less never produces a streak.
func Past(days []models.DailyUsage, goals map[string]int) map[string]int {
	streaks := make(map[string]int, len(goals))

	past := sortedDescending(days)
	if len(past) == 0 {
		for pkg := range goals {
			streaks[pkg] = 0
		}
		return streaks
	}

	for pkg, goal := range goals {
		if goal <= 0 {
			streaks[pkg] = 0
			continue
		}
		streaks[pkg] = walk(past, goal, func(day models.DailyUsage) int {
			return day.Minutes(pkg)
		})
	}

	return streaks
}

// PastOverall computes the signed streak for the aggregate of the tracked
// packages, summing usage across them per day.
func PastOverall(days []models.DailyUsage, tracked map[string]struct{}, goal int) int {
	if goal <= 0 {
		return 0
	}
	past := sortedDescending(days)
	if len(past) == 0 {
		return 0
	}
	return walk(past, goal, func(day models.DailyUsage) int {
		return day.TotalMinutes(tracked)
	})
}

// walk counts the run of days, most recent first, sharing the outcome of
// the most recent day.
func walk(past []models.DailyUsage, goal int, minutes func(models.DailyUsage) int) int {
	wasSuccess := minutes(past[0]) <= goal

	run := 0
	for _, day := range past {
		if (minutes(day) <= goal) == wasSuccess {
			run++
		} else {
			break
		}
	}

	if wasSuccess {
		return run
	}
	return -run
}

// ExtendToday folds today's in-progress outcome onto a past streak. A
// success extends a success run and resets a failure run to 1; a failure
// extends a failure run and resets a success run to -1.
func ExtendToday(past int, todaySuccess bool) int {
	switch {
	case past == 0:
		if todaySuccess {
			return 1
		}
		return -1
	case past > 0:
		if todaySuccess {
			return past + 1
		}
		return -1
	default:
		if todaySuccess {
			return 1
		}
		return past - 1
	}
}

func sortedDescending(days []models.DailyUsage) []models.DailyUsage {
	out := make([]models.DailyUsage, len(days))
	copy(out, days)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})
	return out
}
