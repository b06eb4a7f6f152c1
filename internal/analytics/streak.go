package analytics

import (
	"sort"
	"time"

	"github.com/saadjs/mealwise/internal/model"
)

type Streak struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// CalculateStreak counts consecutive logged days. The current streak is
// alive if the run reaches today or yesterday (one day of grace) and is 0
// otherwise, so the same log can yield different values as now advances.
// Entries with unparseable dates are ignored.
func CalculateStreak(entries []model.IntakeEntry, now time.Time) Streak {
	logged := make(map[time.Time]struct{})
	for _, e := range entries {
		d, err := time.Parse(DateLayout, e.Date)
		if err != nil {
			continue
		}
		logged[d] = struct{}{}
	}
	if len(logged) == 0 {
		return Streak{}
	}

	dates := make([]time.Time, 0, len(logged))
	for d := range logged {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	longest, run := 1, 1
	for i := 1; i < len(dates); i++ {
		if daysBetween(dates[i-1], dates[i]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	today := civilDay(now)
	anchor := today
	if _, ok := logged[anchor]; !ok {
		anchor = today.AddDate(0, 0, -1)
		if _, ok := logged[anchor]; !ok {
			return Streak{Current: 0, Longest: longest}
		}
	}
	current := 0
	for d := anchor; ; d = d.AddDate(0, 0, -1) {
		if _, ok := logged[d]; !ok {
			break
		}
		current++
	}
	return Streak{Current: current, Longest: longest}
}

// civilDay maps now's local calendar day onto a UTC midnight so it compares
// equal to dates parsed from the log.
func civilDay(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
