// Package analytics turns a raw intake log into day, week and month rollups
// and a short list of insights. Every function takes the reference time
// explicitly; callers pass time.Now() at the outermost layer.
package analytics

import (
	"math"
	"time"

	"github.com/saadjs/mealwise/internal/model"
)

const DateLayout = "2006-01-02"

const (
	weekDays  = 7
	monthDays = 30
)

type DayStats struct {
	Date            string  `json:"date"`
	TotalCalories   float64 `json:"totalCalories"`
	TotalProtein    float64 `json:"totalProtein"`
	CalorieGoal     float64 `json:"calorieGoal"`
	ProteinGoal     float64 `json:"proteinGoal"`
	CalorieProgress float64 `json:"calorieProgress"`
	ProteinProgress float64 `json:"proteinProgress"`
	EntryCount      int     `json:"entryCount"`
	HasData         bool    `json:"hasData"`
}

type WeekStats struct {
	Days         []DayStats `json:"days"`
	AvgCalories  float64    `json:"avgCalories"`
	AvgProtein   float64    `json:"avgProtein"`
	BestDay      *DayStats  `json:"bestDay"`
	TotalEntries int        `json:"totalEntries"`
}

type MonthStats struct {
	Days              []DayStats `json:"days"`
	TotalDaysLogged   int        `json:"totalDaysLogged"`
	CurrentStreak     int        `json:"currentStreak"`
	LongestStreak     int        `json:"longestStreak"`
	AvgCaloriesPerDay float64    `json:"avgCaloriesPerDay"`
	AvgProteinPerDay  float64    `json:"avgProteinPerDay"`
}

// CalculateDayStats sums the entries logged on date. Progress is 0 when the
// matching goal is not positive.
func CalculateDayStats(date string, entries []model.IntakeEntry, goals model.DailyGoals) DayStats {
	var day []model.IntakeEntry
	for _, e := range entries {
		if e.Date == date {
			day = append(day, e)
		}
	}
	return dayStats(date, day, goals)
}

func dayStats(date string, day []model.IntakeEntry, goals model.DailyGoals) DayStats {
	out := DayStats{
		Date:        date,
		CalorieGoal: goals.CalorieGoal,
		ProteinGoal: goals.ProteinGoal,
		EntryCount:  len(day),
		HasData:     len(day) > 0,
	}
	for _, e := range day {
		out.TotalCalories += e.Calories
		out.TotalProtein += e.Protein
	}
	out.CalorieProgress = progress(out.TotalCalories, goals.CalorieGoal)
	out.ProteinProgress = progress(out.TotalProtein, goals.ProteinGoal)
	return out
}

// LastNDaysStats returns exactly n days, oldest first, ending on the
// calendar day of now in now's location.
func LastNDaysStats(entries []model.IntakeEntry, goals model.DailyGoals, n int, now time.Time) []DayStats {
	if n <= 0 {
		return []DayStats{}
	}
	byDate := make(map[string][]model.IntakeEntry)
	for _, e := range entries {
		byDate[e.Date] = append(byDate[e.Date], e)
	}
	out := make([]DayStats, 0, n)
	for i := n - 1; i >= 0; i-- {
		date := now.AddDate(0, 0, -i).Format(DateLayout)
		out = append(out, dayStats(date, byDate[date], goals))
	}
	return out
}

// CalculateWeekStats covers the seven days ending today. Averages only
// count days that have entries.
func CalculateWeekStats(entries []model.IntakeEntry, goals model.DailyGoals, now time.Time) WeekStats {
	days := LastNDaysStats(entries, goals, weekDays, now)
	out := WeekStats{Days: days}

	logged := 0
	bestScore := math.Inf(-1)
	var calories, protein float64
	for i := range days {
		d := days[i]
		if !d.HasData {
			continue
		}
		logged++
		calories += d.TotalCalories
		protein += d.TotalProtein
		out.TotalEntries += d.EntryCount
		if s := closeness(d); s > bestScore {
			bestScore = s
			out.BestDay = &days[i]
		}
	}
	if logged > 0 {
		out.AvgCalories = math.Round(calories / float64(logged))
		out.AvgProtein = math.Round(protein / float64(logged))
	}
	return out
}

// CalculateMonthStats covers the thirty days ending today. The streak is
// computed over the whole log, not just the window.
func CalculateMonthStats(entries []model.IntakeEntry, goals model.DailyGoals, now time.Time) MonthStats {
	days := LastNDaysStats(entries, goals, monthDays, now)
	streak := CalculateStreak(entries, now)
	out := MonthStats{
		Days:          days,
		CurrentStreak: streak.Current,
		LongestStreak: streak.Longest,
	}
	var calories, protein float64
	for _, d := range days {
		if !d.HasData {
			continue
		}
		out.TotalDaysLogged++
		calories += d.TotalCalories
		protein += d.TotalProtein
	}
	if out.TotalDaysLogged > 0 {
		out.AvgCaloriesPerDay = math.Round(calories / float64(out.TotalDaysLogged))
		out.AvgProteinPerDay = math.Round(protein / float64(out.TotalDaysLogged))
	}
	return out
}

// closeness scores a day by how near both totals land to their goals,
// penalising overshoot and undershoot alike. 100 is a perfect day.
func closeness(d DayStats) float64 {
	calorieScore := 100 - math.Abs(d.CalorieProgress-100)
	proteinScore := 100 - math.Abs(d.ProteinProgress-100)
	return (calorieScore + proteinScore) / 2
}

func progress(total, goal float64) float64 {
	if goal <= 0 {
		return 0
	}
	return total / goal * 100
}
