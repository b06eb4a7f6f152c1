package analytics

import (
	"time"

	"github.com/saadjs/mealwise/internal/model"
)

type ProgressStatus string

const (
	StatusLow     ProgressStatus = "low"
	StatusFair    ProgressStatus = "fair"
	StatusOnTrack ProgressStatus = "on-track"
	StatusOver    ProgressStatus = "over"
)

// StatusFor bands a progress percentage for display.
func StatusFor(pct float64) ProgressStatus {
	switch {
	case pct < 50:
		return StatusLow
	case pct < 80:
		return StatusFair
	case pct > 120:
		return StatusOver
	default:
		return StatusOnTrack
	}
}

type Report struct {
	AsOf     string     `json:"asOf"`
	Today    DayStats   `json:"today"`
	Week     WeekStats  `json:"week"`
	Month    MonthStats `json:"month"`
	Trend    Trend      `json:"trend"`
	Insights []Insight  `json:"insights"`
}

func BuildReport(entries []model.IntakeEntry, goals model.DailyGoals, now time.Time) Report {
	asOf := now.Format(DateLayout)
	week := CalculateWeekStats(entries, goals, now)
	month := CalculateMonthStats(entries, goals, now)
	return Report{
		AsOf:     asOf,
		Today:    CalculateDayStats(asOf, entries, goals),
		Week:     week,
		Month:    month,
		Trend:    CalculateTrend(month.Days),
		Insights: GenerateInsights(week, month),
	}
}
