package service

import (
	"database/sql"
	"strings"
	"time"

	"github.com/saadjs/mealwise/internal/analytics"
	"github.com/saadjs/mealwise/internal/model"
)

type DaySummary struct {
	Stats             analytics.DayStats       `json:"stats"`
	RemainingCalories float64                  `json:"remainingCalories"`
	RemainingProtein  float64                  `json:"remainingProtein"`
	CalorieStatus     analytics.ProgressStatus `json:"calorieStatus"`
	ProteinStatus     analytics.ProgressStatus `json:"proteinStatus"`
	Entries           []model.IntakeEntry      `json:"entries"`
}

// TodaySummary rolls up one calendar day against the current goals. An
// empty date means today.
func TodaySummary(db *sql.DB, date string) (*DaySummary, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		date = time.Now().Format(dateLayout)
	}
	entries, err := ListIntake(db, ListIntakeFilter{Date: date})
	if err != nil {
		return nil, err
	}
	goals, err := CurrentGoals(db)
	if err != nil {
		return nil, err
	}
	stats := analytics.CalculateDayStats(date, entries, goals)
	return &DaySummary{
		Stats:             stats,
		RemainingCalories: goals.CalorieGoal - stats.TotalCalories,
		RemainingProtein:  goals.ProteinGoal - stats.TotalProtein,
		CalorieStatus:     analytics.StatusFor(stats.CalorieProgress),
		ProteinStatus:     analytics.StatusFor(stats.ProteinProgress),
		Entries:           entries,
	}, nil
}
