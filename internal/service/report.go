package service

import (
	"database/sql"
	"time"

	"github.com/saadjs/mealwise/internal/analytics"
)

// BuildReport runs the analytics engine over the whole intake log as of now.
func BuildReport(db *sql.DB, now time.Time) (*analytics.Report, error) {
	entries, err := AllIntake(db)
	if err != nil {
		return nil, err
	}
	goals, err := CurrentGoals(db)
	if err != nil {
		return nil, err
	}
	report := analytics.BuildReport(entries, goals, now)
	return &report, nil
}

func CurrentStreak(db *sql.DB, now time.Time) (analytics.Streak, error) {
	entries, err := AllIntake(db)
	if err != nil {
		return analytics.Streak{}, err
	}
	return analytics.CalculateStreak(entries, now), nil
}

// ParseAsOf turns an optional YYYY-MM-DD into a reference time at local
// noon on that day. Empty means now.
func ParseAsOf(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now(), nil
	}
	if err := validateDate(raw); err != nil {
		return time.Time{}, err
	}
	d, _ := time.ParseInLocation(dateLayout, raw, time.Local)
	return d.Add(12 * time.Hour), nil
}
