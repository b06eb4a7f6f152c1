package analytics

import (
	"fmt"
	"math"
	"time"
)

type InsightType string

const (
	InsightSuccess InsightType = "success"
	InsightInfo    InsightType = "info"
	InsightWarning InsightType = "warning"
)

const (
	defaultProteinGoal = 50
	defaultCalorieGoal = 2000
)

// Insight ids are stable and safe to key on.
type Insight struct {
	ID          string      `json:"id"`
	Type        InsightType `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Icon        string      `json:"icon"`
}

// GenerateInsights runs a fixed battery of rules in order: streak, best day,
// logging consistency, protein, calories. Each rule adds at most one
// insight. Protein and calorie averages in the middle bands stay silent.
func GenerateInsights(week WeekStats, month MonthStats) []Insight {
	insights := make([]Insight, 0, 5)

	switch {
	case month.CurrentStreak >= 7:
		insights = append(insights, Insight{
			ID:          "streak-7",
			Type:        InsightSuccess,
			Title:       "On Fire!",
			Description: fmt.Sprintf("%d day streak! Keep it going!", month.CurrentStreak),
			Icon:        "🔥",
		})
	case month.CurrentStreak >= 3:
		insights = append(insights, Insight{
			ID:          "streak-3",
			Type:        InsightSuccess,
			Title:       "Great Consistency",
			Description: fmt.Sprintf("%d days in a row! You're building a habit!", month.CurrentStreak),
			Icon:        "✨",
		})
	}

	if week.BestDay != nil {
		insights = append(insights, Insight{
			ID:          "best-day",
			Type:        InsightSuccess,
			Title:       "Best Day: " + weekday(week.BestDay.Date),
			Description: fmt.Sprintf("Hit %.0f%% of your calorie goal!", math.Round(week.BestDay.CalorieProgress)),
			Icon:        "🌟",
		})
	}

	logged := 0
	for _, d := range week.Days {
		if d.HasData {
			logged++
		}
	}
	switch {
	case logged >= 5:
		insights = append(insights, Insight{
			ID:          "consistency",
			Type:        InsightSuccess,
			Title:       "Excellent Tracking",
			Description: fmt.Sprintf("Logged %d out of 7 days this week!", logged),
			Icon:        "📊",
		})
	case logged >= 3:
		insights = append(insights, Insight{
			ID:          "consistency-good",
			Type:        InsightInfo,
			Title:       "Good Progress",
			Description: fmt.Sprintf("Logged %d days this week. Try for 5+!", logged),
			Icon:        "📝",
		})
	case logged > 0:
		insights = append(insights, Insight{
			ID:          "consistency-low",
			Type:        InsightWarning,
			Title:       "Room to Improve",
			Description: fmt.Sprintf("Only %d days logged. Consistency is key!", logged),
			Icon:        "💪",
		})
	}

	if week.AvgProtein > 0 {
		goal := defaultProteinGoal * 1.0
		if len(week.Days) > 0 && week.Days[0].ProteinGoal > 0 {
			goal = week.Days[0].ProteinGoal
		}
		pct := math.Round(week.AvgProtein / goal * 100)
		switch {
		case pct >= 90 && pct <= 110:
			insights = append(insights, Insight{
				ID:          "protein-good",
				Type:        InsightSuccess,
				Title:       "Perfect Protein",
				Description: fmt.Sprintf("Averaging %.0fg protein - right on target!", week.AvgProtein),
				Icon:        "💪",
			})
		case pct < 70:
			insights = append(insights, Insight{
				ID:          "protein-low",
				Type:        InsightWarning,
				Title:       "Protein Alert",
				Description: fmt.Sprintf("Averaging %.0fg protein. Consider more protein-rich foods!", week.AvgProtein),
				Icon:        "🥩",
			})
		}
	}

	if week.AvgCalories > 0 {
		goal := defaultCalorieGoal * 1.0
		if len(week.Days) > 0 && week.Days[0].CalorieGoal > 0 {
			goal = week.Days[0].CalorieGoal
		}
		pct := math.Round(week.AvgCalories / goal * 100)
		if pct >= 95 && pct <= 105 {
			insights = append(insights, Insight{
				ID:          "calorie-perfect",
				Type:        InsightSuccess,
				Title:       "Perfect Balance",
				Description: fmt.Sprintf("Averaging %.0f calories - excellent control!", week.AvgCalories),
				Icon:        "🎯",
			})
		}
	}

	return insights
}

func weekday(date string) string {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return d.Weekday().String()
}
