package mealwise

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/saadjs/mealwise/internal/analytics"
	"github.com/saadjs/mealwise/internal/service"
)

var (
	analyticsAsOf string
	analyticsJSON bool
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Show progress, streaks and insights",
}

var analyticsWeekCmd = &cobra.Command{
	Use:   "week",
	Short: "Last 7 days against your goals",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd, func(r *analytics.Report) any { return r.Week }, printWeek)
	},
}

var analyticsMonthCmd = &cobra.Command{
	Use:   "month",
	Short: "Last 30 days with streaks and averages",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd, func(r *analytics.Report) any { return r.Month }, printMonth)
	},
}

var analyticsInsightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Rule-based observations about the last week and month",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd, func(r *analytics.Report) any { return r.Insights }, printInsights)
	},
}

var analyticsStreakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Current and longest logging streak",
	RunE: func(cmd *cobra.Command, args []string) error {
		now, err := service.ParseAsOf(analyticsAsOf)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			streak, err := service.CurrentStreak(sqldb, now)
			if err != nil {
				return err
			}
			if analyticsJSON {
				return printJSON(cmd.OutOrStdout(), streak)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Current streak: %d day(s)\nLongest streak: %d day(s)\n", streak.Current, streak.Longest)
			return nil
		})
	},
}

func runReport(cmd *cobra.Command, pick func(*analytics.Report) any, render func(*cobra.Command, *analytics.Report)) error {
	now, err := service.ParseAsOf(analyticsAsOf)
	if err != nil {
		return err
	}
	return withDB(func(sqldb *sql.DB) error {
		report, err := service.BuildReport(sqldb, now)
		if err != nil {
			return err
		}
		if analyticsJSON {
			return printJSON(cmd.OutOrStdout(), pick(report))
		}
		render(cmd, report)
		return nil
	})
}

func printDays(cmd *cobra.Command, days []analytics.DayStats) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "DATE\tKCAL\tP\tKCAL%\tP%\tSTATUS")
	for _, d := range days {
		if !d.HasData {
			fmt.Fprintf(out, "%s\t-\t-\t-\t-\t-\n", d.Date)
			continue
		}
		fmt.Fprintf(out, "%s\t%.0f\t%.1f\t%.0f\t%.0f\t%s\n", d.Date, d.TotalCalories, d.TotalProtein, d.CalorieProgress, d.ProteinProgress, analytics.StatusFor(d.CalorieProgress))
	}
}

func printWeek(cmd *cobra.Command, r *analytics.Report) {
	out := cmd.OutOrStdout()
	printDays(cmd, r.Week.Days)
	fmt.Fprintf(out, "Entries: %d\n", r.Week.TotalEntries)
	fmt.Fprintf(out, "Average per logged day: %.0f kcal, %.0fg protein\n", r.Week.AvgCalories, r.Week.AvgProtein)
	if b := r.Week.BestDay; b != nil {
		if t, err := time.Parse(analytics.DateLayout, b.Date); err == nil {
			fmt.Fprintf(out, "Best day: %s %s (%.0f%% of calorie goal)\n", t.Weekday(), b.Date, b.CalorieProgress)
		}
	}
	fmt.Fprintf(out, "Calorie trend: %s (%+.0f per logged day)\n", r.Trend.Calories.Direction, r.Trend.Calories.SlopePerLoggedDay)
	fmt.Fprintf(out, "Protein trend: %s (%+.1f per logged day)\n", r.Trend.Protein.Direction, r.Trend.Protein.SlopePerLoggedDay)
}

func printMonth(cmd *cobra.Command, r *analytics.Report) {
	out := cmd.OutOrStdout()
	m := r.Month
	fmt.Fprintf(out, "Days logged: %d / %d\n", m.TotalDaysLogged, len(m.Days))
	fmt.Fprintf(out, "Current streak: %d\nLongest streak: %d\n", m.CurrentStreak, m.LongestStreak)
	fmt.Fprintf(out, "Average per logged day: %.0f kcal, %.0fg protein\n", m.AvgCaloriesPerDay, m.AvgProteinPerDay)
}

func printInsights(cmd *cobra.Command, r *analytics.Report) {
	out := cmd.OutOrStdout()
	if len(r.Insights) == 0 {
		fmt.Fprintln(out, "No insights yet. Log a few days of meals first.")
		return
	}
	for _, in := range r.Insights {
		fmt.Fprintf(out, "%s %s [%s]\n   %s\n", in.Icon, in.Title, in.Type, in.Description)
	}
}

func init() {
	rootCmd.AddCommand(analyticsCmd)
	analyticsCmd.AddCommand(analyticsWeekCmd, analyticsMonthCmd, analyticsStreakCmd, analyticsInsightsCmd)
	for _, c := range []*cobra.Command{analyticsWeekCmd, analyticsMonthCmd, analyticsStreakCmd, analyticsInsightsCmd} {
		c.Flags().StringVar(&analyticsAsOf, "as-of", "", "Reference date YYYY-MM-DD (default today)")
		c.Flags().BoolVar(&analyticsJSON, "json", false, "Output as JSON")
	}
}
