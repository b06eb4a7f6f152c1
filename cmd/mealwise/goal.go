package mealwise

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saadjs/mealwise/internal/model"
	"github.com/saadjs/mealwise/internal/service"
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Manage daily calorie and protein goals",
}

var (
	goalCalories float64
	goalProtein  float64
)

var goalSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set daily goals",
	RunE: func(cmd *cobra.Command, args []string) error {
		g := model.DailyGoals{CalorieGoal: goalCalories, ProteinGoal: goalProtein}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.SetGoals(sqldb, g); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set goals: %.0f kcal, %.0fg protein\n", g.CalorieGoal, g.ProteinGoal)
			return nil
		})
	},
}

var goalShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current goals",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			g, err := service.CurrentGoals(sqldb)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Calories: %.0f kcal\nProtein: %.0fg\n", g.CalorieGoal, g.ProteinGoal)
			return nil
		})
	},
}

var goalHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show goal history, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			history, err := service.GoalHistory(sqldb)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "SET AT\tKCAL\tP")
			for _, g := range history {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%.0f\t%.0f\n", g.SetAt, g.CalorieGoal, g.ProteinGoal)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(goalCmd)
	goalCmd.AddCommand(goalSetCmd, goalShowCmd, goalHistoryCmd)

	goalSetCmd.Flags().Float64Var(&goalCalories, "calories", 0, "Daily calorie target")
	goalSetCmd.Flags().Float64Var(&goalProtein, "protein", 0, "Daily protein target grams")
	_ = goalSetCmd.MarkFlagRequired("calories")
	_ = goalSetCmd.MarkFlagRequired("protein")
}
