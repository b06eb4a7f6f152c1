package mealwise

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/saadjs/mealwise/internal/service"
)

var intakeCmd = &cobra.Command{
	Use:     "intake",
	Aliases: []string{"log"},
	Short:   "Log and review what you ate",
}

var (
	intakeGrams    float64
	intakeAmount   string
	intakeDensity  float64
	intakeServings float64
	intakeDate     string
	intakeTime     string

	intakeListDate  string
	intakeListFrom  string
	intakeListTo    string
	intakeListLimit int
	intakeListJSON  bool

	todayDate string
	todayJSON bool
)

var intakeAddCmd = &cobra.Command{
	Use:   "add <food id|name>",
	Short: "Log grams of a catalog food",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		grams, err := resolveGrams(cmd, intakeGrams, intakeAmount, intakeDensity)
		if err != nil {
			return err
		}
		date, at, err := parseLogTime(intakeDate, intakeTime)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			e, err := service.LogFood(sqldb, service.LogFoodInput{FoodRef: args[0], Grams: grams, Date: date, At: at})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged %.0fg %s on %s: %.0f kcal, %.1fg protein (%s)\n", e.Quantity, e.FoodName, e.Date, e.Calories, e.Protein, e.ID)
			return nil
		})
	},
}

func resolveGrams(cmd *cobra.Command, grams float64, amount string, density float64) (float64, error) {
	if !cmd.Flags().Changed("amount") {
		return grams, nil
	}
	v, unit, err := service.ParseAmount(amount)
	if err != nil {
		return 0, err
	}
	return service.ToGrams(v, unit, density)
}

var intakeRecipeCmd = &cobra.Command{
	Use:   "recipe <recipe id|name>",
	Short: "Log servings of a recipe",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, at, err := parseLogTime(intakeDate, intakeTime)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			e, err := service.LogRecipe(sqldb, service.LogRecipeInput{RecipeRef: args[0], Servings: intakeServings, Date: date, At: at})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged %g serving(s) of %s on %s: %.0f kcal, %.1fg protein (%s)\n", intakeServings, e.FoodName, e.Date, e.Calories, e.Protein, e.ID)
			return nil
		})
	},
}

var intakeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List logged intake",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := service.ListIntakeFilter{
			Date:     intakeListDate,
			FromDate: intakeListFrom,
			ToDate:   intakeListTo,
			Limit:    intakeListLimit,
		}
		return withDB(func(sqldb *sql.DB) error {
			entries, err := service.ListIntake(sqldb, filter)
			if err != nil {
				return err
			}
			if intakeListJSON {
				return printJSON(cmd.OutOrStdout(), entries)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tDATE\tTIME\tFOOD\tGRAMS\tKCAL\tP")
			for _, e := range entries {
				at := time.UnixMilli(e.Timestamp).Format("15:04")
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\t%.0f\t%.0f\t%.1f\n", e.ID, e.Date, at, e.FoodName, e.Quantity, e.Calories, e.Protein)
			}
			return nil
		})
	},
}

var intakeDeleteCmd = &cobra.Command{
	Use:   "delete <entry id>",
	Short: "Delete a logged entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if err := service.DeleteIntake(sqldb, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted entry %s\n", args[0])
			return nil
		})
	},
}

var intakeTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show totals and remaining budget for a day",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			sum, err := service.TodaySummary(sqldb, todayDate)
			if err != nil {
				return err
			}
			if todayJSON {
				return printJSON(cmd.OutOrStdout(), sum)
			}
			out := cmd.OutOrStdout()
			st := sum.Stats
			fmt.Fprintf(out, "Date: %s (%d entries)\n", st.Date, st.EntryCount)
			fmt.Fprintf(out, "Calories: %.0f / %.0f kcal (%.0f%%, %s), %.0f remaining\n", st.TotalCalories, st.CalorieGoal, st.CalorieProgress, sum.CalorieStatus, sum.RemainingCalories)
			fmt.Fprintf(out, "Protein: %.1f / %.0f g (%.0f%%, %s), %.1f remaining\n", st.TotalProtein, st.ProteinGoal, st.ProteinProgress, sum.ProteinStatus, sum.RemainingProtein)
			for _, e := range sum.Entries {
				fmt.Fprintf(out, "  %s\t%s\t%.0f kcal\t%.1fg\n", time.UnixMilli(e.Timestamp).Format("15:04"), e.FoodName, e.Calories, e.Protein)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(intakeCmd)
	intakeCmd.AddCommand(intakeAddCmd, intakeRecipeCmd, intakeListCmd, intakeDeleteCmd, intakeTodayCmd)

	intakeAddCmd.Flags().Float64Var(&intakeGrams, "grams", 0, "Amount eaten in grams")
	intakeAddCmd.Flags().StringVar(&intakeAmount, "amount", "", "Amount with unit, e.g. 5oz, 1.5cup, 0.2kg")
	intakeAddCmd.Flags().Float64Var(&intakeDensity, "density", 0, "Density in g/ml for volume units")
	intakeAddCmd.MarkFlagsMutuallyExclusive("grams", "amount")
	intakeAddCmd.MarkFlagsOneRequired("grams", "amount")
	intakeRecipeCmd.Flags().Float64Var(&intakeServings, "servings", 1, "Servings eaten")
	for _, c := range []*cobra.Command{intakeAddCmd, intakeRecipeCmd} {
		c.Flags().StringVar(&intakeDate, "date", "", "Calendar day YYYY-MM-DD (default today)")
		c.Flags().StringVar(&intakeTime, "time", "", "Time HH:MM (default now)")
	}

	intakeListCmd.Flags().StringVar(&intakeListDate, "date", "", "Single day YYYY-MM-DD")
	intakeListCmd.Flags().StringVar(&intakeListFrom, "from", "", "Range start YYYY-MM-DD")
	intakeListCmd.Flags().StringVar(&intakeListTo, "to", "", "Range end YYYY-MM-DD")
	intakeListCmd.Flags().IntVar(&intakeListLimit, "limit", 0, "Maximum rows (0 for all)")
	intakeListCmd.Flags().BoolVar(&intakeListJSON, "json", false, "Output as JSON")

	intakeTodayCmd.Flags().StringVar(&todayDate, "date", "", "Day to summarise YYYY-MM-DD (default today)")
	intakeTodayCmd.Flags().BoolVar(&todayJSON, "json", false, "Output as JSON")
}
