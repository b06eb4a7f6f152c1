package mealwise

import (
	"database/sql"
	"fmt"
	"math/rand"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/saadjs/mealwise/internal/planner"
	"github.com/saadjs/mealwise/internal/service"
)

var (
	planSeed int64
	planJSON bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Suggest a day of meals that fits your goals and diet",
	Long:  "Generate a fresh meal plan from the catalog. Each run samples anew; pass --seed to reproduce a plan.",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := planner.Options{}
		if cmd.Flags().Changed("seed") {
			opts.Rand = rand.New(rand.NewSource(planSeed))
		}
		gen := planner.New(opts)
		return withDB(func(sqldb *sql.DB) error {
			plan, err := service.GeneratePlan(sqldb, gen)
			if err != nil {
				return err
			}
			for _, m := range plan.Meals {
				logger.Debug("planned slot", zap.String("slot", string(m.Slot)), zap.Int("items", len(m.Items)), zap.Int("calories", m.Calories()), zap.Float64("protein", m.Protein()))
			}
			logger.Debug("plan generated", zap.Int("candidates", plan.Candidates), zap.Int("calories", plan.TotalCalories), zap.Float64("protein", plan.TotalProtein))
			if planJSON {
				return printJSON(cmd.OutOrStdout(), plan)
			}
			printPlan(cmd, plan)
			return nil
		})
	},
}

func printPlan(cmd *cobra.Command, plan *service.PlanResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Goals: %.0f kcal, %.0fg protein (%s)\n", plan.Goals.CalorieGoal, plan.Goals.ProteinGoal, plan.Diet)
	if plan.Candidates == 0 {
		fmt.Fprintln(out, "No foods match your diet and preferred foods; nothing to plan.")
	}
	for _, m := range plan.Meals {
		fmt.Fprintf(out, "\n%s (target %.0f kcal, %.0fg protein)\n", strings.ToUpper(string(m.Slot)), m.TargetCalories, m.TargetProtein)
		if len(m.Items) == 0 {
			fmt.Fprintln(out, "  (no suggestions)")
			continue
		}
		for _, it := range m.Items {
			fmt.Fprintf(out, "  %s\t%dg\t%d kcal\t%.1fg protein\n", it.FoodName, it.Quantity, it.Calories, it.Protein)
		}
	}
	fmt.Fprintf(out, "\nTotal: %d kcal, %.1fg protein\n", plan.TotalCalories, plan.TotalProtein)
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.Flags().Int64Var(&planSeed, "seed", 0, "Seed for a reproducible plan")
	planCmd.Flags().BoolVar(&planJSON, "json", false, "Output as JSON")
}
