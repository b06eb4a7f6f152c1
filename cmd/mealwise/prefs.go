package mealwise

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saadjs/mealwise/internal/service"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Manage diet preference and preferred foods",
}

var prefsFoodsClear bool

var prefsDietCmd = &cobra.Command{
	Use:   "diet <vegetarian|eggetarian|non-vegetarian>",
	Short: "Set diet preference",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := service.ParseDietPreference(args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.SetDietPreference(sqldb, p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Diet preference set to %s\n", p)
			return nil
		})
	},
}

var prefsFoodsCmd = &cobra.Command{
	Use:   "foods [food id|name...]",
	Short: "Restrict meal plans to these foods (--clear to allow all)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if prefsFoodsClear && len(args) > 0 {
			return fmt.Errorf("--clear cannot be combined with foods")
		}
		if !prefsFoodsClear && len(args) == 0 {
			return fmt.Errorf("give at least one food or --clear")
		}
		return withDB(func(sqldb *sql.DB) error {
			ids := make([]string, 0, len(args))
			for _, ref := range args {
				f, err := service.ResolveFood(sqldb, ref)
				if err != nil {
					return err
				}
				ids = append(ids, f.ID)
			}
			if err := service.SetPreferredFoods(sqldb, ids); err != nil {
				return err
			}
			if len(ids) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Cleared preferred foods; plans use the whole catalog")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Preferred foods: %s\n", strings.Join(ids, ", "))
			return nil
		})
	},
}

var prefsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show diet preference and preferred foods",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			prefs, err := service.LoadPreferences(sqldb)
			if err != nil {
				return err
			}
			preferred := "(all foods)"
			if len(prefs.PreferredFoodIDs) > 0 {
				preferred = strings.Join(prefs.PreferredFoodIDs, ", ")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Diet: %s\nPreferred foods: %s\n", prefs.Diet, preferred)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(prefsCmd)
	prefsCmd.AddCommand(prefsDietCmd, prefsFoodsCmd, prefsShowCmd)
	prefsFoodsCmd.Flags().BoolVar(&prefsFoodsClear, "clear", false, "Clear preferred foods")
}
