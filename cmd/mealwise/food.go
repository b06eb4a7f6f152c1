package mealwise

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saadjs/mealwise/internal/model"
	"github.com/saadjs/mealwise/internal/service"
)

var foodCmd = &cobra.Command{
	Use:   "food",
	Short: "Manage the food catalog",
}

var (
	foodName     string
	foodProtein  float64
	foodCalories float64
	foodCategory string
	foodType     string

	foodListCategory string
	foodListType     string
	foodListQuery    string
	foodListCustom   bool
	foodListJSON     bool
)

var foodAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a custom food (macros per 100 g)",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := service.AddFoodInput{
			Name:            foodName,
			ProteinPer100g:  foodProtein,
			CaloriesPer100g: foodCalories,
			Category:        foodCategory,
			FoodType:        model.FoodType(foodType),
		}
		return withDB(func(sqldb *sql.DB) error {
			id, err := service.AddFood(sqldb, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added food %s (%s)\n", in.Name, id)
			return nil
		})
	},
}

var foodListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog foods",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := service.ListFoodsFilter{
			Category:   foodListCategory,
			FoodType:   model.FoodType(foodListType),
			Query:      foodListQuery,
			CustomOnly: foodListCustom,
		}
		return withDB(func(sqldb *sql.DB) error {
			foods, err := service.ListFoods(sqldb, filter)
			if err != nil {
				return err
			}
			if foodListJSON {
				return printJSON(cmd.OutOrStdout(), foods)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tNAME\tP/100G\tKCAL/100G\tCATEGORY\tTYPE")
			for _, f := range foods {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%.1f\t%.0f\t%s\t%s\n", f.ID, f.Name, f.ProteinPer100g, f.CaloriesPer100g, valueOr(f.Category, "-"), f.FoodType)
			}
			return nil
		})
	},
}

var foodShowCmd = &cobra.Command{
	Use:   "show <id|name>",
	Short: "Show food details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			f, err := service.ResolveFood(sqldb, args[0])
			if err != nil {
				return err
			}
			custom := "no"
			if f.IsCustom {
				custom = "yes"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ID: %s\nName: %s\nProtein: %.1fg/100g\nCalories: %.0f kcal/100g\nCategory: %s\nType: %s\nCustom: %s\n",
				f.ID, f.Name, f.ProteinPer100g, f.CaloriesPer100g, valueOr(f.Category, "-"), f.FoodType, custom)
			return nil
		})
	},
}

var foodUpdateCmd = &cobra.Command{
	Use:   "update <id|name>",
	Short: "Update a food; only the flags given are changed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			f, err := service.ResolveFood(sqldb, args[0])
			if err != nil {
				return err
			}
			in := service.UpdateFoodInput{
				ID:              f.ID,
				Name:            f.Name,
				ProteinPer100g:  f.ProteinPer100g,
				CaloriesPer100g: f.CaloriesPer100g,
				Category:        f.Category,
				FoodType:        f.FoodType,
			}
			flags := cmd.Flags()
			if flags.Changed("name") {
				in.Name = foodName
			}
			if flags.Changed("protein") {
				in.ProteinPer100g = foodProtein
			}
			if flags.Changed("calories") {
				in.CaloriesPer100g = foodCalories
			}
			if flags.Changed("category") {
				in.Category = foodCategory
			}
			if flags.Changed("type") {
				in.FoodType = model.FoodType(foodType)
			}
			if err := service.UpdateFood(sqldb, in); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated food %s\n", f.ID)
			return nil
		})
	},
}

var foodDeleteCmd = &cobra.Command{
	Use:   "delete <id|name>",
	Short: "Delete a custom food (logged intake is kept)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			f, err := service.ResolveFood(sqldb, args[0])
			if err != nil {
				return err
			}
			if err := service.DeleteFood(sqldb, f.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted food %s\n", f.Name)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(foodCmd)
	foodCmd.AddCommand(foodAddCmd, foodListCmd, foodShowCmd, foodUpdateCmd, foodDeleteCmd)

	for _, c := range []*cobra.Command{foodAddCmd, foodUpdateCmd} {
		c.Flags().StringVar(&foodName, "name", "", "Food name")
		c.Flags().Float64Var(&foodProtein, "protein", 0, "Protein grams per 100 g")
		c.Flags().Float64Var(&foodCalories, "calories", 0, "Calories per 100 g")
		c.Flags().StringVar(&foodCategory, "category", "", "Category (grains, protein, dairy, legumes, vegetables, fruits, nuts)")
		c.Flags().StringVar(&foodType, "type", "", "Food type: veg, egg or non-veg")
	}
	_ = foodAddCmd.MarkFlagRequired("name")
	_ = foodAddCmd.MarkFlagRequired("protein")
	_ = foodAddCmd.MarkFlagRequired("calories")
	_ = foodAddCmd.MarkFlagRequired("type")

	foodListCmd.Flags().StringVar(&foodListCategory, "category", "", "Filter by category")
	foodListCmd.Flags().StringVar(&foodListType, "type", "", "Filter by food type")
	foodListCmd.Flags().StringVar(&foodListQuery, "query", "", "Substring match on name")
	foodListCmd.Flags().BoolVar(&foodListCustom, "custom", false, "Only custom foods")
	foodListCmd.Flags().BoolVar(&foodListJSON, "json", false, "Output as JSON")
}
