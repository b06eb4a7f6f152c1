package mealwise

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saadjs/mealwise/internal/model"
	"github.com/saadjs/mealwise/internal/service"
)

var recipeCmd = &cobra.Command{
	Use:   "recipe",
	Short: "Manage recipes",
}

var (
	recipeName        string
	recipeDescription string
	recipeCategory    string
	recipeTags        []string
	recipeServings    float64
	recipeIngredients []string

	recipeListDiet     string
	recipeListCategory string
	recipeListQuery    string
	recipeListJSON     bool
	recipeShowJSON     bool

	recipeDuplicateName string
)

// parseIngredient reads "<food id|name>=<amount>", where amount is grams
// or a mass with a unit such as 3.5oz. The last '=' splits, so food names
// may contain one.
func parseIngredient(raw string) (service.IngredientInput, error) {
	i := strings.LastIndex(raw, "=")
	if i <= 0 || i == len(raw)-1 {
		return service.IngredientInput{}, fmt.Errorf("invalid ingredient %q (expected FOOD=GRAMS)", raw)
	}
	amount, unit, err := service.ParseAmount(raw[i+1:])
	if err != nil {
		return service.IngredientInput{}, fmt.Errorf("invalid amount in ingredient %q", raw)
	}
	grams, err := service.ToGrams(amount, unit, 0)
	if err != nil {
		return service.IngredientInput{}, fmt.Errorf("ingredient %q: %w", raw, err)
	}
	return service.IngredientInput{FoodRef: strings.TrimSpace(raw[:i]), Grams: grams}, nil
}

var recipeAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a recipe from catalog foods",
	Example: `  mealwise recipe add --name "Overnight Oats" --servings 2 \
    --ingredient "seed-oats=100" --ingredient "Milk (toned)=200" --tag quick`,
	RunE: func(cmd *cobra.Command, args []string) error {
		in := service.RecipeInput{
			Name:        recipeName,
			Description: recipeDescription,
			Category:    recipeCategory,
			Tags:        recipeTags,
			Servings:    recipeServings,
		}
		for _, raw := range recipeIngredients {
			ing, err := parseIngredient(raw)
			if err != nil {
				return err
			}
			in.Ingredients = append(in.Ingredients, ing)
		}
		return withDB(func(sqldb *sql.DB) error {
			r, err := service.CreateRecipe(sqldb, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created recipe %s (%s): %.0f kcal, %.1fg protein per serving\n", r.Name, r.ID, r.CaloriesPerServing, r.ProteinPerServing)
			return nil
		})
	},
}

var recipeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recipes",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := service.ListRecipesFilter{Category: recipeListCategory, Query: recipeListQuery}
		if recipeListDiet != "" {
			p, err := service.ParseDietPreference(recipeListDiet)
			if err != nil {
				return err
			}
			filter.Diet = p
		}
		return withDB(func(sqldb *sql.DB) error {
			recipes, err := service.ListRecipes(sqldb, filter)
			if err != nil {
				return err
			}
			if recipeListJSON {
				return printJSON(cmd.OutOrStdout(), recipes)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tNAME\tSERVINGS\tKCAL/SERVING\tP/SERVING\tTYPE\tCATEGORY")
			for _, r := range recipes {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%g\t%.0f\t%.1f\t%s\t%s\n", r.ID, r.Name, r.Servings, r.CaloriesPerServing, r.ProteinPerServing, r.FoodType, valueOr(r.Category, "-"))
			}
			return nil
		})
	},
}

var recipeShowCmd = &cobra.Command{
	Use:   "show <id|name>",
	Short: "Show recipe details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			r, err := service.ResolveRecipe(sqldb, args[0])
			if err != nil {
				return err
			}
			if recipeShowJSON {
				return printJSON(cmd.OutOrStdout(), r)
			}
			printRecipe(cmd, r)
			return nil
		})
	},
}

func printRecipe(cmd *cobra.Command, r *model.Recipe) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID: %s\nName: %s\nCategory: %s\nType: %s\nServings: %g\n", r.ID, r.Name, valueOr(r.Category, "-"), r.FoodType, r.Servings)
	if r.Description != "" {
		fmt.Fprintf(out, "Description: %s\n", r.Description)
	}
	if len(r.Tags) > 0 {
		fmt.Fprintf(out, "Tags: %s\n", strings.Join(r.Tags, ", "))
	}
	fmt.Fprintf(out, "Total: %.0f kcal, %.1fg protein\n", r.TotalCalories, r.TotalProtein)
	fmt.Fprintf(out, "Per serving: %.0f kcal, %.1fg protein\n", r.CaloriesPerServing, r.ProteinPerServing)
	fmt.Fprintln(out, "Ingredients:")
	for _, ing := range r.Ingredients {
		fmt.Fprintf(out, "  %s\t%.0fg\t%.0f kcal\t%.1fg\n", ing.FoodName, ing.Quantity, ing.Calories, ing.Protein)
	}
}

var recipeDeleteCmd = &cobra.Command{
	Use:   "delete <id|name>",
	Short: "Delete a recipe",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if err := service.DeleteRecipe(sqldb, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted recipe %s\n", args[0])
			return nil
		})
	},
}

var recipeDuplicateCmd = &cobra.Command{
	Use:   "duplicate <id|name>",
	Short: "Copy a recipe under a new name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			r, err := service.DuplicateRecipe(sqldb, args[0], recipeDuplicateName)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created recipe %s (%s)\n", r.Name, r.ID)
			return nil
		})
	},
}

var recipeStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise the recipe collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			st, err := service.ComputeRecipeStats(sqldb)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Recipes: %d\n", st.TotalRecipes)
			fmt.Fprintf(out, "Avg per serving: %.0f kcal, %.1fg protein\n", st.AvgCaloriesPerServing, st.AvgProteinPerServing)
			for _, t := range []model.FoodType{model.FoodTypeVeg, model.FoodTypeEgg, model.FoodTypeNonVeg} {
				fmt.Fprintf(out, "  %s: %d\n", t, st.ByFoodType[t])
			}
			cats := make([]string, 0, len(st.ByCategory))
			for c := range st.ByCategory {
				cats = append(cats, c)
			}
			sort.Strings(cats)
			for _, c := range cats {
				fmt.Fprintf(out, "  %s: %d\n", valueOr(c, "uncategorised"), st.ByCategory[c])
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(recipeCmd)
	recipeCmd.AddCommand(recipeAddCmd, recipeListCmd, recipeShowCmd, recipeDeleteCmd, recipeDuplicateCmd, recipeStatsCmd)

	recipeAddCmd.Flags().StringVar(&recipeName, "name", "", "Recipe name")
	recipeAddCmd.Flags().StringVar(&recipeDescription, "description", "", "Short description")
	recipeAddCmd.Flags().StringVar(&recipeCategory, "category", "", "Category (breakfast, lunch, dinner, snack)")
	recipeAddCmd.Flags().StringArrayVar(&recipeTags, "tag", nil, "Tag (repeatable)")
	recipeAddCmd.Flags().Float64Var(&recipeServings, "servings", 1, "Number of servings the recipe makes")
	recipeAddCmd.Flags().StringArrayVar(&recipeIngredients, "ingredient", nil, "Ingredient FOOD=GRAMS (repeatable)")
	_ = recipeAddCmd.MarkFlagRequired("name")
	_ = recipeAddCmd.MarkFlagRequired("ingredient")

	recipeListCmd.Flags().StringVar(&recipeListDiet, "diet", "", "Only recipes allowed for this diet")
	recipeListCmd.Flags().StringVar(&recipeListCategory, "category", "", "Filter by category")
	recipeListCmd.Flags().StringVar(&recipeListQuery, "query", "", "Search name, description, category and tags")
	recipeListCmd.Flags().BoolVar(&recipeListJSON, "json", false, "Output as JSON")
	recipeShowCmd.Flags().BoolVar(&recipeShowJSON, "json", false, "Output as JSON")

	recipeDuplicateCmd.Flags().StringVar(&recipeDuplicateName, "name", "", "Name for the copy (default \"<name> (Copy)\")")
}
