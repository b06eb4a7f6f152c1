package mealwise

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/saadjs/mealwise/internal/app"
	"github.com/saadjs/mealwise/internal/model"
	"github.com/saadjs/mealwise/internal/provider/openfoodfacts"
	"github.com/saadjs/mealwise/internal/service"
)

var (
	lookupAdd      bool
	lookupType     string
	lookupCategory string
	lookupName     string
	lookupRefresh  bool
	lookupJSON     bool

	searchLimit int
	searchJSON  bool
)

func foodsClient() *openfoodfacts.Client {
	return &openfoodfacts.Client{BaseURL: app.FoodsAPIURL()}
}

var foodLookupCmd = &cobra.Command{
	Use:   "lookup <barcode>",
	Short: "Look up a packaged food by barcode on Open Food Facts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := foodsClient()
		return withDB(func(sqldb *sql.DB) error {
			if lookupAdd {
				f, err := service.AddFoodFromBarcode(cmd.Context(), sqldb, client, service.BarcodeFoodInput{
					Barcode:  args[0],
					Name:     lookupName,
					Category: lookupCategory,
					FoodType: model.FoodType(lookupType),
					Refresh:  lookupRefresh,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added food %s (%s)\n", f.Name, f.ID)
				return nil
			}

			res, err := service.LookupBarcode(cmd.Context(), sqldb, client, args[0], lookupRefresh)
			if err != nil {
				return err
			}
			logger.Debug("barcode lookup", zap.String("barcode", res.Barcode), zap.Bool("cached", res.FromCache))
			if lookupJSON {
				return printJSON(cmd.OutOrStdout(), res)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Barcode: %s\nName: %s\nBrand: %s\nProtein: %.1fg/100g\nCalories: %.0f kcal/100g\nCategory: %s\nType: %s\n",
				res.Barcode, res.Name, valueOr(res.Brand, "-"), res.ProteinPer100g, res.CaloriesPer100g,
				valueOr(res.Category, "-"), valueOr(string(res.FoodType), "unknown"))
			return nil
		})
	},
}

var foodSearchOnlineCmd = &cobra.Command{
	Use:   "search-online <query>",
	Short: "Search Open Food Facts by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		products, err := foodsClient().SearchFoods(cmd.Context(), args[0], searchLimit)
		if err != nil {
			return err
		}
		if searchJSON {
			return printJSON(cmd.OutOrStdout(), products)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "BARCODE\tNAME\tP/100G\tKCAL/100G\tTYPE")
		for _, p := range products {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%.1f\t%.0f\t%s\n", p.Barcode, p.Name, p.ProteinPer100g, p.CaloriesPer100g, valueOr(string(p.FoodType), "-"))
		}
		return nil
	},
}

var foodCacheClearCmd = &cobra.Command{
	Use:   "cache-clear [barcode]",
	Short: "Drop cached barcode lookups",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		barcode := ""
		if len(args) == 1 {
			barcode = args[0]
		}
		return withDB(func(sqldb *sql.DB) error {
			n, err := service.PurgeBarcodeCache(sqldb, barcode)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached lookup(s)\n", n)
			return nil
		})
	},
}

func init() {
	foodCmd.AddCommand(foodLookupCmd, foodSearchOnlineCmd, foodCacheClearCmd)

	foodLookupCmd.Flags().BoolVar(&lookupAdd, "add", false, "Add the product to the catalog")
	foodLookupCmd.Flags().StringVar(&lookupType, "type", "", "Food type override: veg, egg or non-veg")
	foodLookupCmd.Flags().StringVar(&lookupCategory, "category", "", "Category override")
	foodLookupCmd.Flags().StringVar(&lookupName, "name", "", "Name override")
	foodLookupCmd.Flags().BoolVar(&lookupRefresh, "refresh", false, "Bypass the local cache")
	foodLookupCmd.Flags().BoolVar(&lookupJSON, "json", false, "Output as JSON")

	foodSearchOnlineCmd.Flags().IntVar(&searchLimit, "limit", 10, "Maximum results")
	foodSearchOnlineCmd.Flags().BoolVar(&searchJSON, "json", false, "Output as JSON")
}
