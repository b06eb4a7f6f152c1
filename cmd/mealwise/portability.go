package mealwise

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/saadjs/mealwise/internal/service"
)

var (
	exportFormat string
	exportOut    string
	importIn     string
	importMode   string
	importDryRun bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export local data (json snapshot or csv intake log)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(exportOut) == "" {
			return fmt.Errorf("--out is required")
		}
		return withDB(func(sqldb *sql.DB) error {
			switch strings.ToLower(strings.TrimSpace(exportFormat)) {
			case "json":
				data, err := service.ExportDataSnapshot(sqldb)
				if err != nil {
					return err
				}
				f, err := os.Create(exportOut)
				if err != nil {
					return fmt.Errorf("create export file: %w", err)
				}
				defer f.Close()
				if err := printJSON(f, data); err != nil {
					return err
				}
			case "csv":
				if err := exportIntakeCSV(sqldb, exportOut); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unsupported --format %q (expected json or csv)", exportFormat)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported data to %s\n", exportOut)
			return nil
		})
	},
}

func exportIntakeCSV(sqldb *sql.DB, path string) error {
	entries, err := service.AllIntake(sqldb)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export csv: %w", err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "date", "time", "food_id", "food_name", "food_type", "quantity_g", "calories", "protein_g"}); err != nil {
		return fmt.Errorf("write export csv header: %w", err)
	}
	for _, e := range entries {
		row := []string{
			e.ID,
			e.Date,
			time.UnixMilli(e.Timestamp).Format(time.RFC3339),
			e.FoodID,
			e.FoodName,
			string(e.FoodType),
			strconv.FormatFloat(e.Quantity, 'f', -1, 64),
			strconv.FormatFloat(e.Calories, 'f', -1, 64),
			strconv.FormatFloat(e.Protein, 'f', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write export csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush export csv: %w", err)
	}
	return nil
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a json snapshot (merge or replace)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(importIn) == "" {
			return fmt.Errorf("--in is required")
		}
		mode, err := service.ParseImportMode(importMode)
		if err != nil {
			return err
		}
		raw, err := os.ReadFile(importIn)
		if err != nil {
			return fmt.Errorf("read import file: %w", err)
		}
		data, res, err := service.ParseImport(raw)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, w := range res.Warnings {
			fmt.Fprintf(out, "warning: %s\n", w)
		}
		if !res.IsValid {
			for _, e := range res.Errors {
				fmt.Fprintf(out, "error: %s\n", e)
			}
			return fmt.Errorf("import file failed validation with %d error(s)", len(res.Errors))
		}
		return withDB(func(sqldb *sql.DB) error {
			report, err := service.ImportDataSnapshot(sqldb, data, service.ImportOptions{Mode: mode, DryRun: importDryRun})
			if err != nil {
				return err
			}
			logger.Debug("import finished",
				zap.String("mode", string(report.Mode)),
				zap.Bool("dry_run", report.DryRun),
				zap.Int("foods_added", report.FoodsAdded),
				zap.Int("entries_added", report.EntriesAdded),
				zap.Int("recipes_added", report.RecipesAdded),
			)
			for _, w := range report.Warnings {
				fmt.Fprintf(out, "warning: %s\n", w)
			}
			prefix := "Imported"
			if report.DryRun {
				prefix = "Dry run: would import"
			}
			fmt.Fprintf(out, "%s (%s): foods %d added/%d skipped, entries %d added/%d skipped, recipes %d added/%d skipped\n",
				prefix, report.Mode, report.FoodsAdded, report.FoodsSkipped, report.EntriesAdded, report.EntriesSkipped, report.RecipesAdded, report.RecipesSkipped)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(exportCmd, importCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "Export format: json or csv")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file path")
	importCmd.Flags().StringVar(&importIn, "in", "", "Input json file path")
	importCmd.Flags().StringVar(&importMode, "mode", "merge", "Import mode: merge or replace")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Validate and report without writing")
}
