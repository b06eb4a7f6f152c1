package mealwise

import (
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/saadjs/mealwise/internal/service"
)

var (
	doctorFix  bool
	doctorJSON bool
)

var errUnhealthy = errors.New("integrity issues found; run `mealwise doctor --fix`")

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check intake and catalog rows for problems",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			report, err := service.RunDoctor(sqldb, doctorFix)
			if err != nil {
				return err
			}
			if doctorFix {
				logger.Info("doctor repairs applied",
					zap.Int("deletedIntakeRows", report.DeletedIntakeRows),
					zap.Int("fixedFoodTypes", report.FixedFoodTypes))
				fixed := report
				if report, err = service.RunDoctor(sqldb, false); err != nil {
					return err
				}
				report.DeletedIntakeRows = fixed.DeletedIntakeRows
				report.FixedFoodTypes = fixed.FixedFoodTypes
			}
			if doctorJSON {
				if err := printJSON(cmd.OutOrStdout(), report); err != nil {
					return err
				}
			} else {
				printDoctor(cmd.OutOrStdout(), report)
			}
			if !report.Healthy() {
				return errUnhealthy
			}
			return nil
		})
	},
}

func printDoctor(w io.Writer, r service.DoctorReport) {
	fmt.Fprintf(w, "Malformed intake rows: %d\n", r.MalformedIntakeRows)
	fmt.Fprintf(w, "Invalid food types: %d\n", r.InvalidFoodTypes)
	fmt.Fprintf(w, "Duplicate intake rows: %d\n", r.DuplicateIntakeRows)
	fmt.Fprintf(w, "Pending migrations: %d\n", r.PendingMigrations)
	if r.DeletedIntakeRows > 0 || r.FixedFoodTypes > 0 {
		fmt.Fprintf(w, "Repaired: %d intake row(s) deleted, %d food type(s) reset\n", r.DeletedIntakeRows, r.FixedFoodTypes)
	}
	if r.Healthy() {
		fmt.Fprintln(w, "OK")
	}
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Delete malformed intake rows and reset unknown food types to non-veg")
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "Output as JSON")
}
