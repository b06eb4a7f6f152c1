package mealwise

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/saadjs/mealwise/internal/app"
	"github.com/saadjs/mealwise/internal/db"
	"github.com/saadjs/mealwise/internal/service"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Snapshot, list, prune and restore the database",
}

var (
	backupOut     string
	backupDir     string
	backupJSON    bool
	backupKeep    int
	restoreForce  bool
	restoreNoSafe bool
)

// backupLocation resolves the backup directory for the active database.
func backupLocation() (dbFile, dir string, err error) {
	dbFile, err = resolveDBPath()
	if err != nil {
		return "", "", err
	}
	return dbFile, valueOr(backupDir, app.BackupDir(dbFile)), nil
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Write a verified snapshot of the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, dir, err := backupLocation()
		if err != nil {
			return err
		}
		out := valueOr(backupOut, service.DefaultBackupPath(dir, time.Now()))
		return withDB(func(sqldb *sql.DB) error {
			info, err := service.CreateBackup(sqldb, out)
			if err != nil {
				return err
			}
			logger.Debug("backup written", zap.String("path", info.Path), zap.Int64("bytes", info.SizeBytes))
			if backupJSON {
				return printJSON(cmd.OutOrStdout(), info)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Backup %s (sha256 %s)\n", info.Path, info.Checksum)
			return nil
		})
	},
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List snapshots, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, dir, err := backupLocation()
		if err != nil {
			return err
		}
		items, err := service.ListBackups(dir)
		if err != nil {
			return err
		}
		if backupJSON {
			return printJSON(cmd.OutOrStdout(), items)
		}
		if len(items) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No backups in %s\n", dir)
			return nil
		}
		for _, it := range items {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %d bytes\n", it.CreatedAt.Local().Format("2006-01-02 15:04"), it.Path, it.SizeBytes)
		}
		return nil
	},
}

var backupPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the newest --keep snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, dir, err := backupLocation()
		if err != nil {
			return err
		}
		removed, err := service.PruneBackups(dir, backupKeep)
		for _, p := range removed {
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", p)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Kept %d newest backup(s)\n", backupKeep)
		return nil
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore <backup-file>",
	Short: "Replace the database with a verified snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbFile, dir, err := backupLocation()
		if err != nil {
			return err
		}
		// Snapshot the current database first so a bad restore can be undone.
		if restoreForce && !restoreNoSafe {
			if _, statErr := os.Stat(dbFile); statErr == nil {
				safety := filepath.Join(dir, "pre-restore-"+time.Now().Format("20060102-150405")+".db")
				if err := snapshot(dbFile, safety); err != nil {
					return fmt.Errorf("pre-restore snapshot: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved current database to %s\n", safety)
			}
		}
		if err := service.RestoreBackup(args[0], dbFile, restoreForce); err != nil {
			return err
		}
		logger.Info("database restored", zap.String("from", args[0]), zap.String("db", dbFile))
		fmt.Fprintf(cmd.OutOrStdout(), "Restored %s from %s\n", dbFile, args[0])
		return nil
	},
}

func snapshot(dbFile, out string) error {
	sqldb, err := db.Open(dbFile)
	if err != nil {
		return err
	}
	defer sqldb.Close()
	_, err = service.CreateBackup(sqldb, out)
	return err
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupCreateCmd, backupListCmd, backupPruneCmd, backupRestoreCmd)

	backupCmd.PersistentFlags().StringVar(&backupDir, "dir", "", "Backup directory (default: backups/ next to the database)")
	backupCreateCmd.Flags().StringVar(&backupOut, "out", "", "Explicit snapshot path")
	backupCreateCmd.Flags().BoolVar(&backupJSON, "json", false, "Output as JSON")
	backupListCmd.Flags().BoolVar(&backupJSON, "json", false, "Output as JSON")
	backupPruneCmd.Flags().IntVar(&backupKeep, "keep", 5, "Number of snapshots to keep")
	backupRestoreCmd.Flags().BoolVar(&restoreForce, "force", false, "Overwrite an existing database")
	backupRestoreCmd.Flags().BoolVar(&restoreNoSafe, "no-safety-copy", false, "Skip the snapshot taken before a forced restore")
}
