package service

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/saadjs/mealwise/internal/db"
)

const backupTimeLayout = "20060102-150405"

type BackupInfo struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	CreatedAt time.Time `json:"createdAt"`
	SizeBytes int64     `json:"sizeBytes"`
}

type DoctorReport struct {
	MalformedIntakeRows int `json:"malformedIntakeRows"`
	InvalidFoodTypes    int `json:"invalidFoodTypes"`
	DuplicateIntakeRows int `json:"duplicateIntakeRows"`
	PendingMigrations   int `json:"pendingMigrations"`
	DeletedIntakeRows   int `json:"deletedIntakeRows,omitempty"`
	FixedFoodTypes      int `json:"fixedFoodTypes,omitempty"`
}

func (r DoctorReport) Healthy() bool {
	return r.MalformedIntakeRows == 0 && r.InvalidFoodTypes == 0 && r.DuplicateIntakeRows == 0 && r.PendingMigrations == 0
}

// DefaultBackupPath names a backup after the moment it was taken.
func DefaultBackupPath(dir string, now time.Time) string {
	return filepath.Join(dir, "mealwise-"+now.Format(backupTimeLayout)+".db")
}

// CreateBackup writes a consistent snapshot with VACUUM INTO, so it is safe
// while other connections hold the database open, and records a SHA-256
// sidecar next to it.
func CreateBackup(sqldb *sql.DB, outPath string) (BackupInfo, error) {
	if strings.TrimSpace(outPath) == "" {
		return BackupInfo{}, fmt.Errorf("backup output path is required")
	}
	if _, err := os.Stat(outPath); err == nil {
		return BackupInfo{}, fmt.Errorf("backup %s already exists", outPath)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return BackupInfo{}, fmt.Errorf("create backup directory: %w", err)
	}
	if _, err := sqldb.Exec(`VACUUM INTO ?`, outPath); err != nil {
		return BackupInfo{}, fmt.Errorf("snapshot database: %w", err)
	}
	checksum, err := fileSHA256(outPath)
	if err != nil {
		return BackupInfo{}, err
	}
	if err := os.WriteFile(outPath+".sha256", []byte(checksum+"\n"), 0o644); err != nil {
		return BackupInfo{}, fmt.Errorf("write checksum file: %w", err)
	}
	st, err := os.Stat(outPath)
	if err != nil {
		return BackupInfo{}, fmt.Errorf("stat backup: %w", err)
	}
	return BackupInfo{Path: outPath, Checksum: checksum, CreatedAt: st.ModTime(), SizeBytes: st.Size()}, nil
}

// RestoreBackup verifies the checksum sidecar and that the backup opens as
// a mealwise database before copying it over dbPath. The caller must not
// hold dbPath open.
func RestoreBackup(backupPath, dbPath string, force bool) error {
	if strings.TrimSpace(backupPath) == "" || strings.TrimSpace(dbPath) == "" {
		return fmt.Errorf("backup path and db path are required")
	}
	if !force {
		if _, err := os.Stat(dbPath); err == nil {
			return fmt.Errorf("target db already exists; use --force to overwrite")
		}
	}
	expected, err := os.ReadFile(backupPath + ".sha256")
	if err != nil {
		return fmt.Errorf("read checksum file: %w", err)
	}
	actual, err := fileSHA256(backupPath)
	if err != nil {
		return err
	}
	if strings.TrimSpace(string(expected)) != actual {
		return fmt.Errorf("backup checksum mismatch")
	}
	if err := checkBackupSchema(backupPath); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("create db directory: %w", err)
	}
	return copyFile(backupPath, dbPath)
}

func checkBackupSchema(path string) error {
	bdb, err := db.Open(path)
	if err != nil {
		return fmt.Errorf("open backup: %w", err)
	}
	defer bdb.Close()
	var result string
	if err := bdb.QueryRow(`PRAGMA integrity_check`).Scan(&result); err != nil {
		return fmt.Errorf("check backup integrity: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("backup failed integrity check: %s", result)
	}
	if _, err := db.PendingMigrations(bdb); err != nil {
		return fmt.Errorf("backup is not a mealwise database: %w", err)
	}
	return nil
}

func ListBackups(dir string) ([]BackupInfo, error) {
	files, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return []BackupInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read backup dir: %w", err)
	}
	out := make([]BackupInfo, 0)
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".db") {
			continue
		}
		full := filepath.Join(dir, f.Name())
		st, err := os.Stat(full)
		if err != nil {
			continue
		}
		checksum := ""
		if b, err := os.ReadFile(full + ".sha256"); err == nil {
			checksum = strings.TrimSpace(string(b))
		}
		out = append(out, BackupInfo{Path: full, Checksum: checksum, CreatedAt: st.ModTime(), SizeBytes: st.Size()})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Path > out[j].Path
	})
	return out, nil
}

// PruneBackups keeps the newest keep backups in dir and removes the rest
// with their checksum sidecars. It returns the removed paths.
func PruneBackups(dir string, keep int) ([]string, error) {
	if keep < 1 {
		return nil, fmt.Errorf("keep must be at least 1")
	}
	items, err := ListBackups(dir)
	if err != nil {
		return nil, err
	}
	removed := make([]string, 0)
	for i := keep; i < len(items); i++ {
		if err := os.Remove(items[i].Path); err != nil {
			return removed, fmt.Errorf("remove backup %s: %w", items[i].Path, err)
		}
		if err := os.Remove(items[i].Path + ".sha256"); err != nil && !os.IsNotExist(err) {
			return removed, fmt.Errorf("remove checksum for %s: %w", items[i].Path, err)
		}
		removed = append(removed, items[i].Path)
	}
	return removed, nil
}

// RunDoctor looks for rows the analytics engine should never see. With fix
// set it deletes malformed intake rows and resets unknown food types to
// non-veg so they are never offered to a stricter diet.
func RunDoctor(sqldb *sql.DB, fix bool) (DoctorReport, error) {
	report := DoctorReport{}

	pending, err := db.PendingMigrations(sqldb)
	if err != nil {
		return report, err
	}
	report.PendingMigrations = pending

	rows, err := sqldb.Query(`SELECT id, date, quantity, protein, calories FROM intake_entries`)
	if err != nil {
		return report, fmt.Errorf("doctor intake query: %w", err)
	}
	malformed := make([]string, 0)
	for rows.Next() {
		var id, date string
		var quantity, protein, calories float64
		if err := rows.Scan(&id, &date, &quantity, &protein, &calories); err != nil {
			_ = rows.Close()
			return report, fmt.Errorf("doctor intake scan: %w", err)
		}
		if validateDate(date) != nil || quantity < 0 || protein < 0 || calories < 0 {
			malformed = append(malformed, id)
		}
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return report, fmt.Errorf("doctor intake iterate: %w", err)
	}
	_ = rows.Close()
	report.MalformedIntakeRows = len(malformed)

	if err := sqldb.QueryRow(`SELECT COUNT(1) FROM foods WHERE food_type NOT IN ('veg', 'egg', 'non-veg')`).Scan(&report.InvalidFoodTypes); err != nil {
		return report, fmt.Errorf("doctor food type check: %w", err)
	}

	if err := sqldb.QueryRow(`
SELECT COALESCE(SUM(cnt-1),0) FROM (
  SELECT COUNT(*) AS cnt
  FROM intake_entries
  GROUP BY food_id, date, timestamp
  HAVING cnt > 1
)
`).Scan(&report.DuplicateIntakeRows); err != nil {
		return report, fmt.Errorf("doctor duplicate query: %w", err)
	}

	if !fix || (len(malformed) == 0 && report.InvalidFoodTypes == 0) {
		return report, nil
	}
	err = withTx(sqldb, func(tx *sql.Tx) error {
		for _, id := range malformed {
			if _, err := tx.Exec(`DELETE FROM intake_entries WHERE id = ?`, id); err != nil {
				return fmt.Errorf("doctor fix intake row %s: %w", id, err)
			}
			report.DeletedIntakeRows++
		}
		res, err := tx.Exec(`UPDATE foods SET food_type = 'non-veg', updated_at = CURRENT_TIMESTAMP WHERE food_type NOT IN ('veg', 'egg', 'non-veg')`)
		if err != nil {
			return fmt.Errorf("doctor fix food types: %w", err)
		}
		n, _ := res.RowsAffected()
		report.FixedFoodTypes = int(n)
		return nil
	})
	return report, err
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source file: %w", err)
	}
	defer in.Close()
	tmp := dst + ".restore-tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create destination file: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("copy file: %w", err)
	}
	if err := out.Sync(); err != nil {
		_ = out.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("sync destination file: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close destination file: %w", err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		return fmt.Errorf("replace destination file: %w", err)
	}
	return nil
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file for checksum: %w", err)
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
