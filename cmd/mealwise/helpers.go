package mealwise

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/saadjs/mealwise/internal/app"
	"github.com/saadjs/mealwise/internal/db"
)

func resolveDBPath() (string, error) {
	return app.ResolveDBPath(dbPath)
}

func withDB(run func(*sql.DB) error) error {
	path, err := resolveDBPath()
	if err != nil {
		return err
	}
	if err := app.EnsureDBDir(path); err != nil {
		return err
	}
	sqldb, err := db.Open(path)
	if err != nil {
		return err
	}
	defer sqldb.Close()

	if err := db.ApplyMigrations(sqldb); err != nil {
		return err
	}
	logger.Debug("database ready", zap.String("db", path))
	return run(sqldb)
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Fprintln(w, string(b))
	return nil
}

// parseLogTime turns optional --date/--time flags into the moment an entry
// was eaten. A bare date keeps the current wall-clock time for ordering.
func parseLogTime(date, timeStr string) (string, time.Time, error) {
	date = strings.TrimSpace(date)
	timeStr = strings.TrimSpace(timeStr)
	if timeStr == "" {
		if date != "" {
			if _, err := time.ParseInLocation("2006-01-02", date, time.Local); err != nil {
				return "", time.Time{}, fmt.Errorf("invalid --date %q (expected YYYY-MM-DD)", date)
			}
		}
		return date, time.Time{}, nil
	}
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+timeStr, time.Local)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("invalid --date/--time (expected YYYY-MM-DD and HH:MM)")
	}
	return date, t, nil
}

func valueOr(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
