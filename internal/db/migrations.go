package db

import (
	"database/sql"
	"fmt"
)

// A migration runs either sql or apply inside one transaction.
type migration struct {
	version int
	name    string
	sql     string
	apply   func(tx *sql.Tx) error
}

var migrations = []migration{
	{
		version: 1,
		name:    "initial_schema",
		sql: `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS foods (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  name_key TEXT NOT NULL,
  protein_per_100g REAL NOT NULL CHECK(protein_per_100g >= 0),
  calories_per_100g REAL NOT NULL CHECK(calories_per_100g >= 0),
  category TEXT NOT NULL DEFAULT '',
  food_type TEXT NOT NULL,
  is_custom INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_foods_name_key ON foods(name_key);
CREATE INDEX IF NOT EXISTS idx_foods_category ON foods(category);

CREATE TABLE IF NOT EXISTS intake_entries (
  id TEXT PRIMARY KEY,
  food_id TEXT NOT NULL,
  food_name TEXT NOT NULL,
  quantity REAL NOT NULL DEFAULT 0,
  protein REAL NOT NULL,
  calories REAL NOT NULL,
  date TEXT NOT NULL,
  timestamp INTEGER NOT NULL,
  food_type TEXT NOT NULL DEFAULT '',
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_intake_entries_date ON intake_entries(date);

CREATE TABLE IF NOT EXISTS goals (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  calorie_goal REAL NOT NULL CHECK(calorie_goal > 0),
  protein_goal REAL NOT NULL CHECK(protein_goal > 0),
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS app_config (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`,
	},
	{
		version: 2,
		name:    "recipes",
		sql: `
CREATE TABLE IF NOT EXISTS recipes (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  name_key TEXT NOT NULL UNIQUE,
  description TEXT NOT NULL DEFAULT '',
  category TEXT NOT NULL DEFAULT '',
  tags_json TEXT NOT NULL DEFAULT '[]',
  servings REAL NOT NULL CHECK(servings > 0),
  total_calories REAL NOT NULL CHECK(total_calories >= 0),
  total_protein REAL NOT NULL CHECK(total_protein >= 0),
  food_type TEXT NOT NULL,
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS recipe_ingredients (
  recipe_id TEXT NOT NULL,
  position INTEGER NOT NULL,
  food_id TEXT NOT NULL,
  food_name TEXT NOT NULL,
  quantity REAL NOT NULL CHECK(quantity > 0),
  protein REAL NOT NULL CHECK(protein >= 0),
  calories REAL NOT NULL CHECK(calories >= 0),
  food_type TEXT NOT NULL,
  PRIMARY KEY(recipe_id, position),
  FOREIGN KEY(recipe_id) REFERENCES recipes(id) ON DELETE CASCADE
);
`,
	},
	{
		version: 3,
		name:    "seed_catalog",
		apply:   seedCatalog,
	},
	{
		version: 4,
		name:    "barcode_cache",
		sql: `
CREATE TABLE IF NOT EXISTS barcode_cache (
  barcode TEXT PRIMARY KEY,
  product_json TEXT NOT NULL,
  fetched_at TEXT NOT NULL,
  expires_at TEXT NOT NULL
);
`,
	},
}

func ApplyMigrations(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`); err != nil {
		return fmt.Errorf("ensure schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		var exists int
		err := db.QueryRow(`SELECT 1 FROM schema_migrations WHERE version = ?`, m.version).Scan(&exists)
		if err == nil {
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("check migration version %d: %w", m.version, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration tx: %w", err)
		}

		if m.apply != nil {
			err = m.apply(tx)
		} else {
			_, err = tx.Exec(m.sql)
		}
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration version %d (%s): %w", m.version, m.name, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations(version, name) VALUES(?, ?)`, m.version, m.name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration version %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration version %d: %w", m.version, err)
		}
	}

	return nil
}

// PendingMigrations reports how many known migrations have not been applied.
func PendingMigrations(db *sql.DB) (int, error) {
	var applied int
	if err := db.QueryRow(`SELECT COUNT(1) FROM schema_migrations`).Scan(&applied); err != nil {
		return 0, fmt.Errorf("count applied migrations: %w", err)
	}
	if pending := len(migrations) - applied; pending > 0 {
		return pending, nil
	}
	return 0, nil
}
