package mealwise

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/saadjs/mealwise/internal/analytics"
	"github.com/saadjs/mealwise/internal/model"
	"github.com/saadjs/mealwise/internal/service"
)

// resetFlags puts every flag back to its default so package-level flag
// variables do not leak between in-process runs.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace([]string{})
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("mealwise %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func tempDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "mealwise.db")
}

func TestRootHelp(t *testing.T) {
	out := mustRun(t, "--help")
	if !strings.Contains(out, "plan") || !strings.Contains(out, "analytics") {
		t.Fatalf("expected help to list commands, got %q", out)
	}
}

func TestInitCommandIdempotent(t *testing.T) {
	path := tempDB(t)
	for i := 0; i < 2; i++ {
		out := mustRun(t, "--db", path, "init")
		if !strings.Contains(out, path) {
			t.Fatalf("init run %d: expected path in output, got %q", i+1, out)
		}
	}
}

func TestFoodIntakeTodayFlow(t *testing.T) {
	path := tempDB(t)
	mustRun(t, "--db", path, "food", "add", "--name", "Tofu", "--protein", "8", "--calories", "76", "--category", "protein", "--type", "veg")

	out := mustRun(t, "--db", path, "food", "show", "tofu")
	if !strings.Contains(out, "Protein: 8.0g/100g") || !strings.Contains(out, "Custom: yes") {
		t.Fatalf("unexpected food show output %q", out)
	}

	mustRun(t, "--db", path, "food", "update", "Tofu", "--calories", "80")
	out = mustRun(t, "--db", path, "food", "show", "Tofu")
	if !strings.Contains(out, "Calories: 80 kcal/100g") || !strings.Contains(out, "Type: veg") {
		t.Fatalf("expected partial update to keep type, got %q", out)
	}

	out = mustRun(t, "--db", path, "intake", "add", "seed-chicken-breast", "--grams", "200", "--date", "2024-04-01", "--time", "13:00")
	if !strings.Contains(out, "330 kcal") {
		t.Fatalf("expected 330 kcal logged, got %q", out)
	}
	out = mustRun(t, "--db", path, "intake", "today", "--date", "2024-04-01")
	if !strings.Contains(out, "Calories: 330 / 2000 kcal") || !strings.Contains(out, "13:00") {
		t.Fatalf("unexpected today output %q", out)
	}

	if _, err := run(t, "--db", path, "food", "delete", "seed-oats"); err == nil {
		t.Fatalf("expected deleting a seeded food to fail")
	}
	if _, err := run(t, "--db", path, "intake", "add", "seed-oats", "--grams", "-5"); err == nil {
		t.Fatalf("expected negative grams to fail")
	}
	out = mustRun(t, "--db", path, "intake", "add", "seed-milk", "--amount", "1cup", "--density", "1.03", "--date", "2024-04-01")
	if !strings.Contains(out, "Logged 244g Milk (toned)") {
		t.Fatalf("expected cup converted to grams, got %q", out)
	}
	if _, err := run(t, "--db", path, "intake", "add", "seed-milk", "--amount", "1cup"); err == nil {
		t.Fatalf("expected volume without density to fail")
	}
}

func TestPlanCommandHonoursDiet(t *testing.T) {
	path := tempDB(t)
	mustRun(t, "--db", path, "prefs", "diet", "vegetarian")
	mustRun(t, "--db", path, "goal", "set", "--calories", "1800", "--protein", "80")

	out := mustRun(t, "--db", path, "plan", "--seed", "3", "--json")
	var plan service.PlanResult
	if err := json.Unmarshal([]byte(out), &plan); err != nil {
		t.Fatalf("decode plan json: %v\n%s", err, out)
	}
	if plan.Goals.CalorieGoal != 1800 || len(plan.Meals) != 4 {
		t.Fatalf("unexpected plan %+v", plan)
	}
	for _, m := range plan.Meals {
		for _, it := range m.Items {
			if it.FoodType != model.FoodTypeVeg {
				t.Fatalf("expected veg items only, got %s", it.FoodName)
			}
		}
	}
	if again := mustRun(t, "--db", path, "plan", "--seed", "3", "--json"); again != out {
		t.Fatalf("expected same seed to reproduce the plan")
	}

	text := mustRun(t, "--db", path, "plan", "--seed", "3")
	if !strings.Contains(text, "BREAKFAST") || !strings.Contains(text, "Total:") {
		t.Fatalf("unexpected plan text %q", text)
	}

	if _, err := run(t, "--db", path, "prefs", "diet", "pescatarian"); err == nil {
		t.Fatalf("expected unknown diet to fail")
	}
}

func TestRecipeCommands(t *testing.T) {
	path := tempDB(t)
	out := mustRun(t, "--db", path, "recipe", "add", "--name", "Overnight Oats", "--servings", "2",
		"--ingredient", "seed-oats=100", "--ingredient", "Milk (toned)=200", "--tag", "quick", "--category", "breakfast")
	if !strings.Contains(out, "250 kcal") {
		t.Fatalf("expected 249.5 kcal per serving rounded, got %q", out)
	}

	out = mustRun(t, "--db", path, "recipe", "show", "overnight oats")
	if !strings.Contains(out, "Per serving: 250 kcal, 10.0g protein") || !strings.Contains(out, "Tags: quick") {
		t.Fatalf("unexpected recipe show %q", out)
	}

	mustRun(t, "--db", path, "recipe", "duplicate", "Overnight Oats")
	out = mustRun(t, "--db", path, "recipe", "list", "--diet", "vegetarian")
	if !strings.Contains(out, "Overnight Oats (Copy)") {
		t.Fatalf("expected duplicate in list, got %q", out)
	}
	out = mustRun(t, "--db", path, "recipe", "stats")
	if !strings.Contains(out, "Recipes: 2") || !strings.Contains(out, "breakfast: 2") {
		t.Fatalf("unexpected stats %q", out)
	}

	out = mustRun(t, "--db", path, "intake", "recipe", "Overnight Oats", "--servings", "1", "--date", "2024-04-02")
	if !strings.Contains(out, "250 kcal") {
		t.Fatalf("expected recipe intake logged, got %q", out)
	}
	mustRun(t, "--db", path, "recipe", "delete", "Overnight Oats (Copy)")
	if _, err := run(t, "--db", path, "recipe", "show", "Overnight Oats (Copy)"); err == nil {
		t.Fatalf("expected deleted recipe to be gone")
	}
}

func TestAnalyticsCommands(t *testing.T) {
	path := tempDB(t)
	for _, d := range []string{"2024-04-08", "2024-04-09", "2024-04-10"} {
		mustRun(t, "--db", path, "intake", "add", "seed-lentils", "--grams", "400", "--date", d)
	}

	out := mustRun(t, "--db", path, "analytics", "streak", "--as-of", "2024-04-10", "--json")
	var streak analytics.Streak
	if err := json.Unmarshal([]byte(out), &streak); err != nil {
		t.Fatalf("decode streak: %v", err)
	}
	if streak.Current != 3 || streak.Longest != 3 {
		t.Fatalf("expected 3/3 streak, got %+v", streak)
	}

	out = mustRun(t, "--db", path, "analytics", "week", "--as-of", "2024-04-10")
	if !strings.Contains(out, "Entries: 3") || !strings.Contains(out, "2024-04-04\t-") {
		t.Fatalf("unexpected week output %q", out)
	}

	out = mustRun(t, "--db", path, "analytics", "insights", "--as-of", "2024-04-10")
	if !strings.Contains(out, "Great Consistency") {
		t.Fatalf("expected streak insight, got %q", out)
	}

	out = mustRun(t, "--db", path, "analytics", "month", "--as-of", "2024-04-12")
	if !strings.Contains(out, "Current streak: 0") || !strings.Contains(out, "Longest streak: 3") {
		t.Fatalf("unexpected month output %q", out)
	}

	if _, err := run(t, "--db", path, "analytics", "week", "--as-of", "10/04/2024"); err == nil {
		t.Fatalf("expected bad --as-of to fail")
	}
}

func TestExportImportCommands(t *testing.T) {
	src := tempDB(t)
	mustRun(t, "--db", src, "intake", "add", "seed-banana", "--grams", "120", "--date", "2024-04-03")
	exportPath := filepath.Join(t.TempDir(), "export.json")
	mustRun(t, "--db", src, "export", "--out", exportPath)

	csvPath := filepath.Join(t.TempDir(), "intake.csv")
	mustRun(t, "--db", src, "export", "--format", "csv", "--out", csvPath)
	b, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if lines := strings.Split(strings.TrimSpace(string(b)), "\n"); len(lines) != 2 || !strings.Contains(lines[1], "Banana") {
		t.Fatalf("unexpected csv export %q", string(b))
	}

	dst := tempDB(t)
	out := mustRun(t, "--db", dst, "import", "--in", exportPath, "--dry-run")
	if !strings.Contains(out, "Dry run") || !strings.Contains(out, "entries 1 added") {
		t.Fatalf("unexpected dry run output %q", out)
	}
	out = mustRun(t, "--db", dst, "intake", "list")
	if strings.Contains(out, "Banana") {
		t.Fatalf("expected dry run to write nothing, got %q", out)
	}

	mustRun(t, "--db", dst, "import", "--in", exportPath, "--mode", "merge")
	out = mustRun(t, "--db", dst, "intake", "list", "--date", "2024-04-03")
	if !strings.Contains(out, "Banana") {
		t.Fatalf("expected imported entry, got %q", out)
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte(`{"foods": "nope"}`), 0o644); err != nil {
		t.Fatalf("write bad file: %v", err)
	}
	out, err = run(t, "--db", dst, "import", "--in", bad)
	if err == nil || !strings.Contains(out, "missing or invalid 'foods' array") {
		t.Fatalf("expected validation failure, got err=%v out=%q", err, out)
	}
}

func TestBackupAndDoctorCommands(t *testing.T) {
	path := tempDB(t)
	out := mustRun(t, "--db", path, "doctor")
	if !strings.Contains(out, "Malformed intake rows: 0") {
		t.Fatalf("unexpected doctor output %q", out)
	}

	out = mustRun(t, "--db", path, "backup", "create", "--json")
	var info service.BackupInfo
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("decode backup json: %v\n%s", err, out)
	}
	if len(info.Checksum) != 64 {
		t.Fatalf("unexpected backup info %+v", info)
	}
	out = mustRun(t, "--db", path, "backup", "list")
	if strings.Count(out, " bytes") != 1 {
		t.Fatalf("expected one backup listed, got %q", out)
	}

	if _, err := run(t, "--db", path, "backup", "restore", info.Path); err == nil {
		t.Fatalf("expected restore over an existing database without --force to fail")
	}
	out = mustRun(t, "--db", path, "backup", "restore", info.Path, "--force")
	if !strings.Contains(out, "Saved current database to") || !strings.Contains(out, "Restored "+path) {
		t.Fatalf("unexpected restore output %q", out)
	}

	out = mustRun(t, "--db", path, "backup", "prune", "--keep", "1")
	if strings.Count(out, "Removed ") != 1 {
		t.Fatalf("expected one pruned backup, got %q", out)
	}
}

func TestParseIngredient(t *testing.T) {
	t.Parallel()
	in, err := parseIngredient("Milk (toned)=200")
	if err != nil {
		t.Fatalf("parse ingredient: %v", err)
	}
	if in.FoodRef != "Milk (toned)" || in.Grams != 200 {
		t.Fatalf("unexpected ingredient %+v", in)
	}
	in, err = parseIngredient("seed-oats=2oz")
	if err != nil {
		t.Fatalf("parse ingredient with unit: %v", err)
	}
	if in.Grams < 56.6 || in.Grams > 56.8 {
		t.Fatalf("expected ~56.7 g, got %.2f", in.Grams)
	}
	for _, raw := range []string{"oats", "=100", "oats=", "oats=abc", "oats=1cup"} {
		if _, err := parseIngredient(raw); err == nil {
			t.Fatalf("expected %q to fail", raw)
		}
	}
}

func TestParseLogTime(t *testing.T) {
	t.Parallel()
	date, at, err := parseLogTime("2024-04-01", "")
	if err != nil || date != "2024-04-01" || !at.IsZero() {
		t.Fatalf("expected bare date, got %q %v %v", date, at, err)
	}
	date, at, err = parseLogTime("2024-04-01", "07:45")
	if err != nil || date != "2024-04-01" || at.Format("15:04") != "07:45" {
		t.Fatalf("expected date and time, got %q %v %v", date, at, err)
	}
	if _, _, err := parseLogTime("2024-02-30", ""); err == nil {
		t.Fatalf("expected invalid date to fail")
	}
	if _, _, err := parseLogTime("2024-04-01", "7pm"); err == nil {
		t.Fatalf("expected invalid time to fail")
	}
}
