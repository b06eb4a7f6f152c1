package mealwise

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/saadjs/mealwise/internal/app"
)

func TestFoodLookupCommand(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": 1, "product": {"code": "8901234567890", "product_name": "Roasted Chana",
  "categories_tags": ["en:legumes"], "ingredients_analysis_tags": ["en:vegetarian"],
  "nutriments": {"energy-kcal_100g": 364, "proteins_100g": 22}}}`))
	}))
	defer ts.Close()
	t.Setenv(app.EnvFoodsURL, ts.URL)

	path := tempDB(t)
	out := mustRun(t, "--db", path, "food", "lookup", "8901234567890")
	if !strings.Contains(out, "Roasted Chana") || !strings.Contains(out, "Type: veg") {
		t.Fatalf("unexpected lookup output %q", out)
	}

	out = mustRun(t, "--db", path, "food", "lookup", "8901234567890", "--add")
	if !strings.Contains(out, "Added food Roasted Chana") {
		t.Fatalf("unexpected add output %q", out)
	}
	if hits.Load() != 1 {
		t.Fatalf("expected second lookup to be served from cache, got %d requests", hits.Load())
	}

	out = mustRun(t, "--db", path, "food", "list", "--custom")
	if !strings.Contains(out, "Roasted Chana") {
		t.Fatalf("expected added food in catalog, got %q", out)
	}

	out = mustRun(t, "--db", path, "food", "cache-clear")
	if !strings.Contains(out, "Removed 1") {
		t.Fatalf("unexpected cache-clear output %q", out)
	}

	if _, err := run(t, "--db", path, "food", "lookup", "not-a-code"); err == nil {
		t.Fatalf("expected invalid barcode to fail")
	}
}
