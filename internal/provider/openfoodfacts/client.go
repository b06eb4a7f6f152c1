// Package openfoodfacts looks up packaged foods on Open Food Facts and
// normalises them to the per-100 g protein and calorie rates the catalog
// stores.
package openfoodfacts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/saadjs/mealwise/internal/model"
)

const (
	defaultBaseURL = "https://world.openfoodfacts.org"
	userAgent      = "mealwise/1.0 (+https://github.com/saadjs/mealwise)"
)

// Product is one Open Food Facts item reduced to catalog fields. FoodType
// is empty when the product carries no vegetarian analysis.
type Product struct {
	Barcode         string         `json:"barcode"`
	Name            string         `json:"name"`
	Brand           string         `json:"brand,omitempty"`
	ProteinPer100g  float64        `json:"proteinPer100g"`
	CaloriesPer100g float64        `json:"caloriesPer100g"`
	Category        string         `json:"category,omitempty"`
	FoodType        model.FoodType `json:"foodType,omitempty"`
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func (c *Client) base() string {
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		return defaultBaseURL
	}
	return base
}

func (c *Client) get(ctx context.Context, u string, out any) error {
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create openfoodfacts request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute openfoodfacts request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read openfoodfacts response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("openfoodfacts request failed with status %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode openfoodfacts response: %w", err)
	}
	return nil
}

func (c *Client) LookupBarcode(ctx context.Context, barcode string) (Product, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return Product{}, fmt.Errorf("barcode is required")
	}
	var parsed offResponse
	if err := c.get(ctx, fmt.Sprintf("%s/api/v2/product/%s.json", c.base(), url.PathEscape(barcode)), &parsed); err != nil {
		return Product{}, err
	}
	if parsed.Status != 1 || strings.TrimSpace(parsed.Product.ProductName) == "" {
		return Product{}, fmt.Errorf("no openfoodfacts product found for barcode %q", barcode)
	}
	p, ok := toProduct(parsed.Product)
	if !ok {
		return Product{}, fmt.Errorf("openfoodfacts product %q has no usable calorie data", barcode)
	}
	if p.Barcode == "" {
		p.Barcode = barcode
	}
	return p, nil
}

// SearchFoods returns up to limit products with usable nutrition data.
func (c *Client) SearchFoods(ctx context.Context, query string, limit int) ([]Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search query is required")
	}
	if limit <= 0 {
		limit = 10
	}
	u := fmt.Sprintf("%s/cgi/search.pl?search_terms=%s&search_simple=1&action=process&json=1&page_size=%d",
		c.base(), url.QueryEscape(query), limit)
	var parsed offSearchResponse
	if err := c.get(ctx, u, &parsed); err != nil {
		return nil, err
	}
	out := make([]Product, 0, len(parsed.Products))
	for _, raw := range parsed.Products {
		if strings.TrimSpace(raw.ProductName) == "" {
			continue
		}
		if p, ok := toProduct(raw); ok {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no openfoodfacts product found for query %q", query)
	}
	return out, nil
}

func toProduct(p offProduct) (Product, bool) {
	calories, ok := per100g(p, "energy-kcal")
	if !ok || calories < 0 {
		return Product{}, false
	}
	protein, _ := per100g(p, "proteins")
	if protein < 0 {
		protein = 0
	}
	return Product{
		Barcode:         strings.TrimSpace(p.Code),
		Name:            strings.TrimSpace(p.ProductName),
		Brand:           strings.TrimSpace(p.Brands),
		ProteinPer100g:  protein,
		CaloriesPer100g: calories,
		Category:        categoryFromTags(p.CategoriesTags),
		FoodType:        foodTypeFromTags(p.IngredientsAnalysisTags, p.CategoriesTags),
	}, true
}

// per100g prefers the _100g value and falls back to scaling the per-serving
// value when the serving is given in grams.
func per100g(p offProduct, base string) (float64, bool) {
	if v, ok := parseFloatAny(p.Nutriments[base+"_100g"]); ok {
		return v, true
	}
	v, ok := parseFloatAny(p.Nutriments[base+"_serving"])
	if !ok {
		return 0, false
	}
	grams, ok := servingGrams(p)
	if !ok {
		return 0, false
	}
	return v * 100 / grams, true
}

func servingGrams(p offProduct) (float64, bool) {
	if p.ServingQuantity > 0 {
		unit := strings.ToLower(strings.TrimSpace(p.ServingQuantityUnit))
		if unit == "" || unit == "g" {
			return p.ServingQuantity, true
		}
		return 0, false
	}
	parts := strings.Fields(strings.TrimSpace(p.ServingSize))
	if len(parts) >= 2 && strings.EqualFold(parts[1], "g") {
		if val, err := strconv.ParseFloat(strings.ReplaceAll(parts[0], ",", ""), 64); err == nil && val > 0 {
			return val, true
		}
	}
	return 0, false
}

func parseFloatAny(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Ordered so that the more specific match wins, e.g. a dairy dessert is
// dairy before it is a snack.
var categoryRules = []struct {
	tag      string
	category string
}{
	{"en:legumes", "legumes"},
	{"en:pulses", "legumes"},
	{"en:nuts", "nuts"},
	{"en:seeds", "nuts"},
	{"en:dairies", "dairy"},
	{"en:cheeses", "dairy"},
	{"en:yogurts", "dairy"},
	{"en:meats", "protein"},
	{"en:poultries", "protein"},
	{"en:fishes", "protein"},
	{"en:eggs", "protein"},
	{"en:tofu", "protein"},
	{"en:cereals-and-potatoes", "grains"},
	{"en:breads", "grains"},
	{"en:cereals", "grains"},
	{"en:fruits", "fruits"},
	{"en:vegetables", "vegetables"},
}

func categoryFromTags(tags []string) string {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		set[strings.ToLower(t)] = struct{}{}
	}
	for _, r := range categoryRules {
		if _, ok := set[r.tag]; ok {
			return r.category
		}
	}
	return ""
}

func foodTypeFromTags(analysis, categories []string) model.FoodType {
	for _, t := range analysis {
		if strings.EqualFold(t, "en:non-vegetarian") {
			return model.FoodTypeNonVeg
		}
	}
	for _, t := range categories {
		if strings.EqualFold(t, "en:eggs") {
			return model.FoodTypeEgg
		}
	}
	for _, t := range analysis {
		if strings.EqualFold(t, "en:vegetarian") {
			return model.FoodTypeVeg
		}
	}
	return ""
}

type offResponse struct {
	Status  int        `json:"status"`
	Product offProduct `json:"product"`
}

type offProduct struct {
	Code                    string         `json:"code"`
	ProductName             string         `json:"product_name"`
	Brands                  string         `json:"brands"`
	ServingSize             string         `json:"serving_size"`
	ServingQuantity         float64        `json:"serving_quantity"`
	ServingQuantityUnit     string         `json:"serving_quantity_unit"`
	Nutriments              map[string]any `json:"nutriments"`
	CategoriesTags          []string       `json:"categories_tags"`
	IngredientsAnalysisTags []string       `json:"ingredients_analysis_tags"`
}

type offSearchResponse struct {
	Products []offProduct `json:"products"`
}
