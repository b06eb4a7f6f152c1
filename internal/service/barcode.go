package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/saadjs/mealwise/internal/model"
	"github.com/saadjs/mealwise/internal/provider/openfoodfacts"
)

const defaultBarcodeTTL = 30 * 24 * time.Hour

var barcodePattern = regexp.MustCompile(`^\d{8,14}$`)

// ProductLookup is satisfied by *openfoodfacts.Client.
type ProductLookup interface {
	LookupBarcode(ctx context.Context, barcode string) (openfoodfacts.Product, error)
}

type BarcodeResult struct {
	openfoodfacts.Product
	FromCache bool `json:"fromCache"`
}

// LookupBarcode serves a product from the local cache when a fresh entry
// exists and otherwise asks the provider, caching what it returns.
func LookupBarcode(ctx context.Context, db *sql.DB, client ProductLookup, barcode string, refresh bool) (BarcodeResult, error) {
	barcode = strings.TrimSpace(barcode)
	if !barcodePattern.MatchString(barcode) {
		return BarcodeResult{}, fmt.Errorf("invalid barcode %q (expected 8-14 digits)", barcode)
	}
	if !refresh {
		cached, found, err := lookupBarcodeCache(db, barcode, time.Now())
		if err != nil {
			return BarcodeResult{}, err
		}
		if found {
			return BarcodeResult{Product: cached, FromCache: true}, nil
		}
	}

	p, err := client.LookupBarcode(ctx, barcode)
	if err != nil {
		return BarcodeResult{}, err
	}
	p.Barcode = barcode
	if err := upsertBarcodeCache(db, p, time.Now().Add(defaultBarcodeTTL)); err != nil {
		return BarcodeResult{}, err
	}
	return BarcodeResult{Product: p}, nil
}

func lookupBarcodeCache(db *sql.DB, barcode string, now time.Time) (openfoodfacts.Product, bool, error) {
	var raw, expiresRaw string
	err := db.QueryRow(`SELECT product_json, expires_at FROM barcode_cache WHERE barcode = ?`, barcode).Scan(&raw, &expiresRaw)
	if err == sql.ErrNoRows {
		return openfoodfacts.Product{}, false, nil
	}
	if err != nil {
		return openfoodfacts.Product{}, false, fmt.Errorf("lookup barcode cache: %w", err)
	}
	expiresAt, err := time.Parse(time.RFC3339, expiresRaw)
	if err != nil {
		return openfoodfacts.Product{}, false, fmt.Errorf("parse barcode cache expiry: %w", err)
	}
	if now.After(expiresAt) {
		return openfoodfacts.Product{}, false, nil
	}
	var p openfoodfacts.Product
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return openfoodfacts.Product{}, false, fmt.Errorf("decode barcode cache entry: %w", err)
	}
	return p, true, nil
}

func upsertBarcodeCache(db *sql.DB, p openfoodfacts.Product, expiresAt time.Time) error {
	b, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode barcode cache entry: %w", err)
	}
	_, err = db.Exec(`
INSERT INTO barcode_cache(barcode, product_json, fetched_at, expires_at)
VALUES(?, ?, ?, ?)
ON CONFLICT(barcode) DO UPDATE SET
  product_json=excluded.product_json,
  fetched_at=excluded.fetched_at,
  expires_at=excluded.expires_at
`, p.Barcode, string(b), time.Now().UTC().Format(time.RFC3339), expiresAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert barcode cache: %w", err)
	}
	return nil
}

// PurgeBarcodeCache drops one cached barcode, or every entry when barcode
// is empty.
func PurgeBarcodeCache(db *sql.DB, barcode string) (int64, error) {
	var res sql.Result
	var err error
	if b := strings.TrimSpace(barcode); b != "" {
		res, err = db.Exec(`DELETE FROM barcode_cache WHERE barcode = ?`, b)
	} else {
		res, err = db.Exec(`DELETE FROM barcode_cache`)
	}
	if err != nil {
		return 0, fmt.Errorf("purge barcode cache: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

type BarcodeFoodInput struct {
	Barcode string
	// Name, Category and FoodType override what the provider reports.
	Name     string
	Category string
	FoodType model.FoodType
	Refresh  bool
}

// AddFoodFromBarcode looks a product up and adds it to the catalog as a
// custom food. The food type must come from the product or the caller;
// an unclassified product is never guessed into a diet.
func AddFoodFromBarcode(ctx context.Context, db *sql.DB, client ProductLookup, in BarcodeFoodInput) (*model.FoodItem, error) {
	res, err := LookupBarcode(ctx, db, client, in.Barcode, in.Refresh)
	if err != nil {
		return nil, err
	}
	add := AddFoodInput{
		Name:            res.Name,
		ProteinPer100g:  res.ProteinPer100g,
		CaloriesPer100g: res.CaloriesPer100g,
		Category:        res.Category,
		FoodType:        res.FoodType,
	}
	if n := strings.TrimSpace(in.Name); n != "" {
		add.Name = n
	}
	if c := strings.TrimSpace(in.Category); c != "" {
		add.Category = c
	}
	if in.FoodType != "" {
		add.FoodType = in.FoodType
	}
	if add.FoodType == "" {
		return nil, fmt.Errorf("product %q has no vegetarian classification; pass a food type", res.Name)
	}
	id, err := AddFood(db, add)
	if err != nil {
		return nil, err
	}
	return FoodByID(db, id)
}
