package catalog

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"storefront-api/internal/model"
	"storefront-api/prometheus"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// fixtureRecord mirrors one entry of the seed fixture file. Numeric fields
// are raw because the fixture mixes strings and numbers.
type fixtureRecord struct {
	ID           json.RawMessage `json:"_id"`
	Name         string          `json:"name"`
	Image        string          `json:"image"`
	Description  string          `json:"description"`
	Brand        string          `json:"brand"`
	Category     string          `json:"category"`
	Price        json.RawMessage `json:"price"`
	CountInStock json.RawMessage `json:"countInStock"`
	Rating       json.RawMessage `json:"rating"`
	NumReviews   json.RawMessage `json:"numReviews"`
}

// coerceFloat reads a JSON number or numeric string, defaulting to 0
func coerceFloat(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f
		}
	}
	return 0
}

// coerceInt reads a JSON integer or numeric string, defaulting to 0
func coerceInt(raw json.RawMessage) int {
	return int(coerceFloat(raw))
}

// coerceID reads an optional primary key, returning 0 when absent or
// malformed so the database assigns one
func coerceID(raw json.RawMessage) uint {
	f := coerceFloat(raw)
	if f < 1 {
		return 0
	}
	return uint(f)
}

func (r fixtureRecord) toProduct() model.Product {
	return model.Product{
		ID:           coerceID(r.ID),
		Name:         r.Name,
		Image:        r.Image,
		Description:  r.Description,
		Brand:        r.Brand,
		Category:     r.Category,
		Price:        coerceFloat(r.Price),
		CountInStock: coerceInt(r.CountInStock),
		Rating:       coerceFloat(r.Rating),
		NumReviews:   coerceInt(r.NumReviews),
	}
}

// SeedIfEmpty loads the fixture file into the products table when it is
// empty. Returns the number of inserted products; a non-empty table or a
// missing fixture file is a no-op.
func SeedIfEmpty(db *gorm.DB, log *zap.Logger, fixturePath string) (int, error) {
	var count int64
	if err := db.Model(&model.Product{}).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		log.Info("Product table not empty, skipping seed", zap.Int64("count", count))
		return 0, nil
	}

	data, err := os.ReadFile(fixturePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn("Seed fixture not found, skipping", zap.String("path", fixturePath))
			return 0, nil
		}
		return 0, err
	}

	var records []fixtureRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}

	products := make([]model.Product, 0, len(records))
	for _, rec := range records {
		products = append(products, rec.toProduct())
	}

	// Single transaction, conflicting rows skipped
	err = db.Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&products).Error
	})
	if err != nil {
		return 0, err
	}

	prometheus.RecordSeededProducts(len(products))
	log.Info("Seeded products from fixture",
		zap.String("path", fixturePath),
		zap.Int("count", len(products)))
	return len(products), nil
}
