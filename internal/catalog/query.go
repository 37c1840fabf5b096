package catalog

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"storefront-api/internal/model"

	"gorm.io/gorm"
)

const (
	// DefaultPageSize is the number of products per page when unspecified
	DefaultPageSize = 8
	// MaxPageSize caps the client-requested page size
	MaxPageSize = 100
	// DefaultOrdering sorts newest products first
	DefaultOrdering = "-createdAt"
)

var (
	// ErrInvalidOrdering is returned for ordering fields outside the whitelist
	ErrInvalidOrdering = errors.New("invalid ordering field")
	// ErrInvalidPage is returned for non-numeric or out-of-range page numbers
	ErrInvalidPage = errors.New("invalid page")
)

// sortableColumns maps exposed ordering fields to their database columns
var sortableColumns = map[string]string{
	"name":         "name",
	"price":        "price",
	"countInStock": "count_in_stock",
	"rating":       "rating",
	"numReviews":   "num_reviews",
	"createdAt":    "created_at",
	"id":           "id",
}

// ListParams holds the parsed catalog list query parameters
type ListParams struct {
	Query    string
	Brand    string
	Category string
	Ordering string
	Page     int
	PageSize int
}

// Page is the paginated list envelope
type Page struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

// ParseListParams extracts list parameters from the request query string.
// A non-numeric page is rejected; a bad page_size silently falls back to
// the default.
func ParseListParams(values url.Values) (ListParams, error) {
	p := ListParams{
		Query:    values.Get("q"),
		Brand:    values.Get("brand"),
		Category: values.Get("category"),
		Ordering: values.Get("ordering"),
		Page:     1,
		PageSize: DefaultPageSize,
	}

	if p.Ordering == "" {
		p.Ordering = DefaultOrdering
	}

	if raw := values.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return p, ErrInvalidPage
		}
		p.Page = page
	}

	if raw := values.Get("page_size"); raw != "" {
		if size, err := strconv.Atoi(raw); err == nil && size > 0 {
			if size > MaxPageSize {
				size = MaxPageSize
			}
			p.PageSize = size
		}
	}

	return p, nil
}

// OrderClause translates an ordering parameter into an ORDER BY clause.
// A leading "-" requests descending order.
func OrderClause(ordering string) (string, error) {
	field := ordering
	desc := false
	if strings.HasPrefix(field, "-") {
		field = field[1:]
		desc = true
	}

	column, ok := sortableColumns[field]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrInvalidOrdering, field)
	}

	if desc {
		return column + " DESC", nil
	}
	return column + " ASC", nil
}

// ApplyFilters narrows a product query by search term, brand and category
func ApplyFilters(db *gorm.DB, p ListParams) *gorm.DB {
	if p.Query != "" {
		like := "%" + p.Query + "%"
		db = db.Where(
			"name ILIKE ? OR description ILIKE ? OR brand ILIKE ? OR category ILIKE ?",
			like, like, like, like,
		)
	}
	if p.Brand != "" {
		db = db.Where("brand ILIKE ?", p.Brand)
	}
	if p.Category != "" {
		db = db.Where("category ILIKE ?", p.Category)
	}
	return db
}

// TotalPages computes the number of pages for a result count.
// An empty result set still has one (empty) page.
func TotalPages(count int64, pageSize int) int {
	if count == 0 {
		return 1
	}
	pages := int(count) / pageSize
	if int(count)%pageSize != 0 {
		pages++
	}
	return pages
}

// BuildPage assembles the list envelope with next/previous links derived
// from the request URL
func BuildPage(reqURL *url.URL, p ListParams, count int64, results interface{}) *Page {
	page := &Page{
		Count:   count,
		Results: results,
	}

	totalPages := TotalPages(count, p.PageSize)
	if p.Page < totalPages {
		next := pageLink(reqURL, p.Page+1)
		page.Next = &next
	}
	if p.Page > 1 {
		prev := pageLink(reqURL, p.Page-1)
		page.Previous = &prev
	}
	return page
}

func pageLink(reqURL *url.URL, page int) string {
	link := *reqURL
	values := link.Query()
	if page <= 1 {
		values.Del("page")
	} else {
		values.Set("page", strconv.Itoa(page))
	}
	link.RawQuery = values.Encode()
	return link.String()
}

// List runs the filtered, ordered, paginated product query
func List(db *gorm.DB, reqURL *url.URL, p ListParams) (*Page, error) {
	clause, err := OrderClause(p.Ordering)
	if err != nil {
		return nil, err
	}

	// New session so the count and the page query can share conditions
	query := ApplyFilters(db.Model(&model.Product{}), p).Session(&gorm.Session{})

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, err
	}

	if p.Page > TotalPages(count, p.PageSize) {
		return nil, ErrInvalidPage
	}

	products := []model.Product{}
	offset := (p.Page - 1) * p.PageSize
	if err := query.Order(clause).Limit(p.PageSize).Offset(offset).Find(&products).Error; err != nil {
		return nil, err
	}

	return BuildPage(reqURL, p, count, products), nil
}
