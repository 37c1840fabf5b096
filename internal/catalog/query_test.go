package catalog

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListParamsDefaults(t *testing.T) {
	p, err := ParseListParams(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPageSize, p.PageSize)
	assert.Equal(t, DefaultOrdering, p.Ordering)
	assert.Empty(t, p.Query)
}

func TestParseListParams(t *testing.T) {
	values := url.Values{}
	values.Set("q", "airpods")
	values.Set("brand", "Apple")
	values.Set("category", "Electronics")
	values.Set("ordering", "price")
	values.Set("page", "3")
	values.Set("page_size", "20")

	p, err := ParseListParams(values)
	require.NoError(t, err)
	assert.Equal(t, "airpods", p.Query)
	assert.Equal(t, "Apple", p.Brand)
	assert.Equal(t, "Electronics", p.Category)
	assert.Equal(t, "price", p.Ordering)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 20, p.PageSize)
}

func TestParseListParamsBadPage(t *testing.T) {
	for _, raw := range []string{"abc", "0", "-1", "1.5"} {
		values := url.Values{}
		values.Set("page", raw)
		_, err := ParseListParams(values)
		assert.ErrorIs(t, err, ErrInvalidPage, "page=%s", raw)
	}
}

func TestParseListParamsPageSizeFallbackAndClamp(t *testing.T) {
	values := url.Values{}
	values.Set("page_size", "abc")
	p, err := ParseListParams(values)
	require.NoError(t, err)
	assert.Equal(t, DefaultPageSize, p.PageSize)

	values.Set("page_size", "500")
	p, err = ParseListParams(values)
	require.NoError(t, err)
	assert.Equal(t, MaxPageSize, p.PageSize)
}

func TestOrderClause(t *testing.T) {
	tests := []struct {
		ordering string
		want     string
	}{
		{"name", "name ASC"},
		{"-name", "name DESC"},
		{"price", "price ASC"},
		{"-price", "price DESC"},
		{"countInStock", "count_in_stock ASC"},
		{"-numReviews", "num_reviews DESC"},
		{"rating", "rating ASC"},
		{"-createdAt", "created_at DESC"},
		{"id", "id ASC"},
	}
	for _, tt := range tests {
		clause, err := OrderClause(tt.ordering)
		require.NoError(t, err, tt.ordering)
		assert.Equal(t, tt.want, clause)
	}
}

func TestOrderClauseRejectsUnknownFields(t *testing.T) {
	for _, ordering := range []string{"image", "-user_id", "price; DROP TABLE products", "createdat"} {
		_, err := OrderClause(ordering)
		assert.ErrorIs(t, err, ErrInvalidOrdering, ordering)
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0, 8))
	assert.Equal(t, 1, TotalPages(8, 8))
	assert.Equal(t, 2, TotalPages(9, 8))
	assert.Equal(t, 13, TotalPages(100, 8))
}

func TestBuildPageLinks(t *testing.T) {
	reqURL, err := url.Parse("http://localhost:8080/api/products?q=airpods&page=2")
	require.NoError(t, err)

	p := ListParams{Page: 2, PageSize: 8}
	page := BuildPage(reqURL, p, 20, []string{})

	require.NotNil(t, page.Next)
	assert.Contains(t, *page.Next, "page=3")
	assert.Contains(t, *page.Next, "q=airpods")

	require.NotNil(t, page.Previous)
	assert.NotContains(t, *page.Previous, "page=")
	assert.Contains(t, *page.Previous, "q=airpods")
}

func TestBuildPageBoundaries(t *testing.T) {
	reqURL, err := url.Parse("http://localhost:8080/api/products")
	require.NoError(t, err)

	// Single page, no links either way
	page := BuildPage(reqURL, ListParams{Page: 1, PageSize: 8}, 5, nil)
	assert.Nil(t, page.Next)
	assert.Nil(t, page.Previous)
	assert.Equal(t, int64(5), page.Count)

	// First of many pages
	page = BuildPage(reqURL, ListParams{Page: 1, PageSize: 8}, 30, nil)
	assert.NotNil(t, page.Next)
	assert.Nil(t, page.Previous)

	// Last page
	page = BuildPage(reqURL, ListParams{Page: 4, PageSize: 8}, 30, nil)
	assert.Nil(t, page.Next)
	assert.NotNil(t, page.Previous)
}
