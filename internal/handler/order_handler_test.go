package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListOrdersAnonymous(t *testing.T) {
	setupTest(t)

	c, rec := newContext(http.MethodGet, "/api/orders", "")
	require.NoError(t, ListOrders(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestListOrdersForUser(t *testing.T) {
	mock := setupTest(t)

	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE user_id = \$1`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "payment_method"}).
			AddRow(1, 5, "PayPal"))

	c, rec := newContext(http.MethodGet, "/api/orders", "")
	asUser(c, 5, false)
	require.NoError(t, ListOrders(c))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.EqualValues(t, 1, body[0]["id"])
	assert.Equal(t, "PayPal", body[0]["paymentMethod"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderAggregatesValidationErrors(t *testing.T) {
	setupTest(t)

	c, rec := newContext(http.MethodPost, "/api/orders",
		`{"orderItems":[{"name":"","qty":0,"price":-1}]}`)
	asUser(c, 5, false)
	require.NoError(t, CreateOrder(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "orderItems[0].name")
	assert.Contains(t, body, "orderItems[0].qty")
	assert.Contains(t, body, "orderItems[0].price")
	assert.Contains(t, body, "shippingAddress.address")
	assert.Contains(t, body, "shippingAddress.country")
}

func TestCreateOrder(t *testing.T) {
	mock := setupTest(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "orders"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
	mock.ExpectQuery(`INSERT INTO "order_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery(`INSERT INTO "shipping_addresses"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))
	mock.ExpectCommit()

	payload := `{
		"orderItems": [{"product": 1, "name": "Airpods", "qty": 2, "price": "89.99"}],
		"shippingAddress": {"address": "1 Main St", "city": "Springfield", "postalCode": "12345", "country": "USA"},
		"paymentMethod": "PayPal",
		"taxPrice": "8.99",
		"shippingPrice": 10,
		"totalPrice": "198.97"
	}`

	c, rec := newContext(http.MethodPost, "/api/orders", payload)
	asUser(c, 5, false)
	require.NoError(t, CreateOrder(c))

	assert.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 42, body["id"])
	assert.EqualValues(t, 5, body["user"])
	assert.Equal(t, "PayPal", body["paymentMethod"])
	assert.Equal(t, false, body["isPaid"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderDatabaseFailure(t *testing.T) {
	mock := setupTest(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "orders"`).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	payload := `{
		"orderItems": [{"name": "Airpods", "qty": 1, "price": 89.99}],
		"shippingAddress": {"address": "1 Main St", "city": "Springfield", "postalCode": "12345", "country": "USA"},
		"paymentMethod": "PayPal"
	}`

	c, rec := newContext(http.MethodPost, "/api/orders", payload)
	asUser(c, 5, false)
	require.NoError(t, CreateOrder(c))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Saving order internal server error!")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrderNotFound(t *testing.T) {
	mock := setupTest(t)

	mock.ExpectQuery(`SELECT \* FROM "orders"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	c, rec := newContext(http.MethodGet, "/api/orders/99", "")
	c.SetParamNames("id")
	c.SetParamValues("99")
	asUser(c, 5, false)
	require.NoError(t, GetOrder(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Not found.")
}

func TestGetOrderForbiddenForOtherUser(t *testing.T) {
	mock := setupTest(t)

	mock.ExpectQuery(`SELECT \* FROM "orders"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow(42, 8))

	c, rec := newContext(http.MethodGet, "/api/orders/42", "")
	c.SetParamNames("id")
	c.SetParamValues("42")
	asUser(c, 5, false)
	require.NoError(t, GetOrder(c))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetOrderStaffCanReadAnyOrder(t *testing.T) {
	mock := setupTest(t)

	mock.ExpectQuery(`SELECT \* FROM "orders"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "payment_method"}).
			AddRow(42, 8, "PayPal"))
	mock.ExpectQuery(`SELECT \* FROM "shipping_addresses"`).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "order_id", "address", "city", "postal_code", "country", "shipping_price"}).
			AddRow(9, 42, "1 Main St", "Springfield", "12345", "USA", "10.00"))
	mock.ExpectQuery(`SELECT \* FROM "order_items"`).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "product_id", "order_id", "name", "qty", "price", "image"}).
			AddRow(7, 1, 42, "Airpods", 2, "89.99", ""))

	c, rec := newContext(http.MethodGet, "/api/orders/42", "")
	c.SetParamNames("id")
	c.SetParamValues("42")
	asUser(c, 1, true)
	require.NoError(t, GetOrder(c))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 42, body["id"])
	assert.Equal(t, "1 Main St", body["address"])
	items, ok := body["order_items"].([]interface{})
	require.True(t, ok)
	assert.Len(t, items, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrderShippingMissing(t *testing.T) {
	mock := setupTest(t)

	mock.ExpectQuery(`SELECT \* FROM "orders"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow(42, 5))
	mock.ExpectQuery(`SELECT \* FROM "shipping_addresses"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	c, rec := newContext(http.MethodGet, "/api/orders/42", "")
	c.SetParamNames("id")
	c.SetParamValues("42")
	asUser(c, 5, false)
	require.NoError(t, GetOrder(c))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Error fetching order with id 42")
}
