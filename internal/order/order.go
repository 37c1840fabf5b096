package order

import (
	"encoding/json"
	"errors"
	"fmt"

	"storefront-api/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when the requested order does not exist
	ErrNotFound = errors.New("order not found")
	// ErrShippingMissing is returned when an order has no shipping address
	// row, which should never happen for orders created here
	ErrShippingMissing = errors.New("order has no shipping address")
)

// ItemPayload is one order line in a create request
type ItemPayload struct {
	Product *uint           `json:"product"`
	Name    string          `json:"name"`
	Qty     int             `json:"qty"`
	Price   decimal.Decimal `json:"price"`
	Image   string          `json:"image"`
}

// ShippingPayload is the shipping address block of a create request
type ShippingPayload struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// CreateRequest is the full order creation payload
type CreateRequest struct {
	OrderItems      []ItemPayload   `json:"orderItems"`
	ShippingAddress ShippingPayload `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	TaxPrice        decimal.Decimal `json:"taxPrice"`
	ShippingPrice   decimal.Decimal `json:"shippingPrice"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
}

// ValidationErrors maps field names to their validation messages
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	return fmt.Sprintf("order validation failed on %d field(s)", len(v))
}

// Validate checks the whole payload before any row is written and
// aggregates every failure into one error
func (r CreateRequest) Validate() error {
	errs := ValidationErrors{}

	if len(r.OrderItems) == 0 {
		errs["orderItems"] = "At least one order item is required."
	}
	for i, item := range r.OrderItems {
		if item.Name == "" {
			errs[fmt.Sprintf("orderItems[%d].name", i)] = "name is required."
		}
		if item.Qty <= 0 {
			errs[fmt.Sprintf("orderItems[%d].qty", i)] = "qty must be a positive integer."
		}
		if item.Price.IsNegative() {
			errs[fmt.Sprintf("orderItems[%d].price", i)] = "price must be ≥ 0."
		}
	}

	if r.ShippingAddress.Address == "" {
		errs["shippingAddress.address"] = "address is required."
	}
	if r.ShippingAddress.City == "" {
		errs["shippingAddress.city"] = "city is required."
	}
	if r.ShippingAddress.PostalCode == "" {
		errs["shippingAddress.postalCode"] = "postalCode is required."
	}
	if r.ShippingAddress.Country == "" {
		errs["shippingAddress.country"] = "country is required."
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Create validates the payload and inserts the order, its items and its
// shipping address in one transaction
func Create(db *gorm.DB, userID uint, req CreateRequest) (*model.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ord := model.Order{
		UserID:        &userID,
		PaymentMethod: req.PaymentMethod,
		TaxPrice:      req.TaxPrice,
		ShippingPrice: req.ShippingPrice,
		TotalPrice:    req.TotalPrice,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&ord).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		for i := range req.OrderItems {
			item := model.OrderItem{
				ProductID: req.OrderItems[i].Product,
				OrderID:   &ord.ID,
				Name:      req.OrderItems[i].Name,
				Qty:       req.OrderItems[i].Qty,
				Price:     req.OrderItems[i].Price,
				Image:     req.OrderItems[i].Image,
			}
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("create order item %d: %w", i, err)
			}
		}

		shipping := model.ShippingAddress{
			OrderID:       &ord.ID,
			Address:       req.ShippingAddress.Address,
			City:          req.ShippingAddress.City,
			PostalCode:    req.ShippingAddress.PostalCode,
			Country:       req.ShippingAddress.Country,
			ShippingPrice: req.ShippingPrice,
		}
		if err := tx.Create(&shipping).Error; err != nil {
			return fmt.Errorf("create shipping address: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &ord, nil
}

// ListForUser returns every order belonging to the given user
func ListForUser(db *gorm.DB, userID uint) ([]model.Order, error) {
	orders := []model.Order{}
	if err := db.Where("user_id = ?", userID).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Get loads a single order by id
func Get(db *gorm.DB, id uint) (*model.Order, error) {
	var ord model.Order
	if err := db.First(&ord, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ord, nil
}

// Detail assembles the order read shape merged with its shipping fields
// plus the order_items list
func Detail(db *gorm.DB, ord *model.Order) (map[string]interface{}, error) {
	var shipping model.ShippingAddress
	if err := db.Where("order_id = ?", ord.ID).First(&shipping).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShippingMissing
		}
		return nil, err
	}

	items := []model.OrderItem{}
	if err := db.Where("order_id = ?", ord.ID).Find(&items).Error; err != nil {
		return nil, err
	}

	response := asMap(ord)
	for k, v := range asMap(shipping) {
		response[k] = v
	}
	response["order_items"] = items
	return response, nil
}

// asMap flattens a model into its JSON key space
func asMap(v interface{}) map[string]interface{} {
	data, err := json.Marshal(v)
	if err != nil {
		return map[string]interface{}{}
	}
	m := map[string]interface{}{}
	if err := json.Unmarshal(data, &m); err != nil {
		return map[string]interface{}{}
	}
	return m
}
