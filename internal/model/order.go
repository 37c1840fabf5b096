package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order represents a placed order
type Order struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	UserID        *uint           `json:"user"`
	PaymentMethod string          `json:"paymentMethod" gorm:"size:200"`
	TaxPrice      decimal.Decimal `json:"taxPrice" gorm:"type:decimal(7,2)"`
	ShippingPrice decimal.Decimal `json:"shippingPrice" gorm:"type:decimal(7,2)"`
	TotalPrice    decimal.Decimal `json:"totalPrice" gorm:"type:decimal(7,2)"`
	IsPaid        bool            `json:"isPaid" gorm:"default:false"`
	PaidAt        *time.Time      `json:"paidAt"`
	IsDelivered   bool            `json:"isDelivered" gorm:"default:false"`
	DeliveredAt   *time.Time      `json:"deliveredAt"`
	CreatedAt     time.Time       `json:"createdAt" gorm:"autoCreateTime"`
}

// OrderItem represents a single line of an order
type OrderItem struct {
	ID        uint            `json:"_id" gorm:"primaryKey"`
	ProductID *uint           `json:"product"`
	OrderID   *uint           `json:"order" gorm:"index"`
	Name      string          `json:"name" gorm:"size:200"`
	Qty       int             `json:"qty" gorm:"default:0"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(7,2)"`
	Image     string          `json:"image" gorm:"size:255"`
}

// ShippingAddress is the one-to-one shipping record of an order
type ShippingAddress struct {
	ID            uint            `json:"_id" gorm:"primaryKey"`
	OrderID       *uint           `json:"order" gorm:"uniqueIndex"`
	Address       string          `json:"address" gorm:"size:200"`
	City          string          `json:"city" gorm:"size:200"`
	PostalCode    string          `json:"postalCode" gorm:"size:200"`
	Country       string          `json:"country" gorm:"size:200"`
	ShippingPrice decimal.Decimal `json:"shippingPrice" gorm:"type:decimal(7,2)"`
}
