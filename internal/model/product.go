package model

import (
	"time"
)

// Product represents a catalog product
type Product struct {
	ID           uint      `json:"_id" gorm:"primaryKey"`
	UserID       *uint     `json:"user,omitempty"`
	Name         string    `json:"name" gorm:"size:200"`
	Image        string    `json:"image" gorm:"size:255"`
	Description  string    `json:"description"`
	Brand        string    `json:"brand" gorm:"size:200"`
	Category     string    `json:"category" gorm:"size:200"`
	Price        float64   `json:"price" gorm:"type:decimal(7,2)"`
	CountInStock int       `json:"countInStock" gorm:"default:0"`
	Rating       float64   `json:"rating" gorm:"type:decimal(7,2);default:0"`
	NumReviews   int       `json:"numReviews" gorm:"default:0"`
	CreatedAt    time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

// Review represents a user review attached to a product
type Review struct {
	ID        uint      `json:"_id" gorm:"primaryKey"`
	ProductID *uint     `json:"product"`
	UserID    *uint     `json:"user"`
	Name      string    `json:"name" gorm:"size:200"`
	Rating    int       `json:"rating" gorm:"default:0"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}
