package model

import (
	"time"
)

// User represents an account that can log in and place orders
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"size:150;uniqueIndex"`
	Email        string    `json:"email" gorm:"size:254"`
	FirstName    string    `json:"firstName" gorm:"size:150"`
	PasswordHash string    `json:"-" gorm:"size:128"`
	IsStaff      bool      `json:"isStaff" gorm:"default:false"`
	CreatedAt    time.Time `json:"-" gorm:"autoCreateTime"`
}

// DisplayName returns the user's visible name, falling back to email
func (u User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Email
}

// Profile returns the user in its API read shape
func (u User) Profile() map[string]interface{} {
	return map[string]interface{}{
		"id":       u.ID,
		"_id":      u.ID,
		"username": u.Username,
		"email":    u.Email,
		"name":     u.DisplayName(),
		"isAdmin":  u.IsStaff,
	}
}
