package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayNameFallsBackToEmail(t *testing.T) {
	u := User{FirstName: "John", Email: "john@example.com"}
	assert.Equal(t, "John", u.DisplayName())

	u.FirstName = ""
	assert.Equal(t, "john@example.com", u.DisplayName())
}

func TestProfileShape(t *testing.T) {
	u := User{ID: 3, Username: "john", Email: "john@example.com", IsStaff: true}

	profile := u.Profile()
	assert.Equal(t, uint(3), profile["id"])
	assert.Equal(t, uint(3), profile["_id"])
	assert.Equal(t, "john", profile["username"])
	assert.Equal(t, "john@example.com", profile["name"])
	assert.Equal(t, true, profile["isAdmin"])
}
