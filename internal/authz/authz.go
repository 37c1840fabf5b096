package authz

import (
	"storefront-api/internal/model"
	"storefront-api/pkg/jwtutil"
)

// CanWriteProduct reports whether the caller may create or modify a
// product. Staff can write anything; other users only products they own.
func CanWriteProduct(claims *jwtutil.UserClaims, product *model.Product) bool {
	if claims == nil {
		return false
	}
	if claims.IsStaff {
		return true
	}
	if product == nil {
		// Creation of a new product
		return true
	}
	return product.UserID != nil && *product.UserID == claims.UserID
}

// CanReadOrder reports whether the caller may view an order.
// Staff can read any order; other users only their own.
func CanReadOrder(claims *jwtutil.UserClaims, ord *model.Order) bool {
	if claims == nil || ord == nil {
		return false
	}
	if claims.IsStaff {
		return true
	}
	return ord.UserID != nil && *ord.UserID == claims.UserID
}
