// Package auth decides whether an actor may perform a capability. Core
// operations call Authorize at their boundary instead of checking role
// strings inline.
package auth

import (
	"errors"

	"marketplace-backend/internal/entity"
)

type Capability string

const (
	// CapShop covers cart mutation, checkout and reviews.
	CapShop Capability = "shop"
	// CapManageListings covers product create/update/delete. Requires an
	// approved seller.
	CapManageListings Capability = "manage_listings"
	// CapUpdateOrderStatus covers order status transitions. Per-order item
	// ownership is checked separately by the order service.
	CapUpdateOrderStatus Capability = "update_order_status"
	// CapModerate covers seller and listing moderation.
	CapModerate Capability = "moderate"
)

var ErrForbidden = errors.New("forbidden")

// Authorize returns ErrForbidden unless the user holds the capability.
func Authorize(u *entity.User, c Capability) error {
	if u == nil {
		return ErrForbidden
	}
	switch c {
	case CapShop:
		if u.Role == entity.RoleBuyer {
			return nil
		}
	case CapManageListings:
		if u.IsApprovedSeller() {
			return nil
		}
	case CapUpdateOrderStatus:
		if u.Role == entity.RoleSeller {
			return nil
		}
	case CapModerate:
		if u.Role == entity.RoleAdmin {
			return nil
		}
	}
	return ErrForbidden
}
