package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"marketplace-backend/internal/entity"
)

func TestAuthorize(t *testing.T) {
	buyer := &entity.User{Role: entity.RoleBuyer}
	seller := &entity.User{Role: entity.RoleSeller, SellerApproved: true}
	pendingSeller := &entity.User{Role: entity.RoleSeller}
	admin := &entity.User{Role: entity.RoleAdmin}

	tests := []struct {
		name string
		user *entity.User
		cap  Capability
		ok   bool
	}{
		{"buyer shops", buyer, CapShop, true},
		{"seller cannot shop", seller, CapShop, false},
		{"approved seller manages listings", seller, CapManageListings, true},
		{"pending seller cannot manage listings", pendingSeller, CapManageListings, false},
		{"buyer cannot manage listings", buyer, CapManageListings, false},
		{"seller updates order status", seller, CapUpdateOrderStatus, true},
		{"pending seller still updates status", pendingSeller, CapUpdateOrderStatus, true},
		{"buyer cannot update status", buyer, CapUpdateOrderStatus, false},
		{"admin moderates", admin, CapModerate, true},
		{"seller cannot moderate", seller, CapModerate, false},
		{"nil user denied", nil, CapShop, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.user, tt.cap)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrForbidden)
			}
		})
	}
}
