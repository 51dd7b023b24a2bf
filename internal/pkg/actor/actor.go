// Package actor identifies the caller of an application operation.
package actor

import (
	"github.com/light-bringer/rawsy-service/internal/pkg/apperr"
)

// Role is the closed set of marketplace roles.
type Role string

const (
	RoleBuyer    Role = "buyer"
	RoleSupplier Role = "supplier"
	RoleAdmin    Role = "admin"
)

var ErrUnknownRole = apperr.New(apperr.KindValidation, "unknown role")

// ParseRole converts a raw role claim into a Role.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleBuyer, RoleSupplier, RoleAdmin:
		return Role(raw), nil
	default:
		return "", ErrUnknownRole
	}
}

// Actor is the authenticated principal performing an operation.
type Actor struct {
	UserID string
	Role   Role
}

// New validates and builds an Actor.
func New(userID string, role Role) (Actor, error) {
	if userID == "" {
		return Actor{}, apperr.New(apperr.KindValidation, "actor user id is required")
	}
	if _, err := ParseRole(string(role)); err != nil {
		return Actor{}, err
	}
	return Actor{UserID: userID, Role: role}, nil
}

func (a Actor) IsBuyer() bool    { return a.Role == RoleBuyer }
func (a Actor) IsSupplier() bool { return a.Role == RoleSupplier }
func (a Actor) IsAdmin() bool    { return a.Role == RoleAdmin }

// CanRequestQuotes reports whether the actor may open a negotiation.
func (a Actor) CanRequestQuotes() bool {
	return a.IsBuyer()
}

// CanListProducts reports whether the actor may publish products.
func (a Actor) CanListProducts() bool {
	return a.IsSupplier()
}

// CanManageProduct reports whether the actor may edit or remove a product owned by supplierID.
func (a Actor) CanManageProduct(supplierID string) bool {
	if a.IsAdmin() {
		return true
	}
	return a.IsSupplier() && a.UserID == supplierID
}

// IsPartyTo reports whether the actor is the buyer or supplier of a negotiation.
func (a Actor) IsPartyTo(buyerID, supplierID string) bool {
	switch a.Role {
	case RoleBuyer:
		return a.UserID == buyerID
	case RoleSupplier:
		return a.UserID == supplierID
	default:
		return false
	}
}
