// Package authz holds small role and ownership predicates shared by the
// domain services.
package authz

import "github.com/google/uuid"

// Roles known to the portal.
const (
	RoleAdmin    = "ADMIN"
	RoleCustomer = "CUSTOMER"
)

// IsAdmin reports whether role grants administrative access.
func IsAdmin(role string) bool {
	return role == RoleAdmin
}

// RoleIn reports whether role is one of the allowed roles.
func RoleIn(role string, allowed ...string) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

// IsOwner reports whether the acting customer owns the resource.
func IsOwner(actorCustomerID, resourceCustomerID uuid.UUID) bool {
	return actorCustomerID != uuid.Nil && actorCustomerID == resourceCustomerID
}
