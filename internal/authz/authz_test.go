package authz

import (
	"testing"

	"github.com/google/uuid"
)

func TestIsAdmin(t *testing.T) {
	if !IsAdmin(RoleAdmin) {
		t.Fatal("ADMIN should be admin")
	}
	if IsAdmin(RoleCustomer) {
		t.Fatal("CUSTOMER should not be admin")
	}
	if IsAdmin("admin") {
		t.Fatal("role comparison is case sensitive")
	}
}

func TestRoleIn(t *testing.T) {
	if !RoleIn(RoleCustomer, RoleAdmin, RoleCustomer) {
		t.Fatal("expected CUSTOMER to match")
	}
	if RoleIn(RoleCustomer, RoleAdmin) {
		t.Fatal("expected CUSTOMER not to match ADMIN-only")
	}
}

func TestIsOwner(t *testing.T) {
	id := uuid.New()
	if !IsOwner(id, id) {
		t.Fatal("same id should own")
	}
	if IsOwner(id, uuid.New()) {
		t.Fatal("different ids should not own")
	}
	if IsOwner(uuid.Nil, uuid.Nil) {
		t.Fatal("nil id never owns")
	}
}
