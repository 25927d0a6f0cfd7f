package gate_test

import (
	"errors"
	"testing"

	"github.com/diewo77/go-curtains/gate"
)

func TestAllRoles(t *testing.T) {
	roles := gate.AllRoles()
	if len(roles) != 10 {
		t.Fatalf("expected 10 roles, got %d", len(roles))
	}
	seen := map[gate.Role]bool{}
	for _, r := range roles {
		if !r.Valid() {
			t.Errorf("%q should be valid", r)
		}
		if seen[r] {
			t.Errorf("duplicate role %q", r)
		}
		seen[r] = true
	}
}

func TestParseRole(t *testing.T) {
	r, err := gate.ParseRole("sales_measurement")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r != gate.RoleSalesMeasurement {
		t.Errorf("got %q", r)
	}

	if _, err := gate.ParseRole("owner"); !errors.Is(err, gate.ErrUnknownRole) {
		t.Errorf("expected ErrUnknownRole, got %v", err)
	}
	if _, err := gate.ParseRole(""); !errors.Is(err, gate.ErrUnknownRole) {
		t.Errorf("expected ErrUnknownRole for empty label, got %v", err)
	}
}

func TestRole_IsAdmin(t *testing.T) {
	if !gate.RoleAdmin.IsAdmin() {
		t.Error("admin should be admin")
	}
	if gate.RoleSupervisor.IsAdmin() {
		t.Error("supervisor should not be admin")
	}
	if gate.RoleNone.Valid() {
		t.Error("RoleNone should not be valid")
	}
}
