package gate_test

import (
	"context"
	"errors"
	"testing"

	"github.com/diewo77/go-curtains/gate"
)

func newTestGate() (*gate.Gate[uint], *gate.StaticResolver[uint]) {
	resolver := gate.NewStaticResolver[uint]()
	resolver.Set(1, gate.RoleAdmin)
	resolver.Set(2, gate.RoleTechnician)
	resolver.Set(3, gate.RoleNone)
	return gate.NewGate[uint](resolver, gate.NewDecider(gate.DefaultTable())), resolver
}

func TestGate_Authorize_NoUser(t *testing.T) {
	g, _ := newTestGate()
	if err := g.Authorize(context.Background(), 0, "/dashboard"); !errors.Is(err, gate.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestGate_Authorize_NoRole(t *testing.T) {
	g, _ := newTestGate()
	if err := g.Authorize(context.Background(), 3, "/dashboard"); !errors.Is(err, gate.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized for role-less user, got %v", err)
	}
	// Unknown user resolves to RoleNone too.
	if err := g.Authorize(context.Background(), 99, "/dashboard"); !errors.Is(err, gate.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized for unknown user, got %v", err)
	}
}

func TestGate_Authorize_AllowedAndDenied(t *testing.T) {
	g, _ := newTestGate()
	ctx := context.Background()

	if err := g.Authorize(ctx, 2, "/projects/jobs"); err != nil {
		t.Errorf("technician should open jobs, got %v", err)
	}
	if err := g.Authorize(ctx, 2, "/marketing"); !errors.Is(err, gate.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	if !g.Can(ctx, 1, "/settings/employees") {
		t.Error("admin should open settings")
	}
}

func TestGate_Authorize_LookupFailure(t *testing.T) {
	failing := gate.ResolverFunc[uint](func(context.Context, uint) (gate.Role, error) {
		return gate.RoleNone, errors.New("connection refused")
	})
	g := gate.NewGate[uint](failing, gate.NewDecider(gate.DefaultTable()))

	err := g.Authorize(context.Background(), 5, "/dashboard")
	if !errors.Is(err, gate.ErrRoleLookup) {
		t.Errorf("expected ErrRoleLookup, got %v", err)
	}
}

// Test with a custom user type to verify generics work
type testUser struct {
	ID   int
	Role gate.Role
}

func TestGate_WithCustomUserType(t *testing.T) {
	resolver := gate.ResolverFunc[*testUser](func(_ context.Context, u *testUser) (gate.Role, error) {
		return u.Role, nil
	})
	g := gate.NewGate[*testUser](resolver, gate.NewDecider(gate.DefaultTable()))

	if !g.Can(context.Background(), &testUser{ID: 1, Role: gate.RoleAccounting}, "/accounting") {
		t.Error("accounting should open /accounting")
	}
	if err := g.Authorize(context.Background(), nil, "/accounting"); !errors.Is(err, gate.ErrUnauthorized) {
		t.Errorf("nil user should be unauthorized, got %v", err)
	}
}

func TestRoleContext(t *testing.T) {
	ctx := context.Background()
	if got := gate.RoleFromContext(ctx); got != gate.RoleNone {
		t.Errorf("empty context role = %q", got)
	}
	ctx = gate.WithRole(ctx, gate.RoleTechnician)
	if got := gate.RoleFromContext(ctx); got != gate.RoleTechnician {
		t.Errorf("role = %q, want technician", got)
	}
}
