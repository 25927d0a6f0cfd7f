// Package gate provides role-based route authorization.
// A Table declares which roles may open which top-level routes; a Decider
// applies it; a Gate resolves the current user to a role and asks the
// Decider. This package has no dependencies on domain models.
//
// The package uses generics to allow any user/subject type:
//   - Gate[uint] for simple user ID based auth
//   - Gate[*User] for full user struct based auth
package gate

import (
	"context"
	"fmt"
)

// Gate is the central authorization checkpoint.
// U is the user/subject type (must be comparable for zero-value check).
type Gate[U comparable] struct {
	resolver RoleResolver[U]
	decider  *Decider
}

// NewGate creates a Gate that resolves roles with resolver and decides with d.
func NewGate[U comparable](resolver RoleResolver[U], d *Decider) *Gate[U] {
	return &Gate[U]{resolver: resolver, decider: d}
}

// Decider returns the underlying decider.
func (g *Gate[U]) Decider() *Decider { return g.decider }

// RoleOf resolves user to a role. The zero user resolves to RoleNone.
func (g *Gate[U]) RoleOf(ctx context.Context, user U) (Role, error) {
	var zero U
	if user == zero {
		return RoleNone, nil
	}
	role, err := g.resolver.Resolve(ctx, user)
	if err != nil {
		return RoleNone, fmt.Errorf("%w: %v", ErrRoleLookup, err)
	}
	return role, nil
}

// Authorize returns nil if user may open route.
// Returns ErrUnauthorized for the zero user or a role-less user,
// ErrRoleLookup if the resolver fails and ErrForbidden if the role is denied.
func (g *Gate[U]) Authorize(ctx context.Context, user U, route string) error {
	role, err := g.RoleOf(ctx, user)
	if err != nil {
		return err
	}
	if role == RoleNone {
		return ErrUnauthorized
	}
	if !g.decider.HasAccess(role, route) {
		return ErrForbidden
	}
	return nil
}

// Can is a convenience wrapper returning bool instead of error.
func (g *Gate[U]) Can(ctx context.Context, user U, route string) bool {
	return g.Authorize(ctx, user, route) == nil
}
