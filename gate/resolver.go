package gate

import (
	"context"
	"sync"
)

// RoleResolver resolves a user to their role.
// U is the user type (e.g., uint for userID, *User for full user struct).
// A user without a role resolves to RoleNone with a nil error.
type RoleResolver[U any] interface {
	Resolve(ctx context.Context, user U) (Role, error)
}

// StaticResolver is a simple in-memory resolver for tests and fixed setups.
type StaticResolver[U comparable] struct {
	mu    sync.RWMutex
	roles map[U]Role
}

// NewStaticResolver creates an empty resolver.
func NewStaticResolver[U comparable]() *StaticResolver[U] {
	return &StaticResolver[U]{roles: make(map[U]Role)}
}

// Set assigns a role to a user.
func (r *StaticResolver[U]) Set(user U, role Role) {
	r.mu.Lock()
	r.roles[user] = role
	r.mu.Unlock()
}

// Resolve returns the role for the given user, or RoleNone if unknown.
func (r *StaticResolver[U]) Resolve(_ context.Context, user U) (Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.roles[user], nil
}

// ResolverFunc adapts a function to RoleResolver.
type ResolverFunc[U any] func(ctx context.Context, user U) (Role, error)

// Resolve calls f(ctx, user).
func (f ResolverFunc[U]) Resolve(ctx context.Context, user U) (Role, error) {
	return f(ctx, user)
}
