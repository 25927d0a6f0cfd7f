package gate

import "context"

type roleCtxKey struct{}

// WithRole returns a context carrying the role resolved for the request.
func WithRole(ctx context.Context, role Role) context.Context {
	return context.WithValue(ctx, roleCtxKey{}, role)
}

// RoleFromContext returns the role stored by WithRole, or RoleNone.
func RoleFromContext(ctx context.Context) Role {
	role, _ := ctx.Value(roleCtxKey{}).(Role)
	return role
}
