package policy

import (
	"context"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/go-curtains/auth"
	"github.com/diewo77/go-curtains/gate"
	"github.com/diewo77/go-curtains/httpx"
	"github.com/diewo77/go-curtains/i18n"
	"github.com/diewo77/go-curtains/internal/logging"
	"github.com/diewo77/go-curtains/internal/metrics"
)

// DeniedFunc writes the response for a refused request.
// status is 403 for a denied role and 500 for a failed role lookup.
type DeniedFunc func(w http.ResponseWriter, r *http.Request, status int)

// AccessGate holds the route gate with its role cache.
// Use this as the central authorization point of the application.
type AccessGate struct {
	Gate          *gate.Gate[uint]
	CacheResolver *gate.CachedResolver[uint]

	metrics *metrics.Metrics
	denied  DeniedFunc
}

// NewAccessGate creates a fully configured access gate.
// - db: GORM connection for role lookups
// - table: the permission table, gate.DefaultTable() in production
// - cacheTTL: how long resolved roles are cached (e.g. 5*time.Minute)
// - m: metrics sink, may be nil
func NewAccessGate(db *gorm.DB, table *gate.Table, cacheTTL time.Duration, m *metrics.Metrics) *AccessGate {
	return NewAccessGateWithResolver(NewDBRoleResolver(db), table, cacheTTL, m)
}

// NewAccessGateWithResolver builds the gate around any role resolver.
func NewAccessGateWithResolver(resolver gate.RoleResolver[uint], table *gate.Table, cacheTTL time.Duration, m *metrics.Metrics) *AccessGate {
	cached := gate.NewCachedResolver[uint](resolver, cacheTTL)
	return &AccessGate{
		Gate:          gate.NewGate[uint](cached, gate.NewDecider(table)),
		CacheResolver: cached,
		metrics:       m,
		denied:        plainDenied,
	}
}

// SetDeniedHandler replaces the default plain-text refusal response.
func (ag *AccessGate) SetDeniedHandler(f DeniedFunc) {
	if f != nil {
		ag.denied = f
	}
}

// Role resolves the role of the session user. No session yields gate.RoleNone.
func (ag *AccessGate) Role(ctx context.Context) (gate.Role, error) {
	uid, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return gate.RoleNone, nil
	}
	return ag.Gate.RoleOf(ctx, uid)
}

// CanAccess reports whether the session user may open route.
// Useful for templates to show or hide links.
func (ag *AccessGate) CanAccess(ctx context.Context, route string) bool {
	role, err := ag.Role(ctx)
	if err != nil {
		return false
	}
	return ag.Gate.Decider().HasAccess(role, route)
}

// InvalidateUser clears the cached role of one user.
// Call this when a user's role or active flag changes.
func (ag *AccessGate) InvalidateUser(userID uint) {
	ag.CacheResolver.Invalidate(userID)
}

// InvalidateAll clears the entire role cache.
func (ag *AccessGate) InvalidateAll() {
	ag.CacheResolver.InvalidateAll()
}

// RequireRoute returns middleware that authorizes r.URL.Path for the session
// user. Requests without a session are sent to the login page (or get 401),
// refused roles get 403 and a failed role lookup gets 500. On success the
// resolved role is stored in the request context.
func (ag *AccessGate) RequireRoute() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid, ok := auth.UserIDFromContext(r.Context())
			if !ok {
				ag.count("unauthenticated")
				auth.Unauthenticated(w, r)
				return
			}
			role, err := ag.Gate.RoleOf(r.Context(), uid)
			if err != nil {
				ag.count("error")
				logging.FromContext(r.Context()).WithError(err).Error("role lookup failed")
				ag.denied(w, r, http.StatusInternalServerError)
				return
			}
			if !ag.Gate.Decider().HasAccess(role, r.URL.Path) {
				ag.count("denied")
				logging.FromContext(r.Context()).WithField("role", role).Info("access denied")
				ag.denied(w, r, http.StatusForbidden)
				return
			}
			ag.count("allowed")
			next.ServeHTTP(w, r.WithContext(gate.WithRole(r.Context(), role)))
		})
	}
}

func (ag *AccessGate) count(result string) {
	if ag.metrics != nil {
		ag.metrics.AccessDecisions.WithLabelValues(result).Inc()
	}
}

func plainDenied(w http.ResponseWriter, r *http.Request, status int) {
	lang := i18n.LangFromContext(r.Context())
	code := "access_denied"
	if status >= http.StatusInternalServerError {
		code = "generic_failure"
	}
	if httpx.WantsJSON(r) {
		httpx.JSONError(w, status, i18n.T(lang, code), nil)
		return
	}
	http.Error(w, i18n.T(lang, code), status)
}
