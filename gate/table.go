package gate

import "sort"

// Table maps top-level routes to the roles allowed on them and on every
// route sharing that prefix. A Table is immutable once built and safe for
// concurrent reads without locking.
type Table struct {
	routes  []string
	allowed map[string]map[Role]struct{}
}

// NewTable builds a Table from route -> roles. The input is copied, so later
// changes to the map or its slices do not affect the Table.
func NewTable(entries map[string][]Role) *Table {
	t := &Table{
		routes:  make([]string, 0, len(entries)),
		allowed: make(map[string]map[Role]struct{}, len(entries)),
	}
	for route, roles := range entries {
		set := make(map[Role]struct{}, len(roles))
		for _, r := range roles {
			set[r] = struct{}{}
		}
		t.routes = append(t.routes, route)
		t.allowed[route] = set
	}
	sort.Strings(t.routes)
	return t
}

// DefaultTable returns the permission table shipped with the application.
func DefaultTable() *Table {
	return NewTable(map[string][]Role{
		"/dashboard": {
			RoleCustomerService, RoleSalesMeasurement, RoleTechnician,
			RoleSupervisor, RoleStockChecker, RolePurchasing,
			RoleAccounting, RoleQuotation, RoleMarketing,
		},
		"/projects": {
			RoleCustomerService, RoleSalesMeasurement, RoleTechnician,
			RoleSupervisor, RoleStockChecker, RolePurchasing, RoleQuotation,
		},
		"/customers": {
			RoleCustomerService, RoleSalesMeasurement, RoleSupervisor,
			RoleQuotation, RoleMarketing,
		},
		"/accounting": {RoleAccounting, RolePurchasing, RoleSupervisor},
		"/marketing":  {RoleMarketing, RoleCustomerService},
		// Admin only; admin passes every route without a table entry.
		"/settings": {},
	})
}

// Routes returns the declared top-level routes in lexical order.
func (t *Table) Routes() []string {
	out := make([]string, len(t.routes))
	copy(out, t.routes)
	return out
}

// Allows reports whether route is a declared key whose set contains role.
// It performs no prefix matching.
func (t *Table) Allows(route string, role Role) bool {
	set, ok := t.allowed[route]
	if !ok {
		return false
	}
	_, ok = set[role]
	return ok
}

// Allowed returns the roles declared for route, in AllRoles order.
func (t *Table) Allowed(route string) []Role {
	set := t.allowed[route]
	out := make([]Role, 0, len(set))
	for _, r := range allRoles {
		if _, ok := set[r]; ok {
			out = append(out, r)
		}
	}
	return out
}
