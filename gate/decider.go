package gate

import "strings"

// Decider answers whether a role may open a route. It holds no state besides
// its Table and never consults anything external at call time.
type Decider struct {
	table *Table
}

// NewDecider creates a Decider over t. A nil table denies every non-admin role.
func NewDecider(t *Table) *Decider {
	if t == nil {
		t = NewTable(nil)
	}
	return &Decider{table: t}
}

// Table returns the permission table the decider was built with.
func (d *Decider) Table() *Table { return d.table }

// HasAccess decides access for (role, route):
//  1. an absent role is denied
//  2. admin is always allowed
//  3. an exact table key allowing role grants access
//  4. any table key that is a literal string prefix of route and allows role
//     grants access
//
// Rule 4 compares characters, not path segments, so "/customersX" is covered
// by the "/customers" entry.
func (d *Decider) HasAccess(role Role, route string) bool {
	if role == RoleNone {
		return false
	}
	if role.IsAdmin() {
		return true
	}
	if d.table.Allows(route, role) {
		return true
	}
	for _, key := range d.table.routes {
		if strings.HasPrefix(route, key) && d.table.Allows(key, role) {
			return true
		}
	}
	return false
}
