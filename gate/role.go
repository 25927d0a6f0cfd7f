package gate

import "fmt"

// Role is the job-function label assigned to a user. Exactly one per user.
type Role string

// RoleNone is the absent role of an unauthenticated or role-less identity.
const RoleNone Role = ""

const (
	RoleAdmin            Role = "admin"
	RoleCustomerService  Role = "customer_service"
	RoleSalesMeasurement Role = "sales_measurement"
	RoleTechnician       Role = "technician"
	RoleSupervisor       Role = "supervisor"
	RoleStockChecker     Role = "stock_checker"
	RolePurchasing       Role = "purchasing"
	RoleAccounting       Role = "accounting"
	RoleQuotation        Role = "quotation"
	RoleMarketing        Role = "marketing"
)

var allRoles = []Role{
	RoleAdmin,
	RoleCustomerService,
	RoleSalesMeasurement,
	RoleTechnician,
	RoleSupervisor,
	RoleStockChecker,
	RolePurchasing,
	RoleAccounting,
	RoleQuotation,
	RoleMarketing,
}

// AllRoles returns the ten role variants in display order.
func AllRoles() []Role {
	out := make([]Role, len(allRoles))
	copy(out, allRoles)
	return out
}

// Valid reports whether r is one of the ten known roles.
func (r Role) Valid() bool {
	for _, known := range allRoles {
		if r == known {
			return true
		}
	}
	return false
}

// IsAdmin reports whether r bypasses route restrictions.
func (r Role) IsAdmin() bool { return r == RoleAdmin }

func (r Role) String() string { return string(r) }

// ParseRole converts a stored or submitted label into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return RoleNone, fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return r, nil
}
