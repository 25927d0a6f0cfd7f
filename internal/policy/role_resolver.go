package policy

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/diewo77/go-curtains/gate"
	"github.com/diewo77/go-curtains/internal/models"
)

// DBRoleResolver reads employee roles from the users table.
// It implements gate.RoleResolver for uint user IDs.
type DBRoleResolver struct {
	DB *gorm.DB
}

// NewDBRoleResolver creates a new database-backed role resolver.
func NewDBRoleResolver(db *gorm.DB) *DBRoleResolver {
	return &DBRoleResolver{DB: db}
}

// Resolve returns the stored role of an active employee.
// A missing or inactive user, and an empty or unknown stored role, all
// resolve to gate.RoleNone without error.
func (r *DBRoleResolver) Resolve(ctx context.Context, userID uint) (gate.Role, error) {
	var user models.User
	err := r.DB.WithContext(ctx).Select("id", "role", "active").First(&user, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return gate.RoleNone, nil
		}
		return gate.RoleNone, err
	}
	if !user.Active || !user.Role.Valid() {
		return gate.RoleNone, nil
	}
	return user.Role, nil
}
