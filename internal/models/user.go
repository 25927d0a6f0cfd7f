package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/go-curtains/gate"
)

// User is an employee account. Role drives route access; an empty role
// or an inactive account reaches nothing behind the gate.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
	Email     string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name      string         `gorm:"size:255" json:"name,omitempty"`
	Phone     string         `gorm:"size:50" json:"phone,omitempty"`
	Password  string         `gorm:"size:255;not null" json:"-"` // bcrypt hash
	Role      gate.Role      `gorm:"size:50;index" json:"role"`
	Active    bool           `gorm:"not null" json:"active"`
}

// DisplayName falls back to the email when no name is set.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
