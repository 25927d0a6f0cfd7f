package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Customer is a household or business ordering curtains and blinds.
type Customer struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name   string `gorm:"size:255;not null" json:"name"`
	Phone  string `gorm:"size:50;index" json:"phone,omitempty"`
	Email  string `gorm:"size:255" json:"email,omitempty"`
	LineID string `gorm:"size:100" json:"line_id,omitempty"`

	// Address
	Address  string `gorm:"size:500" json:"address,omitempty"`
	District string `gorm:"size:100" json:"district,omitempty"`
	Province string `gorm:"size:100" json:"province,omitempty"`

	Notes string `gorm:"type:text" json:"notes,omitempty"`

	ReferrerID  *uint     `gorm:"index" json:"referrer_id,omitempty"`
	Referrer    *Referrer `gorm:"foreignKey:ReferrerID" json:"referrer,omitempty"`
	CreatedByID uint      `gorm:"index" json:"created_by_id"`

	Quotations []Quotation       `gorm:"foreignKey:CustomerID" json:"quotations,omitempty"`
	Jobs       []InstallationJob `gorm:"foreignKey:CustomerID" json:"jobs,omitempty"`
}

// FullAddress joins the non-empty address parts.
func (c *Customer) FullAddress() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{c.Address, c.District, c.Province} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
