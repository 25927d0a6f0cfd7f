package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Referrer is a partner (decorator, architect, contractor) who brings customers
// in exchange for a commission.
type Referrer struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name  string `gorm:"size:255;not null" json:"name"`
	Phone string `gorm:"size:50" json:"phone,omitempty"`
	Email string `gorm:"size:255" json:"email,omitempty"`
	// CommissionRate is a fraction, 0.05 = 5%.
	CommissionRate decimal.Decimal `gorm:"type:decimal(5,4);not null;default:0" json:"commission_rate"`
	Notes          string          `gorm:"type:text" json:"notes,omitempty"`

	Customers []Customer `gorm:"foreignKey:ReferrerID" json:"customers,omitempty"`
}

// CommissionPercent returns the rate as a percentage.
func (r *Referrer) CommissionPercent() decimal.Decimal {
	return r.CommissionRate.Mul(decimal.NewFromInt(100))
}

// CommissionOn returns the commission owed for amount, rounded to cents.
func (r *Referrer) CommissionOn(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(r.CommissionRate).Round(2)
}
