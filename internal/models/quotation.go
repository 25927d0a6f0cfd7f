package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// QuotationStatus represents the lifecycle state of a quotation.
type QuotationStatus string

const (
	QuotationStatusDraft     QuotationStatus = "draft"
	QuotationStatusSent      QuotationStatus = "sent"
	QuotationStatusApproved  QuotationStatus = "approved"
	QuotationStatusRejected  QuotationStatus = "rejected"
	QuotationStatusCancelled QuotationStatus = "cancelled"
)

// QuotationStatuses lists every status in display order.
func QuotationStatuses() []QuotationStatus {
	return []QuotationStatus{
		QuotationStatusDraft,
		QuotationStatusSent,
		QuotationStatusApproved,
		QuotationStatusRejected,
		QuotationStatusCancelled,
	}
}

// Valid reports whether s is a known status.
func (s QuotationStatus) Valid() bool {
	for _, v := range QuotationStatuses() {
		if s == v {
			return true
		}
	}
	return false
}

// IsEditable reports whether items may still be added.
func (s QuotationStatus) IsEditable() bool {
	return s == QuotationStatusDraft || s == QuotationStatusSent
}

// Quotation is a priced offer made to a customer.
// TotalAmount and GrandTotal are derived from the items by recalculation;
// they are never edited directly.
type Quotation struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Number string `gorm:"size:50;uniqueIndex" json:"number"`

	CustomerID  uint      `gorm:"index;not null" json:"customer_id"`
	Customer    *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	CreatedByID uint      `gorm:"index" json:"created_by_id"`

	Title      string     `gorm:"size:255" json:"title,omitempty"`
	Notes      string     `gorm:"type:text" json:"notes,omitempty"`
	ValidUntil *time.Time `json:"valid_until,omitempty"`

	Status QuotationStatus `gorm:"size:20;not null;default:'draft'" json:"status"`

	TotalAmount decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"total_amount"`
	GrandTotal  decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"grand_total"`

	Items []QuotationItem `gorm:"foreignKey:QuotationID" json:"items,omitempty"`
}

// IsEditable reports whether items may still be added to the quotation.
func (q *Quotation) IsEditable() bool {
	return q.Status.IsEditable()
}

// QuotationItem is one priced line of a quotation.
type QuotationItem struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	QuotationID uint `gorm:"index;not null" json:"quotation_id"`

	ProductName string `gorm:"size:255;not null" json:"product_name"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	// Width and Height are optional window dimensions in metres.
	Width  decimal.NullDecimal `gorm:"type:decimal(8,2)" json:"width"`
	Height decimal.NullDecimal `gorm:"type:decimal(8,2)" json:"height"`

	Quantity   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"unit_price"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total_price"`
}

// LineTotal computes Quantity × UnitPrice rounded to cents.
func LineTotal(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice).Round(2)
}

// Area returns Width × Height when both dimensions are set.
func (i *QuotationItem) Area() (decimal.Decimal, bool) {
	if !i.Width.Valid || !i.Height.Valid {
		return decimal.Zero, false
	}
	return i.Width.Decimal.Mul(i.Height.Decimal), true
}
