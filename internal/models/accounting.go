package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DocumentType classifies an accounting document.
type DocumentType string

const (
	DocumentTypeInvoice    DocumentType = "invoice"
	DocumentTypeReceipt    DocumentType = "receipt"
	DocumentTypeCreditNote DocumentType = "credit_note"
	DocumentTypeExpense    DocumentType = "expense"
)

// DocumentTypes lists every type in display order.
func DocumentTypes() []DocumentType {
	return []DocumentType{DocumentTypeInvoice, DocumentTypeReceipt, DocumentTypeCreditNote, DocumentTypeExpense}
}

// Valid reports whether t is a known type.
func (t DocumentType) Valid() bool {
	for _, v := range DocumentTypes() {
		if t == v {
			return true
		}
	}
	return false
}

// Prefix is the number prefix used for the type.
func (t DocumentType) Prefix() string {
	switch t {
	case DocumentTypeInvoice:
		return "INV"
	case DocumentTypeReceipt:
		return "RC"
	case DocumentTypeCreditNote:
		return "CN"
	case DocumentTypeExpense:
		return "EX"
	}
	return "DOC"
}

// DocumentStatus represents the state of an accounting document.
type DocumentStatus string

const (
	DocumentStatusDraft  DocumentStatus = "draft"
	DocumentStatusIssued DocumentStatus = "issued"
	DocumentStatusPaid   DocumentStatus = "paid"
	DocumentStatusVoid   DocumentStatus = "void"
)

// DocumentStatuses lists every status in display order.
func DocumentStatuses() []DocumentStatus {
	return []DocumentStatus{DocumentStatusDraft, DocumentStatusIssued, DocumentStatusPaid, DocumentStatusVoid}
}

// Valid reports whether s is a known status.
func (s DocumentStatus) Valid() bool {
	for _, v := range DocumentStatuses() {
		if s == v {
			return true
		}
	}
	return false
}

// AccountingDocument is an invoice, receipt, credit note or expense record.
type AccountingDocument struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Type   DocumentType `gorm:"size:20;not null;index" json:"type"`
	Number string       `gorm:"size:50;uniqueIndex" json:"number"`

	CustomerID  *uint      `gorm:"index" json:"customer_id,omitempty"`
	Customer    *Customer  `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	QuotationID *uint      `gorm:"index" json:"quotation_id,omitempty"`
	Quotation   *Quotation `gorm:"foreignKey:QuotationID" json:"quotation,omitempty"`

	Amount    decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"amount"`
	IssueDate time.Time       `gorm:"not null" json:"issue_date"`
	Status    DocumentStatus  `gorm:"size:20;not null;default:'draft'" json:"status"`
	Notes     string          `gorm:"type:text" json:"notes,omitempty"`

	CreatedByID uint `gorm:"index" json:"created_by_id"`
}
