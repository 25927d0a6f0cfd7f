package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/diewo77/go-curtains/internal/models"
	"github.com/diewo77/go-curtains/validation"
)

// DocumentInput holds the editable fields of an accounting document.
// When QuotationID is set on creation, Amount and CustomerID are taken
// from the quotation.
type DocumentInput struct {
	Type        models.DocumentType `json:"type" validate:"required,oneof=invoice receipt credit_note expense"`
	CustomerID  *uint               `json:"customer_id,omitempty"`
	QuotationID *uint               `json:"quotation_id,omitempty"`
	Amount      decimal.Decimal     `json:"amount"`
	IssueDate   *time.Time          `json:"issue_date,omitempty"`
	Notes       string              `json:"notes"`
}

// DocumentFilter narrows List results.
type DocumentFilter struct {
	ListFilter
	Type   models.DocumentType
	Status models.DocumentStatus
}

// AccountingService manages invoices, receipts, credit notes and expenses.
type AccountingService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewAccountingService(db *gorm.DB) *AccountingService {
	return &AccountingService{db: db, now: time.Now}
}

// Create stores a draft document with a number derived from its type.
func (s *AccountingService) Create(ctx context.Context, createdByID uint, in DocumentInput) (*models.AccountingDocument, error) {
	if err := invalid(validation.Struct(in)); err != nil {
		return nil, err
	}
	doc := &models.AccountingDocument{
		Type:        in.Type,
		CustomerID:  in.CustomerID,
		QuotationID: in.QuotationID,
		Amount:      in.Amount,
		Status:      models.DocumentStatusDraft,
		Notes:       in.Notes,
		CreatedByID: createdByID,
		IssueDate:   s.now(),
	}
	if in.IssueDate != nil {
		doc.IssueDate = *in.IssueDate
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.QuotationID != nil {
			var q models.Quotation
			if err := tx.First(&q, *in.QuotationID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &ValidationError{Violations: validation.Violations{"quotation_id": "invalid"}}
				}
				return fmt.Errorf("load quotation: %w", err)
			}
			doc.Amount = q.GrandTotal
			customerID := q.CustomerID
			doc.CustomerID = &customerID
		}
		if doc.Amount.IsNegative() {
			return &ValidationError{Violations: validation.Violations{"amount": "gte"}}
		}
		number, err := nextNumber(tx, &models.AccountingDocument{}, in.Type.Prefix()+"-"+doc.IssueDate.Format("200601")+"-")
		if err != nil {
			return err
		}
		doc.Number = number
		return tx.Create(doc).Error
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *AccountingService) Get(ctx context.Context, id uint) (*models.AccountingDocument, error) {
	var doc models.AccountingDocument
	if err := s.db.WithContext(ctx).Preload("Customer").Preload("Quotation").First(&doc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return &doc, nil
}

// List returns documents, most recent issue date first.
func (s *AccountingService) List(ctx context.Context, f DocumentFilter) ([]models.AccountingDocument, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.AccountingDocument{})
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Query != "" {
		q = q.Where("LOWER(number) LIKE ?", likePattern(f.Query))
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count documents: %w", err)
	}
	var out []models.AccountingDocument
	if err := q.Preload("Customer").Order("issue_date DESC, id DESC").Limit(f.limit()).Offset(f.offset()).Find(&out).Error; err != nil {
		return nil, 0, fmt.Errorf("list documents: %w", err)
	}
	return out, total, nil
}

// Update rewrites amount, date, customer and notes. Type and number are fixed.
func (s *AccountingService) Update(ctx context.Context, id uint, in DocumentInput) (*models.AccountingDocument, error) {
	if in.Amount.IsNegative() {
		return nil, &ValidationError{Violations: validation.Violations{"amount": "gte"}}
	}
	cols := map[string]any{
		"customer_id": in.CustomerID,
		"amount":      in.Amount,
		"notes":       in.Notes,
	}
	if in.IssueDate != nil {
		cols["issue_date"] = *in.IssueDate
	}
	res := s.db.WithContext(ctx).Model(&models.AccountingDocument{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return nil, fmt.Errorf("update document: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

func (s *AccountingService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.AccountingDocument{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete document: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatus writes any known document status.
func (s *AccountingService) SetStatus(ctx context.Context, id uint, status models.DocumentStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	res := s.db.WithContext(ctx).Model(&models.AccountingDocument{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("set document status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
