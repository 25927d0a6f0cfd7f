package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/diewo77/go-curtains/internal/metrics"
	"github.com/diewo77/go-curtains/internal/models"
	"github.com/diewo77/go-curtains/validation"
)

// Totals are the derived amounts stored on a quotation.
type Totals struct {
	TotalAmount decimal.Decimal `json:"total_amount"`
	GrandTotal  decimal.Decimal `json:"grand_total"`
}

// QuotationInput holds the editable header fields of a quotation.
type QuotationInput struct {
	CustomerID uint       `json:"customer_id" validate:"required"`
	Title      string     `json:"title" validate:"max=255"`
	Notes      string     `json:"notes"`
	ValidUntil *time.Time `json:"valid_until,omitempty"`
}

// ItemInput describes a line to add to a quotation.
type ItemInput struct {
	ProductName string           `json:"product_name" validate:"required,max=255"`
	Description string           `json:"description"`
	Width       *decimal.Decimal `json:"width,omitempty"`
	Height      *decimal.Decimal `json:"height,omitempty"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   decimal.Decimal  `json:"unit_price"`
}

func (in ItemInput) validate() error {
	v := make(validation.Violations)
	v.Merge(validation.Struct(in))
	validation.PositiveDecimal("quantity", in.Quantity, v)
	if in.UnitPrice.IsNegative() {
		v["unit_price"] = "gte"
	}
	if in.Width != nil && !in.Width.IsPositive() {
		v["width"] = "gt"
	}
	if in.Height != nil && !in.Height.IsPositive() {
		v["height"] = "gt"
	}
	return invalid(v)
}

// QuotationFilter narrows List results.
type QuotationFilter struct {
	ListFilter
	Status     models.QuotationStatus
	CustomerID uint
}

// QuotationService owns quotations, their items and the derived totals.
type QuotationService struct {
	db      *gorm.DB
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewQuotationService returns a service backed by db. m may be nil.
func NewQuotationService(db *gorm.DB, m *metrics.Metrics) *QuotationService {
	return &QuotationService{db: db, metrics: m, now: time.Now}
}

// RecalculateTotals sums the TotalPrice of every current item of the
// quotation and stores the sum as both TotalAmount and GrandTotal.
// Both columns are written by a single UPDATE inside one transaction; on
// failure the stored totals are left as they were. On Postgres the quotation
// row is locked for the duration so concurrent recalculations serialize.
func (s *QuotationService) RecalculateTotals(ctx context.Context, quotationID uint) (Totals, error) {
	var totals Totals
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Select("id")
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var quotation models.Quotation
		if err := q.First(&quotation, quotationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("load quotation: %w", err)
		}

		var items []models.QuotationItem
		if err := tx.Select("id", "total_price").Where("quotation_id = ?", quotationID).Find(&items).Error; err != nil {
			return fmt.Errorf("load items: %w", err)
		}
		sum := decimal.Zero
		for _, it := range items {
			sum = sum.Add(it.TotalPrice)
		}

		totals = Totals{TotalAmount: sum, GrandTotal: sum}
		res := tx.Model(&models.Quotation{}).Where("id = ?", quotationID).Updates(map[string]any{
			"total_amount": totals.TotalAmount,
			"grand_total":  totals.GrandTotal,
		})
		if res.Error != nil {
			return fmt.Errorf("store totals: %w", res.Error)
		}
		return nil
	})
	s.observe(err)
	if err != nil {
		return Totals{}, err
	}
	return totals, nil
}

func (s *QuotationService) observe(err error) {
	if s.metrics == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	s.metrics.QuotationRecalculation.WithLabelValues(result).Inc()
}

// AddItem inserts a line into an editable (draft or sent) quotation and then
// recalculates its totals. If the recalculation fails the item stays stored
// and is returned together with the error.
func (s *QuotationService) AddItem(ctx context.Context, quotationID uint, in ItemInput) (*models.QuotationItem, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	q, err := s.find(ctx, quotationID)
	if err != nil {
		return nil, err
	}
	if !q.IsEditable() {
		return nil, ErrNotEditable
	}

	item := &models.QuotationItem{
		QuotationID: quotationID,
		ProductName: in.ProductName,
		Description: in.Description,
		Quantity:    in.Quantity,
		UnitPrice:   in.UnitPrice,
		TotalPrice:  models.LineTotal(in.Quantity, in.UnitPrice),
	}
	if in.Width != nil {
		item.Width = decimal.NewNullDecimal(*in.Width)
	}
	if in.Height != nil {
		item.Height = decimal.NewNullDecimal(*in.Height)
	}
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	if _, err := s.RecalculateTotals(ctx, quotationID); err != nil {
		return item, fmt.Errorf("recalculate totals: %w", err)
	}
	return item, nil
}

// RemoveItem deletes a line of the quotation and then recalculates its totals.
func (s *QuotationService) RemoveItem(ctx context.Context, quotationID, itemID uint) error {
	res := s.db.WithContext(ctx).Where("id = ? AND quotation_id = ?", itemID, quotationID).Delete(&models.QuotationItem{})
	if res.Error != nil {
		return fmt.Errorf("delete item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	if _, err := s.RecalculateTotals(ctx, quotationID); err != nil {
		return fmt.Errorf("recalculate totals: %w", err)
	}
	return nil
}

// Create stores a new draft quotation with a generated number.
func (s *QuotationService) Create(ctx context.Context, createdByID uint, in QuotationInput) (*models.Quotation, error) {
	if err := invalid(validation.Struct(in)); err != nil {
		return nil, err
	}
	q := &models.Quotation{
		CustomerID:  in.CustomerID,
		CreatedByID: createdByID,
		Title:       in.Title,
		Notes:       in.Notes,
		ValidUntil:  in.ValidUntil,
		Status:      models.QuotationStatusDraft,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := customerExists(tx, in.CustomerID); err != nil {
			return err
		}
		number, err := nextNumber(tx, &models.Quotation{}, "QT-"+s.now().Format("200601")+"-")
		if err != nil {
			return err
		}
		q.Number = number
		return tx.Create(q).Error
	})
	if err != nil {
		return nil, err
	}
	return q, nil
}

// Get returns the quotation with its customer and items.
func (s *QuotationService) Get(ctx context.Context, id uint) (*models.Quotation, error) {
	var q models.Quotation
	err := s.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&q, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get quotation: %w", err)
	}
	return &q, nil
}

// List returns one page of quotations, newest first, and the total match count.
func (s *QuotationService) List(ctx context.Context, f QuotationFilter) ([]models.Quotation, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Quotation{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.CustomerID != 0 {
		q = q.Where("customer_id = ?", f.CustomerID)
	}
	if f.Query != "" {
		p := likePattern(f.Query)
		q = q.Where("LOWER(number) LIKE ? OR LOWER(title) LIKE ?", p, p)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count quotations: %w", err)
	}
	var out []models.Quotation
	if err := q.Preload("Customer").Order("id DESC").Limit(f.limit()).Offset(f.offset()).Find(&out).Error; err != nil {
		return nil, 0, fmt.Errorf("list quotations: %w", err)
	}
	return out, total, nil
}

// Update rewrites the header fields. Totals and status are not touched.
func (s *QuotationService) Update(ctx context.Context, id uint, in QuotationInput) (*models.Quotation, error) {
	if err := invalid(validation.Struct(in)); err != nil {
		return nil, err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := customerExists(tx, in.CustomerID); err != nil {
			return err
		}
		res := tx.Model(&models.Quotation{}).Where("id = ?", id).Updates(map[string]any{
			"customer_id": in.CustomerID,
			"title":       in.Title,
			"notes":       in.Notes,
			"valid_until": in.ValidUntil,
		})
		if res.Error != nil {
			return fmt.Errorf("update quotation: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete soft-deletes the quotation and its items.
func (s *QuotationService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Quotation{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete quotation: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("quotation_id = ?", id).Delete(&models.QuotationItem{}).Error; err != nil {
			return fmt.Errorf("delete items: %w", err)
		}
		return nil
	})
}

// SetStatus writes status over whatever the quotation currently holds.
// Any known status is accepted from any prior status.
func (s *QuotationService) SetStatus(ctx context.Context, id uint, status models.QuotationStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	res := s.db.WithContext(ctx).Model(&models.Quotation{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("set quotation status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *QuotationService) find(ctx context.Context, id uint) (*models.Quotation, error) {
	var q models.Quotation
	if err := s.db.WithContext(ctx).First(&q, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load quotation: %w", err)
	}
	return &q, nil
}

func customerExists(tx *gorm.DB, id uint) error {
	var count int64
	if err := tx.Model(&models.Customer{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("check customer: %w", err)
	}
	if count == 0 {
		return &ValidationError{Violations: validation.Violations{"customer_id": "invalid"}}
	}
	return nil
}

// nextNumber returns prefix followed by a four-digit sequence, counting
// soft-deleted rows so numbers are never reused.
func nextNumber(tx *gorm.DB, model any, prefix string) (string, error) {
	var count int64
	if err := tx.Unscoped().Model(model).Where("number LIKE ?", prefix+"%").Count(&count).Error; err != nil {
		return "", fmt.Errorf("next number: %w", err)
	}
	return fmt.Sprintf("%s%04d", prefix, count+1), nil
}
