package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/diewo77/go-curtains/internal/models"
	"github.com/diewo77/go-curtains/validation"
)

// ReferrerInput holds the editable fields of a referrer.
type ReferrerInput struct {
	Name           string          `json:"name" validate:"required,max=255"`
	Phone          string          `json:"phone" validate:"max=50"`
	Email          string          `json:"email" validate:"omitempty,email,max=255"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	Notes          string          `json:"notes"`
}

func (in ReferrerInput) validate() error {
	v := make(validation.Violations)
	v.Merge(validation.Struct(in))
	validation.RangeDecimal("commission_rate", in.CommissionRate, decimal.Zero, decimal.NewFromInt(1), v)
	return invalid(v)
}

// ReferrerSummary is a referrer with the number of customers it brought.
type ReferrerSummary struct {
	models.Referrer
	CustomerCount int64 `json:"customer_count"`
}

// ReferrerService manages referral partners.
type ReferrerService struct {
	db *gorm.DB
}

func NewReferrerService(db *gorm.DB) *ReferrerService {
	return &ReferrerService{db: db}
}

func (s *ReferrerService) Create(ctx context.Context, in ReferrerInput) (*models.Referrer, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	r := &models.Referrer{Name: in.Name, Phone: in.Phone, Email: in.Email, CommissionRate: in.CommissionRate, Notes: in.Notes}
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, fmt.Errorf("create referrer: %w", err)
	}
	return r, nil
}

// Get returns the referrer with its customers.
func (s *ReferrerService) Get(ctx context.Context, id uint) (*models.Referrer, error) {
	var r models.Referrer
	if err := s.db.WithContext(ctx).Preload("Customers").First(&r, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get referrer: %w", err)
	}
	return &r, nil
}

// List returns referrers with their customer counts.
func (s *ReferrerService) List(ctx context.Context, f ListFilter) ([]ReferrerSummary, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Referrer{})
	if f.Query != "" {
		q = q.Where("LOWER(name) LIKE ?", likePattern(f.Query))
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count referrers: %w", err)
	}
	var refs []models.Referrer
	if err := q.Order("name, id").Limit(f.limit()).Offset(f.offset()).Find(&refs).Error; err != nil {
		return nil, 0, fmt.Errorf("list referrers: %w", err)
	}
	out := make([]ReferrerSummary, len(refs))
	if len(refs) == 0 {
		return out, total, nil
	}
	ids := make([]uint, len(refs))
	for i, r := range refs {
		ids[i] = r.ID
	}
	var counts []struct {
		ReferrerID uint
		N          int64
	}
	err := s.db.WithContext(ctx).Model(&models.Customer{}).
		Select("referrer_id, COUNT(*) AS n").
		Where("referrer_id IN ?", ids).
		Group("referrer_id").
		Scan(&counts).Error
	if err != nil {
		return nil, 0, fmt.Errorf("count referred customers: %w", err)
	}
	byID := make(map[uint]int64, len(counts))
	for _, c := range counts {
		byID[c.ReferrerID] = c.N
	}
	for i, r := range refs {
		out[i] = ReferrerSummary{Referrer: r, CustomerCount: byID[r.ID]}
	}
	return out, total, nil
}

func (s *ReferrerService) Update(ctx context.Context, id uint, in ReferrerInput) (*models.Referrer, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	res := s.db.WithContext(ctx).Model(&models.Referrer{}).Where("id = ?", id).Updates(map[string]any{
		"name":            in.Name,
		"phone":           in.Phone,
		"email":           in.Email,
		"commission_rate": in.CommissionRate,
		"notes":           in.Notes,
	})
	if res.Error != nil {
		return nil, fmt.Errorf("update referrer: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

// Delete removes the referrer and detaches its customers.
func (s *ReferrerService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Referrer{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete referrer: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Model(&models.Customer{}).Where("referrer_id = ?", id).Update("referrer_id", nil).Error; err != nil {
			return fmt.Errorf("detach customers: %w", err)
		}
		return nil
	})
}
