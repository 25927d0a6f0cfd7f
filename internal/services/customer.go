package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/diewo77/go-curtains/internal/models"
	"github.com/diewo77/go-curtains/validation"
)

// CustomerInput holds the editable fields of a customer.
type CustomerInput struct {
	Name       string `json:"name" validate:"required,max=255"`
	Phone      string `json:"phone" validate:"max=50"`
	Email      string `json:"email" validate:"omitempty,email,max=255"`
	LineID     string `json:"line_id" validate:"max=100"`
	Address    string `json:"address" validate:"max=500"`
	District   string `json:"district" validate:"max=100"`
	Province   string `json:"province" validate:"max=100"`
	Notes      string `json:"notes"`
	ReferrerID *uint  `json:"referrer_id,omitempty"`
}

func (in CustomerInput) columns() map[string]any {
	return map[string]any{
		"name":        in.Name,
		"phone":       in.Phone,
		"email":       in.Email,
		"line_id":     in.LineID,
		"address":     in.Address,
		"district":    in.District,
		"province":    in.Province,
		"notes":       in.Notes,
		"referrer_id": in.ReferrerID,
	}
}

// CustomerService manages customers.
type CustomerService struct {
	db *gorm.DB
}

func NewCustomerService(db *gorm.DB) *CustomerService {
	return &CustomerService{db: db}
}

func (s *CustomerService) Create(ctx context.Context, createdByID uint, in CustomerInput) (*models.Customer, error) {
	if err := invalid(validation.Struct(in)); err != nil {
		return nil, err
	}
	c := &models.Customer{
		Name:        in.Name,
		Phone:       in.Phone,
		Email:       in.Email,
		LineID:      in.LineID,
		Address:     in.Address,
		District:    in.District,
		Province:    in.Province,
		Notes:       in.Notes,
		ReferrerID:  in.ReferrerID,
		CreatedByID: createdByID,
	}
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return c, nil
}

// Get returns the customer with referrer, quotations and jobs loaded.
func (s *CustomerService) Get(ctx context.Context, id uint) (*models.Customer, error) {
	var c models.Customer
	err := s.db.WithContext(ctx).
		Preload("Referrer").
		Preload("Quotations", func(db *gorm.DB) *gorm.DB { return db.Order("id DESC") }).
		Preload("Jobs", func(db *gorm.DB) *gorm.DB { return db.Order("id DESC") }).
		First(&c, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}

// List searches name and phone.
func (s *CustomerService) List(ctx context.Context, f ListFilter) ([]models.Customer, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Customer{})
	if f.Query != "" {
		p := likePattern(f.Query)
		q = q.Where("LOWER(name) LIKE ? OR phone LIKE ?", p, p)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}
	var out []models.Customer
	if err := q.Order("name, id").Limit(f.limit()).Offset(f.offset()).Find(&out).Error; err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	return out, total, nil
}

func (s *CustomerService) Update(ctx context.Context, id uint, in CustomerInput) (*models.Customer, error) {
	if err := invalid(validation.Struct(in)); err != nil {
		return nil, err
	}
	res := s.db.WithContext(ctx).Model(&models.Customer{}).Where("id = ?", id).Updates(in.columns())
	if res.Error != nil {
		return nil, fmt.Errorf("update customer: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

func (s *CustomerService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Customer{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete customer: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
