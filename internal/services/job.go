package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/go-curtains/internal/models"
	"github.com/diewo77/go-curtains/validation"
)

// JobInput holds the editable fields of an installation job.
type JobInput struct {
	CustomerID   uint           `json:"customer_id" validate:"required"`
	QuotationID  *uint          `json:"quotation_id,omitempty"`
	Kind         models.JobKind `json:"kind" validate:"required,oneof=measurement installation"`
	ScheduledAt  *time.Time     `json:"scheduled_at,omitempty"`
	Address      string         `json:"address" validate:"max=500"`
	TechnicianID *uint          `json:"technician_id,omitempty"`
	Notes        string         `json:"notes"`
}

// JobFilter narrows List results.
type JobFilter struct {
	ListFilter
	Status       models.JobStatus
	TechnicianID uint
	CustomerID   uint
}

// JobService manages measurement and installation visits.
type JobService struct {
	db *gorm.DB
}

func NewJobService(db *gorm.DB) *JobService {
	return &JobService{db: db}
}

// Create schedules a new pending job. An empty address is filled from the customer.
func (s *JobService) Create(ctx context.Context, in JobInput) (*models.InstallationJob, error) {
	if err := invalid(validation.Struct(in)); err != nil {
		return nil, err
	}
	job := &models.InstallationJob{
		CustomerID:   in.CustomerID,
		QuotationID:  in.QuotationID,
		Kind:         in.Kind,
		ScheduledAt:  in.ScheduledAt,
		Address:      in.Address,
		TechnicianID: in.TechnicianID,
		Status:       models.JobStatusPending,
		Notes:        in.Notes,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.First(&customer, in.CustomerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &ValidationError{Violations: validation.Violations{"customer_id": "invalid"}}
			}
			return fmt.Errorf("load customer: %w", err)
		}
		if job.Address == "" {
			job.Address = customer.FullAddress()
		}
		return tx.Create(job).Error
	})
	if err != nil {
		return nil, err
	}
	return job, nil
}

// Get returns the job with customer, quotation and technician loaded.
func (s *JobService) Get(ctx context.Context, id uint) (*models.InstallationJob, error) {
	var job models.InstallationJob
	err := s.db.WithContext(ctx).Preload("Customer").Preload("Quotation").Preload("Technician").First(&job, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get job: %w", err)
	}
	return &job, nil
}

// List returns one page of jobs ordered by schedule and the total match count.
func (s *JobService) List(ctx context.Context, f JobFilter) ([]models.InstallationJob, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.InstallationJob{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.TechnicianID != 0 {
		q = q.Where("technician_id = ?", f.TechnicianID)
	}
	if f.CustomerID != 0 {
		q = q.Where("customer_id = ?", f.CustomerID)
	}
	if f.Query != "" {
		q = q.Where("LOWER(address) LIKE ?", likePattern(f.Query))
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count jobs: %w", err)
	}
	var out []models.InstallationJob
	err := q.Preload("Customer").Preload("Technician").
		Order("scheduled_at IS NULL, scheduled_at, id").
		Limit(f.limit()).Offset(f.offset()).Find(&out).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list jobs: %w", err)
	}
	return out, total, nil
}

// Update rewrites the editable fields. Status is changed through SetStatus.
func (s *JobService) Update(ctx context.Context, id uint, in JobInput) (*models.InstallationJob, error) {
	if err := invalid(validation.Struct(in)); err != nil {
		return nil, err
	}
	res := s.db.WithContext(ctx).Model(&models.InstallationJob{}).Where("id = ?", id).Updates(map[string]any{
		"customer_id":   in.CustomerID,
		"quotation_id":  in.QuotationID,
		"kind":          in.Kind,
		"scheduled_at":  in.ScheduledAt,
		"address":       in.Address,
		"technician_id": in.TechnicianID,
		"notes":         in.Notes,
	})
	if res.Error != nil {
		return nil, fmt.Errorf("update job: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

// Delete soft-deletes the job.
func (s *JobService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.InstallationJob{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete job: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatus writes status over whatever the job currently holds.
// There is no transition table: completed → cancelled is accepted.
func (s *JobService) SetStatus(ctx context.Context, id uint, status models.JobStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	res := s.db.WithContext(ctx).Model(&models.InstallationJob{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("set job status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Advance moves the job one step forward following JobStatus.Next.
// It fails with ErrInvalidStatus when the current status has no next step.
func (s *JobService) Advance(ctx context.Context, id uint) (models.JobStatus, error) {
	job, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	next, ok := job.Status.Next()
	if !ok {
		return job.Status, ErrInvalidStatus
	}
	if err := s.SetStatus(ctx, id, next); err != nil {
		return job.Status, err
	}
	return next, nil
}

// Cancel sets the job to cancelled.
func (s *JobService) Cancel(ctx context.Context, id uint) error {
	return s.SetStatus(ctx, id, models.JobStatusCancelled)
}
