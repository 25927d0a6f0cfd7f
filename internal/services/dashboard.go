package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/diewo77/go-curtains/internal/models"
)

// DashboardStats summarises the business for the dashboard page.
type DashboardStats struct {
	Customers      int64                            `json:"customers"`
	Quotations     map[models.QuotationStatus]int64 `json:"quotations"`
	Jobs           map[models.JobStatus]int64       `json:"jobs"`
	ApprovedAmount decimal.Decimal                  `json:"approved_amount"`
}

// DashboardService computes dashboard figures.
type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

type statusCount struct {
	Status string
	N      int64
}

// Stats counts customers, quotations and jobs per status, and sums the
// grand totals of approved quotations.
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	db := s.db.WithContext(ctx)
	st := &DashboardStats{
		Quotations:     make(map[models.QuotationStatus]int64),
		Jobs:           make(map[models.JobStatus]int64),
		ApprovedAmount: decimal.Zero,
	}
	if err := db.Model(&models.Customer{}).Count(&st.Customers).Error; err != nil {
		return nil, fmt.Errorf("count customers: %w", err)
	}

	var rows []statusCount
	if err := db.Model(&models.Quotation{}).Select("status, COUNT(*) AS n").Group("status").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("count quotations: %w", err)
	}
	for _, r := range rows {
		st.Quotations[models.QuotationStatus(r.Status)] = r.N
	}

	rows = nil
	if err := db.Model(&models.InstallationJob{}).Select("status, COUNT(*) AS n").Group("status").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("count jobs: %w", err)
	}
	for _, r := range rows {
		st.Jobs[models.JobStatus(r.Status)] = r.N
	}

	var approved []models.Quotation
	if err := db.Select("id", "grand_total").Where("status = ?", models.QuotationStatusApproved).Find(&approved).Error; err != nil {
		return nil, fmt.Errorf("sum approved quotations: %w", err)
	}
	for _, q := range approved {
		st.ApprovedAmount = st.ApprovedAmount.Add(q.GrandTotal)
	}
	return st, nil
}
