package models

import (
	"time"

	"gorm.io/gorm"
)

// JobStatus represents the progress of a measurement or installation job.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusMeasuring  JobStatus = "measuring"
	JobStatusMeasured   JobStatus = "measured"
	JobStatusInstalling JobStatus = "installing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusCancelled  JobStatus = "cancelled"
)

// JobStatuses lists every status in display order.
func JobStatuses() []JobStatus {
	return []JobStatus{
		JobStatusPending,
		JobStatusMeasuring,
		JobStatusMeasured,
		JobStatusInstalling,
		JobStatusCompleted,
		JobStatusCancelled,
	}
}

// Valid reports whether s is a known status.
func (s JobStatus) Valid() bool {
	for _, v := range JobStatuses() {
		if s == v {
			return true
		}
	}
	return false
}

// Next returns the forward step offered to the user, if any.
// It is a presentation hint; status writes do not consult it.
func (s JobStatus) Next() (JobStatus, bool) {
	switch s {
	case JobStatusPending:
		return JobStatusMeasuring, true
	case JobStatusMeasuring:
		return JobStatusMeasured, true
	case JobStatusMeasured:
		return JobStatusInstalling, true
	case JobStatusInstalling:
		return JobStatusCompleted, true
	}
	return "", false
}

// IsTerminal is true for completed and cancelled jobs.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusCancelled
}

// CanCancel reports whether a cancel action should be offered.
func (s JobStatus) CanCancel() bool {
	return s.Valid() && !s.IsTerminal()
}

// JobKind distinguishes a measuring visit from an installation visit.
type JobKind string

const (
	JobKindMeasurement  JobKind = "measurement"
	JobKindInstallation JobKind = "installation"
)

// Valid reports whether k is a known kind.
func (k JobKind) Valid() bool {
	return k == JobKindMeasurement || k == JobKindInstallation
}

// InstallationJob is a scheduled visit at a customer's site.
type InstallationJob struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	CustomerID  uint       `gorm:"index;not null" json:"customer_id"`
	Customer    *Customer  `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	QuotationID *uint      `gorm:"index" json:"quotation_id,omitempty"`
	Quotation   *Quotation `gorm:"foreignKey:QuotationID" json:"quotation,omitempty"`

	Kind        JobKind    `gorm:"size:20;not null;default:'installation'" json:"kind"`
	ScheduledAt *time.Time `gorm:"index" json:"scheduled_at,omitempty"`
	Address     string     `gorm:"size:500" json:"address,omitempty"`

	TechnicianID *uint `gorm:"index" json:"technician_id,omitempty"`
	Technician   *User `gorm:"foreignKey:TechnicianID" json:"technician,omitempty"`

	Status JobStatus `gorm:"size:20;not null;default:'pending'" json:"status"`
	Notes  string    `gorm:"type:text" json:"notes,omitempty"`
}

// TableName keeps the table name short.
func (InstallationJob) TableName() string {
	return "jobs"
}
