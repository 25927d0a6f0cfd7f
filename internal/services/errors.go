package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/diewo77/go-curtains/validation"
)

// Error values double as i18n message codes.
var (
	ErrNotFound      = errors.New("not_found")
	ErrNotEditable   = errors.New("not_editable")
	ErrInvalidStatus = errors.New("invalid_status")
	ErrForbidden     = errors.New("access_denied")
	ErrConflict      = errors.New("conflict")
	ErrValidation    = errors.New("invalid")

	// ErrLastAdmin matches ErrConflict.
	ErrLastAdmin = fmt.Errorf("%w: last_admin", ErrConflict)
)

// ValidationError carries per-field violation codes. It matches ErrValidation.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Violations))
	for f, code := range e.Violations {
		fields = append(fields, f+"="+code)
	}
	sort.Strings(fields)
	return "invalid input: " + strings.Join(fields, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// invalid returns nil for empty violations.
func invalid(v validation.Violations) error {
	if v.Empty() {
		return nil
	}
	return &ValidationError{Violations: v}
}

// ViolationsOf extracts the field violations carried by err, if any.
func ViolationsOf(err error) validation.Violations {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Violations
	}
	return nil
}

// ListFilter holds the common paging and search parameters of list operations.
type ListFilter struct {
	Query  string
	Limit  int
	Offset int
}

const (
	defaultPageSize = 25
	maxPageSize     = 200
)

func (f ListFilter) limit() int {
	switch {
	case f.Limit <= 0:
		return defaultPageSize
	case f.Limit > maxPageSize:
		return maxPageSize
	}
	return f.Limit
}

func (f ListFilter) offset() int {
	if f.Offset < 0 {
		return 0
	}
	return f.Offset
}

func likePattern(q string) string {
	return "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
}
