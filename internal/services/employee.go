package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/diewo77/go-curtains/gate"
	"github.com/diewo77/go-curtains/internal/models"
	"github.com/diewo77/go-curtains/validation"
)

// EmployeeInput describes a new employee account.
type EmployeeInput struct {
	Email    string    `json:"email" validate:"required,email,max=255"`
	Name     string    `json:"name" validate:"max=255"`
	Phone    string    `json:"phone" validate:"max=50"`
	Password string    `json:"password" validate:"required,min=8"`
	Role     gate.Role `json:"role"`
}

// EmployeeService manages staff accounts. Every mutation requires an admin actor.
type EmployeeService struct {
	db         *gorm.DB
	invalidate func(userID uint)
}

// NewEmployeeService returns a service backed by db. invalidate is called
// after a user's role or active flag changes; it may be nil.
func NewEmployeeService(db *gorm.DB, invalidate func(userID uint)) *EmployeeService {
	if invalidate == nil {
		invalidate = func(uint) {}
	}
	return &EmployeeService{db: db, invalidate: invalidate}
}

// Provision creates an active employee with a bcrypt-hashed password.
func (s *EmployeeService) Provision(ctx context.Context, actor gate.Role, in EmployeeInput) (*models.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	v := make(validation.Violations)
	v.Merge(validation.Struct(in))
	if in.Role != gate.RoleNone && !in.Role.Valid() {
		v["role"] = "oneof"
	}
	if err := invalid(v); err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Unscoped().Model(&models.User{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return nil, ErrConflict
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &models.User{
		Email:    in.Email,
		Name:     in.Name,
		Phone:    in.Phone,
		Password: string(hash),
		Role:     in.Role,
		Active:   true,
	}
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, fmt.Errorf("create employee: %w", err)
	}
	return u, nil
}

// AssignRole replaces the employee's role. RoleNone removes all access.
func (s *EmployeeService) AssignRole(ctx context.Context, actor gate.Role, userID uint, role gate.Role) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	if role != gate.RoleNone && !role.Valid() {
		return &ValidationError{Violations: validation.Violations{"role": "oneof"}}
	}
	if err := s.update(ctx, userID, "role", role, role != gate.RoleAdmin); err != nil {
		return err
	}
	s.invalidate(userID)
	return nil
}

// SetActive enables or disables the employee's account.
func (s *EmployeeService) SetActive(ctx context.Context, actor gate.Role, userID uint, active bool) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	if err := s.update(ctx, userID, "active", active, !active); err != nil {
		return err
	}
	s.invalidate(userID)
	return nil
}

// update writes one column. When revokes is set the change is refused if
// userID is the last active admin.
func (s *EmployeeService) update(ctx context.Context, userID uint, column string, value any, revokes bool) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if revokes {
			if err := keepAnAdmin(tx, userID); err != nil {
				return err
			}
		}
		res := tx.Model(&models.User{}).Where("id = ?", userID).Update(column, value)
		if res.Error != nil {
			return fmt.Errorf("update employee %s: %w", column, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func keepAnAdmin(tx *gorm.DB, userID uint) error {
	var u models.User
	if err := tx.Select("id", "role", "active").First(&u, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("load employee: %w", err)
	}
	if u.Role != gate.RoleAdmin || !u.Active {
		return nil
	}
	var others int64
	if err := tx.Model(&models.User{}).
		Where("role = ? AND active = ? AND id <> ?", gate.RoleAdmin, true, userID).
		Count(&others).Error; err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if others == 0 {
		return ErrLastAdmin
	}
	return nil
}

// List returns employees ordered by name.
func (s *EmployeeService) List(ctx context.Context, actor gate.Role, f ListFilter) ([]models.User, int64, error) {
	if !actor.IsAdmin() {
		return nil, 0, ErrForbidden
	}
	q := s.db.WithContext(ctx).Model(&models.User{})
	if f.Query != "" {
		p := likePattern(f.Query)
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", p, p)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count employees: %w", err)
	}
	var out []models.User
	if err := q.Order("name, email").Limit(f.limit()).Offset(f.offset()).Find(&out).Error; err != nil {
		return nil, 0, fmt.Errorf("list employees: %w", err)
	}
	return out, total, nil
}

// Get returns one employee.
func (s *EmployeeService) Get(ctx context.Context, actor gate.Role, userID uint) (*models.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get employee: %w", err)
	}
	return &u, nil
}

// Technicians lists active technicians for assignment pickers. No admin check.
func (s *EmployeeService) Technicians(ctx context.Context) ([]models.User, error) {
	var out []models.User
	err := s.db.WithContext(ctx).Where("role = ? AND active = ?", gate.RoleTechnician, true).Order("name").Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list technicians: %w", err)
	}
	return out, nil
}

// Authenticate checks credentials and returns the active employee.
// Unknown email, wrong password and inactive account all yield ErrNotFound.
func (s *EmployeeService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lookup employee: %w", err)
	}
	if !u.Active || bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, ErrNotFound
	}
	return &u, nil
}

// IsActive reports whether userID refers to an existing active employee.
func (s *EmployeeService) IsActive(ctx context.Context, userID uint) bool {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ? AND active = ?", userID, true).Count(&count).Error
	return err == nil && count > 0
}
