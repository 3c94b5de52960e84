package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"office-backend/internal/auth"
	"office-backend/internal/cache"
	"office-backend/internal/models"
	"office-backend/internal/repositories"
)

type EmployeeService struct {
	employees  *repositories.EmployeeRepository
	offices    *repositories.OfficeRepository
	jwtManager *auth.JWTManager
}

func NewEmployeeService(employees *repositories.EmployeeRepository, offices *repositories.OfficeRepository, jwtManager *auth.JWTManager) *EmployeeService {
	return &EmployeeService{
		employees:  employees,
		offices:    offices,
		jwtManager: jwtManager,
	}
}

// Signup registers a self-service account. The very first account becomes
// the superadmin so a fresh install can be bootstrapped; every later signup
// starts as an active internal employee, and privileged roles are only
// handed out by an admin through CreateEmployee.
func (s *EmployeeService) Signup(ctx context.Context, req *models.SignupRequest) (*models.AuthResponse, error) {
	if req.Name == "" || req.Email == "" {
		return nil, models.NewValidationError("name and email are required")
	}
	if len(req.Password) < 8 {
		return nil, models.NewValidationError("password must be at least 8 characters")
	}

	if _, err := s.employees.GetByEmail(ctx, req.Email); err == nil {
		return nil, models.NewValidationError("email already registered")
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	exists, err := s.offices.Exists(ctx, req.OfficeID)
	if err != nil {
		return nil, fmt.Errorf("failed to validate office: %w", err)
	}
	if !exists {
		return nil, models.NewValidationError("office does not exist")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := models.RoleInternal
	total, err := s.employees.Count(ctx)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		role = models.RoleSuperAdmin
	}

	emp := &models.Employee{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		OfficeID:     req.OfficeID,
		IsActive:     true,
	}
	if err := s.employees.Create(ctx, emp); err != nil {
		return nil, err
	}

	token, err := s.jwtManager.GenerateToken(emp)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	log.Printf("[Employee] Registered %s (office %d)", emp.Email, emp.OfficeID)
	return &models.AuthResponse{Token: token, Employee: emp}, nil
}

// Login authenticates by email and password. Accounts with 2FA enabled get
// a short-lived pending token and must verify a TOTP code to finish.
func (s *EmployeeService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	emp, err := s.employees.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewValidationError("invalid email or password")
		}
		return nil, err
	}

	if _, ok := cache.GetCachedAuth(ctx, req.Email, req.Password); !ok {
		if !auth.VerifyPassword(emp.PasswordHash, req.Password) {
			return nil, models.NewValidationError("invalid email or password")
		}
		cache.CacheAuth(ctx, req.Email, req.Password, int64(emp.ID))
	}

	if !emp.IsActive {
		return nil, models.NewValidationError("account suspended")
	}

	if emp.TOTPEnabled {
		tempToken, err := s.jwtManager.GenerateTempToken(emp)
		if err != nil {
			return nil, fmt.Errorf("failed to generate temp token: %w", err)
		}
		return &models.AuthResponse{Token: tempToken, TOTPRequired: true}, nil
	}

	token, err := s.jwtManager.GenerateToken(emp)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &models.AuthResponse{Token: token, Employee: emp}, nil
}

// CreateEmployee lets an admin provision an account with any role
func (s *EmployeeService) CreateEmployee(ctx context.Context, req *models.CreateEmployeeRequest) (*models.Employee, error) {
	if req.Name == "" || req.Email == "" {
		return nil, models.NewValidationError("name and email are required")
	}
	if len(req.Password) < 8 {
		return nil, models.NewValidationError("password must be at least 8 characters")
	}
	switch req.Role {
	case models.RoleInternal, models.RoleExternal, models.RoleAdmin, models.RoleSuperAdmin:
	default:
		return nil, models.NewValidationError("invalid role")
	}

	if _, err := s.employees.GetByEmail(ctx, req.Email); err == nil {
		return nil, models.NewValidationError("email already registered")
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	exists, err := s.offices.Exists(ctx, req.OfficeID)
	if err != nil {
		return nil, fmt.Errorf("failed to validate office: %w", err)
	}
	if !exists {
		return nil, models.NewValidationError("office does not exist")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	emp := &models.Employee{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		OfficeID:     req.OfficeID,
		IsActive:     true,
	}
	if err := s.employees.Create(ctx, emp); err != nil {
		return nil, err
	}

	cache.InvalidateRoster(ctx, emp.OfficeID)
	log.Printf("[Employee] Admin created %s as %s (office %d)", emp.Email, emp.Role, emp.OfficeID)
	return emp, nil
}

func (s *EmployeeService) List(ctx context.Context) ([]*models.Employee, error) {
	return s.employees.List(ctx)
}

func (s *EmployeeService) ListByOffice(ctx context.Context, officeID int) ([]*models.Employee, error) {
	return s.employees.ListByOffice(ctx, officeID)
}

// SetActive suspends or restores an employee and drops the cached roster so
// eligibility reflects the change immediately.
func (s *EmployeeService) SetActive(ctx context.Context, id int, active bool) error {
	emp, err := s.employees.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.employees.SetActive(ctx, id, active); err != nil {
		return err
	}
	cache.InvalidateRoster(ctx, emp.OfficeID)
	log.Printf("[Employee] Set employee %d active=%v", id, active)
	return nil
}
