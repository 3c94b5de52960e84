package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"office-backend/internal/models"
)

type EmployeeRepository struct {
	db *pgxpool.Pool
}

func NewEmployeeRepository(db *pgxpool.Pool) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

const employeeColumns = `id, name, email, password_hash, role, office_id, is_active, totp_enabled, created_at, updated_at`

func scanEmployee(row pgx.Row) (*models.Employee, error) {
	emp := &models.Employee{}
	err := row.Scan(
		&emp.ID, &emp.Name, &emp.Email, &emp.PasswordHash, &emp.Role,
		&emp.OfficeID, &emp.IsActive, &emp.TOTPEnabled, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return emp, nil
}

func (r *EmployeeRepository) Create(ctx context.Context, emp *models.Employee) error {
	query := `
		INSERT INTO employees (name, email, password_hash, role, office_id, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		emp.Name, emp.Email, emp.PasswordHash, emp.Role, emp.OfficeID, emp.IsActive,
	).Scan(&emp.ID, &emp.CreatedAt, &emp.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create employee: %w", err)
	}
	return nil
}

func (r *EmployeeRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM employees`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}
	return count, nil
}

func (r *EmployeeRepository) Get(ctx context.Context, id int) (*models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	emp, err := scanEmployee(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

func (r *EmployeeRepository) GetByEmail(ctx context.Context, email string) (*models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE email = $1`

	emp, err := scanEmployee(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get employee by email: %w", err)
	}
	return emp, nil
}

func (r *EmployeeRepository) List(ctx context.Context) ([]*models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees ORDER BY name`
	return r.queryList(ctx, query)
}

func (r *EmployeeRepository) ListByOffice(ctx context.Context, officeID int) ([]*models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE office_id = $1 ORDER BY name`
	return r.queryList(ctx, query, officeID)
}

// ListEligibleByOffice returns the active roster that can receive goodies in
// an office. Administrative roles and departed employees are excluded at the
// query level so callers never see them.
func (r *EmployeeRepository) ListEligibleByOffice(ctx context.Context, officeID int) ([]*models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees
		WHERE office_id = $1 AND is_active = true AND role IN ('internal', 'external')
		ORDER BY id`
	return r.queryList(ctx, query, officeID)
}

func (r *EmployeeRepository) queryList(ctx context.Context, query string, args ...interface{}) ([]*models.Employee, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []*models.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// SetActive suspends or restores an employee. Suspended employees disappear
// from eligibility immediately, but their existing claims are preserved.
func (r *EmployeeRepository) SetActive(ctx context.Context, id int, active bool) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE employees SET is_active = $1, updated_at = NOW() WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("failed to update employee status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// SetTOTPSecret stores a pending TOTP secret (not yet enabled)
func (r *EmployeeRepository) SetTOTPSecret(ctx context.Context, id int, secret string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE employees SET totp_secret = $1, updated_at = NOW() WHERE id = $2`, secret, id)
	if err != nil {
		return fmt.Errorf("failed to set totp secret: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// GetTOTPSecret returns the stored secret and whether 2FA is enabled
func (r *EmployeeRepository) GetTOTPSecret(ctx context.Context, id int) (string, bool, error) {
	var secret string
	var enabled bool
	err := r.db.QueryRow(ctx,
		`SELECT totp_secret, totp_enabled FROM employees WHERE id = $1`, id).
		Scan(&secret, &enabled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, models.ErrNotFound
		}
		return "", false, fmt.Errorf("failed to get totp secret: %w", err)
	}
	return secret, enabled, nil
}

// EnableTOTP flips 2FA on after the first code was verified
func (r *EmployeeRepository) EnableTOTP(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE employees SET totp_enabled = true, updated_at = NOW() WHERE id = $1 AND totp_secret <> ''`, id)
	if err != nil {
		return fmt.Errorf("failed to enable totp: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
