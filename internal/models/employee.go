package models

import "time"

// Employee roles. Only internal and external employees can receive goodies;
// administrative roles are never part of an eligible set.
const (
	RoleInternal   = "internal"
	RoleExternal   = "external"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

// ClaimEligibleRole reports whether a role may receive goodies at all.
func ClaimEligibleRole(role string) bool {
	return role == RoleInternal || role == RoleExternal
}

type Employee struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	Role         string    `json:"role"`
	OfficeID     int       `json:"office_id"`
	Office       *Office   `json:"office,omitempty"` // Denormalized view, fetched separately
	IsActive     bool      `json:"is_active"`
	TOTPEnabled  bool      `json:"totp_enabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SignupRequest represents the request body for signup
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	OfficeID int    `json:"office_id"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse represents the response after successful authentication.
// When TOTPRequired is set the token is a short-lived 2FA token and the
// client must complete /auth/totp/verify before calling protected routes.
type AuthResponse struct {
	Token        string    `json:"token"`
	TOTPRequired bool      `json:"totp_required,omitempty"`
	Employee     *Employee `json:"employee,omitempty"`
}

// TOTPVerifyRequest completes a 2FA login
type TOTPVerifyRequest struct {
	TempToken string `json:"temp_token"`
	Code      string `json:"code"`
}

// CreateEmployeeRequest represents the request body for creating an employee
type CreateEmployeeRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	OfficeID int    `json:"office_id"`
}
