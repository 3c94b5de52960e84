package middleware

import (
	"context"
	"net/http"
	"strings"

	"office-backend/internal/auth"
	"office-backend/internal/models"
	"office-backend/internal/repositories"
)

type contextKey string

const EmployeeIDKey contextKey = "employee_id"
const EmailKey contextKey = "email"
const RoleKey contextKey = "role"
const OfficeIDKey contextKey = "office_id"

type AuthMiddleware struct {
	jwtManager   *auth.JWTManager
	employeeRepo *repositories.EmployeeRepository
}

func NewAuthMiddleware(jwtManager *auth.JWTManager, employeeRepo *repositories.EmployeeRepository) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager:   jwtManager,
		employeeRepo: employeeRepo,
	}
}

// authenticate validates the bearer token and re-reads the employee row so
// suspensions and role changes take effect without waiting for token expiry.
func (m *AuthMiddleware) authenticate(w http.ResponseWriter, r *http.Request) (*http.Request, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		http.Error(w, "Authorization header required", http.StatusUnauthorized)
		return nil, false
	}

	// Extract token from "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		http.Error(w, "Invalid authorization format", http.StatusUnauthorized)
		return nil, false
	}

	claims, err := m.jwtManager.ValidateToken(parts[1])
	if err != nil {
		http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
		return nil, false
	}

	emp, err := m.employeeRepo.Get(r.Context(), claims.EmployeeID)
	if err != nil {
		http.Error(w, "Employee not found", http.StatusUnauthorized)
		return nil, false
	}

	if !emp.IsActive {
		http.Error(w, "Account suspended. Please contact administrator.", http.StatusForbidden)
		return nil, false
	}

	ctx := context.WithValue(r.Context(), EmployeeIDKey, emp.ID)
	ctx = context.WithValue(ctx, EmailKey, emp.Email)
	ctx = context.WithValue(ctx, RoleKey, emp.Role)
	ctx = context.WithValue(ctx, OfficeIDKey, emp.OfficeID)

	return r.WithContext(ctx), true
}

// Authenticate is a middleware that validates JWT tokens
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r2, ok := m.authenticate(w, r)
		if !ok {
			return
		}
		next.ServeHTTP(w, r2)
	})
}

// RequireRole is a middleware that ensures the caller has one of the allowed roles
func (m *AuthMiddleware) RequireRole(allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r2, ok := m.authenticate(w, r)
			if !ok {
				return
			}

			role, _ := GetRoleFromContext(r2.Context())
			for _, allowed := range allowedRoles {
				if role == allowed {
					next.ServeHTTP(w, r2)
					return
				}
			}

			http.Error(w, "Forbidden: Insufficient permissions", http.StatusForbidden)
		})
	}
}

// RequireAdmin is a middleware that ensures the caller has an admin role
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return m.RequireRole(models.RoleAdmin, models.RoleSuperAdmin)(next)
}

// GetEmployeeIDFromContext extracts the employee ID from request context
func GetEmployeeIDFromContext(ctx context.Context) (int, bool) {
	employeeID, ok := ctx.Value(EmployeeIDKey).(int)
	return employeeID, ok
}

// GetEmailFromContext extracts email from request context
func GetEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(EmailKey).(string)
	return email, ok
}

// GetRoleFromContext extracts role from request context
func GetRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(RoleKey).(string)
	return role, ok
}

// GetOfficeIDFromContext extracts the caller's office ID from request context
func GetOfficeIDFromContext(ctx context.Context) (int, bool) {
	officeID, ok := ctx.Value(OfficeIDKey).(int)
	return officeID, ok
}
