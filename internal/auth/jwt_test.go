package auth

import (
	"testing"

	"office-backend/internal/config"
	"office-backend/internal/models"
)

func testManager() *JWTManager {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.Issuer = "office-backend-test"
	return NewJWTManager(cfg)
}

func TestTokenRoundTrip(t *testing.T) {
	m := testManager()
	emp := &models.Employee{ID: 7, Email: "a@b.co", Role: models.RoleAdmin, OfficeID: 2}

	token, err := m.GenerateToken(emp)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if claims.EmployeeID != 7 || claims.Role != models.RoleAdmin || claims.OfficeID != 2 {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestTempTokenIsNotASessionToken(t *testing.T) {
	m := testManager()
	emp := &models.Employee{ID: 7, Email: "a@b.co", Role: models.RoleAdmin}

	tempToken, err := m.GenerateTempToken(emp)
	if err != nil {
		t.Fatalf("generate temp failed: %v", err)
	}

	if _, err := m.ValidateTempToken(tempToken); err != nil {
		t.Fatalf("temp token should validate as temp: %v", err)
	}

	// A full session token must not pass temp validation
	full, _ := m.GenerateToken(emp)
	if _, err := m.ValidateTempToken(full); err == nil {
		t.Fatal("session token must not validate as a 2fa pending token")
	}

	// And the reverse: a 2fa pending token must not grant a session.
	// Otherwise the login response for a 2FA account would already be
	// enough to call protected routes without ever presenting a code.
	if claims, err := m.ValidateToken(tempToken); err == nil {
		t.Fatalf("2fa pending token accepted as session token: %+v", claims)
	}
}

func TestValidateRejectsTamperedToken(t *testing.T) {
	m := testManager()
	emp := &models.Employee{ID: 1, Email: "a@b.co", Role: models.RoleInternal}

	token, _ := m.GenerateToken(emp)
	if _, err := m.ValidateToken(token + "x"); err == nil {
		t.Fatal("expected tampered token to be rejected")
	}
}
