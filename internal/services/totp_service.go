package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"

	"github.com/pquerna/otp/totp"

	"office-backend/internal/auth"
	"office-backend/internal/models"
	"office-backend/internal/repositories"
)

// TOTPService manages two-factor authentication for admin accounts
type TOTPService struct {
	employees  *repositories.EmployeeRepository
	jwtManager *auth.JWTManager
	issuer     string
}

func NewTOTPService(employees *repositories.EmployeeRepository, jwtManager *auth.JWTManager, issuer string) *TOTPService {
	return &TOTPService{
		employees:  employees,
		jwtManager: jwtManager,
		issuer:     issuer,
	}
}

// TOTPSetup is returned once during enrollment; the secret is never shown again
type TOTPSetup struct {
	Secret  string `json:"secret"`
	QRImage string `json:"qr_image"` // base64 PNG for authenticator apps
}

// GenerateSetup creates a new secret for an employee and returns it with a
// QR code. 2FA stays off until the first code is verified via Enable.
func (s *TOTPService) GenerateSetup(ctx context.Context, employeeID int) (*TOTPSetup, error) {
	emp, err := s.employees.Get(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.issuer,
		AccountName: emp.Email,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate totp key: %w", err)
	}

	img, err := key.Image(200, 200)
	if err != nil {
		return nil, fmt.Errorf("failed to render qr code: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}

	if err := s.employees.SetTOTPSecret(ctx, employeeID, key.Secret()); err != nil {
		return nil, err
	}

	return &TOTPSetup{
		Secret:  key.Secret(),
		QRImage: base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}

// Enable verifies the first code against the pending secret and turns 2FA on
func (s *TOTPService) Enable(ctx context.Context, employeeID int, code string) error {
	secret, _, err := s.employees.GetTOTPSecret(ctx, employeeID)
	if err != nil {
		return err
	}
	if secret == "" {
		return models.NewValidationError("no pending totp setup")
	}
	if !totp.Validate(code, secret) {
		return models.NewValidationError("invalid totp code")
	}
	return s.employees.EnableTOTP(ctx, employeeID)
}

// VerifyLogin completes a 2FA login: validates the pending token and the
// code, then issues a full session token.
func (s *TOTPService) VerifyLogin(ctx context.Context, tempToken, code string) (*models.AuthResponse, error) {
	claims, err := s.jwtManager.ValidateTempToken(tempToken)
	if err != nil {
		return nil, models.NewValidationError("invalid or expired temp token")
	}

	secret, enabled, err := s.employees.GetTOTPSecret(ctx, claims.EmployeeID)
	if err != nil {
		return nil, err
	}
	if !enabled {
		return nil, errors.New("totp not enabled for this account")
	}
	if !totp.Validate(code, secret) {
		return nil, models.NewValidationError("invalid totp code")
	}

	emp, err := s.employees.Get(ctx, claims.EmployeeID)
	if err != nil {
		return nil, err
	}

	token, err := s.jwtManager.GenerateToken(emp)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &models.AuthResponse{Token: token, Employee: emp}, nil
}
