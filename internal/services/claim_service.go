package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"office-backend/internal/metrics"
	"office-backend/internal/models"
)

type ClaimService struct {
	claims        ClaimStore
	distributions DistributionStore
	employees     EmployeeDirectory
}

func NewClaimService(claims ClaimStore, distributions DistributionStore, employees EmployeeDirectory) *ClaimService {
	return &ClaimService{
		claims:        claims,
		distributions: distributions,
		employees:     employees,
	}
}

// Claim records that an employee took one unit from a distribution. The
// checks run in a fixed order: eligibility, then duplicate, then stock.
// The early duplicate check only improves the error an honest caller sees;
// the store enforces the same rule inside its transaction, so racing
// duplicates and racing last-unit claims are still rejected correctly.
func (s *ClaimService) Claim(ctx context.Context, distributionID, employeeID int, via string, markedBy *int) (*models.ClaimRecord, error) {
	dist, err := s.distributions.Get(ctx, distributionID)
	if err != nil {
		return nil, err
	}

	emp, err := s.employees.Get(ctx, employeeID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewValidationError("employee not found")
		}
		return nil, err
	}
	if !emp.IsActive || !models.ClaimEligibleRole(emp.Role) || emp.OfficeID != dist.OfficeID {
		metrics.ClaimsTotal.WithLabelValues(via, "not_eligible").Inc()
		return nil, models.ErrNotEligible
	}

	if !dist.IsForAllEmployees {
		roster, err := s.employees.ListEligibleByOffice(ctx, dist.OfficeID)
		if err != nil {
			return nil, fmt.Errorf("failed to load office roster: %w", err)
		}
		if !IsEligible(dist, roster, employeeID) {
			metrics.ClaimsTotal.WithLabelValues(via, "not_eligible").Inc()
			return nil, models.ErrNotEligible
		}
	}

	exists, err := s.claims.Exists(ctx, distributionID, employeeID)
	if err != nil {
		return nil, err
	}
	if exists {
		metrics.ClaimsTotal.WithLabelValues(via, "duplicate").Inc()
		return nil, models.ErrAlreadyClaimed
	}

	claim := &models.ClaimRecord{
		DistributionID: distributionID,
		EmployeeID:     employeeID,
		Via:            via,
		MarkedBy:       markedBy,
	}

	if err := s.claims.Create(ctx, claim); err != nil {
		switch {
		case errors.Is(err, models.ErrAlreadyClaimed):
			metrics.ClaimsTotal.WithLabelValues(via, "duplicate").Inc()
		case errors.Is(err, models.ErrOutOfStock):
			metrics.ClaimsTotal.WithLabelValues(via, "out_of_stock").Inc()
		}
		return nil, err
	}

	metrics.ClaimsTotal.WithLabelValues(via, "success").Inc()
	claim.EmployeeName = emp.Name
	log.Printf("[Claim] Employee %d claimed distribution %d via %s", employeeID, distributionID, via)
	return claim, nil
}

// Unclaim reverses a claim record and returns its unit to stock
func (s *ClaimService) Unclaim(ctx context.Context, claimID int) error {
	if err := s.claims.Delete(ctx, claimID); err != nil {
		if errors.Is(err, models.ErrInvariant) {
			// Should be unreachable: every stored claim was preceded by a
			// successful reserve. Log loudly before surfacing.
			log.Printf("[Claim] INVARIANT VIOLATION reversing claim %d: %v", claimID, err)
		}
		return err
	}
	log.Printf("[Claim] Reversed claim %d", claimID)
	return nil
}

// Get returns one claim record by id
func (s *ClaimService) Get(ctx context.Context, claimID int) (*models.ClaimRecord, error) {
	return s.claims.Get(ctx, claimID)
}

// ListClaims returns all claim records of a distribution in claim order
func (s *ClaimService) ListClaims(ctx context.Context, distributionID int) ([]*models.ClaimRecord, error) {
	if _, err := s.distributions.Get(ctx, distributionID); err != nil {
		return nil, err
	}
	return s.claims.ListByDistribution(ctx, distributionID)
}

// HasClaimed reports whether the employee already claimed from a distribution
func (s *ClaimService) HasClaimed(ctx context.Context, distributionID, employeeID int) (bool, error) {
	return s.claims.Exists(ctx, distributionID, employeeID)
}
