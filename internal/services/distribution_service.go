package services

import (
	"context"
	"fmt"
	"log"

	"office-backend/internal/models"
	"office-backend/internal/timeutil"
)

type DistributionService struct {
	distributions DistributionStore
	employees     EmployeeDirectory
	offices       OfficeRegistry
}

func NewDistributionService(distributions DistributionStore, employees EmployeeDirectory, offices OfficeRegistry) *DistributionService {
	return &DistributionService{
		distributions: distributions,
		employees:     employees,
		offices:       offices,
	}
}

// CreateDistribution validates and persists a new distribution. Quantity
// must not be negative (zero is allowed: the distribution exists but every
// claim fails out-of-stock), the office must exist, and a targeted
// distribution needs at least one target. Targets pointing at unknown
// employees are accepted; eligibility resolution drops them later.
func (s *DistributionService) CreateDistribution(ctx context.Context, req *models.CreateDistributionRequest, distributedBy int) (*models.Distribution, error) {
	if req.GoodiesType == "" {
		return nil, models.NewValidationError("goodies_type is required")
	}
	if req.TotalQuantity < 0 {
		return nil, models.NewValidationError("total_quantity must not be negative")
	}
	if !req.IsForAllEmployees && len(req.TargetEmployees) == 0 {
		return nil, models.NewValidationError("target_employees is required when is_for_all_employees is false")
	}

	date, err := timeutil.ParseInIST(timeutil.DateLayout, req.DistributionDate)
	if err != nil {
		return nil, models.NewValidationError("distribution_date must be in YYYY-MM-DD format")
	}

	exists, err := s.offices.Exists(ctx, req.OfficeID)
	if err != nil {
		return nil, fmt.Errorf("failed to validate office: %w", err)
	}
	if !exists {
		return nil, models.NewValidationError("office does not exist")
	}

	dist := &models.Distribution{
		GoodiesType:       req.GoodiesType,
		OfficeID:          req.OfficeID,
		DistributionDate:  date,
		TotalQuantity:     req.TotalQuantity,
		IsForAllEmployees: req.IsForAllEmployees,
		TargetEmployees:   req.TargetEmployees,
		DistributedBy:     distributedBy,
	}

	if err := s.distributions.Create(ctx, dist); err != nil {
		return nil, err
	}

	log.Printf("[Distribution] Created %q for office %d on %s (qty %d)",
		dist.GoodiesType, dist.OfficeID, timeutil.FormatIST(dist.DistributionDate, timeutil.DateLayout), dist.TotalQuantity)
	return dist, nil
}

// List returns distributions, optionally filtered to one office (0 = all)
func (s *DistributionService) List(ctx context.Context, officeID int) ([]*models.Distribution, error) {
	return s.distributions.List(ctx, officeID)
}

func (s *DistributionService) Get(ctx context.Context, id int) (*models.Distribution, error) {
	return s.distributions.Get(ctx, id)
}

// Delete removes a distribution together with all its claims. The cascade is
// a single statement at the store layer, so no claim can survive its
// distribution and no new claim can land mid-delete.
func (s *DistributionService) Delete(ctx context.Context, id int) error {
	if err := s.distributions.Delete(ctx, id); err != nil {
		return err
	}
	log.Printf("[Distribution] Deleted distribution %d with its claims", id)
	return nil
}

// ListEligible resolves the current eligible employees for a distribution
func (s *DistributionService) ListEligible(ctx context.Context, distributionID int) ([]*models.Employee, error) {
	dist, err := s.distributions.Get(ctx, distributionID)
	if err != nil {
		return nil, err
	}

	roster, err := s.employees.ListEligibleByOffice(ctx, dist.OfficeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load office roster: %w", err)
	}

	return ResolveEligible(dist, roster), nil
}
