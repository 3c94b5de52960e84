package services

import (
	"context"
	"time"

	"office-backend/internal/models"
)

// Store interfaces consumed by the services. The pgx repositories satisfy
// them in production; tests substitute in-memory implementations that honor
// the same atomicity contract.

type DistributionStore interface {
	Create(ctx context.Context, dist *models.Distribution) error
	Get(ctx context.Context, id int) (*models.Distribution, error)
	List(ctx context.Context, officeID int) ([]*models.Distribution, error)
	FindByTypeDateOffice(ctx context.Context, goodiesType string, date time.Time, officeID int) (*models.Distribution, error)
	Delete(ctx context.Context, id int) error
}

type ClaimStore interface {
	Create(ctx context.Context, claim *models.ClaimRecord) error
	Delete(ctx context.Context, claimID int) error
	Get(ctx context.Context, id int) (*models.ClaimRecord, error)
	ListByDistribution(ctx context.Context, distributionID int) ([]*models.ClaimRecord, error)
	Exists(ctx context.Context, distributionID, employeeID int) (bool, error)
}

type EmployeeDirectory interface {
	Get(ctx context.Context, id int) (*models.Employee, error)
	ListEligibleByOffice(ctx context.Context, officeID int) ([]*models.Employee, error)
}

type OfficeRegistry interface {
	Get(ctx context.Context, id int) (*models.Office, error)
	Exists(ctx context.Context, id int) (bool, error)
}
