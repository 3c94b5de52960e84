package services

import (
	"context"
	"testing"

	"office-backend/internal/models"
)

func newDistFixture() (*DistributionService, *memDirectory) {
	store := newMemStore()
	directory := newMemDirectory(
		employee(1, 1, models.RoleInternal),
		employee(2, 1, models.RoleExternal),
		employee(3, 1, models.RoleAdmin),
	)
	return NewDistributionService(&memDistStore{s: store}, directory, newMemOffices(1)), directory
}

func TestCreateDistribution(t *testing.T) {
	ctx := context.Background()

	valid := func() *models.CreateDistributionRequest {
		return &models.CreateDistributionRequest{
			GoodiesType:       "diwali-sweets",
			TotalQuantity:     20,
			OfficeID:          1,
			DistributionDate:  "2026-08-15",
			IsForAllEmployees: true,
		}
	}

	t.Run("valid request creates with full stock", func(t *testing.T) {
		svc, _ := newDistFixture()
		dist, err := svc.CreateDistribution(ctx, valid(), 3)
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if dist.ClaimedCount != 0 || dist.RemainingCount != 20 {
			t.Errorf("expected counts (0, 20), got (%d, %d)", dist.ClaimedCount, dist.RemainingCount)
		}
		if dist.DistributedBy != 3 {
			t.Errorf("expected distributed_by 3, got %d", dist.DistributedBy)
		}
	})

	t.Run("zero quantity creates an already-exhausted distribution", func(t *testing.T) {
		svc, _ := newDistFixture()
		req := valid()
		req.TotalQuantity = 0

		dist, err := svc.CreateDistribution(ctx, req, 3)
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if dist.ClaimedCount != 0 || dist.RemainingCount != 0 {
			t.Errorf("expected counts (0, 0), got (%d, %d)", dist.ClaimedCount, dist.RemainingCount)
		}
	})

	t.Run("rejects bad input", func(t *testing.T) {
		svc, _ := newDistFixture()

		cases := map[string]func(*models.CreateDistributionRequest){
			"empty goodies type":       func(r *models.CreateDistributionRequest) { r.GoodiesType = "" },
			"negative quantity":        func(r *models.CreateDistributionRequest) { r.TotalQuantity = -5 },
			"unknown office":           func(r *models.CreateDistributionRequest) { r.OfficeID = 9 },
			"malformed date":           func(r *models.CreateDistributionRequest) { r.DistributionDate = "15/08/2026" },
			"targeted without targets": func(r *models.CreateDistributionRequest) { r.IsForAllEmployees = false },
		}

		for name, mutate := range cases {
			t.Run(name, func(t *testing.T) {
				req := valid()
				mutate(req)
				if _, err := svc.CreateDistribution(ctx, req, 3); !models.IsValidation(err) {
					t.Fatalf("expected validation error, got %v", err)
				}
			})
		}
	})

	t.Run("targets pointing at unknown employees are accepted", func(t *testing.T) {
		svc, _ := newDistFixture()
		req := valid()
		req.IsForAllEmployees = false
		req.TargetEmployees = []int{1, 999}

		dist, err := svc.CreateDistribution(ctx, req, 3)
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}

		// The stale target is simply never eligible
		eligible, err := svc.ListEligible(ctx, dist.ID)
		if err != nil {
			t.Fatalf("list eligible failed: %v", err)
		}
		if len(eligible) != 1 || eligible[0].ID != 1 {
			t.Fatalf("expected only employee 1 eligible, got %v", eligible)
		}
	})
}

func TestListEligibleExcludesAdmins(t *testing.T) {
	ctx := context.Background()
	svc, _ := newDistFixture()

	dist, err := svc.CreateDistribution(ctx, &models.CreateDistributionRequest{
		GoodiesType:       "t-shirts",
		TotalQuantity:     10,
		OfficeID:          1,
		DistributionDate:  "2026-08-15",
		IsForAllEmployees: true,
	}, 3)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	eligible, err := svc.ListEligible(ctx, dist.ID)
	if err != nil {
		t.Fatalf("list eligible failed: %v", err)
	}
	// Roster holds internal, external and admin; only the first two count
	if len(eligible) != 2 {
		t.Fatalf("expected 2 eligible, got %d", len(eligible))
	}
	for _, emp := range eligible {
		if !models.ClaimEligibleRole(emp.Role) {
			t.Errorf("role %q must not be eligible", emp.Role)
		}
	}
}
