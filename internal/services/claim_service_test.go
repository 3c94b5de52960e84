package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"office-backend/internal/models"
)

func newClaimFixture(t *testing.T, totalQuantity, rosterSize int) (*ClaimService, *DistributionService, *models.Distribution) {
	t.Helper()

	store := newMemStore()
	distStore := &memDistStore{s: store}
	claimStore := &memClaimStore{s: store}

	var employees []*models.Employee
	for i := 1; i <= rosterSize; i++ {
		employees = append(employees, employee(i, 1, models.RoleInternal))
	}
	directory := newMemDirectory(employees...)
	offices := newMemOffices(1)

	dist := &models.Distribution{
		GoodiesType:       "diwali-sweets",
		OfficeID:          1,
		DistributionDate:  time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
		TotalQuantity:     totalQuantity,
		IsForAllEmployees: true,
		DistributedBy:     1,
	}
	if err := distStore.Create(context.Background(), dist); err != nil {
		t.Fatalf("create distribution: %v", err)
	}

	claimSvc := NewClaimService(claimStore, distStore, directory)
	distSvc := NewDistributionService(distStore, directory, offices)
	return claimSvc, distSvc, dist
}

func TestClaim(t *testing.T) {
	ctx := context.Background()

	t.Run("successful claim moves both counters", func(t *testing.T) {
		claimSvc, distSvc, dist := newClaimFixture(t, 5, 3)

		claim, err := claimSvc.Claim(ctx, dist.ID, 1, models.ViaSelf, nil)
		if err != nil {
			t.Fatalf("claim failed: %v", err)
		}
		if claim.Via != models.ViaSelf {
			t.Errorf("expected via %q, got %q", models.ViaSelf, claim.Via)
		}

		got, _ := distSvc.Get(ctx, dist.ID)
		if got.ClaimedCount != 1 || got.RemainingCount != 4 {
			t.Errorf("expected counts (1, 4), got (%d, %d)", got.ClaimedCount, got.RemainingCount)
		}
	})

	t.Run("second claim by same employee is rejected", func(t *testing.T) {
		claimSvc, distSvc, dist := newClaimFixture(t, 5, 3)

		if _, err := claimSvc.Claim(ctx, dist.ID, 1, models.ViaSelf, nil); err != nil {
			t.Fatalf("first claim failed: %v", err)
		}
		_, err := claimSvc.Claim(ctx, dist.ID, 1, models.ViaAdmin, nil)
		if !errors.Is(err, models.ErrAlreadyClaimed) {
			t.Fatalf("expected ErrAlreadyClaimed, got %v", err)
		}

		got, _ := distSvc.Get(ctx, dist.ID)
		if got.ClaimedCount != 1 {
			t.Errorf("duplicate claim must not move counters, claimed=%d", got.ClaimedCount)
		}
	})

	t.Run("exhausted distribution rejects with out of stock", func(t *testing.T) {
		claimSvc, _, dist := newClaimFixture(t, 1, 3)

		if _, err := claimSvc.Claim(ctx, dist.ID, 1, models.ViaSelf, nil); err != nil {
			t.Fatalf("first claim failed: %v", err)
		}
		_, err := claimSvc.Claim(ctx, dist.ID, 2, models.ViaSelf, nil)
		if !errors.Is(err, models.ErrOutOfStock) {
			t.Fatalf("expected ErrOutOfStock, got %v", err)
		}
	})

	t.Run("zero-quantity distribution rejects every claim with out of stock", func(t *testing.T) {
		claimSvc, distSvc, dist := newClaimFixture(t, 0, 2)

		_, err := claimSvc.Claim(ctx, dist.ID, 1, models.ViaSelf, nil)
		if !errors.Is(err, models.ErrOutOfStock) {
			t.Fatalf("expected ErrOutOfStock, got %v", err)
		}

		got, _ := distSvc.Get(ctx, dist.ID)
		if got.ClaimedCount != 0 || got.RemainingCount != 0 {
			t.Errorf("expected counts (0, 0), got (%d, %d)", got.ClaimedCount, got.RemainingCount)
		}
	})

	t.Run("ineligible employee is rejected before stock check", func(t *testing.T) {
		store := newMemStore()
		distStore := &memDistStore{s: store}
		claimStore := &memClaimStore{s: store}
		directory := newMemDirectory(
			employee(1, 1, models.RoleInternal),
			employee(2, 2, models.RoleInternal), // wrong office
			employee(3, 1, models.RoleAdmin),    // admin role
		)
		inactive := employee(4, 1, models.RoleInternal)
		inactive.IsActive = false
		directory.employees[4] = inactive

		dist := &models.Distribution{
			GoodiesType: "t-shirts", OfficeID: 1, TotalQuantity: 10,
			IsForAllEmployees: true,
		}
		distStore.Create(ctx, dist)
		claimSvc := NewClaimService(claimStore, distStore, directory)

		for _, empID := range []int{2, 3, 4} {
			if _, err := claimSvc.Claim(ctx, dist.ID, empID, models.ViaSelf, nil); !errors.Is(err, models.ErrNotEligible) {
				t.Errorf("employee %d: expected ErrNotEligible, got %v", empID, err)
			}
		}

		got, _ := distStore.Get(ctx, dist.ID)
		if got.ClaimedCount != 0 {
			t.Errorf("rejected claims must not move counters, claimed=%d", got.ClaimedCount)
		}
	})

	t.Run("targeted distribution rejects untargeted employee", func(t *testing.T) {
		store := newMemStore()
		distStore := &memDistStore{s: store}
		claimStore := &memClaimStore{s: store}
		directory := newMemDirectory(
			employee(1, 1, models.RoleInternal),
			employee(2, 1, models.RoleInternal),
		)

		dist := &models.Distribution{
			GoodiesType: "mugs", OfficeID: 1, TotalQuantity: 5,
			TargetEmployees: []int{2},
		}
		distStore.Create(ctx, dist)
		claimSvc := NewClaimService(claimStore, distStore, directory)

		if _, err := claimSvc.Claim(ctx, dist.ID, 1, models.ViaSelf, nil); !errors.Is(err, models.ErrNotEligible) {
			t.Fatalf("expected ErrNotEligible, got %v", err)
		}
		if _, err := claimSvc.Claim(ctx, dist.ID, 2, models.ViaSelf, nil); err != nil {
			t.Fatalf("targeted employee should claim, got %v", err)
		}
	})

	t.Run("unknown distribution returns not found", func(t *testing.T) {
		claimSvc, _, _ := newClaimFixture(t, 1, 1)
		if _, err := claimSvc.Claim(ctx, 999, 1, models.ViaSelf, nil); !errors.Is(err, models.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

// TestClaimConcurrentNoOversell races more claimants than stock and checks
// that exactly totalQuantity claims land.
func TestClaimConcurrentNoOversell(t *testing.T) {
	const totalQuantity = 10
	const claimants = 25

	claimSvc, distSvc, dist := newClaimFixture(t, totalQuantity, claimants)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, claimants)
	for i := 0; i < claimants; i++ {
		wg.Add(1)
		go func(empID int) {
			defer wg.Done()
			_, errs[empID-1] = claimSvc.Claim(ctx, dist.ID, empID, models.ViaSelf, nil)
		}(i + 1)
	}
	wg.Wait()

	var succeeded, outOfStock int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, models.ErrOutOfStock):
			outOfStock++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if succeeded != totalQuantity {
		t.Errorf("expected %d successful claims, got %d", totalQuantity, succeeded)
	}
	if outOfStock != claimants-totalQuantity {
		t.Errorf("expected %d out-of-stock rejections, got %d", claimants-totalQuantity, outOfStock)
	}

	got, _ := distSvc.Get(ctx, dist.ID)
	if got.ClaimedCount != totalQuantity || got.RemainingCount != 0 {
		t.Errorf("expected counts (%d, 0), got (%d, %d)", totalQuantity, got.ClaimedCount, got.RemainingCount)
	}

	claims, _ := claimSvc.ListClaims(ctx, dist.ID)
	if len(claims) != totalQuantity {
		t.Errorf("expected %d claim records, got %d", totalQuantity, len(claims))
	}
}

func TestUnclaim(t *testing.T) {
	ctx := context.Background()

	t.Run("reversal restores stock and allows a new claim", func(t *testing.T) {
		claimSvc, distSvc, dist := newClaimFixture(t, 1, 2)

		claim, err := claimSvc.Claim(ctx, dist.ID, 1, models.ViaSelf, nil)
		if err != nil {
			t.Fatalf("claim failed: %v", err)
		}
		if err := claimSvc.Unclaim(ctx, claim.ID); err != nil {
			t.Fatalf("unclaim failed: %v", err)
		}

		got, _ := distSvc.Get(ctx, dist.ID)
		if got.ClaimedCount != 0 || got.RemainingCount != 1 {
			t.Errorf("expected counts (0, 1), got (%d, %d)", got.ClaimedCount, got.RemainingCount)
		}

		// Unit freed, another employee can take it
		if _, err := claimSvc.Claim(ctx, dist.ID, 2, models.ViaSelf, nil); err != nil {
			t.Fatalf("claim after reversal failed: %v", err)
		}
		// And the original claimant may claim again too, once stock allows
		if err := claimSvc.Unclaim(ctx, 2); err != nil {
			t.Fatalf("second unclaim failed: %v", err)
		}
		if _, err := claimSvc.Claim(ctx, dist.ID, 1, models.ViaSelf, nil); err != nil {
			t.Fatalf("re-claim by original employee failed: %v", err)
		}
	})

	t.Run("reversing a missing claim returns not found", func(t *testing.T) {
		claimSvc, _, _ := newClaimFixture(t, 1, 1)
		if err := claimSvc.Unclaim(ctx, 42); !errors.Is(err, models.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestDeleteDistributionCascades(t *testing.T) {
	ctx := context.Background()
	claimSvc, distSvc, dist := newClaimFixture(t, 5, 3)

	for empID := 1; empID <= 3; empID++ {
		if _, err := claimSvc.Claim(ctx, dist.ID, empID, models.ViaAdmin, nil); err != nil {
			t.Fatalf("claim %d failed: %v", empID, err)
		}
	}

	if err := distSvc.Delete(ctx, dist.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := distSvc.Get(ctx, dist.ID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected distribution gone, got %v", err)
	}
	if _, err := claimSvc.ListClaims(ctx, dist.ID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected claims listing to fail after cascade, got %v", err)
	}
	if err := distSvc.Delete(ctx, dist.ID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("second delete should return not found, got %v", err)
	}
}
