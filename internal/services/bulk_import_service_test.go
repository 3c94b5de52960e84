package services

import (
	"context"
	"testing"
	"time"

	"office-backend/internal/models"
)

func newImportFixture(rosterSize int) (*BulkImportService, *memDistStore, *ClaimService) {
	store := newMemStore()
	distStore := &memDistStore{s: store}
	claimStore := &memClaimStore{s: store}

	var employees []*models.Employee
	for i := 1; i <= rosterSize; i++ {
		employees = append(employees, employee(i, 1, models.RoleInternal))
	}
	directory := newMemDirectory(employees...)
	offices := newMemOffices(1)

	claimSvc := NewClaimService(claimStore, distStore, directory)
	return NewBulkImportService(distStore, claimSvc, offices), distStore, claimSvc
}

func importCtx() *ImportContext {
	return &ImportContext{
		GoodiesType:      "anniversary-boxes",
		DistributionDate: time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
		ActorID:          50,
		ActorOfficeID:    1,
	}
}

func rows(ids ...string) []models.ImportRow {
	out := make([]models.ImportRow, len(ids))
	for i, id := range ids {
		out[i] = models.ImportRow{EmployeeID: id}
	}
	return out
}

func TestProcessRows(t *testing.T) {
	ctx := context.Background()

	t.Run("clean batch creates a distribution sized to it", func(t *testing.T) {
		svc, distStore, _ := newImportFixture(3)

		result, err := svc.ProcessRows(ctx, importCtx(), rows("1", "2", "3"))
		if err != nil {
			t.Fatalf("process failed: %v", err)
		}
		if result.TotalProcessed != 3 || result.SuccessCount != 3 || result.FailedCount != 0 {
			t.Fatalf("unexpected result: %+v", result)
		}

		dist, _ := distStore.FindByTypeDateOffice(ctx, "anniversary-boxes",
			time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC), 1)
		if dist == nil {
			t.Fatal("expected a distribution to be created")
		}
		if dist.TotalQuantity != 3 || dist.RemainingCount != 0 {
			t.Errorf("expected quantity 3 fully claimed, got total=%d remaining=%d",
				dist.TotalQuantity, dist.RemainingCount)
		}
		if !dist.IsForAllEmployees {
			t.Error("import-created distributions should be open to all employees")
		}
		// Callers refresh cached listings for the offices the batch touched
		if len(result.Offices) != 1 || result.Offices[0] != 1 {
			t.Errorf("expected touched offices [1], got %v", result.Offices)
		}
	})

	t.Run("bad rows fail individually and preserve order", func(t *testing.T) {
		svc, _, _ := newImportFixture(4)

		// Row 2 is not numeric, row 4 names a missing employee, row 5 duplicates row 1
		result, err := svc.ProcessRows(ctx, importCtx(), rows("1", "abc", "2", "99", "1"))
		if err != nil {
			t.Fatalf("process failed: %v", err)
		}

		if result.TotalProcessed != 5 {
			t.Errorf("expected 5 processed, got %d", result.TotalProcessed)
		}
		if result.SuccessCount != 2 || result.FailedCount != 3 {
			t.Fatalf("expected 2 ok / 3 failed, got %d / %d", result.SuccessCount, result.FailedCount)
		}
		if result.SuccessCount+result.FailedCount != result.TotalProcessed {
			t.Error("success + failed must equal total")
		}

		wantRows := []int{2, 4, 5}
		for i, fr := range result.FailedRecords {
			if fr.Row != wantRows[i] {
				t.Errorf("failed record %d: expected row %d, got %d", i, wantRows[i], fr.Row)
			}
			if fr.Error == "" {
				t.Errorf("failed record %d has empty error", i)
			}
		}
		if result.FailedRecords[0].Data.EmployeeID != "abc" {
			t.Errorf("failed record must carry original data, got %q", result.FailedRecords[0].Data.EmployeeID)
		}
	})

	t.Run("second batch reuses the distribution unchanged", func(t *testing.T) {
		svc, distStore, _ := newImportFixture(5)

		if _, err := svc.ProcessRows(ctx, importCtx(), rows("1", "2")); err != nil {
			t.Fatalf("first batch failed: %v", err)
		}

		// Same triple again: quantity stays 2 and the first batch consumed
		// it, so every new row fails with out-of-stock.
		result, err := svc.ProcessRows(ctx, importCtx(), rows("3", "4", "5"))
		if err != nil {
			t.Fatalf("second batch failed: %v", err)
		}
		if result.SuccessCount != 0 || result.FailedCount != 3 {
			t.Fatalf("expected 0 ok / 3 failed, got %d / %d", result.SuccessCount, result.FailedCount)
		}

		dist, _ := distStore.FindByTypeDateOffice(ctx, "anniversary-boxes",
			time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC), 1)
		if dist.TotalQuantity != 2 {
			t.Errorf("reused distribution must keep its quantity, got %d", dist.TotalQuantity)
		}
	})

	t.Run("claims are tagged as bulk import with the actor", func(t *testing.T) {
		svc, distStore, claimSvc := newImportFixture(1)

		if _, err := svc.ProcessRows(ctx, importCtx(), rows("1")); err != nil {
			t.Fatalf("process failed: %v", err)
		}

		dist, _ := distStore.FindByTypeDateOffice(ctx, "anniversary-boxes",
			time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC), 1)
		claims, _ := claimSvc.ListClaims(ctx, dist.ID)
		if len(claims) != 1 {
			t.Fatalf("expected 1 claim, got %d", len(claims))
		}
		if claims[0].Via != models.ViaBulkImport {
			t.Errorf("expected via %q, got %q", models.ViaBulkImport, claims[0].Via)
		}
		if claims[0].MarkedBy == nil || *claims[0].MarkedBy != 50 {
			t.Errorf("expected marked_by 50, got %v", claims[0].MarkedBy)
		}
	})

	t.Run("missing batch parameters are rejected up front", func(t *testing.T) {
		svc, _, _ := newImportFixture(1)

		ic := importCtx()
		ic.GoodiesType = ""
		if _, err := svc.ProcessRows(ctx, ic, rows("1")); !models.IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}

		ic = importCtx()
		ic.DistributionDate = time.Time{}
		if _, err := svc.ProcessRows(ctx, ic, rows("1")); !models.IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("empty batch is a no-op result", func(t *testing.T) {
		svc, distStore, _ := newImportFixture(1)

		result, err := svc.ProcessRows(ctx, importCtx(), nil)
		if err != nil {
			t.Fatalf("process failed: %v", err)
		}
		if result.TotalProcessed != 0 || len(result.FailedRecords) != 0 {
			t.Fatalf("unexpected result: %+v", result)
		}

		dist, _ := distStore.FindByTypeDateOffice(ctx, "anniversary-boxes",
			time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC), 1)
		if dist != nil {
			t.Error("empty batch must not create a distribution")
		}
	})
}
