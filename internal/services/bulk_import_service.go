package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"time"

	"office-backend/internal/metrics"
	"office-backend/internal/models"
)

// ImportContext carries the batch-level parameters of a bulk upload. Row
// files only name employees; the goodies type and date come from the
// surrounding request, and the office defaults to the actor's own unless the
// actor may import across offices.
type ImportContext struct {
	GoodiesType      string
	DistributionDate time.Time
	ActorID          int
	ActorOfficeID    int
	CrossOffice      bool // superadmins may route rows to other offices
}

type BulkImportService struct {
	distributions DistributionStore
	claims        *ClaimService
	offices       OfficeRegistry
}

func NewBulkImportService(distributions DistributionStore, claims *ClaimService, offices OfficeRegistry) *BulkImportService {
	return &BulkImportService{
		distributions: distributions,
		claims:        claims,
		offices:       offices,
	}
}

// ProcessRows runs a bulk import batch. Every row is handled independently:
// a bad employee id, a duplicate claim or exhausted stock fails that row and
// the loop moves on, so one stray line never sinks the file. Failed rows are
// reported in input order with their original data and a reason.
func (s *BulkImportService) ProcessRows(ctx context.Context, ic *ImportContext, rowsData []models.ImportRow) (*models.ImportResult, error) {
	if ic.GoodiesType == "" {
		return nil, models.NewValidationError("goodies_type is required")
	}
	if ic.DistributionDate.IsZero() {
		return nil, models.NewValidationError("distribution_date is required")
	}

	// Pre-count rows per office so created distributions are sized to the
	// batch they serve.
	rowsPerOffice := make(map[int]int)
	officeIDs := make([]int, 0, len(rowsData))
	for i := range rowsData {
		officeID, err := s.resolveOffice(ic, rowsData[i].OfficeID)
		if err != nil {
			officeID = -1 // row will fail below with the same error
		}
		officeIDs = append(officeIDs, officeID)
		if officeID > 0 {
			rowsPerOffice[officeID]++
		}
	}

	result := &models.ImportResult{
		TotalProcessed: len(rowsData),
		FailedRecords:  []models.FailedRecord{},
		Offices:        make([]int, 0, len(rowsPerOffice)),
	}
	for officeID := range rowsPerOffice {
		result.Offices = append(result.Offices, officeID)
	}
	sort.Ints(result.Offices)
	distCache := make(map[int]*models.Distribution) // officeID -> distribution

	for i, row := range rowsData {
		rowNum := i + 1

		err := s.processRow(ctx, ic, row, officeIDs[i], rowsPerOffice, distCache)
		if err != nil {
			result.FailedCount++
			result.FailedRecords = append(result.FailedRecords, models.FailedRecord{
				Row:   rowNum,
				Data:  row,
				Error: err.Error(),
			})
			metrics.BulkImportRowsTotal.WithLabelValues("failed").Inc()
			continue
		}

		result.SuccessCount++
		metrics.BulkImportRowsTotal.WithLabelValues("success").Inc()
	}

	log.Printf("[BulkImport] Processed %d rows for %q on %s: %d ok, %d failed",
		result.TotalProcessed, ic.GoodiesType, ic.DistributionDate.Format("2006-01-02"),
		result.SuccessCount, result.FailedCount)
	return result, nil
}

func (s *BulkImportService) processRow(ctx context.Context, ic *ImportContext, row models.ImportRow, officeID int, rowsPerOffice map[int]int, distCache map[int]*models.Distribution) error {
	if officeID <= 0 {
		_, err := s.resolveOffice(ic, row.OfficeID)
		return err
	}

	employeeID, err := strconv.Atoi(row.EmployeeID)
	if err != nil || employeeID <= 0 {
		return errors.New("invalid employee id")
	}

	dist, ok := distCache[officeID]
	if !ok {
		dist, err = s.findOrCreateDistribution(ctx, ic, officeID, rowsPerOffice[officeID])
		if err != nil {
			return err
		}
		distCache[officeID] = dist
	}

	markedBy := ic.ActorID
	_, err = s.claims.Claim(ctx, dist.ID, employeeID, models.ViaBulkImport, &markedBy)
	return err
}

func (s *BulkImportService) resolveOffice(ic *ImportContext, rawOfficeID string) (int, error) {
	if rawOfficeID == "" || !ic.CrossOffice {
		return ic.ActorOfficeID, nil
	}
	officeID, err := strconv.Atoi(rawOfficeID)
	if err != nil || officeID <= 0 {
		return 0, errors.New("invalid office id")
	}
	return officeID, nil
}

// findOrCreateDistribution locates the distribution identified by the
// batch's (goodies type, date, office) triple. An existing distribution is
// reused exactly as it stands; its quantity is never grown, so a second
// batch against the same triple competes for whatever stock the first left
// behind and excess rows fail with out-of-stock. When none exists a new
// open distribution is created, sized to the batch's row count for that
// office.
func (s *BulkImportService) findOrCreateDistribution(ctx context.Context, ic *ImportContext, officeID, batchSize int) (*models.Distribution, error) {
	dist, err := s.distributions.FindByTypeDateOffice(ctx, ic.GoodiesType, ic.DistributionDate, officeID)
	if err != nil {
		return nil, err
	}
	if dist != nil {
		return dist, nil
	}

	exists, err := s.offices.Exists(ctx, officeID)
	if err != nil {
		return nil, fmt.Errorf("failed to validate office: %w", err)
	}
	if !exists {
		return nil, errors.New("office not found")
	}

	dist = &models.Distribution{
		GoodiesType:       ic.GoodiesType,
		OfficeID:          officeID,
		DistributionDate:  ic.DistributionDate,
		TotalQuantity:     batchSize,
		IsForAllEmployees: true,
		DistributedBy:     ic.ActorID,
	}
	if err := s.distributions.Create(ctx, dist); err != nil {
		return nil, err
	}

	log.Printf("[BulkImport] Created distribution %d for %q at office %d (qty %d)",
		dist.ID, ic.GoodiesType, officeID, batchSize)
	return dist, nil
}
