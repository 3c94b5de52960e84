package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf/v2"

	"office-backend/internal/models"
	"office-backend/internal/timeutil"
)

// ClaimSheetData is everything a claim sheet needs, preloaded
type ClaimSheetData struct {
	Distribution *models.Distribution
	Office       *models.Office
	Claims       []*models.ClaimRecord
}

// ReportService renders claim sheets for a distribution
type ReportService struct {
	distributions DistributionStore
	claims        ClaimStore
	offices       OfficeRegistry
}

func NewReportService(distributions DistributionStore, claims ClaimStore, offices OfficeRegistry) *ReportService {
	return &ReportService{
		distributions: distributions,
		claims:        claims,
		offices:       offices,
	}
}

func (s *ReportService) loadClaimSheet(ctx context.Context, distributionID int) (*ClaimSheetData, error) {
	dist, err := s.distributions.Get(ctx, distributionID)
	if err != nil {
		return nil, err
	}
	office, err := s.offices.Get(ctx, dist.OfficeID)
	if err != nil {
		return nil, err
	}
	claims, err := s.claims.ListByDistribution(ctx, distributionID)
	if err != nil {
		return nil, err
	}
	return &ClaimSheetData{Distribution: dist, Office: office, Claims: claims}, nil
}

// ClaimSheetCSV renders the claims of a distribution as CSV
func (s *ReportService) ClaimSheetCSV(ctx context.Context, distributionID int) ([]byte, error) {
	data, err := s.loadClaimSheet(ctx, distributionID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write([]string{"employee_id", "employee_name", "via", "received_at"})
	for _, c := range data.Claims {
		w.Write([]string{
			strconv.Itoa(c.EmployeeID),
			c.EmployeeName,
			c.Via,
			timeutil.FormatIST(c.ReceivedAt, timeutil.DateTimeLayout),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}
	return buf.Bytes(), nil
}

// ClaimSheetPDF renders the claims of a distribution as a printable sheet
func (s *ReportService) ClaimSheetPDF(ctx context.Context, distributionID int) ([]byte, error) {
	data, err := s.loadClaimSheet(ctx, distributionID)
	if err != nil {
		return nil, err
	}

	dist := data.Distribution

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Goodies Distribution - Claim Sheet", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", timeutil.Now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Distribution Info Box
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Distribution Information", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Goodies: %s", dist.GoodiesType), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Office: %s", data.Office.Name), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Date: %s", timeutil.FormatIST(dist.DistributionDate, timeutil.DateLayout)), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Claimed: %d / %d", dist.ClaimedCount, dist.TotalQuantity), "RB", 1, "L", false, 0, "")
	pdf.Ln(5)

	// Table header
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(25, 7, "Emp ID", "1", 0, "C", true, 0, "")
	pdf.CellFormat(75, 7, "Name", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "Via", "1", 0, "C", true, 0, "")
	pdf.CellFormat(55, 7, "Received At", "1", 1, "C", true, 0, "")

	// Table rows
	pdf.SetFont("Arial", "", 10)
	for _, c := range data.Claims {
		name := c.EmployeeName
		if len(name) > 35 {
			name = name[:32] + "..."
		}
		pdf.CellFormat(25, 6, strconv.Itoa(c.EmployeeID), "1", 0, "C", false, 0, "")
		pdf.CellFormat(75, 6, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, c.Via, "1", 0, "C", false, 0, "")
		pdf.CellFormat(55, 6, timeutil.FormatIST(c.ReceivedAt, timeutil.DateTimeLayout), "1", 1, "C", false, 0, "")
	}
	pdf.Ln(5)

	// Summary
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(190, 8, fmt.Sprintf("Total claims: %d    Remaining stock: %d", len(data.Claims), dist.RemainingCount), "1", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
