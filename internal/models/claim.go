package models

import "time"

// Claim paths. Behavior is identical for all three; the tag exists for audit.
const (
	ViaSelf       = "self"
	ViaAdmin      = "admin"
	ViaBulkImport = "bulk_import"
)

// ClaimRecord is the system of record for one employee taking one unit from
// a distribution. At most one record exists per (distribution, employee)
// pair, enforced by a unique index.
type ClaimRecord struct {
	ID             int       `json:"id"`
	DistributionID int       `json:"distribution_id"`
	EmployeeID     int       `json:"employee_id"`
	EmployeeName   string    `json:"employee_name,omitempty"` // Joined for listings
	Via            string    `json:"via"`
	MarkedBy       *int      `json:"marked_by,omitempty"` // Admin who marked on the employee's behalf
	ReceivedAt     time.Time `json:"received_at"`
}

// MarkClaimRequest represents the request body for an admin-marked claim
type MarkClaimRequest struct {
	EmployeeID int `json:"employee_id"`
}
