package models

import "time"

// Distribution is a finite batch of one goodies type offered to an office's
// employees on a given date. Count fields are the only mutable state after
// creation: claimed_count and remaining_count always move together inside a
// claim or unclaim transaction, so remaining_count = total_quantity -
// claimed_count holds at every observable instant.
type Distribution struct {
	ID                int       `json:"id"`
	GoodiesType       string    `json:"goodies_type"`
	OfficeID          int       `json:"office_id"`
	Office            *Office   `json:"office,omitempty"` // Denormalized view, fetched separately
	DistributionDate  time.Time `json:"distribution_date"`
	TotalQuantity     int       `json:"total_quantity"`
	ClaimedCount      int       `json:"claimed_count"`
	RemainingCount    int       `json:"remaining_count"`
	IsForAllEmployees bool      `json:"is_for_all_employees"`
	TargetEmployees   []int     `json:"target_employees,omitempty"` // Meaningful only when IsForAllEmployees is false
	DistributedBy     int       `json:"distributed_by"`
	CreatedAt         time.Time `json:"created_at"`
}

// CreateDistributionRequest represents the request body for creating a distribution
type CreateDistributionRequest struct {
	GoodiesType       string `json:"goodies_type"`
	TotalQuantity     int    `json:"total_quantity"`
	OfficeID          int    `json:"office_id"`
	DistributionDate  string `json:"distribution_date"` // YYYY-MM-DD
	IsForAllEmployees bool   `json:"is_for_all_employees"`
	TargetEmployees   []int  `json:"target_employees,omitempty"`
}
