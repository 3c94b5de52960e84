package models

// ImportRow is one parsed line of a bulk upload. Values stay raw strings so
// that a malformed cell fails its own row instead of the whole batch.
type ImportRow struct {
	EmployeeID string `json:"employee_id"`
	OfficeID   string `json:"office_id,omitempty"` // Honored only for cross-office actors
}

// FailedRecord captures a single row that could not be processed.
type FailedRecord struct {
	Row   int       `json:"row"` // 1-based position in the uploaded file, header excluded
	Data  ImportRow `json:"data"`
	Error string    `json:"error"`
}

// ImportResult summarizes a bulk import run. SuccessCount + FailedCount ==
// TotalProcessed on every run, and FailedRecords preserves input order.
type ImportResult struct {
	TotalProcessed int            `json:"totalProcessed"`
	SuccessCount   int            `json:"successCount"`
	FailedCount    int            `json:"failedCount"`
	FailedRecords  []FailedRecord `json:"failedRecords"`

	// Offices the batch routed rows to, for cache invalidation. Not part
	// of the response body.
	Offices []int `json:"-"`
}
