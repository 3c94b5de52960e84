package health

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type HealthChecker struct {
	db *pgxpool.Pool
}

type HealthStatus struct {
	Status   string         `json:"status"`
	Database DatabaseHealth `json:"database"`
}

type DatabaseHealth struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
}

// DetailedStatus adds live stock figures for the monitoring dashboard.
type DetailedStatus struct {
	HealthStatus
	OpenDistributions int `json:"open_distributions"`
	RemainingStock    int `json:"remaining_stock"`
}

func NewHealthChecker(db *pgxpool.Pool) *HealthChecker {
	return &HealthChecker{db: db}
}

func (h *HealthChecker) CheckBasic() HealthStatus {
	dbHealth := h.checkDatabase()

	status := "healthy"
	if dbHealth.Status != "healthy" {
		status = "unhealthy"
	}

	return HealthStatus{
		Status:   status,
		Database: dbHealth,
	}
}

// CheckDetailed extends the basic check with how many distributions still
// have stock and how many units are left across them. The figures are best
// effort; a query failure leaves them at zero without failing the check.
func (h *HealthChecker) CheckDetailed() DetailedStatus {
	out := DetailedStatus{HealthStatus: h.CheckBasic()}
	if out.Database.Status != "healthy" {
		return out
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	h.db.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(remaining_count), 0) FROM distributions WHERE remaining_count > 0`,
	).Scan(&out.OpenDistributions, &out.RemainingStock)
	return out
}

func (h *HealthChecker) checkDatabase() DatabaseHealth {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	start := time.Now()
	err := h.db.Ping(ctx)
	responseTime := time.Since(start).Milliseconds()

	if err != nil {
		return DatabaseHealth{
			Status:       "unhealthy",
			ResponseTime: responseTime,
		}
	}

	return DatabaseHealth{
		Status:       "healthy",
		ResponseTime: responseTime,
	}
}
