package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"office-backend/internal/models"
)

type DistributionRepository struct {
	db *pgxpool.Pool
}

func NewDistributionRepository(db *pgxpool.Pool) *DistributionRepository {
	return &DistributionRepository{db: db}
}

const distributionColumns = `id, goodies_type, office_id, distribution_date, total_quantity,
	claimed_count, remaining_count, is_for_all_employees, distributed_by, created_at`

func scanDistribution(row pgx.Row) (*models.Distribution, error) {
	d := &models.Distribution{}
	err := row.Scan(
		&d.ID, &d.GoodiesType, &d.OfficeID, &d.DistributionDate, &d.TotalQuantity,
		&d.ClaimedCount, &d.RemainingCount, &d.IsForAllEmployees, &d.DistributedBy, &d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Create inserts a distribution and its target rows in one transaction
func (r *DistributionRepository) Create(ctx context.Context, dist *models.Distribution) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO distributions (goodies_type, office_id, distribution_date, total_quantity,
			claimed_count, remaining_count, is_for_all_employees, distributed_by)
		VALUES ($1, $2, $3, $4, 0, $4, $5, $6)
		RETURNING id, claimed_count, remaining_count, created_at`

	err = tx.QueryRow(ctx, query,
		dist.GoodiesType, dist.OfficeID, dist.DistributionDate, dist.TotalQuantity,
		dist.IsForAllEmployees, dist.DistributedBy,
	).Scan(&dist.ID, &dist.ClaimedCount, &dist.RemainingCount, &dist.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create distribution: %w", err)
	}

	if !dist.IsForAllEmployees {
		for _, empID := range dist.TargetEmployees {
			_, err := tx.Exec(ctx,
				`INSERT INTO distribution_targets (distribution_id, employee_id) VALUES ($1, $2)
				 ON CONFLICT DO NOTHING`,
				dist.ID, empID)
			if err != nil {
				return fmt.Errorf("failed to insert distribution target: %w", err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *DistributionRepository) Get(ctx context.Context, id int) (*models.Distribution, error) {
	query := `SELECT ` + distributionColumns + ` FROM distributions WHERE id = $1`

	dist, err := scanDistribution(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get distribution: %w", err)
	}

	if err := r.loadTargets(ctx, dist); err != nil {
		return nil, err
	}
	return dist, nil
}

// List returns distributions newest first. officeID 0 means all offices.
func (r *DistributionRepository) List(ctx context.Context, officeID int) ([]*models.Distribution, error) {
	query := `SELECT ` + distributionColumns + ` FROM distributions`
	args := []interface{}{}
	if officeID != 0 {
		query += ` WHERE office_id = $1`
		args = append(args, officeID)
	}
	query += ` ORDER BY distribution_date DESC, id DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list distributions: %w", err)
	}
	defer rows.Close()

	var distributions []*models.Distribution
	for rows.Next() {
		dist, err := scanDistribution(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan distribution: %w", err)
		}
		distributions = append(distributions, dist)
	}
	return distributions, rows.Err()
}

// FindByTypeDateOffice locates a distribution by its identifying triple.
// Returns (nil, nil) when none exists so bulk import can decide to create one.
func (r *DistributionRepository) FindByTypeDateOffice(ctx context.Context, goodiesType string, date time.Time, officeID int) (*models.Distribution, error) {
	query := `SELECT ` + distributionColumns + ` FROM distributions
		WHERE goodies_type = $1 AND distribution_date = $2 AND office_id = $3`

	dist, err := scanDistribution(r.db.QueryRow(ctx, query, goodiesType, date, officeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find distribution: %w", err)
	}

	if err := r.loadTargets(ctx, dist); err != nil {
		return nil, err
	}
	return dist, nil
}

// Delete removes a distribution. Claims and target rows go with it via
// ON DELETE CASCADE, so a partially deleted distribution is impossible.
func (r *DistributionRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM distributions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete distribution: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *DistributionRepository) loadTargets(ctx context.Context, dist *models.Distribution) error {
	if dist.IsForAllEmployees {
		return nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT employee_id FROM distribution_targets WHERE distribution_id = $1 ORDER BY employee_id`,
		dist.ID)
	if err != nil {
		return fmt.Errorf("failed to load distribution targets: %w", err)
	}
	defer rows.Close()

	dist.TargetEmployees = []int{}
	for rows.Next() {
		var empID int
		if err := rows.Scan(&empID); err != nil {
			return fmt.Errorf("failed to scan distribution target: %w", err)
		}
		dist.TargetEmployees = append(dist.TargetEmployees, empID)
	}
	return rows.Err()
}
