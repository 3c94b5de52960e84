package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"office-backend/internal/models"
)

const uniqueViolation = "23505"

type ClaimRepository struct {
	db *pgxpool.Pool
}

func NewClaimRepository(db *pgxpool.Pool) *ClaimRepository {
	return &ClaimRepository{db: db}
}

// Create reserves one unit of stock and inserts the claim record in a single
// transaction. The reservation is a conditional decrement: with zero rows
// updated there was no stock (or no distribution), and nothing is written.
// Duplicate claims are stopped by the unique index on (distribution_id,
// employee_id); Postgres reports 23505 and the transaction rolls back with
// the stock untouched. Under concurrency this is what keeps claimed_count
// from ever exceeding total_quantity: two racing claims for the last unit
// serialize on the distribution row and the loser sees zero rows updated.
func (r *ClaimRepository) Create(ctx context.Context, claim *models.ClaimRecord) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE distributions
		SET claimed_count = claimed_count + 1, remaining_count = remaining_count - 1
		WHERE id = $1 AND remaining_count > 0`,
		claim.DistributionID)
	if err != nil {
		return fmt.Errorf("failed to reserve stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a missing distribution from an exhausted one
		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM distributions WHERE id = $1)`,
			claim.DistributionID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check distribution: %w", err)
		}
		if !exists {
			return models.ErrNotFound
		}
		return models.ErrOutOfStock
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO goodies_claims (distribution_id, employee_id, via, marked_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, received_at`,
		claim.DistributionID, claim.EmployeeID, claim.Via, claim.MarkedBy,
	).Scan(&claim.ID, &claim.ReceivedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return models.ErrAlreadyClaimed
		}
		return fmt.Errorf("failed to insert claim: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Delete reverses a claim: the record is removed and its unit returned to
// stock in one transaction. The increment is guarded so a release can never
// push remaining_count past total_quantity; hitting that guard means a
// release without a matching reserve, which is a bug, not a user error.
func (r *ClaimRepository) Delete(ctx context.Context, claimID int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var distributionID int
	err = tx.QueryRow(ctx,
		`DELETE FROM goodies_claims WHERE id = $1 RETURNING distribution_id`, claimID).
		Scan(&distributionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrNotFound
		}
		return fmt.Errorf("failed to delete claim: %w", err)
	}

	tag, err := tx.Exec(ctx, `
		UPDATE distributions
		SET claimed_count = claimed_count - 1, remaining_count = remaining_count + 1
		WHERE id = $1 AND remaining_count < total_quantity`,
		distributionID)
	if err != nil {
		return fmt.Errorf("failed to release stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: release for distribution %d with full stock", models.ErrInvariant, distributionID)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *ClaimRepository) Get(ctx context.Context, id int) (*models.ClaimRecord, error) {
	query := `
		SELECT c.id, c.distribution_id, c.employee_id, e.name, c.via, c.marked_by, c.received_at
		FROM goodies_claims c
		JOIN employees e ON e.id = c.employee_id
		WHERE c.id = $1`

	claim := &models.ClaimRecord{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&claim.ID, &claim.DistributionID, &claim.EmployeeID, &claim.EmployeeName,
		&claim.Via, &claim.MarkedBy, &claim.ReceivedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get claim: %w", err)
	}
	return claim, nil
}

func (r *ClaimRepository) ListByDistribution(ctx context.Context, distributionID int) ([]*models.ClaimRecord, error) {
	query := `
		SELECT c.id, c.distribution_id, c.employee_id, e.name, c.via, c.marked_by, c.received_at
		FROM goodies_claims c
		JOIN employees e ON e.id = c.employee_id
		WHERE c.distribution_id = $1
		ORDER BY c.received_at, c.id`

	rows, err := r.db.Query(ctx, query, distributionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list claims: %w", err)
	}
	defer rows.Close()

	var claims []*models.ClaimRecord
	for rows.Next() {
		claim := &models.ClaimRecord{}
		err := rows.Scan(
			&claim.ID, &claim.DistributionID, &claim.EmployeeID, &claim.EmployeeName,
			&claim.Via, &claim.MarkedBy, &claim.ReceivedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan claim: %w", err)
		}
		claims = append(claims, claim)
	}
	return claims, rows.Err()
}

// Exists reports whether an employee already holds a claim on a distribution
func (r *ClaimRepository) Exists(ctx context.Context, distributionID, employeeID int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM goodies_claims WHERE distribution_id = $1 AND employee_id = $2)`,
		distributionID, employeeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check claim: %w", err)
	}
	return exists, nil
}

func (r *ClaimRepository) CountByDistribution(ctx context.Context, distributionID int) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM goodies_claims WHERE distribution_id = $1`,
		distributionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count claims: %w", err)
	}
	return count, nil
}
