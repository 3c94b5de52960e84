package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"office-backend/internal/models"
)

type OfficeRepository struct {
	db *pgxpool.Pool
}

func NewOfficeRepository(db *pgxpool.Pool) *OfficeRepository {
	return &OfficeRepository{db: db}
}

func (r *OfficeRepository) Create(ctx context.Context, office *models.Office) error {
	query := `
		INSERT INTO offices (name, city)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query, office.Name, office.City).
		Scan(&office.ID, &office.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create office: %w", err)
	}
	return nil
}

func (r *OfficeRepository) Get(ctx context.Context, id int) (*models.Office, error) {
	query := `SELECT id, name, city, created_at FROM offices WHERE id = $1`

	office := &models.Office{}
	err := r.db.QueryRow(ctx, query, id).
		Scan(&office.ID, &office.Name, &office.City, &office.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get office: %w", err)
	}
	return office, nil
}

func (r *OfficeRepository) List(ctx context.Context) ([]*models.Office, error) {
	query := `SELECT id, name, city, created_at FROM offices ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list offices: %w", err)
	}
	defer rows.Close()

	var offices []*models.Office
	for rows.Next() {
		office := &models.Office{}
		if err := rows.Scan(&office.ID, &office.Name, &office.City, &office.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan office: %w", err)
		}
		offices = append(offices, office)
	}
	return offices, rows.Err()
}

// Exists reports whether an office with the given id exists
func (r *OfficeRepository) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM offices WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check office: %w", err)
	}
	return exists, nil
}
