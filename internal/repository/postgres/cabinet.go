package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Kerhoff/AptekaBot/internal/models"
	"github.com/Kerhoff/AptekaBot/internal/repository"
)

type cabinetRepository struct {
	db repository.DBTX
}

// NewCabinetRepository creates a new cabinet repository
func NewCabinetRepository(db repository.DBTX) repository.CabinetRepository {
	return &cabinetRepository{db: db}
}

func (r *cabinetRepository) Create(ctx context.Context, cabinet *models.Cabinet) (*models.Cabinet, error) {
	query := `
		INSERT INTO cabinets (user_id, name, is_default)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		cabinet.OwnerID,
		cabinet.Name,
		cabinet.IsDefault,
	).Scan(&cabinet.ID, &cabinet.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create cabinet: %w", err)
	}

	return cabinet, nil
}

func (r *cabinetRepository) GetByID(ctx context.Context, id int64) (*models.Cabinet, error) {
	query := `
		SELECT id, user_id, name, is_default, created_at
		FROM cabinets
		WHERE id = $1`

	cabinet := &models.Cabinet{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&cabinet.ID,
		&cabinet.OwnerID,
		&cabinet.Name,
		&cabinet.IsDefault,
		&cabinet.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cabinet: %w", err)
	}

	return cabinet, nil
}

func (r *cabinetRepository) GetByOwner(ctx context.Context, ownerID int64) ([]*models.Cabinet, error) {
	query := `
		SELECT id, user_id, name, is_default, created_at
		FROM cabinets
		WHERE user_id = $1
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cabinets: %w", err)
	}
	defer rows.Close()

	var cabinets []*models.Cabinet
	for rows.Next() {
		cabinet := &models.Cabinet{}
		if err := rows.Scan(
			&cabinet.ID,
			&cabinet.OwnerID,
			&cabinet.Name,
			&cabinet.IsDefault,
			&cabinet.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan cabinet: %w", err)
		}
		cabinets = append(cabinets, cabinet)
	}

	return cabinets, rows.Err()
}

func (r *cabinetRepository) FindByName(ctx context.Context, ownerID int64, name string) (*models.Cabinet, error) {
	query := `
		SELECT id, user_id, name, is_default, created_at
		FROM cabinets
		WHERE user_id = $1 AND LOWER(name) LIKE LOWER($2)
		ORDER BY id
		LIMIT 1`

	cabinet := &models.Cabinet{}
	err := r.db.QueryRowContext(ctx, query, ownerID, "%"+name+"%").Scan(
		&cabinet.ID,
		&cabinet.OwnerID,
		&cabinet.Name,
		&cabinet.IsDefault,
		&cabinet.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find cabinet by name: %w", err)
	}

	return cabinet, nil
}

func (r *cabinetRepository) GetActiveID(ctx context.Context, ownerID int64) (int64, error) {
	query := `SELECT active_cabinet_id FROM user_state WHERE user_id = $1`

	var id int64
	err := r.db.QueryRowContext(ctx, query, ownerID).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.DefaultCabinetID, nil
		}
		return models.DefaultCabinetID, fmt.Errorf("failed to get active cabinet: %w", err)
	}

	return id, nil
}

func (r *cabinetRepository) SetActiveID(ctx context.Context, ownerID, cabinetID int64) error {
	query := `
		INSERT INTO user_state (user_id, active_cabinet_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET active_cabinet_id = EXCLUDED.active_cabinet_id`

	if _, err := r.db.ExecContext(ctx, query, ownerID, cabinetID); err != nil {
		return fmt.Errorf("failed to set active cabinet: %w", err)
	}

	return nil
}
