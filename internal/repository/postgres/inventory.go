package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/Kerhoff/AptekaBot/internal/models"
	"github.com/Kerhoff/AptekaBot/internal/repository"
)

type inventoryRepository struct {
	db repository.DBTX
}

// NewInventoryRepository creates a new inventory repository
func NewInventoryRepository(db repository.DBTX) repository.InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) Create(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	query := `
		INSERT INTO inventory (user_id, cabinet_id, medicine_name, quantity, dosage, expiry_date, category)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		item.OwnerID,
		item.CabinetID,
		item.Name,
		item.Quantity,
		nullString(item.Dosage),
		item.ExpiryDate,
		nullString(item.Category),
	).Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create inventory item: %w", err)
	}

	return item, nil
}

func (r *inventoryRepository) DeleteByName(ctx context.Context, ownerID int64, name string) (int64, error) {
	query := `
		DELETE FROM inventory
		WHERE user_id = $1 AND LOWER(medicine_name) = LOWER($2)`

	result, err := r.db.ExecContext(ctx, query, ownerID, name)
	if err != nil {
		return 0, fmt.Errorf("failed to delete inventory items: %w", err)
	}

	return result.RowsAffected()
}

func (r *inventoryRepository) GetDistinct(ctx context.Context, ownerIDs []int64, cabinetID int64) ([]*models.InventoryItem, error) {
	query := `
		SELECT DISTINCT ON (LOWER(medicine_name))
			id, user_id, cabinet_id, medicine_name, quantity, dosage, expiry_date, category, created_at
		FROM inventory
		WHERE user_id = ANY($1) AND cabinet_id = $2
		ORDER BY LOWER(medicine_name), id`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ownerIDs), cabinetID)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory: %w", err)
	}
	defer rows.Close()

	var items []*models.InventoryItem
	for rows.Next() {
		item, err := scanInventoryItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *inventoryRepository) QuantityByName(ctx context.Context, ownerIDs []int64, name string) (int, bool, error) {
	query := `
		SELECT quantity
		FROM inventory
		WHERE user_id = ANY($1) AND LOWER(medicine_name) = LOWER($2)
		ORDER BY id
		LIMIT 1`

	var quantity int
	err := r.db.QueryRowContext(ctx, query, pq.Array(ownerIDs), name).Scan(&quantity)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to look up stock: %w", err)
	}

	return quantity, true, nil
}

func scanInventoryItem(rows *sql.Rows) (*models.InventoryItem, error) {
	item := &models.InventoryItem{}
	var dosage, category sql.NullString
	if err := rows.Scan(
		&item.ID,
		&item.OwnerID,
		&item.CabinetID,
		&item.Name,
		&item.Quantity,
		&dosage,
		&item.ExpiryDate,
		&category,
		&item.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to scan inventory item: %w", err)
	}
	item.Dosage = dosage.String
	item.Category = category.String
	return item, nil
}

// nullString maps "" to SQL NULL so optional text columns stay NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
