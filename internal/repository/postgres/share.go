package postgres

import (
	"context"
	"fmt"

	"github.com/Kerhoff/AptekaBot/internal/models"
	"github.com/Kerhoff/AptekaBot/internal/repository"
)

type shareRepository struct {
	db repository.DBTX
}

// NewShareRepository creates a new shared-access repository
func NewShareRepository(db repository.DBTX) repository.ShareRepository {
	return &shareRepository{db: db}
}

func (r *shareRepository) Create(ctx context.Context, grant *models.SharedAccess) error {
	query := `
		INSERT INTO shared_access (owner_id, shared_with_id, shared_with_username, relation)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (owner_id, LOWER(shared_with_username)) DO NOTHING`

	_, err := r.db.ExecContext(ctx, query,
		grant.OwnerID,
		grant.GranteeID,
		grant.GranteeUsername,
		nullString(grant.Relation),
	)
	if err != nil {
		return fmt.Errorf("failed to create share grant: %w", err)
	}

	return nil
}

func (r *shareRepository) OwnerIDsForGrantee(ctx context.Context, granteeID int64) ([]int64, error) {
	query := `SELECT owner_id FROM shared_access WHERE shared_with_id = $1`

	rows, err := r.db.QueryContext(ctx, query, granteeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query share grants: %w", err)
	}
	defer rows.Close()

	var owners []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan share grant: %w", err)
		}
		owners = append(owners, id)
	}

	return owners, rows.Err()
}

// LinkPending attaches grants that were created by username before the
// grantee first contacted the bot.
func (r *shareRepository) LinkPending(ctx context.Context, username string, granteeID int64) (int64, error) {
	if username == "" {
		return 0, nil
	}

	// A grant that was meanwhile created directly for the same pair wins;
	// linking skips it to keep the pair unique.
	query := `
		UPDATE shared_access s
		SET shared_with_id = $2
		WHERE s.shared_with_id = 0 AND LOWER(s.shared_with_username) = LOWER($1)
		  AND NOT EXISTS (
			SELECT 1 FROM shared_access t
			WHERE t.owner_id = s.owner_id AND t.shared_with_id = $2
		  )`

	result, err := r.db.ExecContext(ctx, query, username, granteeID)
	if err != nil {
		return 0, fmt.Errorf("failed to link pending grants: %w", err)
	}

	return result.RowsAffected()
}
