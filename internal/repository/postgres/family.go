package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/Kerhoff/AptekaBot/internal/models"
	"github.com/Kerhoff/AptekaBot/internal/repository"
)

type familyRepository struct {
	db repository.DBTX
}

// NewFamilyRepository creates a new family repository
func NewFamilyRepository(db repository.DBTX) repository.FamilyRepository {
	return &familyRepository{db: db}
}

func (r *familyRepository) Create(ctx context.Context, member *models.FamilyMember) (*models.FamilyMember, error) {
	query := `
		INSERT INTO family (user_id, name, age, gender, relation)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		member.OwnerID,
		member.Name,
		member.Age,
		nullString(member.Gender),
		nullString(member.Relation),
	).Scan(&member.ID, &member.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create family member: %w", err)
	}

	return member, nil
}

func (r *familyRepository) GetByOwner(ctx context.Context, ownerID int64) ([]*models.FamilyMember, error) {
	query := `
		SELECT id, user_id, name, age, gender, relation, created_at
		FROM family
		WHERE user_id = $1
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query family: %w", err)
	}
	defer rows.Close()

	var members []*models.FamilyMember
	for rows.Next() {
		member := &models.FamilyMember{}
		var gender, relation sql.NullString
		if err := rows.Scan(
			&member.ID,
			&member.OwnerID,
			&member.Name,
			&member.Age,
			&gender,
			&relation,
			&member.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan family member: %w", err)
		}
		member.Gender = gender.String
		member.Relation = relation.String
		members = append(members, member)
	}

	return members, rows.Err()
}

func (r *familyRepository) PurgePlaceholders(ctx context.Context) (int64, error) {
	query := `
		DELETE FROM family
		WHERE LOWER(name) = ANY($1)
		   OR LOWER(gender) IN ('пол', 'gender')
		   OR LOWER(relation) IN ('отношение', 'relation')`

	result, err := r.db.ExecContext(ctx, query, pq.Array(models.PlaceholderNames()))
	if err != nil {
		return 0, fmt.Errorf("failed to purge family placeholders: %w", err)
	}

	return result.RowsAffected()
}
