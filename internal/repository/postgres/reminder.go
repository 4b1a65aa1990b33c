package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/Kerhoff/AptekaBot/internal/models"
	"github.com/Kerhoff/AptekaBot/internal/repository"
)

type reminderRepository struct {
	db repository.DBTX
}

// NewReminderRepository creates a new reminder repository
func NewReminderRepository(db repository.DBTX) repository.ReminderRepository {
	return &reminderRepository{db: db}
}

func (r *reminderRepository) Create(ctx context.Context, reminder *models.Reminder) (*models.Reminder, error) {
	query := `
		INSERT INTO reminders (user_id, family_member, medicine_name, dosage, schedule_time,
			meal_relation, course_days, pills_per_dose, pills_in_pack, pills_remaining,
			start_date, end_date, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at`

	reminder.Active = true

	err := r.db.QueryRowContext(ctx, query,
		reminder.OwnerID,
		nullString(reminder.FamilyMember),
		reminder.MedicineName,
		nullString(reminder.Dosage),
		reminder.Schedule,
		reminder.MealRelation,
		reminder.CourseDays,
		reminder.PillsPerDose,
		reminder.PillsInPack,
		reminder.PillsRemaining,
		reminder.StartDate,
		reminder.EndDate,
		reminder.Active,
	).Scan(&reminder.ID, &reminder.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create reminder: %w", err)
	}

	return reminder, nil
}

const reminderColumns = `id, user_id, family_member, medicine_name, dosage, schedule_time,
	meal_relation, course_days, pills_per_dose, pills_in_pack, pills_remaining,
	start_date, end_date, active, last_reminded, created_at`

func (r *reminderRepository) GetActiveByOwner(ctx context.Context, ownerID int64) ([]*models.Reminder, error) {
	query := `
		SELECT ` + reminderColumns + `
		FROM reminders
		WHERE user_id = $1 AND active = TRUE
		ORDER BY schedule_time, id`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminders: %w", err)
	}
	defer rows.Close()

	return scanReminders(rows)
}

func (r *reminderRepository) GetAllActive(ctx context.Context) ([]*models.Reminder, error) {
	query := `
		SELECT ` + reminderColumns + `
		FROM reminders
		WHERE active = TRUE
		ORDER BY user_id, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query active reminders: %w", err)
	}
	defer rows.Close()

	return scanReminders(rows)
}

func (r *reminderRepository) MarkReminded(ctx context.Context, id int64, remaining float64, at time.Time) error {
	query := `
		UPDATE reminders
		SET pills_remaining = $2, last_reminded = $3
		WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id, remaining, at); err != nil {
		return fmt.Errorf("failed to mark reminder %d: %w", id, err)
	}

	return nil
}

func (r *reminderRepository) Deactivate(ctx context.Context, id int64) error {
	query := `UPDATE reminders SET active = FALSE WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate reminder: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("reminder with ID %d not found", id)
	}

	return nil
}

func (r *reminderRepository) LogDelivery(ctx context.Context, reminderID int64, status models.ReminderLogStatus) error {
	query := `INSERT INTO reminder_log (reminder_id, status) VALUES ($1, $2)`

	if _, err := r.db.ExecContext(ctx, query, reminderID, status); err != nil {
		return fmt.Errorf("failed to log reminder delivery: %w", err)
	}

	return nil
}

func (r *reminderRepository) PurgePlaceholders(ctx context.Context) (int64, error) {
	query := `
		DELETE FROM reminders
		WHERE LOWER(medicine_name) = ANY($1)
		   OR LOWER(family_member) = ANY($2)`

	result, err := r.db.ExecContext(ctx, query,
		pq.Array(models.PlaceholderMedicines()),
		pq.Array(models.PlaceholderNames()),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to purge reminder placeholders: %w", err)
	}

	return result.RowsAffected()
}

func scanReminders(rows *sql.Rows) ([]*models.Reminder, error) {
	var reminders []*models.Reminder
	for rows.Next() {
		reminder := &models.Reminder{}
		var familyMember, dosage sql.NullString
		if err := rows.Scan(
			&reminder.ID,
			&reminder.OwnerID,
			&familyMember,
			&reminder.MedicineName,
			&dosage,
			&reminder.Schedule,
			&reminder.MealRelation,
			&reminder.CourseDays,
			&reminder.PillsPerDose,
			&reminder.PillsInPack,
			&reminder.PillsRemaining,
			&reminder.StartDate,
			&reminder.EndDate,
			&reminder.Active,
			&reminder.LastReminded,
			&reminder.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminder.FamilyMember = familyMember.String
		reminder.Dosage = dosage.String
		reminders = append(reminders, reminder)
	}

	return reminders, rows.Err()
}
