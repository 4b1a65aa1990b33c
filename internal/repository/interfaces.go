package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/Kerhoff/AptekaBot/internal/models"
)

// DBTX is the subset of database/sql shared by *sql.DB and *sql.Tx.
// Repositories are built over it so the reconciler can bind a whole
// repository set to one transaction for a user turn.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Upsert(ctx context.Context, id int64, username string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// MessageRepository defines the interface for the conversation log
type MessageRepository interface {
	Create(ctx context.Context, msg *models.Message) (*models.Message, error)
	GetRecent(ctx context.Context, ownerID int64, limit int) ([]*models.Message, error)
}

// CabinetRepository defines the interface for cabinet operations and the
// per-user active cabinet pointer
type CabinetRepository interface {
	Create(ctx context.Context, cabinet *models.Cabinet) (*models.Cabinet, error)
	GetByID(ctx context.Context, id int64) (*models.Cabinet, error)
	GetByOwner(ctx context.Context, ownerID int64) ([]*models.Cabinet, error)
	// FindByName resolves a cabinet by case-insensitive substring match.
	FindByName(ctx context.Context, ownerID int64, name string) (*models.Cabinet, error)
	GetActiveID(ctx context.Context, ownerID int64) (int64, error)
	SetActiveID(ctx context.Context, ownerID, cabinetID int64) error
}

// InventoryRepository defines the interface for inventory operations
type InventoryRepository interface {
	Create(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error)
	// DeleteByName removes all of the owner's rows matching name
	// case-insensitively, in every cabinet. Returns the number removed.
	DeleteByName(ctx context.Context, ownerID int64, name string) (int64, error)
	// GetDistinct returns one representative row per distinct medicine
	// name in the given cabinet, across all listed owners.
	GetDistinct(ctx context.Context, ownerIDs []int64, cabinetID int64) ([]*models.InventoryItem, error)
	// QuantityByName looks up the stock of one medicine by
	// case-insensitive name match across all listed owners.
	QuantityByName(ctx context.Context, ownerIDs []int64, name string) (int, bool, error)
}

// FamilyRepository defines the interface for family roster operations
type FamilyRepository interface {
	Create(ctx context.Context, member *models.FamilyMember) (*models.FamilyMember, error)
	GetByOwner(ctx context.Context, ownerID int64) ([]*models.FamilyMember, error)
	// PurgePlaceholders deletes rows whose fields are known placeholder
	// tokens. Returns the number removed.
	PurgePlaceholders(ctx context.Context) (int64, error)
}

// ReminderRepository defines the interface for dosing reminder operations
type ReminderRepository interface {
	Create(ctx context.Context, reminder *models.Reminder) (*models.Reminder, error)
	GetActiveByOwner(ctx context.Context, ownerID int64) ([]*models.Reminder, error)
	GetAllActive(ctx context.Context) ([]*models.Reminder, error)
	// MarkReminded records a delivery: last_reminded and the decremented
	// pill count.
	MarkReminded(ctx context.Context, id int64, remaining float64, at time.Time) error
	Deactivate(ctx context.Context, id int64) error
	LogDelivery(ctx context.Context, reminderID int64, status models.ReminderLogStatus) error
	PurgePlaceholders(ctx context.Context) (int64, error)
}

// ShareRepository defines the interface for shared-access grants
type ShareRepository interface {
	// Create inserts a grant with conflict-ignore semantics: a repeat
	// grant for the same (owner, grantee) pair is a no-op.
	Create(ctx context.Context, grant *models.SharedAccess) error
	// OwnerIDsForGrantee returns the owners who granted the user read
	// access to their inventory.
	OwnerIDsForGrantee(ctx context.Context, granteeID int64) ([]int64, error)
	// LinkPending attaches grants created by username before the grantee
	// ever contacted the bot.
	LinkPending(ctx context.Context, username string, granteeID int64) (int64, error)
}
