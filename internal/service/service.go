package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/AptekaBot/internal/models"
	"github.com/Kerhoff/AptekaBot/internal/repository"
)

// Service is the central business logic layer that holds all repositories
// and provides high-level methods for the application.
type Service struct {
	db        *sql.DB
	logger    *logrus.Logger
	Users     repository.UserRepository
	Messages  repository.MessageRepository
	Cabinets  repository.CabinetRepository
	Inventory repository.InventoryRepository
	Family    repository.FamilyRepository
	Reminders repository.ReminderRepository
	Shares    repository.ShareRepository
}

// New creates a new Service with all required dependencies.
func New(db *sql.DB, logger *logrus.Logger,
	users repository.UserRepository,
	messages repository.MessageRepository,
	cabinets repository.CabinetRepository,
	inventory repository.InventoryRepository,
	family repository.FamilyRepository,
	reminders repository.ReminderRepository,
	shares repository.ShareRepository,
) *Service {
	return &Service{
		db: db, logger: logger,
		Users: users, Messages: messages, Cabinets: cabinets,
		Inventory: inventory, Family: family, Reminders: reminders,
		Shares: shares,
	}
}

// EnsureUser upserts the user on every contact and links any share grants
// that were created for their username before they first appeared.
func (s *Service) EnsureUser(ctx context.Context, id int64, username string) (*models.User, error) {
	user, err := s.Users.Upsert(ctx, id, username)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure user %d: %w", id, err)
	}

	if username != "" {
		linked, err := s.Shares.LinkPending(ctx, username, id)
		if err != nil {
			s.logger.Errorf("Failed to link pending share grants for @%s: %v", username, err)
		} else if linked > 0 {
			s.logger.Infof("Linked %d pending share grant(s) to @%s", linked, username)
		}
	}

	return user, nil
}

// SaveMessage appends one entry to the conversation log.
func (s *Service) SaveMessage(ctx context.Context, ownerID int64, role models.MessageRole, content string) error {
	_, err := s.Messages.Create(ctx, &models.Message{
		OwnerID: ownerID,
		Role:    role,
		Content: content,
	})
	return err
}

// ActiveCabinet resolves the user's active cabinet pointer to an id and a
// display name. A dangling pointer falls back to the default cabinet.
func (s *Service) ActiveCabinet(ctx context.Context, ownerID int64) (int64, string, error) {
	id, err := s.Cabinets.GetActiveID(ctx, ownerID)
	if err != nil {
		return models.DefaultCabinetID, models.DefaultCabinetName, err
	}
	if id == models.DefaultCabinetID {
		return id, models.DefaultCabinetName, nil
	}

	cabinet, err := s.Cabinets.GetByID(ctx, id)
	if err != nil {
		return models.DefaultCabinetID, models.DefaultCabinetName, err
	}
	if cabinet == nil {
		return models.DefaultCabinetID, models.DefaultCabinetName, nil
	}

	return cabinet.ID, cabinet.Name, nil
}

// VisibleOwnerIDs returns the user plus every owner who granted them read
// access via a shared-access grant.
func (s *Service) VisibleOwnerIDs(ctx context.Context, userID int64) ([]int64, error) {
	owners, err := s.Shares.OwnerIDsForGrantee(ctx, userID)
	if err != nil {
		return nil, err
	}
	return append([]int64{userID}, owners...), nil
}

// ValidFamily returns the family roster with placeholder rows filtered out.
func (s *Service) ValidFamily(ctx context.Context, ownerID int64) ([]*models.FamilyMember, error) {
	members, err := s.Family.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	valid := members[:0]
	for _, m := range members {
		if m.IsValid() {
			valid = append(valid, m)
		}
	}
	return valid, nil
}

// ValidReminders returns the user's active reminders with placeholder rows
// filtered out.
func (s *Service) ValidReminders(ctx context.Context, ownerID int64) ([]*models.Reminder, error) {
	reminders, err := s.Reminders.GetActiveByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	valid := reminders[:0]
	for _, r := range reminders {
		if r.IsValid() {
			valid = append(valid, r)
		}
	}
	return valid, nil
}

// PurgePlaceholders removes family and reminder rows holding placeholder
// tokens. Runs at startup and once a day from the scheduler loop.
func (s *Service) PurgePlaceholders(ctx context.Context) {
	if n, err := s.Family.PurgePlaceholders(ctx); err != nil {
		s.logger.Errorf("Failed to purge family placeholders: %v", err)
	} else if n > 0 {
		s.logger.Infof("Purged %d placeholder family row(s)", n)
	}

	if n, err := s.Reminders.PurgePlaceholders(ctx); err != nil {
		s.logger.Errorf("Failed to purge reminder placeholders: %v", err)
	} else if n > 0 {
		s.logger.Infof("Purged %d placeholder reminder row(s)", n)
	}
}
