package service

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/Kerhoff/AptekaBot/internal/directive"
	"github.com/Kerhoff/AptekaBot/internal/metrics"
	"github.com/Kerhoff/AptekaBot/internal/models"
	"github.com/Kerhoff/AptekaBot/internal/repository"
	"github.com/Kerhoff/AptekaBot/internal/repository/postgres"
)

// txStore is the repository set bound to one turn's transaction, so every
// directive in the batch sees the writes of the directives before it.
type txStore struct {
	users     repository.UserRepository
	cabinets  repository.CabinetRepository
	inventory repository.InventoryRepository
	family    repository.FamilyRepository
	reminders repository.ReminderRepository
	shares    repository.ShareRepository
}

// ApplyDirectives reconciles one turn's directives against the user's
// store. The whole batch runs in a single transaction; each directive is
// wrapped in a savepoint so one failure rolls back only itself and the
// rest of the batch still commits together. Cabinet directives are applied
// before inventory directives so that same-turn additions land in a
// freshly created or switched cabinet.
func (s *Service) ApplyDirectives(ctx context.Context, userID int64, ds []directive.Directive) error {
	if len(ds) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin reconciliation: %w", err)
	}
	defer tx.Rollback()

	store := &txStore{
		users:     postgres.NewUserRepository(tx),
		cabinets:  postgres.NewCabinetRepository(tx),
		inventory: postgres.NewInventoryRepository(tx),
		family:    postgres.NewFamilyRepository(tx),
		reminders: postgres.NewReminderRepository(tx),
		shares:    postgres.NewShareRepository(tx),
	}

	var errs *multierror.Error
	for i, d := range directive.SortForApply(ds) {
		sp := fmt.Sprintf("sp_directive_%d", i)
		if _, err := tx.ExecContext(ctx, "SAVEPOINT "+sp); err != nil {
			return fmt.Errorf("failed to create savepoint: %w", err)
		}

		if err := s.applyOne(ctx, store, userID, d); err != nil {
			metrics.DirectivesFailed.WithLabelValues(string(d.Kind())).Inc()
			s.logger.Errorf("Directive %s failed for user %d: %v", d.Kind(), userID, err)
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", d.Kind(), err))

			if _, err := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+sp); err != nil {
				return fmt.Errorf("failed to roll back directive: %w", err)
			}
			continue
		}

		metrics.DirectivesApplied.WithLabelValues(string(d.Kind())).Inc()
		if _, err := tx.ExecContext(ctx, "RELEASE SAVEPOINT "+sp); err != nil {
			return fmt.Errorf("failed to release savepoint: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reconciliation: %w", err)
	}

	return errs.ErrorOrNil()
}

func (s *Service) applyOne(ctx context.Context, store *txStore, userID int64, d directive.Directive) error {
	switch d := d.(type) {
	case directive.CreateCabinet:
		return s.applyCreateCabinet(ctx, store, userID, d)
	case directive.SwitchCabinet:
		return s.applySwitchCabinet(ctx, store, userID, d)
	case directive.ShareAccess:
		return s.applyShareAccess(ctx, store, userID, d)
	case directive.AddMedicine:
		return s.applyAddMedicine(ctx, store, userID, d)
	case directive.RemoveMedicine:
		return s.applyRemoveMedicine(ctx, store, userID, d)
	case directive.AddFamily:
		return s.applyAddFamily(ctx, store, userID, d)
	case directive.AddReminder:
		return s.applyAddReminder(ctx, store, userID, d)
	default:
		return fmt.Errorf("unhandled directive kind %q", d.Kind())
	}
}

// applyCreateCabinet inserts the cabinet and atomically makes it active.
func (s *Service) applyCreateCabinet(ctx context.Context, store *txStore, userID int64, d directive.CreateCabinet) error {
	cabinet, err := store.cabinets.Create(ctx, &models.Cabinet{
		OwnerID: userID,
		Name:    d.Name,
	})
	if err != nil {
		return err
	}

	s.logger.Infof("Created cabinet %q (id=%d) for user %d", d.Name, cabinet.ID, userID)
	return store.cabinets.SetActiveID(ctx, userID, cabinet.ID)
}

// applySwitchCabinet resolves the name by case-insensitive substring; an
// unmatched default-cabinet synonym resets the pointer, anything else is a
// no-op.
func (s *Service) applySwitchCabinet(ctx context.Context, store *txStore, userID int64, d directive.SwitchCabinet) error {
	cabinet, err := store.cabinets.FindByName(ctx, userID, d.Name)
	if err != nil {
		return err
	}
	if cabinet != nil {
		return store.cabinets.SetActiveID(ctx, userID, cabinet.ID)
	}
	if models.IsDefaultCabinetName(d.Name) {
		return store.cabinets.SetActiveID(ctx, userID, models.DefaultCabinetID)
	}

	s.logger.Debugf("Switch to unknown cabinet %q ignored for user %d", d.Name, userID)
	return nil
}

func (s *Service) applyShareAccess(ctx context.Context, store *txStore, userID int64, d directive.ShareAccess) error {
	grant := &models.SharedAccess{
		OwnerID:         userID,
		GranteeUsername: d.Handle,
		Relation:        d.Relation,
	}

	// The grantee may not have contacted the bot yet; their id stays 0
	// until EnsureUser links it on first contact.
	grantee, err := store.users.GetByUsername(ctx, d.Handle)
	if err != nil {
		return err
	}
	if grantee != nil {
		grant.GranteeID = grantee.ID
	}

	return store.shares.Create(ctx, grant)
}

// applyAddMedicine inserts into the currently active cabinet. Same-name
// rows are not merged.
func (s *Service) applyAddMedicine(ctx context.Context, store *txStore, userID int64, d directive.AddMedicine) error {
	cabinetID, err := store.cabinets.GetActiveID(ctx, userID)
	if err != nil {
		return err
	}

	_, err = store.inventory.Create(ctx, &models.InventoryItem{
		OwnerID:    userID,
		CabinetID:  cabinetID,
		Name:       d.Name,
		Quantity:   d.Quantity,
		Dosage:     d.Dosage,
		ExpiryDate: d.Expiry,
		Category:   d.Category,
	})
	return err
}

// applyRemoveMedicine deletes matching rows in every cabinet of the user,
// never across users.
func (s *Service) applyRemoveMedicine(ctx context.Context, store *txStore, userID int64, d directive.RemoveMedicine) error {
	removed, err := store.inventory.DeleteByName(ctx, userID, d.Name)
	if err != nil {
		return err
	}
	if removed > 0 {
		s.logger.Infof("Removed %d inventory row(s) named %q for user %d", removed, d.Name, userID)
	}
	return nil
}

func (s *Service) applyAddFamily(ctx context.Context, store *txStore, userID int64, d directive.AddFamily) error {
	member := &models.FamilyMember{
		OwnerID:  userID,
		Name:     d.Name,
		Age:      d.Age,
		Gender:   d.Gender,
		Relation: d.Relation,
	}
	if !member.IsValid() {
		s.logger.Warnf("Dropping placeholder family member %q for user %d", d.Name, userID)
		return nil
	}

	_, err := store.family.Create(ctx, member)
	return err
}

// applyAddReminder always inserts, even when the medicine is absent from
// inventory; absence surfaces as advisory context, not as an error.
func (s *Service) applyAddReminder(ctx context.Context, store *txStore, userID int64, d directive.AddReminder) error {
	start := time.Now().Truncate(24 * time.Hour)
	reminder := &models.Reminder{
		OwnerID:        userID,
		FamilyMember:   d.FamilyMember,
		MedicineName:   d.Medicine,
		Dosage:         d.Dosage,
		Schedule:       d.Schedule,
		MealRelation:   d.MealRelation,
		CourseDays:     d.CourseDays,
		PillsPerDose:   d.PillsPerDose,
		PillsInPack:    d.PillsInPack,
		PillsRemaining: d.TotalPills(),
		StartDate:      &start,
	}
	if d.CourseDays > 0 {
		end := start.AddDate(0, 0, d.CourseDays)
		reminder.EndDate = &end
	}
	if !reminder.IsValid() {
		s.logger.Warnf("Dropping placeholder reminder %q for user %d", d.Medicine, userID)
		return nil
	}

	_, err := store.reminders.Create(ctx, reminder)
	return err
}
