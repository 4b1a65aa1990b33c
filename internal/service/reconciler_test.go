package service

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/AptekaBot/internal/directive"
	"github.com/Kerhoff/AptekaBot/internal/models"
)

// ---------------------------------------------------------------------------
// In-memory repositories. The reconciler only sees the repository
// interfaces, so its behavioral rules are testable without Postgres.
// ---------------------------------------------------------------------------

type fakeUserRepo struct {
	users []*models.User
}

func (f *fakeUserRepo) Upsert(ctx context.Context, id int64, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			u.Username = username
			return u, nil
		}
	}
	u := &models.User{ID: id, Username: username}
	f.users = append(f.users, u)
	return u, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return nil, nil
}

type fakeCabinetRepo struct {
	cabinets []*models.Cabinet
	active   map[int64]int64
	nextID   int64
}

func newFakeCabinetRepo() *fakeCabinetRepo {
	return &fakeCabinetRepo{active: make(map[int64]int64), nextID: 1}
}

func (f *fakeCabinetRepo) Create(ctx context.Context, cabinet *models.Cabinet) (*models.Cabinet, error) {
	cabinet.ID = f.nextID
	f.nextID++
	f.cabinets = append(f.cabinets, cabinet)
	return cabinet, nil
}

func (f *fakeCabinetRepo) GetByID(ctx context.Context, id int64) (*models.Cabinet, error) {
	for _, c := range f.cabinets {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeCabinetRepo) GetByOwner(ctx context.Context, ownerID int64) ([]*models.Cabinet, error) {
	var out []*models.Cabinet
	for _, c := range f.cabinets {
		if c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCabinetRepo) FindByName(ctx context.Context, ownerID int64, name string) (*models.Cabinet, error) {
	for _, c := range f.cabinets {
		if c.OwnerID == ownerID && strings.Contains(strings.ToLower(c.Name), strings.ToLower(name)) {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeCabinetRepo) GetActiveID(ctx context.Context, ownerID int64) (int64, error) {
	return f.active[ownerID], nil
}

func (f *fakeCabinetRepo) SetActiveID(ctx context.Context, ownerID, cabinetID int64) error {
	f.active[ownerID] = cabinetID
	return nil
}

type fakeInventoryRepo struct {
	items  []*models.InventoryItem
	nextID int64
}

func (f *fakeInventoryRepo) Create(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	f.nextID++
	item.ID = f.nextID
	f.items = append(f.items, item)
	return item, nil
}

func (f *fakeInventoryRepo) DeleteByName(ctx context.Context, ownerID int64, name string) (int64, error) {
	var kept []*models.InventoryItem
	var removed int64
	for _, item := range f.items {
		if item.OwnerID == ownerID && strings.EqualFold(item.Name, name) {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	f.items = kept
	return removed, nil
}

func (f *fakeInventoryRepo) GetDistinct(ctx context.Context, ownerIDs []int64, cabinetID int64) ([]*models.InventoryItem, error) {
	seen := make(map[string]bool)
	var out []*models.InventoryItem
	for _, item := range f.items {
		if item.CabinetID != cabinetID {
			continue
		}
		for _, owner := range ownerIDs {
			if item.OwnerID == owner && !seen[strings.ToLower(item.Name)] {
				seen[strings.ToLower(item.Name)] = true
				out = append(out, item)
			}
		}
	}
	return out, nil
}

func (f *fakeInventoryRepo) QuantityByName(ctx context.Context, ownerIDs []int64, name string) (int, bool, error) {
	for _, item := range f.items {
		for _, owner := range ownerIDs {
			if item.OwnerID == owner && strings.EqualFold(item.Name, name) {
				return item.Quantity, true, nil
			}
		}
	}
	return 0, false, nil
}

type fakeFamilyRepo struct {
	members []*models.FamilyMember
}

func (f *fakeFamilyRepo) Create(ctx context.Context, member *models.FamilyMember) (*models.FamilyMember, error) {
	f.members = append(f.members, member)
	return member, nil
}

func (f *fakeFamilyRepo) GetByOwner(ctx context.Context, ownerID int64) ([]*models.FamilyMember, error) {
	var out []*models.FamilyMember
	for _, m := range f.members {
		if m.OwnerID == ownerID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeFamilyRepo) PurgePlaceholders(ctx context.Context) (int64, error) {
	return 0, nil
}

type fakeReminderRepo struct {
	reminders []*models.Reminder
	logged    []models.ReminderLogStatus
	nextID    int64
}

func (f *fakeReminderRepo) Create(ctx context.Context, reminder *models.Reminder) (*models.Reminder, error) {
	f.nextID++
	reminder.ID = f.nextID
	f.reminders = append(f.reminders, reminder)
	return reminder, nil
}

func (f *fakeReminderRepo) GetActiveByOwner(ctx context.Context, ownerID int64) ([]*models.Reminder, error) {
	var out []*models.Reminder
	for _, r := range f.reminders {
		if r.OwnerID == ownerID && r.Active {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReminderRepo) GetAllActive(ctx context.Context) ([]*models.Reminder, error) {
	var out []*models.Reminder
	for _, r := range f.reminders {
		if r.Active {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReminderRepo) MarkReminded(ctx context.Context, id int64, remaining float64, at time.Time) error {
	for _, r := range f.reminders {
		if r.ID == id {
			r.PillsRemaining = remaining
			t := at
			r.LastReminded = &t
		}
	}
	return nil
}

func (f *fakeReminderRepo) Deactivate(ctx context.Context, id int64) error {
	for _, r := range f.reminders {
		if r.ID == id {
			r.Active = false
		}
	}
	return nil
}

func (f *fakeReminderRepo) LogDelivery(ctx context.Context, reminderID int64, status models.ReminderLogStatus) error {
	f.logged = append(f.logged, status)
	return nil
}

func (f *fakeReminderRepo) PurgePlaceholders(ctx context.Context) (int64, error) {
	return 0, nil
}

type fakeShareRepo struct {
	grants []*models.SharedAccess
}

func (f *fakeShareRepo) Create(ctx context.Context, grant *models.SharedAccess) error {
	for _, g := range f.grants {
		if g.OwnerID == grant.OwnerID && strings.EqualFold(g.GranteeUsername, grant.GranteeUsername) {
			return nil
		}
	}
	f.grants = append(f.grants, grant)
	return nil
}

func (f *fakeShareRepo) OwnerIDsForGrantee(ctx context.Context, granteeID int64) ([]int64, error) {
	var out []int64
	for _, g := range f.grants {
		if g.GranteeID == granteeID {
			out = append(out, g.OwnerID)
		}
	}
	return out, nil
}

func (f *fakeShareRepo) LinkPending(ctx context.Context, username string, granteeID int64) (int64, error) {
	var linked int64
	for _, g := range f.grants {
		if g.GranteeID == 0 && strings.EqualFold(g.GranteeUsername, username) {
			g.GranteeID = granteeID
			linked++
		}
	}
	return linked, nil
}

// ---------------------------------------------------------------------------
// Test wiring
// ---------------------------------------------------------------------------

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type fixture struct {
	svc       *Service
	store     *txStore
	users     *fakeUserRepo
	cabinets  *fakeCabinetRepo
	inventory *fakeInventoryRepo
	family    *fakeFamilyRepo
	reminders *fakeReminderRepo
	shares    *fakeShareRepo
}

func newFixture() *fixture {
	f := &fixture{
		users:     &fakeUserRepo{},
		cabinets:  newFakeCabinetRepo(),
		inventory: &fakeInventoryRepo{},
		family:    &fakeFamilyRepo{},
		reminders: &fakeReminderRepo{},
		shares:    &fakeShareRepo{},
	}
	f.svc = New(nil, testLogger(),
		f.users, nil, f.cabinets, f.inventory, f.family, f.reminders, f.shares)
	f.store = &txStore{
		users:     f.users,
		cabinets:  f.cabinets,
		inventory: f.inventory,
		family:    f.family,
		reminders: f.reminders,
		shares:    f.shares,
	}
	return f
}

func (f *fixture) apply(t *testing.T, userID int64, ds ...directive.Directive) {
	t.Helper()
	for _, d := range directive.SortForApply(ds) {
		require.NoError(t, f.svc.applyOne(context.Background(), f.store, userID, d))
	}
}

// ---------------------------------------------------------------------------
// Behavioral rules
// ---------------------------------------------------------------------------

func TestCreateCabinetThenAddMedicineLandsInNewCabinet(t *testing.T) {
	f := newFixture()

	// Textual order puts the medicine first; apply order must still route
	// it into the cabinet created in the same turn.
	f.apply(t, 42,
		directive.AddMedicine{Name: "Paracetamol", Quantity: 5},
		directive.CreateCabinet{Name: "Mom"},
	)

	require.Len(t, f.cabinets.cabinets, 1)
	assert.Equal(t, "Mom", f.cabinets.cabinets[0].Name)
	assert.Equal(t, f.cabinets.cabinets[0].ID, f.cabinets.active[42])

	require.Len(t, f.inventory.items, 1)
	assert.Equal(t, f.cabinets.cabinets[0].ID, f.inventory.items[0].CabinetID)
	assert.Equal(t, 5, f.inventory.items[0].Quantity)
}

func TestRemoveMedicineMatchesCaseInsensitivelyAcrossCabinets(t *testing.T) {
	f := newFixture()
	f.inventory.items = []*models.InventoryItem{
		{OwnerID: 42, CabinetID: 0, Name: "Aspirin"},
		{OwnerID: 42, CabinetID: 3, Name: "ASPIRIN"},
		{OwnerID: 42, CabinetID: 0, Name: "Nurofen"},
		{OwnerID: 7, CabinetID: 0, Name: "Aspirin"},
	}

	f.apply(t, 42, directive.RemoveMedicine{Name: "aspirin"})

	require.Len(t, f.inventory.items, 2)
	assert.Equal(t, "Nurofen", f.inventory.items[0].Name)
	// Another user's rows are never touched.
	assert.Equal(t, int64(7), f.inventory.items[1].OwnerID)
}

func TestShareAccessIsConflictIgnoredAndLinksKnownGrantee(t *testing.T) {
	f := newFixture()
	f.users.users = []*models.User{{ID: 7, Username: "anna"}}

	f.apply(t, 42,
		directive.ShareAccess{Handle: "anna", Relation: "wife"},
		directive.ShareAccess{Handle: "Anna"},
	)

	require.Len(t, f.shares.grants, 1)
	assert.Equal(t, int64(7), f.shares.grants[0].GranteeID)

	// A handle the bot has never seen stays pending with grantee id 0.
	f.apply(t, 42, directive.ShareAccess{Handle: "stranger"})
	require.Len(t, f.shares.grants, 2)
	assert.Equal(t, int64(0), f.shares.grants[1].GranteeID)
}

func TestAddFamilyDropsPlaceholderRows(t *testing.T) {
	f := newFixture()

	f.apply(t, 42,
		directive.AddFamily{Name: "имя"},
		directive.AddFamily{Name: "Anna", Gender: "пол"},
		directive.AddFamily{Name: "Boris"},
	)

	require.Len(t, f.family.members, 1)
	assert.Equal(t, "Boris", f.family.members[0].Name)
}

func TestAddReminderIndefiniteCourse(t *testing.T) {
	f := newFixture()

	f.apply(t, 42, directive.AddReminder{
		Medicine:     "Vitamin D",
		Schedule:     "08:00",
		CourseDays:   0,
		PillsPerDose: 1,
		PillsInPack:  30,
	})

	require.Len(t, f.reminders.reminders, 1)
	r := f.reminders.reminders[0]
	assert.Nil(t, r.EndDate)
	assert.Zero(t, r.PillsRemaining)
	assert.NotNil(t, r.StartDate)
	assert.True(t, r.Active)
}

func TestAddReminderFiniteCourseDerivations(t *testing.T) {
	f := newFixture()

	f.apply(t, 42, directive.AddReminder{
		Medicine:     "Amoxicillin",
		Schedule:     "08:00,20:00",
		CourseDays:   7,
		PillsPerDose: 1,
	})

	require.Len(t, f.reminders.reminders, 1)
	r := f.reminders.reminders[0]
	require.NotNil(t, r.StartDate)
	require.NotNil(t, r.EndDate)
	assert.Equal(t, r.StartDate.AddDate(0, 0, 7), *r.EndDate)
	assert.Equal(t, float64(14), r.PillsRemaining)
}

func TestAddReminderDropsPlaceholderMedicine(t *testing.T) {
	f := newFixture()

	f.apply(t, 42, directive.AddReminder{Medicine: "лекарство", Schedule: "08:00"})

	assert.Empty(t, f.reminders.reminders)
}

func TestSwitchCabinetResolution(t *testing.T) {
	f := newFixture()
	f.cabinets.Create(context.Background(), &models.Cabinet{OwnerID: 42, Name: "Mom's cabinet"})

	// Case-insensitive substring match.
	f.apply(t, 42, directive.SwitchCabinet{Name: "mom"})
	assert.Equal(t, f.cabinets.cabinets[0].ID, f.cabinets.active[42])

	// A default synonym resets the pointer.
	f.apply(t, 42, directive.SwitchCabinet{Name: "default"})
	assert.Equal(t, int64(models.DefaultCabinetID), f.cabinets.active[42])

	// An unknown name is a no-op.
	f.apply(t, 42, directive.SwitchCabinet{Name: "mom"})
	f.apply(t, 42, directive.SwitchCabinet{Name: "dacha"})
	assert.Equal(t, f.cabinets.cabinets[0].ID, f.cabinets.active[42])
}
