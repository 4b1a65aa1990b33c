package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Kerhoff/AptekaBot/internal/models"
)

// ReminderStatus pairs an active reminder with its current stock, derived
// by case-insensitive name match against the inventory.
type ReminderStatus struct {
	*models.Reminder
	InStock  bool
	StockQty int
}

// Snapshot is the state fed to the generation call: active cabinet, the
// visible inventory (deduplicated by name, including cabinets shared with
// the user), the placeholder-filtered family roster and the active
// reminders with stock.
type Snapshot struct {
	CabinetName  string
	CabinetNames []string
	Inventory    []*models.InventoryItem
	Family       []*models.FamilyMember
	Reminders    []ReminderStatus
}

// LoadSnapshot reads the user's current state from the store. It has no
// side effects.
func (s *Service) LoadSnapshot(ctx context.Context, userID int64) (*Snapshot, error) {
	cabinetID, cabinetName, err := s.ActiveCabinet(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve active cabinet: %w", err)
	}

	cabinets, err := s.Cabinets.GetByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(cabinets))
	for _, c := range cabinets {
		names = append(names, c.Name)
	}

	owners, err := s.VisibleOwnerIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	inventory, err := s.Inventory.GetDistinct(ctx, owners, cabinetID)
	if err != nil {
		return nil, err
	}

	family, err := s.ValidFamily(ctx, userID)
	if err != nil {
		return nil, err
	}

	reminders, err := s.ValidReminders(ctx, userID)
	if err != nil {
		return nil, err
	}
	statuses := make([]ReminderStatus, 0, len(reminders))
	for _, r := range reminders {
		qty, inStock, err := s.Inventory.QuantityByName(ctx, owners, r.MedicineName)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, ReminderStatus{Reminder: r, InStock: inStock, StockQty: qty})
	}

	return &Snapshot{
		CabinetName:  cabinetName,
		CabinetNames: names,
		Inventory:    inventory,
		Family:       family,
		Reminders:    statuses,
	}, nil
}

// RenderContext turns a snapshot into the compact textual grounding
// context supplied to the generation call.
func RenderContext(snap *Snapshot) string {
	var sb strings.Builder

	sb.WriteString("Active cabinet: " + snap.CabinetName)
	if len(snap.CabinetNames) > 0 {
		sb.WriteString(". All cabinets: " + strings.Join(snap.CabinetNames, ", "))
	}
	sb.WriteString("\n")

	sb.WriteString("Inventory:\n")
	if len(snap.Inventory) == 0 {
		sb.WriteString("The cabinet is empty.\n")
	}
	for _, item := range snap.Inventory {
		sb.WriteString(fmt.Sprintf("- %s, qty: %d, dosage: %s, expires: %s, category: %s\n",
			item.Name,
			item.Quantity,
			orUnknown(item.Dosage),
			formatExpiry(item),
			orUnknown(item.Category)))
	}

	sb.WriteString("Family:\n")
	if len(snap.Family) == 0 {
		sb.WriteString("No family members recorded.\n")
	}
	for _, m := range snap.Family {
		sb.WriteString("- " + describeFamilyMember(m) + "\n")
	}

	sb.WriteString("Reminders:\n")
	if len(snap.Reminders) == 0 {
		sb.WriteString("No active reminders.\n")
	}
	for _, r := range snap.Reminders {
		sb.WriteString("- " + describeReminder(r) + "\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

func describeFamilyMember(m *models.FamilyMember) string {
	parts := []string{m.Name}
	if m.Age != nil {
		parts = append(parts, fmt.Sprintf("%d years old", *m.Age))
	} else {
		parts = append(parts, "age unknown")
	}
	if m.Gender != "" {
		parts = append(parts, m.Gender)
	}
	if m.Relation != "" {
		parts = append(parts, m.Relation)
	}
	return strings.Join(parts, ", ")
}

func describeReminder(r ReminderStatus) string {
	var sb strings.Builder
	sb.WriteString(r.MedicineName)
	if r.FamilyMember != "" {
		sb.WriteString(" (for " + r.FamilyMember + ")")
	}
	sb.WriteString(", at " + r.Schedule)
	if r.MealRelation != "" {
		sb.WriteString(" " + r.MealRelation)
	}
	if r.Dosage != "" {
		sb.WriteString(", " + r.Dosage)
	}
	sb.WriteString(", course: " + r.CourseDescription())
	if r.InStock {
		sb.WriteString(fmt.Sprintf(", in stock: %d units", r.StockQty))
	} else {
		sb.WriteString(", not in stock")
	}
	return sb.String()
}

func formatExpiry(item *models.InventoryItem) string {
	if item.ExpiryDate == nil {
		return "?"
	}
	return item.ExpiryDate.Format("2006-01-02")
}

func orUnknown(s string) string {
	if s == "" {
		return "?"
	}
	return s
}
