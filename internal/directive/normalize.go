package directive

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Directive is the closed union of validated, typed directives. One
// implementation exists per Kind; nothing outside this package implements
// the interface.
type Directive interface {
	Kind() Kind
}

// AddMedicine inserts one inventory row into the active cabinet.
type AddMedicine struct {
	Name     string
	Quantity int
	Dosage   string
	Expiry   *time.Time
	Category string
}

// RemoveMedicine deletes all of the user's rows whose name matches
// case-insensitively, across every cabinet.
type RemoveMedicine struct {
	Name string
}

// AddFamily inserts one family member row.
type AddFamily struct {
	Name     string
	Age      *int
	Gender   string
	Relation string
}

// AddReminder inserts one dosing reminder. CourseDays 0 means the course
// is indefinite.
type AddReminder struct {
	FamilyMember string
	Medicine     string
	Schedule     string // comma-separated HH:MM tokens
	MealRelation string
	Dosage       string
	CourseDays   int
	PillsPerDose float64
	PillsInPack  int
}

// ShareAccess grants another user read access to the inventory.
type ShareAccess struct {
	Handle   string // Telegram username, "@" stripped
	Relation string
}

// CreateCabinet creates a cabinet and makes it active.
type CreateCabinet struct {
	Name string
}

// SwitchCabinet re-points the active cabinet by fuzzy name match.
type SwitchCabinet struct {
	Name string
}

func (AddMedicine) Kind() Kind    { return KindAddMedicine }
func (RemoveMedicine) Kind() Kind { return KindRemoveMedicine }
func (AddFamily) Kind() Kind      { return KindAddFamily }
func (AddReminder) Kind() Kind    { return KindAddReminder }
func (ShareAccess) Kind() Kind    { return KindShareAccess }
func (CreateCabinet) Kind() Kind  { return KindCreateCabinet }
func (SwitchCabinet) Kind() Kind  { return KindSwitchCabinet }

// DefaultSchedule is used when an ADD_REMINDER omits its schedule field.
const DefaultSchedule = "08:00"

// expiryLayouts are tried in order; the first successful parse wins.
var expiryLayouts = []string{
	"2006-01-02",
	"02.01.2006",
	"01/2006",
	"02/01/2006",
}

// Parse normalizes one raw tag into a typed directive. Malformed scalar
// fields fall back to their documented defaults; Parse never fails on bad
// field content. It returns ok=false only when a required field is empty
// and the whole directive must be dropped.
func Parse(raw Raw) (Directive, bool) {
	parts := fields(raw.Body)
	switch raw.Kind {
	case KindAddMedicine:
		name := field(parts, 0)
		if name == "" {
			return nil, false
		}
		return AddMedicine{
			Name:     name,
			Quantity: parseInt(field(parts, 1), 1),
			Dosage:   field(parts, 2),
			Expiry:   parseExpiry(field(parts, 3)),
			Category: field(parts, 4),
		}, true

	case KindRemoveMedicine:
		name := field(parts, 0)
		if name == "" {
			return nil, false
		}
		return RemoveMedicine{Name: name}, true

	case KindAddFamily:
		name := field(parts, 0)
		if name == "" {
			return nil, false
		}
		return AddFamily{
			Name:     name,
			Age:      parseOptInt(field(parts, 1)),
			Gender:   field(parts, 2),
			Relation: field(parts, 3),
		}, true

	case KindAddReminder:
		medicine := field(parts, 1)
		if medicine == "" {
			return nil, false
		}
		schedule := field(parts, 2)
		if schedule == "" {
			schedule = DefaultSchedule
		}
		return AddReminder{
			FamilyMember: field(parts, 0),
			Medicine:     medicine,
			Schedule:     schedule,
			MealRelation: field(parts, 3),
			Dosage:       field(parts, 4),
			CourseDays:   parseInt(field(parts, 5), 0),
			PillsPerDose: parseFloat(field(parts, 6), 1.0),
			PillsInPack:  parseInt(field(parts, 7), 0),
		}, true

	case KindShareAccess:
		handle := strings.TrimPrefix(field(parts, 0), "@")
		if handle == "" {
			return nil, false
		}
		return ShareAccess{Handle: handle, Relation: field(parts, 1)}, true

	case KindCreateCabinet:
		name := field(parts, 0)
		if name == "" {
			return nil, false
		}
		return CreateCabinet{Name: name}, true

	case KindSwitchCabinet:
		name := field(parts, 0)
		if name == "" {
			return nil, false
		}
		return SwitchCabinet{Name: name}, true
	}
	return nil, false
}

// ParseAll extracts and normalizes every directive in text, preserving
// textual order. Directives that fail validation are dropped.
func ParseAll(text string) []Directive {
	var out []Directive
	for _, raw := range Extract(text) {
		if d, ok := Parse(raw); ok {
			out = append(out, d)
		}
	}
	return out
}

// applyRank fixes the cross-kind application order: cabinet directives
// run before everything else so that medicines added in the same turn
// land in a cabinet created or switched to by that turn.
func applyRank(k Kind) int {
	switch k {
	case KindCreateCabinet:
		return 0
	case KindSwitchCabinet:
		return 1
	case KindShareAccess:
		return 2
	default:
		return 3
	}
}

// SortForApply orders a batch for reconciliation: kinds by their fixed
// rank, directives of the same rank keeping their textual order.
func SortForApply(ds []Directive) []Directive {
	sorted := make([]Directive, len(ds))
	copy(sorted, ds)
	sort.SliceStable(sorted, func(i, j int) bool {
		return applyRank(sorted[i].Kind()) < applyRank(sorted[j].Kind())
	})
	return sorted
}

// ScheduleTimesPerDay counts the time tokens in a comma-separated
// schedule; an empty schedule still counts as one dose a day.
func ScheduleTimesPerDay(schedule string) int {
	n := 0
	for _, t := range strings.Split(schedule, ",") {
		if strings.TrimSpace(t) != "" {
			n++
		}
	}
	if n == 0 {
		return 1
	}
	return n
}

// TotalPills derives the pill requirement for a finite course. An
// indefinite course (0 days) has no finite requirement.
func (r AddReminder) TotalPills() float64 {
	if r.CourseDays <= 0 {
		return 0
	}
	return float64(r.CourseDays) * float64(ScheduleTimesPerDay(r.Schedule)) * r.PillsPerDose
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func parseOptInt(s string) *int {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return nil
	}
	return &n
}

func parseFloat(s string, def float64) float64 {
	if s == "" {
		return def
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return def
	}
	return f
}

func parseExpiry(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range expiryLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
