package directive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddMedicine(t *testing.T) {
	d, ok := Parse(Raw{Kind: KindAddMedicine, Body: "Aspirin | 10 | 500mg | 2026-01-01 | Pain"})
	require.True(t, ok)

	med, ok := d.(AddMedicine)
	require.True(t, ok)
	assert.Equal(t, "Aspirin", med.Name)
	assert.Equal(t, 10, med.Quantity)
	assert.Equal(t, "500mg", med.Dosage)
	assert.Equal(t, "Pain", med.Category)
	require.NotNil(t, med.Expiry)
	assert.Equal(t, "2026-01-01", med.Expiry.Format("2006-01-02"))
}

func TestParseAddMedicineDefaults(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantQty int
	}{
		{"name only", "Aspirin", 1},
		{"invalid quantity", "Aspirin|lots", 1},
		{"negative quantity", "Aspirin|-3", 1},
		{"empty quantity", "Aspirin||500mg", 1},
		{"valid quantity", "Aspirin|25", 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := Parse(Raw{Kind: KindAddMedicine, Body: tt.body})
			require.True(t, ok)
			assert.Equal(t, tt.wantQty, d.(AddMedicine).Quantity)
		})
	}
}

func TestParseAddMedicineDroppedWithoutName(t *testing.T) {
	_, ok := Parse(Raw{Kind: KindAddMedicine, Body: " |10|500mg"})
	assert.False(t, ok)
}

func TestParseExpiryLayouts(t *testing.T) {
	tests := []struct {
		raw  string
		want string // "" means unparsable → nil
	}{
		{"2026-01-01", "2026-01-01"},
		{"31.12.2026", "2026-12-31"},
		{"06/2027", "2027-06-01"},
		{"15/06/2027", "2027-06-15"},
		{"sometime next year", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			d, ok := Parse(Raw{Kind: KindAddMedicine, Body: "Aspirin|1|500mg|" + tt.raw})
			require.True(t, ok)
			med := d.(AddMedicine)
			if tt.want == "" {
				assert.Nil(t, med.Expiry)
				return
			}
			require.NotNil(t, med.Expiry)
			assert.Equal(t, tt.want, med.Expiry.Format("2006-01-02"))
		})
	}
}

func TestParseAddFamily(t *testing.T) {
	d, ok := Parse(Raw{Kind: KindAddFamily, Body: "Anna | 30 | female | wife"})
	require.True(t, ok)

	fam := d.(AddFamily)
	assert.Equal(t, "Anna", fam.Name)
	require.NotNil(t, fam.Age)
	assert.Equal(t, 30, *fam.Age)
	assert.Equal(t, "female", fam.Gender)
	assert.Equal(t, "wife", fam.Relation)
}

func TestParseAddFamilyBadAge(t *testing.T) {
	d, ok := Parse(Raw{Kind: KindAddFamily, Body: "Anna | thirty"})
	require.True(t, ok)
	assert.Nil(t, d.(AddFamily).Age)
}

func TestParseAddReminderFull(t *testing.T) {
	d, ok := Parse(Raw{Kind: KindAddReminder, Body: "Anna|Amoxicillin|08:00,20:00|after meals|500mg|7|1.5|20"})
	require.True(t, ok)

	rem := d.(AddReminder)
	assert.Equal(t, "Anna", rem.FamilyMember)
	assert.Equal(t, "Amoxicillin", rem.Medicine)
	assert.Equal(t, "08:00,20:00", rem.Schedule)
	assert.Equal(t, "after meals", rem.MealRelation)
	assert.Equal(t, "500mg", rem.Dosage)
	assert.Equal(t, 7, rem.CourseDays)
	assert.Equal(t, 1.5, rem.PillsPerDose)
	assert.Equal(t, 20, rem.PillsInPack)
	assert.Equal(t, 21.0, rem.TotalPills()) // 7 days × 2 times × 1.5 pills
}

func TestParseAddReminderIndefiniteCourse(t *testing.T) {
	d, ok := Parse(Raw{Kind: KindAddReminder, Body: "|Vitamin D|08:00|morning|1 tablet|0|1|30"})
	require.True(t, ok)

	rem := d.(AddReminder)
	assert.Empty(t, rem.FamilyMember) // blank member stays blank, never defaulted
	assert.Equal(t, 0, rem.CourseDays)
	assert.Equal(t, 0.0, rem.TotalPills())
}

func TestParseAddReminderDefaults(t *testing.T) {
	d, ok := Parse(Raw{Kind: KindAddReminder, Body: "|Vitamin D"})
	require.True(t, ok)

	rem := d.(AddReminder)
	assert.Equal(t, DefaultSchedule, rem.Schedule)
	assert.Equal(t, 0, rem.CourseDays)
	assert.Equal(t, 1.0, rem.PillsPerDose)
	assert.Equal(t, 0, rem.PillsInPack)
}

func TestParseAddReminderDroppedWithoutMedicine(t *testing.T) {
	_, ok := Parse(Raw{Kind: KindAddReminder, Body: "Anna||08:00"})
	assert.False(t, ok)
}

func TestParseShareAccessStripsAtSign(t *testing.T) {
	d, ok := Parse(Raw{Kind: KindShareAccess, Body: "@grandma_ira | grandmother"})
	require.True(t, ok)

	sh := d.(ShareAccess)
	assert.Equal(t, "grandma_ira", sh.Handle)
	assert.Equal(t, "grandmother", sh.Relation)
}

func TestParseCabinetDirectives(t *testing.T) {
	d, ok := Parse(Raw{Kind: KindCreateCabinet, Body: "Mom's cabinet"})
	require.True(t, ok)
	assert.Equal(t, "Mom's cabinet", d.(CreateCabinet).Name)

	d, ok = Parse(Raw{Kind: KindSwitchCabinet, Body: "mom"})
	require.True(t, ok)
	assert.Equal(t, "mom", d.(SwitchCabinet).Name)
}

func TestParseAllDropsInvalid(t *testing.T) {
	ds := ParseAll("[ADD_MEDICINE: Aspirin|10] [ADD_MEDICINE: |5] [REMOVE_MEDICINE: aspirin]")
	require.Len(t, ds, 2)
	assert.Equal(t, KindAddMedicine, ds[0].Kind())
	assert.Equal(t, KindRemoveMedicine, ds[1].Kind())
}

func TestSortForApplyCabinetsFirst(t *testing.T) {
	ds := ParseAll("[ADD_MEDICINE: Paracetamol|5] [CREATE_CABINET: Mom] [ADD_MEDICINE: Aspirin|1]")
	sorted := SortForApply(ds)

	require.Len(t, sorted, 3)
	assert.Equal(t, KindCreateCabinet, sorted[0].Kind())
	// Same-kind directives keep their textual order.
	assert.Equal(t, "Paracetamol", sorted[1].(AddMedicine).Name)
	assert.Equal(t, "Aspirin", sorted[2].(AddMedicine).Name)
}

func TestSortForApplyIsStable(t *testing.T) {
	ds := ParseAll("[SWITCH_CABINET: travel] [CREATE_CABINET: Dacha] [SHARE_ACCESS: @bob] [REMOVE_MEDICINE: x]")
	sorted := SortForApply(ds)

	require.Len(t, sorted, 4)
	assert.Equal(t, KindCreateCabinet, sorted[0].Kind())
	assert.Equal(t, KindSwitchCabinet, sorted[1].Kind())
	assert.Equal(t, KindShareAccess, sorted[2].Kind())
	assert.Equal(t, KindRemoveMedicine, sorted[3].Kind())
}

func TestScheduleTimesPerDay(t *testing.T) {
	assert.Equal(t, 1, ScheduleTimesPerDay("08:00"))
	assert.Equal(t, 3, ScheduleTimesPerDay("08:00, 14:00, 20:00"))
	assert.Equal(t, 1, ScheduleTimesPerDay(""))
	assert.Equal(t, 2, ScheduleTimesPerDay("08:00,,20:00"))
}

func TestParseExpiryTimezoneFree(t *testing.T) {
	d, _ := Parse(Raw{Kind: KindAddMedicine, Body: "Aspirin|1||2026-01-01"})
	med := d.(AddMedicine)
	require.NotNil(t, med.Expiry)
	assert.Equal(t, time.UTC, med.Expiry.Location())
}
