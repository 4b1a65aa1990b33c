package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlaceholderPredicates(t *testing.T) {
	assert.True(t, IsPlaceholderName("имя"))
	assert.True(t, IsPlaceholderName(" Name "))
	assert.True(t, IsPlaceholderName("TEST"))
	assert.False(t, IsPlaceholderName("Anna"))
	assert.False(t, IsPlaceholderName(""))

	assert.True(t, IsPlaceholderMedicine("лекарство"))
	assert.True(t, IsPlaceholderMedicine("Medicine"))
	assert.False(t, IsPlaceholderMedicine("Aspirin"))

	assert.True(t, IsPlaceholderGender("пол"))
	assert.False(t, IsPlaceholderGender("female"))
	assert.False(t, IsPlaceholderGender(""))

	assert.True(t, IsPlaceholderRelation("relation"))
	assert.False(t, IsPlaceholderRelation("daughter"))
}

func TestPlaceholderTokenLists(t *testing.T) {
	names := PlaceholderNames()
	assert.Contains(t, names, "имя")
	assert.Contains(t, names, "member")

	meds := PlaceholderMedicines()
	assert.Contains(t, meds, "лекарство")
	assert.Contains(t, meds, "medicine")
}

func TestFamilyMemberIsValid(t *testing.T) {
	age := 8
	tests := []struct {
		name   string
		member FamilyMember
		want   bool
	}{
		{"real member", FamilyMember{Name: "Anna", Age: &age, Gender: "female", Relation: "daughter"}, true},
		{"name only", FamilyMember{Name: "Boris"}, true},
		{"empty name", FamilyMember{}, false},
		{"placeholder name", FamilyMember{Name: "имя"}, false},
		{"placeholder gender", FamilyMember{Name: "Anna", Gender: "пол"}, false},
		{"placeholder relation", FamilyMember{Name: "Anna", Relation: "отношение"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.member.IsValid())
		})
	}
}

func TestIsDefaultCabinetName(t *testing.T) {
	assert.True(t, IsDefaultCabinetName("default"))
	assert.True(t, IsDefaultCabinetName("My Cabinet"))
	assert.True(t, IsDefaultCabinetName(" main "))
	assert.False(t, IsDefaultCabinetName("travel kit"))
	assert.False(t, IsDefaultCabinetName(""))
}
