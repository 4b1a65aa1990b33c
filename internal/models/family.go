package models

import "time"

// FamilyMember represents a person in a user's household. Age, gender and
// relation are all optional.
type FamilyMember struct {
	ID        int64     `json:"id" db:"id"`
	OwnerID   int64     `json:"owner_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Age       *int      `json:"age" db:"age"`
	Gender    string    `json:"gender" db:"gender"`
	Relation  string    `json:"relation" db:"relation"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// IsValid reports whether the row carries real data rather than
// placeholder tokens echoed back by a malfunctioning generation.
func (m *FamilyMember) IsValid() bool {
	if m.Name == "" || IsPlaceholderName(m.Name) {
		return false
	}
	if IsPlaceholderGender(m.Gender) || IsPlaceholderRelation(m.Relation) {
		return false
	}
	return true
}
