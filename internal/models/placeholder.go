package models

import "strings"

// Known placeholder tokens the generation occasionally echoes back instead
// of real field values. Rows carrying them must never be shown to the user
// and are purged periodically. The sets cover the prompt's own field names
// in both English and Russian.
var (
	placeholderNames = map[string]struct{}{
		"имя": {}, "name": {}, "test": {}, "член_семьи": {}, "member": {},
		"family_member": {},
	}
	placeholderMedicines = map[string]struct{}{
		"лекарство": {}, "medicine": {}, "test": {}, "название": {},
	}
	placeholderGenders = map[string]struct{}{
		"пол": {}, "gender": {},
	}
	placeholderRelations = map[string]struct{}{
		"отношение": {}, "relation": {},
	}
)

func isPlaceholder(set map[string]struct{}, v string) bool {
	_, ok := set[strings.ToLower(strings.TrimSpace(v))]
	return ok
}

// IsPlaceholderName reports whether v is a placeholder person name.
func IsPlaceholderName(v string) bool { return isPlaceholder(placeholderNames, v) }

// IsPlaceholderMedicine reports whether v is a placeholder medicine name.
func IsPlaceholderMedicine(v string) bool { return isPlaceholder(placeholderMedicines, v) }

// IsPlaceholderGender reports whether v is a placeholder gender value.
func IsPlaceholderGender(v string) bool { return isPlaceholder(placeholderGenders, v) }

// IsPlaceholderRelation reports whether v is a placeholder relation value.
func IsPlaceholderRelation(v string) bool { return isPlaceholder(placeholderRelations, v) }

// PlaceholderNames returns the placeholder person-name tokens for use in
// purge queries.
func PlaceholderNames() []string { return setToSlice(placeholderNames) }

// PlaceholderMedicines returns the placeholder medicine tokens for use in
// purge queries.
func PlaceholderMedicines() []string { return setToSlice(placeholderMedicines) }

func setToSlice(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	return out
}
