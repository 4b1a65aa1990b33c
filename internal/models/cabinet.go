package models

import (
	"strings"
	"time"
)

// DefaultCabinetID is the implicit cabinet every user owns before any
// cabinet row exists for them.
const DefaultCabinetID = 0

// DefaultCabinetName is the display name of the implicit default cabinet.
const DefaultCabinetName = "My cabinet"

// Cabinet is a named partition of a user's inventory. Exactly one cabinet
// is active per user at any time; id 0 is the implicit default.
type Cabinet struct {
	ID        int64     `json:"id" db:"id"`
	OwnerID   int64     `json:"owner_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	IsDefault bool      `json:"is_default" db:"is_default"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// defaultCabinetSynonyms are names that resolve a cabinet switch back to
// the implicit default cabinet when no real cabinet matches.
var defaultCabinetSynonyms = map[string]struct{}{
	"my cabinet": {},
	"default":    {},
	"main":       {},
	"home":       {},
	"my":         {},
	"mine":       {},
}

// IsDefaultCabinetName reports whether name is a recognized synonym for
// the implicit default cabinet.
func IsDefaultCabinetName(name string) bool {
	_, ok := defaultCabinetSynonyms[strings.ToLower(strings.TrimSpace(name))]
	return ok
}
