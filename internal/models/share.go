package models

import "time"

// SharedAccess grants read access to the owner's inventory. The grantee is
// identified by Telegram username at grant time; GranteeID is linked once
// that user first contacts the bot. At most one grant exists per
// (owner, grantee) pair.
type SharedAccess struct {
	ID              int64     `json:"id" db:"id"`
	OwnerID         int64     `json:"owner_id" db:"owner_id"`
	GranteeID       int64     `json:"grantee_id" db:"shared_with_id"`
	GranteeUsername string    `json:"grantee_username" db:"shared_with_username"`
	Relation        string    `json:"relation" db:"relation"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}
